package staffing

import (
	"context"
	"fmt"
	"time"

	"sinfopers/internal/apperr"
)

var (
	ErrSlotNotFound     = apperr.New(apperr.KindNotFound, "no staffing slot covers this unit and rank")
	ErrCapacityExceeded = apperr.New(apperr.KindCapacityExceeded, "staffing slot is at capacity")
	ErrRankCovered      = apperr.New(apperr.KindConflict, "rank is already covered by a slot in this unit")
	ErrNegativeQuota    = apperr.New(apperr.KindValidation, "quota must not be negative")
)

type RankCategory string

const (
	CategoryPolice   RankCategory = "POLRI"
	CategoryCivilian RankCategory = "PNS POLRI"
)

var Categories = []RankCategory{CategoryPolice, CategoryCivilian}

func (c RankCategory) IsValid() bool { return c == CategoryPolice || c == CategoryCivilian }

// Unit is an organizational unit (satker). SortOrder drives report ordering.
type Unit struct {
	ID        uint64    `gorm:"primaryKey;column:id" json:"id"`
	Name      string    `gorm:"size:120;not null;uniqueIndex:ux_units_name" json:"name"`
	SortOrder int       `gorm:"not null;default:0" json:"sort_order"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"-"`
}

func (Unit) TableName() string { return "units" }

type Rank struct {
	ID        uint64       `gorm:"primaryKey;column:id" json:"id"`
	Name      string       `gorm:"size:60;not null;uniqueIndex:ux_ranks_name" json:"name"`
	Category  RankCategory `gorm:"size:20;not null" json:"category"`
	CreatedAt time.Time    `gorm:"autoCreateTime" json:"-"`
}

func (Rank) TableName() string { return "ranks" }

// Slot holds the authorized quota (DSP) for a unit and a set of ranks.
// Occupancy (Riil) is never stored on it.
type Slot struct {
	ID        uint64     `gorm:"primaryKey;column:id" json:"id"`
	Name      string     `gorm:"size:120;not null" json:"name"`
	UnitID    uint64     `gorm:"not null;index:idx_staffing_slots_unit" json:"unit_id"`
	Quota     int        `gorm:"not null;default:0" json:"quota"`
	Ranks     []SlotRank `gorm:"foreignKey:SlotID;constraint:OnDelete:CASCADE" json:"ranks"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Slot) TableName() string { return "staffing_slots" }

func (s *Slot) RankIDs() []uint64 {
	out := make([]uint64, 0, len(s.Ranks))
	for _, r := range s.Ranks {
		out = append(out, r.RankID)
	}
	return out
}

func (s *Slot) Covers(rankID uint64) bool {
	for _, r := range s.Ranks {
		if r.RankID == rankID {
			return true
		}
	}
	return false
}

// SlotRank links a slot to one rank. UnitID is copied from the slot so the
// (unit, rank) pair can carry a unique index.
type SlotRank struct {
	ID     uint64 `gorm:"primaryKey;column:id" json:"-"`
	SlotID uint64 `gorm:"not null;index" json:"-"`
	UnitID uint64 `gorm:"not null;uniqueIndex:ux_slot_ranks_unit_rank,priority:1" json:"-"`
	RankID uint64 `gorm:"not null;uniqueIndex:ux_slot_ranks_unit_rank,priority:2" json:"rank_id"`
}

func (SlotRank) TableName() string { return "slot_ranks" }

// CheckCapacity is the admission rule: a slot with occupancy at or above its
// quota admits nobody.
func CheckCapacity(s *Slot, occupancy int64) error {
	if occupancy >= int64(s.Quota) {
		return apperr.Detail(ErrCapacityExceeded, "slot %q: occupancy %d, quota %d", s.Name, occupancy, s.Quota)
	}
	return nil
}

// Balance describes how far occupancy is from the quota, as shown in reports.
func Balance(unitName, slotName string, quota int, occupancy int64) string {
	switch diff := int64(quota) - occupancy; {
	case diff > 0:
		return fmt.Sprintf("unit %s with rank %s is short of %d personnel", unitName, slotName, diff)
	case diff < 0:
		return fmt.Sprintf("unit %s with rank %s exceeds quota by %d personnel", unitName, slotName, -diff)
	}
	return ""
}

// OccupancyKey identifies one (unit, rank) bucket in a grouped count.
type OccupancyKey struct {
	UnitID uint64
	RankID uint64
}

type Repository interface {
	CreateSlot(ctx context.Context, s *Slot) error
	GetSlot(ctx context.Context, id uint64) (*Slot, error)
	ListSlots(ctx context.Context) ([]Slot, error)
	// FindCoveringForUpdate returns every slot covering (unit, rank), lowest
	// id first, with the rows locked for the rest of the transaction.
	FindCoveringForUpdate(ctx context.Context, unitID, rankID uint64) ([]Slot, error)
	FindByUnitAndName(ctx context.Context, unitID uint64, name string) (*Slot, error)
	AddRank(ctx context.Context, s *Slot, rankID uint64) error
	UpdateQuota(ctx context.Context, id uint64, quota int) error
	CountActive(ctx context.Context, unitID uint64, rankIDs []uint64) (int64, error)
	// CountActiveForShare is CountActive as a locking read: it sees rows
	// committed after the transaction's snapshot was taken.
	CountActiveForShare(ctx context.Context, unitID uint64, rankIDs []uint64) (int64, error)
	CountActiveGrouped(ctx context.Context) (map[OccupancyKey]int64, error)
}

type ReferenceRepository interface {
	CreateUnit(ctx context.Context, u *Unit) error
	GetUnit(ctx context.Context, id uint64) (*Unit, error)
	GetUnitByName(ctx context.Context, name string) (*Unit, error)
	ListUnits(ctx context.Context) ([]Unit, error)
	CreateRank(ctx context.Context, r *Rank) error
	GetRank(ctx context.Context, id uint64) (*Rank, error)
	GetRankByName(ctx context.Context, name string) (*Rank, error)
	ListRanks(ctx context.Context) ([]Rank, error)
}
