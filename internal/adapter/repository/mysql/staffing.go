package mysql

import (
	"context"

	"sinfopers/internal/domain/personnel"
	"sinfopers/internal/domain/staffing"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type StaffingRepository struct{ db *gorm.DB }

func NewStaffingRepository(db *gorm.DB) *StaffingRepository { return &StaffingRepository{db: db} }

// CreateSlot inserts the slot, then its rank links one by one. Association
// saving would swallow unique violations (ON CONFLICT DO NOTHING), so links
// are plain inserts that inherit the slot's unit.
func (r *StaffingRepository) CreateSlot(ctx context.Context, s *staffing.Slot) error {
	links := s.Ranks
	s.Ranks = nil
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(s).Error; err != nil {
		return err
	}
	for _, l := range links {
		if err := r.AddRank(ctx, s, l.RankID); err != nil {
			return err
		}
	}
	return nil
}

func (r *StaffingRepository) GetSlot(ctx context.Context, id uint64) (*staffing.Slot, error) {
	var out staffing.Slot
	res := r.db.WithContext(ctx).Preload("Ranks").Where("id = ?", id).First(&out)
	return &out, res.Error
}

func (r *StaffingRepository) ListSlots(ctx context.Context) ([]staffing.Slot, error) {
	var out []staffing.Slot
	res := r.db.WithContext(ctx).Preload("Ranks").Order("unit_id ASC, id ASC").Find(&out)
	return out, res.Error
}

func (r *StaffingRepository) FindCoveringForUpdate(ctx context.Context, unitID, rankID uint64) ([]staffing.Slot, error) {
	covering := r.db.Model(&staffing.SlotRank{}).
		Select("slot_id").
		Where("unit_id = ? AND rank_id = ?", unitID, rankID)

	var slots []staffing.Slot
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("unit_id = ? AND id IN (?)", unitID, covering).
		Order("id ASC").
		Find(&slots)
	if res.Error != nil {
		return nil, res.Error
	}
	if len(slots) == 0 {
		return slots, nil
	}

	// ranks are loaded outside the locking statement
	ids := make([]uint64, 0, len(slots))
	for _, s := range slots {
		ids = append(ids, s.ID)
	}
	var links []staffing.SlotRank
	if err := r.db.WithContext(ctx).Where("slot_id IN ?", ids).Order("id ASC").Find(&links).Error; err != nil {
		return nil, err
	}
	for i := range slots {
		for _, l := range links {
			if l.SlotID == slots[i].ID {
				slots[i].Ranks = append(slots[i].Ranks, l)
			}
		}
	}
	return slots, nil
}

func (r *StaffingRepository) FindByUnitAndName(ctx context.Context, unitID uint64, name string) (*staffing.Slot, error) {
	var out staffing.Slot
	res := r.db.WithContext(ctx).
		Preload("Ranks").
		Where("unit_id = ? AND name = ?", unitID, name).
		Order("id ASC").
		First(&out)
	return &out, res.Error
}

func (r *StaffingRepository) AddRank(ctx context.Context, s *staffing.Slot, rankID uint64) error {
	link := staffing.SlotRank{SlotID: s.ID, UnitID: s.UnitID, RankID: rankID}
	if err := r.db.WithContext(ctx).Create(&link).Error; err != nil {
		return err
	}
	s.Ranks = append(s.Ranks, link)
	return nil
}

func (r *StaffingRepository) UpdateQuota(ctx context.Context, id uint64, quota int) error {
	return r.db.WithContext(ctx).
		Model(&staffing.Slot{}).
		Where("id = ?", id).
		Update("quota", quota).Error
}

// CountActive is the live occupancy of (unit, any of rankIDs).
func (r *StaffingRepository) CountActive(ctx context.Context, unitID uint64, rankIDs []uint64) (int64, error) {
	return r.countActive(r.db.WithContext(ctx), unitID, rankIDs)
}

// CountActiveForShare runs the count with FOR SHARE. Under REPEATABLE READ a
// plain count reads the snapshot taken by the transaction's first read, which
// can predate an admission committed while we waited for the slot lock.
func (r *StaffingRepository) CountActiveForShare(ctx context.Context, unitID uint64, rankIDs []uint64) (int64, error) {
	return r.countActive(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "SHARE"}), unitID, rankIDs)
}

func (r *StaffingRepository) countActive(db *gorm.DB, unitID uint64, rankIDs []uint64) (int64, error) {
	if len(rankIDs) == 0 {
		return 0, nil
	}
	var n int64
	res := db.Model(&personnel.Personnel{}).
		Where("unit_id = ? AND rank_id IN ? AND status = ?", unitID, rankIDs, personnel.StatusActive).
		Count(&n)
	return n, res.Error
}

func (r *StaffingRepository) CountActiveGrouped(ctx context.Context) (map[staffing.OccupancyKey]int64, error) {
	var rows []struct {
		UnitID uint64
		RankID uint64
		N      int64
	}
	res := r.db.WithContext(ctx).
		Model(&personnel.Personnel{}).
		Select("unit_id, rank_id, COUNT(*) AS n").
		Where("status = ?", personnel.StatusActive).
		Group("unit_id, rank_id").
		Scan(&rows)
	if res.Error != nil {
		return nil, res.Error
	}
	out := make(map[staffing.OccupancyKey]int64, len(rows))
	for _, row := range rows {
		out[staffing.OccupancyKey{UnitID: row.UnitID, RankID: row.RankID}] = row.N
	}
	return out, nil
}
