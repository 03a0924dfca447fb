package staffing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"sinfopers/internal/apperr"
	domain "sinfopers/internal/domain/staffing"
	"sinfopers/internal/domain/uow"
	"sinfopers/internal/logger"

	"gorm.io/gorm"
)

// civilianRanks are the rank names created as PNS POLRI when a quota sheet
// introduces them.
var civilianRanks = map[string]bool{"IV": true, "III": true, "II/I": true}

// Ledger keeps quotas and answers capacity questions. Occupancy is always
// counted live from personnel.
type Ledger struct {
	slots domain.Repository
	refs  domain.ReferenceRepository
	uow   uow.UnitOfWork
	log   *slog.Logger
}

func NewLedger(slots domain.Repository, refs domain.ReferenceRepository, tx uow.UnitOfWork) *Ledger {
	return &Ledger{slots: slots, refs: refs, uow: tx, log: logger.WithComponent("staffing")}
}

// GetOccupancy counts active personnel in unitID holding any of rankIDs.
func (l *Ledger) GetOccupancy(ctx context.Context, unitID uint64, rankIDs []uint64) (int64, error) {
	return l.slots.CountActive(ctx, unitID, rankIDs)
}

// ResolveSlot returns the slot covering (unit, rank) with its row locked for
// the rest of the caller's transaction. Legacy duplicates resolve to the
// lowest id.
func (l *Ledger) ResolveSlot(ctx context.Context, r uow.Repos, unitID, rankID uint64) (*domain.Slot, error) {
	slots, err := r.Slots.FindCoveringForUpdate(ctx, unitID, rankID)
	if err != nil {
		return nil, err
	}
	if len(slots) == 0 {
		return nil, apperr.Detail(domain.ErrSlotNotFound, "unit %d, rank %d", unitID, rankID)
	}
	if len(slots) > 1 {
		ids := make([]uint64, 0, len(slots))
		for _, s := range slots {
			ids = append(ids, s.ID)
		}
		l.log.Warn("several slots cover one unit and rank, using the lowest id",
			"unit_id", unitID, "rank_id", rankID, "slot_ids", ids)
	}
	return &slots[0], nil
}

// CheckCapacity resolves the slot covering (unit, rank) and fails when it is
// full. It must run inside the caller's transaction: the slot row stays
// locked until commit and occupancy is counted with a locking read, so two
// admissions into one slot cannot both pass.
func (l *Ledger) CheckCapacity(ctx context.Context, r uow.Repos, unitID, rankID uint64) (*domain.Slot, error) {
	slot, err := l.ResolveSlot(ctx, r, unitID, rankID)
	if err != nil {
		return nil, err
	}
	occupancy, err := r.Slots.CountActiveForShare(ctx, slot.UnitID, slot.RankIDs())
	if err != nil {
		return nil, err
	}
	if err := domain.CheckCapacity(slot, occupancy); err != nil {
		return nil, err
	}
	return slot, nil
}

// Capacity reports the slot covering (unit, rank) and how many places are
// left. Available is negative when a lowered quota left the slot over.
func (l *Ledger) Capacity(ctx context.Context, unitID, rankID uint64) (*CapacityDTO, error) {
	var out *CapacityDTO
	err := l.uow.WithinTx(ctx, func(r uow.Repos) error {
		slot, err := l.ResolveSlot(ctx, r, unitID, rankID)
		if err != nil {
			return err
		}
		occupancy, err := r.Slots.CountActive(ctx, slot.UnitID, slot.RankIDs())
		if err != nil {
			return err
		}
		out = &CapacityDTO{
			Slot:      toSlotDTO(slot, occupancy),
			Available: int64(slot.Quota) - occupancy,
			Full:      domain.CheckCapacity(slot, occupancy) != nil,
		}
		return nil
	})
	return out, err
}

// SetQuota changes a slot's quota. Existing personnel are never evicted, so
// occupancy may end up above the new quota.
func (l *Ledger) SetQuota(ctx context.Context, slotID uint64, quota int) (*SlotDTO, error) {
	if quota < 0 {
		return nil, domain.ErrNegativeQuota
	}
	var dto *SlotDTO
	err := l.uow.WithinTx(ctx, func(r uow.Repos) error {
		s, err := r.Slots.GetSlot(ctx, slotID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.Detail(domain.ErrSlotNotFound, "slot %d", slotID)
			}
			return err
		}
		if err := r.Slots.UpdateQuota(ctx, s.ID, quota); err != nil {
			return err
		}
		s.Quota = quota
		occupancy, err := r.Slots.CountActive(ctx, s.UnitID, s.RankIDs())
		if err != nil {
			return err
		}
		out := toSlotDTO(s, occupancy)
		dto = &out
		return nil
	})
	if err != nil {
		return nil, err
	}
	l.log.Info("quota updated", "slot_id", slotID, "quota", quota, "occupancy", dto.Occupancy)
	return dto, nil
}

// CreateSlot opens a slot for a unit and a set of ranks. A rank may belong to
// only one slot per unit.
func (l *Ledger) CreateSlot(ctx context.Context, in CreateSlotInput) (*SlotDTO, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperr.Validation("slot name is required")
	}
	if in.Quota < 0 {
		return nil, domain.ErrNegativeQuota
	}
	if len(in.RankIDs) == 0 {
		return nil, apperr.Validation("a slot needs at least one rank")
	}

	var dto *SlotDTO
	err := l.uow.WithinTx(ctx, func(r uow.Repos) error {
		if _, err := r.Units.GetUnit(ctx, in.UnitID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.Validation("unknown unit %d", in.UnitID)
			}
			return err
		}
		s := &domain.Slot{Name: name, UnitID: in.UnitID, Quota: in.Quota}
		seen := make(map[uint64]bool, len(in.RankIDs))
		for _, rankID := range in.RankIDs {
			if seen[rankID] {
				continue
			}
			seen[rankID] = true
			if _, err := r.Units.GetRank(ctx, rankID); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperr.Validation("unknown rank %d", rankID)
				}
				return err
			}
			covering, err := r.Slots.FindCoveringForUpdate(ctx, in.UnitID, rankID)
			if err != nil {
				return err
			}
			if len(covering) > 0 {
				return apperr.Detail(domain.ErrRankCovered, "rank %d is in slot %q", rankID, covering[0].Name)
			}
			s.Ranks = append(s.Ranks, domain.SlotRank{RankID: rankID})
		}
		if err := r.Slots.CreateSlot(ctx, s); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return domain.ErrRankCovered
			}
			return err
		}
		occupancy, err := r.Slots.CountActive(ctx, s.UnitID, s.RankIDs())
		if err != nil {
			return err
		}
		out := toSlotDTO(s, occupancy)
		dto = &out
		return nil
	})
	if err != nil {
		return nil, err
	}
	l.log.Info("slot created", "slot_id", dto.ID, "unit_id", dto.UnitID, "quota", dto.Quota)
	return dto, nil
}

// ImportQuotas applies a unit's quota sheet: for each rank name the rank and
// the unit's slot of the same name are created when missing, then the quota
// is set. All rows commit together.
func (l *Ledger) ImportQuotas(ctx context.Context, unitName string, rows []QuotaRow) (*Summary, error) {
	if len(rows) == 0 {
		return nil, apperr.Validation("quota sheet is empty")
	}
	for i, row := range rows {
		if strings.TrimSpace(row.Rank) == "" {
			return nil, apperr.Validation("row %d: rank is required", i+1)
		}
		if row.Quota < 0 {
			return nil, apperr.Detail(domain.ErrNegativeQuota, "row %d (%s)", i+1, row.Rank)
		}
	}

	err := l.uow.WithinTx(ctx, func(r uow.Repos) error {
		unit, err := r.Units.GetUnitByName(ctx, unitName)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.Validation("unknown unit %q", unitName)
			}
			return err
		}
		for _, row := range rows {
			rankName := strings.TrimSpace(row.Rank)
			rank, err := l.getOrCreateRank(ctx, r, rankName)
			if err != nil {
				return err
			}
			slot, err := r.Slots.FindByUnitAndName(ctx, unit.ID, rankName)
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				slot = &domain.Slot{
					Name:   rankName,
					UnitID: unit.ID,
					Quota:  row.Quota,
					Ranks:  []domain.SlotRank{{RankID: rank.ID}},
				}
				if err := r.Slots.CreateSlot(ctx, slot); err != nil {
					if errors.Is(err, gorm.ErrDuplicatedKey) {
						return apperr.Detail(domain.ErrRankCovered, "unit %s, rank %s", unit.Name, rankName)
					}
					return err
				}
				l.log.Info("slot created from quota sheet", "unit", unit.Name, "rank", rankName, "quota", row.Quota)
			case err != nil:
				return err
			default:
				if err := r.Slots.UpdateQuota(ctx, slot.ID, row.Quota); err != nil {
					return err
				}
				l.log.Info("quota updated from quota sheet", "unit", unit.Name, "rank", rankName, "quota", row.Quota)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return l.Summary(ctx)
}

func (l *Ledger) getOrCreateRank(ctx context.Context, r uow.Repos, name string) (*domain.Rank, error) {
	rank, err := r.Units.GetRankByName(ctx, name)
	if err == nil {
		return rank, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	category := domain.CategoryPolice
	if civilianRanks[name] {
		category = domain.CategoryCivilian
	}
	rank = &domain.Rank{Name: name, Category: category}
	if err := r.Units.CreateRank(ctx, rank); err != nil {
		return nil, fmt.Errorf("create rank %s: %w", name, err)
	}
	l.log.Info("rank created from quota sheet", "rank", name, "category", category)
	return rank, nil
}

// ListSlots returns every slot with its live occupancy.
func (l *Ledger) ListSlots(ctx context.Context) ([]SlotDTO, error) {
	slots, err := l.slots.ListSlots(ctx)
	if err != nil {
		return nil, err
	}
	counts, err := l.slots.CountActiveGrouped(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]SlotDTO, 0, len(slots))
	for i := range slots {
		out = append(out, toSlotDTO(&slots[i], occupancyOf(&slots[i], counts)))
	}
	return out, nil
}

func occupancyOf(s *domain.Slot, counts map[domain.OccupancyKey]int64) int64 {
	var n int64
	for _, rk := range s.Ranks {
		n += counts[domain.OccupancyKey{UnitID: s.UnitID, RankID: rk.RankID}]
	}
	return n
}

// Summary builds the staffing report from one grouped occupancy count.
func (l *Ledger) Summary(ctx context.Context) (*Summary, error) {
	units, err := l.refs.ListUnits(ctx)
	if err != nil {
		return nil, err
	}
	ranks, err := l.refs.ListRanks(ctx)
	if err != nil {
		return nil, err
	}
	slots, err := l.slots.ListSlots(ctx)
	if err != nil {
		return nil, err
	}
	counts, err := l.slots.CountActiveGrouped(ctx)
	if err != nil {
		return nil, err
	}

	categoryOf := make(map[uint64]domain.RankCategory, len(ranks))
	for _, rk := range ranks {
		categoryOf[rk.ID] = rk.Category
	}
	byUnit := make(map[uint64][]domain.Slot)
	for _, s := range slots {
		byUnit[s.UnitID] = append(byUnit[s.UnitID], s)
	}

	sum := &Summary{
		Units:      make([]UnitSummary, 0, len(units)),
		BySlot:     make(map[string]Totals),
		ByCategory: make(map[domain.RankCategory]Totals, len(domain.Categories)),
	}
	for _, u := range units {
		us := UnitSummary{Unit: u.Name}
		for _, c := range domain.Categories {
			us.Categories = append(us.Categories, CategorySummary{Category: c, Slots: []SlotLine{}})
		}
		unitSlots := byUnit[u.ID]
		sort.Slice(unitSlots, func(i, j int) bool { return unitSlots[i].ID < unitSlots[j].ID })

		for i := range unitSlots {
			s := &unitSlots[i]
			occupancy := occupancyOf(s, counts)
			cs := us.Category(slotCategory(s, categoryOf))
			cs.Slots = append(cs.Slots, SlotLine{
				Name:      s.Name,
				Quota:     s.Quota,
				Occupancy: occupancy,
				Message:   domain.Balance(u.Name, s.Name, s.Quota, occupancy),
			})
			cs.Total.add(s.Quota, occupancy)
			us.Total.add(s.Quota, occupancy)

			t := sum.BySlot[s.Name]
			t.add(s.Quota, occupancy)
			sum.BySlot[s.Name] = t
			ct := sum.ByCategory[cs.Category]
			ct.add(s.Quota, occupancy)
			sum.ByCategory[cs.Category] = ct
			sum.GrandTotal.add(s.Quota, occupancy)
		}
		sum.Units = append(sum.Units, us)
	}
	return sum, nil
}

// slotCategory: a slot holding any civilian rank reports as civilian.
func slotCategory(s *domain.Slot, categoryOf map[uint64]domain.RankCategory) domain.RankCategory {
	for _, rk := range s.Ranks {
		if categoryOf[rk.RankID] == domain.CategoryCivilian {
			return domain.CategoryCivilian
		}
	}
	return domain.CategoryPolice
}

// Ranks lists the rank master, used for report columns.
func (l *Ledger) Ranks(ctx context.Context) ([]domain.Rank, error) {
	return l.refs.ListRanks(ctx)
}
