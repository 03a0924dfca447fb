package staffingmock

import (
	"context"

	domain "sinfopers/internal/domain/staffing"
)

var (
	_ domain.Repository          = (*Repo)(nil)
	_ domain.ReferenceRepository = (*RefRepo)(nil)
)

// Repo is a function-backed mock that satisfies domain.Repository.
// Writes default to no-ops; reads default to context.Canceled.
type Repo struct {
	CreateSlotFn            func(ctx context.Context, s *domain.Slot) error
	GetSlotFn               func(ctx context.Context, id uint64) (*domain.Slot, error)
	ListSlotsFn             func(ctx context.Context) ([]domain.Slot, error)
	FindCoveringForUpdateFn func(ctx context.Context, unitID, rankID uint64) ([]domain.Slot, error)
	FindByUnitAndNameFn     func(ctx context.Context, unitID uint64, name string) (*domain.Slot, error)
	AddRankFn               func(ctx context.Context, s *domain.Slot, rankID uint64) error
	UpdateQuotaFn           func(ctx context.Context, id uint64, quota int) error
	CountActiveFn           func(ctx context.Context, unitID uint64, rankIDs []uint64) (int64, error)
	CountActiveForShareFn   func(ctx context.Context, unitID uint64, rankIDs []uint64) (int64, error)
	CountActiveGroupedFn    func(ctx context.Context) (map[domain.OccupancyKey]int64, error)
}

func (m *Repo) CreateSlot(ctx context.Context, s *domain.Slot) error {
	if m.CreateSlotFn != nil {
		return m.CreateSlotFn(ctx, s)
	}
	return nil
}

func (m *Repo) GetSlot(ctx context.Context, id uint64) (*domain.Slot, error) {
	if m.GetSlotFn != nil {
		return m.GetSlotFn(ctx, id)
	}
	return nil, context.Canceled
}

func (m *Repo) ListSlots(ctx context.Context) ([]domain.Slot, error) {
	if m.ListSlotsFn != nil {
		return m.ListSlotsFn(ctx)
	}
	return nil, context.Canceled
}

func (m *Repo) FindCoveringForUpdate(ctx context.Context, unitID, rankID uint64) ([]domain.Slot, error) {
	if m.FindCoveringForUpdateFn != nil {
		return m.FindCoveringForUpdateFn(ctx, unitID, rankID)
	}
	return nil, context.Canceled
}

func (m *Repo) FindByUnitAndName(ctx context.Context, unitID uint64, name string) (*domain.Slot, error) {
	if m.FindByUnitAndNameFn != nil {
		return m.FindByUnitAndNameFn(ctx, unitID, name)
	}
	return nil, context.Canceled
}

func (m *Repo) AddRank(ctx context.Context, s *domain.Slot, rankID uint64) error {
	if m.AddRankFn != nil {
		return m.AddRankFn(ctx, s, rankID)
	}
	return nil
}

func (m *Repo) UpdateQuota(ctx context.Context, id uint64, quota int) error {
	if m.UpdateQuotaFn != nil {
		return m.UpdateQuotaFn(ctx, id, quota)
	}
	return nil
}

func (m *Repo) CountActive(ctx context.Context, unitID uint64, rankIDs []uint64) (int64, error) {
	if m.CountActiveFn != nil {
		return m.CountActiveFn(ctx, unitID, rankIDs)
	}
	return 0, nil
}

func (m *Repo) CountActiveForShare(ctx context.Context, unitID uint64, rankIDs []uint64) (int64, error) {
	if m.CountActiveForShareFn != nil {
		return m.CountActiveForShareFn(ctx, unitID, rankIDs)
	}
	return 0, nil
}

func (m *Repo) CountActiveGrouped(ctx context.Context) (map[domain.OccupancyKey]int64, error) {
	if m.CountActiveGroupedFn != nil {
		return m.CountActiveGroupedFn(ctx)
	}
	return map[domain.OccupancyKey]int64{}, nil
}

// RefRepo mocks the unit and rank masters.
type RefRepo struct {
	CreateUnitFn    func(ctx context.Context, u *domain.Unit) error
	GetUnitFn       func(ctx context.Context, id uint64) (*domain.Unit, error)
	GetUnitByNameFn func(ctx context.Context, name string) (*domain.Unit, error)
	ListUnitsFn     func(ctx context.Context) ([]domain.Unit, error)
	CreateRankFn    func(ctx context.Context, r *domain.Rank) error
	GetRankFn       func(ctx context.Context, id uint64) (*domain.Rank, error)
	GetRankByNameFn func(ctx context.Context, name string) (*domain.Rank, error)
	ListRanksFn     func(ctx context.Context) ([]domain.Rank, error)
}

func (m *RefRepo) CreateUnit(ctx context.Context, u *domain.Unit) error {
	if m.CreateUnitFn != nil {
		return m.CreateUnitFn(ctx, u)
	}
	return nil
}

func (m *RefRepo) GetUnit(ctx context.Context, id uint64) (*domain.Unit, error) {
	if m.GetUnitFn != nil {
		return m.GetUnitFn(ctx, id)
	}
	return nil, context.Canceled
}

func (m *RefRepo) GetUnitByName(ctx context.Context, name string) (*domain.Unit, error) {
	if m.GetUnitByNameFn != nil {
		return m.GetUnitByNameFn(ctx, name)
	}
	return nil, context.Canceled
}

func (m *RefRepo) ListUnits(ctx context.Context) ([]domain.Unit, error) {
	if m.ListUnitsFn != nil {
		return m.ListUnitsFn(ctx)
	}
	return nil, context.Canceled
}

func (m *RefRepo) CreateRank(ctx context.Context, r *domain.Rank) error {
	if m.CreateRankFn != nil {
		return m.CreateRankFn(ctx, r)
	}
	return nil
}

func (m *RefRepo) GetRank(ctx context.Context, id uint64) (*domain.Rank, error) {
	if m.GetRankFn != nil {
		return m.GetRankFn(ctx, id)
	}
	return nil, context.Canceled
}

func (m *RefRepo) GetRankByName(ctx context.Context, name string) (*domain.Rank, error) {
	if m.GetRankByNameFn != nil {
		return m.GetRankByNameFn(ctx, name)
	}
	return nil, context.Canceled
}

func (m *RefRepo) ListRanks(ctx context.Context) ([]domain.Rank, error) {
	if m.ListRanksFn != nil {
		return m.ListRanksFn(ctx)
	}
	return nil, context.Canceled
}
