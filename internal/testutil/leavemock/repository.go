package leavemock

import (
	"context"

	domain "sinfopers/internal/domain/leave"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	GetFn            func(ctx context.Context, personnelID uint64, year int) (*domain.Balance, error)
	CreateIfAbsentFn func(ctx context.Context, b *domain.Balance) error
	AddConsumedFn    func(ctx context.Context, id uint64, days int) (int64, error)
}

func (m *Repo) Get(ctx context.Context, personnelID uint64, year int) (*domain.Balance, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, personnelID, year)
	}
	return nil, context.Canceled
}

func (m *Repo) CreateIfAbsent(ctx context.Context, b *domain.Balance) error {
	if m.CreateIfAbsentFn != nil {
		return m.CreateIfAbsentFn(ctx, b)
	}
	return nil
}

func (m *Repo) AddConsumed(ctx context.Context, id uint64, days int) (int64, error) {
	if m.AddConsumedFn != nil {
		return m.AddConsumedFn(ctx, id, days)
	}
	return 1, nil
}
