package requestmock

import (
	"context"
	"time"

	domain "sinfopers/internal/domain/request"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
// Writes default to no-ops; reads default to context.Canceled.
type Repo struct {
	CreateFn                  func(ctx context.Context, r *domain.Request) error
	GetByRequestIDFn          func(ctx context.Context, requestID string) (*domain.Request, error)
	GetByRequestIDForUpdateFn func(ctx context.Context, requestID string) (*domain.Request, error)
	ListFn                    func(ctx context.Context, f domain.Filter) ([]domain.Request, error)
	TransitionFn              func(ctx context.Context, id uint64, from domain.Status, fields map[string]any) (int64, error)
	ExpireStaleFn             func(ctx context.Context, cutoff, now time.Time, note string) (int64, error)
	CountStaleFn              func(ctx context.Context, cutoff time.Time) (int64, error)
}

func (m *Repo) Create(ctx context.Context, r *domain.Request) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, r)
	}
	return nil
}

func (m *Repo) GetByRequestID(ctx context.Context, requestID string) (*domain.Request, error) {
	if m.GetByRequestIDFn != nil {
		return m.GetByRequestIDFn(ctx, requestID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByRequestIDForUpdate(ctx context.Context, requestID string) (*domain.Request, error) {
	if m.GetByRequestIDForUpdateFn != nil {
		return m.GetByRequestIDForUpdateFn(ctx, requestID)
	}
	return nil, context.Canceled
}

func (m *Repo) List(ctx context.Context, f domain.Filter) ([]domain.Request, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, f)
	}
	return nil, context.Canceled
}

func (m *Repo) Transition(ctx context.Context, id uint64, from domain.Status, fields map[string]any) (int64, error) {
	if m.TransitionFn != nil {
		return m.TransitionFn(ctx, id, from, fields)
	}
	return 1, nil
}

func (m *Repo) ExpireStale(ctx context.Context, cutoff, now time.Time, note string) (int64, error) {
	if m.ExpireStaleFn != nil {
		return m.ExpireStaleFn(ctx, cutoff, now, note)
	}
	return 0, nil
}

func (m *Repo) CountStale(ctx context.Context, cutoff time.Time) (int64, error) {
	if m.CountStaleFn != nil {
		return m.CountStaleFn(ctx, cutoff)
	}
	return 0, nil
}
