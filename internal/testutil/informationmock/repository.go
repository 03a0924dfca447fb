package informationmock

import (
	"context"

	domain "sinfopers/internal/domain/information"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
// Writes default to no-ops; reads default to context.Canceled.
type Repo struct {
	CreateFn                      func(ctx context.Context, a *domain.Announcement) error
	GetByInformationIDFn          func(ctx context.Context, informationID string) (*domain.Announcement, error)
	GetByInformationIDForUpdateFn func(ctx context.Context, informationID string) (*domain.Announcement, error)
	ListFn                        func(ctx context.Context, limit int) ([]domain.Announcement, error)
	UpdateFn                      func(ctx context.Context, id uint64, fields map[string]any) error
	DeleteFn                      func(ctx context.Context, id uint64) error
	AppendLogFn                   func(ctx context.Context, l *domain.Log) error
	ListLogsFn                    func(ctx context.Context, informationID string) ([]domain.Log, error)
}

func (m *Repo) Create(ctx context.Context, a *domain.Announcement) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, a)
	}
	return nil
}

func (m *Repo) GetByInformationID(ctx context.Context, informationID string) (*domain.Announcement, error) {
	if m.GetByInformationIDFn != nil {
		return m.GetByInformationIDFn(ctx, informationID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByInformationIDForUpdate(ctx context.Context, informationID string) (*domain.Announcement, error) {
	if m.GetByInformationIDForUpdateFn != nil {
		return m.GetByInformationIDForUpdateFn(ctx, informationID)
	}
	return nil, context.Canceled
}

func (m *Repo) List(ctx context.Context, limit int) ([]domain.Announcement, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, limit)
	}
	return nil, context.Canceled
}

func (m *Repo) Update(ctx context.Context, id uint64, fields map[string]any) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, id, fields)
	}
	return nil
}

func (m *Repo) Delete(ctx context.Context, id uint64) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return nil
}

func (m *Repo) AppendLog(ctx context.Context, l *domain.Log) error {
	if m.AppendLogFn != nil {
		return m.AppendLogFn(ctx, l)
	}
	return nil
}

func (m *Repo) ListLogs(ctx context.Context, informationID string) ([]domain.Log, error) {
	if m.ListLogsFn != nil {
		return m.ListLogsFn(ctx, informationID)
	}
	return nil, context.Canceled
}
