package personnelmock

import (
	"context"

	domain "sinfopers/internal/domain/personnel"
)

var (
	_ domain.Repository          = (*Repo)(nil)
	_ domain.ReferenceRepository = (*RefRepo)(nil)
)

// Repo is a function-backed mock that satisfies domain.Repository.
// Writes default to no-ops; reads default to context.Canceled.
type Repo struct {
	CreateFn                    func(ctx context.Context, p *domain.Personnel) error
	GetByPersonnelIDFn          func(ctx context.Context, personnelID string) (*domain.Personnel, error)
	GetByPersonnelIDForUpdateFn func(ctx context.Context, personnelID string) (*domain.Personnel, error)
	GetByIDFn                   func(ctx context.Context, id uint64) (*domain.Personnel, error)
	GetByUserIDFn               func(ctx context.Context, userID uint64) (*domain.Personnel, error)
	ExistsNRPFn                 func(ctx context.Context, nrp int64) (bool, error)
	SaveFn                      func(ctx context.Context, p *domain.Personnel) error
	DeleteFn                    func(ctx context.Context, id uint64) error
}

func (m *Repo) Create(ctx context.Context, p *domain.Personnel) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, p)
	}
	return nil
}

func (m *Repo) GetByPersonnelID(ctx context.Context, personnelID string) (*domain.Personnel, error) {
	if m.GetByPersonnelIDFn != nil {
		return m.GetByPersonnelIDFn(ctx, personnelID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByPersonnelIDForUpdate(ctx context.Context, personnelID string) (*domain.Personnel, error) {
	if m.GetByPersonnelIDForUpdateFn != nil {
		return m.GetByPersonnelIDForUpdateFn(ctx, personnelID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByID(ctx context.Context, id uint64) (*domain.Personnel, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByUserID(ctx context.Context, userID uint64) (*domain.Personnel, error) {
	if m.GetByUserIDFn != nil {
		return m.GetByUserIDFn(ctx, userID)
	}
	return nil, context.Canceled
}

func (m *Repo) ExistsNRP(ctx context.Context, nrp int64) (bool, error) {
	if m.ExistsNRPFn != nil {
		return m.ExistsNRPFn(ctx, nrp)
	}
	return false, nil
}

func (m *Repo) Save(ctx context.Context, p *domain.Personnel) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, p)
	}
	return nil
}

func (m *Repo) Delete(ctx context.Context, id uint64) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return nil
}

// RefRepo mocks the sub-department and job title masters.
type RefRepo struct {
	CreateSubDepartmentFn    func(ctx context.Context, s *domain.SubDepartment) error
	GetSubDepartmentFn       func(ctx context.Context, id uint64) (*domain.SubDepartment, error)
	GetSubDepartmentByNameFn func(ctx context.Context, name string) (*domain.SubDepartment, error)
	CreateJobTitleFn         func(ctx context.Context, j *domain.JobTitle) error
	GetJobTitleFn            func(ctx context.Context, id uint64) (*domain.JobTitle, error)
	GetJobTitleByNameFn      func(ctx context.Context, name string) (*domain.JobTitle, error)
}

func (m *RefRepo) CreateSubDepartment(ctx context.Context, s *domain.SubDepartment) error {
	if m.CreateSubDepartmentFn != nil {
		return m.CreateSubDepartmentFn(ctx, s)
	}
	return nil
}

func (m *RefRepo) GetSubDepartment(ctx context.Context, id uint64) (*domain.SubDepartment, error) {
	if m.GetSubDepartmentFn != nil {
		return m.GetSubDepartmentFn(ctx, id)
	}
	return nil, context.Canceled
}

func (m *RefRepo) GetSubDepartmentByName(ctx context.Context, name string) (*domain.SubDepartment, error) {
	if m.GetSubDepartmentByNameFn != nil {
		return m.GetSubDepartmentByNameFn(ctx, name)
	}
	return nil, context.Canceled
}

func (m *RefRepo) CreateJobTitle(ctx context.Context, j *domain.JobTitle) error {
	if m.CreateJobTitleFn != nil {
		return m.CreateJobTitleFn(ctx, j)
	}
	return nil
}

func (m *RefRepo) GetJobTitle(ctx context.Context, id uint64) (*domain.JobTitle, error) {
	if m.GetJobTitleFn != nil {
		return m.GetJobTitleFn(ctx, id)
	}
	return nil, context.Canceled
}

func (m *RefRepo) GetJobTitleByName(ctx context.Context, name string) (*domain.JobTitle, error) {
	if m.GetJobTitleByNameFn != nil {
		return m.GetJobTitleByNameFn(ctx, name)
	}
	return nil, context.Canceled
}
