package mysql

import (
	"context"

	"sinfopers/internal/domain/personnel"
	"sinfopers/internal/domain/staffing"

	"gorm.io/gorm"
)

// ReferenceRepository serves the master tables: units, ranks, sub-departments
// and job titles.
type ReferenceRepository struct{ db *gorm.DB }

func NewReferenceRepository(db *gorm.DB) *ReferenceRepository { return &ReferenceRepository{db: db} }

func (r *ReferenceRepository) CreateUnit(ctx context.Context, u *staffing.Unit) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *ReferenceRepository) GetUnit(ctx context.Context, id uint64) (*staffing.Unit, error) {
	var out staffing.Unit
	res := r.db.WithContext(ctx).Where("id = ?", id).First(&out)
	return &out, res.Error
}

func (r *ReferenceRepository) GetUnitByName(ctx context.Context, name string) (*staffing.Unit, error) {
	var out staffing.Unit
	res := r.db.WithContext(ctx).Where("name = ?", name).First(&out)
	return &out, res.Error
}

func (r *ReferenceRepository) ListUnits(ctx context.Context) ([]staffing.Unit, error) {
	var out []staffing.Unit
	res := r.db.WithContext(ctx).Order("sort_order ASC, name ASC").Find(&out)
	return out, res.Error
}

func (r *ReferenceRepository) CreateRank(ctx context.Context, rk *staffing.Rank) error {
	return r.db.WithContext(ctx).Create(rk).Error
}

func (r *ReferenceRepository) GetRank(ctx context.Context, id uint64) (*staffing.Rank, error) {
	var out staffing.Rank
	res := r.db.WithContext(ctx).Where("id = ?", id).First(&out)
	return &out, res.Error
}

func (r *ReferenceRepository) GetRankByName(ctx context.Context, name string) (*staffing.Rank, error) {
	var out staffing.Rank
	res := r.db.WithContext(ctx).Where("name = ?", name).First(&out)
	return &out, res.Error
}

func (r *ReferenceRepository) ListRanks(ctx context.Context) ([]staffing.Rank, error) {
	var out []staffing.Rank
	res := r.db.WithContext(ctx).Order("id ASC").Find(&out)
	return out, res.Error
}

func (r *ReferenceRepository) CreateSubDepartment(ctx context.Context, s *personnel.SubDepartment) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *ReferenceRepository) GetSubDepartment(ctx context.Context, id uint64) (*personnel.SubDepartment, error) {
	var out personnel.SubDepartment
	res := r.db.WithContext(ctx).Where("id = ?", id).First(&out)
	return &out, res.Error
}

func (r *ReferenceRepository) GetSubDepartmentByName(ctx context.Context, name string) (*personnel.SubDepartment, error) {
	var out personnel.SubDepartment
	res := r.db.WithContext(ctx).Where("name = ?", name).First(&out)
	return &out, res.Error
}

func (r *ReferenceRepository) CreateJobTitle(ctx context.Context, j *personnel.JobTitle) error {
	return r.db.WithContext(ctx).Create(j).Error
}

func (r *ReferenceRepository) GetJobTitle(ctx context.Context, id uint64) (*personnel.JobTitle, error) {
	var out personnel.JobTitle
	res := r.db.WithContext(ctx).Where("id = ?", id).First(&out)
	return &out, res.Error
}

func (r *ReferenceRepository) GetJobTitleByName(ctx context.Context, name string) (*personnel.JobTitle, error) {
	var out personnel.JobTitle
	res := r.db.WithContext(ctx).Where("name = ?", name).First(&out)
	return &out, res.Error
}
