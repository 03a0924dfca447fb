package mysql

import (
	"context"

	personnelDomain "sinfopers/internal/domain/personnel"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PersonnelRepository struct{ db *gorm.DB }

func NewPersonnelRepository(db *gorm.DB) *PersonnelRepository { return &PersonnelRepository{db: db} }

func (r *PersonnelRepository) Create(ctx context.Context, p *personnelDomain.Personnel) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *PersonnelRepository) Save(ctx context.Context, p *personnelDomain.Personnel) error {
	return r.db.WithContext(ctx).Save(p).Error
}

// Delete removes the row for good; personnel has no soft delete.
func (r *PersonnelRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Delete(&personnelDomain.Personnel{}, id).Error
}

func (r *PersonnelRepository) GetByPersonnelID(ctx context.Context, personnelID string) (*personnelDomain.Personnel, error) {
	var out personnelDomain.Personnel
	res := r.db.WithContext(ctx).Where("personnel_id = ?", personnelID).First(&out)
	return &out, res.Error
}

func (r *PersonnelRepository) GetByPersonnelIDForUpdate(ctx context.Context, personnelID string) (*personnelDomain.Personnel, error) {
	var out personnelDomain.Personnel
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("personnel_id = ?", personnelID).
		First(&out)
	return &out, res.Error
}

func (r *PersonnelRepository) GetByID(ctx context.Context, id uint64) (*personnelDomain.Personnel, error) {
	var out personnelDomain.Personnel
	res := r.db.WithContext(ctx).Where("id = ?", id).First(&out)
	return &out, res.Error
}

func (r *PersonnelRepository) GetByUserID(ctx context.Context, userID uint64) (*personnelDomain.Personnel, error) {
	var out personnelDomain.Personnel
	res := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&out)
	return &out, res.Error
}

func (r *PersonnelRepository) ExistsNRP(ctx context.Context, nrp int64) (bool, error) {
	var n int64
	res := r.db.WithContext(ctx).
		Model(&personnelDomain.Personnel{}).
		Where("nrp = ?", nrp).
		Count(&n)
	return n > 0, res.Error
}
