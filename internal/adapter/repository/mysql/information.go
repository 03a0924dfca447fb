package mysql

import (
	"context"

	"sinfopers/internal/domain/information"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type InformationRepository struct{ db *gorm.DB }

func NewInformationRepository(db *gorm.DB) *InformationRepository {
	return &InformationRepository{db: db}
}

func (r *InformationRepository) Create(ctx context.Context, a *information.Announcement) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *InformationRepository) GetByInformationID(ctx context.Context, informationID string) (*information.Announcement, error) {
	var out information.Announcement
	res := r.db.WithContext(ctx).Where("information_id = ?", informationID).First(&out)
	return &out, res.Error
}

func (r *InformationRepository) GetByInformationIDForUpdate(ctx context.Context, informationID string) (*information.Announcement, error) {
	var out information.Announcement
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("information_id = ?", informationID).
		First(&out)
	return &out, res.Error
}

func (r *InformationRepository) List(ctx context.Context, limit int) ([]information.Announcement, error) {
	q := r.db.WithContext(ctx).Order("created_at DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var out []information.Announcement
	res := q.Find(&out)
	return out, res.Error
}

func (r *InformationRepository) Update(ctx context.Context, id uint64, fields map[string]any) error {
	res := r.db.WithContext(ctx).
		Model(&information.Announcement{}).
		Where("id = ?", id).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *InformationRepository) Delete(ctx context.Context, id uint64) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&information.Announcement{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *InformationRepository) AppendLog(ctx context.Context, l *information.Log) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *InformationRepository) ListLogs(ctx context.Context, informationID string) ([]information.Log, error) {
	var out []information.Log
	res := r.db.WithContext(ctx).
		Where("information_id = ?", informationID).
		Order("created_at DESC, id DESC").
		Find(&out)
	return out, res.Error
}
