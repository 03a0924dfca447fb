package mysql

import (
	"context"
	"time"

	requestDomain "sinfopers/internal/domain/request"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RequestRepository struct{ db *gorm.DB }

func NewRequestRepository(db *gorm.DB) *RequestRepository { return &RequestRepository{db: db} }

func (r *RequestRepository) Create(ctx context.Context, req *requestDomain.Request) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *RequestRepository) GetByRequestID(ctx context.Context, requestID string) (*requestDomain.Request, error) {
	var out requestDomain.Request
	res := r.db.WithContext(ctx).Where("request_id = ?", requestID).First(&out)
	return &out, res.Error
}

func (r *RequestRepository) GetByRequestIDForUpdate(ctx context.Context, requestID string) (*requestDomain.Request, error) {
	var out requestDomain.Request
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("request_id = ?", requestID).
		First(&out)
	return &out, res.Error
}

func (r *RequestRepository) List(ctx context.Context, f requestDomain.Filter) ([]requestDomain.Request, error) {
	q := r.db.WithContext(ctx).Model(&requestDomain.Request{})
	if f.RequesterID != 0 {
		q = q.Where("requester_id = ?", f.RequesterID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	var out []requestDomain.Request
	res := q.Order("created_at DESC, id DESC").Find(&out)
	return out, res.Error
}

// Transition is a compare-and-set on status: a concurrent writer that got
// there first leaves zero rows to update.
func (r *RequestRepository) Transition(ctx context.Context, id uint64, from requestDomain.Status, fields map[string]any) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&requestDomain.Request{}).
		Where("id = ? AND status = ?", id, from).
		Updates(fields)
	return res.RowsAffected, res.Error
}

func (r *RequestRepository) ExpireStale(ctx context.Context, cutoff, now time.Time, note string) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&requestDomain.Request{}).
		Where("status = ? AND created_at < ?", requestDomain.StatusPendingHR, cutoff).
		UpdateColumns(map[string]any{
			"status":     requestDomain.StatusInvalid,
			"hr_note":    note,
			"updated_at": now,
		})
	return res.RowsAffected, res.Error
}

func (r *RequestRepository) CountStale(ctx context.Context, cutoff time.Time) (int64, error) {
	var n int64
	res := r.db.WithContext(ctx).
		Model(&requestDomain.Request{}).
		Where("status = ? AND created_at < ?", requestDomain.StatusPendingHR, cutoff).
		Count(&n)
	return n, res.Error
}
