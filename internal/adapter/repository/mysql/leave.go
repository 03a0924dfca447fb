package mysql

import (
	"context"

	leaveDomain "sinfopers/internal/domain/leave"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LeaveRepository struct{ db *gorm.DB }

func NewLeaveRepository(db *gorm.DB) *LeaveRepository { return &LeaveRepository{db: db} }

func (r *LeaveRepository) Get(ctx context.Context, personnelID uint64, year int) (*leaveDomain.Balance, error) {
	var out leaveDomain.Balance
	res := r.db.WithContext(ctx).
		Where("personnel_id = ? AND year = ?", personnelID, year).
		First(&out)
	return &out, res.Error
}

// CreateIfAbsent relies on the (personnel_id, year) unique index; the loser of
// a concurrent insert is a no-op and reads the winner's row afterwards.
func (r *LeaveRepository) CreateIfAbsent(ctx context.Context, b *leaveDomain.Balance) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(b).Error
}

func (r *LeaveRepository) AddConsumed(ctx context.Context, id uint64, days int) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&leaveDomain.Balance{}).
		Where("id = ? AND consumed + ? <= entitlement + carried_over", id, days).
		Updates(map[string]any{"consumed": gorm.Expr("consumed + ?", days)})
	return res.RowsAffected, res.Error
}
