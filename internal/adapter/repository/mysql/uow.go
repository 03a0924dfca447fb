package mysql

import (
	"context"

	"sinfopers/internal/domain/request"
	"sinfopers/internal/domain/uow"

	"gorm.io/gorm"
)

type GormUoW struct{ db *gorm.DB }

func NewGormUoW(db *gorm.DB) *GormUoW { return &GormUoW{db: db} }

// NewRepos binds every repository to db, which may be a transaction.
func NewRepos(db *gorm.DB) uow.Repos {
	refs := &ReferenceRepository{db: db}
	return uow.Repos{
		Slots:      &StaffingRepository{db: db},
		Units:      refs,
		Personnel:  &PersonnelRepository{db: db},
		References: refs,
		Requests:   &RequestRepository{db: db},
		Balances:   &LeaveRepository{db: db},
		Users:      &UserRepository{db: db},
		Notices:    &InformationRepository{db: db},
	}
}

func (u *GormUoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepos(tx))
	})
}

func (u *GormUoW) WithinRequestTx(ctx context.Context, requestID string, fn func(r uow.Repos, req *request.Request) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := NewRepos(tx)
		// lock the request row up-front so concurrent reviews serialize
		req, err := r.Requests.GetByRequestIDForUpdate(ctx, requestID)
		if err != nil {
			return err
		}
		return fn(r, req)
	})
}
