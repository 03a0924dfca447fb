package leave

import (
	"context"
	"errors"
	"fmt"

	"sinfopers/internal/apperr"
	domainLeave "sinfopers/internal/domain/leave"
	domainPersonnel "sinfopers/internal/domain/personnel"
	"sinfopers/internal/domain/uow"

	"gorm.io/gorm"
)

// Tracker owns yearly leave balances.
type Tracker struct {
	uow         uow.UnitOfWork
	entitlement int
}

// NewTracker: entitlement is the allowance written into new balances; zero
// or less falls back to the default of 12.
func NewTracker(tx uow.UnitOfWork, entitlement int) *Tracker {
	if entitlement <= 0 {
		entitlement = domainLeave.DefaultEntitlement
	}
	return &Tracker{uow: tx, entitlement: entitlement}
}

// GetOrCreateForYear returns the balance for (personnel, year), creating it
// with the carry-over from the previous year when absent. Concurrent callers
// converge on one row: the insert is a no-op for the loser and both re-read.
func (t *Tracker) GetOrCreateForYear(ctx context.Context, r uow.Repos, personnelID uint64, year int) (*domainLeave.Balance, error) {
	b, err := r.Balances.Get(ctx, personnelID, year)
	if err == nil {
		return b, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var prev *domainLeave.Balance
	if p, err := r.Balances.Get(ctx, personnelID, year-1); err == nil {
		prev = p
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	fresh := &domainLeave.Balance{
		PersonnelID: personnelID,
		Year:        year,
		Entitlement: t.entitlement,
		CarriedOver: domainLeave.CarryOverFrom(prev),
	}
	if err := r.Balances.CreateIfAbsent(ctx, fresh); err != nil {
		return nil, fmt.Errorf("create leave balance: %w", err)
	}
	return r.Balances.Get(ctx, personnelID, year)
}

// Consume debits days from b and returns the updated balance. The increment
// is guarded in storage, so a concurrent debit that would overdraw loses with
// ErrOverdraw.
func (t *Tracker) Consume(ctx context.Context, r uow.Repos, b *domainLeave.Balance, days int) (*domainLeave.Balance, error) {
	if err := domainLeave.CanConsume(b, days); err != nil {
		return nil, err
	}
	n, err := r.Balances.AddConsumed(ctx, b.ID, days)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, apperr.Detail(domainLeave.ErrOverdraw, "balance changed concurrently")
	}
	out := *b
	out.Consumed += days
	return &out, nil
}

// Balance resolves the public personnel id and returns its balance for year,
// creating the row if needed.
func (t *Tracker) Balance(ctx context.Context, personnelID string, year int) (*BalanceDTO, error) {
	if year < 1 {
		return nil, apperr.Validation("invalid year %d", year)
	}
	var dto *BalanceDTO
	err := t.uow.WithinTx(ctx, func(r uow.Repos) error {
		p, err := r.Personnel.GetByPersonnelID(ctx, personnelID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainPersonnel.ErrNotFound
			}
			return err
		}
		b, err := t.GetOrCreateForYear(ctx, r, p.ID, year)
		if err != nil {
			return err
		}
		dto = toDTO(p.PersonnelID, b)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}
