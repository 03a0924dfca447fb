package leave

import (
	"context"
	"time"

	"sinfopers/internal/apperr"
)

var (
	ErrOverdraw    = apperr.New(apperr.KindValidation, "leave balance is insufficient")
	ErrInvalidDays = apperr.New(apperr.KindValidation, "leave days must be positive")
)

const (
	DefaultEntitlement = 12
	MaxCarryOver       = 12
)

type Balance struct {
	ID          uint64    `gorm:"primaryKey;column:id" json:"-"`
	PersonnelID uint64    `gorm:"not null;uniqueIndex:ux_leave_balances_personnel_year,priority:1" json:"personnel_id"`
	Year        int       `gorm:"not null;uniqueIndex:ux_leave_balances_personnel_year,priority:2" json:"year"`
	Entitlement int       `gorm:"not null" json:"entitlement"`
	Consumed    int       `gorm:"not null;default:0" json:"consumed"`
	CarriedOver int       `gorm:"not null;default:0" json:"carried_over"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Balance) TableName() string { return "leave_balances" }

func (b *Balance) Ceiling() int { return b.Entitlement + b.CarriedOver }

// Remaining is entitlement plus carry-over minus what has been consumed.
func Remaining(b *Balance) int { return b.Ceiling() - b.Consumed }

// CanConsume reports whether days fit in the balance.
func CanConsume(b *Balance, days int) error {
	if days <= 0 {
		return ErrInvalidDays
	}
	if b.Consumed+days > b.Ceiling() {
		return apperr.Detail(ErrOverdraw, "requested %d days, %d remaining for %d", days, Remaining(b), b.Year)
	}
	return nil
}

// CarryOverFrom is what a new year inherits from the previous year's balance.
func CarryOverFrom(prev *Balance) int {
	if prev == nil {
		return 0
	}
	r := Remaining(prev)
	if r < 0 {
		return 0
	}
	if r > MaxCarryOver {
		return MaxCarryOver
	}
	return r
}

type Repository interface {
	Get(ctx context.Context, personnelID uint64, year int) (*Balance, error)
	// CreateIfAbsent inserts b unless a row for the same person and year exists.
	CreateIfAbsent(ctx context.Context, b *Balance) error
	// AddConsumed increments consumed by days only when the result stays within
	// the ceiling, returning the number of rows changed.
	AddConsumed(ctx context.Context, id uint64, days int) (int64, error)
}
