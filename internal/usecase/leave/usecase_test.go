package leave

import (
	"context"
	"errors"
	"testing"

	domainLeave "sinfopers/internal/domain/leave"
	"sinfopers/internal/domain/uow"
	"sinfopers/internal/testutil/leavemock"
	"sinfopers/internal/testutil/uowmock"

	"gorm.io/gorm"
)

func TestTracker_GetOrCreateForYear(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name        string
		prev        *domainLeave.Balance
		wantCarried int
	}{
		{name: "first year", prev: nil, wantCarried: 0},
		{name: "small remainder carries", prev: &domainLeave.Balance{Year: 2024, Entitlement: 12, Consumed: 7}, wantCarried: 5},
		{name: "carry capped at twelve", prev: &domainLeave.Balance{Year: 2024, Entitlement: 12, CarriedOver: 12, Consumed: 2}, wantCarried: 12},
		{name: "overdrawn year carries nothing", prev: &domainLeave.Balance{Year: 2024, Entitlement: 12, Consumed: 14}, wantCarried: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stored *domainLeave.Balance
			repo := &leavemock.Repo{
				GetFn: func(_ context.Context, personnelID uint64, year int) (*domainLeave.Balance, error) {
					switch {
					case year == 2025 && stored != nil:
						return stored, nil
					case year == 2024 && tt.prev != nil:
						return tt.prev, nil
					}
					return nil, gorm.ErrRecordNotFound
				},
				CreateIfAbsentFn: func(_ context.Context, b *domainLeave.Balance) error {
					b.ID = 1
					stored = b
					return nil
				},
			}
			tr := NewTracker(uowmock.New(), 0)

			b, err := tr.GetOrCreateForYear(ctx, uow.Repos{Balances: repo}, 9, 2025)
			if err != nil {
				t.Fatalf("unexpected err: %v", err)
			}
			if b.Entitlement != domainLeave.DefaultEntitlement || b.CarriedOver != tt.wantCarried {
				t.Fatalf("got entitlement=%d carried=%d, want 12/%d", b.Entitlement, b.CarriedOver, tt.wantCarried)
			}
		})
	}
}

func TestTracker_GetOrCreateForYear_ExistingRowUntouched(t *testing.T) {
	existing := &domainLeave.Balance{ID: 4, Year: 2025, Entitlement: 12, Consumed: 3}
	repo := &leavemock.Repo{
		GetFn: func(context.Context, uint64, int) (*domainLeave.Balance, error) { return existing, nil },
		CreateIfAbsentFn: func(context.Context, *domainLeave.Balance) error {
			t.Fatalf("CreateIfAbsent must not be called")
			return nil
		},
	}
	b, err := NewTracker(uowmock.New(), 14).GetOrCreateForYear(context.Background(), uow.Repos{Balances: repo}, 9, 2025)
	if err != nil || b != existing {
		t.Fatalf("got %+v, %v", b, err)
	}
}

func TestTracker_Consume(t *testing.T) {
	ctx := context.Background()
	bal := &domainLeave.Balance{ID: 2, Entitlement: 12, CarriedOver: 2, Consumed: 10}

	t.Run("fits", func(t *testing.T) {
		repo := &leavemock.Repo{}
		got, err := NewTracker(uowmock.New(), 0).Consume(ctx, uow.Repos{Balances: repo}, bal, 4)
		if err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
		if got.Consumed != 14 || domainLeave.Remaining(got) != 0 {
			t.Fatalf("unexpected balance: %+v", got)
		}
		if bal.Consumed != 10 {
			t.Fatalf("input balance mutated")
		}
	})

	t.Run("overdraw refused before storage", func(t *testing.T) {
		repo := &leavemock.Repo{
			AddConsumedFn: func(context.Context, uint64, int) (int64, error) {
				t.Fatalf("AddConsumed must not be called")
				return 0, nil
			},
		}
		_, err := NewTracker(uowmock.New(), 0).Consume(ctx, uow.Repos{Balances: repo}, bal, 5)
		if !errors.Is(err, domainLeave.ErrOverdraw) {
			t.Fatalf("want ErrOverdraw, got %v", err)
		}
	})

	t.Run("concurrent debit wins", func(t *testing.T) {
		repo := &leavemock.Repo{
			AddConsumedFn: func(context.Context, uint64, int) (int64, error) { return 0, nil },
		}
		_, err := NewTracker(uowmock.New(), 0).Consume(ctx, uow.Repos{Balances: repo}, bal, 1)
		if !errors.Is(err, domainLeave.ErrOverdraw) {
			t.Fatalf("want ErrOverdraw, got %v", err)
		}
	})
}
