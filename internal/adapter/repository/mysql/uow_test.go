package mysql

import (
	"context"
	"errors"
	"testing"
	"time"

	"sinfopers/internal/domain/identity"
	leaveDomain "sinfopers/internal/domain/leave"
	requestDomain "sinfopers/internal/domain/request"
	"sinfopers/internal/domain/uow"
	"sinfopers/internal/testutil/sqlitedb"
	"sinfopers/pkg/id"

	"gorm.io/gorm"
)

func TestGormUoW_WithinTx_Commit(t *testing.T) {
	db := sqlitedb.Open(t)
	ctx := context.Background()
	p := seedPersonnel(t, db)

	err := NewGormUoW(db).WithinTx(ctx, func(r uow.Repos) error {
		if err := r.Users.Create(ctx, &identity.User{Username: "sarah", Role: identity.RoleHR}); err != nil {
			return err
		}
		return r.Balances.CreateIfAbsent(ctx, &leaveDomain.Balance{PersonnelID: p.ID, Year: 2024, Entitlement: 12})
	})
	if err != nil {
		t.Fatalf("WithinTx commit err: %v", err)
	}

	if _, err := NewUserRepository(db).GetByUsername(ctx, "sarah"); err != nil {
		t.Fatalf("user not visible after commit: %v", err)
	}
	if _, err := NewLeaveRepository(db).Get(ctx, p.ID, 2024); err != nil {
		t.Fatalf("balance not visible after commit: %v", err)
	}
}

func TestGormUoW_WithinTx_Rollback(t *testing.T) {
	db := sqlitedb.Open(t)
	ctx := context.Background()
	p := seedPersonnel(t, db)
	sentinel := errors.New("boom")

	err := NewGormUoW(db).WithinTx(ctx, func(r uow.Repos) error {
		if err := r.Users.Create(ctx, &identity.User{Username: "rolled", Role: identity.RoleMember}); err != nil {
			return err
		}
		if err := r.Balances.CreateIfAbsent(ctx, &leaveDomain.Balance{PersonnelID: p.ID, Year: 2024, Entitlement: 12}); err != nil {
			return err
		}
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected sentinel, got %v", err)
	}

	if _, err := NewUserRepository(db).GetByUsername(ctx, "rolled"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected user not found after rollback, got %v", err)
	}
	if _, err := NewLeaveRepository(db).Get(ctx, p.ID, 2024); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected balance not found after rollback, got %v", err)
	}
}

func TestGormUoW_WithinRequestTx(t *testing.T) {
	db := sqlitedb.Open(t)
	ctx := context.Background()
	p := seedPersonnel(t, db)
	repo := NewRequestRepository(db)
	guow := NewGormUoW(db)

	seed := makeTransfer(1, p.ID, time.Now().UTC())
	if err := repo.Create(ctx, seed); err != nil {
		t.Fatalf("seed request: %v", err)
	}

	err := guow.WithinRequestTx(ctx, seed.RequestID, func(r uow.Repos, req *requestDomain.Request) error {
		if req.RequestID != seed.RequestID || req.Status != requestDomain.StatusPendingHR {
			t.Fatalf("unexpected request passed to fn: %+v", req)
		}
		_, err := r.Requests.Transition(ctx, req.ID, req.Status, map[string]any{"status": requestDomain.StatusValid})
		return err
	})
	if err != nil {
		t.Fatalf("WithinRequestTx commit err: %v", err)
	}
	got, _ := repo.GetByRequestID(ctx, seed.RequestID)
	if got.Status != requestDomain.StatusValid {
		t.Fatalf("status = %s, want valid", got.Status)
	}

	// rollback leaves the row as it was
	_ = guow.WithinRequestTx(ctx, seed.RequestID, func(r uow.Repos, req *requestDomain.Request) error {
		if _, err := r.Requests.Transition(ctx, req.ID, req.Status, map[string]any{"status": requestDomain.StatusApproved}); err != nil {
			return err
		}
		return errors.New("stop")
	})
	got, _ = repo.GetByRequestID(ctx, seed.RequestID)
	if got.Status != requestDomain.StatusValid {
		t.Fatalf("status after rollback = %s, want valid", got.Status)
	}

	called := false
	err = guow.WithinRequestTx(ctx, id.NewID32(), func(uow.Repos, *requestDomain.Request) error {
		called = true
		return nil
	})
	if !errors.Is(err, gorm.ErrRecordNotFound) || called {
		t.Fatalf("missing request: err=%v called=%v", err, called)
	}
}
