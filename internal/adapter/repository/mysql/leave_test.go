package mysql

import (
	"context"
	"errors"
	"testing"

	leaveDomain "sinfopers/internal/domain/leave"
	"sinfopers/internal/testutil/sqlitedb"

	"gorm.io/gorm"
)

func TestLeave_CreateIfAbsentKeepsFirst(t *testing.T) {
	db := sqlitedb.Open(t)
	repo := NewLeaveRepository(db)
	ctx := context.Background()
	p := seedPersonnel(t, db)

	if _, err := repo.Get(ctx, p.ID, 2024); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}

	first := &leaveDomain.Balance{PersonnelID: p.ID, Year: 2024, Entitlement: 12, CarriedOver: 3}
	if err := repo.CreateIfAbsent(ctx, first); err != nil {
		t.Fatalf("CreateIfAbsent: %v", err)
	}
	second := &leaveDomain.Balance{PersonnelID: p.ID, Year: 2024, Entitlement: 20}
	if err := repo.CreateIfAbsent(ctx, second); err != nil {
		t.Fatalf("CreateIfAbsent again: %v", err)
	}

	got, err := repo.Get(ctx, p.ID, 2024)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Entitlement != 12 || got.CarriedOver != 3 {
		t.Fatalf("balance overwritten: %+v", got)
	}
}

func TestLeave_AddConsumedNeverOverdraws(t *testing.T) {
	db := sqlitedb.Open(t)
	repo := NewLeaveRepository(db)
	ctx := context.Background()
	p := seedPersonnel(t, db)

	b := &leaveDomain.Balance{PersonnelID: p.ID, Year: 2025, Entitlement: 12, CarriedOver: 2}
	if err := repo.CreateIfAbsent(ctx, b); err != nil {
		t.Fatalf("CreateIfAbsent: %v", err)
	}
	got, _ := repo.Get(ctx, p.ID, 2025)

	if n, err := repo.AddConsumed(ctx, got.ID, 10); err != nil || n != 1 {
		t.Fatalf("AddConsumed 10: n=%d err=%v", n, err)
	}
	if n, err := repo.AddConsumed(ctx, got.ID, 5); err != nil || n != 0 {
		t.Fatalf("AddConsumed past the limit: n=%d err=%v", n, err)
	}
	if n, err := repo.AddConsumed(ctx, got.ID, 4); err != nil || n != 1 {
		t.Fatalf("AddConsumed up to the limit: n=%d err=%v", n, err)
	}

	got, _ = repo.Get(ctx, p.ID, 2025)
	if got.Consumed != 14 {
		t.Fatalf("consumed = %d, want 14", got.Consumed)
	}
}
