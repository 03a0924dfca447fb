package uowmock

import (
	"context"
	"errors"
	"testing"

	"sinfopers/internal/domain/request"
	"sinfopers/internal/domain/uow"
	"sinfopers/internal/testutil/leavemock"
	"sinfopers/internal/testutil/requestmock"
)

func TestUoW_WithinTx_Happy(t *testing.T) {
	ctx := context.Background()

	reqs := &requestmock.Repo{}
	bals := &leavemock.Repo{}
	repos := uow.Repos{Requests: reqs, Balances: bals}

	innerCalled := false
	m := &UoW{
		WithinTxFn: func(gotCtx context.Context, fn func(r uow.Repos) error) error {
			if gotCtx != ctx {
				t.Fatalf("WithinTx: ctx mismatch")
			}
			if fn == nil {
				t.Fatalf("WithinTx: fn is nil")
			}
			// simulate transaction body
			return fn(repos)
		},
	}

	err := m.WithinTx(ctx, func(r uow.Repos) error {
		innerCalled = true
		if r.Requests != reqs || r.Balances != bals {
			t.Fatalf("WithinTx: repos not forwarded correctly")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WithinTx: unexpected err: %v", err)
	}
	if !innerCalled {
		t.Fatalf("WithinTx: inner fn not called")
	}
}

func TestUoW_WithinTx_PropagatesError(t *testing.T) {
	ctx := context.Background()
	sentinel := errors.New("boom")

	m := &UoW{
		WithinTxFn: func(context.Context, func(uow.Repos) error) error {
			return sentinel
		},
	}
	if err := m.WithinTx(ctx, func(uow.Repos) error { return nil }); !errors.Is(err, sentinel) {
		t.Fatalf("WithinTx: want %v, got %v", sentinel, err)
	}
}

func TestUoW_Default_Unimplemented(t *testing.T) {
	ctx := context.Background()
	m := &UoW{} // no funcs set
	if err := m.WithinTx(ctx, func(uow.Repos) error { return nil }); !errors.Is(err, errUnimplemented) {
		t.Fatalf("WithinTx default: want errUnimplemented, got %v", err)
	}
	if err := m.WithinRequestTx(ctx, "RQ-X", func(uow.Repos, *request.Request) error { return nil }); !errors.Is(err, errUnimplemented) {
		t.Fatalf("WithinRequestTx default: want errUnimplemented, got %v", err)
	}
}

func TestBound_WithinRequestTx_LocksThenRuns(t *testing.T) {
	ctx := context.Background()
	locked := &request.Request{ID: 7, RequestID: "RQ-7"}

	var gotID string
	reqs := &requestmock.Repo{
		GetByRequestIDForUpdateFn: func(_ context.Context, requestID string) (*request.Request, error) {
			gotID = requestID
			return locked, nil
		},
	}
	m := Bound(uow.Repos{Requests: reqs})

	innerCalled := false
	err := m.WithinRequestTx(ctx, "RQ-7", func(r uow.Repos, req *request.Request) error {
		innerCalled = true
		if req != locked {
			t.Fatalf("WithinRequestTx: request not forwarded: %+v", req)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WithinRequestTx: unexpected err: %v", err)
	}
	if gotID != "RQ-7" || !innerCalled {
		t.Fatalf("WithinRequestTx: lock id %q, inner called %v", gotID, innerCalled)
	}
}

func TestBound_WithinRequestTx_LockErrorSkipsBody(t *testing.T) {
	sentinel := errors.New("no rows")
	reqs := &requestmock.Repo{
		GetByRequestIDForUpdateFn: func(context.Context, string) (*request.Request, error) {
			return nil, sentinel
		},
	}
	m := Bound(uow.Repos{Requests: reqs})
	err := m.WithinRequestTx(context.Background(), "RQ-X", func(uow.Repos, *request.Request) error {
		t.Fatalf("body must not run")
		return nil
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("WithinRequestTx: want %v, got %v", sentinel, err)
	}
}

func TestUoW_FluentSetters_And_Reset(t *testing.T) {
	m := New()
	if m.WithinTxFn != nil || m.WithinRequestTxFn != nil {
		t.Fatalf("New should start with nil funcs")
	}

	m.WithWithinTx(func(context.Context, func(uow.Repos) error) error { return nil }).
		WithWithinRequestTx(func(context.Context, string, func(uow.Repos, *request.Request) error) error { return nil })

	if m.WithinTxFn == nil || m.WithinRequestTxFn == nil {
		t.Fatalf("fluent setters didn't assign funcs")
	}

	m.Reset()
	if m.WithinTxFn != nil || m.WithinRequestTxFn != nil {
		t.Fatalf("Reset should clear function fields")
	}
}
