package request

import (
	"context"
	"errors"
	"testing"
	"time"

	"sinfopers/internal/apperr"
	"sinfopers/internal/domain/identity"
	domainLeave "sinfopers/internal/domain/leave"
	domainPersonnel "sinfopers/internal/domain/personnel"
	domain "sinfopers/internal/domain/request"
	"sinfopers/internal/domain/uow"
	"sinfopers/internal/testutil/personnelmock"
	"sinfopers/internal/testutil/requestmock"
	"sinfopers/internal/testutil/uowmock"

	"gorm.io/gorm"
)

var fixedNow = time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)

type stubBalances struct {
	balance  *domainLeave.Balance
	getErr   error
	consumed int
}

func (s *stubBalances) GetOrCreateForYear(_ context.Context, _ uow.Repos, personnelID uint64, year int) (*domainLeave.Balance, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	b := *s.balance
	b.PersonnelID, b.Year = personnelID, year
	return &b, nil
}

func (s *stubBalances) Consume(_ context.Context, _ uow.Repos, b *domainLeave.Balance, days int) (*domainLeave.Balance, error) {
	if err := domainLeave.CanConsume(b, days); err != nil {
		return nil, err
	}
	s.consumed += days
	out := *b
	out.Consumed += days
	return &out, nil
}

type fixture struct {
	requests *requestmock.Repo
	people   *personnelmock.Repo
	balances *stubBalances
	wf       *Workflow
}

func newFixture() *fixture {
	f := &fixture{
		requests: &requestmock.Repo{},
		people: &personnelmock.Repo{
			GetByUserIDFn: func(_ context.Context, userID uint64) (*domainPersonnel.Personnel, error) {
				if userID == 7 {
					return &domainPersonnel.Personnel{ID: 70}, nil
				}
				return nil, gorm.ErrRecordNotFound
			},
		},
		balances: &stubBalances{balance: &domainLeave.Balance{ID: 1, Entitlement: 12, Consumed: 10}},
	}
	tx := uowmock.Bound(uow.Repos{Requests: f.requests, Personnel: f.people})
	f.wf = NewWorkflow(f.requests, f.balances, tx, WithClock(func() time.Time { return fixedNow }))
	return f
}

var member = identity.Actor{UserID: 7, Role: identity.RoleMember}

func day(s string) time.Time {
	d, _ := time.Parse(dateLayout, s)
	return d
}

func TestSubmit_Validation(t *testing.T) {
	tests := []struct {
		name  string
		actor identity.Actor
		in    SubmitInput
		want  error
	}{
		{"actor without personnel record", identity.Actor{UserID: 2, Role: identity.RoleHR}, SubmitInput{Kind: domain.KindTransfer, Reason: "x", Destination: "y"}, domain.ErrNotMember},
		{"no reason", member, SubmitInput{Kind: domain.KindTransfer, Destination: "y"}, apperr.ErrValidation},
		{"unknown kind", member, SubmitInput{Kind: "promotion", Reason: "x"}, apperr.ErrValidation},
		{"missing dates", member, SubmitInput{Kind: domain.KindLeave, Reason: "x"}, apperr.ErrValidation},
		{"reversed range", member, SubmitInput{Kind: domain.KindLeave, Reason: "x", StartDate: day("2024-03-15"), EndDate: day("2024-03-12")}, domain.ErrDateRange},
		{"start in past", member, SubmitInput{Kind: domain.KindLeave, Reason: "x", StartDate: day("2024-03-09"), EndDate: day("2024-03-12")}, domain.ErrStartInPast},
		{"blank destination", member, SubmitInput{Kind: domain.KindTransfer, Reason: "x", Destination: "  "}, domain.ErrDestination},
		{"unlinked member", identity.Actor{UserID: 8, Role: identity.RoleMember}, SubmitInput{Kind: domain.KindTransfer, Reason: "x", Destination: "y"}, domain.ErrNotMember},
		{"overdraw", member, SubmitInput{Kind: domain.KindLeave, Reason: "x", StartDate: day("2024-03-11"), EndDate: day("2024-03-13")}, domainLeave.ErrOverdraw},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			created := false
			f.requests.CreateFn = func(context.Context, *domain.Request) error { created = true; return nil }

			_, err := f.wf.Submit(context.Background(), tt.actor, tt.in)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			if created {
				t.Fatal("request must not be stored")
			}
		})
	}
}

func TestSubmit_LeaveWithinBalance(t *testing.T) {
	f := newFixture()
	var stored *domain.Request
	f.requests.CreateFn = func(_ context.Context, r *domain.Request) error { stored = r; return nil }

	// today counts as a valid start
	got, err := f.wf.Submit(context.Background(), member, SubmitInput{
		Kind: domain.KindLeave, Reason: " family ", StartDate: day("2024-03-10"), EndDate: day("2024-03-11"),
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if stored == nil || stored.PersonnelID != 70 || stored.RequesterID != 7 {
		t.Fatalf("stored = %+v", stored)
	}
	if !stored.CreatedAt.Equal(fixedNow) || !stored.UpdatedAt.Equal(fixedNow) {
		t.Fatalf("timestamps = %s / %s, want the workflow clock", stored.CreatedAt, stored.UpdatedAt)
	}
	if got.Status != domain.StatusPendingHR || got.DayCount != 2 || got.Reason != "family" {
		t.Fatalf("dto = %+v", got)
	}
	if got.StartDate != "2024-03-10" || got.EndDate != "2024-03-11" {
		t.Fatalf("dates = %s..%s", got.StartDate, got.EndDate)
	}
	if len(got.RequestID) != 32 {
		t.Fatalf("request id %q", got.RequestID)
	}
	if f.balances.consumed != 0 {
		t.Fatal("submission must not debit the balance")
	}
}

func TestSubmit_Transfer(t *testing.T) {
	f := newFixture()
	f.balances.getErr = errors.New("balance must not be read")

	got, err := f.wf.Submit(context.Background(), member, SubmitInput{
		Kind: domain.KindTransfer, Reason: "closer to family", Destination: " POLDA JATIM ",
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if got.Destination != "POLDA JATIM" || got.StartDate != "" || got.DayCount != 0 {
		t.Fatalf("dto = %+v", got)
	}
}

func pending(kind domain.Kind, status domain.Status) *domain.Request {
	start, end := day("2024-03-20"), day("2024-03-21")
	return &domain.Request{
		ID: 5, RequestID: "r1", Kind: kind, RequesterID: 7, PersonnelID: 70,
		StartDate: &start, EndDate: &end, DayCount: 2, Status: status,
	}
}

func TestReview_Transitions(t *testing.T) {
	tests := []struct {
		name    string
		status  domain.Status
		run     func(*Workflow) (*RequestDTO, error)
		want    domain.Status
		wantErr error
	}{
		{"hr valid", domain.StatusPendingHR, func(w *Workflow) (*RequestDTO, error) {
			return w.ReviewAsHR(context.Background(), ReviewInput{RequestID: "r1", ActorID: 2}, DecisionValid)
		}, domain.StatusValid, nil},
		{"hr invalid with note", domain.StatusPendingHR, func(w *Workflow) (*RequestDTO, error) {
			return w.ReviewAsHR(context.Background(), ReviewInput{RequestID: "r1", ActorID: 2, Note: "no letter"}, DecisionInvalid)
		}, domain.StatusInvalid, nil},
		{"hr invalid without note", domain.StatusPendingHR, func(w *Workflow) (*RequestDTO, error) {
			return w.ReviewAsHR(context.Background(), ReviewInput{RequestID: "r1", ActorID: 2, Note: "  "}, DecisionInvalid)
		}, "", domain.ErrNoteRequired},
		{"hr on valid", domain.StatusValid, func(w *Workflow) (*RequestDTO, error) {
			return w.ReviewAsHR(context.Background(), ReviewInput{RequestID: "r1", ActorID: 2}, DecisionValid)
		}, "", apperr.ErrState},
		{"leadership on pending", domain.StatusPendingHR, func(w *Workflow) (*RequestDTO, error) {
			return w.ReviewAsLeadership(context.Background(), ReviewInput{RequestID: "r1", ActorID: 3}, DecisionApproved)
		}, "", apperr.ErrState},
		{"leadership reject without note", domain.StatusValid, func(w *Workflow) (*RequestDTO, error) {
			return w.ReviewAsLeadership(context.Background(), ReviewInput{RequestID: "r1", ActorID: 3}, DecisionRejected)
		}, "", domain.ErrNoteRequired},
		{"leadership reject", domain.StatusValid, func(w *Workflow) (*RequestDTO, error) {
			return w.ReviewAsLeadership(context.Background(), ReviewInput{RequestID: "r1", ActorID: 3, Note: "insufficient justification"}, DecisionRejected)
		}, domain.StatusRejected, nil},
		{"unknown decision", domain.StatusValid, func(w *Workflow) (*RequestDTO, error) {
			return w.ReviewAsLeadership(context.Background(), ReviewInput{RequestID: "r1", ActorID: 3}, "maybe")
		}, "", apperr.ErrValidation},
		{"terminal", domain.StatusApproved, func(w *Workflow) (*RequestDTO, error) {
			return w.ReviewAsLeadership(context.Background(), ReviewInput{RequestID: "r1", ActorID: 3}, DecisionApproved)
		}, "", apperr.ErrState},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.requests.GetByRequestIDForUpdateFn = func(context.Context, string) (*domain.Request, error) {
				return pending(domain.KindTransfer, tt.status), nil
			}
			var fields map[string]any
			f.requests.TransitionFn = func(_ context.Context, _ uint64, from domain.Status, fs map[string]any) (int64, error) {
				if from != tt.status {
					t.Fatalf("transition from %s, want %s", from, tt.status)
				}
				fields = fs
				return 1, nil
			}

			got, err := tt.run(f.wf)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				if fields != nil {
					t.Fatal("nothing should be written")
				}
				return
			}
			if err != nil {
				t.Fatalf("err: %v", err)
			}
			if got.Status != tt.want || fields["status"] != tt.want {
				t.Fatalf("status = %s / %v, want %s", got.Status, fields["status"], tt.want)
			}
			if fields["updated_at"] != fixedNow {
				t.Fatalf("updated_at = %v, want %s", fields["updated_at"], fixedNow)
			}
		})
	}
}

func TestReview_MissingNoteWinsOverState(t *testing.T) {
	for _, status := range []domain.Status{domain.StatusApproved, domain.StatusRejected, domain.StatusInvalid} {
		t.Run(string(status), func(t *testing.T) {
			f := newFixture()
			locked := false
			f.requests.GetByRequestIDForUpdateFn = func(context.Context, string) (*domain.Request, error) {
				locked = true
				return pending(domain.KindTransfer, status), nil
			}

			_, err := f.wf.ReviewAsLeadership(context.Background(), ReviewInput{RequestID: "r1", ActorID: 3}, DecisionRejected)
			if !errors.Is(err, domain.ErrNoteRequired) {
				t.Fatalf("err = %v, want ErrNoteRequired", err)
			}
			if errors.Is(err, apperr.ErrState) {
				t.Fatal("a missing note is reported before the state check")
			}
			if locked {
				t.Fatal("the request row must not be read")
			}

			_, err = f.wf.ReviewAsLeadership(context.Background(), ReviewInput{RequestID: "r1", ActorID: 3, Note: "late"}, DecisionRejected)
			if !errors.Is(err, apperr.ErrState) {
				t.Fatalf("with a note: err = %v, want state error", err)
			}
		})
	}
}

func TestReviewAsLeadership_RecordsReviewer(t *testing.T) {
	f := newFixture()
	f.requests.GetByRequestIDForUpdateFn = func(context.Context, string) (*domain.Request, error) {
		return pending(domain.KindTransfer, domain.StatusValid), nil
	}
	var fields map[string]any
	f.requests.TransitionFn = func(_ context.Context, _ uint64, _ domain.Status, fs map[string]any) (int64, error) {
		fields = fs
		return 1, nil
	}

	got, err := f.wf.ReviewAsLeadership(context.Background(),
		ReviewInput{RequestID: "r1", ActorID: 3, Note: "insufficient justification"}, DecisionRejected)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if got.LeadershipNote != "insufficient justification" || got.LeadershipReviewerID == nil || *got.LeadershipReviewerID != 3 {
		t.Fatalf("dto = %+v", got)
	}
	if got.LeadershipReviewedAt == nil || !got.LeadershipReviewedAt.Equal(fixedNow) {
		t.Fatalf("reviewed at = %v", got.LeadershipReviewedAt)
	}
	if fields["leadership_reviewer_id"] != uint64(3) || fields["leadership_note"] != "insufficient justification" {
		t.Fatalf("fields = %v", fields)
	}
	if got.HRReviewerID != nil {
		t.Fatal("hr reviewer must be untouched")
	}
}

func TestReviewAsLeadership_ApprovalDebitsLeave(t *testing.T) {
	f := newFixture()
	f.requests.GetByRequestIDForUpdateFn = func(context.Context, string) (*domain.Request, error) {
		return pending(domain.KindLeave, domain.StatusValid), nil
	}

	if _, err := f.wf.ReviewAsLeadership(context.Background(), ReviewInput{RequestID: "r1", ActorID: 3}, DecisionApproved); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if f.balances.consumed != 2 {
		t.Fatalf("consumed = %d, want 2", f.balances.consumed)
	}

	// balance already spent in the meantime
	f = newFixture()
	f.balances.balance.Consumed = 11
	f.requests.GetByRequestIDForUpdateFn = func(context.Context, string) (*domain.Request, error) {
		return pending(domain.KindLeave, domain.StatusValid), nil
	}
	_, err := f.wf.ReviewAsLeadership(context.Background(), ReviewInput{RequestID: "r1", ActorID: 3}, DecisionApproved)
	if !errors.Is(err, domainLeave.ErrOverdraw) {
		t.Fatalf("err = %v, want ErrOverdraw", err)
	}
}

func TestReview_LostRace(t *testing.T) {
	f := newFixture()
	f.requests.GetByRequestIDForUpdateFn = func(context.Context, string) (*domain.Request, error) {
		return pending(domain.KindTransfer, domain.StatusPendingHR), nil
	}
	f.requests.TransitionFn = func(context.Context, uint64, domain.Status, map[string]any) (int64, error) { return 0, nil }

	_, err := f.wf.ReviewAsHR(context.Background(), ReviewInput{RequestID: "r1", ActorID: 2}, DecisionValid)
	if !errors.Is(err, apperr.ErrState) {
		t.Fatalf("err = %v, want state error", err)
	}
}

func TestReview_NotFound(t *testing.T) {
	f := newFixture()
	f.requests.GetByRequestIDForUpdateFn = func(context.Context, string) (*domain.Request, error) {
		return nil, gorm.ErrRecordNotFound
	}
	_, err := f.wf.ReviewAsHR(context.Background(), ReviewInput{RequestID: "nope", ActorID: 2}, DecisionValid)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestSweepExpired_Cutoff(t *testing.T) {
	f := newFixture()
	var gotCutoff, gotNow time.Time
	var gotNote string
	f.requests.ExpireStaleFn = func(_ context.Context, cutoff, now time.Time, note string) (int64, error) {
		gotCutoff, gotNow, gotNote = cutoff, now, note
		return 4, nil
	}

	n, err := f.wf.SweepExpired(context.Background(), fixedNow)
	if err != nil || n != 4 {
		t.Fatalf("sweep = %d, %v", n, err)
	}
	if !gotCutoff.Equal(fixedNow.Add(-7*24*time.Hour)) || !gotNow.Equal(fixedNow) {
		t.Fatalf("cutoff %v now %v", gotCutoff, gotNow)
	}
	if gotNote != domain.ExpiryNote {
		t.Fatalf("note = %q", gotNote)
	}
}

func TestGet_MemberSeesOnlyOwn(t *testing.T) {
	f := newFixture()
	f.requests.GetByRequestIDFn = func(context.Context, string) (*domain.Request, error) {
		return pending(domain.KindTransfer, domain.StatusPendingHR), nil
	}

	if _, err := f.wf.Get(context.Background(), member, "r1"); err != nil {
		t.Fatalf("own request: %v", err)
	}
	other := identity.Actor{UserID: 9, Role: identity.RoleMember}
	if _, err := f.wf.Get(context.Background(), other, "r1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("other member err = %v, want ErrNotFound", err)
	}
	hr := identity.Actor{UserID: 2, Role: identity.RoleHR}
	if _, err := f.wf.Get(context.Background(), hr, "r1"); err != nil {
		t.Fatalf("hr: %v", err)
	}
}

func TestListForActor_Queues(t *testing.T) {
	tests := []struct {
		actor identity.Actor
		want  domain.Filter
	}{
		{member, domain.Filter{RequesterID: 7, Limit: 20}},
		{identity.Actor{UserID: 2, Role: identity.RoleHR}, domain.Filter{Status: domain.StatusPendingHR, Limit: 20}},
		{identity.Actor{UserID: 3, Role: identity.RoleLeadership}, domain.Filter{Status: domain.StatusValid, Limit: 20}},
		{identity.Actor{UserID: 1, Role: identity.RoleAdmin}, domain.Filter{Limit: 20}},
	}
	for _, tt := range tests {
		f := newFixture()
		var got domain.Filter
		f.requests.ListFn = func(_ context.Context, fl domain.Filter) ([]domain.Request, error) {
			got = fl
			return []domain.Request{*pending(domain.KindTransfer, domain.StatusPendingHR)}, nil
		}
		out, err := f.wf.ListForActor(context.Background(), tt.actor, 20)
		if err != nil {
			t.Fatalf("%s: %v", tt.actor.Role, err)
		}
		if got != tt.want {
			t.Fatalf("%s: filter = %+v, want %+v", tt.actor.Role, got, tt.want)
		}
		if len(out) != 1 {
			t.Fatalf("%s: %d rows", tt.actor.Role, len(out))
		}
	}
}
