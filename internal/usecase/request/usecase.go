package request

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"sinfopers/internal/apperr"
	"sinfopers/internal/domain/identity"
	domainLeave "sinfopers/internal/domain/leave"
	domain "sinfopers/internal/domain/request"
	"sinfopers/internal/domain/uow"
	"sinfopers/internal/logger"
	"sinfopers/pkg/id"

	"gorm.io/gorm"
)

// Balances is the part of the leave tracker the workflow needs. Both calls
// run inside the workflow's transaction.
type Balances interface {
	GetOrCreateForYear(ctx context.Context, r uow.Repos, personnelID uint64, year int) (*domainLeave.Balance, error)
	Consume(ctx context.Context, r uow.Repos, b *domainLeave.Balance, days int) (*domainLeave.Balance, error)
}

type Workflow struct {
	requests domain.Repository
	balances Balances
	uow      uow.UnitOfWork
	now      func() time.Time
	log      *slog.Logger
}

type Option func(*Workflow)

// WithClock replaces time.Now, for tests and replays.
func WithClock(now func() time.Time) Option {
	return func(w *Workflow) { w.now = now }
}

func NewWorkflow(requests domain.Repository, balances Balances, tx uow.UnitOfWork, opts ...Option) *Workflow {
	w := &Workflow{
		requests: requests,
		balances: balances,
		uow:      tx,
		now:      time.Now,
		log:      logger.WithComponent("request"),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func (w *Workflow) validateSubmit(in *SubmitInput) error {
	in.Reason = strings.TrimSpace(in.Reason)
	if in.Reason == "" {
		return apperr.Validation("reason is required")
	}
	switch in.Kind {
	case domain.KindLeave:
		if in.StartDate.IsZero() || in.EndDate.IsZero() {
			return apperr.Validation("start and end dates are required")
		}
		in.StartDate, in.EndDate = dateOnly(in.StartDate), dateOnly(in.EndDate)
		if in.StartDate.After(in.EndDate) {
			return domain.ErrDateRange
		}
		if in.StartDate.Before(dateOnly(w.now().UTC())) {
			return domain.ErrStartInPast
		}
	case domain.KindTransfer:
		in.Destination = strings.TrimSpace(in.Destination)
		if in.Destination == "" {
			return domain.ErrDestination
		}
	default:
		return apperr.Validation("unknown request kind %q", in.Kind)
	}
	return nil
}

// Submit files a request for the actor's own personnel record. The requester
// always comes from the actor, never from the payload. A leave request must
// fit in the balance of its start year. Who may submit at all is decided by
// the caller through identity.Authorize.
func (w *Workflow) Submit(ctx context.Context, actor identity.Actor, in SubmitInput) (*RequestDTO, error) {
	if err := w.validateSubmit(&in); err != nil {
		return nil, err
	}

	var req *domain.Request
	err := w.uow.WithinTx(ctx, func(r uow.Repos) error {
		p, err := r.Personnel.GetByUserID(ctx, actor.UserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotMember
			}
			return err
		}

		now := w.now().UTC()
		req = &domain.Request{
			RequestID:   id.NewID32(),
			Kind:        in.Kind,
			RequesterID: actor.UserID,
			PersonnelID: p.ID,
			Reason:      in.Reason,
			DocumentRef: in.DocumentRef,
			Status:      domain.StatusPendingHR,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if in.Kind == domain.KindLeave {
			days := domain.DayCount(in.StartDate, in.EndDate)
			b, err := w.balances.GetOrCreateForYear(ctx, r, p.ID, in.StartDate.Year())
			if err != nil {
				return err
			}
			if err := domainLeave.CanConsume(b, days); err != nil {
				return err
			}
			start, end := in.StartDate, in.EndDate
			req.StartDate, req.EndDate, req.DayCount = &start, &end, days
		} else {
			req.Destination = in.Destination
		}
		return r.Requests.Create(ctx, req)
	})
	if err != nil {
		return nil, err
	}
	w.log.Info("request submitted", "request_id", req.RequestID, "kind", req.Kind, "requester_id", req.RequesterID)
	return toDTO(req), nil
}

// ReviewAsHR settles a pending request. invalid needs a note.
func (w *Workflow) ReviewAsHR(ctx context.Context, in ReviewInput, decision HRDecision) (*RequestDTO, error) {
	var action domain.Action
	switch decision {
	case DecisionValid:
		action = domain.ActionHRValid
	case DecisionInvalid:
		action = domain.ActionHRInvalid
	default:
		return nil, apperr.Validation("unknown HR decision %q", decision)
	}
	return w.review(ctx, in, action, func(now time.Time, note string) map[string]any {
		return map[string]any{
			"hr_reviewer_id": in.ActorID,
			"hr_reviewed_at": now,
			"hr_note":        note,
		}
	})
}

// ReviewAsLeadership settles a validated request. rejected needs a note;
// approving leave debits the start year's balance in the same transaction.
func (w *Workflow) ReviewAsLeadership(ctx context.Context, in ReviewInput, decision LeadershipDecision) (*RequestDTO, error) {
	var action domain.Action
	switch decision {
	case DecisionApproved:
		action = domain.ActionApprove
	case DecisionRejected:
		action = domain.ActionReject
	default:
		return nil, apperr.Validation("unknown leadership decision %q", decision)
	}
	return w.review(ctx, in, action, func(now time.Time, note string) map[string]any {
		return map[string]any{
			"leadership_reviewer_id": in.ActorID,
			"leadership_reviewed_at": now,
			"leadership_note":        note,
		}
	})
}

// review checks the note before touching the row, so a missing note is a
// validation error whatever state the request is in.
func (w *Workflow) review(ctx context.Context, in ReviewInput, action domain.Action, stamp func(time.Time, string) map[string]any) (*RequestDTO, error) {
	note := strings.TrimSpace(in.Note)
	if domain.RequiresNote(action) && note == "" {
		return nil, domain.ErrNoteRequired
	}

	var out *domain.Request
	err := w.uow.WithinRequestTx(ctx, in.RequestID, func(r uow.Repos, req *domain.Request) error {
		to, err := domain.Next(req.Status, action)
		if err != nil {
			return err
		}
		now := w.now().UTC()
		fields := stamp(now, note)
		fields["status"] = to
		fields["updated_at"] = now

		n, err := r.Requests.Transition(ctx, req.ID, req.Status, fields)
		if err != nil {
			return err
		}
		if n == 0 {
			return apperr.State("request %s changed status concurrently", req.RequestID)
		}

		if action == domain.ActionApprove && req.Kind == domain.KindLeave {
			b, err := w.balances.GetOrCreateForYear(ctx, r, req.PersonnelID, req.StartDate.Year())
			if err != nil {
				return err
			}
			if _, err := w.balances.Consume(ctx, r, b, req.DayCount); err != nil {
				return err
			}
		}

		applyReview(req, to, now, note, in.ActorID, action)
		out = req
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	w.log.Info("request reviewed", "request_id", out.RequestID, "action", action, "status", out.Status, "actor_id", in.ActorID)
	return toDTO(out), nil
}

func applyReview(req *domain.Request, to domain.Status, now time.Time, note string, actorID uint64, action domain.Action) {
	req.Status = to
	req.UpdatedAt = now
	if action == domain.ActionApprove || action == domain.ActionReject {
		req.LeadershipReviewerID, req.LeadershipReviewedAt, req.LeadershipNote = &actorID, &now, note
		return
	}
	req.HRReviewerID, req.HRReviewedAt, req.HRNote = &actorID, &now, note
}

// SweepExpired invalidates every request that has waited for HR longer than
// seven days, in one statement. Rows created after the cutoff are never
// touched, so a second run right after is a no-op.
func (w *Workflow) SweepExpired(ctx context.Context, now time.Time) (int64, error) {
	now = now.UTC()
	n, err := w.requests.ExpireStale(ctx, now.Add(-domain.StaleAfter), now, domain.ExpiryNote)
	if err != nil {
		return 0, err
	}
	w.log.Info("expiry sweep finished", "expired", n, "now", now)
	return n, nil
}

// CountExpirable is the dry run of SweepExpired.
func (w *Workflow) CountExpirable(ctx context.Context, now time.Time) (int64, error) {
	return w.requests.CountStale(ctx, now.UTC().Add(-domain.StaleAfter))
}

// Get returns a request. Members only see their own.
func (w *Workflow) Get(ctx context.Context, actor identity.Actor, requestID string) (*RequestDTO, error) {
	req, err := w.requests.GetByRequestID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if actor.Role == identity.RoleMember && req.RequesterID != actor.UserID {
		return nil, domain.ErrNotFound
	}
	return toDTO(req), nil
}

// ListForActor returns the actor's queue, newest first: members see their
// own requests, HR the ones pending HR, leadership the validated ones and
// admins everything.
func (w *Workflow) ListForActor(ctx context.Context, actor identity.Actor, limit int) ([]RequestDTO, error) {
	f := domain.Filter{Limit: limit}
	switch actor.Role {
	case identity.RoleMember:
		f.RequesterID = actor.UserID
	case identity.RoleHR:
		f.Status = domain.StatusPendingHR
	case identity.RoleLeadership:
		f.Status = domain.StatusValid
	case identity.RoleAdmin:
	default:
		return nil, apperr.Validation("unknown role %q", actor.Role)
	}
	reqs, err := w.requests.List(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]RequestDTO, 0, len(reqs))
	for i := range reqs {
		out = append(out, *toDTO(&reqs[i]))
	}
	return out, nil
}
