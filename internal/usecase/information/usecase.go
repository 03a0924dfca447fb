package information

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"sinfopers/internal/domain/identity"
	domain "sinfopers/internal/domain/information"
	"sinfopers/internal/domain/uow"
	"sinfopers/internal/logger"
	"sinfopers/pkg/id"

	"gorm.io/gorm"
)

// DocumentRemover drops attachments that an update replaced or a delete
// orphaned. Removal runs after commit and is best effort.
type DocumentRemover interface {
	Remove(ref string) error
}

// Board publishes announcements. Only the author may change or delete one,
// and every change is logged in the same transaction.
type Board struct {
	notices domain.Repository
	uow     uow.UnitOfWork
	docs    DocumentRemover
	now     func() time.Time
	log     *slog.Logger
}

type Option func(*Board)

func WithClock(now func() time.Time) Option {
	return func(b *Board) { b.now = now }
}

// NewBoard: docs may be nil, in which case replaced files are left on disk.
func NewBoard(notices domain.Repository, tx uow.UnitOfWork, docs DocumentRemover, opts ...Option) *Board {
	b := &Board{
		notices: notices,
		uow:     tx,
		docs:    docs,
		now:     time.Now,
		log:     logger.WithComponent("information"),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Board) Publish(ctx context.Context, actor identity.Actor, in ContentInput) (*InformationDTO, error) {
	title, body, err := domain.NormalizeContent(in.Title, in.Body)
	if err != nil {
		return nil, err
	}
	now := b.now().UTC()
	a := &domain.Announcement{
		InformationID: id.NewID32(),
		AuthorID:      actor.UserID,
		Title:         title,
		Body:          body,
		DocumentRef:   in.DocumentRef,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := b.notices.Create(ctx, a); err != nil {
		return nil, err
	}
	b.log.Info("information published", "information_id", a.InformationID, "author_id", a.AuthorID)
	return toDTO(a), nil
}

func (b *Board) List(ctx context.Context, limit int) ([]InformationDTO, error) {
	items, err := b.notices.List(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]InformationDTO, 0, len(items))
	for i := range items {
		out = append(out, *toDTO(&items[i]))
	}
	return out, nil
}

func (b *Board) Get(ctx context.Context, informationID string) (*InformationDTO, error) {
	a, err := b.notices.GetByInformationID(ctx, informationID)
	if err != nil {
		return nil, notFound(err)
	}
	return toDTO(a), nil
}

func (b *Board) Update(ctx context.Context, actor identity.Actor, informationID string, in ContentInput) (*InformationDTO, error) {
	title, body, err := domain.NormalizeContent(in.Title, in.Body)
	if err != nil {
		return nil, err
	}

	var (
		out      *domain.Announcement
		replaced string
	)
	err = b.uow.WithinTx(ctx, func(r uow.Repos) error {
		a, err := r.Notices.GetByInformationIDForUpdate(ctx, informationID)
		if err != nil {
			return err
		}
		if a.AuthorID != actor.UserID {
			return domain.ErrNotAuthor
		}

		now := b.now().UTC()
		fields := map[string]any{"title": title, "body": body, "updated_at": now}
		if in.DocumentRef != "" && in.DocumentRef != a.DocumentRef {
			fields["document_ref"] = in.DocumentRef
			replaced = a.DocumentRef
			a.DocumentRef = in.DocumentRef
		}
		if err := r.Notices.Update(ctx, a.ID, fields); err != nil {
			return err
		}
		if err := r.Notices.AppendLog(ctx, &domain.Log{
			InformationID: a.InformationID,
			ActorID:       actor.UserID,
			Action:        domain.LogUpdate,
			Detail:        domain.UpdateDetail(title),
			CreatedAt:     now,
		}); err != nil {
			return err
		}
		a.Title, a.Body, a.UpdatedAt = title, body, now
		out = a
		return nil
	})
	if err != nil {
		return nil, notFound(err)
	}
	b.discard(replaced)
	b.log.Info("information updated", "information_id", out.InformationID, "actor_id", actor.UserID)
	return toDTO(out), nil
}

func (b *Board) Delete(ctx context.Context, actor identity.Actor, informationID string) error {
	var orphan string
	err := b.uow.WithinTx(ctx, func(r uow.Repos) error {
		a, err := r.Notices.GetByInformationIDForUpdate(ctx, informationID)
		if err != nil {
			return err
		}
		if a.AuthorID != actor.UserID {
			return domain.ErrNotAuthor
		}
		if err := r.Notices.AppendLog(ctx, &domain.Log{
			InformationID: a.InformationID,
			ActorID:       actor.UserID,
			Action:        domain.LogDelete,
			Detail:        domain.DeleteDetail(a.Title),
			CreatedAt:     b.now().UTC(),
		}); err != nil {
			return err
		}
		orphan = a.DocumentRef
		return r.Notices.Delete(ctx, a.ID)
	})
	if err != nil {
		return notFound(err)
	}
	b.discard(orphan)
	b.log.Info("information deleted", "information_id", informationID, "actor_id", actor.UserID)
	return nil
}

// Logs returns the audit trail, newest first. It stays readable after the
// announcement is deleted.
func (b *Board) Logs(ctx context.Context, informationID string) ([]LogDTO, error) {
	logs, err := b.notices.ListLogs(ctx, informationID)
	if err != nil {
		return nil, err
	}
	if len(logs) == 0 {
		if _, err := b.notices.GetByInformationID(ctx, informationID); err != nil {
			return nil, notFound(err)
		}
	}
	out := make([]LogDTO, 0, len(logs))
	for _, l := range logs {
		out = append(out, toLogDTO(l))
	}
	return out, nil
}

func (b *Board) discard(ref string) {
	if ref == "" || b.docs == nil {
		return
	}
	if err := b.docs.Remove(ref); err != nil {
		b.log.Warn("attachment not removed", "ref", ref, "error", err)
	}
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	return err
}
