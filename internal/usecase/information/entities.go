package information

import (
	"time"

	domain "sinfopers/internal/domain/information"
)

// ContentInput is the body of a publish or an update. An empty DocumentRef
// keeps the current attachment on update.
type ContentInput struct {
	Title       string
	Body        string
	DocumentRef string
}

type InformationDTO struct {
	InformationID string    `json:"information_id"`
	AuthorID      uint64    `json:"author_id"`
	Title         string    `json:"title"`
	Body          string    `json:"body"`
	DocumentRef   string    `json:"document_ref,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type LogDTO struct {
	Action    domain.LogAction `json:"action"`
	ActorID   uint64           `json:"actor_id"`
	Detail    string           `json:"detail"`
	Timestamp time.Time        `json:"timestamp"`
}

func toDTO(a *domain.Announcement) *InformationDTO {
	return &InformationDTO{
		InformationID: a.InformationID,
		AuthorID:      a.AuthorID,
		Title:         a.Title,
		Body:          a.Body,
		DocumentRef:   a.DocumentRef,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}

func toLogDTO(l domain.Log) LogDTO {
	return LogDTO{Action: l.Action, ActorID: l.ActorID, Detail: l.Detail, Timestamp: l.CreatedAt}
}
