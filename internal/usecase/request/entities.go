package request

import (
	"time"

	domain "sinfopers/internal/domain/request"
)

const dateLayout = "2006-01-02"

type SubmitInput struct {
	Kind        domain.Kind
	Reason      string
	DocumentRef string

	// leave
	StartDate time.Time
	EndDate   time.Time

	// transfer
	Destination string
}

// HRDecision is HR's verdict on a pending request.
type HRDecision string

const (
	DecisionValid   HRDecision = "valid"
	DecisionInvalid HRDecision = "invalid"
)

// LeadershipDecision is leadership's verdict on a validated request.
type LeadershipDecision string

const (
	DecisionApproved LeadershipDecision = "approved"
	DecisionRejected LeadershipDecision = "rejected"
)

type ReviewInput struct {
	RequestID string
	ActorID   uint64
	Note      string
}

type RequestDTO struct {
	RequestID            string        `json:"request_id"`
	Kind                 domain.Kind   `json:"kind"`
	RequesterID          uint64        `json:"requester_id"`
	Reason               string        `json:"reason"`
	DocumentRef          string        `json:"document_ref,omitempty"`
	StartDate            string        `json:"start_date,omitempty"`
	EndDate              string        `json:"end_date,omitempty"`
	DayCount             int           `json:"day_count,omitempty"`
	Destination          string        `json:"destination,omitempty"`
	Status               domain.Status `json:"status"`
	HRReviewerID         *uint64       `json:"hr_reviewer_id,omitempty"`
	HRReviewedAt         *time.Time    `json:"hr_reviewed_at,omitempty"`
	HRNote               string        `json:"hr_note,omitempty"`
	LeadershipReviewerID *uint64       `json:"leadership_reviewer_id,omitempty"`
	LeadershipReviewedAt *time.Time    `json:"leadership_reviewed_at,omitempty"`
	LeadershipNote       string        `json:"leadership_note,omitempty"`
	CreatedAt            time.Time     `json:"created_at"`
	UpdatedAt            time.Time     `json:"updated_at"`
}

func toDTO(r *domain.Request) *RequestDTO {
	dto := &RequestDTO{
		RequestID:            r.RequestID,
		Kind:                 r.Kind,
		RequesterID:          r.RequesterID,
		Reason:               r.Reason,
		DocumentRef:          r.DocumentRef,
		DayCount:             r.DayCount,
		Destination:          r.Destination,
		Status:               r.Status,
		HRReviewerID:         r.HRReviewerID,
		HRReviewedAt:         r.HRReviewedAt,
		HRNote:               r.HRNote,
		LeadershipReviewerID: r.LeadershipReviewerID,
		LeadershipReviewedAt: r.LeadershipReviewedAt,
		LeadershipNote:       r.LeadershipNote,
		CreatedAt:            r.CreatedAt,
		UpdatedAt:            r.UpdatedAt,
	}
	if r.StartDate != nil {
		dto.StartDate = r.StartDate.Format(dateLayout)
	}
	if r.EndDate != nil {
		dto.EndDate = r.EndDate.Format(dateLayout)
	}
	return dto
}
