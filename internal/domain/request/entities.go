package request

import (
	"context"
	"time"

	"sinfopers/internal/apperr"
)

var (
	ErrNotFound     = apperr.New(apperr.KindNotFound, "request not found")
	ErrNoteRequired = apperr.New(apperr.KindValidation, "a note is required for this decision")
	ErrDateRange    = apperr.New(apperr.KindValidation, "start date must not be after end date")
	ErrStartInPast  = apperr.New(apperr.KindValidation, "start date must not be in the past")
	ErrDestination  = apperr.New(apperr.KindValidation, "destination is required for a transfer request")
	ErrNotMember    = apperr.New(apperr.KindValidation, "requester has no linked personnel record")
)

// StaleAfter is how long a request may wait for HR before the sweep
// invalidates it.
const StaleAfter = 7 * 24 * time.Hour

// ExpiryNote is written as the HR note by the sweep.
const ExpiryNote = "Automatically marked invalid: no HR response within 7 days."

type Kind string

const (
	KindLeave    Kind = "leave"
	KindTransfer Kind = "transfer"
)

func (k Kind) IsValid() bool { return k == KindLeave || k == KindTransfer }

type Request struct {
	ID          uint64 `gorm:"primaryKey;column:id" json:"-"`
	RequestID   string `gorm:"size:32;not null;uniqueIndex:ux_requests_request_id" json:"request_id"`
	Kind        Kind   `gorm:"size:20;not null" json:"kind"`
	RequesterID uint64 `gorm:"not null;index:idx_requests_requester" json:"requester_id"`
	PersonnelID uint64 `gorm:"not null" json:"personnel_id"`
	Reason      string `gorm:"type:text" json:"reason"`
	DocumentRef string `gorm:"size:255" json:"document_ref,omitempty"`

	// leave
	StartDate *time.Time `gorm:"type:date" json:"start_date,omitempty"`
	EndDate   *time.Time `gorm:"type:date" json:"end_date,omitempty"`
	DayCount  int        `gorm:"not null;default:0" json:"day_count,omitempty"`

	// transfer
	Destination string `gorm:"type:text" json:"destination,omitempty"`

	Status Status `gorm:"size:20;not null;index:idx_requests_status_created,priority:1" json:"status"`

	HRReviewerID *uint64    `json:"hr_reviewer_id,omitempty"`
	HRReviewedAt *time.Time `json:"hr_reviewed_at,omitempty"`
	HRNote       string     `gorm:"type:text" json:"hr_note,omitempty"`

	LeadershipReviewerID *uint64    `json:"leadership_reviewer_id,omitempty"`
	LeadershipReviewedAt *time.Time `json:"leadership_reviewed_at,omitempty"`
	LeadershipNote       string     `gorm:"type:text" json:"leadership_note,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime;index:idx_requests_status_created,priority:2" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Request) TableName() string { return "requests" }

// DayCount counts both ends of a date range.
func DayCount(start, end time.Time) int {
	s := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	e := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	return int(e.Sub(s).Hours()/24) + 1
}

// Filter selects requests for a listing; zero fields are ignored.
type Filter struct {
	RequesterID uint64
	Status      Status
	Limit       int
}

type Repository interface {
	Create(ctx context.Context, r *Request) error
	GetByRequestID(ctx context.Context, requestID string) (*Request, error)
	GetByRequestIDForUpdate(ctx context.Context, requestID string) (*Request, error)
	List(ctx context.Context, f Filter) ([]Request, error)
	// Transition writes fields only if the row is still in status from and
	// returns the number of rows changed.
	Transition(ctx context.Context, id uint64, from Status, fields map[string]any) (int64, error)
	// ExpireStale moves every pending_hr row created before cutoff to invalid
	// in one statement.
	ExpireStale(ctx context.Context, cutoff, now time.Time, note string) (int64, error)
	CountStale(ctx context.Context, cutoff time.Time) (int64, error)
}
