// Package information holds internal announcements published by HR and the
// audit trail of changes made to them.
package information

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"sinfopers/internal/apperr"
)

const MaxTitleLen = 50

var (
	ErrNotFound  = apperr.New(apperr.KindNotFound, "information not found")
	ErrNotAuthor = apperr.New(apperr.KindForbidden, "only the author may change this information")
	ErrTitle     = apperr.New(apperr.KindValidation, "title is required and must be at most 50 characters")
	ErrBody      = apperr.New(apperr.KindValidation, "body is required")
)

type Announcement struct {
	ID            uint64    `gorm:"primaryKey;column:id" json:"-"`
	InformationID string    `gorm:"size:32;not null;uniqueIndex:ux_information_public_id" json:"information_id"`
	AuthorID      uint64    `gorm:"not null;index:idx_information_author" json:"author_id"`
	Title         string    `gorm:"size:50;not null" json:"title"`
	Body          string    `gorm:"type:text;not null" json:"body"`
	DocumentRef   string    `gorm:"size:255" json:"document_ref,omitempty"`
	CreatedAt     time.Time `gorm:"autoCreateTime;index:idx_information_created" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Announcement) TableName() string { return "information" }

type LogAction string

const (
	LogUpdate LogAction = "update"
	LogDelete LogAction = "delete"
)

// Log is one audit entry. It keeps the public id rather than a foreign key
// so the trail outlives a deleted announcement.
type Log struct {
	ID            uint64    `gorm:"primaryKey;column:id" json:"-"`
	InformationID string    `gorm:"size:32;not null;index:idx_information_logs_info" json:"information_id"`
	ActorID       uint64    `gorm:"not null" json:"actor_id"`
	Action        LogAction `gorm:"size:10;not null" json:"action"`
	Detail        string    `gorm:"type:text" json:"detail"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"timestamp"`
}

func (Log) TableName() string { return "information_logs" }

// NormalizeContent trims title and body and checks both.
func NormalizeContent(title, body string) (string, string, error) {
	title, body = strings.TrimSpace(title), strings.TrimSpace(body)
	if title == "" || utf8.RuneCountInString(title) > MaxTitleLen {
		return "", "", ErrTitle
	}
	if body == "" {
		return "", "", ErrBody
	}
	return title, body, nil
}

func UpdateDetail(title string) string { return "information updated to: " + title }
func DeleteDetail(title string) string { return "information deleted: " + title }

type Repository interface {
	Create(ctx context.Context, a *Announcement) error
	GetByInformationID(ctx context.Context, informationID string) (*Announcement, error)
	GetByInformationIDForUpdate(ctx context.Context, informationID string) (*Announcement, error)
	// List is newest first.
	List(ctx context.Context, limit int) ([]Announcement, error)
	Update(ctx context.Context, id uint64, fields map[string]any) error
	Delete(ctx context.Context, id uint64) error
	AppendLog(ctx context.Context, l *Log) error
	// ListLogs is newest first.
	ListLogs(ctx context.Context, informationID string) ([]Log, error)
}
