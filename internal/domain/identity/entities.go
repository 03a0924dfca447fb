package identity

import (
	"context"
	"time"
)

type Role string

const (
	RoleAdmin      Role = "admin"
	RoleHR         Role = "hr"
	RoleLeadership Role = "leadership"
	RoleMember     Role = "member"
)

var Roles = []Role{RoleAdmin, RoleHR, RoleLeadership, RoleMember}

func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleHR, RoleLeadership, RoleMember:
		return true
	}
	return false
}

// User is the identity provider's account, read-only for the core.
type User struct {
	ID        uint64    `gorm:"primaryKey;column:id" json:"id"`
	Username  string    `gorm:"size:50;not null;uniqueIndex:ux_users_username" json:"username"`
	Role      Role      `gorm:"size:20;not null;default:'member'" json:"role"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string { return "users" }

// Actor is who performs a call, as supplied by the authentication layer.
type Actor struct {
	UserID uint64
	Role   Role
}

type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id uint64) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
}
