package personnel

import (
	"context"
	"time"

	"sinfopers/internal/apperr"
)

var (
	ErrNotFound        = apperr.New(apperr.KindNotFound, "personnel not found")
	ErrDuplicateNRP    = apperr.New(apperr.KindValidation, "NRP is already registered")
	ErrAlreadyLinked   = apperr.New(apperr.KindConflict, "personnel is already linked to a user")
	ErrIdentityTaken   = apperr.New(apperr.KindConflict, "user is already linked to another personnel")
	ErrUnknownIdentity = apperr.New(apperr.KindNotFound, "user not found")
)

// MaxNRP bounds the registration number to eight digits.
const MaxNRP = 99999999

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
	StatusOnLeave  Status = "on_leave"
	StatusRetired  Status = "retired"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusOnLeave, StatusRetired:
		return true
	}
	return false
}

type Gender string

const (
	GenderMale   Gender = "L"
	GenderFemale Gender = "P"
)

func (g Gender) IsValid() bool { return g == GenderMale || g == GenderFemale }

// Secondment is the BKO assignment flag.
type Secondment string

const (
	SecondmentNone       Secondment = "none"
	SecondmentSpecialIn  Secondment = "special_in"
	SecondmentGeneralIn  Secondment = "general_in"
	SecondmentSpecialOut Secondment = "special_out"
	SecondmentGeneralOut Secondment = "general_out"
)

func (s Secondment) IsValid() bool {
	switch s {
	case SecondmentNone, SecondmentSpecialIn, SecondmentGeneralIn, SecondmentSpecialOut, SecondmentGeneralOut:
		return true
	}
	return false
}

type Personnel struct {
	ID              uint64     `gorm:"primaryKey;column:id" json:"-"`
	PersonnelID     string     `gorm:"size:32;not null;uniqueIndex:ux_personnel_personnel_id" json:"personnel_id"`
	Name            string     `gorm:"size:120;not null" json:"name"`
	NRP             int64      `gorm:"column:nrp;not null;uniqueIndex:ux_personnel_nrp" json:"nrp"`
	RankID          uint64     `gorm:"not null;index:idx_personnel_unit_rank_status,priority:2" json:"rank_id"`
	UnitID          uint64     `gorm:"not null;index:idx_personnel_unit_rank_status,priority:1" json:"unit_id"`
	SubDepartmentID uint64     `gorm:"not null" json:"sub_department_id"`
	JobTitleID      uint64     `gorm:"not null" json:"job_title_id"`
	Gender          Gender     `gorm:"size:1;not null" json:"gender"`
	Status          Status     `gorm:"size:20;not null;index:idx_personnel_unit_rank_status,priority:3" json:"status"`
	Secondment      Secondment `gorm:"size:20;not null;default:'none'" json:"secondment"`
	UserID          *uint64    `gorm:"uniqueIndex:ux_personnel_user_id" json:"user_id,omitempty"`
	CreatedAt       time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Personnel) TableName() string { return "personnel" }

type SubDepartment struct {
	ID   uint64 `gorm:"primaryKey;column:id" json:"id"`
	Name string `gorm:"size:120;not null;uniqueIndex:ux_sub_departments_name" json:"name"`
}

func (SubDepartment) TableName() string { return "sub_departments" }

type JobTitle struct {
	ID   uint64 `gorm:"primaryKey;column:id" json:"id"`
	Name string `gorm:"size:120;not null;uniqueIndex:ux_job_titles_name" json:"name"`
}

func (JobTitle) TableName() string { return "job_titles" }

type Repository interface {
	Create(ctx context.Context, p *Personnel) error
	GetByPersonnelID(ctx context.Context, personnelID string) (*Personnel, error)
	GetByPersonnelIDForUpdate(ctx context.Context, personnelID string) (*Personnel, error)
	GetByID(ctx context.Context, id uint64) (*Personnel, error)
	GetByUserID(ctx context.Context, userID uint64) (*Personnel, error)
	ExistsNRP(ctx context.Context, nrp int64) (bool, error)
	Save(ctx context.Context, p *Personnel) error
	Delete(ctx context.Context, id uint64) error
}

type ReferenceRepository interface {
	CreateSubDepartment(ctx context.Context, s *SubDepartment) error
	GetSubDepartment(ctx context.Context, id uint64) (*SubDepartment, error)
	GetSubDepartmentByName(ctx context.Context, name string) (*SubDepartment, error)
	CreateJobTitle(ctx context.Context, j *JobTitle) error
	GetJobTitle(ctx context.Context, id uint64) (*JobTitle, error)
	GetJobTitleByName(ctx context.Context, name string) (*JobTitle, error)
}
