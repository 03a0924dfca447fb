package personnel

import (
	"time"

	domain "sinfopers/internal/domain/personnel"
)

type AdmitInput struct {
	Name            string
	NRP             int64
	UnitID          uint64
	RankID          uint64
	SubDepartmentID uint64
	JobTitleID      uint64
	Gender          domain.Gender
	Status          domain.Status     // empty means active
	Secondment      domain.Secondment // empty means none
}

// RetireMode is how a personnel record leaves the active roster.
type RetireMode string

const (
	RetireDeactivate RetireMode = "deactivate"
	RetireRetire     RetireMode = "retire"
	RetireDelete     RetireMode = "delete"
)

func (m RetireMode) IsValid() bool {
	return m == RetireDeactivate || m == RetireRetire || m == RetireDelete
}

// ImportRow is one spreadsheet line; references are by name.
type ImportRow struct {
	Line          int
	Name          string
	NRP           string
	Rank          string
	Unit          string
	SubDepartment string
	JobTitle      string
	Gender        string
	Secondment    string
	Status        string
	Username      string
}

type RowError struct {
	Row     int    `json:"row"`
	NRP     string `json:"nrp,omitempty"`
	Message string `json:"message"`
}

type ImportReport struct {
	Total     int        `json:"total"`
	Succeeded int        `json:"succeeded"`
	Failed    int        `json:"failed"`
	Errors    []RowError `json:"errors"`
}

type PersonnelDTO struct {
	PersonnelID     string            `json:"personnel_id"`
	Name            string            `json:"name"`
	NRP             int64             `json:"nrp"`
	UnitID          uint64            `json:"unit_id"`
	RankID          uint64            `json:"rank_id"`
	SubDepartmentID uint64            `json:"sub_department_id"`
	JobTitleID      uint64            `json:"job_title_id"`
	Gender          domain.Gender     `json:"gender"`
	Status          domain.Status     `json:"status"`
	Secondment      domain.Secondment `json:"secondment"`
	UserID          *uint64           `json:"user_id,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

func toDTO(p *domain.Personnel) *PersonnelDTO {
	return &PersonnelDTO{
		PersonnelID:     p.PersonnelID,
		Name:            p.Name,
		NRP:             p.NRP,
		UnitID:          p.UnitID,
		RankID:          p.RankID,
		SubDepartmentID: p.SubDepartmentID,
		JobTitleID:      p.JobTitleID,
		Gender:          p.Gender,
		Status:          p.Status,
		Secondment:      p.Secondment,
		UserID:          p.UserID,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}
