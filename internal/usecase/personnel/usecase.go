package personnel

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"sinfopers/internal/apperr"
	domain "sinfopers/internal/domain/personnel"
	"sinfopers/internal/domain/staffing"
	"sinfopers/internal/domain/uow"
	"sinfopers/internal/logger"
	"sinfopers/pkg/id"

	"gorm.io/gorm"
)

// Capacity is the part of the staffing ledger admission needs. Both calls run
// inside the admission transaction and lock the resolved slot.
type Capacity interface {
	CheckCapacity(ctx context.Context, r uow.Repos, unitID, rankID uint64) (*staffing.Slot, error)
	ResolveSlot(ctx context.Context, r uow.Repos, unitID, rankID uint64) (*staffing.Slot, error)
}

type Registry struct {
	people domain.Repository
	ledger Capacity
	uow    uow.UnitOfWork
	log    *slog.Logger
}

func NewRegistry(people domain.Repository, ledger Capacity, tx uow.UnitOfWork) *Registry {
	return &Registry{people: people, ledger: ledger, uow: tx, log: logger.WithComponent("personnel")}
}

func (in *AdmitInput) normalize() error {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return apperr.Validation("name is required")
	}
	if in.NRP < 1 || in.NRP > domain.MaxNRP {
		return apperr.Validation("NRP must be between 1 and %d", domain.MaxNRP)
	}
	if !in.Gender.IsValid() {
		return apperr.Validation("gender must be L or P")
	}
	if in.Status == "" {
		in.Status = domain.StatusActive
	}
	if !in.Status.IsValid() {
		return apperr.Validation("unknown status %q", in.Status)
	}
	if in.Secondment == "" {
		in.Secondment = domain.SecondmentNone
	}
	if !in.Secondment.IsValid() {
		return apperr.Validation("unknown secondment %q", in.Secondment)
	}
	return nil
}

// Admit validates and inserts a personnel record in one transaction. Active
// admissions must fit in the covering slot's quota.
func (u *Registry) Admit(ctx context.Context, in AdmitInput) (*PersonnelDTO, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}
	var p *domain.Personnel
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		var err error
		p, err = u.admit(ctx, r, in)
		return err
	})
	if err != nil {
		return nil, err
	}
	u.log.Info("personnel admitted", "personnel_id", p.PersonnelID, "unit_id", p.UnitID, "rank_id", p.RankID)
	return toDTO(p), nil
}

func (u *Registry) admit(ctx context.Context, r uow.Repos, in AdmitInput) (*domain.Personnel, error) {
	exists, err := r.Personnel.ExistsNRP(ctx, in.NRP)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.Detail(domain.ErrDuplicateNRP, "NRP %d", in.NRP)
	}

	if _, err := r.Units.GetUnit(ctx, in.UnitID); err != nil {
		return nil, unknownRef(err, "unit", in.UnitID)
	}
	if _, err := r.Units.GetRank(ctx, in.RankID); err != nil {
		return nil, unknownRef(err, "rank", in.RankID)
	}
	if _, err := r.References.GetSubDepartment(ctx, in.SubDepartmentID); err != nil {
		return nil, unknownRef(err, "sub-department", in.SubDepartmentID)
	}
	if _, err := r.References.GetJobTitle(ctx, in.JobTitleID); err != nil {
		return nil, unknownRef(err, "job title", in.JobTitleID)
	}

	// the slot must exist either way; only active personnel take a place
	if in.Status == domain.StatusActive {
		_, err = u.ledger.CheckCapacity(ctx, r, in.UnitID, in.RankID)
	} else {
		_, err = u.ledger.ResolveSlot(ctx, r, in.UnitID, in.RankID)
	}
	if err != nil {
		return nil, err
	}

	p := &domain.Personnel{
		PersonnelID:     id.NewID32(),
		Name:            in.Name,
		NRP:             in.NRP,
		RankID:          in.RankID,
		UnitID:          in.UnitID,
		SubDepartmentID: in.SubDepartmentID,
		JobTitleID:      in.JobTitleID,
		Gender:          in.Gender,
		Status:          in.Status,
		Secondment:      in.Secondment,
	}
	if err := r.Personnel.Create(ctx, p); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Detail(domain.ErrDuplicateNRP, "NRP %d", in.NRP)
		}
		return nil, err
	}
	return p, nil
}

func unknownRef(err error, what string, refID uint64) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.Validation("unknown %s %d", what, refID)
	}
	return err
}

func (u *Registry) Get(ctx context.Context, personnelID string) (*PersonnelDTO, error) {
	p, err := u.people.GetByPersonnelID(ctx, personnelID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return toDTO(p), nil
}

// GetByUser returns the personnel record linked to userID.
func (u *Registry) GetByUser(ctx context.Context, userID uint64) (*PersonnelDTO, error) {
	p, err := u.people.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return toDTO(p), nil
}

// Retire takes a record off the active roster. delete removes the row for
// good; the other modes only change status. Occupancy follows by itself.
func (u *Registry) Retire(ctx context.Context, personnelID string, mode RetireMode) (*PersonnelDTO, error) {
	if !mode.IsValid() {
		return nil, apperr.Validation("unknown retire mode %q", mode)
	}
	var dto *PersonnelDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		p, err := lockPersonnel(ctx, r, personnelID)
		if err != nil {
			return err
		}
		switch mode {
		case RetireDelete:
			return r.Personnel.Delete(ctx, p.ID)
		case RetireRetire:
			p.Status = domain.StatusRetired
		default:
			p.Status = domain.StatusInactive
		}
		if err := r.Personnel.Save(ctx, p); err != nil {
			return err
		}
		dto = toDTO(p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	u.log.Info("personnel retired", "personnel_id", personnelID, "mode", mode)
	return dto, nil
}

// SetStatus changes status freely. Capacity is only enforced on admission.
func (u *Registry) SetStatus(ctx context.Context, personnelID string, status domain.Status) (*PersonnelDTO, error) {
	if !status.IsValid() {
		return nil, apperr.Validation("unknown status %q", status)
	}
	var dto *PersonnelDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		p, err := lockPersonnel(ctx, r, personnelID)
		if err != nil {
			return err
		}
		p.Status = status
		if err := r.Personnel.Save(ctx, p); err != nil {
			return err
		}
		dto = toDTO(p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

func lockPersonnel(ctx context.Context, r uow.Repos, personnelID string) (*domain.Personnel, error) {
	p, err := r.Personnel.GetByPersonnelIDForUpdate(ctx, personnelID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

// LinkToIdentity attaches a user to a personnel record. Either side already
// being linked is a conflict.
func (u *Registry) LinkToIdentity(ctx context.Context, personnelID string, userID uint64) (*PersonnelDTO, error) {
	var dto *PersonnelDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		p, err := lockPersonnel(ctx, r, personnelID)
		if err != nil {
			return err
		}
		if err := link(ctx, r, p, userID); err != nil {
			return err
		}
		dto = toDTO(p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	u.log.Info("personnel linked", "personnel_id", personnelID, "user_id", userID)
	return dto, nil
}

func link(ctx context.Context, r uow.Repos, p *domain.Personnel, userID uint64) error {
	if p.UserID != nil {
		return apperr.Detail(domain.ErrAlreadyLinked, "linked to user %d", *p.UserID)
	}
	if _, err := r.Users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.Detail(domain.ErrUnknownIdentity, "user %d", userID)
		}
		return err
	}
	other, err := r.Personnel.GetByUserID(ctx, userID)
	switch {
	case err == nil:
		return apperr.Detail(domain.ErrIdentityTaken, "user %d belongs to personnel %s", userID, other.PersonnelID)
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return err
	}

	p.UserID = &userID
	if err := r.Personnel.Save(ctx, p); err != nil {
		p.UserID = nil
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrIdentityTaken
		}
		return err
	}
	return nil
}

// BulkImport admits rows one by one, each in its own transaction, so a bad
// row is reported without touching the others.
func (u *Registry) BulkImport(ctx context.Context, rows []ImportRow) *ImportReport {
	rep := &ImportReport{Total: len(rows), Errors: []RowError{}}
	for i, row := range rows {
		line := row.Line
		if line == 0 {
			line = i + 1
		}
		if err := u.importRow(ctx, row); err != nil {
			rep.Failed++
			rep.Errors = append(rep.Errors, RowError{Row: line, NRP: row.NRP, Message: rowMessage(err)})
			u.log.Warn("import row rejected", "row", line, "nrp", row.NRP, "error", err)
			continue
		}
		rep.Succeeded++
	}
	u.log.Info("personnel import finished", "total", rep.Total, "succeeded", rep.Succeeded, "failed", rep.Failed)
	return rep
}

func rowMessage(err error) string {
	if _, ok := apperr.As(err); ok {
		return err.Error()
	}
	return "internal error: " + err.Error()
}

func (u *Registry) importRow(ctx context.Context, row ImportRow) error {
	nrp, err := strconv.ParseInt(strings.TrimSpace(row.NRP), 10, 64)
	if err != nil {
		return apperr.Validation("NRP %q is not a number", row.NRP)
	}
	in := AdmitInput{
		Name:       row.Name,
		NRP:        nrp,
		Gender:     domain.Gender(strings.ToUpper(strings.TrimSpace(row.Gender))),
		Status:     domain.Status(strings.TrimSpace(row.Status)),
		Secondment: domain.Secondment(strings.TrimSpace(row.Secondment)),
	}
	if err := in.normalize(); err != nil {
		return err
	}

	return u.uow.WithinTx(ctx, func(r uow.Repos) error {
		unit, err := r.Units.GetUnitByName(ctx, strings.TrimSpace(row.Unit))
		if err != nil {
			return unknownName(err, "unit", row.Unit)
		}
		rank, err := r.Units.GetRankByName(ctx, strings.TrimSpace(row.Rank))
		if err != nil {
			return unknownName(err, "rank", row.Rank)
		}
		sd, err := r.References.GetSubDepartmentByName(ctx, strings.TrimSpace(row.SubDepartment))
		if err != nil {
			return unknownName(err, "sub-department", row.SubDepartment)
		}
		jt, err := r.References.GetJobTitleByName(ctx, strings.TrimSpace(row.JobTitle))
		if err != nil {
			return unknownName(err, "job title", row.JobTitle)
		}
		in.UnitID, in.RankID, in.SubDepartmentID, in.JobTitleID = unit.ID, rank.ID, sd.ID, jt.ID

		p, err := u.admit(ctx, r, in)
		if err != nil {
			return err
		}
		username := strings.TrimSpace(row.Username)
		if username == "" {
			return nil
		}
		user, err := r.Users.GetByUsername(ctx, username)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.Detail(domain.ErrUnknownIdentity, "username %q", username)
			}
			return err
		}
		return link(ctx, r, p, user.ID)
	})
}

func unknownName(err error, what, name string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.Validation("unknown %s %q", what, name)
	}
	return fmt.Errorf("lookup %s: %w", what, err)
}
