// Package app wires repositories, use cases and HTTP handlers together.
package app

import (
	"context"
	"time"

	httpadp "sinfopers/internal/adapter/http"
	"sinfopers/internal/adapter/repository/mysql"
	"sinfopers/internal/domain/identity"
	"sinfopers/internal/usecase/information"
	"sinfopers/internal/usecase/leave"
	"sinfopers/internal/usecase/personnel"
	"sinfopers/internal/usecase/request"
	"sinfopers/internal/usecase/staffing"

	"gorm.io/gorm"
)

type Services struct {
	db *gorm.DB
	tx *mysql.GormUoW
	// clock is Options.Clock, nil for time.Now
	clock func() time.Time

	Ledger   *staffing.Ledger
	Registry *personnel.Registry
	Workflow *request.Workflow
	Tracker  *leave.Tracker
	Users    identity.Repository
}

type Options struct {
	LeaveEntitlement int
	// Clock overrides time.Now in the workflow and the information board.
	Clock func() time.Time
}

func NewServices(db *gorm.DB, o Options) *Services {
	tx := mysql.NewGormUoW(db)
	ledger := staffing.NewLedger(mysql.NewStaffingRepository(db), mysql.NewReferenceRepository(db), tx)
	tracker := leave.NewTracker(tx, o.LeaveEntitlement)

	var wfOpts []request.Option
	if o.Clock != nil {
		wfOpts = append(wfOpts, request.WithClock(o.Clock))
	}
	return &Services{
		db:       db,
		tx:       tx,
		clock:    o.Clock,
		Ledger:   ledger,
		Registry: personnel.NewRegistry(mysql.NewPersonnelRepository(db), ledger, tx),
		Workflow: request.NewWorkflow(mysql.NewRequestRepository(db), tracker, tx, wfOpts...),
		Tracker:  tracker,
		Users:    mysql.NewUserRepository(db),
	}
}

// Handlers builds the HTTP handlers. The health endpoint always checks the
// database; extra adds the other dependencies the process holds.
func (s *Services) Handlers(docs httpadp.DocumentStore, extra ...httpadp.HealthCheck) httpadp.Handlers {
	checks := append([]httpadp.HealthCheck{{Name: "database", Ping: s.pingDB}}, extra...)
	var boardOpts []information.Option
	if s.clock != nil {
		boardOpts = append(boardOpts, information.WithClock(s.clock))
	}
	return httpadp.Handlers{
		Health:    httpadp.NewHealthHandler(checks...),
		Staffing:  httpadp.NewStaffingHandler(s.Ledger),
		Personnel: httpadp.NewPersonnelHandler(s.Registry),
		Requests:  httpadp.NewRequestHandler(s.Workflow, docs),
		Leave:     httpadp.NewLeaveHandler(s.Tracker, s.Registry),
		Information: httpadp.NewInformationHandler(
			information.NewBoard(mysql.NewInformationRepository(s.db), s.tx, docs, boardOpts...), docs),
	}
}

func (s *Services) pingDB(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
