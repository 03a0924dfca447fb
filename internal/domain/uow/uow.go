package uow

import (
	"context"

	"sinfopers/internal/domain/identity"
	"sinfopers/internal/domain/information"
	"sinfopers/internal/domain/leave"
	"sinfopers/internal/domain/personnel"
	"sinfopers/internal/domain/request"
	"sinfopers/internal/domain/staffing"
)

// Repos are the repositories bound to one transaction.
type Repos struct {
	Slots      staffing.Repository
	Units      staffing.ReferenceRepository
	Personnel  personnel.Repository
	References personnel.ReferenceRepository
	Requests   request.Repository
	Balances   leave.Repository
	Users      identity.Repository
	Notices    information.Repository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// lock the request row first, then pass it in
	WithinRequestTx(ctx context.Context, requestID string, fn func(r Repos, req *request.Request) error) error
}
