package http

import (
	"net/http"
	"strconv"

	"sinfopers/internal/adapter/middleware"
	"sinfopers/internal/domain/identity"
	domainPersonnel "sinfopers/internal/domain/personnel"
	"sinfopers/internal/usecase/leave"
	"sinfopers/internal/usecase/personnel"

	"github.com/labstack/echo/v4"
)

type LeaveHandler struct {
	tracker  *leave.Tracker
	registry *personnel.Registry
}

func NewLeaveHandler(tracker *leave.Tracker, registry *personnel.Registry) *LeaveHandler {
	return &LeaveHandler{tracker: tracker, registry: registry}
}

// Balance returns a personnel's balance for a year, creating it on first
// read. Members may only read their own.
func (h *LeaveHandler) Balance(c echo.Context) error {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "not authenticated"})
	}
	id, ok := personnelID(c)
	if !ok {
		return badRequest(c, "invalid personnel_id path param")
	}
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		return badRequest(c, "invalid year path param")
	}

	ctx := c.Request().Context()
	if actor.Role == identity.RoleMember {
		own, err := h.registry.GetByUser(ctx, actor.UserID)
		if err != nil {
			return respondError(c, err)
		}
		if own.PersonnelID != id {
			return respondError(c, domainPersonnel.ErrNotFound)
		}
	}

	dto, err := h.tracker.Balance(ctx, id, year)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
