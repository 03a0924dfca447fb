package http

import (
	"time"

	"sinfopers/internal/adapter/middleware"
	"sinfopers/internal/domain/identity"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

type Handlers struct {
	Health      *HealthHandler
	Staffing    *StaffingHandler
	Personnel   *PersonnelHandler
	Requests    *RequestHandler
	Leave       *LeaveHandler
	Information *InformationHandler
}

type RouteConfig struct {
	Verifier middleware.TokenVerifier
	Authz    identity.Authorizer
	// Redis backs the idempotency middleware; nil turns it off.
	Redis          *redis.Client
	IdempotencyTTL time.Duration
}

// RegisterRoutes mounts /health and the authenticated /api/v1 tree.
func RegisterRoutes(e *echo.Echo, h Handlers, rc RouteConfig) {
	e.GET("/health", h.Health.Health)

	mws := []echo.MiddlewareFunc{middleware.Authenticate(rc.Verifier)}
	if rc.Redis != nil {
		mws = append(mws, middleware.IdempotencyMiddleware(rc.Redis, rc.IdempotencyTTL))
	}
	api := e.Group("/api/v1", mws...)
	can := func(a identity.Action) echo.MiddlewareFunc { return middleware.RequireAction(rc.Authz, a) }

	st := api.Group("/staffing")
	st.GET("/slots", h.Staffing.ListSlots, can(identity.ActionViewStaffing))
	st.POST("/slots", h.Staffing.CreateSlot, can(identity.ActionManageStaffing))
	st.PUT("/slots/:id/quota", h.Staffing.SetQuota, can(identity.ActionManageStaffing))
	st.GET("/capacity", h.Staffing.Capacity, can(identity.ActionViewStaffing))
	st.GET("/summary", h.Staffing.Summary, can(identity.ActionViewStaffing))
	st.GET("/export", h.Staffing.Export, can(identity.ActionViewStaffing))
	st.POST("/quotas", h.Staffing.ImportQuotas, can(identity.ActionManageStaffing))

	pe := api.Group("/personnel")
	pe.POST("", h.Personnel.Admit, can(identity.ActionManagePersonnel))
	pe.POST("/import", h.Personnel.Import, can(identity.ActionImportPersonnel))
	pe.GET("/:personnel_id", h.Personnel.Get, can(identity.ActionViewPersonnel))
	pe.PATCH("/:personnel_id/status", h.Personnel.SetStatus, can(identity.ActionManagePersonnel))
	pe.POST("/:personnel_id/retire", h.Personnel.Retire, can(identity.ActionManagePersonnel))
	pe.POST("/:personnel_id/link", h.Personnel.Link, can(identity.ActionLinkIdentity))

	rq := api.Group("/requests")
	rq.POST("/leave", h.Requests.SubmitLeave, can(identity.ActionSubmitRequest))
	rq.POST("/transfer", h.Requests.SubmitTransfer, can(identity.ActionSubmitRequest))
	rq.POST("/sweep", h.Requests.Sweep, can(identity.ActionSweepRequests))
	rq.GET("", h.Requests.List, can(identity.ActionListRequests))
	rq.GET("/:request_id", h.Requests.Get, can(identity.ActionListRequests))
	rq.POST("/:request_id/hr-review", h.Requests.HRReview, can(identity.ActionReviewHR))
	rq.POST("/:request_id/leadership-review", h.Requests.LeadershipReview, can(identity.ActionReviewLeadership))

	api.GET("/leave-balances/:personnel_id/:year", h.Leave.Balance, can(identity.ActionViewLeaveBalance))

	inf := api.Group("/information")
	inf.GET("", h.Information.List, can(identity.ActionViewInformation))
	inf.POST("", h.Information.Publish, can(identity.ActionPublishInformation))
	inf.GET("/:information_id", h.Information.Get, can(identity.ActionViewInformation))
	inf.PUT("/:information_id", h.Information.Update, can(identity.ActionPublishInformation))
	inf.DELETE("/:information_id", h.Information.Delete, can(identity.ActionPublishInformation))
	inf.GET("/:information_id/logs", h.Information.Logs, can(identity.ActionViewInformation))
}
