package http

import (
	"net/http"
	"strconv"
	"time"

	"sinfopers/internal/adapter/middleware"
	domain "sinfopers/internal/domain/request"
	"sinfopers/internal/usecase/request"
	pkgid "sinfopers/pkg/id"

	"github.com/labstack/echo/v4"
)

type RequestHandler struct {
	uc   *request.Workflow
	docs DocumentStore
	now  func() time.Time
}

func NewRequestHandler(uc *request.Workflow, docs DocumentStore) *RequestHandler {
	return &RequestHandler{uc: uc, docs: docs, now: time.Now}
}

// leave and transfer submissions come as JSON or as multipart forms with a
// "document" file part.
type leaveReq struct {
	Reason    string `json:"reason"     form:"reason"     validate:"notblank"`
	StartDate string `json:"start_date" form:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date"   form:"end_date"   validate:"required,datetime=2006-01-02"`
}

type transferReq struct {
	Reason      string `json:"reason"      form:"reason"      validate:"notblank"`
	Destination string `json:"destination" form:"destination" validate:"notblank"`
}

type reviewReq struct {
	Decision string `json:"decision" validate:"required"`
	Note     string `json:"note"`
}

func (h *RequestHandler) SubmitLeave(c echo.Context) error {
	var req leaveReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	// both already validated by the datetime tag
	start, _ := time.Parse(time.DateOnly, req.StartDate)
	end, _ := time.Parse(time.DateOnly, req.EndDate)
	return h.submit(c, request.SubmitInput{
		Kind:      domain.KindLeave,
		Reason:    req.Reason,
		StartDate: start,
		EndDate:   end,
	})
}

func (h *RequestHandler) SubmitTransfer(c echo.Context) error {
	var req transferReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	return h.submit(c, request.SubmitInput{
		Kind:        domain.KindTransfer,
		Reason:      req.Reason,
		Destination: req.Destination,
	})
}

func (h *RequestHandler) submit(c echo.Context, in request.SubmitInput) error {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "not authenticated"})
	}

	ref, ok, err := attachDocument(c, h.docs)
	if !ok {
		return err
	}
	in.DocumentRef = ref

	dto, err := h.uc.Submit(c.Request().Context(), actor, in)
	if err != nil {
		discardDocument(h.docs, ref)
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *RequestHandler) List(c echo.Context) error {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "not authenticated"})
	}
	limit := 50
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 500 {
			return badRequest(c, "limit must be between 1 and 500")
		}
		limit = n
	}
	out, err := h.uc.ListForActor(c.Request().Context(), actor, limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"requests": out})
}

func (h *RequestHandler) Get(c echo.Context) error {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "not authenticated"})
	}
	id := c.Param("request_id")
	if !pkgid.IsID32(id) {
		return badRequest(c, "invalid request_id path param")
	}
	dto, err := h.uc.Get(c.Request().Context(), actor, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *RequestHandler) review(c echo.Context, decide func(request.ReviewInput, string) (*request.RequestDTO, error)) error {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "not authenticated"})
	}
	id := c.Param("request_id")
	if !pkgid.IsID32(id) {
		return badRequest(c, "invalid request_id path param")
	}
	var req reviewReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	dto, err := decide(request.ReviewInput{RequestID: id, ActorID: actor.UserID, Note: req.Note}, req.Decision)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *RequestHandler) HRReview(c echo.Context) error {
	ctx := c.Request().Context()
	return h.review(c, func(in request.ReviewInput, decision string) (*request.RequestDTO, error) {
		return h.uc.ReviewAsHR(ctx, in, request.HRDecision(decision))
	})
}

func (h *RequestHandler) LeadershipReview(c echo.Context) error {
	ctx := c.Request().Context()
	return h.review(c, func(in request.ReviewInput, decision string) (*request.RequestDTO, error) {
		return h.uc.ReviewAsLeadership(ctx, in, request.LeadershipDecision(decision))
	})
}

// Sweep runs the expiry sweep now; ?dry_run=true only counts.
func (h *RequestHandler) Sweep(c echo.Context) error {
	ctx := c.Request().Context()
	now := h.now()
	if dry, _ := strconv.ParseBool(c.QueryParam("dry_run")); dry {
		n, err := h.uc.CountExpirable(ctx, now)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, map[string]any{"dry_run": true, "expirable": n})
	}
	n, err := h.uc.SweepExpired(ctx, now)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"expired": n})
}
