package http

import (
	"net/http"
	"strconv"

	"sinfopers/internal/adapter/middleware"
	"sinfopers/internal/usecase/information"
	pkgid "sinfopers/pkg/id"

	"github.com/labstack/echo/v4"
)

type InformationHandler struct {
	uc   *information.Board
	docs DocumentStore
}

func NewInformationHandler(uc *information.Board, docs DocumentStore) *InformationHandler {
	return &InformationHandler{uc: uc, docs: docs}
}

// JSON or multipart with an optional "document" PDF.
type informationReq struct {
	Title string `json:"title" form:"title" validate:"notblank,max=50"`
	Body  string `json:"body"  form:"body"  validate:"notblank"`
}

func (h *InformationHandler) List(c echo.Context) error {
	limit := 50
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 500 {
			return badRequest(c, "limit must be between 1 and 500")
		}
		limit = n
	}
	out, err := h.uc.List(c.Request().Context(), limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"information": out})
}

func (h *InformationHandler) Publish(c echo.Context) error {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "not authenticated"})
	}
	var req informationReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	ref, ok, err := attachDocument(c, h.docs)
	if !ok {
		return err
	}
	dto, err := h.uc.Publish(c.Request().Context(), actor, information.ContentInput{
		Title: req.Title, Body: req.Body, DocumentRef: ref,
	})
	if err != nil {
		discardDocument(h.docs, ref)
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *InformationHandler) Get(c echo.Context) error {
	id, ok := informationID(c)
	if !ok {
		return badRequest(c, "invalid information_id path param")
	}
	dto, err := h.uc.Get(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *InformationHandler) Update(c echo.Context) error {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "not authenticated"})
	}
	id, ok := informationID(c)
	if !ok {
		return badRequest(c, "invalid information_id path param")
	}
	var req informationReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	ref, ok, err := attachDocument(c, h.docs)
	if !ok {
		return err
	}
	dto, err := h.uc.Update(c.Request().Context(), actor, id, information.ContentInput{
		Title: req.Title, Body: req.Body, DocumentRef: ref,
	})
	if err != nil {
		discardDocument(h.docs, ref)
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *InformationHandler) Delete(c echo.Context) error {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "not authenticated"})
	}
	id, ok := informationID(c)
	if !ok {
		return badRequest(c, "invalid information_id path param")
	}
	if err := h.uc.Delete(c.Request().Context(), actor, id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *InformationHandler) Logs(c echo.Context) error {
	id, ok := informationID(c)
	if !ok {
		return badRequest(c, "invalid information_id path param")
	}
	out, err := h.uc.Logs(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"logs": out})
}

func informationID(c echo.Context) (string, bool) {
	id := c.Param("information_id")
	return id, pkgid.IsID32(id)
}
