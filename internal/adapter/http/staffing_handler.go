package http

import (
	"bytes"
	"net/http"
	"strconv"
	"time"

	"sinfopers/internal/adapter/xlsx"
	"sinfopers/internal/usecase/staffing"

	"github.com/labstack/echo/v4"
)

const mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type StaffingHandler struct{ uc *staffing.Ledger }

func NewStaffingHandler(uc *staffing.Ledger) *StaffingHandler { return &StaffingHandler{uc: uc} }

type createSlotReq struct {
	Name    string   `json:"name"     validate:"notblank"`
	UnitID  uint64   `json:"unit_id"  validate:"required"`
	RankIDs []uint64 `json:"rank_ids" validate:"required,min=1"`
	Quota   int      `json:"quota"    validate:"gte=0"`
}

type setQuotaReq struct {
	Quota *int `json:"quota" validate:"required,gte=0"`
}

type quotaRowReq struct {
	Rank  string `json:"rank"  validate:"notblank"`
	Quota int    `json:"quota" validate:"gte=0"`
}

type importQuotasReq struct {
	Unit string        `json:"unit" validate:"notblank"`
	Rows []quotaRowReq `json:"rows" validate:"required,min=1,dive"`
}

func (h *StaffingHandler) ListSlots(c echo.Context) error {
	slots, err := h.uc.ListSlots(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"slots": slots})
}

func (h *StaffingHandler) CreateSlot(c echo.Context) error {
	var req createSlotReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	dto, err := h.uc.CreateSlot(c.Request().Context(), staffing.CreateSlotInput(req))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *StaffingHandler) SetQuota(c echo.Context) error {
	slotID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || slotID == 0 {
		return badRequest(c, "invalid slot id path param")
	}
	var req setQuotaReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	dto, err := h.uc.SetQuota(c.Request().Context(), slotID, *req.Quota)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *StaffingHandler) Capacity(c echo.Context) error {
	unitID, err1 := strconv.ParseUint(c.QueryParam("unit_id"), 10, 64)
	rankID, err2 := strconv.ParseUint(c.QueryParam("rank_id"), 10, 64)
	if err1 != nil || err2 != nil {
		return badRequest(c, "unit_id and rank_id query params are required")
	}
	dto, err := h.uc.Capacity(c.Request().Context(), unitID, rankID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *StaffingHandler) Summary(c echo.Context) error {
	s, err := h.uc.Summary(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, s)
}

func (h *StaffingHandler) Export(c echo.Context) error {
	s, err := h.uc.Summary(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	var buf bytes.Buffer
	if err := xlsx.WriteSummary(&buf, s); err != nil {
		return respondError(c, err)
	}
	name := "dsp-riil-" + time.Now().UTC().Format("20060102") + ".xlsx"
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+name+`"`)
	return c.Blob(http.StatusOK, mimeXLSX, buf.Bytes())
}

func (h *StaffingHandler) ImportQuotas(c echo.Context) error {
	var req importQuotasReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	rows := make([]staffing.QuotaRow, 0, len(req.Rows))
	for _, r := range req.Rows {
		rows = append(rows, staffing.QuotaRow(r))
	}
	s, err := h.uc.ImportQuotas(c.Request().Context(), req.Unit, rows)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, s)
}
