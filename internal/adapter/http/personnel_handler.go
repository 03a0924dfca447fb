package http

import (
	"net/http"

	"sinfopers/internal/adapter/xlsx"
	domain "sinfopers/internal/domain/personnel"
	"sinfopers/internal/usecase/personnel"
	pkgid "sinfopers/pkg/id"

	"github.com/labstack/echo/v4"
)

type PersonnelHandler struct{ uc *personnel.Registry }

func NewPersonnelHandler(uc *personnel.Registry) *PersonnelHandler {
	return &PersonnelHandler{uc: uc}
}

type admitReq struct {
	Name            string `json:"name"              validate:"notblank"`
	NRP             int64  `json:"nrp"               validate:"required,gt=0"`
	UnitID          uint64 `json:"unit_id"           validate:"required"`
	RankID          uint64 `json:"rank_id"           validate:"required"`
	SubDepartmentID uint64 `json:"sub_department_id" validate:"required"`
	JobTitleID      uint64 `json:"job_title_id"      validate:"required"`
	Gender          string `json:"gender"            validate:"oneof=L P"`
	Status          string `json:"status"`
	Secondment      string `json:"secondment"`
}

type setStatusReq struct {
	Status string `json:"status" validate:"oneof=active inactive on_leave retired"`
}

type retireReq struct {
	Mode string `json:"mode" validate:"oneof=deactivate retire delete"`
}

type linkReq struct {
	UserID uint64 `json:"user_id" validate:"required"`
}

func personnelID(c echo.Context) (string, bool) {
	id := c.Param("personnel_id")
	return id, pkgid.IsID32(id)
}

func (h *PersonnelHandler) Admit(c echo.Context) error {
	var req admitReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Admit(c.Request().Context(), personnel.AdmitInput{
		Name:            req.Name,
		NRP:             req.NRP,
		UnitID:          req.UnitID,
		RankID:          req.RankID,
		SubDepartmentID: req.SubDepartmentID,
		JobTitleID:      req.JobTitleID,
		Gender:          domain.Gender(req.Gender),
		Status:          domain.Status(req.Status),
		Secondment:      domain.Secondment(req.Secondment),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *PersonnelHandler) Get(c echo.Context) error {
	id, ok := personnelID(c)
	if !ok {
		return badRequest(c, "invalid personnel_id path param")
	}
	dto, err := h.uc.Get(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *PersonnelHandler) SetStatus(c echo.Context) error {
	id, ok := personnelID(c)
	if !ok {
		return badRequest(c, "invalid personnel_id path param")
	}
	var req setStatusReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	dto, err := h.uc.SetStatus(c.Request().Context(), id, domain.Status(req.Status))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *PersonnelHandler) Retire(c echo.Context) error {
	id, ok := personnelID(c)
	if !ok {
		return badRequest(c, "invalid personnel_id path param")
	}
	var req retireReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Retire(c.Request().Context(), id, personnel.RetireMode(req.Mode))
	if err != nil {
		return respondError(c, err)
	}
	if req.Mode == string(personnel.RetireDelete) {
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *PersonnelHandler) Link(c echo.Context) error {
	id, ok := personnelID(c)
	if !ok {
		return badRequest(c, "invalid personnel_id path param")
	}
	var req linkReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	dto, err := h.uc.LinkToIdentity(c.Request().Context(), id, req.UserID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

// Import takes a multipart "file" holding an xlsx sheet. Row failures are
// part of the report, so the status is 200 even when some rows fail.
func (h *PersonnelHandler) Import(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return badRequest(c, "missing file")
	}
	f, err := fh.Open()
	if err != nil {
		return badRequest(c, "unreadable file")
	}
	defer f.Close()

	rows, err := xlsx.ReadPersonnel(f)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, h.uc.BulkImport(c.Request().Context(), rows))
}
