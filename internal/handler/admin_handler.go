package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/placement-cell/placement-api/internal/models"
	"github.com/placement-cell/placement-api/internal/service"
	appErrors "github.com/placement-cell/placement-api/pkg/errors"
	"github.com/placement-cell/placement-api/pkg/response"
)

// AdminHandler exposes registration, placement updates, the dashboard
// and bulk roster import.
type AdminHandler struct {
	admin       *service.AdminService
	bulk        *service.BulkService
	maxFileSize int64
}

// NewAdminHandler constructs AdminHandler.
func NewAdminHandler(admin *service.AdminService, bulk *service.BulkService, maxFileSize int64) *AdminHandler {
	return &AdminHandler{admin: admin, bulk: bulk, maxFileSize: maxFileSize}
}

// RegisterStudent godoc
// @Summary Register a student account
// @Description The date of birth becomes the student's login credential.
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.RegisterStudentRequest true "Student details"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /admin/students [post]
func (h *AdminHandler) RegisterStudent(c *gin.Context) {
	var req models.RegisterStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	principal, err := h.admin.RegisterStudent(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, principal)
}

// RegisterStaff godoc
// @Summary Register a staff account
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.RegisterStaffRequest true "Staff details"
// @Success 201 {object} response.Envelope
// @Router /admin/staff [post]
func (h *AdminHandler) RegisterStaff(c *gin.Context) {
	var req models.RegisterStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	principal, err := h.admin.RegisterStaff(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, principal)
}

// BulkImport godoc
// @Summary Import a student roster
// @Description Accepts a CSV or XLSX file. Bad rows are reported, good rows are created; the first ten row errors are itemized.
// @Tags Admin
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Roster (.csv or .xlsx)"
// @Success 200 {object} response.Envelope
// @Router /admin/students/bulk [post]
func (h *AdminHandler) BulkImport(c *gin.Context) {
	header, err := formFile(c, "file", h.maxFileSize, ".csv", ".xlsx")
	if err != nil {
		response.Error(c, err)
		return
	}
	file, err := header.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "could not read upload"))
		return
	}
	defer file.Close()

	report, err := h.bulk.ImportRoster(c.Request.Context(), header.Filename, file)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report)
}

// BulkImportStaff godoc
// @Summary Import a staff roster
// @Description Same file shape and report semantics as the student import, keyed by staff_id.
// @Tags Admin
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Roster (.csv or .xlsx)"
// @Success 200 {object} response.Envelope
// @Router /admin/staff/bulk [post]
func (h *AdminHandler) BulkImportStaff(c *gin.Context) {
	header, err := formFile(c, "file", h.maxFileSize, ".csv", ".xlsx")
	if err != nil {
		response.Error(c, err)
		return
	}
	file, err := header.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "could not read upload"))
		return
	}
	defer file.Close()

	report, err := h.bulk.ImportStaffRoster(c.Request.Context(), header.Filename, file)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report)
}

// ListStaff godoc
// @Summary List staff accounts
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /admin/staff [get]
func (h *AdminHandler) ListStaff(c *gin.Context) {
	profiles, err := h.admin.ListStaff(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, profiles)
}

// SetPlacement godoc
// @Summary Update a student's placement status
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Param payload body models.PlacementUpdate true "New status"
// @Success 204
// @Router /admin/students/{id}/placement [put]
func (h *AdminHandler) SetPlacement(c *gin.Context) {
	var req models.PlacementUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if err := h.admin.SetPlacement(c.Request.Context(), c.Param("id"), req); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// DeleteAccount godoc
// @Summary Delete a student or staff account
// @Tags Admin
// @Security BearerAuth
// @Param id path string true "Principal ID"
// @Success 204
// @Router /admin/accounts/{id} [delete]
func (h *AdminHandler) DeleteAccount(c *gin.Context) {
	if err := h.admin.DeleteAccount(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Dashboard godoc
// @Summary Placement season dashboard
// @Description Aggregates are cached for a few minutes and invalidated on registrations and placement changes.
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /admin/dashboard [get]
func (h *AdminHandler) Dashboard(c *gin.Context) {
	stats, err := h.admin.Dashboard(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats)
}
