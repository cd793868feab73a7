package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/placement-cell/placement-api/internal/models"
	"github.com/placement-cell/placement-api/internal/service"
	appErrors "github.com/placement-cell/placement-api/pkg/errors"
	"github.com/placement-cell/placement-api/pkg/response"
)

// CompanyHandler exposes drive management for staff and admins.
type CompanyHandler struct {
	companies *service.CompanyService
}

// NewCompanyHandler constructs CompanyHandler.
func NewCompanyHandler(companies *service.CompanyService) *CompanyHandler {
	return &CompanyHandler{companies: companies}
}

// Create godoc
// @Summary Announce a placement drive
// @Description Creates the drive, runs the eligibility filter, freezes the shortlist and queues invites.
// @Tags Drives
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.CreateDriveRequest true "Drive details and criteria"
// @Success 201 {object} response.Envelope
// @Router /drives [post]
func (h *CompanyHandler) Create(c *gin.Context) {
	claims := claimsFromContext(c)
	var req models.CreateDriveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	drive, err := h.companies.CreateDrive(c.Request.Context(), claims.Subject, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, drive)
}

// List godoc
// @Summary List drives
// @Description Staff see their own drives; admins see all. Optional status filter.
// @Tags Drives
// @Produce json
// @Security BearerAuth
// @Param status query string false "Upcoming, Active, Completed or Cancelled"
// @Success 200 {object} response.Envelope
// @Router /drives [get]
func (h *CompanyHandler) List(c *gin.Context) {
	claims := claimsFromContext(c)
	drives, err := h.companies.ListDrives(c.Request.Context(), claims.Subject, claims.Role, models.DriveStatus(c.Query("status")))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, drives)
}

// Get godoc
// @Summary Get a drive with its shortlist
// @Tags Drives
// @Produce json
// @Security BearerAuth
// @Param id path string true "Drive ID"
// @Success 200 {object} response.Envelope
// @Router /drives/{id} [get]
func (h *CompanyHandler) Get(c *gin.Context) {
	claims := claimsFromContext(c)
	drive, err := h.companies.GetDrive(c.Request.Context(), claims.Subject, claims.Role, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, drive)
}

// UpdateStatus godoc
// @Summary Move a drive through its lifecycle
// @Tags Drives
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Drive ID"
// @Param payload body models.UpdateDriveStatusRequest true "Target status"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /drives/{id}/status [patch]
func (h *CompanyHandler) UpdateStatus(c *gin.Context) {
	claims := claimsFromContext(c)
	var req models.UpdateDriveStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	drive, err := h.companies.UpdateStatus(c.Request.Context(), claims.Subject, claims.Role, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, drive)
}

// Preview godoc
// @Summary Preview which students a criteria set admits
// @Description Runs the eligibility filter without creating a drive or notifying anyone.
// @Tags Drives
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.DriveCriteria true "Eligibility criteria"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /drives/preview [post]
func (h *CompanyHandler) Preview(c *gin.Context) {
	var criteria models.DriveCriteria
	if err := c.ShouldBindJSON(&criteria); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid criteria payload"))
		return
	}
	preview, err := h.companies.PreviewEligibility(c.Request.Context(), criteria)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, preview)
}

// RefreshShortlist godoc
// @Summary Re-run the eligibility filter
// @Description Replaces the frozen shortlist snapshot; newly admitted students are notified.
// @Tags Drives
// @Produce json
// @Security BearerAuth
// @Param id path string true "Drive ID"
// @Success 200 {object} response.Envelope
// @Router /drives/{id}/shortlist/refresh [post]
func (h *CompanyHandler) RefreshShortlist(c *gin.Context) {
	claims := claimsFromContext(c)
	entries, err := h.companies.RefreshShortlist(c.Request.Context(), claims.Subject, claims.Role, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries)
}

// ExportShortlist godoc
// @Summary Download the shortlist
// @Tags Drives
// @Produce application/pdf
// @Security BearerAuth
// @Param id path string true "Drive ID"
// @Param format query string false "pdf (default) or csv"
// @Success 200 {file} binary
// @Failure 404 {object} response.Envelope
// @Router /drives/{id}/shortlist/export [get]
func (h *CompanyHandler) ExportShortlist(c *gin.Context) {
	claims := claimsFromContext(c)
	format := c.DefaultQuery("format", "pdf")
	payload, contentType, err := h.companies.ExportShortlist(c.Request.Context(), claims.Subject, claims.Role, c.Param("id"), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	ext := "pdf"
	if format == "csv" {
		ext = "csv"
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=shortlist.%s", ext))
	c.Data(http.StatusOK, contentType, payload)
}

// Delete godoc
// @Summary Delete a drive
// @Tags Drives
// @Security BearerAuth
// @Param id path string true "Drive ID"
// @Success 204
// @Router /drives/{id} [delete]
func (h *CompanyHandler) Delete(c *gin.Context) {
	claims := claimsFromContext(c)
	if err := h.companies.DeleteDrive(c.Request.Context(), claims.Subject, claims.Role, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
