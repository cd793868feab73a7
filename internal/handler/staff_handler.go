package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/placement-cell/placement-api/internal/models"
	"github.com/placement-cell/placement-api/internal/service"
	appErrors "github.com/placement-cell/placement-api/pkg/errors"
	"github.com/placement-cell/placement-api/pkg/response"
)

// StaffHandler exposes staff profile management and the roster views.
type StaffHandler struct {
	staff *service.StaffService
}

// NewStaffHandler constructs StaffHandler.
func NewStaffHandler(staff *service.StaffService) *StaffHandler {
	return &StaffHandler{staff: staff}
}

// GetProfile godoc
// @Summary Get own staff profile
// @Tags Staff
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /staff/me [get]
func (h *StaffHandler) GetProfile(c *gin.Context) {
	claims := claimsFromContext(c)
	profile, err := h.staff.GetProfile(c.Request.Context(), claims.Subject)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, profile)
}

// UpdateProfile godoc
// @Summary Update own staff profile
// @Tags Staff
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.StaffProfileUpdate true "Fields to change"
// @Success 200 {object} response.Envelope
// @Router /staff/me [put]
func (h *StaffHandler) UpdateProfile(c *gin.Context) {
	claims := claimsFromContext(c)
	var req models.StaffProfileUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	profile, err := h.staff.UpdateProfile(c.Request.Context(), claims.Subject, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, profile)
}

// studentFilterFromQuery builds the roster filter shared by the staff
// and admin listing endpoints.
func studentFilterFromQuery(c *gin.Context) models.StudentFilter {
	return models.StudentFilter{
		Department:      c.Query("department"),
		Degree:          c.Query("degree"),
		PlacementStatus: c.Query("placement_status"),
		Search:          strings.TrimSpace(c.Query("search")),
	}
}

// ListStudents godoc
// @Summary List students
// @Description Placed rows carry the student's feedback status.
// @Tags Staff
// @Produce json
// @Security BearerAuth
// @Param department query string false "Filter by department"
// @Param degree query string false "Filter by degree"
// @Param placement_status query string false "Placed or Not Placed"
// @Param search query string false "Name or register number"
// @Success 200 {object} response.Envelope
// @Router /students [get]
func (h *StaffHandler) ListStudents(c *gin.Context) {
	students, err := h.staff.ListStudents(c.Request.Context(), studentFilterFromQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, students)
}

// GetStudent godoc
// @Summary Get a student's full profile
// @Tags Staff
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id} [get]
func (h *StaffHandler) GetStudent(c *gin.Context) {
	student, err := h.staff.GetStudent(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student)
}
