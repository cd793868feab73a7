package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/placement-cell/placement-api/internal/models"
	"github.com/placement-cell/placement-api/internal/service"
	appErrors "github.com/placement-cell/placement-api/pkg/errors"
	"github.com/placement-cell/placement-api/pkg/response"
)

// StudentHandler exposes the student self-service endpoints.
type StudentHandler struct {
	students    *service.StudentService
	maxFileSize int64
}

// NewStudentHandler constructs StudentHandler.
func NewStudentHandler(students *service.StudentService, maxFileSize int64) *StudentHandler {
	return &StudentHandler{students: students, maxFileSize: maxFileSize}
}

// GetProfile godoc
// @Summary Get own profile
// @Tags Students
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /students/me [get]
func (h *StudentHandler) GetProfile(c *gin.Context) {
	claims := claimsFromContext(c)
	student, err := h.students.GetProfile(c.Request.Context(), claims.Subject)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student)
}

// UpdateProfile godoc
// @Summary Update own profile
// @Description Sparse update; absent fields are untouched and nested groups merge field-by-field.
// @Tags Students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.StudentProfileUpdate true "Fields to change"
// @Success 200 {object} response.Envelope
// @Router /students/me [put]
func (h *StudentHandler) UpdateProfile(c *gin.Context) {
	claims := claimsFromContext(c)
	var req models.StudentProfileUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	student, err := h.students.UpdateProfile(c.Request.Context(), claims.Subject, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student)
}

// UpdateGPA godoc
// @Summary Record a semester GPA
// @Tags Students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.SemesterGPAUpdate true "Semester and GPA"
// @Success 200 {object} response.Envelope
// @Router /students/me/gpa [put]
func (h *StudentHandler) UpdateGPA(c *gin.Context) {
	claims := claimsFromContext(c)
	var req models.SemesterGPAUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	student, err := h.students.UpdateSemesterGPA(c.Request.Context(), claims.Subject, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student)
}

// UploadResume godoc
// @Summary Upload resume
// @Tags Students
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Resume PDF"
// @Success 200 {object} response.Envelope
// @Router /students/me/resume [post]
func (h *StudentHandler) UploadResume(c *gin.Context) {
	claims := claimsFromContext(c)
	header, err := formFile(c, "file", h.maxFileSize, ".pdf")
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

	path, err := h.students.UploadResume(c.Request.Context(), claims.Subject, header.Filename, file)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"resume": path})
}

// UploadPhoto godoc
// @Summary Upload profile photo
// @Tags Students
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Photo (jpg/png)"
// @Success 200 {object} response.Envelope
// @Router /students/me/photo [post]
func (h *StudentHandler) UploadPhoto(c *gin.Context) {
	claims := claimsFromContext(c)
	header, err := formFile(c, "file", h.maxFileSize, ".jpg", ".jpeg", ".png")
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

	path, err := h.students.UploadPhoto(c.Request.Context(), claims.Subject, header.Filename, file)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"profile_photo": path})
}

// ListDrives godoc
// @Summary Drives the student is shortlisted for
// @Tags Students
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /students/me/drives [get]
func (h *StudentHandler) ListDrives(c *gin.Context) {
	claims := claimsFromContext(c)
	drives, err := h.students.ListOpenDrives(c.Request.Context(), claims.Subject)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, drives)
}

// GetFeedback godoc
// @Summary Get own placement feedback
// @Tags Students
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/me/feedback [get]
func (h *StudentHandler) GetFeedback(c *gin.Context) {
	claims := claimsFromContext(c)
	feedback, err := h.students.GetOwnFeedback(c.Request.Context(), claims.Subject)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, feedback)
}
