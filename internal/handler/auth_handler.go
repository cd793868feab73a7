package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/placement-cell/placement-api/internal/models"
	"github.com/placement-cell/placement-api/internal/service"
	appErrors "github.com/placement-cell/placement-api/pkg/errors"
	"github.com/placement-cell/placement-api/pkg/response"
)

// AuthHandler exposes the three role login endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs AuthHandler.
func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// StudentLogin godoc
// @Summary Student login
// @Description Students authenticate with register number and date of birth (DD/MM/YYYY).
// @Tags Auth
// @Accept json
// @Produce json
// @Param payload body models.LoginRequest true "Credentials"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/student/login [post]
func (h *AuthHandler) StudentLogin(c *gin.Context) {
	h.login(c, models.RoleStudent)
}

// StaffLogin godoc
// @Summary Staff login
// @Tags Auth
// @Accept json
// @Produce json
// @Param payload body models.LoginRequest true "Credentials"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/staff/login [post]
func (h *AuthHandler) StaffLogin(c *gin.Context) {
	h.login(c, models.RoleStaff)
}

// AdminLogin godoc
// @Summary Admin login
// @Description Admins authenticate with username and password.
// @Tags Auth
// @Accept json
// @Produce json
// @Param payload body models.LoginRequest true "Credentials"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/admin/login [post]
func (h *AuthHandler) AdminLogin(c *gin.Context) {
	h.login(c, models.RoleAdmin)
}

func (h *AuthHandler) login(c *gin.Context, role models.Role) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.auth.Login(c.Request.Context(), role, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}

// ChangePassword godoc
// @Summary Change admin password
// @Tags Auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.ChangePasswordRequest true "Old and new password"
// @Success 204
// @Router /auth/password [put]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req models.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if err := h.auth.ChangePassword(c.Request.Context(), claims.Subject, req); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
