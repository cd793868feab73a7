package handler

import (
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/placement-cell/placement-api/internal/models"
	"github.com/placement-cell/placement-api/internal/service"
	appErrors "github.com/placement-cell/placement-api/pkg/errors"
	"github.com/placement-cell/placement-api/pkg/response"
)

// FeedbackHandler exposes the placement feedback lifecycle.
type FeedbackHandler struct {
	feedbacks   *service.FeedbackService
	maxFileSize int64
}

// NewFeedbackHandler constructs FeedbackHandler.
func NewFeedbackHandler(feedbacks *service.FeedbackService, maxFileSize int64) *FeedbackHandler {
	return &FeedbackHandler{feedbacks: feedbacks, maxFileSize: maxFileSize}
}

// Submit godoc
// @Summary Submit placement feedback
// @Description Multipart: a "payload" JSON part with offer details and a "document" PDF part.
// @Tags Feedbacks
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param payload formData string true "JSON offer details"
// @Param document formData file true "Offer document PDF"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /feedbacks [post]
func (h *FeedbackHandler) Submit(c *gin.Context) {
	claims := claimsFromContext(c)

	var req models.SubmitFeedbackRequest
	if err := json.Unmarshal([]byte(c.PostForm("payload")), &req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload part"))
		return
	}
	header, err := formFile(c, "document", h.maxFileSize, ".pdf")
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

	feedback, err := h.feedbacks.Submit(c.Request.Context(), claims.Subject, req, header.Filename, file)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, feedback)
}

// Update godoc
// @Summary Edit own feedback
// @Description Same multipart shape as submit; the document part is optional.
// @Tags Feedbacks
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path string true "Feedback ID"
// @Success 200 {object} response.Envelope
// @Router /feedbacks/{id} [put]
func (h *FeedbackHandler) Update(c *gin.Context) {
	claims := claimsFromContext(c)

	var req models.UpdateFeedbackRequest
	if payload := c.PostForm("payload"); payload != "" {
		if err := json.Unmarshal([]byte(payload), &req); err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload part"))
			return
		}
	}

	var filename string
	var file multipart.File
	if header, err := formFile(c, "document", h.maxFileSize, ".pdf"); err == nil {
		file, err = header.Open()
		if err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "could not read upload"))
			return
		}
		defer file.Close()
		filename = header.Filename
	}

	var reader io.Reader
	if file != nil {
		reader = file
	}
	feedback, err := h.feedbacks.Update(c.Request.Context(), claims.Subject, c.Param("id"), req, filename, reader)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, feedback)
}

// List godoc
// @Summary List feedbacks
// @Tags Feedbacks
// @Produce json
// @Security BearerAuth
// @Param status query string false "Submitted or Verified"
// @Success 200 {object} response.Envelope
// @Router /feedbacks [get]
func (h *FeedbackHandler) List(c *gin.Context) {
	feedbacks, err := h.feedbacks.List(c.Request.Context(), models.FeedbackStatus(c.Query("status")))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, feedbacks)
}

// ListPending godoc
// @Summary List placed students with overdue feedback
// @Description Placed more than three days ago with no submission on record.
// @Tags Feedbacks
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /feedbacks/pending [get]
func (h *FeedbackHandler) ListPending(c *gin.Context) {
	students, err := h.feedbacks.ListPendingOverdue(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, students)
}

// Verify godoc
// @Summary Verify a feedback
// @Description Idempotent: verifying twice returns the verified row both times.
// @Tags Feedbacks
// @Produce json
// @Security BearerAuth
// @Param id path string true "Feedback ID"
// @Success 200 {object} response.Envelope
// @Router /feedbacks/{id}/verify [post]
func (h *FeedbackHandler) Verify(c *gin.Context) {
	feedback, err := h.feedbacks.Verify(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, feedback)
}

// Delete godoc
// @Summary Delete a feedback
// @Tags Feedbacks
// @Security BearerAuth
// @Param id path string true "Feedback ID"
// @Success 204
// @Router /feedbacks/{id} [delete]
func (h *FeedbackHandler) Delete(c *gin.Context) {
	claims := claimsFromContext(c)
	if err := h.feedbacks.Delete(c.Request.Context(), claims.Subject, claims.Role, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Document godoc
// @Summary Download a feedback document
// @Tags Feedbacks
// @Produce application/pdf
// @Security BearerAuth
// @Param id path string true "Feedback ID"
// @Success 200 {file} binary
// @Router /feedbacks/{id}/document [get]
func (h *FeedbackHandler) Document(c *gin.Context) {
	claims := claimsFromContext(c)
	file, err := h.feedbacks.OpenDocument(c.Request.Context(), claims.Subject, claims.Role, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	defer file.Close()

	c.Header("Content-Disposition", "attachment; filename=offer-document.pdf")
	c.Header("Content-Type", "application/pdf")
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, file); err != nil {
		_ = c.Error(err)
	}
}
