package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/placement-cell/placement-api/internal/service"
	"github.com/placement-cell/placement-api/pkg/response"
)

// ExportHandler exposes bulk downloads: resume archives and student
// list documents.
type ExportHandler struct {
	exports *service.ExportService
}

// NewExportHandler constructs ExportHandler.
func NewExportHandler(exports *service.ExportService) *ExportHandler {
	return &ExportHandler{exports: exports}
}

// ResumeArchive godoc
// @Summary Download resumes as a zip
// @Description Streams the archive; entries are named Name_RegisterNumber.pdf. Scope with department/placement_status.
// @Tags Exports
// @Produce application/zip
// @Security BearerAuth
// @Param department query string false "Filter by department"
// @Param placement_status query string false "Placed or Not Placed"
// @Success 200 {file} binary
// @Failure 404 {object} response.Envelope
// @Router /exports/resumes [get]
func (h *ExportHandler) ResumeArchive(c *gin.Context) {
	filter := studentFilterFromQuery(c)

	// The archive is streamed, so scope errors are checked before the
	// first byte is written; failures mid-stream can only be logged.
	c.Header("Content-Type", "application/zip")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=resumes-%s.zip", time.Now().Format("2006-01-02")))

	if err := h.exports.StreamResumeArchive(c.Request.Context(), filter, c.Writer); err != nil {
		if !c.Writer.Written() {
			c.Header("Content-Type", "application/json")
			c.Header("Content-Disposition", "")
			response.Error(c, err)
			return
		}
		_ = c.Error(err)
	}
}

// StudentList godoc
// @Summary Download the student list
// @Tags Exports
// @Produce application/pdf
// @Security BearerAuth
// @Param format query string false "pdf (default) or csv"
// @Param department query string false "Filter by department"
// @Param placement_status query string false "Placed or Not Placed"
// @Success 200 {file} binary
// @Failure 404 {object} response.Envelope
// @Router /exports/students [get]
func (h *ExportHandler) StudentList(c *gin.Context) {
	format := c.DefaultQuery("format", "pdf")
	payload, contentType, err := h.exports.ExportStudentList(c.Request.Context(), studentFilterFromQuery(c), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	ext := "pdf"
	if format == "csv" {
		ext = "csv"
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=students.%s", ext))
	c.Data(http.StatusOK, contentType, payload)
}
