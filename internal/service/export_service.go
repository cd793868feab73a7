package service

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/placement-cell/placement-api/internal/models"
	appErrors "github.com/placement-cell/placement-api/pkg/errors"
	"github.com/placement-cell/placement-api/pkg/export"
	"github.com/placement-cell/placement-api/pkg/storage"
)

type exportStudentRepository interface {
	List(ctx context.Context, filter models.StudentFilter) ([]models.StudentSummary, error)
	ListWithResumes(ctx context.Context, filter models.StudentFilter) ([]models.Student, error)
	CountByFilter(ctx context.Context, filter models.StudentFilter) (int, error)
}

// ExportService produces the bulk downloads: resume archives and
// student list documents.
type ExportService struct {
	students exportStudentRepository
	store    *storage.LocalStorage
	pdf      Exporter
	csv      Exporter
	logger   *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(students exportStudentRepository, store *storage.LocalStorage, pdf, csv Exporter, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{students: students, store: store, pdf: pdf, csv: csv, logger: logger}
}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// archiveEntryName builds the name a resume gets inside the archive:
// the student's name with unsafe characters collapsed, then the
// register number, keeping entries unique and shell-friendly.
func archiveEntryName(fullName, registerNumber string) string {
	sanitized := unsafeFilenameChars.ReplaceAllString(strings.TrimSpace(fullName), "_")
	sanitized = strings.Trim(sanitized, "_")
	if sanitized == "" {
		sanitized = "student"
	}
	return fmt.Sprintf("%s_%s.pdf", sanitized, registerNumber)
}

// StreamResumeArchive writes a zip of resumes in the filter scope to
// w. Scopes with no students yield ErrNoRecords; scopes where nobody
// uploaded a resume (or every recorded file is gone from disk) yield
// ErrNoFilesFound. Files are streamed one at a time, never all held in
// memory.
func (s *ExportService) StreamResumeArchive(ctx context.Context, filter models.StudentFilter, w io.Writer) error {
	total, err := s.students.CountByFilter(ctx, filter)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count students")
	}
	if total == 0 {
		return appErrors.Clone(appErrors.ErrNoRecords, "no students in scope")
	}

	students, err := s.students.ListWithResumes(ctx, filter)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list resumes")
	}

	available := students[:0]
	for _, student := range students {
		if s.store.Exists(student.Resume) {
			available = append(available, student)
		} else {
			s.logger.Warn("resume missing on disk",
				zap.String("student_id", student.PrincipalID), zap.String("path", student.Resume))
		}
	}
	if len(available) == 0 {
		return appErrors.Clone(appErrors.ErrNoFilesFound, "no resumes uploaded in scope")
	}

	i := 0
	err = export.StreamZip(w, func() (export.ZipEntry, error) {
		if i >= len(available) {
			return export.ZipEntry{}, io.EOF
		}
		student := available[i]
		i++
		file, err := s.store.Open(student.Resume)
		if err != nil {
			return export.ZipEntry{}, fmt.Errorf("open resume for %s: %w", student.Username, err)
		}
		return export.ZipEntry{
			Name:   archiveEntryName(student.FullName, student.Username),
			Reader: file,
		}, nil
	})
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to build archive")
	}
	return nil
}

// ExportStudentList renders the students in scope as a PDF or CSV
// table. An empty scope yields ErrNoRecords.
func (s *ExportService) ExportStudentList(ctx context.Context, filter models.StudentFilter, format string) ([]byte, string, error) {
	students, err := s.students.List(ctx, filter)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	if len(students) == 0 {
		return nil, "", appErrors.Clone(appErrors.ErrNoRecords, "no students in scope")
	}

	title := "Student Report"
	if filter.PlacementStatus != "" {
		title = filter.PlacementStatus + " Students"
	}
	data := export.Dataset{
		Title:   title,
		Headers: []string{"Register Number", "Name", "Department", "Degree", "CGPA", "Status", "Company"},
	}
	for _, student := range students {
		data.Rows = append(data.Rows, map[string]string{
			"Register Number": student.Username,
			"Name":            student.FullName,
			"Department":      student.Department,
			"Degree":          student.Degree,
			"CGPA":            fmt.Sprintf("%.2f", student.CGPA),
			"Status":          student.PlacementStatus,
			"Company":         student.PlacedCompany,
		})
	}

	switch format {
	case "csv":
		payload, err := s.csv.Render(data)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return payload, "text/csv", nil
	case "", "pdf":
		payload, err := s.pdf.Render(data)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return payload, "application/pdf", nil
	default:
		return nil, "", appErrors.Clone(appErrors.ErrValidation, "unknown export format")
	}
}
