package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/placement-cell/placement-api/internal/models"
	appErrors "github.com/placement-cell/placement-api/pkg/errors"
)

const maxReportedRowErrors = 10

type bulkRegistrar interface {
	RegisterStudent(ctx context.Context, req models.RegisterStudentRequest) (*models.Principal, error)
	RegisterStaff(ctx context.Context, req models.RegisterStaffRequest) (*models.Principal, error)
}

// BulkService imports student and staff rosters from CSV and XLSX
// files. Rows are processed independently: bad rows are reported, good
// rows are created, and the upload never fails wholesale.
type BulkService struct {
	registrar bulkRegistrar
	logger    *zap.Logger
}

// NewBulkService constructs a BulkService.
func NewBulkService(registrar bulkRegistrar, logger *zap.Logger) *BulkService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BulkService{registrar: registrar, logger: logger}
}

// sheetRow is one data line of an upload, with its 1-based line number
// for error reporting.
type sheetRow struct {
	line  int
	cells []string
}

// ImportRoster parses a student roster upload and registers each valid
// row. The filename extension picks the parser.
func (s *BulkService) ImportRoster(ctx context.Context, filename string, file io.Reader) (*models.BulkUploadReport, error) {
	index, rows, err := s.parseSheet(filename, file, "register_number", "full_name", "date_of_birth")
	if err != nil {
		return nil, err
	}

	report := &models.BulkUploadReport{TotalRows: len(rows)}
	seen := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		regNo := cellAt(row.cells, index, "register_number")
		fullName := cellAt(row.cells, index, "full_name")
		dobText := cellAt(row.cells, index, "date_of_birth")
		email := cellAt(row.cells, index, "college_email")

		switch {
		case regNo == "":
			s.reject(report, row.line, "register number is required")
			continue
		case fullName == "":
			s.reject(report, row.line, "full name is required")
			continue
		case dobText == "":
			s.reject(report, row.line, "date of birth is required")
			continue
		case email != "" && !strings.Contains(email, "@"):
			s.reject(report, row.line, "college email is invalid")
			continue
		}
		if _, dup := seen[regNo]; dup {
			s.reject(report, row.line, "duplicate register number in file")
			continue
		}
		seen[regNo] = struct{}{}

		dob, err := time.Parse("02/01/2006", dobText)
		if err != nil {
			s.reject(report, row.line, "date of birth must be DD/MM/YYYY")
			continue
		}

		_, err = s.registrar.RegisterStudent(ctx, models.RegisterStudentRequest{
			RegisterNumber: regNo,
			FullName:       fullName,
			DateOfBirth:    dob,
			Degree:         cellAt(row.cells, index, "degree"),
			Department:     cellAt(row.cells, index, "department"),
			CollegeEmail:   email,
		})
		if err != nil {
			if appErr := appErrors.FromError(err); appErr.Code == appErrors.ErrDuplicate.Code {
				report.Skipped++
				continue
			}
			s.reject(report, row.line, appErrors.FromError(err).Message)
			continue
		}
		report.Created++
	}

	s.logReport("student roster imported", filename, report)
	return report, nil
}

// ImportStaffRoster parses a staff roster upload and registers each
// valid row. Same report semantics as the student import.
func (s *BulkService) ImportStaffRoster(ctx context.Context, filename string, file io.Reader) (*models.BulkUploadReport, error) {
	index, rows, err := s.parseSheet(filename, file, "staff_id", "full_name", "date_of_birth")
	if err != nil {
		return nil, err
	}

	report := &models.BulkUploadReport{TotalRows: len(rows)}
	seen := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		staffID := cellAt(row.cells, index, "staff_id")
		fullName := cellAt(row.cells, index, "full_name")
		dobText := cellAt(row.cells, index, "date_of_birth")
		email := cellAt(row.cells, index, "email")

		switch {
		case staffID == "":
			s.reject(report, row.line, "staff id is required")
			continue
		case fullName == "":
			s.reject(report, row.line, "full name is required")
			continue
		case dobText == "":
			s.reject(report, row.line, "date of birth is required")
			continue
		case email != "" && !strings.Contains(email, "@"):
			s.reject(report, row.line, "email is invalid")
			continue
		}
		if _, dup := seen[staffID]; dup {
			s.reject(report, row.line, "duplicate staff id in file")
			continue
		}
		seen[staffID] = struct{}{}

		dob, err := time.Parse("02/01/2006", dobText)
		if err != nil {
			s.reject(report, row.line, "date of birth must be DD/MM/YYYY")
			continue
		}

		_, err = s.registrar.RegisterStaff(ctx, models.RegisterStaffRequest{
			StaffID:     staffID,
			FullName:    fullName,
			DateOfBirth: dob,
			Department:  cellAt(row.cells, index, "department"),
			Designation: cellAt(row.cells, index, "designation"),
			Email:       email,
		})
		if err != nil {
			if appErr := appErrors.FromError(err); appErr.Code == appErrors.ErrDuplicate.Code {
				report.Skipped++
				continue
			}
			s.reject(report, row.line, appErrors.FromError(err).Message)
			continue
		}
		report.Created++
	}

	s.logReport("staff roster imported", filename, report)
	return report, nil
}

// parseSheet dispatches on the filename extension and validates the
// header before any row work happens.
func (s *BulkService) parseSheet(filename string, file io.Reader, required ...string) (map[string]int, []sheetRow, error) {
	var header []string
	var rows []sheetRow
	var err error
	switch {
	case strings.HasSuffix(strings.ToLower(filename), ".csv"):
		header, rows, err = parseCSVSheet(file)
	case strings.HasSuffix(strings.ToLower(filename), ".xlsx"):
		header, rows, err = parseXLSXSheet(file)
	default:
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "upload a .csv or .xlsx file")
	}
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "could not parse roster")
	}
	index, err := headerIndex(header, required...)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "could not parse roster")
	}
	if len(rows) == 0 {
		return nil, nil, appErrors.Clone(appErrors.ErrNoRecords, "roster has no data rows")
	}
	return index, rows, nil
}

func (s *BulkService) reject(report *models.BulkUploadReport, line int, reason string) {
	report.TotalErrors++
	if len(report.Errors) < maxReportedRowErrors {
		report.Errors = append(report.Errors, models.BulkRowError{Row: line, Reason: reason})
	}
}

func (s *BulkService) logReport(msg, filename string, report *models.BulkUploadReport) {
	s.logger.Info(msg,
		zap.String("file", filename),
		zap.Int("rows", report.TotalRows),
		zap.Int("created", report.Created),
		zap.Int("skipped", report.Skipped),
		zap.Int("errors", report.TotalErrors))
}

// headerIndex maps column titles (case-insensitive, spaces and
// underscores interchangeable) to field positions.
func headerIndex(cells []string, required ...string) (map[string]int, error) {
	index := make(map[string]int, len(cells))
	for i, cell := range cells {
		key := strings.ToLower(strings.TrimSpace(cell))
		key = strings.ReplaceAll(key, " ", "_")
		index[key] = i
	}
	for _, column := range required {
		if _, ok := index[column]; !ok {
			return nil, fmt.Errorf("missing column %q", column)
		}
	}
	return index, nil
}

func cellAt(cells []string, index map[string]int, key string) string {
	i, ok := index[key]
	if !ok || i >= len(cells) {
		return ""
	}
	return strings.TrimSpace(cells[i])
}

func parseCSVSheet(file io.Reader) ([]string, []sheetRow, error) {
	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("read header: %w", err)
	}

	var rows []sheetRow
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("read row %d: %w", line+1, err)
		}
		line++
		if isEmptyRow(record) {
			continue
		}
		rows = append(rows, sheetRow{line: line, cells: record})
	}
	return header, rows, nil
}

func parseXLSXSheet(file io.Reader) ([]string, []sheetRow, error) {
	book, err := excelize.OpenReader(file)
	if err != nil {
		return nil, nil, fmt.Errorf("open workbook: %w", err)
	}
	defer book.Close()

	sheet := book.GetSheetName(0)
	if sheet == "" {
		return nil, nil, fmt.Errorf("workbook has no sheets")
	}
	records, err := book.GetRows(sheet)
	if err != nil {
		return nil, nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("sheet %s is empty", sheet)
	}

	var rows []sheetRow
	for i, record := range records[1:] {
		if isEmptyRow(record) {
			continue
		}
		rows = append(rows, sheetRow{line: i + 2, cells: record})
	}
	return records[0], rows, nil
}

func isEmptyRow(cells []string) bool {
	for _, cell := range cells {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
