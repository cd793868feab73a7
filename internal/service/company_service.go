package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/placement-cell/placement-api/internal/models"
	appErrors "github.com/placement-cell/placement-api/pkg/errors"
	"github.com/placement-cell/placement-api/pkg/export"
)

type companyRepository interface {
	Create(ctx context.Context, company *models.Company) error
	FindByID(ctx context.Context, id string) (*models.Company, error)
	List(ctx context.Context, createdBy string, status models.DriveStatus) ([]models.Company, error)
	UpdateStatus(ctx context.Context, id string, status models.DriveStatus) error
	ReplaceShortlist(ctx context.Context, companyID string, entries []models.ShortlistEntry) error
	GetShortlist(ctx context.Context, companyID string) ([]models.ShortlistEntry, error)
	Delete(ctx context.Context, id string) error
}

type eligibilityRepository interface {
	FilterEligible(ctx context.Context, criteria models.DriveCriteria) ([]models.Student, error)
}

type shortlistNotifier interface {
	NotifyShortlist(ctx context.Context, company *models.Company, entries []models.ShortlistEntry) error
}

// Exporter renders a tabular dataset into a downloadable document.
type Exporter interface {
	Render(data export.Dataset) ([]byte, error)
}

// CompanyService manages placement drives: announcement, eligibility
// shortlisting, lifecycle transitions and shortlist downloads.
type CompanyService struct {
	repo      companyRepository
	students  eligibilityRepository
	notifier  shortlistNotifier
	pdf       Exporter
	csv       Exporter
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCompanyService constructs a CompanyService.
func NewCompanyService(repo companyRepository, students eligibilityRepository, notifier shortlistNotifier, pdf, csv Exporter, validate *validator.Validate, logger *zap.Logger) *CompanyService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &CompanyService{repo: repo, students: students, notifier: notifier, pdf: pdf, csv: csv, validator: validate, logger: logger}
}

// CreateDrive announces a drive, runs the eligibility filter, freezes
// the resulting shortlist and queues one notification per shortlisted
// student. Notification enqueue failures do not fail the creation.
func (s *CompanyService) CreateDrive(ctx context.Context, createdBy string, req models.CreateDriveRequest) (*models.DriveWithShortlist, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid drive payload")
	}

	company := &models.Company{
		CompanyName:          req.CompanyName,
		JobRole:              req.JobRole,
		JobDescription:       req.JobDescription,
		CTC:                  req.CTC,
		Location:             req.Location,
		Criteria:             req.Criteria,
		DriveDate:            req.DriveDate,
		RegistrationDeadline: req.RegistrationDeadline,
		Status:               models.DriveUpcoming,
		CreatedBy:            createdBy,
	}
	if err := s.repo.Create(ctx, company); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create drive")
	}

	entries, err := s.rebuildShortlist(ctx, company)
	if err != nil {
		return nil, err
	}

	if s.notifier != nil && len(entries) > 0 {
		if err := s.notifier.NotifyShortlist(ctx, company, entries); err != nil {
			s.logger.Warn("shortlist notification enqueue failed",
				zap.String("drive_id", company.ID), zap.Error(err))
		}
	}

	s.logger.Info("drive created",
		zap.String("drive_id", company.ID),
		zap.String("company", company.CompanyName),
		zap.Int("shortlisted", len(entries)))
	return &models.DriveWithShortlist{Company: *company, Shortlist: entries}, nil
}

// PreviewEligibility runs the eligibility filter standalone so staff
// can see who a criteria set would admit before announcing a drive.
// Pure read: nothing is persisted and nobody is notified.
func (s *CompanyService) PreviewEligibility(ctx context.Context, criteria models.DriveCriteria) (*models.EligibilityPreview, error) {
	students, err := s.students.FilterEligible(ctx, criteria)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to filter students")
	}
	return &models.EligibilityPreview{EligibleCount: len(students), Students: students}, nil
}

// RefreshShortlist reruns the eligibility filter for a non-terminal
// drive and replaces the frozen snapshot wholesale. Newly admitted
// students are notified.
func (s *CompanyService) RefreshShortlist(ctx context.Context, requesterID string, requesterRole models.Role, driveID string) ([]models.ShortlistEntry, error) {
	company, err := s.getOwned(ctx, requesterID, requesterRole, driveID)
	if err != nil {
		return nil, err
	}
	if company.Status == models.DriveCompleted || company.Status == models.DriveCancelled {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, "drive is closed")
	}

	previous, err := s.repo.GetShortlist(ctx, driveID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load shortlist")
	}
	known := make(map[string]struct{}, len(previous))
	for _, entry := range previous {
		known[entry.StudentID] = struct{}{}
	}

	entries, err := s.rebuildShortlist(ctx, company)
	if err != nil {
		return nil, err
	}

	var added []models.ShortlistEntry
	for _, entry := range entries {
		if _, ok := known[entry.StudentID]; !ok {
			added = append(added, entry)
		}
	}
	if s.notifier != nil && len(added) > 0 {
		if err := s.notifier.NotifyShortlist(ctx, company, added); err != nil {
			s.logger.Warn("shortlist notification enqueue failed",
				zap.String("drive_id", company.ID), zap.Error(err))
		}
	}
	return entries, nil
}

func (s *CompanyService) rebuildShortlist(ctx context.Context, company *models.Company) ([]models.ShortlistEntry, error) {
	students, err := s.students.FilterEligible(ctx, company.Criteria)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to filter students")
	}

	now := time.Now().UTC()
	entries := make([]models.ShortlistEntry, 0, len(students))
	for _, student := range students {
		entries = append(entries, models.ShortlistEntry{
			CompanyID:       company.ID,
			StudentID:       student.PrincipalID,
			RegisterNumber:  student.Username,
			FullName:        student.FullName,
			Department:      student.Department,
			Degree:          student.Degree,
			CGPA:            student.CGPA,
			CollegeEmail:    student.CollegeEmail,
			ContactNumber:   student.ContactNumber,
			ShortlistedDate: now,
		})
	}
	if err := s.repo.ReplaceShortlist(ctx, company.ID, entries); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store shortlist")
	}
	return entries, nil
}

// GetDrive returns a drive with its shortlist. Staff see only their
// own drives; admins see all.
func (s *CompanyService) GetDrive(ctx context.Context, requesterID string, requesterRole models.Role, driveID string) (*models.DriveWithShortlist, error) {
	company, err := s.getOwned(ctx, requesterID, requesterRole, driveID)
	if err != nil {
		return nil, err
	}
	entries, err := s.repo.GetShortlist(ctx, driveID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load shortlist")
	}
	return &models.DriveWithShortlist{Company: *company, Shortlist: entries}, nil
}

// ListDrives returns drives visible to the requester, optionally
// narrowed by status.
func (s *CompanyService) ListDrives(ctx context.Context, requesterID string, requesterRole models.Role, status models.DriveStatus) ([]models.Company, error) {
	owner := ""
	if requesterRole == models.RoleStaff {
		owner = requesterID
	}
	if status != "" && !validDriveStatus(status) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown drive status")
	}
	companies, err := s.repo.List(ctx, owner, status)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list drives")
	}
	return companies, nil
}

// UpdateStatus moves a drive through its lifecycle. Terminal states
// are frozen; illegal moves return ErrInvalidTransition.
func (s *CompanyService) UpdateStatus(ctx context.Context, requesterID string, requesterRole models.Role, driveID string, req models.UpdateDriveStatusRequest) (*models.Company, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid status payload")
	}
	company, err := s.getOwned(ctx, requesterID, requesterRole, driveID)
	if err != nil {
		return nil, err
	}
	if !company.Status.CanTransition(req.Status) {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition,
			fmt.Sprintf("cannot move drive from %s to %s", company.Status, req.Status))
	}
	if err := s.repo.UpdateStatus(ctx, driveID, req.Status); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update drive")
	}
	company.Status = req.Status
	s.logger.Info("drive status changed", zap.String("drive_id", driveID), zap.String("status", string(req.Status)))
	return company, nil
}

// DeleteDrive removes a drive and its shortlist. Admin only by route;
// staff may delete their own drives.
func (s *CompanyService) DeleteDrive(ctx context.Context, requesterID string, requesterRole models.Role, driveID string) error {
	if _, err := s.getOwned(ctx, requesterID, requesterRole, driveID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, driveID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete drive")
	}
	return nil
}

// ExportShortlist renders a drive's shortlist as a PDF or CSV
// download. An empty shortlist yields ErrNoRecords.
func (s *CompanyService) ExportShortlist(ctx context.Context, requesterID string, requesterRole models.Role, driveID, format string) ([]byte, string, error) {
	company, err := s.getOwned(ctx, requesterID, requesterRole, driveID)
	if err != nil {
		return nil, "", err
	}
	entries, err := s.repo.GetShortlist(ctx, driveID)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load shortlist")
	}
	if len(entries) == 0 {
		return nil, "", appErrors.Clone(appErrors.ErrNoRecords, "shortlist is empty")
	}

	data := export.Dataset{
		Title:   fmt.Sprintf("%s - %s Shortlist", company.CompanyName, company.JobRole),
		Headers: []string{"Register Number", "Name", "Department", "Degree", "CGPA", "College Email", "Contact"},
	}
	for _, entry := range entries {
		data.Rows = append(data.Rows, map[string]string{
			"Register Number": entry.RegisterNumber,
			"Name":            entry.FullName,
			"Department":      entry.Department,
			"Degree":          entry.Degree,
			"CGPA":            fmt.Sprintf("%.2f", entry.CGPA),
			"College Email":   entry.CollegeEmail,
			"Contact":         entry.ContactNumber,
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

func (s *CompanyService) getOwned(ctx context.Context, requesterID string, requesterRole models.Role, driveID string) (*models.Company, error) {
	company, err := s.repo.FindByID(ctx, driveID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "drive not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch drive")
	}
	if requesterRole == models.RoleStaff && company.CreatedBy != requesterID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "drive belongs to another staff member")
	}
	return company, nil
}

func validDriveStatus(status models.DriveStatus) bool {
	switch status {
	case models.DriveUpcoming, models.DriveActive, models.DriveCompleted, models.DriveCancelled:
		return true
	}
	return false
}
