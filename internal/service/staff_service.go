package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/placement-cell/placement-api/internal/models"
	appErrors "github.com/placement-cell/placement-api/pkg/errors"
)

type staffRepository interface {
	FindByPrincipalID(ctx context.Context, principalID string) (*models.StaffProfile, error)
	Update(ctx context.Context, profile *models.StaffProfile) error
}

type staffStudentRepository interface {
	List(ctx context.Context, filter models.StudentFilter) ([]models.StudentSummary, error)
	FindByPrincipalID(ctx context.Context, principalID string) (*models.Student, error)
}

// StaffService serves staff profile management and the staff view of
// the student roster.
type StaffService struct {
	repo      staffRepository
	students  staffStudentRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStaffService constructs a StaffService.
func NewStaffService(repo staffRepository, students staffStudentRepository, validate *validator.Validate, logger *zap.Logger) *StaffService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &StaffService{repo: repo, students: students, validator: validate, logger: logger}
}

// GetProfile returns the staff member's own profile.
func (s *StaffService) GetProfile(ctx context.Context, principalID string) (*models.StaffProfile, error) {
	profile, err := s.repo.FindByPrincipalID(ctx, principalID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "staff profile not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch profile")
	}
	return profile, nil
}

// UpdateProfile applies a sparse edit to the staff profile.
func (s *StaffService) UpdateProfile(ctx context.Context, principalID string, update models.StaffProfileUpdate) (*models.StaffProfile, error) {
	if err := s.validator.Struct(update); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid profile payload")
	}
	profile, err := s.GetProfile(ctx, principalID)
	if err != nil {
		return nil, err
	}

	if update.FullName != nil {
		profile.FullName = *update.FullName
	}
	if update.Department != nil {
		profile.Department = *update.Department
	}
	if update.Designation != nil {
		profile.Designation = *update.Designation
	}
	if update.ContactNumber != nil {
		profile.ContactNumber = *update.ContactNumber
	}
	if update.Email != nil {
		profile.Email = *update.Email
	}

	if err := s.repo.Update(ctx, profile); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update profile")
	}
	return profile, nil
}

// ListStudents returns roster rows for the staff views. Placed
// listings carry feedback status.
func (s *StaffService) ListStudents(ctx context.Context, filter models.StudentFilter) ([]models.StudentSummary, error) {
	students, err := s.students.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	return students, nil
}

// GetStudent returns one student's full profile for review.
func (s *StaffService) GetStudent(ctx context.Context, principalID string) (*models.Student, error) {
	student, err := s.students.FindByPrincipalID(ctx, principalID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch student")
	}
	return student, nil
}
