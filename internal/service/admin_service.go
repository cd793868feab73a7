package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/placement-cell/placement-api/internal/models"
	appErrors "github.com/placement-cell/placement-api/pkg/errors"
)

const dashboardCacheKey = "dashboard:stats"

// dobCredential renders a date of birth the way students type it at
// login. Stored in password_hash for DOB-credentialed accounts; never
// "$2"-prefixed, so the credential dispatch keeps the modes apart.
func dobCredential(dob time.Time) string {
	return dob.Format("02/01/2006")
}

type adminPrincipalRepository interface {
	ExistsByUsername(ctx context.Context, role models.Role, username string) (bool, error)
	FindByID(ctx context.Context, id string) (*models.Principal, error)
	CreateStudent(ctx context.Context, principal *models.Principal, req models.RegisterStudentRequest) error
	CreateStaff(ctx context.Context, principal *models.Principal, req models.RegisterStaffRequest) error
	Delete(ctx context.Context, id string) error
}

type adminStudentRepository interface {
	List(ctx context.Context, filter models.StudentFilter) ([]models.StudentSummary, error)
	FindByPrincipalID(ctx context.Context, principalID string) (*models.Student, error)
	SetPlacement(ctx context.Context, principalID string, update models.PlacementUpdate) error
}

type adminStaffRepository interface {
	List(ctx context.Context) ([]models.StaffProfile, error)
}

type dashboardRepository interface {
	Stats(ctx context.Context) (*models.DashboardStats, error)
}

type dashboardCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// AdminService serves account registration, placement updates and the
// cached dashboard.
type AdminService struct {
	principals adminPrincipalRepository
	students   adminStudentRepository
	staff      adminStaffRepository
	dashboard  dashboardRepository
	cache      dashboardCache
	cacheTTL   time.Duration
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewAdminService constructs an AdminService.
func NewAdminService(principals adminPrincipalRepository, students adminStudentRepository, staff adminStaffRepository, dashboard dashboardRepository, cache dashboardCache, cacheTTL time.Duration, validate *validator.Validate, logger *zap.Logger) *AdminService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &AdminService{
		principals: principals,
		students:   students,
		staff:      staff,
		dashboard:  dashboard,
		cache:      cache,
		cacheTTL:   cacheTTL,
		validator:  validate,
		logger:     logger,
	}
}

// RegisterStudent creates a student account. The date of birth becomes
// the login credential.
func (s *AdminService) RegisterStudent(ctx context.Context, req models.RegisterStudentRequest) (*models.Principal, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid registration payload")
	}
	taken, err := s.principals.ExistsByUsername(ctx, models.RoleStudent, req.RegisterNumber)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check register number")
	}
	if taken {
		return nil, appErrors.Clone(appErrors.ErrDuplicate, "register number already exists")
	}

	dob := req.DateOfBirth
	principal := &models.Principal{
		Role:         models.RoleStudent,
		Username:     req.RegisterNumber,
		PasswordHash: dobCredential(dob),
		FullName:     req.FullName,
		DateOfBirth:  &dob,
	}
	if err := s.principals.CreateStudent(ctx, principal, req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create student")
	}
	s.invalidateDashboard(ctx)
	s.logger.Info("student registered", zap.String("register_number", req.RegisterNumber))
	return principal, nil
}

// RegisterStaff creates a staff account, also DOB-credentialed.
func (s *AdminService) RegisterStaff(ctx context.Context, req models.RegisterStaffRequest) (*models.Principal, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid registration payload")
	}
	taken, err := s.principals.ExistsByUsername(ctx, models.RoleStaff, req.StaffID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check staff id")
	}
	if taken {
		return nil, appErrors.Clone(appErrors.ErrDuplicate, "staff id already exists")
	}

	dob := req.DateOfBirth
	principal := &models.Principal{
		Role:         models.RoleStaff,
		Username:     req.StaffID,
		PasswordHash: dobCredential(dob),
		FullName:     req.FullName,
		DateOfBirth:  &dob,
	}
	if err := s.principals.CreateStaff(ctx, principal, req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create staff")
	}
	s.logger.Info("staff registered", zap.String("staff_id", req.StaffID))
	return principal, nil
}

// ListStudents returns summary rows, placed ones decorated with their
// feedback status.
func (s *AdminService) ListStudents(ctx context.Context, filter models.StudentFilter) ([]models.StudentSummary, error) {
	students, err := s.students.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	return students, nil
}

// GetStudent returns one student's full profile.
func (s *AdminService) GetStudent(ctx context.Context, principalID string) (*models.Student, error) {
	student, err := s.students.FindByPrincipalID(ctx, principalID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch student")
	}
	return student, nil
}

// ListStaff returns every staff profile.
func (s *AdminService) ListStaff(ctx context.Context) ([]models.StaffProfile, error) {
	profiles, err := s.staff.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list staff")
	}
	return profiles, nil
}

// SetPlacement flips a student's placement status. Marking a student
// placed requires company and date.
func (s *AdminService) SetPlacement(ctx context.Context, principalID string, update models.PlacementUpdate) error {
	if err := s.validator.Struct(update); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid placement payload")
	}
	if update.PlacementStatus == models.PlacementPlaced && (update.PlacedCompany == "" || update.PlacementDate == nil) {
		return appErrors.Clone(appErrors.ErrValidation, "placed students need a company and date")
	}
	if _, err := s.GetStudent(ctx, principalID); err != nil {
		return err
	}
	if err := s.students.SetPlacement(ctx, principalID, update); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update placement")
	}
	s.invalidateDashboard(ctx)
	s.logger.Info("placement updated",
		zap.String("student_id", principalID),
		zap.String("status", update.PlacementStatus))
	return nil
}

// DeleteAccount removes a student or staff principal and its profile.
// Admin accounts cannot be deleted through the API.
func (s *AdminService) DeleteAccount(ctx context.Context, principalID string) error {
	principal, err := s.principals.FindByID(ctx, principalID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "account not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch account")
	}
	if principal.Role == models.RoleAdmin {
		return appErrors.Clone(appErrors.ErrForbidden, "admin accounts cannot be deleted")
	}
	if err := s.principals.Delete(ctx, principalID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "account not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete account")
	}
	s.invalidateDashboard(ctx)
	s.logger.Info("account deleted", zap.String("principal_id", principalID), zap.String("role", string(principal.Role)))
	return nil
}

// Dashboard returns season statistics, served from cache when fresh.
func (s *AdminService) Dashboard(ctx context.Context) (*models.DashboardStats, error) {
	if s.cache != nil {
		var cached models.DashboardStats
		if err := s.cache.Get(ctx, dashboardCacheKey, &cached); err == nil {
			return &cached, nil
		} else if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("dashboard cache read failed", zap.Error(err))
		}
	}

	stats, err := s.dashboard.Stats(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to compute dashboard")
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, dashboardCacheKey, stats, s.cacheTTL); err != nil {
			s.logger.Warn("dashboard cache write failed", zap.Error(err))
		}
	}
	return stats, nil
}

func (s *AdminService) invalidateDashboard(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, dashboardCacheKey); err != nil {
		s.logger.Warn("dashboard cache invalidation failed", zap.Error(err))
	}
}
