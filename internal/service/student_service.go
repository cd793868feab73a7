package service

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/placement-cell/placement-api/internal/models"
	appErrors "github.com/placement-cell/placement-api/pkg/errors"
	"github.com/placement-cell/placement-api/pkg/storage"
)

type studentRepository interface {
	FindByPrincipalID(ctx context.Context, principalID string) (*models.Student, error)
	UpdateProfile(ctx context.Context, student *models.Student) error
	SetResume(ctx context.Context, principalID, path string) error
	SetProfilePhoto(ctx context.Context, principalID, path string) error
}

type studentDriveRepository interface {
	ListOpenForStudent(ctx context.Context, studentID string) ([]models.Company, error)
}

type studentFeedbackRepository interface {
	FindByStudentID(ctx context.Context, studentID string) (*models.Feedback, error)
}

// StudentService serves the student-facing profile operations.
type StudentService struct {
	repo      studentRepository
	drives    studentDriveRepository
	feedbacks studentFeedbackRepository
	store     *storage.LocalStorage
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStudentService constructs a StudentService.
func NewStudentService(repo studentRepository, drives studentDriveRepository, feedbacks studentFeedbackRepository, store *storage.LocalStorage, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &StudentService{repo: repo, drives: drives, feedbacks: feedbacks, store: store, validator: validate, logger: logger}
}

// GetProfile returns the student's full profile.
func (s *StudentService) GetProfile(ctx context.Context, principalID string) (*models.Student, error) {
	student, err := s.repo.FindByPrincipalID(ctx, principalID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch profile")
	}
	return student, nil
}

// UpdateProfile applies a sparse edit. Absent, empty and
// whitespace-only fields keep their stored values; nested groups merge
// field-by-field, so a payload touching only sslc.percentage leaves
// the rest of the SSLC record alone. The first successful update flips
// ProfileCompleted to true, and nothing on this path ever resets it.
func (s *StudentService) UpdateProfile(ctx context.Context, principalID string, update models.StudentProfileUpdate) (*models.Student, error) {
	if err := s.validator.Struct(update); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid profile payload")
	}
	student, err := s.GetProfile(ctx, principalID)
	if err != nil {
		return nil, err
	}

	applyProfileUpdate(student, update)
	student.CGPA = student.SemesterGPA.CGPA()
	student.ProfileCompleted = true

	if err := s.repo.UpdateProfile(ctx, student); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update profile")
	}
	s.logger.Info("profile updated", zap.String("student_id", principalID), zap.Bool("complete", student.ProfileCompleted))
	return student, nil
}

// UpdateSemesterGPA records or corrects one semester's GPA and
// refreshes the derived CGPA. Only recorded semesters enter the mean.
func (s *StudentService) UpdateSemesterGPA(ctx context.Context, principalID string, update models.SemesterGPAUpdate) (*models.Student, error) {
	if err := s.validator.Struct(update); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid gpa payload")
	}
	student, err := s.GetProfile(ctx, principalID)
	if err != nil {
		return nil, err
	}

	student.SemesterGPA = student.SemesterGPA.Upsert(update.Semester, update.GPA)
	student.CGPA = student.SemesterGPA.CGPA()

	if err := s.repo.UpdateProfile(ctx, student); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update gpa")
	}
	return student, nil
}

// UploadResume stores the student's resume PDF and records its path.
func (s *StudentService) UploadResume(ctx context.Context, principalID, filename string, file io.Reader) (string, error) {
	if _, err := s.GetProfile(ctx, principalID); err != nil {
		return "", err
	}
	path, err := s.store.Save(storage.PurposeResume, filename, file)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store resume")
	}
	if err := s.repo.SetResume(ctx, principalID, path); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record resume")
	}
	return path, nil
}

// UploadPhoto stores the student's profile photo and records its path.
func (s *StudentService) UploadPhoto(ctx context.Context, principalID, filename string, file io.Reader) (string, error) {
	if _, err := s.GetProfile(ctx, principalID); err != nil {
		return "", err
	}
	path, err := s.store.Save(storage.PurposePhoto, filename, file)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store photo")
	}
	if err := s.repo.SetProfilePhoto(ctx, principalID, path); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record photo")
	}
	return path, nil
}

// ListOpenDrives returns the drives the student is shortlisted for
// that have not yet completed or been cancelled.
func (s *StudentService) ListOpenDrives(ctx context.Context, principalID string) ([]models.Company, error) {
	drives, err := s.drives.ListOpenForStudent(ctx, principalID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list drives")
	}
	return drives, nil
}

// GetOwnFeedback returns the student's feedback or ErrNotFound when
// nothing has been submitted yet.
func (s *StudentService) GetOwnFeedback(ctx context.Context, principalID string) (*models.Feedback, error) {
	feedback, err := s.feedbacks.FindByStudentID(ctx, principalID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "no feedback submitted")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch feedback")
	}
	return feedback, nil
}

// setString overwrites dst only when the caller supplied a value with
// substance. Nil, empty and whitespace-only inputs keep the stored
// value, so a client echoing back blank form fields cannot erase data.
func setString(dst *string, src *string) {
	if src == nil {
		return
	}
	if v := strings.TrimSpace(*src); v != "" {
		*dst = v
	}
}

func applyProfileUpdate(student *models.Student, update models.StudentProfileUpdate) {
	setString(&student.FullName, update.FullName)
	setString(&student.Degree, update.Degree)
	setString(&student.Department, update.Department)
	setString(&student.Gender, update.Gender)
	setString(&student.TutorName, update.TutorName)
	setString(&student.ContactNumber, update.ContactNumber)
	setString(&student.CollegeEmail, update.CollegeEmail)
	setString(&student.PersonalEmail, update.PersonalEmail)
	if update.SSLC != nil {
		mergeExamRecord(&student.SSLC, *update.SSLC)
	}
	if update.HSC != nil {
		mergeExamRecord(&student.HSC, *update.HSC)
	}
	if update.Diploma != nil {
		mergeDiploma(&student.Diploma, *update.Diploma)
	}
	if update.Father != nil {
		mergeParent(&student.Father, *update.Father)
	}
	if update.Mother != nil {
		mergeParent(&student.Mother, *update.Mother)
	}
	if update.Address != nil {
		mergeAddress(&student.Address, *update.Address)
	}
	if update.DegreeYearOfPassing != nil && *update.DegreeYearOfPassing != 0 {
		student.DegreeYearOfPassing = *update.DegreeYearOfPassing
	}
	setString(&student.Arrears, update.Arrears)
	if update.KeySkills != nil && len(*update.KeySkills) > 0 {
		student.KeySkills = append(student.KeySkills[:0], (*update.KeySkills)...)
	}
	setString(&student.Aadhaar, update.Aadhaar)
	setString(&student.PAN, update.PAN)
	setString(&student.BloodGroup, update.BloodGroup)
	setString(&student.Accommodation, update.Accommodation)
	setString(&student.GithubProfile, update.GithubProfile)
	setString(&student.LinkedinProfile, update.LinkedinProfile)
}

func mergeExamRecord(dst *models.ExamRecord, src models.ExamRecord) {
	if src.Institution != "" {
		dst.Institution = src.Institution
	}
	if src.Board != "" {
		dst.Board = src.Board
	}
	if src.Percentage != 0 {
		dst.Percentage = src.Percentage
	}
	if src.YearOfPassing != 0 {
		dst.YearOfPassing = src.YearOfPassing
	}
}

func mergeDiploma(dst *models.DiplomaRecord, src models.DiplomaRecord) {
	if src.Institution != "" {
		dst.Institution = src.Institution
	}
	if src.Branch != "" {
		dst.Branch = src.Branch
	}
	if src.Percentage != 0 {
		dst.Percentage = src.Percentage
	}
	if src.YearOfPassing != 0 {
		dst.YearOfPassing = src.YearOfPassing
	}
}

func mergeParent(dst *models.ParentInfo, src models.ParentInfo) {
	if src.Name != "" {
		dst.Name = src.Name
	}
	if src.Occupation != "" {
		dst.Occupation = src.Occupation
	}
	if src.ContactNumber != "" {
		dst.ContactNumber = src.ContactNumber
	}
}

func mergeAddress(dst *models.AddressInfo, src models.AddressInfo) {
	if src.Street != "" {
		dst.Street = src.Street
	}
	if src.City != "" {
		dst.City = src.City
	}
	if src.District != "" {
		dst.District = src.District
	}
	if src.State != "" {
		dst.State = src.State
	}
	if src.Pincode != "" {
		dst.Pincode = src.Pincode
	}
}
