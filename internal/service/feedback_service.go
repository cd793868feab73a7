package service

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/placement-cell/placement-api/internal/models"
	appErrors "github.com/placement-cell/placement-api/pkg/errors"
	"github.com/placement-cell/placement-api/pkg/storage"
)

type feedbackRepository interface {
	Create(ctx context.Context, feedback *models.Feedback) error
	FindByID(ctx context.Context, id string) (*models.Feedback, error)
	FindByStudentID(ctx context.Context, studentID string) (*models.Feedback, error)
	ExistsByStudent(ctx context.Context, studentID string) (bool, error)
	List(ctx context.Context, status models.FeedbackStatus) ([]models.Feedback, error)
	Update(ctx context.Context, feedback *models.Feedback) error
	UpdateStatus(ctx context.Context, id string, status models.FeedbackStatus) error
	Delete(ctx context.Context, id string) error
	ListPendingOverdue(ctx context.Context) ([]models.PendingFeedbackStudent, error)
}

type feedbackStudentRepository interface {
	FindByPrincipalID(ctx context.Context, principalID string) (*models.Student, error)
}

type submissionLocker interface {
	SetNX(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Delete(ctx context.Context, key string) error
}

// FeedbackService manages the placement feedback lifecycle: one
// submission per placed student, staff verification, owner edits.
type FeedbackService struct {
	repo      feedbackRepository
	students  feedbackStudentRepository
	locks     submissionLocker
	store     *storage.LocalStorage
	validator *validator.Validate
	logger    *zap.Logger
}

// NewFeedbackService constructs a FeedbackService.
func NewFeedbackService(repo feedbackRepository, students feedbackStudentRepository, locks submissionLocker, store *storage.LocalStorage, validate *validator.Validate, logger *zap.Logger) *FeedbackService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &FeedbackService{repo: repo, students: students, locks: locks, store: store, validator: validate, logger: logger}
}

// Submit records a placed student's offer confirmation together with
// its document. Rows are born Submitted. A short-lived lock absorbs
// double-clicks; the UNIQUE constraint on student_id is the final
// guard.
func (s *FeedbackService) Submit(ctx context.Context, studentID string, req models.SubmitFeedbackRequest, filename string, document io.Reader) (*models.Feedback, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid feedback payload")
	}
	if document == nil || filename == "" {
		return nil, appErrors.ErrMissingDocument
	}

	student, err := s.students.FindByPrincipalID(ctx, studentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch student")
	}
	if student.PlacementStatus != models.PlacementPlaced {
		return nil, appErrors.ErrNotPlaced
	}

	lockKey := "feedback:submit:" + studentID
	if s.locks != nil {
		ok, err := s.locks.SetNX(ctx, lockKey, 30*time.Second)
		if err != nil {
			s.logger.Warn("submission lock unavailable", zap.Error(err))
		} else if !ok {
			return nil, appErrors.Clone(appErrors.ErrDuplicate, "submission already in progress")
		}
		defer func() {
			if err := s.locks.Delete(ctx, lockKey); err != nil {
				s.logger.Warn("failed to release submission lock", zap.Error(err))
			}
		}()
	}

	exists, err := s.repo.ExistsByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check submission")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrDuplicate, "feedback already submitted")
	}

	path, err := s.store.Save(storage.PurposeFeedback, filename, document)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store document")
	}

	feedback := &models.Feedback{
		StudentID:     studentID,
		CompanyName:   req.CompanyName,
		JobRole:       req.JobRole,
		CTC:           req.CTC,
		PlacementDate: req.PlacementDate,
		DocumentPath:  path,
		Status:        models.FeedbackSubmitted,
	}
	if err := s.repo.Create(ctx, feedback); err != nil {
		if removeErr := s.store.Delete(path); removeErr != nil {
			s.logger.Warn("failed to remove orphaned document", zap.String("path", path), zap.Error(removeErr))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrDuplicate.Code, appErrors.ErrDuplicate.Status, "feedback already submitted")
	}
	feedback.RegisterNumber = student.Username
	feedback.StudentName = student.FullName

	s.logger.Info("feedback submitted", zap.String("student_id", studentID), zap.String("feedback_id", feedback.ID))
	return feedback, nil
}

// Update lets the owning student edit offer details and optionally
// replace the document while the feedback is not yet verified.
func (s *FeedbackService) Update(ctx context.Context, studentID, feedbackID string, req models.UpdateFeedbackRequest, filename string, document io.Reader) (*models.Feedback, error) {
	feedback, err := s.getByID(ctx, feedbackID)
	if err != nil {
		return nil, err
	}
	if feedback.StudentID != studentID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "feedback belongs to another student")
	}
	if feedback.Status == models.FeedbackVerified {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, "verified feedback cannot be edited")
	}

	if req.CompanyName != nil {
		feedback.CompanyName = *req.CompanyName
	}
	if req.JobRole != nil {
		feedback.JobRole = *req.JobRole
	}
	if req.CTC != nil {
		feedback.CTC = *req.CTC
	}
	if req.PlacementDate != nil {
		feedback.PlacementDate = req.PlacementDate
	}
	if document != nil && filename != "" {
		path, err := s.store.Save(storage.PurposeFeedback, filename, document)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store document")
		}
		old := feedback.DocumentPath
		feedback.DocumentPath = path
		if old != "" {
			if err := s.store.Delete(old); err != nil {
				s.logger.Warn("failed to remove replaced document", zap.String("path", old), zap.Error(err))
			}
		}
	}

	if err := s.repo.Update(ctx, feedback); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update feedback")
	}
	return feedback, nil
}

// Verify marks a feedback Verified. Verifying an already verified
// feedback is a no-op, not an error.
func (s *FeedbackService) Verify(ctx context.Context, feedbackID string) (*models.Feedback, error) {
	feedback, err := s.getByID(ctx, feedbackID)
	if err != nil {
		return nil, err
	}
	if feedback.Status == models.FeedbackVerified {
		return feedback, nil
	}
	if err := s.repo.UpdateStatus(ctx, feedbackID, models.FeedbackVerified); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to verify feedback")
	}
	feedback.Status = models.FeedbackVerified
	s.logger.Info("feedback verified", zap.String("feedback_id", feedbackID))
	return feedback, nil
}

// Delete removes a feedback. Students may delete their own unverified
// submission; admins may delete any. The stored document goes with it.
func (s *FeedbackService) Delete(ctx context.Context, requesterID string, requesterRole models.Role, feedbackID string) error {
	feedback, err := s.getByID(ctx, feedbackID)
	if err != nil {
		return err
	}
	if requesterRole != models.RoleAdmin {
		if feedback.StudentID != requesterID {
			return appErrors.Clone(appErrors.ErrForbidden, "feedback belongs to another student")
		}
		if feedback.Status == models.FeedbackVerified {
			return appErrors.Clone(appErrors.ErrInvalidTransition, "verified feedback cannot be deleted")
		}
	}
	if err := s.repo.Delete(ctx, feedbackID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete feedback")
	}
	if feedback.DocumentPath != "" {
		if err := s.store.Delete(feedback.DocumentPath); err != nil {
			s.logger.Warn("failed to remove document", zap.String("path", feedback.DocumentPath), zap.Error(err))
		}
	}
	return nil
}

// List returns feedbacks for the staff and admin review views.
func (s *FeedbackService) List(ctx context.Context, status models.FeedbackStatus) ([]models.Feedback, error) {
	if status != "" && status != models.FeedbackSubmitted && status != models.FeedbackVerified {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown feedback status")
	}
	feedbacks, err := s.repo.List(ctx, status)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list feedbacks")
	}
	return feedbacks, nil
}

// ListPendingOverdue returns placed students whose three-day feedback
// window has lapsed without a submission. The staff pending view and
// the reminder sweep share the underlying query.
func (s *FeedbackService) ListPendingOverdue(ctx context.Context) ([]models.PendingFeedbackStudent, error) {
	students, err := s.repo.ListPendingOverdue(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list pending feedbacks")
	}
	return students, nil
}

// OpenDocument streams a feedback document for review. Students may
// only open their own.
func (s *FeedbackService) OpenDocument(ctx context.Context, requesterID string, requesterRole models.Role, feedbackID string) (io.ReadCloser, error) {
	feedback, err := s.getByID(ctx, feedbackID)
	if err != nil {
		return nil, err
	}
	if requesterRole == models.RoleStudent && feedback.StudentID != requesterID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "feedback belongs to another student")
	}
	if feedback.DocumentPath == "" || !s.store.Exists(feedback.DocumentPath) {
		return nil, appErrors.Clone(appErrors.ErrNoFilesFound, "document not found")
	}
	file, err := s.store.Open(feedback.DocumentPath)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open document")
	}
	return file, nil
}

func (s *FeedbackService) getByID(ctx context.Context, feedbackID string) (*models.Feedback, error) {
	feedback, err := s.repo.FindByID(ctx, feedbackID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "feedback not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch feedback")
	}
	return feedback, nil
}
