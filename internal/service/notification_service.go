package service

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/placement-cell/placement-api/internal/models"
	"github.com/placement-cell/placement-api/pkg/jobs"
	"github.com/placement-cell/placement-api/pkg/mailer"
)

type notificationFeedbackRepository interface {
	ListPendingOverdue(ctx context.Context) ([]models.PendingFeedbackStudent, error)
	RecordReminder(ctx context.Context, studentID string) error
}

type idempotencyStore interface {
	SetNX(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

// NotificationService fans out shortlist invites and feedback
// reminders through the background job queue. Idempotency keys keep a
// student from receiving the same invite twice even when a shortlist
// is rebuilt.
type NotificationService struct {
	queue     *jobs.Queue
	mail      mailer.Mailer
	feedbacks notificationFeedbackRepository
	keys      idempotencyStore
	logger    *zap.Logger
}

// NewNotificationService constructs a NotificationService. Call Queue
// once to build the queue this service feeds, then Start it.
func NewNotificationService(mail mailer.Mailer, feedbacks notificationFeedbackRepository, keys idempotencyStore, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{mail: mail, feedbacks: feedbacks, keys: keys, logger: logger}
}

// Queue builds the delivery queue backed by this service's handler.
func (s *NotificationService) Queue(cfg jobs.Config) *jobs.Queue {
	s.queue = jobs.NewQueue("notifications", s.handle, cfg)
	return s.queue
}

// NotifyShortlist enqueues one invite per shortlisted student.
func (s *NotificationService) NotifyShortlist(ctx context.Context, company *models.Company, entries []models.ShortlistEntry) error {
	if s.queue == nil {
		return fmt.Errorf("notification queue not configured")
	}
	var firstErr error
	for _, entry := range entries {
		if entry.CollegeEmail == "" {
			continue
		}
		invite := models.DriveInvite{
			DriveID:     company.ID,
			StudentID:   entry.StudentID,
			StudentName: entry.FullName,
			Email:       entry.CollegeEmail,
			CompanyName: company.CompanyName,
			JobRole:     company.JobRole,
			DriveDate:   company.DriveDate.Format("02 Jan 2006"),
			Location:    company.Location,
		}
		err := s.queue.Enqueue(jobs.Job{
			ID:      uuid.NewString(),
			Kind:    models.JobDriveInvite,
			Payload: invite,
		})
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// SendFeedbackReminders emails every placed student whose three-day
// feedback window has lapsed without a submission. One call per sweep;
// the daily idempotency key absorbs overlapping sweeps.
func (s *NotificationService) SendFeedbackReminders(ctx context.Context) (int, error) {
	if s.queue == nil {
		return 0, fmt.Errorf("notification queue not configured")
	}
	pending, err := s.feedbacks.ListPendingOverdue(ctx)
	if err != nil {
		return 0, err
	}

	queued := 0
	for _, student := range pending {
		email := student.CollegeEmail
		if email == "" {
			email = student.PersonalEmail
		}
		if email == "" {
			continue
		}
		err := s.queue.Enqueue(jobs.Job{
			ID:   uuid.NewString(),
			Kind: models.JobFeedbackReminder,
			Payload: models.FeedbackReminder{
				StudentID:     student.PrincipalID,
				StudentName:   student.FullName,
				Email:         email,
				PlacedCompany: student.PlacedCompany,
			},
		})
		if err != nil {
			s.logger.Warn("failed to enqueue reminder", zap.String("student_id", student.PrincipalID), zap.Error(err))
			continue
		}
		queued++
	}
	s.logger.Info("feedback reminder sweep", zap.Int("pending", len(pending)), zap.Int("queued", queued))
	return queued, nil
}

func (s *NotificationService) handle(ctx context.Context, job jobs.Job) error {
	switch job.Kind {
	case models.JobDriveInvite:
		invite, ok := job.Payload.(models.DriveInvite)
		if !ok {
			return fmt.Errorf("unexpected payload %T for %s", job.Payload, job.Kind)
		}
		return s.sendInvite(ctx, invite)
	case models.JobFeedbackReminder:
		reminder, ok := job.Payload.(models.FeedbackReminder)
		if !ok {
			return fmt.Errorf("unexpected payload %T for %s", job.Payload, job.Kind)
		}
		return s.sendReminder(ctx, reminder)
	default:
		return fmt.Errorf("unknown job kind %s", job.Kind)
	}
}

func (s *NotificationService) sendInvite(ctx context.Context, invite models.DriveInvite) error {
	if s.keys != nil {
		key := fmt.Sprintf("notify:drive:%s:%s", invite.DriveID, invite.StudentID)
		ok, err := s.keys.SetNX(ctx, key, 7*24*time.Hour)
		if err != nil {
			s.logger.Warn("idempotency check failed, sending anyway", zap.Error(err))
		} else if !ok {
			return nil
		}
	}

	msg := mailer.Message{
		To:      mail.Address{Name: invite.StudentName, Address: invite.Email},
		Subject: fmt.Sprintf("Shortlisted: %s - %s", invite.CompanyName, invite.JobRole),
		Text: fmt.Sprintf("Dear %s,\n\nYou have been shortlisted for the %s drive (%s).\nDrive date: %s\nLocation: %s\n\nPlease report with your resume and documents.\n\nPlacement Cell",
			invite.StudentName, invite.CompanyName, invite.JobRole, invite.DriveDate, invite.Location),
	}
	if err := s.mail.Send(ctx, msg); err != nil {
		return fmt.Errorf("send invite to %s: %w", invite.Email, err)
	}
	return nil
}

func (s *NotificationService) sendReminder(ctx context.Context, reminder models.FeedbackReminder) error {
	if s.keys != nil {
		key := fmt.Sprintf("notify:reminder:%s:%s", reminder.StudentID, time.Now().UTC().Format("2006-01-02"))
		ok, err := s.keys.SetNX(ctx, key, 24*time.Hour)
		if err != nil {
			s.logger.Warn("idempotency check failed, sending anyway", zap.Error(err))
		} else if !ok {
			return nil
		}
	}

	msg := mailer.Message{
		To:      mail.Address{Name: reminder.StudentName, Address: reminder.Email},
		Subject: "Placement feedback pending",
		Text: fmt.Sprintf("Dear %s,\n\nCongratulations on your placement at %s. Please submit your placement feedback with the offer document on the portal.\n\nPlacement Cell",
			reminder.StudentName, reminder.PlacedCompany),
	}
	if err := s.mail.Send(ctx, msg); err != nil {
		return fmt.Errorf("send reminder to %s: %w", reminder.Email, err)
	}
	if err := s.feedbacks.RecordReminder(ctx, reminder.StudentID); err != nil {
		s.logger.Warn("failed to record reminder", zap.String("student_id", reminder.StudentID), zap.Error(err))
	}
	return nil
}
