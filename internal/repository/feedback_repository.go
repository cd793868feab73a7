package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/placement-cell/placement-api/internal/models"
)

// FeedbackRepository manages placement feedback rows and the reminder
// bookkeeping on placed students.
type FeedbackRepository struct {
	db *sqlx.DB
}

// NewFeedbackRepository constructs a FeedbackRepository.
func NewFeedbackRepository(db *sqlx.DB) *FeedbackRepository {
	return &FeedbackRepository{db: db}
}

const feedbackColumns = `f.id, f.student_id, p.username AS register_number, p.full_name AS student_name,
        f.company_name, f.job_role, f.ctc, f.placement_date, f.document_path, f.status,
        f.submitted_date, f.created_at, f.updated_at`

// Create inserts a feedback row. The UNIQUE constraint on student_id
// is the final guard against duplicate submissions.
func (r *FeedbackRepository) Create(ctx context.Context, feedback *models.Feedback) error {
	if feedback.ID == "" {
		feedback.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	feedback.CreatedAt = now
	feedback.UpdatedAt = now
	if feedback.SubmittedDate.IsZero() {
		feedback.SubmittedDate = now
	}
	const query = `INSERT INTO feedbacks (id, student_id, company_name, job_role, ctc, placement_date,
        document_path, status, submitted_date, created_at, updated_at)
        VALUES (:id, :student_id, :company_name, :job_role, :ctc, :placement_date,
        :document_path, :status, :submitted_date, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, feedback); err != nil {
		return fmt.Errorf("create feedback: %w", err)
	}
	return nil
}

// FindByID fetches a feedback by primary key.
func (r *FeedbackRepository) FindByID(ctx context.Context, id string) (*models.Feedback, error) {
	query := fmt.Sprintf(`SELECT %s FROM feedbacks f JOIN principals p ON p.id = f.student_id WHERE f.id = $1`, feedbackColumns)
	var feedback models.Feedback
	if err := r.db.GetContext(ctx, &feedback, query, id); err != nil {
		return nil, err
	}
	return &feedback, nil
}

// FindByStudentID fetches a student's feedback, if any.
func (r *FeedbackRepository) FindByStudentID(ctx context.Context, studentID string) (*models.Feedback, error) {
	query := fmt.Sprintf(`SELECT %s FROM feedbacks f JOIN principals p ON p.id = f.student_id WHERE f.student_id = $1`, feedbackColumns)
	var feedback models.Feedback
	if err := r.db.GetContext(ctx, &feedback, query, studentID); err != nil {
		return nil, err
	}
	return &feedback, nil
}

// ExistsByStudent reports whether the student already submitted.
func (r *FeedbackRepository) ExistsByStudent(ctx context.Context, studentID string) (bool, error) {
	const query = `SELECT 1 FROM feedbacks WHERE student_id = $1 LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, studentID); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check feedback: %w", err)
	}
	return true, nil
}

// List returns feedbacks, newest submission first, optionally filtered
// by status.
func (r *FeedbackRepository) List(ctx context.Context, status models.FeedbackStatus) ([]models.Feedback, error) {
	query := fmt.Sprintf(`SELECT %s FROM feedbacks f JOIN principals p ON p.id = f.student_id`, feedbackColumns)
	args := []interface{}{}
	if status != "" {
		query += " WHERE f.status = $1"
		args = append(args, status)
	}
	query += " ORDER BY f.submitted_date DESC"

	var feedbacks []models.Feedback
	if err := r.db.SelectContext(ctx, &feedbacks, query, args...); err != nil {
		return nil, fmt.Errorf("list feedbacks: %w", err)
	}
	return feedbacks, nil
}

// Update writes edited offer details back.
func (r *FeedbackRepository) Update(ctx context.Context, feedback *models.Feedback) error {
	feedback.UpdatedAt = time.Now().UTC()
	const query = `UPDATE feedbacks SET company_name = :company_name, job_role = :job_role, ctc = :ctc,
        placement_date = :placement_date, document_path = :document_path, updated_at = :updated_at
        WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, feedback); err != nil {
		return fmt.Errorf("update feedback: %w", err)
	}
	return nil
}

// UpdateStatus moves a feedback to a new verification state.
func (r *FeedbackRepository) UpdateStatus(ctx context.Context, id string, status models.FeedbackStatus) error {
	const query = `UPDATE feedbacks SET status = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, status, time.Now().UTC()); err != nil {
		return fmt.Errorf("update feedback status: %w", err)
	}
	return nil
}

// Delete removes a feedback row.
func (r *FeedbackRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM feedbacks WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete feedback: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ListPendingOverdue returns placed students with no feedback row
// whose three-day submission window has lapsed. The daily reminder
// sweep and the staff pending view both read from it.
func (r *FeedbackRepository) ListPendingOverdue(ctx context.Context) ([]models.PendingFeedbackStudent, error) {
	const query = `SELECT s.principal_id, p.username, p.full_name, s.college_email, s.personal_email,
        s.placed_company, s.placement_date, s.reminders_sent
        FROM students s
        JOIN principals p ON p.id = s.principal_id
        LEFT JOIN feedbacks f ON f.student_id = s.principal_id
        WHERE s.placement_status = $1 AND f.id IS NULL
          AND s.placement_date IS NOT NULL AND s.placement_date + INTERVAL '3 days' < NOW()
        ORDER BY s.placement_date ASC`
	var students []models.PendingFeedbackStudent
	if err := r.db.SelectContext(ctx, &students, query, models.PlacementPlaced); err != nil {
		return nil, fmt.Errorf("list pending overdue: %w", err)
	}
	return students, nil
}

// RecordReminder bumps the reminder counter for a placed student.
func (r *FeedbackRepository) RecordReminder(ctx context.Context, studentID string) error {
	const query = `UPDATE students SET reminders_sent = reminders_sent + 1, last_reminder_date = $2
        WHERE principal_id = $1`
	if _, err := r.db.ExecContext(ctx, query, studentID, time.Now().UTC()); err != nil {
		return fmt.Errorf("record reminder: %w", err)
	}
	return nil
}
