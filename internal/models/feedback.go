package models

import "time"

// FeedbackStatus is the verification state of a placement feedback.
type FeedbackStatus string

const (
	// FeedbackPending marks a placed student who has not submitted yet.
	// No row carries this status; it is the implied state before
	// submission and the value reminder sweeps look for.
	FeedbackPending   FeedbackStatus = "Pending"
	FeedbackSubmitted FeedbackStatus = "Submitted"
	FeedbackVerified  FeedbackStatus = "Verified"
)

// Feedback is a placed student's offer confirmation. At most one row
// per student, enforced by a UNIQUE constraint on student_id.
type Feedback struct {
	ID               string         `db:"id" json:"id"`
	StudentID        string         `db:"student_id" json:"student_id"`
	RegisterNumber   string         `db:"register_number" json:"register_number"`
	StudentName      string         `db:"student_name" json:"student_name"`
	CompanyName      string         `db:"company_name" json:"company_name"`
	JobRole          string         `db:"job_role" json:"job_role"`
	CTC              float64        `db:"ctc" json:"ctc"`
	PlacementDate    *time.Time     `db:"placement_date" json:"placement_date,omitempty"`
	DocumentPath     string         `db:"document_path" json:"document_path"`
	Status           FeedbackStatus `db:"status" json:"status"`
	SubmittedDate    time.Time      `db:"submitted_date" json:"submitted_date"`
	CreatedAt        time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time      `db:"updated_at" json:"updated_at"`
}

// SubmitFeedbackRequest accompanies the offer document upload.
type SubmitFeedbackRequest struct {
	CompanyName   string     `json:"company_name" validate:"required"`
	JobRole       string     `json:"job_role" validate:"required"`
	CTC           float64    `json:"ctc" validate:"min=0"`
	PlacementDate *time.Time `json:"placement_date"`
}

// UpdateFeedbackRequest edits a submitted feedback's details. Only
// the owning student may edit, and only while not yet verified.
type UpdateFeedbackRequest struct {
	CompanyName   *string    `json:"company_name"`
	JobRole       *string    `json:"job_role"`
	CTC           *float64   `json:"ctc"`
	PlacementDate *time.Time `json:"placement_date"`
}

// FeedbackDueAfter is how long a placed student has to submit
// feedback before it counts as overdue.
const FeedbackDueAfter = 3 * 24 * time.Hour

// PendingFeedbackStudent is a placed student whose feedback window has
// lapsed without a submission.
type PendingFeedbackStudent struct {
	PrincipalID   string     `db:"principal_id" json:"id"`
	Username      string     `db:"username" json:"register_number"`
	FullName      string     `db:"full_name" json:"full_name"`
	CollegeEmail  string     `db:"college_email" json:"college_email"`
	PersonalEmail string     `db:"personal_email" json:"personal_email"`
	PlacedCompany string     `db:"placed_company" json:"placed_company"`
	PlacementDate *time.Time `db:"placement_date" json:"placement_date,omitempty"`
	RemindersSent int        `db:"reminders_sent" json:"reminders_sent"`
}

// Deadline is when the student's feedback falls due, three days after
// placement. Zero when no placement date is on record.
func (p PendingFeedbackStudent) Deadline() time.Time {
	if p.PlacementDate == nil {
		return time.Time{}
	}
	return p.PlacementDate.Add(FeedbackDueAfter)
}

// IsOverdue reports whether the deadline had passed at the given time.
func (p PendingFeedbackStudent) IsOverdue(now time.Time) bool {
	deadline := p.Deadline()
	return !deadline.IsZero() && now.After(deadline)
}
