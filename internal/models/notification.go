package models

// Notification job kinds.
const (
	JobDriveInvite      = "drive_invite"
	JobFeedbackReminder = "feedback_reminder"
)

// DriveInvite is the payload of one shortlist notification email.
type DriveInvite struct {
	DriveID      string `json:"drive_id"`
	StudentID    string `json:"student_id"`
	StudentName  string `json:"student_name"`
	Email        string `json:"email"`
	CompanyName  string `json:"company_name"`
	JobRole      string `json:"job_role"`
	DriveDate    string `json:"drive_date"`
	Location     string `json:"location"`
}

// FeedbackReminder is the payload of one reminder email to a placed
// student who has not submitted feedback yet.
type FeedbackReminder struct {
	StudentID     string `json:"student_id"`
	StudentName   string `json:"student_name"`
	Email         string `json:"email"`
	PlacedCompany string `json:"placed_company"`
}
