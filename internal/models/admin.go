package models

import "time"

// RegisterStudentRequest creates a student account. The date of birth
// doubles as the initial credential, so it is mandatory here even
// though the profile treats it as just another field.
type RegisterStudentRequest struct {
	RegisterNumber string    `json:"register_number" validate:"required"`
	FullName       string    `json:"full_name" validate:"required"`
	DateOfBirth    time.Time `json:"date_of_birth" validate:"required"`
	Degree         string    `json:"degree"`
	Department     string    `json:"department"`
	CollegeEmail   string    `json:"college_email" validate:"omitempty,email"`
}

// RegisterStaffRequest creates a staff account.
type RegisterStaffRequest struct {
	StaffID     string    `json:"staff_id" validate:"required"`
	FullName    string    `json:"full_name" validate:"required"`
	DateOfBirth time.Time `json:"date_of_birth" validate:"required"`
	Department  string    `json:"department"`
	Designation string    `json:"designation"`
	Email       string    `json:"email" validate:"omitempty,email"`
}

// ChangePasswordRequest lets an admin rotate their password.
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

// DashboardStats summarizes the placement season for the admin view.
type DashboardStats struct {
	TotalStudents      int               `json:"total_students"`
	ProfilesCompleted  int               `json:"profiles_completed"`
	PlacedStudents     int               `json:"placed_students"`
	NotPlacedStudents  int               `json:"not_placed_students"`
	TotalStaff         int               `json:"total_staff"`
	TotalDrives        int               `json:"total_drives"`
	ActiveDrives       int               `json:"active_drives"`
	FeedbacksSubmitted int               `json:"feedbacks_submitted"`
	FeedbacksVerified  int               `json:"feedbacks_verified"`
	ByDepartment       map[string]DeptPlacement `json:"by_department"`
	GeneratedAt        time.Time         `json:"generated_at"`
}

// DeptPlacement is a per-department placed/total pair.
type DeptPlacement struct {
	Total  int `json:"total"`
	Placed int `json:"placed"`
}

// BulkRowError reports one rejected row of a bulk upload.
type BulkRowError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// BulkUploadReport summarizes a roster import. Errors is capped at the
// first ten rejected rows; TotalErrors carries the full count.
type BulkUploadReport struct {
	TotalRows   int            `json:"total_rows"`
	Created     int            `json:"created"`
	Skipped     int            `json:"skipped"`
	TotalErrors int            `json:"total_errors"`
	Errors      []BulkRowError `json:"errors"`
}
