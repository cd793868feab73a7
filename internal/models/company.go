package models

import (
	"database/sql/driver"
	"time"
)

// DriveStatus is the lifecycle state of a placement drive.
type DriveStatus string

const (
	DriveUpcoming  DriveStatus = "Upcoming"
	DriveActive    DriveStatus = "Active"
	DriveCompleted DriveStatus = "Completed"
	DriveCancelled DriveStatus = "Cancelled"
)

// CanTransition reports whether a drive may move from s to next.
// Upcoming drives may activate or be cancelled, active drives may
// complete or be cancelled, and the terminal states never change.
func (s DriveStatus) CanTransition(next DriveStatus) bool {
	switch s {
	case DriveUpcoming:
		return next == DriveActive || next == DriveCancelled
	case DriveActive:
		return next == DriveCompleted || next == DriveCancelled
	}
	return false
}

// DriveCriteria is the eligibility rule set a drive filters students
// with. Every field is optional; an empty slice or zero value means
// that dimension is not constrained. Profile completeness and
// placement status are always checked regardless of criteria.
type DriveCriteria struct {
	MinCGPA        float64  `json:"min_cgpa,omitempty"`
	MinSSLC        float64  `json:"min_sslc,omitempty"`
	MinHSC         float64  `json:"min_hsc,omitempty"`
	Departments    []string `json:"departments,omitempty"`
	ArrearsAllowed []string `json:"arrears_allowed,omitempty"`
	// RequiredSkills is shown to shortlisted students alongside the
	// drive; it does not narrow the filter.
	RequiredSkills []string `json:"required_skills,omitempty"`
	Genders        []string `json:"genders,omitempty"`
	Batch          []int    `json:"batch,omitempty"`
}

// Value serializes criteria for the JSONB column.
func (c DriveCriteria) Value() (driver.Value, error) { return jsonValue("drive criteria", c) }

// Scan reads criteria back from the JSONB column.
func (c *DriveCriteria) Scan(value interface{}) error { return jsonScan("drive criteria", c, value) }

// Company is a placement drive announced by a staff member. One row
// per drive; repeat visits by the same employer are separate rows.
type Company struct {
	ID                   string        `db:"id" json:"id"`
	CompanyName          string        `db:"company_name" json:"company_name"`
	JobRole              string        `db:"job_role" json:"job_role"`
	JobDescription       string        `db:"job_description" json:"job_description"`
	CTC                  float64       `db:"ctc" json:"ctc"`
	Location             string        `db:"location" json:"location"`
	Criteria             DriveCriteria `db:"criteria" json:"criteria"`
	DriveDate            time.Time     `db:"drive_date" json:"drive_date"`
	RegistrationDeadline *time.Time    `db:"registration_deadline" json:"registration_deadline,omitempty"`
	Status               DriveStatus   `db:"status" json:"status"`
	CreatedBy            string        `db:"created_by" json:"created_by"`
	CreatedAt            time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt            time.Time     `db:"updated_at" json:"updated_at"`
}

// CreateDriveRequest is the staff payload announcing a new drive.
type CreateDriveRequest struct {
	CompanyName          string        `json:"company_name" validate:"required"`
	JobRole              string        `json:"job_role" validate:"required"`
	JobDescription       string        `json:"job_description"`
	CTC                  float64       `json:"ctc" validate:"min=0"`
	Location             string        `json:"location"`
	Criteria             DriveCriteria `json:"criteria"`
	DriveDate            time.Time     `json:"drive_date" validate:"required"`
	RegistrationDeadline *time.Time    `json:"registration_deadline"`
}

// UpdateDriveStatusRequest moves a drive through its lifecycle.
type UpdateDriveStatusRequest struct {
	Status DriveStatus `json:"status" validate:"required,oneof=Upcoming Active Completed Cancelled"`
}

// ShortlistEntry is one student snapshot attached to a drive. The
// snapshot is frozen at shortlisting time; later profile edits do not
// rewrite it.
type ShortlistEntry struct {
	CompanyID       string    `db:"company_id" json:"company_id"`
	StudentID       string    `db:"student_id" json:"student_id"`
	RegisterNumber  string    `db:"register_number" json:"register_number"`
	FullName        string    `db:"full_name" json:"full_name"`
	Department      string    `db:"department" json:"department"`
	Degree          string    `db:"degree" json:"degree"`
	CGPA            float64   `db:"cgpa" json:"cgpa"`
	CollegeEmail    string    `db:"college_email" json:"college_email"`
	ContactNumber   string    `db:"contact_number" json:"contact_number"`
	ShortlistedDate time.Time `db:"shortlisted_date" json:"shortlisted_date"`
}

// DriveWithShortlist bundles a drive and its current shortlist for
// detail views.
type DriveWithShortlist struct {
	Company
	Shortlist []ShortlistEntry `json:"shortlist"`
}

// EligibilityPreview is the standalone filter result staff inspect
// before announcing a drive.
type EligibilityPreview struct {
	EligibleCount int       `json:"eligible_count"`
	Students      []Student `json:"students"`
}
