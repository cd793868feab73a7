package models

import "time"

// StaffProfile attaches placement-cell details to a staff principal.
type StaffProfile struct {
	PrincipalID   string    `db:"principal_id" json:"id"`
	Username      string    `db:"username" json:"staff_id"`
	FullName      string    `db:"full_name" json:"full_name"`
	Department    string    `db:"department" json:"department"`
	Designation   string    `db:"designation" json:"designation"`
	ContactNumber string    `db:"contact_number" json:"contact_number"`
	Email         string    `db:"email" json:"email"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// StaffProfileUpdate is a sparse edit of staff contact details.
type StaffProfileUpdate struct {
	FullName      *string `json:"full_name"`
	Department    *string `json:"department"`
	Designation   *string `json:"designation"`
	ContactNumber *string `json:"contact_number"`
	Email         *string `json:"email" validate:"omitempty,email"`
}
