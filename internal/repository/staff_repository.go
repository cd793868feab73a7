package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/placement-cell/placement-api/internal/models"
)

// StaffRepository manages staff profile rows.
type StaffRepository struct {
	db *sqlx.DB
}

// NewStaffRepository constructs a StaffRepository.
func NewStaffRepository(db *sqlx.DB) *StaffRepository {
	return &StaffRepository{db: db}
}

const staffColumns = `sp.principal_id, p.username, p.full_name, sp.department, sp.designation,
        sp.contact_number, sp.email, sp.created_at, sp.updated_at`

// FindByPrincipalID fetches a staff profile.
func (r *StaffRepository) FindByPrincipalID(ctx context.Context, principalID string) (*models.StaffProfile, error) {
	query := fmt.Sprintf(`SELECT %s FROM staff_profiles sp JOIN principals p ON p.id = sp.principal_id
        WHERE sp.principal_id = $1`, staffColumns)
	var profile models.StaffProfile
	if err := r.db.GetContext(ctx, &profile, query, principalID); err != nil {
		return nil, err
	}
	return &profile, nil
}

// List returns every staff profile ordered by username.
func (r *StaffRepository) List(ctx context.Context) ([]models.StaffProfile, error) {
	query := fmt.Sprintf(`SELECT %s FROM staff_profiles sp JOIN principals p ON p.id = sp.principal_id
        ORDER BY p.username ASC`, staffColumns)
	var profiles []models.StaffProfile
	if err := r.db.SelectContext(ctx, &profiles, query); err != nil {
		return nil, fmt.Errorf("list staff: %w", err)
	}
	return profiles, nil
}

// Update writes the merged staff profile back.
func (r *StaffRepository) Update(ctx context.Context, profile *models.StaffProfile) error {
	profile.UpdatedAt = time.Now().UTC()
	const query = `UPDATE staff_profiles SET department = :department, designation = :designation,
        contact_number = :contact_number, email = :email, updated_at = :updated_at
        WHERE principal_id = :principal_id`
	if _, err := r.db.NamedExecContext(ctx, query, profile); err != nil {
		return fmt.Errorf("update staff profile: %w", err)
	}
	const nameQuery = `UPDATE principals SET full_name = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, nameQuery, profile.PrincipalID, profile.FullName, profile.UpdatedAt); err != nil {
		return fmt.Errorf("update staff name: %w", err)
	}
	return nil
}
