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

// PrincipalRepository manages the shared identity table behind all
// three account roles.
type PrincipalRepository struct {
	db *sqlx.DB
}

// NewPrincipalRepository constructs a PrincipalRepository.
func NewPrincipalRepository(db *sqlx.DB) *PrincipalRepository {
	return &PrincipalRepository{db: db}
}

// FindByUsername fetches a principal by role and username. Usernames
// are unique only within a role.
func (r *PrincipalRepository) FindByUsername(ctx context.Context, role models.Role, username string) (*models.Principal, error) {
	const query = `SELECT id, role, username, password_hash, full_name, date_of_birth, created_at, updated_at
        FROM principals WHERE role = $1 AND username = $2`
	var principal models.Principal
	if err := r.db.GetContext(ctx, &principal, query, role, username); err != nil {
		return nil, err
	}
	return &principal, nil
}

// FindByID fetches a principal by primary key.
func (r *PrincipalRepository) FindByID(ctx context.Context, id string) (*models.Principal, error) {
	const query = `SELECT id, role, username, password_hash, full_name, date_of_birth, created_at, updated_at
        FROM principals WHERE id = $1`
	var principal models.Principal
	if err := r.db.GetContext(ctx, &principal, query, id); err != nil {
		return nil, err
	}
	return &principal, nil
}

// ExistsByUsername checks whether a username is taken within a role.
func (r *PrincipalRepository) ExistsByUsername(ctx context.Context, role models.Role, username string) (bool, error) {
	const query = `SELECT 1 FROM principals WHERE role = $1 AND username = $2 LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, role, username); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check username: %w", err)
	}
	return true, nil
}

// CreateStudent inserts a student principal and its empty profile row
// in one transaction.
func (r *PrincipalRepository) CreateStudent(ctx context.Context, principal *models.Principal, req models.RegisterStudentRequest) error {
	return r.createWithVariant(ctx, principal, func(tx *sqlx.Tx) error {
		const query = `INSERT INTO students (principal_id, degree, department, college_email, created_at, updated_at)
            VALUES ($1, $2, $3, $4, $5, $5)`
		_, err := tx.ExecContext(ctx, query, principal.ID, req.Degree, req.Department, req.CollegeEmail, principal.CreatedAt)
		return err
	})
}

// CreateStaff inserts a staff principal and its profile row in one
// transaction.
func (r *PrincipalRepository) CreateStaff(ctx context.Context, principal *models.Principal, req models.RegisterStaffRequest) error {
	return r.createWithVariant(ctx, principal, func(tx *sqlx.Tx) error {
		const query = `INSERT INTO staff_profiles (principal_id, department, designation, email, created_at, updated_at)
            VALUES ($1, $2, $3, $4, $5, $5)`
		_, err := tx.ExecContext(ctx, query, principal.ID, req.Department, req.Designation, req.Email, principal.CreatedAt)
		return err
	})
}

func (r *PrincipalRepository) createWithVariant(ctx context.Context, principal *models.Principal, variant func(*sqlx.Tx) error) error {
	if principal.ID == "" {
		principal.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	principal.CreatedAt = now
	principal.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create principal: %w", err)
	}
	defer tx.Rollback()

	const query = `INSERT INTO principals (id, role, username, password_hash, full_name, date_of_birth, created_at, updated_at)
        VALUES (:id, :role, :username, :password_hash, :full_name, :date_of_birth, :created_at, :updated_at)`
	if _, err := tx.NamedExecContext(ctx, query, principal); err != nil {
		return fmt.Errorf("create principal: %w", err)
	}
	if err := variant(tx); err != nil {
		return fmt.Errorf("create %s profile: %w", principal.Role, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create principal: %w", err)
	}
	return nil
}

// UpdatePassword replaces the stored credential hash.
func (r *PrincipalRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	const query = `UPDATE principals SET password_hash = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, passwordHash, time.Now().UTC()); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

// Delete removes a principal. Variant rows cascade.
func (r *PrincipalRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM principals WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete principal: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
