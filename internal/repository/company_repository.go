package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/placement-cell/placement-api/internal/models"
)

// CompanyRepository manages placement drives and their shortlists.
type CompanyRepository struct {
	db *sqlx.DB
}

// NewCompanyRepository constructs a CompanyRepository.
func NewCompanyRepository(db *sqlx.DB) *CompanyRepository {
	return &CompanyRepository{db: db}
}

const companyColumns = `id, company_name, job_role, job_description, ctc, location, criteria,
        drive_date, registration_deadline, status, created_by, created_at, updated_at`

// Create inserts a new drive.
func (r *CompanyRepository) Create(ctx context.Context, company *models.Company) error {
	if company.ID == "" {
		company.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	company.CreatedAt = now
	company.UpdatedAt = now
	if company.Status == "" {
		company.Status = models.DriveUpcoming
	}
	const query = `INSERT INTO companies (id, company_name, job_role, job_description, ctc, location, criteria,
        drive_date, registration_deadline, status, created_by, created_at, updated_at)
        VALUES (:id, :company_name, :job_role, :job_description, :ctc, :location, :criteria,
        :drive_date, :registration_deadline, :status, :created_by, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, company); err != nil {
		return fmt.Errorf("create drive: %w", err)
	}
	return nil
}

// FindByID fetches a drive by primary key.
func (r *CompanyRepository) FindByID(ctx context.Context, id string) (*models.Company, error) {
	query := fmt.Sprintf(`SELECT %s FROM companies WHERE id = $1`, companyColumns)
	var company models.Company
	if err := r.db.GetContext(ctx, &company, query, id); err != nil {
		return nil, err
	}
	return &company, nil
}

// List returns drives, newest first, optionally narrowed to one owner
// or one status.
func (r *CompanyRepository) List(ctx context.Context, createdBy string, status models.DriveStatus) ([]models.Company, error) {
	query := fmt.Sprintf(`SELECT %s FROM companies WHERE 1=1`, companyColumns)
	args := []interface{}{}
	if createdBy != "" {
		query += fmt.Sprintf(" AND created_by = $%d", len(args)+1)
		args = append(args, createdBy)
	}
	if status != "" {
		query += fmt.Sprintf(" AND status = $%d", len(args)+1)
		args = append(args, status)
	}
	query += " ORDER BY drive_date DESC, created_at DESC"

	var companies []models.Company
	if err := r.db.SelectContext(ctx, &companies, query, args...); err != nil {
		return nil, fmt.Errorf("list drives: %w", err)
	}
	return companies, nil
}

// ListOpenForStudent returns non-terminal drives whose shortlist
// includes the student.
func (r *CompanyRepository) ListOpenForStudent(ctx context.Context, studentID string) ([]models.Company, error) {
	query := fmt.Sprintf(`SELECT %s FROM companies c
        WHERE c.status IN ($1, $2)
        AND EXISTS (SELECT 1 FROM company_shortlists cs WHERE cs.company_id = c.id AND cs.student_id = $3)
        ORDER BY c.drive_date ASC`,
		prefixColumns("c", companyColumns))
	var companies []models.Company
	if err := r.db.SelectContext(ctx, &companies, query, models.DriveUpcoming, models.DriveActive, studentID); err != nil {
		return nil, fmt.Errorf("list open drives: %w", err)
	}
	return companies, nil
}

// UpdateStatus moves a drive to a new lifecycle state. The service
// validates the transition before calling.
func (r *CompanyRepository) UpdateStatus(ctx context.Context, id string, status models.DriveStatus) error {
	const query = `UPDATE companies SET status = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, status, time.Now().UTC()); err != nil {
		return fmt.Errorf("update drive status: %w", err)
	}
	return nil
}

// ReplaceShortlist overwrites a drive's shortlist with the given
// snapshot in one transaction.
func (r *CompanyRepository) ReplaceShortlist(ctx context.Context, companyID string, entries []models.ShortlistEntry) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace shortlist: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM company_shortlists WHERE company_id = $1`, companyID); err != nil {
		return fmt.Errorf("clear shortlist: %w", err)
	}

	const query = `INSERT INTO company_shortlists (company_id, student_id, register_number, full_name,
        department, degree, cgpa, college_email, contact_number, shortlisted_date)
        VALUES (:company_id, :student_id, :register_number, :full_name,
        :department, :degree, :cgpa, :college_email, :contact_number, :shortlisted_date)`
	for i := range entries {
		if _, err := tx.NamedExecContext(ctx, query, entries[i]); err != nil {
			return fmt.Errorf("insert shortlist entry: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace shortlist: %w", err)
	}
	return nil
}

// GetShortlist returns the stored snapshot ordered by CGPA descending.
func (r *CompanyRepository) GetShortlist(ctx context.Context, companyID string) ([]models.ShortlistEntry, error) {
	const query = `SELECT company_id, student_id, register_number, full_name, department, degree, cgpa,
        college_email, contact_number, shortlisted_date
        FROM company_shortlists WHERE company_id = $1 ORDER BY cgpa DESC, register_number ASC`
	var entries []models.ShortlistEntry
	if err := r.db.SelectContext(ctx, &entries, query, companyID); err != nil {
		return nil, fmt.Errorf("get shortlist: %w", err)
	}
	return entries, nil
}

// Delete removes a drive and its shortlist.
func (r *CompanyRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM companies WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete drive: %w", err)
	}
	return nil
}
