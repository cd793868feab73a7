package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/placement-cell/placement-api/internal/models"
)

const studentColumns = `s.principal_id, p.username, p.full_name, p.date_of_birth,
        s.degree, s.department, s.gender, s.tutor_name, s.contact_number, s.college_email, s.personal_email,
        s.sslc, s.hsc, s.diploma, s.father, s.mother, s.address,
        s.semester_gpa, s.cgpa, s.degree_year_of_passing, s.arrears, s.key_skills,
        s.aadhaar, s.pan, s.blood_group, s.accommodation, s.github_profile, s.linkedin_profile,
        s.profile_photo, s.resume, s.placement_status, s.placed_company, s.placement_date,
        s.profile_completed, s.created_at, s.updated_at`

// StudentRepository manages student placement profiles.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// FindByPrincipalID fetches a full student profile.
func (r *StudentRepository) FindByPrincipalID(ctx context.Context, principalID string) (*models.Student, error) {
	query := fmt.Sprintf(`SELECT %s FROM students s JOIN principals p ON p.id = s.principal_id WHERE s.principal_id = $1`, studentColumns)
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, principalID); err != nil {
		return nil, err
	}
	return &student, nil
}

// UpdateProfile writes the merged profile back. The service owns the
// merge and the derived cgpa/profile_completed values; this is a full
// row write.
func (r *StudentRepository) UpdateProfile(ctx context.Context, student *models.Student) error {
	student.UpdatedAt = time.Now().UTC()
	const query = `UPDATE students SET
        degree = :degree, department = :department, gender = :gender, tutor_name = :tutor_name,
        contact_number = :contact_number, college_email = :college_email, personal_email = :personal_email,
        sslc = :sslc, hsc = :hsc, diploma = :diploma, father = :father, mother = :mother, address = :address,
        semester_gpa = :semester_gpa, cgpa = :cgpa, degree_year_of_passing = :degree_year_of_passing,
        arrears = :arrears, key_skills = :key_skills, aadhaar = :aadhaar, pan = :pan,
        blood_group = :blood_group, accommodation = :accommodation,
        github_profile = :github_profile, linkedin_profile = :linkedin_profile,
        profile_completed = :profile_completed, updated_at = :updated_at
        WHERE principal_id = :principal_id`
	if _, err := r.db.NamedExecContext(ctx, query, student); err != nil {
		return fmt.Errorf("update student profile: %w", err)
	}

	const nameQuery = `UPDATE principals SET full_name = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, nameQuery, student.PrincipalID, student.FullName, student.UpdatedAt); err != nil {
		return fmt.Errorf("update student name: %w", err)
	}
	return nil
}

// SetResume records the stored resume path.
func (r *StudentRepository) SetResume(ctx context.Context, principalID, path string) error {
	const query = `UPDATE students SET resume = $2, updated_at = $3 WHERE principal_id = $1`
	if _, err := r.db.ExecContext(ctx, query, principalID, path, time.Now().UTC()); err != nil {
		return fmt.Errorf("set resume: %w", err)
	}
	return nil
}

// SetProfilePhoto records the stored photo path.
func (r *StudentRepository) SetProfilePhoto(ctx context.Context, principalID, path string) error {
	const query = `UPDATE students SET profile_photo = $2, updated_at = $3 WHERE principal_id = $1`
	if _, err := r.db.ExecContext(ctx, query, principalID, path, time.Now().UTC()); err != nil {
		return fmt.Errorf("set profile photo: %w", err)
	}
	return nil
}

// SetPlacement updates placement status. Company and date are stored
// only for placed students and cleared otherwise.
func (r *StudentRepository) SetPlacement(ctx context.Context, principalID string, update models.PlacementUpdate) error {
	const query = `UPDATE students SET placement_status = $2, placed_company = $3, placement_date = $4, updated_at = $5
        WHERE principal_id = $1`
	company := update.PlacedCompany
	date := update.PlacementDate
	if update.PlacementStatus != models.PlacementPlaced {
		company = ""
		date = nil
	}
	if _, err := r.db.ExecContext(ctx, query, principalID, update.PlacementStatus, company, date, time.Now().UTC()); err != nil {
		return fmt.Errorf("set placement: %w", err)
	}
	return nil
}

// FilterEligible returns the students a drive's criteria admit,
// ordered by CGPA descending. Completed profiles that are not yet
// placed are the base population; each criteria dimension adds one
// conjunct, and empty dimensions add none.
func (r *StudentRepository) FilterEligible(ctx context.Context, criteria models.DriveCriteria) ([]models.Student, error) {
	conditions := []string{"s.profile_completed = TRUE", "s.placement_status = $1"}
	args := []interface{}{models.PlacementNotPlaced}

	if criteria.MinCGPA > 0 {
		conditions = append(conditions, fmt.Sprintf("s.cgpa >= $%d", len(args)+1))
		args = append(args, criteria.MinCGPA)
	}
	if criteria.MinSSLC > 0 {
		conditions = append(conditions, fmt.Sprintf("(s.sslc->>'percentage')::float8 >= $%d", len(args)+1))
		args = append(args, criteria.MinSSLC)
	}
	if criteria.MinHSC > 0 {
		conditions = append(conditions, fmt.Sprintf("(s.hsc->>'percentage')::float8 >= $%d", len(args)+1))
		args = append(args, criteria.MinHSC)
	}
	if len(criteria.Departments) > 0 {
		conditions = append(conditions, fmt.Sprintf("s.department = ANY($%d)", len(args)+1))
		args = append(args, pq.Array(criteria.Departments))
	}
	if len(criteria.ArrearsAllowed) > 0 {
		conditions = append(conditions, fmt.Sprintf("s.arrears = ANY($%d)", len(args)+1))
		args = append(args, pq.Array(criteria.ArrearsAllowed))
	}
	if len(criteria.Genders) > 0 {
		conditions = append(conditions, fmt.Sprintf("s.gender = ANY($%d)", len(args)+1))
		args = append(args, pq.Array(criteria.Genders))
	}
	if len(criteria.Batch) > 0 {
		conditions = append(conditions, fmt.Sprintf("s.degree_year_of_passing = ANY($%d)", len(args)+1))
		args = append(args, pq.Array(criteria.Batch))
	}

	query := fmt.Sprintf(`SELECT %s FROM students s JOIN principals p ON p.id = s.principal_id
        WHERE %s ORDER BY s.cgpa DESC, p.username ASC`, studentColumns, strings.Join(conditions, " AND "))

	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query, args...); err != nil {
		return nil, fmt.Errorf("filter eligible students: %w", err)
	}
	return students, nil
}

// List returns summary rows for staff and admin listings. Placed rows
// carry the student's feedback status when a feedback exists.
func (r *StudentRepository) List(ctx context.Context, filter models.StudentFilter) ([]models.StudentSummary, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}

	if filter.Department != "" {
		conditions = append(conditions, fmt.Sprintf("s.department = $%d", len(args)+1))
		args = append(args, filter.Department)
	}
	if filter.Degree != "" {
		conditions = append(conditions, fmt.Sprintf("s.degree = $%d", len(args)+1))
		args = append(args, filter.Degree)
	}
	if filter.PlacementStatus != "" {
		conditions = append(conditions, fmt.Sprintf("s.placement_status = $%d", len(args)+1))
		args = append(args, filter.PlacementStatus)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(p.full_name) LIKE $%d OR LOWER(p.username) LIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	query := fmt.Sprintf(`SELECT s.principal_id, p.username, p.full_name, s.department, s.degree, s.cgpa,
        s.placement_status, s.placed_company, s.placement_date, f.status AS feedback_status
        FROM students s
        JOIN principals p ON p.id = s.principal_id
        LEFT JOIN feedbacks f ON f.student_id = s.principal_id
        WHERE %s ORDER BY p.username ASC`, strings.Join(conditions, " AND "))

	var students []models.StudentSummary
	if err := r.db.SelectContext(ctx, &students, query, args...); err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return students, nil
}

// ListWithResumes returns students in the filter scope that have an
// uploaded resume on record.
func (r *StudentRepository) ListWithResumes(ctx context.Context, filter models.StudentFilter) ([]models.Student, error) {
	conditions := []string{"s.resume <> ''"}
	args := []interface{}{}

	if filter.Department != "" {
		conditions = append(conditions, fmt.Sprintf("s.department = $%d", len(args)+1))
		args = append(args, filter.Department)
	}
	if filter.PlacementStatus != "" {
		conditions = append(conditions, fmt.Sprintf("s.placement_status = $%d", len(args)+1))
		args = append(args, filter.PlacementStatus)
	}

	query := fmt.Sprintf(`SELECT %s FROM students s JOIN principals p ON p.id = s.principal_id
        WHERE %s ORDER BY p.username ASC`, studentColumns, strings.Join(conditions, " AND "))

	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query, args...); err != nil {
		return nil, fmt.Errorf("list students with resumes: %w", err)
	}
	return students, nil
}

// CountByFilter counts students in the filter scope. The export
// endpoints use it to distinguish empty scopes from missing files.
func (r *StudentRepository) CountByFilter(ctx context.Context, filter models.StudentFilter) (int, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}
	if filter.Department != "" {
		conditions = append(conditions, fmt.Sprintf("s.department = $%d", len(args)+1))
		args = append(args, filter.Department)
	}
	if filter.PlacementStatus != "" {
		conditions = append(conditions, fmt.Sprintf("s.placement_status = $%d", len(args)+1))
		args = append(args, filter.PlacementStatus)
	}
	query := fmt.Sprintf("SELECT COUNT(*) FROM students s WHERE %s", strings.Join(conditions, " AND "))
	var total int
	if err := r.db.GetContext(ctx, &total, query, args...); err != nil {
		return 0, fmt.Errorf("count students: %w", err)
	}
	return total, nil
}
