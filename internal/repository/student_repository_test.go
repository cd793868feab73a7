package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/placement-cell/placement-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

var studentRowColumns = []string{
	"principal_id", "username", "full_name", "date_of_birth",
	"degree", "department", "gender", "tutor_name", "contact_number", "college_email", "personal_email",
	"sslc", "hsc", "diploma", "father", "mother", "address",
	"semester_gpa", "cgpa", "degree_year_of_passing", "arrears", "key_skills",
	"aadhaar", "pan", "blood_group", "accommodation", "github_profile", "linkedin_profile",
	"profile_photo", "resume", "placement_status", "placed_company", "placement_date",
	"profile_completed", "created_at", "updated_at",
}

func addStudentRow(rows *sqlmock.Rows, principalID, regNo string, cgpa float64) {
	now := time.Now()
	rows.AddRow(principalID, regNo, "Student "+regNo, now,
		"B.E.", "CSE", "Female", "", "9000000000", regNo+"@college.edu", "",
		[]byte(`{}`), []byte(`{}`), []byte(`{}`), []byte(`{}`), []byte(`{}`), []byte(`{}`),
		[]byte(`[{"semester":1,"gpa":9},{"semester":2,"gpa":8}]`), cgpa, 2024, "No Backlog", "{Go,SQL}",
		"", "", "", "", "", "",
		"", "resumes/r.pdf", models.PlacementNotPlaced, "", nil,
		true, now, now)
}

func TestFilterEligibleBaseConditions(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	expected := fmt.Sprintf(`SELECT %s FROM students s JOIN principals p ON p.id = s.principal_id
        WHERE s.profile_completed = TRUE AND s.placement_status = $1 ORDER BY s.cgpa DESC, p.username ASC`, studentColumns)

	rows := sqlmock.NewRows(studentRowColumns)
	addStudentRow(rows, "s-1", "21CS001", 9.1)
	addStudentRow(rows, "s-2", "21CS002", 8.2)
	mock.ExpectQuery(regexp.QuoteMeta(expected)).
		WithArgs(models.PlacementNotPlaced).
		WillReturnRows(rows)

	students, err := repo.FilterEligible(context.Background(), models.DriveCriteria{})
	require.NoError(t, err)
	require.Len(t, students, 2)
	assert.Equal(t, "21CS001", students[0].Username)
	assert.InDelta(t, 8.5, students[0].SemesterGPA.CGPA(), 1e-9)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFilterEligibleAddsOneConjunctPerCriterion(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	expected := fmt.Sprintf(`SELECT %s FROM students s JOIN principals p ON p.id = s.principal_id
        WHERE s.profile_completed = TRUE AND s.placement_status = $1 AND s.cgpa >= $2 AND (s.sslc->>'percentage')::float8 >= $3 AND (s.hsc->>'percentage')::float8 >= $4 AND s.department = ANY($5) AND s.arrears = ANY($6) AND s.gender = ANY($7) AND s.degree_year_of_passing = ANY($8) ORDER BY s.cgpa DESC, p.username ASC`, studentColumns)

	rows := sqlmock.NewRows(studentRowColumns)
	addStudentRow(rows, "s-1", "21CS001", 9.1)
	mock.ExpectQuery(regexp.QuoteMeta(expected)).
		WithArgs(models.PlacementNotPlaced, 7.5, 80.0, 75.0, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(rows)

	students, err := repo.FilterEligible(context.Background(), models.DriveCriteria{
		MinCGPA:        7.5,
		MinSSLC:        80,
		MinHSC:         75,
		Departments:    []string{"CSE", "ECE"},
		ArrearsAllowed: []string{"No Backlog"},
		Genders:        []string{"Female"},
		Batch:          []int{2024},
	})
	require.NoError(t, err)
	assert.Len(t, students, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDriveCriteriaCarriesPercentageCutoffs(t *testing.T) {
	var criteria models.DriveCriteria
	require.NoError(t, json.Unmarshal([]byte(`{"min_cgpa":7,"min_sslc":80,"min_hsc":75}`), &criteria))
	assert.Equal(t, 7.0, criteria.MinCGPA)
	assert.Equal(t, 80.0, criteria.MinSSLC)
	assert.Equal(t, 75.0, criteria.MinHSC)
}

func TestSetPlacementClearsCompanyWhenNotPlaced(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectExec("UPDATE students SET placement_status").
		WithArgs("s-1", models.PlacementNotPlaced, "", nil, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	when := time.Now()
	err := repo.SetPlacement(context.Background(), "s-1", models.PlacementUpdate{
		PlacementStatus: models.PlacementNotPlaced,
		PlacedCompany:   "Stale Corp",
		PlacementDate:   &when,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListAppliesSearchFilter(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	rows := sqlmock.NewRows([]string{"principal_id", "username", "full_name", "department", "degree", "cgpa",
		"placement_status", "placed_company", "placement_date", "feedback_status"}).
		AddRow("s-1", "21CS001", "Anita Raj", "CSE", "B.E.", 8.5, models.PlacementPlaced, "Acme Corp", time.Now(), "Submitted")

	mock.ExpectQuery(`LEFT JOIN feedbacks f ON f\.student_id = s\.principal_id`).
		WithArgs("CSE", "%anita%").
		WillReturnRows(rows)

	students, err := repo.List(context.Background(), models.StudentFilter{Department: "CSE", Search: "Anita"})
	require.NoError(t, err)
	require.Len(t, students, 1)
	require.NotNil(t, students[0].FeedbackStatus)
	assert.Equal(t, "Submitted", *students[0].FeedbackStatus)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountByFilter(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM students s WHERE 1=1 AND s.department = $1")).
		WithArgs("CSE").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

	total, err := repo.CountByFilter(context.Background(), models.StudentFilter{Department: "CSE"})
	require.NoError(t, err)
	assert.Equal(t, 7, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}
