package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/placement-cell/placement-api/internal/models"
)

func TestCompanyRepositoryCreateAssignsID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCompanyRepository(db)

	mock.ExpectExec("INSERT INTO companies").
		WillReturnResult(sqlmock.NewResult(0, 1))

	company := &models.Company{
		CompanyName: "Acme Corp",
		JobRole:     "Graduate Engineer",
		DriveDate:   time.Now().Add(48 * time.Hour),
		CreatedBy:   "staff-1",
	}
	err := repo.Create(context.Background(), company)
	require.NoError(t, err)
	assert.NotEmpty(t, company.ID)
	assert.Equal(t, models.DriveUpcoming, company.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCompanyRepositoryListNarrowsByOwnerAndStatus(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCompanyRepository(db)

	rows := sqlmock.NewRows([]string{"id", "company_name", "job_role", "job_description", "ctc", "location", "criteria",
		"drive_date", "registration_deadline", "status", "created_by", "created_at", "updated_at"}).
		AddRow("drv-1", "Acme Corp", "Graduate Engineer", "", 6.5, "Chennai", []byte(`{"min_cgpa":7}`),
			time.Now(), nil, models.DriveActive, "staff-1", time.Now(), time.Now())

	mock.ExpectQuery(`FROM companies WHERE 1=1 AND created_by = \$1 AND status = \$2 ORDER BY drive_date DESC`).
		WithArgs("staff-1", models.DriveActive).
		WillReturnRows(rows)

	companies, err := repo.List(context.Background(), "staff-1", models.DriveActive)
	require.NoError(t, err)
	require.Len(t, companies, 1)
	assert.Equal(t, 7.0, companies[0].Criteria.MinCGPA)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCompanyRepositoryListOpenForStudent(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCompanyRepository(db)

	rows := sqlmock.NewRows([]string{"id", "company_name", "job_role", "job_description", "ctc", "location", "criteria",
		"drive_date", "registration_deadline", "status", "created_by", "created_at", "updated_at"}).
		AddRow("drv-1", "Acme Corp", "Graduate Engineer", "", 6.5, "", []byte(`{}`),
			time.Now(), nil, models.DriveUpcoming, "staff-1", time.Now(), time.Now())

	mock.ExpectQuery(`EXISTS \(SELECT 1 FROM company_shortlists cs WHERE cs\.company_id = c\.id AND cs\.student_id = \$3\)`).
		WithArgs(models.DriveUpcoming, models.DriveActive, "s-1").
		WillReturnRows(rows)

	companies, err := repo.ListOpenForStudent(context.Background(), "s-1")
	require.NoError(t, err)
	assert.Len(t, companies, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReplaceShortlistRunsInTransaction(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCompanyRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM company_shortlists WHERE company_id = $1")).
		WithArgs("drv-1").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("INSERT INTO company_shortlists").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO company_shortlists").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	entries := []models.ShortlistEntry{
		{CompanyID: "drv-1", StudentID: "s-1", RegisterNumber: "21CS001", FullName: "Anita Raj", CGPA: 9.1, ShortlistedDate: time.Now()},
		{CompanyID: "drv-1", StudentID: "s-2", RegisterNumber: "21CS002", FullName: "Bala K", CGPA: 8.2, ShortlistedDate: time.Now()},
	}
	err := repo.ReplaceShortlist(context.Background(), "drv-1", entries)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReplaceShortlistEmptyClearsOnly(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCompanyRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM company_shortlists WHERE company_id = $1")).
		WithArgs("drv-1").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	err := repo.ReplaceShortlist(context.Background(), "drv-1", nil)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetShortlistOrdersByCGPA(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCompanyRepository(db)

	rows := sqlmock.NewRows([]string{"company_id", "student_id", "register_number", "full_name", "department",
		"degree", "cgpa", "college_email", "contact_number", "shortlisted_date"}).
		AddRow("drv-1", "s-1", "21CS001", "Anita Raj", "CSE", "B.E.", 9.1, "a@college.edu", "9", time.Now()).
		AddRow("drv-1", "s-2", "21CS002", "Bala K", "CSE", "B.E.", 8.2, "b@college.edu", "9", time.Now())

	mock.ExpectQuery(`FROM company_shortlists WHERE company_id = \$1 ORDER BY cgpa DESC`).
		WithArgs("drv-1").
		WillReturnRows(rows)

	entries, err := repo.GetShortlist(context.Background(), "drv-1")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, 9.1, entries[0].CGPA)
	assert.NoError(t, mock.ExpectationsWereMet())
}
