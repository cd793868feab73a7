package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/placement-cell/placement-api/internal/models"
)

func TestPrincipalRepositoryFindByUsername(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewPrincipalRepository(db)

	dob := time.Date(2002, time.March, 14, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "role", "username", "password_hash", "full_name", "date_of_birth", "created_at", "updated_at"}).
		AddRow("p-1", "student", "21CS042", "14/03/2002", "Anita Raj", dob, time.Now(), time.Now())

	mock.ExpectQuery(`FROM principals WHERE role = \$1 AND username = \$2`).
		WithArgs(models.RoleStudent, "21CS042").
		WillReturnRows(rows)

	principal, err := repo.FindByUsername(context.Background(), models.RoleStudent, "21CS042")
	require.NoError(t, err)
	assert.Equal(t, models.RoleStudent, principal.Role)
	require.NotNil(t, principal.DateOfBirth)
	assert.Equal(t, dob, principal.DateOfBirth.UTC())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateStudentInsertsBothRows(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewPrincipalRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO principals").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO students").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	dob := time.Date(2002, time.March, 14, 0, 0, 0, 0, time.UTC)
	principal := &models.Principal{
		Role:         models.RoleStudent,
		Username:     "21CS042",
		PasswordHash: "14/03/2002",
		FullName:     "Anita Raj",
		DateOfBirth:  &dob,
	}
	err := repo.CreateStudent(context.Background(), principal, models.RegisterStudentRequest{
		RegisterNumber: "21CS042",
		FullName:       "Anita Raj",
		DateOfBirth:    dob,
		Degree:         "B.E.",
		Department:     "CSE",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, principal.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateStudentRollsBackOnVariantFailure(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewPrincipalRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO principals").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO students").
		WillReturnError(errors.New("students insert failed"))
	mock.ExpectRollback()

	err := repo.CreateStudent(context.Background(), &models.Principal{Role: models.RoleStudent, Username: "21CS042"},
		models.RegisterStudentRequest{RegisterNumber: "21CS042"})
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExistsByUsername(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewPrincipalRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM principals WHERE role = $1 AND username = $2 LIMIT 1")).
		WithArgs(models.RoleStudent, "taken").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM principals WHERE role = $1 AND username = $2 LIMIT 1")).
		WithArgs(models.RoleStudent, "free").
		WillReturnError(sql.ErrNoRows)

	taken, err := repo.ExistsByUsername(context.Background(), models.RoleStudent, "taken")
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = repo.ExistsByUsername(context.Background(), models.RoleStudent, "free")
	require.NoError(t, err)
	assert.False(t, taken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPrincipalDeleteReportsMissingRow(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewPrincipalRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM principals WHERE id = $1")).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
