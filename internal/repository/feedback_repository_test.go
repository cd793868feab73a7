package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/placement-cell/placement-api/internal/models"
)

func TestFeedbackRepositoryCreateSetsDefaults(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewFeedbackRepository(db)

	mock.ExpectExec("INSERT INTO feedbacks").
		WillReturnResult(sqlmock.NewResult(0, 1))

	feedback := &models.Feedback{
		StudentID:    "s-1",
		CompanyName:  "Acme Corp",
		JobRole:      "Graduate Engineer",
		CTC:          6.5,
		DocumentPath: "feedback/offer.pdf",
		Status:       models.FeedbackSubmitted,
	}
	err := repo.Create(context.Background(), feedback)
	require.NoError(t, err)
	assert.NotEmpty(t, feedback.ID)
	assert.False(t, feedback.SubmittedDate.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFeedbackRepositoryExistsByStudent(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewFeedbackRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM feedbacks WHERE student_id = $1 LIMIT 1")).
		WithArgs("s-1").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM feedbacks WHERE student_id = $1 LIMIT 1")).
		WithArgs("s-2").
		WillReturnError(sql.ErrNoRows)

	exists, err := repo.ExistsByStudent(context.Background(), "s-1")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByStudent(context.Background(), "s-2")
	require.NoError(t, err)
	assert.False(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFeedbackRepositoryDeleteMissingRow(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewFeedbackRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM feedbacks WHERE id = $1")).
		WithArgs("fb-missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), "fb-missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListPendingOverdueTargetsLapsedWindow(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewFeedbackRepository(db)

	rows := sqlmock.NewRows([]string{"principal_id", "username", "full_name", "college_email", "personal_email",
		"placed_company", "placement_date", "reminders_sent"}).
		AddRow("s-1", "21CS001", "Anita Raj", "a@college.edu", "", "Acme Corp", time.Now().Add(-96*time.Hour), 2)

	mock.ExpectQuery(`WHERE s\.placement_status = \$1 AND f\.id IS NULL\s+AND s\.placement_date IS NOT NULL AND s\.placement_date \+ INTERVAL '3 days' < NOW\(\)`).
		WithArgs(models.PlacementPlaced).
		WillReturnRows(rows)

	pending, err := repo.ListPendingOverdue(context.Background())
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, 2, pending[0].RemindersSent)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordReminderBumpsCounter(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewFeedbackRepository(db)

	mock.ExpectExec(`UPDATE students SET reminders_sent = reminders_sent \+ 1`).
		WithArgs("s-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.RecordReminder(context.Background(), "s-1")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
