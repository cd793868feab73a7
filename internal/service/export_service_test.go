package service

import (
	"archive/zip"
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/placement-cell/placement-api/internal/models"
	appErrors "github.com/placement-cell/placement-api/pkg/errors"
	"github.com/placement-cell/placement-api/pkg/export"
	"github.com/placement-cell/placement-api/pkg/storage"
)

type mockExportStudents struct {
	summaries []models.StudentSummary
	resumed   []models.Student
	count     int
}

func (m *mockExportStudents) List(_ context.Context, _ models.StudentFilter) ([]models.StudentSummary, error) {
	return m.summaries, nil
}

func (m *mockExportStudents) ListWithResumes(_ context.Context, _ models.StudentFilter) ([]models.Student, error) {
	return m.resumed, nil
}

func (m *mockExportStudents) CountByFilter(_ context.Context, _ models.StudentFilter) (int, error) {
	return m.count, nil
}

func TestArchiveEntryName(t *testing.T) {
	assert.Equal(t, "Anita_Raj_21CS042.pdf", archiveEntryName("Anita Raj", "21CS042"))
	assert.Equal(t, "J_R_Kumar_21CS001.pdf", archiveEntryName("J. R. Kumar", "21CS001"))
	assert.Equal(t, "student_21CS007.pdf", archiveEntryName("   ", "21CS007"))
	assert.Equal(t, "O_Brien_21CS009.pdf", archiveEntryName("O'Brien", "21CS009"))
}

func TestStreamResumeArchive(t *testing.T) {
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	path1, err := store.Save(storage.PurposeResume, "a.pdf", strings.NewReader("resume one"))
	require.NoError(t, err)
	path2, err := store.Save(storage.PurposeResume, "b.pdf", strings.NewReader("resume two"))
	require.NoError(t, err)

	repo := &mockExportStudents{
		count: 3,
		resumed: []models.Student{
			{PrincipalID: "s-1", Username: "21CS001", FullName: "Anita Raj", Resume: path1},
			{PrincipalID: "s-2", Username: "21CS002", FullName: "Bala K", Resume: path2},
			{PrincipalID: "s-3", Username: "21CS003", FullName: "Gone Missing", Resume: "resumes/deleted.pdf"},
		},
	}
	svc := NewExportService(repo, store, nil, nil, nil)

	var buf bytes.Buffer
	err = svc.StreamResumeArchive(context.Background(), models.StudentFilter{}, &buf)
	require.NoError(t, err)

	archive, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	require.Len(t, archive.File, 2)
	assert.Equal(t, "Anita_Raj_21CS001.pdf", archive.File[0].Name)
	assert.Equal(t, "Bala_K_21CS002.pdf", archive.File[1].Name)

	reader, err := archive.File[0].Open()
	require.NoError(t, err)
	defer reader.Close()
	var content bytes.Buffer
	_, err = content.ReadFrom(reader)
	require.NoError(t, err)
	assert.Equal(t, "resume one", content.String())
}

func TestStreamResumeArchiveNoRecords(t *testing.T) {
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	svc := NewExportService(&mockExportStudents{count: 0}, store, nil, nil, nil)

	var buf bytes.Buffer
	err = svc.StreamResumeArchive(context.Background(), models.StudentFilter{Department: "EEE"}, &buf)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNoRecords.Code, appErrors.FromError(err).Code)
}

func TestStreamResumeArchiveNoFiles(t *testing.T) {
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	repo := &mockExportStudents{
		count: 2,
		resumed: []models.Student{
			{PrincipalID: "s-1", Username: "21CS001", FullName: "Anita Raj", Resume: "resumes/gone.pdf"},
		},
	}
	svc := NewExportService(repo, store, nil, nil, nil)

	var buf bytes.Buffer
	err = svc.StreamResumeArchive(context.Background(), models.StudentFilter{}, &buf)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNoFilesFound.Code, appErrors.FromError(err).Code)
}

func TestExportStudentList(t *testing.T) {
	repo := &mockExportStudents{summaries: []models.StudentSummary{
		{Username: "21CS001", FullName: "Anita Raj", Department: "CSE", Degree: "B.E.", CGPA: 8.5, PlacementStatus: models.PlacementPlaced, PlacedCompany: "Acme Corp"},
	}}
	svc := NewExportService(repo, nil, export.NewPDFExporter(), export.NewCSVExporter(), nil)

	payload, contentType, err := svc.ExportStudentList(context.Background(), models.StudentFilter{PlacementStatus: models.PlacementPlaced}, "csv")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", contentType)
	assert.Contains(t, string(payload), "Acme Corp")

	payload, contentType, err = svc.ExportStudentList(context.Background(), models.StudentFilter{}, "pdf")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", contentType)
	assert.True(t, bytes.HasPrefix(payload, []byte("%PDF")))
}

func TestExportStudentListEmptyScope(t *testing.T) {
	svc := NewExportService(&mockExportStudents{}, nil, export.NewPDFExporter(), export.NewCSVExporter(), nil)

	_, _, err := svc.ExportStudentList(context.Background(), models.StudentFilter{}, "csv")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNoRecords.Code, appErrors.FromError(err).Code)
}
