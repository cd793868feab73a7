package service

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/placement-cell/placement-api/internal/models"
	"github.com/placement-cell/placement-api/pkg/storage"
)

type mockStudentRepo struct {
	students    map[string]*models.Student
	updateCalls int
	updateErr   error
}

func (m *mockStudentRepo) FindByPrincipalID(_ context.Context, principalID string) (*models.Student, error) {
	s, ok := m.students[principalID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *s
	return &copied, nil
}

func (m *mockStudentRepo) UpdateProfile(_ context.Context, student *models.Student) error {
	m.updateCalls++
	if m.updateErr != nil {
		return m.updateErr
	}
	m.students[student.PrincipalID] = student
	return nil
}

func (m *mockStudentRepo) SetResume(_ context.Context, principalID, path string) error {
	m.students[principalID].Resume = path
	return nil
}

func (m *mockStudentRepo) SetProfilePhoto(_ context.Context, principalID, path string) error {
	m.students[principalID].ProfilePhoto = path
	return nil
}

func completeStudent(id string) *models.Student {
	return &models.Student{
		PrincipalID:         id,
		Username:            "21CS042",
		FullName:            "Anita Raj",
		Degree:              "B.E.",
		Department:          "CSE",
		Gender:              "Female",
		TutorName:           "Dr. Rao",
		ContactNumber:       "9876543210",
		CollegeEmail:        "anita@college.edu",
		SSLC:                models.ExamRecord{Institution: "St. Mary's", Board: "State", Percentage: 92.4, YearOfPassing: 2018},
		HSC:                 models.ExamRecord{Institution: "St. Mary's", Board: "State", Percentage: 88.1, YearOfPassing: 2020},
		SemesterGPA:         models.SemesterGPAList{{Semester: 1, GPA: 9.0}, {Semester: 2, GPA: 8.0}},
		CGPA:                8.5,
		DegreeYearOfPassing: 2024,
		Arrears:             "No Backlog",
		Resume:              "resumes/anita.pdf",
		PlacementStatus:     models.PlacementNotPlaced,
		ProfileCompleted:    true,
	}
}

func TestUpdateProfileSparseMerge(t *testing.T) {
	repo := &mockStudentRepo{students: map[string]*models.Student{"p-1": completeStudent("p-1")}}
	svc := NewStudentService(repo, nil, nil, nil, nil, nil)

	percentage := 93.0
	updated, err := svc.UpdateProfile(context.Background(), "p-1", models.StudentProfileUpdate{
		SSLC: &models.ExamRecord{Percentage: percentage},
	})
	require.NoError(t, err)

	// Only the touched field changes; the rest of the SSLC group and
	// every other group survive the merge.
	assert.Equal(t, 93.0, updated.SSLC.Percentage)
	assert.Equal(t, "St. Mary's", updated.SSLC.Institution)
	assert.Equal(t, "State", updated.SSLC.Board)
	assert.Equal(t, 2018, updated.SSLC.YearOfPassing)
	assert.Equal(t, 88.1, updated.HSC.Percentage)
	assert.Equal(t, "Anita Raj", updated.FullName)
	assert.True(t, updated.ProfileCompleted)
}

func TestUpdateProfileIgnoresEmptyStrings(t *testing.T) {
	repo := &mockStudentRepo{students: map[string]*models.Student{"p-1": completeStudent("p-1")}}
	svc := NewStudentService(repo, nil, nil, nil, nil, nil)

	empty := ""
	blank := "   "
	updated, err := svc.UpdateProfile(context.Background(), "p-1", models.StudentProfileUpdate{
		TutorName:  &empty,
		Department: &blank,
	})
	require.NoError(t, err)

	// Explicit "" and whitespace-only values leave the stored fields alone.
	assert.Equal(t, "Dr. Rao", updated.TutorName)
	assert.Equal(t, "CSE", updated.Department)

	tutor := "Dr. Iyer"
	updated, err = svc.UpdateProfile(context.Background(), "p-1", models.StudentProfileUpdate{TutorName: &tutor})
	require.NoError(t, err)
	assert.Equal(t, "Dr. Iyer", updated.TutorName)
}

func TestUpdateProfileFlipsCompletedOnce(t *testing.T) {
	incomplete := completeStudent("p-2")
	incomplete.Department = ""
	incomplete.ProfileCompleted = false
	repo := &mockStudentRepo{students: map[string]*models.Student{"p-2": incomplete}}
	svc := NewStudentService(repo, nil, nil, nil, nil, nil)

	dept := "ECE"
	updated, err := svc.UpdateProfile(context.Background(), "p-2", models.StudentProfileUpdate{Department: &dept})
	require.NoError(t, err)
	assert.True(t, updated.ProfileCompleted)

	// Once flipped, later saves never turn it back off.
	name := "A. Raj"
	updated, err = svc.UpdateProfile(context.Background(), "p-2", models.StudentProfileUpdate{FullName: &name})
	require.NoError(t, err)
	assert.True(t, updated.ProfileCompleted)
}

func TestUpdateProfileRejectsBadEmail(t *testing.T) {
	repo := &mockStudentRepo{students: map[string]*models.Student{"p-1": completeStudent("p-1")}}
	svc := NewStudentService(repo, nil, nil, nil, nil, nil)

	bad := "not-an-email"
	_, err := svc.UpdateProfile(context.Background(), "p-1", models.StudentProfileUpdate{CollegeEmail: &bad})
	assert.Error(t, err)
	assert.Zero(t, repo.updateCalls)
}

func TestUpdateSemesterGPA(t *testing.T) {
	repo := &mockStudentRepo{students: map[string]*models.Student{"p-1": completeStudent("p-1")}}
	svc := NewStudentService(repo, nil, nil, nil, nil, nil)

	// Recording semester 4 appends an entry; nothing is filled in for
	// the unrecorded semester 3, and the CGPA averages only what exists.
	updated, err := svc.UpdateSemesterGPA(context.Background(), "p-1", models.SemesterGPAUpdate{Semester: 4, GPA: 9.2})
	require.NoError(t, err)
	require.Len(t, updated.SemesterGPA, 3)
	assert.Equal(t, models.SemesterGPA{Semester: 4, GPA: 9.2}, updated.SemesterGPA[2])
	assert.InDelta(t, (9.0+8.0+9.2)/3, updated.CGPA, 1e-9)

	// Correcting an existing semester keeps the length.
	updated, err = svc.UpdateSemesterGPA(context.Background(), "p-1", models.SemesterGPAUpdate{Semester: 2, GPA: 8.5})
	require.NoError(t, err)
	assert.Len(t, updated.SemesterGPA, 3)
	assert.Equal(t, 8.5, updated.SemesterGPA[1].GPA)
}

func TestUpdateSemesterGPAFirstEntry(t *testing.T) {
	student := completeStudent("p-1")
	student.SemesterGPA = nil
	student.CGPA = 0
	repo := &mockStudentRepo{students: map[string]*models.Student{"p-1": student}}
	svc := NewStudentService(repo, nil, nil, nil, nil, nil)

	updated, err := svc.UpdateSemesterGPA(context.Background(), "p-1", models.SemesterGPAUpdate{Semester: 3, GPA: 9.0})
	require.NoError(t, err)
	require.Len(t, updated.SemesterGPA, 1)
	assert.InDelta(t, 9.0, updated.CGPA, 1e-9)
}

func TestUploadResumeStoresPath(t *testing.T) {
	student := completeStudent("p-1")
	student.Resume = ""
	repo := &mockStudentRepo{students: map[string]*models.Student{"p-1": student}}

	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	svc := NewStudentService(repo, nil, nil, store, nil, nil)

	path, err := svc.UploadResume(context.Background(), "p-1", "resume.pdf", strings.NewReader("%PDF-1.4 stub"))
	require.NoError(t, err)
	assert.NotEmpty(t, path)
	assert.Equal(t, path, repo.students["p-1"].Resume)
}

func TestCGPAIsMeanOfRecordedSemesters(t *testing.T) {
	assert.Equal(t, 0.0, models.SemesterGPAList(nil).CGPA())
	assert.InDelta(t, 8.5, models.SemesterGPAList{{Semester: 1, GPA: 9.0}, {Semester: 2, GPA: 8.0}}.CGPA(), 1e-9)
	assert.InDelta(t, 7.8, models.SemesterGPAList{{Semester: 5, GPA: 7.8}}.CGPA(), 1e-9)
}

func TestSemesterGPAUpsertKeepsOrder(t *testing.T) {
	list := models.SemesterGPAList{{Semester: 1, GPA: 9.0}}
	list = list.Upsert(4, 8.2)
	list = list.Upsert(2, 8.8)
	require.Len(t, list, 3)
	assert.Equal(t, []int{1, 2, 4}, []int{list[0].Semester, list[1].Semester, list[2].Semester})
}
