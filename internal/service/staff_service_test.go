package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/placement-cell/placement-api/internal/models"
	appErrors "github.com/placement-cell/placement-api/pkg/errors"
)

type mockStaffRepo struct {
	profiles map[string]*models.StaffProfile
}

func (m *mockStaffRepo) FindByPrincipalID(_ context.Context, principalID string) (*models.StaffProfile, error) {
	p, ok := m.profiles[principalID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *p
	return &copied, nil
}

func (m *mockStaffRepo) Update(_ context.Context, profile *models.StaffProfile) error {
	m.profiles[profile.PrincipalID] = profile
	return nil
}

type mockRosterRepo struct {
	students map[string]*models.Student
}

func (m *mockRosterRepo) List(_ context.Context, _ models.StudentFilter) ([]models.StudentSummary, error) {
	var out []models.StudentSummary
	for _, s := range m.students {
		out = append(out, models.StudentSummary{PrincipalID: s.PrincipalID, Username: s.Username})
	}
	return out, nil
}

func (m *mockRosterRepo) FindByPrincipalID(_ context.Context, principalID string) (*models.Student, error) {
	s, ok := m.students[principalID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return s, nil
}

func TestStaffUpdateProfileSparse(t *testing.T) {
	repo := &mockStaffRepo{profiles: map[string]*models.StaffProfile{
		"st-1": {PrincipalID: "st-1", Username: "STF01", FullName: "Dr. Kumar", Department: "CSE", Designation: "Professor"},
	}}
	svc := NewStaffService(repo, &mockRosterRepo{}, nil, nil)

	email := "kumar@college.edu"
	updated, err := svc.UpdateProfile(context.Background(), "st-1", models.StaffProfileUpdate{Email: &email})
	require.NoError(t, err)
	assert.Equal(t, "kumar@college.edu", updated.Email)
	assert.Equal(t, "Dr. Kumar", updated.FullName)
	assert.Equal(t, "Professor", updated.Designation)
}

func TestStaffUpdateProfileRejectsBadEmail(t *testing.T) {
	repo := &mockStaffRepo{profiles: map[string]*models.StaffProfile{
		"st-1": {PrincipalID: "st-1"},
	}}
	svc := NewStaffService(repo, &mockRosterRepo{}, nil, nil)

	bad := "not-an-email"
	_, err := svc.UpdateProfile(context.Background(), "st-1", models.StaffProfileUpdate{Email: &bad})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestStaffGetStudentNotFound(t *testing.T) {
	svc := NewStaffService(&mockStaffRepo{}, &mockRosterRepo{students: map[string]*models.Student{}}, nil, nil)

	_, err := svc.GetStudent(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
