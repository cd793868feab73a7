package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/placement-cell/placement-api/internal/models"
	appErrors "github.com/placement-cell/placement-api/pkg/errors"
)

type mockAdminPrincipals struct {
	existing map[string]bool // role+"/"+username
	byID     map[string]*models.Principal
	created  []*models.Principal
	deleted  []string
}

func (m *mockAdminPrincipals) ExistsByUsername(_ context.Context, role models.Role, username string) (bool, error) {
	return m.existing[string(role)+"/"+username], nil
}

func (m *mockAdminPrincipals) FindByID(_ context.Context, id string) (*models.Principal, error) {
	p, ok := m.byID[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return p, nil
}

func (m *mockAdminPrincipals) CreateStudent(_ context.Context, principal *models.Principal, _ models.RegisterStudentRequest) error {
	principal.ID = "p-new"
	m.created = append(m.created, principal)
	return nil
}

func (m *mockAdminPrincipals) CreateStaff(_ context.Context, principal *models.Principal, _ models.RegisterStaffRequest) error {
	principal.ID = "p-new"
	m.created = append(m.created, principal)
	return nil
}

func (m *mockAdminPrincipals) Delete(_ context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	return nil
}

type mockAdminStudents struct {
	students   map[string]*models.Student
	placements map[string]models.PlacementUpdate
}

func (m *mockAdminStudents) List(_ context.Context, _ models.StudentFilter) ([]models.StudentSummary, error) {
	var out []models.StudentSummary
	for _, s := range m.students {
		out = append(out, models.StudentSummary{PrincipalID: s.PrincipalID, Username: s.Username})
	}
	return out, nil
}

func (m *mockAdminStudents) FindByPrincipalID(_ context.Context, principalID string) (*models.Student, error) {
	s, ok := m.students[principalID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return s, nil
}

func (m *mockAdminStudents) SetPlacement(_ context.Context, principalID string, update models.PlacementUpdate) error {
	if m.placements == nil {
		m.placements = make(map[string]models.PlacementUpdate)
	}
	m.placements[principalID] = update
	return nil
}

type mockStaffList struct{}

func (mockStaffList) List(_ context.Context) ([]models.StaffProfile, error) {
	return []models.StaffProfile{}, nil
}

type mockDashboardRepo struct {
	stats *models.DashboardStats
	calls int
}

func (m *mockDashboardRepo) Stats(_ context.Context) (*models.DashboardStats, error) {
	m.calls++
	return m.stats, nil
}

type stubCache struct {
	store   map[string][]byte
	deletes []string
}

func (s *stubCache) Get(_ context.Context, key string, dest interface{}) error {
	payload, ok := s.store[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(payload, dest)
}

func (s *stubCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	if s.store == nil {
		s.store = make(map[string][]byte)
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.store[key] = payload
	return nil
}

func (s *stubCache) Delete(_ context.Context, key string) error {
	s.deletes = append(s.deletes, key)
	delete(s.store, key)
	return nil
}

func newAdminFixture() (*AdminService, *mockAdminPrincipals, *mockAdminStudents, *mockDashboardRepo, *stubCache) {
	principals := &mockAdminPrincipals{existing: map[string]bool{}, byID: map[string]*models.Principal{}}
	students := &mockAdminStudents{students: map[string]*models.Student{}}
	dash := &mockDashboardRepo{stats: &models.DashboardStats{TotalStudents: 42, PlacedStudents: 10}}
	cache := &stubCache{}
	svc := NewAdminService(principals, students, mockStaffList{}, dash, cache, time.Minute, nil, nil)
	return svc, principals, students, dash, cache
}

func TestRegisterStudentStoresDOBCredential(t *testing.T) {
	svc, principals, _, _, _ := newAdminFixture()

	dob := time.Date(2003, time.July, 9, 0, 0, 0, 0, time.UTC)
	principal, err := svc.RegisterStudent(context.Background(), models.RegisterStudentRequest{
		RegisterNumber: "21CS042",
		FullName:       "Anita Raj",
		DateOfBirth:    dob,
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleStudent, principal.Role)
	assert.Equal(t, "09/07/2003", principal.PasswordHash)
	require.Len(t, principals.created, 1)
}

func TestRegisterStudentRejectsDuplicate(t *testing.T) {
	svc, principals, _, _, _ := newAdminFixture()
	principals.existing["student/21CS042"] = true

	_, err := svc.RegisterStudent(context.Background(), models.RegisterStudentRequest{
		RegisterNumber: "21CS042",
		FullName:       "Anita Raj",
		DateOfBirth:    time.Date(2003, time.July, 9, 0, 0, 0, 0, time.UTC),
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrDuplicate.Code, appErrors.FromError(err).Code)
}

func TestSetPlacementRequiresCompanyAndDate(t *testing.T) {
	svc, _, students, _, _ := newAdminFixture()
	students.students["s-1"] = completeStudent("s-1")

	err := svc.SetPlacement(context.Background(), "s-1", models.PlacementUpdate{
		PlacementStatus: models.PlacementPlaced,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	when := time.Now()
	err = svc.SetPlacement(context.Background(), "s-1", models.PlacementUpdate{
		PlacementStatus: models.PlacementPlaced,
		PlacedCompany:   "Acme Corp",
		PlacementDate:   &when,
	})
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", students.placements["s-1"].PlacedCompany)

	// Reverting needs no company.
	err = svc.SetPlacement(context.Background(), "s-1", models.PlacementUpdate{
		PlacementStatus: models.PlacementNotPlaced,
	})
	assert.NoError(t, err)
}

func TestDashboardUsesCache(t *testing.T) {
	svc, _, _, dash, _ := newAdminFixture()

	first, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 42, first.TotalStudents)
	assert.Equal(t, 1, dash.calls)

	// Second read is served from cache without touching the repo.
	second, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 42, second.TotalStudents)
	assert.Equal(t, 1, dash.calls)
}

func TestMutationsInvalidateDashboard(t *testing.T) {
	svc, _, students, dash, cache := newAdminFixture()
	students.students["s-1"] = completeStudent("s-1")

	_, err := svc.Dashboard(context.Background())
	require.NoError(t, err)

	when := time.Now()
	err = svc.SetPlacement(context.Background(), "s-1", models.PlacementUpdate{
		PlacementStatus: models.PlacementPlaced,
		PlacedCompany:   "Acme Corp",
		PlacementDate:   &when,
	})
	require.NoError(t, err)
	assert.Contains(t, cache.deletes, "dashboard:stats")

	_, err = svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, dash.calls)
}

func TestDeleteAccountRefusesAdmins(t *testing.T) {
	svc, principals, _, _, _ := newAdminFixture()
	principals.byID["adm-1"] = &models.Principal{ID: "adm-1", Role: models.RoleAdmin}
	principals.byID["s-1"] = &models.Principal{ID: "s-1", Role: models.RoleStudent}

	err := svc.DeleteAccount(context.Background(), "adm-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)

	err = svc.DeleteAccount(context.Background(), "s-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"s-1"}, principals.deleted)
}
