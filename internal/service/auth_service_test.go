package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/placement-cell/placement-api/internal/models"
	appErrors "github.com/placement-cell/placement-api/pkg/errors"
)

type mockPrincipalRepo struct {
	principals map[string]*models.Principal // keyed by role+"/"+username
	byID       map[string]*models.Principal
	updated    map[string]string
	findErr    error
}

func (m *mockPrincipalRepo) FindByUsername(_ context.Context, role models.Role, username string) (*models.Principal, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	p, ok := m.principals[string(role)+"/"+username]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return p, nil
}

func (m *mockPrincipalRepo) FindByID(_ context.Context, id string) (*models.Principal, error) {
	p, ok := m.byID[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return p, nil
}

func (m *mockPrincipalRepo) UpdatePassword(_ context.Context, id, passwordHash string) error {
	if m.updated == nil {
		m.updated = make(map[string]string)
	}
	m.updated[id] = passwordHash
	if p, ok := m.byID[id]; ok {
		p.PasswordHash = passwordHash
	}
	return nil
}

func testAuthConfig() AuthConfig {
	return AuthConfig{Secret: "test-secret", Expiration: 168 * time.Hour, Issuer: "placement-api"}
}

func TestLoginWithDateOfBirth(t *testing.T) {
	dob := time.Date(2002, time.March, 14, 0, 0, 0, 0, time.UTC)
	repo := &mockPrincipalRepo{principals: map[string]*models.Principal{
		"student/21CS042": {
			ID:           "p-1",
			Role:         models.RoleStudent,
			Username:     "21CS042",
			PasswordHash: "14/03/2002",
			FullName:     "Anita Raj",
			DateOfBirth:  &dob,
		},
	}}
	svc := NewAuthService(repo, nil, nil, testAuthConfig())

	resp, err := svc.Login(context.Background(), models.RoleStudent, models.LoginRequest{
		Username: "21CS042",
		Password: " 14/03/2002 ",
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)
	assert.Equal(t, models.RoleStudent, resp.User.Role)
	assert.Equal(t, int64((168 * time.Hour).Seconds()), resp.ExpiresIn)

	claims, err := svc.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "p-1", claims.Subject)
	assert.Equal(t, models.RoleStudent, claims.Role)
}

func TestLoginAdminWithBcrypt(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret-pass"), bcrypt.MinCost)
	require.NoError(t, err)
	repo := &mockPrincipalRepo{principals: map[string]*models.Principal{
		"admin/admin": {ID: "p-9", Role: models.RoleAdmin, Username: "admin", PasswordHash: string(hash)},
	}}
	svc := NewAuthService(repo, nil, nil, testAuthConfig())

	resp, err := svc.Login(context.Background(), models.RoleAdmin, models.LoginRequest{
		Username: "admin",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, resp.User.Role)

	_, err = svc.Login(context.Background(), models.RoleAdmin, models.LoginRequest{
		Username: "admin",
		Password: "wrong",
	})
	assert.ErrorIs(t, err, appErrors.ErrInvalidCredentials)
}

func TestLoginRejectionsAreGeneric(t *testing.T) {
	dob := time.Date(2001, time.December, 1, 0, 0, 0, 0, time.UTC)
	repo := &mockPrincipalRepo{principals: map[string]*models.Principal{
		"student/21CS001": {ID: "p-2", Role: models.RoleStudent, Username: "21CS001", DateOfBirth: &dob},
	}}
	svc := NewAuthService(repo, nil, nil, testAuthConfig())

	// Unknown username and a wrong credential look the same.
	_, err := svc.Login(context.Background(), models.RoleStudent, models.LoginRequest{Username: "missing", Password: "01/12/2001"})
	assert.ErrorIs(t, err, appErrors.ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), models.RoleStudent, models.LoginRequest{Username: "21CS001", Password: "2001-12-01"})
	assert.ErrorIs(t, err, appErrors.ErrInvalidCredentials)
}

func TestValidateTokenRejectsTampered(t *testing.T) {
	dob := time.Date(2002, time.March, 14, 0, 0, 0, 0, time.UTC)
	repo := &mockPrincipalRepo{principals: map[string]*models.Principal{
		"student/21CS042": {ID: "p-1", Role: models.RoleStudent, Username: "21CS042", DateOfBirth: &dob},
	}}
	svc := NewAuthService(repo, nil, nil, testAuthConfig())
	resp, err := svc.Login(context.Background(), models.RoleStudent, models.LoginRequest{Username: "21CS042", Password: "14/03/2002"})
	require.NoError(t, err)

	other := NewAuthService(repo, nil, nil, AuthConfig{Secret: "different", Expiration: time.Hour})
	_, err = other.ValidateToken(resp.Token)
	assert.Error(t, err)

	_, err = svc.ValidateToken(resp.Token + "x")
	assert.Error(t, err)
}

func TestChangePassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("old-password"), bcrypt.MinCost)
	require.NoError(t, err)
	dob := time.Date(2002, time.January, 2, 0, 0, 0, 0, time.UTC)
	repo := &mockPrincipalRepo{byID: map[string]*models.Principal{
		"adm-1": {ID: "adm-1", Role: models.RoleAdmin, PasswordHash: string(hash)},
		"stu-1": {ID: "stu-1", Role: models.RoleStudent, PasswordHash: "02/01/2002", DateOfBirth: &dob},
	}}
	svc := NewAuthService(repo, nil, nil, testAuthConfig())

	err = svc.ChangePassword(context.Background(), "adm-1", models.ChangePasswordRequest{
		OldPassword: "old-password",
		NewPassword: "brand-new-password",
	})
	require.NoError(t, err)
	stored := repo.updated["adm-1"]
	require.NotEmpty(t, stored)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored), []byte("brand-new-password")))

	// DOB-credentialed accounts are not allowed to set a password.
	err = svc.ChangePassword(context.Background(), "stu-1", models.ChangePasswordRequest{
		OldPassword: "02/01/2002",
		NewPassword: "brand-new-password",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)

	// Wrong old password.
	err = svc.ChangePassword(context.Background(), "adm-1", models.ChangePasswordRequest{
		OldPassword: "old-password",
		NewPassword: "another-password",
	})
	assert.Error(t, err)
}
