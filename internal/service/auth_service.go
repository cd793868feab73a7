package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/placement-cell/placement-api/internal/models"
	appErrors "github.com/placement-cell/placement-api/pkg/errors"
)

type authPrincipalRepository interface {
	FindByUsername(ctx context.Context, role models.Role, username string) (*models.Principal, error)
	FindByID(ctx context.Context, id string) (*models.Principal, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}

// AuthConfig defines token issuance settings.
type AuthConfig struct {
	Secret     string
	Expiration time.Duration
	Issuer     string
}

// AuthService authenticates principals and issues tokens. Students
// and staff authenticate with their date of birth; admins with a
// bcrypt password. The stored hash decides which mode applies: bcrypt
// hashes start with "$2".
type AuthService struct {
	repo      authPrincipalRepository
	validator *validator.Validate
	logger    *zap.Logger
	config    AuthConfig
}

// NewAuthService constructs an AuthService.
func NewAuthService(repo authPrincipalRepository, validate *validator.Validate, logger *zap.Logger, config AuthConfig) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &AuthService{repo: repo, validator: validate, logger: logger, config: config}
}

// Login authenticates a principal of the given role and returns a
// signed token. Unknown usernames and bad credentials produce the
// same generic error.
func (s *AuthService) Login(ctx context.Context, role models.Role, req models.LoginRequest) (*models.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload")
	}
	if !role.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown role")
	}

	principal, err := s.repo.FindByUsername(ctx, role, strings.TrimSpace(req.Username))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrInvalidCredentials
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch account")
	}

	if !s.verifyCredential(principal, req.Password) {
		return nil, appErrors.ErrInvalidCredentials
	}

	now := time.Now().UTC()
	expiry := now.Add(s.config.Expiration)
	claims := models.Claims{
		Role: principal.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   principal.ID,
			Issuer:    s.config.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiry),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.config.Secret))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign token")
	}

	s.logger.Info("login", zap.String("role", string(principal.Role)), zap.String("username", principal.Username))
	return &models.LoginResponse{
		Token:     token,
		ExpiresIn: int64(s.config.Expiration.Seconds()),
		IssuedAt:  now,
		User: models.UserInfo{
			ID:       principal.ID,
			Role:     principal.Role,
			Username: principal.Username,
			FullName: principal.FullName,
		},
	}, nil
}

// verifyCredential dispatches on the stored hash format. Accounts with
// a bcrypt hash compare against it; all others expect the principal's
// date of birth typed as DD/MM/YYYY. Surrounding whitespace in the
// typed credential is ignored.
func (s *AuthService) verifyCredential(principal *models.Principal, password string) bool {
	supplied := strings.TrimSpace(password)
	if strings.HasPrefix(principal.PasswordHash, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(principal.PasswordHash), []byte(supplied)) == nil
	}
	if principal.DateOfBirth == nil {
		return false
	}
	return supplied == principal.DateOfBirth.Format("02/01/2006")
}

// ValidateToken parses and verifies a signed token, returning its
// claims.
func (s *AuthService) ValidateToken(tokenString string) (*models.Claims, error) {
	claims := &models.Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, appErrors.Clone(appErrors.ErrUnauthorized, "unexpected signing method")
		}
		return []byte(s.config.Secret), nil
	})
	if err != nil || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired token")
	}
	if !claims.Role.Valid() {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}
	return claims, nil
}

// ChangePassword rotates an admin's bcrypt credential after checking
// the old one. DOB-credentialed accounts cannot set passwords.
func (s *AuthService) ChangePassword(ctx context.Context, principalID string, req models.ChangePasswordRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid password payload")
	}
	principal, err := s.repo.FindByID(ctx, principalID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.ErrNotFound
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch account")
	}
	if !strings.HasPrefix(principal.PasswordHash, "$2") {
		return appErrors.Clone(appErrors.ErrForbidden, "account does not use a password credential")
	}
	if bcrypt.CompareHashAndPassword([]byte(principal.PasswordHash), []byte(req.OldPassword)) != nil {
		return appErrors.Clone(appErrors.ErrInvalidCredentials, "old password does not match")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}
	if err := s.repo.UpdatePassword(ctx, principal.ID, string(hash)); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update password")
	}
	s.logger.Info("password changed", zap.String("principal_id", principal.ID))
	return nil
}
