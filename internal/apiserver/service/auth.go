package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/amoylab/tourdesk/internal/apiserver/database"
	"github.com/amoylab/tourdesk/internal/auth/jwt"
	"github.com/amoylab/tourdesk/internal/common/cnst"
	"github.com/amoylab/tourdesk/internal/common/config"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// LoginResult is returned by a successful Login
type LoginResult struct {
	Token  string         `json:"token"`
	User   *database.User `json:"user"`
	Claims *jwt.Claims    `json:"-"`
}

// Login checks the credentials and issues a token. Unknown users and wrong
// passwords produce the same error.
func (s *Service) Login(ctx context.Context, tokens *jwt.Service, username, password string) (*LoginResult, error) {
	if username == "" || password == "" {
		return nil, ErrCredentialsRequired
	}
	user, err := s.db.GetUserByUsername(ctx, username)
	if errors.Is(err, cnst.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		s.logger.Info("login rejected", zap.String("username", username))
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrUserDisabled
	}

	token, claims, err := tokens.GenerateToken(user.ID, user.Username, user.Role, user.OrgID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &LoginResult{Token: token, User: user, Claims: claims}, nil
}

// HashPassword hashes a password with bcrypt
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// SeedResult reports what Seed created
type SeedResult struct {
	Organization *database.Organization
	Admin        *database.User
	AdminCreated bool
}

// Seed creates the default organization and the super admin account when
// they are missing
func Seed(ctx context.Context, db database.Database, admin config.SuperAdminConfig) (*SeedResult, error) {
	org, err := database.InitDefaultOrganization(ctx, db)
	if err != nil {
		return nil, fmt.Errorf("failed to create default organization: %w", err)
	}
	if admin.Username == "" || admin.Password == "" {
		return &SeedResult{Organization: org}, nil
	}

	hashed, err := HashPassword(admin.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user, created, err := database.InitSuperAdmin(ctx, db, admin.Username, hashed, admin.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to create super admin: %w", err)
	}
	return &SeedResult{Organization: org, Admin: user, AdminCreated: created}, nil
}
