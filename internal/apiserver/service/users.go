package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/amoylab/tourdesk/internal/apiserver/database"
	"github.com/amoylab/tourdesk/internal/common/cnst"
	"github.com/amoylab/tourdesk/internal/permission"
	"github.com/amoylab/tourdesk/internal/session"

	"go.uber.org/zap"
)

// CreateOrganization creates a tenant. Only platform administrators may.
func (s *Service) CreateOrganization(ctx context.Context, sess *session.Session, name string, tier cnst.Tier) (*database.Organization, error) {
	if err := sess.Require(permission.AccessAdminPanel); err != nil {
		return nil, err
	}
	if tier == "" {
		tier = cnst.TierStarter
	}
	if !tier.Valid() {
		return nil, fmt.Errorf("%w: %q", session.ErrInvalidTier, tier)
	}
	org := &database.Organization{Name: strings.TrimSpace(name), Tier: string(tier)}
	if org.Name == "" {
		return nil, ErrMissingOrg
	}
	if err := s.db.CreateOrganization(ctx, org); err != nil {
		return nil, err
	}
	s.logger.Info("organization created",
		zap.Uint("org_id", org.ID),
		zap.String("tier", org.Tier),
		zap.Uint("actor_id", sess.User.UserID))
	return org, nil
}

// ListOrganizations lists every tenant
func (s *Service) ListOrganizations(ctx context.Context, sess *session.Session) ([]*database.Organization, error) {
	if err := sess.Require(permission.AccessAdminPanel); err != nil {
		return nil, err
	}
	return s.db.ListOrganizations(ctx)
}

// SetOrganizationTier changes the persisted subscription tier of a tenant.
// Session-scoped overrides are handled by session.Manager instead.
func (s *Service) SetOrganizationTier(ctx context.Context, sess *session.Session, orgID uint, tier cnst.Tier) error {
	if err := sess.Require(permission.AccessAdminPanel); err != nil {
		return err
	}
	if !tier.Valid() {
		return fmt.Errorf("%w: %q", session.ErrInvalidTier, tier)
	}
	if err := s.db.UpdateOrganizationTier(ctx, orgID, string(tier)); err != nil {
		return err
	}
	s.invalidateOrganization(ctx, orgID)
	return nil
}

// UserInput creates a user
type UserInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Role     string `json:"role"`
	OrgID    uint   `json:"orgId"`
	IsActive *bool  `json:"isActive"`
}

// UserUpdate changes a user. Empty and nil fields are left unchanged.
type UserUpdate struct {
	Password string  `json:"password"`
	Email    string  `json:"email"`
	FullName string  `json:"fullName"`
	Role     *string `json:"role"`
	IsActive *bool   `json:"isActive"`
}

// requireUserAdmin checks that sess may manage users of role r
func requireUserAdmin(sess *session.Session, r cnst.Role) error {
	switch r {
	case cnst.RoleSystemAdmin:
		if !sess.IsSystemAdmin() {
			return &session.PermissionError{Flag: permission.AccessAdminPanel}
		}
		return nil
	case cnst.RoleAgent:
		return sess.Require(permission.ManageAgents)
	default:
		return sess.Require(permission.ManageUsers)
	}
}

// CreateUser adds a user. Non administrators always create users in their own
// organization.
func (s *Service) CreateUser(ctx context.Context, sess *session.Session, in UserInput) (*database.User, error) {
	role := cnst.Role(in.Role)
	if !role.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRole, in.Role)
	}
	if err := requireUserAdmin(sess, role); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Username) == "" || in.Password == "" {
		return nil, ErrCredentialsRequired
	}

	orgID := sess.OrgID()
	if sess.IsSystemAdmin() {
		orgID = in.OrgID
	}
	if role == cnst.RoleSystemAdmin {
		orgID = 0
	} else if orgID == 0 {
		return nil, ErrMissingOrg
	} else if _, err := s.db.GetOrganization(ctx, orgID); err != nil {
		return nil, err
	}

	hashed, err := HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user := &database.User{
		Username: strings.TrimSpace(in.Username),
		Email:    in.Email,
		FullName: in.FullName,
		Password: hashed,
		Role:     string(role),
		OrgID:    orgID,
		IsActive: in.IsActive == nil || *in.IsActive,
	}
	if err := s.db.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info("user created",
		zap.Uint("user_id", user.ID),
		zap.String("role", user.Role),
		zap.Uint("org_id", orgID),
		zap.Uint("actor_id", sess.User.UserID))
	return user, nil
}

// ListUsers lists the users visible to the session
func (s *Service) ListUsers(ctx context.Context, sess *session.Session) ([]*database.User, error) {
	if !sess.Can(permission.ManageUsers) && !sess.Can(permission.ManageAgents) {
		return nil, &session.PermissionError{Flag: permission.ManageUsers}
	}
	return s.db.ListUsers(ctx, sess.ScopeOrg())
}

// UpdateUser changes profile fields, role, activation or password of a user
func (s *Service) UpdateUser(ctx context.Context, sess *session.Session, id uint, in UserUpdate) (*database.User, error) {
	user, err := s.db.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := sess.RequireOrg(user.OrgID); err != nil {
		return nil, err
	}
	if err := requireUserAdmin(sess, cnst.Role(user.Role)); err != nil {
		return nil, err
	}

	if in.Role != nil && *in.Role != user.Role {
		role := cnst.Role(*in.Role)
		if !role.Valid() {
			return nil, fmt.Errorf("%w: %q", ErrInvalidRole, *in.Role)
		}
		if err := requireUserAdmin(sess, role); err != nil {
			return nil, err
		}
		user.Role = string(role)
	}
	if in.Email != "" {
		user.Email = in.Email
	}
	if in.FullName != "" {
		user.FullName = in.FullName
	}
	if in.IsActive != nil {
		user.IsActive = *in.IsActive
	}
	if in.Password != "" {
		hashed, err := HashPassword(in.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.Password = hashed
	}

	if err := s.db.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	s.invalidateProfile(ctx, user.ID)
	return user, nil
}
