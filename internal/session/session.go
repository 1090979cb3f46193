// Package session holds the authenticated identity of one request together
// with its derived role, tier and capability set.
package session

import (
	"errors"
	"fmt"

	"github.com/amoylab/tourdesk/internal/common/cnst"
	"github.com/amoylab/tourdesk/internal/permission"

	"go.uber.org/zap"
)

var (
	// ErrImmutableField is returned when a caller tries to change the role or
	// the organization of a live session
	ErrImmutableField = errors.New("session field is not mutable")
	// ErrInvalidTier is returned for tiers outside the known plans
	ErrInvalidTier = errors.New("invalid subscription tier")
	// ErrSessionNotFound is returned by stores for unknown session ids
	ErrSessionNotFound = errors.New("session not found")
)

// Profile is the user record a session is built from
type Profile struct {
	UserID   uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Role     string `json:"role"`
	OrgID    uint   `json:"orgId"`
	IsActive bool   `json:"isActive"`
}

// Organization is the tenant a session acts for
type Organization struct {
	ID   uint      `json:"id"`
	Name string    `json:"name"`
	Tier cnst.Tier `json:"tier"`
}

// Session is passed explicitly to every operation that needs role, tier or
// capabilities. It is not safe for concurrent mutation; each request owns one.
type Session struct {
	ID           string                 `json:"id"`
	User         Profile                `json:"user"`
	Role         *cnst.Role             `json:"role"`
	Tier         cnst.Tier              `json:"tier"`
	Organization *Organization          `json:"organization"`
	Permissions  permission.Permissions `json:"permissions"`

	logger     *zap.Logger
	recomputes int
}

// New builds a session for profile and org. tier overrides the organization
// tier when it is not empty.
func New(id string, profile Profile, org *Organization, tier cnst.Tier, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Session{
		ID:           id,
		User:         profile,
		Organization: org,
		logger:       logger,
	}
	s.Role = permission.ParseRole(profile.Role)

	if tier == "" && org != nil {
		tier = org.Tier
	}
	s.Tier = permission.ParseTier(string(tier))
	s.recompute()
	return s
}

func (s *Session) recompute() {
	s.Permissions = permission.Resolve(s.Role, s.Tier)
	s.recomputes++
}

// SetTier changes the session tier and recomputes permissions when it differs
// from the current one. It reports whether anything changed.
func (s *Session) SetTier(t cnst.Tier) (bool, error) {
	if !t.Valid() {
		return false, fmt.Errorf("%w: %q", ErrInvalidTier, t)
	}
	if t == s.Tier {
		return false, nil
	}
	s.Tier = t
	s.recompute()
	return true, nil
}

// SetRole is rejected: roles are assigned on the user record only
func (s *Session) SetRole(r cnst.Role) error {
	s.logger.Warn("attempt to change session role rejected",
		zap.String("session_id", s.ID),
		zap.Uint("user_id", s.User.UserID),
		zap.String("requested_role", string(r)))
	return fmt.Errorf("%w: role", ErrImmutableField)
}

// SetOrganization is rejected: organization membership comes from the profile
func (s *Session) SetOrganization(orgID uint) error {
	s.logger.Warn("attempt to change session organization rejected",
		zap.String("session_id", s.ID),
		zap.Uint("user_id", s.User.UserID),
		zap.Uint("requested_org_id", orgID))
	return fmt.Errorf("%w: organization", ErrImmutableField)
}

// EffectiveRole is the role used for decisions; agent when none is assigned
func (s *Session) EffectiveRole() cnst.Role {
	if s.Role == nil {
		return cnst.RoleAgent
	}
	return *s.Role
}

// DisplayRole is the assigned role, or "" when the profile has none
func (s *Session) DisplayRole() string {
	if s.Role == nil {
		return ""
	}
	return string(*s.Role)
}

// IsSystemAdmin reports whether the session belongs to a system admin
func (s *Session) IsSystemAdmin() bool {
	return s.Role != nil && *s.Role == cnst.RoleSystemAdmin
}

// HasRole passes for system admins and otherwise requires the session role to
// be one of roles
func (s *Session) HasRole(roles ...cnst.Role) bool {
	if s.IsSystemAdmin() {
		return true
	}
	if s.Role == nil {
		return false
	}
	for _, r := range roles {
		if *s.Role == r {
			return true
		}
	}
	return false
}

// Can reports whether the capability flag is granted
func (s *Session) Can(f permission.Flag) bool {
	return s.Permissions.Has(f)
}

// PermissionError names the capability a session was missing. It matches
// cnst.ErrForbidden with errors.Is.
type PermissionError struct {
	Flag permission.Flag
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("%s: missing %s", cnst.ErrForbidden, e.Flag)
}

func (e *PermissionError) Unwrap() error {
	return cnst.ErrForbidden
}

// Require returns a *PermissionError when f is not granted
func (s *Session) Require(f permission.Flag) error {
	if !s.Can(f) {
		return &PermissionError{Flag: f}
	}
	return nil
}

// RequireOrg returns cnst.ErrOrgScope when records of orgID are not visible
// to the session
func (s *Session) RequireOrg(orgID uint) error {
	if !s.CanAccessOrg(orgID) {
		return fmt.Errorf("%w: organization %d", cnst.ErrOrgScope, orgID)
	}
	return nil
}

// OrgID is the organization every mutation of this session is scoped to
func (s *Session) OrgID() uint {
	if s.Organization != nil {
		return s.Organization.ID
	}
	return s.User.OrgID
}

// CanAccessOrg reports whether records of orgID are visible to the session
func (s *Session) CanAccessOrg(orgID uint) bool {
	return s.IsSystemAdmin() || orgID == s.OrgID()
}

// ScopeOrg returns the organization filter for list queries. Zero means all
// organizations and is only returned for system admins.
func (s *Session) ScopeOrg() uint {
	if s.IsSystemAdmin() {
		return 0
	}
	return s.OrgID()
}
