package service

import (
	"context"

	"github.com/amoylab/tourdesk/internal/apiserver/database"
	"github.com/amoylab/tourdesk/internal/common/cnst"
	"github.com/amoylab/tourdesk/internal/session"
)

// Loader reads session profiles and organizations from the database
type Loader struct {
	db database.Database
}

var _ session.Loader = (*Loader)(nil)

// NewLoader creates a database backed session.Loader
func NewLoader(db database.Database) *Loader {
	return &Loader{db: db}
}

// LoadProfile implements session.Loader
func (l *Loader) LoadProfile(ctx context.Context, userID uint) (*session.Profile, error) {
	u, err := l.db.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return ProfileOf(u), nil
}

// LoadOrganization implements session.Loader
func (l *Loader) LoadOrganization(ctx context.Context, orgID uint) (*session.Organization, error) {
	org, err := l.db.GetOrganization(ctx, orgID)
	if err != nil {
		return nil, err
	}
	return &session.Organization{ID: org.ID, Name: org.Name, Tier: cnst.Tier(org.Tier)}, nil
}

// ProfileOf converts a user record into a session profile
func ProfileOf(u *database.User) *session.Profile {
	return &session.Profile{
		UserID:   u.ID,
		Username: u.Username,
		Email:    u.Email,
		FullName: u.FullName,
		Role:     u.Role,
		OrgID:    u.OrgID,
		IsActive: u.IsActive,
	}
}
