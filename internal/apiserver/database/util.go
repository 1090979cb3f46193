package database

import (
	"context"
	"errors"

	"github.com/amoylab/tourdesk/internal/common/cnst"
)

// DefaultOrganizationName is created by InitDefaultOrganization
const DefaultOrganizationName = "default"

// InitDefaultOrganization creates the default organization if it doesn't exist
func InitDefaultOrganization(ctx context.Context, db Database) (*Organization, error) {
	org, err := db.GetOrganizationByName(ctx, DefaultOrganizationName)
	if err == nil {
		return org, nil
	}
	if !errors.Is(err, cnst.ErrNotFound) {
		return nil, err
	}

	org = &Organization{Name: DefaultOrganizationName, Tier: string(cnst.TierStarter)}
	if err := db.CreateOrganization(ctx, org); err != nil {
		return nil, err
	}
	return org, nil
}

// InitSuperAdmin creates the platform administrator if the username is free.
// password must already be hashed.
func InitSuperAdmin(ctx context.Context, db Database, username, hashedPassword, email string) (*User, bool, error) {
	user, err := db.GetUserByUsername(ctx, username)
	if err == nil {
		return user, false, nil
	}
	if !errors.Is(err, cnst.ErrNotFound) {
		return nil, false, err
	}

	user = &User{
		Username: username,
		Email:    email,
		FullName: "System Administrator",
		Password: hashedPassword,
		Role:     string(cnst.RoleSystemAdmin),
		IsActive: true,
	}
	if err := db.CreateUser(ctx, user); err != nil {
		return nil, false, err
	}
	return user, true, nil
}
