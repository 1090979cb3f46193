package session

import (
	"context"
	"time"

	"github.com/amoylab/tourdesk/internal/common/cnst"
)

// Store keeps session-scoped overrides. Only the tier can be overridden; the
// organization record itself is never touched.
type Store interface {
	// GetTier returns the tier override of a session, if any
	GetTier(ctx context.Context, sessionID string) (cnst.Tier, bool, error)
	// SetTier stores a tier override that expires after ttl
	SetTier(ctx context.Context, sessionID string, tier cnst.Tier, ttl time.Duration) error
	// Delete drops every override of a session
	Delete(ctx context.Context, sessionID string) error
}

// Loader fetches the records a session is built from
type Loader interface {
	LoadProfile(ctx context.Context, userID uint) (*Profile, error)
	LoadOrganization(ctx context.Context, orgID uint) (*Organization, error)
}
