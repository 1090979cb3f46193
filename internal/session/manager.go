package session

import (
	"context"
	"fmt"
	"time"

	"github.com/amoylab/tourdesk/internal/common/cnst"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// Manager loads sessions and persists session-scoped tier overrides
type Manager struct {
	loader Loader
	store  Store
	ttl    time.Duration
	logger *zap.Logger
}

// NewManager creates a session manager
func NewManager(loader Loader, store Store, ttl time.Duration, logger *zap.Logger) *Manager {
	return &Manager{
		loader: loader,
		store:  store,
		ttl:    ttl,
		logger: logger.Named("session"),
	}
}

// Load builds the session of userID. The tier comes from the organization
// unless the session has an override.
func (m *Manager) Load(ctx context.Context, sessionID string, userID uint) (*Session, error) {
	ctx, span := otel.Tracer(cnst.TraceService).Start(ctx, cnst.SpanSessionLoad)
	defer span.End()
	span.SetAttributes(attribute.Int64(cnst.AttrUserID, int64(userID)))

	profile, err := m.loader.LoadProfile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	var org *Organization
	if profile.OrgID != 0 {
		org, err = m.loader.LoadOrganization(ctx, profile.OrgID)
		if err != nil {
			return nil, fmt.Errorf("failed to load organization: %w", err)
		}
	}

	override, ok, err := m.store.GetTier(ctx, sessionID)
	if err != nil {
		// a broken override store must not lock users out
		m.logger.Warn("failed to read tier override, using organization tier",
			zap.String("session_id", sessionID),
			zap.Error(err))
		ok = false
	}
	if !ok {
		override = ""
	}

	s := New(sessionID, *profile, org, override, m.logger)
	if s.Role == nil {
		m.logger.Debug("profile has no role, using agent permissions",
			zap.Uint("user_id", userID))
	}
	return s, nil
}

// SetTier applies a tier override to s and remembers it for the rest of the
// session
func (m *Manager) SetTier(ctx context.Context, s *Session, tier cnst.Tier) error {
	changed, err := s.SetTier(tier)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}
	if err := m.store.SetTier(ctx, s.ID, tier, m.ttl); err != nil {
		return err
	}
	m.logger.Info("session tier changed",
		zap.String("session_id", s.ID),
		zap.Uint("user_id", s.User.UserID),
		zap.String("tier", string(tier)))
	return nil
}

// End forgets every override of sessionID
func (m *Manager) End(ctx context.Context, sessionID string) error {
	return m.store.Delete(ctx, sessionID)
}
