package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/amoylab/tourdesk/internal/common/cnst"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeLoader struct {
	profiles map[uint]*Profile
	orgs     map[uint]*Organization
}

func (f *fakeLoader) LoadProfile(_ context.Context, id uint) (*Profile, error) {
	if p, ok := f.profiles[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, cnst.ErrNotFound
}

func (f *fakeLoader) LoadOrganization(_ context.Context, id uint) (*Organization, error) {
	if o, ok := f.orgs[id]; ok {
		cp := *o
		return &cp, nil
	}
	return nil, cnst.ErrNotFound
}

type brokenStore struct{ *MemoryStore }

func (brokenStore) GetTier(context.Context, string) (cnst.Tier, bool, error) {
	return "", false, errors.New("redis down")
}

func newLoader() *fakeLoader {
	return &fakeLoader{
		profiles: map[uint]*Profile{
			1: {UserID: 1, Username: "owner", Role: "org_owner", OrgID: 10},
			2: {UserID: 2, Username: "norole", OrgID: 10},
			3: {UserID: 3, Username: "orphan", Role: "agent", OrgID: 99},
		},
		orgs: map[uint]*Organization{10: {ID: 10, Name: "Acme Travel", Tier: cnst.TierStarter}},
	}
}

func TestManager_LoadAndOverrideTier(t *testing.T) {
	ctx := context.Background()
	m := NewManager(newLoader(), NewMemoryStore(zap.NewNop()), time.Hour, zap.NewNop())

	s, err := m.Load(ctx, "sid-1", 1)
	require.NoError(t, err)
	assert.Equal(t, cnst.TierStarter, s.Tier)
	assert.False(t, s.Permissions.CanViewReports)
	assert.Equal(t, "Acme Travel", s.Organization.Name)

	require.NoError(t, m.SetTier(ctx, s, cnst.TierPro))
	assert.True(t, s.Permissions.CanViewReports)

	// the override survives a reload of the same session only
	again, err := m.Load(ctx, "sid-1", 1)
	require.NoError(t, err)
	assert.Equal(t, cnst.TierPro, again.Tier)

	other, err := m.Load(ctx, "sid-2", 1)
	require.NoError(t, err)
	assert.Equal(t, cnst.TierStarter, other.Tier)

	require.NoError(t, m.End(ctx, "sid-1"))
	ended, err := m.Load(ctx, "sid-1", 1)
	require.NoError(t, err)
	assert.Equal(t, cnst.TierStarter, ended.Tier)
}

func TestManager_LoadWithoutRole(t *testing.T) {
	m := NewManager(newLoader(), NewMemoryStore(zap.NewNop()), time.Hour, zap.NewNop())
	s, err := m.Load(context.Background(), "sid", 2)
	require.NoError(t, err)
	assert.Nil(t, s.Role)
	assert.True(t, s.Permissions.CanCreateQuotes)
}

func TestManager_LoadErrors(t *testing.T) {
	m := NewManager(newLoader(), NewMemoryStore(zap.NewNop()), time.Hour, zap.NewNop())
	_, err := m.Load(context.Background(), "sid", 404)
	assert.ErrorIs(t, err, cnst.ErrNotFound)

	_, err = m.Load(context.Background(), "sid", 3)
	assert.ErrorIs(t, err, cnst.ErrNotFound)
}

func TestManager_BrokenStoreFallsBackToOrgTier(t *testing.T) {
	store := &brokenStore{MemoryStore: NewMemoryStore(zap.NewNop())}
	m := NewManager(newLoader(), store, time.Hour, zap.NewNop())
	s, err := m.Load(context.Background(), "sid", 1)
	require.NoError(t, err)
	assert.Equal(t, cnst.TierStarter, s.Tier)
}
