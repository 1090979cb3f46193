package session

import (
	"testing"

	"github.com/amoylab/tourdesk/internal/common/cnst"
	"github.com/amoylab/tourdesk/internal/permission"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew_DerivesRoleTierAndPermissions(t *testing.T) {
	org := &Organization{ID: 7, Name: "Blue Lagoon Tours", Tier: cnst.TierPro}
	s := New("sid", Profile{UserID: 1, Role: "tour_operator", OrgID: 7}, org, "", nil)

	require.NotNil(t, s.Role)
	assert.Equal(t, cnst.RoleTourOperator, *s.Role)
	assert.Equal(t, cnst.TierPro, s.Tier)
	assert.True(t, s.Permissions.CanManageAgents)
	assert.Equal(t, uint(7), s.OrgID())
}

func TestNew_MissingRoleUsesAgentPermissions(t *testing.T) {
	s := New("sid", Profile{UserID: 1}, nil, "", nil)

	assert.Nil(t, s.Role)
	assert.Equal(t, "", s.DisplayRole())
	assert.Equal(t, cnst.RoleAgent, s.EffectiveRole())
	assert.Equal(t, cnst.TierStarter, s.Tier)
	assert.Equal(t, permission.Resolve(nil, cnst.TierStarter), s.Permissions)
	assert.True(t, s.Can(permission.AddHotels))
	assert.False(t, s.HasRole(cnst.RoleAgent))
}

func TestNew_OverrideBeatsOrganizationTier(t *testing.T) {
	org := &Organization{ID: 1, Tier: cnst.TierStarter}
	s := New("sid", Profile{Role: "org_owner", OrgID: 1}, org, cnst.TierEnterprise, nil)
	assert.Equal(t, cnst.TierEnterprise, s.Tier)
	assert.True(t, s.Permissions.CanViewReports)
}

func TestSetTier_RecomputesOnlyOnChange(t *testing.T) {
	s := New("sid", Profile{Role: "org_owner"}, nil, cnst.TierStarter, nil)
	assert.False(t, s.Permissions.CanViewReports)
	base := s.recomputes

	changed, err := s.SetTier(cnst.TierStarter)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, base, s.recomputes)

	changed, err = s.SetTier(cnst.TierPro)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, base+1, s.recomputes)
	assert.True(t, s.Permissions.CanViewReports)

	_, err = s.SetTier(cnst.Tier("platinum"))
	assert.ErrorIs(t, err, ErrInvalidTier)
	assert.Equal(t, cnst.TierPro, s.Tier)
}

func TestSetRoleAndOrganizationAreRejectedWithWarning(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	s := New("sid", Profile{UserID: 3, Role: "agent", OrgID: 2}, nil, "", zap.New(core))

	err := s.SetRole(cnst.RoleSystemAdmin)
	assert.ErrorIs(t, err, ErrImmutableField)
	assert.Equal(t, cnst.RoleAgent, *s.Role)

	err = s.SetOrganization(99)
	assert.ErrorIs(t, err, ErrImmutableField)
	assert.Equal(t, uint(2), s.OrgID())

	assert.Equal(t, 2, logs.Len())
	assert.Equal(t, "attempt to change session role rejected", logs.All()[0].Message)
}

func TestHasRole(t *testing.T) {
	admin := New("a", Profile{Role: "system_admin"}, nil, "", nil)
	assert.True(t, admin.HasRole(cnst.RoleClient))
	assert.True(t, admin.HasRole())

	op := New("b", Profile{Role: "tour_operator"}, nil, "", nil)
	assert.True(t, op.HasRole(cnst.RoleTourOperator))
	assert.True(t, op.HasRole(cnst.RoleOrgOwner, cnst.RoleTourOperator))
	assert.False(t, op.HasRole(cnst.RoleOrgOwner))
	assert.False(t, op.HasRole())
}

func TestRequireAndOrgScope(t *testing.T) {
	agent := New("a", Profile{Role: "agent", OrgID: 4}, &Organization{ID: 4}, "", nil)
	assert.NoError(t, agent.Require(permission.CreateQuotes))
	err := agent.Require(permission.DeleteBookings)
	assert.ErrorIs(t, err, cnst.ErrForbidden)
	var perr *PermissionError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, permission.DeleteBookings, perr.Flag)
	assert.True(t, agent.CanAccessOrg(4))
	assert.False(t, agent.CanAccessOrg(5))
	assert.NoError(t, agent.RequireOrg(4))
	assert.ErrorIs(t, agent.RequireOrg(5), cnst.ErrOrgScope)
	assert.Equal(t, uint(4), agent.ScopeOrg())

	admin := New("b", Profile{Role: "system_admin", OrgID: 1}, nil, "", nil)
	assert.True(t, admin.CanAccessOrg(5))
	assert.Equal(t, uint(0), admin.ScopeOrg())
}
