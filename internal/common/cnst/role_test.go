package cnst

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleValid(t *testing.T) {
	for _, r := range Roles {
		assert.True(t, r.Valid(), r)
	}
	assert.False(t, Role("").Valid())
	assert.False(t, Role("superuser").Valid())
}

func TestTierPaid(t *testing.T) {
	assert.False(t, TierStarter.Paid())
	assert.True(t, TierPro.Paid())
	assert.True(t, TierEnterprise.Paid())
	assert.False(t, Tier("gold").Paid())
	assert.False(t, Tier("gold").Valid())
}
