package handler

import (
	"net/http"
	"testing"

	"github.com/amoylab/tourdesk/internal/common/cnst"
	"github.com/amoylab/tourdesk/internal/common/dto"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Username: "agent", Password: testPassword})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	d := data(t, w)
	assert.NotEmpty(t, d["token"])
	assert.EqualValues(t, 3600, d["expiresIn"])
	user := d["user"].(map[string]any)
	assert.Equal(t, "agent", user["username"])
	assert.NotContains(t, user, "password")

	claims, err := env.tokens.ValidateToken(d["token"].(string))
	require.NoError(t, err)
	assert.Equal(t, env.users[cnst.RoleAgent].ID, claims.UserID)
	assert.Equal(t, env.org.ID, claims.OrgID)
}

func TestLogin_Rejections(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Username: "agent", Password: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid username or password", decode(t, w)["error"])

	w = env.do(http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Username: "nobody", Password: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Username: "agent"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(http.MethodPost, "/api/auth/login", "", "{not json")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProtectedRoutesNeedToken(t *testing.T) {
	env := newTestEnv(t)

	for _, path := range []string{"/api/session", "/api/bookings", "/api/hotels", "/api/reports/bookings"} {
		w := env.do(http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}

func TestGetSession(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodGet, "/api/session", cnst.RoleOrgOwner, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	d := data(t, w)
	assert.Equal(t, "org_owner", d["displayRole"])

	sess := d["session"].(map[string]any)
	assert.Equal(t, string(cnst.TierPro), sess["tier"])
	perms := sess["permissions"].(map[string]any)
	assert.Equal(t, true, perms["canManageAgents"])
	assert.Equal(t, true, perms["canViewReports"])
	assert.Equal(t, false, perms["canAccessAdminPanel"])
}

func TestSetTier_RecomputesPermissionsForTheSession(t *testing.T) {
	env := newTestEnv(t)
	tok := env.token(cnst.RoleOrgOwner)
	auth := []string{"Authorization", "Bearer " + tok}

	// the same token keeps the override across requests
	w := env.do(http.MethodPut, "/api/session/tier", "", gin.H{"tier": "starter"}, auth...)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "starter", data(t, w)["tier"])

	w = env.do(http.MethodGet, "/api/reports/bookings", "", nil, auth...)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(http.MethodPut, "/api/session/tier", "", gin.H{"tier": "platinum"}, auth...)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Unknown subscription tier platinum", decode(t, w)["error"])

	// logging out drops the override
	w = env.do(http.MethodPost, "/api/auth/logout", "", nil, auth...)
	require.Equal(t, http.StatusOK, w.Code)
	w = env.do(http.MethodGet, "/api/reports/bookings", "", nil, auth...)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// other tokens never saw the override
	w = env.do(http.MethodGet, "/api/session", cnst.RoleOrgOwner, nil)
	assert.Equal(t, string(cnst.TierPro), data(t, w)["session"].(map[string]any)["tier"])
}

func TestDisabledUserIsRejected(t *testing.T) {
	env := newTestEnv(t)
	u := env.users[cnst.RoleAgent]
	u.IsActive = false
	require.NoError(t, env.db.UpdateUser(t.Context(), u))

	w := env.do(http.MethodGet, "/api/session", cnst.RoleAgent, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
