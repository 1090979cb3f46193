package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	jsvc "github.com/amoylab/tourdesk/internal/auth/jwt"
	"github.com/amoylab/tourdesk/internal/common/cnst"
	"github.com/amoylab/tourdesk/internal/permission"
	"github.com/amoylab/tourdesk/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func performRequest(h http.HandlerFunc, headers map[string]string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/p", JWTAuthMiddleware(hdrSvc), func(c *gin.Context) {
		h(c.Writer, c.Request)
	})
	req := httptest.NewRequest("GET", "/p", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

var hdrSvc = func() *jsvc.Service {
	s, _ := jsvc.NewService(jsvc.Config{SecretKey: "this-is-a-very-long-secret-key-for-testing", Duration: time.Hour})
	return s
}()

func TestJWTAuthMiddleware_MissingHeader(t *testing.T) {
	w := performRequest(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) }, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuthMiddleware_BadPrefix(t *testing.T) {
	w := performRequest(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) }, map[string]string{"Authorization": "Token abc"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuthMiddleware_InvalidToken(t *testing.T) {
	w := performRequest(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) }, map[string]string{"Authorization": "Bearer invalid"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuthMiddleware_Valid(t *testing.T) {
	tok, _, err := hdrSvc.GenerateToken(7, "u", "agent", 3)
	require.NoError(t, err)
	w := performRequest(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(204) }, map[string]string{"Authorization": "Bearer " + tok})
	assert.Equal(t, http.StatusNoContent, w.Code)
}

// staticLoader serves fixed profiles
type staticLoader struct {
	profiles map[uint]*session.Profile
}

func (l staticLoader) LoadProfile(_ context.Context, id uint) (*session.Profile, error) {
	p, ok := l.profiles[id]
	if !ok {
		return nil, cnst.ErrNotFound
	}
	return p, nil
}

func (l staticLoader) LoadOrganization(_ context.Context, id uint) (*session.Organization, error) {
	return &session.Organization{ID: id, Name: "Atlas", Tier: cnst.TierStarter}, nil
}

func sessionRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	loader := staticLoader{profiles: map[uint]*session.Profile{
		1: {UserID: 1, Role: "org_owner", OrgID: 3, IsActive: true},
		2: {UserID: 2, Role: "client", OrgID: 3, IsActive: true},
		3: {UserID: 3, Role: "agent", OrgID: 3, IsActive: false},
	}}
	manager := session.NewManager(loader, session.NewMemoryStore(zap.NewNop()), time.Hour, zap.NewNop())

	r := gin.New()
	r.GET("/bookings",
		JWTAuthMiddleware(hdrSvc),
		SessionMiddleware(manager, zap.NewNop()),
		RequirePermission(permission.CreateBookings),
		func(c *gin.Context) {
			sess, ok := CurrentSession(c)
			if !ok {
				c.Status(http.StatusInternalServerError)
				return
			}
			c.JSON(http.StatusOK, gin.H{"role": sess.DisplayRole()})
		})
	return r
}

func get(r *gin.Engine, userID uint) *httptest.ResponseRecorder {
	tok, _, _ := hdrSvc.GenerateToken(userID, "u", "", 3)
	req := httptest.NewRequest(http.MethodGet, "/bookings", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSessionMiddleware(t *testing.T) {
	r := sessionRouter()

	w := get(r, 1)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.NotEmpty(t, body["role"])

	assert.Equal(t, http.StatusForbidden, get(r, 2).Code)
	assert.Equal(t, http.StatusForbidden, get(r, 3).Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, 42).Code)
}
