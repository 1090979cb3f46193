package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/amoylab/tourdesk/internal/apiserver/database"
	"github.com/amoylab/tourdesk/internal/apiserver/middleware"
	"github.com/amoylab/tourdesk/internal/apiserver/service"
	jsvc "github.com/amoylab/tourdesk/internal/auth/jwt"
	"github.com/amoylab/tourdesk/internal/common/cnst"
	"github.com/amoylab/tourdesk/internal/common/config"
	"github.com/amoylab/tourdesk/internal/i18n"
	"github.com/amoylab/tourdesk/internal/mailer"
	"github.com/amoylab/tourdesk/internal/session"
	"github.com/amoylab/tourdesk/internal/template"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testPassword = "s3cret-pass"

var testNow = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func mustNewJWTService() *jsvc.Service {
	s, _ := jsvc.NewService(jsvc.Config{SecretKey: "this-is-a-very-long-secret-key-for-testing", Duration: time.Hour})
	return s
}

// outbox keeps every message handed to the mailer
type outbox struct {
	sent []*mailer.Message
}

func (o *outbox) Send(_ context.Context, msg *mailer.Message) error {
	o.sent = append(o.sent, msg)
	return nil
}

type testEnv struct {
	t      *testing.T
	router *gin.Engine
	db     database.Database
	org    *database.Organization
	mail   *outbox
	tokens *jsvc.Service
	users  map[cnst.Role]*database.User
	refs   int
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	_ = i18n.InitTranslator(filepath.Join("..", "..", "..", "configs", "i18n"))

	lg := zap.NewNop()
	db, err := database.NewDatabase(lg, &config.DatabaseConfig{Type: "sqlite", DBName: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	org := &database.Organization{Name: "Atlas Travel", Tier: string(cnst.TierPro)}
	require.NoError(t, db.CreateOrganization(ctx, org))

	renderer, err := template.NewRenderer()
	require.NoError(t, err)

	env := &testEnv{
		t:      t,
		db:     db,
		org:    org,
		mail:   &outbox{},
		tokens: mustNewJWTService(),
		users:  map[cnst.Role]*database.User{},
	}
	svc := service.New(service.Deps{
		DB:       db,
		Renderer: renderer,
		Mailer:   env.mail,
		Booking:  config.BookingConfig{BulkLimit: 3},
		Mail:     config.MailerConfig{From: "desk@atlas.test"},
		Logger:   lg,
		Now:      func() time.Time { return testNow },
	})

	hashed, err := service.HashPassword(testPassword)
	require.NoError(t, err)
	for _, role := range []cnst.Role{cnst.RoleSystemAdmin, cnst.RoleOrgOwner, cnst.RoleAgent, cnst.RoleClient} {
		u := &database.User{
			Username: string(role),
			Email:    string(role) + "@atlas.test",
			Password: hashed,
			Role:     string(role),
			OrgID:    org.ID,
			IsActive: true,
		}
		if role == cnst.RoleSystemAdmin {
			u.OrgID = 0
		}
		require.NoError(t, db.CreateUser(ctx, u))
		env.users[role] = u
	}

	sessions := session.NewManager(service.NewLoader(db), session.NewMemoryStore(lg), time.Hour, lg)
	env.router = gin.New()
	env.router.Use(middleware.Language())
	NewHandler(svc, env.tokens, sessions, lg).RegisterRoutes(env.router)
	return env
}

// token issues a token for the seeded user of role
func (e *testEnv) token(role cnst.Role) string {
	u := e.users[role]
	tok, _, err := e.tokens.GenerateToken(u.ID, u.Username, u.Role, u.OrgID)
	require.NoError(e.t, err)
	return tok
}

// do sends a JSON request as role. An empty role sends no token.
func (e *testEnv) do(method, path string, role cnst.Role, body any, headers ...string) *httptest.ResponseRecorder {
	e.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else {
			require.NoError(e.t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if role != "" {
		req.Header.Set("Authorization", "Bearer "+e.token(role))
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// decode reads a JSON response body
func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

// data returns the payload object of a success response
func data(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	body := decode(t, w)
	d, ok := body["data"].(map[string]any)
	require.True(t, ok, w.Body.String())
	return d
}

// idOf reads the numeric id of a created record
func idOf(t *testing.T, w *httptest.ResponseRecorder) uint {
	t.Helper()
	id, ok := data(t, w)["id"].(float64)
	require.True(t, ok, w.Body.String())
	return uint(id)
}

func day(d int) string {
	return time.Date(2026, 4, d, 0, 0, 0, 0, time.UTC).Format(time.RFC3339)
}

// hotel creates a hotel through the API and returns its id
func (e *testEnv) hotel() uint {
	w := e.do(http.MethodPost, "/api/hotels", cnst.RoleOrgOwner, gin.H{"name": "Sea View", "city": "Lisbon"})
	require.Equal(e.t, http.StatusCreated, w.Code, w.Body.String())
	return idOf(e.t, w)
}

// booking creates a pending booking worth 330 through the API
func (e *testEnv) booking(hotelID uint) uint {
	e.refs++
	w := e.do(http.MethodPost, "/api/bookings", cnst.RoleAgent, gin.H{
		"bookingReference": fmt.Sprintf("BK-%03d", e.refs),
		"clientName":       "Ana Silva",
		"clientEmail":      "ana@example.com",
		"hotelId":          hotelID,
		"travelStart":      day(10),
		"travelEnd":        day(14),
		"items": gin.H{
			"room_arrangement": []gin.H{{"room_type": "Double", "quantity": 1, "nights": 3, "total": "300"}},
		},
		"markupType":  "percentage",
		"markupValue": "10",
	})
	require.Equal(e.t, http.StatusCreated, w.Code, w.Body.String())
	return idOf(e.t, w)
}
