package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/amoylab/tourdesk/internal/apiserver/database"
	"github.com/amoylab/tourdesk/internal/booking"
	"github.com/amoylab/tourdesk/internal/common/cnst"
	"github.com/amoylab/tourdesk/internal/common/config"
	"github.com/amoylab/tourdesk/internal/mailer"
	"github.com/amoylab/tourdesk/internal/notifier"
	"github.com/amoylab/tourdesk/internal/session"
	"github.com/amoylab/tourdesk/internal/template"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testNow = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

// recordingNotifier keeps every published event
type recordingNotifier struct {
	mu     sync.Mutex
	events []*notifier.Event
	err    error
}

func (n *recordingNotifier) Watch(context.Context) (<-chan *notifier.Event, error) {
	return nil, cnst.ErrNotReceiver
}

func (n *recordingNotifier) Publish(_ context.Context, ev *notifier.Event) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, ev)
	return n.err
}

func (n *recordingNotifier) CanReceive() bool { return false }
func (n *recordingNotifier) CanSend() bool    { return true }

func (n *recordingNotifier) types() []notifier.EventType {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]notifier.EventType, 0, len(n.events))
	for _, ev := range n.events {
		out = append(out, ev.Type)
	}
	return out
}

// recordingMailer keeps every sent message
type recordingMailer struct {
	sent []*mailer.Message
	err  error
}

func (m *recordingMailer) Send(_ context.Context, msg *mailer.Message) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

// failingDB fails status updates for the listed booking ids
type failingDB struct {
	database.Database
	failStatus map[uint]bool
}

func (f *failingDB) UpdateBookingStatus(ctx context.Context, id uint, from, to string, actorID uint) error {
	if f.failStatus[id] {
		return errors.New("connection reset")
	}
	return f.Database.UpdateBookingStatus(ctx, id, from, to, actorID)
}

type fixture struct {
	svc      *Service
	db       database.Database
	org      *database.Organization
	events   *recordingNotifier
	mail     *recordingMailer
	ctx      context.Context
	sessions map[cnst.Role]*session.Session
}

func newStore(t *testing.T) (database.Database, error) {
	t.Helper()
	db, err := database.NewDatabase(zap.NewNop(), &config.DatabaseConfig{Type: "sqlite", DBName: ":memory:"})
	if err != nil {
		return nil, err
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, nil
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := newStore(t)
	require.NoError(t, err)
	return newFixtureWith(t, db)
}

func newFixtureWith(t *testing.T, db database.Database) *fixture {
	t.Helper()
	ctx := context.Background()
	org := &database.Organization{Name: "Atlas Travel", Tier: string(cnst.TierPro)}
	require.NoError(t, db.CreateOrganization(ctx, org))

	renderer, err := template.NewRenderer()
	require.NoError(t, err)

	f := &fixture{
		db:     db,
		org:    org,
		events: &recordingNotifier{},
		mail:   &recordingMailer{},
		ctx:    ctx,
	}
	f.svc = New(Deps{
		DB:       db,
		Notifier: f.events,
		Renderer: renderer,
		Mailer:   f.mail,
		Booking:  config.BookingConfig{BulkLimit: 5},
		Mail:     config.MailerConfig{From: "desk@atlas.test"},
		Logger:   zap.NewNop(),
		Now:      func() time.Time { return testNow },
	})
	f.sessions = map[cnst.Role]*session.Session{}
	for i, role := range []cnst.Role{cnst.RoleOrgOwner, cnst.RoleTourOperator, cnst.RoleAgent, cnst.RoleClient} {
		f.sessions[role] = f.session(uint(i+1), role, org)
	}
	return f
}

func (f *fixture) session(userID uint, role cnst.Role, org *database.Organization) *session.Session {
	profile := session.Profile{UserID: userID, Username: string(role), Role: string(role), OrgID: org.ID, IsActive: true}
	return session.New("sess", profile, &session.Organization{ID: org.ID, Name: org.Name, Tier: cnst.Tier(org.Tier)}, "", nil)
}

func (f *fixture) owner() *session.Session { return f.sessions[cnst.RoleOrgOwner] }

func day(s string) *time.Time {
	t, err := time.ParseInLocation("2006-01-02", s, time.UTC)
	if err != nil {
		panic(err)
	}
	return &t
}

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func (f *fixture) hotel(t *testing.T) *database.Hotel {
	t.Helper()
	h, err := f.svc.CreateHotel(f.ctx, f.owner(), HotelInput{Name: "Hotel Lisboa", City: "Lisbon"})
	require.NoError(t, err)
	return h
}

func (f *fixture) booking(t *testing.T, ref string) *BookingDetail {
	t.Helper()
	b, err := f.svc.CreateBooking(f.ctx, f.owner(), BookingInput{
		BookingReference: ref,
		ClientName:       "Ana Costa",
		ClientEmail:      "ana@example.com",
		HotelName:        "Hotel Lisboa",
		TravelStart:      day("2026-04-10"),
		TravelEnd:        day("2026-04-13"),
		Items: booking.LineItems{
			Rooms: []booking.RoomLine{{RoomType: "Double", Quantity: 1, Nights: 3, Total: money("300")}},
		},
		MarkupType:  "percentage",
		MarkupValue: money("10"),
	})
	require.NoError(t, err)
	return b
}
