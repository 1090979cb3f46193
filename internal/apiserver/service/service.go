// Package service implements the apiserver use cases. Every operation takes
// the caller's *session.Session explicitly and checks capabilities and
// organization scope before touching the store.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/amoylab/tourdesk/internal/apiserver/database"
	"github.com/amoylab/tourdesk/internal/common/cnst"
	"github.com/amoylab/tourdesk/internal/common/config"
	"github.com/amoylab/tourdesk/internal/mailer"
	"github.com/amoylab/tourdesk/internal/notifier"
	"github.com/amoylab/tourdesk/internal/template"
	"github.com/amoylab/tourdesk/pkg/metrics"
	"github.com/amoylab/tourdesk/pkg/trace"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var (
	ErrRoomTypeHotelMismatch = errors.New("room type does not belong to hotel")
	ErrBulkEmpty             = errors.New("no ids given")
	ErrBulkTooLarge          = errors.New("too many ids in one request")
	ErrInvalidCredentials    = errors.New("invalid username or password")
	ErrCredentialsRequired   = errors.New("username and password are required")
	ErrUserDisabled          = errors.New("user is disabled")
	ErrMissingOrg            = errors.New("organization is required")
	ErrInvalidRole           = errors.New("invalid role")
	ErrNoRecipient           = errors.New("no recipient for voucher")
	ErrDocumentRender        = errors.New("failed to render document")
)

// Invalidator drops cached session data after user or organization changes
type Invalidator interface {
	InvalidateProfile(ctx context.Context, userID uint) error
	InvalidateOrganization(ctx context.Context, orgID uint) error
}

// Deps are the collaborators of the Service. Only DB is required.
type Deps struct {
	DB       database.Database
	Notifier notifier.Notifier
	Metrics  *metrics.Metrics
	Renderer *template.Renderer
	Mailer   mailer.Mailer
	Cache    Invalidator
	Booking  config.BookingConfig
	Mail     config.MailerConfig
	Logger   *zap.Logger
	Now      func() time.Time
}

// Service implements every apiserver use case
type Service struct {
	db       database.Database
	notifier notifier.Notifier
	metrics  *metrics.Metrics
	renderer *template.Renderer
	mailer   mailer.Mailer
	cache    Invalidator
	cfg      config.BookingConfig
	mail     config.MailerConfig
	logger   *zap.Logger
	now      func() time.Time
}

// New creates the service
func New(d Deps) *Service {
	s := &Service{
		db:       d.DB,
		notifier: d.Notifier,
		metrics:  d.Metrics,
		renderer: d.Renderer,
		mailer:   d.Mailer,
		cache:    d.Cache,
		cfg:      d.Booking,
		mail:     d.Mail,
		logger:   d.Logger,
		now:      d.Now,
	}
	if s.notifier == nil {
		s.notifier = notifier.NoopNotifier{}
	}
	if s.mailer == nil {
		s.mailer = mailer.Disabled{}
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	s.logger = s.logger.Named("service")
	if s.now == nil {
		s.now = time.Now
	}
	if s.cfg.BulkLimit <= 0 {
		s.cfg.BulkLimit = 200
	}
	if s.cfg.ReferencePrefix == "" {
		s.cfg.ReferencePrefix = "BK"
	}
	if s.cfg.VoucherPrefix == "" {
		s.cfg.VoucherPrefix = "VC"
	}
	if s.mail.Subject == "" {
		s.mail.Subject = "Your travel voucher {{ .Voucher.Reference }}"
	}
	if s.cfg.DefaultCurrency == "" {
		s.cfg.DefaultCurrency = "USD"
	}
	return s
}

// publish delivers an event. Failures are logged and counted, never returned:
// the write the event describes has already happened.
func (s *Service) publish(ctx context.Context, ev *notifier.Event) {
	sc := trace.Tracer(cnst.TraceNotifier).Start(ctx, cnst.SpanNotifierPublish).
		WithAttrs(attribute.String(cnst.AttrEventType, string(ev.Type)))
	defer sc.End()

	err := s.notifier.Publish(sc.Ctx, ev)
	s.metrics.EventPublished(string(ev.Type), err)
	if err != nil {
		_ = sc.Fail(err)
		s.logger.Warn("failed to publish event",
			zap.String("type", string(ev.Type)),
			zap.Uint("booking_id", ev.BookingID),
			zap.Error(err))
	}
}

func (s *Service) invalidateProfile(ctx context.Context, userID uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateProfile(ctx, userID); err != nil {
		s.logger.Warn("failed to invalidate cached profile", zap.Uint("user_id", userID), zap.Error(err))
	}
}

func (s *Service) invalidateOrganization(ctx context.Context, orgID uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateOrganization(ctx, orgID); err != nil {
		s.logger.Warn("failed to invalidate cached organization", zap.Uint("org_id", orgID), zap.Error(err))
	}
}
