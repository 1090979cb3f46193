// Package mailer delivers voucher emails through an HTTP webhook (a mail
// relay or transactional email provider).
package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/amoylab/tourdesk/internal/common/config"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

// ErrDisabled is returned by the disabled mailer
var ErrDisabled = errors.New("mailer is disabled")

// Attachment is a file sent along with a message
type Attachment struct {
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
	Content     []byte `json:"content"`
}

// Message is one outgoing email
type Message struct {
	From        string       `json:"from"`
	To          []string     `json:"to"`
	Subject     string       `json:"subject"`
	HTML        string       `json:"html"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

// Mailer sends messages
type Mailer interface {
	Send(ctx context.Context, msg *Message) error
}

// New creates the webhook mailer, or a disabled one when cfg is not enabled
func New(logger *zap.Logger, cfg config.MailerConfig) Mailer {
	if !cfg.Enabled {
		return Disabled{}
	}
	return NewWebhook(logger, cfg, nil)
}

// Disabled rejects every message
type Disabled struct{}

// Send implements Mailer
func (Disabled) Send(context.Context, *Message) error {
	return ErrDisabled
}

// Webhook posts messages as JSON to the configured endpoint
type Webhook struct {
	logger *zap.Logger
	cfg    config.MailerConfig
	client *http.Client
}

var _ Mailer = (*Webhook)(nil)

// NewWebhook creates a webhook mailer. A nil transport uses the default one;
// either way requests are traced.
func NewWebhook(logger *zap.Logger, cfg config.MailerConfig, transport http.RoundTripper) *Webhook {
	if transport == nil {
		transport = http.DefaultTransport
	}
	return &Webhook{
		logger: logger.Named("mailer"),
		cfg:    cfg,
		client: &http.Client{
			Transport: otelhttp.NewTransport(transport),
			Timeout:   cfg.Timeout,
		},
	}
}

// Send implements Mailer
func (w *Webhook) Send(ctx context.Context, msg *Message) error {
	if msg.From == "" {
		msg.From = w.cfg.From
	}
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to encode message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build mail request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if w.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+w.cfg.Token)
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("mail webhook returned %d: %s", resp.StatusCode, bytes.TrimSpace(detail))
	}

	w.logger.Info("mail sent",
		zap.Strings("to", msg.To),
		zap.String("subject", msg.Subject))
	return nil
}
