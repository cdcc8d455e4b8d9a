package telemetry

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/getsentry/sentry-go"
)

// Reporter forwards unexpected failures to an error tracker.
type Reporter interface {
	CaptureException(err error)
	CaptureMessage(msg string)
}

// LogReporter writes reports to the default logger.
type LogReporter struct{}

// CaptureException logs err at error level.
func (LogReporter) CaptureException(err error) {
	slog.Error("captured exception", "error", err)
}

// CaptureMessage logs msg at warn level.
func (LogReporter) CaptureMessage(msg string) {
	slog.Warn("captured message", "message", msg)
}

// SentryReporter sends reports to Sentry.
type SentryReporter struct {
	hub *sentry.Hub
}

// SentryOptions configures NewSentryReporter.
type SentryOptions struct {
	DSN         string
	Environment string
	Release     string
}

// NewSentryReporter creates a reporter backed by its own Sentry hub.
func NewSentryReporter(opts SentryOptions) (*SentryReporter, error) {
	client, err := sentry.NewClient(sentry.ClientOptions{
		Dsn:         opts.DSN,
		Environment: opts.Environment,
		Release:     opts.Release,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create sentry client: %w", err)
	}
	return &SentryReporter{hub: sentry.NewHub(client, sentry.NewScope())}, nil
}

// CaptureException sends err to Sentry.
func (r *SentryReporter) CaptureException(err error) {
	r.hub.CaptureException(err)
}

// CaptureMessage sends msg to Sentry.
func (r *SentryReporter) CaptureMessage(msg string) {
	r.hub.CaptureMessage(msg)
}

// Flush waits for buffered events to be sent.
func (r *SentryReporter) Flush(timeout time.Duration) bool {
	return r.hub.Flush(timeout)
}

// New returns a Sentry reporter when dsn is set, otherwise a LogReporter.
func New(opts SentryOptions) (Reporter, error) {
	if opts.DSN == "" {
		slog.Info("sentry disabled, reporting to logs")
		return LogReporter{}, nil
	}
	r, err := NewSentryReporter(opts)
	if err != nil {
		return nil, err
	}
	slog.Info("sentry enabled", "environment", opts.Environment)
	return r, nil
}
