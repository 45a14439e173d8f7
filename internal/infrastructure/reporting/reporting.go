// Package reporting forwards unexpected failures to Sentry.
//
// A Reporter built without a DSN is disabled and every method is a no-op,
// so callers never need to check whether reporting is configured.
package reporting

import (
	"context"
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"
)

// Config holds Sentry client settings
type Config struct {
	DSN         string
	Environment string
	ServerName  string
	// BeforeSend can inspect or drop events before they leave the process
	BeforeSend func(event *sentry.Event, hint *sentry.EventHint) *sentry.Event
}

// Reporter captures errors on its own hub
type Reporter struct {
	hub *sentry.Hub
}

// New creates a reporter. An empty DSN yields a disabled reporter.
func New(cfg Config) (*Reporter, error) {
	if cfg.DSN == "" {
		return &Reporter{}, nil
	}

	client, err := sentry.NewClient(sentry.ClientOptions{
		Dsn:              cfg.DSN,
		Environment:      cfg.Environment,
		ServerName:       cfg.ServerName,
		AttachStacktrace: true,
		BeforeSend:       cfg.BeforeSend,
	})
	if err != nil {
		return nil, fmt.Errorf("init sentry: %w", err)
	}

	return &Reporter{hub: sentry.NewHub(client, sentry.NewScope())}, nil
}

// Disabled returns a reporter that drops everything
func Disabled() *Reporter {
	return &Reporter{}
}

// Enabled reports whether events are sent
func (r *Reporter) Enabled() bool {
	return r != nil && r.hub != nil
}

// CaptureError sends err tagged with tags. Safe for concurrent use: each
// call captures on its own clone of the hub so scopes never interleave.
func (r *Reporter) CaptureError(ctx context.Context, err error, tags map[string]string) {
	if !r.Enabled() || err == nil {
		return
	}

	hub := r.hub.Clone()
	hub.WithScope(func(scope *sentry.Scope) {
		for k, v := range tags {
			scope.SetTag(k, v)
		}
		hub.CaptureException(err)
	})
}

// Flush waits up to timeout for buffered events
func (r *Reporter) Flush(timeout time.Duration) bool {
	if !r.Enabled() {
		return true
	}
	return r.hub.Flush(timeout)
}
