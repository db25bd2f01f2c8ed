package service

import (
	"context"
	"log/slog"
	"time"

	"docshare/internal/logging"
	"docshare/internal/metrics"
)

const (
	defaultQueryTimeout = 5 * time.Second
	defaultPresignTTL   = 600 * time.Second
	defaultListLimit    = 10
	maxListLimit        = 100
)

type options struct {
	queryTimeout time.Duration
	presignTTL   time.Duration
	log          *slog.Logger
	metrics      *metrics.Metrics
	now          func() time.Time
}

// Option customizes a service at construction time.
type Option func(*options)

// WithQueryTimeout bounds every repository call.
func WithQueryTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.queryTimeout = d
		}
	}
}

// WithPresignTTL sets the lifetime used when a caller asks for a URL without one.
func WithPresignTTL(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.presignTTL = d
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithClock replaces time.Now. Tests use it to step across expiry boundaries.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{
		queryTimeout: defaultQueryTimeout,
		presignTTL:   defaultPresignTTL,
		log:          logging.Discard(),
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// query runs fn under the repository timeout.
func query[T any](ctx context.Context, timeout time.Duration, fn func(context.Context) (T, error)) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return fn(ctx)
}
