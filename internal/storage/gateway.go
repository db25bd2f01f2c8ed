package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"docshare/internal/logging"
	"docshare/internal/metrics"
)

const (
	defaultOperationTimeout = 30 * time.Second
	defaultReadTimeout      = 10 * time.Minute
	defaultMaxPresignTTL    = 600 * time.Second
)

// GatewayOptions configures the policy applied around a backend.
type GatewayOptions struct {
	// OperationTimeout bounds Put and PresignGet.
	OperationTimeout time.Duration
	// ReadTimeout bounds a Get from open until the reader is closed, so it
	// must cover streaming the largest expected object to a slow client.
	ReadTimeout time.Duration
	// MaxPresignTTL is the upper bound accepted by PresignGet.
	MaxPresignTTL time.Duration
	Logger        *slog.Logger
	Metrics       *metrics.Metrics
}

type gateway struct {
	backend Storage
	opts    GatewayOptions
	log     *slog.Logger
	tracer  trace.Tracer
}

// NewGateway wraps backend with timeouts, TTL bounds, error classification and tracing.
func NewGateway(backend Storage, opts GatewayOptions) Gateway {
	if opts.OperationTimeout <= 0 {
		opts.OperationTimeout = defaultOperationTimeout
	}
	if opts.ReadTimeout <= 0 {
		opts.ReadTimeout = defaultReadTimeout
	}
	if opts.MaxPresignTTL <= 0 {
		opts.MaxPresignTTL = defaultMaxPresignTTL
	}
	log := opts.Logger
	if log == nil {
		log = logging.Discard()
	}
	return &gateway{
		backend: backend,
		opts:    opts,
		log:     log.With("component", "storage"),
		tracer:  otel.Tracer("docshare/storage"),
	}
}

func (g *gateway) Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error) {
	ctx, span := g.tracer.Start(ctx, "storage.Put", trace.WithAttributes(
		attribute.String("storage.key", key),
		attribute.Int64("storage.size", opt.Size),
	))
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, g.opts.OperationTimeout)
	defer cancel()

	info, err := g.backend.Put(ctx, key, r, opt)
	if err != nil {
		return ObjectInfo{}, g.fail(span, "put", key, err)
	}
	return info, nil
}

func (g *gateway) Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error) {
	ctx, span := g.tracer.Start(ctx, "storage.Get", trace.WithAttributes(attribute.String("storage.key", key)))
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, g.opts.ReadTimeout)
	rc, info, err := g.backend.Get(ctx, key)
	if err != nil {
		cancel()
		return nil, ObjectInfo{}, g.fail(span, "get", key, err)
	}
	return &cancelOnClose{ReadCloser: rc, cancel: cancel}, info, nil
}

func (g *gateway) PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error) {
	if expiry <= 0 || expiry > g.opts.MaxPresignTTL {
		return "", fmt.Errorf("%w: %s (max %s)", ErrInvalidTTL, expiry, g.opts.MaxPresignTTL)
	}

	ctx, span := g.tracer.Start(ctx, "storage.PresignGet", trace.WithAttributes(
		attribute.String("storage.key", key),
		attribute.Int64("storage.ttl_seconds", int64(expiry/time.Second)),
	))
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, g.opts.OperationTimeout)
	defer cancel()

	u, err := g.backend.PresignGet(ctx, key, expiry)
	if err != nil {
		return "", g.fail(span, "presign", key, err)
	}
	return u, nil
}

// ReportOrphan logs a blob that no metadata row points to. The object is
// left in place; reconciliation happens out of band.
func (g *gateway) ReportOrphan(ctx context.Context, key string, cause error) {
	g.opts.Metrics.OrphanedObject()
	g.log.WarnContext(ctx, "orphaned_object",
		"event", "orphaned_object",
		"storage_key", key,
		"error_message", errString(cause),
	)
}

// fail classifies a backend error. Anything that is not a definite
// not-found is treated as a transient outage.
func (g *gateway) fail(span trace.Span, op, key string, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, op+" failed")

	if errors.Is(err, ErrObjectNotFound) {
		return err
	}
	g.log.Error("storage_operation_failed",
		"event", "storage_"+op+"_failed",
		"storage_key", key,
		"error_message", err.Error(),
	)
	if errors.Is(err, ErrUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %s %s: %v", ErrUnavailable, op, key, err)
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (c *cancelOnClose) Close() error {
	defer c.cancel()
	return c.ReadCloser.Close()
}
