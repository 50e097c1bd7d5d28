// Package remote resolves references to records owned by sibling services.
package remote

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ecommerce/backend/internal/application/enrichment"
	"github.com/ecommerce/backend/internal/domain/shared"
	"github.com/ecommerce/backend/internal/infrastructure/telemetry"
	"github.com/goccy/go-json"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// maxResponseSize caps the body read from a remote service (1MB)
const maxResponseSize = 1 << 20

// DefaultTimeout bounds a single remote lookup
const DefaultTimeout = 5 * time.Second

// Config holds resolver settings
type Config struct {
	Timeout        time.Duration
	MaxConcurrency int
}

// Resolver performs read-by-id lookups over HTTP. It is safe for concurrent use.
type Resolver struct {
	locator    Locator
	httpClient *http.Client
	timeout    time.Duration
	metrics    *telemetry.RemoteLookupMetrics
	logger     *zap.Logger
}

// ResolverOption configures a Resolver
type ResolverOption func(*Resolver)

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(c *http.Client) ResolverOption {
	return func(r *Resolver) {
		if c != nil {
			r.httpClient = c
		}
	}
}

// WithMetrics records lookup counts and durations
func WithMetrics(m *telemetry.RemoteLookupMetrics) ResolverOption {
	return func(r *Resolver) {
		r.metrics = m
	}
}

// WithResolverLogger sets the logger
func WithResolverLogger(logger *zap.Logger) ResolverOption {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewResolver creates a resolver that asks locator for the base address of a
// service on every call.
func NewResolver(locator Locator, cfg Config, opts ...ResolverOption) *Resolver {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	idle := cfg.MaxConcurrency
	if idle <= 0 {
		idle = enrichment.DefaultConcurrency
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.MaxIdleConnsPerHost = idle * 2

	r := &Resolver{
		locator:    locator,
		httpClient: &http.Client{Transport: transport},
		timeout:    timeout,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve fetches {base}/{resource}/{id} and decodes the JSON object into out.
func (r *Resolver) Resolve(ctx context.Context, target enrichment.RemoteTarget, id string, out any) error {
	if strings.TrimSpace(id) == "" {
		return shared.NewValidationError("id", "remote lookup requires an id")
	}

	ctx, span := telemetry.StartSpan(ctx, "remote.resolve",
		telemetry.WithSpanKind(trace.SpanKindClient),
		telemetry.WithAttribute("remote.service", target.Service),
		telemetry.WithAttribute("remote.resource", target.Resource),
		telemetry.WithAttribute("remote.id", id),
	)
	defer span.End()

	start := time.Now()
	var err error
	telemetry.WithProfilingLabels(ctx,
		telemetry.RegionLabels("remote_lookup", map[string]string{"remote_service": target.Service}),
		func(ctx context.Context) { err = r.resolve(ctx, target, id, out) })
	r.metrics.Record(ctx, target.Service, outcome(err), time.Since(start))
	if err != nil {
		telemetry.RecordError(span, err)
		r.logger.Debug("remote lookup failed",
			zap.String("service", target.Service),
			zap.String("id", id),
			zap.Error(err),
		)
		return err
	}
	telemetry.SetOK(span)
	return nil
}

func (r *Resolver) resolve(ctx context.Context, target enrichment.RemoteTarget, id string, out any) error {
	fail := func(kind *shared.DomainError, cause error) error {
		return shared.NewRemoteError(kind, target.Service, id, cause)
	}

	base, err := r.locator.Locate(ctx, target.Service)
	if err != nil {
		return fail(shared.ErrRemoteUnavailable, err)
	}
	endpoint := strings.TrimRight(base, "/") + "/" + strings.Trim(target.Resource, "/") + "/" + url.PathEscape(id)

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fail(shared.ErrRemoteUnavailable, fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return fail(shared.ErrRemoteUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fail(shared.ErrRemoteUnavailable, fmt.Errorf("read body: %w", err))
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fail(shared.ErrRemoteRecordMissing, fmt.Errorf("%s returned 404", endpoint))
	case resp.StatusCode >= 500,
		resp.StatusCode == http.StatusTooManyRequests,
		resp.StatusCode == http.StatusRequestTimeout:
		return fail(shared.ErrRemoteUnavailable, fmt.Errorf("%s returned %d", endpoint, resp.StatusCode))
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return fail(shared.ErrRemoteContractViolation, fmt.Errorf("%s returned %d", endpoint, resp.StatusCode))
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return fail(shared.ErrRemoteContractViolation, errors.New("empty body"))
	}
	if err := json.Unmarshal(trimmed, out); err != nil {
		return fail(shared.ErrRemoteContractViolation, fmt.Errorf("decode body: %w", err))
	}
	return nil
}

func outcome(err error) string {
	switch {
	case err == nil:
		return telemetry.OutcomeOK
	case errors.Is(err, shared.ErrRemoteRecordMissing):
		return telemetry.OutcomeMissing
	case errors.Is(err, shared.ErrRemoteContractViolation):
		return telemetry.OutcomeContract
	default:
		return telemetry.OutcomeUnavailable
	}
}
