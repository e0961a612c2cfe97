// Package service implements the registry state machine: listing, repricing,
// delisting, purchase settlement, and the admin switches around them.
//
// Every mutating operation serializes on one mutex, giving the total order
// the registry promises: racing lists for one name produce exactly one
// winner, racing mints produce one sale. The settlement transfer runs inside
// that critical section, strictly after state mutation.
package service

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"namehaus/internal/gate"
	"namehaus/internal/registry/cache"
	registrymetrics "namehaus/internal/registry/metrics"
	"namehaus/internal/registry/store/ownership"
	"namehaus/internal/registry/store/record"
	"namehaus/internal/roles"
	"namehaus/internal/treasury"
	"namehaus/pkg/domain"
	dErrors "namehaus/pkg/domain-errors"
	"namehaus/pkg/events"
	"namehaus/pkg/requestcontext"
)

// Deps are the collaborators the service mutates. All are required.
type Deps struct {
	Records    record.Store
	Owners     ownership.Store
	Roles      *roles.Service
	Gate       *gate.Gate
	Settlement *treasury.Ledger
	// Owner is the only identity allowed to call Withdraw.
	Owner domain.Identity
	Log   events.Appender
}

// Service orchestrates the registry.
type Service struct {
	mu sync.Mutex

	records    record.Store
	owners     ownership.Store
	roles      *roles.Service
	gate       *gate.Gate
	settlement *treasury.Ledger
	forwarder  treasury.Forwarder
	owner      domain.Identity
	log        events.Appender

	baseMu  sync.RWMutex
	baseURI string

	logger  *slog.Logger
	metrics *registrymetrics.Metrics
	cache   *cache.Cache
	tracer  trace.Tracer
}

type serviceConfig struct {
	logger    *slog.Logger
	metrics   *registrymetrics.Metrics
	cache     *cache.Cache
	forwarder treasury.Forwarder
	baseURI   string
}

// Option customizes optional service collaborators.
type Option func(*serviceConfig)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *serviceConfig) { c.logger = logger }
}

// WithMetrics enables prometheus instrumentation.
func WithMetrics(m *registrymetrics.Metrics) Option {
	return func(c *serviceConfig) { c.metrics = m }
}

// WithResolveCache enables the redis-backed metadata URI cache.
func WithResolveCache(c2 *cache.Cache) Option {
	return func(c *serviceConfig) { c.cache = c2 }
}

// WithForwarder overrides the settlement forwarder (defaults to the ledger).
func WithForwarder(f treasury.Forwarder) Option {
	return func(c *serviceConfig) { c.forwarder = f }
}

// WithBaseURI sets the initial metadata base URI.
func WithBaseURI(uri string) Option {
	return func(c *serviceConfig) { c.baseURI = uri }
}

// New constructs the registry service.
func New(deps Deps, opts ...Option) *Service {
	cfg := &serviceConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}
	forwarder := cfg.forwarder
	if forwarder == nil {
		forwarder = deps.Settlement
	}
	return &Service{
		records:    deps.Records,
		owners:     deps.Owners,
		roles:      deps.Roles,
		gate:       deps.Gate,
		settlement: deps.Settlement,
		forwarder:  forwarder,
		owner:      deps.Owner,
		log:        deps.Log,
		baseURI:    cfg.baseURI,
		logger:     logger,
		metrics:    cfg.metrics,
		cache:      cfg.cache,
		tracer:     otel.Tracer("namehaus/registry"),
	}
}

// requireUnpaused is the first check of every pause-gated operation; it takes
// precedence over authorization and input validation.
func (s *Service) requireUnpaused() error {
	if s.gate.Paused() {
		return dErrors.New(dErrors.CodeUnavailable, "registry paused")
	}
	return nil
}

// caller pulls the authenticated identity out of the context.
func (s *Service) caller(ctx context.Context) (domain.Identity, error) {
	caller := requestcontext.Caller(ctx)
	if caller.IsZero() {
		return "", dErrors.New(dErrors.CodeUnauthorized, "caller identity missing")
	}
	return caller, nil
}

// emit appends an event after a successful operation. Event log failures are
// logged, never propagated: the state change already committed.
func (s *Service) emit(ctx context.Context, event events.Event) {
	event.ID = uuid.NewString()
	event.Timestamp = requestcontext.Now(ctx)
	event.RequestID = requestcontext.RequestID(ctx)
	event.Client = requestcontext.ClientName(ctx)
	if err := s.log.Append(ctx, event); err != nil {
		s.logger.ErrorContext(ctx, "failed to append event",
			"event", event.Name,
			"record_id", event.RecordID,
			"error", err,
		)
	}
}
