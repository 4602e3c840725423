package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	locmetrics "locreg/internal/loc/metrics"
	"locreg/internal/loc/models"
	"locreg/internal/platform/tracer"
	"locreg/internal/sentinel"
	id "locreg/pkg/domain"
	dErrors "locreg/pkg/domain-errors"
)

// LocStore persists LOC records and the two lookup indexes.
// FindByID returns sentinel.ErrNotFound for unknown ids; Insert returns
// sentinel.ErrDuplicateKey when the id is taken.
type LocStore interface {
	FindByID(ctx context.Context, locID id.LocID) (*models.LegalOfficerCase, error)
	Exists(ctx context.Context, locID id.LocID) (bool, error)
	Insert(ctx context.Context, locID id.LocID, loc *models.LegalOfficerCase) error
	Update(ctx context.Context, locID id.LocID, loc *models.LegalOfficerCase) error
	LinkAccount(ctx context.Context, account id.AccountID, locID id.LocID) error
	LinkIdentityLoc(ctx context.Context, identityLoc id.LocID, locID id.LocID) error
	ListByAccount(ctx context.Context, account id.AccountID) ([]id.LocID, error)
	ListByIdentityLoc(ctx context.Context, identityLoc id.LocID) ([]id.LocID, error)
}

// CollectionStore persists collection items and per-collection size counters.
// InsertItem increments the counter in the same write; an absent counter reads as 0.
type CollectionStore interface {
	ItemExists(ctx context.Context, locID id.LocID, itemID id.CollectionItemID) (bool, error)
	FindItem(ctx context.Context, locID id.LocID, itemID id.CollectionItemID) (*models.CollectionItem, error)
	InsertItem(ctx context.Context, locID id.LocID, itemID id.CollectionItemID, item *models.CollectionItem) error
	Size(ctx context.Context, locID id.LocID) (uint32, error)
}

// BlockClock supplies the current block height.
type BlockClock interface {
	CurrentBlock(ctx context.Context) (id.BlockNumber, error)
}

// Service owns every LOC state transition and collection item insertion.
type Service struct {
	locs        LocStore
	collections CollectionStore
	clock       BlockClock
	tx          TxRunner
	events      EventSink
	creators    CreatorPolicy
	identities  *identityCache
	limits      models.Limits
	logger      *slog.Logger
	metrics     *locmetrics.Metrics
	tracer      tracer.Tracer
	now         func() time.Time
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *locmetrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithTracer(t tracer.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

// WithLimits overrides models.DefaultLimits. Callers validate limits at startup.
func WithLimits(limits models.Limits) Option {
	return func(s *Service) {
		s.limits = limits
	}
}

// WithTxRunner replaces the in-memory sharded runner, e.g. with a Postgres
// transaction runner.
func WithTxRunner(runner TxRunner) Option {
	return func(s *Service) {
		s.tx = runner
	}
}

// WithEventSink records lifecycle events inside the operation's transaction.
func WithEventSink(sink EventSink) Option {
	return func(s *Service) {
		s.events = sink
	}
}

func WithCreatorPolicy(policy CreatorPolicy) Option {
	return func(s *Service) {
		s.creators = policy
	}
}

// WithIdentityCache caches positive identity-LOC answers. size <= 0 disables it.
func WithIdentityCache(size int, ttl time.Duration) Option {
	return func(s *Service) {
		s.identities = newIdentityCache(size, ttl)
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func New(locs LocStore, collections CollectionStore, clock BlockClock, opts ...Option) *Service {
	s := &Service{
		locs:        locs,
		collections: collections,
		clock:       clock,
		limits:      models.DefaultLimits(),
		creators:    AllowAll{},
		tracer:      tracer.Noop(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.tx == nil {
		s.tx = NewShardedTx(s.metrics)
	}
	return s
}

// run executes fn inside a transaction holding every key, and records the
// outcome on the span and the operation metrics.
func (s *Service) run(ctx context.Context, op string, keys []id.LocID, fn func(ctx context.Context) error) error {
	start := time.Now()
	lockKeys := lockKeysFor(keys...)
	ctx, span := s.tracer.Start(ctx, "loc."+op, tracer.AttrLockKeys.StringSlice(lockKeys))
	err := s.tx.RunInTx(ctx, lockKeys, fn)
	if reason := dErrors.ReasonOf(err); reason != "" {
		span.SetAttributes(tracer.AttrReason.String(reason))
	}
	span.End(err)
	s.observe(op, start, err)
	return err
}

// reject records a rule failure detected before any store access.
func (s *Service) reject(op string, rule error) error {
	s.observe(op, time.Now(), rule)
	return rule
}

func (s *Service) observe(op string, start time.Time, err error) {
	if s.metrics == nil {
		return
	}
	switch {
	case err == nil:
		s.metrics.ObserveOperation(op, locmetrics.OutcomeOK, start)
	case dErrors.ReasonOf(err) != "":
		s.metrics.ObserveOperation(op, locmetrics.OutcomeRejected, start)
		s.metrics.IncrementRejection(op, dErrors.ReasonOf(err))
	default:
		s.metrics.ObserveOperation(op, locmetrics.OutcomeError, start)
	}
}

// findLoc loads a LOC, mapping a missing record to the given rule.
func (s *Service) findLoc(ctx context.Context, locID id.LocID, notFound *models.RuleError) (*models.LegalOfficerCase, error) {
	loc, err := s.locs.FindByID(ctx, locID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, notFound.Domain()
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load LOC")
	}
	return loc, nil
}

// lookupLoc loads a LOC that may legitimately be absent.
func (s *Service) lookupLoc(ctx context.Context, locID id.LocID) (*models.LegalOfficerCase, bool, error) {
	loc, err := s.locs.FindByID(ctx, locID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, false, nil
		}
		return nil, false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load LOC")
	}
	return loc, true, nil
}

func (s *Service) updateLoc(ctx context.Context, locID id.LocID, loc *models.LegalOfficerCase) error {
	if err := s.locs.Update(ctx, locID, loc); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update LOC")
	}
	return nil
}

func requireCaller(caller id.AccountID) error {
	if caller.IsNil() {
		return dErrors.New(dErrors.CodeUnauthorized, "caller account required")
	}
	return nil
}

func requireLocID(locID id.LocID) error {
	if locID.IsNil() {
		return dErrors.New(dErrors.CodeBadRequest, "LOC ID required")
	}
	return nil
}
