package admin

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"locreg/internal/platform/chain"
	id "locreg/pkg/domain"
	dErrors "locreg/pkg/domain-errors"
)

// MaxRevocationTTL bounds how long a revoked JTI is remembered. Tokens never
// outlive it, so longer entries would only waste memory.
const MaxRevocationTTL = 24 * time.Hour

// LocCounter counts stored LOC records.
type LocCounter interface {
	Count(ctx context.Context) (int, error)
}

// OutboxCounter counts events not yet relayed.
type OutboxCounter interface {
	CountPending(ctx context.Context) (int64, error)
}

// BlockClock reads the current block height.
type BlockClock interface {
	CurrentBlock(ctx context.Context) (id.BlockNumber, error)
}

// BlockPublisher moves the block height forward.
type BlockPublisher interface {
	Publish(ctx context.Context, height id.BlockNumber) error
}

// TokenRevoker revokes an access token by JTI for ttl.
type TokenRevoker interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
}

// Service provides operator operations for monitoring and running the registry.
type Service struct {
	locs      LocCounter
	outbox    OutboxCounter
	clock     BlockClock
	publisher BlockPublisher
	revoker   TokenRevoker
	logger    *slog.Logger
	now       func() time.Time
}

type Option func(*Service)

// WithBlockPublisher enables POST /admin/chain/block.
func WithBlockPublisher(p BlockPublisher) Option {
	return func(s *Service) { s.publisher = p }
}

// WithTokenRevoker enables POST /admin/tokens/revoke.
func WithTokenRevoker(r TokenRevoker) Option {
	return func(s *Service) { s.revoker = r }
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// NewService creates a new admin service
func NewService(locs LocCounter, outbox OutboxCounter, clock BlockClock, opts ...Option) *Service {
	s := &Service{
		locs:   locs,
		outbox: outbox,
		clock:  clock,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Stats contains overall registry statistics
type Stats struct {
	TotalLocs           int
	PendingOutboxEvents int64
	CurrentBlock        id.BlockNumber
	Timestamp           time.Time
}

// GetStats returns overall registry statistics. The block height is
// reported as zero when the clock cannot be read.
func (s *Service) GetStats(ctx context.Context) (*Stats, error) {
	total, err := s.locs.Count(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to count LOCs")
	}

	pending, err := s.outbox.CountPending(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to count pending events")
	}

	block, err := s.clock.CurrentBlock(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "block clock unavailable for stats", "error", err)
		block = 0
	}

	return &Stats{
		TotalLocs:           total,
		PendingOutboxEvents: pending,
		CurrentBlock:        block,
		Timestamp:           s.now().UTC(),
	}, nil
}

// PublishBlock sets the current block height. Heights never move backwards.
// The first publish succeeds even though no height was stored yet.
func (s *Service) PublishBlock(ctx context.Context, actor string, height id.BlockNumber) error {
	if s.publisher == nil {
		return dErrors.New(dErrors.CodeUnavailable, "block clock is not writable")
	}
	current, err := s.clock.CurrentBlock(ctx)
	switch {
	case errors.Is(err, chain.ErrHeightUnset):
		current = 0
	case err != nil:
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "block clock unavailable")
	}
	if height < current {
		return dErrors.New(dErrors.CodeConflict, "block height cannot decrease")
	}
	if err := s.publisher.Publish(ctx, height); err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to publish block height")
	}
	s.logger.InfoContext(ctx, "block height published",
		"actor", actor,
		"previous", uint64(current),
		"height", uint64(height),
	)
	return nil
}

// RevokeToken revokes an access token by JTI until ttl elapses.
func (s *Service) RevokeToken(ctx context.Context, actor, jti string, ttl time.Duration) error {
	if s.revoker == nil {
		return dErrors.New(dErrors.CodeUnavailable, "token revocation is not configured")
	}
	jti = strings.TrimSpace(jti)
	if jti == "" {
		return dErrors.New(dErrors.CodeValidation, "jti is required")
	}
	if ttl <= 0 || ttl > MaxRevocationTTL {
		return dErrors.New(dErrors.CodeValidation, "ttl must be positive and at most 24h")
	}
	if err := s.revoker.Revoke(ctx, jti, ttl); err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to revoke token")
	}
	s.logger.InfoContext(ctx, "token revoked", "actor", actor, "jti", jti, "ttl", ttl.String())
	return nil
}
