package service

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"locreg/internal/loc/models"
	id "locreg/pkg/domain"
	dErrors "locreg/pkg/domain-errors"
)

// HasClosedIdentityLocs reports whether account requested a closed Identity
// LOC owned by each of the two authorities. Void status is not considered.
func (s *Service) HasClosedIdentityLocs(ctx context.Context, account id.AccountID, authorities [2]id.AccountID) (bool, error) {
	ctx, span := s.tracer.Start(ctx, "loc."+opHasClosedIdentityLocs)
	start := time.Now()

	result, err := s.hasClosedIdentityLocs(ctx, account, authorities)
	span.End(err)
	s.observe(opHasClosedIdentityLocs, start, err)
	return result, err
}

func (s *Service) hasClosedIdentityLocs(ctx context.Context, account id.AccountID, authorities [2]id.AccountID) (bool, error) {
	pending := make([]id.AccountID, 0, len(authorities))
	for _, authority := range authorities {
		hit := s.identities.has(account, authority)
		if s.metrics != nil && s.identities != nil {
			s.metrics.RecordIdentityCache(hit)
		}
		if !hit {
			pending = append(pending, authority)
		}
	}
	if len(pending) == 0 {
		return true, nil
	}

	locIDs, err := s.locs.ListByAccount(ctx, account)
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list account LOCs")
	}

	found := make(map[id.AccountID]bool, len(pending))
	for _, locID := range locIDs {
		loc, ok, err := s.lookupLoc(ctx, locID)
		if err != nil {
			return false, err
		}
		if !ok || !isClosedIdentity(loc) {
			continue
		}
		for _, authority := range pending {
			if loc.Owner == authority {
				found[authority] = true
				s.identities.add(account, authority)
			}
		}
	}

	for _, authority := range pending {
		if !found[authority] {
			return false, nil
		}
	}
	return true, nil
}

func isClosedIdentity(loc *models.LegalOfficerCase) bool {
	return loc.LocType == models.LocTypeIdentity && loc.Closed
}

// identityCache remembers (account, authority) pairs already proven to have
// a closed Identity LOC. LOCs never reopen and the predicate ignores void,
// so a positive answer never turns negative; negatives are not cached.
type identityCache struct {
	lru *expirable.LRU[string, struct{}]
}

func newIdentityCache(size int, ttl time.Duration) *identityCache {
	if size <= 0 {
		return nil
	}
	return &identityCache{lru: expirable.NewLRU[string, struct{}](size, nil, ttl)}
}

func (c *identityCache) has(account, authority id.AccountID) bool {
	if c == nil {
		return false
	}
	_, ok := c.lru.Get(identityCacheKey(account, authority))
	return ok
}

func (c *identityCache) add(account, authority id.AccountID) {
	if c == nil {
		return
	}
	c.lru.Add(identityCacheKey(account, authority), struct{}{})
}

func identityCacheKey(account, authority id.AccountID) string {
	return account.String() + "|" + authority.String()
}
