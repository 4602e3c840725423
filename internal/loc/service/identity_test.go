package service

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	id "locreg/pkg/domain"
)

const otherAuthority id.AccountID = "5DAAnrj7VHTznn2AWBemMuyBwZWs6FNFjdyVXUeYum3PTXFy"

func (s *ServiceSuite) closedIdentityFor(authority, account id.AccountID) id.LocID {
	ctx := context.Background()
	locID := newLocID()
	_, err := s.service.CreateIdentityLoc(ctx, authority, locID, account)
	s.Require().NoError(err)
	s.Require().NoError(s.service.Close(ctx, authority, locID))
	return locID
}

func (s *ServiceSuite) TestHasClosedIdentityLocs() {
	ctx := context.Background()
	authorities := [2]id.AccountID{owner, otherAuthority}

	s.Run("Given no LOCs Then false", func() {
		ok, err := s.service.HasClosedIdentityLocs(ctx, "5Ew3MyB15VprZrjQVkpQFj8okmc9xLDSEdNhqMMS5cXsqxDW", authorities)
		s.Require().NoError(err)
		s.False(ok)
	})

	s.Run("Given closed identity for one authority only Then false", func() {
		account := id.AccountID("5HGjWAeFDfFCWPsjFQdVV2Msvz2XtMktvgocEZcCj68kUMaw")
		s.closedIdentityFor(owner, account)

		ok, err := s.service.HasClosedIdentityLocs(ctx, account, authorities)
		s.Require().NoError(err)
		s.False(ok)
	})

	s.Run("Given open identity for the second authority Then false", func() {
		account := id.AccountID("5CiPPseXPECbkjWCa6MnjNokrgYjMqmKndv2rSnekmSK2DjL")
		s.closedIdentityFor(owner, account)
		_, err := s.service.CreateIdentityLoc(ctx, otherAuthority, newLocID(), account)
		s.Require().NoError(err)

		ok, err := s.service.HasClosedIdentityLocs(ctx, account, authorities)
		s.Require().NoError(err)
		s.False(ok)
	})

	s.Run("Given closed transaction LOC for the second authority Then false", func() {
		account := id.AccountID("5GNJqTPyNqANBkUVMN1LPPrxXnFouWXoe2wNSmmEoLctxiZY")
		s.closedIdentityFor(owner, account)
		locID := newLocID()
		_, err := s.service.CreateTransactionLoc(ctx, otherAuthority, locID, account)
		s.Require().NoError(err)
		s.Require().NoError(s.service.Close(ctx, otherAuthority, locID))

		ok, err := s.service.HasClosedIdentityLocs(ctx, account, authorities)
		s.Require().NoError(err)
		s.False(ok)
	})

	s.Run("Given closed identities for both authorities Then true", func() {
		account := id.AccountID("5HpG9w8EBLe5XCrbczpwq5TSXvedjrBGCwqxK1iQ7qUsSWFc")
		s.closedIdentityFor(owner, account)
		s.closedIdentityFor(otherAuthority, account)

		ok, err := s.service.HasClosedIdentityLocs(ctx, account, authorities)
		s.Require().NoError(err)
		s.True(ok)
	})

	s.Run("Given both identities voided after closing Then still true", func() {
		account := id.AccountID("5FA9nQDVg267DEd8m1ZypXLBnvN7SFxYwV7ndqSYGiN9TTpu")
		first := s.closedIdentityFor(owner, account)
		second := s.closedIdentityFor(otherAuthority, account)
		s.Require().NoError(s.service.MakeVoid(ctx, owner, first))
		s.Require().NoError(s.service.MakeVoid(ctx, otherAuthority, second))

		ok, err := s.service.HasClosedIdentityLocs(ctx, account, authorities)
		s.Require().NoError(err)
		s.True(ok)
	})
}

func (s *ServiceSuite) TestHasClosedIdentityLocs_Cache() {
	ctx := context.Background()
	svc := New(s.locs, s.collections, s.clock,
		WithMetrics(s.metrics),
		WithIdentityCache(16, time.Minute),
	)
	account := id.AccountID("5GBNeWRhZc2jXu7D55rBimKYDk8PGk8itRYFTPfC8RJLKG5o")
	authorities := [2]id.AccountID{owner, otherAuthority}

	s.closedIdentityFor(owner, account)
	ok, err := svc.HasClosedIdentityLocs(ctx, account, authorities)
	s.Require().NoError(err)
	s.False(ok)
	s.Equal(0.0, testutil.ToFloat64(s.metrics.IdentityCacheHits))
	s.Equal(2.0, testutil.ToFloat64(s.metrics.IdentityCacheMiss))

	s.closedIdentityFor(otherAuthority, account)
	ok, err = svc.HasClosedIdentityLocs(ctx, account, authorities)
	s.Require().NoError(err)
	s.True(ok)
	s.Equal(1.0, testutil.ToFloat64(s.metrics.IdentityCacheHits))

	ok, err = svc.HasClosedIdentityLocs(ctx, account, authorities)
	s.Require().NoError(err)
	s.True(ok)
	s.Equal(3.0, testutil.ToFloat64(s.metrics.IdentityCacheHits))
}
