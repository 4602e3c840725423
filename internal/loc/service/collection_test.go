package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"locreg/internal/loc/models"
	"locreg/internal/platform/chain"
	id "locreg/pkg/domain"
	dErrors "locreg/pkg/domain-errors"
	"locreg/pkg/platform/circuit"
)

func uploadFile(b byte) models.CollectionItemFile {
	return models.CollectionItemFile{Name: "artwork.png", ContentType: "image/png", Size: 1024, Hash: hashOf(b)}
}

func (s *ServiceSuite) TestAddCollectionItem_MaxSizeScenario() {
	ctx := context.Background()
	collection := s.createClosedCollection(ptr[uint32](1), nil, false)

	first := newItemID()
	s.Require().NoError(s.service.AddCollectionItem(ctx, requester, AddCollectionItemCommand{
		CollectionLocID: collection,
		ItemID:          first,
		Description:     "first",
	}))
	size, err := s.service.CollectionSize(ctx, collection)
	s.Require().NoError(err)
	s.Equal(uint32(1), size)

	err = s.service.AddCollectionItem(ctx, requester, AddCollectionItemCommand{
		CollectionLocID: collection,
		ItemID:          newItemID(),
		Description:     "second",
	})
	s.ErrorIs(err, models.ErrCollectionLimitsReached)

	size, err = s.service.CollectionSize(ctx, collection)
	s.Require().NoError(err)
	s.Equal(uint32(1), size)

	item, err := s.service.GetCollectionItem(ctx, collection, first)
	s.Require().NoError(err)
	s.Equal("first", item.Description)
	s.Equal(1.0, testutil.ToFloat64(s.metrics.CollectionItems))
	s.Equal(1.0, testutil.ToFloat64(s.metrics.Rejections.WithLabelValues(opAddCollectionItem, models.ErrCollectionLimitsReached.Reason())))
}

func (s *ServiceSuite) TestAddCollectionItem_BlockDeadline() {
	ctx := context.Background()
	collection := s.createClosedCollection(nil, ptr[id.BlockNumber](10), false)

	s.clock.Set(9)
	s.Require().NoError(s.service.AddCollectionItem(ctx, requester, AddCollectionItemCommand{
		CollectionLocID: collection,
		ItemID:          newItemID(),
	}))

	for _, height := range []id.BlockNumber{10, 11, 1000} {
		s.clock.Set(height)
		err := s.service.AddCollectionItem(ctx, requester, AddCollectionItemCommand{
			CollectionLocID: collection,
			ItemID:          newItemID(),
		})
		s.ErrorIs(err, models.ErrCollectionLimitsReached, "height %d", height)
	}
}

type flakyClock struct {
	height id.BlockNumber
	err    error
}

func (c *flakyClock) CurrentBlock(context.Context) (id.BlockNumber, error) {
	return c.height, c.err
}

func (s *ServiceSuite) TestAddCollectionItem_DeadlineHoldsWhenClockFailsOver() {
	ctx := context.Background()
	primary := &flakyClock{height: 1_000_000}
	fallback := chain.NewIntervalClock(0, time.Now(), 6*time.Second)
	breaker := circuit.New("chain", circuit.TripAfter(2), circuit.RecoverAfter(1))
	s.service = New(s.locs, s.collections,
		chain.NewBreakerClock(primary, fallback, breaker, slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithEventSink(s.events),
	)
	collection := s.createClosedCollection(nil, ptr[id.BlockNumber](500_000), false)

	err := s.service.AddCollectionItem(ctx, requester, AddCollectionItemCommand{CollectionLocID: collection, ItemID: newItemID()})
	s.Require().ErrorIs(err, models.ErrCollectionLimitsReached)

	primary.err = errors.New("redis down")
	for attempt := range 5 {
		err := s.service.AddCollectionItem(ctx, requester, AddCollectionItemCommand{CollectionLocID: collection, ItemID: newItemID()})
		s.Require().Error(err, "attempt %d", attempt)
		s.True(errors.Is(err, models.ErrCollectionLimitsReached) || dErrors.HasCode(err, dErrors.CodeUnavailable),
			"attempt %d: %v", attempt, err)
	}

	size, err := s.service.CollectionSize(ctx, collection)
	s.Require().NoError(err)
	s.Zero(size)
}

func (s *ServiceSuite) TestAddCollectionItem_PayloadChecks() {
	ctx := context.Background()
	collection := s.createClosedCollection(ptr[uint32](10), nil, true)

	tests := []struct {
		name     string
		cmd      AddCollectionItemCommand
		expected *models.RuleError
	}{
		{
			name:     "description too long",
			cmd:      AddCollectionItemCommand{Description: strings.Repeat("d", 4097)},
			expected: models.ErrCollectionItemTooMuchData,
		},
		{
			name:     "token type too long",
			cmd:      AddCollectionItemCommand{Token: &models.CollectionItemToken{TokenType: strings.Repeat("t", 256), TokenID: "1"}},
			expected: models.ErrCollectionItemTooMuchData,
		},
		{
			name:     "restricted delivery without token",
			cmd:      AddCollectionItemCommand{RestrictedDelivery: true, Files: []models.CollectionItemFile{uploadFile(1)}},
			expected: models.ErrMissingToken,
		},
		{
			name:     "restricted delivery without files",
			cmd:      AddCollectionItemCommand{RestrictedDelivery: true, Token: &models.CollectionItemToken{TokenType: "owner", TokenID: "0x01"}},
			expected: models.ErrMissingFiles,
		},
		{
			name:     "upload collection without files",
			cmd:      AddCollectionItemCommand{Description: "no files"},
			expected: models.ErrMustUpload,
		},
		{
			name:     "duplicate file hash",
			cmd:      AddCollectionItemCommand{Files: []models.CollectionItemFile{uploadFile(3), uploadFile(3)}},
			expected: models.ErrDuplicateFile,
		},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			tt.cmd.CollectionLocID = collection
			tt.cmd.ItemID = newItemID()
			err := s.service.AddCollectionItem(ctx, requester, tt.cmd)
			s.ErrorIs(err, tt.expected)
		})
	}

	size, err := s.service.CollectionSize(ctx, collection)
	s.Require().NoError(err)
	s.Zero(size)
}

func (s *ServiceSuite) TestAddCollectionItem_CannotUpload() {
	ctx := context.Background()
	collection := s.createClosedCollection(ptr[uint32](10), nil, false)

	err := s.service.AddCollectionItem(ctx, requester, AddCollectionItemCommand{
		CollectionLocID: collection,
		ItemID:          newItemID(),
		Files:           []models.CollectionItemFile{uploadFile(1)},
	})
	s.ErrorIs(err, models.ErrCannotUpload)
}

func (s *ServiceSuite) TestAddCollectionItem_Eligibility() {
	ctx := context.Background()

	s.Run("Given missing collection Then WrongCollectionLoc", func() {
		err := s.service.AddCollectionItem(ctx, requester, AddCollectionItemCommand{CollectionLocID: newLocID(), ItemID: newItemID()})
		s.ErrorIs(err, models.ErrWrongCollectionLoc)
	})

	s.Run("Given open collection Then WrongCollectionLoc", func() {
		locID := newLocID()
		_, err := s.service.CreateCollectionLoc(ctx, owner, CreateCollectionCommand{LocID: locID, Requester: requester, MaxSize: ptr[uint32](5)})
		s.Require().NoError(err)
		err = s.service.AddCollectionItem(ctx, requester, AddCollectionItemCommand{CollectionLocID: locID, ItemID: newItemID()})
		s.ErrorIs(err, models.ErrWrongCollectionLoc)
	})

	s.Run("Given caller other than requester Then WrongCollectionLoc", func() {
		collection := s.createClosedCollection(ptr[uint32](5), nil, false)
		err := s.service.AddCollectionItem(ctx, owner, AddCollectionItemCommand{CollectionLocID: collection, ItemID: newItemID()})
		s.ErrorIs(err, models.ErrWrongCollectionLoc)
	})

	s.Run("Given void collection Then WrongCollectionLoc", func() {
		collection := s.createClosedCollection(ptr[uint32](5), nil, false)
		s.Require().NoError(s.service.MakeVoid(ctx, owner, collection))
		err := s.service.AddCollectionItem(ctx, requester, AddCollectionItemCommand{CollectionLocID: collection, ItemID: newItemID()})
		s.ErrorIs(err, models.ErrWrongCollectionLoc)
	})

	s.Run("Given closed transaction LOC Then WrongCollectionLoc", func() {
		locID := s.createTransaction(owner)
		s.Require().NoError(s.service.Close(ctx, owner, locID))
		err := s.service.AddCollectionItem(ctx, requester, AddCollectionItemCommand{CollectionLocID: locID, ItemID: newItemID()})
		s.ErrorIs(err, models.ErrWrongCollectionLoc)
	})
}

func (s *ServiceSuite) TestAddCollectionItem_WriteOnce() {
	ctx := context.Background()
	collection := s.createClosedCollection(ptr[uint32](1), nil, false)
	itemID := newItemID()

	s.Require().NoError(s.service.AddCollectionItem(ctx, requester, AddCollectionItemCommand{
		CollectionLocID: collection,
		ItemID:          itemID,
		Description:     "original",
	}))

	// The duplicate check precedes the limits check.
	err := s.service.AddCollectionItem(ctx, requester, AddCollectionItemCommand{
		CollectionLocID: collection,
		ItemID:          itemID,
		Description:     "overwrite",
	})
	s.ErrorIs(err, models.ErrCollectionItemAlreadyExists)

	item, err := s.service.GetCollectionItem(ctx, collection, itemID)
	s.Require().NoError(err)
	s.Equal("original", item.Description)
}

func (s *ServiceSuite) TestAddCollectionItem_TermsAndConditions() {
	ctx := context.Background()
	collection := s.createClosedCollection(ptr[uint32](10), nil, false)

	closedTerms := s.createTransaction(owner)
	s.Require().NoError(s.service.Close(ctx, owner, closedTerms))
	openTerms := s.createTransaction(owner)
	voidTerms := s.createTransaction(owner)
	s.Require().NoError(s.service.Close(ctx, owner, voidTerms))
	s.Require().NoError(s.service.MakeVoid(ctx, owner, voidTerms))

	tests := []struct {
		name     string
		terms    []id.LocID
		expected *models.RuleError
	}{
		{"missing terms LOC", []id.LocID{newLocID()}, models.ErrTermsAndConditionsLocNotFound},
		{"void terms LOC", []id.LocID{voidTerms}, models.ErrTermsAndConditionsLocVoid},
		{"open terms LOC", []id.LocID{openTerms}, models.ErrTermsAndConditionsLocNotClosed},
		{"first failing element aborts", []id.LocID{closedTerms, openTerms, voidTerms}, models.ErrTermsAndConditionsLocNotClosed},
		{"all closed", []id.LocID{closedTerms, closedTerms}, nil},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			terms := make([]models.TermsAndConditionsElement, 0, len(tt.terms))
			for _, locID := range tt.terms {
				terms = append(terms, models.TermsAndConditionsElement{TCType: "logion_classification", TCLoc: locID, Details: "{}"})
			}
			itemID := newItemID()
			err := s.service.AddCollectionItem(ctx, requester, AddCollectionItemCommand{
				CollectionLocID:    collection,
				ItemID:             itemID,
				TermsAndConditions: terms,
			})
			if tt.expected == nil {
				s.Require().NoError(err)
				item, err := s.service.GetCollectionItem(ctx, collection, itemID)
				s.Require().NoError(err)
				s.Equal(terms, item.TermsAndConditions)
				return
			}
			s.ErrorIs(err, tt.expected)
		})
	}
}

func (s *ServiceSuite) TestAddCollectionItem_RestrictedDelivery() {
	ctx := context.Background()
	collection := s.createClosedCollection(ptr[uint32](10), nil, true)
	itemID := newItemID()
	token := &models.CollectionItemToken{TokenType: "ethereum_erc721", TokenID: "{\"contract\":\"0x1\",\"id\":\"7\"}"}

	s.Require().NoError(s.service.AddCollectionItem(ctx, requester, AddCollectionItemCommand{
		CollectionLocID:    collection,
		ItemID:             itemID,
		Description:        "limited edition",
		Files:              []models.CollectionItemFile{uploadFile(1), uploadFile(2)},
		Token:              token,
		RestrictedDelivery: true,
	}))

	item, err := s.service.GetCollectionItem(ctx, collection, itemID)
	s.Require().NoError(err)
	s.True(item.RestrictedDelivery)
	s.Equal(*token, *item.Token)
	s.Len(item.Files, 2)
	s.Contains(s.events.types(), models.EventItemAdded)
}

func (s *ServiceSuite) TestGetCollectionItem_NotFound() {
	_, err := s.service.GetCollectionItem(context.Background(), newLocID(), newItemID())
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}
