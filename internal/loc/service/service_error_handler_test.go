package service

import (
	"context"
	"errors"

	"go.uber.org/mock/gomock"

	"locreg/internal/loc/models"
	"locreg/internal/sentinel"
	id "locreg/pkg/domain"
	dErrors "locreg/pkg/domain-errors"
)

var errStore = errors.New("connection reset")

func closedCollection(maxSize *uint32, lastBlock *id.BlockNumber) *models.LegalOfficerCase {
	loc, _ := models.NewOpenCollectionLoc(owner, requester, lastBlock, maxSize, false)
	loc.Closed = true
	return loc
}

func (s *MockServiceSuite) TestCreate_StoreFailures() {
	ctx := context.Background()

	s.Run("Given existence check fails Then internal error", func() {
		locID := newLocID()
		s.mockLocs.EXPECT().Exists(gomock.Any(), locID).Return(false, errStore)

		_, err := s.service.CreateTransactionLoc(ctx, owner, locID, requester)
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
		s.ErrorIs(err, errStore)
	})

	s.Run("Given insert loses a race Then AlreadyExists", func() {
		locID := newLocID()
		s.mockLocs.EXPECT().Exists(gomock.Any(), locID).Return(false, nil)
		s.mockLocs.EXPECT().Insert(gomock.Any(), locID, gomock.Any()).Return(sentinel.ErrDuplicateKey)

		_, err := s.service.CreateTransactionLoc(ctx, owner, locID, requester)
		s.ErrorIs(err, models.ErrAlreadyExists)
	})

	s.Run("Given event sink fails Then the operation fails", func() {
		locID := newLocID()
		s.mockLocs.EXPECT().Exists(gomock.Any(), locID).Return(false, nil)
		s.mockLocs.EXPECT().Insert(gomock.Any(), locID, gomock.Any()).Return(nil)
		s.mockLocs.EXPECT().LinkAccount(gomock.Any(), requester, locID).Return(nil)
		s.mockEvents.EXPECT().Append(gomock.Any(), gomock.Any()).Return(errStore)

		_, err := s.service.CreateTransactionLoc(ctx, owner, locID, requester)
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})

	s.Run("Given logion identity Then no index is written", func() {
		locID := newLocID()
		s.mockLocs.EXPECT().Exists(gomock.Any(), locID).Return(false, nil)
		s.mockLocs.EXPECT().Insert(gomock.Any(), locID, gomock.Any()).Return(nil)
		s.mockEvents.EXPECT().Append(gomock.Any(), gomock.Any()).Return(nil)

		_, err := s.service.CreateLogionIdentityLoc(ctx, owner, locID)
		s.NoError(err)
	})
}

func (s *MockServiceSuite) TestMutation_StoreFailures() {
	ctx := context.Background()

	s.Run("Given load fails Then internal error", func() {
		locID := newLocID()
		s.mockLocs.EXPECT().FindByID(gomock.Any(), locID).Return(nil, errStore)

		err := s.service.Close(ctx, owner, locID)
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
		s.Empty(dErrors.ReasonOf(err))
	})

	s.Run("Given update fails Then internal error", func() {
		locID := newLocID()
		s.mockLocs.EXPECT().FindByID(gomock.Any(), locID).
			Return(models.NewOpenLoc(owner, models.NoRequester{}, models.LocTypeTransaction), nil)
		s.mockLocs.EXPECT().Update(gomock.Any(), locID, gomock.Any()).Return(errStore)

		err := s.service.AddMetadata(ctx, owner, locID, models.MetadataItem{Name: "n", Submitter: owner})
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})

	s.Run("Given void and replace Then both records are written", func() {
		target, replacer := newLocID(), newLocID()
		s.mockLocs.EXPECT().FindByID(gomock.Any(), target).
			Return(models.NewOpenLoc(owner, models.NoRequester{}, models.LocTypeIdentity), nil)
		s.mockLocs.EXPECT().FindByID(gomock.Any(), replacer).
			Return(models.NewOpenLoc(owner, models.NoRequester{}, models.LocTypeIdentity), nil)
		s.mockLocs.EXPECT().Update(gomock.Any(), target, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ id.LocID, loc *models.LegalOfficerCase) error {
				s.Equal(replacer, *loc.VoidInfo.Replacer)
				return nil
			})
		s.mockLocs.EXPECT().Update(gomock.Any(), replacer, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ id.LocID, loc *models.LegalOfficerCase) error {
				s.Equal(target, *loc.ReplacerOf)
				return nil
			})
		s.mockEvents.EXPECT().Append(gomock.Any(), gomock.Any()).Return(nil)

		s.NoError(s.service.MakeVoidAndReplace(ctx, owner, target, replacer))
	})

	s.Run("Given a LOC replacing itself Then one record carries both sides", func() {
		locID := newLocID()
		s.mockLocs.EXPECT().FindByID(gomock.Any(), locID).
			Return(models.NewOpenLoc(owner, models.NoRequester{}, models.LocTypeIdentity), nil)
		s.mockLocs.EXPECT().Update(gomock.Any(), locID, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ id.LocID, loc *models.LegalOfficerCase) error {
				s.Equal(locID, *loc.VoidInfo.Replacer)
				s.Equal(locID, *loc.ReplacerOf)
				return nil
			})
		s.mockEvents.EXPECT().Append(gomock.Any(), gomock.Any()).Return(nil)

		s.NoError(s.service.MakeVoidAndReplace(ctx, owner, locID, locID))
	})
}

func (s *MockServiceSuite) TestAddCollectionItem_Clock() {
	ctx := context.Background()

	s.Run("Given deadline and unreadable clock Then unavailable", func() {
		locID, itemID := newLocID(), newItemID()
		s.mockLocs.EXPECT().FindByID(gomock.Any(), locID).Return(closedCollection(nil, ptr[id.BlockNumber](50)), nil)
		s.mockCollections.EXPECT().ItemExists(gomock.Any(), locID, itemID).Return(false, nil)
		s.mockCollections.EXPECT().Size(gomock.Any(), locID).Return(uint32(0), nil)
		s.mockClock.EXPECT().CurrentBlock(gomock.Any()).Return(id.BlockNumber(0), errStore)

		err := s.service.AddCollectionItem(ctx, requester, AddCollectionItemCommand{CollectionLocID: locID, ItemID: itemID})
		s.True(dErrors.HasCode(err, dErrors.CodeUnavailable))
	})

	s.Run("Given size bound only Then the clock is not consulted", func() {
		locID, itemID := newLocID(), newItemID()
		s.mockLocs.EXPECT().FindByID(gomock.Any(), locID).Return(closedCollection(ptr[uint32](2), nil), nil)
		s.mockCollections.EXPECT().ItemExists(gomock.Any(), locID, itemID).Return(false, nil)
		s.mockCollections.EXPECT().Size(gomock.Any(), locID).Return(uint32(1), nil)
		s.mockCollections.EXPECT().InsertItem(gomock.Any(), locID, itemID, gomock.Any()).Return(nil)
		s.mockEvents.EXPECT().Append(gomock.Any(), gomock.Any()).Return(nil)

		err := s.service.AddCollectionItem(ctx, requester, AddCollectionItemCommand{CollectionLocID: locID, ItemID: itemID})
		s.NoError(err)
	})

	s.Run("Given item insert loses a race Then CollectionItemAlreadyExists", func() {
		locID, itemID := newLocID(), newItemID()
		s.mockLocs.EXPECT().FindByID(gomock.Any(), locID).Return(closedCollection(ptr[uint32](2), nil), nil)
		s.mockCollections.EXPECT().ItemExists(gomock.Any(), locID, itemID).Return(false, nil)
		s.mockCollections.EXPECT().Size(gomock.Any(), locID).Return(uint32(0), nil)
		s.mockCollections.EXPECT().InsertItem(gomock.Any(), locID, itemID, gomock.Any()).Return(sentinel.ErrDuplicateKey)

		err := s.service.AddCollectionItem(ctx, requester, AddCollectionItemCommand{CollectionLocID: locID, ItemID: itemID})
		s.ErrorIs(err, models.ErrCollectionItemAlreadyExists)
	})
}

func (s *MockServiceSuite) TestQueries_StoreFailures() {
	ctx := context.Background()

	s.Run("Given account index fails Then identity query fails", func() {
		s.mockLocs.EXPECT().ListByAccount(gomock.Any(), requester).Return(nil, errStore)

		_, err := s.service.HasClosedIdentityLocs(ctx, requester, [2]id.AccountID{owner, stranger})
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})

	s.Run("Given indexed LOC missing from the store Then it is skipped", func() {
		locID := newLocID()
		s.mockLocs.EXPECT().ListByAccount(gomock.Any(), requester).Return([]id.LocID{locID}, nil)
		s.mockLocs.EXPECT().FindByID(gomock.Any(), locID).Return(nil, sentinel.ErrNotFound)

		ok, err := s.service.HasClosedIdentityLocs(ctx, requester, [2]id.AccountID{owner, stranger})
		s.Require().NoError(err)
		s.False(ok)
	})

	s.Run("Given item lookup fails Then internal error", func() {
		locID, itemID := newLocID(), newItemID()
		s.mockCollections.EXPECT().FindItem(gomock.Any(), locID, itemID).Return(nil, errStore)

		_, err := s.service.GetCollectionItem(ctx, locID, itemID)
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})
}
