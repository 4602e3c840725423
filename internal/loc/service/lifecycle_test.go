package service

import (
	"context"
	"strings"

	"locreg/internal/loc/models"
	id "locreg/pkg/domain"
	dErrors "locreg/pkg/domain-errors"
)

func (s *ServiceSuite) TestCreate() {
	ctx := context.Background()

	s.Run("Given account requester When create identity Then LOC is open and indexed", func() {
		locID := newLocID()
		loc, err := s.service.CreateIdentityLoc(ctx, owner, locID, requester)
		s.Require().NoError(err)

		s.Equal(owner, loc.Owner)
		s.Equal(models.AccountRequester{Account: requester}, loc.Requester)
		s.Equal(models.LocTypeIdentity, loc.LocType)
		s.False(loc.Closed)
		s.False(loc.IsVoid())
		s.Empty(loc.Metadata)
		s.Empty(loc.Files)
		s.Empty(loc.Links)

		ids, err := s.service.ListAccountLocs(ctx, requester)
		s.Require().NoError(err)
		s.Contains(ids, locID)
	})

	s.Run("Given taken id When create with another payload Then AlreadyExists and record unchanged", func() {
		locID := newLocID()
		_, err := s.service.CreateIdentityLoc(ctx, owner, locID, requester)
		s.Require().NoError(err)

		_, err = s.service.CreateTransactionLoc(ctx, stranger, locID, stranger)
		s.ErrorIs(err, models.ErrAlreadyExists)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
		_, err = s.service.CreateLogionIdentityLoc(ctx, owner, locID)
		s.ErrorIs(err, models.ErrAlreadyExists)
		_, err = s.service.CreateCollectionLoc(ctx, owner, CreateCollectionCommand{LocID: locID, Requester: requester, MaxSize: ptr[uint32](1)})
		s.ErrorIs(err, models.ErrAlreadyExists)

		loc := s.mustGet(locID)
		s.Equal(owner, loc.Owner)
		s.Equal(models.LocTypeIdentity, loc.LocType)
		s.Equal(models.AccountRequester{Account: requester}, loc.Requester)
	})

	s.Run("Given nil LOC id When create Then bad request", func() {
		_, err := s.service.CreateTransactionLoc(ctx, owner, id.LocID{}, requester)
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	s.Run("Given no caller When create Then unauthorized", func() {
		_, err := s.service.CreateTransactionLoc(ctx, "", newLocID(), requester)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	s.Run("Given successful create Then LocCreated is recorded", func() {
		s.events.events = nil
		locID := s.createTransaction(owner)

		s.Require().Len(s.events.events, 1)
		created, ok := s.events.events[0].Event.(models.LocCreated)
		s.Require().True(ok)
		s.Equal(locID, created.LocID)
		s.Equal(owner, created.Owner)
		s.Equal(models.LocTypeTransaction, created.LocType)
		s.Equal(owner, s.events.events[0].Actor)
	})
}

func (s *ServiceSuite) TestCreate_CreatorPolicy() {
	svc := New(s.locs, s.collections, s.clock, WithCreatorPolicy(NewAllowList(owner)))
	ctx := context.Background()

	_, err := svc.CreateTransactionLoc(ctx, stranger, newLocID(), requester)
	s.True(dErrors.HasCode(err, dErrors.CodeForbidden))

	_, err = svc.CreateTransactionLoc(ctx, owner, newLocID(), requester)
	s.NoError(err)
}

func (s *ServiceSuite) TestCreateLogionTransaction() {
	ctx := context.Background()

	s.Run("Given closed logion identity When create transaction through it Then identity LOC indexes it", func() {
		identity := s.createClosedLogionIdentity(owner)
		locID := newLocID()

		loc, err := s.service.CreateLogionTransactionLoc(ctx, owner, locID, identity)
		s.Require().NoError(err)
		s.Equal(models.LocRequester{Loc: identity}, loc.Requester)
		s.Equal(models.LocTypeTransaction, loc.LocType)

		ids, err := s.service.ListIdentityLocLocs(ctx, identity)
		s.Require().NoError(err)
		s.Equal([]id.LocID{locID}, ids)
	})

	s.Run("Given invalid anchors When create transaction Then UnexpectedRequester", func() {
		openIdentity := newLocID()
		_, err := s.service.CreateLogionIdentityLoc(ctx, owner, openIdentity)
		s.Require().NoError(err)

		requestedIdentity := newLocID()
		_, err = s.service.CreateIdentityLoc(ctx, owner, requestedIdentity, requester)
		s.Require().NoError(err)
		s.Require().NoError(s.service.Close(ctx, owner, requestedIdentity))

		voidIdentity := s.createClosedLogionIdentity(owner)
		s.Require().NoError(s.service.MakeVoid(ctx, owner, voidIdentity))

		transaction := s.createTransaction(owner)
		s.Require().NoError(s.service.Close(ctx, owner, transaction))

		for name, anchor := range map[string]id.LocID{
			"open":              openIdentity,
			"account requester": requestedIdentity,
			"void":              voidIdentity,
			"not identity":      transaction,
			"missing":           newLocID(),
		} {
			locID := newLocID()
			_, err := s.service.CreateLogionTransactionLoc(ctx, owner, locID, anchor)
			s.ErrorIs(err, models.ErrUnexpectedRequester, name)

			exists, err := s.locs.Exists(ctx, locID)
			s.Require().NoError(err)
			s.False(exists, name)
		}
	})
}

func (s *ServiceSuite) TestCreateCollection() {
	ctx := context.Background()

	s.Run("Given no bound When create collection Then CollectionHasNoLimit", func() {
		_, err := s.service.CreateCollectionLoc(ctx, owner, CreateCollectionCommand{LocID: newLocID(), Requester: requester})
		s.ErrorIs(err, models.ErrCollectionHasNoLimit)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("Given taken id and no bound Then the bound check wins", func() {
		locID := s.createTransaction(owner)
		_, err := s.service.CreateCollectionLoc(ctx, owner, CreateCollectionCommand{LocID: locID, Requester: requester})
		s.ErrorIs(err, models.ErrCollectionHasNoLimit)
	})

	s.Run("Given bounds When create collection Then bounds are kept", func() {
		locID := newLocID()
		loc, err := s.service.CreateCollectionLoc(ctx, owner, CreateCollectionCommand{
			LocID:               locID,
			Requester:           requester,
			LastBlockSubmission: ptr[id.BlockNumber](100),
			CanUpload:           true,
		})
		s.Require().NoError(err)
		s.Equal(models.LocTypeCollection, loc.LocType)
		s.Equal(id.BlockNumber(100), *loc.CollectionLastBlockSubmission)
		s.Nil(loc.CollectionMaxSize)
		s.True(loc.CollectionCanUpload)
	})
}

func (s *ServiceSuite) TestAddMetadata() {
	ctx := context.Background()

	s.Run("Given oversize item Then MetadataItemInvalid before the LOC is looked up", func() {
		item := models.MetadataItem{Name: strings.Repeat("n", 41), Value: "v", Submitter: owner}
		err := s.service.AddMetadata(ctx, owner, newLocID(), item)
		s.ErrorIs(err, models.ErrMetadataItemInvalid)
	})

	s.Run("Given unknown LOC Then NotFound", func() {
		err := s.service.AddMetadata(ctx, owner, newLocID(), models.MetadataItem{Name: "n", Submitter: owner})
		s.ErrorIs(err, models.ErrNotFound)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("Given non-owner caller Then Unauthorized", func() {
		locID := s.createTransaction(owner)
		err := s.service.AddMetadata(ctx, stranger, locID, models.MetadataItem{Name: "n", Submitter: stranger})
		s.ErrorIs(err, models.ErrUnauthorized)
	})

	s.Run("Given closed LOC Then CannotMutate", func() {
		locID := s.createTransaction(owner)
		s.Require().NoError(s.service.Close(ctx, owner, locID))
		err := s.service.AddMetadata(ctx, owner, locID, models.MetadataItem{Name: "n", Submitter: owner})
		s.ErrorIs(err, models.ErrCannotMutate)
	})

	s.Run("Given void LOC Then CannotMutateVoid", func() {
		locID := s.createTransaction(owner)
		s.Require().NoError(s.service.MakeVoid(ctx, owner, locID))
		err := s.service.AddMetadata(ctx, owner, locID, models.MetadataItem{Name: "n", Submitter: owner})
		s.ErrorIs(err, models.ErrCannotMutateVoid)
	})

	s.Run("Given owner then requester submitters Then items are appended in order", func() {
		locID := s.createTransaction(owner)
		s.Require().NoError(s.service.AddMetadata(ctx, owner, locID, models.MetadataItem{Name: "a", Value: "1", Submitter: owner}))
		s.Require().NoError(s.service.AddMetadata(ctx, owner, locID, models.MetadataItem{Name: "b", Value: "2", Submitter: requester}))

		loc := s.mustGet(locID)
		s.Require().Len(loc.Metadata, 2)
		s.Equal("a", loc.Metadata[0].Name)
		s.Equal(requester, loc.Metadata[1].Submitter)
	})
}

func (s *ServiceSuite) TestSubmitterGate() {
	ctx := context.Background()

	accountRequested := s.createTransaction(owner)
	noRequester := newLocID()
	_, err := s.service.CreateLogionIdentityLoc(ctx, owner, noRequester)
	s.Require().NoError(err)
	identity := s.createClosedLogionIdentity(owner)
	locRequested := newLocID()
	_, err = s.service.CreateLogionTransactionLoc(ctx, owner, locRequested, identity)
	s.Require().NoError(err)

	tests := []struct {
		name      string
		locID     id.LocID
		submitter id.AccountID
		allowed   bool
	}{
		{"account requester accepts owner", accountRequested, owner, true},
		{"account requester accepts requester", accountRequested, requester, true},
		{"account requester rejects stranger", accountRequested, stranger, false},
		{"no requester accepts owner", noRequester, owner, true},
		{"no requester rejects requester", noRequester, requester, false},
		{"loc requester accepts owner", locRequested, owner, true},
		{"loc requester rejects stranger", locRequested, stranger, false},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			metaErr := s.service.AddMetadata(ctx, owner, tt.locID, models.MetadataItem{Name: "n", Submitter: tt.submitter})
			fileErr := s.service.AddFile(ctx, owner, tt.locID, models.File{Hash: hashOf(1), Nature: "doc", Submitter: tt.submitter})
			if tt.allowed {
				s.NoError(metaErr)
				s.NoError(fileErr)
				return
			}
			s.ErrorIs(metaErr, models.ErrInvalidSubmitter)
			s.ErrorIs(fileErr, models.ErrInvalidSubmitter)
		})
	}
}

func (s *ServiceSuite) TestAddFile() {
	ctx := context.Background()

	s.Run("Given oversize nature Then FileInvalid", func() {
		locID := s.createTransaction(owner)
		err := s.service.AddFile(ctx, owner, locID, models.File{Nature: strings.Repeat("x", 256), Submitter: owner})
		s.ErrorIs(err, models.ErrFileInvalid)
		s.Empty(s.mustGet(locID).Files)
	})

	s.Run("Given valid file Then it is appended", func() {
		locID := s.createTransaction(owner)
		file := models.File{Hash: hashOf(7), Nature: "contract", Submitter: owner}
		s.Require().NoError(s.service.AddFile(ctx, owner, locID, file))
		s.Equal([]models.File{file}, s.mustGet(locID).Files)
	})
}

func (s *ServiceSuite) TestAddLink() {
	ctx := context.Background()

	s.Run("Given oversize nature Then LocLinkInvalid", func() {
		locID := s.createTransaction(owner)
		err := s.service.AddLink(ctx, owner, locID, models.LocLink{Target: locID, Nature: strings.Repeat("x", 256)})
		s.ErrorIs(err, models.ErrLocLinkInvalid)
	})

	s.Run("Given missing target Then LinkedLocNotFound", func() {
		locID := s.createTransaction(owner)
		err := s.service.AddLink(ctx, owner, locID, models.LocLink{Target: newLocID(), Nature: "see also"})
		s.ErrorIs(err, models.ErrLinkedLocNotFound)
	})

	s.Run("Given closed source Then CannotMutate precedes the target check", func() {
		locID := s.createTransaction(owner)
		s.Require().NoError(s.service.Close(ctx, owner, locID))
		err := s.service.AddLink(ctx, owner, locID, models.LocLink{Target: newLocID(), Nature: "see also"})
		s.ErrorIs(err, models.ErrCannotMutate)
	})

	s.Run("Given existing target Then link is appended", func() {
		locID := s.createTransaction(owner)
		target := s.createTransaction(stranger)
		link := models.LocLink{Target: target, Nature: "see also"}
		s.Require().NoError(s.service.AddLink(ctx, owner, locID, link))
		s.Equal([]models.LocLink{link}, s.mustGet(locID).Links)
	})
}

func (s *ServiceSuite) TestClose() {
	ctx := context.Background()

	s.Run("Given open LOC When close and seal Then closed with seal", func() {
		locID := s.createTransaction(owner)
		seal := hashOf(9)
		s.Require().NoError(s.service.CloseAndSeal(ctx, owner, locID, seal))

		loc := s.mustGet(locID)
		s.True(loc.Closed)
		s.Require().NotNil(loc.Seal)
		s.Equal(seal, *loc.Seal)
	})

	s.Run("Given sealed LOC When sealed again Then AlreadyClosed and seal kept", func() {
		locID := s.createTransaction(owner)
		s.Require().NoError(s.service.CloseAndSeal(ctx, owner, locID, hashOf(1)))

		err := s.service.CloseAndSeal(ctx, owner, locID, hashOf(2))
		s.ErrorIs(err, models.ErrAlreadyClosed)
		s.Equal(hashOf(1), *s.mustGet(locID).Seal)
	})

	s.Run("Given void LOC Then CannotMutateVoid precedes AlreadyClosed", func() {
		locID := s.createTransaction(owner)
		s.Require().NoError(s.service.Close(ctx, owner, locID))
		s.Require().NoError(s.service.MakeVoid(ctx, owner, locID))
		err := s.service.Close(ctx, owner, locID)
		s.ErrorIs(err, models.ErrCannotMutateVoid)
	})

	s.Run("Given non-owner Then Unauthorized", func() {
		locID := s.createTransaction(owner)
		s.ErrorIs(s.service.Close(ctx, stranger, locID), models.ErrUnauthorized)
		s.False(s.mustGet(locID).Closed)
	})

	s.Run("Given unknown LOC Then NotFound", func() {
		s.ErrorIs(s.service.Close(ctx, owner, newLocID()), models.ErrNotFound)
	})
}

func (s *ServiceSuite) TestVoidTerminality() {
	ctx := context.Background()
	locID := s.createTransaction(owner)
	s.Require().NoError(s.service.MakeVoid(ctx, owner, locID))

	s.ErrorIs(s.service.MakeVoid(ctx, owner, locID), models.ErrAlreadyVoid)
	s.ErrorIs(s.service.MakeVoidAndReplace(ctx, owner, locID, s.createTransaction(owner)), models.ErrAlreadyVoid)
	s.ErrorIs(s.service.AddMetadata(ctx, owner, locID, models.MetadataItem{Name: "n", Submitter: owner}), models.ErrCannotMutateVoid)
	s.ErrorIs(s.service.AddFile(ctx, owner, locID, models.File{Submitter: owner}), models.ErrCannotMutateVoid)
	s.ErrorIs(s.service.AddLink(ctx, owner, locID, models.LocLink{Target: locID}), models.ErrCannotMutateVoid)

	loc := s.mustGet(locID)
	s.Nil(loc.VoidInfo.Replacer)
	s.False(loc.Closed)
}

func (s *ServiceSuite) TestMakeVoidAndReplace() {
	ctx := context.Background()

	s.Run("Given same type replacer Then both sides are updated", func() {
		target := s.createTransaction(owner)
		replacer := s.createTransaction(owner)
		s.Require().NoError(s.service.MakeVoidAndReplace(ctx, owner, target, replacer))

		voided := s.mustGet(target)
		s.Require().NotNil(voided.VoidInfo)
		s.Equal(replacer, *voided.VoidInfo.Replacer)
		s.Equal(target, *s.mustGet(replacer).ReplacerOf)
	})

	s.Run("Given replacer of another type Then ReplacerLocWrongType and replacer untouched", func() {
		target := s.createTransaction(owner)
		replacer := newLocID()
		_, err := s.service.CreateIdentityLoc(ctx, owner, replacer, requester)
		s.Require().NoError(err)

		err = s.service.MakeVoidAndReplace(ctx, owner, target, replacer)
		s.ErrorIs(err, models.ErrReplacerLocWrongType)
		s.Nil(s.mustGet(replacer).ReplacerOf)
		s.False(s.mustGet(target).IsVoid())
	})

	s.Run("Given missing replacer Then ReplacerLocNotFound", func() {
		target := s.createTransaction(owner)
		s.ErrorIs(s.service.MakeVoidAndReplace(ctx, owner, target, newLocID()), models.ErrReplacerLocNotFound)
	})

	s.Run("Given void replacer Then ReplacerLocAlreadyVoid", func() {
		target := s.createTransaction(owner)
		replacer := s.createTransaction(owner)
		s.Require().NoError(s.service.MakeVoid(ctx, owner, replacer))
		s.ErrorIs(s.service.MakeVoidAndReplace(ctx, owner, target, replacer), models.ErrReplacerLocAlreadyVoid)
	})

	s.Run("Given replacer already used Then ReplacerLocAlreadyReplacing", func() {
		first := s.createTransaction(owner)
		second := s.createTransaction(owner)
		replacer := s.createTransaction(owner)
		s.Require().NoError(s.service.MakeVoidAndReplace(ctx, owner, first, replacer))

		err := s.service.MakeVoidAndReplace(ctx, owner, second, replacer)
		s.ErrorIs(err, models.ErrReplacerLocAlreadyReplacing)
		s.Equal(first, *s.mustGet(replacer).ReplacerOf)
		s.False(s.mustGet(second).IsVoid())
	})

	s.Run("Given open LOC voided by non-owner Then Unauthorized", func() {
		target := s.createTransaction(owner)
		s.ErrorIs(s.service.MakeVoid(ctx, stranger, target), models.ErrUnauthorized)
	})

	s.Run("Given void with replacer Then LocVoid carries it", func() {
		target := s.createTransaction(owner)
		replacer := s.createTransaction(owner)
		s.events.events = nil
		s.Require().NoError(s.service.MakeVoidAndReplace(ctx, owner, target, replacer))

		s.Require().Len(s.events.events, 1)
		voided, ok := s.events.events[0].Event.(models.LocVoid)
		s.Require().True(ok)
		s.Equal(replacer, *voided.Replacer)
	})
}

func (s *ServiceSuite) TestGetLoc_ReturnsSnapshot() {
	locID := s.createTransaction(owner)
	loc := s.mustGet(locID)
	loc.Closed = true
	loc.Metadata = append(loc.Metadata, models.MetadataItem{Name: "leak"})

	fresh := s.mustGet(locID)
	s.False(fresh.Closed)
	s.Empty(fresh.Metadata)

	_, err := s.service.GetLoc(context.Background(), newLocID())
	s.ErrorIs(err, models.ErrNotFound)
}
