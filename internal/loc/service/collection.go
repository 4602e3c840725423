package service

import (
	"context"
	"errors"

	"locreg/internal/loc/models"
	"locreg/internal/sentinel"
	id "locreg/pkg/domain"
	dErrors "locreg/pkg/domain-errors"
)

// AddCollectionItem adds a write-once item to a closed collection LOC.
// Checks run in a fixed order and the first failure wins.
func (s *Service) AddCollectionItem(ctx context.Context, caller id.AccountID, cmd AddCollectionItemCommand) error {
	item := cmd.item()
	if err := s.checkItemPayload(item); err != nil {
		return s.reject(opAddCollectionItem, err)
	}

	err := s.run(ctx, opAddCollectionItem, cmd.lockIDs(), func(ctx context.Context) error {
		collection, err := s.findLoc(ctx, cmd.CollectionLocID, models.ErrWrongCollectionLoc)
		if err != nil {
			return err
		}

		exists, err := s.collections.ItemExists(ctx, cmd.CollectionLocID, cmd.ItemID)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to check collection item")
		}
		if exists {
			return models.ErrCollectionItemAlreadyExists.Domain()
		}

		if !collection.CanAddItem(caller) {
			return models.ErrWrongCollectionLoc.Domain()
		}

		if err := s.checkLimits(ctx, cmd.CollectionLocID, collection); err != nil {
			return err
		}

		if err := checkUpload(collection, item); err != nil {
			return err
		}

		if err := s.checkTermsAndConditions(ctx, item.TermsAndConditions); err != nil {
			return err
		}

		if err := s.collections.InsertItem(ctx, cmd.CollectionLocID, cmd.ItemID, item); err != nil {
			if errors.Is(err, sentinel.ErrDuplicateKey) {
				return models.ErrCollectionItemAlreadyExists.Domain()
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to insert collection item")
		}
		return s.emit(ctx, caller, models.ItemAdded{LocID: cmd.CollectionLocID, ItemID: cmd.ItemID})
	})
	if err != nil {
		return err
	}
	if s.metrics != nil {
		s.metrics.IncrementItemsAdded()
	}
	return nil
}

// checkItemPayload runs the store-independent checks.
func (s *Service) checkItemPayload(item *models.CollectionItem) error {
	if err := s.limits.CheckItemDescription(item.Description); err != nil {
		return ruleDomain(err)
	}
	if err := s.limits.CheckToken(item.Token); err != nil {
		return ruleDomain(err)
	}
	if item.RestrictedDelivery && item.Token == nil {
		return models.ErrMissingToken.Domain()
	}
	if item.RestrictedDelivery && len(item.Files) == 0 {
		return models.ErrMissingFiles.Domain()
	}
	return nil
}

// checkLimits evaluates the bounds against the stored counter and the
// current block height.
func (s *Service) checkLimits(ctx context.Context, locID id.LocID, collection *models.LegalOfficerCase) error {
	size, err := s.collections.Size(ctx, locID)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to read collection size")
	}
	var current id.BlockNumber
	if collection.CollectionLastBlockSubmission != nil {
		current, err = s.clock.CurrentBlock(ctx)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to read current block")
		}
	}
	if collection.LimitsReached(size, current) {
		return models.ErrCollectionLimitsReached.Domain()
	}
	return nil
}

func checkUpload(collection *models.LegalOfficerCase, item *models.CollectionItem) error {
	hasFiles := len(item.Files) > 0
	switch {
	case !collection.CollectionCanUpload && hasFiles:
		return models.ErrCannotUpload.Domain()
	case collection.CollectionCanUpload && !hasFiles:
		return models.ErrMustUpload.Domain()
	case collection.CollectionCanUpload && !item.HasUniqueFileHashes():
		return models.ErrDuplicateFile.Domain()
	}
	return nil
}

// checkTermsAndConditions requires every referenced LOC to exist, be
// non-void, and be closed, checked in that order per element.
func (s *Service) checkTermsAndConditions(ctx context.Context, terms []models.TermsAndConditionsElement) error {
	for _, tc := range terms {
		loc, err := s.findLoc(ctx, tc.TCLoc, models.ErrTermsAndConditionsLocNotFound)
		if err != nil {
			return err
		}
		if loc.IsVoid() {
			return models.ErrTermsAndConditionsLocVoid.Domain()
		}
		if !loc.Closed {
			return models.ErrTermsAndConditionsLocNotClosed.Domain()
		}
	}
	return nil
}

// GetCollectionItem returns a stored item.
func (s *Service) GetCollectionItem(ctx context.Context, locID id.LocID, itemID id.CollectionItemID) (*models.CollectionItem, error) {
	var item *models.CollectionItem
	err := s.run(ctx, opGetCollectionItem, []id.LocID{locID}, func(ctx context.Context) error {
		found, err := s.collections.FindItem(ctx, locID, itemID)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.New(dErrors.CodeNotFound, "collection item not found")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load collection item")
		}
		item = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return item.Clone(), nil
}

// CollectionSize returns the stored item counter; 0 when none were added.
func (s *Service) CollectionSize(ctx context.Context, locID id.LocID) (uint32, error) {
	size, err := s.collections.Size(ctx, locID)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read collection size")
	}
	return size, nil
}
