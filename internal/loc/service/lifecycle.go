package service

import (
	"context"
	"errors"

	"locreg/internal/loc/models"
	"locreg/internal/sentinel"
	id "locreg/pkg/domain"
	dErrors "locreg/pkg/domain-errors"
)

// Operation names used for spans and metrics.
const (
	opCreateIdentity          = "create_identity_loc"
	opCreateLogionIdentity    = "create_logion_identity_loc"
	opCreateTransaction       = "create_transaction_loc"
	opCreateLogionTransaction = "create_logion_transaction_loc"
	opCreateCollection        = "create_collection_loc"
	opAddMetadata             = "add_metadata"
	opAddFile                 = "add_file"
	opAddLink                 = "add_link"
	opClose                   = "close"
	opMakeVoid                = "make_void"
	opAddCollectionItem       = "add_collection_item"
	opGetLoc                  = "get_loc"
	opGetCollectionItem       = "get_collection_item"
	opHasClosedIdentityLocs   = "has_closed_identity_locs"
)

// draft builds the new LOC once the id is known to be free.
type draft func(ctx context.Context) (*models.LegalOfficerCase, error)

// CreateIdentityLoc opens an Identity LOC requested by an account.
func (s *Service) CreateIdentityLoc(ctx context.Context, caller id.AccountID, locID id.LocID, requester id.AccountID) (*models.LegalOfficerCase, error) {
	if err := s.authorizeCreator(caller); err != nil {
		return nil, err
	}
	return s.create(ctx, opCreateIdentity, caller, locID, nil, func(context.Context) (*models.LegalOfficerCase, error) {
		return models.NewOpenLoc(caller, models.AccountRequester{Account: requester}, models.LocTypeIdentity), nil
	})
}

// CreateLogionIdentityLoc opens an Identity LOC with no requester.
// Once closed it can anchor identity-LOC-requested transactions.
func (s *Service) CreateLogionIdentityLoc(ctx context.Context, caller id.AccountID, locID id.LocID) (*models.LegalOfficerCase, error) {
	if err := s.authorizeCreator(caller); err != nil {
		return nil, err
	}
	return s.create(ctx, opCreateLogionIdentity, caller, locID, nil, func(context.Context) (*models.LegalOfficerCase, error) {
		return models.NewOpenLoc(caller, models.NoRequester{}, models.LocTypeIdentity), nil
	})
}

// CreateTransactionLoc opens a Transaction LOC requested by an account.
func (s *Service) CreateTransactionLoc(ctx context.Context, caller id.AccountID, locID id.LocID, requester id.AccountID) (*models.LegalOfficerCase, error) {
	if err := s.authorizeCreator(caller); err != nil {
		return nil, err
	}
	return s.create(ctx, opCreateTransaction, caller, locID, nil, func(context.Context) (*models.LegalOfficerCase, error) {
		return models.NewOpenLoc(caller, models.AccountRequester{Account: requester}, models.LocTypeTransaction), nil
	})
}

// CreateLogionTransactionLoc opens a Transaction LOC requested by a closed,
// non-void Identity LOC that itself has no requester.
func (s *Service) CreateLogionTransactionLoc(ctx context.Context, caller id.AccountID, locID, requesterLoc id.LocID) (*models.LegalOfficerCase, error) {
	if err := s.authorizeCreator(caller); err != nil {
		return nil, err
	}
	return s.create(ctx, opCreateLogionTransaction, caller, locID, []id.LocID{requesterLoc}, func(ctx context.Context) (*models.LegalOfficerCase, error) {
		anchor, found, err := s.lookupLoc(ctx, requesterLoc)
		if err != nil {
			return nil, err
		}
		if !found || !anchor.IsValidIdentityAnchor() {
			return nil, models.ErrUnexpectedRequester.Domain()
		}
		return models.NewOpenLoc(caller, models.LocRequester{Loc: requesterLoc}, models.LocTypeTransaction), nil
	})
}

// CreateCollectionLoc opens a Collection LOC requested by an account.
// The bound check precedes the existence check.
func (s *Service) CreateCollectionLoc(ctx context.Context, caller id.AccountID, cmd CreateCollectionCommand) (*models.LegalOfficerCase, error) {
	if err := s.authorizeCreator(caller); err != nil {
		return nil, err
	}
	loc, err := models.NewOpenCollectionLoc(caller, cmd.Requester, cmd.LastBlockSubmission, cmd.MaxSize, cmd.CanUpload)
	if err != nil {
		return nil, s.reject(opCreateCollection, ruleDomain(err))
	}
	return s.create(ctx, opCreateCollection, caller, cmd.LocID, nil, func(context.Context) (*models.LegalOfficerCase, error) {
		return loc, nil
	})
}

func (s *Service) create(ctx context.Context, op string, caller id.AccountID, locID id.LocID, related []id.LocID, build draft) (*models.LegalOfficerCase, error) {
	if err := requireLocID(locID); err != nil {
		return nil, err
	}

	var created *models.LegalOfficerCase
	err := s.run(ctx, op, append([]id.LocID{locID}, related...), func(ctx context.Context) error {
		exists, err := s.locs.Exists(ctx, locID)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to check LOC existence")
		}
		if exists {
			return models.ErrAlreadyExists.Domain()
		}

		loc, err := build(ctx)
		if err != nil {
			return err
		}

		if err := s.locs.Insert(ctx, locID, loc); err != nil {
			if errors.Is(err, sentinel.ErrDuplicateKey) {
				return models.ErrAlreadyExists.Domain()
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to insert LOC")
		}
		if err := s.index(ctx, locID, loc.Requester); err != nil {
			return err
		}
		if err := s.emit(ctx, caller, models.LocCreated{LocID: locID, Owner: caller, LocType: loc.LocType}); err != nil {
			return err
		}
		created = loc
		return nil
	})
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.IncrementLocCreated(created.LocType.String())
	}
	return created.Clone(), nil
}

// index appends the new LOC to the lookup index its requester variant selects.
func (s *Service) index(ctx context.Context, locID id.LocID, requester models.Requester) error {
	switch r := requester.(type) {
	case models.AccountRequester:
		if err := s.locs.LinkAccount(ctx, r.Account, locID); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to index LOC by account")
		}
	case models.LocRequester:
		if err := s.locs.LinkIdentityLoc(ctx, r.Loc, locID); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to index LOC by identity LOC")
		}
	case models.NoRequester:
	}
	return nil
}

// AddMetadata appends a metadata item to an open LOC.
func (s *Service) AddMetadata(ctx context.Context, caller id.AccountID, locID id.LocID, item models.MetadataItem) error {
	if err := s.limits.CheckMetadata(item); err != nil {
		return s.reject(opAddMetadata, ruleDomain(err))
	}
	return s.run(ctx, opAddMetadata, []id.LocID{locID}, func(ctx context.Context) error {
		loc, err := s.loadMutable(ctx, caller, locID)
		if err != nil {
			return err
		}
		if !loc.AcceptsSubmitter(item.Submitter) {
			return models.ErrInvalidSubmitter.Domain()
		}
		loc.Metadata = append(loc.Metadata, item)
		if err := s.updateLoc(ctx, locID, loc); err != nil {
			return err
		}
		s.logAudit(ctx, "metadata_added", "loc_id", locID, "actor", caller, "name", item.Name)
		return nil
	})
}

// AddFile appends a file reference to an open LOC.
func (s *Service) AddFile(ctx context.Context, caller id.AccountID, locID id.LocID, file models.File) error {
	if err := s.limits.CheckFile(file); err != nil {
		return s.reject(opAddFile, ruleDomain(err))
	}
	return s.run(ctx, opAddFile, []id.LocID{locID}, func(ctx context.Context) error {
		loc, err := s.loadMutable(ctx, caller, locID)
		if err != nil {
			return err
		}
		if !loc.AcceptsSubmitter(file.Submitter) {
			return models.ErrInvalidSubmitter.Domain()
		}
		loc.Files = append(loc.Files, file)
		if err := s.updateLoc(ctx, locID, loc); err != nil {
			return err
		}
		s.logAudit(ctx, "file_added", "loc_id", locID, "actor", caller, "hash", file.Hash)
		return nil
	})
}

// AddLink appends a link to another existing LOC.
func (s *Service) AddLink(ctx context.Context, caller id.AccountID, locID id.LocID, link models.LocLink) error {
	if err := s.limits.CheckLink(link); err != nil {
		return s.reject(opAddLink, ruleDomain(err))
	}
	return s.run(ctx, opAddLink, []id.LocID{locID, link.Target}, func(ctx context.Context) error {
		loc, err := s.loadMutable(ctx, caller, locID)
		if err != nil {
			return err
		}
		exists, err := s.locs.Exists(ctx, link.Target)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to check linked LOC")
		}
		if !exists {
			return models.ErrLinkedLocNotFound.Domain()
		}
		loc.Links = append(loc.Links, link)
		if err := s.updateLoc(ctx, locID, loc); err != nil {
			return err
		}
		s.logAudit(ctx, "link_added", "loc_id", locID, "actor", caller, "target", link.Target)
		return nil
	})
}

// loadMutable loads a LOC the caller owns that is neither closed nor void.
func (s *Service) loadMutable(ctx context.Context, caller id.AccountID, locID id.LocID) (*models.LegalOfficerCase, error) {
	loc, err := s.findLoc(ctx, locID, models.ErrNotFound)
	if err != nil {
		return nil, err
	}
	if loc.Owner != caller {
		return nil, models.ErrUnauthorized.Domain()
	}
	if loc.Closed {
		return nil, models.ErrCannotMutate.Domain()
	}
	if loc.IsVoid() {
		return nil, models.ErrCannotMutateVoid.Domain()
	}
	return loc, nil
}

// Close closes an open LOC without a seal.
func (s *Service) Close(ctx context.Context, caller id.AccountID, locID id.LocID) error {
	return s.close(ctx, caller, locID, nil)
}

// CloseAndSeal closes an open LOC recording the seal hash.
func (s *Service) CloseAndSeal(ctx context.Context, caller id.AccountID, locID id.LocID, seal id.Hash) error {
	return s.close(ctx, caller, locID, &seal)
}

func (s *Service) close(ctx context.Context, caller id.AccountID, locID id.LocID, seal *id.Hash) error {
	return s.run(ctx, opClose, []id.LocID{locID}, func(ctx context.Context) error {
		loc, err := s.findLoc(ctx, locID, models.ErrNotFound)
		if err != nil {
			return err
		}
		if loc.Owner != caller {
			return models.ErrUnauthorized.Domain()
		}
		if loc.IsVoid() {
			return models.ErrCannotMutateVoid.Domain()
		}
		if loc.Closed {
			return models.ErrAlreadyClosed.Domain()
		}
		loc.Closed = true
		loc.Seal = seal
		if err := s.updateLoc(ctx, locID, loc); err != nil {
			return err
		}
		return s.emit(ctx, caller, models.LocClosed{LocID: locID, Seal: seal})
	})
}

// MakeVoid voids a LOC without a replacer. Open and closed LOCs qualify.
func (s *Service) MakeVoid(ctx context.Context, caller id.AccountID, locID id.LocID) error {
	return s.makeVoid(ctx, caller, locID, nil)
}

// MakeVoidAndReplace voids a LOC and marks replacer as its successor.
// The replacer must exist, be non-void, not replace another LOC, and share
// the voided LOC's type.
func (s *Service) MakeVoidAndReplace(ctx context.Context, caller id.AccountID, locID, replacer id.LocID) error {
	return s.makeVoid(ctx, caller, locID, &replacer)
}

func (s *Service) makeVoid(ctx context.Context, caller id.AccountID, locID id.LocID, replacerID *id.LocID) error {
	keys := []id.LocID{locID}
	if replacerID != nil {
		keys = append(keys, *replacerID)
	}
	return s.run(ctx, opMakeVoid, keys, func(ctx context.Context) error {
		loc, err := s.findLoc(ctx, locID, models.ErrNotFound)
		if err != nil {
			return err
		}
		if loc.Owner != caller {
			return models.ErrUnauthorized.Domain()
		}
		if loc.IsVoid() {
			return models.ErrAlreadyVoid.Domain()
		}

		if replacerID == nil {
			loc.VoidInfo = &models.VoidInfo{}
			if err := s.updateLoc(ctx, locID, loc); err != nil {
				return err
			}
			return s.emit(ctx, caller, models.LocVoid{LocID: locID})
		}

		replacer := loc
		if *replacerID != locID {
			replacer, err = s.findLoc(ctx, *replacerID, models.ErrReplacerLocNotFound)
			if err != nil {
				return err
			}
		}
		if replacer.IsVoid() {
			return models.ErrReplacerLocAlreadyVoid.Domain()
		}
		if replacer.IsReplacer() {
			return models.ErrReplacerLocAlreadyReplacing.Domain()
		}
		if replacer.LocType != loc.LocType {
			return models.ErrReplacerLocWrongType.Domain()
		}

		target := *replacerID
		loc.VoidInfo = &models.VoidInfo{Replacer: &target}
		replaced := locID
		replacer.ReplacerOf = &replaced

		if err := s.updateLoc(ctx, locID, loc); err != nil {
			return err
		}
		if target != locID {
			if err := s.updateLoc(ctx, target, replacer); err != nil {
				return err
			}
		}
		return s.emit(ctx, caller, models.LocVoid{LocID: locID, Replacer: &target})
	})
}

// GetLoc returns a snapshot of the LOC.
func (s *Service) GetLoc(ctx context.Context, locID id.LocID) (*models.LegalOfficerCase, error) {
	if err := requireLocID(locID); err != nil {
		return nil, err
	}
	var loc *models.LegalOfficerCase
	err := s.run(ctx, opGetLoc, []id.LocID{locID}, func(ctx context.Context) error {
		found, err := s.findLoc(ctx, locID, models.ErrNotFound)
		if err != nil {
			return err
		}
		loc = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return loc.Clone(), nil
}

// ListAccountLocs returns the ids of LOCs requested by account, in creation order.
func (s *Service) ListAccountLocs(ctx context.Context, account id.AccountID) ([]id.LocID, error) {
	ids, err := s.locs.ListByAccount(ctx, account)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list account LOCs")
	}
	return ids, nil
}

// ListIdentityLocLocs returns the ids of LOCs requested by an identity LOC,
// in creation order.
func (s *Service) ListIdentityLocLocs(ctx context.Context, identityLoc id.LocID) ([]id.LocID, error) {
	ids, err := s.locs.ListByIdentityLoc(ctx, identityLoc)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list identity LOC LOCs")
	}
	return ids, nil
}

// ruleDomain wraps a *models.RuleError returned by a pure check.
func ruleDomain(err error) error {
	var rule *models.RuleError
	if errors.As(err, &rule) {
		return rule.Domain()
	}
	return err
}
