// Package seeder loads a small, fixed set of demo LOCs through the LOC
// service so a fresh development server has something to query.
package seeder

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"locreg/internal/loc/models"
	"locreg/internal/loc/service"
	id "locreg/pkg/domain"
)

// Well-known development accounts.
const (
	DemoOfficer   id.AccountID = "5GrwvaEF5zXb26Fz9rcQpDWS57CtERHpNehXCPcNoHGKutQY"
	DemoRequester id.AccountID = "5FHneW46xGXgs5mUiveU4sbTyGBzmstUspZC92UhjJM694ty"
)

// seedNamespace derives stable demo LOC ids, so a second run against a
// persistent store finds the first one's LOCs.
var seedNamespace = uuid.MustParse("6f1c0e52-4a0b-4d8e-9a53-2f7d3b0c9e11")

// LocService is the subset of the LOC service the seeder drives.
type LocService interface {
	CreateIdentityLoc(ctx context.Context, caller id.AccountID, locID id.LocID, requester id.AccountID) (*models.LegalOfficerCase, error)
	CreateTransactionLoc(ctx context.Context, caller id.AccountID, locID id.LocID, requester id.AccountID) (*models.LegalOfficerCase, error)
	CreateCollectionLoc(ctx context.Context, caller id.AccountID, cmd service.CreateCollectionCommand) (*models.LegalOfficerCase, error)
	AddMetadata(ctx context.Context, caller id.AccountID, locID id.LocID, item models.MetadataItem) error
	AddFile(ctx context.Context, caller id.AccountID, locID id.LocID, file models.File) error
	AddLink(ctx context.Context, caller id.AccountID, locID id.LocID, link models.LocLink) error
	Close(ctx context.Context, caller id.AccountID, locID id.LocID) error
	AddCollectionItem(ctx context.Context, caller id.AccountID, cmd service.AddCollectionItemCommand) error
}

// Seeder creates the demo LOCs on behalf of one legal officer.
type Seeder struct {
	locs      LocService
	officer   id.AccountID
	requester id.AccountID
	logger    *slog.Logger
}

func New(locs LocService, officer id.AccountID, logger *slog.Logger) *Seeder {
	if officer.IsNil() {
		officer = DemoOfficer
	}
	return &Seeder{
		locs:      locs,
		officer:   officer,
		requester: DemoRequester,
		logger:    logger,
	}
}

// DemoLocIDs are the ids SeedAll creates, by role.
type DemoLocIDs struct {
	Identity    id.LocID
	Transaction id.LocID
	Collection  id.LocID
	Item        id.CollectionItemID
}

// IDs returns the deterministic ids for this seeder's officer.
func (s *Seeder) IDs() DemoLocIDs {
	derive := func(role string) id.LocID {
		return id.LocID(uuid.NewSHA1(seedNamespace, []byte(s.officer.String()+"/"+role)))
	}
	return DemoLocIDs{
		Identity:    derive("identity"),
		Transaction: derive("transaction"),
		Collection:  derive("collection"),
		Item:        id.CollectionItemID(digest("demo item #1")),
	}
}

// SeedAll creates a closed identity LOC, a closed transaction LOC linked to
// it, and a closed collection holding one item. It is a no-op when the
// identity LOC already exists.
func (s *Seeder) SeedAll(ctx context.Context) error {
	s.logger.InfoContext(ctx, "seeding demo LOCs", "officer", s.officer)
	ids := s.IDs()

	if _, err := s.locs.CreateIdentityLoc(ctx, s.officer, ids.Identity, s.requester); err != nil {
		if errors.Is(err, models.ErrAlreadyExists) {
			s.logger.InfoContext(ctx, "demo LOCs already present", "identity_loc", ids.Identity)
			return nil
		}
		return fmt.Errorf("failed to seed identity LOC: %w", err)
	}
	if err := s.seedIdentity(ctx, ids); err != nil {
		return fmt.Errorf("failed to seed identity LOC: %w", err)
	}
	if err := s.seedTransaction(ctx, ids); err != nil {
		return fmt.Errorf("failed to seed transaction LOC: %w", err)
	}
	if err := s.seedCollection(ctx, ids); err != nil {
		return fmt.Errorf("failed to seed collection LOC: %w", err)
	}

	s.logger.InfoContext(ctx, "demo LOCs seeded",
		"identity_loc", ids.Identity,
		"transaction_loc", ids.Transaction,
		"collection_loc", ids.Collection,
	)
	return nil
}

func (s *Seeder) seedIdentity(ctx context.Context, ids DemoLocIDs) error {
	for _, item := range []models.MetadataItem{
		{Name: "Firstname", Value: "Bob", Submitter: s.officer},
		{Name: "Lastname", Value: "Demo", Submitter: s.officer},
	} {
		if err := s.locs.AddMetadata(ctx, s.officer, ids.Identity, item); err != nil {
			return err
		}
	}
	return s.locs.Close(ctx, s.officer, ids.Identity)
}

func (s *Seeder) seedTransaction(ctx context.Context, ids DemoLocIDs) error {
	if _, err := s.locs.CreateTransactionLoc(ctx, s.officer, ids.Transaction, s.requester); err != nil {
		return err
	}
	file := models.File{Hash: id.Hash(digest("demo sale agreement")), Nature: "Sale agreement", Submitter: s.requester}
	if err := s.locs.AddFile(ctx, s.officer, ids.Transaction, file); err != nil {
		return err
	}
	link := models.LocLink{Target: ids.Identity, Nature: "Seller identity"}
	if err := s.locs.AddLink(ctx, s.officer, ids.Transaction, link); err != nil {
		return err
	}
	return s.locs.Close(ctx, s.officer, ids.Transaction)
}

func (s *Seeder) seedCollection(ctx context.Context, ids DemoLocIDs) error {
	maxSize := uint32(100)
	if _, err := s.locs.CreateCollectionLoc(ctx, s.officer, service.CreateCollectionCommand{
		LocID:     ids.Collection,
		Requester: s.requester,
		MaxSize:   &maxSize,
		CanUpload: true,
	}); err != nil {
		return err
	}
	if err := s.locs.Close(ctx, s.officer, ids.Collection); err != nil {
		return err
	}

	// Items are added by the requester once the collection is closed.
	return s.locs.AddCollectionItem(ctx, s.requester, service.AddCollectionItemCommand{
		CollectionLocID: ids.Collection,
		ItemID:          ids.Item,
		Description:     "Demo artwork #1",
		Files: []models.CollectionItemFile{{
			Name:        "artwork-1.png",
			ContentType: "image/png",
			Size:        1024,
			Hash:        id.Hash(digest("demo artwork #1")),
		}},
		Token:              &models.CollectionItemToken{TokenType: "owner", TokenID: s.requester.String()},
		RestrictedDelivery: true,
		TermsAndConditions: []models.TermsAndConditionsElement{{
			TCType:  "Logion",
			TCLoc:   ids.Transaction,
			Details: "Personal, non-commercial use",
		}},
	})
}

func digest(s string) [32]byte {
	return sha256.Sum256([]byte(s))
}
