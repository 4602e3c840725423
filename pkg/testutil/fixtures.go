package testutil

import (
	"crypto/sha256"

	"github.com/google/uuid"

	"locreg/internal/loc/models"
	id "locreg/pkg/domain"
)

// Accounts are well-known development SS58 addresses, stable across tests.
var Accounts = struct {
	Officer   id.AccountID
	Officer2  id.AccountID
	Requester id.AccountID
	Stranger  id.AccountID
}{
	Officer:   "5GrwvaEF5zXb26Fz9rcQpDWS57CtERHpNehXCPcNoHGKutQY",
	Officer2:  "5DAAnrj7VHTznn2AWBemMuyBwZWs6FNFjdyVXUeYum3PTXFy",
	Requester: "5FHneW46xGXgs5mUiveU4sbTyGBzmstUspZC92UhjJM694ty",
	Stranger:  "5FLSigC9HGRKVhB9FiEo4Y3koPsNmBmLJbpXg2mp1hXcS59Y",
}

func NewLocID() id.LocID { return id.LocID(uuid.New()) }

// HashOf returns the sha256 of s as a content hash.
func HashOf(s string) id.Hash { return id.Hash(sha256.Sum256([]byte(s))) }

// ItemIDOf returns the sha256 of s as a collection item id.
func ItemIDOf(s string) id.CollectionItemID { return id.CollectionItemID(sha256.Sum256([]byte(s))) }

// LocBuilder provides a fluent interface for building test LOCs. The zero
// configuration is an open Transaction LOC owned by Accounts.Officer and
// requested by Accounts.Requester.
type LocBuilder struct {
	loc *models.LegalOfficerCase
}

func NewLocBuilder() *LocBuilder {
	return &LocBuilder{
		loc: models.NewOpenLoc(Accounts.Officer, models.AccountRequester{Account: Accounts.Requester}, models.LocTypeTransaction),
	}
}

func (b *LocBuilder) OwnedBy(owner id.AccountID) *LocBuilder {
	b.loc.Owner = owner
	return b
}

func (b *LocBuilder) OfType(locType models.LocType) *LocBuilder {
	b.loc.LocType = locType
	return b
}

func (b *LocBuilder) RequestedBy(requester models.Requester) *LocBuilder {
	b.loc.Requester = requester
	return b
}

// AsIdentityAnchor makes the LOC a closed Identity LOC with no requester.
func (b *LocBuilder) AsIdentityAnchor() *LocBuilder {
	b.loc.LocType = models.LocTypeIdentity
	b.loc.Requester = models.NoRequester{}
	b.loc.Closed = true
	return b
}

// AsCollection turns the LOC into a collection with the given bounds.
func (b *LocBuilder) AsCollection(maxSize *uint32, lastBlock *id.BlockNumber, canUpload bool) *LocBuilder {
	b.loc.LocType = models.LocTypeCollection
	b.loc.CollectionMaxSize = maxSize
	b.loc.CollectionLastBlockSubmission = lastBlock
	b.loc.CollectionCanUpload = canUpload
	return b
}

func (b *LocBuilder) Closed() *LocBuilder {
	b.loc.Closed = true
	return b
}

func (b *LocBuilder) Sealed(seal id.Hash) *LocBuilder {
	b.loc.Closed = true
	b.loc.Seal = &seal
	return b
}

func (b *LocBuilder) Void(replacer *id.LocID) *LocBuilder {
	b.loc.VoidInfo = &models.VoidInfo{Replacer: replacer}
	return b
}

func (b *LocBuilder) Replacing(replaced id.LocID) *LocBuilder {
	b.loc.ReplacerOf = &replaced
	return b
}

func (b *LocBuilder) WithMetadata(name, value string) *LocBuilder {
	b.loc.Metadata = append(b.loc.Metadata, models.MetadataItem{Name: name, Value: value, Submitter: b.loc.Owner})
	return b
}

func (b *LocBuilder) WithFile(hash id.Hash, nature string) *LocBuilder {
	b.loc.Files = append(b.loc.Files, models.File{Hash: hash, Nature: nature, Submitter: b.loc.Owner})
	return b
}

func (b *LocBuilder) WithLink(target id.LocID, nature string) *LocBuilder {
	b.loc.Links = append(b.loc.Links, models.LocLink{Target: target, Nature: nature})
	return b
}

func (b *LocBuilder) Build() *models.LegalOfficerCase {
	return b.loc.Clone()
}

// CollectionItemBuilder builds plain collection items by default.
type CollectionItemBuilder struct {
	item *models.CollectionItem
}

func NewCollectionItemBuilder() *CollectionItemBuilder {
	return &CollectionItemBuilder{
		item: &models.CollectionItem{Description: "test item"},
	}
}

func (b *CollectionItemBuilder) WithDescription(description string) *CollectionItemBuilder {
	b.item.Description = description
	return b
}

func (b *CollectionItemBuilder) WithFile(name string, hash id.Hash) *CollectionItemBuilder {
	b.item.Files = append(b.item.Files, models.CollectionItemFile{
		Name:        name,
		ContentType: "application/octet-stream",
		Size:        1,
		Hash:        hash,
	})
	return b
}

func (b *CollectionItemBuilder) WithToken(tokenType, tokenID string) *CollectionItemBuilder {
	b.item.Token = &models.CollectionItemToken{TokenType: tokenType, TokenID: tokenID}
	return b
}

func (b *CollectionItemBuilder) Restricted() *CollectionItemBuilder {
	b.item.RestrictedDelivery = true
	return b
}

func (b *CollectionItemBuilder) WithTerms(tcType string, tcLoc id.LocID, details string) *CollectionItemBuilder {
	b.item.TermsAndConditions = append(b.item.TermsAndConditions, models.TermsAndConditionsElement{
		TCType: tcType, TCLoc: tcLoc, Details: details,
	})
	return b
}

func (b *CollectionItemBuilder) Build() *models.CollectionItem {
	return b.item.Clone()
}
