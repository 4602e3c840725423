package models

import (
	id "locreg/pkg/domain"
)

// LocType is fixed at creation. A void LOC may only be replaced by one of the same type.
type LocType string

const (
	LocTypeTransaction LocType = "Transaction"
	LocTypeIdentity    LocType = "Identity"
	LocTypeCollection  LocType = "Collection"
)

var validLocTypes = map[LocType]bool{
	LocTypeTransaction: true,
	LocTypeIdentity:    true,
	LocTypeCollection:  true,
}

func (t LocType) IsValid() bool {
	return validLocTypes[t]
}

func (t LocType) String() string {
	return string(t)
}

// MetadataItem is a named value attached to a LOC.
type MetadataItem struct {
	Name      string
	Value     string
	Submitter id.AccountID
}

// File references off-chain content by hash.
type File struct {
	Hash      id.Hash
	Nature    string
	Submitter id.AccountID
}

// LocLink references another LOC. The target existed when the link was added.
type LocLink struct {
	Target id.LocID
	Nature string
}

// VoidInfo is set once when a LOC is voided.
type VoidInfo struct {
	Replacer *id.LocID
}

// LegalOfficerCase is the LOC record.
//
// Owner, Requester and LocType never change after creation. Closed, VoidInfo,
// ReplacerOf and Seal are set at most once. Metadata, Files and Links only grow.
type LegalOfficerCase struct {
	Owner      id.AccountID
	Requester  Requester
	Metadata   []MetadataItem
	Files      []File
	Links      []LocLink
	Closed     bool
	LocType    LocType
	VoidInfo   *VoidInfo
	ReplacerOf *id.LocID

	// Collection-only fields.
	CollectionLastBlockSubmission *id.BlockNumber
	CollectionMaxSize             *uint32
	CollectionCanUpload           bool

	Seal *id.Hash
}

// NewOpenLoc builds an open, unclosed, non-void LOC with empty sequences.
func NewOpenLoc(owner id.AccountID, requester Requester, locType LocType) *LegalOfficerCase {
	if requester == nil {
		requester = NoRequester{}
	}
	return &LegalOfficerCase{
		Owner:     owner,
		Requester: requester,
		Metadata:  []MetadataItem{},
		Files:     []File{},
		Links:     []LocLink{},
		LocType:   locType,
	}
}

// NewOpenCollectionLoc builds an open collection LOC requested by an account.
// At least one bound is required, otherwise the collection would be unbounded.
func NewOpenCollectionLoc(
	owner id.AccountID,
	requester id.AccountID,
	lastBlockSubmission *id.BlockNumber,
	maxSize *uint32,
	canUpload bool,
) (*LegalOfficerCase, error) {
	if lastBlockSubmission == nil && maxSize == nil {
		return nil, ErrCollectionHasNoLimit
	}
	loc := NewOpenLoc(owner, AccountRequester{Account: requester}, LocTypeCollection)
	loc.CollectionLastBlockSubmission = cloneBlock(lastBlockSubmission)
	loc.CollectionMaxSize = cloneSize(maxSize)
	loc.CollectionCanUpload = canUpload
	return loc, nil
}

func (l *LegalOfficerCase) IsVoid() bool {
	return l.VoidInfo != nil
}

func (l *LegalOfficerCase) IsReplacer() bool {
	return l.ReplacerOf != nil
}

// IsValidIdentityAnchor reports whether the LOC can back an identity-LOC-requested
// transaction: a closed, non-void Identity LOC with no requester.
func (l *LegalOfficerCase) IsValidIdentityAnchor() bool {
	if l.LocType != LocTypeIdentity || !l.Closed || l.IsVoid() {
		return false
	}
	switch l.Requester.(type) {
	case NoRequester:
		return true
	case AccountRequester, LocRequester:
		return false
	default:
		return false
	}
}

// AcceptsSubmitter reports whether submitter may attach metadata or files.
// Only the owner, or the requester when it is an account, qualifies.
func (l *LegalOfficerCase) AcceptsSubmitter(submitter id.AccountID) bool {
	if submitter == l.Owner {
		return true
	}
	switch r := l.Requester.(type) {
	case AccountRequester:
		return submitter == r.Account
	case NoRequester, LocRequester:
		return false
	default:
		return false
	}
}

// CanAddItem reports whether caller may add items to this LOC as a collection.
func (l *LegalOfficerCase) CanAddItem(caller id.AccountID) bool {
	if l.LocType != LocTypeCollection || !l.Closed || l.IsVoid() {
		return false
	}
	switch r := l.Requester.(type) {
	case AccountRequester:
		return r.Account == caller
	case NoRequester, LocRequester:
		return false
	default:
		return false
	}
}

// LimitsReached evaluates the collection bounds against the stored item
// counter and the current block height.
func (l *LegalOfficerCase) LimitsReached(size uint32, current id.BlockNumber) bool {
	if l.CollectionMaxSize != nil && size >= *l.CollectionMaxSize {
		return true
	}
	if l.CollectionLastBlockSubmission != nil && current >= *l.CollectionLastBlockSubmission {
		return true
	}
	return false
}

// Clone returns a deep copy safe to hand across store boundaries.
func (l *LegalOfficerCase) Clone() *LegalOfficerCase {
	if l == nil {
		return nil
	}
	c := *l
	c.Metadata = append([]MetadataItem{}, l.Metadata...)
	c.Files = append([]File{}, l.Files...)
	c.Links = append([]LocLink{}, l.Links...)
	if l.VoidInfo != nil {
		c.VoidInfo = &VoidInfo{Replacer: cloneLocID(l.VoidInfo.Replacer)}
	}
	c.ReplacerOf = cloneLocID(l.ReplacerOf)
	c.CollectionLastBlockSubmission = cloneBlock(l.CollectionLastBlockSubmission)
	c.CollectionMaxSize = cloneSize(l.CollectionMaxSize)
	if l.Seal != nil {
		seal := *l.Seal
		c.Seal = &seal
	}
	return &c
}

func cloneLocID(v *id.LocID) *id.LocID {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneBlock(v *id.BlockNumber) *id.BlockNumber {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneSize(v *uint32) *uint32 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
