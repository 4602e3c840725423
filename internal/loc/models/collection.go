package models

import id "locreg/pkg/domain"

// CollectionItem is a write-once catalogue entry under a collection LOC.
type CollectionItem struct {
	Description        string
	Files              []CollectionItemFile
	Token              *CollectionItemToken
	RestrictedDelivery bool
	TermsAndConditions []TermsAndConditionsElement
}

type CollectionItemFile struct {
	Name        string
	ContentType string
	Size        uint32
	Hash        id.Hash
}

type CollectionItemToken struct {
	TokenType string
	TokenID   string
}

// TermsAndConditionsElement points at a LOC holding applicable terms.
type TermsAndConditionsElement struct {
	TCType  string
	TCLoc   id.LocID
	Details string
}

// HasUniqueFileHashes reports whether no two files share a content hash.
func (i *CollectionItem) HasUniqueFileHashes() bool {
	seen := make(map[id.Hash]struct{}, len(i.Files))
	for _, f := range i.Files {
		if _, dup := seen[f.Hash]; dup {
			return false
		}
		seen[f.Hash] = struct{}{}
	}
	return true
}

func (i *CollectionItem) Clone() *CollectionItem {
	if i == nil {
		return nil
	}
	c := *i
	c.Files = append([]CollectionItemFile{}, i.Files...)
	c.TermsAndConditions = append([]TermsAndConditionsElement{}, i.TermsAndConditions...)
	if i.Token != nil {
		token := *i.Token
		c.Token = &token
	}
	return &c
}
