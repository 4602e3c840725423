package models

import id "locreg/pkg/domain"

// Requester is the party on whose behalf a LOC was opened.
// It is a closed sum: NoRequester, AccountRequester or LocRequester.
type Requester interface {
	isRequester()
}

// NoRequester marks a LOC opened by the owner for itself.
type NoRequester struct{}

// AccountRequester marks a LOC requested by a chain account.
type AccountRequester struct {
	Account id.AccountID
}

// LocRequester marks a LOC requested through an identity LOC.
type LocRequester struct {
	Loc id.LocID
}

func (NoRequester) isRequester()      {}
func (AccountRequester) isRequester() {}
func (LocRequester) isRequester()     {}

// RequesterKind is the persisted discriminator of a Requester.
type RequesterKind string

const (
	RequesterKindNone    RequesterKind = "none"
	RequesterKindAccount RequesterKind = "account"
	RequesterKindLoc     RequesterKind = "loc"
)

// KindOf returns the discriminator for r. A nil requester is treated as none.
func KindOf(r Requester) RequesterKind {
	switch r.(type) {
	case AccountRequester:
		return RequesterKindAccount
	case LocRequester:
		return RequesterKindLoc
	case NoRequester, nil:
		return RequesterKindNone
	default:
		panic("unknown requester variant")
	}
}

// RequesterAccount returns the account of an Account-typed requester.
func RequesterAccount(r Requester) (id.AccountID, bool) {
	if a, ok := r.(AccountRequester); ok {
		return a.Account, true
	}
	return "", false
}
