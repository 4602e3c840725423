package service

import (
	id "locreg/pkg/domain"
	dErrors "locreg/pkg/domain-errors"
)

// CreatorPolicy decides which accounts act as legal officers and may create LOCs.
type CreatorPolicy interface {
	CanCreate(account id.AccountID) bool
}

// AllowAll accepts any authenticated caller as LOC owner.
type AllowAll struct{}

func (AllowAll) CanCreate(id.AccountID) bool { return true }

// AllowList restricts LOC creation to the configured legal officers.
// An empty list accepts everyone.
type AllowList map[id.AccountID]struct{}

func NewAllowList(accounts ...id.AccountID) AllowList {
	list := make(AllowList, len(accounts))
	for _, a := range accounts {
		list[a] = struct{}{}
	}
	return list
}

func (l AllowList) CanCreate(account id.AccountID) bool {
	if len(l) == 0 {
		return true
	}
	_, ok := l[account]
	return ok
}

func (s *Service) authorizeCreator(caller id.AccountID) error {
	if err := requireCaller(caller); err != nil {
		return err
	}
	if !s.creators.CanCreate(caller) {
		return dErrors.New(dErrors.CodeForbidden, "caller is not a legal officer")
	}
	return nil
}
