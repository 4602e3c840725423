package service

import (
	"locreg/internal/loc/models"
	id "locreg/pkg/domain"
)

// CreateCollectionCommand opens a collection LOC. At least one of
// LastBlockSubmission and MaxSize must be set.
type CreateCollectionCommand struct {
	LocID               id.LocID
	Requester           id.AccountID
	LastBlockSubmission *id.BlockNumber
	MaxSize             *uint32
	CanUpload           bool
}

// AddCollectionItemCommand adds an item to a closed collection LOC.
// An empty TermsAndConditions list is the plain variant.
type AddCollectionItemCommand struct {
	CollectionLocID    id.LocID
	ItemID             id.CollectionItemID
	Description        string
	Files              []models.CollectionItemFile
	Token              *models.CollectionItemToken
	RestrictedDelivery bool
	TermsAndConditions []models.TermsAndConditionsElement
}

func (c AddCollectionItemCommand) item() *models.CollectionItem {
	item := &models.CollectionItem{
		Description:        c.Description,
		Files:              c.Files,
		Token:              c.Token,
		RestrictedDelivery: c.RestrictedDelivery,
		TermsAndConditions: c.TermsAndConditions,
	}
	return item.Clone()
}

// lockIDs names the collection and every referenced terms LOC.
func (c AddCollectionItemCommand) lockIDs() []id.LocID {
	ids := make([]id.LocID, 0, len(c.TermsAndConditions)+1)
	ids = append(ids, c.CollectionLocID)
	for _, tc := range c.TermsAndConditions {
		ids = append(ids, tc.TCLoc)
	}
	return ids
}
