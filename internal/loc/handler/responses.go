package handler

import (
	"locreg/internal/loc/models"
	id "locreg/pkg/domain"
)

type RequesterResponse struct {
	Kind    models.RequesterKind `json:"kind"`
	Account *id.AccountID        `json:"account,omitempty"`
	Loc     *id.LocID            `json:"loc,omitempty"`
}

type MetadataResponse struct {
	Name      string       `json:"name"`
	Value     string       `json:"value"`
	Submitter id.AccountID `json:"submitter"`
}

type FileResponse struct {
	Hash      id.Hash      `json:"hash"`
	Nature    string       `json:"nature"`
	Submitter id.AccountID `json:"submitter"`
}

type LinkResponse struct {
	Target id.LocID `json:"target"`
	Nature string   `json:"nature"`
}

type VoidResponse struct {
	Replacer *id.LocID `json:"replacer,omitempty"`
}

type CollectionParamsResponse struct {
	LastBlockSubmission *id.BlockNumber `json:"last_block_submission,omitempty"`
	MaxSize             *uint32         `json:"max_size,omitempty"`
	CanUpload           bool            `json:"can_upload"`
}

// LocResponse is the JSON view of a LOC record.
type LocResponse struct {
	ID         id.LocID                  `json:"id"`
	Owner      id.AccountID              `json:"owner"`
	Requester  RequesterResponse         `json:"requester"`
	LocType    models.LocType            `json:"loc_type"`
	Closed     bool                      `json:"closed"`
	Void       *VoidResponse             `json:"void,omitempty"`
	ReplacerOf *id.LocID                 `json:"replacer_of,omitempty"`
	Metadata   []MetadataResponse        `json:"metadata"`
	Files      []FileResponse            `json:"files"`
	Links      []LinkResponse            `json:"links"`
	Collection *CollectionParamsResponse `json:"collection,omitempty"`
	Seal       *id.Hash                  `json:"seal,omitempty"`
}

type ItemFileResponse struct {
	Name        string  `json:"name"`
	ContentType string  `json:"content_type"`
	Size        uint32  `json:"size"`
	Hash        id.Hash `json:"hash"`
}

type ItemTokenResponse struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

type TermsAndConditionsResponse struct {
	Type    string   `json:"type"`
	Loc     id.LocID `json:"loc"`
	Details string   `json:"details"`
}

type CollectionItemResponse struct {
	LocID              id.LocID                     `json:"loc_id"`
	ItemID             id.CollectionItemID          `json:"item_id"`
	Description        string                       `json:"description"`
	Files              []ItemFileResponse           `json:"files"`
	Token              *ItemTokenResponse           `json:"token,omitempty"`
	RestrictedDelivery bool                         `json:"restricted_delivery"`
	TermsAndConditions []TermsAndConditionsResponse `json:"terms_and_conditions"`
}

type CollectionSizeResponse struct {
	LocID id.LocID `json:"loc_id"`
	Size  uint32   `json:"size"`
}

type LocListResponse struct {
	Locs []id.LocID `json:"locs"`
}

type IdentityCheckResponse struct {
	Account               id.AccountID    `json:"account"`
	Authorities           [2]id.AccountID `json:"authorities"`
	HasClosedIdentityLocs bool            `json:"has_closed_identity_locs"`
}

func toLocResponse(locID id.LocID, loc *models.LegalOfficerCase) *LocResponse {
	resp := &LocResponse{
		ID:         locID,
		Owner:      loc.Owner,
		Requester:  toRequesterResponse(loc.Requester),
		LocType:    loc.LocType,
		Closed:     loc.Closed,
		ReplacerOf: loc.ReplacerOf,
		Metadata:   make([]MetadataResponse, 0, len(loc.Metadata)),
		Files:      make([]FileResponse, 0, len(loc.Files)),
		Links:      make([]LinkResponse, 0, len(loc.Links)),
		Seal:       loc.Seal,
	}
	if loc.VoidInfo != nil {
		resp.Void = &VoidResponse{Replacer: loc.VoidInfo.Replacer}
	}
	for _, m := range loc.Metadata {
		resp.Metadata = append(resp.Metadata, MetadataResponse(m))
	}
	for _, f := range loc.Files {
		resp.Files = append(resp.Files, FileResponse(f))
	}
	for _, l := range loc.Links {
		resp.Links = append(resp.Links, LinkResponse(l))
	}
	if loc.LocType == models.LocTypeCollection {
		resp.Collection = &CollectionParamsResponse{
			LastBlockSubmission: loc.CollectionLastBlockSubmission,
			MaxSize:             loc.CollectionMaxSize,
			CanUpload:           loc.CollectionCanUpload,
		}
	}
	return resp
}

func toRequesterResponse(r models.Requester) RequesterResponse {
	resp := RequesterResponse{Kind: models.KindOf(r)}
	switch v := r.(type) {
	case models.AccountRequester:
		account := v.Account
		resp.Account = &account
	case models.LocRequester:
		loc := v.Loc
		resp.Loc = &loc
	case models.NoRequester, nil:
	}
	return resp
}

func toCollectionItemResponse(locID id.LocID, itemID id.CollectionItemID, item *models.CollectionItem) *CollectionItemResponse {
	resp := &CollectionItemResponse{
		LocID:              locID,
		ItemID:             itemID,
		Description:        item.Description,
		Files:              make([]ItemFileResponse, 0, len(item.Files)),
		RestrictedDelivery: item.RestrictedDelivery,
		TermsAndConditions: make([]TermsAndConditionsResponse, 0, len(item.TermsAndConditions)),
	}
	for _, f := range item.Files {
		resp.Files = append(resp.Files, ItemFileResponse(f))
	}
	if item.Token != nil {
		resp.Token = &ItemTokenResponse{Type: item.Token.TokenType, ID: item.Token.TokenID}
	}
	for _, tc := range item.TermsAndConditions {
		resp.TermsAndConditions = append(resp.TermsAndConditions, TermsAndConditionsResponse{
			Type:    tc.TCType,
			Loc:     tc.TCLoc,
			Details: tc.Details,
		})
	}
	return resp
}

func toLocListResponse(locs []id.LocID) *LocListResponse {
	if locs == nil {
		locs = []id.LocID{}
	}
	return &LocListResponse{Locs: locs}
}
