package handler

import (
	"locreg/internal/loc/models"
	"locreg/internal/loc/service"
	id "locreg/pkg/domain"
	s "locreg/pkg/platform/strings"
	"locreg/pkg/platform/validation"
	requestvalidation "locreg/pkg/validation"
)

// CreateLocRequest opens an Identity or Transaction LOC requested by an account.
type CreateLocRequest struct {
	LocID     string `json:"loc_id" validate:"required,locid"`
	Requester string `json:"requester" validate:"required,account"`
}

func (r *CreateLocRequest) Sanitize() {
	s.TrimInPlace(&r.LocID, &r.Requester)
}

func (r *CreateLocRequest) Validate() error {
	return requestvalidation.Validate(r)
}

// CreateLogionIdentityRequest opens an Identity LOC with no requester.
type CreateLogionIdentityRequest struct {
	LocID string `json:"loc_id" validate:"required,locid"`
}

func (r *CreateLogionIdentityRequest) Sanitize() {
	s.TrimInPlace(&r.LocID)
}

func (r *CreateLogionIdentityRequest) Validate() error {
	return requestvalidation.Validate(r)
}

// CreateLogionTransactionRequest opens a Transaction LOC requested through an identity LOC.
type CreateLogionTransactionRequest struct {
	LocID        string `json:"loc_id" validate:"required,locid"`
	RequesterLoc string `json:"requester_loc" validate:"required,locid"`
}

func (r *CreateLogionTransactionRequest) Sanitize() {
	s.TrimInPlace(&r.LocID, &r.RequesterLoc)
}

func (r *CreateLogionTransactionRequest) Validate() error {
	return requestvalidation.Validate(r)
}

// CreateCollectionRequest opens a Collection LOC. The absence of both
// bounds is a LOC rule, so it is left to the service.
type CreateCollectionRequest struct {
	LocID               string  `json:"loc_id" validate:"required,locid"`
	Requester           string  `json:"requester" validate:"required,account"`
	LastBlockSubmission *uint64 `json:"last_block_submission,omitempty"`
	MaxSize             *uint32 `json:"max_size,omitempty"`
	CanUpload           bool    `json:"can_upload"`
}

func (r *CreateCollectionRequest) Sanitize() {
	s.TrimInPlace(&r.LocID, &r.Requester)
}

func (r *CreateCollectionRequest) Validate() error {
	return requestvalidation.Validate(r)
}

func (r *CreateCollectionRequest) toCommand() service.CreateCollectionCommand {
	cmd := service.CreateCollectionCommand{
		LocID:     mustLocID(r.LocID),
		Requester: id.AccountID(r.Requester),
		MaxSize:   r.MaxSize,
		CanUpload: r.CanUpload,
	}
	if r.LastBlockSubmission != nil {
		block := id.BlockNumber(*r.LastBlockSubmission)
		cmd.LastBlockSubmission = &block
	}
	return cmd
}

// AddMetadataRequest appends a metadata item. Name and value sizes are
// LOC rules enforced by the service.
type AddMetadataRequest struct {
	Name      string `json:"name"`
	Value     string `json:"value"`
	Submitter string `json:"submitter" validate:"required,account"`
}

func (r *AddMetadataRequest) Sanitize() {
	s.TrimInPlace(&r.Submitter)
}

func (r *AddMetadataRequest) Validate() error {
	return requestvalidation.Validate(r)
}

func (r *AddMetadataRequest) toModel() models.MetadataItem {
	return models.MetadataItem{Name: r.Name, Value: r.Value, Submitter: id.AccountID(r.Submitter)}
}

type AddFileRequest struct {
	Hash      string `json:"hash" validate:"required,hex32"`
	Nature    string `json:"nature"`
	Submitter string `json:"submitter" validate:"required,account"`
}

func (r *AddFileRequest) Sanitize() {
	s.TrimInPlace(&r.Hash, &r.Submitter)
}

func (r *AddFileRequest) Validate() error {
	return requestvalidation.Validate(r)
}

func (r *AddFileRequest) toModel() models.File {
	return models.File{Hash: mustHash(r.Hash), Nature: r.Nature, Submitter: id.AccountID(r.Submitter)}
}

type AddLinkRequest struct {
	Target string `json:"target" validate:"required,locid"`
	Nature string `json:"nature"`
}

func (r *AddLinkRequest) Sanitize() {
	s.TrimInPlace(&r.Target)
}

func (r *AddLinkRequest) Validate() error {
	return requestvalidation.Validate(r)
}

func (r *AddLinkRequest) toModel() models.LocLink {
	return models.LocLink{Target: mustLocID(r.Target), Nature: r.Nature}
}

// CloseRequest closes a LOC, sealing it when Seal is set.
type CloseRequest struct {
	Seal string `json:"seal,omitempty" validate:"omitempty,hex32"`
}

func (r *CloseRequest) Sanitize() {
	s.TrimInPlace(&r.Seal)
}

func (r *CloseRequest) Validate() error {
	return requestvalidation.Validate(r)
}

// VoidRequest voids a LOC, naming its replacement when Replacer is set.
type VoidRequest struct {
	Replacer string `json:"replacer,omitempty" validate:"omitempty,locid"`
}

func (r *VoidRequest) Sanitize() {
	s.TrimInPlace(&r.Replacer)
}

func (r *VoidRequest) Validate() error {
	return requestvalidation.Validate(r)
}

type ItemFileRequest struct {
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	Size        uint32 `json:"size"`
	Hash        string `json:"hash" validate:"required,hex32"`
}

type ItemTokenRequest struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

type TermsAndConditionsRequest struct {
	Type    string `json:"type"`
	Loc     string `json:"loc" validate:"required,locid"`
	Details string `json:"details"`
}

// AddCollectionItemRequest adds a write-once item to a closed collection.
type AddCollectionItemRequest struct {
	ItemID             string                      `json:"item_id" validate:"required,hex32"`
	Description        string                      `json:"description"`
	Files              []ItemFileRequest           `json:"files" validate:"dive"`
	Token              *ItemTokenRequest           `json:"token,omitempty"`
	RestrictedDelivery bool                        `json:"restricted_delivery"`
	TermsAndConditions []TermsAndConditionsRequest `json:"terms_and_conditions" validate:"dive"`
}

func (r *AddCollectionItemRequest) Sanitize() {
	s.TrimInPlace(&r.ItemID)
	for i := range r.Files {
		s.TrimInPlace(&r.Files[i].Hash)
	}
	for i := range r.TermsAndConditions {
		s.TrimInPlace(&r.TermsAndConditions[i].Loc)
	}
}

func (r *AddCollectionItemRequest) Validate() error {
	if err := validation.CheckSliceCount("files", len(r.Files), validation.MaxItemFiles); err != nil {
		return err
	}
	if err := validation.CheckSliceCount("terms and conditions", len(r.TermsAndConditions), validation.MaxTermsAndConditions); err != nil {
		return err
	}
	for _, f := range r.Files {
		if err := validation.CheckStringLength("file name", f.Name, validation.MaxFileNameLength); err != nil {
			return err
		}
		if err := validation.CheckStringLength("file content type", f.ContentType, validation.MaxContentTypeLength); err != nil {
			return err
		}
	}
	for _, tc := range r.TermsAndConditions {
		if err := validation.CheckStringLength("terms type", tc.Type, validation.MaxTermsTypeLength); err != nil {
			return err
		}
		if err := validation.CheckStringLength("terms details", tc.Details, validation.MaxTermsDetailsLength); err != nil {
			return err
		}
	}
	return requestvalidation.Validate(r)
}

func (r *AddCollectionItemRequest) toCommand(locID id.LocID) service.AddCollectionItemCommand {
	itemID, _ := id.ParseCollectionItemID(r.ItemID) //nolint:errcheck // validated by hex32
	cmd := service.AddCollectionItemCommand{
		CollectionLocID:    locID,
		ItemID:             itemID,
		Description:        r.Description,
		Files:              make([]models.CollectionItemFile, 0, len(r.Files)),
		RestrictedDelivery: r.RestrictedDelivery,
		TermsAndConditions: make([]models.TermsAndConditionsElement, 0, len(r.TermsAndConditions)),
	}
	for _, f := range r.Files {
		cmd.Files = append(cmd.Files, models.CollectionItemFile{
			Name:        f.Name,
			ContentType: f.ContentType,
			Size:        f.Size,
			Hash:        mustHash(f.Hash),
		})
	}
	if r.Token != nil {
		cmd.Token = &models.CollectionItemToken{TokenType: r.Token.Type, TokenID: r.Token.ID}
	}
	for _, tc := range r.TermsAndConditions {
		cmd.TermsAndConditions = append(cmd.TermsAndConditions, models.TermsAndConditionsElement{
			TCType:  tc.Type,
			TCLoc:   mustLocID(tc.Loc),
			Details: tc.Details,
		})
	}
	return cmd
}

// mustLocID and mustHash convert fields already checked by the validator.
func mustLocID(raw string) id.LocID {
	locID, _ := id.ParseLocID(raw) //nolint:errcheck // validated by locid
	return locID
}

func mustHash(raw string) id.Hash {
	h, _ := id.ParseHash(raw) //nolint:errcheck // validated by hex32
	return h
}
