package handler

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"locreg/internal/loc/models"
	"locreg/internal/loc/service"
	id "locreg/pkg/domain"
	dErrors "locreg/pkg/domain-errors"
	"locreg/pkg/platform/httputil"
	platformstrings "locreg/pkg/platform/strings"
	"locreg/pkg/requestcontext"
)

// Service defines the LOC registry operations the HTTP layer drives.
// Returns domain objects, not HTTP response DTOs.
type Service interface {
	CreateIdentityLoc(ctx context.Context, caller id.AccountID, locID id.LocID, requester id.AccountID) (*models.LegalOfficerCase, error)
	CreateLogionIdentityLoc(ctx context.Context, caller id.AccountID, locID id.LocID) (*models.LegalOfficerCase, error)
	CreateTransactionLoc(ctx context.Context, caller id.AccountID, locID id.LocID, requester id.AccountID) (*models.LegalOfficerCase, error)
	CreateLogionTransactionLoc(ctx context.Context, caller id.AccountID, locID, requesterLoc id.LocID) (*models.LegalOfficerCase, error)
	CreateCollectionLoc(ctx context.Context, caller id.AccountID, cmd service.CreateCollectionCommand) (*models.LegalOfficerCase, error)
	AddMetadata(ctx context.Context, caller id.AccountID, locID id.LocID, item models.MetadataItem) error
	AddFile(ctx context.Context, caller id.AccountID, locID id.LocID, file models.File) error
	AddLink(ctx context.Context, caller id.AccountID, locID id.LocID, link models.LocLink) error
	Close(ctx context.Context, caller id.AccountID, locID id.LocID) error
	CloseAndSeal(ctx context.Context, caller id.AccountID, locID id.LocID, seal id.Hash) error
	MakeVoid(ctx context.Context, caller id.AccountID, locID id.LocID) error
	MakeVoidAndReplace(ctx context.Context, caller id.AccountID, locID, replacer id.LocID) error
	AddCollectionItem(ctx context.Context, caller id.AccountID, cmd service.AddCollectionItemCommand) error
	GetLoc(ctx context.Context, locID id.LocID) (*models.LegalOfficerCase, error)
	GetCollectionItem(ctx context.Context, locID id.LocID, itemID id.CollectionItemID) (*models.CollectionItem, error)
	CollectionSize(ctx context.Context, locID id.LocID) (uint32, error)
	ListAccountLocs(ctx context.Context, account id.AccountID) ([]id.LocID, error)
	ListIdentityLocLocs(ctx context.Context, identityLoc id.LocID) ([]id.LocID, error)
	HasClosedIdentityLocs(ctx context.Context, account id.AccountID, authorities [2]id.AccountID) (bool, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the LOC routes. The caller is expected to have applied
// authentication so that every handler finds an account in context.
func (h *Handler) Register(r chi.Router) {
	r.Post("/locs/identity", h.HandleCreateIdentityLoc)
	r.Post("/locs/identity/logion", h.HandleCreateLogionIdentityLoc)
	r.Post("/locs/transaction", h.HandleCreateTransactionLoc)
	r.Post("/locs/transaction/logion", h.HandleCreateLogionTransactionLoc)
	r.Post("/locs/collection", h.HandleCreateCollectionLoc)
	r.Get("/locs/{id}", h.HandleGetLoc)
	r.Post("/locs/{id}/metadata", h.HandleAddMetadata)
	r.Post("/locs/{id}/files", h.HandleAddFile)
	r.Post("/locs/{id}/links", h.HandleAddLink)
	r.Post("/locs/{id}/close", h.HandleClose)
	r.Post("/locs/{id}/void", h.HandleMakeVoid)
	r.Get("/locs/{id}/locs", h.HandleListIdentityLocLocs)
	r.Post("/locs/{id}/items", h.HandleAddCollectionItem)
	r.Get("/locs/{id}/items", h.HandleCollectionSize)
	r.Get("/locs/{id}/items/{itemID}", h.HandleGetCollectionItem)
	r.Get("/accounts/{account}/locs", h.HandleListAccountLocs)
	r.Get("/accounts/{account}/identity", h.HandleHasClosedIdentityLocs)
}

// HandleCreateIdentityLoc opens an Identity LOC requested by an account.
func (h *Handler) HandleCreateIdentityLoc(w http.ResponseWriter, r *http.Request) {
	ctx, caller, requestID, ok := h.authenticated(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[CreateLocRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	locID := mustLocID(req.LocID)
	loc, err := h.service.CreateIdentityLoc(ctx, caller, locID, id.AccountID(req.Requester))
	if err != nil {
		h.fail(ctx, w, "create identity loc failed", requestID, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toLocResponse(locID, loc))
}

// HandleCreateLogionIdentityLoc opens an Identity LOC with no requester.
func (h *Handler) HandleCreateLogionIdentityLoc(w http.ResponseWriter, r *http.Request) {
	ctx, caller, requestID, ok := h.authenticated(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[CreateLogionIdentityRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	locID := mustLocID(req.LocID)
	loc, err := h.service.CreateLogionIdentityLoc(ctx, caller, locID)
	if err != nil {
		h.fail(ctx, w, "create logion identity loc failed", requestID, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toLocResponse(locID, loc))
}

// HandleCreateTransactionLoc opens a Transaction LOC requested by an account.
func (h *Handler) HandleCreateTransactionLoc(w http.ResponseWriter, r *http.Request) {
	ctx, caller, requestID, ok := h.authenticated(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[CreateLocRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	locID := mustLocID(req.LocID)
	loc, err := h.service.CreateTransactionLoc(ctx, caller, locID, id.AccountID(req.Requester))
	if err != nil {
		h.fail(ctx, w, "create transaction loc failed", requestID, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toLocResponse(locID, loc))
}

// HandleCreateLogionTransactionLoc opens a Transaction LOC requested through an identity LOC.
func (h *Handler) HandleCreateLogionTransactionLoc(w http.ResponseWriter, r *http.Request) {
	ctx, caller, requestID, ok := h.authenticated(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[CreateLogionTransactionRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	locID := mustLocID(req.LocID)
	loc, err := h.service.CreateLogionTransactionLoc(ctx, caller, locID, mustLocID(req.RequesterLoc))
	if err != nil {
		h.fail(ctx, w, "create logion transaction loc failed", requestID, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toLocResponse(locID, loc))
}

// HandleCreateCollectionLoc opens a Collection LOC.
func (h *Handler) HandleCreateCollectionLoc(w http.ResponseWriter, r *http.Request) {
	ctx, caller, requestID, ok := h.authenticated(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[CreateCollectionRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	cmd := req.toCommand()
	loc, err := h.service.CreateCollectionLoc(ctx, caller, cmd)
	if err != nil {
		h.fail(ctx, w, "create collection loc failed", requestID, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toLocResponse(cmd.LocID, loc))
}

// HandleGetLoc returns the LOC record.
func (h *Handler) HandleGetLoc(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	locID, ok := h.locIDParam(w, r, "id")
	if !ok {
		return
	}

	loc, err := h.service.GetLoc(ctx, locID)
	if err != nil {
		h.fail(ctx, w, "get loc failed", requestID, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toLocResponse(locID, loc))
}

func (h *Handler) HandleAddMetadata(w http.ResponseWriter, r *http.Request) {
	ctx, caller, requestID, ok := h.authenticated(w, r)
	if !ok {
		return
	}
	locID, ok := h.locIDParam(w, r, "id")
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[AddMetadataRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	if err := h.service.AddMetadata(ctx, caller, locID, req.toModel()); err != nil {
		h.fail(ctx, w, "add metadata failed", requestID, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleAddFile(w http.ResponseWriter, r *http.Request) {
	ctx, caller, requestID, ok := h.authenticated(w, r)
	if !ok {
		return
	}
	locID, ok := h.locIDParam(w, r, "id")
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[AddFileRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	if err := h.service.AddFile(ctx, caller, locID, req.toModel()); err != nil {
		h.fail(ctx, w, "add file failed", requestID, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleAddLink(w http.ResponseWriter, r *http.Request) {
	ctx, caller, requestID, ok := h.authenticated(w, r)
	if !ok {
		return
	}
	locID, ok := h.locIDParam(w, r, "id")
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[AddLinkRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	if err := h.service.AddLink(ctx, caller, locID, req.toModel()); err != nil {
		h.fail(ctx, w, "add link failed", requestID, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleClose closes a LOC. A body carrying a seal closes and seals it.
func (h *Handler) HandleClose(w http.ResponseWriter, r *http.Request) {
	ctx, caller, requestID, ok := h.authenticated(w, r)
	if !ok {
		return
	}
	locID, ok := h.locIDParam(w, r, "id")
	if !ok {
		return
	}
	req, ok := httputil.DecodeOptional[CloseRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	var err error
	if req.Seal == "" {
		err = h.service.Close(ctx, caller, locID)
	} else {
		err = h.service.CloseAndSeal(ctx, caller, locID, mustHash(req.Seal))
	}
	if err != nil {
		h.fail(ctx, w, "close loc failed", requestID, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleMakeVoid voids a LOC. A body carrying a replacer also links the replacement.
func (h *Handler) HandleMakeVoid(w http.ResponseWriter, r *http.Request) {
	ctx, caller, requestID, ok := h.authenticated(w, r)
	if !ok {
		return
	}
	locID, ok := h.locIDParam(w, r, "id")
	if !ok {
		return
	}
	req, ok := httputil.DecodeOptional[VoidRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	var err error
	if req.Replacer == "" {
		err = h.service.MakeVoid(ctx, caller, locID)
	} else {
		err = h.service.MakeVoidAndReplace(ctx, caller, locID, mustLocID(req.Replacer))
	}
	if err != nil {
		h.fail(ctx, w, "make void failed", requestID, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleAddCollectionItem adds an item to a closed collection LOC.
func (h *Handler) HandleAddCollectionItem(w http.ResponseWriter, r *http.Request) {
	ctx, caller, requestID, ok := h.authenticated(w, r)
	if !ok {
		return
	}
	locID, ok := h.locIDParam(w, r, "id")
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[AddCollectionItemRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	cmd := req.toCommand(locID)
	if err := h.service.AddCollectionItem(ctx, caller, cmd); err != nil {
		h.fail(ctx, w, "add collection item failed", requestID, err)
		return
	}
	w.Header().Set("Location", "/locs/"+locID.String()+"/items/"+cmd.ItemID.String())
	w.WriteHeader(http.StatusCreated)
}

func (h *Handler) HandleGetCollectionItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	locID, ok := h.locIDParam(w, r, "id")
	if !ok {
		return
	}
	itemID, err := id.ParseCollectionItemID(chi.URLParam(r, "itemID"))
	if err != nil {
		h.logger.WarnContext(ctx, "invalid item id", "error", err, "request_id", requestID)
		httputil.WriteError(w, err)
		return
	}

	item, err := h.service.GetCollectionItem(ctx, locID, itemID)
	if err != nil {
		h.fail(ctx, w, "get collection item failed", requestID, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toCollectionItemResponse(locID, itemID, item))
}

func (h *Handler) HandleCollectionSize(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	locID, ok := h.locIDParam(w, r, "id")
	if !ok {
		return
	}

	size, err := h.service.CollectionSize(ctx, locID)
	if err != nil {
		h.fail(ctx, w, "collection size failed", requestID, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, &CollectionSizeResponse{LocID: locID, Size: size})
}

func (h *Handler) HandleListIdentityLocLocs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	locID, ok := h.locIDParam(w, r, "id")
	if !ok {
		return
	}

	locs, err := h.service.ListIdentityLocLocs(ctx, locID)
	if err != nil {
		h.fail(ctx, w, "list identity loc locs failed", requestID, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toLocListResponse(locs))
}

func (h *Handler) HandleListAccountLocs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	account, ok := h.accountParam(w, r)
	if !ok {
		return
	}

	locs, err := h.service.ListAccountLocs(ctx, account)
	if err != nil {
		h.fail(ctx, w, "list account locs failed", requestID, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toLocListResponse(locs))
}

// HandleHasClosedIdentityLocs answers whether the account holds closed
// identity LOCs with both authorities, passed as ?authorities=a,b.
func (h *Handler) HandleHasClosedIdentityLocs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	account, ok := h.accountParam(w, r)
	if !ok {
		return
	}

	raw := platformstrings.SplitList(r.URL.Query().Get("authorities"))
	if len(raw) != 2 {
		h.logger.WarnContext(ctx, "invalid authorities", "count", len(raw), "request_id", requestID)
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "authorities must name exactly two accounts"))
		return
	}
	var authorities [2]id.AccountID
	for i, a := range raw {
		parsed, err := id.ParseAccountID(a)
		if err != nil {
			h.logger.WarnContext(ctx, "invalid authority", "error", err, "request_id", requestID)
			httputil.WriteError(w, err)
			return
		}
		authorities[i] = parsed
	}

	has, err := h.service.HasClosedIdentityLocs(ctx, account, authorities)
	if err != nil {
		h.fail(ctx, w, "identity check failed", requestID, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, &IdentityCheckResponse{
		Account:               account,
		Authorities:           authorities,
		HasClosedIdentityLocs: has,
	})
}

// authenticated resolves the request id and the calling account.
func (h *Handler) authenticated(w http.ResponseWriter, r *http.Request) (context.Context, id.AccountID, string, bool) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	caller, err := httputil.RequireCaller(ctx, h.logger, requestID)
	if err != nil {
		httputil.WriteError(w, err)
		return ctx, "", requestID, false
	}
	return ctx, caller, requestID, true
}

func (h *Handler) locIDParam(w http.ResponseWriter, r *http.Request, name string) (id.LocID, bool) {
	locID, err := id.ParseLocID(chi.URLParam(r, name))
	if err != nil {
		h.logger.WarnContext(r.Context(), "invalid loc id",
			"error", err,
			"request_id", requestcontext.RequestID(r.Context()),
		)
		httputil.WriteError(w, err)
		return id.LocID{}, false
	}
	return locID, true
}

func (h *Handler) accountParam(w http.ResponseWriter, r *http.Request) (id.AccountID, bool) {
	account, err := id.ParseAccountID(chi.URLParam(r, "account"))
	if err != nil {
		h.logger.WarnContext(r.Context(), "invalid account",
			"error", err,
			"request_id", requestcontext.RequestID(r.Context()),
		)
		httputil.WriteError(w, err)
		return "", false
	}
	return account, true
}

// fail logs a service error at a level matching its code and writes the reply.
// Rule rejections are expected traffic; everything else is logged as an error.
func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, msg, requestID string, err error) {
	if dErrors.HasCode(err, dErrors.CodeInternal) || dErrors.HasCode(err, dErrors.CodeUnavailable) || dErrors.HasCode(err, dErrors.CodeTimeout) {
		h.logger.ErrorContext(ctx, msg, "error", err, "request_id", requestID)
	} else {
		h.logger.WarnContext(ctx, msg,
			"error", err,
			"reason", dErrors.ReasonOf(err),
			"request_id", requestID,
		)
	}
	httputil.WriteError(w, err)
}
