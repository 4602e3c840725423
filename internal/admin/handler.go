package admin

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	id "locreg/pkg/domain"
	"locreg/pkg/platform/httputil"
	adminmw "locreg/pkg/platform/middleware/admin"
	"locreg/pkg/requestcontext"
	requestvalidation "locreg/pkg/validation"
)

// Handler serves the operator API. The router mounts it behind the admin
// token check.
type Handler struct {
	service *Service
	logger  *slog.Logger
}

func New(service *Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/admin/stats", h.HandleGetStats)
	r.Post("/admin/chain/block", h.HandlePublishBlock)
	r.Post("/admin/tokens/revoke", h.HandleRevokeToken)
}

type StatsResponse struct {
	TotalLocs           int            `json:"total_locs"`
	PendingOutboxEvents int64          `json:"pending_outbox_events"`
	CurrentBlock        id.BlockNumber `json:"current_block"`
	Timestamp           time.Time      `json:"timestamp"`
}

type PublishBlockRequest struct {
	Block *uint64 `json:"block" validate:"required"`
}

func (r *PublishBlockRequest) Validate() error {
	return requestvalidation.Validate(r)
}

type RevokeTokenRequest struct {
	JTI        string `json:"jti" validate:"required,notblank"`
	TTLSeconds int64  `json:"ttl_seconds" validate:"required,min=1,max=86400"`
}

func (r *RevokeTokenRequest) Validate() error {
	return requestvalidation.Validate(r)
}

// fail logs a rejected operator call and writes the mapped error.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	ctx := r.Context()
	h.logger.WarnContext(ctx, "admin "+op+" failed",
		"error", err,
		"actor", adminmw.ActorFrom(ctx),
		"request_id", requestcontext.RequestID(ctx),
	)
	httputil.WriteError(w, err)
}

// HandleGetStats reports registry totals, outbox backlog and chain height.
func (h *Handler) HandleGetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.GetStats(r.Context())
	if err != nil {
		h.fail(w, r, "stats", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, &StatsResponse{
		TotalLocs:           stats.TotalLocs,
		PendingOutboxEvents: stats.PendingOutboxEvents,
		CurrentBlock:        stats.CurrentBlock,
		Timestamp:           stats.Timestamp,
	})
}

// HandlePublishBlock advances the block clock. 204 on success.
func (h *Handler) HandlePublishBlock(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[PublishBlockRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	if err := h.service.PublishBlock(ctx, adminmw.ActorFrom(ctx), id.BlockNumber(*req.Block)); err != nil {
		h.fail(w, r, "publish block", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleRevokeToken denies an access token by JTI for ttl_seconds. 204 on
// success.
func (h *Handler) HandleRevokeToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[RevokeTokenRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	ttl := time.Duration(req.TTLSeconds) * time.Second
	if err := h.service.RevokeToken(ctx, adminmw.ActorFrom(ctx), req.JTI, ttl); err != nil {
		h.fail(w, r, "revoke token", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
