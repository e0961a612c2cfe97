package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"namehaus/internal/registry/models"
	"namehaus/internal/roles"
	"namehaus/pkg/domain"
	dErrors "namehaus/pkg/domain-errors"
	"namehaus/pkg/events"
	"namehaus/pkg/platform/httputil"
	"namehaus/pkg/requestcontext"
)

// Service defines the registry operations the handler exposes.
type Service interface {
	List(ctx context.Context, name string, price domain.Amount) (domain.RecordID, error)
	SetPrice(ctx context.Context, id domain.RecordID, price domain.Amount) error
	Delist(ctx context.Context, id domain.RecordID) error
	Mint(ctx context.Context, id domain.RecordID, payment domain.Amount) error
	GetRecord(ctx context.Context, id domain.RecordID) (*models.Record, error)
	OwnerOf(ctx context.Context, id domain.RecordID) (domain.Identity, error)
	Resolve(ctx context.Context, id domain.RecordID) (string, error)
	MaxID(ctx context.Context) (domain.RecordID, error)
	TotalPurchased(ctx context.Context) (uint64, error)
	SetPaused(ctx context.Context, paused bool) error
	SetBaseURI(ctx context.Context, uri string) error
	Withdraw(ctx context.Context) (domain.Amount, error)
	Paused() bool
	BaseURI() string
}

// RoleService defines the role operations the handler exposes.
type RoleService interface {
	Grant(ctx context.Context, identity domain.Identity, role roles.Role) error
	Revoke(ctx context.Context, identity domain.Identity, role roles.Role) error
	Holds(identity domain.Identity, role roles.Role) bool
}

// EventReader is the read side of the event log for polling clients.
type EventReader interface {
	List(ctx context.Context) ([]events.Event, error)
	ListByRecord(ctx context.Context, id domain.RecordID) ([]events.Event, error)
}

// Handler wires registry endpoints to the registry, role and event services.
type Handler struct {
	service Service
	roles   RoleService
	events  EventReader
	logger  *slog.Logger
	auth    func(http.Handler) http.Handler
}

// New constructs a registry handler. auth wraps the mutating routes; pass nil
// to leave them open (tests).
func New(service Service, roleSvc RoleService, eventLog EventReader, logger *slog.Logger, auth func(http.Handler) http.Handler) *Handler {
	return &Handler{
		service: service,
		roles:   roleSvc,
		events:  eventLog,
		logger:  logger,
		auth:    auth,
	}
}

// Register mounts registry endpoints on the router. Reads are public; every
// mutating route sits behind the auth middleware.
func (h *Handler) Register(r chi.Router) {
	r.Get("/records/{id}", h.HandleGetRecord)
	r.Get("/records/{id}/owner", h.HandleOwnerOf)
	r.Get("/records/{id}/uri", h.HandleResolve)
	r.Get("/stats", h.HandleStats)
	r.Get("/events", h.HandleEvents)
	r.Get("/roles/{identity}", h.HandleGetRoles)

	r.Group(func(r chi.Router) {
		if h.auth != nil {
			r.Use(h.auth)
		}
		r.Post("/records", h.HandleList)
		r.Patch("/records/{id}/price", h.HandleSetPrice)
		r.Delete("/records/{id}", h.HandleDelist)
		r.Post("/records/{id}/mint", h.HandleMint)
		r.Put("/base-uri", h.HandleSetBaseURI)
		r.Put("/paused", h.HandleSetPaused)
		r.Post("/withdraw", h.HandleWithdraw)
		r.Post("/roles/grant", h.HandleGrantRole)
		r.Post("/roles/revoke", h.HandleRevokeRole)
	})
}

// HandleList handles POST /records.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[ListRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	id, err := h.service.List(ctx, req.Name, req.Price)
	if err != nil {
		h.logger.ErrorContext(ctx, "listing failed",
			"request_id", requestID,
			"name", req.Name,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "record listed",
		"request_id", requestID,
		"record_id", id,
		"price", req.Price,
	)
	httputil.WriteJSON(w, http.StatusCreated, ListResponse{ID: id})
}

// HandleSetPrice handles PATCH /records/{id}/price.
func (h *Handler) HandleSetPrice(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	id, ok := recordID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[SetPriceRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	if err := h.service.SetPrice(ctx, id, req.Price); err != nil {
		h.logger.ErrorContext(ctx, "price update failed",
			"request_id", requestID,
			"record_id", id,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleDelist handles DELETE /records/{id}.
func (h *Handler) HandleDelist(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	id, ok := recordID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delist(ctx, id); err != nil {
		h.logger.ErrorContext(ctx, "delisting failed",
			"request_id", requestID,
			"record_id", id,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleMint handles POST /records/{id}/mint.
func (h *Handler) HandleMint(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	id, ok := recordID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[MintRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	if err := h.service.Mint(ctx, id, req.Payment); err != nil {
		h.logger.ErrorContext(ctx, "mint failed",
			"request_id", requestID,
			"record_id", id,
			"payment", req.Payment,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "record minted",
		"request_id", requestID,
		"record_id", id,
		"payment", req.Payment,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	rec, err := h.service.GetRecord(ctx, id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromRecord(rec))
}

// HandleGetRecord handles GET /records/{id}.
func (h *Handler) HandleGetRecord(w http.ResponseWriter, r *http.Request) {
	id, ok := recordID(w, r)
	if !ok {
		return
	}
	rec, err := h.service.GetRecord(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromRecord(rec))
}

// HandleOwnerOf handles GET /records/{id}/owner.
func (h *Handler) HandleOwnerOf(w http.ResponseWriter, r *http.Request) {
	id, ok := recordID(w, r)
	if !ok {
		return
	}
	owner, err := h.service.OwnerOf(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, OwnerResponse{ID: id, Owner: owner})
}

// HandleResolve handles GET /records/{id}/uri.
func (h *Handler) HandleResolve(w http.ResponseWriter, r *http.Request) {
	id, ok := recordID(w, r)
	if !ok {
		return
	}
	uri, err := h.service.Resolve(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, URIResponse{ID: id, URI: uri})
}

// HandleStats handles GET /stats.
func (h *Handler) HandleStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	maxID, err := h.service.MaxID(ctx)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	total, err := h.service.TotalPurchased(ctx)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, StatsResponse{
		MaxID:          maxID,
		TotalPurchased: total,
		Paused:         h.service.Paused(),
		BaseURI:        h.service.BaseURI(),
	})
}

// HandleEvents handles GET /events, optionally filtered by ?record_id=N.
func (h *Handler) HandleEvents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var (
		list []events.Event
		err  error
	)
	if raw := r.URL.Query().Get("record_id"); raw != "" {
		id, perr := strconv.ParseUint(raw, 10, 64)
		if perr != nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid record_id"))
			return
		}
		list, err = h.events.ListByRecord(ctx, domain.RecordID(id))
	} else {
		list, err = h.events.List(ctx)
	}
	if err != nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read events"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, list)
}

// HandleSetBaseURI handles PUT /base-uri.
func (h *Handler) HandleSetBaseURI(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[BaseURIRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	if err := h.service.SetBaseURI(ctx, req.BaseURI); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleSetPaused handles PUT /paused.
func (h *Handler) HandleSetPaused(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[PausedRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	if err := h.service.SetPaused(ctx, req.Paused); err != nil {
		httputil.WriteError(w, err)
		return
	}
	h.logger.InfoContext(ctx, "pause gate set",
		"request_id", requestID,
		"paused", req.Paused,
	)
	w.WriteHeader(http.StatusNoContent)
}

// HandleWithdraw handles POST /withdraw.
func (h *Handler) HandleWithdraw(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	amount, err := h.service.Withdraw(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "withdrawal failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, WithdrawResponse{Amount: amount})
}

// HandleGrantRole handles POST /roles/grant.
func (h *Handler) HandleGrantRole(w http.ResponseWriter, r *http.Request) {
	h.handleRoleChange(w, r, h.roles.Grant, "role granted")
}

// HandleRevokeRole handles POST /roles/revoke.
func (h *Handler) HandleRevokeRole(w http.ResponseWriter, r *http.Request) {
	h.handleRoleChange(w, r, h.roles.Revoke, "role revoked")
}

func (h *Handler) handleRoleChange(w http.ResponseWriter, r *http.Request, change func(context.Context, domain.Identity, roles.Role) error, msg string) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[RoleRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	if err := change(ctx, req.ParsedIdentity(), req.ParsedRole()); err != nil {
		httputil.WriteError(w, err)
		return
	}
	h.logger.InfoContext(ctx, msg,
		"request_id", requestID,
		"identity", req.ParsedIdentity(),
		"role", req.Role,
	)
	w.WriteHeader(http.StatusNoContent)
}

// HandleGetRoles handles GET /roles/{identity}.
func (h *Handler) HandleGetRoles(w http.ResponseWriter, r *http.Request) {
	identity := domain.NormalizeIdentity(chi.URLParam(r, "identity"))
	if identity.IsZero() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "identity is required"))
		return
	}
	held := make([]string, 0, 2)
	for _, role := range []roles.Role{roles.Admin, roles.Lister} {
		if h.roles.Holds(identity, role) {
			held = append(held, role.String())
		}
	}
	httputil.WriteJSON(w, http.StatusOK, RolesResponse{Identity: identity, Roles: held})
}

func recordID(w http.ResponseWriter, r *http.Request) (domain.RecordID, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid record id"))
		return 0, false
	}
	return domain.RecordID(id), true
}
