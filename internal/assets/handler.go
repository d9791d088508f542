package assets

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/itledger/itledger/internal/authz"
	"github.com/itledger/itledger/internal/shared"
)

// Handler exposes asset listing endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
	guard   authz.Middleware
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, guard authz.Middleware) *Handler {
	return &Handler{logger: logger, service: service, guard: guard}
}

// MountRoutes registers asset routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireAny(authz.PermAssetsView))
		r.Get("/assets", h.listAssets)
		r.Get("/assets/{assetID}", h.getAsset)
	})
}

func (h *Handler) listAssets(w http.ResponseWriter, r *http.Request) {
	principal := authz.PrincipalFromContext(r.Context())
	if principal == nil {
		shared.RespondError(w, shared.ErrForbidden)
		return
	}

	req := ListRequest{
		Search: r.URL.Query().Get("q"),
		Status: r.URL.Query().Get("status"),
	}
	if raw := r.URL.Query().Get("projectId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			shared.RespondValidation(w, map[string]string{"projectId": "must be a positive integer"})
			return
		}
		req.ProjectID = &id
	}
	req.Page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	req.PerPage, _ = strconv.Atoi(r.URL.Query().Get("perPage"))

	result, err := h.service.List(r.Context(), principal.UserID, req)
	if err != nil {
		h.logger.Warn("list assets", slog.Int64("user_id", principal.UserID), slog.Any("error", err))
		shared.RespondError(w, err)
		return
	}
	shared.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) getAsset(w http.ResponseWriter, r *http.Request) {
	principal := authz.PrincipalFromContext(r.Context())
	if principal == nil {
		shared.RespondError(w, shared.ErrForbidden)
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "assetID"), 10, 64)
	if err != nil || id <= 0 {
		shared.RespondValidation(w, map[string]string{"assetID": "must be a positive integer"})
		return
	}
	asset, err := h.service.Get(r.Context(), principal.UserID, id)
	if err != nil {
		shared.RespondError(w, err)
		return
	}
	shared.RespondJSON(w, http.StatusOK, asset)
}
