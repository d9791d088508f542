package permissions

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/itledger/itledger/internal/authz"
	"github.com/itledger/itledger/internal/shared"
)

// Handler exposes the permission catalog and per-user grant administration.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	guard     authz.Middleware
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, guard authz.Middleware) *Handler {
	return &Handler{logger: logger, service: service, guard: guard, validator: validator.New()}
}

// MountRoutes registers permission routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireAny(authz.PermUsersView, authz.PermUsersEdit))
		r.Get("/permissions/catalog", h.showCatalog)
		r.Get("/users/{userID}/permissions", h.listGrants)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireAny(authz.PermUsersEdit))
		r.Put("/users/{userID}/permissions", h.replaceGrants)
		r.Post("/users/{userID}/permissions", h.grant)
		r.Delete("/users/{userID}/permissions/{permission}", h.revoke)
	})
}

func (h *Handler) showCatalog(w http.ResponseWriter, r *http.Request) {
	shared.RespondJSON(w, http.StatusOK, map[string]any{"groups": authz.Groups()})
}

func (h *Handler) listGrants(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseUserID(w, r)
	if !ok {
		return
	}
	perms, err := h.service.GetPermissions(r.Context(), userID)
	if err != nil {
		h.logger.Error("list grants", slog.Int64("user_id", userID), slog.Any("error", err))
		shared.RespondError(w, err)
		return
	}
	if perms == nil {
		perms = []string{}
	}
	shared.RespondJSON(w, http.StatusOK, map[string]any{"permissions": perms})
}

type replaceGrantsRequest struct {
	Permissions []string `json:"permissions" validate:"required"`
}

func (h *Handler) replaceGrants(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseUserID(w, r)
	if !ok {
		return
	}
	var req replaceGrantsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.RespondValidation(w, map[string]string{"body": "invalid json"})
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondValidation(w, map[string]string{"permissions": "required"})
		return
	}
	if err := h.service.SetAll(r.Context(), userID, req.Permissions); err != nil {
		h.logger.Warn("replace grants", slog.Int64("user_id", userID), slog.Any("error", err))
		shared.RespondError(w, err)
		return
	}
	shared.RespondJSON(w, http.StatusNoContent, nil)
}

type grantRequest struct {
	Permission string `json:"permission" validate:"required"`
}

func (h *Handler) grant(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseUserID(w, r)
	if !ok {
		return
	}
	var req grantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.RespondValidation(w, map[string]string{"body": "invalid json"})
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondValidation(w, map[string]string{"permission": "required"})
		return
	}
	if err := h.service.Grant(r.Context(), userID, req.Permission); err != nil {
		shared.RespondError(w, err)
		return
	}
	shared.RespondJSON(w, http.StatusNoContent, nil)
}

func (h *Handler) revoke(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseUserID(w, r)
	if !ok {
		return
	}
	permission := chi.URLParam(r, "permission")
	if err := h.service.Revoke(r.Context(), userID, permission); err != nil {
		shared.RespondError(w, err)
		return
	}
	shared.RespondJSON(w, http.StatusNoContent, nil)
}

func parseUserID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil || id <= 0 {
		shared.RespondValidation(w, map[string]string{"userID": "must be a positive integer"})
		return 0, false
	}
	return id, true
}
