package projects

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/itledger/itledger/internal/authz"
	"github.com/itledger/itledger/internal/shared"
)

// Handler exposes project catalog and membership administration.
type Handler struct {
	logger  *slog.Logger
	service *Service
	guard   authz.Middleware
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, guard authz.Middleware) *Handler {
	return &Handler{logger: logger, service: service, guard: guard}
}

// MountRoutes registers project routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireAny(authz.PermProjectsView))
		r.Get("/projects", h.listProjects)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireAny(authz.PermProjectsEdit))
		r.Get("/users/{userID}/projects", h.listMembership)
		r.Put("/users/{userID}/projects", h.replaceMembership)
		r.Post("/users/{userID}/projects/{projectID}", h.addMember)
		r.Delete("/users/{userID}/projects/{projectID}", h.removeMember)
	})
}

func (h *Handler) listProjects(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ListProjects(r.Context())
	if err != nil {
		h.logger.Error("list projects", slog.Any("error", err))
		shared.RespondError(w, err)
		return
	}
	if list == nil {
		list = []Project{}
	}
	shared.RespondJSON(w, http.StatusOK, map[string]any{"projects": list})
}

func (h *Handler) listMembership(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "userID")
	if !ok {
		return
	}
	ids, err := h.service.MembershipOf(r.Context(), userID)
	if err != nil {
		h.logger.Error("list membership", slog.Int64("user_id", userID), slog.Any("error", err))
		shared.RespondError(w, err)
		return
	}
	if ids == nil {
		ids = []int64{}
	}
	shared.RespondJSON(w, http.StatusOK, map[string]any{"projectIds": ids})
}

type replaceMembershipRequest struct {
	ProjectIDs []int64 `json:"projectIds"`
}

func (h *Handler) replaceMembership(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "userID")
	if !ok {
		return
	}
	var req replaceMembershipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.RespondValidation(w, map[string]string{"body": "invalid json"})
		return
	}
	if err := h.service.SetMembership(r.Context(), userID, req.ProjectIDs); err != nil {
		h.logger.Warn("replace membership", slog.Int64("user_id", userID), slog.Any("error", err))
		shared.RespondError(w, err)
		return
	}
	shared.RespondJSON(w, http.StatusNoContent, nil)
}

func (h *Handler) addMember(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "userID")
	if !ok {
		return
	}
	projectID, ok := pathID(w, r, "projectID")
	if !ok {
		return
	}
	if err := h.service.AddMember(r.Context(), userID, projectID); err != nil {
		shared.RespondError(w, err)
		return
	}
	shared.RespondJSON(w, http.StatusNoContent, nil)
}

func (h *Handler) removeMember(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "userID")
	if !ok {
		return
	}
	projectID, ok := pathID(w, r, "projectID")
	if !ok {
		return
	}
	if err := h.service.RemoveMember(r.Context(), userID, projectID); err != nil {
		shared.RespondError(w, err)
		return
	}
	shared.RespondJSON(w, http.StatusNoContent, nil)
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		shared.RespondValidation(w, map[string]string{name: "must be a positive integer"})
		return 0, false
	}
	return id, true
}
