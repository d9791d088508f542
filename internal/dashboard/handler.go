package dashboard

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/itledger/itledger/internal/authz"
	"github.com/itledger/itledger/internal/shared"
)

// Handler exposes the dashboard summary endpoint.
type Handler struct {
	logger  *slog.Logger
	service *Service
	guard   authz.Middleware
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, guard authz.Middleware) *Handler {
	return &Handler{logger: logger, service: service, guard: guard}
}

// MountRoutes registers dashboard routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireAny(authz.PermReportsView))
		r.Get("/dashboard", h.summary)
	})
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	principal := authz.PrincipalFromContext(r.Context())
	if principal == nil {
		shared.RespondError(w, shared.ErrForbidden)
		return
	}
	summary, err := h.service.Summarize(r.Context(), principal.UserID)
	if err != nil {
		h.logger.Error("dashboard summary", slog.Int64("user_id", principal.UserID), slog.Any("error", err))
		shared.RespondError(w, err)
		return
	}
	shared.RespondJSON(w, http.StatusOK, summary)
}
