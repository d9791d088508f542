package auth

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/go-playground/validator/v10"

	"github.com/itledger/itledger/internal/authz"
	"github.com/itledger/itledger/internal/shared"
)

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
	loginRate int
}

// NewHandler constructs a Handler instance. loginRate limits login attempts
// per IP per minute; zero disables the limit.
func NewHandler(logger *slog.Logger, service *Service, loginRate int) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New(), loginRate: loginRate}
}

// MountRoutes registers the public auth routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		if h.loginRate > 0 {
			r.Use(httprate.Limit(h.loginRate, time.Minute, httprate.WithKeyFuncs(httprate.KeyByIP)))
		}
		r.Post("/auth/login", h.handleLogin)
	})
}

// MountProtected registers routes that require an authenticated principal.
func (h *Handler) MountProtected(r chi.Router) {
	r.Get("/auth/me", h.handleMe)
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      userView  `json:"user"`
}

type userView struct {
	ID    int64      `json:"id"`
	Email string     `json:"email"`
	Name  string     `json:"name"`
	Role  authz.Role `json:"role"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.RespondValidation(w, map[string]string{"body": "invalid json"})
		return
	}
	if err := h.validator.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fieldErr := range err.(validator.ValidationErrors) {
			fields[fieldErr.Field()] = fieldErr.Tag()
		}
		shared.RespondValidation(w, fields)
		return
	}
	result, err := h.service.Login(r.Context(), req.Email, req.Password, r.RemoteAddr, r.UserAgent())
	if err != nil {
		h.logger.Warn("login failed", slog.String("email", req.Email))
		shared.RespondError(w, err)
		return
	}
	shared.RespondJSON(w, http.StatusOK, loginResponse{
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
		User: userView{
			ID:    result.User.ID,
			Email: result.User.Email,
			Name:  result.User.Name,
			Role:  result.User.Role,
		},
	})
}

// handleMe echoes the principal carried by the presented token, snapshot included.
func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	principal := authz.PrincipalFromContext(r.Context())
	if principal == nil {
		shared.RespondJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthenticated"})
		return
	}
	shared.RespondJSON(w, http.StatusOK, map[string]any{
		"id":          principal.UserID,
		"name":        principal.Name,
		"role":        principal.Role,
		"permissions": principal.Permissions,
	})
}
