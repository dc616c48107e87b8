package owner

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/saishdhuri8/Authspark/internal/auth"
	"github.com/saishdhuri8/Authspark/internal/httputil"
	"github.com/saishdhuri8/Authspark/internal/logging"
	"github.com/saishdhuri8/Authspark/internal/project"
)

// ProjectLister is the slice of the project service the profile view needs
type ProjectLister interface {
	ListProjects(ctx context.Context, ownerID uuid.UUID) ([]project.Summary, error)
}

// Handler contains HTTP handlers for owner account endpoints
type Handler struct {
	service  *Service
	projects ProjectLister
	logger   *logging.Logger
}

func NewHandler(service *Service, projects ProjectLister, logger *logging.Logger) *Handler {
	return &Handler{
		service:  service,
		projects: projects,
		logger:   logger,
	}
}

// SignupRequest represents the owner registration request body
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents the owner login request body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SessionResponse represents the account plus a fresh session token
type SessionResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	Token     string    `json:"token"`
}

// ProjectRef is the compact project reference embedded in the profile view
type ProjectRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// ProfileResponse represents the authenticated owner's profile
type ProfileResponse struct {
	ID        uuid.UUID    `json:"id"`
	Name      string       `json:"name"`
	Email     string       `json:"email"`
	CreatedAt time.Time    `json:"createdAt"`
	Projects  []ProjectRef `json:"projects"`
}

// Signup handles owner registration
// @Summary      Register an owner account
// @Description  Create an operator account and receive a session token
// @Tags         owners
// @Accept       json
// @Produce      json
// @Param        request body SignupRequest true "Registration credentials"
// @Success      201 {object} SessionResponse
// @Failure      400 {object} httputil.ErrorResponse "Invalid credentials"
// @Failure      409 {object} httputil.ErrorResponse "Account already exists"
// @Failure      500 {object} httputil.ErrorResponse "Internal server error"
// @Router       /user/signup [post]
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, "Something is missing (Invalid credentials)", http.StatusBadRequest)
		return
	}

	newOwner, token, err := h.service.Signup(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrMissingFields),
			errors.Is(err, ErrInvalidEmailFormat),
			errors.Is(err, ErrPasswordTooShort):
			httputil.RespondError(w, "Something is missing (Invalid credentials)", http.StatusBadRequest)
		case errors.Is(err, ErrDuplicateEmail):
			httputil.RespondError(w, "User Already Exists", http.StatusConflict)
		default:
			logger.Error("owner signup failed", "error", err.Error())
			httputil.RespondError(w, "Internal Server Error", http.StatusInternalServerError)
		}
		return
	}

	logger.Info("owner registered", "owner_id", newOwner.ID)

	httputil.RespondJSON(w, SessionResponse{
		ID:        newOwner.ID,
		Name:      newOwner.Name,
		Email:     newOwner.Email,
		CreatedAt: newOwner.CreatedAt,
		Token:     token,
	}, http.StatusCreated)
}

// Login handles owner login
// @Summary      Owner login
// @Description  Authenticate an operator account and receive a session token
// @Tags         owners
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Login credentials"
// @Success      200 {object} SessionResponse
// @Failure      400 {object} httputil.ErrorResponse "Wrong password"
// @Failure      404 {object} httputil.ErrorResponse "User not found"
// @Failure      500 {object} httputil.ErrorResponse "Internal server error"
// @Router       /user/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, "Something is missing (Invalid credentials)", http.StatusBadRequest)
		return
	}

	currentOwner, token, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			httputil.RespondError(w, "User not found", http.StatusNotFound)
		case errors.Is(err, ErrWrongPassword):
			httputil.RespondError(w, "Wrong password", http.StatusBadRequest)
		default:
			logger.Error("owner login failed", "error", err.Error())
			httputil.RespondError(w, "Internal Server Error", http.StatusInternalServerError)
		}
		return
	}

	logger.Info("owner logged in", "owner_id", currentOwner.ID)

	httputil.RespondJSON(w, SessionResponse{
		ID:        currentOwner.ID,
		Name:      currentOwner.Name,
		Email:     currentOwner.Email,
		CreatedAt: currentOwner.CreatedAt,
		Token:     token,
	}, http.StatusOK)
}

// Profile handles the authenticated owner's profile view
// @Summary      Get owner profile
// @Description  Account fields plus the names of owned projects
// @Tags         owners
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} ProfileResponse
// @Failure      401 {object} httputil.ErrorResponse "Unauthorized"
// @Failure      404 {object} httputil.ErrorResponse "User not found"
// @Router       /user/get-user-data [get]
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	ownerID, ok := auth.GetOwnerIDFromContext(r.Context())
	if !ok {
		httputil.RespondError(w, "User is Unauthorised", http.StatusUnauthorized)
		return
	}

	currentOwner, err := h.service.Profile(r.Context(), ownerID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httputil.RespondError(w, "User not Found", http.StatusNotFound)
			return
		}
		logger.Error("failed to get owner profile", "error", err.Error())
		httputil.RespondError(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	summaries, err := h.projects.ListProjects(r.Context(), ownerID)
	if err != nil {
		logger.Error("failed to list owner projects", "error", err.Error())
		httputil.RespondError(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	refs := make([]ProjectRef, 0, len(summaries))
	for _, summary := range summaries {
		refs = append(refs, ProjectRef{ID: summary.ID, Name: summary.Name})
	}

	httputil.RespondJSON(w, ProfileResponse{
		ID:        currentOwner.ID,
		Name:      currentOwner.Name,
		Email:     currentOwner.Email,
		CreatedAt: currentOwner.CreatedAt,
		Projects:  refs,
	}, http.StatusOK)
}
