package projectuser

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/saishdhuri8/Authspark/internal/auth"
	"github.com/saishdhuri8/Authspark/internal/httputil"
	"github.com/saishdhuri8/Authspark/internal/logging"
	"github.com/saishdhuri8/Authspark/internal/project"
)

// Handler contains HTTP handlers for end-user endpoints. Every route runs
// behind the API-key gate; the session gate additionally covers everything
// outside the public allow-list.
type Handler struct {
	service *Service
	logger  *logging.Logger
}

func NewHandler(service *Service, logger *logging.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// SignupRequest represents the end-user signup request body
type SignupRequest struct {
	APIKey   string         `json:"apiKey"`
	Email    string         `json:"email"`
	Password string         `json:"password"`
	Metadata map[string]any `json:"metadata"`
}

// LoginRequest represents the end-user login request body
type LoginRequest struct {
	APIKey   string `json:"apiKey"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ToggleActiveRequest represents the toggle-active request body. The session
// token travels in the payload because this route is callable without a
// session gate pass.
type ToggleActiveRequest struct {
	APIKey string `json:"apiKey"`
	Token  string `json:"token"`
	Active *bool  `json:"active"`
}

// UpdateMetadataRequest represents the metadata replacement request body
type UpdateMetadataRequest struct {
	APIKey   string         `json:"apiKey"`
	Metadata map[string]any `json:"metadata"`
}

// SignupResponse represents the end-user signup response
type SignupResponse struct {
	Message string     `json:"message"`
	Token   string     `json:"token"`
	User    PublicUser `json:"user"`
}

// LoginResponse represents the end-user login response
type LoginResponse struct {
	User  PublicUser `json:"user"`
	Token string     `json:"token"`
}

// UserInfoResponse wraps the end-user's own public fields
type UserInfoResponse struct {
	User PublicUser `json:"user"`
}

// Signup handles end-user registration inside the API key's project
// @Summary      End-user signup
// @Description  Create an end-user in the project the API key is scoped to
// @Tags         project-users
// @Accept       json
// @Produce      json
// @Param        request body SignupRequest true "API key plus credentials"
// @Success      201 {object} SignupResponse
// @Failure      400 {object} httputil.ErrorResponse "Parameters are missing"
// @Failure      401 {object} httputil.ErrorResponse "Api key missing or invalid"
// @Failure      404 {object} httputil.ErrorResponse "Project not found"
// @Failure      409 {object} httputil.ErrorResponse "User already exists"
// @Router       /project-users/signup [post]
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	scope, ok := auth.GetScopeFromContext(r.Context())
	if !ok {
		httputil.RespondError(w, "Api key missing or invalid", http.StatusUnauthorized)
		return
	}

	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, "Parameters are missing", http.StatusBadRequest)
		return
	}

	newUser, token, err := h.service.Signup(r.Context(), scope, req.Email, req.Password, req.Metadata)
	if err != nil {
		switch {
		case errors.Is(err, ErrMissingParams):
			httputil.RespondError(w, "Parameters are missing", http.StatusBadRequest)
		case errors.Is(err, project.ErrNotFound):
			httputil.RespondError(w, "Project not found", http.StatusNotFound)
		case errors.Is(err, project.ErrDuplicateEmail):
			httputil.RespondError(w, "User already exists", http.StatusConflict)
		default:
			logger.Error("end-user signup failed", "error", err.Error())
			httputil.RespondError(w, "Server error", http.StatusInternalServerError)
		}
		return
	}

	logger.Info("end-user registered", "project_id", scope.ProjectID, "project_user_id", newUser.ID)

	httputil.RespondJSON(w, SignupResponse{
		Message: "User created successfully",
		Token:   token,
		User:    *newUser,
	}, http.StatusCreated)
}

// Login handles end-user login inside the API key's project
// @Summary      End-user login
// @Description  Authenticate an end-user of the project the API key is scoped to
// @Tags         project-users
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "API key plus credentials"
// @Success      200 {object} LoginResponse
// @Failure      401 {object} httputil.ErrorResponse "Incorrect password"
// @Failure      404 {object} httputil.ErrorResponse "User not found"
// @Router       /project-users/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	scope, ok := auth.GetScopeFromContext(r.Context())
	if !ok {
		httputil.RespondError(w, "Api key missing or invalid", http.StatusUnauthorized)
		return
	}

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, "Parameters are missing", http.StatusBadRequest)
		return
	}

	currentUser, token, err := h.service.Login(r.Context(), scope, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrMissingParams):
			httputil.RespondError(w, "Parameters are missing", http.StatusBadRequest)
		case errors.Is(err, project.ErrNotFound):
			httputil.RespondError(w, "Project not found", http.StatusNotFound)
		case errors.Is(err, project.ErrUserNotFound):
			httputil.RespondError(w, "User not found", http.StatusNotFound)
		case errors.Is(err, ErrWrongPassword):
			httputil.RespondError(w, "Incorrect password", http.StatusUnauthorized)
		default:
			logger.Error("end-user login failed", "error", err.Error())
			httputil.RespondError(w, "Server error", http.StatusInternalServerError)
		}
		return
	}

	logger.Info("end-user logged in", "project_id", scope.ProjectID, "project_user_id", currentUser.ID)

	httputil.RespondJSON(w, LoginResponse{
		User:  *currentUser,
		Token: token,
	}, http.StatusOK)
}

// GetUserInfo handles the authenticated end-user's own profile view
// @Summary      Get own info
// @Description  Public fields of the end-user the session token belongs to
// @Tags         project-users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} UserInfoResponse
// @Failure      403 {object} httputil.ErrorResponse "Invalid or expired token"
// @Failure      404 {object} httputil.ErrorResponse "User Not Found"
// @Router       /project-users/get-user-info [post]
func (h *Handler) GetUserInfo(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	scope, ok := auth.GetScopeFromContext(r.Context())
	if !ok {
		httputil.RespondError(w, "Api key missing or invalid", http.StatusUnauthorized)
		return
	}
	projectUserID, ok := auth.GetProjectUserIDFromContext(r.Context())
	if !ok {
		httputil.RespondError(w, "Missing credentials", http.StatusBadRequest)
		return
	}

	currentUser, err := h.service.GetInfo(r.Context(), scope, projectUserID)
	if err != nil {
		if errors.Is(err, project.ErrUserNotFound) {
			httputil.RespondError(w, "User Not Found", http.StatusNotFound)
			return
		}
		logger.Error("failed to get end-user info", "error", err.Error())
		httputil.RespondError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, UserInfoResponse{User: *currentUser}, http.StatusOK)
}

// ToggleActive handles the active-flag flip driven by a payload token
// @Summary      Toggle active flag
// @Description  Set the end-user's active flag using the session token carried in the body
// @Tags         project-users
// @Accept       json
// @Produce      json
// @Param        request body ToggleActiveRequest true "API key, token and desired flag"
// @Success      200 {object} map[string]string
// @Failure      400 {object} httputil.ErrorResponse "Missing or invalid credentials"
// @Failure      404 {object} httputil.ErrorResponse "User not found"
// @Router       /project-users/toggle-active-user [post]
func (h *Handler) ToggleActive(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	scope, ok := auth.GetScopeFromContext(r.Context())
	if !ok {
		httputil.RespondError(w, "Api key missing or invalid", http.StatusUnauthorized)
		return
	}

	var req ToggleActiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Token == "" || req.Active == nil {
		httputil.RespondError(w, "Missing or invalid credentials", http.StatusBadRequest)
		return
	}

	err := h.service.ToggleActive(r.Context(), scope, req.Token, *req.Active)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidToken):
			httputil.RespondError(w, "User not found", http.StatusNotFound)
		case errors.Is(err, project.ErrUserNotFound):
			httputil.RespondError(w, "Project or user not found", http.StatusNotFound)
		default:
			logger.Error("failed to toggle end-user active flag", "error", err.Error())
			httputil.RespondError(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	httputil.RespondJSON(w, map[string]string{"message": "User active status updated successfully"}, http.StatusOK)
}

// UpdateMetadata handles the wholesale metadata replacement
// @Summary      Update metadata
// @Description  Replace the end-user's metadata document wholesale
// @Tags         project-users
// @Accept       json
// @Produce      json
// @Param        request body UpdateMetadataRequest true "API key plus new metadata"
// @Security     BearerAuth
// @Success      200 {object} map[string]string
// @Failure      400 {object} httputil.ErrorResponse "Missing credentials or metadata"
// @Failure      404 {object} httputil.ErrorResponse "Project or user not found"
// @Router       /project-users/update-metadata [post]
func (h *Handler) UpdateMetadata(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	scope, ok := auth.GetScopeFromContext(r.Context())
	if !ok {
		httputil.RespondError(w, "Api key missing or invalid", http.StatusUnauthorized)
		return
	}
	projectUserID, ok := auth.GetProjectUserIDFromContext(r.Context())
	if !ok {
		httputil.RespondError(w, "Missing credentials or metadata", http.StatusBadRequest)
		return
	}

	var req UpdateMetadataRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Metadata == nil {
		httputil.RespondError(w, "Missing credentials or metadata", http.StatusBadRequest)
		return
	}

	err := h.service.UpdateMetadata(r.Context(), scope, projectUserID, req.Metadata)
	if err != nil {
		if errors.Is(err, project.ErrUserNotFound) {
			httputil.RespondError(w, "Project or user not found", http.StatusNotFound)
			return
		}
		logger.Error("failed to update end-user metadata", "error", err.Error())
		httputil.RespondError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, map[string]string{"message": "Metadata updated successfully"}, http.StatusOK)
}
