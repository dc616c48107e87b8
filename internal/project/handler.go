package project

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/saishdhuri8/Authspark/internal/auth"
	"github.com/saishdhuri8/Authspark/internal/httputil"
	"github.com/saishdhuri8/Authspark/internal/logging"
)

// Handler contains HTTP handlers for owner-facing project endpoints
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

// CreateProjectRequest represents the project creation request body
type CreateProjectRequest struct {
	Name           string `json:"name"`
	TokenValidTime int    `json:"tokenValidTime"`
	URLForSignup   string `json:"urlForSignup"`
}

// CreateProjectResponse represents the project creation response
type CreateProjectResponse struct {
	Name       string    `json:"name"`
	ID         uuid.UUID `json:"id"`
	TotalUsers int       `json:"totalUsers"`
	CreatedAt  time.Time `json:"createdAt"`
	APIKey     string    `json:"apiKey"`
}

// ProjectIDRequest carries only the target project id
type ProjectIDRequest struct {
	ProjectID uuid.UUID `json:"projectId"`
}

// ListUsersRequest represents the paged user listing request body
type ListUsersRequest struct {
	ProjectID uuid.UUID `json:"projectId"`
	Page      int       `json:"page"`
}

// UpdateProjectRequest represents the settings update request body.
// Absent fields keep their prior value.
type UpdateProjectRequest struct {
	ProjectID      uuid.UUID `json:"projectId"`
	TokenValidTime *int      `json:"tokenValidTime"`
	URLForSignup   *string   `json:"urlForSignup"`
}

// StatsRequest represents the monthly stats request body
type StatsRequest struct {
	ProjectID uuid.UUID `json:"projectId"`
	Year      int       `json:"year"`
}

// DeleteUserRequest represents the user deletion request body
type DeleteUserRequest struct {
	ProjectID uuid.UUID `json:"projectId"`
	Email     string    `json:"email"`
}

// UpdateProjectResponse reports whether the settings update matched a project
type UpdateProjectResponse struct {
	Success bool `json:"success"`
}

// CreateProject handles project creation
// @Summary      Create a project
// @Description  Create an isolated tenant namespace and mint its API key
// @Tags         projects
// @Accept       json
// @Produce      json
// @Param        request body CreateProjectRequest true "Project settings"
// @Security     BearerAuth
// @Success      201 {object} CreateProjectResponse
// @Failure      400 {object} httputil.ErrorResponse "Missing credentials"
// @Failure      401 {object} httputil.ErrorResponse "Unauthorized"
// @Failure      500 {object} httputil.ErrorResponse "Internal server error"
// @Router       /user/create-project [post]
func (h *Handler) CreateProject(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	ownerID, ok := auth.GetOwnerIDFromContext(r.Context())
	if !ok {
		httputil.RespondError(w, "User is Unauthorised", http.StatusUnauthorized)
		return
	}

	var req CreateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, "Missing credentials", http.StatusBadRequest)
		return
	}

	newProject, err := h.service.CreateProject(r.Context(), ownerID, req.Name, req.TokenValidTime, req.URLForSignup)
	if err != nil {
		if errors.Is(err, ErrMissingFields) {
			httputil.RespondError(w, "Missing credentials", http.StatusBadRequest)
			return
		}
		logger.Error("project creation failed", "error", err.Error())
		httputil.RespondError(w, "Something went wrong on server side", http.StatusInternalServerError)
		return
	}

	logger.Info("project created", "project_id", newProject.ID, "owner_id", ownerID)

	httputil.RespondJSON(w, CreateProjectResponse{
		Name:       newProject.Name,
		ID:         newProject.ID,
		TotalUsers: 0,
		CreatedAt:  newProject.CreatedAt,
		APIKey:     newProject.APIKey,
	}, http.StatusCreated)
}

// GetProjectInfo handles the project detail view
// @Summary      Get project info
// @Description  Settings plus derived page count for the dashboard
// @Tags         projects
// @Accept       json
// @Produce      json
// @Param        request body ProjectIDRequest true "Project id"
// @Security     BearerAuth
// @Success      200 {object} Info
// @Failure      400 {object} httputil.ErrorResponse "Missing projectId"
// @Failure      404 {object} httputil.ErrorResponse "Project not found"
// @Router       /user/get-project-info [post]
func (h *Handler) GetProjectInfo(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	ownerID, ok := auth.GetOwnerIDFromContext(r.Context())
	if !ok {
		httputil.RespondError(w, "User is Unauthorised", http.StatusUnauthorized)
		return
	}

	var req ProjectIDRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ProjectID == uuid.Nil {
		httputil.RespondError(w, "Missing projectId or userId", http.StatusBadRequest)
		return
	}

	info, err := h.service.GetInfo(r.Context(), req.ProjectID, ownerID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httputil.RespondError(w, "Project not found", http.StatusNotFound)
			return
		}
		logger.Error("failed to get project info", "error", err.Error())
		httputil.RespondError(w, "Server error", http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, info, http.StatusOK)
}

// ListProjects handles the project listing
// @Summary      List projects
// @Description  Summaries of every project owned by the authenticated owner
// @Tags         projects
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} Summary
// @Failure      401 {object} httputil.ErrorResponse "Unauthorized"
// @Router       /user/get-all-projects [post]
func (h *Handler) ListProjects(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	ownerID, ok := auth.GetOwnerIDFromContext(r.Context())
	if !ok {
		httputil.RespondError(w, "User is Unauthorised", http.StatusUnauthorized)
		return
	}

	summaries, err := h.service.ListProjects(r.Context(), ownerID)
	if err != nil {
		logger.Error("failed to list projects", "error", err.Error())
		httputil.RespondError(w, "Something went wrong", http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, summaries, http.StatusOK)
}

// ListProjectUsers handles the paged user listing
// @Summary      List project users
// @Description  One fixed-size page of end-users plus whole-project counters
// @Tags         projects
// @Accept       json
// @Produce      json
// @Param        request body ListUsersRequest true "Project id and 0-based page"
// @Security     BearerAuth
// @Success      200 {object} UserPage
// @Failure      404 {object} httputil.ErrorResponse "Project not found or unauthorized"
// @Router       /user/get-users-of-project [post]
func (h *Handler) ListProjectUsers(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	ownerID, ok := auth.GetOwnerIDFromContext(r.Context())
	if !ok {
		httputil.RespondError(w, "User is Unauthorised", http.StatusUnauthorized)
		return
	}

	var req ListUsersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ProjectID == uuid.Nil {
		httputil.RespondError(w, "Missing userId or projectId", http.StatusBadRequest)
		return
	}

	userPage, err := h.service.ListUsersPage(r.Context(), req.ProjectID, ownerID, req.Page)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httputil.RespondError(w, "Project not found or unauthorized", http.StatusNotFound)
			return
		}
		logger.Error("failed to list project users", "error", err.Error())
		httputil.RespondError(w, "Server error", http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, userPage, http.StatusOK)
}

// UpdateProject handles partial settings updates
// @Summary      Update project settings
// @Description  Update token validity and/or signup webhook URL; absent fields keep their prior value
// @Tags         projects
// @Accept       json
// @Produce      json
// @Param        request body UpdateProjectRequest true "Settings"
// @Security     BearerAuth
// @Success      200 {object} UpdateProjectResponse
// @Failure      400 {object} httputil.ErrorResponse "Missing projectId"
// @Router       /user/update-project [post]
func (h *Handler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	ownerID, ok := auth.GetOwnerIDFromContext(r.Context())
	if !ok {
		httputil.RespondError(w, "User is Unauthorised", http.StatusUnauthorized)
		return
	}

	var req UpdateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ProjectID == uuid.Nil {
		httputil.RespondError(w, "Missing projectId or userId", http.StatusBadRequest)
		return
	}

	err := h.service.UpdateSettings(r.Context(), req.ProjectID, ownerID, req.TokenValidTime, req.URLForSignup)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httputil.RespondJSON(w, UpdateProjectResponse{Success: false}, http.StatusOK)
			return
		}
		logger.Error("failed to update project", "error", err.Error())
		httputil.RespondJSON(w, UpdateProjectResponse{Success: false}, http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, UpdateProjectResponse{Success: true}, http.StatusOK)
}

// MonthlyStats handles the signup aggregation
// @Summary      Monthly signup stats
// @Description  Twelve zero-filled signup buckets for a calendar year
// @Tags         projects
// @Accept       json
// @Produce      json
// @Param        request body StatsRequest true "Project id and year"
// @Security     BearerAuth
// @Success      200 {array} MonthlyStat
// @Failure      404 {object} httputil.ErrorResponse "Project not found"
// @Router       /user/get-users-stats [post]
func (h *Handler) MonthlyStats(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	ownerID, ok := auth.GetOwnerIDFromContext(r.Context())
	if !ok {
		httputil.RespondError(w, "User is Unauthorised", http.StatusUnauthorized)
		return
	}

	var req StatsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ProjectID == uuid.Nil {
		httputil.RespondError(w, "Missing projectId or userId", http.StatusBadRequest)
		return
	}

	stats, err := h.service.MonthlyStats(r.Context(), req.ProjectID, ownerID, req.Year)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httputil.RespondError(w, "Project not found", http.StatusNotFound)
			return
		}
		logger.Error("failed to aggregate stats", "error", err.Error())
		httputil.RespondError(w, "Something went wrong", http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, stats, http.StatusOK)
}

// DeleteUser handles owner-initiated user removal
// @Summary      Delete a project user
// @Description  Remove an end-user from a project by email
// @Tags         projects
// @Accept       json
// @Produce      json
// @Param        request body DeleteUserRequest true "Project id and user email"
// @Security     BearerAuth
// @Success      200 {object} map[string]string
// @Failure      404 {object} httputil.ErrorResponse "Project or user not found"
// @Router       /user/delete-user-from-project [post]
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	ownerID, ok := auth.GetOwnerIDFromContext(r.Context())
	if !ok {
		httputil.RespondError(w, "User is Unauthorised", http.StatusUnauthorized)
		return
	}

	var req DeleteUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ProjectID == uuid.Nil || req.Email == "" {
		httputil.RespondError(w, "Something is missing", http.StatusBadRequest)
		return
	}

	err := h.service.DeleteUser(r.Context(), req.ProjectID, ownerID, req.Email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			httputil.RespondError(w, "Project or user not found", http.StatusNotFound)
			return
		}
		logger.Error("failed to delete project user", "error", err.Error())
		httputil.RespondError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	logger.Info("project user removed", "project_id", req.ProjectID, "email", req.Email)

	httputil.RespondJSON(w, map[string]string{"message": "User removed successfully"}, http.StatusOK)
}
