package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rutdashboard/rut-dashboard-api/src/metrics"
	"github.com/rutdashboard/rut-dashboard-api/src/models"
	"github.com/rutdashboard/rut-dashboard-api/src/services"
)

// AdminManager is the administrator use-case consumed by AdminHandler
type AdminManager interface {
	Login(ctx context.Context, email, password string) (*services.LoginResult, error)
	Create(ctx context.Context, input services.CreateAdminInput) (*models.Admin, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Admin, error)
	List(ctx context.Context, opts models.PaginationOptions) (models.Page[models.Admin], error)
	ListActive(ctx context.Context) ([]models.Admin, error)
	Update(ctx context.Context, actor, id uuid.UUID, input services.UpdateAdminInput) (*models.Admin, error)
	ChangePassword(ctx context.Context, id uuid.UUID, newPassword string) error
	Delete(ctx context.Context, actor, id uuid.UUID) error
	ToggleStatus(ctx context.Context, actor, id uuid.UUID) (*models.Admin, error)
}

// AdminHandler handles administrator accounts
type AdminHandler struct {
	admins AdminManager
	Responder
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(admins AdminManager, responder Responder) *AdminHandler {
	return &AdminHandler{admins: admins, Responder: responder}
}

// LoginRequest is the login body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CreateAdminRequest is the create-admin body
type CreateAdminRequest struct {
	Name     string      `json:"name"`
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Role     models.Role `json:"role"`
}

// UpdateAdminRequest is the partial update body
type UpdateAdminRequest struct {
	Name     *string      `json:"name"`
	Email    *string      `json:"email"`
	Password *string      `json:"password"`
	Role     *models.Role `json:"role"`
	IsActive *bool        `json:"isActive"`
}

// ChangePasswordRequest is the change-password body
type ChangePasswordRequest struct {
	NewPassword string `json:"newPassword"`
}

// HandleLogin handles POST /api/v1/admin/login
func (h *AdminHandler) HandleLogin(c *gin.Context) {
	var req LoginRequest
	if err := bindJSON(c, &req); err != nil || req.Email == "" || req.Password == "" {
		respondFailure(c, http.StatusBadRequest, "Email and password are required")
		return
	}

	result, err := h.admins.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		metrics.RecordLogin("failure")
		h.Error(c, err)
		return
	}

	metrics.RecordLogin("success")
	respondSuccess(c, http.StatusOK, result, "Login successful")
}

// HandleProfile handles GET /api/v1/admin/profile
func (h *AdminHandler) HandleProfile(c *gin.Context) {
	id, ok := currentAdminID(c)
	if !ok {
		respondFailure(c, http.StatusUnauthorized, "User not authenticated")
		return
	}

	admin, err := h.admins.GetByID(c.Request.Context(), id)
	if err != nil {
		h.Error(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, admin, "Profile retrieved successfully")
}

// HandleChangePassword handles PUT /api/v1/admin/change-password
func (h *AdminHandler) HandleChangePassword(c *gin.Context) {
	id, ok := currentAdminID(c)
	if !ok {
		respondFailure(c, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req ChangePasswordRequest
	if err := bindJSON(c, &req); err != nil || len(req.NewPassword) < services.MinPasswordLength {
		respondFailure(c, http.StatusBadRequest, "New password must be at least 6 characters long")
		return
	}

	if err := h.admins.ChangePassword(c.Request.Context(), id, req.NewPassword); err != nil {
		h.Error(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, nil, "Password changed successfully")
}

// HandleListActive handles GET /api/v1/admin/active
func (h *AdminHandler) HandleListActive(c *gin.Context) {
	admins, err := h.admins.ListActive(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, admins, "Active admins retrieved successfully")
}

// HandleList handles GET /api/v1/admin
func (h *AdminHandler) HandleList(c *gin.Context) {
	page, err := h.admins.List(c.Request.Context(), paginationFromQuery(c))
	if err != nil {
		h.Error(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, page, "Admins retrieved successfully")
}

// HandleGet handles GET /api/v1/admin/:id
func (h *AdminHandler) HandleGet(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		h.Error(c, err)
		return
	}

	admin, err := h.admins.GetByID(c.Request.Context(), id)
	if err != nil {
		h.Error(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, admin, "Admin retrieved successfully")
}

// HandleCreate handles POST /api/v1/admin
func (h *AdminHandler) HandleCreate(c *gin.Context) {
	var req CreateAdminRequest
	if err := bindJSON(c, &req); err != nil || req.Name == "" || req.Email == "" || req.Password == "" || req.Role == "" {
		respondFailure(c, http.StatusBadRequest, "Name, email, password, and role are required")
		return
	}
	if !req.Role.Valid() {
		respondFailure(c, http.StatusBadRequest, "Invalid role specified")
		return
	}

	admin, err := h.admins.Create(c.Request.Context(), services.CreateAdminInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		h.Error(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, admin, "Admin created successfully")
}

// HandleUpdate handles PUT /api/v1/admin/:id
func (h *AdminHandler) HandleUpdate(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		h.Error(c, err)
		return
	}

	var req UpdateAdminRequest
	if err := bindJSON(c, &req); err != nil {
		respondFailure(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Role != nil && !req.Role.Valid() {
		respondFailure(c, http.StatusBadRequest, "Invalid role specified")
		return
	}

	actor, _ := currentAdminID(c)
	if actor == id && req.IsActive != nil && !*req.IsActive {
		respondFailure(c, http.StatusBadRequest, "Cannot change your own status")
		return
	}

	admin, err := h.admins.Update(c.Request.Context(), actor, id, services.UpdateAdminInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
		IsActive: req.IsActive,
	})
	if err != nil {
		h.Error(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, admin, "Admin updated successfully")
}

// HandleDelete handles DELETE /api/v1/admin/:id
func (h *AdminHandler) HandleDelete(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		h.Error(c, err)
		return
	}

	actor, _ := currentAdminID(c)
	if actor == id {
		respondFailure(c, http.StatusBadRequest, "Cannot delete your own account")
		return
	}

	if err := h.admins.Delete(c.Request.Context(), actor, id); err != nil {
		h.Error(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, nil, "Admin deleted successfully")
}

// HandleToggleStatus handles PATCH /api/v1/admin/:id/toggle-status
func (h *AdminHandler) HandleToggleStatus(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		h.Error(c, err)
		return
	}

	actor, _ := currentAdminID(c)
	if actor == id {
		respondFailure(c, http.StatusBadRequest, "Cannot change your own status")
		return
	}

	admin, err := h.admins.ToggleStatus(c.Request.Context(), actor, id)
	if err != nil {
		h.Error(c, err)
		return
	}

	status := "deactivated"
	if admin.IsActive {
		status = "activated"
	}
	respondSuccess(c, http.StatusOK, admin, "Admin "+status+" successfully")
}
