package handler

import (
	"log/slog"
	"net/http"

	"github.com/saasbase/projecthub/internal/domain"
	"github.com/saasbase/projecthub/internal/service"
)

// UserHandler handles profile endpoints.
type UserHandler struct {
	userService *service.UserService
	logger      *slog.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *service.UserService, logger *slog.Logger) *UserHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserHandler{userService: userService, logger: logger}
}

// UpdateUserRequest carries the optional profile fields. Absent fields are
// left unchanged.
type UpdateUserRequest struct {
	CompanyName *string `json:"company_name"`
	Phone       *string `json:"phone"`
}

// Get handles GET /api/v1/users/{id}
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims := callerClaims(w, r)
	if claims == nil {
		return
	}

	id, err := parsePathID(r, "id")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	user, err := h.userService.Get(r.Context(), id, claims.TenantID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeSuccess(w, http.StatusOK, "User found", user)
}

// Update handles PUT /api/v1/users/{id}
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims := callerClaims(w, r)
	if claims == nil {
		return
	}

	id, err := parsePathID(r, "id")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	var req UpdateUserRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	patch := domain.UserPatch{
		CompanyName: req.CompanyName,
		Phone:       req.Phone,
	}

	user, err := h.userService.Update(r.Context(), id, claims.TenantID, patch)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeSuccess(w, http.StatusOK, "User updated", user)
}
