package handler

import (
	"log/slog"
	"net/http"

	"github.com/saasbase/projecthub/internal/domain"
	"github.com/saasbase/projecthub/internal/observability/metrics"
	"github.com/saasbase/projecthub/internal/security/audit"
	"github.com/saasbase/projecthub/internal/service"
)

// TeamHandler handles team member CRUD endpoints.
type TeamHandler struct {
	teamService *service.TeamService
	audit       *audit.Logger
	logger      *slog.Logger
}

// NewTeamHandler creates a new team handler
func NewTeamHandler(teamService *service.TeamService, auditLog *audit.Logger, logger *slog.Logger) *TeamHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TeamHandler{
		teamService: teamService,
		audit:       auditLog,
		logger:      logger,
	}
}

// CreateTeamMemberRequest represents team member creation request
type CreateTeamMemberRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

// UpdateTeamMemberRequest carries the optional role update.
type UpdateTeamMemberRequest struct {
	Role *string `json:"role"`
}

// Create handles POST /api/v1/team
func (h *TeamHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := callerClaims(w, r)
	if claims == nil {
		return
	}

	var req CreateTeamMemberRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	member, err := h.teamService.Create(r.Context(), claims.TenantID, claims.UserID, req.Email, req.Role)
	if err != nil {
		metrics.ObserveEntityOperation("team_member", "create", "error")
		writeError(w, h.logger, err)
		return
	}

	metrics.ObserveEntityOperation("team_member", "create", "ok")
	h.audit.LogAction(r.Context(), claims.TenantID, claims.UserID, "create", "team_member", member.ID, "created")

	writeSuccess(w, http.StatusCreated, "Team member added", member)
}

// List handles GET /api/v1/team
func (h *TeamHandler) List(w http.ResponseWriter, r *http.Request) {
	claims := callerClaims(w, r)
	if claims == nil {
		return
	}

	members, err := h.teamService.List(r.Context(), claims.TenantID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if members == nil {
		members = []*domain.TeamMember{}
	}

	writeSuccess(w, http.StatusOK, "Team members retrieved", members)
}

// Get handles GET /api/v1/team/{id}
func (h *TeamHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims := callerClaims(w, r)
	if claims == nil {
		return
	}

	id, err := parsePathID(r, "id")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	member, err := h.teamService.Get(r.Context(), id, claims.TenantID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Team member found", member)
}

// Update handles PUT /api/v1/team/{id}
func (h *TeamHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims := callerClaims(w, r)
	if claims == nil {
		return
	}

	id, err := parsePathID(r, "id")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	var req UpdateTeamMemberRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	member, err := h.teamService.Update(r.Context(), id, claims.TenantID, domain.TeamMemberPatch{Role: req.Role})
	if err != nil {
		metrics.ObserveEntityOperation("team_member", "update", "error")
		writeError(w, h.logger, err)
		return
	}

	metrics.ObserveEntityOperation("team_member", "update", "ok")
	h.audit.LogAction(r.Context(), claims.TenantID, claims.UserID, "update", "team_member", member.ID, "updated")

	writeSuccess(w, http.StatusOK, "Team member updated", member)
}

// Delete handles DELETE /api/v1/team/{id}
func (h *TeamHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims := callerClaims(w, r)
	if claims == nil {
		return
	}

	id, err := parsePathID(r, "id")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	if err := h.teamService.Delete(r.Context(), id, claims.TenantID); err != nil {
		metrics.ObserveEntityOperation("team_member", "delete", "error")
		writeError(w, h.logger, err)
		return
	}

	metrics.ObserveEntityOperation("team_member", "delete", "ok")
	h.audit.LogAction(r.Context(), claims.TenantID, claims.UserID, "delete", "team_member", id, "deleted")

	writeSuccess(w, http.StatusOK, "Team member removed", nil)
}
