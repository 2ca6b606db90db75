package group

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/akyildz/divvy/internal/expense/split"
	"github.com/akyildz/divvy/pkg/middleware"
	"github.com/akyildz/divvy/pkg/response"
)

// Handler handles HTTP requests for group operations.
type Handler struct {
	service *Service
}

// NewHandler creates a new group handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for group endpoints.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Get("/", h.ListMine)
	r.Get("/{id}", h.GetByID)
	r.Patch("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)

	r.Post("/{id}/members", h.AddMember)
	r.Get("/{id}/members", h.GetMembers)
	r.Delete("/{id}/members/{participantId}", h.RemoveMember)

	return r
}

// Create handles POST /groups
// @Summary      Create a group
// @Tags         groups
// @Accept       json
// @Produce      json
// @Param        request body CreateGroupRequest true "Group creation request"
// @Success      201 {object} response.APIResponse{data=GroupResponse}
// @Failure      400 {object} response.APIResponse
// @Router       /groups [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	creatorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authenticated user required")
		return
	}

	var req CreateGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if req.Name == "" {
		response.BadRequest(w, "name is required")
		return
	}

	g, err := h.service.Create(r.Context(), creatorID, &req)
	if err != nil {
		response.InternalError(w, "Failed to create group")
		return
	}
	response.JSON(w, http.StatusCreated, g.ToResponse())
}

// GetByID handles GET /groups/{id}
// @Summary      Get a group with its members
// @Tags         groups
// @Produce      json
// @Param        id path string true "Group ID"
// @Success      200 {object} response.APIResponse{data=GroupResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /groups/{id} [get]
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	g, members, err := h.service.GetByIDWithMembers(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrGroupNotFound) {
			response.NotFound(w, "Group not found")
			return
		}
		response.InternalError(w, "Failed to get group")
		return
	}

	resp := g.ToResponse()
	for _, m := range members {
		resp.Members = append(resp.Members, m.ToResponse())
	}
	response.JSON(w, http.StatusOK, resp)
}

// ListMine handles GET /groups
// @Summary      List the requesting participant's groups
// @Tags         groups
// @Produce      json
// @Param        page query int false "Page number"
// @Param        per_page query int false "Items per page"
// @Success      200 {object} response.APIResponse{data=[]GroupResponse}
// @Router       /groups [get]
func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authenticated user required")
		return
	}
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))

	groups, total, err := h.service.ListByParticipant(r.Context(), userID, page, perPage)
	if err != nil {
		response.InternalError(w, "Failed to list groups")
		return
	}

	resp := make([]*GroupResponse, len(groups))
	for i, g := range groups {
		resp[i] = g.ToResponse()
	}
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}
	response.JSONWithMeta(w, http.StatusOK, resp, &response.Meta{
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: (total + perPage - 1) / perPage,
	})
}

// Update handles PATCH /groups/{id}
// @Summary      Update a group
// @Tags         groups
// @Accept       json
// @Produce      json
// @Param        id path string true "Group ID"
// @Param        request body UpdateGroupRequest true "Fields to update"
// @Success      200 {object} response.APIResponse{data=GroupResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /groups/{id} [patch]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req UpdateGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	g, err := h.service.Update(r.Context(), id, &req)
	if err != nil {
		if errors.Is(err, ErrGroupNotFound) {
			response.NotFound(w, "Group not found")
			return
		}
		response.InternalError(w, "Failed to update group")
		return
	}
	response.JSON(w, http.StatusOK, g.ToResponse())
}

// Delete handles DELETE /groups/{id}
// @Summary      Delete a group
// @Tags         groups
// @Param        id path string true "Group ID"
// @Success      204 "No Content"
// @Router       /groups/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.InternalError(w, "Failed to delete group")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddMember handles POST /groups/{id}/members
// @Summary      Add a participant to a group
// @Tags         groups
// @Accept       json
// @Produce      json
// @Param        id path string true "Group ID"
// @Param        request body AddMemberRequest true "Member to add"
// @Success      201 {object} response.APIResponse{data=MemberResponse}
// @Failure      404 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /groups/{id}/members [post]
func (h *Handler) AddMember(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "id")

	var req AddMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if req.ParticipantID == "" {
		response.BadRequest(w, "participant_id is required")
		return
	}

	m, err := h.service.AddMember(r.Context(), groupID, split.ParticipantID(req.ParticipantID))
	if err != nil {
		switch {
		case errors.Is(err, ErrGroupNotFound):
			response.NotFound(w, "Group not found")
		case errors.Is(err, ErrMemberAlreadyExists):
			response.Conflict(w, err.Error())
		default:
			response.InternalError(w, "Failed to add member")
		}
		return
	}
	response.JSON(w, http.StatusCreated, m.ToResponse())
}

// GetMembers handles GET /groups/{id}/members
// @Summary      List group members
// @Tags         groups
// @Produce      json
// @Param        id path string true "Group ID"
// @Success      200 {object} response.APIResponse{data=[]MemberResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /groups/{id}/members [get]
func (h *Handler) GetMembers(w http.ResponseWriter, r *http.Request) {
	members, err := h.service.GetMembers(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, ErrGroupNotFound) {
			response.NotFound(w, "Group not found")
			return
		}
		response.InternalError(w, "Failed to get members")
		return
	}

	resp := make([]*MemberResponse, len(members))
	for i, m := range members {
		resp[i] = m.ToResponse()
	}
	response.JSON(w, http.StatusOK, resp)
}

// RemoveMember handles DELETE /groups/{id}/members/{participantId}
// @Summary      Remove a participant from a group
// @Tags         groups
// @Param        id path string true "Group ID"
// @Param        participantId path string true "Participant ID"
// @Success      204 "No Content"
// @Failure      404 {object} response.APIResponse
// @Router       /groups/{id}/members/{participantId} [delete]
func (h *Handler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "id")
	participantID := split.ParticipantID(chi.URLParam(r, "participantId"))

	if err := h.service.RemoveMember(r.Context(), groupID, participantID); err != nil {
		if errors.Is(err, ErrMemberNotFound) {
			response.NotFound(w, "Member not found")
			return
		}
		response.InternalError(w, "Failed to remove member")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
