package participant

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

// Handler handles HTTP requests for participant operations.
type Handler struct {
	service *Service
}

// NewHandler creates a new participant handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for participant endpoints.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Get("/{id}", h.GetByID)
	r.Patch("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)

	return r
}

// requesterID returns the requesting participant's id or "".
func requesterID(r *http.Request) string {
	id, _ := middleware.GetUserID(r.Context())
	return string(id)
}

// Create handles POST /participants
// @Summary      Register a participant
// @Tags         participants
// @Accept       json
// @Produce      json
// @Param        request body CreateParticipantRequest true "Participant creation request"
// @Success      201 {object} response.APIResponse{data=ParticipantResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /participants [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateParticipantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if req.DisplayName == "" || req.Email == "" {
		response.BadRequest(w, "display_name and email are required")
		return
	}

	p, err := h.service.Create(r.Context(), &req)
	if err != nil {
		if errors.Is(err, ErrEmailAlreadyInUse) {
			response.Conflict(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to create participant")
		return
	}
	response.JSON(w, http.StatusCreated, p.ToResponse(requesterID(r)))
}

// GetByID handles GET /participants/{id}
// @Summary      Get a participant
// @Tags         participants
// @Produce      json
// @Param        id path string true "Participant ID"
// @Success      200 {object} response.APIResponse{data=ParticipantResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /participants/{id} [get]
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id := split.ParticipantID(chi.URLParam(r, "id"))

	p, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrParticipantNotFound) {
			response.NotFound(w, "Participant not found")
			return
		}
		response.InternalError(w, "Failed to get participant")
		return
	}
	response.JSON(w, http.StatusOK, p.ToResponse(requesterID(r)))
}

// List handles GET /participants
// @Summary      List participants
// @Tags         participants
// @Produce      json
// @Param        page query int false "Page number"
// @Param        per_page query int false "Items per page"
// @Success      200 {object} response.APIResponse{data=[]ParticipantResponse}
// @Router       /participants [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))

	participants, total, err := h.service.List(r.Context(), page, perPage)
	if err != nil {
		response.InternalError(w, "Failed to list participants")
		return
	}

	me := requesterID(r)
	resp := make([]*ParticipantResponse, len(participants))
	for i, p := range participants {
		resp[i] = p.ToResponse(me)
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

// Update handles PATCH /participants/{id}
// @Summary      Update a participant
// @Tags         participants
// @Accept       json
// @Produce      json
// @Param        id path string true "Participant ID"
// @Param        request body UpdateParticipantRequest true "Fields to update"
// @Success      200 {object} response.APIResponse{data=ParticipantResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /participants/{id} [patch]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id := split.ParticipantID(chi.URLParam(r, "id"))

	var req UpdateParticipantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	p, err := h.service.Update(r.Context(), id, &req)
	if err != nil {
		if errors.Is(err, ErrParticipantNotFound) {
			response.NotFound(w, "Participant not found")
			return
		}
		response.InternalError(w, "Failed to update participant")
		return
	}
	response.JSON(w, http.StatusOK, p.ToResponse(requesterID(r)))
}

// Delete handles DELETE /participants/{id}
// @Summary      Delete a participant
// @Tags         participants
// @Param        id path string true "Participant ID"
// @Success      204 "No Content"
// @Router       /participants/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := split.ParticipantID(chi.URLParam(r, "id"))

	if err := h.service.Delete(r.Context(), id); err != nil {
		response.InternalError(w, "Failed to delete participant")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
