package settlement

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/akyildz/divvy/pkg/middleware"
	"github.com/akyildz/divvy/pkg/response"
)

// Handler handles HTTP requests for settlement operations.
type Handler struct {
	service *Service
}

// NewHandler creates a new settlement handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for settlement endpoints.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Get("/", h.ListMine)
	r.Get("/{id}", h.GetByID)
	r.Post("/{id}/confirm", h.Confirm)
	r.Post("/{id}/cancel", h.Cancel)

	return r
}

// Create handles POST /settlements
// @Summary      Start a settle-up with another participant
// @Description  The pairwise net of pending splits decides who pays whom and how much
// @Tags         settlements
// @Accept       json
// @Produce      json
// @Param        request body CreateSettlementRequest true "Settlement request"
// @Success      201 {object} response.APIResponse{data=SettlementResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /settlements [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authenticated user required")
		return
	}

	var req CreateSettlementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	stl, err := h.service.Create(r.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrCannotSettleSelf):
			response.BadRequest(w, err.Error())
		case errors.Is(err, ErrAlreadySettled):
			response.Conflict(w, err.Error())
		default:
			response.InternalError(w, "Failed to create settlement")
		}
		return
	}
	response.JSON(w, http.StatusCreated, stl.ToResponse())
}

// GetByID handles GET /settlements/{id}
// @Summary      Get a settlement
// @Tags         settlements
// @Produce      json
// @Param        id path string true "Settlement ID"
// @Success      200 {object} response.APIResponse{data=SettlementResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /settlements/{id} [get]
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	stl, err := h.service.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, ErrSettlementNotFound) {
			response.NotFound(w, "Settlement not found")
			return
		}
		response.InternalError(w, "Failed to get settlement")
		return
	}
	response.JSON(w, http.StatusOK, stl.ToResponse())
}

// ListMine handles GET /settlements
// @Summary      List the requesting participant's settlements
// @Tags         settlements
// @Produce      json
// @Param        page query int false "Page number"
// @Param        per_page query int false "Items per page"
// @Success      200 {object} response.APIResponse{data=[]SettlementResponse}
// @Router       /settlements [get]
func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authenticated user required")
		return
	}
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))

	settlements, total, err := h.service.ListByParticipant(r.Context(), userID, page, perPage)
	if err != nil {
		response.InternalError(w, "Failed to list settlements")
		return
	}

	resp := make([]*SettlementResponse, len(settlements))
	for i, stl := range settlements {
		resp[i] = stl.ToResponse()
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

// Confirm handles POST /settlements/{id}/confirm
// @Summary      Confirm a settlement
// @Description  Receiver-only; settles the pending splits between the pair and applies balance deltas atomically
// @Tags         settlements
// @Produce      json
// @Param        id path string true "Settlement ID"
// @Success      200 {object} response.APIResponse{data=SettlementResponse}
// @Failure      403 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /settlements/{id}/confirm [post]
func (h *Handler) Confirm(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authenticated user required")
		return
	}

	stl, err := h.service.Confirm(r.Context(), chi.URLParam(r, "id"), userID)
	if err != nil {
		switch {
		case errors.Is(err, ErrSettlementNotFound):
			response.NotFound(w, "Settlement not found")
		case errors.Is(err, ErrNotReceiver):
			response.Forbidden(w, err.Error())
		case errors.Is(err, ErrInvalidStatusChange):
			response.Conflict(w, err.Error())
		default:
			response.InternalError(w, "Failed to confirm settlement")
		}
		return
	}
	response.JSON(w, http.StatusOK, stl.ToResponse())
}

// Cancel handles POST /settlements/{id}/cancel
// @Summary      Cancel a pending settlement
// @Tags         settlements
// @Produce      json
// @Param        id path string true "Settlement ID"
// @Success      200 {object} response.APIResponse{data=SettlementResponse}
// @Failure      403 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /settlements/{id}/cancel [post]
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authenticated user required")
		return
	}

	stl, err := h.service.Cancel(r.Context(), chi.URLParam(r, "id"), userID)
	if err != nil {
		switch {
		case errors.Is(err, ErrSettlementNotFound):
			response.NotFound(w, "Settlement not found")
		case errors.Is(err, ErrNotParty):
			response.Forbidden(w, err.Error())
		case errors.Is(err, ErrInvalidStatusChange):
			response.Conflict(w, err.Error())
		default:
			response.InternalError(w, "Failed to cancel settlement")
		}
		return
	}
	response.JSON(w, http.StatusOK, stl.ToResponse())
}
