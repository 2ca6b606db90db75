package expense

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/akyildz/divvy/internal/money"
	"github.com/akyildz/divvy/pkg/middleware"
	"github.com/akyildz/divvy/pkg/response"
)

// Handler handles HTTP requests for expense operations.
type Handler struct {
	service *Service
}

// NewHandler creates a new expense handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for expense endpoints.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Post("/preview", h.Preview)
	r.Get("/{id}", h.GetByID)
	r.Delete("/{id}", h.Delete)

	// Group-based listing
	r.Get("/group/{groupId}", h.ListByGroup)

	return r
}

// Create handles POST /expenses
// @Summary      Create a new expense
// @Description  Create an expense with automatic split calculation using EQUAL, EXACT_AMOUNTS, PERCENTAGES, SHARES, or ADJUSTMENTS strategy
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Param        request body CreateExpenseRequest true "Expense creation request"
// @Success      201 {object} response.APIResponse{data=ExpenseResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      422 {object} response.APIResponse
// @Router       /expenses [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	payerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authenticated user required")
		return
	}

	var req CreateExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	result, err := h.service.CreateExpense(r.Context(), payerID, &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrUnbalancedSplit):
			// Saving an unbalanced split is the one caller-visible gate.
			response.Error(w, http.StatusUnprocessableEntity, "UNBALANCED_SPLIT", err.Error())
		case errors.Is(err, money.ErrInvalidAmount),
			errors.Is(err, ErrNonPositiveAmount),
			errors.Is(err, ErrTooFewParticipants):
			response.BadRequest(w, err.Error())
		default:
			response.BadRequest(w, err.Error())
		}
		return
	}

	resp := result.Expense.ToResponse()
	for _, sp := range result.Splits {
		resp.Splits = append(resp.Splits, sp.ToResponse())
	}
	response.JSON(w, http.StatusCreated, resp)
}

// Preview handles POST /expenses/preview
// @Summary      Preview a split without saving
// @Description  Compute the per-participant allocation, balanced flag and unallocated remainder for an in-progress split
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Param        request body PreviewSplitRequest true "Split preview request"
// @Success      200 {object} response.APIResponse{data=PreviewSplitResponse}
// @Failure      400 {object} response.APIResponse
// @Router       /expenses/preview [post]
func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	var req PreviewSplitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	res, err := h.service.PreviewSplit(r.Context(), &req)
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}
	response.JSON(w, http.StatusOK, PreviewResponseFromResult(res))
}

// GetByID handles GET /expenses/{id}
// @Summary      Get an expense
// @Tags         expenses
// @Produce      json
// @Param        id path string true "Expense ID"
// @Success      200 {object} response.APIResponse{data=ExpenseResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /expenses/{id} [get]
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, err := h.service.GetExpenseByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrExpenseNotFound) {
			response.NotFound(w, "Expense not found")
			return
		}
		response.InternalError(w, "Failed to get expense")
		return
	}

	resp := result.Expense.ToResponse()
	for _, sp := range result.Splits {
		resp.Splits = append(resp.Splits, sp.ToResponse())
	}
	response.JSON(w, http.StatusOK, resp)
}

// ListByGroup handles GET /expenses/group/{groupId}
// @Summary      List expenses for a group
// @Tags         expenses
// @Produce      json
// @Param        groupId path string true "Group ID"
// @Param        page query int false "Page number"
// @Param        per_page query int false "Items per page"
// @Success      200 {object} response.APIResponse{data=[]ExpenseResponse}
// @Router       /expenses/group/{groupId} [get]
func (h *Handler) ListByGroup(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "groupId")
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))

	expenses, total, err := h.service.ListExpensesByGroupID(r.Context(), groupID, page, perPage)
	if err != nil {
		response.InternalError(w, "Failed to list expenses")
		return
	}

	resp := make([]*ExpenseResponse, len(expenses))
	for i, exp := range expenses {
		resp[i] = exp.ToResponse()
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

// Delete handles DELETE /expenses/{id}
// @Summary      Delete an expense
// @Description  Only the payer can delete, and only while no split is settled; balance deltas are reversed
// @Tags         expenses
// @Param        id path string true "Expense ID"
// @Success      204 "No Content"
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /expenses/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authenticated user required")
		return
	}
	id := chi.URLParam(r, "id")

	if err := h.service.DeleteExpense(r.Context(), id, userID); err != nil {
		switch {
		case errors.Is(err, ErrExpenseNotFound):
			response.NotFound(w, "Expense not found")
		case errors.Is(err, ErrNotPayer):
			response.Forbidden(w, err.Error())
		case errors.Is(err, ErrCannotDeleteSettled):
			response.Conflict(w, err.Error())
		default:
			response.InternalError(w, "Failed to delete expense")
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
