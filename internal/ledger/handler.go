package ledger

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/akyildz/divvy/internal/money"
	"github.com/akyildz/divvy/pkg/middleware"
	"github.com/akyildz/divvy/pkg/response"
)

// Handler handles HTTP requests for balance queries.
type Handler struct {
	repo *Repository
}

// NewHandler creates a new balance handler.
func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

// Routes returns the router for balance endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ListAll)
	r.Get("/me", h.GetMine)
	r.Get("/me/entries", h.ListMyEntries)

	return r
}

// BalanceResponse represents one participant's running balance.
type BalanceResponse struct {
	ParticipantID string `json:"participant_id"`
	AmountMinor   int64  `json:"amount_minor"`
	Amount        string `json:"amount"`
}

// EntryResponse represents one balance ledger entry.
type EntryResponse struct {
	ID           int64   `json:"id"`
	AmountMinor  int64   `json:"amount_minor"`
	Amount       string  `json:"amount"`
	ExpenseID    *string `json:"expense_id,omitempty"`
	SettlementID *string `json:"settlement_id,omitempty"`
	CreatedAt    string  `json:"created_at"`
}

// ListAll godoc
// @Summary List all non-zero balances
// @Description Running net balance per participant; positive means others owe them
// @Tags balances
// @Produce json
// @Success 200 {object} response.APIResponse
// @Router /balances [get]
func (h *Handler) ListAll(w http.ResponseWriter, r *http.Request) {
	balances, err := h.repo.AllBalances(r.Context())
	if err != nil {
		response.InternalError(w, "Failed to list balances")
		return
	}

	out := make([]*BalanceResponse, 0, len(balances))
	for id, amount := range balances {
		out = append(out, &BalanceResponse{
			ParticipantID: string(id),
			AmountMinor:   amount,
			Amount:        money.FormatMinor(amount),
		})
	}
	response.JSON(w, http.StatusOK, out)
}

// GetMine godoc
// @Summary Current participant's net balance
// @Tags balances
// @Produce json
// @Success 200 {object} response.APIResponse
// @Router /balances/me [get]
func (h *Handler) GetMine(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	amount, err := h.repo.NetBalance(r.Context(), userID)
	if err != nil {
		response.InternalError(w, "Failed to get balance")
		return
	}

	response.JSON(w, http.StatusOK, &BalanceResponse{
		ParticipantID: string(userID),
		AmountMinor:   amount,
		Amount:        money.FormatMinor(amount),
	})
}

// ListMyEntries godoc
// @Summary Current participant's balance history
// @Tags balances
// @Produce json
// @Param page query int false "Page number"
// @Param per_page query int false "Items per page"
// @Success 200 {object} response.APIResponse
// @Router /balances/me/entries [get]
func (h *Handler) ListMyEntries(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	entries, err := h.repo.ListEntries(r.Context(), userID, perPage, (page-1)*perPage)
	if err != nil {
		response.InternalError(w, "Failed to list balance entries")
		return
	}

	out := make([]*EntryResponse, len(entries))
	for i, e := range entries {
		out[i] = &EntryResponse{
			ID:           e.ID,
			AmountMinor:  e.Amount,
			Amount:       money.FormatMinor(e.Amount),
			ExpenseID:    e.ExpenseID,
			SettlementID: e.SettlementID,
			CreatedAt:    e.CreatedAt.Format(time.RFC3339),
		}
	}
	response.JSON(w, http.StatusOK, out)
}
