package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/farmerx/finance-assistant/internal/api/middleware"
	"github.com/farmerx/finance-assistant/internal/assistant"
	"github.com/farmerx/finance-assistant/internal/dates"
	"github.com/farmerx/finance-assistant/internal/store"
)

// MessageProcessor is the natural-language entry point the messages
// handler delegates to. *assistant.Router satisfies it.
type MessageProcessor interface {
	ProcessMessage(ctx context.Context, scope store.Scope, message string) *assistant.Response
}

// TransactionStore is the persistence surface the direct transaction
// endpoints need. *store.Store satisfies it.
type TransactionStore interface {
	List(ctx context.Context, scope store.Scope, f store.Filters) ([]store.Transaction, error)
	Update(ctx context.Context, scope store.Scope, id int64, updates map[string]any) error
	Delete(ctx context.Context, scope store.Scope, id int64) error
	Ping(ctx context.Context) error
}

// MessagesHandler handles the natural-language endpoint.
type MessagesHandler struct {
	router MessageProcessor
	log    zerolog.Logger
}

// NewMessagesHandler creates a new messages handler.
func NewMessagesHandler(router MessageProcessor, log zerolog.Logger) *MessagesHandler {
	return &MessagesHandler{router: router, log: log}
}

// ProcessTransactionMessage handles POST /llm/transaction-message
func (h *MessagesHandler) ProcessTransactionMessage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID   string `json:"user_id"`
		ClientID string `json:"client_id"`
		Message  string `json:"message"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.UserID == "" || req.ClientID == "" || req.Message == "" {
		middleware.WriteError(w, http.StatusBadRequest, "user_id, client_id and message are required")
		return
	}

	h.log.Info().
		Str("user_id", req.UserID).
		Str("message", req.Message).
		Msg("Processing transaction message")

	scope := store.Scope{UserID: req.UserID, ClientID: req.ClientID}
	resp := h.router.ProcessMessage(r.Context(), scope, req.Message)

	h.log.Info().Str("response", resp.Message).Msg("Message processed")

	middleware.WriteJSON(w, http.StatusOK, resp)
}

// TransactionsHandler handles the direct transaction endpoints.
type TransactionsHandler struct {
	store TransactionStore
	log   zerolog.Logger
}

// NewTransactionsHandler creates a new transactions handler.
func NewTransactionsHandler(st TransactionStore, log zerolog.Logger) *TransactionsHandler {
	return &TransactionsHandler{store: st, log: log}
}

// transactionRow is the projection returned by TransactionsByFilter.
type transactionRow struct {
	ID         int64   `json:"id"`
	Type       string  `json:"type"`
	Amount     float64 `json:"amount"`
	SubType    *string `json:"sub_type"`
	WhomToPaid *string `json:"whom_to_paid"`
	CreatedAt  string  `json:"created_at"`
}

// TransactionsByFilter handles GET /transactions_by_filter.
// Either start_date+end_date or a named filter must be supplied. Store
// failures come back as an empty list, not an error.
func (h *TransactionsHandler) TransactionsByFilter(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	scope, ok := scopeFromQuery(w, r)
	if !ok {
		return
	}

	var f store.Filters

	startDate := query.Get("start_date")
	endDate := query.Get("end_date")
	filter := query.Get("filter")

	switch {
	case startDate != "" && endDate != "":
		from, err := time.Parse("2006-01-02", startDate)
		if err != nil {
			middleware.WriteError(w, http.StatusBadRequest, "Invalid start_date format")
			return
		}
		to, err := time.Parse("2006-01-02", endDate)
		if err != nil {
			middleware.WriteError(w, http.StatusBadRequest, "Invalid end_date format")
			return
		}
		f.DateFrom = from
		f.DateTo = to
	case filter != "":
		rng, resolved := dates.Resolve(filter, time.Now())
		if !resolved {
			middleware.WriteError(w, http.StatusBadRequest, "Invalid filter value. Use today, yesterday, this_week, this_month, etc.")
			return
		}
		f.DateFrom = rng.From
		f.DateTo = rng.To
	default:
		middleware.WriteError(w, http.StatusBadRequest, "You must provide either a filter or both start_date and end_date.")
		return
	}

	transactions, err := h.store.List(r.Context(), scope, f)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list transactions")
		middleware.WriteJSON(w, http.StatusOK, []transactionRow{})
		return
	}

	rows := make([]transactionRow, 0, len(transactions))
	for _, tx := range transactions {
		rows = append(rows, transactionRow{
			ID:         tx.ID,
			Type:       tx.Type,
			Amount:     tx.Amount,
			SubType:    tx.SubType,
			WhomToPaid: tx.WhomToPaid,
			CreatedAt:  tx.CreatedAt.Format(time.RFC3339),
		})
	}

	middleware.WriteJSON(w, http.StatusOK, rows)
}

// Balance handles GET /balance: income, expense and net balance for the
// calendar month containing now.
func (h *TransactionsHandler) Balance(w http.ResponseWriter, r *http.Request) {
	scope, ok := scopeFromQuery(w, r)
	if !ok {
		return
	}

	now := time.Now()
	month := dates.CurrentMonth(now)

	transactions, err := h.store.List(r.Context(), scope, store.Filters{
		DateFrom: month.From,
		DateTo:   month.To,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to compute balance")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to compute balance")
		return
	}

	var income, expense float64
	for _, tx := range transactions {
		switch tx.Type {
		case "income":
			income += tx.Amount
		case "expense":
			expense += tx.Amount
		}
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]any{
		"status":      "success",
		"month":       now.Format("January 2006"),
		"income":      income,
		"expense":     expense,
		"net_balance": income - expense,
	})
}

// DeleteTransaction handles DELETE /transaction/{id}.
func (h *TransactionsHandler) DeleteTransaction(w http.ResponseWriter, r *http.Request, idStr string) {
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid transaction ID")
		return
	}

	scope, ok := scopeFromQuery(w, r)
	if !ok {
		return
	}

	if err := h.store.Delete(r.Context(), scope, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			middleware.WriteJSON(w, http.StatusNotFound, map[string]string{
				"status":  "error",
				"message": "Transaction not found",
			})
			return
		}
		h.log.Error().Err(err).Int64("id", id).Msg("Failed to delete transaction")
		middleware.WriteError(w, http.StatusInternalServerError, "Delete failed")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": "Transaction deleted successfully.",
	})
}

// UpdateTransaction handles PUT /transaction/{id}: amount-only update.
func (h *TransactionsHandler) UpdateTransaction(w http.ResponseWriter, r *http.Request, idStr string) {
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid transaction ID")
		return
	}

	var req struct {
		UserID   string  `json:"user_id"`
		ClientID string  `json:"client_id"`
		Amount   float64 `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.UserID == "" || req.ClientID == "" {
		middleware.WriteError(w, http.StatusBadRequest, "user_id and client_id are required")
		return
	}
	if req.Amount <= 0 {
		middleware.WriteError(w, http.StatusBadRequest, "Amount must be greater than 0")
		return
	}

	scope := store.Scope{UserID: req.UserID, ClientID: req.ClientID}
	updates := map[string]any{"amount": req.Amount}

	if err := h.store.Update(r.Context(), scope, id, updates); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			middleware.WriteJSON(w, http.StatusNotFound, map[string]string{
				"status":  "error",
				"message": "Transaction not found or no changes made",
			})
			return
		}
		h.log.Error().Err(err).Int64("id", id).Msg("Failed to update transaction")
		middleware.WriteError(w, http.StatusInternalServerError, "Update failed")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": "Transaction updated successfully.",
	})
}

// Health handles GET /health: verifies the database connection.
func (h *TransactionsHandler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Ping(r.Context()); err != nil {
		h.log.Error().Err(err).Msg("Health check failed")
		middleware.WriteError(w, http.StatusInternalServerError, "Service unhealthy")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]string{
		"status":   "healthy",
		"database": "connected",
		"llm":      "ready",
	})
}

// scopeFromQuery extracts the required user_id/client_id pair, writing a
// 400 when either is missing.
func scopeFromQuery(w http.ResponseWriter, r *http.Request) (store.Scope, bool) {
	query := r.URL.Query()
	userID := query.Get("user_id")
	clientID := query.Get("client_id")

	if userID == "" || clientID == "" {
		middleware.WriteError(w, http.StatusBadRequest, "user_id and client_id are required")
		return store.Scope{}, false
	}
	return store.Scope{UserID: userID, ClientID: clientID}, true
}
