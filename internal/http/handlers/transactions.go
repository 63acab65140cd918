package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/hongminglow/finance-be/internal/events"
	"github.com/hongminglow/finance-be/internal/http/respond"
	"github.com/hongminglow/finance-be/internal/models"
	"github.com/hongminglow/finance-be/internal/models/dto"
	"github.com/hongminglow/finance-be/internal/money"
	"github.com/hongminglow/finance-be/internal/storage"
)

// TransactionHandler serves /transactions. Ownership is resolved through the
// referenced account, so every store call is scoped by the caller's id.
type TransactionHandler struct {
	base
	store storage.TransactionStore
}

// NewTransactionHandler constructs the handler.
func NewTransactionHandler(store storage.TransactionStore, publisher events.Publisher, logger *slog.Logger) *TransactionHandler {
	return &TransactionHandler{base: newBase(publisher, logger), store: store}
}

// Register attaches transaction routes to mux behind protect.
func (h *TransactionHandler) Register(mux *http.ServeMux, protect func(http.Handler) http.Handler) {
	mux.Handle("GET /transactions", protect(http.HandlerFunc(h.handleList)))
	mux.Handle("POST /transactions", protect(http.HandlerFunc(h.handleCreate)))
	for _, pattern := range []string{"/transactions", "/transactions/{$}", "/transactions/{id}"} {
		mux.Handle("PUT "+pattern, protect(http.HandlerFunc(h.handleUpdate)))
		mux.Handle("DELETE "+pattern, protect(http.HandlerFunc(h.handleDelete)))
	}
}

func (h *TransactionHandler) handleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.caller(w, r)
	if !ok {
		return
	}
	filter, err := parseFilter(r)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	views, err := h.store.ListTransactions(r.Context(), userID, filter)
	if err != nil {
		h.serverError(w, r, "list transactions", err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{"transactions": dto.NewTransactionRows(views)})
}

func (h *TransactionHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.caller(w, r)
	if !ok {
		return
	}
	var req dto.CreateTransactionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Amount == nil {
		respond.Error(w, http.StatusBadRequest, "amount is required")
		return
	}
	payee := strings.TrimSpace(req.Payee)
	if payee == "" {
		respond.Error(w, http.StatusBadRequest, "payee is required")
		return
	}
	amount, err := toMiliunits(*req.Amount)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	date, err := time.Parse(models.DateLayout, req.Date)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "date must be a date in YYYY-MM-DD format")
		return
	}

	created, err := h.store.CreateTransaction(r.Context(), userID, models.Transaction{
		Amount:     amount,
		Payee:      payee,
		Notes:      req.Notes,
		Date:       date,
		AccountID:  strings.TrimSpace(req.AccountID),
		CategoryID: trimmed(req.CategoryID),
	})
	if err != nil {
		h.writeStoreError(w, r, "create transaction", err)
		return
	}
	h.publish(r.Context(), events.New(events.TransactionCreated, userID, created.ID).WithAmount(created.Amount))
	respond.JSON(w, http.StatusOK, map[string]any{"transaction": dto.NewTransaction(created)})
}

func (h *TransactionHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.caller(w, r)
	if !ok {
		return
	}
	id := pathID(r)
	if id == "" {
		respond.Error(w, http.StatusBadRequest, msgMissingID)
		return
	}
	var req dto.UpdateTransactionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	patch := models.TransactionPatch{
		Notes:      req.Notes,
		AccountID:  trimmed(req.AccountID),
		CategoryID: trimmed(req.CategoryID),
	}
	if req.Payee != nil {
		payee := strings.TrimSpace(*req.Payee)
		if payee == "" {
			respond.Error(w, http.StatusBadRequest, "payee must not be empty")
			return
		}
		patch.Payee = &payee
	}
	if req.Amount != nil {
		amount, err := toMiliunits(*req.Amount)
		if err != nil {
			respond.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		patch.Amount = &amount
	}
	if req.Date != nil {
		date, err := time.Parse(models.DateLayout, *req.Date)
		if err != nil {
			respond.Error(w, http.StatusBadRequest, "date must be a date in YYYY-MM-DD format")
			return
		}
		patch.Date = &date
	}

	updated, err := h.store.UpdateTransaction(r.Context(), userID, id, patch)
	if err != nil {
		h.writeStoreError(w, r, "update transaction", err)
		return
	}
	h.publish(r.Context(), events.New(events.TransactionUpdated, userID, updated.ID).WithAmount(updated.Amount))
	respond.JSON(w, http.StatusOK, map[string]any{"transaction": dto.NewTransaction(updated)})
}

func (h *TransactionHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.caller(w, r)
	if !ok {
		return
	}
	id := pathID(r)
	if id == "" {
		respond.Error(w, http.StatusBadRequest, msgMissingID)
		return
	}
	deleted, err := h.store.DeleteTransaction(r.Context(), userID, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "Transaction not found or you are not authorized to delete this transaction.")
			return
		}
		h.serverError(w, r, "delete transaction", err)
		return
	}
	h.publish(r.Context(), events.New(events.TransactionDeleted, userID, deleted.ID).WithAmount(deleted.Amount))
	respond.JSON(w, http.StatusOK, map[string]any{"transaction": dto.NewTransaction(deleted)})
}

func (h *TransactionHandler) writeStoreError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, storage.ErrAccountNotFound):
		respond.Error(w, http.StatusNotFound, msgInvalidAccount)
	case errors.Is(err, storage.ErrCategoryNotFound):
		respond.Error(w, http.StatusNotFound, msgInvalidCategory)
	case errors.Is(err, storage.ErrNotFound):
		respond.Error(w, http.StatusNotFound, "Transaction not found or you are not authorized to update this transaction.")
	default:
		h.serverError(w, r, op, err)
	}
}

func parseFilter(r *http.Request) (models.TransactionFilter, error) {
	q := r.URL.Query()
	filter := models.TransactionFilter{
		AccountID:  strings.TrimSpace(q.Get("accountId")),
		CategoryID: strings.TrimSpace(q.Get("categoryId")),
	}
	for _, bound := range []struct {
		name string
		dst  **time.Time
	}{
		{"from", &filter.From},
		{"to", &filter.To},
	} {
		raw := strings.TrimSpace(q.Get(bound.name))
		if raw == "" {
			continue
		}
		d, err := time.Parse(models.DateLayout, raw)
		if err != nil {
			return models.TransactionFilter{}, fmt.Errorf("%s must be a date in YYYY-MM-DD format", bound.name)
		}
		*bound.dst = &d
	}
	return filter, nil
}

func toMiliunits(amount money.Amount) (int64, error) {
	units, err := money.ToMiliunits(amount.Decimal)
	if err != nil {
		return 0, errors.New("amount must be between 0.0001 and 999999999")
	}
	return units, nil
}

// trimmed returns nil for a nil or blank string.
func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
