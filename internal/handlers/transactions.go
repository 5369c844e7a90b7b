package handlers

import (
	"net/http"

	"xtradata/internal/middleware"
)

func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	query := r.URL.Query()
	page := parseInt(query.Get("page"), 1)
	limit := parseInt(query.Get("limit"), 50)
	offset := (page - 1) * limit
	transactions, err := h.transactions.ListByUser(r.Context(), userID, limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load transactions")
		return
	}
	respondJSON(w, http.StatusOK, normalizeTransactions(transactions))
}

func (h *Handler) ListRecentTransactions(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	limit := parseInt(r.URL.Query().Get("limit"), 5)
	transactions, err := h.transactions.ListByUser(r.Context(), userID, limit, 0)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load recent transactions")
		return
	}
	respondJSON(w, http.StatusOK, normalizeTransactions(transactions))
}

func normalizeTransactions(rows []map[string]any) []map[string]any {
	normalized := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		normalized = append(normalized, map[string]any{
			"id":          valueToString(row["id"]),
			"user_id":     valueToString(row["user_id"]),
			"type":        valueToString(row["type"]),
			"amount":      valueToMoney(row["amount"]),
			"status":      valueToString(row["status"]),
			"description": valueToString(row["description"]),
			"metadata":    row["metadata"],
			"created_at":  row["created_at"],
		})
	}
	return normalized
}
