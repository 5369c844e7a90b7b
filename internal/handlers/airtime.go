package handlers

import (
	"encoding/json"
	"net/http"

	"xtradata/internal/middleware"
	"xtradata/internal/money"
	"xtradata/internal/services"
	"xtradata/internal/validator"
)

func (h *Handler) ListAirtimePlans(w http.ResponseWriter, r *http.Request) {
	plans, err := h.catalog.ListAirtimePlans(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load airtime plans")
		return
	}
	normalized := make([]map[string]any, 0, len(plans))
	for _, plan := range plans {
		normalized = append(normalized, map[string]any{
			"id":       plan.ID,
			"network":  plan.Network,
			"amount":   money.FormatMinor(plan.Amount),
			"price":    money.FormatMinor(plan.Price),
			"discount": plan.Discount,
		})
	}
	respondJSON(w, http.StatusOK, normalized)
}

type purchaseAirtimeRequest struct {
	Network     string `json:"network"`
	PhoneNumber string `json:"phoneNumber"`
	Amount      string `json:"amount"`
}

func (h *Handler) PurchaseAirtime(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req purchaseAirtimeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := validator.ValidateNetwork(req.Network); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validator.ValidatePhone(req.PhoneNumber); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	amountMinor, err := parseAmountMinor(req.Amount)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_amount")
		return
	}
	result, err := h.wallet.PurchaseAirtime(r.Context(), services.AirtimePurchaseRequest{
		UserID:      userID,
		Network:     req.Network,
		PhoneNumber: req.PhoneNumber,
		AmountMinor: amountMinor,
	})
	if err != nil {
		switch err {
		case services.ErrInsufficientFunds:
			respondError(w, http.StatusBadRequest, "insufficient_funds")
		case services.ErrBelowMinimumAirtime:
			respondError(w, http.StatusBadRequest, err.Error())
		case services.ErrInvalidAmount:
			respondError(w, http.StatusBadRequest, "invalid_amount")
		case services.ErrUserNotFound:
			respondError(w, http.StatusNotFound, "user not found")
		default:
			respondError(w, http.StatusInternalServerError, "failed to purchase airtime")
		}
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"success":        true,
		"transaction_id": result.TransactionID,
		"message":        money.FormatNaira(amountMinor) + " airtime sent to " + req.PhoneNumber,
		"new_balance":    money.FormatMinor(result.NewBalance),
	})
}
