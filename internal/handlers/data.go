package handlers

import (
	"encoding/json"
	"net/http"

	"xtradata/internal/middleware"
	"xtradata/internal/money"
	"xtradata/internal/services"
	"xtradata/internal/validator"
)

func (h *Handler) ListDataPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := h.catalog.ListDataPlans(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load data plans")
		return
	}
	normalized := make([]map[string]any, 0, len(plans))
	for _, plan := range plans {
		normalized = append(normalized, map[string]any{
			"id":              plan.ID,
			"network":         plan.Network,
			"category":        plan.Category,
			"size":            plan.Size,
			"size_in_mb":      plan.SizeInMB,
			"price":           money.FormatMinor(plan.Price),
			"validity":        plan.Validity,
			"discount":        plan.Discount,
			"is_best_value":   plan.IsBestValue,
			"is_most_popular": plan.IsMostPopular,
		})
	}
	respondJSON(w, http.StatusOK, normalized)
}

type purchaseDataRequest struct {
	PlanID      string `json:"planId"`
	PhoneNumber string `json:"phoneNumber"`
}

func (h *Handler) PurchaseData(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req purchaseDataRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.PlanID == "" {
		respondError(w, http.StatusBadRequest, "planId is required")
		return
	}
	if err := validator.ValidatePhone(req.PhoneNumber); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	result, err := h.wallet.PurchaseData(r.Context(), services.DataPurchaseRequest{
		UserID:      userID,
		PlanID:      req.PlanID,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		switch err {
		case services.ErrPlanNotFound:
			respondError(w, http.StatusNotFound, "plan not found")
		case services.ErrInsufficientFunds:
			respondError(w, http.StatusBadRequest, "insufficient_funds")
		case services.ErrUserNotFound:
			respondError(w, http.StatusNotFound, "user not found")
		default:
			respondError(w, http.StatusInternalServerError, "failed to purchase data")
		}
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"success":        true,
		"transaction_id": result.TransactionID,
		"message":        result.PlanSize + " data sent to " + req.PhoneNumber,
		"new_balance":    money.FormatMinor(result.NewBalance),
	})
}
