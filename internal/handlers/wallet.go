package handlers

import (
	"encoding/json"
	"net/http"

	"xtradata/internal/middleware"
	"xtradata/internal/money"
	"xtradata/internal/services"
)

type fundWalletRequest struct {
	Amount string `json:"amount"`
}

func (h *Handler) FundWallet(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req fundWalletRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	amountMinor, err := parseAmountMinor(req.Amount)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_amount")
		return
	}
	instructions, err := h.wallet.InitiateFunding(r.Context(), userID, amountMinor)
	if err != nil {
		switch err {
		case services.ErrBelowMinimumFunding:
			respondError(w, http.StatusBadRequest, err.Error())
		case services.ErrInvalidAmount:
			respondError(w, http.StatusBadRequest, "invalid_amount")
		case services.ErrUserNotFound:
			respondError(w, http.StatusNotFound, "user not found")
		default:
			respondError(w, http.StatusInternalServerError, "failed to initiate funding")
		}
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"success":        true,
		"transaction_id": instructions.TransactionID,
		"amount":         money.FormatMinor(instructions.AmountMinor),
		"instructions": map[string]string{
			"payment_method": instructions.PaymentMethod,
			"account_number": instructions.AccountNumber,
			"bank_name":      instructions.BankName,
			"account_name":   instructions.AccountName,
		},
		"message": "Payment initiated. Please transfer to the provided account.",
	})
}

func (h *Handler) ConfirmFunding(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req fundWalletRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	amountMinor, err := parseAmountMinor(req.Amount)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_amount")
		return
	}
	newBalance, err := h.wallet.ConfirmFunding(r.Context(), userID, amountMinor)
	if err != nil {
		switch err {
		case services.ErrUserNotFound:
			respondError(w, http.StatusNotFound, "user not found")
		case services.ErrBelowMinimumFunding:
			respondError(w, http.StatusBadRequest, err.Error())
		case services.ErrInvalidAmount:
			respondError(w, http.StatusBadRequest, "invalid_amount")
		default:
			respondError(w, http.StatusInternalServerError, "failed to confirm payment")
		}
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"new_balance": money.FormatMinor(newBalance),
		"message":     "Payment confirmed! Wallet credited successfully.",
	})
}

func (h *Handler) SelfCheck(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	report, err := h.wallet.SelfCheck(r.Context(), userID)
	if err != nil {
		if err == services.ErrUserNotFound {
			respondError(w, http.StatusNotFound, "user not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "unable to self_check")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"wallet_balance": money.FormatMinor(report.StoredBalance),
		"ledger_sum":     money.FormatMinor(report.LedgerSum),
		"difference":     money.FormatMinor(report.Difference),
	})
}
