package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"

	"xtradata/internal/middleware"
	"xtradata/internal/models"
	"xtradata/internal/services"
	"xtradata/internal/validator"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

func (h *Handler) AdminListUsers(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page := parseInt(query.Get("page"), 1)
	limit := parseInt(query.Get("limit"), 50)
	offset := (page - 1) * limit
	users, err := h.users.ListAll(r.Context(), limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load users")
		return
	}
	normalized := make([]map[string]any, 0, len(users))
	for _, user := range users {
		normalized = append(normalized, map[string]any{
			"id":             user.ID,
			"username":       user.Username,
			"email":          user.Email,
			"wallet_balance": valueToMoney(user.WalletBalance),
			"created_at":     user.CreatedAt,
		})
	}
	respondJSON(w, http.StatusOK, normalized)
}

func (h *Handler) AdminListTransactions(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page := parseInt(query.Get("page"), 1)
	limit := parseInt(query.Get("limit"), 50)
	offset := (page - 1) * limit
	transactions, err := h.transactions.ListAll(r.Context(), limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load transactions")
		return
	}
	normalized := make([]map[string]any, 0, len(transactions))
	for _, row := range transactions {
		normalized = append(normalized, map[string]any{
			"id":          valueToString(row["id"]),
			"user_id":     valueToString(row["user_id"]),
			"username":    valueToString(row["username"]),
			"type":        valueToString(row["type"]),
			"amount":      valueToMoney(row["amount"]),
			"status":      valueToString(row["status"]),
			"description": valueToString(row["description"]),
			"metadata":    row["metadata"],
			"created_at":  row["created_at"],
		})
	}
	respondJSON(w, http.StatusOK, normalized)
}

func (h *Handler) ListAuditLogs(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page := parseInt(query.Get("page"), 1)
	limit := parseInt(query.Get("limit"), 50)
	offset := (page - 1) * limit
	logs, err := h.audit.List(r.Context(), limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load audit logs")
		return
	}
	respondJSON(w, http.StatusOK, logs)
}

type promoteRequest struct {
	UserID  string `json:"user_id"`
	IsSuper bool   `json:"is_super"`
}

func (h *Handler) PromoteAdmin(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	_, isSuper, err := h.admin.IsAdmin(r.Context(), actorID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to verify admin")
		return
	}
	if !isSuper {
		respondError(w, http.StatusForbidden, "super_admin_required")
		return
	}
	var req promoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == "" {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if _, err := h.users.GetByID(r.Context(), req.UserID); err != nil {
		if err == sql.ErrNoRows {
			respondError(w, http.StatusNotFound, "user not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "unable to load user")
		return
	}
	err = h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		if err := h.admin.CreateAdmin(r.Context(), tx, req.UserID, req.IsSuper, &actorID); err != nil {
			return err
		}
		data, _ := json.Marshal(map[string]any{"is_super": req.IsSuper})
		return h.audit.Log(r.Context(), tx, actorID, "promote_admin", "user", req.UserID, string(data))
	})
	if err != nil {
		if pgErr, ok := err.(*pq.Error); ok && pgErr.Code == "23505" {
			respondError(w, http.StatusConflict, "already an admin")
			return
		}
		respondError(w, http.StatusInternalServerError, "promotion failed")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"status": "promoted"})
}

type grantRoleRequest struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

func (h *Handler) GrantRole(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	_, isSuper, err := h.admin.IsAdmin(r.Context(), actorID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to verify admin")
		return
	}
	if !isSuper {
		respondError(w, http.StatusForbidden, "super_admin_required")
		return
	}
	var req grantRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == "" || req.Role == "" {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	err = h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		if err := h.admin.GrantRole(r.Context(), tx, req.UserID, req.Role); err != nil {
			return err
		}
		data, _ := json.Marshal(map[string]string{"role": req.Role})
		return h.audit.Log(r.Context(), tx, actorID, "grant_role", "user", req.UserID, string(data))
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "grant failed")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"status": "granted"})
}

type createAirtimePlanRequest struct {
	Network  string `json:"network"`
	Amount   string `json:"amount"`
	Price    string `json:"price"`
	Discount int    `json:"discount"`
}

func (h *Handler) CreateAirtimePlan(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req createAirtimePlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := validator.ValidateNetwork(req.Network); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	amountMinor, err := parseAmountMinor(req.Amount)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_amount")
		return
	}
	priceMinor, err := parseAmountMinor(req.Price)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_price")
		return
	}
	if req.Discount < 0 || req.Discount >= 100 {
		respondError(w, http.StatusBadRequest, "invalid_discount")
		return
	}
	planID := uuid.NewString()
	err = h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		if err := h.catalog.CreateAirtimePlan(r.Context(), tx, planID, req.Network, amountMinor, priceMinor, req.Discount); err != nil {
			return err
		}
		data, _ := json.Marshal(req)
		return h.audit.Log(r.Context(), tx, actorID, "create_airtime_plan", "airtime_plan", planID, string(data))
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to create plan")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"id": planID})
}

type createDataPlanRequest struct {
	Network       string `json:"network"`
	Category      string `json:"category"`
	Size          string `json:"size"`
	SizeInMB      int    `json:"size_in_mb"`
	Price         string `json:"price"`
	Validity      string `json:"validity"`
	Discount      int    `json:"discount"`
	IsBestValue   bool   `json:"is_best_value"`
	IsMostPopular bool   `json:"is_most_popular"`
}

func (h *Handler) CreateDataPlan(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req createDataPlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := validator.ValidateNetwork(req.Network); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Category == "" || req.Size == "" || req.SizeInMB <= 0 || req.Validity == "" {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	priceMinor, err := parseAmountMinor(req.Price)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_price")
		return
	}
	planID := uuid.NewString()
	plan := models.DataPlan{
		ID:            planID,
		Network:       req.Network,
		Category:      req.Category,
		Size:          req.Size,
		SizeInMB:      req.SizeInMB,
		Price:         priceMinor,
		Validity:      req.Validity,
		Discount:      req.Discount,
		IsBestValue:   req.IsBestValue,
		IsMostPopular: req.IsMostPopular,
	}
	err = h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		if err := h.catalog.CreateDataPlan(r.Context(), tx, plan); err != nil {
			return err
		}
		data, _ := json.Marshal(req)
		return h.audit.Log(r.Context(), tx, actorID, "create_data_plan", "data_plan", planID, string(data))
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to create plan")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"id": planID})
}

func (h *Handler) DeactivatePlan(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	kind := chi.URLParam(r, "kind")
	planID := chi.URLParam(r, "id")
	if kind != "airtime" && kind != "data" {
		respondError(w, http.StatusBadRequest, "unknown catalog kind")
		return
	}
	var affected int64
	err := h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		rows, err := h.catalog.DeactivatePlan(r.Context(), tx, kind, planID)
		if err != nil {
			return err
		}
		affected = rows
		if rows == 0 {
			return nil
		}
		return h.audit.Log(r.Context(), tx, actorID, "deactivate_plan", kind+"_plan", planID, "{}")
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to deactivate plan")
		return
	}
	if affected == 0 {
		respondError(w, http.StatusNotFound, "plan not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deactivated"})
}

func (h *Handler) FailFunding(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	transactionID := chi.URLParam(r, "id")
	if err := h.wallet.MarkFundingFailed(r.Context(), actorID, transactionID); err != nil {
		if err == services.ErrTransactionNotPending {
			respondError(w, http.StatusConflict, "transaction is not pending")
			return
		}
		respondError(w, http.StatusInternalServerError, "unable to fail transaction")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "failed"})
}
