package handlers

import (
	"net/http"

	"xtradata/internal/config"
	"xtradata/internal/db"
	"xtradata/internal/middleware"
	"xtradata/internal/websocket"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type Handler struct {
	txRunner     db.TxRunner
	cfg          config.Config
	users        UserStore
	catalog      CatalogStore
	transactions TransactionStore
	admin        AdminStore
	audit        AuditStore
	wallet       WalletService
	hub          *websocket.Hub
}

func New(txRunner db.TxRunner, cfg config.Config, users UserStore, catalog CatalogStore, transactions TransactionStore, admin AdminStore, audit AuditStore, wallet WalletService, hub *websocket.Hub) *Handler {
	return &Handler{
		txRunner:     txRunner,
		cfg:          cfg,
		users:        users,
		catalog:      catalog,
		transactions: transactions,
		admin:        admin,
		audit:        audit,
		wallet:       wallet,
		hub:          hub,
	}
}

func (h *Handler) Routes() http.Handler {
	router := chi.NewRouter()
	router.Use(chimiddleware.Logger)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{h.cfg.AllowedOrigins},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	router.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
		r.With(middleware.Auth(h.cfg.JWTSecret)).Get("/me", h.Me)
	})
	router.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(h.cfg.JWTSecret))
		r.Get("/auth/user", h.CurrentUser)
		r.Post("/wallet/fund", h.FundWallet)
		r.Post("/wallet/confirm", h.ConfirmFunding)
		r.Get("/wallet/self-check", h.SelfCheck)
		r.Get("/airtime/plans", h.ListAirtimePlans)
		r.Post("/airtime/purchase", h.PurchaseAirtime)
		r.Get("/data/plans", h.ListDataPlans)
		r.Post("/data/purchase", h.PurchaseData)
		r.Get("/transactions", h.ListTransactions)
		r.Get("/transactions/recent", h.ListRecentTransactions)
		r.Post("/support/chat", h.SupportChat)
	})
	router.Get("/ws/balance", h.WSWallet)

	router.Route("/admin", func(r chi.Router) {
		r.Use(middleware.Auth(h.cfg.JWTSecret))
		r.With(middleware.RequireAdmin(h.admin, "CanViewUsers")).Get("/users", h.AdminListUsers)
		r.With(middleware.RequireAdmin(h.admin, "CanViewTransactions")).Get("/transactions", h.AdminListTransactions)
		r.With(middleware.RequireAdmin(h.admin, "CanViewTransactions")).Get("/audit", h.ListAuditLogs)
		r.With(middleware.RequireAdmin(h.admin, "")).Post("/promote", h.PromoteAdmin)
		r.With(middleware.RequireAdmin(h.admin, "")).Post("/roles/grant", h.GrantRole)
		r.With(middleware.RequireAdmin(h.admin, "CanManageCatalog")).Post("/catalog/airtime", h.CreateAirtimePlan)
		r.With(middleware.RequireAdmin(h.admin, "CanManageCatalog")).Post("/catalog/data", h.CreateDataPlan)
		r.With(middleware.RequireAdmin(h.admin, "CanManageCatalog")).Post("/catalog/{kind}/{id}/deactivate", h.DeactivatePlan)
		r.With(middleware.RequireAdmin(h.admin, "CanViewTransactions")).Post("/funding/{id}/fail", h.FailFunding)
	})

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	return router
}
