package handlers

import (
	"context"
	"net/http"
	"testing"
)

func TestListTransactionsFormatsAmounts(t *testing.T) {
	handler := newTestHandler(fakeTxRunner{}, stubUserStore{}, stubCatalogStore{}, stubTransactionStore{
		listByUserFn: func(_ context.Context, userID string, limit, offset int) ([]map[string]any, error) {
			if userID != "user-1" || limit != 50 || offset != 0 {
				t.Fatalf("unexpected call: %s %d %d", userID, limit, offset)
			}
			return []map[string]any{
				{"id": "tx-1", "user_id": "user-1", "type": "airtime", "amount": int64(97000), "status": "completed", "description": "MTN Airtime - 08012345678"},
			}, nil
		},
	}, stubAdminStore{}, stubAuditStore{}, stubWalletService{})

	req := authedRequest(t, http.MethodGet, "/api/transactions", nil, "user-1")
	rr := serveAuthed(handler.ListTransactions, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if !bodyContains(rr, `"amount":"970.00"`) {
		t.Fatalf("unexpected body: %s", rr.Body.String())
	}
}

func TestListTransactionsPagination(t *testing.T) {
	handler := newTestHandler(fakeTxRunner{}, stubUserStore{}, stubCatalogStore{}, stubTransactionStore{
		listByUserFn: func(_ context.Context, _ string, limit, offset int) ([]map[string]any, error) {
			if limit != 10 || offset != 20 {
				t.Fatalf("unexpected pagination: limit=%d offset=%d", limit, offset)
			}
			return nil, nil
		},
	}, stubAdminStore{}, stubAuditStore{}, stubWalletService{})

	req := authedRequest(t, http.MethodGet, "/api/transactions?page=3&limit=10", nil, "user-1")
	rr := serveAuthed(handler.ListTransactions, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}

func TestListRecentTransactionsDefaultsToFive(t *testing.T) {
	handler := newTestHandler(fakeTxRunner{}, stubUserStore{}, stubCatalogStore{}, stubTransactionStore{
		listByUserFn: func(_ context.Context, _ string, limit, offset int) ([]map[string]any, error) {
			if limit != 5 || offset != 0 {
				t.Fatalf("unexpected pagination: limit=%d offset=%d", limit, offset)
			}
			return nil, nil
		},
	}, stubAdminStore{}, stubAuditStore{}, stubWalletService{})

	req := authedRequest(t, http.MethodGet, "/api/transactions/recent", nil, "user-1")
	rr := serveAuthed(handler.ListRecentTransactions, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}
