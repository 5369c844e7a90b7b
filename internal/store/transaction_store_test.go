package store

import (
	"context"
	"database/sql"
	"strings"
	"testing"
)

func TestTransactionStoreCreate(t *testing.T) {
	ctx := context.Background()
	store := NewTransactionStore(stubDB{})
	execer := stubExecer{
		execFn: func(_ context.Context, query string, args ...any) (sql.Result, error) {
			if !strings.Contains(query, "INSERT INTO transactions") {
				t.Fatalf("unexpected query: %s", query)
			}
			if args[2] != "airtime" || args[3] != int64(97000) || args[4] != "completed" {
				t.Fatalf("unexpected args: %#v", args)
			}
			return stubResult{rows: 1}, nil
		},
	}
	err := store.Create(ctx, execer, TransactionInput{
		ID:          "tx-1",
		UserID:      "user-1",
		Type:        "airtime",
		Amount:      97000,
		Status:      "completed",
		Description: "MTN Airtime - 08012345678",
		Metadata:    "{}",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestTransactionStoreSettlePendingGuardsStatus(t *testing.T) {
	ctx := context.Background()
	store := NewTransactionStore(stubDB{})
	execer := stubExecer{
		execFn: func(_ context.Context, query string, args ...any) (sql.Result, error) {
			if !strings.Contains(query, "status = 'pending'") {
				t.Fatalf("expected pending guard in query: %s", query)
			}
			return stubResult{rows: 0}, nil
		},
	}
	affected, err := store.SettlePending(ctx, execer, "tx-1", "completed")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if affected != 0 {
		t.Fatalf("expected already-settled row to report zero, got %d", affected)
	}
}

func TestTransactionStoreFindPendingFunding(t *testing.T) {
	ctx := context.Background()
	store := NewTransactionStore(stubDB{})
	getter := stubGetter{
		getFn: func(_ context.Context, dest any, query string, args ...any) error {
			if !strings.Contains(query, "type = 'funding'") || !strings.Contains(query, "ORDER BY created_at DESC") {
				t.Fatalf("unexpected query: %s", query)
			}
			if args[0] != "user-1" || args[1] != int64(100000) {
				t.Fatalf("unexpected args: %#v", args)
			}
			*dest.(*string) = "tx-pending"
			return nil
		},
	}
	id, err := store.FindPendingFunding(ctx, getter, "user-1", 100000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "tx-pending" {
		t.Fatalf("unexpected id: %s", id)
	}
}

func TestTransactionStoreSignedSum(t *testing.T) {
	ctx := context.Background()
	store := NewTransactionStore(stubDB{
		getFn: func(_ context.Context, dest any, query string, args ...any) error {
			if !strings.Contains(query, "CASE WHEN type = 'funding' THEN amount ELSE -amount END") {
				t.Fatalf("unexpected query: %s", query)
			}
			if !strings.Contains(query, "status = 'completed'") {
				t.Fatalf("pending rows must not count toward the sum: %s", query)
			}
			*dest.(*int64) = 3000
			return nil
		},
	})
	sum, err := store.SignedSumByUser(ctx, "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sum != 3000 {
		t.Fatalf("unexpected sum: %d", sum)
	}
}

func TestTransactionStoreListByUserNewestFirst(t *testing.T) {
	ctx := context.Background()
	store := NewTransactionStore(stubDB{
		selectFn: func(_ context.Context, dest any, query string, args ...any) error {
			if !strings.Contains(query, "ORDER BY created_at DESC") {
				t.Fatalf("expected newest-first ordering: %s", query)
			}
			if args[0] != "user-1" || args[1] != 5 || args[2] != 0 {
				t.Fatalf("unexpected args: %#v", args)
			}
			rows := dest.(*[]transactionRow)
			*rows = []transactionRow{{ID: "tx-1", UserID: "user-1", Type: "data", Amount: 24000, Status: "completed"}}
			return nil
		},
	})
	items, err := store.ListByUser(ctx, "user-1", 5, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 || items[0]["id"] != "tx-1" {
		t.Fatalf("unexpected items: %#v", items)
	}
}
