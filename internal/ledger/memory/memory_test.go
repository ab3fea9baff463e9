package memory

import (
	"context"
	"errors"
	"testing"

	"kasrt/internal/core"
	ports "kasrt/internal/ledger"
)

func TestAppendListDelete(t *testing.T) {
	ctx := context.Background()
	s := New([]core.Unit{{Block: "AA", Lot: "1", Status: "Tetap", Resident: "Budi"}})

	tx := core.Transaction{
		ID: 1, Date: core.NewDate(2024, 1, 15), Payer: "Budi", UnitRef: "AA-1",
		StatusSnapshot: "Tetap", Category: "Iuran Wajib", Month: "Januari",
		Amount: 50000, ProofFile: core.None,
	}
	if err := s.Append(ctx, tx); err != nil {
		t.Fatalf("append: %v", err)
	}

	txs, err := s.ListTransactions(ctx)
	if err != nil || len(txs) != 1 {
		t.Fatalf("list = %v, %v", txs, err)
	}

	if err := s.Delete(ctx, 1); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.Delete(ctx, 1); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("second delete = %v, want ErrNotFound", err)
	}

	txs, _ = s.ListTransactions(ctx)
	if len(txs) != 0 {
		t.Fatalf("expected empty ledger after delete, got %d", len(txs))
	}
}

func TestAppendRejectsInvalid(t *testing.T) {
	s := New(nil)
	zero := core.Transaction{Payer: "Budi", Category: "Iuran Wajib", Month: core.None}
	if err := s.Append(context.Background(), zero); err == nil {
		t.Fatalf("expected validation error for zero amount")
	}
}

func TestNewFromFilesFallback(t *testing.T) {
	s := NewFromFiles(t.TempDir())
	units, err := s.ListUnits(context.Background())
	if err != nil {
		t.Fatalf("list units: %v", err)
	}
	if len(units) == 0 {
		t.Fatalf("expected fallback sample roster")
	}
	if err := core.ValidateRoster(units); err != nil {
		t.Fatalf("sample roster invalid: %v", err)
	}
}
