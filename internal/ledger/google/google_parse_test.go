package google

import (
	"testing"

	"kasrt/internal/core"
)

func TestRowsToRecords(t *testing.T) {
	values := [][]any{
		{"ID", "Tanggal", "Nama Warga", "Blok", "Status Rumah", "Jenis Iuran", "Bulan", "Nominal", "Keterangan", "Bukti Bayar"},
		{"1700000001", "2024-01-15", "Budi", "AA-1", "Tetap", "Iuran Wajib", "Januari", 50000, "", "-"},
		{"1700000002", "2024-02-01", "Beli Lampu", "-", "-", "Perbaikan Fasilitas", "-", -30000},
	}
	records := rowsToRecords(values)
	if len(records) != 2 {
		t.Fatalf("records = %d, want 2", len(records))
	}
	if records[0][core.ColPayer] != "Budi" || records[0][core.ColAmount] != "50000" {
		t.Fatalf("record 0 = %v", records[0])
	}
	// short row: missing trailing columns map to empty strings
	if records[1][core.ColNote] != "" || records[1][core.ColAmount] != "-30000" {
		t.Fatalf("record 1 = %v", records[1])
	}

	txs := core.Normalize(records)
	if txs[0].Amount != 50000 || txs[1].Amount != -30000 {
		t.Fatalf("normalized amounts = %d, %d", txs[0].Amount, txs[1].Amount)
	}
	if txs[1].ProofFile != core.None {
		t.Fatalf("missing proof cell should normalize to sentinel, got %q", txs[1].ProofFile)
	}
}

func TestRowsToRecordsEmpty(t *testing.T) {
	if got := rowsToRecords(nil); got != nil {
		t.Fatalf("nil values should yield nil records")
	}
	headerOnly := [][]any{{"ID", "Tanggal"}}
	if got := rowsToRecords(headerOnly); got != nil {
		t.Fatalf("header-only sheet should yield nil records, got %v", got)
	}
}
