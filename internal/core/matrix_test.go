package core

import (
	"reflect"
	"testing"
)

func roster() []Unit {
	return []Unit{
		{Block: "AA", Lot: "1", Status: "Tetap", Resident: "Budi"},
		{Block: "AA", Lot: "2", Status: "Kosong"},
	}
}

func dues(unit, month string, amount Rupiah) Transaction {
	return Transaction{
		Date:     NewDate(2024, 1, 15),
		Payer:    "x",
		UnitRef:  unit,
		Category: "Iuran Wajib",
		Month:    month,
		Amount:   amount,
	}
}

func TestBuildDuesMatrixScenario(t *testing.T) {
	txs := []Transaction{
		dues("AA-1", "Januari", 50000),
		dues("AA-1", "Januari", 20000),
		dues("AA-3", "Februari", 10000), // not in roster
	}
	m := BuildDuesMatrix(roster(), txs)

	if len(m.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(m.Rows))
	}
	if m.Rows[0].UnitID != "AA-1" || m.Rows[1].UnitID != "AA-2" {
		t.Fatalf("row order = %s, %s", m.Rows[0].UnitID, m.Rows[1].UnitID)
	}
	if got := m.Cell("AA-1", "Januari"); got != 70000 {
		t.Fatalf("AA-1 Januari = %d, want 70000 (installments summed)", got)
	}
	for _, month := range Months[1:] {
		if got := m.Cell("AA-1", month); got != 0 {
			t.Fatalf("AA-1 %s = %d, want 0", month, got)
		}
	}
	for _, month := range Months {
		if got := m.Cell("AA-2", month); got != 0 {
			t.Fatalf("AA-2 %s = %d, want 0", month, got)
		}
	}
	if !m.Rows[1].Vacant || m.Rows[1].Status != "Kosong" {
		t.Fatalf("AA-2 status not carried through: %+v", m.Rows[1])
	}
}

func TestBuildDuesMatrixShape(t *testing.T) {
	m := BuildDuesMatrix(roster(), nil)
	if len(m.Rows) != 2 {
		t.Fatalf("rows = %d, want one per unit", len(m.Rows))
	}
	for _, r := range m.Rows {
		if len(r.Cells) != 12 {
			t.Fatalf("unit %s has %d cells, want 12", r.UnitID, len(r.Cells))
		}
	}
	if empty := BuildDuesMatrix(nil, nil); len(empty.Rows) != 0 {
		t.Fatalf("empty roster should yield empty matrix, got %d rows", len(empty.Rows))
	}
}

func TestBuildDuesMatrixExcludesNonPositive(t *testing.T) {
	txs := []Transaction{
		dues("AA-1", "Maret", -50000), // refund, must not mask nonpayment
		dues("AA-1", "Maret", 0),
	}
	m := BuildDuesMatrix(roster(), txs)
	if got := m.Cell("AA-1", "Maret"); got != 0 {
		t.Fatalf("Maret = %d, want 0 after exclusion", got)
	}
}

func TestBuildDuesMatrixCategoryMatch(t *testing.T) {
	cases := []struct {
		category string
		want     Rupiah
	}{
		{"Iuran Wajib", 5000},
		{"IURAN WAJIB BULANAN", 5000},
		{"mandatory dues", 5000},
		{"Sumbangan", 0},
		{"Kematian", 0},
	}
	for _, tc := range cases {
		tx := dues("AA-1", "Juni", 5000)
		tx.Category = tc.category
		m := BuildDuesMatrix(roster(), []Transaction{tx})
		if got := m.Cell("AA-1", "Juni"); got != tc.want {
			t.Fatalf("category %q: cell = %d, want %d", tc.category, got, tc.want)
		}
	}
}

func TestBuildDuesMatrixIgnoresBadMonthAndSentinel(t *testing.T) {
	txs := []Transaction{
		dues("AA-1", None, 5000),
		dues("AA-1", "Mars", 5000),
	}
	m := BuildDuesMatrix(roster(), txs)
	for _, month := range Months {
		if got := m.Cell("AA-1", month); got != 0 {
			t.Fatalf("%s = %d, want 0", month, got)
		}
	}
}

func TestBuildDuesMatrixCaseInsensitiveMonth(t *testing.T) {
	m := BuildDuesMatrix(roster(), []Transaction{dues("AA-1", "januari", 5000)})
	if got := m.Cell("AA-1", "Januari"); got != 5000 {
		t.Fatalf("lowercase month label not folded into cell, got %d", got)
	}
}

func TestBuildDuesMatrixIdempotent(t *testing.T) {
	txs := []Transaction{
		dues("AA-1", "Januari", 50000),
		dues("AA-2", "Desember", 30000),
	}
	a := BuildDuesMatrix(roster(), txs)
	b := BuildDuesMatrix(roster(), txs)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("matrix build is not idempotent:\n%v\n%v", a, b)
	}
}

func TestMonthIndexOrder(t *testing.T) {
	if len(Months) != 12 {
		t.Fatalf("Months has %d entries", len(Months))
	}
	if MonthIndex("Januari") != 0 || MonthIndex("April") != 3 || MonthIndex("Desember") != 11 {
		t.Fatalf("calendar order broken: Jan=%d Apr=%d Des=%d",
			MonthIndex("Januari"), MonthIndex("April"), MonthIndex("Desember"))
	}
	if MonthIndex(None) != -1 || MonthIndex("January") != -1 {
		t.Fatalf("non-labels must map to -1")
	}
}
