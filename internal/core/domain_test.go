package core

import "testing"

func TestUnitID(t *testing.T) {
	u := Unit{Block: "AA", Lot: "1"}
	if got := u.ID(); got != "AA-1" {
		t.Fatalf("ID = %q", got)
	}
	spaced := Unit{Block: " B ", Lot: " 12 "}
	if got := spaced.ID(); got != "B-12" {
		t.Fatalf("ID with spaces = %q", got)
	}
}

func TestUnitIsVacant(t *testing.T) {
	cases := []struct {
		status string
		want   bool
	}{
		{"Kosong", true},
		{"KOSONG", true},
		{"Vacant", true},
		{"", true},
		{"Tetap", false},
		{"Kontrak", false},
	}
	for _, tc := range cases {
		u := Unit{Status: tc.status}
		if got := u.IsVacant(); got != tc.want {
			t.Fatalf("IsVacant(%q) = %v, want %v", tc.status, got, tc.want)
		}
	}
}

func TestUnitDisplayName(t *testing.T) {
	named := Unit{Block: "AA", Lot: "1", Resident: "Budi"}
	if got := named.DisplayName(); got != "Budi" {
		t.Fatalf("DisplayName = %q", got)
	}
	anon := Unit{Block: "AA", Lot: "2"}
	if got := anon.DisplayName(); got != "Warga AA-2" {
		t.Fatalf("fallback DisplayName = %q", got)
	}
}

func TestValidateRoster(t *testing.T) {
	ok := []Unit{{Block: "AA", Lot: "1"}, {Block: "AA", Lot: "2"}}
	if err := ValidateRoster(ok); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	dup := append(ok, Unit{Block: "AA", Lot: "1", Resident: "other"})
	if err := ValidateRoster(dup); err == nil {
		t.Fatalf("expected duplicate unit error")
	}
}

func TestTransactionValidate(t *testing.T) {
	good := Transaction{Payer: "Budi", Category: "Iuran Wajib", Month: "Januari", Amount: 50000}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	expense := Transaction{Payer: "Beli Lampu", Category: "Perbaikan Fasilitas", Month: None, Amount: -30000}
	if err := expense.Validate(); err != nil {
		t.Fatalf("expected ok for expense, got %v", err)
	}

	bads := []Transaction{
		{Payer: "Budi", Category: "Iuran Wajib", Month: "Januari", Amount: 0},
		{Payer: "", Category: "Iuran Wajib", Month: "Januari", Amount: 1},
		{Payer: "Budi", Category: "", Month: "Januari", Amount: 1},
		{Payer: "Budi", Category: "Iuran Wajib", Month: "January", Amount: 1},
	}
	for i, tx := range bads {
		if err := tx.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestIsMandatoryDues(t *testing.T) {
	cases := []struct {
		category string
		want     bool
	}{
		{"Iuran Wajib", true},
		{"IURAN WAJIB BULANAN", true},
		{"wajib", true},
		{"Mandatory Dues", true},
		{"Sumbangan", false},
		{"Agustusan", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := IsMandatoryDues(tc.category); got != tc.want {
			t.Fatalf("IsMandatoryDues(%q) = %v, want %v", tc.category, got, tc.want)
		}
	}
}
