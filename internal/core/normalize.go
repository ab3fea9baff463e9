package core

import (
	"sort"
	"strconv"
	"strings"
)

// Ledger column names as they appear in the spreadsheet header row.
// Adapters key RawRecord values by these constants.
const (
	ColID        = "ID"
	ColDate      = "Tanggal"
	ColPayer     = "Nama Warga"
	ColUnitRef   = "Blok"
	ColStatus    = "Status Rumah"
	ColCategory  = "Jenis Iuran"
	ColMonth     = "Bulan"
	ColAmount    = "Nominal"
	ColNote      = "Keterangan"
	ColProofFile = "Bukti Bayar"
)

// RawRecord is one loosely typed ledger row as delivered by the store
// adapter: header name to cell text, no guaranteed types.
type RawRecord map[string]string

// Normalize coerces raw ledger rows into typed transactions. It is a
// pure transform and never rejects a row: an unparseable amount
// becomes 0 (excluded from totals but kept in the ledger view), an
// unparseable date leaves the year undefined (excluded from
// year-filtered views only), an unparseable ID becomes 0.
func Normalize(records []RawRecord) []Transaction {
	out := make([]Transaction, 0, len(records))
	for _, rec := range records {
		id, _ := strconv.ParseInt(strings.TrimSpace(rec[ColID]), 10, 64)
		out = append(out, Transaction{
			ID:             id,
			Date:           ParseDate(rec[ColDate]),
			Payer:          strings.TrimSpace(rec[ColPayer]),
			UnitRef:        orNone(rec[ColUnitRef]),
			StatusSnapshot: orNone(rec[ColStatus]),
			Category:       strings.TrimSpace(rec[ColCategory]),
			Month:          orNone(rec[ColMonth]),
			Amount:         coerceAmount(rec[ColAmount]),
			Note:           strings.TrimSpace(rec[ColNote]),
			ProofFile:      orNone(rec[ColProofFile]),
		})
	}
	return out
}

// coerceAmount parses a signed amount leniently. Spreadsheet cells may
// carry integers, floats ("50000.0") or junk; junk coerces to 0.
func coerceAmount(s string) Rupiah {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Rupiah(v)
	}
	s = strings.ReplaceAll(s, ",", ".")
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		if f < 0 {
			return Rupiah(f - 0.5)
		}
		return Rupiah(f + 0.5)
	}
	return 0
}

func orNone(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return None
	}
	return s
}

// FilterYear returns the transactions whose derived year matches.
// Rows without a parseable date have no year and are excluded here,
// while remaining visible in the unfiltered ledger view.
func FilterYear(txs []Transaction, year int) []Transaction {
	var out []Transaction
	for _, t := range txs {
		if t.HasDate() && t.Year() == year {
			out = append(out, t)
		}
	}
	return out
}

// Years returns the distinct years present in the ledger, newest
// first, for the report year selector.
func Years(txs []Transaction) []int {
	seen := map[int]struct{}{}
	var out []int
	for _, t := range txs {
		if !t.HasDate() {
			continue
		}
		y := t.Year()
		if _, ok := seen[y]; ok {
			continue
		}
		seen[y] = struct{}{}
		out = append(out, y)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(out)))
	return out
}
