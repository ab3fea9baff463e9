package core

import (
	"errors"
	"strings"
	"time"
)

// None is the ledger sentinel for "not applicable": non-resident
// transactions carry it as unit reference, expenses as month label,
// and entries without an attached receipt as proof filename.
const None = "-"

type (
	Date struct {
		time.Time
	}

	// Unit is one housing lot in the roster. ID is derived from
	// block and lot number ("AA" + "1" -> "AA-1") and is the join
	// key between roster and ledger.
	Unit struct {
		Block    string
		Lot      string
		Status   string // occupancy, free text; see IsVacant
		Resident string // may be empty
	}

	// Transaction is one ledger entry. Positive amounts are income,
	// negative amounts are expenses. Immutable after append except
	// for whole-record deletion by ID.
	Transaction struct {
		ID             int64
		Date           Date
		Payer          string // resident name for income, description for expenses
		UnitRef        string // Unit ID or None
		StatusSnapshot string // occupancy status at entry time, or None
		Category       string // open set, e.g. "Iuran Wajib", "Perbaikan Fasilitas"
		Month          string // one of Months, or None
		Amount         Rupiah
		Note           string
		ProofFile      string // stored receipt name, or None
	}
)

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrEmptyPayer    = errors.New("empty payer or description")
	ErrEmptyCategory = errors.New("empty category")
	ErrInvalidMonth  = errors.New("invalid month label")
)

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses the ledger date format (YYYY-MM-DD). The zero Date
// is returned for anything unparseable; callers treat it as "no year".
func ParseDate(s string) Date {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return Date{}
	}
	return Date{Time: t}
}

func (d Date) String() string {
	if d.IsZero() {
		return None
	}
	return d.Format("2006-01-02")
}

// ID returns the derived unit identifier, block and lot joined by a dash.
func (u Unit) ID() string {
	return strings.TrimSpace(u.Block) + "-" + strings.TrimSpace(u.Lot)
}

// IsVacant reports whether the occupancy status is the vacant sentinel.
// The roster keeps status as free text, so match case-insensitively.
func (u Unit) IsVacant() bool {
	s := strings.TrimSpace(u.Status)
	return s == "" || strings.EqualFold(s, "Kosong") || strings.EqualFold(s, "Vacant")
}

// DisplayName returns the resident name, falling back to a generic
// label for units with no recorded resident.
func (u Unit) DisplayName() string {
	if name := strings.TrimSpace(u.Resident); name != "" {
		return name
	}
	return "Warga " + u.ID()
}

// ValidateRoster rejects rosters with duplicate unit IDs. A duplicate
// would make matrix cells ambiguous, so it is surfaced to the
// administrator instead of silently resolved.
func ValidateRoster(units []Unit) error {
	seen := make(map[string]struct{}, len(units))
	for _, u := range units {
		id := u.ID()
		if _, dup := seen[id]; dup {
			return errors.New("duplicate unit in roster: " + id)
		}
		seen[id] = struct{}{}
	}
	return nil
}

// HasDate reports whether the transaction has a parseable date and
// therefore a defined year.
func (t Transaction) HasDate() bool {
	return !t.Date.IsZero()
}

// Year returns the derived year, or 0 when the date is undefined.
func (t Transaction) Year() int {
	if !t.HasDate() {
		return 0
	}
	return t.Date.Time.Year()
}

// IsExpense reports whether the amount direction encodes an outflow.
func (t Transaction) IsExpense() bool {
	return t.Amount < 0
}

// Validate checks a transaction at entry time. Zero amounts are
// rejected here; rows already in the store are never rejected (the
// normalizer coerces them instead).
func (t Transaction) Validate() error {
	if t.Amount == 0 {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(t.Payer) == "" {
		return ErrEmptyPayer
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	if t.Month != None && MonthIndex(t.Month) < 0 {
		return ErrInvalidMonth
	}
	return nil
}

// IsMandatoryDues is the single definition of the dues-category match:
// substring, case-insensitive. "Iuran Wajib" and "IURAN WAJIB BULANAN"
// match; "Sumbangan" does not.
func IsMandatoryDues(category string) bool {
	c := strings.ToLower(category)
	return strings.Contains(c, "wajib") || strings.Contains(c, "mandatory")
}
