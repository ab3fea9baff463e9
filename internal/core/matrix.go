package core

// MatrixRow is one roster unit with its twelve monthly dues cells.
// Cells is keyed by month label; iterate with Months to keep the fixed
// calendar column order. Status is carried through untouched so the
// presentation layer can render vacant rows as inactive instead of
// unpaid.
type MatrixRow struct {
	UnitID   string
	Resident string
	Status   string
	Vacant   bool
	Cells    map[string]Rupiah
}

// DuesMatrix is the per-unit, per-month payment grid: one row per
// roster unit in roster order, one column per calendar month.
type DuesMatrix struct {
	Rows []MatrixRow
}

// Cell returns the paid amount for a unit and month, or 0.
func (m DuesMatrix) Cell(unitID, month string) Rupiah {
	for _, r := range m.Rows {
		if r.UnitID == unitID {
			return r.Cells[month]
		}
	}
	return 0
}

// BuildDuesMatrix reconciles the roster against mandatory-dues
// payments. Precondition: txs is already filtered to the reporting
// year by the caller; the builder never filters by year itself.
//
// Selection: category matches IsMandatoryDues and amount > 0. Negative
// or zero amounts under a dues category are refunds or corrections and
// must not mask nonpayment, so they never reach a cell. Payments for
// the same unit and month accumulate (installments); payments whose
// unit reference is not in the roster are dropped from the matrix
// only, never an error. An empty roster yields an empty matrix, an
// empty ledger yields all-zero cells.
func BuildDuesMatrix(units []Unit, txs []Transaction) DuesMatrix {
	rows := make([]MatrixRow, 0, len(units))
	byUnit := make(map[string]int, len(units))
	for _, u := range units {
		id := u.ID()
		cells := make(map[string]Rupiah, len(Months))
		for _, m := range Months {
			cells[m] = 0
		}
		byUnit[id] = len(rows)
		rows = append(rows, MatrixRow{
			UnitID:   id,
			Resident: u.DisplayName(),
			Status:   u.Status,
			Vacant:   u.IsVacant(),
			Cells:    cells,
		})
	}

	for _, t := range txs {
		if !IsMandatoryDues(t.Category) || t.Amount <= 0 {
			continue
		}
		if MonthIndex(t.Month) < 0 {
			continue
		}
		i, ok := byUnit[t.UnitRef]
		if !ok {
			// Dangling reference: the payer left the roster or the
			// entry carries a typo. Keep it out of the matrix; it
			// stays visible in the raw ledger view.
			continue
		}
		rows[i].Cells[canonicalMonth(t.Month)] += t.Amount
	}

	return DuesMatrix{Rows: rows}
}

// canonicalMonth maps a label to its Months spelling so that cell keys
// stay uniform regardless of the casing stored in the sheet.
func canonicalMonth(label string) string {
	return Months[MonthIndex(label)]
}
