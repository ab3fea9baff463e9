package services

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"kasrt/internal/core"
	ledger "kasrt/internal/ledger"
)

// YearReport is everything one dashboard render needs: the year
// selector, running totals, the dues matrix, the expense breakdown and
// the raw transaction list for the selected year.
type YearReport struct {
	Year         int
	Years        []int
	Ready        bool // false when the store was unreachable
	Summary      core.Summary
	Matrix       core.DuesMatrix
	Units        []core.Unit
	RosterErr    error // duplicate-unit validation, surfaced to the admin
	Expenses     []core.CategoryAmount
	Transactions []core.Transaction
}

// ReportService assembles dashboard reports. Every render reloads the
// roster and the ledger fresh; there is no cross-request caching, and
// an unavailable store degrades to an empty dataset instead of an
// error page.
type ReportService struct {
	txs    ledger.TransactionLister
	roster ledger.RosterReader
}

func NewReportService(txs ledger.TransactionLister, roster ledger.RosterReader) *ReportService {
	return &ReportService{txs: txs, roster: roster}
}

// BuildYearReport loads both collaborators in parallel and reconciles
// them for the requested year. year == 0 selects the newest year in
// the ledger, falling back to the current year for an empty ledger.
// The year filter is applied here, never inside the matrix builder.
func (s *ReportService) BuildYearReport(ctx context.Context, year int) YearReport {
	var (
		txs   []core.Transaction
		units []core.Unit
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		txs, err = s.txs.ListTransactions(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		units, err = s.roster.ListUnits(gctx)
		return err
	})

	ready := true
	if err := g.Wait(); err != nil {
		// Store unavailable: degrade to an empty dataset, all-zero
		// cells, and a "not ready" flag for the banner.
		slog.ErrorContext(ctx, "Ledger store unavailable, rendering empty report", "error", err)
		txs, units = nil, nil
		ready = false
	}

	years := core.Years(txs)
	if year == 0 {
		if len(years) > 0 {
			year = years[0]
		} else {
			year = time.Now().Year()
		}
	}

	filtered := core.FilterYear(txs, year)
	return YearReport{
		Year:         year,
		Years:        years,
		Ready:        ready,
		Summary:      core.Totals(filtered),
		Matrix:       core.BuildDuesMatrix(units, filtered),
		Units:        units,
		RosterErr:    core.ValidateRoster(units),
		Expenses:     core.ExpenseBreakdown(filtered),
		Transactions: filtered,
	}
}
