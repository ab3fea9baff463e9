package ledger

import (
	"context"
	"errors"

	"kasrt/internal/core"
)

// Ports for outbound ledger adapters.
type (
	// TransactionLister returns every ledger row, already normalized.
	// Year filtering is the caller's responsibility.
	TransactionLister interface {
		ListTransactions(ctx context.Context) ([]core.Transaction, error)
	}

	TransactionAppender interface {
		Append(ctx context.Context, t core.Transaction) error
	}

	// TransactionDeleter removes one row by ID. A missing ID is the
	// one mutation failure that must be surfaced, as ErrNotFound.
	TransactionDeleter interface {
		Delete(ctx context.Context, id int64) error
	}

	// RosterReader loads the unit roster. The roster is read fresh on
	// every report render and never mutated here.
	RosterReader interface {
		ListUnits(ctx context.Context) ([]core.Unit, error)
	}

	// HeaderInitializer resets an empty ledger store to its header row.
	HeaderInitializer interface {
		InitHeaders(ctx context.Context) error
	}
)

var ErrNotFound = errors.New("transaction not found")

// Header is the ledger column order shared by all tabular backends.
var Header = []string{
	core.ColID, core.ColDate, core.ColPayer, core.ColUnitRef,
	core.ColStatus, core.ColCategory, core.ColMonth, core.ColAmount,
	core.ColNote, core.ColProofFile,
}
