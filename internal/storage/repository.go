package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"kasrt/internal/core"
	ports "kasrt/internal/ledger"

	_ "modernc.org/sqlite"
)

// SQLiteRepository is the local ledger backend. Entries land here
// first and are mirrored to the Google Sheets workbook by the sync
// worker.
type SQLiteRepository struct {
	db *sql.DB
}

var (
	_ ports.TransactionLister   = (*SQLiteRepository)(nil)
	_ ports.TransactionAppender = (*SQLiteRepository)(nil)
	_ ports.TransactionDeleter  = (*SQLiteRepository)(nil)
	_ ports.RosterReader        = (*SQLiteRepository)(nil)
)

// PendingTransaction is the minimal shape queued for the sync worker.
type PendingTransaction struct {
	ID        int64
	Version   int64
	CreatedAt time.Time
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Append implements ledger.TransactionAppender.
func (r *SQLiteRepository) Append(ctx context.Context, t core.Transaction) error {
	if err := t.Validate(); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO transactions
			(id, entry_date, payer, unit_ref, status_snapshot, category,
			 month_label, amount, note, proof_file)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Date.String(), t.Payer, t.UnitRef, t.StatusSnapshot,
		t.Category, t.Month, int64(t.Amount), t.Note, t.ProofFile)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	slog.InfoContext(ctx, "Transaction saved to SQLite",
		"id", t.ID, "category", t.Category, "amount", int64(t.Amount))
	return nil
}

// ListTransactions implements ledger.TransactionLister. Rows are
// normalized through the same path as spreadsheet rows so a corrupt
// cell degrades identically on every backend.
func (r *SQLiteRepository) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, entry_date, payer, unit_ref, status_snapshot, category,
		       month_label, amount, note, proof_file
		FROM transactions ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var records []core.RawRecord
	for rows.Next() {
		var id, amount int64
		var date, payer, unitRef, status, category, month, note, proof string
		if err := rows.Scan(&id, &date, &payer, &unitRef, &status, &category,
			&month, &amount, &note, &proof); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		records = append(records, core.RawRecord{
			core.ColID:        fmt.Sprint(id),
			core.ColDate:      date,
			core.ColPayer:     payer,
			core.ColUnitRef:   unitRef,
			core.ColStatus:    status,
			core.ColCategory:  category,
			core.ColMonth:     month,
			core.ColAmount:    fmt.Sprint(amount),
			core.ColNote:      note,
			core.ColProofFile: proof,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return core.Normalize(records), nil
}

// Delete implements ledger.TransactionDeleter. A missing ID is
// surfaced as ledger.ErrNotFound.
func (r *SQLiteRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ports.ErrNotFound
	}
	slog.InfoContext(ctx, "Transaction deleted from SQLite", "id", id)
	return nil
}

// ListUnits implements ledger.RosterReader.
func (r *SQLiteRepository) ListUnits(ctx context.Context) ([]core.Unit, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT block, lot, status, resident FROM units ORDER BY block, lot`)
	if err != nil {
		return nil, fmt.Errorf("list units: %w", err)
	}
	defer rows.Close()

	var units []core.Unit
	for rows.Next() {
		var u core.Unit
		if err := rows.Scan(&u.Block, &u.Lot, &u.Status, &u.Resident); err != nil {
			return nil, fmt.Errorf("scan unit: %w", err)
		}
		units = append(units, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate units: %w", err)
	}
	return units, nil
}

// UpsertUnit adds or updates one roster row.
func (r *SQLiteRepository) UpsertUnit(ctx context.Context, u core.Unit) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO units (block, lot, status, resident) VALUES (?, ?, ?, ?)
		ON CONFLICT (block, lot) DO UPDATE SET status = excluded.status, resident = excluded.resident`,
		u.Block, u.Lot, u.Status, u.Resident)
	if err != nil {
		return fmt.Errorf("upsert unit: %w", err)
	}
	return nil
}

// GetTransaction fetches one row by ID for the sync worker.
func (r *SQLiteRepository) GetTransaction(ctx context.Context, id int64) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, entry_date, payer, unit_ref, status_snapshot, category,
		       month_label, amount, note, proof_file
		FROM transactions WHERE id = ?`, id)

	var t core.Transaction
	var date string
	var amount int64
	err := row.Scan(&t.ID, &date, &t.Payer, &t.UnitRef, &t.StatusSnapshot,
		&t.Category, &t.Month, &amount, &t.Note, &t.ProofFile)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, ports.ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}
	t.Date = core.ParseDate(date)
	t.Amount = core.Rupiah(amount)
	return t, nil
}

// GetPendingSync returns transactions not yet mirrored to the sheet.
func (r *SQLiteRepository) GetPendingSync(ctx context.Context, limit int) ([]PendingTransaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, version, created_at FROM transactions
		WHERE sync_status = 'pending' ORDER BY created_at LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("get pending sync: %w", err)
	}
	defer rows.Close()

	var out []PendingTransaction
	for rows.Next() {
		var p PendingTransaction
		if err := rows.Scan(&p.ID, &p.Version, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan pending: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// MarkSynced records a successful mirror to the sheet.
func (r *SQLiteRepository) MarkSynced(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET sync_status = 'synced' WHERE id = ?`, id); err != nil {
		return fmt.Errorf("mark synced: %w", err)
	}
	return nil
}

// MarkSyncError flags a row whose mirror attempt failed.
func (r *SQLiteRepository) MarkSyncError(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET sync_status = 'error' WHERE id = ?`, id); err != nil {
		return fmt.Errorf("mark sync error: %w", err)
	}
	slog.WarnContext(ctx, "Transaction marked with sync error", "id", id)
	return nil
}
