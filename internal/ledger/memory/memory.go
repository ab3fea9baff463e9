package memory

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"kasrt/internal/core"
	ports "kasrt/internal/ledger"
)

// Store is the in-memory backend used for development and as the test
// double for the ledger ports.
type Store struct {
	mu    sync.Mutex
	units []core.Unit
	txs   []core.Transaction
}

var (
	_ ports.TransactionLister   = (*Store)(nil)
	_ ports.TransactionAppender = (*Store)(nil)
	_ ports.TransactionDeleter  = (*Store)(nil)
	_ ports.RosterReader        = (*Store)(nil)
)

func New(units []core.Unit) *Store {
	return &Store{units: units}
}

// NewFromFiles seeds the roster from <base>/seed_units.txt, one unit
// per line as "Blok;No;Status;Nama". Falls back to a small sample
// roster when the file is missing.
func NewFromFiles(base string) *Store {
	units := readUnits(filepath.Join(base, "seed_units.txt"))
	if len(units) == 0 {
		units = []core.Unit{
			{Block: "AA", Lot: "1", Status: "Tetap", Resident: "Budi"},
			{Block: "AA", Lot: "2", Status: "Kosong"},
			{Block: "AB", Lot: "1", Status: "Kontrak", Resident: "Siti"},
		}
	}
	return New(units)
}

func (s *Store) ListTransactions(_ context.Context) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Transaction(nil), s.txs...), nil
}

func (s *Store) ListUnits(_ context.Context) ([]core.Unit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Unit(nil), s.units...), nil
}

func (s *Store) Append(_ context.Context, t core.Transaction) error {
	if err := t.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.txs = append(s.txs, t)
	return nil
}

func (s *Store) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, t := range s.txs {
		if t.ID == id {
			s.txs = append(s.txs[:i], s.txs[i+1:]...)
			return nil
		}
	}
	return ports.ErrNotFound
}

func readUnits(path string) []core.Unit {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()
	var out []core.Unit
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.Split(line, ";")
		if len(parts) < 2 {
			continue
		}
		u := core.Unit{Block: strings.TrimSpace(parts[0]), Lot: strings.TrimSpace(parts[1])}
		if len(parts) > 2 {
			u.Status = strings.TrimSpace(parts[2])
		}
		if len(parts) > 3 {
			u.Resident = strings.TrimSpace(parts[3])
		}
		out = append(out, u)
	}
	return out
}
