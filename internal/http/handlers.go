package http

import (
	"context"
	"errors"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"

	"kasrt/internal/core"
	"kasrt/internal/ledger"
	"kasrt/internal/services"
)

// View models for server-side rendering. Amounts are pre-formatted so
// the templates stay free of money logic.

type cellView struct {
	Month  string
	Amount string
	Paid   bool
}

type matrixRowView struct {
	UnitID   string
	Resident string
	Status   string
	Vacant   bool
	Cells    []cellView
}

type txView struct {
	ID        int64
	Date      string
	Payer     string
	UnitRef   string
	Category  string
	Month     string
	Amount    string
	Expense   bool
	Note      string
	ProofFile string
	HasProof  bool
}

type categoryView struct {
	Name   string
	Amount string
	Width  int
}

type unitView struct {
	UnitID   string
	Block    string
	Lot      string
	Status   string
	Resident string
	Vacant   bool
}

type reportView struct {
	Year         int
	Years        []int
	Ready        bool
	Admin        bool
	AdminEnabled bool
	Income       string
	Expense      string
	Balance      string
	Months       []string
	MonthOptions []string
	Matrix       []matrixRowView
	RosterErr    string
	Roster       []unitView
	Expenses     []categoryView
	Transactions []txView
}

func (s *Server) buildReportView(r *http.Request, rep services.YearReport) reportView {
	v := reportView{
		Year:         rep.Year,
		Years:        rep.Years,
		Ready:        rep.Ready,
		Admin:        s.isAdmin(r),
		AdminEnabled: s.sessions.enabled(),
		Income:       rep.Summary.Income.Format(),
		Expense:      rep.Summary.Expense.Abs().Format(),
		Balance:      rep.Summary.Balance.Format(),
		Months:       core.Months,
		MonthOptions: append([]string{core.None}, core.Months...),
	}
	if rep.RosterErr != nil {
		v.RosterErr = rep.RosterErr.Error()
	}

	for _, row := range rep.Matrix.Rows {
		rv := matrixRowView{
			UnitID:   row.UnitID,
			Resident: row.Resident,
			Status:   row.Status,
			Vacant:   row.Vacant,
		}
		for _, m := range core.Months {
			amt := row.Cells[m]
			rv.Cells = append(rv.Cells, cellView{
				Month:  m,
				Amount: amt.Format(),
				Paid:   amt > 0,
			})
		}
		v.Matrix = append(v.Matrix, rv)
	}

	for _, u := range rep.Units {
		v.Roster = append(v.Roster, unitView{
			UnitID:   u.ID(),
			Block:    u.Block,
			Lot:      u.Lot,
			Status:   u.Status,
			Resident: u.DisplayName(),
			Vacant:   u.IsVacant(),
		})
	}

	var maxExpense core.Rupiah
	for _, e := range rep.Expenses {
		if e.Amount > maxExpense {
			maxExpense = e.Amount
		}
	}
	for _, e := range rep.Expenses {
		width := 0
		if maxExpense > 0 && e.Amount > 0 {
			width = int((int64(e.Amount)*100 + int64(maxExpense)/2) / int64(maxExpense))
			if width > 0 && width < 2 {
				width = 2
			}
			if width > 100 {
				width = 100
			}
		}
		v.Expenses = append(v.Expenses, categoryView{Name: e.Name, Amount: e.Amount.Format(), Width: width})
	}

	for _, t := range rep.Transactions {
		v.Transactions = append(v.Transactions, txView{
			ID:        t.ID,
			Date:      t.Date.String(),
			Payer:     t.Payer,
			UnitRef:   t.UnitRef,
			Category:  t.Category,
			Month:     t.Month,
			Amount:    t.Amount.Abs().Format(),
			Expense:   t.IsExpense(),
			Note:      t.Note,
			ProofFile: t.ProofFile,
			HasProof:  t.ProofFile != core.None && t.ProofFile != "",
		})
	}

	return v
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if s.templates == nil {
		slog.ErrorContext(r.Context(), "Templates not loaded", "url", r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	rep := s.reports.BuildYearReport(r.Context(), parseYear(r))
	data := s.buildReportView(r, rep)

	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Index template execution failed", "error", err, "template", "index.html")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// handleDuesMatrix renders the dues reconciliation grid partial.
func (s *Server) handleDuesMatrix(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	rep := s.reports.BuildYearReport(r.Context(), parseYear(r))
	data := s.buildReportView(r, rep)

	if s.templates == nil {
		_, _ = w.Write([]byte(`<section id="dues-matrix"><div class="placeholder">Template tidak tersedia</div></section>`))
		return
	}
	if err := s.templates.ExecuteTemplate(w, "dues_matrix.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution error", "error", err, "template", "dues_matrix.html", "year", rep.Year)
		_, _ = w.Write([]byte(`<section id="dues-matrix"><div class="placeholder">Gagal memuat rekap iuran</div></section>`))
	}
}

// handleExpenses renders the expense breakdown partial.
func (s *Server) handleExpenses(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	rep := s.reports.BuildYearReport(r.Context(), parseYear(r))
	data := s.buildReportView(r, rep)

	if s.templates == nil {
		_, _ = w.Write([]byte(`<section id="expenses"><div class="placeholder">Template tidak tersedia</div></section>`))
		return
	}
	if err := s.templates.ExecuteTemplate(w, "expenses.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution error", "error", err, "template", "expenses.html", "year", rep.Year)
		_, _ = w.Write([]byte(`<section id="expenses"><div class="placeholder">Gagal memuat pengeluaran</div></section>`))
	}
}

const maxUploadBytes = 10 << 20

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if !s.isAdmin(r) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`<div class="error">Login admin diperlukan</div>`))
		return
	}
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		slog.ErrorContext(r.Context(), "Parse multipart form error", "error", err, "method", r.Method, "url", r.URL.Path)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`<div class="error">Format permintaan tidak valid</div>`))
		return
	}

	payer := sanitizeInput(r.Form.Get("payer"))
	category := sanitizeInput(r.Form.Get("category"))
	month := sanitizeInput(r.Form.Get("month"))
	note := sanitizeInput(r.Form.Get("note"))
	unitRef := sanitizeInput(r.Form.Get("unit_ref"))
	status := sanitizeInput(r.Form.Get("status"))
	kind := r.Form.Get("kind")

	if month == "" {
		month = core.None
	}
	if unitRef == "" {
		unitRef = core.None
	}
	if status == "" {
		status = core.None
	}
	if note == "" {
		note = core.None
	}

	amount, err := core.ParseRupiah(r.Form.Get("amount"))
	if err != nil {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`<div class="error">Nominal tidak valid</div>`))
		return
	}
	if kind == "keluar" {
		amount = -amount
	}

	proofFile := core.None
	if file, header, err := r.FormFile("proof"); err == nil {
		proofFile = s.proofs.Save(header.Filename, io.LimitReader(file, maxUploadBytes))
		file.Close()
	}

	t := core.Transaction{
		Date:           core.ParseDate(r.Form.Get("date")),
		Payer:          payer,
		UnitRef:        unitRef,
		StatusSnapshot: status,
		Category:       category,
		Month:          month,
		Amount:         amount,
		Note:           note,
		ProofFile:      proofFile,
	}
	if err := t.Validate(); err != nil {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`<div class="error">Data tidak valid: ` + template.HTMLEscapeString(err.Error()) + `</div>`))
		return
	}

	saved, err := s.writer.CreateTransaction(r.Context(), t)
	if err != nil {
		slog.ErrorContext(r.Context(), "Transaction append error", "error", err, "payer", t.Payer, "amount", int64(t.Amount))
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`<div class="error">Gagal menyimpan transaksi</div>`))
		return
	}

	w.Header().Set("HX-Trigger", `{"transaction:created": {"id": `+strconv.FormatInt(saved.ID, 10)+`}}`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`<div class="success">Transaksi tersimpan (#` + strconv.FormatInt(saved.ID, 10) + `): ` +
		template.HTMLEscapeString(saved.Payer) +
		` — ` + template.HTMLEscapeString(saved.Amount.Abs().Format()) +
		` (` + template.HTMLEscapeString(saved.Category) + `)</div>`))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if !s.isAdmin(r) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`<div class="error">Login admin diperlukan</div>`))
		return
	}
	if err := r.ParseForm(); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`<div class="error">Format permintaan tidak valid</div>`))
		return
	}

	id, err := strconv.ParseInt(strings.TrimSpace(r.Form.Get("id")), 10, 64)
	if err != nil {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`<div class="error">ID transaksi tidak valid</div>`))
		return
	}

	if err := s.writer.DeleteTransaction(r.Context(), id); err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`<div class="error">Transaksi #` + strconv.FormatInt(id, 10) + ` tidak ditemukan</div>`))
			return
		}
		slog.ErrorContext(r.Context(), "Transaction delete error", "error", err, "id", id)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`<div class="error">Gagal menghapus transaksi</div>`))
		return
	}

	w.Header().Set("HX-Trigger", `{"transaction:deleted": {"id": `+strconv.FormatInt(id, 10)+`}}`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`<div class="success">Transaksi #` + strconv.FormatInt(id, 10) + ` dihapus</div>`))
}

// handleProof serves a stored payment proof by name.
func (s *Server) handleProof(w http.ResponseWriter, r *http.Request) {
	name := path.Base(strings.TrimPrefix(r.URL.Path, "/proofs/"))
	f, err := s.proofs.Open(name)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		http.NotFound(w, r)
		return
	}
	http.ServeContent(w, r, name, info.ModTime(), f)
}

// handleInitHeaders re-seeds the ledger header row on a fresh sheet.
func (s *Server) handleInitHeaders(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if !s.isAdmin(r) {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	if s.headers == nil {
		w.WriteHeader(http.StatusNotImplemented)
		_, _ = w.Write([]byte(`<div class="error">Backend ini tidak mendukung inisialisasi header</div>`))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()
	if err := s.headers.InitHeaders(ctx); err != nil {
		slog.ErrorContext(r.Context(), "Init headers error", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`<div class="error">Gagal menginisialisasi header</div>`))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`<div class="success">Header berhasil diinisialisasi</div>`))
}
