package http

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"kasrt/internal/core"
	"kasrt/internal/ledger/memory"
	"kasrt/internal/proof"
	"kasrt/internal/services"
)

func newTestServer(t *testing.T, password string) *Server {
	t.Helper()

	store := memory.New([]core.Unit{
		{Block: "AA", Lot: "1", Status: "Tetap", Resident: "Budi"},
		{Block: "AA", Lot: "2", Status: "Kosong"},
	})
	proofs, err := proof.NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("proof store: %v", err)
	}
	reports := services.NewReportService(store, store)
	writer := services.NewLedgerService(store, nil)
	return NewServer(":0", reports, writer, proofs, nil, password)
}

func doLogin(t *testing.T, srv *Server, password string) *http.Cookie {
	t.Helper()

	form := strings.NewReader("password=" + password)
	req := httptest.NewRequest(http.MethodPost, "/login", form)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("login status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookie {
			return c
		}
	}
	t.Fatalf("login response missing session cookie")
	return nil
}

func postTransaction(t *testing.T, srv *Server, cookie *http.Cookie, fields map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field %s: %v", k, err)
		}
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/transactions", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(t, "")

	for path, want := range map[string]string{"/healthz": "ok", "/readyz": "ready"} {
		rec := httptest.NewRecorder()
		srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Errorf("GET %s status = %d", path, rec.Code)
		}
		if rec.Body.String() != want {
			t.Errorf("GET %s body = %q, want %q", path, rec.Body.String(), want)
		}
	}
}

func TestIndexRendersDashboard(t *testing.T) {
	srv := newTestServer(t, "")

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("GET / status = %d, body: %s", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	for _, want := range []string{"Rekap Iuran Wajib", "AA-1", "Budi", "Januari", "Desember"} {
		if !strings.Contains(body, want) {
			t.Errorf("index missing %q", want)
		}
	}
	if got := rec.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Errorf("X-Frame-Options = %q, want DENY", got)
	}
}

func TestIndexUnknownPathIs404(t *testing.T) {
	srv := newTestServer(t, "")

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nonexistent", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("GET /nonexistent status = %d, want 404", rec.Code)
	}
}

func TestCreateRequiresAdmin(t *testing.T) {
	srv := newTestServer(t, "rahasia")

	rec := postTransaction(t, srv, nil, map[string]string{
		"date": "2025-01-10", "payer": "Budi", "category": "Iuran Wajib",
		"month": "Januari", "amount": "50000", "kind": "masuk",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("unauthenticated create status = %d, want 401", rec.Code)
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	srv := newTestServer(t, "rahasia")

	form := strings.NewReader("password=salah")
	req := httptest.NewRequest(http.MethodPost, "/login", form)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("wrong password status = %d, want 401", rec.Code)
	}
}

func TestCreateAndDeleteTransaction(t *testing.T) {
	srv := newTestServer(t, "rahasia")
	cookie := doLogin(t, srv, "rahasia")

	rec := postTransaction(t, srv, cookie, map[string]string{
		"date": "2025-01-10", "payer": "Budi", "unit_ref": "AA-1", "status": "Tetap",
		"category": "Iuran Wajib", "month": "Januari", "amount": "50000", "kind": "masuk",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("create status = %d, body: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "Transaksi tersimpan") {
		t.Fatalf("create body = %q", rec.Body.String())
	}

	// The new row shows up in the matrix.
	idx := httptest.NewRecorder()
	srv.Handler.ServeHTTP(idx, httptest.NewRequest(http.MethodGet, "/?year=2025", nil))
	if !strings.Contains(idx.Body.String(), "Rp 50.000") {
		t.Fatalf("dashboard missing created amount")
	}

	// Deleting a missing ID is surfaced, not swallowed.
	del := strings.NewReader("id=999999")
	req := httptest.NewRequest(http.MethodPost, "/transactions/delete", del)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(cookie)
	recDel := httptest.NewRecorder()
	srv.Handler.ServeHTTP(recDel, req)
	if recDel.Code != http.StatusNotFound {
		t.Fatalf("delete missing status = %d, want 404", recDel.Code)
	}
	if !strings.Contains(recDel.Body.String(), "tidak ditemukan") {
		t.Fatalf("delete missing body = %q", recDel.Body.String())
	}
}

func TestCreateRejectsInvalidAmount(t *testing.T) {
	srv := newTestServer(t, "rahasia")
	cookie := doLogin(t, srv, "rahasia")

	rec := postTransaction(t, srv, cookie, map[string]string{
		"date": "2025-01-10", "payer": "Budi", "category": "Iuran Wajib",
		"month": "Januari", "amount": "nol", "kind": "masuk",
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("invalid amount status = %d, want 422", rec.Code)
	}
}

func TestPartialsRender(t *testing.T) {
	srv := newTestServer(t, "")

	for _, path := range []string{"/ui/dues-matrix", "/ui/expenses"} {
		rec := httptest.NewRecorder()
		srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Errorf("GET %s status = %d", path, rec.Code)
		}
		if ct := rec.Header().Get("Content-Type"); !strings.Contains(ct, "text/html") {
			t.Errorf("GET %s content type = %q", path, ct)
		}
	}
}

func TestProofNotFound(t *testing.T) {
	srv := newTestServer(t, "")

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/proofs/missing.jpg", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing proof status = %d, want 404", rec.Code)
	}
}

func TestRateLimiterBlocksFloods(t *testing.T) {
	rl := newRateLimiter()
	defer rl.stop()

	for i := 0; i < 60; i++ {
		if !rl.allow("10.0.0.1") {
			t.Fatalf("request %d blocked below the limit", i+1)
		}
	}
	if rl.allow("10.0.0.1") {
		t.Fatalf("request 61 allowed past the limit")
	}
	if !rl.allow("10.0.0.2") {
		t.Fatalf("other client blocked by unrelated flood")
	}
}
