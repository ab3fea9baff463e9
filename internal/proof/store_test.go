package proof

import (
	"io"
	"strings"
	"testing"

	"kasrt/internal/core"
)

func TestSaveAndOpen(t *testing.T) {
	s, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	name := s.Save("bukti.jpg", strings.NewReader("fake image bytes"))
	if name == core.None {
		t.Fatalf("expected a stored name, got sentinel")
	}
	if !strings.HasPrefix(name, "IMG_") || !strings.HasSuffix(name, ".jpg") {
		t.Fatalf("unexpected generated name %q", name)
	}

	f, err := s.Open(name)
	if err != nil {
		t.Fatalf("Open(%q): %v", name, err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "fake image bytes" {
		t.Fatalf("content mismatch: %q", data)
	}
}

func TestSaveRejectsUnsupportedExtension(t *testing.T) {
	s, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if got := s.Save("malware.exe", strings.NewReader("x")); got != core.None {
		t.Fatalf("expected sentinel for .exe upload, got %q", got)
	}
	if got := s.Save("no-reader.png", nil); got != core.None {
		t.Fatalf("expected sentinel for nil reader, got %q", got)
	}
}

func TestOpenRejectsTraversalAndSentinel(t *testing.T) {
	s, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if _, err := s.Open(core.None); err == nil {
		t.Fatalf("sentinel must not open a file")
	}
	if _, err := s.Open("../secret.png"); err == nil {
		t.Fatalf("traversal name must not open a file")
	}
}

func TestGeneratedNamesDiffer(t *testing.T) {
	s, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	a := s.Save("a.png", strings.NewReader("a"))
	b := s.Save("b.png", strings.NewReader("b"))
	if a == b {
		t.Fatalf("two uploads in the same second collided: %q", a)
	}
}
