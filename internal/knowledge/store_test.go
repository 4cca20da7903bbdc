package knowledge

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/shoplite/storeassist/internal/domain"
	"github.com/shoplite/storeassist/internal/domain/document"
	"github.com/shoplite/storeassist/internal/domain/language"
)

func doc(id string) document.Document {
	return document.Reconstruct(id, id, map[language.Tag]string{language.English: "content " + id})
}

func TestNewStore_Empty(t *testing.T) {
	_, err := NewStore(nil)
	if !errors.Is(err, domain.ErrEmptyKnowledgeBase) {
		t.Fatalf("expected ErrEmptyKnowledgeBase, got %v", err)
	}
}

func TestNewStore_DuplicateID(t *testing.T) {
	_, err := NewStore([]document.Document{doc("a"), doc("b"), doc("a")})
	if !errors.Is(err, domain.ErrDuplicateDocumentID) {
		t.Fatalf("expected ErrDuplicateDocumentID, got %v", err)
	}
}

func TestStore_PreservesOrder(t *testing.T) {
	s, err := NewStore([]document.Document{doc("a"), doc("b"), doc("c")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Len() != 3 {
		t.Fatalf("Len: got %d", s.Len())
	}
	for i, want := range []string{"a", "b", "c"} {
		d, ok := s.At(i)
		if !ok || d.ID() != want {
			t.Errorf("At(%d): got %q ok=%v, want %q", i, d.ID(), ok, want)
		}
	}
}

func TestStore_At_OutOfRange(t *testing.T) {
	s, _ := NewStore([]document.Document{doc("a")})
	if _, ok := s.At(-1); ok {
		t.Error("At(-1) should fail")
	}
	if _, ok := s.At(1); ok {
		t.Error("At(1) should fail")
	}
}

func TestStore_ByID(t *testing.T) {
	s, _ := NewStore([]document.Document{doc("a"), doc("b")})
	d, ok := s.ByID("b")
	if !ok || d.ID() != "b" {
		t.Errorf("ByID(b): got %q ok=%v", d.ID(), ok)
	}
	if _, ok := s.ByID("missing"); ok {
		t.Error("ByID(missing) should fail")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ground-truth.json")
	payload := `[
		{"id": "Policy3.1", "question": "Returns", "answer": "30 days with receipt", "answer_ar": "٣٠ يوماً"},
		{"id": "", "question": "skipped", "answer": "no id"},
		{"id": "NoContent", "question": "skipped", "answer": ""}
	]`
	if err := os.WriteFile(path, []byte(payload), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	docs, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("expected 1 usable document, got %d", len(docs))
	}
	if docs[0].ID() != "Policy3.1" {
		t.Errorf("id: got %q", docs[0].ID())
	}
	if docs[0].ContentFor(language.Arabic) != "٣٠ يوماً" {
		t.Errorf("arabic content: got %q", docs[0].ContentFor(language.Arabic))
	}
}

func TestLoadFile_Missing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadOrSeed_FallsBack(t *testing.T) {
	docs := LoadOrSeed("", zap.NewNop())
	if len(docs) == 0 {
		t.Fatal("seed knowledge base is empty")
	}

	docs = LoadOrSeed(filepath.Join(t.TempDir(), "absent.json"), zap.NewNop())
	if len(docs) == 0 {
		t.Fatal("expected seed fallback for unreadable path")
	}
}
