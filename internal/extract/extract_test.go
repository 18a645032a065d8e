package extract

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestTextFromTxtFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.txt")
	if err := os.WriteFile(path, []byte("Study of X improves Y by 10%.\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := Text(path)
	if err != nil {
		t.Fatal(err)
	}
	if got != "Study of X improves Y by 10%." {
		t.Fatalf("unexpected extracted text: %q", got)
	}
}

func TestTextUnsupportedExtension(t *testing.T) {
	_, err := Text("/tmp/archive.docx")
	if !errors.Is(err, ErrUnsupportedFileType) {
		t.Fatalf("expected ErrUnsupportedFileType, got %v", err)
	}
}

func TestTextEmptyDocument(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "blank.txt")
	if err := os.WriteFile(path, []byte("   \n\t  "), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Text(path)
	if !errors.Is(err, ErrEmptyDocument) {
		t.Fatalf("expected ErrEmptyDocument, got %v", err)
	}
}
