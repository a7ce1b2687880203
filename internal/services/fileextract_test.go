package services

import (
	"archive/zip"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeZip(t *testing.T, path string, entries map[string]string) {
	t.Helper()

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create %s: %v", path, err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	for name, content := range entries {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("Failed to add %s: %v", name, err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("Failed to finish zip: %v", err)
	}
}

func TestExtractTXT(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	content := "First line.\r\n\r\n\r\n\r\nSecond line.\r\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	s := NewFileExtractService()
	text, err := s.ExtractTextFromPath(path)
	if err != nil {
		t.Fatalf("ExtractTextFromPath failed: %v", err)
	}

	expected := "First line.\n\nSecond line."
	if text != expected {
		t.Errorf("Expected %q, got %q", expected, text)
	}
}

func TestExtractTXT_Empty(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.txt")
	if err := os.WriteFile(path, []byte("   \n\t\n  "), 0o644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	s := NewFileExtractService()
	_, err := s.ExtractTextFromPath(path)
	var noText *NoTextFoundError
	if !errors.As(err, &noText) {
		t.Fatalf("Expected NoTextFoundError, got %v", err)
	}
}

func TestExtractUnsupportedFormat(t *testing.T) {
	s := NewFileExtractService()
	_, err := s.ExtractTextFromPath("/tmp/lecture.mp4")
	var unsupported *UnsupportedFormatError
	if !errors.As(err, &unsupported) {
		t.Fatalf("Expected UnsupportedFormatError, got %v", err)
	}
	if unsupported.Ext != ".mp4" {
		t.Errorf("Expected extension .mp4, got %q", unsupported.Ext)
	}
}

func TestExtractDOCX(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.docx")
	writeZip(t, path, map[string]string{
		"word/document.xml": `<?xml version="1.0"?><w:document><w:body>` +
			`<w:p><w:r><w:t>The cell is the basic unit of life.</w:t></w:r></w:p>` +
			`<w:p><w:r><w:t>Mitochondria produce energy &amp; heat.</w:t></w:r></w:p>` +
			`</w:body></w:document>`,
		"word/styles.xml": `<w:styles/>`,
	})

	s := NewFileExtractService()
	text, err := s.ExtractTextFromPath(path)
	if err != nil {
		t.Fatalf("ExtractTextFromPath failed: %v", err)
	}

	if !strings.Contains(text, "The cell is the basic unit of life.") {
		t.Errorf("Missing first paragraph in %q", text)
	}
	if !strings.Contains(text, "Mitochondria produce energy & heat.") {
		t.Errorf("Entities should be decoded in %q", text)
	}
	if strings.Contains(text, "<w:") {
		t.Errorf("XML tags leaked into %q", text)
	}
}

func TestExtractPPTX(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "deck.pptx")
	writeZip(t, path, map[string]string{
		"ppt/slides/slide2.xml":  `<p:sld><a:p><a:r><a:t>Second slide content.</a:t></a:r></a:p></p:sld>`,
		"ppt/slides/slide1.xml":  `<p:sld><a:p><a:r><a:t>First slide content.</a:t></a:r></a:p></p:sld>`,
		"ppt/presentation.xml":   `<p:presentation/>`,
		"ppt/notesSlides/n1.xml": `<p:notes><a:t>speaker notes stay out</a:t></p:notes>`,
	})

	s := NewFileExtractService()
	text, err := s.ExtractTextFromPath(path)
	if err != nil {
		t.Fatalf("ExtractTextFromPath failed: %v", err)
	}

	first := strings.Index(text, "First slide content.")
	second := strings.Index(text, "Second slide content.")
	if first == -1 || second == -1 {
		t.Fatalf("Missing slide text in %q", text)
	}
	if first > second {
		t.Error("Slides should be extracted in slide order")
	}
	if strings.Contains(text, "speaker notes") {
		t.Errorf("Notes slides should not be extracted: %q", text)
	}
}

func TestExtractPPTX_NoSlides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.pptx")
	writeZip(t, path, map[string]string{
		"ppt/presentation.xml": `<p:presentation/>`,
	})

	s := NewFileExtractService()
	if _, err := s.ExtractTextFromPath(path); err == nil {
		t.Error("Expected error for pptx without slides")
	}
}

func TestStripOfficeXML(t *testing.T) {
	in := `<w:p><w:r><w:t>alpha</w:t></w:r></w:p><w:p><w:r><w:t>beta</w:t><w:br/><w:t>gamma</w:t></w:r></w:p>`
	out := stripOfficeXML(in)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("Expected 3 lines, got %d: %q", len(lines), out)
	}
	if lines[0] != "alpha" || lines[1] != "beta" || lines[2] != "gamma" {
		t.Errorf("Unexpected lines: %v", lines)
	}
}

func TestSupportedExtensions(t *testing.T) {
	s := NewFileExtractService()
	exts := s.SupportedExtensions()
	for _, want := range []string{".pdf", ".docx", ".pptx", ".txt"} {
		found := false
		for _, e := range exts {
			if e == want {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Expected %s in supported extensions %v", want, exts)
		}
	}
}
