package services

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

// UnsupportedFormatError reports an upload extension the extractor cannot
// handle.
type UnsupportedFormatError struct{ Ext string }

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported file type for text extraction: %s", e.Ext)
}

// NoTextFoundError reports a well-formed document with no extractable text.
type NoTextFoundError struct{ Ext string }

func (e *NoTextFoundError) Error() string {
	return fmt.Sprintf("no extractable text found in %s document", strings.TrimPrefix(e.Ext, "."))
}

type FileExtractService struct{}

func NewFileExtractService() *FileExtractService {
	return &FileExtractService{}
}

// SupportedExtensions lists the upload formats the service accepts.
func (s *FileExtractService) SupportedExtensions() []string {
	return []string{".pdf", ".docx", ".pptx", ".txt"}
}

func (s *FileExtractService) ExtractTextFromPath(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))

	switch ext {
	case ".txt":
		return s.extractTXT(path)
	case ".pdf":
		return s.extractPDF(path)
	case ".docx":
		return s.extractDOCX(path)
	case ".pptx":
		return s.extractPPTX(path)
	default:
		return "", &UnsupportedFormatError{Ext: ext}
	}
}

func (s *FileExtractService) extractTXT(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	text := normalizeExtractedText(string(b))
	if text == "" {
		return "", &NoTextFoundError{Ext: ".txt"}
	}
	return text, nil
}

func (s *FileExtractService) extractPDF(path string) (string, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var b strings.Builder
	totalPage := reader.NumPage()
	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := reader.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		content, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		b.WriteString(content)
		b.WriteString("\n")
	}

	text := normalizeExtractedText(b.String())
	if text == "" {
		return "", &NoTextFoundError{Ext: ".pdf"}
	}
	return text, nil
}

func (s *FileExtractService) extractDOCX(path string) (string, error) {
	documentXML, err := readZipEntry(path, func(name string) bool {
		return name == "word/document.xml"
	})
	if err != nil {
		return "", err
	}
	if len(documentXML) == 0 {
		return "", fmt.Errorf("docx document.xml not found")
	}

	text := normalizeExtractedText(stripOfficeXML(string(documentXML)))
	if text == "" {
		return "", &NoTextFoundError{Ext: ".docx"}
	}
	return text, nil
}

var slidePattern = regexp.MustCompile(`^ppt/slides/slide\d+\.xml$`)

func (s *FileExtractService) extractPPTX(path string) (string, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return "", err
	}
	defer r.Close()

	slides := make(map[string][]byte)
	var slideNames []string
	for _, f := range r.File {
		if !slidePattern.MatchString(f.Name) {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", err
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return "", err
		}
		slides[f.Name] = data
		slideNames = append(slideNames, f.Name)
	}
	if len(slideNames) == 0 {
		return "", fmt.Errorf("pptx contains no slides")
	}
	sort.Strings(slideNames)

	var b strings.Builder
	for _, name := range slideNames {
		b.WriteString(stripOfficeXML(string(slides[name])))
		b.WriteString("\n")
	}

	text := normalizeExtractedText(b.String())
	if text == "" {
		return "", &NoTextFoundError{Ext: ".pptx"}
	}
	return text, nil
}

func readZipEntry(path string, match func(string) bool) ([]byte, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	for _, f := range r.File {
		if !match(f.Name) {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		return io.ReadAll(rc)
	}
	return nil, nil
}

var xmlTagPattern = regexp.MustCompile(`<[^>]+>`)

// stripOfficeXML flattens WordprocessingML/DrawingML into plain text:
// paragraph and break tags become newlines, everything else is dropped.
func stripOfficeXML(s string) string {
	s = strings.ReplaceAll(s, "</w:p>", "\n")
	s = strings.ReplaceAll(s, "</a:p>", "\n")
	s = strings.ReplaceAll(s, "<w:br/>", "\n")
	s = strings.ReplaceAll(s, "<w:br />", "\n")
	s = strings.ReplaceAll(s, "<w:tab/>", "\t")

	s = xmlTagPattern.ReplaceAllString(s, "")

	replacer := strings.NewReplacer(
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&apos;", "'",
	)
	return replacer.Replace(s)
}

func normalizeExtractedText(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")

	lines := strings.Split(s, "\n")
	buf := bytes.Buffer{}

	emptyCount := 0
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			emptyCount++
			if emptyCount > 1 {
				continue
			}
			buf.WriteString("\n")
			continue
		}
		emptyCount = 0
		buf.WriteString(trimmed)
		buf.WriteString("\n")
	}

	return strings.TrimSpace(buf.String())
}
