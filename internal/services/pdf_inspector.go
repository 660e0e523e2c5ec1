package services

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

var pdfMagic = []byte("%PDF-")

type PDFInspector interface {
	CheckFilename(filename string) error
	Inspect(content []byte) *PDFInfo
}

// PDFInfo is what we learn about a document before handing it to the
// processor. Parsing proper happens upstream.
type PDFInfo struct {
	Size      int
	HasHeader bool
	PageCount int
	HasText   bool
	Readable  bool
}

type pdfInspector struct{}

func NewPDFInspector() PDFInspector {
	return &pdfInspector{}
}

// CheckFilename implements PDFInspector.
func (p *pdfInspector) CheckFilename(filename string) error {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext != ".pdf" {
		return fmt.Errorf("invalid file extension %q: %w", ext, ErrUnsupportedMediaType)
	}
	return nil
}

// Inspect implements PDFInspector. Nothing here rejects a document: the
// filename decides the type and the processor does the parsing.
func (p *pdfInspector) Inspect(content []byte) *PDFInfo {
	info := &PDFInfo{
		Size:      len(content),
		HasHeader: bytes.HasPrefix(content, pdfMagic),
	}
	if !info.HasHeader {
		return info
	}

	pageCount, hasText, err := readStructure(content)
	if err != nil {
		return info
	}

	info.Readable = true
	info.PageCount = pageCount
	info.HasText = hasText

	return info
}

func readStructure(content []byte) (pageCount int, hasText bool, err error) {
	// The reader panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed PDF: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return 0, false, fmt.Errorf("failed to open PDF: %w", err)
	}

	pageCount = r.NumPage()
	for pageIndex := 1; pageIndex <= pageCount; pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if strings.TrimSpace(text) != "" {
			hasText = true
			break
		}
	}

	return pageCount, hasText, nil
}
