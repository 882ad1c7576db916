package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

// Extraction method labels recorded in document metadata.
const (
	MethodPDF  = "pdf_text_layer"
	MethodTXT  = "plain_text"
	MethodDOCX = "docx_xml"
)

// Result holds the text and structural facts pulled from a file.
type Result struct {
	Text      string
	PageCount int
	WordCount int
	Method    string
}

// ErrUnsupportedType is returned for file types the extractor cannot handle.
var ErrUnsupportedType = errors.New("unsupported file type")

// Extract pulls text and metadata from an in-memory payload.
// fileType is one of pdf, txt, docx.
func Extract(ctx context.Context, data []byte, fileType string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	var res Result
	var err error
	switch fileType {
	case "pdf":
		res, err = extractPDF(data)
	case "txt":
		res, err = extractTXT(data)
	case "docx":
		res, err = extractDOCX(data)
	default:
		return Result{}, fmt.Errorf("%w: %s", ErrUnsupportedType, fileType)
	}
	if err != nil {
		return Result{}, err
	}
	res.WordCount = len(strings.Fields(res.Text))
	return res, nil
}

// extractPDF reads the PDF text layer via github.com/ledongthuc/pdf.
func extractPDF(data []byte) (Result, error) {
	reader := bytes.NewReader(data)
	pdfReader, err := pdf.NewReader(reader, int64(len(data)))
	if err != nil {
		return Result{}, fmt.Errorf("open pdf: %w", err)
	}
	plain, err := pdfReader.GetPlainText()
	if err != nil {
		return Result{}, fmt.Errorf("read pdf text: %w", err)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return Result{}, fmt.Errorf("read pdf text: %w", err)
	}
	return Result{
		Text:      buf.String(),
		PageCount: pdfReader.NumPage(),
		Method:    MethodPDF,
	}, nil
}

func extractTXT(data []byte) (Result, error) {
	if !utf8.Valid(data) {
		return Result{}, errors.New("text file is not valid UTF-8")
	}
	text := strings.TrimSpace(string(data))
	// Rough page estimate for plain text: ~3000 characters per page.
	pages := len(text)/3000 + 1
	return Result{
		Text:      text,
		PageCount: pages,
		Method:    MethodTXT,
	}, nil
}

func extractDOCX(data []byte) (Result, error) {
	if len(data) == 0 {
		return Result{}, errors.New("empty docx data")
	}
	readerAt := bytes.NewReader(data)
	zr, err := zip.NewReader(readerAt, int64(len(data)))
	if err != nil {
		return Result{}, fmt.Errorf("open docx: %w", err)
	}

	var docFile *zip.File
	for _, f := range zr.File {
		name := strings.ReplaceAll(f.Name, "\\", "/")
		if name == "word/document.xml" {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return Result{}, errors.New("document.xml not found in docx archive")
	}

	rc, err := docFile.Open()
	if err != nil {
		return Result{}, err
	}
	defer rc.Close()

	raw, err := io.ReadAll(rc)
	if err != nil {
		return Result{}, err
	}

	text, paragraphs := stripDocxXML(string(raw))
	// Rough page estimate: ~25 paragraphs per page.
	pages := paragraphs/25 + 1
	return Result{
		Text:      text,
		PageCount: pages,
		Method:    MethodDOCX,
	}, nil
}

func stripDocxXML(raw string) (string, int) {
	decoder := xml.NewDecoder(strings.NewReader(raw))
	var buf strings.Builder
	paragraphs := 0
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return raw, paragraphs
		}
		switch t := tok.(type) {
		case xml.CharData:
			buf.WriteString(string(t))
		case xml.EndElement:
			if t.Name.Local == "p" || t.Name.Local == "br" {
				if t.Name.Local == "p" {
					paragraphs++
				}
				if buf.Len() > 0 {
					buf.WriteString("\n")
				}
			}
		}
	}
	return strings.TrimSpace(buf.String()), paragraphs
}
