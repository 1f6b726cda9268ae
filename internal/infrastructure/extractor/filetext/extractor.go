package filetext

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"

	"github.com/kirillkom/summary-service/internal/core/domain"
)

const undecodableMessage = "File content could not be decoded"

// Extractor turns uploaded .txt and .pdf bytes into text.
type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

func (e *Extractor) Extract(_ context.Context, filename string, raw []byte) (string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".txt":
		if !utf8.Valid(raw) {
			return "", domain.Invalid(undecodableMessage)
		}
		return string(raw), nil
	case ".pdf":
		text, err := pdfText(raw)
		if err != nil {
			slog.Warn("pdf_extract_failed", "filename", filename, "error", err)
			return "", domain.Invalid(undecodableMessage)
		}
		return text, nil
	default:
		return "", domain.Invalid("File type not allowed. Only PDF and text files are permitted.")
	}
}

func pdfText(raw []byte) (text string, err error) {
	// The pdf reader panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("parse pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("pdf plain text: %w", err)
	}
	out, err := io.ReadAll(plain)
	if err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}
