package dataset

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/kirillkom/summary-service/internal/core/domain"
)

const (
	sheetName     = "Sheet1"
	maxCellLength = 32767
)

// Sink writes article pairs in one output format. Discard abandons the output.
type Sink interface {
	Write(pair domain.ArticlePair) error
	Close() error
	Discard() error
}

func OpenSink(format domain.DatasetFormat, path string) (Sink, error) {
	switch format {
	case domain.FormatCSV:
		return openCSVSink(path)
	case domain.FormatJSON:
		return &jsonSink{path: path, pairs: []domain.ArticlePair{}}, nil
	case domain.FormatXLSX:
		return openXLSXSink(path)
	default:
		return nil, domain.WrapError(domain.ErrInvalidInput, "open dataset sink", fmt.Errorf("unknown format %q", format))
	}
}

// SkipsIncomplete reports whether format drops pairs missing a section.
func SkipsIncomplete(format domain.DatasetFormat) bool {
	return format != domain.FormatCSV
}

// csvSink appends rows with every field quoted and \n terminators. Rows already
// appended stay in the file when the run is discarded.
type csvSink struct {
	f *os.File
	w *bufio.Writer
}

func openCSVSink(path string) (*csvSink, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open csv dataset: %w", err)
	}
	return &csvSink{f: f, w: bufio.NewWriter(f)}, nil
}

func (s *csvSink) Write(pair domain.ArticlePair) error {
	s.w.WriteString(quoteField(pair.Abstract))
	s.w.WriteByte(',')
	s.w.WriteString(quoteField(pair.Body))
	if err := s.w.WriteByte('\n'); err != nil {
		return fmt.Errorf("write csv row: %w", err)
	}
	return nil
}

func (s *csvSink) Close() error {
	if err := s.w.Flush(); err != nil {
		_ = s.f.Close()
		return fmt.Errorf("flush csv dataset: %w", err)
	}
	return s.f.Close()
}

func (s *csvSink) Discard() error {
	return s.Close()
}

func quoteField(v string) string {
	return `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
}

// jsonSink buffers pairs and writes the whole array on Close.
type jsonSink struct {
	path  string
	pairs []domain.ArticlePair
}

func (s *jsonSink) Write(pair domain.ArticlePair) error {
	s.pairs = append(s.pairs, pair)
	return nil
}

func (s *jsonSink) Close() error {
	payload, err := encodeJSON(s.pairs)
	if err != nil {
		return err
	}
	return writeFileAtomic(s.path, payload)
}

func (s *jsonSink) Discard() error {
	s.pairs = nil
	return nil
}

// encodeJSON renders a 4-space indented array with non-ASCII characters escaped.
func encodeJSON(pairs []domain.ArticlePair) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(pairs); err != nil {
		return nil, fmt.Errorf("encode json dataset: %w", err)
	}
	return asciiEscape(bytes.TrimSuffix(buf.Bytes(), []byte("\n"))), nil
}

// asciiEscape rewrites everything outside printable ASCII, DEL included, as \u escapes.
func asciiEscape(in []byte) []byte {
	out := make([]byte, 0, len(in))
	for len(in) > 0 {
		r, size := utf8.DecodeRune(in)
		in = in[size:]
		switch {
		case r < 0x7f:
			out = append(out, byte(r))
		case r > 0xFFFF:
			r -= 0x10000
			out = fmt.Appendf(out, `\u%04x\u%04x`, 0xD800+(r>>10), 0xDC00+(r&0x3FF))
		default:
			out = fmt.Appendf(out, `\u%04x`, r)
		}
	}
	return out
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+"-*")
	if err != nil {
		return fmt.Errorf("create temp dataset: %w", err)
	}
	defer func() {
		_ = os.Remove(tmp.Name())
	}()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write dataset: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close dataset: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("move dataset into place: %w", err)
	}
	return nil
}

// xlsxSink streams rows into a single-sheet workbook under an Abstract/Body header.
type xlsxSink struct {
	path string
	file *excelize.File
	sw   *excelize.StreamWriter
	row  int
}

func openXLSXSink(path string) (*xlsxSink, error) {
	f := excelize.NewFile()
	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("open xlsx stream: %w", err)
	}
	s := &xlsxSink{path: path, file: f, sw: sw, row: 1}
	if err := s.setRow([]interface{}{"Abstract", "Body"}); err != nil {
		_ = f.Close()
		return nil, err
	}
	return s, nil
}

func (s *xlsxSink) Write(pair domain.ArticlePair) error {
	return s.setRow([]interface{}{capCell(pair.Abstract), capCell(pair.Body)})
}

func (s *xlsxSink) setRow(values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, s.row)
	if err != nil {
		return fmt.Errorf("xlsx cell name: %w", err)
	}
	if err := s.sw.SetRow(cell, values); err != nil {
		return fmt.Errorf("write xlsx row %d: %w", s.row, err)
	}
	s.row++
	return nil
}

func (s *xlsxSink) Close() error {
	defer s.file.Close()
	if err := s.sw.Flush(); err != nil {
		return fmt.Errorf("flush xlsx stream: %w", err)
	}
	if err := s.file.SaveAs(s.path); err != nil {
		return fmt.Errorf("save xlsx dataset: %w", err)
	}
	return nil
}

func (s *xlsxSink) Discard() error {
	return s.file.Close()
}

func capCell(v string) string {
	if utf8.RuneCountInString(v) <= maxCellLength {
		return v
	}
	return string([]rune(v)[:maxCellLength])
}
