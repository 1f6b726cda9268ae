package dataset

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/kirillkom/summary-service/internal/core/domain"
)

// Loader reads a dataset written by the corpus extractor, picking the format by extension.
type Loader struct{}

func NewLoader() *Loader {
	return &Loader{}
}

func (l *Loader) Load(_ context.Context, path string) ([]domain.ArticlePair, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return loadJSON(path)
	case ".csv":
		return loadCSV(path)
	case ".xlsx":
		return loadXLSX(path)
	default:
		return nil, domain.WrapError(domain.ErrInvalidInput, "load dataset", fmt.Errorf("unsupported dataset file %q", path))
	}
}

func loadJSON(path string) ([]domain.ArticlePair, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read json dataset: %w", err)
	}
	var pairs []domain.ArticlePair
	if err := json.Unmarshal(raw, &pairs); err != nil {
		return nil, fmt.Errorf("decode json dataset: %w", err)
	}
	return pairs, nil
}

func loadCSV(path string) ([]domain.ArticlePair, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv dataset: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = 2
	var pairs []domain.ArticlePair
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv dataset: %w", err)
		}
		if len(pairs) == 0 && isHeader(rec) {
			continue
		}
		pairs = append(pairs, domain.ArticlePair{Abstract: rec[0], Body: rec[1]})
	}
	return pairs, nil
}

func loadXLSX(path string) ([]domain.ArticlePair, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open xlsx dataset: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("read xlsx rows: %w", err)
	}
	pairs := make([]domain.ArticlePair, 0, len(rows))
	for i, row := range rows {
		if i == 0 && isHeader(row) {
			continue
		}
		var pair domain.ArticlePair
		if len(row) > 0 {
			pair.Abstract = row[0]
		}
		if len(row) > 1 {
			pair.Body = row[1]
		}
		pairs = append(pairs, pair)
	}
	return pairs, nil
}

func isHeader(row []string) bool {
	return len(row) >= 2 && row[0] == "Abstract" && row[1] == "Body"
}
