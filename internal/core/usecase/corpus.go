package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kirillkom/summary-service/internal/core/domain"
	"github.com/kirillkom/summary-service/internal/core/ports"
)

const progressLogEvery = 100

type ExtractCorpusUseCase struct {
	source         ports.CorpusSource
	skipIncomplete bool
}

// NewExtractCorpusUseCase builds the corpus extractor. With skipIncomplete, documents missing
// either section are counted as skipped instead of written.
func NewExtractCorpusUseCase(source ports.CorpusSource, skipIncomplete bool) *ExtractCorpusUseCase {
	return &ExtractCorpusUseCase{source: source, skipIncomplete: skipIncomplete}
}

// Extract processes every document under root in walk order. The first parse or write error
// aborts the run; the sink is then discarded.
func (uc *ExtractCorpusUseCase) Extract(ctx context.Context, root string, sink ports.DatasetSink) (domain.ExtractionReport, error) {
	var report domain.ExtractionReport

	paths, err := uc.source.List(ctx, root)
	if err != nil {
		return report, fmt.Errorf("list corpus files: %w", err)
	}
	report.Files = len(paths)
	slog.Info("corpus_extraction_started", "root", root, "files", len(paths))

	for i, path := range paths {
		if err := ctx.Err(); err != nil {
			return report, abortSink(sink, err)
		}

		pair, err := uc.source.Parse(ctx, path)
		if err != nil {
			return report, abortSink(sink, fmt.Errorf("parse %s: %w", path, err))
		}

		if uc.skipIncomplete && !pair.Complete() {
			report.Skipped++
		} else {
			if err := sink.Write(pair); err != nil {
				return report, abortSink(sink, fmt.Errorf("write %s: %w", path, err))
			}
			report.Written++
		}

		done := i + 1
		if done%progressLogEvery == 0 || done == len(paths) {
			slog.Info("corpus_extraction_progress", "processed", done, "total", len(paths))
		}
	}

	if err := sink.Close(); err != nil {
		return report, fmt.Errorf("flush dataset: %w", err)
	}
	slog.Info("corpus_extraction_finished",
		"files", report.Files,
		"written", report.Written,
		"skipped", report.Skipped,
	)
	return report, nil
}

type discarder interface {
	Discard() error
}

func abortSink(sink ports.DatasetSink, cause error) error {
	if d, ok := sink.(discarder); ok {
		if err := d.Discard(); err != nil {
			return fmt.Errorf("%w; discard dataset: %v", cause, err)
		}
	}
	return cause
}
