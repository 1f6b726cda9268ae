package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/kirillkom/summary-service/internal/core/domain"
	"github.com/kirillkom/summary-service/internal/core/usecase"
	"github.com/kirillkom/summary-service/internal/infrastructure/corpus/xmlcorpus"
	"github.com/kirillkom/summary-service/internal/infrastructure/dataset"
	"github.com/kirillkom/summary-service/internal/observability/logging"
)

func main() {
	root := flag.String("root", ".", "directory scanned recursively for .xml articles")
	format := flag.String("format", "csv", "output format: csv, json or xlsx")
	out := flag.String("out", "", "output path (default formatted_dataset.<format>)")
	level := flag.String("log-level", "info", "log level")
	flag.Parse()

	logger := logging.NewCLILogger(*level)
	slog.SetDefault(logger)

	if err := run(*root, domain.DatasetFormat(*format), *out); err != nil {
		logger.Error("extraction_failed", "error", err)
		os.Exit(1)
	}
}

func run(root string, format domain.DatasetFormat, out string) error {
	if out == "" {
		out = "formatted_dataset." + string(format)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sink, err := dataset.OpenSink(format, out)
	if err != nil {
		return err
	}
	extractor := usecase.NewExtractCorpusUseCase(xmlcorpus.NewSource(), dataset.SkipsIncomplete(format))
	report, err := extractor.Extract(ctx, root, sink)
	if err != nil {
		return err
	}

	printReport(os.Stdout, format, out, report)
	return nil
}

// printReport always states the skip count for formats that drop incomplete documents.
func printReport(w io.Writer, format domain.DatasetFormat, out string, report domain.ExtractionReport) {
	fmt.Fprintf(w, "Dataset written to %s (%d documents)\n", out, report.Written)
	if dataset.SkipsIncomplete(format) {
		fmt.Fprintf(w, "Skipped %d documents with a missing abstract or body\n", report.Skipped)
	}
}
