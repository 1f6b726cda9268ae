package ports

import (
	"context"

	"github.com/kirillkom/summary-service/internal/core/domain"
)

// SummaryIngestor is the inbound contract for creating summary records.
type SummaryIngestor interface {
	IngestText(ctx context.Context, sub domain.TextSubmission) (*domain.SummaryRecord, error)
	IngestFile(ctx context.Context, sub domain.FileSubmission) (*domain.SummaryRecord, error)
}

// SummaryRater applies the write-once quality rating.
type SummaryRater interface {
	Rate(ctx context.Context, id string, score float64) (*domain.Rating, error)
}

// SummaryReader is the inbound read model for summary records.
type SummaryReader interface {
	GetByID(ctx context.Context, id string) (*domain.SummaryRecord, error)
}

// CorpusExtractor turns a directory of XML articles into a training dataset.
type CorpusExtractor interface {
	Extract(ctx context.Context, root string, sink DatasetSink) (domain.ExtractionReport, error)
}

// ModelSummarizer is the inference helper exposed by the fine-tuning driver.
type ModelSummarizer interface {
	LoadOrTrain(ctx context.Context) (domain.TrainedModel, error)
	Summarize(ctx context.Context, model domain.TrainedModel, text string) (string, error)
}
