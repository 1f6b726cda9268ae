package ports

import (
	"context"
	"io"

	"github.com/kirillkom/summary-service/internal/core/domain"
)

// SummaryRepository persists and reads summary records.
type SummaryRepository interface {
	Create(ctx context.Context, rec *domain.SummaryRecord) error
	GetByID(ctx context.Context, id string) (*domain.SummaryRecord, error)
	// SetScoreOnce stores score only if the record has none yet.
	SetScoreOnce(ctx context.Context, id string, score float64) error
}

// ObjectStorage stores uploaded source files.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) (string, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// TextExtractor turns raw uploaded bytes into text.
type TextExtractor interface {
	Extract(ctx context.Context, filename string, raw []byte) (string, error)
}

type EventPublisher interface {
	PublishSummaryEvent(ctx context.Context, event domain.SummaryEvent) error
}

type EventSubscriber interface {
	SubscribeSummaryEvents(ctx context.Context, handler func(context.Context, domain.SummaryEvent) error) error
}

// SummaryCache holds rated (immutable) records.
type SummaryCache interface {
	Get(ctx context.Context, id string) (*domain.SummaryRecord, bool, error)
	Put(ctx context.Context, rec *domain.SummaryRecord) error
}

type FeedbackSink interface {
	Append(ctx context.Context, entry domain.FeedbackEntry) error
}

// CorpusSource enumerates and parses corpus documents.
type CorpusSource interface {
	List(ctx context.Context, root string) ([]string, error)
	Parse(ctx context.Context, path string) (domain.ArticlePair, error)
}

// DatasetSink receives extracted pairs. Close flushes buffered output.
type DatasetSink interface {
	Write(pair domain.ArticlePair) error
	Close() error
}

type DatasetLoader interface {
	Load(ctx context.Context, path string) ([]domain.ArticlePair, error)
}

// ArtifactStore answers questions about on-disk training artifacts.
type ArtifactStore interface {
	DirExists(path string) bool
}

// ModelTrainer is the narrow contract to the external training framework.
type ModelTrainer interface {
	Train(ctx context.Context, job domain.TrainingJob) (domain.TrainedModel, error)
	Load(ctx context.Context, dir string) (domain.TrainedModel, error)
	Generate(ctx context.Context, model domain.TrainedModel, text string, cfg domain.GenerationConfig) (string, error)
}
