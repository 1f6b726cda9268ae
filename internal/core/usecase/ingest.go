package usecase

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"

	"github.com/kirillkom/summary-service/internal/core/domain"
	"github.com/kirillkom/summary-service/internal/core/ports"
)

var allowedExtensions = map[string]struct{}{
	"pdf": {},
	"txt": {},
}

type IngestSummaryUseCase struct {
	repo      ports.SummaryRepository
	storage   ports.ObjectStorage
	extractor ports.TextExtractor
	events    ports.EventPublisher
	now       func() time.Time
}

func NewIngestSummaryUseCase(
	repo ports.SummaryRepository,
	storage ports.ObjectStorage,
	extractor ports.TextExtractor,
	events ports.EventPublisher,
) *IngestSummaryUseCase {
	return &IngestSummaryUseCase{
		repo:      repo,
		storage:   storage,
		extractor: extractor,
		events:    events,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (uc *IngestSummaryUseCase) IngestText(ctx context.Context, sub domain.TextSubmission) (*domain.SummaryRecord, error) {
	if err := validateSizes(sub.MinSize, sub.MaxSize); err != nil {
		return nil, err
	}

	rec := uc.newRecord(sub.Text, sub.MinSize, sub.MaxSize)
	if err := uc.repo.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("create summary record: %w", err)
	}
	uc.publishCreated(ctx, rec)
	return rec, nil
}

func (uc *IngestSummaryUseCase) IngestFile(ctx context.Context, sub domain.FileSubmission) (*domain.SummaryRecord, error) {
	if sub.Filename == "" {
		return nil, domain.Invalid("No selected file")
	}
	if !allowedFile(sub.Filename) {
		return nil, domain.Invalid("File type not allowed. Only PDF and text files are permitted.")
	}
	name := secureFilename(sub.Filename)
	if name == "" || !allowedFile(name) {
		return nil, domain.Invalid("Invalid filename")
	}
	if err := validateSizes(sub.MinSize, sub.MaxSize); err != nil {
		return nil, err
	}

	text, err := uc.extractor.Extract(ctx, name, sub.Content)
	if err != nil {
		return nil, fmt.Errorf("extract uploaded text: %w", err)
	}

	path, err := uc.storage.Save(ctx, name, bytes.NewReader(sub.Content))
	if err != nil {
		return nil, fmt.Errorf("save upload: %w", err)
	}

	rec := uc.newRecord(text, sub.MinSize, sub.MaxSize)
	rec.IsFile = true
	rec.FilePath = &path

	if err := uc.repo.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("create summary record: %w", err)
	}
	uc.publishCreated(ctx, rec)
	return rec, nil
}

func (uc *IngestSummaryUseCase) newRecord(text string, minSize, maxSize int) *domain.SummaryRecord {
	return &domain.SummaryRecord{
		ID:           uuid.NewString(),
		OriginalText: text,
		Summarized:   PlaceholderSummary(text, maxSize),
		MinSize:      minSize,
		MaxSize:      maxSize,
		CreatedDate:  uc.now(),
	}
}

func (uc *IngestSummaryUseCase) publishCreated(ctx context.Context, rec *domain.SummaryRecord) {
	publish(ctx, uc.events, domain.SummaryEvent{
		Type:       domain.EventSummaryCreated,
		SummaryID:  rec.ID,
		OccurredAt: rec.CreatedDate,
	})
}

// publish never fails the caller: the record is already committed.
func publish(ctx context.Context, events ports.EventPublisher, event domain.SummaryEvent) {
	if events == nil {
		return
	}
	if err := events.PublishSummaryEvent(ctx, event); err != nil {
		slog.Warn("summary_event_publish_failed",
			"type", string(event.Type),
			"summary_id", event.SummaryID,
			"error", err,
		)
	}
}

func validateSizes(minSize, maxSize int) error {
	if minSize < 0 || maxSize < 0 {
		return domain.Invalid("minsize and maxsize must be non-negative integers")
	}
	return nil
}

func allowedFile(filename string) bool {
	dot := strings.LastIndex(filename, ".")
	if dot < 0 {
		return false
	}
	_, ok := allowedExtensions[strings.ToLower(filename[dot+1:])]
	return ok
}

// secureFilename folds name to a flat ASCII filename that is safe to join to the upload dir.
func secureFilename(name string) string {
	var ascii strings.Builder
	for _, r := range norm.NFKD.String(name) {
		if r < utf8.RuneSelf {
			ascii.WriteRune(r)
		}
	}
	flat := strings.NewReplacer("/", " ", "\\", " ").Replace(ascii.String())
	joined := strings.Join(strings.Fields(flat), "_")
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r
		case r >= 'A' && r <= 'Z':
			return r
		case r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return -1
		}
	}, joined)
	return strings.Trim(cleaned, "._")
}
