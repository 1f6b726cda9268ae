package usecase

import (
	"context"
	"fmt"

	"github.com/kirillkom/summary-service/internal/core/domain"
	"github.com/kirillkom/summary-service/internal/core/ports"
)

// FeedbackUseCase exports rated summaries so they can feed later fine-tuning runs.
type FeedbackUseCase struct {
	repo ports.SummaryRepository
	sink ports.FeedbackSink
}

func NewFeedbackUseCase(repo ports.SummaryRepository, sink ports.FeedbackSink) *FeedbackUseCase {
	return &FeedbackUseCase{repo: repo, sink: sink}
}

func (uc *FeedbackUseCase) HandleEvent(ctx context.Context, event domain.SummaryEvent) error {
	if event.Type != domain.EventSummaryRated {
		return nil
	}

	rec, err := uc.repo.GetByID(ctx, event.SummaryID)
	if err != nil {
		return fmt.Errorf("load rated summary: %w", err)
	}
	if !rec.Rated() {
		return fmt.Errorf("summary %s has no score", rec.ID)
	}

	entry := domain.FeedbackEntry{
		SummaryID:    rec.ID,
		OriginalText: rec.OriginalText,
		Summarized:   rec.Summarized,
		Score:        *rec.Score,
		RatedAt:      event.OccurredAt,
	}
	if err := uc.sink.Append(ctx, entry); err != nil {
		return fmt.Errorf("append feedback: %w", err)
	}
	return nil
}
