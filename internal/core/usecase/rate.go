package usecase

import (
	"context"
	"math"
	"time"

	"github.com/kirillkom/summary-service/internal/core/domain"
	"github.com/kirillkom/summary-service/internal/core/ports"
)

const scoreRangeMessage = "Score must be a number between 0 and 10"

type RateSummaryUseCase struct {
	repo   ports.SummaryRepository
	events ports.EventPublisher
}

func NewRateSummaryUseCase(repo ports.SummaryRepository, events ports.EventPublisher) *RateSummaryUseCase {
	return &RateSummaryUseCase{repo: repo, events: events}
}

func (uc *RateSummaryUseCase) Rate(ctx context.Context, id string, score float64) (*domain.Rating, error) {
	if math.IsNaN(score) || score < domain.MinScore || score > domain.MaxScore {
		return nil, domain.Invalid(scoreRangeMessage)
	}

	if err := uc.repo.SetScoreOnce(ctx, id, score); err != nil {
		return nil, err
	}

	applied := score
	publish(ctx, uc.events, domain.SummaryEvent{
		Type:       domain.EventSummaryRated,
		SummaryID:  id,
		Score:      &applied,
		OccurredAt: time.Now().UTC(),
	})
	return &domain.Rating{ID: id, Score: score}, nil
}
