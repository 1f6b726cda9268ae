package usecase

import (
	"context"
	"log/slog"

	"github.com/kirillkom/summary-service/internal/core/domain"
	"github.com/kirillkom/summary-service/internal/core/ports"
)

type SummaryQueryUseCase struct {
	repo  ports.SummaryRepository
	cache ports.SummaryCache
}

// NewSummaryQueryUseCase builds the read path. cache may be nil.
func NewSummaryQueryUseCase(repo ports.SummaryRepository, cache ports.SummaryCache) *SummaryQueryUseCase {
	return &SummaryQueryUseCase{repo: repo, cache: cache}
}

func (uc *SummaryQueryUseCase) GetByID(ctx context.Context, id string) (*domain.SummaryRecord, error) {
	if uc.cache != nil {
		rec, ok, err := uc.cache.Get(ctx, id)
		switch {
		case err != nil:
			slog.Warn("summary_cache_get_failed", "summary_id", id, "error", err)
		case ok:
			return rec, nil
		}
	}

	rec, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Only rated records are immutable, so only they are safe to cache.
	if uc.cache != nil && rec.Rated() {
		if err := uc.cache.Put(ctx, rec); err != nil {
			slog.Warn("summary_cache_put_failed", "summary_id", id, "error", err)
		}
	}
	return rec, nil
}
