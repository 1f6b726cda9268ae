package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/kirillkom/summary-service/internal/core/domain"
)

type cacheFake struct {
	items  map[string]*domain.SummaryRecord
	puts   int
	getErr error
}

func (f *cacheFake) Get(_ context.Context, id string) (*domain.SummaryRecord, bool, error) {
	if f.getErr != nil {
		return nil, false, f.getErr
	}
	rec, ok := f.items[id]
	return rec, ok, nil
}

func (f *cacheFake) Put(_ context.Context, rec *domain.SummaryRecord) error {
	f.puts++
	f.items[rec.ID] = rec
	return nil
}

func TestQueryReturnsNotFound(t *testing.T) {
	uc := NewSummaryQueryUseCase(newSummaryRepoFake(), nil)

	_, err := uc.GetByID(context.Background(), "missing")
	if !domain.IsKind(err, domain.ErrSummaryNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestQueryCachesOnlyRatedRecords(t *testing.T) {
	repo := newSummaryRepoFake()
	seedRecord(repo, "sum-1")
	cache := &cacheFake{items: map[string]*domain.SummaryRecord{}}
	uc := NewSummaryQueryUseCase(repo, cache)

	if _, err := uc.GetByID(context.Background(), "sum-1"); err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if cache.puts != 0 {
		t.Fatalf("unrated record must not be cached")
	}

	if err := repo.SetScoreOnce(context.Background(), "sum-1", 7); err != nil {
		t.Fatalf("SetScoreOnce() error = %v", err)
	}
	rec, err := uc.GetByID(context.Background(), "sum-1")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if rec.Score == nil || *rec.Score != 7 {
		t.Fatalf("expected fresh score from repository, got %v", rec.Score)
	}
	if cache.puts != 1 {
		t.Fatalf("expected rated record to be cached once, got %d", cache.puts)
	}

	gets := repo.gets
	if _, err := uc.GetByID(context.Background(), "sum-1"); err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if repo.gets != gets {
		t.Fatalf("expected cache hit without repository read")
	}
}

func TestQueryFallsBackToRepositoryOnCacheError(t *testing.T) {
	repo := newSummaryRepoFake()
	seedRecord(repo, "sum-1")
	cache := &cacheFake{items: map[string]*domain.SummaryRecord{}, getErr: errors.New("valkey down")}
	uc := NewSummaryQueryUseCase(repo, cache)

	rec, err := uc.GetByID(context.Background(), "sum-1")
	if err != nil || rec.ID != "sum-1" {
		t.Fatalf("expected repository fallback, got %v / %v", rec, err)
	}
}
