package httpadapter

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sync"

	"github.com/kirillkom/summary-service/internal/config"
	"github.com/kirillkom/summary-service/internal/core/domain"
	"github.com/kirillkom/summary-service/internal/core/usecase"
	"github.com/kirillkom/summary-service/internal/infrastructure/extractor/filetext"
)

type memoryRepo struct {
	mu        sync.Mutex
	records   map[string]domain.SummaryRecord
	createErr error
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{records: map[string]domain.SummaryRecord{}}
}

func (r *memoryRepo) Create(_ context.Context, rec *domain.SummaryRecord) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[rec.ID] = *rec
	return nil
}

func (r *memoryRepo) GetByID(_ context.Context, id string) (*domain.SummaryRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[id]
	if !ok {
		return nil, domain.WrapError(domain.ErrSummaryNotFound, "get summary", errors.New(id))
	}
	return &rec, nil
}

func (r *memoryRepo) SetScoreOnce(_ context.Context, id string, score float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[id]
	if !ok {
		return domain.WrapError(domain.ErrSummaryNotFound, "set score", errors.New(id))
	}
	if rec.Score != nil {
		return domain.WrapError(domain.ErrScoreAlreadySet, "set score", errors.New(id))
	}
	rec.Score = &score
	r.records[id] = rec
	return nil
}

type uploadsFake struct {
	mu    sync.Mutex
	saved map[string][]byte
}

func (s *uploadsFake) Save(_ context.Context, key string, data io.Reader) (string, error) {
	raw, err := io.ReadAll(data)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saved == nil {
		s.saved = map[string][]byte{}
	}
	s.saved[key] = raw
	return "uploads/" + key, nil
}

func (s *uploadsFake) Open(context.Context, string) (io.ReadCloser, error) {
	return nil, errors.New("not implemented")
}

type testEnv struct {
	repo    *memoryRepo
	uploads *uploadsFake
	handler http.Handler
}

func newTestEnv(cfg config.Config) *testEnv {
	repo := newMemoryRepo()
	uploads := &uploadsFake{}
	ingest := usecase.NewIngestSummaryUseCase(repo, uploads, filetext.NewExtractor(), nil)
	rater := usecase.NewRateSummaryUseCase(repo, nil)
	reader := usecase.NewSummaryQueryUseCase(repo, nil)
	return &testEnv{
		repo:    repo,
		uploads: uploads,
		handler: NewRouter(cfg, ingest, rater, reader).Handler(),
	}
}
