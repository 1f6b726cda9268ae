package usecase

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"

	"github.com/kirillkom/summary-service/internal/core/domain"
)

type summaryRepoFake struct {
	mu        sync.Mutex
	records   map[string]*domain.SummaryRecord
	createErr error
	gets      int
}

func newSummaryRepoFake() *summaryRepoFake {
	return &summaryRepoFake{records: map[string]*domain.SummaryRecord{}}
}

func (f *summaryRepoFake) Create(_ context.Context, rec *domain.SummaryRecord) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	copyRec := *rec
	f.records[rec.ID] = &copyRec
	return nil
}

func (f *summaryRepoFake) GetByID(_ context.Context, id string) (*domain.SummaryRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets++
	rec, ok := f.records[id]
	if !ok {
		return nil, domain.WrapError(domain.ErrSummaryNotFound, "get summary", errors.New("id="+id))
	}
	copyRec := *rec
	return &copyRec, nil
}

func (f *summaryRepoFake) SetScoreOnce(_ context.Context, id string, score float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.records[id]
	if !ok {
		return domain.WrapError(domain.ErrSummaryNotFound, "set score", errors.New("id="+id))
	}
	if rec.Score != nil {
		return domain.WrapError(domain.ErrScoreAlreadySet, "set score", errors.New("id="+id))
	}
	rec.Score = &score
	return nil
}

type storageFake struct {
	savedKey  string
	savedBody string
	err       error
}

func (f *storageFake) Save(_ context.Context, key string, data io.Reader) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	raw, err := io.ReadAll(data)
	if err != nil {
		return "", err
	}
	f.savedKey = key
	f.savedBody = string(raw)
	return "uploads/" + key, nil
}

func (f *storageFake) Open(context.Context, string) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader(f.savedBody)), nil
}

type extractorFake struct {
	err error
}

func (f extractorFake) Extract(_ context.Context, _ string, raw []byte) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return string(raw), nil
}

type publisherFake struct {
	mu     sync.Mutex
	events []domain.SummaryEvent
	err    error
}

func (f *publisherFake) PublishSummaryEvent(_ context.Context, event domain.SummaryEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
	return f.err
}
