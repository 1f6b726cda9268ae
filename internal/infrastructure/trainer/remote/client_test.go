package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kirillkom/summary-service/internal/core/domain"
	"github.com/kirillkom/summary-service/internal/infrastructure/resilience"
)

func fastExecutor() *resilience.Executor {
	p := resilience.DefaultPolicy()
	p.Retry = resilience.RetryPolicy{MaxAttempts: 3, InitialBackoff: time.Millisecond, MaxBackoff: time.Millisecond, Multiplier: 1}
	p.Breaker.Enabled = false
	return resilience.NewExecutor(p)
}

func TestTrainSendsJobAndDoesNotRetry(t *testing.T) {
	var calls atomic.Int32
	var captured domain.TrainingJob
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/train" {
			http.NotFound(w, r)
			return
		}
		calls.Add(1)
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_, _ = w.Write([]byte(`{"model_id":"bart-1"}`))
	}))
	defer server.Close()

	client := New(server.URL, Options{Executor: fastExecutor()})
	model, err := client.Train(context.Background(), domain.TrainingJob{
		Train:                []domain.ArticlePair{{Abstract: "a", Body: "b"}},
		Validation:           []domain.ArticlePair{{Abstract: "c", Body: "d"}},
		Trainer:              domain.TrainerConfig{BaseModel: "facebook/bart-large", NumTrainEpochs: 3},
		ModelDir:             "./results/model",
		ResumeFromCheckpoint: "./results/checkpoint",
	})
	if err != nil {
		t.Fatalf("Train() error = %v", err)
	}
	if model.ID != "bart-1" || model.Dir != "./results/model" {
		t.Fatalf("unexpected model %+v", model)
	}
	if captured.Trainer.BaseModel != "facebook/bart-large" || captured.ResumeFromCheckpoint != "./results/checkpoint" {
		t.Fatalf("unexpected job payload %+v", captured)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected one call, got %d", calls.Load())
	}
}

func TestTrainFailureIsNotReplayed(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "busy", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := New(server.URL, Options{Executor: fastExecutor()})
	_, err := client.Train(context.Background(), domain.TrainingJob{})
	if !domain.IsKind(err, domain.ErrTemporary) {
		t.Fatalf("expected temporary error, got %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("training must not be retried, got %d calls", calls.Load())
	}
}

func TestGenerateRetriesTransientStatus(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, "warming up", http.StatusServiceUnavailable)
			return
		}
		var req generateRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Generation.NumBeams != 4 || req.ModelID != "bart-1" {
			t.Errorf("unexpected generate request %+v", req)
		}
		_, _ = w.Write([]byte(`{"summary":"short"}`))
	}))
	defer server.Close()

	client := New(server.URL, Options{Executor: fastExecutor()})
	out, err := client.Generate(context.Background(), domain.TrainedModel{ID: "bart-1"}, "long text",
		domain.GenerationConfig{NumBeams: 4, MaxLength: 150})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if out != "short" || calls.Load() != 2 {
		t.Fatalf("Generate() = %q after %d calls", out, calls.Load())
	}
}

func TestLoadIncludesHTTPBodyInError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model dir missing", http.StatusBadRequest)
	}))
	defer server.Close()

	client := New(server.URL, Options{})
	_, err := client.Load(context.Background(), "./results/model")
	if err == nil || !strings.Contains(err.Error(), "model dir missing") {
		t.Fatalf("expected response body in error, got %v", err)
	}
	if domain.IsKind(err, domain.ErrTemporary) {
		t.Fatalf("400 must be permanent, got %v", err)
	}
}
