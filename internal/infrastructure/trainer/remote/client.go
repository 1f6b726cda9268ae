package remote

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/kirillkom/summary-service/internal/core/domain"
	"github.com/kirillkom/summary-service/internal/infrastructure/resilience"
)

// Client drives an external seq2seq training backend over HTTP.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	callTimeout time.Duration
	executor    *resilience.Executor
}

type Options struct {
	// CallTimeout bounds load and generate calls. Training runs until ctx is done.
	CallTimeout time.Duration
	Executor    *resilience.Executor
}

func New(baseURL string, opts Options) *Client {
	if opts.CallTimeout <= 0 {
		opts.CallTimeout = 120 * time.Second
	}
	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		httpClient:  &http.Client{},
		callTimeout: opts.CallTimeout,
		executor:    opts.Executor,
	}
}

type loadRequest struct {
	ModelDir string `json:"model_dir"`
}

type generateRequest struct {
	ModelID    string                  `json:"model_id"`
	Text       string                  `json:"text"`
	Generation domain.GenerationConfig `json:"generation"`
}

type generateResponse struct {
	Summary string `json:"summary"`
}

// Train submits the job once; a failed training run is never replayed.
func (c *Client) Train(ctx context.Context, job domain.TrainingJob) (domain.TrainedModel, error) {
	var model domain.TrainedModel
	if err := c.postJSON(ctx, "/v1/train", job, &model, "train"); err != nil {
		return domain.TrainedModel{}, wrapTemporaryIfNeeded("trainer train", err)
	}
	if model.Dir == "" {
		model.Dir = job.ModelDir
	}
	return model, nil
}

func (c *Client) Load(ctx context.Context, dir string) (domain.TrainedModel, error) {
	model, err := call(ctx, c, "trainer.load", func(ctx context.Context) (domain.TrainedModel, error) {
		var out domain.TrainedModel
		err := c.postJSON(ctx, "/v1/models/load", loadRequest{ModelDir: dir}, &out, "load")
		return out, err
	})
	if err != nil {
		return domain.TrainedModel{}, wrapTemporaryIfNeeded("trainer load", err)
	}
	if model.Dir == "" {
		model.Dir = dir
	}
	return model, nil
}

func (c *Client) Generate(ctx context.Context, model domain.TrainedModel, text string, cfg domain.GenerationConfig) (string, error) {
	out, err := call(ctx, c, "trainer.generate", func(ctx context.Context) (generateResponse, error) {
		var resp generateResponse
		err := c.postJSON(ctx, "/v1/generate", generateRequest{
			ModelID:    model.ID,
			Text:       text,
			Generation: cfg,
		}, &resp, "generate")
		return resp, err
	})
	if err != nil {
		return "", wrapTemporaryIfNeeded("trainer generate", err)
	}
	return out.Summary, nil
}

// call bounds fn with the call timeout and runs it through the executor when one is set.
func call[T any](ctx context.Context, c *Client, op string, fn func(context.Context) (T, error)) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()
	if c.executor == nil {
		return fn(ctx)
	}
	return resilience.Call(ctx, c.executor, op, fn, classifyTrainerError)
}
