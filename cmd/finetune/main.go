package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/kirillkom/summary-service/internal/config"
	"github.com/kirillkom/summary-service/internal/core/usecase"
	"github.com/kirillkom/summary-service/internal/infrastructure/dataset"
	"github.com/kirillkom/summary-service/internal/infrastructure/resilience"
	"github.com/kirillkom/summary-service/internal/infrastructure/storage/localfs"
	"github.com/kirillkom/summary-service/internal/infrastructure/trainer/remote"
	"github.com/kirillkom/summary-service/internal/observability/logging"
)

func main() {
	configPath := flag.String("config", "", "YAML file overriding the fine-tuning defaults")
	text := flag.String("text", "", "summarize this text with the model after loading or training it")
	flag.Parse()

	cfg := config.Load()
	logger := logging.NewCLILogger(cfg.LogLevel)
	slog.SetDefault(logger)

	if err := run(cfg, *configPath, *text); err != nil {
		logger.Error("finetune_failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, configPath, text string) error {
	tuneCfg, err := config.LoadFineTune(configPath)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	trainer := remote.New(cfg.TrainerURL, remote.Options{
		Executor: resilience.NewExecutor(resilience.DefaultPolicy()),
	})
	uc := usecase.NewFineTuneUseCase(tuneCfg, dataset.NewLoader(), trainer, localfs.Artifacts{})

	model, err := uc.LoadOrTrain(ctx)
	if err != nil {
		return err
	}
	slog.Info("model_ready", "model_id", model.ID, "model_dir", model.Dir)

	if text == "" {
		return nil
	}
	summary, err := uc.Summarize(ctx, model, text)
	if err != nil {
		return err
	}
	fmt.Println(summary)
	return nil
}
