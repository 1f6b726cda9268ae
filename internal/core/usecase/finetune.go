package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"

	"github.com/kirillkom/summary-service/internal/core/domain"
	"github.com/kirillkom/summary-service/internal/core/ports"
)

type FineTuneUseCase struct {
	cfg       domain.FineTuneConfig
	loader    ports.DatasetLoader
	trainer   ports.ModelTrainer
	artifacts ports.ArtifactStore
}

func NewFineTuneUseCase(
	cfg domain.FineTuneConfig,
	loader ports.DatasetLoader,
	trainer ports.ModelTrainer,
	artifacts ports.ArtifactStore,
) *FineTuneUseCase {
	return &FineTuneUseCase{
		cfg:       cfg,
		loader:    loader,
		trainer:   trainer,
		artifacts: artifacts,
	}
}

// LoadOrTrain loads the saved model when its directory exists and trains a new one otherwise.
func (uc *FineTuneUseCase) LoadOrTrain(ctx context.Context) (domain.TrainedModel, error) {
	resume := ""
	if uc.artifacts.DirExists(uc.cfg.CheckpointDir) {
		resume = uc.cfg.CheckpointDir
		slog.Info("resuming_from_checkpoint", "checkpoint", resume)
	}

	if uc.artifacts.DirExists(uc.cfg.ModelDir) {
		slog.Info("loading_saved_model", "model_dir", uc.cfg.ModelDir)
		model, err := uc.trainer.Load(ctx, uc.cfg.ModelDir)
		if err != nil {
			return domain.TrainedModel{}, fmt.Errorf("load saved model: %w", err)
		}
		slog.Info("model_loaded", "model_id", model.ID)
		return model, nil
	}

	slog.Info("model_not_found_training", "model_dir", uc.cfg.ModelDir)
	pairs, err := uc.loader.Load(ctx, uc.cfg.DatasetPath)
	if err != nil {
		slog.Error("dataset_load_failed", "path", uc.cfg.DatasetPath, "error", err)
		return domain.TrainedModel{}, fmt.Errorf("load dataset: %w", err)
	}
	slog.Info("dataset_loaded", "path", uc.cfg.DatasetPath, "examples", len(pairs))

	train, validation, err := SplitDataset(pairs, uc.cfg.ValidationFraction, uc.cfg.Seed)
	if err != nil {
		return domain.TrainedModel{}, err
	}
	slog.Info("dataset_split", "train", len(train), "validation", len(validation))

	job := domain.TrainingJob{
		Train:                train,
		Validation:           validation,
		Tokenization:         uc.cfg.Tokenization,
		Trainer:              uc.cfg.Trainer,
		ModelDir:             uc.cfg.ModelDir,
		ResumeFromCheckpoint: resume,
	}

	slog.Info("training_started", "base_model", uc.cfg.Trainer.BaseModel, "epochs", uc.cfg.Trainer.NumTrainEpochs)
	model, err := uc.trainer.Train(ctx, job)
	if err != nil {
		slog.Error("training_failed", "error", err)
		return domain.TrainedModel{}, fmt.Errorf("train model: %w", err)
	}
	slog.Info("model_saved", "model_id", model.ID, "model_dir", model.Dir)
	return model, nil
}

func (uc *FineTuneUseCase) Summarize(ctx context.Context, model domain.TrainedModel, text string) (string, error) {
	summary, err := uc.trainer.Generate(ctx, model, text, uc.cfg.Generation)
	if err != nil {
		return "", fmt.Errorf("generate summary: %w", err)
	}
	return summary, nil
}

// SplitDataset shuffles pairs with a seeded generator and holds out
// ceil(len*validationFraction) examples for validation.
func SplitDataset(pairs []domain.ArticlePair, validationFraction float64, seed uint64) ([]domain.ArticlePair, []domain.ArticlePair, error) {
	if validationFraction <= 0 || validationFraction >= 1 {
		return nil, nil, domain.WrapError(domain.ErrInvalidInput, "split dataset",
			fmt.Errorf("validation fraction %v outside (0, 1)", validationFraction))
	}

	n := len(pairs)
	nValidation := int(math.Ceil(float64(n) * validationFraction))
	if n == 0 || nValidation >= n {
		return nil, nil, domain.WrapError(domain.ErrInvalidInput, "split dataset",
			errors.New("dataset too small to split"))
	}

	rng := rand.New(rand.NewPCG(seed, seed))
	perm := rng.Perm(n)

	validation := make([]domain.ArticlePair, 0, nValidation)
	for _, idx := range perm[:nValidation] {
		validation = append(validation, pairs[idx])
	}
	train := make([]domain.ArticlePair, 0, n-nValidation)
	for _, idx := range perm[nValidation:] {
		train = append(train, pairs[idx])
	}
	return train, validation, nil
}
