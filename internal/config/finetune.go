package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kirillkom/summary-service/internal/core/domain"
)

func DefaultFineTune() domain.FineTuneConfig {
	return domain.FineTuneConfig{
		DatasetPath:        "formatted_dataset.json",
		ModelDir:           "./results/model",
		CheckpointDir:      "./results/checkpoint",
		ValidationFraction: 0.1,
		Seed:               42,
		Tokenization: domain.TokenizationConfig{
			SourceField:     "Body",
			TargetField:     "Abstract",
			MaxSourceLength: 1024,
			MaxTargetLength: 150,
			Truncation:      true,
			Padding:         "max_length",
		},
		Trainer: domain.TrainerConfig{
			BaseModel:               "facebook/bart-large",
			OutputDir:               "./results",
			EvaluationStrategy:      "epoch",
			LearningRate:            2e-5,
			PerDeviceTrainBatchSize: 4,
			PerDeviceEvalBatchSize:  4,
			NumTrainEpochs:          3,
			WeightDecay:             0.01,
			LoggingDir:              "./logs",
			LoggingSteps:            10,
			SaveSteps:               500,
			SaveTotalLimit:          3,
			ReportTo:                "none",
		},
		Generation: domain.GenerationConfig{
			MaxInputLength:    1024,
			MaxLength:         150,
			NumBeams:          4,
			LengthPenalty:     2.0,
			EarlyStopping:     true,
			SkipSpecialTokens: true,
		},
	}
}

// LoadFineTune overlays the YAML file at path onto the defaults. An empty path
// returns the defaults unchanged.
func LoadFineTune(path string) (domain.FineTuneConfig, error) {
	cfg := DefaultFineTune()
	if path == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read fine-tune config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parse fine-tune config: %w", err)
	}
	return cfg, nil
}
