package domain

// TokenizationConfig describes how the training backend encodes a pair.
type TokenizationConfig struct {
	SourceField     string `json:"source_field" yaml:"source_field"`
	TargetField     string `json:"target_field" yaml:"target_field"`
	MaxSourceLength int    `json:"max_source_length" yaml:"max_source_length"`
	MaxTargetLength int    `json:"max_target_length" yaml:"max_target_length"`
	Truncation      bool   `json:"truncation" yaml:"truncation"`
	Padding         string `json:"padding" yaml:"padding"`
}

type TrainerConfig struct {
	BaseModel               string  `json:"base_model" yaml:"base_model"`
	OutputDir               string  `json:"output_dir" yaml:"output_dir"`
	EvaluationStrategy      string  `json:"evaluation_strategy" yaml:"evaluation_strategy"`
	LearningRate            float64 `json:"learning_rate" yaml:"learning_rate"`
	PerDeviceTrainBatchSize int     `json:"per_device_train_batch_size" yaml:"per_device_train_batch_size"`
	PerDeviceEvalBatchSize  int     `json:"per_device_eval_batch_size" yaml:"per_device_eval_batch_size"`
	NumTrainEpochs          int     `json:"num_train_epochs" yaml:"num_train_epochs"`
	WeightDecay             float64 `json:"weight_decay" yaml:"weight_decay"`
	LoggingDir              string  `json:"logging_dir" yaml:"logging_dir"`
	LoggingSteps            int     `json:"logging_steps" yaml:"logging_steps"`
	SaveSteps               int     `json:"save_steps" yaml:"save_steps"`
	SaveTotalLimit          int     `json:"save_total_limit" yaml:"save_total_limit"`
	ReportTo                string  `json:"report_to" yaml:"report_to"`
}

type GenerationConfig struct {
	MaxInputLength    int     `json:"max_input_length" yaml:"max_input_length"`
	MaxLength         int     `json:"max_length" yaml:"max_length"`
	NumBeams          int     `json:"num_beams" yaml:"num_beams"`
	LengthPenalty     float64 `json:"length_penalty" yaml:"length_penalty"`
	EarlyStopping     bool    `json:"early_stopping" yaml:"early_stopping"`
	SkipSpecialTokens bool    `json:"skip_special_tokens" yaml:"skip_special_tokens"`
}

// FineTuneConfig is the full, fixed configuration of one fine-tuning run.
type FineTuneConfig struct {
	DatasetPath        string             `yaml:"dataset_path"`
	ModelDir           string             `yaml:"model_dir"`
	CheckpointDir      string             `yaml:"checkpoint_dir"`
	ValidationFraction float64            `yaml:"validation_fraction"`
	Seed               uint64             `yaml:"seed"`
	Tokenization       TokenizationConfig `yaml:"tokenization"`
	Trainer            TrainerConfig      `yaml:"trainer"`
	Generation         GenerationConfig   `yaml:"generation"`
}

// TrainingJob is what gets handed to the external training backend.
type TrainingJob struct {
	Train                []ArticlePair      `json:"train"`
	Validation           []ArticlePair      `json:"validation"`
	Tokenization         TokenizationConfig `json:"tokenization"`
	Trainer              TrainerConfig      `json:"trainer"`
	ModelDir             string             `json:"model_dir"`
	ResumeFromCheckpoint string             `json:"resume_from_checkpoint,omitempty"`
}

// TrainedModel identifies a model (and its tokenizer) held by the training backend.
type TrainedModel struct {
	ID  string `json:"model_id"`
	Dir string `json:"model_dir"`
}
