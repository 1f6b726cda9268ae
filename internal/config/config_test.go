package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"API_PORT", "DB_DRIVER", "UPLOAD_DIR", "MAX_UPLOAD_BYTES", "NATS_URL", "NATS_SUBJECT", "API_RATE_LIMIT_RPS"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.DBDriver != "sqlite" {
		t.Fatalf("expected sqlite driver, got %q", cfg.DBDriver)
	}
	if cfg.UploadDir != "uploads" {
		t.Fatalf("expected uploads dir, got %q", cfg.UploadDir)
	}
	if cfg.MaxUploadBytes != 10<<20 {
		t.Fatalf("expected 10MiB upload limit, got %d", cfg.MaxUploadBytes)
	}
	if cfg.NATSURL != "" || cfg.NATSSubject != "summaries.events" {
		t.Fatalf("unexpected nats defaults %q %q", cfg.NATSURL, cfg.NATSSubject)
	}
	if cfg.APIRateLimitRPS != 0 {
		t.Fatalf("rate limiting must be off by default, got %v", cfg.APIRateLimitRPS)
	}
}

func TestLoadParsesOverrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "pgx")
	t.Setenv("MAX_UPLOAD_BYTES", "1024")
	t.Setenv("API_RATE_LIMIT_RPS", "2.5")
	t.Setenv("CACHE_TTL_SECONDS", "not-a-number")

	cfg := Load()
	if cfg.DBDriver != "pgx" || cfg.MaxUploadBytes != 1024 || cfg.APIRateLimitRPS != 2.5 {
		t.Fatalf("unexpected overrides %+v", cfg)
	}
	if cfg.CacheTTLSeconds != 3600 {
		t.Fatalf("invalid int must fall back to default, got %d", cfg.CacheTTLSeconds)
	}
}

func TestLoadFineTuneDefaults(t *testing.T) {
	cfg, err := LoadFineTune("")
	if err != nil {
		t.Fatalf("LoadFineTune() error = %v", err)
	}
	if cfg.Trainer.BaseModel != "facebook/bart-large" || cfg.Trainer.LearningRate != 2e-5 {
		t.Fatalf("unexpected trainer defaults %+v", cfg.Trainer)
	}
	if cfg.Tokenization.MaxSourceLength != 1024 || cfg.Tokenization.MaxTargetLength != 150 {
		t.Fatalf("unexpected tokenization defaults %+v", cfg.Tokenization)
	}
	if cfg.Generation.NumBeams != 4 || cfg.Generation.LengthPenalty != 2.0 {
		t.Fatalf("unexpected generation defaults %+v", cfg.Generation)
	}
}

func TestLoadFineTuneOverlaysYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "finetune.yaml")
	content := "dataset_path: data/train.csv\ntrainer:\n  num_train_epochs: 1\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := LoadFineTune(path)
	if err != nil {
		t.Fatalf("LoadFineTune() error = %v", err)
	}
	if cfg.DatasetPath != "data/train.csv" || cfg.Trainer.NumTrainEpochs != 1 {
		t.Fatalf("expected overrides applied, got %+v", cfg)
	}
	if cfg.Trainer.BaseModel != "facebook/bart-large" || cfg.Seed != 42 {
		t.Fatalf("expected untouched fields to keep defaults, got %+v", cfg)
	}
}
