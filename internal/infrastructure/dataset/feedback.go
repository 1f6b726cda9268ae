package dataset

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/kirillkom/summary-service/internal/core/domain"
)

// FeedbackLog appends rated summaries as JSON lines.
type FeedbackLog struct {
	path string
	mu   sync.Mutex
}

func NewFeedbackLog(path string) (*FeedbackLog, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create feedback dir: %w", err)
		}
	}
	return &FeedbackLog{path: path}, nil
}

func (l *FeedbackLog) Append(_ context.Context, entry domain.FeedbackEntry) error {
	line, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal feedback: %w", err)
	}
	line = append(line, '\n')

	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open feedback log: %w", err)
	}
	if _, err := f.Write(line); err != nil {
		_ = f.Close()
		return fmt.Errorf("append feedback: %w", err)
	}
	return f.Close()
}
