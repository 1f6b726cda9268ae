package domain

import "time"

const (
	MinScore = 0
	MaxScore = 10
)

// SummaryRecord is one ingested text or file together with its placeholder summary.
// Score is write-once: nil until rated, immutable afterwards.
type SummaryRecord struct {
	ID           string    `json:"id"`
	OriginalText string    `json:"original_text"`
	IsFile       bool      `json:"is_file"`
	FilePath     *string   `json:"file_path"`
	Summarized   string    `json:"summarized"`
	Score        *float64  `json:"score"`
	MinSize      int       `json:"minsize"`
	MaxSize      int       `json:"maxsize"`
	CreatedDate  time.Time `json:"created_date"`
}

// Rated reports whether the record carries a score. Rated records never change again.
func (r *SummaryRecord) Rated() bool {
	return r != nil && r.Score != nil
}

type TextSubmission struct {
	Text    string
	MinSize int
	MaxSize int
}

type FileSubmission struct {
	Filename string
	Content  []byte
	MinSize  int
	MaxSize  int
}

type Rating struct {
	ID    string  `json:"id"`
	Score float64 `json:"score"`
}

type SummaryEventType string

const (
	EventSummaryCreated SummaryEventType = "summary.created"
	EventSummaryRated   SummaryEventType = "summary.rated"
)

type SummaryEvent struct {
	Type       SummaryEventType `json:"type"`
	SummaryID  string           `json:"summary_id"`
	Score      *float64         `json:"score,omitempty"`
	OccurredAt time.Time        `json:"occurred_at"`
}

// FeedbackEntry is a rated summary exported as a training signal.
type FeedbackEntry struct {
	SummaryID    string    `json:"summary_id"`
	OriginalText string    `json:"original_text"`
	Summarized   string    `json:"summarized"`
	Score        float64   `json:"score"`
	RatedAt      time.Time `json:"rated_at"`
}
