package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kirillkom/summary-service/internal/core/domain"
)

type SummaryRepository struct {
	db     *sql.DB
	driver string
}

func NewSummaryRepository(db *sql.DB, driver string) *SummaryRepository {
	return &SummaryRepository{db: db, driver: driver}
}

func (r *SummaryRepository) EnsureSchema(ctx context.Context) error {
	return EnsureSchema(ctx, r.db, r.driver)
}

func (r *SummaryRepository) Create(ctx context.Context, rec *domain.SummaryRecord) error {
	_, err := r.db.ExecContext(ctx, rebind(r.driver, `
INSERT INTO summaries (
	id, original_text, is_file, file_path, summarized, score, minsize, maxsize, created_date
) VALUES (?,?,?,?,?,?,?,?,?)
`),
		rec.ID, rec.OriginalText, rec.IsFile, rec.FilePath, rec.Summarized, rec.Score,
		rec.MinSize, rec.MaxSize, rec.CreatedDate.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert summary: %w", err)
	}
	return nil
}

func (r *SummaryRepository) GetByID(ctx context.Context, id string) (*domain.SummaryRecord, error) {
	row := r.db.QueryRowContext(ctx, rebind(r.driver, `
SELECT id, original_text, is_file, file_path, summarized, score, minsize, maxsize, created_date
FROM summaries
WHERE id = ?
`), id)

	var rec domain.SummaryRecord
	err := row.Scan(
		&rec.ID, &rec.OriginalText, &rec.IsFile, &rec.FilePath, &rec.Summarized, &rec.Score,
		&rec.MinSize, &rec.MaxSize, &rec.CreatedDate,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrSummaryNotFound, "get summary", fmt.Errorf("id=%s", id))
		}
		return nil, fmt.Errorf("scan summary: %w", err)
	}
	rec.CreatedDate = rec.CreatedDate.UTC()
	return &rec, nil
}

// SetScoreOnce is a single conditional update; a zero-row result is resolved into
// not-found or already-set with a follow-up existence read.
func (r *SummaryRepository) SetScoreOnce(ctx context.Context, id string, score float64) error {
	res, err := r.db.ExecContext(ctx, rebind(r.driver, `
UPDATE summaries
SET score = ?
WHERE id = ? AND score IS NULL
`), score, id)
	if err != nil {
		return fmt.Errorf("update summary score: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("summary score rows affected: %w", err)
	}
	if affected > 0 {
		return nil
	}

	var one int
	err = r.db.QueryRowContext(ctx, rebind(r.driver, `SELECT 1 FROM summaries WHERE id = ?`), id).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.WrapError(domain.ErrSummaryNotFound, "set summary score", fmt.Errorf("id=%s", id))
		}
		return fmt.Errorf("check summary exists: %w", err)
	}
	return domain.WrapError(domain.ErrScoreAlreadySet, "set summary score", fmt.Errorf("id=%s", id))
}
