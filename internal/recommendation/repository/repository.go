package repository

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/plipplupp/forecast-to-clothing/internal/recommendation/types"
)

//go:embed sql/save-recommendation.sql
var saveRecommendationSQL string

//go:embed sql/get-recommendation.sql
var getRecommendationSQL string

//go:embed sql/list-recommendations.sql
var listRecommendationsSQL string

var ErrNotFound = errors.New("recommendation not found")

type RecommendationRepository interface {
	// Save stores text as the recommendation for date, replacing any
	// earlier one for the same date.
	Save(ctx context.Context, date string, text string) error
	Get(ctx context.Context, date string) (types.Recommendation, error)
	// List returns up to limit recommendations, newest date first.
	List(ctx context.Context, limit int) ([]types.Recommendation, error)
}

type repositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) RecommendationRepository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) Save(ctx context.Context, date string, text string) error {
	if _, err := types.ParseDate(date); err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, saveRecommendationSQL, date, text); err != nil {
		return fmt.Errorf("save recommendation %s: %w", date, err)
	}
	return nil
}

func (r *repositoryImpl) Get(ctx context.Context, date string) (types.Recommendation, error) {
	var (
		rec     types.Recommendation
		updated sql.NullString
	)
	err := r.db.QueryRowContext(ctx, getRecommendationSQL, date).Scan(&rec.Date, &rec.Text, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Recommendation{}, fmt.Errorf("%w: %s", ErrNotFound, date)
	}
	if err != nil {
		return types.Recommendation{}, fmt.Errorf("get recommendation %s: %w", date, err)
	}
	if rec.UpdatedAt, err = parseTimestamp(updated); err != nil {
		return types.Recommendation{}, err
	}
	return rec, nil
}

func (r *repositoryImpl) List(ctx context.Context, limit int) ([]types.Recommendation, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("invalid limit %d", limit)
	}
	rows, err := r.db.QueryContext(ctx, listRecommendationsSQL, limit)
	if err != nil {
		return nil, fmt.Errorf("list recommendations: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("close recommendation rows", "error", err)
		}
	}()

	out := []types.Recommendation{}
	for rows.Next() {
		var (
			rec     types.Recommendation
			updated sql.NullString
		)
		if err := rows.Scan(&rec.Date, &rec.Text, &updated); err != nil {
			return nil, err
		}
		if rec.UpdatedAt, err = parseTimestamp(updated); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// parseTimestamp leaves rows written before updated_at existed at the
// zero time.
func parseTimestamp(ts sql.NullString) (time.Time, error) {
	if !ts.Valid {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339Nano, ts.String)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", ts.String, err)
	}
	return t, nil
}
