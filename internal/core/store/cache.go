package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tldsweep/tldsweep/internal/core"
	"github.com/tldsweep/tldsweep/internal/core/lookup"
)

// GetVerdict returns a cached verdict if it is still fresh.
func (s *Store) GetVerdict(ctx context.Context, name, tld string) (*lookup.Verdict, error) {
	if s == nil || s.DB == nil {
		return nil, errors.New("store is not initialized")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	keyName := strings.TrimSpace(name)
	if keyName == "" {
		return nil, errors.New("cache name is required")
	}

	var (
		status    string
		source    sql.NullString
		checkedAt int64
	)

	row := s.DB.QueryRowContext(ctx, `
		SELECT status, source, checked_at
		FROM verdict_cache
		WHERE name = ? AND tld = ? AND expires_at > ?
	`, keyName, core.NormalizeTLD(tld), time.Now().UTC().Unix())

	if err := row.Scan(&status, &source, &checkedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("fetch cached verdict: %w", err)
	}

	return &lookup.Verdict{
		Status:    core.Status(status),
		Source:    source.String,
		CheckedAt: time.Unix(checkedAt, 0).UTC(),
	}, nil
}

// SetVerdict stores a verdict with a TTL.
func (s *Store) SetVerdict(ctx context.Context, name, tld string, verdict lookup.Verdict, ttl time.Duration) error {
	if s == nil || s.DB == nil {
		return errors.New("store is not initialized")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	if ttl <= 0 {
		return nil
	}

	keyName := strings.TrimSpace(name)
	if keyName == "" {
		return errors.New("cache name is required")
	}

	checkedAt := verdict.CheckedAt
	if checkedAt.IsZero() {
		checkedAt = time.Now().UTC()
	}

	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO verdict_cache (name, tld, status, source, checked_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(name, tld) DO UPDATE SET
			status = excluded.status,
			source = excluded.source,
			checked_at = excluded.checked_at,
			expires_at = excluded.expires_at
	`, keyName, core.NormalizeTLD(tld), string(verdict.Status), verdict.Source, checkedAt.Unix(), checkedAt.Add(ttl).Unix())
	if err != nil {
		return fmt.Errorf("store cached verdict: %w", err)
	}

	return nil
}

// PruneExpired drops stale cache rows and returns how many were
// removed.
func (s *Store) PruneExpired(ctx context.Context) (int64, error) {
	if s == nil || s.DB == nil {
		return 0, errors.New("store is not initialized")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	result, err := s.DB.ExecContext(ctx, `DELETE FROM verdict_cache WHERE expires_at <= ?`, time.Now().UTC().Unix())
	if err != nil {
		return 0, fmt.Errorf("prune verdict cache: %w", err)
	}

	removed, err := result.RowsAffected()
	if err != nil {
		return 0, nil
	}
	return removed, nil
}
