package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"shion/internal/db"
	"shion/internal/domain"

	"github.com/rs/zerolog"
)

type MatchRepository struct {
	queries *db.Queries
	db      *sql.DB
	logger  zerolog.Logger
}

func NewMatchRepository(sqlDB *sql.DB, queries *db.Queries, logger zerolog.Logger) *MatchRepository {
	return &MatchRepository{
		queries: queries,
		db:      sqlDB,
		logger:  logger,
	}
}

func (r *MatchRepository) WithTx(tx *sql.Tx) *MatchRepository {
	return &MatchRepository{
		queries: r.queries.WithTx(tx),
		db:      r.db,
		logger:  r.logger,
	}
}

func toDomainMatch(m db.Match) domain.Match {
	return domain.Match{
		ID:        m.ID,
		ServerIP:  m.ServerIp,
		MapName:   m.MapName,
		PlayedAt:  m.PlayedAt,
		CreatedAt: m.CreatedAt,
	}
}

// Create stores the match header. A zero PlayedAt defaults to the creation time.
func (r *MatchRepository) Create(ctx context.Context, match *domain.Match) (*domain.Match, error) {
	now := time.Now().UTC()
	playedAt := match.PlayedAt
	if playedAt.IsZero() {
		playedAt = now
	}

	created, err := r.queries.CreateMatch(ctx, db.CreateMatchParams{
		ServerIp:  match.ServerIP,
		MapName:   match.MapName,
		PlayedAt:  playedAt.UTC(),
		CreatedAt: now,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create match: %w", err)
	}

	m := toDomainMatch(created)
	return &m, nil
}

func (r *MatchRepository) Get(ctx context.Context, id int64) (*domain.Match, error) {
	match, err := r.queries.GetMatch(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrMatchNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get match %d: %w", id, err)
	}
	m := toDomainMatch(match)
	return &m, nil
}

// ListChronological returns every match ordered by play time, ties broken by id.
func (r *MatchRepository) ListChronological(ctx context.Context) ([]domain.Match, error) {
	matches, err := r.queries.ListMatchesChronological(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}

	result := make([]domain.Match, len(matches))
	for i, m := range matches {
		result[i] = toDomainMatch(m)
	}
	return result, nil
}

// Delete removes the match; its records and rating captures cascade.
func (r *MatchRepository) Delete(ctx context.Context, id int64) error {
	n, err := r.queries.DeleteMatch(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete match %d: %w", id, err)
	}
	if n == 0 {
		return domain.ErrMatchNotFound
	}
	r.logger.Debug().Int64("match_id", id).Msg("match deleted")
	return nil
}

func (r *MatchRepository) ListByPlayer(ctx context.Context, playerID int64, limit, offset int) ([]domain.PlayerMatch, error) {
	rows, err := r.queries.ListPlayerMatches(ctx, db.ListPlayerMatchesParams{
		PlayerID: playerID,
		Limit:    int64(limit),
		Offset:   int64(offset),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list matches of player %d: %w", playerID, err)
	}

	result := make([]domain.PlayerMatch, len(rows))
	for i, row := range rows {
		result[i] = domain.PlayerMatch{
			Match:  toDomainMatch(row.Match),
			Record: toDomainRecord(row.MatchRecord),
		}
	}
	return result, nil
}
