package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"
)

// Store groups the repositories so a caller can run several of them in one transaction.
type Store struct {
	db     *sql.DB
	logger zerolog.Logger

	Players *PlayerRepository
	Stats   *StatsRepository
	Matches *MatchRepository
	Records *MatchRecordRepository
	History *RatingHistoryRepository
}

func NewStore(
	sqlDB *sql.DB,
	players *PlayerRepository,
	stats *StatsRepository,
	matches *MatchRepository,
	records *MatchRecordRepository,
	history *RatingHistoryRepository,
	logger zerolog.Logger,
) *Store {
	return &Store{
		db:      sqlDB,
		logger:  logger,
		Players: players,
		Stats:   stats,
		Matches: matches,
		Records: records,
		History: history,
	}
}

// InTx runs fn with every repository bound to a single transaction. The
// transaction commits when fn returns nil and rolls back otherwise.
func (s *Store) InTx(ctx context.Context, fn func(tx *Store) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	txStore := &Store{
		db:      s.db,
		logger:  s.logger,
		Players: s.Players.WithTx(tx),
		Stats:   s.Stats.WithTx(tx),
		Matches: s.Matches.WithTx(tx),
		Records: s.Records.WithTx(tx),
		History: s.History.WithTx(tx),
	}

	if err := fn(txStore); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
