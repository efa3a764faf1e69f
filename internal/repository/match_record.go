package repository

import (
	"context"
	"database/sql"
	"fmt"

	"shion/internal/constants"
	"shion/internal/db"
	"shion/internal/domain"

	"github.com/rs/zerolog"
)

type MatchRecordRepository struct {
	queries *db.Queries
	db      *sql.DB
	logger  zerolog.Logger
}

func NewMatchRecordRepository(sqlDB *sql.DB, queries *db.Queries, logger zerolog.Logger) *MatchRecordRepository {
	return &MatchRecordRepository{
		queries: queries,
		db:      sqlDB,
		logger:  logger,
	}
}

func (r *MatchRecordRepository) WithTx(tx *sql.Tx) *MatchRecordRepository {
	return &MatchRecordRepository{
		queries: r.queries.WithTx(tx),
		db:      r.db,
		logger:  r.logger,
	}
}

func toDomainRecord(rec db.MatchRecord) domain.MatchRecord {
	return domain.MatchRecord{
		ID:               rec.ID,
		PlayerID:         rec.PlayerID,
		MatchID:          rec.MatchID,
		Frags:            int16(rec.Frags),
		Deaths:           int16(rec.Deaths),
		AveragePing:      uint16(rec.AveragePing),
		DamageDealt:      uint16(rec.DamageDealt),
		DamageTaken:      uint16(rec.DamageTaken),
		Team:             rec.Team,
		RatingAfterMatch: rec.RatingAfterMatch,
		RatingDelta:      rec.RatingDelta,
	}
}

func createRecordParams(rec domain.MatchRecord) db.CreateMatchRecordParams {
	return db.CreateMatchRecordParams{
		PlayerID:    rec.PlayerID,
		MatchID:     rec.MatchID,
		Frags:       int64(rec.Frags),
		Deaths:      int64(rec.Deaths),
		AveragePing: int64(rec.AveragePing),
		DamageDealt: int64(rec.DamageDealt),
		DamageTaken: int64(rec.DamageTaken),
		Team:        rec.Team,
	}
}

// Create stores a single record with zeroed rating fields and returns its id.
func (r *MatchRecordRepository) Create(ctx context.Context, rec domain.MatchRecord) (int64, error) {
	id, err := r.queries.CreateMatchRecord(ctx, createRecordParams(rec))
	if err != nil {
		return 0, fmt.Errorf("failed to create match record for player %d: %w", rec.PlayerID, err)
	}
	return id, nil
}

// CreateBatch stores all records in one transaction, either all of them or none.
func (r *MatchRecordRepository) CreateBatch(ctx context.Context, records []domain.MatchRecord) ([]int64, error) {
	if len(records) == 0 {
		return nil, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	ids, err := insertRecords(ctx, r.queries.WithTx(tx), records)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit match records: %w", err)
	}
	return ids, nil
}

// InsertAll stores records through the repository's current queries. Use it on a
// repository bound with WithTx so the caller's transaction covers the inserts.
func (r *MatchRecordRepository) InsertAll(ctx context.Context, records []domain.MatchRecord) ([]int64, error) {
	return insertRecords(ctx, r.queries, records)
}

func insertRecords(ctx context.Context, qtx *db.Queries, records []domain.MatchRecord) ([]int64, error) {
	ids := make([]int64, 0, len(records))
	for i := 0; i < len(records); i += constants.DBBatchSize {
		end := i + constants.DBBatchSize
		if end > len(records) {
			end = len(records)
		}

		for _, rec := range records[i:end] {
			id, err := qtx.CreateMatchRecord(ctx, createRecordParams(rec))
			if err != nil {
				return nil, fmt.Errorf("failed to create match record %d/%d: %w", rec.MatchID, rec.PlayerID, err)
			}
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (r *MatchRecordRepository) GetByMatchID(ctx context.Context, matchID int64) ([]domain.MatchRecord, error) {
	records, err := r.queries.GetMatchRecordsByMatchID(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to get records of match %d: %w", matchID, err)
	}

	result := make([]domain.MatchRecord, len(records))
	for i, rec := range records {
		result[i] = toDomainRecord(rec)
	}
	return result, nil
}

func (r *MatchRecordRepository) GetWithPlayers(ctx context.Context, matchID int64) ([]domain.MatchRecordWithPlayer, error) {
	rows, err := r.queries.GetMatchRecordsWithPlayer(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to get records of match %d: %w", matchID, err)
	}

	result := make([]domain.MatchRecordWithPlayer, len(rows))
	for i, row := range rows {
		result[i] = domain.MatchRecordWithPlayer{
			MatchRecord:    toDomainRecord(row.MatchRecord),
			SteamID:        row.SteamID,
			SteamName:      row.SteamName,
			SteamAvatarURL: row.SteamAvatarUrl,
		}
	}
	return result, nil
}

func (r *MatchRecordRepository) UpdateRating(ctx context.Context, id int64, ratingAfterMatch, ratingDelta float64) error {
	n, err := r.queries.UpdateMatchRecordRating(ctx, db.UpdateMatchRecordRatingParams{
		RatingAfterMatch: ratingAfterMatch,
		RatingDelta:      ratingDelta,
		ID:               id,
	})
	if err != nil {
		return fmt.Errorf("failed to update rating of match record %d: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("match record %d disappeared during processing", id)
	}
	return nil
}

// ResetRatings zeroes rating_after_match and rating_delta on every record.
func (r *MatchRecordRepository) ResetRatings(ctx context.Context) (int64, error) {
	n, err := r.queries.ResetMatchRecordRatings(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to reset match record ratings: %w", err)
	}
	r.logger.Info().Int64("rows", n).Msg("match record ratings reset")
	return n, nil
}
