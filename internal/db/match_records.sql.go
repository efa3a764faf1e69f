package db

import (
	"context"
)

const createMatchRecord = `-- name: CreateMatchRecord :one
INSERT INTO match_records (player_id, match_id, frags, deaths, average_ping, damage_dealt, damage_taken, team, rating_after_match, rating_delta)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, 0, 0)
RETURNING id
`

type CreateMatchRecordParams struct {
	PlayerID    int64
	MatchID     int64
	Frags       int64
	Deaths      int64
	AveragePing int64
	DamageDealt int64
	DamageTaken int64
	Team        string
}

func (q *Queries) CreateMatchRecord(ctx context.Context, arg CreateMatchRecordParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, createMatchRecord,
		arg.PlayerID,
		arg.MatchID,
		arg.Frags,
		arg.Deaths,
		arg.AveragePing,
		arg.DamageDealt,
		arg.DamageTaken,
		arg.Team,
	)
	var id int64
	err := row.Scan(&id)
	return id, err
}

const getMatchRecordsByMatchID = `-- name: GetMatchRecordsByMatchID :many
SELECT id, player_id, match_id, frags, deaths, average_ping, damage_dealt, damage_taken, team, rating_after_match, rating_delta
FROM match_records
WHERE match_id = ?
ORDER BY id
`

func (q *Queries) GetMatchRecordsByMatchID(ctx context.Context, matchID int64) ([]MatchRecord, error) {
	rows, err := q.db.QueryContext(ctx, getMatchRecordsByMatchID, matchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []MatchRecord
	for rows.Next() {
		var i MatchRecord
		if err := rows.Scan(
			&i.ID,
			&i.PlayerID,
			&i.MatchID,
			&i.Frags,
			&i.Deaths,
			&i.AveragePing,
			&i.DamageDealt,
			&i.DamageTaken,
			&i.Team,
			&i.RatingAfterMatch,
			&i.RatingDelta,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getMatchRecordsWithPlayer = `-- name: GetMatchRecordsWithPlayer :many
SELECT r.id, r.player_id, r.match_id, r.frags, r.deaths, r.average_ping, r.damage_dealt, r.damage_taken, r.team, r.rating_after_match, r.rating_delta,
       p.steam_id, p.steam_name, p.steam_avatar_url
FROM match_records r
JOIN players p ON p.id = r.player_id
WHERE r.match_id = ?
ORDER BY r.team, r.frags DESC, r.id
`

type GetMatchRecordsWithPlayerRow struct {
	MatchRecord    MatchRecord
	SteamID        string
	SteamName      string
	SteamAvatarUrl string
}

func (q *Queries) GetMatchRecordsWithPlayer(ctx context.Context, matchID int64) ([]GetMatchRecordsWithPlayerRow, error) {
	rows, err := q.db.QueryContext(ctx, getMatchRecordsWithPlayer, matchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []GetMatchRecordsWithPlayerRow
	for rows.Next() {
		var i GetMatchRecordsWithPlayerRow
		if err := rows.Scan(
			&i.MatchRecord.ID,
			&i.MatchRecord.PlayerID,
			&i.MatchRecord.MatchID,
			&i.MatchRecord.Frags,
			&i.MatchRecord.Deaths,
			&i.MatchRecord.AveragePing,
			&i.MatchRecord.DamageDealt,
			&i.MatchRecord.DamageTaken,
			&i.MatchRecord.Team,
			&i.MatchRecord.RatingAfterMatch,
			&i.MatchRecord.RatingDelta,
			&i.SteamID,
			&i.SteamName,
			&i.SteamAvatarUrl,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const updateMatchRecordRating = `-- name: UpdateMatchRecordRating :execrows
UPDATE match_records SET rating_after_match = ?, rating_delta = ? WHERE id = ?
`

type UpdateMatchRecordRatingParams struct {
	RatingAfterMatch float64
	RatingDelta      float64
	ID               int64
}

func (q *Queries) UpdateMatchRecordRating(ctx context.Context, arg UpdateMatchRecordRatingParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateMatchRecordRating, arg.RatingAfterMatch, arg.RatingDelta, arg.ID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const resetMatchRecordRatings = `-- name: ResetMatchRecordRatings :execrows
UPDATE match_records SET rating_after_match = 0, rating_delta = 0
WHERE rating_after_match != 0 OR rating_delta != 0
`

func (q *Queries) ResetMatchRecordRatings(ctx context.Context) (int64, error) {
	result, err := q.db.ExecContext(ctx, resetMatchRecordRatings)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
