package db

import (
	"context"
)

const createMatch = `-- name: CreateMatch :one
INSERT INTO matches (server_ip, map_name, played_at, created_at)
VALUES (?, ?, ?, ?)
RETURNING id, server_ip, map_name, played_at, created_at
`

type CreateMatchParams struct {
	ServerIp  string
	MapName   string
	PlayedAt  interface{}
	CreatedAt interface{}
}

func (q *Queries) CreateMatch(ctx context.Context, arg CreateMatchParams) (Match, error) {
	row := q.db.QueryRowContext(ctx, createMatch,
		arg.ServerIp,
		arg.MapName,
		arg.PlayedAt,
		arg.CreatedAt,
	)
	var i Match
	err := row.Scan(
		&i.ID,
		&i.ServerIp,
		&i.MapName,
		&i.PlayedAt,
		&i.CreatedAt,
	)
	return i, err
}

const getMatch = `-- name: GetMatch :one
SELECT id, server_ip, map_name, played_at, created_at FROM matches WHERE id = ?
`

func (q *Queries) GetMatch(ctx context.Context, id int64) (Match, error) {
	row := q.db.QueryRowContext(ctx, getMatch, id)
	var i Match
	err := row.Scan(
		&i.ID,
		&i.ServerIp,
		&i.MapName,
		&i.PlayedAt,
		&i.CreatedAt,
	)
	return i, err
}

const listMatchesChronological = `-- name: ListMatchesChronological :many
SELECT id, server_ip, map_name, played_at, created_at FROM matches
ORDER BY played_at ASC, id ASC
`

func (q *Queries) ListMatchesChronological(ctx context.Context) ([]Match, error) {
	rows, err := q.db.QueryContext(ctx, listMatchesChronological)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Match
	for rows.Next() {
		var i Match
		if err := rows.Scan(
			&i.ID,
			&i.ServerIp,
			&i.MapName,
			&i.PlayedAt,
			&i.CreatedAt,
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

const deleteMatch = `-- name: DeleteMatch :execrows
DELETE FROM matches WHERE id = ?
`

func (q *Queries) DeleteMatch(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteMatch, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const listPlayerMatches = `-- name: ListPlayerMatches :many
SELECT m.id, m.server_ip, m.map_name, m.played_at, m.created_at,
       r.id, r.player_id, r.match_id, r.frags, r.deaths, r.average_ping, r.damage_dealt, r.damage_taken, r.team, r.rating_after_match, r.rating_delta
FROM match_records r
JOIN matches m ON m.id = r.match_id
WHERE r.player_id = ?
ORDER BY m.played_at DESC, m.id DESC
LIMIT ? OFFSET ?
`

type ListPlayerMatchesParams struct {
	PlayerID int64
	Limit    int64
	Offset   int64
}

type ListPlayerMatchesRow struct {
	Match       Match
	MatchRecord MatchRecord
}

func (q *Queries) ListPlayerMatches(ctx context.Context, arg ListPlayerMatchesParams) ([]ListPlayerMatchesRow, error) {
	rows, err := q.db.QueryContext(ctx, listPlayerMatches, arg.PlayerID, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ListPlayerMatchesRow
	for rows.Next() {
		var i ListPlayerMatchesRow
		if err := rows.Scan(
			&i.Match.ID,
			&i.Match.ServerIp,
			&i.Match.MapName,
			&i.Match.PlayedAt,
			&i.Match.CreatedAt,
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
