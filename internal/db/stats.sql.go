package db

import (
	"context"
)

const getStatsByPlayerID = `-- name: GetStatsByPlayerID :one
SELECT player_id, rating, uncertainty, wins, losses, total_frags, total_deaths, updated_at
FROM player_stats WHERE player_id = ?
`

func (q *Queries) GetStatsByPlayerID(ctx context.Context, playerID int64) (PlayerStat, error) {
	row := q.db.QueryRowContext(ctx, getStatsByPlayerID, playerID)
	var i PlayerStat
	err := row.Scan(
		&i.PlayerID,
		&i.Rating,
		&i.Uncertainty,
		&i.Wins,
		&i.Losses,
		&i.TotalFrags,
		&i.TotalDeaths,
		&i.UpdatedAt,
	)
	return i, err
}

// Counters are increments: a new row starts at them, an existing row adds them.
const upsertStats = `-- name: UpsertStats :exec
INSERT INTO player_stats (player_id, rating, uncertainty, wins, losses, total_frags, total_deaths, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (player_id) DO UPDATE SET
    rating = excluded.rating,
    uncertainty = excluded.uncertainty,
    wins = player_stats.wins + excluded.wins,
    losses = player_stats.losses + excluded.losses,
    total_frags = player_stats.total_frags + excluded.total_frags,
    total_deaths = player_stats.total_deaths + excluded.total_deaths,
    updated_at = excluded.updated_at
`

type UpsertStatsParams struct {
	PlayerID    int64
	Rating      float64
	Uncertainty float64
	Wins        int64
	Losses      int64
	TotalFrags  int64
	TotalDeaths int64
	UpdatedAt   interface{}
}

func (q *Queries) UpsertStats(ctx context.Context, arg UpsertStatsParams) error {
	_, err := q.db.ExecContext(ctx, upsertStats,
		arg.PlayerID,
		arg.Rating,
		arg.Uncertainty,
		arg.Wins,
		arg.Losses,
		arg.TotalFrags,
		arg.TotalDeaths,
		arg.UpdatedAt,
	)
	return err
}

const createDefaultStats = `-- name: CreateDefaultStats :exec
INSERT INTO player_stats (player_id, rating, uncertainty, wins, losses, total_frags, total_deaths, updated_at)
VALUES (?, ?, ?, 0, 0, 0, 0, ?)
ON CONFLICT (player_id) DO NOTHING
`

type CreateDefaultStatsParams struct {
	PlayerID    int64
	Rating      float64
	Uncertainty float64
	UpdatedAt   interface{}
}

func (q *Queries) CreateDefaultStats(ctx context.Context, arg CreateDefaultStatsParams) error {
	_, err := q.db.ExecContext(ctx, createDefaultStats, arg.PlayerID, arg.Rating, arg.Uncertainty, arg.UpdatedAt)
	return err
}

const resetAllStats = `-- name: ResetAllStats :execrows
UPDATE player_stats
SET rating = ?, uncertainty = ?, wins = 0, losses = 0, total_frags = 0, total_deaths = 0, updated_at = ?
`

type ResetAllStatsParams struct {
	Rating      float64
	Uncertainty float64
	UpdatedAt   interface{}
}

func (q *Queries) ResetAllStats(ctx context.Context, arg ResetAllStatsParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, resetAllStats, arg.Rating, arg.Uncertainty, arg.UpdatedAt)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const getLeaderboard = `-- name: GetLeaderboard :many
SELECT p.id, p.steam_id, p.steam_name, p.steam_avatar_url, p.country, p.created_at,
       s.player_id, s.rating, s.uncertainty, s.wins, s.losses, s.total_frags, s.total_deaths, s.updated_at
FROM player_stats s
JOIN players p ON p.id = s.player_id
ORDER BY s.rating DESC, p.id ASC
LIMIT ? OFFSET ?
`

type GetLeaderboardParams struct {
	Limit  int64
	Offset int64
}

type GetLeaderboardRow struct {
	Player     Player
	PlayerStat PlayerStat
}

func (q *Queries) GetLeaderboard(ctx context.Context, arg GetLeaderboardParams) ([]GetLeaderboardRow, error) {
	rows, err := q.db.QueryContext(ctx, getLeaderboard, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []GetLeaderboardRow
	for rows.Next() {
		var i GetLeaderboardRow
		if err := rows.Scan(
			&i.Player.ID,
			&i.Player.SteamID,
			&i.Player.SteamName,
			&i.Player.SteamAvatarUrl,
			&i.Player.Country,
			&i.Player.CreatedAt,
			&i.PlayerStat.PlayerID,
			&i.PlayerStat.Rating,
			&i.PlayerStat.Uncertainty,
			&i.PlayerStat.Wins,
			&i.PlayerStat.Losses,
			&i.PlayerStat.TotalFrags,
			&i.PlayerStat.TotalDeaths,
			&i.PlayerStat.UpdatedAt,
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
