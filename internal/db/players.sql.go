package db

import (
	"context"
)

const createPlayer = `-- name: CreatePlayer :one
INSERT INTO players (steam_id, steam_name, steam_avatar_url, country, created_at)
VALUES (?, ?, ?, ?, ?)
RETURNING id, steam_id, steam_name, steam_avatar_url, country, created_at
`

type CreatePlayerParams struct {
	SteamID        string
	SteamName      string
	SteamAvatarUrl string
	Country        string
	CreatedAt      interface{}
}

func (q *Queries) CreatePlayer(ctx context.Context, arg CreatePlayerParams) (Player, error) {
	row := q.db.QueryRowContext(ctx, createPlayer,
		arg.SteamID,
		arg.SteamName,
		arg.SteamAvatarUrl,
		arg.Country,
		arg.CreatedAt,
	)
	var i Player
	err := row.Scan(
		&i.ID,
		&i.SteamID,
		&i.SteamName,
		&i.SteamAvatarUrl,
		&i.Country,
		&i.CreatedAt,
	)
	return i, err
}

const getPlayerByID = `-- name: GetPlayerByID :one
SELECT id, steam_id, steam_name, steam_avatar_url, country, created_at FROM players WHERE id = ?
`

func (q *Queries) GetPlayerByID(ctx context.Context, id int64) (Player, error) {
	row := q.db.QueryRowContext(ctx, getPlayerByID, id)
	var i Player
	err := row.Scan(
		&i.ID,
		&i.SteamID,
		&i.SteamName,
		&i.SteamAvatarUrl,
		&i.Country,
		&i.CreatedAt,
	)
	return i, err
}

const getPlayerBySteamID = `-- name: GetPlayerBySteamID :one
SELECT id, steam_id, steam_name, steam_avatar_url, country, created_at FROM players WHERE steam_id = ?
`

func (q *Queries) GetPlayerBySteamID(ctx context.Context, steamID string) (Player, error) {
	row := q.db.QueryRowContext(ctx, getPlayerBySteamID, steamID)
	var i Player
	err := row.Scan(
		&i.ID,
		&i.SteamID,
		&i.SteamName,
		&i.SteamAvatarUrl,
		&i.Country,
		&i.CreatedAt,
	)
	return i, err
}

const searchPlayers = `-- name: SearchPlayers :many
SELECT id, steam_id, steam_name, steam_avatar_url, country, created_at FROM players
WHERE steam_name LIKE ? OR steam_id LIKE ?
ORDER BY steam_name
LIMIT ?
`

type SearchPlayersParams struct {
	SteamName string
	SteamID   string
	Limit     int64
}

func (q *Queries) SearchPlayers(ctx context.Context, arg SearchPlayersParams) ([]Player, error) {
	rows, err := q.db.QueryContext(ctx, searchPlayers, arg.SteamName, arg.SteamID, arg.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPlayers(rows)
}

const listPlayersByCountry = `-- name: ListPlayersByCountry :many
SELECT id, steam_id, steam_name, steam_avatar_url, country, created_at FROM players
WHERE country = ?
ORDER BY id
`

func (q *Queries) ListPlayersByCountry(ctx context.Context, country string) ([]Player, error) {
	rows, err := q.db.QueryContext(ctx, listPlayersByCountry, country)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPlayers(rows)
}

const listPlayersWithoutStats = `-- name: ListPlayersWithoutStats :many
SELECT p.id, p.steam_id, p.steam_name, p.steam_avatar_url, p.country, p.created_at FROM players p
LEFT JOIN player_stats s ON s.player_id = p.id
WHERE s.player_id IS NULL
ORDER BY p.id
`

func (q *Queries) ListPlayersWithoutStats(ctx context.Context) ([]Player, error) {
	rows, err := q.db.QueryContext(ctx, listPlayersWithoutStats)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPlayers(rows)
}

const updatePlayerCountry = `-- name: UpdatePlayerCountry :exec
UPDATE players SET country = ? WHERE id = ?
`

type UpdatePlayerCountryParams struct {
	Country string
	ID      int64
}

func (q *Queries) UpdatePlayerCountry(ctx context.Context, arg UpdatePlayerCountryParams) error {
	_, err := q.db.ExecContext(ctx, updatePlayerCountry, arg.Country, arg.ID)
	return err
}

type rowScanner interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}

func scanPlayers(rows rowScanner) ([]Player, error) {
	var items []Player
	for rows.Next() {
		var i Player
		if err := rows.Scan(
			&i.ID,
			&i.SteamID,
			&i.SteamName,
			&i.SteamAvatarUrl,
			&i.Country,
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
