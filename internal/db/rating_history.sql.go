package db

import (
	"context"
)

const insertRatingHistory = `-- name: InsertRatingHistory :exec
INSERT INTO rating_history (id, player_id, match_id, rating, uncertainty, captured_at)
VALUES (?, ?, ?, ?, ?, ?)
`

type InsertRatingHistoryParams struct {
	ID          string
	PlayerID    int64
	MatchID     int64
	Rating      float64
	Uncertainty float64
	CapturedAt  interface{}
}

func (q *Queries) InsertRatingHistory(ctx context.Context, arg InsertRatingHistoryParams) error {
	_, err := q.db.ExecContext(ctx, insertRatingHistory,
		arg.ID,
		arg.PlayerID,
		arg.MatchID,
		arg.Rating,
		arg.Uncertainty,
		arg.CapturedAt,
	)
	return err
}

const getRatingHistoryByPlayer = `-- name: GetRatingHistoryByPlayer :many
SELECT h.id, h.player_id, h.match_id, h.rating, h.uncertainty, h.captured_at
FROM rating_history h
JOIN matches m ON m.id = h.match_id
WHERE h.player_id = ?
ORDER BY h.captured_at ASC, m.id ASC
`

func (q *Queries) GetRatingHistoryByPlayer(ctx context.Context, playerID int64) ([]RatingHistory, error) {
	rows, err := q.db.QueryContext(ctx, getRatingHistoryByPlayer, playerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []RatingHistory
	for rows.Next() {
		var i RatingHistory
		if err := rows.Scan(
			&i.ID,
			&i.PlayerID,
			&i.MatchID,
			&i.Rating,
			&i.Uncertainty,
			&i.CapturedAt,
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

const deleteAllRatingHistory = `-- name: DeleteAllRatingHistory :execrows
DELETE FROM rating_history
`

func (q *Queries) DeleteAllRatingHistory(ctx context.Context) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteAllRatingHistory)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
