package db

import (
	"time"
)

type Player struct {
	ID             int64
	SteamID        string
	SteamName      string
	SteamAvatarUrl string
	Country        string
	CreatedAt      time.Time
}

type PlayerStat struct {
	PlayerID    int64
	Rating      float64
	Uncertainty float64
	Wins        int64
	Losses      int64
	TotalFrags  int64
	TotalDeaths int64
	UpdatedAt   time.Time
}

type Match struct {
	ID        int64
	ServerIp  string
	MapName   string
	PlayedAt  time.Time
	CreatedAt time.Time
}

type MatchRecord struct {
	ID               int64
	PlayerID         int64
	MatchID          int64
	Frags            int64
	Deaths           int64
	AveragePing      int64
	DamageDealt      int64
	DamageTaken      int64
	Team             string
	RatingAfterMatch float64
	RatingDelta      float64
}

type RatingHistory struct {
	ID          string
	PlayerID    int64
	MatchID     int64
	Rating      float64
	Uncertainty float64
	CapturedAt  time.Time
}
