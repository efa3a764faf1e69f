package domain

import (
	"time"
)

const (
	TeamBlue = "blue"
	TeamRed  = "red"
)

const UnknownCountry = "xx"

type Player struct {
	ID             int64
	SteamID        string // STEAM_X:Y:Z
	SteamName      string
	SteamAvatarURL string
	Country        string // lowercase ISO-2, "xx" when unknown
	CreatedAt      time.Time
	Stats          PlayerStats
}

type PlayerStats struct {
	PlayerID    int64
	Rating      float64 // skill mean
	Uncertainty float64 // skill standard deviation
	Wins        int64
	Losses      int64
	TotalFrags  int64
	TotalDeaths int64
	UpdatedAt   time.Time
}

type Match struct {
	ID        int64
	ServerIP  string
	MapName   string
	PlayedAt  time.Time
	CreatedAt time.Time
}

type MatchRecord struct {
	ID               int64
	PlayerID         int64
	MatchID          int64
	Frags            int16
	Deaths           int16
	AveragePing      uint16
	DamageDealt      uint16
	DamageTaken      uint16
	Team             string // "blue" or "red"
	RatingAfterMatch float64
	RatingDelta      float64
}

// enriched with the player's public profile
type MatchRecordWithPlayer struct {
	MatchRecord
	SteamID        string
	SteamName      string
	SteamAvatarURL string
}

type MatchWithRecords struct {
	Match   Match
	Records []MatchRecordWithPlayer
}

// RecordSubmission is one player's line of a finished match as reported by a game server.
type RecordSubmission struct {
	SteamID     string
	MatchID     int64
	Frags       int16
	Deaths      int16
	AveragePing uint16
	DamageDealt uint16
	DamageTaken uint16
	Team        string
}

type RatingCapture struct {
	ID          string // nanoid
	PlayerID    int64
	MatchID     int64
	Rating      float64
	Uncertainty float64
	CapturedAt  time.Time
}

// PlayerMatch is one entry of a player's match list.
type PlayerMatch struct {
	Match  Match
	Record MatchRecord
}
