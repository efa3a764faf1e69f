package server

import (
	"time"

	"shion/internal/domain"
)

type createMatchRequest struct {
	ServerIP string     `json:"server_ip"`
	MapName  string     `json:"map_name"`
	PlayedAt *time.Time `json:"played_at,omitempty"`
}

type matchRecordRequest struct {
	SteamID     string `json:"steam_id"`
	MatchID     int64  `json:"match_id"`
	Frags       int16  `json:"frags"`
	Deaths      int16  `json:"deaths"`
	AveragePing uint16 `json:"average_ping"`
	DamageDealt uint16 `json:"damage_dealt"`
	DamageTaken uint16 `json:"damage_taken"`
	Team        string `json:"team"`
}

type createPlayerRequest struct {
	SteamID string `json:"steam_id"`
}

type statsResponse struct {
	Rating      float64 `json:"rating"`
	Uncertainty float64 `json:"uncertainty"`
	Wins        int64   `json:"wins"`
	Losses      int64   `json:"losses"`
	TotalFrags  int64   `json:"total_frags"`
	TotalDeaths int64   `json:"total_deaths"`
}

type playerResponse struct {
	ID             int64         `json:"id"`
	SteamID        string        `json:"steam_id"`
	SteamName      string        `json:"steam_name"`
	SteamAvatarURL string        `json:"steam_avatar_url"`
	Country        string        `json:"country"`
	CreatedAt      time.Time     `json:"created_at"`
	Stats          statsResponse `json:"stats"`
}

type matchRecordResponse struct {
	ID               int64   `json:"id"`
	PlayerID         int64   `json:"player_id"`
	MatchID          int64   `json:"match_id"`
	SteamID          string  `json:"steam_id,omitempty"`
	SteamName        string  `json:"steam_name,omitempty"`
	SteamAvatarURL   string  `json:"steam_avatar_url,omitempty"`
	Frags            int16   `json:"frags"`
	Deaths           int16   `json:"deaths"`
	AveragePing      uint16  `json:"average_ping"`
	DamageDealt      uint16  `json:"damage_dealt"`
	DamageTaken      uint16  `json:"damage_taken"`
	Team             string  `json:"team"`
	RatingAfterMatch float64 `json:"rating_after_match"`
	RatingDelta      float64 `json:"rating_delta"`
}

type matchResponse struct {
	ID        int64                 `json:"id"`
	ServerIP  string                `json:"server_ip"`
	MapName   string                `json:"map_name"`
	PlayedAt  time.Time             `json:"played_at"`
	CreatedAt time.Time             `json:"created_at"`
	Records   []matchRecordResponse `json:"records,omitempty"`
}

type playerMatchResponse struct {
	Match  matchResponse       `json:"match"`
	Record matchRecordResponse `json:"record"`
}

type ratingCaptureResponse struct {
	MatchID     int64     `json:"match_id"`
	Rating      float64   `json:"rating"`
	Uncertainty float64   `json:"uncertainty"`
	CapturedAt  time.Time `json:"captured_at"`
}

func toPlayerResponse(p domain.Player) playerResponse {
	return playerResponse{
		ID:             p.ID,
		SteamID:        p.SteamID,
		SteamName:      p.SteamName,
		SteamAvatarURL: p.SteamAvatarURL,
		Country:        p.Country,
		CreatedAt:      p.CreatedAt,
		Stats: statsResponse{
			Rating:      p.Stats.Rating,
			Uncertainty: p.Stats.Uncertainty,
			Wins:        p.Stats.Wins,
			Losses:      p.Stats.Losses,
			TotalFrags:  p.Stats.TotalFrags,
			TotalDeaths: p.Stats.TotalDeaths,
		},
	}
}

func toPlayerResponses(players []domain.Player) []playerResponse {
	out := make([]playerResponse, len(players))
	for i, p := range players {
		out[i] = toPlayerResponse(p)
	}
	return out
}

func toRecordResponse(r domain.MatchRecord) matchRecordResponse {
	return matchRecordResponse{
		ID:               r.ID,
		PlayerID:         r.PlayerID,
		MatchID:          r.MatchID,
		Frags:            r.Frags,
		Deaths:           r.Deaths,
		AveragePing:      r.AveragePing,
		DamageDealt:      r.DamageDealt,
		DamageTaken:      r.DamageTaken,
		Team:             r.Team,
		RatingAfterMatch: r.RatingAfterMatch,
		RatingDelta:      r.RatingDelta,
	}
}

func toMatchResponse(m domain.Match) matchResponse {
	return matchResponse{
		ID:        m.ID,
		ServerIP:  m.ServerIP,
		MapName:   m.MapName,
		PlayedAt:  m.PlayedAt,
		CreatedAt: m.CreatedAt,
	}
}

func toMatchDetailResponse(m *domain.MatchWithRecords) matchResponse {
	resp := toMatchResponse(m.Match)
	resp.Records = make([]matchRecordResponse, len(m.Records))
	for i, r := range m.Records {
		rec := toRecordResponse(r.MatchRecord)
		rec.SteamID = r.SteamID
		rec.SteamName = r.SteamName
		rec.SteamAvatarURL = r.SteamAvatarURL
		resp.Records[i] = rec
	}
	return resp
}
