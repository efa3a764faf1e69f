package server

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"shion/internal/domain"
)

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("%w: id must be a positive integer", errInvalidRequest)
	}
	return id, nil
}

func queryInt(r *http.Request, key string, fallback int) (int, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", errInvalidRequest, key)
	}
	return n, nil
}

func pageParams(r *http.Request) (int, int, error) {
	page, err := queryInt(r, "page", 1)
	if err != nil {
		return 0, 0, err
	}
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		return 0, 0, err
	}
	return page, limit, nil
}

func decodeBody(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: %v", errInvalidRequest, err)
	}
	return nil
}

// clientIP prefers the first X-Forwarded-For hop over the socket address.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func (s *RatingServer) CreateMatch(w http.ResponseWriter, r *http.Request) {
	var req createMatchRequest
	if err := decodeBody(r, &req); err != nil {
		errorResponse(w, r, err)
		return
	}
	if req.ServerIP == "" || req.MapName == "" {
		errorResponse(w, r, fmt.Errorf("%w: server_ip and map_name are required", errInvalidRequest))
		return
	}

	var playedAt time.Time
	if req.PlayedAt != nil {
		playedAt = *req.PlayedAt
	}

	match, err := s.matchSvc.CreateMatch(r.Context(), req.ServerIP, req.MapName, playedAt)
	if err != nil {
		errorResponse(w, r, err)
		return
	}
	jsonResponse(w, http.StatusCreated, toMatchResponse(*match))
}

func (s *RatingServer) GetMatch(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		errorResponse(w, r, err)
		return
	}

	match, err := s.matchSvc.GetMatch(r.Context(), id)
	if err != nil {
		errorResponse(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, toMatchDetailResponse(match))
}

// ProcessMatch re-runs rating for a match whose processing failed after its records were stored.
func (s *RatingServer) ProcessMatch(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		errorResponse(w, r, err)
		return
	}

	if err := s.processor.Process(r.Context(), id); err != nil {
		errorResponse(w, r, err)
		return
	}

	match, err := s.matchSvc.GetMatch(r.Context(), id)
	if err != nil {
		errorResponse(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, toMatchDetailResponse(match))
}

func (s *RatingServer) SubmitMatchRecords(w http.ResponseWriter, r *http.Request) {
	var req []matchRecordRequest
	if err := decodeBody(r, &req); err != nil {
		errorResponse(w, r, err)
		return
	}

	submissions := make([]domain.RecordSubmission, len(req))
	for i, rec := range req {
		submissions[i] = domain.RecordSubmission{
			SteamID:     rec.SteamID,
			MatchID:     rec.MatchID,
			Frags:       rec.Frags,
			Deaths:      rec.Deaths,
			AveragePing: rec.AveragePing,
			DamageDealt: rec.DamageDealt,
			DamageTaken: rec.DamageTaken,
			Team:        rec.Team,
		}
	}

	if err := s.recordSvc.Submit(r.Context(), submissions); err != nil {
		errorResponse(w, r, err)
		return
	}

	match, err := s.matchSvc.GetMatch(r.Context(), submissions[0].MatchID)
	if err != nil {
		errorResponse(w, r, err)
		return
	}
	jsonResponse(w, http.StatusCreated, toMatchDetailResponse(match))
}

func (s *RatingServer) CreatePlayer(w http.ResponseWriter, r *http.Request) {
	var req createPlayerRequest
	if err := decodeBody(r, &req); err != nil {
		errorResponse(w, r, err)
		return
	}

	player, err := s.playerSvc.CreatePlayer(r.Context(), req.SteamID, clientIP(r))
	if err != nil {
		errorResponse(w, r, err)
		return
	}
	jsonResponse(w, http.StatusCreated, toPlayerResponse(*player))
}

func (s *RatingServer) GetPlayer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		errorResponse(w, r, err)
		return
	}

	player, err := s.playerSvc.GetPlayer(r.Context(), id)
	if err != nil {
		errorResponse(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, toPlayerResponse(*player))
}

func (s *RatingServer) SearchPlayers(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		jsonResponse(w, http.StatusOK, []playerResponse{})
		return
	}

	players, err := s.playerSvc.SearchPlayers(r.Context(), query)
	if err != nil {
		errorResponse(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, toPlayerResponses(players))
}

func (s *RatingServer) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	page, limit, err := pageParams(r)
	if err != nil {
		errorResponse(w, r, err)
		return
	}

	players, err := s.playerSvc.GetLeaderboard(r.Context(), page, limit)
	if err != nil {
		errorResponse(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, toPlayerResponses(players))
}

func (s *RatingServer) GetPlayerMatches(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		errorResponse(w, r, err)
		return
	}
	page, limit, err := pageParams(r)
	if err != nil {
		errorResponse(w, r, err)
		return
	}

	matches, err := s.playerSvc.GetPlayerMatches(r.Context(), id, page, limit)
	if err != nil {
		errorResponse(w, r, err)
		return
	}

	resp := make([]playerMatchResponse, len(matches))
	for i, m := range matches {
		resp[i] = playerMatchResponse{
			Match:  toMatchResponse(m.Match),
			Record: toRecordResponse(m.Record),
		}
	}
	jsonResponse(w, http.StatusOK, resp)
}

func (s *RatingServer) GetRatingHistory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		errorResponse(w, r, err)
		return
	}

	history, err := s.playerSvc.GetRatingHistory(r.Context(), id)
	if err != nil {
		errorResponse(w, r, err)
		return
	}

	resp := make([]ratingCaptureResponse, len(history))
	for i, h := range history {
		resp[i] = ratingCaptureResponse{
			MatchID:     h.MatchID,
			Rating:      h.Rating,
			Uncertainty: h.Uncertainty,
			CapturedAt:  h.CapturedAt,
		}
	}
	jsonResponse(w, http.StatusOK, resp)
}
