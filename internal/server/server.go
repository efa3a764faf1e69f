package server

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"shion/internal/middleware"
	"shion/internal/service"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

type RatingServer struct {
	playerSvc *service.PlayerService
	matchSvc  *service.MatchService
	recordSvc *service.MatchRecordService
	processor *service.MatchProcessor
	db        *sql.DB
	logger    zerolog.Logger
}

func NewRatingServer(
	playerSvc *service.PlayerService,
	matchSvc *service.MatchService,
	recordSvc *service.MatchRecordService,
	processor *service.MatchProcessor,
	db *sql.DB,
	logger zerolog.Logger,
) *RatingServer {
	return &RatingServer{
		playerSvc: playerSvc,
		matchSvc:  matchSvc,
		recordSvc: recordSvc,
		processor: processor,
		db:        db,
		logger:    logger,
	}
}

// Handler returns the full HTTP surface with CORS and request ids applied.
func (s *RatingServer) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /matches", s.CreateMatch)
	mux.HandleFunc("GET /matches/{id}", s.GetMatch)
	mux.HandleFunc("POST /matches/{id}/process", s.ProcessMatch)
	mux.HandleFunc("POST /match-records", s.SubmitMatchRecords)

	mux.HandleFunc("POST /players", s.CreatePlayer)
	mux.HandleFunc("GET /players/search", s.SearchPlayers)
	mux.HandleFunc("GET /players/leaderboard", s.GetLeaderboard)
	mux.HandleFunc("GET /players/{id}", s.GetPlayer)
	mux.HandleFunc("GET /players/{id}/matches", s.GetPlayerMatches)
	mux.HandleFunc("GET /players/{id}/rating-history", s.GetRatingHistory)

	mux.HandleFunc("GET /healthz", s.Health)
	mux.Handle("GET /metrics", promhttp.Handler())

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	return middleware.RequestID(s.logger)(c.Handler(mux))
}

func (s *RatingServer) Health(w http.ResponseWriter, r *http.Request) {
	if err := s.db.PingContext(r.Context()); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("database ping failed")
		jsonResponse(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":    "unavailable",
			"timestamp": time.Now().UTC(),
		})
		return
	}
	jsonResponse(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().UTC(),
	})
}

func jsonResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
