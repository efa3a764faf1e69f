package service

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"shion/internal/config"
	"shion/internal/database"
	"shion/internal/db"
	"shion/internal/domain"
	"shion/internal/rating"
	"shion/internal/repository"

	"github.com/rs/zerolog"
)

type testEnv struct {
	db          *sql.DB
	store       *repository.Store
	processor   *MatchProcessor
	reprocessor *Reprocessor
	records     *MatchRecordService
	matches     *MatchService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	sqlDB, err := database.Open(filepath.Join(t.TempDir(), "test.db"), zerolog.Nop())
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	logger := zerolog.Nop()
	queries := db.New(sqlDB)
	store := repository.NewStore(
		sqlDB,
		repository.NewPlayerRepository(sqlDB, queries, logger),
		repository.NewStatsRepository(sqlDB, queries, logger),
		repository.NewMatchRepository(sqlDB, queries, logger),
		repository.NewMatchRecordRepository(sqlDB, queries, logger),
		repository.NewRatingHistoryRepository(sqlDB, queries, logger),
		logger,
	)

	engine := rating.DefaultConfig()
	processor := NewMatchProcessor(store, engine, logger)
	return &testEnv{
		db:          sqlDB,
		store:       store,
		processor:   processor,
		reprocessor: NewReprocessor(store, processor, engine, logger),
		records:     NewMatchRecordService(store, processor, logger),
		matches:     NewMatchService(store, logger),
	}
}

// externalAPIs points every external client at one fake server.
func externalAPIs(t *testing.T, handler http.HandlerFunc) *config.Config {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return &config.Config{
		SteamAPIKey: "test",
		SteamAPIURL: srv.URL,
		IPAPIURL:    srv.URL,
		AGDBAPIURL:  srv.URL,
	}
}

func (e *testEnv) player(t *testing.T, steamID string) *domain.Player {
	t.Helper()
	p, err := e.store.Players.CreateWithStats(context.Background(), &domain.Player{SteamID: steamID}, rating.DefaultConfig().Initial())
	if err != nil {
		t.Fatalf("create player %s: %v", steamID, err)
	}
	return p
}

func (e *testEnv) match(t *testing.T, playedAt time.Time) *domain.Match {
	t.Helper()
	m, err := e.matches.CreateMatch(context.Background(), "127.0.0.1:27015", "stalkyard", playedAt)
	if err != nil {
		t.Fatalf("create match: %v", err)
	}
	return m
}

type line struct {
	player *domain.Player
	team   string
	frags  int16
	deaths int16
}

// storeRecords writes records directly, skipping ingestion validation.
func (e *testEnv) storeRecords(t *testing.T, matchID int64, lines ...line) {
	t.Helper()
	for _, l := range lines {
		_, err := e.store.Records.Create(context.Background(), domain.MatchRecord{
			PlayerID: l.player.ID,
			MatchID:  matchID,
			Frags:    l.frags,
			Deaths:   l.deaths,
			Team:     l.team,
		})
		if err != nil {
			t.Fatalf("store record: %v", err)
		}
	}
}

func (e *testEnv) stats(t *testing.T, playerID int64) domain.PlayerStats {
	t.Helper()
	s, err := e.store.Stats.Get(context.Background(), playerID)
	if err != nil {
		t.Fatalf("get stats: %v", err)
	}
	if s == nil {
		t.Fatalf("player %d has no stats", playerID)
	}
	return *s
}

func (e *testEnv) allStats(t *testing.T, players ...*domain.Player) map[int64]domain.PlayerStats {
	t.Helper()
	out := make(map[int64]domain.PlayerStats, len(players))
	for _, p := range players {
		s := e.stats(t, p.ID)
		s.UpdatedAt = time.Time{}
		out[p.ID] = s
	}
	return out
}
