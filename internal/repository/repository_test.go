package repository

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"testing"
	"time"

	"shion/internal/database"
	"shion/internal/db"
	"shion/internal/domain"
	"shion/internal/rating"

	"github.com/rs/zerolog"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	sqlDB, err := database.Open(filepath.Join(t.TempDir(), "test.db"), zerolog.Nop())
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	queries := db.New(sqlDB)
	logger := zerolog.Nop()
	return NewStore(
		sqlDB,
		NewPlayerRepository(sqlDB, queries, logger),
		NewStatsRepository(sqlDB, queries, logger),
		NewMatchRepository(sqlDB, queries, logger),
		NewMatchRecordRepository(sqlDB, queries, logger),
		NewRatingHistoryRepository(sqlDB, queries, logger),
		logger,
	)
}

func createPlayer(t *testing.T, s *Store, steamID string) *domain.Player {
	t.Helper()
	p, err := s.Players.CreateWithStats(context.Background(), &domain.Player{
		SteamID:   steamID,
		SteamName: "name-" + steamID,
	}, rating.DefaultConfig().Initial())
	if err != nil {
		t.Fatalf("CreateWithStats(%s): %v", steamID, err)
	}
	return p
}

func createMatch(t *testing.T, s *Store, playedAt time.Time) *domain.Match {
	t.Helper()
	m, err := s.Matches.Create(context.Background(), &domain.Match{
		ServerIP: "127.0.0.1:27015",
		MapName:  "crossfire",
		PlayedAt: playedAt,
	})
	if err != nil {
		t.Fatalf("Create match: %v", err)
	}
	return m
}

func TestPlayerCreateWithStatsAndLookup(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	created := createPlayer(t, s, "STEAM_0:1:123")
	if created.ID == 0 {
		t.Fatal("expected an assigned player id")
	}
	if created.Country != domain.UnknownCountry {
		t.Errorf("expected default country %q, got %q", domain.UnknownCountry, created.Country)
	}

	bySteam, err := s.Players.GetBySteamID(ctx, "STEAM_0:1:123")
	if err != nil {
		t.Fatalf("GetBySteamID: %v", err)
	}
	if bySteam.ID != created.ID {
		t.Errorf("expected id %d, got %d", created.ID, bySteam.ID)
	}

	stats, err := s.Stats.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Stats.Get: %v", err)
	}
	if stats == nil {
		t.Fatal("expected stats row to be created with the player")
	}
	if stats.Rating != rating.InitialMu || stats.Uncertainty != rating.InitialSigma {
		t.Errorf("unexpected default stats %+v", stats)
	}

	if _, err := s.Players.GetByID(ctx, created.ID+100); !errors.Is(err, domain.ErrPlayerNotFound) {
		t.Errorf("expected ErrPlayerNotFound, got %v", err)
	}
}

func TestPlayerSearchAndCountry(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	a := createPlayer(t, s, "STEAM_0:0:1")
	createPlayer(t, s, "STEAM_0:0:2")

	found, err := s.Players.Search(ctx, "0:0:1", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(found) != 1 || found[0].ID != a.ID {
		t.Fatalf("expected only player %d, got %+v", a.ID, found)
	}

	if err := s.Players.UpdateCountry(ctx, a.ID, "ar"); err != nil {
		t.Fatalf("UpdateCountry: %v", err)
	}
	unknown, err := s.Players.ListByCountry(ctx, domain.UnknownCountry)
	if err != nil {
		t.Fatalf("ListByCountry: %v", err)
	}
	if len(unknown) != 1 {
		t.Errorf("expected 1 player with unknown country, got %d", len(unknown))
	}
}

func TestStatsGetMissingReturnsNil(t *testing.T) {
	s := openTestStore(t)

	stats, err := s.Stats.Get(context.Background(), 42)
	if err != nil {
		t.Fatalf("Stats.Get: %v", err)
	}
	if stats != nil {
		t.Errorf("expected nil stats, got %+v", stats)
	}
}

func TestStatsApplyIsAdditive(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	p := createPlayer(t, s, "STEAM_0:1:7")

	incs := []StatsIncrement{
		{PlayerID: p.ID, Rating: 1010, Uncertainty: 300, Wins: 1, Frags: 20, Deaths: 5, UpdatedAt: time.Now()},
		{PlayerID: p.ID, Rating: 995, Uncertainty: 280, Losses: 1, Frags: 3, Deaths: 11, UpdatedAt: time.Now()},
	}
	for _, inc := range incs {
		if err := s.Stats.Apply(ctx, inc); err != nil {
			t.Fatalf("Apply: %v", err)
		}
	}

	stats, err := s.Stats.Get(ctx, p.ID)
	if err != nil {
		t.Fatalf("Stats.Get: %v", err)
	}
	if stats.Rating != 995 || stats.Uncertainty != 280 {
		t.Errorf("expected rating to be replaced, got %v/%v", stats.Rating, stats.Uncertainty)
	}
	if stats.Wins != 1 || stats.Losses != 1 || stats.TotalFrags != 23 || stats.TotalDeaths != 16 {
		t.Errorf("unexpected counters %+v", stats)
	}

	if _, err := s.Stats.ResetAll(ctx, rating.DefaultConfig().Initial()); err != nil {
		t.Fatalf("ResetAll: %v", err)
	}
	stats, _ = s.Stats.Get(ctx, p.ID)
	if stats.Wins != 0 || stats.TotalFrags != 0 || stats.Rating != rating.InitialMu {
		t.Errorf("expected defaults after reset, got %+v", stats)
	}
}

func TestStatsCountersBeyondInt32(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	p := createPlayer(t, s, "STEAM_0:1:8")

	big := int64(math.MaxInt32) + 10
	err := s.Stats.Apply(ctx, StatsIncrement{PlayerID: p.ID, Rating: 1000, Uncertainty: 300, Wins: big, Frags: big, Deaths: big, UpdatedAt: time.Now()})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}

	stats, err := s.Stats.Get(ctx, p.ID)
	if err != nil {
		t.Fatalf("Stats.Get: %v", err)
	}
	if stats.Wins != big || stats.TotalFrags != big || stats.TotalDeaths != big {
		t.Errorf("counters truncated: %+v", stats)
	}
}

func TestLeaderboardOrder(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	low := createPlayer(t, s, "STEAM_0:0:10")
	high := createPlayer(t, s, "STEAM_0:0:11")
	s.Stats.Apply(ctx, StatsIncrement{PlayerID: low.ID, Rating: 900, Uncertainty: 300, UpdatedAt: time.Now()})
	s.Stats.Apply(ctx, StatsIncrement{PlayerID: high.ID, Rating: 1100, Uncertainty: 300, UpdatedAt: time.Now()})

	board, err := s.Stats.Leaderboard(ctx, 10, 0)
	if err != nil {
		t.Fatalf("Leaderboard: %v", err)
	}
	if len(board) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(board))
	}
	if board[0].ID != high.ID || board[0].Stats.Rating != 1100 {
		t.Errorf("expected player %d first, got %+v", high.ID, board[0])
	}

	page2, err := s.Stats.Leaderboard(ctx, 1, 1)
	if err != nil {
		t.Fatalf("Leaderboard: %v", err)
	}
	if len(page2) != 1 || page2[0].ID != low.ID {
		t.Errorf("expected player %d on second page, got %+v", low.ID, page2)
	}
}

func TestMatchListChronological(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	late := createMatch(t, s, base.Add(2*time.Hour))
	early := createMatch(t, s, base)
	tiedA := createMatch(t, s, base.Add(time.Hour))
	tiedB := createMatch(t, s, base.Add(time.Hour))

	matches, err := s.Matches.ListChronological(ctx)
	if err != nil {
		t.Fatalf("ListChronological: %v", err)
	}

	want := []int64{early.ID, tiedA.ID, tiedB.ID, late.ID}
	if len(matches) != len(want) {
		t.Fatalf("expected %d matches, got %d", len(want), len(matches))
	}
	for i, id := range want {
		if matches[i].ID != id {
			t.Errorf("position %d: expected match %d, got %d", i, id, matches[i].ID)
		}
	}
	if !matches[0].PlayedAt.Equal(base) {
		t.Errorf("expected played_at %v, got %v", base, matches[0].PlayedAt)
	}
}

func TestMatchGetNotFound(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.Matches.Get(context.Background(), 99); !errors.Is(err, domain.ErrMatchNotFound) {
		t.Errorf("expected ErrMatchNotFound, got %v", err)
	}
}

func TestCreateBatchIsAllOrNothing(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	p1 := createPlayer(t, s, "STEAM_0:0:20")
	p2 := createPlayer(t, s, "STEAM_0:0:21")
	m := createMatch(t, s, time.Time{})

	_, err := s.Records.CreateBatch(ctx, []domain.MatchRecord{
		{PlayerID: p1.ID, MatchID: m.ID, Frags: 10, Team: domain.TeamBlue},
		{PlayerID: p2.ID, MatchID: m.ID, Frags: 10, Team: "green"},
	})
	if err == nil {
		t.Fatal("expected the team check constraint to reject the batch")
	}

	records, err := s.Records.GetByMatchID(ctx, m.ID)
	if err != nil {
		t.Fatalf("GetByMatchID: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("expected no records after failed batch, got %d", len(records))
	}
}

func TestRecordsWithPlayersAndPlayerMatches(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	p1 := createPlayer(t, s, "STEAM_0:0:30")
	p2 := createPlayer(t, s, "STEAM_0:0:31")
	m := createMatch(t, s, time.Time{})

	ids, err := s.Records.CreateBatch(ctx, []domain.MatchRecord{
		{PlayerID: p1.ID, MatchID: m.ID, Frags: 12, Deaths: 3, AveragePing: 40, DamageDealt: 1500, DamageTaken: 400, Team: domain.TeamBlue},
		{PlayerID: p2.ID, MatchID: m.ID, Frags: 3, Deaths: 12, AveragePing: 65535, DamageDealt: 400, DamageTaken: 1500, Team: domain.TeamRed},
	})
	if err != nil {
		t.Fatalf("CreateBatch: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("expected 2 ids, got %d", len(ids))
	}

	if err := s.Records.UpdateRating(ctx, ids[0], 1012.5, 12.5); err != nil {
		t.Fatalf("UpdateRating: %v", err)
	}

	withPlayers, err := s.Records.GetWithPlayers(ctx, m.ID)
	if err != nil {
		t.Fatalf("GetWithPlayers: %v", err)
	}
	if len(withPlayers) != 2 {
		t.Fatalf("expected 2 records, got %d", len(withPlayers))
	}
	if withPlayers[0].SteamID != p1.SteamID || withPlayers[0].RatingDelta != 12.5 {
		t.Errorf("unexpected first record %+v", withPlayers[0])
	}
	if withPlayers[1].AveragePing != 65535 {
		t.Errorf("expected ping to round trip, got %d", withPlayers[1].AveragePing)
	}

	list, err := s.Matches.ListByPlayer(ctx, p2.ID, 10, 0)
	if err != nil {
		t.Fatalf("ListByPlayer: %v", err)
	}
	if len(list) != 1 || list[0].Match.ID != m.ID || list[0].Record.Team != domain.TeamRed {
		t.Errorf("unexpected player matches %+v", list)
	}

	if err := s.Records.UpdateRating(ctx, 9999, 1, 1); err == nil {
		t.Error("expected an error updating a missing record")
	}
}

func TestRecordsInsertAllAndResetRatings(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	p1 := createPlayer(t, s, "STEAM_0:0:30")
	p2 := createPlayer(t, s, "STEAM_0:0:31")
	m := createMatch(t, s, time.Time{})

	var ids []int64
	err := s.InTx(ctx, func(tx *Store) error {
		var err error
		ids, err = tx.Records.InsertAll(ctx, []domain.MatchRecord{
			{PlayerID: p1.ID, MatchID: m.ID, Frags: 10, Team: domain.TeamBlue},
			{PlayerID: p2.ID, MatchID: m.ID, Frags: 12, Team: domain.TeamRed},
		})
		return err
	})
	if err != nil {
		t.Fatalf("InsertAll: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("expected 2 ids, got %v", ids)
	}

	for _, id := range ids {
		if err := s.Records.UpdateRating(ctx, id, 1010, 10); err != nil {
			t.Fatalf("UpdateRating: %v", err)
		}
	}
	n, err := s.Records.ResetRatings(ctx)
	if err != nil {
		t.Fatalf("ResetRatings: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 reset rows, got %d", n)
	}

	records, _ := s.Records.GetByMatchID(ctx, m.ID)
	for _, rec := range records {
		if rec.RatingAfterMatch != 0 || rec.RatingDelta != 0 {
			t.Errorf("record %d not reset: %+v", rec.ID, rec)
		}
	}
}

func TestDeleteMatchCascades(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	p := createPlayer(t, s, "STEAM_0:0:40")
	m := createMatch(t, s, time.Time{})
	if _, err := s.Records.Create(ctx, domain.MatchRecord{PlayerID: p.ID, MatchID: m.ID, Team: domain.TeamBlue}); err != nil {
		t.Fatalf("Create record: %v", err)
	}
	if err := s.History.Insert(ctx, domain.RatingCapture{PlayerID: p.ID, MatchID: m.ID, Rating: 1000, Uncertainty: 300, CapturedAt: m.PlayedAt}); err != nil {
		t.Fatalf("Insert capture: %v", err)
	}

	if err := s.Matches.Delete(ctx, m.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	records, _ := s.Records.GetByMatchID(ctx, m.ID)
	if len(records) != 0 {
		t.Errorf("expected records to cascade, got %d", len(records))
	}
	history, _ := s.History.GetByPlayer(ctx, p.ID)
	if len(history) != 0 {
		t.Errorf("expected history to cascade, got %d", len(history))
	}

	if err := s.Matches.Delete(ctx, m.ID); !errors.Is(err, domain.ErrMatchNotFound) {
		t.Errorf("expected ErrMatchNotFound on second delete, got %v", err)
	}
}

func TestRatingHistoryOrderAndDeleteAll(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	p := createPlayer(t, s, "STEAM_0:0:50")
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	second := createMatch(t, s, base.Add(time.Hour))
	first := createMatch(t, s, base)

	s.History.Insert(ctx, domain.RatingCapture{PlayerID: p.ID, MatchID: second.ID, Rating: 1020, Uncertainty: 290, CapturedAt: second.PlayedAt})
	s.History.Insert(ctx, domain.RatingCapture{PlayerID: p.ID, MatchID: first.ID, Rating: 1010, Uncertainty: 310, CapturedAt: first.PlayedAt})

	history, err := s.History.GetByPlayer(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetByPlayer: %v", err)
	}
	if len(history) != 2 || history[0].MatchID != first.ID || history[0].ID == "" {
		t.Fatalf("expected oldest capture first with an id, got %+v", history)
	}

	n, err := s.History.DeleteAll(ctx)
	if err != nil {
		t.Fatalf("DeleteAll: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 deleted rows, got %d", n)
	}
}

func TestStoreInTxRollsBackOnError(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	p := createPlayer(t, s, "STEAM_0:0:60")

	boom := errors.New("boom")
	err := s.InTx(ctx, func(tx *Store) error {
		if err := tx.Stats.Apply(ctx, StatsIncrement{PlayerID: p.ID, Rating: 1500, Uncertainty: 100, Wins: 1, UpdatedAt: time.Now()}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	stats, _ := s.Stats.Get(ctx, p.ID)
	if stats.Rating != rating.InitialMu || stats.Wins != 0 {
		t.Errorf("expected stats untouched after rollback, got %+v", stats)
	}

	err = s.InTx(ctx, func(tx *Store) error {
		return tx.Stats.Apply(ctx, StatsIncrement{PlayerID: p.ID, Rating: 1500, Uncertainty: 100, Wins: 1, UpdatedAt: time.Now()})
	})
	if err != nil {
		t.Fatalf("InTx: %v", err)
	}
	stats, _ = s.Stats.Get(ctx, p.ID)
	if stats.Rating != 1500 || stats.Wins != 1 {
		t.Errorf("expected committed stats, got %+v", stats)
	}
}
