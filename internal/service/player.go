package service

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"shion/internal/api"
	"shion/internal/constants"
	"shion/internal/domain"
	"shion/internal/rating"
	"shion/internal/repository"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

type PlayerService struct {
	store  *repository.Store
	steam  *api.SteamClient
	geo    *api.IPAPIClient
	engine rating.Config
	logger zerolog.Logger
}

func NewPlayerService(store *repository.Store, steam *api.SteamClient, geo *api.IPAPIClient, engine rating.Config, logger zerolog.Logger) *PlayerService {
	return &PlayerService{store: store, steam: steam, geo: geo, engine: engine, logger: logger}
}

// CreatePlayer registers a player by Steam2 id, or returns the existing one.
// The Steam profile and the country of clientIP are looked up concurrently;
// a failed geolocation only leaves the country unknown.
func (s *PlayerService) CreatePlayer(ctx context.Context, steamID, clientIP string) (*domain.Player, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	id, err := domain.ParseSteam2(steamID)
	if err != nil {
		return nil, err
	}

	existing, err := s.store.Players.GetBySteamID(ctx, steamID)
	if err == nil {
		s.logger.Debug().Int64("player_id", existing.ID).Str("steam_id", steamID).Msg("player already exists")
		return s.withStats(ctx, existing)
	}
	if !errors.Is(err, domain.ErrPlayerNotFound) {
		return nil, err
	}

	s.logger.Info().Str("steam_id", steamID).Uint64("steam_id64", id.SteamID64()).Msg("creating player")

	var profile *api.SteamPlayer
	country := domain.UnknownCountry

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		apiCtx, apiCancel := context.WithTimeout(gctx, constants.ExternalAPITimeout)
		defer apiCancel()

		p, err := s.steam.GetPlayerSummary(apiCtx, id.SteamID64())
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrSteamProfileNotFound
		}
		profile = p
		return nil
	})
	g.Go(func() error {
		country = s.lookupCountry(gctx, clientIP)
		return nil
	})
	if err := g.Wait(); err != nil {
		s.logger.Warn().Err(err).Str("steam_id", steamID).Msg("failed to fetch steam profile")
		return nil, err
	}

	return s.store.Players.CreateWithStats(ctx, &domain.Player{
		SteamID:        steamID,
		SteamName:      profile.PersonaName,
		SteamAvatarURL: profile.AvatarFull,
		Country:        country,
	}, s.engine.Initial())
}

func (s *PlayerService) lookupCountry(ctx context.Context, clientIP string) string {
	ip := net.ParseIP(clientIP)
	if ip == nil || ip.IsLoopback() || ip.IsPrivate() || ip.IsUnspecified() {
		return domain.UnknownCountry
	}

	apiCtx, cancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
	defer cancel()

	info, err := s.geo.GetIPInfo(apiCtx, ip.String())
	if err != nil || info.CountryCode == "" {
		s.logger.Warn().Err(err).Str("ip", clientIP).Msg("failed getting location for ip address")
		return domain.UnknownCountry
	}
	return strings.ToLower(info.CountryCode)
}

func (s *PlayerService) withStats(ctx context.Context, player *domain.Player) (*domain.Player, error) {
	stats, err := s.store.Stats.Get(ctx, player.ID)
	if err != nil {
		return nil, err
	}
	if stats == nil {
		initial := s.engine.Initial()
		stats = &domain.PlayerStats{PlayerID: player.ID, Rating: initial.Mu, Uncertainty: initial.Sigma}
	}
	player.Stats = *stats
	return player, nil
}

func (s *PlayerService) GetPlayer(ctx context.Context, id int64) (*domain.Player, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	var player *domain.Player
	var stats *domain.PlayerStats

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		player, err = s.store.Players.GetByID(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		stats, err = s.store.Stats.Get(gctx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		if !errors.Is(err, domain.ErrPlayerNotFound) {
			s.logger.Error().Err(err).Int64("player_id", id).Msg("failed to get player")
		}
		return nil, err
	}

	if stats == nil {
		initial := s.engine.Initial()
		stats = &domain.PlayerStats{PlayerID: id, Rating: initial.Mu, Uncertainty: initial.Sigma}
	}
	player.Stats = *stats
	return player, nil
}

func (s *PlayerService) SearchPlayers(ctx context.Context, query string) ([]domain.Player, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	s.logger.Debug().Str("query", query).Msg("searching players")

	players, err := s.store.Players.Search(ctx, query, constants.SearchSuggestionLimit)
	if err != nil {
		s.logger.Error().Err(err).Str("query", query).Msg("failed to search players")
		return nil, err
	}
	return players, nil
}

func (s *PlayerService) GetPlayerMatches(ctx context.Context, id int64, page, limit int) ([]domain.PlayerMatch, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	if _, err := s.store.Players.GetByID(ctx, id); err != nil {
		return nil, err
	}

	limit, offset := Paginate(page, limit)
	return s.store.Matches.ListByPlayer(ctx, id, limit, offset)
}

func (s *PlayerService) GetRatingHistory(ctx context.Context, id int64) ([]domain.RatingCapture, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	if _, err := s.store.Players.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.store.History.GetByPlayer(ctx, id)
}

func (s *PlayerService) GetLeaderboard(ctx context.Context, page, limit int) ([]domain.Player, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	limit, offset := Paginate(page, limit)
	players, err := s.store.Stats.Leaderboard(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to load leaderboard page %d: %w", page, err)
	}
	return players, nil
}

// Paginate turns a 1-based page and a page size into LIMIT and OFFSET values.
func Paginate(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = constants.DefaultPageLimit
	}
	if limit > constants.MaxPageLimit {
		limit = constants.MaxPageLimit
	}
	return limit, (page - 1) * limit
}
