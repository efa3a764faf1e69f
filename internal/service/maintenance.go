package service

import (
	"context"
	"strings"

	"shion/internal/api"
	"shion/internal/constants"
	"shion/internal/domain"
	"shion/internal/rating"
	"shion/internal/repository"

	"github.com/rs/zerolog"
)

// MaintenanceService holds the one-off jobs that repair data written by older releases.
type MaintenanceService struct {
	store  *repository.Store
	agdb   *api.AGDBClient
	engine rating.Config
	logger zerolog.Logger
}

func NewMaintenanceService(store *repository.Store, agdb *api.AGDBClient, engine rating.Config, logger zerolog.Logger) *MaintenanceService {
	return &MaintenanceService{store: store, agdb: agdb, engine: engine, logger: logger}
}

// BackfillStats gives every player without a stats row the default rating.
func (s *MaintenanceService) BackfillStats(ctx context.Context) (int, error) {
	s.logger.Info().Msg("starting stats backfill")

	players, err := s.store.Players.ListWithoutStats(ctx)
	if err != nil {
		return 0, err
	}

	for _, p := range players {
		s.logger.Info().Int64("player_id", p.ID).Msg("backfilling stats")
		if err := s.store.Stats.CreateDefault(ctx, p.ID, s.engine.Initial()); err != nil {
			return 0, err
		}
	}

	s.logger.Info().Int("players", len(players)).Msg("stats backfill completed")
	return len(players), nil
}

// BackfillCountries looks up players with an unknown country on AGDB.
// Players AGDB cannot resolve keep the unknown country.
func (s *MaintenanceService) BackfillCountries(ctx context.Context) (int, error) {
	s.logger.Info().Msg("starting countries backfill")

	players, err := s.store.Players.ListByCountry(ctx, domain.UnknownCountry)
	if err != nil {
		return 0, err
	}

	var updated int
	for _, p := range players {
		if err := ctx.Err(); err != nil {
			return updated, err
		}

		apiCtx, cancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
		info, err := s.agdb.GetPlayer(apiCtx, p.SteamID)
		cancel()
		if err != nil {
			s.logger.Warn().Err(err).Str("steam_id", p.SteamID).Msg("AGDB lookup failed")
			continue
		}

		country := strings.ToLower(info.Country)
		if country == "" {
			continue
		}
		if err := s.store.Players.UpdateCountry(ctx, p.ID, country); err != nil {
			return updated, err
		}
		s.logger.Info().Str("steam_id", p.SteamID).Str("country", country).Msg("country backfilled")
		updated++
	}

	s.logger.Info().Int("updated", updated).Int("candidates", len(players)).Msg("countries backfill completed")
	return updated, nil
}

// FixMatches deletes matches with uneven teams, or where neither team reached
// constants.MinTeamFrags. Matches without records are left alone.
func (s *MaintenanceService) FixMatches(ctx context.Context) ([]int64, error) {
	s.logger.Info().Msg("starting match fixes")

	matches, err := s.store.Matches.ListChronological(ctx)
	if err != nil {
		return nil, err
	}

	var deleted []int64
	for _, m := range matches {
		records, err := s.store.Records.GetByMatchID(ctx, m.ID)
		if err != nil {
			return deleted, err
		}
		if len(records) == 0 {
			continue
		}

		var blue, red int
		var blueFrags, redFrags int64
		for _, rec := range records {
			if team, _ := domain.NormalizeTeam(rec.Team); team == domain.TeamBlue {
				blue++
				blueFrags += int64(rec.Frags)
			} else {
				red++
				redFrags += int64(rec.Frags)
			}
		}

		toDelete := false
		if blue != red {
			s.logger.Warn().Int64("match_id", m.ID).Int("blue", blue).Int("red", red).Msg("match has uneven teams")
			toDelete = true
		}
		if blueFrags < constants.MinTeamFrags && redFrags < constants.MinTeamFrags {
			s.logger.Warn().Int64("match_id", m.ID).Int64("blue_frags", blueFrags).Int64("red_frags", redFrags).Msg("match has low frags")
			toDelete = true
		}

		if toDelete {
			if err := s.store.Matches.Delete(ctx, m.ID); err != nil {
				return deleted, err
			}
			s.logger.Info().Int64("match_id", m.ID).Msg("match deleted")
			deleted = append(deleted, m.ID)
		}
	}

	s.logger.Info().Int("deleted", len(deleted)).Msg("match fixes completed")
	return deleted, nil
}
