package service

import (
	"context"
	"time"

	"shion/internal/constants"
	"shion/internal/domain"
	"shion/internal/repository"

	"github.com/rs/zerolog"
)

type MatchService struct {
	store  *repository.Store
	logger zerolog.Logger
}

func NewMatchService(store *repository.Store, logger zerolog.Logger) *MatchService {
	return &MatchService{store: store, logger: logger}
}

// CreateMatch stores a match header. A zero playedAt means the match was just played.
func (s *MatchService) CreateMatch(ctx context.Context, serverIP, mapName string, playedAt time.Time) (*domain.Match, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	match, err := s.store.Matches.Create(ctx, &domain.Match{
		ServerIP: serverIP,
		MapName:  mapName,
		PlayedAt: playedAt,
	})
	if err != nil {
		s.logger.Error().Err(err).Str("server_ip", serverIP).Str("map_name", mapName).Msg("failed to create match")
		return nil, err
	}

	s.logger.Info().Int64("match_id", match.ID).Str("map_name", mapName).Msg("match created")
	return match, nil
}

func (s *MatchService) GetMatch(ctx context.Context, matchID int64) (*domain.MatchWithRecords, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	s.logger.Debug().Int64("match_id", matchID).Msg("getting match")

	match, err := s.store.Matches.Get(ctx, matchID)
	if err != nil {
		return nil, err
	}

	records, err := s.store.Records.GetWithPlayers(ctx, matchID)
	if err != nil {
		return nil, err
	}

	return &domain.MatchWithRecords{Match: *match, Records: records}, nil
}
