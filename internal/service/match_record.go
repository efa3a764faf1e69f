package service

import (
	"context"
	"errors"
	"fmt"

	"shion/internal/constants"
	"shion/internal/domain"
	"shion/internal/repository"

	"github.com/rs/zerolog"
)

// MatchRecordService accepts the per-player lines a game server reports for a finished match.
type MatchRecordService struct {
	store     *repository.Store
	processor *MatchProcessor
	logger    zerolog.Logger
}

func NewMatchRecordService(store *repository.Store, processor *MatchProcessor, logger zerolog.Logger) *MatchRecordService {
	return &MatchRecordService{store: store, processor: processor, logger: logger}
}

// Submit validates the whole batch before anything is stored, persists it in one
// transaction and then rates the match. A match accepts records only once. If rating fails the records stay stored and
// the match can be processed again later.
func (s *MatchRecordService) Submit(ctx context.Context, submissions []domain.RecordSubmission) error {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	if len(submissions) == 0 {
		return domain.ErrEmptySubmission
	}

	matchID := submissions[0].MatchID
	seen := make(map[string]struct{}, len(submissions))
	for _, sub := range submissions {
		if sub.MatchID != matchID {
			return domain.ErrMixedMatchIDs
		}
		if _, dup := seen[sub.SteamID]; dup {
			return fmt.Errorf("%w: %s", domain.ErrDuplicatePlayer, sub.SteamID)
		}
		seen[sub.SteamID] = struct{}{}
	}

	if err := domain.ValidateSubmissions(submissions); err != nil {
		s.logger.Debug().Err(err).Int64("match_id", matchID).Msg("rejected match records")
		return err
	}

	if _, err := s.store.Matches.Get(ctx, matchID); err != nil {
		return err
	}

	records := make([]domain.MatchRecord, len(submissions))
	for i, sub := range submissions {
		player, err := s.store.Players.GetBySteamID(ctx, sub.SteamID)
		if err != nil {
			return fmt.Errorf("%w: %s", err, sub.SteamID)
		}
		team, _ := domain.NormalizeTeam(sub.Team)
		records[i] = domain.MatchRecord{
			PlayerID:    player.ID,
			MatchID:     matchID,
			Frags:       sub.Frags,
			Deaths:      sub.Deaths,
			AveragePing: sub.AveragePing,
			DamageDealt: sub.DamageDealt,
			DamageTaken: sub.DamageTaken,
			Team:        team,
		}
	}

	err := s.store.InTx(ctx, func(tx *repository.Store) error {
		existing, err := tx.Records.GetByMatchID(ctx, matchID)
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			return fmt.Errorf("%w: match %d has %d records", domain.ErrMatchAlreadyRecorded, matchID, len(existing))
		}
		_, err = tx.Records.InsertAll(ctx, records)
		return err
	})
	if errors.Is(err, domain.ErrMatchAlreadyRecorded) {
		s.logger.Warn().Err(err).Int64("match_id", matchID).Msg("rejected resubmitted match records")
		return err
	}
	if err != nil {
		s.logger.Error().Err(err).Int64("match_id", matchID).Msg("failed to store match records")
		return err
	}

	s.logger.Info().Int64("match_id", matchID).Int("records", len(records)).Msg("match records stored")

	return s.processor.Process(ctx, matchID)
}
