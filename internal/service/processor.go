package service

import (
	"context"
	"fmt"
	"time"

	"shion/internal/domain"
	"shion/internal/rating"
	"shion/internal/repository"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

var (
	matchesProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shion_matches_processed_total",
		Help: "Total number of matches whose ratings were committed",
	})

	matchesFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shion_matches_failed_total",
		Help: "Total number of match processing attempts that were rolled back",
	})

	processDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "shion_match_process_duration_seconds",
		Help:    "Duration of a single match processing transaction",
		Buckets: prometheus.DefBuckets,
	})
)

// MatchProcessor turns the stored records of one match into new ratings and stats.
type MatchProcessor struct {
	store  *repository.Store
	engine rating.Config
	logger zerolog.Logger
}

func NewMatchProcessor(store *repository.Store, engine rating.Config, logger zerolog.Logger) *MatchProcessor {
	return &MatchProcessor{store: store, engine: engine, logger: logger}
}

// Process rates the match in a single transaction. A match without records is a
// no-op. Calling it twice for the same match applies the match twice.
func (p *MatchProcessor) Process(ctx context.Context, matchID int64) error {
	start := time.Now()
	err := p.store.InTx(ctx, func(tx *repository.Store) error {
		return p.process(ctx, tx, matchID)
	})
	processDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		matchesFailed.Inc()
		p.logger.Error().Err(err).Int64("match_id", matchID).Msg("match processing rolled back")
		return fmt.Errorf("failed to process match %d: %w", matchID, err)
	}
	matchesProcessed.Inc()
	return nil
}

type ratedRecord struct {
	record domain.MatchRecord
	before rating.Rating
	after  rating.Rating
	won    bool
}

func (p *MatchProcessor) process(ctx context.Context, tx *repository.Store, matchID int64) error {
	records, err := tx.Records.GetByMatchID(ctx, matchID)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		p.logger.Debug().Int64("match_id", matchID).Msg("match has no records, nothing to process")
		return nil
	}

	match, err := tx.Matches.Get(ctx, matchID)
	if err != nil {
		return err
	}

	teams := make([]string, len(records))
	seen := make(map[int64]struct{}, len(records))
	for i, rec := range records {
		teams[i] = rec.Team
		if _, dup := seen[rec.PlayerID]; dup {
			return fmt.Errorf("%w: player %d", domain.ErrDuplicatePlayer, rec.PlayerID)
		}
		seen[rec.PlayerID] = struct{}{}
	}
	if err := domain.ValidateTeams(teams); err != nil {
		return err
	}

	rated := make([]ratedRecord, len(records))
	var blue, red []int
	var blueRatings, redRatings []rating.Rating
	var blueFrags, redFrags []int16

	for i, rec := range records {
		before := p.engine.Initial()
		stats, err := tx.Stats.Get(ctx, rec.PlayerID)
		if err != nil {
			return err
		}
		if stats != nil {
			before = rating.Rating{Mu: stats.Rating, Sigma: stats.Uncertainty}
		}
		rated[i] = ratedRecord{record: rec, before: before}

		if team, _ := domain.NormalizeTeam(rec.Team); team == domain.TeamBlue {
			blue = append(blue, i)
			blueRatings = append(blueRatings, before)
			blueFrags = append(blueFrags, rec.Frags)
		} else {
			red = append(red, i)
			redRatings = append(redRatings, before)
			redFrags = append(redFrags, rec.Frags)
		}
	}

	outcome := rating.DetermineOutcome(blueFrags, redFrags)
	newBlue, newRed := p.engine.Update(blueRatings, redRatings, outcome)

	for j, i := range blue {
		rated[i].after = newBlue[j]
		rated[i].won = outcome == rating.TeamAWins
	}
	for j, i := range red {
		rated[i].after = newRed[j]
		rated[i].won = outcome == rating.TeamBWins
	}

	now := time.Now().UTC()
	for _, r := range rated {
		delta := r.after.Mu - r.before.Mu
		if err := tx.Records.UpdateRating(ctx, r.record.ID, r.after.Mu, delta); err != nil {
			return err
		}

		inc := repository.StatsIncrement{
			PlayerID:    r.record.PlayerID,
			Rating:      r.after.Mu,
			Uncertainty: r.after.Sigma,
			Frags:       int64(r.record.Frags),
			Deaths:      int64(r.record.Deaths),
			UpdatedAt:   now,
		}
		if r.won {
			inc.Wins = 1
		} else {
			inc.Losses = 1
		}
		if err := tx.Stats.Apply(ctx, inc); err != nil {
			return err
		}

		err := tx.History.Insert(ctx, domain.RatingCapture{
			PlayerID:    r.record.PlayerID,
			MatchID:     matchID,
			Rating:      r.after.Mu,
			Uncertainty: r.after.Sigma,
			CapturedAt:  match.PlayedAt,
		})
		if err != nil {
			return err
		}
	}

	p.logger.Info().
		Int64("match_id", matchID).
		Str("outcome", outcome.String()).
		Int("players", len(records)).
		Str("rating_version", p.engine.Version).
		Msg("match processed")

	return nil
}
