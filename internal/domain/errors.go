package domain

import (
	"errors"
	"fmt"
)

var (
	ErrPlayerNotFound       = errors.New("player not found")
	ErrMatchNotFound        = errors.New("match not found")
	ErrInvalidSteamID       = errors.New("invalid steam id")
	ErrSteamProfileNotFound = errors.New("steam profile not found")
	ErrEmptySubmission      = errors.New("no match records submitted")
	ErrMixedMatchIDs        = errors.New("match records reference more than one match")
	ErrDuplicatePlayer      = errors.New("player appears more than once in the match")
	ErrMatchAlreadyRecorded = errors.New("match already has records")
)

type InvalidTeamLabelError struct {
	Value string
}

func (e *InvalidTeamLabelError) Error() string {
	return fmt.Sprintf("invalid team value %q, valid values are %q or %q", e.Value, TeamBlue, TeamRed)
}

type UnevenTeamsError struct {
	Blue int
	Red  int
}

func (e *UnevenTeamsError) Error() string {
	return fmt.Sprintf("team sizes do not match: blue team size = %d, red team size = %d", e.Blue, e.Red)
}
