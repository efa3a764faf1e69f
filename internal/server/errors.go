package server

import (
	"errors"
	"net/http"

	"shion/internal/domain"
	"shion/internal/middleware"

	"github.com/rs/zerolog"
)

type ErrorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

var errInvalidRequest = errors.New("invalid request")

type apiError struct {
	status  int
	code    string
	message string
}

var sentinelErrors = []struct {
	err error
	apiError
}{
	{errInvalidRequest, apiError{http.StatusBadRequest, "invalid_request", "The request could not be parsed."}},
	{domain.ErrEmptySubmission, apiError{http.StatusBadRequest, "empty_submission", "At least one match record is required."}},
	{domain.ErrMixedMatchIDs, apiError{http.StatusBadRequest, "mixed_match_ids", "All match records must belong to the same match."}},
	{domain.ErrDuplicatePlayer, apiError{http.StatusBadRequest, "duplicate_player", "A player can only appear once per match."}},
	{domain.ErrMatchAlreadyRecorded, apiError{http.StatusBadRequest, "match_already_recorded", "Records for this match were already submitted."}},
	{domain.ErrInvalidSteamID, apiError{http.StatusBadRequest, "player_steamid_invalid", "The provided Steam ID is invalid."}},
	{domain.ErrPlayerNotFound, apiError{http.StatusNotFound, "player_not_found", "The specified player was not found."}},
	{domain.ErrSteamProfileNotFound, apiError{http.StatusNotFound, "player_steamid_does_not_exist", "The provided Steam ID does not exist."}},
	{domain.ErrMatchNotFound, apiError{http.StatusNotFound, "match_not_found", "The specified match was not found."}},
}

func classify(err error) apiError {
	var label *domain.InvalidTeamLabelError
	if errors.As(err, &label) {
		return apiError{http.StatusBadRequest, "invalid_model", label.Error()}
	}
	var uneven *domain.UnevenTeamsError
	if errors.As(err, &uneven) {
		return apiError{http.StatusBadRequest, "uneven_teams", uneven.Error()}
	}
	for _, s := range sentinelErrors {
		if errors.Is(err, s.err) {
			return s.apiError
		}
	}
	return apiError{http.StatusInternalServerError, "unexpected", "An unexpected error has occurred."}
}

func errorResponse(w http.ResponseWriter, r *http.Request, err error) {
	e := classify(err)
	logger := zerolog.Ctx(r.Context())
	if e.status >= http.StatusInternalServerError {
		logger.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	} else {
		logger.Debug().Err(err).Str("code", e.code).Msg("request rejected")
	}
	jsonResponse(w, e.status, ErrorResponse{
		Code:      e.code,
		Message:   e.message,
		RequestID: middleware.GetRequestID(r.Context()),
	})
}
