package domain

import "strings"

// NormalizeTeam lowercases a team label and reports whether it is one of the two known teams.
func NormalizeTeam(team string) (string, bool) {
	t := strings.ToLower(team)
	return t, t == TeamBlue || t == TeamRed
}

// ValidateTeams checks that every label is blue or red and that both teams have the same size.
// It stops at the first unknown label.
func ValidateTeams(teams []string) error {
	var blue, red int
	for _, team := range teams {
		normalized, ok := NormalizeTeam(team)
		if !ok {
			return &InvalidTeamLabelError{Value: team}
		}
		if normalized == TeamBlue {
			blue++
		} else {
			red++
		}
	}

	if blue != red {
		return &UnevenTeamsError{Blue: blue, Red: red}
	}
	return nil
}

func ValidateSubmissions(submissions []RecordSubmission) error {
	teams := make([]string, len(submissions))
	for i, s := range submissions {
		teams[i] = s.Team
	}
	return ValidateTeams(teams)
}
