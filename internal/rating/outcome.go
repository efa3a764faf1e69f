package rating

type Outcome int

const (
	TeamAWins Outcome = iota
	TeamBWins
)

func (o Outcome) String() string {
	if o == TeamAWins {
		return "team_a_wins"
	}
	return "team_b_wins"
}

// Score is the observed result from team A's point of view.
func (o Outcome) Score() float64 {
	if o == TeamAWins {
		return 1
	}
	return 0
}

func (o Outcome) Inverse() Outcome {
	if o == TeamAWins {
		return TeamBWins
	}
	return TeamAWins
}

// DetermineOutcome compares total frags. Team A only wins with strictly more frags,
// so a tie goes to team B.
func DetermineOutcome(teamAFrags, teamBFrags []int16) Outcome {
	if sumFrags(teamAFrags) > sumFrags(teamBFrags) {
		return TeamAWins
	}
	return TeamBWins
}

func sumFrags(frags []int16) int64 {
	var total int64
	for _, f := range frags {
		total += int64(f)
	}
	return total
}
