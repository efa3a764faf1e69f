// Package rating implements the Weng-Lin Bayesian update for two teams
// (Bradley-Terry full pairing, closed form).
package rating

import "math"

// Rating is a Gaussian skill belief.
type Rating struct {
	Mu    float64
	Sigma float64
}

type team struct {
	mu       float64 // sum of member means
	variance float64 // sum of member variances
}

func summarize(players []Rating) team {
	var t team
	for _, p := range players {
		t.mu += p.Mu
		t.variance += p.Sigma * p.Sigma
	}
	return t
}

// Update returns the new ratings of both teams after a match with the given outcome.
// Input slices are not modified and the output keeps the input order.
// If either team is empty both teams are returned unchanged.
func (c Config) Update(teamA, teamB []Rating, outcome Outcome) ([]Rating, []Rating) {
	if len(teamA) == 0 || len(teamB) == 0 {
		return clone(teamA), clone(teamB)
	}

	a := summarize(teamA)
	b := summarize(teamB)

	players := float64(len(teamA) + len(teamB))
	cc := a.variance + b.variance + players*c.Beta*c.Beta
	norm := math.Sqrt(cc)

	scoreA := outcome.Score()
	scoreB := outcome.Inverse().Score()

	newA := c.updateTeam(teamA, a, b, norm, scoreA)
	newB := c.updateTeam(teamB, b, a, norm, scoreB)
	return newA, newB
}

// updateTeam moves every member of own given the opposing team and own's observed score.
// Both sides go through this function with their arguments swapped, which keeps the update
// exactly symmetric under relabeling.
func (c Config) updateTeam(players []Rating, own, other team, norm, score float64) []Rating {
	p := winProbability(own.mu, other.mu, norm)
	surprise := score - p

	ownSigma := math.Sqrt(own.variance)
	eta := (ownSigma / norm) * (own.variance / (norm * norm)) * p * (1 - p)

	out := make([]Rating, len(players))
	for i, player := range players {
		variance := player.Sigma * player.Sigma

		mu := player.Mu + variance/norm*surprise

		var share float64
		if own.variance > 0 {
			share = variance / own.variance
		}
		shrink := math.Max(1-share*eta, c.Kappa)
		sigma := math.Sqrt(variance * shrink)
		sigma = math.Max(sigma, math.Min(player.Sigma, c.SigmaFloor))

		out[i] = Rating{Mu: mu, Sigma: sigma}
	}
	return out
}

// winProbability is the logistic of the normalized strength difference.
func winProbability(own, other, norm float64) float64 {
	return 1 / (1 + math.Exp(-(own-other)/norm))
}

// WinProbability predicts how likely team A is to beat team B.
func (c Config) WinProbability(teamA, teamB []Rating) float64 {
	a := summarize(teamA)
	b := summarize(teamB)
	players := float64(len(teamA) + len(teamB))
	norm := math.Sqrt(a.variance + b.variance + players*c.Beta*c.Beta)
	if norm == 0 {
		return 0.5
	}
	return winProbability(a.mu, b.mu, norm)
}

func clone(r []Rating) []Rating {
	out := make([]Rating, len(r))
	copy(out, r)
	return out
}
