package match

import "github.com/DhavalSuthar-24/crease/internal/cricket"

// Summary holds the derived figures a scoreboard shows next to the live
// state. None of it is stored.
type Summary struct {
	Overs          string   `json:"overs"`
	CurrentRunRate float64  `json:"current_run_rate"`
	Target         *int     `json:"target,omitempty"`
	RunsNeeded     *int     `json:"runs_needed,omitempty"`
	BallsRemaining *int     `json:"balls_remaining,omitempty"`
	RequiredRate   *float64 `json:"required_run_rate,omitempty"`
}

// MatchView is the API representation of a match.
type MatchView struct {
	*Match
	Summary Summary `json:"summary"`
}

// NewMatchView derives the scoreboard summary for m.
func NewMatchView(m *Match) MatchView {
	s := m.Live
	sum := Summary{
		Overs:          cricket.OversString(s.Score),
		CurrentRunRate: cricket.CurrentRunRate(s.Score.Runs, s.Score.LegalBalls()),
	}
	if s.CurrentInnings == 2 && s.FirstInningsTotal != nil {
		chase := cricket.Chase{
			FirstInningsTotal: *s.FirstInningsTotal,
			Score:             s.Score,
			TotalOvers:        m.Config.TotalOvers,
			SquadSize:         len(m.Team(s.BattingTeamID).Players),
		}
		target, needed, left := chase.Target(), chase.RunsNeeded(), chase.BallsRemaining()
		sum.Target, sum.RunsNeeded, sum.BallsRemaining = &target, &needed, &left
		if rate, ok := cricket.RequiredRunRate(needed, left); ok {
			sum.RequiredRate = &rate
		}
	}
	return MatchView{Match: m, Summary: sum}
}
