package cricket

import "fmt"

// MarginUnit names what a winning margin is counted in.
type MarginUnit string

const (
	MarginWickets MarginUnit = "wickets"
	MarginRuns    MarginUnit = "runs"
	MarginBalls   MarginUnit = "balls"
)

// Margin is how far the winner finished ahead.
type Margin struct {
	Value int        `json:"value"`
	Unit  MarginUnit `json:"unit"`
}

// String renders the margin the way a scoreboard shows it, e.g. "3 wickets"
// or "1 run".
func (m Margin) String() string {
	unit := string(m.Unit)
	if m.Value == 1 {
		unit = unit[:len(unit)-1]
	}
	return fmt.Sprintf("%d %s", m.Value, unit)
}

// Chase is the state of a second innings needed to decide the match.
type Chase struct {
	FirstInningsTotal int
	Score             Score
	TotalOvers        int
	// SquadSize of the chasing side; it fixes the all-out wicket count.
	SquadSize int
}

// Target is the run total that wins the chase.
func (c Chase) Target() int {
	return c.FirstInningsTotal + 1
}

// BallsRemaining is the number of legal deliveries still available.
func (c Chase) BallsRemaining() int {
	left := c.TotalOvers*BallsPerOver - c.Score.LegalBalls()
	if left < 0 {
		return 0
	}
	return left
}

// RunsNeeded is how many more runs the chasing side needs to win.
func (c Chase) RunsNeeded() int {
	need := c.Target() - c.Score.Runs
	if need < 0 {
		return 0
	}
	return need
}

// Outcome is a decided match.
type Outcome struct {
	Tie        bool
	ChaserWon  bool
	Margin     Margin
	Determined bool
}

// DetermineResult decides the match from the second innings state. The
// returned Outcome has Determined false while the chase is still open.
func DetermineResult(c Chase) Outcome {
	maxWickets := MaxWickets(c.SquadSize)
	if c.Score.Runs >= c.Target() {
		out := Outcome{Determined: true, ChaserWon: true}
		if left := maxWickets - c.Score.Wickets; left > 0 {
			out.Margin = Margin{Value: left, Unit: MarginWickets}
		} else {
			out.Margin = Margin{Value: c.BallsRemaining(), Unit: MarginBalls}
		}
		return out
	}

	allOut := c.Score.Wickets >= maxWickets
	oversDone := c.Score.Overs >= c.TotalOvers
	if !allOut && !oversDone {
		return Outcome{}
	}
	if c.Score.Runs == c.FirstInningsTotal {
		return Outcome{Determined: true, Tie: true}
	}
	return Outcome{
		Determined: true,
		Margin:     Margin{Value: c.FirstInningsTotal - c.Score.Runs, Unit: MarginRuns},
	}
}
