// Package cricket holds the scoring rulebook as pure functions over value
// types. Nothing in here touches storage or the clock.
package cricket

import "fmt"

// TotalRuns is everything a delivery adds to the batting side's total.
func TotalRuns(runsOffBat int, extras *Extras) int {
	if extras == nil {
		return runsOffBat
	}
	return runsOffBat + extras.Runs
}

// IsLegal reports whether a delivery counts towards the over.
// Byes and leg-byes are legal, wides and no-balls are not.
func IsLegal(extras *Extras) bool {
	if extras == nil {
		return true
	}
	return extras.Type != ExtraWide && extras.Type != ExtraNoBall
}

// CreditedToBowler returns how many of runs count against the bowler.
func CreditedToBowler(extras *Extras, runs int) int {
	if extras != nil && (extras.Type == ExtraBye || extras.Type == ExtraLegBye) {
		return 0
	}
	return runs
}

// WicketCreditedToBowler reports whether a dismissal goes in the bowler's
// wicket column.
func WicketCreditedToBowler(t WicketType) bool {
	return t != WicketRunOut && t != WicketRetired
}

// ShouldRotateStrike decides whether the batters swap ends after a
// delivery. Callers only apply it when both crease slots are occupied.
func ShouldRotateStrike(runsOffBat int, overJustCompleted bool) bool {
	return runsOffBat%2 != 0 || overJustCompleted
}

// IsFreeHit reports whether the delivery after one with these extras is a
// free hit.
func IsFreeHit(previous *Extras) bool {
	return previous != nil && previous.Type == ExtraNoBall
}

// DismissalAllowedOnFreeHit reports whether t stands on a free-hit delivery.
// Any other dismissal is void and the batter stays in.
func DismissalAllowedOnFreeHit(t WicketType) bool {
	switch t {
	case WicketRunOut, WicketHandledBall, WicketObstructingField:
		return true
	}
	return false
}

// AdvanceBall adds one legal delivery to s and reports whether it completed
// the over.
func AdvanceBall(s Score) (Score, bool) {
	s.Balls++
	if s.Balls == BallsPerOver {
		s.Balls = 0
		s.Overs++
		return s, true
	}
	return s, false
}

// MaxWickets is the wicket count at which a side of squadSize is all out.
func MaxWickets(squadSize int) int {
	if squadSize-1 < 0 {
		return 0
	}
	return squadSize - 1
}

// InningsComplete reports whether no further delivery may be bowled.
func InningsComplete(s Score, totalOvers, squadSize int) bool {
	if s.Overs >= totalOvers {
		return true
	}
	return s.Wickets >= MaxWickets(squadSize)
}

// OversString renders overs in the conventional "overs.balls" form.
func OversString(s Score) string {
	return fmt.Sprintf("%d.%d", s.Overs, s.Balls)
}

// CurrentRunRate is runs per six legal balls. It is zero before the first
// legal delivery.
func CurrentRunRate(runs, legalBalls int) float64 {
	if legalBalls <= 0 {
		return 0
	}
	return float64(runs) / (float64(legalBalls) / BallsPerOver)
}

// RequiredRunRate is runs needed per over over the remaining balls. ok is
// false when there are no balls left or nothing is needed.
func RequiredRunRate(runsNeeded, ballsRemaining int) (rate float64, ok bool) {
	if ballsRemaining <= 0 || runsNeeded <= 0 {
		return 0, false
	}
	return float64(runsNeeded) / (float64(ballsRemaining) / BallsPerOver), true
}
