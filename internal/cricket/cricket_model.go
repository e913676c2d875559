package cricket

// ExtraType enumerates the kinds of extras a delivery can concede.
type ExtraType string

const (
	ExtraWide   ExtraType = "wide"
	ExtraNoBall ExtraType = "no_ball"
	ExtraBye    ExtraType = "bye"
	ExtraLegBye ExtraType = "leg_bye"
)

// Valid reports whether t is a known extra type.
func (t ExtraType) Valid() bool {
	switch t {
	case ExtraWide, ExtraNoBall, ExtraBye, ExtraLegBye:
		return true
	}
	return false
}

// WicketType enumerates dismissal kinds.
type WicketType string

const (
	WicketBowled           WicketType = "bowled"
	WicketCaught           WicketType = "caught"
	WicketLBW              WicketType = "lbw"
	WicketRunOut           WicketType = "run_out"
	WicketStumped          WicketType = "stumped"
	WicketHitWicket        WicketType = "hit_wicket"
	WicketHandledBall      WicketType = "handled_ball"
	WicketObstructingField WicketType = "obstructing_field"
	WicketRetired          WicketType = "retired"
)

// Valid reports whether t is a known dismissal type.
func (t WicketType) Valid() bool {
	switch t {
	case WicketBowled, WicketCaught, WicketLBW, WicketRunOut, WicketStumped,
		WicketHitWicket, WicketHandledBall, WicketObstructingField, WicketRetired:
		return true
	}
	return false
}

// Extras describes the extra runs conceded on a delivery.
type Extras struct {
	Type ExtraType `json:"type"`
	Runs int       `json:"runs"`
}

// Score is the running total of an innings. Balls is always in [0,5].
type Score struct {
	Runs    int `json:"runs"`
	Wickets int `json:"wickets"`
	Overs   int `json:"overs"`
	Balls   int `json:"balls"`
}

// LegalBalls is the number of legal deliveries bowled so far.
func (s Score) LegalBalls() int {
	return s.Overs*BallsPerOver + s.Balls
}

// BallsPerOver is the number of legal deliveries in an over.
const BallsPerOver = 6
