package cricket

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTotalRunsAndLegality(t *testing.T) {
	tests := []struct {
		name   string
		bat    int
		extras *Extras
		total  int
		legal  bool
		bowler int
	}{
		{name: "plain four", bat: 4, total: 4, legal: true, bowler: 4},
		{name: "wide", extras: &Extras{Type: ExtraWide, Runs: 1}, total: 1, legal: false, bowler: 1},
		{name: "no ball hit for six", bat: 6, extras: &Extras{Type: ExtraNoBall, Runs: 1}, total: 7, legal: false, bowler: 7},
		{name: "byes", extras: &Extras{Type: ExtraBye, Runs: 2}, total: 2, legal: true, bowler: 0},
		{name: "leg byes", extras: &Extras{Type: ExtraLegBye, Runs: 1}, total: 1, legal: true, bowler: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			total := TotalRuns(tt.bat, tt.extras)
			assert.Equal(t, tt.total, total)
			assert.Equal(t, tt.legal, IsLegal(tt.extras))
			assert.Equal(t, tt.bowler, CreditedToBowler(tt.extras, total))
		})
	}
}

func TestWicketCreditedToBowler(t *testing.T) {
	assert.True(t, WicketCreditedToBowler(WicketBowled))
	assert.True(t, WicketCreditedToBowler(WicketStumped))
	assert.False(t, WicketCreditedToBowler(WicketRunOut))
	assert.False(t, WicketCreditedToBowler(WicketRetired))
}

func TestShouldRotateStrike(t *testing.T) {
	assert.True(t, ShouldRotateStrike(1, false))
	assert.True(t, ShouldRotateStrike(3, false))
	assert.False(t, ShouldRotateStrike(4, false))
	assert.False(t, ShouldRotateStrike(0, false))
	assert.True(t, ShouldRotateStrike(0, true))
	// odd runs off the last ball of an over still rotate exactly once
	assert.True(t, ShouldRotateStrike(1, true))
}

func TestFreeHit(t *testing.T) {
	assert.True(t, IsFreeHit(&Extras{Type: ExtraNoBall, Runs: 1}))
	assert.False(t, IsFreeHit(&Extras{Type: ExtraWide, Runs: 1}))
	assert.False(t, IsFreeHit(nil))

	assert.True(t, DismissalAllowedOnFreeHit(WicketRunOut))
	assert.True(t, DismissalAllowedOnFreeHit(WicketHandledBall))
	assert.True(t, DismissalAllowedOnFreeHit(WicketObstructingField))
	assert.False(t, DismissalAllowedOnFreeHit(WicketBowled))
	assert.False(t, DismissalAllowedOnFreeHit(WicketCaught))
}

func TestAdvanceBall(t *testing.T) {
	s := Score{}
	for i := 1; i <= 5; i++ {
		var done bool
		s, done = AdvanceBall(s)
		require.False(t, done)
		require.Equal(t, i, s.Balls)
	}
	s, done := AdvanceBall(s)
	assert.True(t, done)
	assert.Equal(t, Score{Overs: 1, Balls: 0}, s)
	assert.Equal(t, "1.0", OversString(s))
}

func TestInningsComplete(t *testing.T) {
	assert.False(t, InningsComplete(Score{Overs: 1, Balls: 5}, 2, 11))
	assert.True(t, InningsComplete(Score{Overs: 2}, 2, 11))
	assert.True(t, InningsComplete(Score{Wickets: 10}, 20, 11))
	assert.False(t, InningsComplete(Score{Wickets: 9}, 20, 11))
	assert.Equal(t, 0, MaxWickets(0))
}

func TestRunRates(t *testing.T) {
	assert.Equal(t, 0.0, CurrentRunRate(10, 0))
	assert.InDelta(t, 6.0, CurrentRunRate(12, 12), 1e-9)
	assert.InDelta(t, 7.5, CurrentRunRate(15, 12), 1e-9)

	rate, ok := RequiredRunRate(30, 24)
	require.True(t, ok)
	assert.InDelta(t, 7.5, rate, 1e-9)

	_, ok = RequiredRunRate(10, 0)
	assert.False(t, ok)
	_, ok = RequiredRunRate(0, 12)
	assert.False(t, ok)
}

func TestDetermineResult(t *testing.T) {
	tests := []struct {
		name  string
		chase Chase
		want  Outcome
	}{
		{
			name:  "chase in progress",
			chase: Chase{FirstInningsTotal: 150, Score: Score{Runs: 100, Wickets: 3, Overs: 12}, TotalOvers: 20, SquadSize: 11},
			want:  Outcome{},
		},
		{
			name:  "chaser wins by wickets",
			chase: Chase{FirstInningsTotal: 150, Score: Score{Runs: 151, Wickets: 3, Overs: 18, Balls: 2}, TotalOvers: 20, SquadSize: 11},
			want:  Outcome{Determined: true, ChaserWon: true, Margin: Margin{Value: 7, Unit: MarginWickets}},
		},
		{
			name:  "last pair home wins by balls",
			chase: Chase{FirstInningsTotal: 20, Score: Score{Runs: 21, Wickets: 1, Overs: 1, Balls: 4}, TotalOvers: 2, SquadSize: 2},
			want:  Outcome{Determined: true, ChaserWon: true, Margin: Margin{Value: 2, Unit: MarginBalls}},
		},
		{
			name:  "defenders win on overs",
			chase: Chase{FirstInningsTotal: 150, Score: Score{Runs: 140, Wickets: 6, Overs: 20}, TotalOvers: 20, SquadSize: 11},
			want:  Outcome{Determined: true, Margin: Margin{Value: 10, Unit: MarginRuns}},
		},
		{
			name:  "defenders win all out",
			chase: Chase{FirstInningsTotal: 150, Score: Score{Runs: 149, Wickets: 10, Overs: 15}, TotalOvers: 20, SquadSize: 11},
			want:  Outcome{Determined: true, Margin: Margin{Value: 1, Unit: MarginRuns}},
		},
		{
			name:  "tie",
			chase: Chase{FirstInningsTotal: 150, Score: Score{Runs: 150, Wickets: 4, Overs: 20}, TotalOvers: 20, SquadSize: 11},
			want:  Outcome{Determined: true, Tie: true},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetermineResult(tt.chase))
		})
	}
}

func TestMarginString(t *testing.T) {
	assert.Equal(t, "8 wickets", Margin{Value: 8, Unit: MarginWickets}.String())
	assert.Equal(t, "1 run", Margin{Value: 1, Unit: MarginRuns}.String())
	assert.Equal(t, "3 balls", Margin{Value: 3, Unit: MarginBalls}.String())
}
