package match

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DhavalSuthar-24/crease/internal/cricket"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newGormRepo(t *testing.T) *GormMatchRepository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&Match{}, &BallEvent{}))
	return NewGormMatchRepository(db)
}

// forEachRepo runs the same contract against both stores.
func forEachRepo(t *testing.T, fn func(t *testing.T, repo MatchRepository)) {
	t.Run("gorm", func(t *testing.T) { fn(t, newGormRepo(t)) })
	t.Run("memory", func(t *testing.T) { fn(t, NewMemoryMatchRepository()) })
}

func newStoredMatch(t *testing.T, repo MatchRepository, owner uint, status MatchStatus) *Match {
	t.Helper()
	m := &Match{
		OwnerID:           owner,
		AuthorizedUserIDs: []uint{},
		Status:            status,
		Config:            MatchConfig{TotalOvers: 5, WideRuns: 1, NoBallRuns: 1},
		TeamA:             Team{ID: TeamA, Name: "Lions", Players: []PlayerRef{{ID: 1, Name: "Lion 1"}, {ID: 2, Name: "Lion 2"}}},
		TeamB:             Team{ID: TeamB, Name: "Tigers", Players: []PlayerRef{{ID: 101, Name: "Tiger 1"}}},
	}
	require.NoError(t, repo.CreateMatch(context.Background(), m))
	require.NotZero(t, m.ID)
	return m
}

func storedBall(matchID uint, innings, over, ball, seq int, at time.Time) *BallEvent {
	last := uint(101)
	return &BallEvent{
		MatchID:    matchID,
		Innings:    innings,
		Over:       over,
		BallInOver: ball,
		Sequence:   seq,
		BowlerID:   101,
		StrikerID:  1,
		RunsOffBat: 2,
		Extras:     &cricket.Extras{Type: cricket.ExtraNoBall, Runs: 1},
		PreBallState: LiveState{
			CurrentInnings: innings,
			StrikerID:      1,
			NonStrikerID:   2,
			BowlerID:       101,
			Batters:        map[uint]BatterStats{1: {Runs: 5, Balls: 3}, 2: {}},
			Bowlers:        map[uint]BowlerStats{101: {Runs: 5, Balls: 3}},
		},
		PostBallState: LiveState{
			CurrentInnings: innings,
			StrikerID:      1,
			NonStrikerID:   2,
			BowlerID:       101,
			Batters:        map[uint]BatterStats{1: {Runs: 7, Balls: 3}, 2: {}},
			Bowlers:        map[uint]BowlerStats{101: {Runs: 8, Balls: 3}},
			Dismissed:      []uint{4},
			RecentBalls:    []string{"1", "nb+2"},
			IsFreeHit:      true,
			LastBowlerID:   &last,
			Score:          cricket.Score{Runs: 8, Overs: 0, Balls: 3},
		},
		RecordedAt: at,
	}
}

func TestRepoMatchRoundTrip(t *testing.T) {
	forEachRepo(t, func(t *testing.T, repo MatchRepository) {
		ctx := context.Background()
		m := newStoredMatch(t, repo, ownerID, StatusLive)

		total := 42
		last := uint(101)
		m.AuthorizedUserIDs = []uint{scorerID}
		m.Toss = &Toss{WinnerTeamID: TeamB, Decision: DecisionBowl}
		m.Live = LiveState{
			CurrentInnings:    2,
			BattingTeamID:     TeamB,
			BowlingTeamID:     TeamA,
			StrikerID:         101,
			Batters:           map[uint]BatterStats{101: {Runs: 12, Balls: 9}},
			Bowlers:           map[uint]BowlerStats{1: {Runs: 12, Balls: 9, Wickets: 1}},
			Dismissed:         []uint{102},
			LastBowlerID:      &last,
			FirstInningsTotal: &total,
			Score:             cricket.Score{Runs: 12, Wickets: 1, Overs: 1, Balls: 3},
		}
		m.Result = &MatchResult{Type: ResultWin, WinnerTeamID: TeamA, Margin: &cricket.Margin{Value: 3, Unit: cricket.MarginRuns}}
		require.NoError(t, repo.SaveMatch(ctx, m))
		assert.Equal(t, 1, m.Version)

		got, err := repo.GetMatch(ctx, m.ID)
		require.NoError(t, err)
		assert.Equal(t, m.Live, got.Live)
		assert.Equal(t, m.TeamA, got.TeamA)
		assert.Equal(t, m.Config, got.Config)
		assert.Equal(t, m.Toss, got.Toss)
		assert.Equal(t, m.Result, got.Result)
		assert.Equal(t, []uint{scorerID}, got.AuthorizedUserIDs)
		assert.Equal(t, 1, got.Version)
		assert.Nil(t, got.Live.RecentBalls)

		active, err := repo.GetActiveMatch(ctx, ownerID)
		require.NoError(t, err)
		assert.Equal(t, m.ID, active.ID)

		_, err = repo.GetMatch(ctx, m.ID+100)
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = repo.GetActiveMatch(ctx, strangerID)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestRepoSaveMatchIsCompareAndSwap(t *testing.T) {
	forEachRepo(t, func(t *testing.T, repo MatchRepository) {
		ctx := context.Background()
		m := newStoredMatch(t, repo, ownerID, StatusScheduled)

		a, err := repo.GetMatch(ctx, m.ID)
		require.NoError(t, err)
		b, err := repo.GetMatch(ctx, m.ID)
		require.NoError(t, err)

		a.Config.TotalOvers = 10
		require.NoError(t, repo.SaveMatch(ctx, a))

		b.Config.TotalOvers = 12
		err = repo.SaveMatch(ctx, b)
		assert.ErrorIs(t, err, ErrConflict)
		assert.Equal(t, 0, b.Version)

		got, err := repo.GetMatch(ctx, m.ID)
		require.NoError(t, err)
		assert.Equal(t, 10, got.Config.TotalOvers)
		assert.Equal(t, 1, got.Version)
	})
}

func TestRepoOneLiveMatchPerOwner(t *testing.T) {
	forEachRepo(t, func(t *testing.T, repo MatchRepository) {
		ctx := context.Background()
		newStoredMatch(t, repo, ownerID, StatusLive)
		newStoredMatch(t, repo, ownerID, StatusScheduled)
		newStoredMatch(t, repo, strangerID, StatusLive)

		err := repo.CreateMatch(ctx, &Match{OwnerID: ownerID, Status: StatusLive})
		assert.ErrorIs(t, err, ErrLiveMatchExists)

		scheduled := newStoredMatch(t, repo, ownerID, StatusScheduled)
		scheduled.Status = StatusLive
		err = repo.SaveMatch(ctx, scheduled)
		assert.ErrorIs(t, err, ErrLiveMatchExists)
	})
}

func TestRepoBallLog(t *testing.T) {
	forEachRepo(t, func(t *testing.T, repo MatchRepository) {
		ctx := context.Background()
		m := newStoredMatch(t, repo, ownerID, StatusLive)

		first := storedBall(m.ID, 1, 0, 0, 0, testStart)
		require.NoError(t, repo.AppendBall(ctx, first))
		require.NotZero(t, first.ID)

		second := storedBall(m.ID, 1, 0, 0, 1, testStart.Add(time.Second))
		second.Extras = nil
		second.Wicket = &WicketRecord{Type: cricket.WicketBowled, PlayerID: 1, IsStrikerOut: true, Voided: true}
		require.NoError(t, repo.AppendBall(ctx, second))

		third := storedBall(m.ID, 2, 0, 0, 0, testStart.Add(2*time.Second))
		require.NoError(t, repo.AppendBall(ctx, third))

		dup := storedBall(m.ID, 1, 0, 0, 1, testStart.Add(3*time.Second))
		assert.ErrorIs(t, repo.AppendBall(ctx, dup), ErrConflict)

		n, err := repo.CountBallsAt(ctx, m.ID, 1, 0, 0)
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		got, err := repo.GetBall(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, first.Key(), got.Key())
		assert.Equal(t, first.Extras, got.Extras)
		assert.Nil(t, got.Wicket)
		assert.Equal(t, first.PreBallState, got.PreBallState)
		assert.Equal(t, first.PostBallState, got.PostBallState)
		assert.True(t, first.RecordedAt.Equal(got.RecordedAt))

		last, err := repo.LastBall(ctx, m.ID, 1)
		require.NoError(t, err)
		assert.Equal(t, second.ID, last.ID)
		assert.Equal(t, second.Wicket, last.Wicket)
		assert.Nil(t, last.Extras)

		_, err = repo.LastBall(ctx, m.ID, 3)
		assert.ErrorIs(t, err, ErrNotFound)

		innings1, err := repo.ListBalls(ctx, m.ID, 1)
		require.NoError(t, err)
		require.Len(t, innings1, 2)
		assert.Equal(t, []uint{first.ID, second.ID}, []uint{innings1[0].ID, innings1[1].ID})

		all, err := repo.ListBalls(ctx, m.ID, 0)
		require.NoError(t, err)
		assert.Len(t, all, 3)

		require.NoError(t, repo.DeleteBall(ctx, second.ID))
		assert.ErrorIs(t, repo.DeleteBall(ctx, second.ID), ErrConflict)
		_, err = repo.GetBall(ctx, second.ID)
		assert.ErrorIs(t, err, ErrNotFound)

		last, err = repo.LastBall(ctx, m.ID, 1)
		require.NoError(t, err)
		assert.Equal(t, first.ID, last.ID)
	})
}

func TestRepoTransactionRollsBack(t *testing.T) {
	forEachRepo(t, func(t *testing.T, repo MatchRepository) {
		ctx := context.Background()
		m := newStoredMatch(t, repo, ownerID, StatusLive)
		boom := errors.New("boom")

		err := repo.WithTransaction(ctx, func(tx MatchRepository) error {
			if err := tx.AppendBall(ctx, storedBall(m.ID, 1, 0, 0, 0, testStart)); err != nil {
				return err
			}
			cur, err := tx.GetMatch(ctx, m.ID)
			if err != nil {
				return err
			}
			cur.Live.Score.Runs = 99
			if err := tx.SaveMatch(ctx, cur); err != nil {
				return err
			}
			return boom
		})
		assert.ErrorIs(t, err, boom)

		balls, err := repo.ListBalls(ctx, m.ID, 0)
		require.NoError(t, err)
		assert.Empty(t, balls)

		got, err := repo.GetMatch(ctx, m.ID)
		require.NoError(t, err)
		assert.Zero(t, got.Live.Score.Runs)
		assert.Equal(t, 0, got.Version)
	})
}

func TestScoringOnGormStore(t *testing.T) {
	h := newHarnessWithRepo(t, newGormRepo(t))
	m := h.liveMatch(2, 11)

	seq := []BallInput{
		runs(1),
		noBall(4),
		dismissal(cricket.WicketBowled, true),
		extra(cricket.ExtraWide, 1),
		dismissal(cricket.WicketRunOut, false),
	}
	snapshots := make([]LiveState, 0, len(seq))
	for _, in := range seq {
		snapshots = append(snapshots, m.Live.Clone())
		m = h.record(m.ID, in)
	}
	assert.Equal(t, cricket.Score{Runs: 7, Wickets: 1, Overs: 0, Balls: 3}, m.Live.Score)
	assert.Equal(t, []uint{1}, m.Live.Dismissed)
	assert.Equal(t, uint(2), m.Live.StrikerID)

	stored, err := h.svc.GetMatchByID(context.Background(), m.ID)
	require.NoError(t, err)
	assert.Equal(t, m.Live, stored.Live)
	assert.Equal(t, m.Version, stored.Version)

	for i := len(seq) - 1; i >= 0; i-- {
		m = h.undo(m.ID)
		assert.Equal(t, snapshots[i], m.Live, "after undoing ball %d", i)
	}
	_, err = h.svc.UndoLastBall(as(ownerID), m.ID)
	require.Error(t, err)
}
