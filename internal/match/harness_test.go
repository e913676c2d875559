package match

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/DhavalSuthar-24/crease/internal/cricket"
	"github.com/DhavalSuthar-24/crease/internal/identity"
	"github.com/DhavalSuthar-24/crease/pkg/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	ownerID    uint = 1
	scorerID   uint = 2
	strangerID uint = 3
)

var testStart = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

// fakePlayers serves players 1-15 (Lions pool) and 101-115 (Tigers pool).
type fakePlayers map[uint]string

func newFakePlayers() fakePlayers {
	p := fakePlayers{}
	for i := uint(1); i <= 15; i++ {
		p[i] = fmt.Sprintf("Lion %d", i)
		p[100+i] = fmt.Sprintf("Tiger %d", i)
	}
	return p
}

func (f fakePlayers) PlayerName(_ context.Context, id uint) (string, error) {
	name, ok := f[id]
	if !ok {
		return "", apperr.NotFound("player %d not found", id)
	}
	return name, nil
}

type recordingNotifier struct {
	mu      sync.Mutex
	updates []Update
}

func (r *recordingNotifier) MatchUpdated(_ context.Context, u Update) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updates = append(r.updates, u)
}

func (r *recordingNotifier) kinds() []UpdateKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]UpdateKind, 0, len(r.updates))
	for _, u := range r.updates {
		out = append(out, u.Kind)
	}
	return out
}

type harness struct {
	t     *testing.T
	svc   *MatchService
	notes *recordingNotifier
}

func newHarness(t *testing.T) *harness {
	return newHarnessWithRepo(t, NewMemoryMatchRepository())
}

func newHarnessWithRepo(t *testing.T, repo MatchRepository) *harness {
	t.Helper()
	notes := &recordingNotifier{}
	opts := DefaultOptions()
	opts.RetryBackoff = 0
	svc := NewMatchService(repo, newFakePlayers(), identity.ContextProvider{}, notes, opts)

	var mu sync.Mutex
	tick := testStart
	svc.clock = func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		tick = tick.Add(time.Second)
		return tick
	}
	return &harness{t: t, svc: svc, notes: notes}
}

func as(userID uint) context.Context {
	return identity.WithUser(context.Background(), identity.User{ID: userID})
}

// scheduledMatch creates Lions (team_a, players 1..squad) against Tigers
// (team_b, players 101..100+squad) with the toss won by Lions, who bat.
func (h *harness) scheduledMatch(overs, squad int) *Match {
	h.t.Helper()
	ctx := as(ownerID)
	m, err := h.svc.CreateMatch(ctx, CreateMatchInput{TeamAName: "Lions", TeamBName: "Tigers", TotalOvers: overs})
	require.NoError(h.t, err)
	_, err = h.svc.RecordToss(ctx, m.ID, TossInput{WinnerTeamID: TeamA, Decision: DecisionBat})
	require.NoError(h.t, err)
	for i := 1; i <= squad; i++ {
		_, err = h.svc.AddPlayerToSquad(ctx, m.ID, TeamA, uint(i))
		require.NoError(h.t, err)
		_, err = h.svc.AddPlayerToSquad(ctx, m.ID, TeamB, uint(100+i))
		require.NoError(h.t, err)
	}
	m, err = h.svc.GetMatchByID(ctx, m.ID)
	require.NoError(h.t, err)
	return m
}

// liveMatch starts a scheduled match with 1 and 2 opening against 101.
func (h *harness) liveMatch(overs, squad int) *Match {
	h.t.Helper()
	m := h.scheduledMatch(overs, squad)
	m, err := h.svc.StartMatch(as(ownerID), m.ID, Openers{StrikerID: 1, NonStrikerID: 2, BowlerID: 101})
	require.NoError(h.t, err)
	return m
}

func (h *harness) record(matchID uint, in BallInput) *Match {
	h.t.Helper()
	m, err := h.svc.RecordBall(as(ownerID), matchID, in)
	require.NoError(h.t, err)
	return m
}

func (h *harness) undo(matchID uint) *Match {
	h.t.Helper()
	m, err := h.svc.UndoLastBall(as(ownerID), matchID)
	require.NoError(h.t, err)
	return m
}

// patchLive rewrites the stored live state directly, for scenarios that
// would otherwise need hundreds of deliveries.
func (h *harness) patchLive(matchID uint, fn func(*LiveState)) *Match {
	h.t.Helper()
	var out *Match
	err := h.svc.repo.WithTransaction(context.Background(), func(tx MatchRepository) error {
		m, err := tx.GetMatch(context.Background(), matchID)
		if err != nil {
			return err
		}
		fn(&m.Live)
		if err := tx.SaveMatch(context.Background(), m); err != nil {
			return err
		}
		out = m
		return nil
	})
	require.NoError(h.t, err)
	return out
}

func assertKind(t *testing.T, err error, kind apperr.Kind) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, kind, apperr.KindOf(err), "error: %v", err)
}

func runs(n int) BallInput {
	return BallInput{RunsOffBat: n}
}

func extra(t cricket.ExtraType, n int) BallInput {
	return BallInput{Extras: &ExtrasInput{Type: t, Runs: &n}}
}

func noBall(offBat int) BallInput {
	return BallInput{RunsOffBat: offBat, Extras: &ExtrasInput{Type: cricket.ExtraNoBall}}
}

func dismissal(t cricket.WicketType, strikerOut bool) BallInput {
	return BallInput{Wicket: &WicketInput{Type: t, IsStrikerOut: &strikerOut}}
}
