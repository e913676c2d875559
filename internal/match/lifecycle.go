package match

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/DhavalSuthar-24/crease/pkg/apperr"
)

// CreateMatchInput defines the request payload for creating a match
type CreateMatchInput struct {
	TeamAName         string `json:"team_a_name" binding:"required,min=1,max=100"`
	TeamBName         string `json:"team_b_name" binding:"required,min=1,max=100"`
	TotalOvers        int    `json:"total_overs" binding:"omitempty,min=1,max=50"`
	WideRuns          *int   `json:"wide_runs,omitempty" binding:"omitempty,min=0,max=5"`
	NoBallRuns        *int   `json:"no_ball_runs,omitempty" binding:"omitempty,min=0,max=5"`
	AuthorizedUserIDs []uint `json:"authorized_user_ids,omitempty"`
}

// TossInput defines the request payload for recording the toss
type TossInput struct {
	WinnerTeamID TeamID       `json:"winner_team_id" binding:"required,oneof=team_a team_b"`
	Decision     TossDecision `json:"decision" binding:"required,oneof=bat bowl"`
}

// Openers are the two batters and the bowler who begin an innings.
type Openers struct {
	StrikerID    uint `json:"striker_id" binding:"required"`
	NonStrikerID uint `json:"non_striker_id" binding:"required"`
	BowlerID     uint `json:"bowler_id" binding:"required"`
}

type BatterSlot string

const (
	SlotStriker    BatterSlot = "striker"
	SlotNonStriker BatterSlot = "non_striker"
)

// mutate runs fn on a freshly loaded, authorized match and persists it.
func (s *MatchService) mutate(ctx context.Context, op string, matchID uint, fn func(tx MatchRepository, m *Match) error) (*Match, error) {
	user, err := s.currentUser(ctx)
	if err != nil {
		return nil, err
	}
	var updated *Match
	err = s.runTx(ctx, op, func(tx MatchRepository) error {
		m, err := loadForScoring(ctx, tx, matchID, user.ID)
		if err != nil {
			return err
		}
		if err := fn(tx, m); err != nil {
			return err
		}
		if err := tx.SaveMatch(ctx, m); err != nil {
			return err
		}
		updated = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.notify(ctx, Update{Kind: UpdateLifecycle, Match: updated})
	return updated, nil
}

// ensureNoLiveMatch enforces one live match per owner inside tx.
func ensureNoLiveMatch(ctx context.Context, tx MatchRepository, ownerID, except uint) error {
	live, err := tx.GetActiveMatch(ctx, ownerID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return err
	}
	if live.ID == except {
		return nil
	}
	return apperr.RuleViolation("user %d already has live match %d", ownerID, live.ID)
}

// CreateMatch creates a scheduled match owned by the caller.
func (s *MatchService) CreateMatch(ctx context.Context, in CreateMatchInput) (*Match, error) {
	user, err := s.currentUser(ctx)
	if err != nil {
		return nil, err
	}
	cfg := MatchConfig{
		TotalOvers: in.TotalOvers,
		WideRuns:   s.opts.DefaultWideRuns,
		NoBallRuns: s.opts.DefaultNoBallRuns,
	}
	if cfg.TotalOvers <= 0 {
		cfg.TotalOvers = s.opts.DefaultOvers
	}
	if in.WideRuns != nil {
		cfg.WideRuns = *in.WideRuns
	}
	if in.NoBallRuns != nil {
		cfg.NoBallRuns = *in.NoBallRuns
	}
	a, b := strings.TrimSpace(in.TeamAName), strings.TrimSpace(in.TeamBName)
	if a == "" || b == "" {
		return nil, apperr.RuleViolation("both teams need a name")
	}
	if strings.EqualFold(a, b) {
		return nil, apperr.RuleViolation("teams must have different names")
	}

	m := &Match{
		OwnerID:           user.ID,
		AuthorizedUserIDs: dedupeIDs(in.AuthorizedUserIDs, user.ID),
		Status:            StatusScheduled,
		Config:            cfg,
		TeamA:             Team{ID: TeamA, Name: a},
		TeamB:             Team{ID: TeamB, Name: b},
	}
	return s.insertMatch(ctx, "create match", m)
}

func (s *MatchService) insertMatch(ctx context.Context, op string, m *Match) (*Match, error) {
	var created *Match
	err := s.runTx(ctx, op, func(tx MatchRepository) error {
		if err := ensureNoLiveMatch(ctx, tx, m.OwnerID, 0); err != nil {
			return err
		}
		c := m.Clone()
		if err := tx.CreateMatch(ctx, c); err != nil {
			return err
		}
		created = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Printf("Match %d created by user %d (%s vs %s, %d overs)", created.ID, created.OwnerID, created.TeamA.Name, created.TeamB.Name, created.Config.TotalOvers)
	s.notify(ctx, Update{Kind: UpdateLifecycle, Match: created})
	return created, nil
}

func dedupeIDs(ids []uint, skip uint) []uint {
	seen := map[uint]bool{skip: true, 0: true}
	out := []uint{}
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

// RecordToss stores the toss and derives who bats first. It can be
// re-recorded until the match starts.
func (s *MatchService) RecordToss(ctx context.Context, matchID uint, in TossInput) (*Match, error) {
	return s.mutate(ctx, "record toss", matchID, func(_ MatchRepository, m *Match) error {
		if err := requireStatus(m, StatusScheduled); err != nil {
			return err
		}
		if !in.WinnerTeamID.Valid() {
			return apperr.RuleViolation("unknown team %q", in.WinnerTeamID)
		}
		if in.Decision != DecisionBat && in.Decision != DecisionBowl {
			return apperr.RuleViolation("toss decision must be bat or bowl")
		}
		toss := Toss{WinnerTeamID: in.WinnerTeamID, Decision: in.Decision}
		m.Toss = &toss
		m.Live.BattingTeamID = toss.BattingFirst()
		m.Live.BowlingTeamID = m.Live.BattingTeamID.Other()
		return nil
	})
}

// AddPlayerToSquad drafts a pool player into one side.
func (s *MatchService) AddPlayerToSquad(ctx context.Context, matchID uint, teamID TeamID, playerID uint) (*Match, error) {
	if !teamID.Valid() {
		return nil, apperr.RuleViolation("unknown team %q", teamID)
	}
	if s.players == nil {
		return nil, apperr.InvalidState("player pool is not available")
	}
	name, err := s.players.PlayerName(ctx, playerID)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, "add player to squad", matchID, func(_ MatchRepository, m *Match) error {
		if err := requireStatus(m, StatusScheduled); err != nil {
			return err
		}
		if m.TeamA.Has(playerID) || m.TeamB.Has(playerID) {
			return apperr.RuleViolation("player %d is already in a squad for this match", playerID)
		}
		team := m.Team(teamID)
		team.Players = append(team.Players, PlayerRef{ID: playerID, Name: name})
		return nil
	})
}

// RemovePlayerFromSquad drops a player from one side before the start.
func (s *MatchService) RemovePlayerFromSquad(ctx context.Context, matchID uint, teamID TeamID, playerID uint) (*Match, error) {
	if !teamID.Valid() {
		return nil, apperr.RuleViolation("unknown team %q", teamID)
	}
	return s.mutate(ctx, "remove player from squad", matchID, func(_ MatchRepository, m *Match) error {
		if err := requireStatus(m, StatusScheduled); err != nil {
			return err
		}
		team := m.Team(teamID)
		for i, p := range team.Players {
			if p.ID == playerID {
				team.Players = append(team.Players[:i:i], team.Players[i+1:]...)
				return nil
			}
		}
		return apperr.NotFound("player %d is not in %s", playerID, team.Name)
	})
}

// openInnings resets the live state for a new innings with the given
// openers. Batting and bowling sides must already be set on st.
func openInnings(m *Match, st LiveState, o Openers) (LiveState, error) {
	batting, bowling := m.Team(st.BattingTeamID), m.Team(st.BowlingTeamID)
	if len(batting.Players) < 2 {
		return st, apperr.RuleViolation("%s needs at least two players to bat", batting.Name)
	}
	if len(bowling.Players) < 1 {
		return st, apperr.RuleViolation("%s has no players to bowl", bowling.Name)
	}
	if o.StrikerID == o.NonStrikerID {
		return st, apperr.RuleViolation("striker and non-striker must be different players")
	}
	if !batting.Has(o.StrikerID) || !batting.Has(o.NonStrikerID) {
		return st, apperr.RuleViolation("opening batters must come from %s", batting.Name)
	}
	if !bowling.Has(o.BowlerID) {
		return st, apperr.RuleViolation("opening bowler must come from %s", bowling.Name)
	}
	st.StrikerID = o.StrikerID
	st.NonStrikerID = o.NonStrikerID
	st.BowlerID = o.BowlerID
	st.Score.Runs, st.Score.Wickets, st.Score.Overs, st.Score.Balls = 0, 0, 0, 0
	st.Batters = map[uint]BatterStats{o.StrikerID: {}, o.NonStrikerID: {}}
	st.Bowlers = map[uint]BowlerStats{o.BowlerID: {}}
	st.Dismissed = nil
	st.RecentBalls = nil
	st.IsFreeHit = false
	st.LastBowlerID = nil
	return st, nil
}

// StartMatch selects the openers and puts the match live.
func (s *MatchService) StartMatch(ctx context.Context, matchID uint, o Openers) (*Match, error) {
	m, err := s.mutate(ctx, "start match", matchID, func(tx MatchRepository, m *Match) error {
		if err := requireStatus(m, StatusScheduled); err != nil {
			return err
		}
		if m.Toss == nil {
			return apperr.RuleViolation("the toss must be recorded before the match starts")
		}
		if len(m.TeamA.Players) == 0 || len(m.TeamB.Players) == 0 {
			return apperr.RuleViolation("both squads need players before the match starts")
		}
		if err := ensureNoLiveMatch(ctx, tx, m.OwnerID, m.ID); err != nil {
			return err
		}
		st := LiveState{
			CurrentInnings:     1,
			BattingTeamID:      m.Toss.BattingFirst(),
			FirstBattingTeamID: m.Toss.BattingFirst(),
		}
		st.BowlingTeamID = st.BattingTeamID.Other()
		st, err := openInnings(m, st, o)
		if err != nil {
			return err
		}
		m.Live = st
		m.Status = StatusLive
		startedAt := s.clock().UTC()
		m.StartedAt = &startedAt
		return nil
	})
	if err == nil {
		log.Printf("Match %d started: %s batting first", m.ID, m.Team(m.Live.BattingTeamID).Name)
	}
	return m, err
}

// SwitchToSecondInnings closes the first innings and opens the chase.
func (s *MatchService) SwitchToSecondInnings(ctx context.Context, matchID uint, o Openers) (*Match, error) {
	m, err := s.mutate(ctx, "switch innings", matchID, func(_ MatchRepository, m *Match) error {
		if err := requireStatus(m, StatusLive); err != nil {
			return err
		}
		if m.Live.CurrentInnings != 1 {
			return apperr.InvalidState("match %d is already in the second innings", m.ID)
		}
		first := m.Live
		total := first.Score.Runs
		st := LiveState{
			CurrentInnings:      2,
			BattingTeamID:       first.BowlingTeamID,
			BowlingTeamID:       first.BattingTeamID,
			FirstInningsTotal:   &total,
			FirstBattingTeamID:  first.BattingTeamID,
			SecondBattingTeamID: first.BowlingTeamID,
		}
		st, err := openInnings(m, st, o)
		if err != nil {
			return err
		}
		m.Live = st
		return nil
	})
	if err == nil {
		log.Printf("Match %d: second innings started, target %d", m.ID, *m.Live.FirstInningsTotal+1)
	}
	return m, err
}

// ChangeBowler sets who bowls the next delivery. The bowler of the
// previous over is refused.
func (s *MatchService) ChangeBowler(ctx context.Context, matchID, bowlerID uint) (*Match, error) {
	return s.mutate(ctx, "change bowler", matchID, func(_ MatchRepository, m *Match) error {
		if err := requireStatus(m, StatusLive); err != nil {
			return err
		}
		st := &m.Live
		if !m.Team(st.BowlingTeamID).Has(bowlerID) {
			return apperr.RuleViolation("player %d is not in the bowling side", bowlerID)
		}
		if st.LastBowlerID != nil && *st.LastBowlerID == bowlerID {
			return apperr.RuleViolation("player %d bowled the previous over", bowlerID)
		}
		st.BowlerID = bowlerID
		if st.Bowlers == nil {
			st.Bowlers = make(map[uint]BowlerStats)
		}
		if _, ok := st.Bowlers[bowlerID]; !ok {
			st.Bowlers[bowlerID] = BowlerStats{}
		}
		return nil
	})
}

// SelectBatter fills an empty crease slot after a dismissal.
func (s *MatchService) SelectBatter(ctx context.Context, matchID uint, slot BatterSlot, playerID uint) (*Match, error) {
	return s.mutate(ctx, "select batter", matchID, func(_ MatchRepository, m *Match) error {
		if err := requireStatus(m, StatusLive); err != nil {
			return err
		}
		st := &m.Live
		var target, other *uint
		switch slot {
		case SlotStriker:
			target, other = &st.StrikerID, &st.NonStrikerID
		case SlotNonStriker:
			target, other = &st.NonStrikerID, &st.StrikerID
		default:
			return apperr.RuleViolation("unknown batter slot %q", slot)
		}
		if *target != 0 {
			return apperr.RuleViolation("the %s slot is already occupied", slot)
		}
		if !m.Team(st.BattingTeamID).Has(playerID) {
			return apperr.RuleViolation("player %d is not in the batting side", playerID)
		}
		if st.IsDismissed(playerID) {
			return apperr.RuleViolation("player %d is already out", playerID)
		}
		if *other == playerID {
			return apperr.RuleViolation("player %d is already batting", playerID)
		}
		*target = playerID
		if st.Batters == nil {
			st.Batters = make(map[uint]BatterStats)
		}
		if _, ok := st.Batters[playerID]; !ok {
			st.Batters[playerID] = BatterStats{}
		}
		return nil
	})
}

// EndMatch stops a live match without a computed result.
func (s *MatchService) EndMatch(ctx context.Context, matchID uint) (*Match, error) {
	return s.mutate(ctx, "end match", matchID, func(_ MatchRepository, m *Match) error {
		if err := requireStatus(m, StatusLive); err != nil {
			return err
		}
		m.Status = StatusCompleted
		m.Result = nil
		completedAt := s.clock().UTC()
		m.CompletedAt = &completedAt
		return nil
	})
}

// AbandonMatch marks a scheduled or live match as abandoned.
func (s *MatchService) AbandonMatch(ctx context.Context, matchID uint) (*Match, error) {
	return s.mutate(ctx, "abandon match", matchID, func(_ MatchRepository, m *Match) error {
		if err := requireStatus(m, StatusScheduled, StatusLive); err != nil {
			return err
		}
		m.Status = StatusAbandoned
		completedAt := s.clock().UTC()
		m.CompletedAt = &completedAt
		return nil
	})
}

// AuthorizeUser lets another user score the match. Only the owner may
// grant access.
func (s *MatchService) AuthorizeUser(ctx context.Context, matchID, userID uint) (*Match, error) {
	caller, err := s.currentUser(ctx)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, "authorize user", matchID, func(_ MatchRepository, m *Match) error {
		if m.OwnerID != caller.ID {
			return apperr.PermissionDenied("only the owner can authorize scorers")
		}
		m.AuthorizedUserIDs = dedupeIDs(append(m.AuthorizedUserIDs, userID), m.OwnerID)
		return nil
	})
}

// CreateRematch schedules a new match between the same squads.
func (s *MatchService) CreateRematch(ctx context.Context, matchID uint, totalOvers int) (*Match, error) {
	user, err := s.currentUser(ctx)
	if err != nil {
		return nil, err
	}
	src, err := s.GetMatchByID(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if !src.CanScore(user.ID) {
		return nil, apperr.PermissionDenied("user %d may not use match %d", user.ID, matchID)
	}
	if err := requireStatus(src, StatusCompleted); err != nil {
		return nil, err
	}
	if totalOvers <= 0 {
		totalOvers = src.Config.TotalOvers
	}
	cfg := src.Config
	cfg.TotalOvers = totalOvers

	base := src.Clone()
	rematchOf := src.ID
	m := &Match{
		OwnerID:           user.ID,
		AuthorizedUserIDs: dedupeIDs(append(base.AuthorizedUserIDs, src.OwnerID), user.ID),
		Status:            StatusScheduled,
		Config:            cfg,
		TeamA:             base.TeamA,
		TeamB:             base.TeamB,
		RematchOf:         &rematchOf,
	}
	return s.insertMatch(ctx, "create rematch", m)
}
