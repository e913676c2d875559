package match

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/DhavalSuthar-24/crease/internal/cricket"
	"github.com/DhavalSuthar-24/crease/pkg/apperr"
)

const recentBallsKept = 6

// delivery is the computed effect of one ball on a LiveState.
type delivery struct {
	post          LiveState
	extras        *cricket.Extras
	wicket        *WicketRecord
	legal         bool
	overCompleted bool
}

// checkCanBowl enforces the preconditions for another delivery.
func checkCanBowl(m *Match) error {
	if err := requireStatus(m, StatusLive); err != nil {
		return err
	}
	s := m.Live
	battingSquad := len(m.Team(s.BattingTeamID).Players)
	if s.Score.Overs >= m.Config.TotalOvers {
		return apperr.RuleViolation("innings complete: all %d overs bowled", m.Config.TotalOvers)
	}
	if s.Score.Wickets >= cricket.MaxWickets(battingSquad) {
		return apperr.RuleViolation("innings complete: %d wickets down", s.Score.Wickets)
	}
	if s.StrikerID == 0 || s.NonStrikerID == 0 {
		return apperr.RuleViolation("a new batter must be selected before the next delivery")
	}
	if s.BowlerID == 0 {
		return apperr.RuleViolation("a bowler must be selected before the next delivery")
	}
	if s.IsDismissed(s.StrikerID) || s.IsDismissed(s.NonStrikerID) {
		return apperr.RuleViolation("a dismissed batter is still at the crease")
	}
	if s.LastBowlerID != nil && *s.LastBowlerID == s.BowlerID {
		if s.AtOverBoundary() {
			return apperr.RuleViolation("over complete: choose a new bowler")
		}
		return apperr.RuleViolation("bowler %d cannot bowl consecutive overs", s.BowlerID)
	}
	return nil
}

// normalizeExtras validates the extras part of a ball and fills in the
// configured default runs.
func normalizeExtras(cfg MatchConfig, runsOffBat int, in *ExtrasInput) (*cricket.Extras, error) {
	if in == nil {
		return nil, nil
	}
	if !in.Type.Valid() {
		return nil, apperr.RuleViolation("unknown extra type %q", in.Type)
	}
	out := &cricket.Extras{Type: in.Type}
	switch {
	case in.Runs != nil:
		out.Runs = *in.Runs
	case in.Type == cricket.ExtraWide:
		out.Runs = cfg.WideRuns
	case in.Type == cricket.ExtraNoBall:
		out.Runs = cfg.NoBallRuns
	default:
		return nil, apperr.RuleViolation("runs are required for %s", in.Type)
	}
	if out.Runs < 0 {
		return nil, apperr.RuleViolation("extra runs cannot be negative")
	}
	if runsOffBat > 0 && in.Type != cricket.ExtraNoBall {
		return nil, apperr.RuleViolation("runs off the bat cannot be scored from a %s", in.Type)
	}
	return out, nil
}

// resolveWicket works out who is out. The end must be stated explicitly.
func resolveWicket(s LiveState, in *WicketInput) (*WicketRecord, error) {
	if in == nil {
		return nil, nil
	}
	if !in.Type.Valid() {
		return nil, apperr.RuleViolation("unknown dismissal type %q", in.Type)
	}
	if in.IsStrikerOut == nil {
		return nil, apperr.RuleViolation("is_striker_out must say which batter is out")
	}
	out := s.NonStrikerID
	if *in.IsStrikerOut {
		out = s.StrikerID
	}
	if in.PlayerID != 0 && in.PlayerID != out {
		return nil, apperr.RuleViolation("player %d is not the batter at that end", in.PlayerID)
	}
	if s.IsDismissed(out) {
		return nil, apperr.RuleViolation("player %d is already out", out)
	}
	return &WicketRecord{Type: in.Type, PlayerID: out, IsStrikerOut: *in.IsStrikerOut}, nil
}

// computeDelivery applies one ball to a copy of pre. pre itself is never
// modified.
func computeDelivery(cfg MatchConfig, pre LiveState, in BallInput) (delivery, error) {
	if in.RunsOffBat < 0 {
		return delivery{}, apperr.RuleViolation("runs off the bat cannot be negative")
	}
	extras, err := normalizeExtras(cfg, in.RunsOffBat, in.Extras)
	if err != nil {
		return delivery{}, err
	}
	wicket, err := resolveWicket(pre, in.Wicket)
	if err != nil {
		return delivery{}, err
	}

	d := delivery{post: pre.Clone(), extras: extras, wicket: wicket, legal: cricket.IsLegal(extras)}
	post := &d.post
	if post.Batters == nil {
		post.Batters = make(map[uint]BatterStats)
	}
	if post.Bowlers == nil {
		post.Bowlers = make(map[uint]BowlerStats)
	}

	total := cricket.TotalRuns(in.RunsOffBat, extras)
	post.Score.Runs += total
	if d.legal {
		post.Score, d.overCompleted = cricket.AdvanceBall(post.Score)
	}

	batter := post.Batters[pre.StrikerID]
	batter.Runs += in.RunsOffBat
	bowler := post.Bowlers[pre.BowlerID]
	bowler.Runs += cricket.CreditedToBowler(extras, total)
	if d.legal {
		batter.Balls++
		bowler.Balls++
	}

	if wicket != nil {
		if pre.IsFreeHit && !cricket.DismissalAllowedOnFreeHit(wicket.Type) {
			wicket.Voided = true
		} else {
			post.Score.Wickets++
			post.addDismissed(wicket.PlayerID)
			if wicket.IsStrikerOut {
				post.StrikerID = 0
			} else {
				post.NonStrikerID = 0
			}
			if cricket.WicketCreditedToBowler(wicket.Type) {
				bowler.Wickets++
			}
		}
	}
	post.Batters[pre.StrikerID] = batter
	post.Bowlers[pre.BowlerID] = bowler

	if d.overCompleted {
		id := pre.BowlerID
		post.LastBowlerID = &id
	}
	if post.StrikerID != 0 && post.NonStrikerID != 0 && cricket.ShouldRotateStrike(in.RunsOffBat, d.overCompleted) {
		post.StrikerID, post.NonStrikerID = post.NonStrikerID, post.StrikerID
	}
	post.IsFreeHit = cricket.IsFreeHit(extras)

	post.RecentBalls = append(post.RecentBalls, ballLabel(in.RunsOffBat, extras, wicket))
	if n := len(post.RecentBalls); n > recentBallsKept {
		post.RecentBalls = append([]string{}, post.RecentBalls[n-recentBallsKept:]...)
	}
	return d, nil
}

func ballLabel(runsOffBat int, extras *cricket.Extras, wicket *WicketRecord) string {
	label := fmt.Sprintf("%d", runsOffBat)
	if extras != nil {
		switch extras.Type {
		case cricket.ExtraWide:
			label = fmt.Sprintf("%dwd", extras.Runs)
		case cricket.ExtraNoBall:
			label = "nb"
			if runsOffBat > 0 {
				label = fmt.Sprintf("nb+%d", runsOffBat)
			}
		case cricket.ExtraBye:
			label = fmt.Sprintf("%db", extras.Runs)
		case cricket.ExtraLegBye:
			label = fmt.Sprintf("%dlb", extras.Runs)
		}
	}
	if wicket != nil && !wicket.Voided {
		if label == "0" {
			return "W"
		}
		return label + "W"
	}
	return label
}

// resultFor decides a second innings. It returns nil while the chase is
// open or during the first innings.
func resultFor(m *Match, s LiveState) *MatchResult {
	if s.CurrentInnings != 2 || s.FirstInningsTotal == nil {
		return nil
	}
	out := cricket.DetermineResult(cricket.Chase{
		FirstInningsTotal: *s.FirstInningsTotal,
		Score:             s.Score,
		TotalOvers:        m.Config.TotalOvers,
		SquadSize:         len(m.Team(s.BattingTeamID).Players),
	})
	if !out.Determined {
		return nil
	}
	res := &MatchResult{
		FirstInningsTotal:  *s.FirstInningsTotal,
		SecondInningsTotal: s.Score.Runs,
	}
	if out.Tie {
		res.Type = ResultTie
		return res
	}
	res.Type = ResultWin
	if out.ChaserWon {
		res.WinnerTeamID, res.LoserTeamID = s.BattingTeamID, s.BowlingTeamID
	} else {
		res.WinnerTeamID, res.LoserTeamID = s.BowlingTeamID, s.BattingTeamID
	}
	margin := out.Margin
	res.Margin = &margin
	res.MarginText = fmt.Sprintf("%s won by %s", m.Team(res.WinnerTeamID).Name, margin)
	return res
}

// RecordBall appends one delivery to the log and applies it to the live
// state in a single transaction.
func (s *MatchService) RecordBall(ctx context.Context, matchID uint, in BallInput) (*Match, error) {
	user, err := s.currentUser(ctx)
	if err != nil {
		return nil, err
	}

	var (
		updated *Match
		event   *BallEvent
	)
	err = s.runTx(ctx, "record ball", func(tx MatchRepository) error {
		m, err := loadForScoring(ctx, tx, matchID, user.ID)
		if err != nil {
			return err
		}
		if err := checkCanBowl(m); err != nil {
			return err
		}

		pre := m.Live.Clone()
		d, err := computeDelivery(m.Config, pre, in)
		if err != nil {
			return err
		}

		e := &BallEvent{
			MatchID:       m.ID,
			Innings:       pre.CurrentInnings,
			Over:          pre.Score.Overs,
			BallInOver:    pre.Score.Balls,
			BowlerID:      pre.BowlerID,
			StrikerID:     pre.StrikerID,
			RunsOffBat:    in.RunsOffBat,
			Extras:        d.extras,
			Wicket:        d.wicket,
			FreeHit:       pre.IsFreeHit,
			PreBallState:  pre,
			PostBallState: d.post.Clone(),
		}
		if e.Sequence, err = tx.CountBallsAt(ctx, m.ID, e.Innings, e.Over, e.BallInOver); err != nil {
			return err
		}
		if e.RecordedAt, err = s.nextTimestamp(ctx, tx, m.ID, e.Innings); err != nil {
			return err
		}

		m.Live = d.post
		if res := resultFor(m, d.post); res != nil {
			m.Status = StatusCompleted
			m.Result = res
			completedAt := e.RecordedAt
			m.CompletedAt = &completedAt
			e.CompletedMatch = true
		}

		if err := tx.AppendBall(ctx, e); err != nil {
			return err
		}
		if err := tx.SaveMatch(ctx, m); err != nil {
			return err
		}
		updated, event = m, e
		return nil
	})
	if err != nil {
		return nil, err
	}

	if event.CompletedMatch {
		log.Printf("Match %d completed at ball %s: %s", updated.ID, event.Key(), updated.Result.MarginText)
	}
	s.notify(ctx, Update{Kind: UpdateBallRecorded, Match: updated, Ball: event})
	return updated, nil
}

// nextTimestamp keeps log order strictly increasing even if the clock
// steps backwards between writers.
func (s *MatchService) nextTimestamp(ctx context.Context, tx MatchRepository, matchID uint, innings int) (time.Time, error) {
	ts := s.clock().UTC()
	last, err := tx.LastBall(ctx, matchID, innings)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ts, nil
		}
		return time.Time{}, err
	}
	if !ts.After(last.RecordedAt) {
		ts = last.RecordedAt.Add(time.Microsecond)
	}
	return ts, nil
}
