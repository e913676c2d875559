package match

import (
	"context"
	"errors"
	"log"

	"github.com/DhavalSuthar-24/crease/pkg/apperr"
)

// UndoLastBall reverses the most recent delivery of the innings in
// progress by restoring the state captured before it. Only one step is
// undone per call.
func (s *MatchService) UndoLastBall(ctx context.Context, matchID uint) (*Match, error) {
	user, err := s.currentUser(ctx)
	if err != nil {
		return nil, err
	}

	var (
		updated *Match
		undone  *BallEvent
	)
	err = s.runTx(ctx, "undo last ball", func(tx MatchRepository) error {
		m, err := loadForScoring(ctx, tx, matchID, user.ID)
		if err != nil {
			return err
		}
		if m.Status != StatusLive && m.Status != StatusCompleted {
			return apperr.InvalidState("match %d is %s", m.ID, m.Status)
		}

		e, err := tx.LastBall(ctx, m.ID, m.Live.CurrentInnings)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return apperr.New(apperr.KindEmptyLog, "nothing to undo")
			}
			return err
		}
		if m.Status == StatusCompleted && !e.CompletedMatch {
			return apperr.InvalidState("match %d was ended by the scorer and cannot be undone", m.ID)
		}

		restored := e.PreBallState.Clone()
		if restored.AtOverBoundary() {
			restored.LastBowlerID = nil
		}
		m.Live = restored
		if e.CompletedMatch {
			m.Status = StatusLive
			m.Result = nil
			m.CompletedAt = nil
		}

		// A concurrent undo that already removed e turns this into a
		// conflict, and the retry works on the new tail.
		if err := tx.DeleteBall(ctx, e.ID); err != nil {
			return err
		}
		if err := tx.SaveMatch(ctx, m); err != nil {
			return err
		}
		updated, undone = m, e
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("Match %d: undid ball %s", updated.ID, undone.Key())
	s.notify(ctx, Update{Kind: UpdateBallUndone, Match: updated, Ball: undone})
	return updated, nil
}
