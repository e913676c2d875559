package match

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/DhavalSuthar-24/crease/internal/identity"
	"github.com/DhavalSuthar-24/crease/pkg/apperr"
)

var now = time.Now

// Options tunes the scoring service.
type Options struct {
	DefaultOvers      int
	DefaultWideRuns   int
	DefaultNoBallRuns int
	// MaxRetries is how many times a conflicting transaction is re-run
	// before Conflict is surfaced.
	MaxRetries   int
	RetryBackoff time.Duration
}

// DefaultOptions mirrors the configuration defaults.
func DefaultOptions() Options {
	return Options{
		DefaultOvers:      20,
		DefaultWideRuns:   1,
		DefaultNoBallRuns: 1,
		MaxRetries:        5,
		RetryBackoff:      20 * time.Millisecond,
	}
}

// PlayerDirectory resolves players from the shared pool.
type PlayerDirectory interface {
	PlayerName(ctx context.Context, id uint) (string, error)
}

type UpdateKind string

const (
	UpdateBallRecorded UpdateKind = "ball_recorded"
	UpdateBallUndone   UpdateKind = "ball_undone"
	UpdateLifecycle    UpdateKind = "lifecycle"
)

// Update describes a committed change to a match.
type Update struct {
	Kind  UpdateKind `json:"kind"`
	Match *Match     `json:"match"`
	Ball  *BallEvent `json:"ball,omitempty"`
}

// Notifier is told about every committed change. It is never called for
// a rolled back transaction.
type Notifier interface {
	MatchUpdated(ctx context.Context, u Update)
}

// Notifiers fans one update out to several notifiers in order.
type Notifiers []Notifier

func (ns Notifiers) MatchUpdated(ctx context.Context, u Update) {
	for _, n := range ns {
		if n != nil {
			n.MatchUpdated(ctx, u)
		}
	}
}

// MatchService runs every match operation inside a repository transaction.
type MatchService struct {
	repo     MatchRepository
	players  PlayerDirectory
	ident    identity.Provider
	notifier Notifier
	opts     Options
	clock    func() time.Time
}

func NewMatchService(repo MatchRepository, players PlayerDirectory, ident identity.Provider, notifier Notifier, opts Options) *MatchService {
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	return &MatchService{
		repo:     repo,
		players:  players,
		ident:    ident,
		notifier: notifier,
		opts:     opts,
		clock:    now,
	}
}

// runTx re-runs fn from scratch whenever the store reports a write
// conflict. fn must not keep state across attempts.
func (s *MatchService) runTx(ctx context.Context, op string, fn func(MatchRepository) error) error {
	var err error
	for attempt := 0; attempt <= s.opts.MaxRetries; attempt++ {
		err = s.repo.WithTransaction(ctx, fn)
		if !errors.Is(err, ErrConflict) {
			return translateRepoError(op, err)
		}
		log.Printf("%s: write conflict, retrying (attempt %d/%d)", op, attempt+1, s.opts.MaxRetries)
		if s.opts.RetryBackoff > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(s.opts.RetryBackoff * time.Duration(attempt+1)):
			}
		}
	}
	return apperr.Wrap(apperr.KindConflict, err, op+": transaction retries exhausted")
}

func translateRepoError(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case apperr.KindOf(err) != apperr.KindUnknown:
		return err
	case errors.Is(err, ErrNotFound):
		return apperr.Wrap(apperr.KindNotFound, err, op)
	case errors.Is(err, ErrLiveMatchExists):
		return apperr.Wrap(apperr.KindRuleViolation, err, op)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func (s *MatchService) currentUser(ctx context.Context) (identity.User, error) {
	if s.ident == nil {
		return identity.User{}, apperr.PermissionDenied("no identity provider configured")
	}
	return s.ident.CurrentUser(ctx)
}

// loadForScoring fetches a match inside tx and checks userID may change it.
func loadForScoring(ctx context.Context, tx MatchRepository, matchID, userID uint) (*Match, error) {
	m, err := tx.GetMatch(ctx, matchID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, apperr.NotFound("match %d not found", matchID)
		}
		return nil, err
	}
	if !m.CanScore(userID) {
		return nil, apperr.PermissionDenied("user %d may not score match %d", userID, matchID)
	}
	return m, nil
}

func requireStatus(m *Match, want ...MatchStatus) error {
	for _, st := range want {
		if m.Status == st {
			return nil
		}
	}
	return apperr.InvalidState("match %d is %s", m.ID, m.Status)
}

func (s *MatchService) notify(ctx context.Context, u Update) {
	if s.notifier == nil || u.Match == nil {
		return
	}
	s.notifier.MatchUpdated(ctx, u)
}

// GetMatchByID is a read outside any transaction.
func (s *MatchService) GetMatchByID(ctx context.Context, id uint) (*Match, error) {
	m, err := s.repo.GetMatch(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, apperr.NotFound("match %d not found", id)
		}
		return nil, err
	}
	return m, nil
}

// GetActiveMatch returns the owner's live match.
func (s *MatchService) GetActiveMatch(ctx context.Context, ownerID uint) (*Match, error) {
	m, err := s.repo.GetActiveMatch(ctx, ownerID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, apperr.NotFound("user %d has no live match", ownerID)
		}
		return nil, err
	}
	return m, nil
}

// ListBalls returns the delivery log of one innings, or of both when
// innings is 0.
func (s *MatchService) ListBalls(ctx context.Context, matchID uint, innings int) ([]BallEvent, error) {
	if _, err := s.GetMatchByID(ctx, matchID); err != nil {
		return nil, err
	}
	return s.repo.ListBalls(ctx, matchID, innings)
}
