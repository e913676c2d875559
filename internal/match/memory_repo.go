package match

import (
	"context"
	"sort"
	"sync"
)

type memoryData struct {
	matches     map[uint]*Match
	balls       map[uint]*BallEvent
	nextMatchID uint
	nextBallID  uint
}

func (d *memoryData) clone() *memoryData {
	out := &memoryData{
		matches:     make(map[uint]*Match, len(d.matches)),
		balls:       make(map[uint]*BallEvent, len(d.balls)),
		nextMatchID: d.nextMatchID,
		nextBallID:  d.nextBallID,
	}
	for id, m := range d.matches {
		out.matches[id] = m.Clone()
	}
	for id, e := range d.balls {
		c := e.Clone()
		out.balls[id] = &c
	}
	return out
}

// MemoryMatchRepository is a process-local MatchRepository. Transactions
// are serialized and run against a private copy that replaces the shared
// data only when fn succeeds.
type MemoryMatchRepository struct {
	mu   *sync.Mutex
	data *memoryData
	inTx bool
}

func NewMemoryMatchRepository() *MemoryMatchRepository {
	return &MemoryMatchRepository{
		mu: &sync.Mutex{},
		data: &memoryData{
			matches:     make(map[uint]*Match),
			balls:       make(map[uint]*BallEvent),
			nextMatchID: 1,
			nextBallID:  1,
		},
	}
}

func (r *MemoryMatchRepository) WithTransaction(ctx context.Context, fn func(MatchRepository) error) error {
	if r.inTx {
		return fn(r)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	tx := &MemoryMatchRepository{mu: r.mu, data: r.data.clone(), inTx: true}
	if err := fn(tx); err != nil {
		return err
	}
	r.data = tx.data
	return nil
}

func (r *MemoryMatchRepository) lock() func() {
	if r.inTx {
		return func() {}
	}
	r.mu.Lock()
	return r.mu.Unlock
}

func (r *MemoryMatchRepository) CreateMatch(_ context.Context, m *Match) error {
	defer r.lock()()
	if m.Status == StatusLive && r.hasLiveMatch(m.OwnerID, 0) {
		return ErrLiveMatchExists
	}
	m.ID = r.data.nextMatchID
	r.data.nextMatchID++
	m.CreatedAt = now()
	m.UpdatedAt = m.CreatedAt
	r.data.matches[m.ID] = m.Clone()
	return nil
}

func (r *MemoryMatchRepository) hasLiveMatch(ownerID, except uint) bool {
	for id, m := range r.data.matches {
		if id != except && m.OwnerID == ownerID && m.Status == StatusLive {
			return true
		}
	}
	return false
}

func (r *MemoryMatchRepository) GetMatch(_ context.Context, id uint) (*Match, error) {
	defer r.lock()()
	m, ok := r.data.matches[id]
	if !ok {
		return nil, ErrNotFound
	}
	return m.Clone(), nil
}

func (r *MemoryMatchRepository) GetActiveMatch(_ context.Context, ownerID uint) (*Match, error) {
	defer r.lock()()
	var found *Match
	for _, m := range r.data.matches {
		if m.OwnerID == ownerID && m.Status == StatusLive && (found == nil || m.ID > found.ID) {
			found = m
		}
	}
	if found == nil {
		return nil, ErrNotFound
	}
	return found.Clone(), nil
}

func (r *MemoryMatchRepository) SaveMatch(_ context.Context, m *Match) error {
	defer r.lock()()
	cur, ok := r.data.matches[m.ID]
	if !ok || cur.Version != m.Version {
		return ErrConflict
	}
	if m.Status == StatusLive && r.hasLiveMatch(m.OwnerID, m.ID) {
		return ErrLiveMatchExists
	}
	m.Version++
	m.UpdatedAt = now()
	r.data.matches[m.ID] = m.Clone()
	return nil
}

func (r *MemoryMatchRepository) AppendBall(_ context.Context, e *BallEvent) error {
	defer r.lock()()
	for _, existing := range r.data.balls {
		if existing.MatchID == e.MatchID && existing.Key() == e.Key() {
			return ErrConflict
		}
	}
	e.ID = r.data.nextBallID
	r.data.nextBallID++
	c := e.Clone()
	r.data.balls[e.ID] = &c
	return nil
}

func (r *MemoryMatchRepository) sortedBalls(matchID uint, innings int) []*BallEvent {
	var out []*BallEvent
	for _, e := range r.data.balls {
		if e.MatchID == matchID && (innings <= 0 || e.Innings == innings) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].RecordedAt.Equal(out[j].RecordedAt) {
			return out[i].RecordedAt.Before(out[j].RecordedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (r *MemoryMatchRepository) LastBall(_ context.Context, matchID uint, innings int) (*BallEvent, error) {
	defer r.lock()()
	balls := r.sortedBalls(matchID, innings)
	if len(balls) == 0 {
		return nil, ErrNotFound
	}
	c := balls[len(balls)-1].Clone()
	return &c, nil
}

func (r *MemoryMatchRepository) GetBall(_ context.Context, id uint) (*BallEvent, error) {
	defer r.lock()()
	e, ok := r.data.balls[id]
	if !ok {
		return nil, ErrNotFound
	}
	c := e.Clone()
	return &c, nil
}

func (r *MemoryMatchRepository) CountBallsAt(_ context.Context, matchID uint, innings, over, ball int) (int, error) {
	defer r.lock()()
	n := 0
	for _, e := range r.data.balls {
		if e.MatchID == matchID && e.Innings == innings && e.Over == over && e.BallInOver == ball {
			n++
		}
	}
	return n, nil
}

func (r *MemoryMatchRepository) DeleteBall(_ context.Context, id uint) error {
	defer r.lock()()
	if _, ok := r.data.balls[id]; !ok {
		return ErrConflict
	}
	delete(r.data.balls, id)
	return nil
}

func (r *MemoryMatchRepository) ListBalls(_ context.Context, matchID uint, innings int) ([]BallEvent, error) {
	defer r.lock()()
	balls := r.sortedBalls(matchID, innings)
	out := make([]BallEvent, 0, len(balls))
	for _, e := range balls {
		out = append(out, e.Clone())
	}
	return out, nil
}
