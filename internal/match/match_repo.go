package match

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	// ErrConflict means a concurrent transaction changed the aggregate or
	// log entry first. The caller retries the whole transaction.
	ErrConflict = errors.New("concurrent modification")
	// ErrNotFound is returned when a match or ball event does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrLiveMatchExists is returned when an owner would end up with two
	// live matches.
	ErrLiveMatchExists = errors.New("owner already has a live match")
)

// MatchRepository is the transactional store the scoring services run on.
type MatchRepository interface {
	CreateMatch(ctx context.Context, m *Match) error
	GetMatch(ctx context.Context, id uint) (*Match, error)
	// GetActiveMatch returns the owner's live match, or ErrNotFound.
	GetActiveMatch(ctx context.Context, ownerID uint) (*Match, error)
	// SaveMatch writes m if its Version is still current and bumps Version.
	SaveMatch(ctx context.Context, m *Match) error

	AppendBall(ctx context.Context, e *BallEvent) error
	// LastBall returns the most recent event of an innings, or ErrNotFound.
	LastBall(ctx context.Context, matchID uint, innings int) (*BallEvent, error)
	GetBall(ctx context.Context, id uint) (*BallEvent, error)
	// CountBallsAt counts events logged at the same (innings, over, ball).
	CountBallsAt(ctx context.Context, matchID uint, innings, over, ball int) (int, error)
	DeleteBall(ctx context.Context, id uint) error
	ListBalls(ctx context.Context, matchID uint, innings int) ([]BallEvent, error)

	// WithTransaction runs fn against a repository bound to one atomic
	// transaction. Any error rolls everything back.
	WithTransaction(ctx context.Context, fn func(MatchRepository) error) error
}

// GormMatchRepository implements MatchRepository using GORM
type GormMatchRepository struct {
	db *gorm.DB
}

// NewGormMatchRepository creates a new GormMatchRepository
func NewGormMatchRepository(db *gorm.DB) *GormMatchRepository {
	return &GormMatchRepository{db: db}
}

// WithTransaction implements transaction support
func (r *GormMatchRepository) WithTransaction(ctx context.Context, fn func(MatchRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormMatchRepository{db: tx})
	})
}

func (r *GormMatchRepository) CreateMatch(ctx context.Context, m *Match) error {
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrLiveMatchExists
		}
		return fmt.Errorf("create match: %w", err)
	}
	return nil
}

func (r *GormMatchRepository) GetMatch(ctx context.Context, id uint) (*Match, error) {
	var m Match
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get match %d: %w", id, err)
	}
	return &m, nil
}

func (r *GormMatchRepository) GetActiveMatch(ctx context.Context, ownerID uint) (*Match, error) {
	var m Match
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND status = ?", ownerID, StatusLive).
		Order("id desc").
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get active match for owner %d: %w", ownerID, err)
	}
	return &m, nil
}

// SaveMatch is a compare-and-swap on Version: zero affected rows means
// someone else committed since m was read.
func (r *GormMatchRepository) SaveMatch(ctx context.Context, m *Match) error {
	prev := m.Version
	m.Version = prev + 1
	res := r.db.WithContext(ctx).
		Model(m).
		Where("version = ?", prev).
		Select("*").
		Omit("created_at").
		Updates(m)
	if res.Error != nil {
		m.Version = prev
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return ErrLiveMatchExists
		}
		return fmt.Errorf("save match %d: %w", m.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		m.Version = prev
		return ErrConflict
	}
	return nil
}

func (r *GormMatchRepository) AppendBall(ctx context.Context, e *BallEvent) error {
	if err := r.db.WithContext(ctx).Create(e).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrConflict
		}
		return fmt.Errorf("append ball %s: %w", e.Key(), err)
	}
	return nil
}

func (r *GormMatchRepository) LastBall(ctx context.Context, matchID uint, innings int) (*BallEvent, error) {
	var e BallEvent
	err := r.db.WithContext(ctx).
		Where("match_id = ? AND innings = ?", matchID, innings).
		Order("recorded_at desc, id desc").
		First(&e).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("last ball of match %d: %w", matchID, err)
	}
	return &e, nil
}

func (r *GormMatchRepository) GetBall(ctx context.Context, id uint) (*BallEvent, error) {
	var e BallEvent
	if err := r.db.WithContext(ctx).First(&e, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get ball %d: %w", id, err)
	}
	return &e, nil
}

func (r *GormMatchRepository) CountBallsAt(ctx context.Context, matchID uint, innings, over, ball int) (int, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&BallEvent{}).
		Where("match_id = ? AND innings = ? AND over_no = ? AND ball_in_over = ?", matchID, innings, over, ball).
		Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("count balls at %d.%d: %w", over, ball, err)
	}
	return int(n), nil
}

// DeleteBall removes a log entry. Deleting an entry that is already gone
// means a concurrent undo won.
func (r *GormMatchRepository) DeleteBall(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&BallEvent{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete ball %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrConflict
	}
	return nil
}

func (r *GormMatchRepository) ListBalls(ctx context.Context, matchID uint, innings int) ([]BallEvent, error) {
	var events []BallEvent
	q := r.db.WithContext(ctx).Where("match_id = ?", matchID)
	if innings > 0 {
		q = q.Where("innings = ?", innings)
	}
	if err := q.Order("recorded_at asc, id asc").Find(&events).Error; err != nil {
		return nil, fmt.Errorf("list balls of match %d: %w", matchID, err)
	}
	return events, nil
}
