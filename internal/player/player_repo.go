package player

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/DhavalSuthar-24/crease/pkg/apperr"
	"gorm.io/gorm"
)

// PlayerRepository defines methods to interact with the player pool
type PlayerRepository interface {
	CreatePlayer(ctx context.Context, p *Player) error
	GetPlayerByID(ctx context.Context, id uint) (*Player, error)
	SearchPlayers(ctx context.Context, query string, page, pageSize int) ([]Player, int64, error)
	// PlayerName lets the match service look players up when drafting squads.
	PlayerName(ctx context.Context, id uint) (string, error)
}

type playerRepository struct {
	db *gorm.DB
}

// NewPlayerRepository creates a new instance of PlayerRepository.
func NewPlayerRepository(db *gorm.DB) PlayerRepository {
	return &playerRepository{db: db}
}

func (r *playerRepository) CreatePlayer(ctx context.Context, p *Player) error {
	p.DisplayName = strings.TrimSpace(p.DisplayName)
	if p.DisplayName == "" {
		return apperr.RuleViolation("player name cannot be empty")
	}
	p.NormalizedName = NormalizeName(p.DisplayName)
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		return fmt.Errorf("create player: %w", err)
	}
	return nil
}

func (r *playerRepository) GetPlayerByID(ctx context.Context, id uint) (*Player, error) {
	var p Player
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("player %d not found", id)
		}
		return nil, fmt.Errorf("get player %d: %w", id, err)
	}
	return &p, nil
}

// SearchPlayers matches query against normalized names, so "jose" finds
// "José".
func (r *playerRepository) SearchPlayers(ctx context.Context, query string, page, pageSize int) ([]Player, int64, error) {
	var players []Player
	var total int64

	q := r.db.WithContext(ctx).Model(&Player{})
	if key := NormalizeName(query); key != "" {
		q = q.Where("normalized_name LIKE ?", "%"+key+"%")
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count players: %w", err)
	}

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	err := q.Order("normalized_name asc, id asc").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&players).Error
	if err != nil {
		return nil, 0, fmt.Errorf("search players: %w", err)
	}
	return players, total, nil
}

func (r *playerRepository) PlayerName(ctx context.Context, id uint) (string, error) {
	p, err := r.GetPlayerByID(ctx, id)
	if err != nil {
		return "", err
	}
	return p.DisplayName, nil
}
