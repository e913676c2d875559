package player

import "gorm.io/gorm"

// Player is a reusable identity in the shared pool. Matches only hold
// references to players, they never own them.
type Player struct {
	gorm.Model
	DisplayName    string `json:"display_name" gorm:"not null"`
	NormalizedName string `json:"-" gorm:"not null;index"`
	CreatedByID    uint   `json:"created_by_id" gorm:"index"`
}

// CreatePlayerRequest defines the request payload for adding a player to the pool
type CreatePlayerRequest struct {
	DisplayName string `json:"display_name" binding:"required,min=1,max=80"`
}
