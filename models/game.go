package models

import "fmt"

// Game is a minigame that pays out between MinReward and MaxReward coins per
// play. PlayCount and TotalCoinsAwarded only ever grow.
type Game struct {
	ID          string `gorm:"primaryKey;type:uuid" json:"id"`
	Slug        string `gorm:"uniqueIndex;not null" json:"slug"`
	Name        string `gorm:"not null" json:"name"`
	Description string `gorm:"type:text;not null" json:"description"`
	IconURL     string `gorm:"type:text" json:"icon_url,omitempty"`

	MinReward int64 `gorm:"not null" json:"min_reward"`
	MaxReward int64 `gorm:"not null" json:"max_reward"`
	Active    bool  `gorm:"default:true;index" json:"active"`

	// Aggregate play stats, bumped on every play
	PlayCount         int64 `gorm:"default:0" json:"play_count"`
	TotalCoinsAwarded int64 `gorm:"default:0" json:"total_coins_awarded"`

	Timestamps
}

func (g *Game) Validate() error {
	if g.Name == "" || g.Description == "" {
		return fmt.Errorf("game: name and description are required")
	}
	if g.MinReward < 0 || g.MaxReward < g.MinReward {
		return fmt.Errorf("game: rewards must satisfy 0 <= min <= max")
	}
	return nil
}
