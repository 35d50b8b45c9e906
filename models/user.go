package models

import (
	"time"

	"gorm.io/gorm"
)

// User is the persistent economy state for one Telegram player:
// coin balance, level/experience, tap budget and referral links.
type User struct {
	ID           string `gorm:"primaryKey;type:uuid" json:"id"`
	TelegramID   string `gorm:"uniqueIndex;not null" json:"telegram_id"`
	Username     string `gorm:"index;not null" json:"username"`
	FirstName    string `gorm:"not null" json:"first_name"`
	LastName     string `json:"last_name,omitempty"`
	ProfilePhoto string `json:"profile_photo,omitempty"`

	// Economy core
	Coins         int64 `json:"coins" gorm:"default:0;check:coins >= 0"`
	Level         int   `json:"level" gorm:"default:1"`
	Experience    int64 `json:"experience" gorm:"default:0"`
	MaxExperience int64 `json:"max_experience" gorm:"default:100"`

	// Tap budget (lazy 4h refill, see services.TapService)
	RemainingTaps int       `json:"remaining_taps" gorm:"default:100"`
	LastTapReset  time.Time `json:"last_tap_reset"`

	// Referral graph: one-level, referred_by is immutable once set
	ReferralCode string  `gorm:"uniqueIndex;not null" json:"referral_code"`
	ReferredByID *string `gorm:"index" json:"referred_by_id,omitempty"`

	Timestamps
}

// CompletedTask marks a task as done for a user. One row per (user, task)
// pair; the unique index is what makes task rewards idempotent.
type CompletedTask struct {
	ID          string    `gorm:"primaryKey;type:uuid" json:"id"`
	UserID      string    `gorm:"uniqueIndex:idx_user_task;not null" json:"user_id"`
	TaskID      string    `gorm:"uniqueIndex:idx_user_task;not null" json:"task_id"`
	CompletedAt time.Time `json:"completed_at" gorm:"autoCreateTime"`
}

// Timestamps adds GORM auto-times
type Timestamps struct {
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}
