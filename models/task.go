package models

import "fmt"

// TaskType is the task variant. Social tasks point at an external platform
// and require Platform+URL; daily and special tasks carry no extra fields.
type TaskType string

const (
	TaskTypeSocial  TaskType = "social"
	TaskTypeDaily   TaskType = "daily"
	TaskTypeSpecial TaskType = "special"
)

type TaskPlatform string

const (
	PlatformTwitter   TaskPlatform = "twitter"
	PlatformYouTube   TaskPlatform = "youtube"
	PlatformTelegram  TaskPlatform = "telegram"
	PlatformInstagram TaskPlatform = "instagram"
	PlatformOther     TaskPlatform = "other"
)

// Task is a one-shot reward source: each user can complete a task at most
// once (enforced via CompletedTask rows, not here).
type Task struct {
	ID          string       `gorm:"primaryKey;type:uuid" json:"id"`
	Slug        string       `gorm:"uniqueIndex;not null" json:"slug"`
	Title       string       `gorm:"not null" json:"title"`
	Description string       `gorm:"type:text;not null" json:"description"`
	Type        TaskType     `gorm:"type:varchar(16);not null;default:'social'" json:"type"`
	Platform    TaskPlatform `gorm:"type:varchar(16)" json:"platform,omitempty"`
	URL         string       `gorm:"type:text" json:"url,omitempty"`
	IconURL     string       `gorm:"type:text" json:"icon_url,omitempty"`
	Reward      int64        `gorm:"not null" json:"reward"`
	Active      bool         `gorm:"default:true;index" json:"active"`

	Timestamps
}

// Validate enforces the variant rules at construction time instead of
// relying on storage-level conditional requirements.
func (t *Task) Validate() error {
	if t.Title == "" || t.Description == "" {
		return fmt.Errorf("task: title and description are required")
	}
	if t.Reward <= 0 {
		return fmt.Errorf("task: reward must be positive")
	}
	switch t.Type {
	case TaskTypeSocial:
		if t.Platform == "" || t.URL == "" {
			return fmt.Errorf("task: platform and url are required for social tasks")
		}
	case TaskTypeDaily, TaskTypeSpecial:
		// no extra fields
	default:
		return fmt.Errorf("task: unknown type %q", t.Type)
	}
	return nil
}
