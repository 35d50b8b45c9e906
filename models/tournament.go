package models

import "time"

// Tournament status progresses strictly forward:
// scheduled → active → completed. No backward transitions.
const (
	TournamentScheduled = "scheduled"
	TournamentActive    = "active"
	TournamentCompleted = "completed"
)

// Tournament is the weekly coin-bet competition. The DayOfWeek/StartTime/
// DurationHours triple is the recurring template; StartDate/EndDate pin a
// concrete instance once it is materialized.
type Tournament struct {
	ID            string `gorm:"primaryKey;type:uuid" json:"id"`
	Name          string `gorm:"not null" json:"name"`
	Description   string `gorm:"type:text" json:"description"`
	DayOfWeek     string `gorm:"type:varchar(12);default:'Friday'" json:"day_of_week"`
	StartTime     string `gorm:"type:varchar(5);default:'20:00'" json:"start_time"` // HH:MM, 24h
	DurationHours int    `gorm:"default:2" json:"duration_hours"`

	EntryFee  int64 `gorm:"not null;default:100" json:"entry_fee"`
	PrizePool int64 `gorm:"default:10000" json:"prize_pool"`
	Active    bool  `gorm:"default:true" json:"active"`

	Status    string     `gorm:"type:varchar(12);default:'scheduled';index" json:"status"`
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`

	Participants []TournamentParticipant `json:"participants,omitempty" gorm:"foreignKey:TournamentID"`
	Winners      []TournamentWinner      `json:"winners,omitempty" gorm:"foreignKey:TournamentID"`

	Timestamps
}

// TournamentParticipant is one registered player. The composite unique index
// enforces one entry per user per tournament.
type TournamentParticipant struct {
	ID           string    `gorm:"primaryKey;type:uuid" json:"id"`
	TournamentID string    `gorm:"uniqueIndex:idx_tournament_user;not null" json:"tournament_id"`
	UserID       string    `gorm:"uniqueIndex:idx_tournament_user;not null" json:"user_id"`
	Score        int64     `gorm:"default:0" json:"score"`
	JoinedAt     time.Time `json:"joined_at"`
}

// TournamentWinner rows are written exactly once, when the tournament
// reaches completed.
type TournamentWinner struct {
	ID           string `gorm:"primaryKey;type:uuid" json:"id"`
	TournamentID string `gorm:"index;not null" json:"tournament_id"`
	UserID       string `gorm:"index;not null" json:"user_id"`
	Position     int    `gorm:"not null" json:"position"`
	Reward       int64  `gorm:"not null" json:"reward"`
}
