package services

import "coin-economy-system/models"

// Experience granted per action type.
const (
	TapExperience  = 1
	GameExperience = 3
	TaskExperience = 5
)

// BaseMaxExperience is the XP threshold for level 1 → 2. Each level-up
// raises the threshold to floor(max * 1.5).
const BaseMaxExperience = 100

// GainExperience adds XP to a user and applies level-ups in place. The loop
// carries the remainder across thresholds, so one large grant can produce
// several level-ups in a single call. There is no level cap.
func GainExperience(u *models.User, gained int64) {
	if gained <= 0 {
		return
	}
	if u.MaxExperience <= 0 {
		u.MaxExperience = BaseMaxExperience
	}
	u.Experience += gained
	for u.Experience >= u.MaxExperience {
		u.Experience -= u.MaxExperience
		u.Level++
		u.MaxExperience = u.MaxExperience * 3 / 2
	}
}
