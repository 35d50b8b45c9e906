package services

import (
	"time"

	"coin-economy-system/models"

	"gorm.io/gorm"
)

// Tap budget: 100 taps per 4-hour window, refilled lazily on the next tap
// attempt after the window elapses. Each tap pays 5 coins and 1 XP.
const (
	TapCapacity = 100
	TapCooldown = 4 * time.Hour
	TapReward   = 5
)

type TapService struct {
	DB      *gorm.DB
	Economy *EconomyService
}

func NewTapService(db *gorm.DB, economy *EconomyService) *TapService {
	return &TapService{DB: db, Economy: economy}
}

// TapResult is what the client needs to redraw the tap screen.
type TapResult struct {
	CoinsEarned   int64      `json:"coins_earned"`
	TotalCoins    int64      `json:"total_coins"`
	RemainingTaps int        `json:"remaining_taps"`
	Level         int        `json:"level"`
	Experience    int64      `json:"experience"`
	MaxExperience int64      `json:"max_experience"`
	NextReset     *time.Time `json:"next_reset,omitempty"`
}

// Tap consumes one tap from the budget and credits the fixed reward. On
// exhaustion it returns ErrTapsExhausted with NextReset populated so the
// client can show a countdown.
func (s *TapService) Tap(userID string) (*TapResult, error) {
	var result TapResult
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		user, err := LockUser(tx, userID)
		if err != nil {
			return err
		}

		now := time.Now()
		if now.Sub(user.LastTapReset) > TapCooldown {
			user.RemainingTaps = TapCapacity
			user.LastTapReset = now
		}

		if user.RemainingTaps <= 0 {
			nextReset := user.LastTapReset.Add(TapCooldown)
			result.NextReset = &nextReset
			result.RemainingTaps = 0
			return ErrTapsExhausted
		}

		user.RemainingTaps--
		GainExperience(user, TapExperience)

		if err := tx.Model(&models.User{}).Where("id = ?", user.ID).Updates(map[string]interface{}{
			"remaining_taps": user.RemainingTaps,
			"last_tap_reset": user.LastTapReset,
			"experience":     user.Experience,
			"level":          user.Level,
			"max_experience": user.MaxExperience,
		}).Error; err != nil {
			return err
		}

		balance, err := s.Economy.ApplyDelta(tx, user.ID, TapReward)
		if err != nil {
			return err
		}
		if _, err := s.Economy.RecordTransaction(tx, user.ID, TapReward, models.CategoryTap, "Coins earned from tapping", nil, ""); err != nil {
			return err
		}

		result = TapResult{
			CoinsEarned:   TapReward,
			TotalCoins:    balance,
			RemainingTaps: user.RemainingTaps,
			Level:         user.Level,
			Experience:    user.Experience,
			MaxExperience: user.MaxExperience,
		}
		return nil
	})
	if err != nil {
		return &result, err
	}
	return &result, nil
}

// Status reports the current tap budget without consuming anything. The
// refill is still computed lazily so a stale window never shows zero taps.
func (s *TapService) Status(userID string) (*TapResult, error) {
	var user models.User
	if err := s.DB.First(&user, "id = ?", userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}

	now := time.Now()
	remaining := user.RemainingTaps
	lastReset := user.LastTapReset
	if now.Sub(lastReset) > TapCooldown {
		remaining = TapCapacity
	}

	nextReset := lastReset.Add(TapCooldown)
	return &TapResult{
		TotalCoins:    user.Coins,
		RemainingTaps: remaining,
		Level:         user.Level,
		Experience:    user.Experience,
		MaxExperience: user.MaxExperience,
		NextReset:     &nextReset,
	}, nil
}
