package services

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"coin-economy-system/models"

	"gorm.io/gorm"
)

type GameService struct {
	DB      *gorm.DB
	Economy *EconomyService
}

func NewGameService(db *gorm.DB, economy *EconomyService) *GameService {
	return &GameService{DB: db, Economy: economy}
}

// ActiveGames lists playable minigames.
func (s *GameService) ActiveGames() ([]models.Game, error) {
	var games []models.Game
	err := s.DB.Where("active = ?", true).Order("created_at DESC").Find(&games).Error
	return games, err
}

// GameReward computes the payout for one play. With a score the reward is
// linear over [MinReward, MaxReward] with the score clamped to 0..100;
// without a score it is uniform over the inclusive integer range.
func GameReward(g *models.Game, score *int) int64 {
	if score != nil {
		s := *score
		if s < 0 {
			s = 0
		}
		if s > 100 {
			s = 100
		}
		return g.MinReward + (g.MaxReward-g.MinReward)*int64(s)/100
	}
	return g.MinReward + rand.Int64N(g.MaxReward-g.MinReward+1)
}

// Play awards a reward for one game session and bumps the game's aggregate
// counters. Reward, XP, counters and ledger entry commit as one unit.
func (s *GameService) Play(userID, gameID string, score *int) (*CompletionResult, error) {
	var result CompletionResult
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var game models.Game
		if err := tx.First(&game, "id = ?", gameID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if !game.Active {
			return ErrGameInactive
		}

		user, err := LockUser(tx, userID)
		if err != nil {
			return err
		}

		reward := GameReward(&game, score)

		GainExperience(user, GameExperience)
		if err := tx.Model(&models.User{}).Where("id = ?", user.ID).Updates(map[string]interface{}{
			"experience":     user.Experience,
			"level":          user.Level,
			"max_experience": user.MaxExperience,
		}).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Game{}).Where("id = ?", game.ID).Updates(map[string]interface{}{
			"play_count":          gorm.Expr("play_count + 1"),
			"total_coins_awarded": gorm.Expr("total_coins_awarded + ?", reward),
		}).Error; err != nil {
			return err
		}

		balance, err := s.Economy.ApplyDelta(tx, user.ID, reward)
		if err != nil {
			return err
		}
		if _, err := s.Economy.RecordTransaction(tx, user.ID, reward, models.CategoryGame,
			fmt.Sprintf("Played game: %s", game.Name), &game.ID, models.RefGame); err != nil {
			return err
		}

		result = CompletionResult{
			CoinsEarned:   reward,
			TotalCoins:    balance,
			Level:         user.Level,
			Experience:    user.Experience,
			MaxExperience: user.MaxExperience,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}
