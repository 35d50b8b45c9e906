package services

import (
	"errors"
	"fmt"

	"coin-economy-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TaskService struct {
	DB      *gorm.DB
	Economy *EconomyService
}

func NewTaskService(db *gorm.DB, economy *EconomyService) *TaskService {
	return &TaskService{DB: db, Economy: economy}
}

// ActiveTasks lists tasks users can currently complete.
func (s *TaskService) ActiveTasks() ([]models.Task, error) {
	var tasks []models.Task
	err := s.DB.Where("active = ?", true).Order("created_at DESC").Find(&tasks).Error
	return tasks, err
}

// CompletionResult mirrors the economy fields the client shows after a
// successful completion.
type CompletionResult struct {
	CoinsEarned   int64 `json:"coins_earned"`
	TotalCoins    int64 `json:"total_coins"`
	Level         int   `json:"level"`
	Experience    int64 `json:"experience"`
	MaxExperience int64 `json:"max_experience"`
}

// Complete grants a task's reward exactly once per user. The completed-task
// row, balance change, ledger entry and level-up commit atomically; a second
// attempt fails on the membership check before anything is touched.
func (s *TaskService) Complete(userID, taskID string) (*CompletionResult, error) {
	var result CompletionResult
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var task models.Task
		if err := tx.First(&task, "id = ?", taskID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if !task.Active {
			return ErrTaskInactive
		}

		user, err := LockUser(tx, userID)
		if err != nil {
			return err
		}

		var done int64
		if err := tx.Model(&models.CompletedTask{}).
			Where("user_id = ? AND task_id = ?", user.ID, task.ID).
			Count(&done).Error; err != nil {
			return err
		}
		if done > 0 {
			return ErrAlreadyCompleted
		}

		if err := tx.Create(&models.CompletedTask{
			ID:     uuid.NewString(),
			UserID: user.ID,
			TaskID: task.ID,
		}).Error; err != nil {
			return err
		}

		GainExperience(user, TaskExperience)
		if err := tx.Model(&models.User{}).Where("id = ?", user.ID).Updates(map[string]interface{}{
			"experience":     user.Experience,
			"level":          user.Level,
			"max_experience": user.MaxExperience,
		}).Error; err != nil {
			return err
		}

		balance, err := s.Economy.ApplyDelta(tx, user.ID, task.Reward)
		if err != nil {
			return err
		}
		if _, err := s.Economy.RecordTransaction(tx, user.ID, task.Reward, models.CategoryTask,
			fmt.Sprintf("Completed task: %s", task.Title), &task.ID, models.RefTask); err != nil {
			return err
		}

		result = CompletionResult{
			CoinsEarned:   task.Reward,
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

// CompletedTasks returns the tasks a user has already finished.
func (s *TaskService) CompletedTasks(userID string) ([]models.Task, error) {
	var tasks []models.Task
	err := s.DB.
		Joins("JOIN completed_tasks ON completed_tasks.task_id = tasks.id").
		Where("completed_tasks.user_id = ?", userID).
		Order("completed_tasks.completed_at DESC").
		Find(&tasks).Error
	return tasks, err
}
