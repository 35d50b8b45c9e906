package services

import (
	"errors"
	"log"
	"time"

	"coin-economy-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WithdrawalNotifier is implemented by the bot worker; a nil notifier just
// skips the Telegram message.
type WithdrawalNotifier interface {
	WithdrawalProcessed(user *models.User, w *models.Withdrawal)
}

type WithdrawalService struct {
	DB       *gorm.DB
	Economy  *EconomyService
	Notifier WithdrawalNotifier
}

func NewWithdrawalService(db *gorm.DB, economy *EconomyService) *WithdrawalService {
	return &WithdrawalService{DB: db, Economy: economy}
}

// Request escrows coins out of the spendable balance and opens a pending
// withdrawal. The debit, the withdrawal row and the ledger entry commit
// atomically; a failed precondition leaves the balance untouched.
func (s *WithdrawalService) Request(userID string, amount int64, upiID string) (*models.Withdrawal, int64, error) {
	if amount < models.MinWithdrawalCoins {
		return nil, 0, ErrBelowMinimum
	}

	w := &models.Withdrawal{
		ID:        uuid.NewString(),
		UserID:    userID,
		Amount:    amount,
		AmountInr: models.FiatAmount(amount),
		UpiID:     upiID,
		Status:    models.WithdrawalPending,
	}

	var balance int64
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		balance, err = s.Economy.ApplyDelta(tx, userID, -amount)
		if err != nil {
			return err
		}
		if err := tx.Create(w).Error; err != nil {
			return err
		}
		_, err = s.Economy.RecordTransaction(tx, userID, -amount, models.CategoryWithdrawal,
			"Withdrawal request", &w.ID, models.RefWithdrawal)
		return err
	})
	if err != nil {
		return nil, 0, err
	}
	log.Printf("💸 Withdrawal %s requested: %d coins (₹%.2f) by user %s", w.ID, amount, w.AmountInr, userID)
	return w, balance, nil
}

// History returns a user's withdrawals, newest first.
func (s *WithdrawalService) History(userID string) ([]models.Withdrawal, error) {
	var ws []models.Withdrawal
	err := s.DB.Where("user_id = ?", userID).Order("created_at DESC").Find(&ws).Error
	return ws, err
}

// Pending returns the admin queue, oldest first.
func (s *WithdrawalService) Pending() ([]models.Withdrawal, error) {
	var ws []models.Withdrawal
	err := s.DB.Where("status = ?", models.WithdrawalPending).Order("created_at ASC").Find(&ws).Error
	return ws, err
}

// Process settles a pending withdrawal. Approval changes no balance (the
// payout happens out-of-band); rejection refunds the escrowed amount with a
// compensating admin ledger entry. Either way the state is terminal.
func (s *WithdrawalService) Process(withdrawalID, adminID, decision, remarks string) (*models.Withdrawal, error) {
	if decision != models.WithdrawalApproved && decision != models.WithdrawalRejected {
		return nil, errors.New("decision must be approved or rejected")
	}

	var w models.Withdrawal
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&w, "id = ?", withdrawalID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if w.Status != models.WithdrawalPending {
			return ErrAlreadyProcessed
		}

		now := time.Now()
		w.Status = decision
		w.ProcessedByID = &adminID
		w.ProcessedAt = &now
		if remarks != "" {
			w.Remarks = remarks
		}
		if err := tx.Model(&models.Withdrawal{}).Where("id = ?", w.ID).Updates(map[string]interface{}{
			"status":          w.Status,
			"processed_by_id": adminID,
			"processed_at":    now,
			"remarks":         w.Remarks,
		}).Error; err != nil {
			return err
		}

		if decision == models.WithdrawalRejected {
			if _, err := s.Economy.ApplyDelta(tx, w.UserID, w.Amount); err != nil {
				return err
			}
			if _, err := s.Economy.RecordTransaction(tx, w.UserID, w.Amount, models.CategoryAdmin,
				"Withdrawal request rejected - coins refunded", &w.ID, models.RefWithdrawal); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Printf("🏦 Withdrawal %s %s by admin %s", w.ID, w.Status, adminID)

	if s.Notifier != nil {
		var user models.User
		if err := s.DB.First(&user, "id = ?", w.UserID).Error; err == nil {
			s.Notifier.WithdrawalProcessed(&user, &w)
		}
	}
	return &w, nil
}
