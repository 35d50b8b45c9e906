package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"coin-economy-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EconomyService is the single choke point for coin balance mutations.
// Every balance change in the system goes through ApplyDelta paired with
// RecordTransaction, inside one DB transaction, so the ledger invariant
// sum(transactions.amount) == users.coins holds at all times.
type EconomyService struct {
	DB *gorm.DB
}

func NewEconomyService(db *gorm.DB) *EconomyService {
	return &EconomyService{DB: db}
}

// ApplyDelta mutates a user's balance by delta and returns the new balance.
// The guarded expression (coins + delta >= 0) makes overdraft impossible and
// serializes concurrent updates without a read-modify-write window.
func (s *EconomyService) ApplyDelta(tx *gorm.DB, userID string, delta int64) (int64, error) {
	res := tx.Model(&models.User{}).
		Where("id = ? AND coins + ? >= 0", userID, delta).
		Update("coins", gorm.Expr("coins + ?", delta))
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := tx.Model(&models.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
			return 0, err
		}
		if count == 0 {
			return 0, ErrNotFound
		}
		return 0, ErrInsufficientFunds
	}

	var balance int64
	if err := tx.Model(&models.User{}).Select("coins").Where("id = ?", userID).Scan(&balance).Error; err != nil {
		return 0, err
	}
	return balance, nil
}

// RecordTransaction appends one immutable ledger entry. Callers must invoke
// it in the same tx as the ApplyDelta it accounts for.
func (s *EconomyService) RecordTransaction(tx *gorm.DB, userID string, amount int64, category models.TransactionCategory, description string, refID *string, refKind string) (*models.Transaction, error) {
	entry := &models.Transaction{
		ID:            uuid.NewString(),
		UserID:        userID,
		Amount:        amount,
		Category:      category,
		Description:   description,
		ReferenceID:   refID,
		ReferenceKind: refKind,
	}
	if err := tx.Create(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

// Apply is the common case: one balance change plus its ledger entry as a
// single atomic unit.
func (s *EconomyService) Apply(userID string, delta int64, category models.TransactionCategory, description string, refID *string, refKind string) (int64, error) {
	var balance int64
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		balance, err = s.ApplyDelta(tx, userID, delta)
		if err != nil {
			return err
		}
		_, err = s.RecordTransaction(tx, userID, delta, category, description, refID, refKind)
		return err
	})
	return balance, err
}

// AwardCoins is the administrative grant (category=admin, positive amount).
func (s *EconomyService) AwardCoins(userID string, amount int64, reason string) (int64, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("award amount must be positive")
	}
	description := reason
	if description == "" {
		description = "Coins awarded by admin"
	}
	balance, err := s.Apply(userID, amount, models.CategoryAdmin, description, nil, "")
	if err != nil {
		return 0, err
	}
	log.Printf("🪙 Awarded %d coins to user %s (%s)", amount, userID, description)
	return balance, nil
}

// LockUser fetches a user row with a row lock for read-modify-write flows
// (taps, experience). SQLite has no row-level locking; its single-writer
// lock already serializes writers, so the clause is skipped there.
func LockUser(tx *gorm.DB, userID string) (*models.User, error) {
	var user models.User
	q := tx
	if tx.Dialector.Name() == "postgres" {
		q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	if err := q.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// LedgerSum recomputes a user's balance from the ledger. Used by the admin
// dashboard as an audit check; must always equal users.coins.
func (s *EconomyService) LedgerSum(userID string) (int64, error) {
	var sum *int64
	err := s.DB.Model(&models.Transaction{}).
		Select("SUM(amount)").
		Where("user_id = ?", userID).
		Scan(&sum).Error
	if err != nil {
		return 0, err
	}
	if sum == nil {
		return 0, nil
	}
	return *sum, nil
}

// Transactions returns a user's ledger entries, newest first.
func (s *EconomyService) Transactions(userID string, limit int) ([]models.Transaction, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	var entries []models.Transaction
	err := s.DB.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}

// CoinsDistributedSince totals all positive ledger amounts created at or
// after the given time. Zero time means all-time.
func (s *EconomyService) CoinsDistributedSince(since time.Time) (int64, error) {
	var sum *int64
	q := s.DB.Model(&models.Transaction{}).Select("SUM(amount)").Where("amount > 0")
	if !since.IsZero() {
		q = q.Where("created_at >= ?", since)
	}
	if err := q.Scan(&sum).Error; err != nil {
		return 0, err
	}
	if sum == nil {
		return 0, nil
	}
	return *sum, nil
}
