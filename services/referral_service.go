package services

import (
	"errors"
	"fmt"

	"coin-economy-system/models"

	"gorm.io/gorm"
)

// ReferralBonus is the flat reward paid to the referrer. The referred user
// gets nothing directly.
const ReferralBonus = 50

type ReferralService struct {
	DB      *gorm.DB
	Economy *EconomyService
}

func NewReferralService(db *gorm.DB, economy *EconomyService) *ReferralService {
	return &ReferralService{DB: db, Economy: economy}
}

// Attribute links a user to the owner of referralCode, permanently. The
// back-reference is set at most once ever; the referrer's bonus and its
// ledger entry commit in the same transaction.
func (s *ReferralService) Attribute(userID, referralCode string) (*models.User, error) {
	var referrer models.User
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&referrer, "referral_code = ?", referralCode).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInvalidCode
			}
			return err
		}

		user, err := LockUser(tx, userID)
		if err != nil {
			return err
		}
		if user.ID == referrer.ID {
			return ErrSelfReferral
		}
		if user.ReferredByID != nil {
			return ErrAlreadyReferred
		}

		if err := tx.Model(&models.User{}).Where("id = ?", user.ID).
			Update("referred_by_id", referrer.ID).Error; err != nil {
			return err
		}

		if _, err := s.Economy.ApplyDelta(tx, referrer.ID, ReferralBonus); err != nil {
			return err
		}
		if _, err := s.Economy.RecordTransaction(tx, referrer.ID, ReferralBonus, models.CategoryReferral,
			fmt.Sprintf("Referral bonus from %s", user.Username), &user.ID, models.RefUser); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &referrer, nil
}

// Referrals returns the users this user brought in, plus the flat earnings
// total derived from the bonus amount.
func (s *ReferralService) Referrals(userID string) ([]models.User, int64, error) {
	var referred []models.User
	err := s.DB.Where("referred_by_id = ?", userID).
		Order("created_at ASC").
		Find(&referred).Error
	if err != nil {
		return nil, 0, err
	}
	return referred, int64(len(referred)) * ReferralBonus, nil
}
