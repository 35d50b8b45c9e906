package services

import (
	"errors"
	"fmt"
	"strings"

	"coin-economy-system/models"
	"coin-economy-system/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserService struct {
	DB *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{DB: db}
}

// TelegramIdentity is the verified identity handed over by the auth layer
// (WebApp initData or bot update).
type TelegramIdentity struct {
	TelegramID string
	Username   string
	FirstName  string
	LastName   string
	PhotoURL   string
}

// Resolve finds the account for a Telegram identity, provisioning it on
// first contact. Profile fields are refreshed on every login; economy
// fields are never touched here.
func (s *UserService) Resolve(identity TelegramIdentity) (*models.User, bool, error) {
	if identity.TelegramID == "" || identity.FirstName == "" {
		return nil, false, fmt.Errorf("telegram id and first name are required")
	}
	username := identity.Username
	if username == "" {
		username = "user" + identity.TelegramID
	}

	var user models.User
	err := s.DB.First(&user, "telegram_id = ?", identity.TelegramID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user = models.User{
			ID:            uuid.NewString(),
			TelegramID:    identity.TelegramID,
			Username:      username,
			FirstName:     identity.FirstName,
			LastName:      identity.LastName,
			ProfilePhoto:  identity.PhotoURL,
			Level:         1,
			MaxExperience: BaseMaxExperience,
			RemainingTaps: TapCapacity,
		}
		if err := s.createWithReferralCode(&user); err != nil {
			return nil, false, err
		}
		return &user, true, nil
	}
	if err != nil {
		return nil, false, err
	}

	user.Username = username
	user.FirstName = identity.FirstName
	if identity.LastName != "" {
		user.LastName = identity.LastName
	}
	if identity.PhotoURL != "" {
		user.ProfilePhoto = identity.PhotoURL
	}
	if err := s.DB.Model(&models.User{}).Where("id = ?", user.ID).Updates(map[string]interface{}{
		"username":      user.Username,
		"first_name":    user.FirstName,
		"last_name":     user.LastName,
		"profile_photo": user.ProfilePhoto,
	}).Error; err != nil {
		return nil, false, err
	}
	return &user, false, nil
}

// createWithReferralCode retries on the (rare) code collision instead of
// surfacing the unique-index violation.
func (s *UserService) createWithReferralCode(user *models.User) error {
	for attempt := 0; attempt < 5; attempt++ {
		user.ReferralCode = utils.GenerateReferralCode()
		err := s.DB.Create(user).Error
		if err == nil {
			return nil
		}
		if isUniqueViolation(err, "referral_code") {
			continue
		}
		return err
	}
	return fmt.Errorf("could not allocate a unique referral code")
}

func isUniqueViolation(err error, column string) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") && strings.Contains(msg, column)
}

// Get loads a user by id.
func (s *UserService) Get(userID string) (*models.User, error) {
	var user models.User
	if err := s.DB.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetByTelegramID loads a user by Telegram id (used by the bot worker).
func (s *UserService) GetByTelegramID(telegramID string) (*models.User, error) {
	var user models.User
	if err := s.DB.First(&user, "telegram_id = ?", telegramID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// Profile is the user view plus resolved referral links.
type Profile struct {
	User       models.User   `json:"user"`
	ReferredBy *models.User  `json:"referred_by,omitempty"`
	Referrals  []models.User `json:"referrals"`
}

func (s *UserService) Profile(userID string) (*Profile, error) {
	user, err := s.Get(userID)
	if err != nil {
		return nil, err
	}

	p := &Profile{User: *user, Referrals: []models.User{}}
	if user.ReferredByID != nil {
		var referrer models.User
		if err := s.DB.First(&referrer, "id = ?", *user.ReferredByID).Error; err == nil {
			p.ReferredBy = &referrer
		}
	}
	if err := s.DB.Where("referred_by_id = ?", user.ID).
		Order("created_at ASC").
		Find(&p.Referrals).Error; err != nil {
		return nil, err
	}
	return p, nil
}
