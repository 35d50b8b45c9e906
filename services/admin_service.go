package services

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"coin-economy-system/models"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type AdminService struct {
	DB      *gorm.DB
	Economy *EconomyService
}

func NewAdminService(db *gorm.DB, economy *EconomyService) *AdminService {
	return &AdminService{DB: db, Economy: economy}
}

// Bootstrap seeds the initial superadmin from ADMIN_USERNAME /
// ADMIN_PASSWORD / ADMIN_EMAIL when no admin account exists yet.
func (s *AdminService) Bootstrap() error {
	var count int64
	if err := s.DB.Model(&models.Admin{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	username := os.Getenv("ADMIN_USERNAME")
	password := os.Getenv("ADMIN_PASSWORD")
	if username == "" || password == "" {
		log.Println("⚠️  No admin accounts and ADMIN_USERNAME/ADMIN_PASSWORD not set, admin panel locked out")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin := &models.Admin{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        os.Getenv("ADMIN_EMAIL"),
		PasswordHash: string(hash),
		Role:         models.RoleSuperadmin,
	}
	if err := s.DB.Create(admin).Error; err != nil {
		return err
	}
	log.Printf("✅ Bootstrapped superadmin %q", username)
	return nil
}

// Authenticate checks credentials and stamps LastLogin.
func (s *AdminService) Authenticate(username, password string) (*models.Admin, error) {
	var admin models.Admin
	if err := s.DB.First(&admin, "username = ?", username).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	now := time.Now()
	admin.LastLogin = &now
	if err := s.DB.Model(&models.Admin{}).Where("id = ?", admin.ID).
		Update("last_login", now).Error; err != nil {
		return nil, err
	}
	return &admin, nil
}

// CreateAdmin provisions a new back-office account. Superadmin only.
func (s *AdminService) CreateAdmin(actorRole, username, password, email, role string) (*models.Admin, error) {
	if actorRole != models.RoleSuperadmin {
		return nil, ErrForbidden
	}
	if role == "" {
		role = models.RoleAdmin
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	admin := &models.Admin{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := s.DB.Create(admin).Error; err != nil {
		return nil, err
	}
	return admin, nil
}

// DashboardStats is the admin landing view.
type DashboardStats struct {
	TotalUsers         int64 `json:"total_users"`
	TransactionsToday  int64 `json:"transactions_today"`
	PendingWithdrawals int64 `json:"pending_withdrawals"`
	CoinsDistributed   int64 `json:"coins_distributed"`
}

func (s *AdminService) Dashboard() (*DashboardStats, []models.Transaction, error) {
	var stats DashboardStats

	if err := s.DB.Model(&models.User{}).Count(&stats.TotalUsers).Error; err != nil {
		return nil, nil, err
	}

	today := time.Now().Truncate(24 * time.Hour)
	if err := s.DB.Model(&models.Transaction{}).
		Where("created_at >= ?", today).
		Count(&stats.TransactionsToday).Error; err != nil {
		return nil, nil, err
	}

	if err := s.DB.Model(&models.Withdrawal{}).
		Where("status = ?", models.WithdrawalPending).
		Count(&stats.PendingWithdrawals).Error; err != nil {
		return nil, nil, err
	}

	distributed, err := s.Economy.CoinsDistributedSince(time.Time{})
	if err != nil {
		return nil, nil, err
	}
	stats.CoinsDistributed = distributed

	var recent []models.Transaction
	if err := s.DB.Order("created_at DESC").Limit(10).Find(&recent).Error; err != nil {
		return nil, nil, err
	}
	return &stats, recent, nil
}

// ListUsers returns a paginated, optionally filtered user page.
func (s *AdminService) ListUsers(page, limit int, search string) ([]models.User, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	q := s.DB.Model(&models.User{})
	if search != "" {
		pattern := "%" + search + "%"
		q = q.Where("username LIKE ? OR first_name LIKE ? OR last_name LIKE ? OR telegram_id LIKE ?",
			pattern, pattern, pattern, pattern)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []models.User
	err := q.Order("created_at DESC").
		Limit(limit).Offset((page - 1) * limit).
		Find(&users).Error
	return users, total, err
}

// CreateTask validates the variant rules and assigns a stable slug.
func (s *AdminService) CreateTask(task *models.Task) error {
	if err := task.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	task.ID = uuid.NewString()
	task.Slug = s.uniqueSlug(&models.Task{}, task.Title)
	return s.DB.Create(task).Error
}

// UpdateTask applies partial updates and revalidates the variant.
func (s *AdminService) UpdateTask(taskID string, apply func(*models.Task)) (*models.Task, error) {
	var task models.Task
	if err := s.DB.First(&task, "id = ?", taskID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	apply(&task)
	if err := task.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if err := s.DB.Save(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

func (s *AdminService) CreateGame(game *models.Game) error {
	if err := game.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	game.ID = uuid.NewString()
	game.Slug = s.uniqueSlug(&models.Game{}, game.Name)
	return s.DB.Create(game).Error
}

func (s *AdminService) UpdateGame(gameID string, apply func(*models.Game)) (*models.Game, error) {
	var game models.Game
	if err := s.DB.First(&game, "id = ?", gameID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	apply(&game)
	if err := game.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if err := s.DB.Save(&game).Error; err != nil {
		return nil, err
	}
	return &game, nil
}

// UpsertTournament creates or edits the weekly tournament template.
func (s *AdminService) UpsertTournament(tournamentID string, apply func(*models.Tournament)) (*models.Tournament, error) {
	var t models.Tournament
	if tournamentID != "" {
		if err := s.DB.First(&t, "id = ?", tournamentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNotFound
			}
			return nil, err
		}
	} else {
		t = models.Tournament{
			ID:            uuid.NewString(),
			Name:          "ALPHA BATTLE",
			Description:   "Weekly tournament where users can bet coins and compete to win the prize pool.",
			DayOfWeek:     "Friday",
			StartTime:     "20:00",
			DurationHours: 2,
			EntryFee:      100,
			PrizePool:     10000,
			Active:        true,
			Status:        models.TournamentScheduled,
		}
	}
	apply(&t)

	if _, err := NextOccurrence(t.DayOfWeek, t.StartTime, time.Now()); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if err := s.DB.Save(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

// uniqueSlug suffixes colliding slugs with a short uuid fragment.
func (s *AdminService) uniqueSlug(model interface{}, title string) string {
	base := slug.Make(title)
	var count int64
	s.DB.Model(model).Where("slug = ?", base).Count(&count)
	if count == 0 {
		return base
	}
	return base + "-" + uuid.NewString()[:8]
}
