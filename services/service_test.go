package services

import (
	"testing"
	"time"

	"coin-economy-system/models"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an in-memory database per test. SQLite's single writer
// stands in for Postgres row locks here; the guarded balance updates are
// dialect-independent.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.CompletedTask{},
		&models.Transaction{},
		&models.Task{},
		&models.Game{},
		&models.Tournament{},
		&models.TournamentParticipant{},
		&models.TournamentWinner{},
		&models.Withdrawal{},
		&models.Admin{},
	))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, coins int64) *models.User {
	t.Helper()

	id := uuid.NewString()
	user := &models.User{
		ID:            id,
		TelegramID:    "tg-" + id[:8],
		Username:      "wolf_" + id[:8],
		FirstName:     "Wolf",
		Coins:         coins,
		Level:         1,
		MaxExperience: BaseMaxExperience,
		RemainingTaps: TapCapacity,
		LastTapReset:  time.Now(),
		ReferralCode:  "ALPHA" + id[:6],
	}
	require.NoError(t, db.Create(user).Error)

	// Seed balances enter the ledger too, so the sum invariant holds from
	// the first row.
	if coins != 0 {
		require.NoError(t, db.Create(&models.Transaction{
			ID:          uuid.NewString(),
			UserID:      user.ID,
			Amount:      coins,
			Category:    models.CategoryAdmin,
			Description: "Seed balance",
		}).Error)
	}
	return user
}

func reloadUser(t *testing.T, db *gorm.DB, id string) *models.User {
	t.Helper()
	var user models.User
	require.NoError(t, db.First(&user, "id = ?", id).Error)
	return &user
}

// requireLedgerConsistent asserts the core invariant: the stored balance
// equals the sum of all ledger entries.
func requireLedgerConsistent(t *testing.T, db *gorm.DB, userID string) {
	t.Helper()
	economy := NewEconomyService(db)
	sum, err := economy.LedgerSum(userID)
	require.NoError(t, err)
	user := reloadUser(t, db, userID)
	require.Equal(t, user.Coins, sum, "ledger sum must equal stored balance")
}
