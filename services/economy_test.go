package services

import (
	"testing"

	"coin-economy-system/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyCreditsAndDebits(t *testing.T) {
	db := newTestDB(t)
	economy := NewEconomyService(db)
	user := seedUser(t, db, 0)

	balance, err := economy.Apply(user.ID, 100, models.CategoryAdmin, "grant", nil, "")
	require.NoError(t, err)
	assert.Equal(t, int64(100), balance)

	balance, err = economy.Apply(user.ID, -40, models.CategoryWithdrawal, "debit", nil, "")
	require.NoError(t, err)
	assert.Equal(t, int64(60), balance)

	requireLedgerConsistent(t, db, user.ID)
}

func TestApplyRejectsOverdraft(t *testing.T) {
	db := newTestDB(t)
	economy := NewEconomyService(db)
	user := seedUser(t, db, 100)

	_, err := economy.Apply(user.ID, -150, models.CategoryWithdrawal, "too much", nil, "")
	require.ErrorIs(t, err, ErrInsufficientFunds)

	// Failed debit leaves no trace: balance and ledger untouched
	assert.Equal(t, int64(100), reloadUser(t, db, user.ID).Coins)
	txs, err := economy.Transactions(user.ID, 10)
	require.NoError(t, err)
	assert.Len(t, txs, 1) // seed entry only
	requireLedgerConsistent(t, db, user.ID)
}

func TestApplyUnknownUser(t *testing.T) {
	db := newTestDB(t)
	economy := NewEconomyService(db)

	_, err := economy.Apply("missing", 10, models.CategoryAdmin, "grant", nil, "")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestAwardCoins(t *testing.T) {
	db := newTestDB(t)
	economy := NewEconomyService(db)
	user := seedUser(t, db, 0)

	_, err := economy.AwardCoins(user.ID, 0, "nothing")
	require.Error(t, err)
	_, err = economy.AwardCoins(user.ID, -5, "negative")
	require.Error(t, err)

	balance, err := economy.AwardCoins(user.ID, 250, "compensation")
	require.NoError(t, err)
	assert.Equal(t, int64(250), balance)

	txs, err := economy.Transactions(user.ID, 10)
	require.NoError(t, err)
	require.NotEmpty(t, txs)
	assert.Equal(t, models.CategoryAdmin, txs[0].Category)
	assert.Equal(t, "compensation", txs[0].Description)
	requireLedgerConsistent(t, db, user.ID)
}

func TestLedgerSumEmpty(t *testing.T) {
	db := newTestDB(t)
	economy := NewEconomyService(db)
	user := seedUser(t, db, 0)

	sum, err := economy.LedgerSum(user.ID)
	require.NoError(t, err)
	assert.Zero(t, sum)
}
