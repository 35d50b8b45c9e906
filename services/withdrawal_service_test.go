package services

import (
	"testing"

	"coin-economy-system/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestEscrowsCoins(t *testing.T) {
	db := newTestDB(t)
	withdrawals := NewWithdrawalService(db, NewEconomyService(db))
	user := seedUser(t, db, 5000)

	w, balance, err := withdrawals.Request(user.ID, 2000, "wolf@upi")
	require.NoError(t, err)
	assert.Equal(t, int64(3000), balance)
	assert.Equal(t, models.WithdrawalPending, w.Status)
	assert.Equal(t, 20.0, w.AmountInr)

	requireLedgerConsistent(t, db, user.ID)
}

func TestRequestBelowMinimum(t *testing.T) {
	db := newTestDB(t)
	withdrawals := NewWithdrawalService(db, NewEconomyService(db))
	user := seedUser(t, db, 5000)

	_, _, err := withdrawals.Request(user.ID, models.MinWithdrawalCoins-1, "wolf@upi")
	require.ErrorIs(t, err, ErrBelowMinimum)
	assert.Equal(t, int64(5000), reloadUser(t, db, user.ID).Coins)
}

func TestRequestInsufficientFunds(t *testing.T) {
	db := newTestDB(t)
	withdrawals := NewWithdrawalService(db, NewEconomyService(db))
	user := seedUser(t, db, 500)

	_, _, err := withdrawals.Request(user.ID, 1000, "wolf@upi")
	require.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Equal(t, int64(500), reloadUser(t, db, user.ID).Coins)

	// No withdrawal row survives a failed escrow
	history, err := withdrawals.History(user.ID)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestProcessApprovalKeepsBalance(t *testing.T) {
	db := newTestDB(t)
	withdrawals := NewWithdrawalService(db, NewEconomyService(db))
	user := seedUser(t, db, 5000)

	w, _, err := withdrawals.Request(user.ID, 2000, "wolf@upi")
	require.NoError(t, err)

	processed, err := withdrawals.Process(w.ID, "admin-1", models.WithdrawalApproved, "paid via UPI")
	require.NoError(t, err)
	assert.Equal(t, models.WithdrawalApproved, processed.Status)
	require.NotNil(t, processed.ProcessedAt)

	// Approval pays out externally, coins stay escrowed out
	assert.Equal(t, int64(3000), reloadUser(t, db, user.ID).Coins)
	requireLedgerConsistent(t, db, user.ID)
}

func TestProcessRejectionRefundsExactly(t *testing.T) {
	db := newTestDB(t)
	withdrawals := NewWithdrawalService(db, NewEconomyService(db))
	user := seedUser(t, db, 5000)

	w, _, err := withdrawals.Request(user.ID, 2000, "wolf@upi")
	require.NoError(t, err)

	processed, err := withdrawals.Process(w.ID, "admin-1", models.WithdrawalRejected, "invalid UPI id")
	require.NoError(t, err)
	assert.Equal(t, models.WithdrawalRejected, processed.Status)
	assert.Equal(t, "invalid UPI id", processed.Remarks)

	assert.Equal(t, int64(5000), reloadUser(t, db, user.ID).Coins)
	requireLedgerConsistent(t, db, user.ID)
}

func TestProcessIsTerminal(t *testing.T) {
	db := newTestDB(t)
	withdrawals := NewWithdrawalService(db, NewEconomyService(db))
	user := seedUser(t, db, 5000)

	w, _, err := withdrawals.Request(user.ID, 2000, "wolf@upi")
	require.NoError(t, err)

	_, err = withdrawals.Process(w.ID, "admin-1", models.WithdrawalRejected, "")
	require.NoError(t, err)

	// A second decision must not refund twice
	_, err = withdrawals.Process(w.ID, "admin-2", models.WithdrawalRejected, "")
	require.ErrorIs(t, err, ErrAlreadyProcessed)
	assert.Equal(t, int64(5000), reloadUser(t, db, user.ID).Coins)
	requireLedgerConsistent(t, db, user.ID)
}

func TestProcessUnknownWithdrawal(t *testing.T) {
	db := newTestDB(t)
	withdrawals := NewWithdrawalService(db, NewEconomyService(db))

	_, err := withdrawals.Process("missing", "admin-1", models.WithdrawalApproved, "")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestPendingQueueOrder(t *testing.T) {
	db := newTestDB(t)
	withdrawals := NewWithdrawalService(db, NewEconomyService(db))
	first := seedUser(t, db, 5000)
	second := seedUser(t, db, 5000)

	w1, _, err := withdrawals.Request(first.ID, 1000, "a@upi")
	require.NoError(t, err)
	_, _, err = withdrawals.Request(second.ID, 1000, "b@upi")
	require.NoError(t, err)

	pending, err := withdrawals.Pending()
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, w1.ID, pending[0].ID, "oldest request first")
}
