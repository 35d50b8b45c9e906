package models

import "time"

const (
	WithdrawalPending  = "pending"
	WithdrawalApproved = "approved"
	WithdrawalRejected = "rejected"
)

// MinWithdrawalCoins is the smallest redeemable amount. 1000 coins = ₹10.
const MinWithdrawalCoins = 1000

// Withdrawal is an escrow-and-approve payout request. Coins leave the user's
// balance the moment the request is created; approval pays out externally,
// rejection refunds through the ledger.
type Withdrawal struct {
	ID        string  `gorm:"primaryKey;type:uuid" json:"id"`
	UserID    string  `gorm:"index;not null" json:"user_id"`
	Amount    int64   `gorm:"not null" json:"amount"`
	AmountInr float64 `gorm:"not null" json:"amount_inr"`
	UpiID     string  `gorm:"not null" json:"upi_id"`

	Status        string     `gorm:"type:varchar(12);default:'pending';index" json:"status"`
	ProcessedByID *string    `gorm:"index" json:"processed_by_id,omitempty"`
	ProcessedAt   *time.Time `json:"processed_at,omitempty"`
	Remarks       string     `gorm:"type:text" json:"remarks,omitempty"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime;index"`
}

// FiatAmount converts coins to INR at the fixed rate (1000 coins = 10 INR).
func FiatAmount(coins int64) float64 {
	return float64(coins) / 1000 * 10
}
