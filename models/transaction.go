package models

import "time"

// TransactionCategory tags every ledger entry with the action that caused it.
type TransactionCategory string

const (
	CategoryTap        TransactionCategory = "tap"
	CategoryTask       TransactionCategory = "task"
	CategoryGame       TransactionCategory = "game"
	CategoryTournament TransactionCategory = "tournament"
	CategoryReferral   TransactionCategory = "referral"
	CategoryWithdrawal TransactionCategory = "withdrawal"
	CategoryAdmin      TransactionCategory = "admin"
)

// ReferenceKind names the entity a transaction points back at.
const (
	RefTask       = "task"
	RefGame       = "game"
	RefTournament = "tournament"
	RefUser       = "user"
	RefWithdrawal = "withdrawal"
)

// Transaction is one append-only ledger entry. The invariant the whole
// economy hangs on: for every user, sum(amount) == users.coins. Entries are
// written in the same DB transaction as the balance change and never updated
// afterwards.
type Transaction struct {
	ID            string              `gorm:"primaryKey;type:uuid" json:"id"`
	UserID        string              `gorm:"index;not null" json:"user_id"`
	Amount        int64               `gorm:"not null" json:"amount"` // signed, negative = debit
	Category      TransactionCategory `gorm:"type:varchar(16);not null;index" json:"category"`
	Description   string              `gorm:"not null" json:"description"`
	ReferenceID   *string             `gorm:"index" json:"reference_id,omitempty"`
	ReferenceKind string              `gorm:"type:varchar(16)" json:"reference_kind,omitempty"`
	CreatedAt     time.Time           `json:"created_at" gorm:"autoCreateTime;index"`
}
