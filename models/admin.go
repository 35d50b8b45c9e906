package models

import "time"

const (
	RoleAdmin      = "admin"
	RoleSuperadmin = "superadmin"
)

// Admin is a back-office operator account. Only superadmins may create new
// admins; both roles may process withdrawals and manage tasks/games.
type Admin struct {
	ID           string     `gorm:"primaryKey;type:uuid" json:"id"`
	Username     string     `gorm:"uniqueIndex;not null" json:"username"`
	Email        string     `gorm:"index" json:"email,omitempty"`
	PasswordHash string     `gorm:"not null" json:"-"`
	Role         string     `gorm:"type:varchar(12);default:'admin'" json:"role"`
	LastLogin    *time.Time `json:"last_login,omitempty"`

	Timestamps
}

func (a *Admin) IsSuperadmin() bool {
	return a.Role == RoleSuperadmin
}
