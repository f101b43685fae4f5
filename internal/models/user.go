package models

import "time"

type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

// User is a panel account. Only admins can reach the mutating endpoints.
type User struct {
	ID           string     `gorm:"column:id;type:varchar(36);primaryKey" json:"id"`
	Email        string     `gorm:"column:email;type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string     `gorm:"column:password_hash;type:varchar(100);not null" json:"-"`
	Role         UserRole   `gorm:"column:role;type:varchar(20);not null;default:user" json:"role"`
	CreatedAt    time.Time  `gorm:"column:created_at" json:"created_at"`
	LastSignInAt *time.Time `gorm:"column:last_sign_in_at" json:"last_sign_in_at"`
}

func (User) TableName() string { return "users" }
