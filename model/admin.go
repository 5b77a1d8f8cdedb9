package model

import "time"

type AdminUser struct {
	ID           string     `json:"id" gorm:"primaryKey;type:text;not null"`
	Username     string     `json:"username" gorm:"uniqueIndex;not null;size:64"`
	Email        string     `json:"email" gorm:"size:254"`
	PasswordHash string     `json:"-" gorm:"not null;size:255"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	LastLoginIP  string     `json:"last_login_ip,omitempty" gorm:"size:64"`
	CreatedAt    time.Time  `json:"created_at" gorm:"not null"`
	UpdatedAt    time.Time  `json:"updated_at" gorm:"not null"`
}
