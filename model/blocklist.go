package model

import "time"

// BlockedIP entries created by admin action have a nil ExpiresAt and live
// until explicitly removed.
type BlockedIP struct {
	ID        string     `json:"id" gorm:"primaryKey;type:text;not null"`
	IP        string     `json:"ip" gorm:"uniqueIndex;not null;size:64"`
	Reason    string     `json:"reason,omitempty" gorm:"size:255"`
	CreatedBy string     `json:"created_by,omitempty" gorm:"size:64"`
	ExpiresAt *time.Time `json:"expires_at,omitempty" gorm:"index"`
	CreatedAt time.Time  `json:"created_at" gorm:"not null"`
}

type BlockedEmail struct {
	ID        string     `json:"id" gorm:"primaryKey;type:text;not null"`
	Email     string     `json:"email" gorm:"uniqueIndex;not null;size:254"`
	Reason    string     `json:"reason,omitempty" gorm:"size:255"`
	CreatedBy string     `json:"created_by,omitempty" gorm:"size:64"`
	ExpiresAt *time.Time `json:"expires_at,omitempty" gorm:"index"`
	CreatedAt time.Time  `json:"created_at" gorm:"not null"`
}
