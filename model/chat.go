package model

import "time"

type ChatLog struct {
	ID        string    `json:"id" gorm:"primaryKey;type:text;not null"`
	SessionID string    `json:"session_id" gorm:"index;not null;size:64"`
	IP        string    `json:"ip" gorm:"size:64"`
	Role      string    `json:"role" gorm:"not null;size:16"`
	Message   string    `json:"message" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at" gorm:"index;not null"`
}
