package model

import "time"

// ContactSubmission is the audit trail row written for every classified
// submission, accepted or not. The admin dashboard reads this table.
type ContactSubmission struct {
	ID        string    `json:"id" gorm:"primaryKey;type:text;not null"`
	IP        string    `json:"ip" gorm:"index;size:64"`
	Name      string    `json:"name" gorm:"size:100"`
	Email     string    `json:"email" gorm:"index;size:254"`
	Subject   string    `json:"subject" gorm:"size:200"`
	Message   string    `json:"message" gorm:"type:text"`
	Accepted  bool      `json:"accepted" gorm:"index;not null"`
	Reason    string    `json:"reason,omitempty" gorm:"size:64"`
	SpamScore int       `json:"spam_score" gorm:"default:0"`
	Country   string    `json:"country,omitempty" gorm:"size:100"`
	UserAgent string    `json:"user_agent,omitempty" gorm:"size:255"`
	CreatedAt time.Time `json:"created_at" gorm:"index;not null"`
}
