package model

import (
	"strings"
	"time"
)

type Post struct {
	ID          string     `json:"id" gorm:"primaryKey;type:text;not null"`
	Slug        string     `json:"slug" gorm:"uniqueIndex;not null;size:200"`
	Title       string     `json:"title" gorm:"not null;size:200"`
	Excerpt     string     `json:"excerpt,omitempty" gorm:"size:500"`
	Content     string     `json:"content" gorm:"type:text"`
	CoverURL    string     `json:"cover_url,omitempty" gorm:"size:500"`
	Tags        string     `json:"tags,omitempty" gorm:"size:500"` // comma separated
	Published   bool       `json:"published" gorm:"index;default:false;not null"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	Views       int64      `json:"views" gorm:"default:0;not null"`
	CreatedAt   time.Time  `json:"created_at" gorm:"not null"`
	UpdatedAt   time.Time  `json:"updated_at" gorm:"not null"`
}

func (p *Post) TagList() []string {
	if p.Tags == "" {
		return nil
	}
	return strings.Split(p.Tags, ",")
}

func (p *Post) SetTagList(tags []string) {
	p.Tags = strings.Join(tags, ",")
}
