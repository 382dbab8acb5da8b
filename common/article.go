package common

import (
	"time"

	"github.com/guregu/null/v5"
)

// Article is a knowledge-base entry. Tags is a free-text, comma separated list.
type Article struct {
	ID        int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	Title     string      `gorm:"type:text;not null" json:"title"`
	Content   string      `gorm:"type:text;not null" json:"content"`
	Tags      null.String `gorm:"type:text" json:"tags"`
	CreatedAt time.Time   `gorm:"autoCreateTime" json:"created_at"`
}

func (Article) TableName() string {
	return "kb_articles"
}

func (a Article) Field(key string) (interface{}, bool) {
	switch key {
	case "id":
		return a.ID, true
	case "title":
		return a.Title, true
	case "content":
		return a.Content, true
	case "tags":
		return a.Tags, true
	case "created_at":
		return a.CreatedAt, true
	}
	return nil, false
}
