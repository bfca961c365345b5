package models

import (
	"time"
)

// Comment はページに紐づくコメントモデル
type Comment struct {
	ID           string    `json:"commentId" gorm:"column:comment_id;primaryKey" db:"comment_id"`
	PageID       string    `json:"-" gorm:"column:page_id;not null" db:"page_id"`
	Nickname     string    `json:"nickname" gorm:"column:nickname;not null" db:"nickname"`
	PasswordHash string    `json:"-" gorm:"column:password_hash;not null" db:"password_hash"` // クライアントには返さない
	Content      string    `json:"content" gorm:"column:content;not null" db:"content"`
	IP           string    `json:"ip" gorm:"column:ip;not null" db:"ip"`
	CreatedAt    time.Time `json:"createdAt" gorm:"column:created_at" db:"created_at"`
}

// TableName テーブル名指定
func (Comment) TableName() string {
	return "comments"
}
