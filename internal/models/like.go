package models

import (
	"time"
)

// Like はいいねモデル。(page_id, ip) の組で一意
type Like struct {
	PageID    string    `json:"pageId" gorm:"column:page_id;primaryKey" db:"page_id"`
	IP        string    `json:"ip" gorm:"column:ip;primaryKey" db:"ip"`
	CreatedAt time.Time `json:"createdAt" gorm:"column:created_at" db:"created_at"`
}

// TableName テーブル名指定
func (Like) TableName() string {
	return "likes"
}

// LikeStatus ページのいいね集計と呼び出し元のいいね状態
type LikeStatus struct {
	Total int64 `json:"total"`
	Liked bool  `json:"liked"`
}
