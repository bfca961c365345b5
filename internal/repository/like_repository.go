package repository

import (
	"context"

	"github.com/SketchShifter/comment_widget_backend/internal/models"

	"gorm.io/gorm"
)

// likeRepository LikeRepositoryのGORM実装
type likeRepository struct {
	db *gorm.DB
}

// NewLikeRepository LikeRepositoryを作成
func NewLikeRepository(db *gorm.DB) LikeRepository {
	return &likeRepository{db: db}
}

// Exists IPがページにいいねしているか確認
func (r *likeRepository) Exists(ctx context.Context, pageID, ip string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Like{}).
		Where("page_id = ? AND ip = ?", pageID, ip).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create いいねを追加
func (r *likeRepository) Create(ctx context.Context, like *models.Like) error {
	return r.db.WithContext(ctx).Create(like).Error
}

// Delete いいねを削除
func (r *likeRepository) Delete(ctx context.Context, pageID, ip string) error {
	return r.db.WithContext(ctx).
		Where("page_id = ? AND ip = ?", pageID, ip).
		Delete(&models.Like{}).Error
}

// CountByPage ページのいいね数を取得
func (r *likeRepository) CountByPage(ctx context.Context, pageID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Like{}).
		Where("page_id = ?", pageID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// NewGormRepositories GORMを使うリポジトリ一式を作成
func NewGormRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Comments: NewCommentRepository(db),
		Likes:    NewLikeRepository(db),
	}
}
