package repository

import (
	"context"
	"errors"
	"time"

	"github.com/SketchShifter/comment_widget_backend/internal/models"

	"gorm.io/gorm"
)

// commentRepository CommentRepositoryのGORM実装
type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository CommentRepositoryを作成
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

// Create 新しいコメントを作成
func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

// FindByID IDでコメントを検索
func (r *commentRepository) FindByID(ctx context.Context, id string) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).Where("comment_id = ?", id).Take(&comment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &comment, nil
}

// Delete コメントを削除
func (r *commentRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("comment_id = ?", id).Delete(&models.Comment{}).Error
}

// ListByPage ページのコメント一覧を新しい順に取得
func (r *commentRepository) ListByPage(ctx context.Context, pageID string, page, limit int) ([]models.Comment, int64, error) {
	var comments []models.Comment
	var total int64

	db := r.db.WithContext(ctx)

	// 合計数を取得
	if err := db.Model(&models.Comment{}).
		Where("page_id = ?", pageID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// データを取得
	if err := db.Where("page_id = ?", pageID).
		Order("created_at DESC").
		Order("comment_id DESC").
		Offset(offsetOf(page, limit)).
		Limit(limit).
		Find(&comments).Error; err != nil {
		return nil, 0, err
	}

	return comments, total, nil
}

// LatestCreatedAtByIP IPから最後に投稿された時刻を取得（全ページ対象）
func (r *commentRepository) LatestCreatedAtByIP(ctx context.Context, ip string) (*time.Time, error) {
	var comments []models.Comment
	if err := r.db.WithContext(ctx).
		Select("created_at").
		Where("ip = ?", ip).
		Order("created_at DESC").
		Limit(1).
		Find(&comments).Error; err != nil {
		return nil, err
	}

	if len(comments) == 0 {
		return nil, nil
	}
	return &comments[0].CreatedAt, nil
}
