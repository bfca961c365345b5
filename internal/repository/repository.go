package repository

import (
	"context"
	"errors"
	"time"

	"github.com/SketchShifter/comment_widget_backend/internal/models"
)

// ErrNotFound 対象のレコードが存在しない
var ErrNotFound = errors.New("レコードが見つかりません")

// CommentRepository コメントに関するデータベース操作を行うインターフェース
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	FindByID(ctx context.Context, id string) (*models.Comment, error)
	Delete(ctx context.Context, id string) error
	ListByPage(ctx context.Context, pageID string, page, limit int) ([]models.Comment, int64, error)
	// LatestCreatedAtByIP IPから最後に投稿された時刻。投稿が無ければ nil
	LatestCreatedAtByIP(ctx context.Context, ip string) (*time.Time, error)
}

// LikeRepository いいねに関するデータベース操作を行うインターフェース
type LikeRepository interface {
	Exists(ctx context.Context, pageID, ip string) (bool, error)
	Create(ctx context.Context, like *models.Like) error
	Delete(ctx context.Context, pageID, ip string) error
	CountByPage(ctx context.Context, pageID string) (int64, error)
}

// Repositories サービスが利用するリポジトリ一式
type Repositories struct {
	Comments CommentRepository
	Likes    LikeRepository
}

func offsetOf(page, limit int) int {
	return (page - 1) * limit
}
