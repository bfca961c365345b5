package services

import (
	"context"
	"strings"
	"time"

	"github.com/SketchShifter/comment_widget_backend/internal/models"
	"github.com/SketchShifter/comment_widget_backend/internal/repository"
	"github.com/SketchShifter/comment_widget_backend/internal/schema"
)

// LikeService いいねに関するサービスインターフェース
type LikeService interface {
	Get(ctx context.Context, pageID, ip string) (*models.LikeStatus, error)
	Toggle(ctx context.Context, pageID, ip string) (*models.LikeStatus, error)
}

// likeService LikeServiceの実装
type likeService struct {
	likeRepo repository.LikeRepository
	guard    *schema.Guard
	now      func() time.Time
}

// NewLikeService LikeServiceを作成
func NewLikeService(likeRepo repository.LikeRepository, guard *schema.Guard) LikeService {
	return &likeService{
		likeRepo: likeRepo,
		guard:    guard,
		now: func() time.Time {
			return time.Now().UTC()
		},
	}
}

func validateLike(pageID, ip string) error {
	if strings.TrimSpace(pageID) == "" || strings.TrimSpace(ip) == "" {
		return invalid("ページIDとIPが必要です")
	}
	return nil
}

// Get ページのいいね数とIPのいいね状態を取得
func (s *likeService) Get(ctx context.Context, pageID, ip string) (*models.LikeStatus, error) {
	if err := validateLike(pageID, ip); err != nil {
		return nil, err
	}

	status := &models.LikeStatus{}
	err := s.guard.Do(ctx, func(ctx context.Context) error {
		total, err := s.likeRepo.CountByPage(ctx, pageID)
		if err != nil {
			return err
		}
		liked, err := s.likeRepo.Exists(ctx, pageID, ip)
		if err != nil {
			return err
		}
		status.Total = total
		status.Liked = liked
		return nil
	})
	if err != nil {
		return nil, err
	}
	return status, nil
}

// Toggle いいね済みなら取り消し、未いいねなら追加する。
// 確認と更新は別々のクエリなので、同じIPからの同時リクエストは競合しうる
func (s *likeService) Toggle(ctx context.Context, pageID, ip string) (*models.LikeStatus, error) {
	if err := validateLike(pageID, ip); err != nil {
		return nil, err
	}

	status := &models.LikeStatus{}
	err := s.guard.Do(ctx, func(ctx context.Context) error {
		exists, err := s.likeRepo.Exists(ctx, pageID, ip)
		if err != nil {
			return err
		}

		if exists {
			// いいねを取り消し
			if err := s.likeRepo.Delete(ctx, pageID, ip); err != nil {
				return err
			}
		} else {
			// いいねを追加
			like := &models.Like{PageID: pageID, IP: ip, CreatedAt: s.now()}
			if err := s.likeRepo.Create(ctx, like); err != nil {
				return err
			}
		}

		total, err := s.likeRepo.CountByPage(ctx, pageID)
		if err != nil {
			return err
		}
		status.Total = total
		status.Liked = !exists
		return nil
	})
	if err != nil {
		return nil, err
	}
	return status, nil
}
