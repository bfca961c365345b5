package services

import (
	"context"
	"errors"
	"log"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/SketchShifter/comment_widget_backend/internal/models"
	"github.com/SketchShifter/comment_widget_backend/internal/repository"
	"github.com/SketchShifter/comment_widget_backend/internal/schema"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	MaxNicknameLength = 20
	PasswordLength    = 4
	MaxContentLength  = 500
)

// CommentService コメントに関するサービスインターフェース
type CommentService interface {
	Create(ctx context.Context, pageID, nickname, password, content, ip string) (string, error)
	List(ctx context.Context, pageID string, page, pageSize int) ([]models.Comment, int64, error)
	Delete(ctx context.Context, commentID, password, ip string) error
}

// CommentOptions コメントサービスの設定
type CommentOptions struct {
	RateLimitWindow time.Duration
	BcryptCost      int
}

// commentService CommentServiceの実装
type commentService struct {
	commentRepo repository.CommentRepository
	guard       *schema.Guard
	opts        CommentOptions
	now         func() time.Time
}

// NewCommentService CommentServiceを作成
func NewCommentService(commentRepo repository.CommentRepository, guard *schema.Guard, opts CommentOptions) CommentService {
	return newCommentService(commentRepo, guard, opts)
}

func newCommentService(commentRepo repository.CommentRepository, guard *schema.Guard, opts CommentOptions) *commentService {
	if opts.RateLimitWindow <= 0 {
		opts.RateLimitWindow = 10 * time.Second
	}
	if opts.BcryptCost == 0 {
		opts.BcryptCost = 10
	}
	return &commentService{
		commentRepo: commentRepo,
		guard:       guard,
		opts:        opts,
		now: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Create 新しいコメントを作成し、IDを返す
func (s *commentService) Create(ctx context.Context, pageID, nickname, password, content, ip string) (string, error) {
	if err := validateComment(pageID, nickname, password, content); err != nil {
		return "", err
	}

	// 連投制限。確認自体に失敗した場合は投稿を止めない
	now := s.now()
	latest, err := s.commentRepo.LatestCreatedAtByIP(ctx, ip)
	if err != nil {
		log.Printf("連投制限の確認に失敗しました: ip=%s: %v", ip, err)
	} else if latest != nil && now.Sub(*latest) < s.opts.RateLimitWindow {
		return "", &RateLimitError{Window: s.opts.RateLimitWindow}
	}

	// パスワードをハッシュ化
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), s.opts.BcryptCost)
	if err != nil {
		return "", err
	}

	comment := &models.Comment{
		ID:           uuid.NewString(),
		PageID:       pageID,
		Nickname:     nickname,
		PasswordHash: string(hashedPassword),
		Content:      content,
		IP:           ip,
		CreatedAt:    now,
	}

	// データベースに保存
	if err := s.guard.Do(ctx, func(ctx context.Context) error {
		return s.commentRepo.Create(ctx, comment)
	}); err != nil {
		return "", err
	}

	return comment.ID, nil
}

// validateComment 入力値を順に検証する
func validateComment(pageID, nickname, password, content string) error {
	if strings.TrimSpace(pageID) == "" || strings.TrimSpace(nickname) == "" ||
		password == "" || strings.TrimSpace(content) == "" {
		return invalid("すべての項目を入力してください")
	}
	if utf8.RuneCountInString(nickname) > MaxNicknameLength {
		return invalid("ニックネームは20文字以内で入力してください")
	}
	if utf8.RuneCountInString(password) != PasswordLength {
		return invalid("パスワードは4文字で入力してください")
	}
	if utf8.RuneCountInString(content) > MaxContentLength {
		return invalid("コメントは500文字以内で入力してください")
	}
	return nil
}

// List ページのコメント一覧を新しい順に取得
func (s *commentService) List(ctx context.Context, pageID string, page, pageSize int) ([]models.Comment, int64, error) {
	if strings.TrimSpace(pageID) == "" {
		return nil, 0, invalid("ページIDが必要です")
	}
	if page < 1 || pageSize < 1 {
		return nil, 0, invalid("ページ番号と件数は1以上で指定してください")
	}
	// オフセット (page-1)*pageSize が int に収まる範囲のみ受け付ける
	if page-1 > math.MaxInt/pageSize {
		return nil, 0, invalid("ページ番号が大きすぎます")
	}

	var comments []models.Comment
	var total int64
	err := s.guard.Do(ctx, func(ctx context.Context) error {
		var err error
		comments, total, err = s.commentRepo.ListByPage(ctx, pageID, page, pageSize)
		return err
	})
	if err != nil {
		return nil, 0, err
	}

	if comments == nil {
		comments = []models.Comment{}
	}
	return comments, total, nil
}

// Delete コメントを削除。投稿時のIP、パスワードの順に確認する
func (s *commentService) Delete(ctx context.Context, commentID, password, ip string) error {
	if commentID == "" || password == "" {
		return invalid("コメントIDとパスワードが必要です")
	}

	return s.guard.Do(ctx, func(ctx context.Context) error {
		comment, err := s.commentRepo.FindByID(ctx, commentID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrCommentNotFound
			}
			return err
		}

		// 権限チェック
		if comment.IP != ip {
			return ErrForbidden
		}

		if err := bcrypt.CompareHashAndPassword([]byte(comment.PasswordHash), []byte(password)); err != nil {
			if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
				return ErrWrongPassword
			}
			return err
		}

		// データベースから削除
		return s.commentRepo.Delete(ctx, commentID)
	})
}
