package services

import (
	"errors"
	"fmt"
	"time"
)

// ValidationError 入力値の検証エラー（400）
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(message string) error {
	return &ValidationError{Message: message}
}

var (
	// ErrRateLimited 投稿間隔が短すぎる（429）
	ErrRateLimited = errors.New("コメントの投稿間隔が短すぎます")
	// ErrCommentNotFound コメントが存在しない（404）
	ErrCommentNotFound = errors.New("コメントが見つかりません")
	// ErrForbidden 投稿時のIPと一致しない（403）
	ErrForbidden = errors.New("自分のコメントのみ削除できます")
	// ErrWrongPassword パスワードが一致しない（401）
	ErrWrongPassword = errors.New("パスワードが一致しません")
)

// RateLimitError 連投制限に掛かった場合のエラー。errors.Is(err, ErrRateLimited) で判定できる
type RateLimitError struct {
	Window time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("コメントは%d秒に1回まで投稿できます", int(e.Window.Seconds()))
}

func (e *RateLimitError) Is(target error) bool {
	return target == ErrRateLimited
}
