package controllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/SketchShifter/comment_widget_backend/internal/services"

	"github.com/gin-gonic/gin"
)

const serverErrorMessage = "サーバーエラーが発生しました"

// fail 失敗レスポンスを返す
func fail(ctx *gin.Context, status int, message string) {
	ctx.JSON(status, gin.H{
		"success": false,
		"message": message,
	})
}

// respondError サービスのエラーをステータスコードに変換して返す。
// 想定外のエラーは詳細をログに残し、クライアントには汎用メッセージのみ返す
func respondError(ctx *gin.Context, err error) {
	var validationErr *services.ValidationError
	switch {
	case errors.As(err, &validationErr):
		fail(ctx, http.StatusBadRequest, validationErr.Message)
	case errors.Is(err, services.ErrRateLimited):
		fail(ctx, http.StatusTooManyRequests, err.Error())
	case errors.Is(err, services.ErrCommentNotFound):
		fail(ctx, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrForbidden):
		fail(ctx, http.StatusForbidden, err.Error())
	case errors.Is(err, services.ErrWrongPassword):
		fail(ctx, http.StatusUnauthorized, err.Error())
	default:
		log.Printf("リクエストの処理に失敗しました: %s %s: %v", ctx.Request.Method, ctx.Request.URL.Path, err)
		fail(ctx, http.StatusInternalServerError, serverErrorMessage)
	}
}

// MethodNotAllowed 未対応のメソッド
func MethodNotAllowed(ctx *gin.Context) {
	fail(ctx, http.StatusMethodNotAllowed, "Method not allowed")
}

// NotFound 存在しないパス
func NotFound(ctx *gin.Context) {
	fail(ctx, http.StatusNotFound, "Not found")
}
