package controllers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/SketchShifter/comment_widget_backend/internal/identity"
	"github.com/SketchShifter/comment_widget_backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	defaultPage       = 1
	defaultMaxPerPage = 10
)

// CommentController コメントに関するコントローラー
type CommentController struct {
	commentService services.CommentService
	maxPerPage     int
}

// NewCommentController CommentControllerを作成
func NewCommentController(commentService services.CommentService, maxPerPage int) *CommentController {
	return &CommentController{
		commentService: commentService,
		maxPerPage:     maxPerPage,
	}
}

// CreateCommentRequest コメント作成リクエスト。IPはリクエストから求めるため受け取らない
type CreateCommentRequest struct {
	ID       string `json:"id"`
	Nickname string `json:"nickname"`
	Password string `json:"password"`
	Content  string `json:"content"`
}

// DeleteCommentRequest コメント削除リクエスト
type DeleteCommentRequest struct {
	Password string `json:"password"`
}

// List ページのコメント一覧を取得
func (c *CommentController) List(ctx *gin.Context) {
	pageID := ctx.Query("id")
	if pageID == "" {
		fail(ctx, http.StatusBadRequest, "ページIDが必要です")
		return
	}

	// 数値パラメータを解析
	page, err := strconv.Atoi(ctx.DefaultQuery("page", strconv.Itoa(defaultPage)))
	if err != nil || page < 1 {
		fail(ctx, http.StatusBadRequest, "ページ番号が不正です")
		return
	}

	maxPerPage, err := strconv.Atoi(ctx.DefaultQuery("max", strconv.Itoa(defaultMaxPerPage)))
	if err != nil || maxPerPage < 1 {
		fail(ctx, http.StatusBadRequest, "表示件数が不正です")
		return
	}
	if maxPerPage > c.maxPerPage {
		maxPerPage = c.maxPerPage
	}

	comments, total, err := c.commentService.List(ctx.Request.Context(), pageID, page, maxPerPage)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success":    true,
		"comments":   comments,
		"total":      total,
		"page":       page,
		"maxPerPage": maxPerPage,
	})
}

// Create 新しいコメントを作成
func (c *CommentController) Create(ctx *gin.Context) {
	var req CreateCommentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		fail(ctx, http.StatusBadRequest, "リクエストの形式が不正です")
		return
	}

	ip := identity.Resolve(ctx.Request)

	commentID, err := c.commentService.Create(ctx.Request.Context(), req.ID, req.Nickname, req.Password, req.Content, ip)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"success":   true,
		"commentId": commentID,
		"message":   "コメントを登録しました",
	})
}

// Delete コメントを削除
func (c *CommentController) Delete(ctx *gin.Context) {
	commentID := ctx.Param("commentId")
	if _, err := uuid.Parse(commentID); err != nil {
		fail(ctx, http.StatusBadRequest, "無効なコメントIDです")
		return
	}

	// ボディが空の場合はパスワード未入力として扱う
	var req DeleteCommentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		fail(ctx, http.StatusBadRequest, "リクエストの形式が不正です")
		return
	}

	ip := identity.Resolve(ctx.Request)

	if err := c.commentService.Delete(ctx.Request.Context(), commentID, req.Password, ip); err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "コメントを削除しました",
	})
}
