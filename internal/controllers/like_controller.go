package controllers

import (
	"net/http"

	"github.com/SketchShifter/comment_widget_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// LikeController いいねに関するコントローラー
type LikeController struct {
	likeService services.LikeService
}

// NewLikeController LikeControllerを作成
func NewLikeController(likeService services.LikeService) *LikeController {
	return &LikeController{
		likeService: likeService,
	}
}

// ToggleLikeRequest いいね切り替えリクエスト
type ToggleLikeRequest struct {
	ID string `json:"id"`
	IP string `json:"ip"`
}

// Get いいね数といいね状態を取得
func (c *LikeController) Get(ctx *gin.Context) {
	status, err := c.likeService.Get(ctx.Request.Context(), ctx.Query("id"), ctx.Query("ip"))
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"total":   status.Total,
		"liked":   status.Liked,
	})
}

// Toggle いいねを切り替え
func (c *LikeController) Toggle(ctx *gin.Context) {
	var req ToggleLikeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		fail(ctx, http.StatusBadRequest, "リクエストの形式が不正です")
		return
	}

	status, err := c.likeService.Toggle(ctx.Request.Context(), req.ID, req.IP)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"total":   status.Total,
		"liked":   status.Liked,
	})
}
