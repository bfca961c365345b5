package controllers

import (
	"net/http"

	"github.com/SketchShifter/comment_widget_backend/internal/identity"

	"github.com/gin-gonic/gin"
)

// IPController 呼び出し元IPを返すコントローラー
type IPController struct{}

// NewIPController IPControllerを作成
func NewIPController() *IPController {
	return &IPController{}
}

// Get 呼び出し元のIPを返す
func (c *IPController) Get(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"ip":      identity.Resolve(ctx.Request),
	})
}
