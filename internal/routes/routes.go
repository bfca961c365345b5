package routes

import (
	"github.com/SketchShifter/comment_widget_backend/internal/config"
	"github.com/SketchShifter/comment_widget_backend/internal/controllers"
	"github.com/SketchShifter/comment_widget_backend/internal/middlewares"
	"github.com/SketchShifter/comment_widget_backend/internal/repository"
	"github.com/SketchShifter/comment_widget_backend/internal/schema"
	"github.com/SketchShifter/comment_widget_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// Dependencies ルーターが利用する永続化レイヤー
type Dependencies struct {
	Repositories *repository.Repositories
	Schema       schema.Ensurer
	DB           services.Pinger
}

// SetupRouter ルーターを設定
func SetupRouter(cfg *config.Config, deps Dependencies) *gin.Engine {
	// Ginルーターを作成
	r := gin.Default()
	r.HandleMethodNotAllowed = true

	// ミドルウェアを設定
	r.Use(middlewares.ErrorMiddleware())
	r.Use(middlewares.CORSMiddleware())

	r.NoMethod(controllers.MethodNotAllowed)
	r.NoRoute(controllers.NotFound)

	// テーブル未作成時の再試行
	guard := schema.NewGuard(deps.Schema)

	// サービスを作成
	commentService := services.NewCommentService(deps.Repositories.Comments, guard, services.CommentOptions{
		RateLimitWindow: cfg.Comment.RateLimitWindow,
		BcryptCost:      cfg.Comment.BcryptCost,
	})
	likeService := services.NewLikeService(deps.Repositories.Likes, guard)
	healthService := services.NewHealthService(deps.DB)

	// コントローラーを作成
	commentController := controllers.NewCommentController(commentService, cfg.Comment.MaxPerPage)
	likeController := controllers.NewLikeController(likeService)
	ipController := controllers.NewIPController()
	healthController := controllers.NewHealthController(healthService)

	// ルート直下と /api の両方に同じルートを登録
	for _, prefix := range []string{"", "/api"} {
		api := r.Group(prefix)
		{
			api.GET("/health", healthController.Check)
			api.GET("/ip", ipController.Get)

			// コメントルート
			api.GET("/comments", commentController.List)
			api.POST("/comments", commentController.Create)
			api.DELETE("/comments/:commentId", commentController.Delete)

			// いいねルート
			api.GET("/likes", likeController.Get)
			api.POST("/likes", likeController.Toggle)
		}
	}

	return r
}
