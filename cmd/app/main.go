package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/SketchShifter/comment_widget_backend/internal/config"
	"github.com/SketchShifter/comment_widget_backend/internal/repository"
	"github.com/SketchShifter/comment_widget_backend/internal/routes"
	"github.com/SketchShifter/comment_widget_backend/internal/schema"
)

func main() {
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("サーバーを起動しています...")

	// 設定をロード
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("設定の読み込みに失敗しました: %v", err)
	}

	if cfg.Server.GinMode != "" {
		gin.SetMode(cfg.Server.GinMode)
	}

	gin.DebugPrintRouteFunc = func(httpMethod, absolutePath, handlerName string, nuHandlers int) {
		log.Printf("エンドポイント登録: %s %s -> %s (%d handlers)\n", httpMethod, absolutePath, handlerName, nuHandlers)
	}

	// データベース接続
	sqlDB, err := config.OpenSQL(cfg)
	if err != nil {
		log.Fatalf("データベース接続に失敗しました: %v", err)
	}
	defer sqlDB.Close()

	var repos *repository.Repositories
	switch cfg.Store.Client {
	case config.StoreClientSQLX:
		repos = repository.NewSQLXRepositories(config.InitSQLX(cfg, sqlDB))
	default:
		db, err := config.InitDB(cfg, sqlDB)
		if err != nil {
			log.Fatalf("GORMの初期化に失敗しました: %v", err)
		}
		repos = repository.NewGormRepositories(db)
	}
	log.Printf("ストアクライアント: %s, MaxOpenConns=%d\n", cfg.Store.Client, sqlDB.Stats().MaxOpenConnections)

	manager := schema.NewManager(sqlDB, cfg.Database.Driver)
	if cfg.Store.SchemaEager {
		if err := manager.EnsureSchema(context.Background()); err != nil {
			log.Fatalf("テーブルの作成に失敗しました: %v", err)
		}
		log.Println("テーブルの準備が完了しました")
	}

	// ルーターをセットアップ
	router := routes.SetupRouter(cfg, routes.Dependencies{
		Repositories: repos,
		Schema:       manager,
		DB:           sqlDB,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	log.Printf("サーバーを開始しています... PORT: %s", cfg.Server.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("サーバーの起動に失敗しました: %v", err)
	}
}
