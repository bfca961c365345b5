package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/SketchShifter/comment_widget_backend/internal/config"
	"github.com/SketchShifter/comment_widget_backend/internal/schema"
)

var rootCmd = &cobra.Command{
	Use:   "migrate",
	Short: "コメントウィジェットのテーブルを管理する",
	Long: `comments / likes テーブルを作成・削除します。

接続先はサーバーと同じ設定（.env、widget.yaml、環境変数）から読み込みます。`,
	SilenceUsage: true,
}

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "テーブルとインデックスを作成する",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withManager(cmd.Context(), func(ctx context.Context, m schema.Manager) error {
			if err := m.EnsureSchema(ctx); err != nil {
				return fmt.Errorf("マイグレーションに失敗しました: %w", err)
			}
			fmt.Println("マイグレーションが成功しました")
			return nil
		})
	},
}

var downCmd = &cobra.Command{
	Use:   "down",
	Short: "テーブルを削除する",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withManager(cmd.Context(), func(ctx context.Context, m schema.Manager) error {
			if err := m.DropSchema(ctx); err != nil {
				return err
			}
			fmt.Println("テーブルの削除が成功しました")
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(upCmd)
	rootCmd.AddCommand(downCmd)
}

// withManager 設定を読み込んで接続し、fn に Manager を渡す
func withManager(ctx context.Context, fn func(ctx context.Context, m schema.Manager) error) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("設定の読み込みに失敗しました: %w", err)
	}

	sqlDB, err := config.OpenSQL(cfg)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	return fn(ctx, schema.NewManager(sqlDB, cfg.Database.Driver))
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
