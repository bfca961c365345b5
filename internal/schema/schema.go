package schema

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"golang.org/x/sync/singleflight"
)

// Manager comments / likes テーブルのライフサイクルを管理する
type Manager interface {
	EnsureSchema(ctx context.Context) error
	DropSchema(ctx context.Context) error
}

// Execer DDLを実行できるもの（*sql.DB, *sqlx.DB）
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

var postgresCreate = []string{
	`CREATE TABLE IF NOT EXISTS comments (
		comment_id UUID DEFAULT gen_random_uuid() PRIMARY KEY,
		page_id VARCHAR(255) NOT NULL,
		nickname VARCHAR(20) NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		content TEXT NOT NULL,
		ip VARCHAR(45) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_comments_page_created ON comments (page_id, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_comments_ip_created ON comments (ip, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS likes (
		page_id VARCHAR(255) NOT NULL,
		ip VARCHAR(45) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (page_id, ip)
	)`,
}

// MySQL には CREATE INDEX IF NOT EXISTS が無いため、インデックスはテーブル定義に含める
var mysqlCreate = []string{
	`CREATE TABLE IF NOT EXISTS comments (
		comment_id CHAR(36) NOT NULL PRIMARY KEY,
		page_id VARCHAR(255) NOT NULL,
		nickname VARCHAR(20) NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		content TEXT NOT NULL,
		ip VARCHAR(45) NOT NULL,
		created_at DATETIME(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6),
		INDEX idx_comments_page_created (page_id, created_at DESC),
		INDEX idx_comments_ip_created (ip, created_at DESC)
	) DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS likes (
		page_id VARCHAR(255) NOT NULL,
		ip VARCHAR(45) NOT NULL,
		created_at DATETIME(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6),
		PRIMARY KEY (page_id, ip)
	) DEFAULT CHARSET=utf8mb4`,
}

var dropStatements = []string{
	`DROP TABLE IF EXISTS likes`,
	`DROP TABLE IF EXISTS comments`,
}

// sqlManager Managerの実装
type sqlManager struct {
	db     Execer
	create []string
	group  singleflight.Group
}

// NewManager ドライバーに応じたManagerを作成
func NewManager(db Execer, driver string) Manager {
	create := postgresCreate
	if driver == "mysql" {
		create = mysqlCreate
	}
	return &sqlManager{db: db, create: create}
}

// EnsureSchema テーブルとインデックスが無ければ作成する。何度呼んでもよい
func (m *sqlManager) EnsureSchema(ctx context.Context) error {
	// 同じ作成処理を待つ他のリクエストがいるため、呼び出し元のキャンセルは引き継がない
	ctx = context.WithoutCancel(ctx)
	_, err, _ := m.group.Do("ensure", func() (interface{}, error) {
		for _, stmt := range m.create {
			if _, err := m.db.ExecContext(ctx, stmt); err != nil {
				if isAlreadyExists(err) {
					continue
				}
				return nil, fmt.Errorf("スキーマの作成に失敗しました: %w", err)
			}
		}
		log.Println("データベーステーブルの確認が完了しました")
		return nil, nil
	})
	return err
}

// DropSchema likes / comments テーブルを削除
func (m *sqlManager) DropSchema(ctx context.Context) error {
	for _, stmt := range dropStatements {
		if _, err := m.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("テーブルの削除に失敗しました: %w", err)
		}
	}
	return nil
}
