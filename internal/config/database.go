package config

import (
	"database/sql"
	"fmt"
	"log"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newCustomLogger() logger.Interface {
	return logger.New(
		log.New(log.Writer(), "[GORM] ", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second, // 1秒以上のクエリを遅いと判断
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true, // 存在しないコメントの検索は通常の動作
			Colorful:                  false,
		},
	)
}

// DSN ドライバーに渡す接続文字列を組み立てる
func (c DatabaseConfig) DSN() string {
	timeoutMs := c.StatementTimeout.Milliseconds()

	switch c.Driver {
	case DriverMySQL:
		dsn := c.URL
		if dsn == "" {
			port := c.Port
			if port == "" {
				port = "3306"
			}
			dsn = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
				c.Username, c.Password, c.Host, port, c.DBName)
		}
		// created_at を time.Time として読むために必要
		if !strings.Contains(strings.ToLower(dsn), "parsetime=") {
			dsn = appendParam(dsn, "?", "&", "parseTime=true")
		}
		if timeoutMs > 0 {
			dsn = appendParam(dsn, "?", "&", fmt.Sprintf("max_execution_time=%d", timeoutMs))
		}
		return dsn

	default:
		dsn := c.URL
		if dsn == "" {
			port := c.Port
			if port == "" {
				port = "5432"
			}
			dsn = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
				c.Host, port, c.Username, c.Password, c.DBName, c.SSLMode)
		}
		if timeoutMs > 0 {
			// lib/pq は未知のパラメータをランタイムパラメータとしてサーバーへ送る
			param := fmt.Sprintf("statement_timeout=%d", timeoutMs)
			if strings.Contains(dsn, "://") {
				dsn = appendParam(dsn, "?", "&", param)
			} else {
				dsn = dsn + " " + param
			}
		}
		return dsn
	}
}

func appendParam(dsn, first, next, param string) string {
	if strings.Contains(dsn, first) {
		return dsn + next + param
	}
	return dsn + first + param
}

// OpenSQL コネクションプールを作成して接続を確認
func OpenSQL(cfg *Config) (*sql.DB, error) {
	log.Printf("データベースに接続中: driver=%s", cfg.Database.Driver)

	sqlDB, err := sql.Open(cfg.Database.Driver, cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("データベース接続のオープンに失敗: %w", err)
	}

	// 接続プールの設定
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(time.Hour)

	// 接続テスト
	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("データベース接続テストに失敗: %w", err)
	}

	log.Println("データベース接続に成功しました")

	return sqlDB, nil
}

// InitDB 既存のコネクションプールをGORMで包む
func InitDB(cfg *Config, sqlDB *sql.DB) (*gorm.DB, error) {
	// GORM設定
	gormConfig := &gorm.Config{
		Logger:                 newCustomLogger(),
		SkipDefaultTransaction: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}

	var dialector gorm.Dialector
	switch cfg.Database.Driver {
	case DriverMySQL:
		dialector = mysql.New(mysql.Config{Conn: sqlDB, SkipInitializeWithVersion: true})
	default:
		dialector = postgres.New(postgres.Config{Conn: sqlDB})
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, err
	}

	return db, nil
}

// InitSQLX 既存のコネクションプールをsqlxで包む
func InitSQLX(cfg *Config, sqlDB *sql.DB) *sqlx.DB {
	return sqlx.NewDb(sqlDB, cfg.Database.Driver)
}
