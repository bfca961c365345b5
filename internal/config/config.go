package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config アプリケーション設定
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Store    StoreConfig    `yaml:"store"`
	Comment  CommentConfig  `yaml:"comment"`
}

// ServerConfig サーバー設定
type ServerConfig struct {
	Port         string        `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	GinMode      string        `yaml:"gin_mode"`
}

// DatabaseConfig データベース設定
type DatabaseConfig struct {
	Driver           string        `yaml:"driver"` // postgres または mysql
	URL              string        `yaml:"url"`    // 接続文字列（空の場合は個別の値から組み立てる）
	Host             string        `yaml:"host"`
	Port             string        `yaml:"port"`
	Username         string        `yaml:"user"`
	Password         string        `yaml:"password"`
	DBName           string        `yaml:"name"`
	SSLMode          string        `yaml:"sslmode"`
	MaxOpenConns     int           `yaml:"max_open_conns"`
	MaxIdleConns     int           `yaml:"max_idle_conns"`
	StatementTimeout time.Duration `yaml:"statement_timeout"`
}

// StoreConfig 永続化レイヤーの設定
type StoreConfig struct {
	Client      string `yaml:"client"`       // gorm または sqlx
	SchemaEager bool   `yaml:"schema_eager"` // 起動時にテーブルを作成するか
}

// CommentConfig コメントに関する設定
type CommentConfig struct {
	RateLimitWindow time.Duration `yaml:"rate_limit_window"`
	BcryptCost      int           `yaml:"bcrypt_cost"`
	MaxPerPage      int           `yaml:"max_per_page"`
}

const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"

	StoreClientGorm = "gorm"
	StoreClientSQLX = "sqlx"
)

// Load 設定ファイルと環境変数から設定をロード
func Load() (*Config, error) {
	// .env ファイルをロード (存在すれば)
	_ = godotenv.Load()

	config := defaultConfig()

	// YAMLファイルがあれば上書き
	if path := configFilePath(); path != "" {
		if err := loadFile(path, config); err != nil {
			return nil, err
		}
	}

	// 環境変数が最優先
	applyEnv(config)

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// defaultConfig デフォルト値
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         "8080",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			Driver:           DriverPostgres,
			Host:             "localhost",
			Username:         "postgres",
			DBName:           "comment_widget",
			SSLMode:          "disable",
			MaxOpenConns:     25,
			MaxIdleConns:     5,
			StatementTimeout: 30 * time.Second,
		},
		Store: StoreConfig{
			Client:      StoreClientGorm,
			SchemaEager: true,
		},
		Comment: CommentConfig{
			RateLimitWindow: 10 * time.Second,
			BcryptCost:      10,
			MaxPerPage:      100,
		},
	}
}

// configFilePath 設定ファイルのパスを決定
func configFilePath() string {
	if path := os.Getenv("WIDGET_CONFIG"); path != "" {
		return path
	}
	for _, loc := range []string{"widget.yaml", "widget.yml"} {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}
	return ""
}

// loadFile YAMLファイルを読み込む
func loadFile(path string, config *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("設定ファイルの読み込みに失敗しました: %w", err)
	}
	if err := yaml.Unmarshal(data, config); err != nil {
		return fmt.Errorf("設定ファイルの解析に失敗しました: %w", err)
	}
	return nil
}

// applyEnv 環境変数で上書き
func applyEnv(c *Config) {
	c.Server.Port = getEnv("SERVER_PORT", c.Server.Port)
	c.Server.ReadTimeout = getEnvAsSeconds("SERVER_READ_TIMEOUT", c.Server.ReadTimeout)
	c.Server.WriteTimeout = getEnvAsSeconds("SERVER_WRITE_TIMEOUT", c.Server.WriteTimeout)
	c.Server.GinMode = getEnv("GIN_MODE", c.Server.GinMode)

	c.Database.Driver = getEnv("DB_DRIVER", c.Database.Driver)
	c.Database.URL = getEnv("DATABASE_URL", getEnv("POSTGRES_URL", c.Database.URL))
	c.Database.Host = getEnv("DB_HOST", c.Database.Host)
	c.Database.Port = getEnv("DB_PORT", c.Database.Port)
	c.Database.Username = getEnv("DB_USER", c.Database.Username)
	c.Database.Password = getEnv("DB_PASSWORD", c.Database.Password)
	c.Database.DBName = getEnv("DB_NAME", c.Database.DBName)
	c.Database.SSLMode = getEnv("DB_SSLMODE", c.Database.SSLMode)
	c.Database.MaxOpenConns = getEnvAsInt("DB_MAX_OPEN_CONNS", c.Database.MaxOpenConns)
	c.Database.MaxIdleConns = getEnvAsInt("DB_MAX_IDLE_CONNS", c.Database.MaxIdleConns)
	c.Database.StatementTimeout = getEnvAsSeconds("DB_STATEMENT_TIMEOUT", c.Database.StatementTimeout)

	c.Store.Client = getEnv("STORE_CLIENT", c.Store.Client)
	c.Store.SchemaEager = getEnvAsBool("SCHEMA_EAGER", c.Store.SchemaEager)

	c.Comment.RateLimitWindow = getEnvAsSeconds("COMMENT_RATE_LIMIT_SECONDS", c.Comment.RateLimitWindow)
	c.Comment.BcryptCost = getEnvAsInt("BCRYPT_COST", c.Comment.BcryptCost)
	c.Comment.MaxPerPage = getEnvAsInt("COMMENT_MAX_PER_PAGE", c.Comment.MaxPerPage)
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case DriverPostgres, DriverMySQL:
	default:
		return fmt.Errorf("サポートされていないデータベースドライバーです: %s", c.Database.Driver)
	}
	switch c.Store.Client {
	case StoreClientGorm, StoreClientSQLX:
	default:
		return fmt.Errorf("サポートされていないストアクライアントです: %s", c.Store.Client)
	}
	if c.Comment.MaxPerPage < 1 {
		return fmt.Errorf("COMMENT_MAX_PER_PAGE は1以上である必要があります: %d", c.Comment.MaxPerPage)
	}
	return nil
}

// getEnv 環境変数を取得、存在しない場合はデフォルト値を返す
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvAsInt 環境変数を整数として取得
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsSeconds 環境変数を秒数として取得
func getEnvAsSeconds(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return time.Duration(value) * time.Second
	}
	return defaultValue
}

// getEnvAsBool 環境変数をboolとして取得
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}
