package services

import (
	"context"
	"time"
)

// Pinger 接続確認ができるもの（*sql.DB）
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthService ヘルスチェックに関するサービスインターフェース
type HealthService interface {
	GetStatus(ctx context.Context) (string, string, string)
}

// healthService HealthServiceの実装
type healthService struct {
	db        Pinger
	startTime time.Time
}

// NewHealthService HealthServiceを作成
func NewHealthService(db Pinger) HealthService {
	return &healthService{
		db:        db,
		startTime: time.Now(),
	}
}

// GetStatus サービスのステータスを取得
func (s *healthService) GetStatus(ctx context.Context) (string, string, string) {
	uptime := time.Since(s.startTime).String()
	status := "ok"
	if s.db != nil {
		if err := s.db.PingContext(ctx); err != nil {
			status = "unavailable"
		}
	}
	timestamp := time.Now().Format(time.RFC3339)

	return status, uptime, timestamp
}
