package schema

import (
	"context"
	"fmt"
	"log"
)

// Ensurer スキーマを作成できるもの
type Ensurer interface {
	EnsureSchema(ctx context.Context) error
}

// Guard テーブル未作成で失敗した操作を、スキーマ作成後に一度だけ再実行する
type Guard struct {
	ensurer Ensurer
}

// NewGuard Guardを作成
func NewGuard(ensurer Ensurer) *Guard {
	return &Guard{ensurer: ensurer}
}

// Do fn を実行する。二度目も同じ理由で失敗した場合は ErrSchemaUnavailable を返す
func (g *Guard) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	err := fn(ctx)
	if !IsMissingRelation(err) {
		return err
	}

	log.Printf("テーブルが存在しないため作成します: %v", err)
	if err := g.ensurer.EnsureSchema(ctx); err != nil {
		return err
	}

	err = fn(ctx)
	if IsMissingRelation(err) {
		return fmt.Errorf("%w: %v", ErrSchemaUnavailable, err)
	}
	return err
}
