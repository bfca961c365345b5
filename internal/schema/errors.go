package schema

import (
	"errors"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
)

var (
	// ErrMissingRelation テーブルが存在しないことを表す
	ErrMissingRelation = errors.New("relation does not exist")
	// ErrSchemaUnavailable テーブル作成後もテーブルが見つからない
	ErrSchemaUnavailable = errors.New("schema unavailable after creation")
)

const (
	pgUndefinedTable  = "42P01"
	pgDuplicateTable  = "42P07"
	pgDuplicateObject = "42710"
	pgUniqueViolation = "23505" // 同時実行された CREATE TABLE がカタログで衝突した場合

	mysqlNoSuchTable    = 1146
	mysqlTableExists    = 1050
	mysqlDuplicateIndex = 1061
)

// IsMissingRelation エラーが「テーブルが存在しない」ことを示すか判定
func IsMissingRelation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrMissingRelation) {
		return true
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pgUndefinedTable
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == mysqlNoSuchTable
	}

	return false
}

// isAlreadyExists 並行した作成処理との競合によるエラーか判定
func isAlreadyExists(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pgDuplicateTable, pgDuplicateObject, pgUniqueViolation:
			return true
		}
		return false
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == mysqlTableExists || myErr.Number == mysqlDuplicateIndex
	}

	return false
}
