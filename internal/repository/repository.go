// Package repository 提供数据访问层
// 仓储层是编译器的数据提供方：装配 Problem 输入，持久化解码后的排班结果
package repository

import (
	"context"
	"database/sql"
)

// DB 数据库执行接口，*sql.DB 与 *sql.Tx 都满足
type DB interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}
