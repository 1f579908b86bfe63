package bulkbench

import (
	"context"
	"fmt"
)

// 基础表与序列的建表语句
// 序列独立于表定义，保证可以单独 RESTART；外键由存储层兜底引用完整性
var schemaStatements = []string{
	`CREATE SEQUENCE IF NOT EXISTS user_sequence START WITH 1`,
	`CREATE SEQUENCE IF NOT EXISTS product_sequence START WITH 1`,
	`CREATE SEQUENCE IF NOT EXISTS order_sequence START WITH 1`,
	`CREATE SEQUENCE IF NOT EXISTS order_item_sequence START WITH 1`,
	`CREATE TABLE IF NOT EXISTS users (
		id BIGINT PRIMARY KEY,
		username TEXT NOT NULL,
		email TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id BIGINT PRIMARY KEY,
		name TEXT NOT NULL,
		price NUMERIC(10,2) NOT NULL CHECK (price >= 0)
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id BIGINT PRIMARY KEY,
		order_date TIMESTAMP NOT NULL,
		user_id BIGINT NOT NULL REFERENCES users (id)
	)`,
	`CREATE TABLE IF NOT EXISTS order_items (
		id BIGINT PRIMARY KEY,
		order_id BIGINT NOT NULL REFERENCES orders (id),
		product_id BIGINT NOT NULL REFERENCES products (id),
		quantity INTEGER NOT NULL CHECK (quantity > 0)
	)`,
}

// EnsureSchema 创建缺失的表和序列，幂等
func EnsureSchema(ctx context.Context, db Querier) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to ensure schema: %w", err)
		}
	}
	return nil
}
