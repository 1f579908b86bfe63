package bulkbench

import (
	"context"
	"database/sql"
)

// BulkInsertRequest 批量插入基准测试请求
// 零值或负值按“无记录可处理”处理，不视为错误
type BulkInsertRequest struct {
	NumberOfOrders int `json:"numberOfOrders"`
	ItemsPerOrder  int `json:"itemsPerOrder"`
}

// BenchmarkResult 基准测试结果
type BenchmarkResult struct {
	Strategy        string `json:"strategy"`
	TotalRecords    int    `json:"totalRecords"`
	ExecutionTimeMs int64  `json:"executionTimeMs"`
}

// LoaderConfig 数据集生成配置
// 零值字段回退到默认规模（10万用户/10万商品/100万订单/每订单3条明细）
type LoaderConfig struct {
	NumUsers         int `json:"num_users"`
	NumProducts      int `json:"num_products"`
	NumOrders        int `json:"num_orders"`
	OrderItemsFactor int `json:"order_items_factor"`
}

const (
	DefaultNumUsers         = 100_000
	DefaultNumProducts      = 100_000
	DefaultNumOrders        = 1_000_000
	DefaultOrderItemsFactor = 3
)

// withDefaults 填充未设置的字段
func (c LoaderConfig) withDefaults() LoaderConfig {
	if c.NumUsers <= 0 {
		c.NumUsers = DefaultNumUsers
	}
	if c.NumProducts <= 0 {
		c.NumProducts = DefaultNumProducts
	}
	if c.NumOrders <= 0 {
		c.NumOrders = DefaultNumOrders
	}
	if c.OrderItemsFactor <= 0 {
		c.OrderItemsFactor = DefaultOrderItemsFactor
	}
	return c
}

// NumOrderItems 订单明细总量 = 订单数 × 每单明细系数
func (c LoaderConfig) NumOrderItems() int {
	return c.NumOrders * c.OrderItemsFactor
}

// Querier *sql.DB 与 *sql.Tx 的公共子集，便于仓储层在事务内外复用
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// MetricsReporter 基准测试监控报告接口
type MetricsReporter interface {
	ReportBenchmark(ctx context.Context, result BenchmarkResult, err error)
}
