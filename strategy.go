package bulkbench

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// 插入策略标识，同时作为 HTTP 路由后缀
const (
	StrategyMultipleTransactions = "multiple-transactions"
	StrategySingleTransaction    = "single-transaction"
	StrategyBatchValues          = "batch-values"
	StrategyBatchUnnest          = "batch-unnest"
)

// InsertStrategy 批量插入策略
// 四种实现写入同样的逻辑结果（orderCount 个订单、每单 itemsPerOrder 条明细），
// 只在事务边界和语句形态上不同，用于对比各自的耗时
type InsertStrategy interface {
	// Name 策略展示名
	Name() string

	// Insert 写入 orderCount 个订单及明细，返回实际插入的记录总数
	Insert(ctx context.Context, orderCount, itemsPerOrder int) (int, error)
}

// Runner 基准测试执行器
// 统一做缓存就绪检查、参数归一化、计时和指标上报
type Runner struct {
	cache      *KeyCache
	strategies map[string]InsertStrategy
	reporter   MetricsReporter
}

// NewRunner 创建执行器并注册全部四种策略
func NewRunner(db *sql.DB, cache *KeyCache, gen *Generator, reporter MetricsReporter) *Runner {
	return &Runner{
		cache: cache,
		strategies: map[string]InsertStrategy{
			StrategyMultipleTransactions: NewMultipleTransactionsStrategy(db, cache, gen),
			StrategySingleTransaction:    NewSingleTransactionStrategy(db, cache, gen),
			StrategyBatchValues:          NewBatchValuesStrategy(db, cache, gen),
			StrategyBatchUnnest:          NewBatchUnnestStrategy(db, cache, gen),
		},
		reporter: reporter,
	}
}

// Slugs 已注册的策略标识
func (r *Runner) Slugs() []string {
	return []string{
		StrategyMultipleTransactions,
		StrategySingleTransaction,
		StrategyBatchValues,
		StrategyBatchUnnest,
	}
}

// Run 执行指定策略的一次基准测试
// 缓存未预热直接返回 ErrKeyCacheNotReady，绝不静默返回零结果；
// 负数入参归一化为零工作量
func (r *Runner) Run(ctx context.Context, slug string, req BulkInsertRequest) (BenchmarkResult, error) {
	strategy, ok := r.strategies[slug]
	if !ok {
		return BenchmarkResult{}, fmt.Errorf("%w: %s", ErrUnknownStrategy, slug)
	}
	if !r.cache.Ready() {
		return BenchmarkResult{}, ErrKeyCacheNotReady
	}

	orderCount := req.NumberOfOrders
	if orderCount < 0 {
		orderCount = 0
	}
	itemsPerOrder := req.ItemsPerOrder
	if itemsPerOrder < 0 {
		itemsPerOrder = 0
	}

	start := time.Now()
	inserted, err := strategy.Insert(ctx, orderCount, itemsPerOrder)
	elapsed := time.Since(start)

	result := BenchmarkResult{
		Strategy:        strategy.Name(),
		TotalRecords:    inserted,
		ExecutionTimeMs: elapsed.Milliseconds(),
	}
	if r.reporter != nil {
		r.reporter.ReportBenchmark(ctx, result, err)
	}
	if err != nil {
		return BenchmarkResult{}, fmt.Errorf("benchmark %s failed: %w", slug, err)
	}

	logrus.Infof("基准测试 %s 完成：%d 条记录，耗时 %d ms", slug, result.TotalRecords, result.ExecutionTimeMs)
	return result, nil
}
