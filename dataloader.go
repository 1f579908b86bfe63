package bulkbench

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

// DataLoader 数据集一次性初始化编排器
// 进程启动时运行一次：标记存在则跳过，否则清空四张表、重置序列，
// 按依赖顺序批量生成用户 → 商品 → 订单 → 订单明细，全部提交后写入完成标记。
// 各阶段自带事务边界，阶段之间不保证端到端原子性：中途失败不写标记，
// 下次启动从清理阶段整体重试
type DataLoader struct {
	db       *sql.DB
	gen      *Generator
	flags    FlagStore
	cfg      LoaderConfig
	progress *ProgressLogger

	readyOnce sync.Once
	readyCh   chan struct{}
}

// NewDataLoader 创建编排器
func NewDataLoader(db *sql.DB, gen *Generator, flags FlagStore, cfg LoaderConfig) *DataLoader {
	return &DataLoader{
		db:       db,
		gen:      gen,
		flags:    flags,
		cfg:      cfg.withDefaults(),
		progress: NewProgressLogger(defaultProgressInterval),
		readyCh:  make(chan struct{}),
	}
}

// Ready 数据集就绪信号
// 编排器跳过或完成生成后关闭该通道，缓存预热任务阻塞在此处而不是轮询标记
func (l *DataLoader) Ready() <-chan struct{} {
	return l.readyCh
}

func (l *DataLoader) signalReady() {
	l.readyOnce.Do(func() { close(l.readyCh) })
}

// Run 执行一次初始化流程
func (l *DataLoader) Run(ctx context.Context) error {
	exists, err := l.flags.Exists(ctx)
	if err != nil {
		return fmt.Errorf("failed to check completion flag: %w", err)
	}
	if exists {
		logrus.Info("数据已生成过，跳过重建")
		l.signalReady()
		return nil
	}

	start := time.Now()
	logrus.Info("🚀 开始生成数据集...")

	// 整个加载过程固定在一个会话上，synchronous_commit
	// 的放宽只作用于该会话，不会泄漏到连接池里的其他连接
	conn, err := l.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire loader connection: %w", err)
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, "SET synchronous_commit = off"); err != nil {
		return fmt.Errorf("failed to relax synchronous commit: %w", err)
	}
	logrus.Info("已为加载会话关闭 synchronous_commit")

	if err := l.cleanup(ctx, conn); err != nil {
		logrus.Errorf("❌ 数据库清理失败：%v", err)
		return err
	}
	if err := l.generateUsers(ctx, conn); err != nil {
		logrus.Errorf("❌ 用户生成失败：%v", err)
		return err
	}
	if err := l.generateProducts(ctx, conn); err != nil {
		logrus.Errorf("❌ 商品生成失败：%v", err)
		return err
	}
	if err := l.generateOrders(ctx, conn); err != nil {
		logrus.Errorf("❌ 订单生成失败：%v", err)
		return err
	}
	if err := l.generateOrderItems(ctx, conn); err != nil {
		logrus.Errorf("❌ 订单明细生成失败：%v", err)
		return err
	}

	// 四个阶段全部提交成功之后才写标记；标记写失败同样不算完成
	if err := l.flags.Create(ctx); err != nil {
		logrus.Errorf("❌ 完成标记写入失败：%v", err)
		return err
	}
	logrus.Info("完成标记已写入")

	l.signalReady()
	logrus.Infof("✅ 数据集生成完成，耗时 %d 秒", int(time.Since(start).Seconds()))
	return nil
}

// cleanup 单事务内按依赖顺序清空四张表并把四个序列重置回起始值
func (l *DataLoader) cleanup(ctx context.Context, conn *sql.Conn) error {
	logrus.Info("正在清理数据库...")

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin cleanup transaction: %w", err)
	}

	statements := []string{
		"TRUNCATE TABLE order_items CASCADE",
		"TRUNCATE TABLE orders CASCADE",
		"TRUNCATE TABLE products CASCADE",
		"TRUNCATE TABLE users CASCADE",
		"ALTER SEQUENCE order_item_sequence RESTART WITH 1",
		"ALTER SEQUENCE order_sequence RESTART WITH 1",
		"ALTER SEQUENCE product_sequence RESTART WITH 1",
		"ALTER SEQUENCE user_sequence RESTART WITH 1",
	}
	for _, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("cleanup statement failed (%s): %w", stmt, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit cleanup: %w", err)
	}

	logrus.Info("数据库清理完成")
	return nil
}

func (l *DataLoader) generateUsers(ctx context.Context, conn *sql.Conn) error {
	n := l.cfg.NumUsers
	logrus.Infof("开始生成 %d 个用户", n)

	l.progress.Start("准备用户数据", n)
	usernames := l.gen.Usernames(n)
	emails := l.gen.Emails(n)
	l.progress.Stop()

	const insertSQL = `
		INSERT INTO users (id, username, email)
		SELECT nextval('user_sequence'), u.username, u.email
		FROM unnest($1::text[], $2::text[]) AS u(username, email)`

	inserted, err := l.bulkInsert(ctx, conn, "写入用户数据", n, insertSQL,
		pq.Array(usernames), pq.Array(emails))
	if err != nil {
		return err
	}
	logrus.Infof("用户生成完成，共插入 %d 个用户", inserted)
	return nil
}

func (l *DataLoader) generateProducts(ctx context.Context, conn *sql.Conn) error {
	n := l.cfg.NumProducts
	logrus.Infof("开始生成 %d 个商品", n)

	l.progress.Start("准备商品数据", n)
	names := l.gen.ProductNames(n)
	prices := l.gen.Prices(n)
	l.progress.Stop()

	const insertSQL = `
		INSERT INTO products (id, name, price)
		SELECT nextval('product_sequence'), p.name, p.price
		FROM unnest($1::text[], $2::numeric[]) AS p(name, price)`

	inserted, err := l.bulkInsert(ctx, conn, "写入商品数据", n, insertSQL,
		pq.Array(names), pq.Array(prices))
	if err != nil {
		return err
	}
	logrus.Infof("商品生成完成，共插入 %d 个商品", inserted)
	return nil
}

func (l *DataLoader) generateOrders(ctx context.Context, conn *sql.Conn) error {
	n := l.cfg.NumOrders
	logrus.Infof("开始生成 %d 个订单", n)

	// 用户引用按 1..NumUsers 原始区间取样：清理阶段刚把序列重置回 1，
	// 主键从 1 连续分配，所以区间取样必然命中已存在的用户
	l.progress.Start("准备订单数据", n)
	dates := l.gen.OrderDates(n)
	userIDs := l.gen.IDsInRange(n, int64(l.cfg.NumUsers))
	l.progress.Stop()

	const insertSQL = `
		INSERT INTO orders (id, order_date, user_id)
		SELECT nextval('order_sequence'), o.order_date, o.user_id
		FROM unnest($1::timestamp[], $2::bigint[]) AS o(order_date, user_id)`

	inserted, err := l.bulkInsert(ctx, conn, "写入订单数据", n, insertSQL,
		pq.Array(dates), pq.Array(userIDs))
	if err != nil {
		return err
	}
	logrus.Infof("订单生成完成，共插入 %d 个订单", inserted)
	return nil
}

func (l *DataLoader) generateOrderItems(ctx context.Context, conn *sql.Conn) error {
	n := l.cfg.NumOrderItems()
	logrus.Infof("开始生成 %d 条订单明细", n)

	l.progress.Start("准备订单明细数据", n)
	orderIDs := l.gen.IDsInRange(n, int64(l.cfg.NumOrders))
	productIDs := l.gen.IDsInRange(n, int64(l.cfg.NumProducts))
	quantities := l.gen.Quantities(n, 1, 5)
	l.progress.Stop()

	const insertSQL = `
		INSERT INTO order_items (id, order_id, product_id, quantity)
		SELECT nextval('order_item_sequence'), oi.order_id, oi.product_id, oi.quantity
		FROM unnest($1::bigint[], $2::bigint[], $3::integer[]) AS oi(order_id, product_id, quantity)`

	inserted, err := l.bulkInsert(ctx, conn, "写入订单明细数据", n, insertSQL,
		pq.Array(orderIDs), pq.Array(productIDs), pq.Array(quantities))
	if err != nil {
		return err
	}
	logrus.Infof("订单明细生成完成，共插入 %d 条明细", inserted)
	return nil
}

// bulkInsert 在单事务内执行一条集合式插入并返回实际插入行数
func (l *DataLoader) bulkInsert(ctx context.Context, conn *sql.Conn, label string, total int, query string, args ...any) (int64, error) {
	l.progress.Start(label, total)
	defer l.progress.Stop()

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}

	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("bulk insert failed: %w", err)
	}
	inserted, err := res.RowsAffected()
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("failed to read affected rows: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit bulk insert: %w", err)
	}
	return inserted, nil
}
