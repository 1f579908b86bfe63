package bulkbench

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
)

// 集合式策略：单事务内每张表只发一条语句。
// 订单语句一律带 RETURNING id，把序列分配的主键显式带回并传入明细语句，
// 并发调用之间不会像 currval 读回那样互相串扰

const literalTimestampLayout = "2006-01-02 15:04:05.000000"

// BatchValuesStrategy 字面量多行 VALUES 插入
// 往返次数低于行级策略，但语句体随 N 线性膨胀，属于刻意保留的对照组
type BatchValuesStrategy struct {
	db    *sql.DB
	cache *KeyCache
	gen   *Generator
}

// NewBatchValuesStrategy 创建字面量 VALUES 策略
func NewBatchValuesStrategy(db *sql.DB, cache *KeyCache, gen *Generator) *BatchValuesStrategy {
	return &BatchValuesStrategy{db: db, cache: cache, gen: gen}
}

func (s *BatchValuesStrategy) Name() string {
	return "Batch VALUES"
}

func (s *BatchValuesStrategy) Insert(ctx context.Context, orderCount, itemsPerOrder int) (int, error) {
	if orderCount == 0 {
		return 0, nil
	}

	ordersSQL, err := s.buildOrdersSQL(orderCount)
	if err != nil {
		return 0, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin batch transaction: %w", err)
	}

	orderIDs, err := queryInsertedIDs(ctx, tx, ordersSQL)
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("orders insert failed: %w", err)
	}
	inserted := len(orderIDs)

	if itemsPerOrder > 0 {
		itemsSQL, err := s.buildItemsSQL(orderIDs, itemsPerOrder)
		if err != nil {
			_ = tx.Rollback()
			return inserted, err
		}
		res, err := tx.ExecContext(ctx, itemsSQL)
		if err != nil {
			_ = tx.Rollback()
			return inserted, fmt.Errorf("order items insert failed: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			_ = tx.Rollback()
			return inserted, fmt.Errorf("failed to read affected rows: %w", err)
		}
		inserted += int(affected)
	}

	if err := tx.Commit(); err != nil {
		return inserted, fmt.Errorf("failed to commit batch: %w", err)
	}
	return inserted, nil
}

func (s *BatchValuesStrategy) buildOrdersSQL(orderCount int) (string, error) {
	var b strings.Builder
	b.WriteString("INSERT INTO orders (id, order_date, user_id) VALUES ")
	now := s.gen.now().Format(literalTimestampLayout)
	for i := 0; i < orderCount; i++ {
		userID, err := s.cache.RandomUserID()
		if err != nil {
			return "", err
		}
		if i > 0 {
			b.WriteString(",")
		}
		fmt.Fprintf(&b, "(nextval('order_sequence'), '%s', %d)", now, userID)
	}
	b.WriteString(" RETURNING id")
	return b.String(), nil
}

func (s *BatchValuesStrategy) buildItemsSQL(orderIDs []int64, itemsPerOrder int) (string, error) {
	var b strings.Builder
	b.WriteString("INSERT INTO order_items (id, order_id, product_id, quantity) VALUES ")
	first := true
	for _, orderID := range orderIDs {
		for j := 0; j < itemsPerOrder; j++ {
			productID, err := s.cache.RandomProductID()
			if err != nil {
				return "", err
			}
			if !first {
				b.WriteString(",")
			}
			first = false
			fmt.Fprintf(&b, "(nextval('order_item_sequence'), %d, %d, %d)",
				orderID, productID, s.gen.Quantity(1, 9))
		}
	}
	return b.String(), nil
}

// BatchUnnestStrategy 并行数组 unnest 插入
// 每张表一条语句、固定数量的绑定参数，与 N 无关，是四种策略的耗时下界
type BatchUnnestStrategy struct {
	db    *sql.DB
	cache *KeyCache
	gen   *Generator
}

// NewBatchUnnestStrategy 创建 unnest 策略
func NewBatchUnnestStrategy(db *sql.DB, cache *KeyCache, gen *Generator) *BatchUnnestStrategy {
	return &BatchUnnestStrategy{db: db, cache: cache, gen: gen}
}

func (s *BatchUnnestStrategy) Name() string {
	return "Batch UNNEST"
}

func (s *BatchUnnestStrategy) Insert(ctx context.Context, orderCount, itemsPerOrder int) (int, error) {
	if orderCount == 0 {
		return 0, nil
	}

	dates := make([]time.Time, orderCount)
	userIDs := make([]int64, orderCount)
	now := s.gen.now()
	for i := 0; i < orderCount; i++ {
		userID, err := s.cache.RandomUserID()
		if err != nil {
			return 0, err
		}
		dates[i] = now
		userIDs[i] = userID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin batch transaction: %w", err)
	}

	const ordersSQL = `
		INSERT INTO orders (id, order_date, user_id)
		SELECT nextval('order_sequence'), o.order_date, o.user_id
		FROM unnest($1::timestamp[], $2::bigint[]) AS o(order_date, user_id)
		RETURNING id`

	orderIDs, err := queryInsertedIDs(ctx, tx, ordersSQL, pq.Array(dates), pq.Array(userIDs))
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("orders insert failed: %w", err)
	}
	inserted := len(orderIDs)

	if itemsPerOrder > 0 {
		orderRefs := make([]int64, 0, len(orderIDs)*itemsPerOrder)
		productRefs := make([]int64, 0, len(orderIDs)*itemsPerOrder)
		quantities := make([]int64, 0, len(orderIDs)*itemsPerOrder)
		for _, orderID := range orderIDs {
			for j := 0; j < itemsPerOrder; j++ {
				productID, err := s.cache.RandomProductID()
				if err != nil {
					_ = tx.Rollback()
					return inserted, err
				}
				orderRefs = append(orderRefs, orderID)
				productRefs = append(productRefs, productID)
				quantities = append(quantities, int64(s.gen.Quantity(1, 9)))
			}
		}

		const itemsSQL = `
			INSERT INTO order_items (id, order_id, product_id, quantity)
			SELECT nextval('order_item_sequence'), oi.order_id, oi.product_id, oi.quantity
			FROM unnest($1::bigint[], $2::bigint[], $3::integer[]) AS oi(order_id, product_id, quantity)`

		res, err := tx.ExecContext(ctx, itemsSQL,
			pq.Array(orderRefs), pq.Array(productRefs), pq.Array(quantities))
		if err != nil {
			_ = tx.Rollback()
			return inserted, fmt.Errorf("order items insert failed: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			_ = tx.Rollback()
			return inserted, fmt.Errorf("failed to read affected rows: %w", err)
		}
		inserted += int(affected)
	}

	if err := tx.Commit(); err != nil {
		return inserted, fmt.Errorf("failed to commit batch: %w", err)
	}
	return inserted, nil
}

// queryInsertedIDs 执行带 RETURNING id 的插入并收集返回的主键
func queryInsertedIDs(ctx context.Context, q Querier, query string, args ...any) ([]int64, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
