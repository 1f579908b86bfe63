package bulkbench

import (
	"context"
	"fmt"
)

// OrderSummaryService 订单汇总读服务
// 提供逐单查询（N+1 对照组）和单条 JOIN 聚合两条读路径，
// 与插入策略对照同理：逐行往返 vs 集合式访问
type OrderSummaryService struct {
	db Querier
}

// NewOrderSummaryService 创建订单汇总服务
func NewOrderSummaryService(db Querier) *OrderSummaryService {
	return &OrderSummaryService{db: db}
}

// OrderSummaries 逐单加载明细的朴素实现
// 先查订单列表，再为每个订单单独发一条明细聚合查询（1 + N 次往返）
func (s *OrderSummaryService) OrderSummaries(ctx context.Context, email string) ([]OrderSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT o.id, o.order_date
		FROM orders o
		JOIN users u ON u.id = o.user_id
		WHERE u.email = $1
		ORDER BY o.order_date DESC`, email)
	if err != nil {
		return nil, fmt.Errorf("failed to load orders for %s: %w", email, err)
	}
	defer rows.Close()

	var summaries []OrderSummary
	for rows.Next() {
		var s2 OrderSummary
		if err := rows.Scan(&s2.ID, &s2.OrderDate); err != nil {
			return nil, err
		}
		summaries = append(summaries, s2)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// 每个订单一次额外查询
	for i := range summaries {
		err := s.db.QueryRowContext(ctx, `
			SELECT COUNT(*), COALESCE(SUM(oi.quantity * p.price), 0)
			FROM order_items oi
			JOIN products p ON p.id = oi.product_id
			WHERE oi.order_id = $1`, summaries[i].ID,
		).Scan(&summaries[i].NumberOfItems, &summaries[i].TotalAmount)
		if err != nil {
			return nil, fmt.Errorf("failed to load items for order %d: %w", summaries[i].ID, err)
		}
	}
	return summaries, nil
}

// OrderSummariesJoined 单条三表 JOIN 聚合实现
func (s *OrderSummaryService) OrderSummariesJoined(ctx context.Context, email string) ([]OrderSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT o.id, o.order_date, COUNT(oi.id), COALESCE(SUM(oi.quantity * p.price), 0)
		FROM orders o
		JOIN users u ON u.id = o.user_id
		LEFT JOIN order_items oi ON oi.order_id = o.id
		LEFT JOIN products p ON p.id = oi.product_id
		WHERE u.email = $1
		GROUP BY o.id, o.order_date
		ORDER BY o.order_date DESC`, email)
	if err != nil {
		return nil, fmt.Errorf("failed to load order summaries for %s: %w", email, err)
	}
	defer rows.Close()

	var summaries []OrderSummary
	for rows.Next() {
		var s2 OrderSummary
		if err := rows.Scan(&s2.ID, &s2.OrderDate, &s2.NumberOfItems, &s2.TotalAmount); err != nil {
			return nil, err
		}
		summaries = append(summaries, s2)
	}
	return summaries, rows.Err()
}
