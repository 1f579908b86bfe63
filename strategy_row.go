package bulkbench

import (
	"context"
	"database/sql"
	"fmt"
)

// 行级策略：沿用仓储层的单行保存与按主键查找，
// 语句形态相同，区别只在提交粒度

// MultipleTransactionsStrategy 每个订单（含明细）单独提交
// N+1 次往返加 N 次提交开销，是四种策略里的开销上界
type MultipleTransactionsStrategy struct {
	db    *sql.DB
	cache *KeyCache
	gen   *Generator
}

// NewMultipleTransactionsStrategy 创建逐订单提交策略
func NewMultipleTransactionsStrategy(db *sql.DB, cache *KeyCache, gen *Generator) *MultipleTransactionsStrategy {
	return &MultipleTransactionsStrategy{db: db, cache: cache, gen: gen}
}

func (s *MultipleTransactionsStrategy) Name() string {
	return "Multiple Transactions"
}

func (s *MultipleTransactionsStrategy) Insert(ctx context.Context, orderCount, itemsPerOrder int) (int, error) {
	users := NewUserRepository(s.db)
	products := NewProductRepository(s.db)

	inserted := 0
	for i := 0; i < orderCount; i++ {
		userID, err := s.cache.RandomUserID()
		if err != nil {
			return inserted, err
		}
		user, err := users.FindByID(ctx, userID)
		if err != nil {
			return inserted, err
		}

		n, err := insertOrderInTx(ctx, s.db, s.cache, s.gen, products, user.ID, itemsPerOrder)
		inserted += n
		if err != nil {
			return inserted, err
		}
	}
	return inserted, nil
}

// insertOrderInTx 在独立事务里保存一个订单及其明细
func insertOrderInTx(ctx context.Context, db *sql.DB, cache *KeyCache, gen *Generator, products *ProductRepository, userID int64, itemsPerOrder int) (int, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin order transaction: %w", err)
	}

	n, err := saveOrderRows(ctx, tx, cache, gen, products, userID, itemsPerOrder)
	if err != nil {
		_ = tx.Rollback()
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit order: %w", err)
	}
	return n, nil
}

// saveOrderRows 行级保存一个订单加 itemsPerOrder 条明细，返回写入行数
func saveOrderRows(ctx context.Context, q Querier, cache *KeyCache, gen *Generator, products *ProductRepository, userID int64, itemsPerOrder int) (int, error) {
	orders := NewOrderRepository(q)
	items := NewOrderItemRepository(q)

	order := &Order{UserID: userID, OrderDate: gen.now()}
	if err := orders.Save(ctx, order); err != nil {
		return 0, err
	}
	inserted := 1

	for j := 0; j < itemsPerOrder; j++ {
		productID, err := cache.RandomProductID()
		if err != nil {
			return inserted, err
		}
		product, err := products.FindByID(ctx, productID)
		if err != nil {
			return inserted, err
		}
		item := &OrderItem{
			OrderID:   order.ID,
			ProductID: product.ID,
			Quantity:  gen.Quantity(1, 9),
		}
		if err := items.Save(ctx, item); err != nil {
			return inserted, err
		}
		inserted++
	}
	return inserted, nil
}

// SingleTransactionStrategy 全部订单在一个事务内提交
// 语句形态与逐订单提交完全一致，只是免去了逐单的提交开销
type SingleTransactionStrategy struct {
	db    *sql.DB
	cache *KeyCache
	gen   *Generator
}

// NewSingleTransactionStrategy 创建单事务策略
func NewSingleTransactionStrategy(db *sql.DB, cache *KeyCache, gen *Generator) *SingleTransactionStrategy {
	return &SingleTransactionStrategy{db: db, cache: cache, gen: gen}
}

func (s *SingleTransactionStrategy) Name() string {
	return "Single Transaction"
}

func (s *SingleTransactionStrategy) Insert(ctx context.Context, orderCount, itemsPerOrder int) (int, error) {
	if orderCount == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin batch transaction: %w", err)
	}

	users := NewUserRepository(tx)
	products := NewProductRepository(tx)

	inserted := 0
	for i := 0; i < orderCount; i++ {
		userID, err := s.cache.RandomUserID()
		if err != nil {
			_ = tx.Rollback()
			return inserted, err
		}
		user, err := users.FindByID(ctx, userID)
		if err != nil {
			_ = tx.Rollback()
			return inserted, err
		}

		n, err := saveOrderRows(ctx, tx, s.cache, s.gen, products, user.ID, itemsPerOrder)
		inserted += n
		if err != nil {
			_ = tx.Rollback()
			return inserted, err
		}
	}

	if err := tx.Commit(); err != nil {
		return inserted, fmt.Errorf("failed to commit batch: %w", err)
	}
	return inserted, nil
}
