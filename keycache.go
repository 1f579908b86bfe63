package bulkbench

import (
	"context"
	"fmt"
	"math/rand"
	"sync/atomic"
)

// KeyCache 已有主键缓存
// 一次性全量扫描 users/products 的主键并常驻内存，供基准测试按 O(1) 均匀取样，
// 进程生命周期内只写入一次（Warm），之后全部为并发只读；
// Warm 之后新插入的主键对缓存不可见，属于刻意的简化
type KeyCache struct {
	db         Querier
	userIDs    []int64
	productIDs []int64
	ready      atomic.Bool
}

// NewKeyCache 创建主键缓存
func NewKeyCache(db Querier) *KeyCache {
	return &KeyCache{db: db}
}

// Warm 全量扫描现有主键
// 任一基础表为空说明数据集没有完成初始化，直接返回致命错误
func (c *KeyCache) Warm(ctx context.Context) error {
	userIDs, err := c.scanIDs(ctx, "SELECT id FROM users")
	if err != nil {
		return fmt.Errorf("failed to load user ids: %w", err)
	}
	if len(userIDs) == 0 {
		return ErrNoUsersCached
	}

	productIDs, err := c.scanIDs(ctx, "SELECT id FROM products")
	if err != nil {
		return fmt.Errorf("failed to load product ids: %w", err)
	}
	if len(productIDs) == 0 {
		return ErrNoProductsCached
	}

	c.userIDs = userIDs
	c.productIDs = productIDs
	c.ready.Store(true)
	return nil
}

func (c *KeyCache) scanIDs(ctx context.Context, query string) ([]int64, error) {
	rows, err := c.db.QueryContext(ctx, query)
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

// Ready 缓存是否已完成预热
func (c *KeyCache) Ready() bool {
	return c.ready.Load()
}

// RandomUserID 均匀返回一个已缓存的用户主键
func (c *KeyCache) RandomUserID() (int64, error) {
	if !c.ready.Load() {
		return 0, ErrKeyCacheNotReady
	}
	return c.userIDs[rand.Intn(len(c.userIDs))], nil
}

// RandomProductID 均匀返回一个已缓存的商品主键
func (c *KeyCache) RandomProductID() (int64, error) {
	if !c.ready.Load() {
		return 0, ErrKeyCacheNotReady
	}
	return c.productIDs[rand.Intn(len(c.productIDs))], nil
}

// UserCount 已缓存的用户主键数量
func (c *KeyCache) UserCount() int {
	if !c.ready.Load() {
		return 0
	}
	return len(c.userIDs)
}

// ProductCount 已缓存的商品主键数量
func (c *KeyCache) ProductCount() int {
	if !c.ready.Load() {
		return 0
	}
	return len(c.productIDs)
}
