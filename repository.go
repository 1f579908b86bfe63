package bulkbench

import (
	"context"
	"fmt"
)

// 仓储层：行级保存与按主键查找的最小契约
// 行级插入统一通过 RETURNING 取回序列分配的主键，显式回传、显式传递，
// 不依赖 currval 这类会在并发会话间串扰的环境状态

// UserRepository 用户仓储
type UserRepository struct {
	q Querier
}

// NewUserRepository 创建用户仓储，q 可以是 *sql.DB 或 *sql.Tx
func NewUserRepository(q Querier) *UserRepository {
	return &UserRepository{q: q}
}

// FindByID 按主键查找用户
func (r *UserRepository) FindByID(ctx context.Context, id int64) (*User, error) {
	var u User
	err := r.q.QueryRowContext(ctx,
		`SELECT id, username, email FROM users WHERE id = $1`, id,
	).Scan(&u.ID, &u.Username, &u.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to find user %d: %w", id, err)
	}
	return &u, nil
}

// Save 插入用户并回填序列分配的主键
func (r *UserRepository) Save(ctx context.Context, u *User) error {
	err := r.q.QueryRowContext(ctx,
		`INSERT INTO users (id, username, email)
		 VALUES (nextval('user_sequence'), $1, $2)
		 RETURNING id`,
		u.Username, u.Email,
	).Scan(&u.ID)
	if err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

// ProductRepository 商品仓储
type ProductRepository struct {
	q Querier
}

// NewProductRepository 创建商品仓储
func NewProductRepository(q Querier) *ProductRepository {
	return &ProductRepository{q: q}
}

// FindByID 按主键查找商品
func (r *ProductRepository) FindByID(ctx context.Context, id int64) (*Product, error) {
	var p Product
	err := r.q.QueryRowContext(ctx,
		`SELECT id, name, price FROM products WHERE id = $1`, id,
	).Scan(&p.ID, &p.Name, &p.Price)
	if err != nil {
		return nil, fmt.Errorf("failed to find product %d: %w", id, err)
	}
	return &p, nil
}

// Save 插入商品并回填序列分配的主键
func (r *ProductRepository) Save(ctx context.Context, p *Product) error {
	err := r.q.QueryRowContext(ctx,
		`INSERT INTO products (id, name, price)
		 VALUES (nextval('product_sequence'), $1, $2)
		 RETURNING id`,
		p.Name, p.Price,
	).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("failed to save product: %w", err)
	}
	return nil
}

// OrderRepository 订单仓储
type OrderRepository struct {
	q Querier
}

// NewOrderRepository 创建订单仓储
func NewOrderRepository(q Querier) *OrderRepository {
	return &OrderRepository{q: q}
}

// Save 插入订单并回填序列分配的主键
func (r *OrderRepository) Save(ctx context.Context, o *Order) error {
	err := r.q.QueryRowContext(ctx,
		`INSERT INTO orders (id, order_date, user_id)
		 VALUES (nextval('order_sequence'), $1, $2)
		 RETURNING id`,
		o.OrderDate, o.UserID,
	).Scan(&o.ID)
	if err != nil {
		return fmt.Errorf("failed to save order: %w", err)
	}
	return nil
}

// OrderItemRepository 订单明细仓储
type OrderItemRepository struct {
	q Querier
}

// NewOrderItemRepository 创建订单明细仓储
func NewOrderItemRepository(q Querier) *OrderItemRepository {
	return &OrderItemRepository{q: q}
}

// Save 插入订单明细并回填序列分配的主键
func (r *OrderItemRepository) Save(ctx context.Context, item *OrderItem) error {
	err := r.q.QueryRowContext(ctx,
		`INSERT INTO order_items (id, order_id, product_id, quantity)
		 VALUES (nextval('order_item_sequence'), $1, $2, $3)
		 RETURNING id`,
		item.OrderID, item.ProductID, item.Quantity,
	).Scan(&item.ID)
	if err != nil {
		return fmt.Errorf("failed to save order item: %w", err)
	}
	return nil
}
