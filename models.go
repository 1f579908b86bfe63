package bulkbench

import "time"

// User 用户，创建后不可变
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Product 商品，价格为两位小数的非负定点数
type Product struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Price string `json:"price"`
}

// Order 订单，user_id 在写入时必须指向已存在的用户
type Order struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	OrderDate time.Time `json:"order_date"`
}

// OrderItem 订单明细，order_id/product_id 在写入时必须指向已存在的行
type OrderItem struct {
	ID        int64 `json:"id"`
	OrderID   int64 `json:"order_id"`
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// OrderSummary 订单汇总视图（读侧演示用）
type OrderSummary struct {
	ID            int64     `json:"id"`
	OrderDate     time.Time `json:"orderDate"`
	NumberOfItems int       `json:"numberOfItems"`
	TotalAmount   float64   `json:"totalAmount"`
}
