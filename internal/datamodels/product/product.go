package product

import (
	"context"
	"errors"
)

// ErrNotFound 商品不存在
var ErrNotFound = errors.New("product not found")

// Product 商品目录条目（外部供给，只读）
// Price 在目录边界上是松散类型：可能是数字，也可能是带货币符号的
// 文本。进入购物车/订单前必须经过 pricing.Normalize 归一化。
type Product struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Price    any     `json:"price"`
	Image    string  `json:"image"`
	Category string  `json:"category"`
	Rating   float64 `json:"rating"`
}

// Repository 商品目录仓储接口（远端订单库侧实现）
type Repository interface {
	GetByID(ctx context.Context, id int64) (*Product, error)
	ListAll(ctx context.Context) ([]*Product, error)
	ListByCategory(ctx context.Context, category string) ([]*Product, error)
	Create(ctx context.Context, p *Product) error
}
