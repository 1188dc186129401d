package service

import (
	"github.com/vaixxakh/Lumiere-Lighting/internal/datamodels/cart"
	"github.com/vaixxakh/Lumiere-Lighting/internal/datamodels/product"
	"github.com/vaixxakh/Lumiere-Lighting/internal/pricing"
	"github.com/vaixxakh/Lumiere-Lighting/internal/repository/localstore"
)

// CartService 购物车：每个用户（按邮箱）一份行集合
// 每次变更后整体落盘。对不存在的商品 ID 的操作一律 no-op，不报错。
type CartService struct {
	store *localstore.Store
}

// NewCartService 创建购物车服务
func NewCartService(store *localstore.Store) *CartService {
	return &CartService{store: store}
}

// Lines 当前购物车行集合，存量数据损坏时回退为空
func (s *CartService) Lines(email string) []cart.Line {
	var lines []cart.Line
	_, _ = s.store.Get(localstore.CollCart, email, &lines)
	if lines == nil {
		lines = []cart.Line{}
	}
	return lines
}

// Add 加购：已有行数量 +1，否则以归一化后的价格快照新建一行
func (s *CartService) Add(email string, p *product.Product) ([]cart.Line, error) {
	lines := s.Lines(email)
	for i := range lines {
		if lines[i].ProductID == p.ID {
			lines[i].Quantity++
			return lines, s.persist(email, lines)
		}
	}
	lines = append(lines, cart.Line{
		ProductID: p.ID,
		Name:      p.Name,
		UnitPrice: pricing.Normalize(p.Price),
		Quantity:  1,
		Image:     p.Image,
		Category:  p.Category,
		Rating:    p.Rating,
	})
	return lines, s.persist(email, lines)
}

// SetQuantity 设置数量：n <= 0 等价于删除该行（不存储零数量行）
// 数量无上限（沿用原有产品行为）。
func (s *CartService) SetQuantity(email string, productID int64, n int) ([]cart.Line, error) {
	if n <= 0 {
		return s.Remove(email, productID)
	}
	lines := s.Lines(email)
	for i := range lines {
		if lines[i].ProductID == productID {
			lines[i].Quantity = n
			return lines, s.persist(email, lines)
		}
	}
	return lines, nil
}

// Remove 无条件删除一行，行不存在时为 no-op
func (s *CartService) Remove(email string, productID int64) ([]cart.Line, error) {
	lines := s.Lines(email)
	kept := lines[:0]
	for _, l := range lines {
		if l.ProductID != productID {
			kept = append(kept, l)
		}
	}
	if len(kept) == len(lines) {
		return lines, nil
	}
	return kept, s.persist(email, kept)
}

// Clear 清空购物车（结算成功后调用）
func (s *CartService) Clear(email string) error {
	return s.persist(email, []cart.Line{})
}

func (s *CartService) persist(email string, lines []cart.Line) error {
	return s.store.Put(localstore.CollCart, email, lines)
}
