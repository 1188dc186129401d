package service

import (
	"time"

	"github.com/vaixxakh/Lumiere-Lighting/internal/datamodels/product"
	"github.com/vaixxakh/Lumiere-Lighting/internal/datamodels/wishlist"
	"github.com/vaixxakh/Lumiere-Lighting/internal/repository/localstore"
)

// WishlistService 心愿单：集合语义，同一商品最多一条
type WishlistService struct {
	store *localstore.Store
}

// NewWishlistService 创建心愿单服务
func NewWishlistService(store *localstore.Store) *WishlistService {
	return &WishlistService{store: store}
}

// Entries 当前心愿单，存量数据损坏时回退为空
func (s *WishlistService) Entries(email string) []wishlist.Entry {
	var entries []wishlist.Entry
	_, _ = s.store.Get(localstore.CollWishlist, email, &entries)
	if entries == nil {
		entries = []wishlist.Entry{}
	}
	return entries
}

// Add 收藏商品，重复收藏为幂等 no-op
func (s *WishlistService) Add(email string, p *product.Product) ([]wishlist.Entry, error) {
	entries := s.Entries(email)
	for _, e := range entries {
		if e.Product.ID == p.ID {
			return entries, nil
		}
	}
	entries = append(entries, wishlist.Entry{Product: *p, AddedAt: time.Now()})
	return entries, s.store.Put(localstore.CollWishlist, email, entries)
}

// Remove 取消收藏，条目不存在时为 no-op
func (s *WishlistService) Remove(email string, productID int64) ([]wishlist.Entry, error) {
	entries := s.Entries(email)
	kept := entries[:0]
	for _, e := range entries {
		if e.Product.ID != productID {
			kept = append(kept, e)
		}
	}
	if len(kept) == len(entries) {
		return entries, nil
	}
	return kept, s.store.Put(localstore.CollWishlist, email, kept)
}

// Contains 是否已收藏
func (s *WishlistService) Contains(email string, productID int64) bool {
	for _, e := range s.Entries(email) {
		if e.Product.ID == productID {
			return true
		}
	}
	return false
}

// Count 收藏数量
func (s *WishlistService) Count(email string) int {
	return len(s.Entries(email))
}
