package wishlist

import (
	"time"

	"github.com/vaixxakh/Lumiere-Lighting/internal/datamodels/product"
)

// Entry 心愿单条目：按 ProductID 去重的商品引用（集合语义）
// 与购物车/订单生命周期无关，价格保持目录原始形态，不在此归一化。
type Entry struct {
	Product product.Product `json:"product"`
	AddedAt time.Time       `json:"addedAt"`
}
