package mysql

import (
	"context"
	"time"

	"github.com/spf13/cast"
	"gorm.io/gorm"

	"github.com/vaixxakh/Lumiere-Lighting/internal/datamodels/product"
)

// productRow 商品目录的存储行
// 目录边界上的价格是松散类型，入库时统一存原始文本，读出时原样
// 返回给客户端，由消费方在加购边界归一化。
type productRow struct {
	ID        int64   `gorm:"primaryKey"`
	Name      string  `gorm:"size:128;not null"`
	Price     string  `gorm:"size:32;not null"`
	Image     string  `gorm:"size:256"`
	Category  string  `gorm:"size:32;index"`
	Rating    float64 `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (productRow) TableName() string { return "products" }

func (r *productRow) toModel() *product.Product {
	return &product.Product{
		ID:       r.ID,
		Name:     r.Name,
		Price:    r.Price,
		Image:    r.Image,
		Category: r.Category,
		Rating:   r.Rating,
	}
}

type productRepo struct {
	db *gorm.DB
}

// NewProductRepository 创建商品目录仓储
func NewProductRepository(db *gorm.DB) product.Repository {
	return &productRepo{db: db}
}

func (r *productRepo) GetByID(ctx context.Context, id int64) (*product.Product, error) {
	var row productRow
	if err := r.db.WithContext(ctx).First(&row, id).Error; err != nil {
		return nil, err
	}
	return row.toModel(), nil
}

func (r *productRepo) ListAll(ctx context.Context) ([]*product.Product, error) {
	var rows []productRow
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rowsToModels(rows), nil
}

func (r *productRepo) ListByCategory(ctx context.Context, category string) ([]*product.Product, error) {
	var rows []productRow
	if err := r.db.WithContext(ctx).
		Where("category = ?", category).
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rowsToModels(rows), nil
}

func (r *productRepo) Create(ctx context.Context, p *product.Product) error {
	row := productRow{
		ID:       p.ID,
		Name:     p.Name,
		Image:    p.Image,
		Category: p.Category,
		Rating:   p.Rating,
	}
	if s, ok := p.Price.(string); ok {
		row.Price = s
	} else if p.Price != nil {
		row.Price = toPriceText(p.Price)
	}
	return r.db.WithContext(ctx).Create(&row).Error
}

func toPriceText(v any) string {
	return cast.ToString(v)
}

func rowsToModels(rows []productRow) []*product.Product {
	list := make([]*product.Product, 0, len(rows))
	for i := range rows {
		list = append(list, rows[i].toModel())
	}
	return list
}
