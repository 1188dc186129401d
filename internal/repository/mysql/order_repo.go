package mysql

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/vaixxakh/Lumiere-Lighting/internal/datamodels/order"
)

// orderRow 订单存储行：订单文档整体存 JSON，外加带索引的
// order_id / email 列供查询。order_id 唯一索引保证本地生成的
// 订单号在远端发生碰撞时推送会显式失败，而不是静默覆盖。
type orderRow struct {
	ID        int64  `gorm:"primaryKey"`
	OrderID   string `gorm:"uniqueIndex;size:64;not null"`
	Email     string `gorm:"index;size:128;not null"`
	Payload   string `gorm:"type:json;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (orderRow) TableName() string { return "orders" }

func (r *orderRow) toModel() (*order.Order, error) {
	var o order.Order
	if err := json.Unmarshal([]byte(r.Payload), &o); err != nil {
		return nil, err
	}
	return &o, nil
}

type orderRepo struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓储
func NewOrderRepository(db *gorm.DB) order.Repository {
	return &orderRepo{db: db}
}

func (r *orderRepo) Create(ctx context.Context, o *order.Order) error {
	payload, err := json.Marshal(o)
	if err != nil {
		return err
	}
	row := orderRow{
		OrderID: o.ID,
		Email:   o.Email,
		Payload: string(payload),
	}
	return r.db.WithContext(ctx).Create(&row).Error
}

func (r *orderRepo) GetByID(ctx context.Context, id string) (*order.Order, error) {
	var row orderRow
	err := r.db.WithContext(ctx).Where("order_id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, order.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return row.toModel()
}

func (r *orderRepo) ListAll(ctx context.Context) ([]*order.Order, error) {
	var rows []orderRow
	if err := r.db.WithContext(ctx).Order("id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return orderRowsToModels(rows)
}

func (r *orderRepo) ListByEmail(ctx context.Context, email string) ([]*order.Order, error) {
	var rows []orderRow
	if err := r.db.WithContext(ctx).
		Where("email = ?", email).
		Order("id DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return orderRowsToModels(rows)
}

// AppendStatus 向订单的状态日志追加一条记录并落库
func (r *orderRepo) AppendStatus(ctx context.Context, id string, ev order.StatusEvent) (*order.Order, error) {
	var updated *order.Order
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row orderRow
		err := tx.Where("order_id = ?", id).First(&row).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return order.ErrNotFound
		}
		if err != nil {
			return err
		}
		o, err := row.toModel()
		if err != nil {
			return err
		}
		if err := o.ApplyStatus(ev.Status, ev.At); err != nil {
			return err
		}
		payload, err := json.Marshal(o)
		if err != nil {
			return err
		}
		if err := tx.Model(&orderRow{}).
			Where("order_id = ?", id).
			Update("payload", string(payload)).Error; err != nil {
			return err
		}
		updated = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func orderRowsToModels(rows []orderRow) ([]*order.Order, error) {
	list := make([]*order.Order, 0, len(rows))
	for i := range rows {
		o, err := rows[i].toModel()
		if err != nil {
			return nil, err
		}
		list = append(list, o)
	}
	return list, nil
}
