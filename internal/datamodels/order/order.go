package order

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound 订单不存在
	ErrNotFound = errors.New("order not found")
	// ErrEmptyOrder 订单条目为空（结算流程应在上游拦截，这里兜底）
	ErrEmptyOrder = errors.New("order has no items")
	// ErrUnknownStatus 未知订单状态
	ErrUnknownStatus = errors.New("unknown order status")
	// ErrUnknownPaymentMethod 未知支付方式
	ErrUnknownPaymentMethod = errors.New("unknown payment method")
)

// 支付方式固定枚举
const (
	PayCOD     = "cod"
	PayCard    = "card"
	PayUPI     = "upi"
	PayNetbank = "netbank"
)

// KnownPaymentMethod 校验支付方式是否在枚举内
func KnownPaymentMethod(m string) bool {
	switch m {
	case PayCOD, PayCard, PayUPI, PayNetbank:
		return true
	}
	return false
}

// Item 订单条目：结算瞬间从购物车行冗余出来的不可变快照
// 下单后目录改价不会回溯影响已生成的订单。
type Item struct {
	ProductID int64   `json:"productId"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unitPrice"`
	Quantity  int     `json:"quantity"`
	Image     string  `json:"image"`
}

// Shipping 收货信息
type Shipping struct {
	FullName    string `json:"fullName"`
	Phone       string `json:"phone"`
	AddressLine string `json:"addressLine"`
	City        string `json:"city"`
	ZipCode     string `json:"zipCode"`
}

// Totals 金额合计：创建时一次性算好，之后不再重算
type Totals struct {
	Subtotal   float64 `json:"subtotal"`
	Shipping   float64 `json:"shipping"`
	Tax        float64 `json:"tax"`
	GrandTotal float64 `json:"grandTotal"`
}

// StatusEvent 状态流转记录
type StatusEvent struct {
	Status string    `json:"status"`
	At     time.Time `json:"at"`
}

// Order 订单模型
// StatusHistory 是只追加的状态日志，历史条目永不改写、永不截断，
// 当前状态定义为最后一条记录的状态。
type Order struct {
	ID            string        `json:"id"`
	Email         string        `json:"email"`
	Items         []Item        `json:"items"`
	Shipping      Shipping      `json:"shipping"`
	PaymentMethod string        `json:"paymentMethod"`
	Totals        Totals        `json:"totals"`
	StatusHistory []StatusEvent `json:"statusHistory"`
	CreatedAt     time.Time     `json:"createdAt"`
}

// Status 当前状态 = 状态日志的最后一条
func (o *Order) Status() string {
	if len(o.StatusHistory) == 0 {
		return ""
	}
	return o.StatusHistory[len(o.StatusHistory)-1].Status
}

// Repository 远端权威订单库仓储接口
type Repository interface {
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, id string) (*Order, error)
	ListAll(ctx context.Context) ([]*Order, error)
	ListByEmail(ctx context.Context, email string) ([]*Order, error)
	AppendStatus(ctx context.Context, id string, ev StatusEvent) (*Order, error)
}
