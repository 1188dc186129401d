package order

import "time"

// 订单状态。预期的推进顺序是
// Pending → Processing → Shipped → Delivered，
// 但这里刻意不强制单向推进：后台可以把任意已知状态设置到任意订单上
// （包括从 Delivered 退回 Processing）。这是沿用原有产品行为的
// 已知模糊点，只校验状态值本身合法。
const (
	StatusPlaced     = "Order Placed" // 创建时的首条历史记录，后台不可设置
	StatusPending    = "Pending"
	StatusProcessing = "Processing"
	StatusShipped    = "Shipped"
	StatusDelivered  = "Delivered"
)

// KnownStatus 后台可设置的状态集合
func KnownStatus(s string) bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered:
		return true
	}
	return false
}

// ApplyStatus 推进状态：仅向状态日志追加一条记录，历史条目不动
func (o *Order) ApplyStatus(status string, at time.Time) error {
	if !KnownStatus(status) {
		return ErrUnknownStatus
	}
	o.StatusHistory = append(o.StatusHistory, StatusEvent{Status: status, At: at})
	return nil
}

// SeedHistory 初始化状态日志：Order Placed 与 Processing 共用创建时间戳
func (o *Order) SeedHistory(at time.Time) {
	o.StatusHistory = []StatusEvent{
		{Status: StatusPlaced, At: at},
		{Status: StatusProcessing, At: at},
	}
}
