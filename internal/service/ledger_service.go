package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"sort"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/vaixxakh/Lumiere-Lighting/internal/datamodels/order"
	"github.com/vaixxakh/Lumiere-Lighting/internal/infra/mq"
	"github.com/vaixxakh/Lumiere-Lighting/internal/repository/localstore"
)

// LedgerService 本地订单台账：订单在这里生成并持久化，下单不依赖
// 远端网络往返（本地优先），随后通过 MQ 尽力而为地推送到远端权威
// 订单库。订单一经创建不可删除，唯一允许的变更是状态日志追加。
type LedgerService struct {
	store  *localstore.Store
	mqConn *amqp.Connection // 可为 nil，此时跳过推送
}

// NewLedgerService 创建台账服务
func NewLedgerService(store *localstore.Store, mqConn *amqp.Connection) *LedgerService {
	return &LedgerService{store: store, mqConn: mqConn}
}

// newOrderID 订单号 = 创建时间戳 + 4 位随机后缀（ORD-<毫秒>-<4位>）
// 非加密方案，只降低而不消除碰撞概率；对单用户客户端够用，
// 远端库的唯一索引兜底多写入方场景。
func newOrderID(at time.Time) string {
	return fmt.Sprintf("ORD-%d-%04d", at.UnixMilli(), 1000+rand.Intn(9000))
}

// CreateOrder 结算落账：生成订单号、固化条目与金额快照、
// 初始化状态日志并同步持久化，随后异步推送远端。
// 条目价格在进入 items 前已归一化，这里不再重新解析。
func (s *LedgerService) CreateOrder(
	email string,
	items []order.Item,
	shipping order.Shipping,
	paymentMethod string,
	totals order.Totals,
) (*order.Order, error) {
	if len(items) == 0 {
		return nil, order.ErrEmptyOrder
	}
	if !order.KnownPaymentMethod(paymentMethod) {
		return nil, order.ErrUnknownPaymentMethod
	}

	now := time.Now()
	o := &order.Order{
		ID:            newOrderID(now),
		Email:         email,
		Items:         append([]order.Item(nil), items...),
		Shipping:      shipping,
		PaymentMethod: paymentMethod,
		Totals:        totals,
		CreatedAt:     now,
	}
	o.SeedHistory(now)

	if err := s.store.Put(localstore.CollOrders, o.ID, o); err != nil {
		return nil, err
	}

	// 推送失败只记日志，不影响已落账的订单
	s.publishPush(o)
	return o, nil
}

// GetOrderByID 按订单号查本地台账
func (s *LedgerService) GetOrderByID(id string) (*order.Order, error) {
	var o order.Order
	found, err := s.store.Get(localstore.CollOrders, id, &o)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, order.ErrNotFound
	}
	return &o, nil
}

// ListByEmail 某用户的本地订单，最新的在前
func (s *LedgerService) ListByEmail(email string) ([]*order.Order, error) {
	var list []*order.Order
	err := s.store.ForEach(localstore.CollOrders, func(key string, raw []byte) error {
		var o order.Order
		if err := json.Unmarshal(raw, &o); err != nil {
			zap.L().Warn("ledger: skipping corrupt order", zap.String("id", key), zap.Error(err))
			return nil
		}
		if o.Email == email {
			list = append(list, &o)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].ID > list[j].ID
		}
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return list, nil
}

// publishPush 把新订单发到推送队列（单次尝试，失败不重试）
func (s *LedgerService) publishPush(o *order.Order) {
	if s.mqConn == nil {
		return
	}
	ch, err := s.mqConn.Channel()
	if err != nil {
		zap.L().Warn("ledger: open mq channel failed", zap.String("order_id", o.ID), zap.Error(err))
		return
	}
	defer ch.Close()

	if _, err = ch.QueueDeclare(mq.OrderPushQueue, true, false, false, false, nil); err != nil {
		zap.L().Warn("ledger: declare push queue failed", zap.String("order_id", o.ID), zap.Error(err))
		return
	}

	body, err := json.Marshal(o)
	if err != nil {
		zap.L().Warn("ledger: marshal order failed", zap.String("order_id", o.ID), zap.Error(err))
		return
	}

	err = ch.PublishWithContext(
		context.Background(),
		"",
		mq.OrderPushQueue,
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
	if err != nil {
		zap.L().Warn("ledger: publish order push failed", zap.String("order_id", o.ID), zap.Error(err))
		return
	}
	zap.L().Info("ledger: order queued for remote push", zap.String("order_id", o.ID))
}
