package mq

import (
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/vaixxakh/Lumiere-Lighting/internal/config"
)

// OrderPushQueue 新订单推送队列：台账写入本地后把订单发到该队列，
// 由 order-sync 进程异步推送到远端权威订单库（尽力而为，单次尝试）。
const OrderPushQueue = "order_push_queue"

var (
	conn *amqp.Connection
	once sync.Once
)

// Init 初始化 RabbitMQ 连接
func Init(cfg *config.RabbitMQConfig) *amqp.Connection {
	once.Do(func() {
		c, err := amqp.Dial(cfg.URL)
		if err != nil {
			zap.L().Fatal("failed to connect rabbitmq", zap.Error(err))
		}
		conn = c
	})
	return conn
}
