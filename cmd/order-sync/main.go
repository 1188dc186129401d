package main

import (
	"encoding/json"
	"flag"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/vaixxakh/Lumiere-Lighting/internal/config"
	"github.com/vaixxakh/Lumiere-Lighting/internal/datamodels/order"
	"github.com/vaixxakh/Lumiere-Lighting/internal/infra/mq"
	"github.com/vaixxakh/Lumiere-Lighting/internal/service"
	"github.com/vaixxakh/Lumiere-Lighting/pkg/log"
)

// order-sync：消费订单推送队列，把本地台账新建的订单推送到远端
// 权威订单库。推送是尽力而为：每条消息只尝试一次，失败记日志后
// 丢弃（不重试、不退避），客户视图靠本地台账回退兜底。
func main() {
	confPath := flag.String("conf", "", "配置文件路径（可选）")
	flag.Parse()

	cfg, err := config.Load(*confPath)
	if err != nil {
		panic(err)
	}

	log.Init(cfg.Log.File, cfg.Log.Debug)

	mqConn := mq.Init(&cfg.RabbitMQ)
	syncSvc := service.NewSyncService(cfg.Remote.BaseURL, nil)

	ch, err := mqConn.Channel()
	if err != nil {
		zap.L().Fatal("failed to open channel", zap.Error(err))
	}
	defer ch.Close()

	if _, err = ch.QueueDeclare(mq.OrderPushQueue, true, false, false, false, nil); err != nil {
		zap.L().Fatal("failed to declare queue", zap.Error(err))
	}

	// 手动确认模式（auto-ack=false）
	msgs, err := ch.Consume(mq.OrderPushQueue, "", false, false, false, false, nil)
	if err != nil {
		zap.L().Fatal("failed to consume", zap.Error(err))
	}

	zap.L().Info("order-sync worker started, waiting for messages")

	for d := range msgs {
		handleMessage(syncSvc, d)
	}
}

func handleMessage(syncSvc *service.SyncService, d amqp.Delivery) {
	var o order.Order
	if err := json.Unmarshal(d.Body, &o); err != nil {
		zap.L().Warn("invalid message, dropping", zap.Error(err))
		_ = d.Nack(false, false)
		return
	}

	if err := syncSvc.PushOrder(&o); err != nil {
		// 单次尝试失败即丢弃，不进入重试循环
		zap.L().Warn("order push failed, dropping",
			zap.String("order_id", o.ID), zap.Error(err))
		_ = d.Nack(false, false)
		return
	}

	zap.L().Info("order pushed to remote store", zap.String("order_id", o.ID))
	_ = d.Ack(false)
}
