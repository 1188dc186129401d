package service

import (
	"fmt"
	"sync"

	"github.com/asaskevich/EventBus"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/vaixxakh/Lumiere-Lighting/internal/datamodels/order"
)

// TopicOrdersRefreshed 订单视图刷新完成后在事件总线上发布的主题，
// 载荷为刷新的用户邮箱。订阅方收到通知即可读取最新视图，
// 不必自己再发起拉取。
const TopicOrdersRefreshed = "orders:refreshed"

// OrderPoller 客户订单视图的定周期刷新器
// 跨进程一致性是最终一致：收敛上界 = 轮询周期 + 请求时延。
// Start/Stop 生命周期必须跟随消费方的存续，Stop 之后保证不再触发。
type OrderPoller struct {
	remote   *SyncService
	bus      EventBus.Bus
	email    string
	interval int // 秒

	c *cron.Cron

	mu   sync.RWMutex
	view []*order.Order
}

// NewOrderPoller 创建轮询器，interval 单位秒，<=0 时取 5 秒
func NewOrderPoller(syncSvc *SyncService, bus EventBus.Bus, email string, interval int) *OrderPoller {
	if interval <= 0 {
		interval = 5
	}
	return &OrderPoller{
		remote:   syncSvc,
		bus:      bus,
		email:    email,
		interval: interval,
	}
}

// Start 启动轮询：先立即刷新一次，之后按固定周期刷新
func (p *OrderPoller) Start() error {
	if p.c != nil {
		return nil
	}
	p.Refresh()

	c := cron.New(cron.WithSeconds())
	if _, err := c.AddFunc(fmt.Sprintf("@every %ds", p.interval), p.Refresh); err != nil {
		return err
	}
	c.Start()
	p.c = c
	return nil
}

// Stop 停止轮询，消费方销毁时必须调用以避免孤儿后台拉取
func (p *OrderPoller) Stop() {
	if p.c == nil {
		return
	}
	// Stop 返回的 context 在运行中的任务结束后完成
	<-p.c.Stop().Done()
	p.c = nil
}

// Refresh 单次刷新：拉取（或回退本地）、更新视图、发布通知
func (p *OrderPoller) Refresh() {
	orders, err := p.remote.FetchByEmail(p.email)
	if err != nil {
		zap.L().Warn("poller: refresh failed", zap.String("email", p.email), zap.Error(err))
		return
	}
	p.mu.Lock()
	p.view = orders
	p.mu.Unlock()

	if p.bus != nil {
		p.bus.Publish(TopicOrdersRefreshed, p.email)
	}
}

// Orders 最近一次刷新得到的订单视图
func (p *OrderPoller) Orders() []*order.Order {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]*order.Order(nil), p.view...)
}
