package service

import (
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/guonaihong/gout"
	"go.uber.org/zap"

	"github.com/vaixxakh/Lumiere-Lighting/internal/datamodels/order"
)

// SyncService 远端权威订单库的同步客户端
// 所有远端调用单次尝试、无重试：失败走文档化的回退路径
// （客户视图回退本地台账，后台直接把错误交给调用方）。
type SyncService struct {
	baseURL string
	ledger  *LedgerService

	mu     sync.RWMutex
	cached []*order.Order // 后台视图的内存副本，写成功后原地更新
}

// NewSyncService 创建同步客户端，ledger 为客户视图的本地回退源
func NewSyncService(baseURL string, ledger *LedgerService) *SyncService {
	return &SyncService{baseURL: baseURL, ledger: ledger}
}

func (s *SyncService) ordersURL() string {
	return s.baseURL + "/orders"
}

// FetchByEmail 客户订单视图：拉全量订单后按邮箱过滤
// 远端不可达、或远端对该用户为空集时，回退到本地台账——
// 断网期间下的单客户依然能看到。
func (s *SyncService) FetchByEmail(email string) ([]*order.Order, error) {
	var code int
	var all []*order.Order
	err := gout.GET(s.ordersURL()).
		SetTimeout(5 * time.Second).
		Code(&code).
		BindJSON(&all).
		Do()
	if err != nil || code != 200 {
		zap.L().Warn("sync: remote order fetch failed, falling back to local ledger",
			zap.String("email", email), zap.Int("code", code), zap.Error(err))
		return s.ledger.ListByEmail(email)
	}

	matched := make([]*order.Order, 0, len(all))
	for _, o := range all {
		if o.Email == email {
			matched = append(matched, o)
		}
	}
	if len(matched) == 0 {
		// 远端没有该用户的任何记录（可能从未推送成功），回退本地
		return s.ledger.ListByEmail(email)
	}
	return matched, nil
}

// FetchAll 后台订单视图：全量、不过滤；失败直接报错，状态不变
func (s *SyncService) FetchAll() ([]*order.Order, error) {
	var code int
	var all []*order.Order
	err := gout.GET(s.ordersURL()).
		SetTimeout(5 * time.Second).
		Code(&code).
		BindJSON(&all).
		Do()
	if err != nil {
		return nil, err
	}
	if code != 200 {
		return nil, fmt.Errorf("remote store returned %d", code)
	}
	s.mu.Lock()
	s.cached = all
	s.mu.Unlock()
	return all, nil
}

// Cached 后台视图的内存副本
func (s *SyncService) Cached() []*order.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*order.Order(nil), s.cached...)
}

// ChangeStatus 后台改状态：先写远端，仅在远端成功后更新内存副本；
// 失败时内存状态保持不变，把错误交给调用方展示。
func (s *SyncService) ChangeStatus(orderID, status string) (*order.Order, error) {
	if !order.KnownStatus(status) {
		return nil, order.ErrUnknownStatus
	}

	var code int
	var updated order.Order
	err := gout.PATCH(s.ordersURL() + "/" + url.PathEscape(orderID)).
		SetTimeout(5 * time.Second).
		SetJSON(gout.H{"status": status}).
		Code(&code).
		BindJSON(&updated).
		Do()
	if err != nil {
		return nil, err
	}
	if code == 404 {
		return nil, order.ErrNotFound
	}
	if code != 200 {
		return nil, fmt.Errorf("remote store returned %d", code)
	}

	s.mu.Lock()
	for i, o := range s.cached {
		if o.ID == orderID {
			s.cached[i] = &updated
			break
		}
	}
	s.mu.Unlock()
	return &updated, nil
}

// PushOrder 把本地创建的订单推送到远端（order-sync 进程使用）
func (s *SyncService) PushOrder(o *order.Order) error {
	var code int
	err := gout.POST(s.ordersURL()).
		SetTimeout(5 * time.Second).
		SetJSON(o).
		Code(&code).
		Do()
	if err != nil {
		return err
	}
	if code != 200 && code != 201 {
		return fmt.Errorf("remote store returned %d", code)
	}
	return nil
}
