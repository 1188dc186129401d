package server

import (
	"sync"

	"github.com/vaixxakh/Lumiere-Lighting/internal/service"
)

// pollerSet 按用户邮箱管理订单视图轮询器
// 取用即启动，登出时停掉，保证没有孤儿后台拉取。
type pollerSet struct {
	mu      sync.Mutex
	newFn   func(email string) *service.OrderPoller
	running map[string]*service.OrderPoller
}

func newPollerSet(newFn func(email string) *service.OrderPoller) *pollerSet {
	return &pollerSet{
		newFn:   newFn,
		running: map[string]*service.OrderPoller{},
	}
}

// get 取该用户的轮询器，不存在则创建并启动
func (s *pollerSet) get(email string) *service.OrderPoller {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.running[email]; ok {
		return p
	}
	p := s.newFn(email)
	_ = p.Start()
	s.running[email] = p
	return p
}

// stop 停掉并移除该用户的轮询器
func (s *pollerSet) stop(email string) {
	s.mu.Lock()
	p, ok := s.running[email]
	delete(s.running, email)
	s.mu.Unlock()
	if ok {
		p.Stop()
	}
}

// stopAll 服务关停时释放全部轮询器
func (s *pollerSet) stopAll() {
	s.mu.Lock()
	pollers := make([]*service.OrderPoller, 0, len(s.running))
	for _, p := range s.running {
		pollers = append(pollers, p)
	}
	s.running = map[string]*service.OrderPoller{}
	s.mu.Unlock()
	for _, p := range pollers {
		p.Stop()
	}
}
