package service

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaixxakh/Lumiere-Lighting/internal/datamodels/order"
)

// fakeStore 远端订单库的测试替身，行为对齐真实存储服务的路由
type fakeStore struct {
	orders []*order.Order
	pushed []*order.Order
}

func (f *fakeStore) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/orders", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			_ = json.NewEncoder(w).Encode(f.orders)
		case http.MethodPost:
			var o order.Order
			_ = json.NewDecoder(r.Body).Decode(&o)
			f.pushed = append(f.pushed, &o)
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(&o)
		}
	})
	mux.HandleFunc("/orders/", func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimPrefix(r.URL.Path, "/orders/")
		var body struct {
			Status string `json:"status"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		for _, o := range f.orders {
			if o.ID == id {
				_ = o.ApplyStatus(body.Status, time.Now())
				_ = json.NewEncoder(w).Encode(o)
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
	})
	return mux
}

func remoteOrder(id, email string) *order.Order {
	o := &order.Order{
		ID:        id,
		Email:     email,
		Items:     sampleItems(),
		Totals:    sampleTotals(),
		CreatedAt: time.Now(),
	}
	o.SeedHistory(o.CreatedAt)
	return o
}

func TestFetchByEmailFiltersRemote(t *testing.T) {
	fake := &fakeStore{orders: []*order.Order{
		remoteOrder("ORD-1-1111", testEmail),
		remoteOrder("ORD-2-2222", "other@example.com"),
	}}
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	svc := NewSyncService(srv.URL, NewLedgerService(openTestStore(t), nil))
	got, err := svc.FetchByEmail(testEmail)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "ORD-1-1111", got[0].ID)
}

// 远端不可达时回退本地台账：断网期间下的单依然可见
func TestFetchByEmailFallsBackOnNetworkError(t *testing.T) {
	ledger := NewLedgerService(openTestStore(t), nil)
	local, err := ledger.CreateOrder(testEmail, sampleItems(), sampleShipping(), order.PayCOD, sampleTotals())
	require.NoError(t, err)

	svc := NewSyncService("http://127.0.0.1:1", ledger)
	got, err := svc.FetchByEmail(testEmail)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, local.ID, got[0].ID)
}

// 远端可达但对该用户为空集，同样回退本地
func TestFetchByEmailFallsBackOnEmptyMatch(t *testing.T) {
	fake := &fakeStore{orders: []*order.Order{remoteOrder("ORD-9-9999", "other@example.com")}}
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	ledger := NewLedgerService(openTestStore(t), nil)
	local, err := ledger.CreateOrder(testEmail, sampleItems(), sampleShipping(), order.PayCOD, sampleTotals())
	require.NoError(t, err)

	svc := NewSyncService(srv.URL, ledger)
	got, err := svc.FetchByEmail(testEmail)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, local.ID, got[0].ID)
}

func TestFetchAllErrorSurfaces(t *testing.T) {
	svc := NewSyncService("http://127.0.0.1:1", nil)
	_, err := svc.FetchAll()
	assert.Error(t, err)
	assert.Empty(t, svc.Cached())
}

// 改状态成功：远端追加状态事件，内存副本原地更新
func TestChangeStatus(t *testing.T) {
	fake := &fakeStore{orders: []*order.Order{remoteOrder("ORD-1-1111", testEmail)}}
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	svc := NewSyncService(srv.URL, nil)
	_, err := svc.FetchAll()
	require.NoError(t, err)

	updated, err := svc.ChangeStatus("ORD-1-1111", order.StatusShipped)
	require.NoError(t, err)
	assert.Equal(t, order.StatusShipped, updated.Status())
	assert.Len(t, updated.StatusHistory, 3)

	cached := svc.Cached()
	require.Len(t, cached, 1)
	assert.Equal(t, order.StatusShipped, cached[0].Status())
}

// 改状态失败：内存副本保持不变
func TestChangeStatusFailureLeavesCacheUntouched(t *testing.T) {
	fake := &fakeStore{orders: []*order.Order{remoteOrder("ORD-1-1111", testEmail)}}
	srv := httptest.NewServer(fake.handler())

	svc := NewSyncService(srv.URL, nil)
	_, err := svc.FetchAll()
	require.NoError(t, err)
	srv.Close()

	_, err = svc.ChangeStatus("ORD-1-1111", order.StatusShipped)
	assert.Error(t, err)

	cached := svc.Cached()
	require.Len(t, cached, 1)
	assert.Equal(t, order.StatusProcessing, cached[0].Status())
}

func TestChangeStatusUnknown(t *testing.T) {
	svc := NewSyncService("http://127.0.0.1:1", nil)
	_, err := svc.ChangeStatus("ORD-1-1111", "Lost")
	assert.ErrorIs(t, err, order.ErrUnknownStatus)
}

func TestChangeStatusNotFound(t *testing.T) {
	fake := &fakeStore{}
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	svc := NewSyncService(srv.URL, nil)
	_, err := svc.ChangeStatus("ORD-0-0000", order.StatusDelivered)
	assert.ErrorIs(t, err, order.ErrNotFound)
}

func TestPushOrder(t *testing.T) {
	fake := &fakeStore{}
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	svc := NewSyncService(srv.URL, nil)
	require.NoError(t, svc.PushOrder(remoteOrder("ORD-1-1111", testEmail)))
	require.Len(t, fake.pushed, 1)
	assert.Equal(t, "ORD-1-1111", fake.pushed[0].ID)
}

func TestPushOrderNetworkError(t *testing.T) {
	svc := NewSyncService("http://127.0.0.1:1", nil)
	assert.Error(t, svc.PushOrder(remoteOrder("ORD-1-1111", testEmail)))
}
