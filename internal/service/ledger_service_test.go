package service

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaixxakh/Lumiere-Lighting/internal/datamodels/order"
)

var orderIDRe = regexp.MustCompile(`^ORD-\d+-\d{4}$`)

func sampleItems() []order.Item {
	return []order.Item{
		{ProductID: 1, Name: "Brass Table Lamp", UnitPrice: 500, Quantity: 2, Image: "/img/1.jpg"},
	}
}

func sampleShipping() order.Shipping {
	return order.Shipping{
		FullName:    "Asha Rao",
		Phone:       "9876543210",
		AddressLine: "12 MG Road",
		City:        "Bengaluru",
		ZipCode:     "560001",
	}
}

func sampleTotals() order.Totals {
	return order.Totals{Subtotal: 1000, Shipping: 100, Tax: 180, GrandTotal: 1280}
}

func TestCreateOrder(t *testing.T) {
	svc := NewLedgerService(openTestStore(t), nil)
	before := time.Now()

	o, err := svc.CreateOrder(testEmail, sampleItems(), sampleShipping(), order.PayCOD, sampleTotals())
	require.NoError(t, err)

	assert.Regexp(t, orderIDRe, o.ID)
	assert.Equal(t, testEmail, o.Email)
	assert.Equal(t, 1280.0, o.Totals.GrandTotal)
	assert.False(t, o.CreatedAt.Before(before))

	// 状态日志初始两条，共享创建时间戳
	require.Len(t, o.StatusHistory, 2)
	assert.Equal(t, order.StatusPlaced, o.StatusHistory[0].Status)
	assert.Equal(t, order.StatusProcessing, o.StatusHistory[1].Status)
	assert.Equal(t, o.StatusHistory[0].At, o.StatusHistory[1].At)
	assert.Equal(t, order.StatusProcessing, o.Status())
}

func TestCreateOrderPersists(t *testing.T) {
	store := openTestStore(t)
	svc := NewLedgerService(store, nil)
	o, err := svc.CreateOrder(testEmail, sampleItems(), sampleShipping(), order.PayUPI, sampleTotals())
	require.NoError(t, err)

	got, err := svc.GetOrderByID(o.ID)
	require.NoError(t, err)
	assert.Equal(t, o.ID, got.ID)
	assert.Equal(t, o.Items, got.Items)
	assert.Equal(t, o.Totals, got.Totals)
}

func TestCreateOrderEmptyItems(t *testing.T) {
	svc := NewLedgerService(openTestStore(t), nil)
	_, err := svc.CreateOrder(testEmail, nil, sampleShipping(), order.PayCOD, order.Totals{})
	assert.ErrorIs(t, err, order.ErrEmptyOrder)
}

func TestCreateOrderUnknownPayment(t *testing.T) {
	svc := NewLedgerService(openTestStore(t), nil)
	_, err := svc.CreateOrder(testEmail, sampleItems(), sampleShipping(), "cheque", sampleTotals())
	assert.ErrorIs(t, err, order.ErrUnknownPaymentMethod)
}

// 条目是快照：创建后改调用方的切片，不影响已落账的订单
func TestCreateOrderCopiesItems(t *testing.T) {
	svc := NewLedgerService(openTestStore(t), nil)
	items := sampleItems()
	o, err := svc.CreateOrder(testEmail, items, sampleShipping(), order.PayCOD, sampleTotals())
	require.NoError(t, err)

	items[0].UnitPrice = 9999
	assert.Equal(t, 500.0, o.Items[0].UnitPrice)
}

func TestOrderIDsAreDistinct(t *testing.T) {
	svc := NewLedgerService(openTestStore(t), nil)
	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		o, err := svc.CreateOrder(testEmail, sampleItems(), sampleShipping(), order.PayCOD, sampleTotals())
		require.NoError(t, err)
		assert.False(t, seen[o.ID], "duplicate order id %s", o.ID)
		seen[o.ID] = true
	}
}

func TestGetOrderByIDNotFound(t *testing.T) {
	svc := NewLedgerService(openTestStore(t), nil)
	_, err := svc.GetOrderByID("ORD-0-0000")
	assert.ErrorIs(t, err, order.ErrNotFound)
}

// ListByEmail 只返回该用户的订单，最新的在前
func TestListByEmail(t *testing.T) {
	svc := NewLedgerService(openTestStore(t), nil)

	first, err := svc.CreateOrder(testEmail, sampleItems(), sampleShipping(), order.PayCOD, sampleTotals())
	require.NoError(t, err)
	_, err = svc.CreateOrder("other@example.com", sampleItems(), sampleShipping(), order.PayCOD, sampleTotals())
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)
	second, err := svc.CreateOrder(testEmail, sampleItems(), sampleShipping(), order.PayCOD, sampleTotals())
	require.NoError(t, err)

	list, err := svc.ListByEmail(testEmail)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)
}
