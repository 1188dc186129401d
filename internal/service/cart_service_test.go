package service

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaixxakh/Lumiere-Lighting/internal/datamodels/cart"
	"github.com/vaixxakh/Lumiere-Lighting/internal/datamodels/product"
	"github.com/vaixxakh/Lumiere-Lighting/internal/repository/localstore"
)

const testEmail = "shopper@example.com"

func openTestStore(t *testing.T) *localstore.Store {
	t.Helper()
	s, err := localstore.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func lampProduct() *product.Product {
	return &product.Product{
		ID:       1,
		Name:     "Brass Table Lamp",
		Price:    "₹500",
		Image:    "/img/1.jpg",
		Category: "lamps",
		Rating:   4.5,
	}
}

// 连续加购两次：同一商品只有一行，数量 2，单价为归一化快照
func TestAddTwiceMergesLine(t *testing.T) {
	svc := NewCartService(openTestStore(t))

	_, err := svc.Add(testEmail, lampProduct())
	require.NoError(t, err)
	lines, err := svc.Add(testEmail, lampProduct())
	require.NoError(t, err)

	require.Len(t, lines, 1)
	assert.Equal(t, int64(1), lines[0].ProductID)
	assert.Equal(t, 2, lines[0].Quantity)
	assert.Equal(t, 500.0, lines[0].UnitPrice)
	assert.Equal(t, 1000.0, cart.Total(lines))
	assert.Equal(t, 2, cart.Count(lines))
}

func TestAddPersistsAcrossReload(t *testing.T) {
	store := openTestStore(t)
	svc := NewCartService(store)
	_, err := svc.Add(testEmail, lampProduct())
	require.NoError(t, err)

	// 新的服务实例读同一个存储，变更必须已经落盘
	again := NewCartService(store)
	lines := again.Lines(testEmail)
	require.Len(t, lines, 1)
	assert.Equal(t, 1, lines[0].Quantity)
}

func TestSetQuantityZeroRemovesLine(t *testing.T) {
	svc := NewCartService(openTestStore(t))
	_, err := svc.Add(testEmail, lampProduct())
	require.NoError(t, err)

	lines, err := svc.SetQuantity(testEmail, 1, 0)
	require.NoError(t, err)
	assert.Empty(t, lines)
	assert.Equal(t, 0.0, cart.Total(lines))
}

func TestSetQuantity(t *testing.T) {
	svc := NewCartService(openTestStore(t))
	_, err := svc.Add(testEmail, lampProduct())
	require.NoError(t, err)

	lines, err := svc.SetQuantity(testEmail, 1, 7)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 7, lines[0].Quantity)
	assert.Equal(t, 3500.0, cart.Total(lines))
}

// 对不存在的商品操作是 no-op，不报错
func TestMissingIDIsNoop(t *testing.T) {
	svc := NewCartService(openTestStore(t))

	lines, err := svc.Remove(testEmail, 42)
	require.NoError(t, err)
	assert.Empty(t, lines)

	lines, err = svc.SetQuantity(testEmail, 42, 3)
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestClear(t *testing.T) {
	svc := NewCartService(openTestStore(t))
	_, err := svc.Add(testEmail, lampProduct())
	require.NoError(t, err)
	require.NoError(t, svc.Clear(testEmail))
	assert.Empty(t, svc.Lines(testEmail))
}

// 不同用户的购物车互不影响
func TestCartsAreScopedByEmail(t *testing.T) {
	svc := NewCartService(openTestStore(t))
	_, err := svc.Add(testEmail, lampProduct())
	require.NoError(t, err)

	assert.Empty(t, svc.Lines("other@example.com"))
	assert.Len(t, svc.Lines(testEmail), 1)
}
