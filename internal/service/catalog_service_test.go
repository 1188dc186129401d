package service

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaixxakh/Lumiere-Lighting/internal/datamodels/product"
)

func catalogServer(t *testing.T) *httptest.Server {
	t.Helper()
	// 目录价格混用数字与文本两种形态
	list := []*product.Product{
		{ID: 1, Name: "Brass Table Lamp", Price: "₹500", Category: "lamps", Rating: 4.5},
		{ID: 2, Name: "Crystal Chandelier", Price: 12000, Category: "chandeliers", Rating: 4.8},
		{ID: 3, Name: "Brass Floor Lamp", Price: "₹2,100", Category: "lamps", Rating: 4.2},
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(list)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestCatalogList(t *testing.T) {
	svc := NewCatalogService(catalogServer(t).URL)

	all, err := svc.List("", "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	lamps, err := svc.List("lamps", "")
	require.NoError(t, err)
	assert.Len(t, lamps, 2)

	// 关键字匹配不区分大小写
	brass, err := svc.List("", "BRASS")
	require.NoError(t, err)
	assert.Len(t, brass, 2)

	both, err := svc.List("lamps", "floor")
	require.NoError(t, err)
	require.Len(t, both, 1)
	assert.Equal(t, int64(3), both[0].ID)
}

func TestCatalogGetByID(t *testing.T) {
	svc := NewCatalogService(catalogServer(t).URL)

	p, err := svc.GetByID(2)
	require.NoError(t, err)
	assert.Equal(t, "Crystal Chandelier", p.Name)
}

func TestCatalogGetByIDNotFound(t *testing.T) {
	svc := NewCatalogService(catalogServer(t).URL)

	_, err := svc.GetByID(99)
	assert.ErrorIs(t, err, product.ErrNotFound)
}

func TestCatalogListRemoteError(t *testing.T) {
	svc := NewCatalogService("http://127.0.0.1:1")
	_, err := svc.List("", "")
	assert.Error(t, err)
}
