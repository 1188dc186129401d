package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/guonaihong/gout"

	"github.com/vaixxakh/Lumiere-Lighting/internal/datamodels/product"
)

// CatalogService 商品目录读取端（目录由外部供给，这里只读）
type CatalogService struct {
	baseURL string
}

// NewCatalogService 创建目录服务
func NewCatalogService(baseURL string) *CatalogService {
	return &CatalogService{baseURL: baseURL}
}

// List 拉取目录，支持按分类过滤与名称关键字的内存过滤
func (s *CatalogService) List(category, keyword string) ([]*product.Product, error) {
	var code int
	var list []*product.Product
	err := gout.GET(s.baseURL + "/products").
		SetTimeout(5 * time.Second).
		Code(&code).
		BindJSON(&list).
		Do()
	if err != nil {
		return nil, err
	}
	if code != 200 {
		return nil, fmt.Errorf("remote store returned %d", code)
	}

	if category != "" {
		filtered := make([]*product.Product, 0, len(list))
		for _, p := range list {
			if p.Category == category {
				filtered = append(filtered, p)
			}
		}
		list = filtered
	}
	if keyword != "" {
		kw := strings.ToLower(keyword)
		filtered := make([]*product.Product, 0, len(list))
		for _, p := range list {
			if strings.Contains(strings.ToLower(p.Name), kw) {
				filtered = append(filtered, p)
			}
		}
		list = filtered
	}
	return list, nil
}

// GetByID 按 ID 读取单个目录条目
func (s *CatalogService) GetByID(id int64) (*product.Product, error) {
	list, err := s.List("", "")
	if err != nil {
		return nil, err
	}
	for _, p := range list {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, product.ErrNotFound
}
