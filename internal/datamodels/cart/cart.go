package cart

// Line 购物车行：每个商品最多一行，数量 <= 0 的行不允许存在（直接删除）
// UnitPrice 是加购时归一化后的快照价，展示字段一并冗余，后续目录
// 改价不影响已在购物车中的行。
type Line struct {
	ProductID int64   `json:"productId"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unitPrice"`
	Quantity  int     `json:"quantity"`
	Image     string  `json:"image"`
	Category  string  `json:"category"`
	Rating    float64 `json:"rating"`
}

// Total 购物车合计 Σ(单价×数量)，纯函数，不单独存储
func Total(lines []Line) float64 {
	var sum float64
	for _, l := range lines {
		sum += l.UnitPrice * float64(l.Quantity)
	}
	return sum
}

// Count 购物车件数 Σ(数量)
func Count(lines []Line) int {
	var n int
	for _, l := range lines {
		n += l.Quantity
	}
	return n
}
