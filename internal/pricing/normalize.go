package pricing

import (
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

// Normalize 价格归一化边界：把任意形态的价格（数字或带货币符号、
// 千分位的文本，如 "₹1,234.50"）转成规范的数值。
// 该函数永不报错，解析失败一律返回 0，保证后续合计不会出现 NaN。
// 商品进入购物车或订单条目时调用且只调用一次，之后不再重新解析。
func Normalize(v any) float64 {
	if v == nil {
		return 0
	}
	switch s := v.(type) {
	case string:
		return parsePriceText(s)
	default:
		n, err := cast.ToFloat64E(v)
		if err != nil {
			return 0
		}
		return n
	}
}

// parsePriceText 剔除数字、小数点、负号以外的字符后按浮点数解析
func parsePriceText(s string) float64 {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	n, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0
	}
	return n
}
