package server

import (
	"errors"
	"math"
	"regexp"
	"strings"

	"github.com/vaixxakh/Lumiere-Lighting/internal/datamodels/cart"
	"github.com/vaixxakh/Lumiere-Lighting/internal/datamodels/order"
	"github.com/vaixxakh/Lumiere-Lighting/internal/datamodels/product"
	"github.com/vaixxakh/Lumiere-Lighting/internal/pricing"
)

var (
	phoneRe = regexp.MustCompile(`^\d{10}$`)
	zipRe   = regexp.MustCompile(`^\d{5,6}$`)
)

// buyNowItem "立即购买"：单件商品绕过购物车直接结算
type buyNowItem struct {
	Product  product.Product `json:"product"`
	Quantity int             `json:"quantity"`
}

// checkoutRequest 结算请求：收货信息 + 支付方式及其专有字段
// 校验不通过的请求永远不会到达台账。
type checkoutRequest struct {
	FullName      string `json:"fullName"`
	PhoneNumber   string `json:"phoneNumber"`
	AddressLine   string `json:"addressLine"`
	City          string `json:"city"`
	ZipCode       string `json:"zipCode"`
	PaymentMethod string `json:"paymentMethod"`

	// card
	CardName   string `json:"cardName"`
	CardNumber string `json:"cardNumber"`
	ExpiryDate string `json:"expiryDate"`
	CVV        string `json:"cvv"`
	// upi
	UPIID string `json:"upiId"`
	// netbank
	BankName      string `json:"bankName"`
	AccountNumber string `json:"accountNumber"`

	// BuyNow 非空时忽略购物车，只结算这一件
	BuyNow *buyNowItem `json:"buyNow"`
}

func (r *checkoutRequest) validate() error {
	if strings.TrimSpace(r.FullName) == "" {
		return errors.New("please enter your full name")
	}
	if !phoneRe.MatchString(strings.TrimSpace(r.PhoneNumber)) {
		return errors.New("enter a valid 10-digit phone number")
	}
	if strings.TrimSpace(r.AddressLine) == "" {
		return errors.New("enter your address")
	}
	if strings.TrimSpace(r.City) == "" {
		return errors.New("enter your city")
	}
	if !zipRe.MatchString(strings.TrimSpace(r.ZipCode)) {
		return errors.New("enter a valid zip code")
	}

	switch r.PaymentMethod {
	case order.PayCOD:
		// 货到付款无附加字段
	case order.PayCard:
		if strings.TrimSpace(r.CardName) == "" || strings.TrimSpace(r.CardNumber) == "" ||
			strings.TrimSpace(r.ExpiryDate) == "" || strings.TrimSpace(r.CVV) == "" {
			return errors.New("please fill all card details")
		}
	case order.PayUPI:
		if strings.TrimSpace(r.UPIID) == "" {
			return errors.New("enter a valid UPI id")
		}
	case order.PayNetbank:
		if strings.TrimSpace(r.BankName) == "" || strings.TrimSpace(r.AccountNumber) == "" {
			return errors.New("enter your bank name and account number")
		}
	default:
		return order.ErrUnknownPaymentMethod
	}
	return nil
}

func (r *checkoutRequest) shipping() order.Shipping {
	return order.Shipping{
		FullName:    strings.TrimSpace(r.FullName),
		Phone:       strings.TrimSpace(r.PhoneNumber),
		AddressLine: strings.TrimSpace(r.AddressLine),
		City:        strings.TrimSpace(r.City),
		ZipCode:     strings.TrimSpace(r.ZipCode),
	}
}

// checkoutItems 结算条目：立即购买的一件，或整车行
// 立即购买的商品在这里跨越价格归一化边界。
func (r *checkoutRequest) checkoutItems(lines []cart.Line) []order.Item {
	if r.BuyNow != nil {
		qty := r.BuyNow.Quantity
		if qty < 1 {
			qty = 1
		}
		p := r.BuyNow.Product
		return []order.Item{{
			ProductID: p.ID,
			Name:      p.Name,
			UnitPrice: pricing.Normalize(p.Price),
			Quantity:  qty,
			Image:     p.Image,
		}}
	}
	items := make([]order.Item, 0, len(lines))
	for _, l := range lines {
		items = append(items, order.Item{
			ProductID: l.ProductID,
			Name:      l.Name,
			UnitPrice: l.UnitPrice,
			Quantity:  l.Quantity,
			Image:     l.Image,
		})
	}
	return items
}

// computeTotals 金额合计：运费 = 小计的 5%（四舍五入），为零时保底 100；
// 税费 = 小计的 18%。创建订单时一次算好，之后不再重算。
func computeTotals(items []order.Item) order.Totals {
	var subtotal float64
	for _, it := range items {
		subtotal += it.UnitPrice * float64(it.Quantity)
	}
	shipping := math.Round(subtotal * 0.05)
	if shipping == 0 {
		shipping = 100
	}
	tax := math.Round(subtotal * 0.18)
	return order.Totals{
		Subtotal:   subtotal,
		Shipping:   shipping,
		Tax:        tax,
		GrandTotal: subtotal + shipping + tax,
	}
}
