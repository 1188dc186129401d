package order

import (
	"fmt"
	"strings"
)

// Invoice 生成纯文本发票，供前台下载
func (o *Order) Invoice() string {
	var b strings.Builder
	line := strings.Repeat("-", 61)

	b.WriteString("LUMIERE INVOICE\n")
	b.WriteString(line + "\n")
	fmt.Fprintf(&b, "Order ID:        %s\n", o.ID)
	fmt.Fprintf(&b, "Order Date:      %s\n", o.CreatedAt.Format("2006-01-02"))
	fmt.Fprintf(&b, "Status:          %s\n", o.Status())
	fmt.Fprintf(&b, "Payment Method:  %s\n", o.PaymentMethod)
	b.WriteString("\nCUSTOMER\n")
	b.WriteString(line + "\n")
	fmt.Fprintf(&b, "Name:            %s\n", o.Shipping.FullName)
	fmt.Fprintf(&b, "Email:           %s\n", o.Email)
	fmt.Fprintf(&b, "Phone:           %s\n", o.Shipping.Phone)
	b.WriteString("\nSHIPPING ADDRESS\n")
	b.WriteString(line + "\n")
	fmt.Fprintf(&b, "%s, %s, %s\n", o.Shipping.AddressLine, o.Shipping.City, o.Shipping.ZipCode)
	b.WriteString("\nITEMS\n")
	b.WriteString(line + "\n")
	for _, it := range o.Items {
		fmt.Fprintf(&b, "%s\n  Quantity: %d x Price: ₹%.2f\n  Subtotal: ₹%.2f\n",
			it.Name, it.Quantity, it.UnitPrice, it.UnitPrice*float64(it.Quantity))
	}
	b.WriteString("\nPRICE SUMMARY\n")
	b.WriteString(line + "\n")
	fmt.Fprintf(&b, "Subtotal:        ₹%.2f\n", o.Totals.Subtotal)
	fmt.Fprintf(&b, "Shipping:        ₹%.2f\n", o.Totals.Shipping)
	fmt.Fprintf(&b, "Tax (18%%):       ₹%.2f\n", o.Totals.Tax)
	fmt.Fprintf(&b, "TOTAL:           ₹%.2f\n", o.Totals.GrandTotal)
	b.WriteString("\nThank you for shopping with Lumiere!\n")
	b.WriteString("For support, contact: support@lumiere.com\n")
	return b.String()
}
