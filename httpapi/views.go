package httpapi

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"fooddash/catalog"
	"fooddash/models"
)

type notificationView struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

type productView struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Price  string `json:"price"`
	Rating string `json:"rating"`
	Image  string `json:"image"`
}

type cartLineView struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Price     string `json:"price"`
	Qty       int    `json:"qty"`
	LineTotal string `json:"line_total"`
}

type cartBodyView struct {
	Items         []cartLineView `json:"items"`
	ItemCount     int            `json:"item_count"`
	Subtotal      string         `json:"subtotal"`
	Tax           string         `json:"tax"`
	DeliveryFee   string         `json:"delivery_fee"`
	Total         string         `json:"total"`
	SubmitEnabled bool           `json:"submit_enabled"`
}

type orderItemView struct {
	Name  string `json:"name"`
	Price string `json:"price"`
	Qty   int    `json:"qty"`
}

type orderView struct {
	ID           int64           `json:"id"`
	CustomerName string          `json:"customer_name"`
	Items        []orderItemView `json:"items"`
	TotalAmount  string          `json:"total_amount"`
	CreatedAt    time.Time       `json:"created_at"`
}

func productViews(products []models.Product) []productView {
	out := make([]productView, len(products))
	for i, p := range products {
		out[i] = productView{
			ID:     p.ID,
			Name:   p.Name,
			Price:  p.Price.StringFixed(2),
			Rating: p.Rating,
			Image:  p.Image,
		}
	}
	return out
}

func cartView(cat *catalog.Catalog, lines []models.CartLine, b models.Breakdown, count int) cartBodyView {
	items := make([]cartLineView, 0, len(lines))
	for _, line := range lines {
		p, ok := cat.FindByID(line.ProductID)
		if !ok {
			continue
		}
		lineTotal := p.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
		items = append(items, cartLineView{
			ProductID: p.ID,
			Name:      p.Name,
			Price:     p.Price.StringFixed(2),
			Qty:       line.Quantity,
			LineTotal: lineTotal.StringFixed(2),
		})
	}
	return cartBodyView{
		Items:         items,
		ItemCount:     count,
		Subtotal:      b.Subtotal.StringFixed(2),
		Tax:           b.Tax.StringFixed(2),
		DeliveryFee:   b.DeliveryFee.StringFixed(2),
		Total:         b.Total.StringFixed(2),
		SubmitEnabled: len(lines) > 0,
	}
}

func orderViews(orders []models.Order) []orderView {
	out := make([]orderView, len(orders))
	for i, o := range orders {
		items := make([]orderItemView, len(o.Items))
		for j, item := range o.Items {
			items[j] = orderItemView{Name: item.Name, Price: item.Price.StringFixed(2), Qty: item.Qty}
		}
		out[i] = orderView{
			ID:           o.ID,
			CustomerName: o.CustomerName,
			Items:        items,
			TotalAmount:  o.TotalAmount.StringFixed(2),
			CreatedAt:    o.CreatedAt,
		}
	}
	return out
}

func deliveryDetails(name, phone, address string) models.DeliveryDetails {
	return models.DeliveryDetails{
		Name:    strings.TrimSpace(name),
		Phone:   strings.TrimSpace(phone),
		Address: strings.TrimSpace(address),
	}
}
