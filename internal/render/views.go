// Package render projects session state into what the storefront page
// displays: JSON view models and ready-to-swap HTML fragments.
package render

import (
	"teakspice-storefront/internal/modal"
	"teakspice-storefront/internal/shop"
	"teakspice-storefront/internal/tracker"
)

type LineView struct {
	Index    int    `json:"index"`
	Name     string `json:"name"`
	Price    string `json:"price"`
	Quantity int    `json:"quantity"`
	Subtotal string `json:"subtotal"`
}

type CartView struct {
	Lines       []LineView `json:"lines"`
	Total       string     `json:"total"`
	TotalAmount int64      `json:"totalAmount"`
	Badge       int        `json:"badge"`
	Empty       bool       `json:"empty"`
}

type OrderView struct {
	OrderID     string     `json:"orderId"`
	Date        string     `json:"date"`
	Total       string     `json:"total"`
	TotalAmount int64      `json:"totalAmount"`
	Lines       []LineView `json:"lines"`
}

type TrackerView struct {
	State   tracker.State `json:"state"`
	OrderID string        `json:"orderId,omitempty"`
	Message string        `json:"message"`
	Error   string        `json:"error,omitempty"`
	Order   *OrderView    `json:"order,omitempty"`
}

type PanelsView map[modal.Panel]bool

type Renderer struct {
	money *Money
}

func New(money *Money) *Renderer {
	return &Renderer{money: money}
}

func (r *Renderer) Cart(items []shop.LineItem) CartView {
	v := CartView{Lines: r.lines(items), Empty: len(items) == 0}
	for _, item := range items {
		v.TotalAmount += item.Subtotal()
		v.Badge += item.Quantity
	}
	v.Total = r.money.Format(v.TotalAmount)
	return v
}

func (r *Renderer) Order(o shop.Order) OrderView {
	return OrderView{
		OrderID:     o.ID,
		Date:        o.Date,
		Total:       r.money.Format(o.Total),
		TotalAmount: o.Total,
		Lines:       r.lines(o.Items),
	}
}

func (r *Renderer) Orders(orders []shop.Order) []OrderView {
	out := make([]OrderView, len(orders))
	for i, o := range orders {
		out[i] = r.Order(o)
	}
	return out
}

func (r *Renderer) Tracker(s tracker.Status) TrackerView {
	v := TrackerView{State: s.State, OrderID: s.OrderID, Message: s.Message, Error: s.Error}
	if s.Order != nil {
		ov := r.Order(*s.Order)
		v.Order = &ov
	}
	return v
}

func (r *Renderer) lines(items []shop.LineItem) []LineView {
	out := make([]LineView, len(items))
	for i, item := range items {
		out[i] = LineView{
			Index:    i,
			Name:     item.Name,
			Price:    r.money.Format(item.Price),
			Quantity: item.Quantity,
			Subtotal: r.money.Format(item.Subtotal()),
		}
	}
	return out
}
