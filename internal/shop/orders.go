package shop

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DateLayout is how an order's placement time is captured for display.
const DateLayout = "2 Jan 2006, 3:04:05 PM"

type Order struct {
	ID       string     `json:"orderId"`
	Items    []LineItem `json:"items"`
	Total    int64      `json:"total"`
	Date     string     `json:"date"`
	PlacedAt time.Time  `json:"placedAt"`
}

// IDFunc produces order ids.
type IDFunc func() string

// NewOrderID returns an ObjectID hex string: a timestamp, a per-process
// random value and a counter, so ids minted in the same instant still
// differ.
func NewOrderID() string {
	return primitive.NewObjectID().Hex()
}

// OrderLog is the append-only list of orders placed in a session.
type OrderLog struct {
	orders []Order
}

func (l *OrderLog) Append(o Order) {
	l.orders = append(l.orders, o)
}

// Find does an exact match on the order id.
func (l *OrderLog) Find(id string) (Order, bool) {
	for _, o := range l.orders {
		if o.ID == id {
			return o.clone(), true
		}
	}
	return Order{}, false
}

func (l *OrderLog) List() []Order {
	out := make([]Order, len(l.orders))
	for i, o := range l.orders {
		out[i] = o.clone()
	}
	return out
}

func (l *OrderLog) Len() int {
	return len(l.orders)
}

func (o Order) clone() Order {
	items := make([]LineItem, len(o.Items))
	copy(items, o.Items)
	o.Items = items
	return o
}

// Checkout turns a non-empty cart into an order, appends it to the log and
// empties the cart. An empty cart is left alone and ok is false.
func Checkout(cart *Cart, log *OrderLog, newID IDFunc, at time.Time) (order Order, ok bool) {
	if cart.IsEmpty() {
		return Order{}, false
	}

	order = Order{
		ID:       newID(),
		Items:    cart.Items(),
		Total:    cart.Total(),
		Date:     at.Format(DateLayout),
		PlacedAt: at,
	}
	cart.Clear()
	log.Append(order)
	return order.clone(), true
}
