// Package shop holds the cart and order state of a single storefront
// session. Nothing here renders, schedules or locks; callers own the
// synchronization.
package shop

import "strings"

type LineItem struct {
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Quantity int    `json:"quantity"`
}

// Subtotal is price times quantity for this line.
func (l LineItem) Subtotal() int64 {
	return l.Price * int64(l.Quantity)
}

// Cart is an ordered list of line items keyed by product name. The order is
// the order in which each product was first added.
type Cart struct {
	items []LineItem
}

// AddItem merges into the line with the same name or appends a new line
// with quantity 1.
func (c *Cart) AddItem(name string, price int64) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return NewInvalidArgument(ErrMsgNameRequired)
	}
	if price < 0 {
		return NewInvalidArgument(ErrMsgPriceNegative)
	}

	for i := range c.items {
		if c.items[i].Name == name {
			c.items[i].Quantity++
			return nil
		}
	}
	c.items = append(c.items, LineItem{Name: name, Price: price, Quantity: 1})
	return nil
}

func (c *Cart) IncreaseQuantity(index int) error {
	if err := c.checkIndex(index); err != nil {
		return err
	}
	c.items[index].Quantity++
	return nil
}

// DecreaseQuantity drops one unit; the line is removed instead of reaching
// zero.
func (c *Cart) DecreaseQuantity(index int) error {
	if err := c.checkIndex(index); err != nil {
		return err
	}
	if c.items[index].Quantity > 1 {
		c.items[index].Quantity--
		return nil
	}
	c.removeAt(index)
	return nil
}

func (c *Cart) RemoveItem(index int) error {
	if err := c.checkIndex(index); err != nil {
		return err
	}
	c.removeAt(index)
	return nil
}

func (c *Cart) Total() int64 {
	var total int64
	for _, item := range c.items {
		total += item.Subtotal()
	}
	return total
}

// ItemCount is the number of units across all lines, shown on the badge.
func (c *Cart) ItemCount() int {
	count := 0
	for _, item := range c.items {
		count += item.Quantity
	}
	return count
}

func (c *Cart) Clear() {
	c.items = nil
}

func (c *Cart) Len() int {
	return len(c.items)
}

func (c *Cart) IsEmpty() bool {
	return len(c.items) == 0
}

// Items returns a copy of the lines.
func (c *Cart) Items() []LineItem {
	out := make([]LineItem, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Cart) checkIndex(index int) error {
	if index < 0 || index >= len(c.items) {
		return NewInvalidArgumentf("%s: %d (cart has %d lines)", ErrMsgIndexRange, index, len(c.items))
	}
	return nil
}

func (c *Cart) removeAt(index int) {
	c.items = append(c.items[:index], c.items[index+1:]...)
}
