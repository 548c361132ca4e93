// Package catalog serves the products shown on the storefront. The cart
// uses it to price an add request that arrives without a price.
package catalog

import (
	"context"
	"errors"
	"strings"
)

var ErrNotFound = errors.New("product not found")

type Catalog interface {
	List(ctx context.Context) ([]Product, error)
	// FindByName matches names case-insensitively after trimming.
	FindByName(ctx context.Context, name string) (Product, error)
}

// DefaultProducts seeds the in-memory catalog.
var DefaultProducts = []Product{
	{Name: "Hoodie", Price: 1200, Image: "/img/hoodie.jpg", Description: "Heavyweight cotton hoodie"},
	{Name: "T-Shirt", Price: 600, Image: "/img/tshirt.jpg", Description: "Crew neck tee"},
	{Name: "Cap", Price: 300, Image: "/img/cap.jpg", Description: "Six panel cap"},
	{Name: "Mug", Price: 250, Image: "/img/mug.jpg", Description: "Ceramic mug, 350ml"},
}

// Memory is a read-only catalog; products are fixed at construction.
type Memory struct {
	products []Product
}

func NewMemory(products []Product) *Memory {
	m := &Memory{products: make([]Product, len(products))}
	copy(m.products, products)
	return m
}

func (m *Memory) List(_ context.Context) ([]Product, error) {
	out := make([]Product, len(m.products))
	copy(out, m.products)
	return out, nil
}

func (m *Memory) FindByName(_ context.Context, name string) (Product, error) {
	name = strings.TrimSpace(name)
	for _, p := range m.products {
		if strings.EqualFold(p.Name, name) {
			return p, nil
		}
	}
	return Product{}, ErrNotFound
}
