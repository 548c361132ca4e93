package catalog

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_List(t *testing.T) {
	m := NewMemory(DefaultProducts)

	products, err := m.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, DefaultProducts, products)

	products[0].Price = 1
	again, err := m.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1200), again[0].Price)
}

func TestMemory_FindByName(t *testing.T) {
	m := NewMemory(DefaultProducts)

	p, err := m.FindByName(context.Background(), "  hoodie ")
	require.NoError(t, err)
	assert.Equal(t, "Hoodie", p.Name)
	assert.Equal(t, int64(1200), p.Price)

	_, err = m.FindByName(context.Background(), "Scarf")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestMemory_ReadOnlyAfterConstruction(t *testing.T) {
	src := []Product{{Name: "Mug", Price: 250}}
	m := NewMemory(src)
	src[0].Price = 9

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p, err := m.FindByName(context.Background(), "mug")
			assert.NoError(t, err)
			assert.Equal(t, int64(250), p.Price)
			_, err = m.List(context.Background())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
}

// Runs against a real server only when MONGO_TEST_URL is set.
func TestMongo_Integration(t *testing.T) {
	uri := os.Getenv("MONGO_TEST_URL")
	if uri == "" {
		t.Skip("MONGO_TEST_URL not set")
	}

	ctx := context.Background()
	m, err := Connect(ctx, uri, "teakspice_test")
	require.NoError(t, err)
	defer func() {
		_ = m.coll.Drop(ctx)
		_ = m.Close(ctx)
	}()
	require.NoError(t, m.coll.Drop(ctx))

	n, err := m.Seed(ctx, DefaultProducts)
	require.NoError(t, err)
	assert.Equal(t, len(DefaultProducts), n)

	n, err = m.Seed(ctx, DefaultProducts)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	products, err := m.List(ctx)
	require.NoError(t, err)
	assert.Len(t, products, len(DefaultProducts))

	p, err := m.FindByName(ctx, "CAP")
	require.NoError(t, err)
	assert.Equal(t, int64(300), p.Price)

	_, err = m.FindByName(ctx, "Scarf")
	assert.True(t, errors.Is(err, ErrNotFound))
}
