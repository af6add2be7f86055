package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func product(id, name, price string) Product {
	return Product{ID: id, Name: name, Price: decimal.RequireFromString(price), Category: "misc"}
}

func TestCart_Add(t *testing.T) {
	var c Cart
	line, err := c.Add(product("p1", "Mug", "10.00"), 2)
	require.NoError(t, err)

	assert.Equal(t, 2, line.Quantity)
	assert.Equal(t, 2, c.Count())
	assert.True(t, decimal.RequireFromString("20").Equal(c.Value()))

	_, err = c.Add(product("p2", "Pen", "1.50"), 1)
	require.NoError(t, err)
	assert.Equal(t, 3, c.Count())
	assert.True(t, decimal.RequireFromString("21.5").Equal(c.Value()))
	assert.Equal(t, []string{"p1", "p2"}, ids(c.Lines()))
}

func TestCart_AddRejectsBadQuantity(t *testing.T) {
	var c Cart
	_, err := c.Add(product("p1", "Mug", "10"), 0)
	assert.True(t, errors.Is(err, ErrInvalidInput))
	assert.Equal(t, 0, c.Len())
}

func TestCart_AddDuplicateIsConflict(t *testing.T) {
	var c Cart
	_, err := c.Add(product("p1", "Mug", "10"), 3)
	require.NoError(t, err)

	_, err = c.Add(product("p1", "Mug", "10"), 1)
	require.Error(t, err)
	assert.Equal(t, CodeConflict, CodeOf(err))

	details, ok := AsError(err).Details.(DuplicateCartLine)
	require.True(t, ok)
	assert.Equal(t, 3, details.CurrentQuantity)
	assert.Equal(t, "Mug", details.ProductName)
	assert.Equal(t, 3, details.CartCount)
	assert.True(t, decimal.RequireFromString("30").Equal(details.CartValue))
	require.Len(t, details.CartItems, 1)
	assert.Equal(t, "p1", details.CartItems[0].ProductID)

	line, _ := c.Line("p1")
	assert.Equal(t, 3, line.Quantity)
	assert.Equal(t, 1, c.Len())
}

func TestCart_QuantityStateMachine(t *testing.T) {
	var c Cart
	_, err := c.Add(product("p1", "Mug", "4.25"), 1)
	require.NoError(t, err)

	line, err := c.Adjust("p1", Increase)
	require.NoError(t, err)
	assert.Equal(t, 2, line.Quantity)
	assert.True(t, decimal.RequireFromString("8.5").Equal(line.Total()))

	line, err = c.Adjust("p1", Decrease)
	require.NoError(t, err)
	assert.Equal(t, 1, line.Quantity)

	_, err = c.Adjust("p1", Decrease)
	assert.True(t, errors.Is(err, ErrInvalidInput))
	line, ok := c.Line("p1")
	require.True(t, ok)
	assert.Equal(t, 1, line.Quantity)
	assert.Equal(t, 1, c.Count())

	_, err = c.Adjust("p1", Direction("sideways"))
	assert.True(t, errors.Is(err, ErrInvalidInput))

	_, err = c.Adjust("missing", Increase)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestCart_RemoveAndClear(t *testing.T) {
	var c Cart
	for _, p := range []Product{product("a", "A", "1"), product("b", "B", "2"), product("c", "C", "3")} {
		_, err := c.Add(p, 1)
		require.NoError(t, err)
	}

	removed, err := c.Remove("b")
	require.NoError(t, err)
	assert.Equal(t, "B", removed.ProductName)
	assert.Equal(t, []string{"a", "c"}, ids(c.Lines()))
	assert.True(t, decimal.NewFromInt(4).Equal(c.Value()))

	// index must follow the shifted slice
	line, ok := c.Line("c")
	require.True(t, ok)
	assert.Equal(t, "C", line.ProductName)

	_, err = c.Remove("b")
	assert.True(t, errors.Is(err, ErrNotFound))

	c.Clear()
	c.Clear()
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, 0, c.Count())
	assert.True(t, c.Value().IsZero())
}

func TestCart_AggregatesMatchLines(t *testing.T) {
	var c Cart
	prices := []string{"0.10", "0.20", "19.99", "5"}
	for i, p := range prices {
		_, err := c.Add(product(string(rune('a'+i)), "x", p), i+1)
		require.NoError(t, err)
	}
	_, _ = c.Adjust("b", Increase)
	_, _ = c.Adjust("d", Decrease)
	_, _ = c.Remove("c")

	count := 0
	value := decimal.Zero
	for _, l := range c.Lines() {
		count += l.Quantity
		value = value.Add(l.Total())
	}
	assert.Equal(t, count, c.Count())
	assert.True(t, value.Equal(c.Value()), "value %s != %s", value, c.Value())
}

func TestCart_CloneIsIndependent(t *testing.T) {
	var c Cart
	_, _ = c.Add(product("p1", "Mug", "10"), 1)

	cp := c.Clone()
	_, _ = cp.Adjust("p1", Increase)
	_, _ = cp.Add(product("p2", "Pen", "1"), 1)

	line, _ := c.Line("p1")
	assert.Equal(t, 1, line.Quantity)
	assert.Equal(t, 1, c.Len())
}

func ids(lines []CartLine) []string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		out = append(out, l.ProductID)
	}
	return out
}
