package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func items(pairs ...any) []LineItem {
	out := make([]LineItem, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		out = append(out, LineItem{ProductID: pairs[i].(string), Quantity: pairs[i+1].(int)})
	}
	return out
}

func TestConsolidate(t *testing.T) {
	t.Run("MergesDuplicatesInFirstSeenOrder", func(t *testing.T) {
		got := Consolidate(items("b", 1, "a", 2, "b", 3, "c", 1, "a", 1))
		assert.Equal(t, items("b", 4, "a", 3, "c", 1), got)
	})

	t.Run("Empty", func(t *testing.T) {
		assert.Empty(t, Consolidate(nil))
		assert.NotNil(t, Consolidate(nil))
	})

	t.Run("Idempotent", func(t *testing.T) {
		once := Consolidate(items("x", 2, "y", 1, "x", 5))
		assert.Equal(t, once, Consolidate(once))
	})

	t.Run("PreservesQuantityPerProduct", func(t *testing.T) {
		in := items("p1", 3, "p2", 7, "p1", 2, "p3", 1, "p2", 1)
		want := map[string]int{}
		for _, it := range in {
			want[it.ProductID] += it.Quantity
		}

		got := map[string]int{}
		for _, it := range Consolidate(in) {
			_, seen := got[it.ProductID]
			require.False(t, seen, "product %s appears twice", it.ProductID)
			got[it.ProductID] = it.Quantity
		}
		assert.Equal(t, want, got)
	})

	t.Run("DoesNotAliasInput", func(t *testing.T) {
		in := items("a", 1, "a", 1)
		_ = Consolidate(in)
		assert.Equal(t, items("a", 1, "a", 1), in)
	})
}

func TestCart(t *testing.T) {
	t.Run("NewCartIsEmpty", func(t *testing.T) {
		c := NewCart()
		assert.Empty(t, c.Items)
		assert.False(t, c.CreatedAt.IsZero())
	})

	t.Run("AddItemThenConsolidate", func(t *testing.T) {
		c := NewCart()
		require.NoError(t, c.AddItem("p", 3))
		require.NoError(t, c.AddItem("p", 2))
		assert.Equal(t, items("p", 5), Consolidate(c.Items))
	})

	t.Run("AddItemRejectsZeroQuantity", func(t *testing.T) {
		c := NewCart()
		err := c.AddItem("p", 0)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Empty(t, c.Items)
	})

	t.Run("SetItemQuantity", func(t *testing.T) {
		c := &Cart{Items: items("a", 1, "b", 2)}
		require.NoError(t, c.SetItemQuantity("b", 9))
		assert.Equal(t, items("a", 1, "b", 9), c.Items)

		assert.ErrorIs(t, c.SetItemQuantity("zzz", 1), ErrCartItemNotFound)
		assert.ErrorIs(t, c.SetItemQuantity("zzz", 1), ErrNotFound)

		var verr *ValidationError
		require.ErrorAs(t, c.SetItemQuantity("a", 0), &verr)
		assert.Equal(t, 1, c.Quantity("a"))
	})

	t.Run("RemoveItem", func(t *testing.T) {
		c := &Cart{Items: items("a", 1, "b", 2)}
		require.NoError(t, c.RemoveItem("a"))
		assert.Equal(t, items("b", 2), c.Items)
		assert.ErrorIs(t, c.RemoveItem("a"), ErrCartItemNotFound)
	})

	t.Run("ReplaceItemsIsAllOrNothing", func(t *testing.T) {
		c := &Cart{Items: items("a", 1)}
		err := c.ReplaceItems(items("b", 1, "c", 0))
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, items("a", 1), c.Items)

		require.NoError(t, c.ReplaceItems(items("b", 1, "b", 4)))
		assert.Equal(t, items("b", 5), Consolidate(c.Items))
	})

	t.Run("ReplaceItemsRejectsMissingProduct", func(t *testing.T) {
		c := NewCart()
		err := c.ReplaceItems([]LineItem{{Quantity: 1}})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Errors, "each item must reference a product")
	})

	t.Run("Clear", func(t *testing.T) {
		c := &Cart{Items: items("a", 1)}
		c.Clear()
		assert.Empty(t, c.Items)
		assert.False(t, c.Contains("a"))
	})
}
