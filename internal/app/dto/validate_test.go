package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrops-br/coder-ecommerce-api/internal/domain"
)

func intPtr(v int) *int { return &v }

func TestValidate(t *testing.T) {
	t.Run("ValidProduct", func(t *testing.T) {
		req := &CreateProductRequest{
			Title: "X", Description: "desc number ten+", Code: "C1",
			Price: 10, Stock: intPtr(5), Category: "Accesorios",
		}
		assert.NoError(t, Validate(req))
	})

	t.Run("ItemizedMessagesUseJSONNames", func(t *testing.T) {
		err := Validate(&CreateProductRequest{Description: "short", Category: "Food"})
		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.ElementsMatch(t, []string{
			"title is required",
			"description must be at least 10 characters",
			"code is required",
			"price is required",
			"stock is required",
			"category must be one of: Smartphones, Computadoras, Tablets, Accesorios, Audio, Gaming, Televisores, Otros",
		}, verr.Errors)
	})

	t.Run("PartialUpdateSkipsAbsentFields", func(t *testing.T) {
		assert.NoError(t, Validate(&UpdateProductRequest{}))

		neg := -1
		err := Validate(&UpdateProductRequest{Stock: &neg})
		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, []string{"stock must be greater than or equal to 0"}, verr.Errors)
	})

	t.Run("NestedCartItems", func(t *testing.T) {
		err := Validate(&ReplaceItemsRequest{Products: []LineItemRequest{
			{Product: "1", Quantity: 2},
			{Product: "2", Quantity: 0},
		}})
		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, []string{"products[1].quantity must be greater than or equal to 1"}, verr.Errors)
	})

	t.Run("MissingItemList", func(t *testing.T) {
		err := Validate(&ReplaceItemsRequest{})
		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, []string{"products is required"}, verr.Errors)
	})

	t.Run("Email", func(t *testing.T) {
		err := Validate(&CreateUserRequest{FirstName: "a", LastName: "b", Email: "nope"})
		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, []string{"email must be a valid address"}, verr.Errors)
	})
}

func TestAddItemRequestQty(t *testing.T) {
	var nilReq *AddItemRequest
	assert.Equal(t, 1, nilReq.Qty())
	assert.Equal(t, 1, (&AddItemRequest{}).Qty())
	assert.Equal(t, 4, (&AddItemRequest{Quantity: intPtr(4)}).Qty())
}

func TestToCartResponseMarksStaleItems(t *testing.T) {
	cart := &domain.Cart{ID: "1", Items: []domain.LineItem{
		{ProductID: "1", Quantity: 2},
		{ProductID: "9", Quantity: 1},
	}}
	products := map[string]*domain.Product{"1": {ID: "1", Title: "Phone"}}

	resp := ToCartResponse(cart, products)
	require.Len(t, resp.Products, 2)
	assert.Equal(t, "Phone", resp.Products[0].Product.Title)
	assert.False(t, resp.Products[0].Stale)
	assert.Nil(t, resp.Products[1].Product)
	assert.True(t, resp.Products[1].Stale)
}
