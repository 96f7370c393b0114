package service

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"github.com/mrops-br/coder-ecommerce-api/internal/app/dto"
	"github.com/mrops-br/coder-ecommerce-api/internal/domain"
	"github.com/mrops-br/coder-ecommerce-api/internal/domain/query"
	"github.com/mrops-br/coder-ecommerce-api/internal/infrastructure/repository/filestore"
)

var (
	tracer = tracenoop.NewTracerProvider().Tracer("service-test")
	meter  = metricnoop.NewMeterProvider().Meter("service-test")
	logger = slog.New(slog.NewTextHandler(io.Discard, nil))
)

type publisherMock struct {
	mock.Mock
}

func (m *publisherMock) PublishProductEvent(ctx context.Context, evt domain.ProductEvent) error {
	return m.Called(ctx, evt.Type, evt.Product.ID).Error(0)
}

func openStore(t *testing.T) *filestore.Store {
	t.Helper()
	store, err := filestore.Open(t.TempDir(), tracer, logger)
	require.NoError(t, err)
	return store
}

func intPtr(v int) *int { return &v }

func productRequest(code string, price float64, stock int) *dto.CreateProductRequest {
	return &dto.CreateProductRequest{
		Title:       "X",
		Description: "desc number ten+",
		Code:        code,
		Price:       price,
		Stock:       intPtr(stock),
		Category:    "Accesorios",
	}
}

func TestProductService(t *testing.T) {
	ctx := context.Background()

	t.Run("CreateDuplicateAndDeletePublishEvents", func(t *testing.T) {
		store := openStore(t)
		events := &publisherMock{}
		events.On("PublishProductEvent", mock.Anything, domain.ProductCreated, "1").Return(nil).Once()
		events.On("PublishProductEvent", mock.Anything, domain.ProductDeleted, "1").Return(nil).Once()
		svc := NewProductService(store.Products, events, tracer, meter, logger)

		created, err := svc.CreateProduct(ctx, productRequest("c1", 10, 5))
		require.NoError(t, err)
		assert.Equal(t, "1", created.ID)
		assert.Equal(t, "C1", created.Code)
		assert.True(t, created.Status)
		assert.Empty(t, created.Thumbnails)

		_, err = svc.CreateProduct(ctx, productRequest("C1", 10, 5))
		var dup *domain.DuplicateKeyError
		require.ErrorAs(t, err, &dup)

		_, err = svc.DeleteProduct(ctx, "1")
		require.NoError(t, err)
		_, err = svc.GetProductByID(ctx, "1")
		assert.ErrorIs(t, err, domain.ErrNotFound)

		events.AssertExpectations(t)
	})

	t.Run("PublishFailureDoesNotFailCreate", func(t *testing.T) {
		store := openStore(t)
		events := &publisherMock{}
		events.On("PublishProductEvent", mock.Anything, domain.ProductCreated, "1").Return(assert.AnError)
		svc := NewProductService(store.Products, events, tracer, meter, logger)

		_, err := svc.CreateProduct(ctx, productRequest("C1", 10, 5))
		assert.NoError(t, err)
	})

	t.Run("ValidationIsItemized", func(t *testing.T) {
		svc := NewProductService(openStore(t).Products, nil, tracer, meter, logger)
		_, err := svc.CreateProduct(ctx, &dto.CreateProductRequest{Title: "X"})
		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Greater(t, len(verr.Errors), 1)
	})

	t.Run("PartialUpdateKeepsOtherFields", func(t *testing.T) {
		svc := NewProductService(openStore(t).Products, nil, tracer, meter, logger)
		_, err := svc.CreateProduct(ctx, productRequest("C1", 10, 5))
		require.NoError(t, err)

		price := 25.0
		updated, err := svc.UpdateProduct(ctx, "1", &dto.UpdateProductRequest{Price: &price})
		require.NoError(t, err)
		assert.Equal(t, 25.0, updated.Price)
		assert.Equal(t, "C1", updated.Code)
		assert.Equal(t, 5, updated.Stock)

		_, err = svc.UpdateProduct(ctx, "9", &dto.UpdateProductRequest{Price: &price})
		assert.ErrorIs(t, err, domain.ErrProductNotFound)
	})

	t.Run("ListFiltersSortsAndPaginates", func(t *testing.T) {
		svc := NewProductService(openStore(t).Products, nil, tracer, meter, logger)
		for i, price := range []float64{30, 80, 50, 5, 45} {
			_, err := svc.CreateProduct(ctx, productRequest(string(rune('A'+i)), price, 1))
			require.NoError(t, err)
		}

		res, err := svc.ListProducts(ctx, query.Params{Page: 1, Limit: 2, Sort: "desc", Query: "price:50"})
		require.NoError(t, err)
		require.Len(t, res.Items, 2)
		assert.Equal(t, 50.0, res.Items[0].Price)
		assert.Equal(t, 45.0, res.Items[1].Price)
		assert.Equal(t, int64(4), res.Page.TotalDocs)
		assert.Equal(t, 2, res.Page.TotalPages)
		assert.True(t, res.Page.HasNextPage)
		assert.False(t, res.Page.HasPrevPage)

		_, err = svc.ListProducts(ctx, query.Params{Page: 1, Limit: 2, Query: "color:red"})
		var qerr *query.Error
		assert.ErrorAs(t, err, &qerr)
	})
}

func TestCartService(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T, checkStock bool) (*CartService, *ProductService) {
		t.Helper()
		store := openStore(t)
		products := NewProductService(store.Products, nil, tracer, meter, logger)
		_, err := products.CreateProduct(ctx, productRequest("P1", 10, 5))
		require.NoError(t, err)
		_, err = products.CreateProduct(ctx, productRequest("P2", 20, 1))
		require.NoError(t, err)
		return NewCartService(store.Carts, store.Products, checkStock, tracer, meter, logger), products
	}

	t.Run("AddingSameProductMergesQuantities", func(t *testing.T) {
		carts, _ := setup(t, true)
		cart, err := carts.CreateCart(ctx)
		require.NoError(t, err)
		assert.Empty(t, cart.Products)

		_, err = carts.AddItem(ctx, cart.ID, "1", &dto.AddItemRequest{Quantity: intPtr(3)})
		require.NoError(t, err)
		got, err := carts.AddItem(ctx, cart.ID, "1", &dto.AddItemRequest{Quantity: intPtr(2)})
		require.NoError(t, err)

		require.Len(t, got.Products, 1)
		assert.Equal(t, "1", got.Products[0].ProductID)
		assert.Equal(t, 5, got.Products[0].Quantity)
		assert.Equal(t, "P1", got.Products[0].Product.Code)
	})

	t.Run("DefaultQuantityIsOne", func(t *testing.T) {
		carts, _ := setup(t, false)
		cart, err := carts.CreateCart(ctx)
		require.NoError(t, err)
		got, err := carts.AddItem(ctx, cart.ID, "2", nil)
		require.NoError(t, err)
		assert.Equal(t, 1, got.Products[0].Quantity)
	})

	t.Run("MissingCartOrProduct", func(t *testing.T) {
		carts, _ := setup(t, false)
		cart, err := carts.CreateCart(ctx)
		require.NoError(t, err)

		_, err = carts.AddItem(ctx, "99", "1", nil)
		assert.ErrorIs(t, err, domain.ErrCartNotFound)
		_, err = carts.AddItem(ctx, cart.ID, "99", nil)
		assert.ErrorIs(t, err, domain.ErrProductNotFound)
	})

	t.Run("StockPolicy", func(t *testing.T) {
		strict, _ := setup(t, true)
		cart, err := strict.CreateCart(ctx)
		require.NoError(t, err)
		_, err = strict.AddItem(ctx, cart.ID, "2", &dto.AddItemRequest{Quantity: intPtr(2)})
		var stockErr *domain.InsufficientStockError
		require.ErrorAs(t, err, &stockErr)
		assert.Equal(t, 1, stockErr.Available)

		stored, err := strict.GetCart(ctx, cart.ID)
		require.NoError(t, err)
		assert.Empty(t, stored.Products)

		_, err = strict.AddItem(ctx, cart.ID, "1", &dto.AddItemRequest{Quantity: intPtr(3)})
		require.NoError(t, err)
		_, err = strict.AddItem(ctx, cart.ID, "1", &dto.AddItemRequest{Quantity: intPtr(3)})
		require.ErrorAs(t, err, &stockErr)
		assert.Equal(t, 5, stockErr.Available)

		stored, err = strict.GetCart(ctx, cart.ID)
		require.NoError(t, err)
		require.Len(t, stored.Products, 1)
		assert.Equal(t, 3, stored.Products[0].Quantity)

		lenient, _ := setup(t, false)
		cart, err = lenient.CreateCart(ctx)
		require.NoError(t, err)
		_, err = lenient.AddItem(ctx, cart.ID, "2", &dto.AddItemRequest{Quantity: intPtr(2)})
		assert.NoError(t, err)
	})

	t.Run("SetQuantityAndRemove", func(t *testing.T) {
		carts, _ := setup(t, true)
		cart, err := carts.CreateCart(ctx)
		require.NoError(t, err)
		_, err = carts.AddItem(ctx, cart.ID, "1", nil)
		require.NoError(t, err)

		got, err := carts.SetItemQuantity(ctx, cart.ID, "1", &dto.SetQuantityRequest{Quantity: intPtr(4)})
		require.NoError(t, err)
		assert.Equal(t, 4, got.Products[0].Quantity)

		_, err = carts.SetItemQuantity(ctx, cart.ID, "1", &dto.SetQuantityRequest{Quantity: intPtr(0)})
		var verr *domain.ValidationError
		assert.ErrorAs(t, err, &verr)

		_, err = carts.SetItemQuantity(ctx, cart.ID, "2", &dto.SetQuantityRequest{Quantity: intPtr(1)})
		assert.ErrorIs(t, err, domain.ErrCartItemNotFound)

		_, err = carts.SetItemQuantity(ctx, cart.ID, "1", &dto.SetQuantityRequest{Quantity: intPtr(6)})
		var stockErr *domain.InsufficientStockError
		assert.ErrorAs(t, err, &stockErr)

		got, err = carts.RemoveItem(ctx, cart.ID, "1")
		require.NoError(t, err)
		assert.Empty(t, got.Products)

		_, err = carts.RemoveItem(ctx, cart.ID, "1")
		assert.ErrorIs(t, err, domain.ErrCartItemNotFound)
	})

	t.Run("ReplaceItemsConsolidatesAndValidates", func(t *testing.T) {
		carts, _ := setup(t, false)
		cart, err := carts.CreateCart(ctx)
		require.NoError(t, err)
		_, err = carts.AddItem(ctx, cart.ID, "2", nil)
		require.NoError(t, err)

		_, err = carts.ReplaceItems(ctx, cart.ID, &dto.ReplaceItemsRequest{Products: []dto.LineItemRequest{
			{Product: "1", Quantity: 1},
			{Product: "77", Quantity: 1},
		}})
		assert.ErrorIs(t, err, domain.ErrProductNotFound)

		unchanged, err := carts.GetCart(ctx, cart.ID)
		require.NoError(t, err)
		require.Len(t, unchanged.Products, 1)
		assert.Equal(t, "2", unchanged.Products[0].ProductID)

		got, err := carts.ReplaceItems(ctx, cart.ID, &dto.ReplaceItemsRequest{Products: []dto.LineItemRequest{
			{Product: "1", Quantity: 1},
			{Product: "2", Quantity: 2},
			{Product: "1", Quantity: 3},
		}})
		require.NoError(t, err)
		require.Len(t, got.Products, 2)
		assert.Equal(t, "1", got.Products[0].ProductID)
		assert.Equal(t, 4, got.Products[0].Quantity)
		assert.Equal(t, 2, got.Products[1].Quantity)
	})

	t.Run("ClearAndStaleReferences", func(t *testing.T) {
		carts, products := setup(t, false)
		cart, err := carts.CreateCart(ctx)
		require.NoError(t, err)
		_, err = carts.AddItem(ctx, cart.ID, "1", nil)
		require.NoError(t, err)
		_, err = carts.AddItem(ctx, cart.ID, "2", nil)
		require.NoError(t, err)

		_, err = products.DeleteProduct(ctx, "1")
		require.NoError(t, err)

		got, err := carts.GetCart(ctx, cart.ID)
		require.NoError(t, err)
		require.Len(t, got.Products, 2)
		assert.True(t, got.Products[0].Stale)
		assert.Nil(t, got.Products[0].Product)
		assert.False(t, got.Products[1].Stale)

		all, err := carts.ListCarts(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 1)

		cleared, err := carts.ClearCart(ctx, cart.ID)
		require.NoError(t, err)
		assert.Empty(t, cleared.Products)
	})
}

func TestStudentAndUserServices(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)

	t.Run("StudentsListWithAliases", func(t *testing.T) {
		svc := NewStudentService(store.Students, tracer, meter, logger)
		for i, s := range []struct {
			name, course string
			age          int
		}{{"Ana", "medio", 20}, {"Luis", "inicial", 30}, {"Marta", "MEDIO", 40}} {
			_, err := svc.CreateStudent(ctx, &dto.CreateStudentRequest{
				FirstName: s.name, LastName: "Test", Age: s.age, Course: s.course,
				Email: string(rune('a'+i)) + "@coder.com",
			})
			require.NoError(t, err)
		}

		res, err := svc.ListStudents(ctx, query.Params{Page: 1, Limit: 10, Sort: "desc", Query: "curso:medio"})
		require.NoError(t, err)
		require.Len(t, res.Items, 2)
		assert.Equal(t, "Marta", res.Items[0].FirstName)

		got, err := svc.GetStudentByID(ctx, res.Items[0].ID)
		require.NoError(t, err)
		assert.Equal(t, "medio", got.Course)

		_, err = svc.CreateStudent(ctx, &dto.CreateStudentRequest{
			FirstName: "Dup", LastName: "Test", Age: 20, Course: "medio", Email: "A@coder.com",
		})
		var dup *domain.DuplicateKeyError
		assert.ErrorAs(t, err, &dup)
	})

	t.Run("UserCRUD", func(t *testing.T) {
		svc := NewUserService(store.Users, tracer, meter, logger)
		created, err := svc.CreateUser(ctx, &dto.CreateUserRequest{FirstName: "Ana", LastName: "García", Email: "ana@coder.com"})
		require.NoError(t, err)

		name := "Anabel"
		updated, err := svc.UpdateUser(ctx, created.ID, &dto.UpdateUserRequest{FirstName: &name})
		require.NoError(t, err)
		assert.Equal(t, "Anabel", updated.FirstName)
		assert.Equal(t, "ana@coder.com", updated.Email)

		res, err := svc.ListUsers(ctx, query.Params{Page: 1, Limit: 10, Query: "email:ANA@"})
		require.NoError(t, err)
		assert.Len(t, res.Items, 1)

		_, err = svc.DeleteUser(ctx, created.ID)
		require.NoError(t, err)
		_, err = svc.GetUserByID(ctx, created.ID)
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})
}
