package filestore

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/mrops-br/coder-ecommerce-api/internal/domain"
	"github.com/mrops-br/coder-ecommerce-api/internal/domain/query"
)

var (
	testTracer = noop.NewTracerProvider().Tracer("filestore-test")
	testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))
)

func newProduct(t *testing.T, code string, price float64) *domain.Product {
	t.Helper()
	p, err := domain.NewProduct(domain.ProductAttrs{
		Title:       "Product " + code,
		Description: "a description long enough",
		Code:        code,
		Price:       price,
		Stock:       5,
		Category:    "Accesorios",
	})
	require.NoError(t, err)
	return p
}

func TestProductRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("AssignsSequentialIDs", func(t *testing.T) {
		repo, err := NewProductRepository(filepath.Join(t.TempDir(), productsFile), testTracer, testLogger)
		require.NoError(t, err)

		first := newProduct(t, "C1", 10)
		second := newProduct(t, "C2", 20)
		require.NoError(t, repo.Create(ctx, first))
		require.NoError(t, repo.Create(ctx, second))

		assert.Equal(t, "1", first.ID)
		assert.Equal(t, "2", second.ID)
	})

	t.Run("RejectsDuplicateCodeCaseInsensitively", func(t *testing.T) {
		repo, err := NewProductRepository(filepath.Join(t.TempDir(), productsFile), testTracer, testLogger)
		require.NoError(t, err)

		require.NoError(t, repo.Create(ctx, newProduct(t, "C1", 10)))

		dup := newProduct(t, "C1", 10)
		dup.Code = "c1"
		err = repo.Create(ctx, dup)
		var dupErr *domain.DuplicateKeyError
		require.ErrorAs(t, err, &dupErr)
		assert.Equal(t, "code", dupErr.Field)

		// a rejected insert does not consume an id
		next := newProduct(t, "C2", 10)
		require.NoError(t, repo.Create(ctx, next))
		assert.Equal(t, "2", next.ID)
	})

	t.Run("SequenceResumesAfterRestart", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), productsFile)
		repo, err := NewProductRepository(path, testTracer, testLogger)
		require.NoError(t, err)
		for _, code := range []string{"A", "B", "C"} {
			require.NoError(t, repo.Create(ctx, newProduct(t, code, 10)))
		}
		_, err = repo.Delete(ctx, "2")
		require.NoError(t, err)

		reopened, err := NewProductRepository(path, testTracer, testLogger)
		require.NoError(t, err)
		p := newProduct(t, "D", 10)
		require.NoError(t, reopened.Create(ctx, p))
		assert.Equal(t, "4", p.ID)
	})

	t.Run("SequenceStartsAfterSeededFile", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), productsFile)
		require.NoError(t, os.WriteFile(path, []byte(`[{"id":"7","code":"X"},{"id":"3","code":"Y"}]`), 0o644))

		repo, err := NewProductRepository(path, testTracer, testLogger)
		require.NoError(t, err)
		p := newProduct(t, "Z", 10)
		require.NoError(t, repo.Create(ctx, p))
		assert.Equal(t, "8", p.ID)
	})

	t.Run("UpdateAndDelete", func(t *testing.T) {
		repo, err := NewProductRepository(filepath.Join(t.TempDir(), productsFile), testTracer, testLogger)
		require.NoError(t, err)
		a := newProduct(t, "A", 10)
		b := newProduct(t, "B", 10)
		require.NoError(t, repo.Create(ctx, a))
		require.NoError(t, repo.Create(ctx, b))

		b.Code = "A"
		var dupErr *domain.DuplicateKeyError
		require.ErrorAs(t, repo.Update(ctx, b), &dupErr)

		a.Price = 99
		require.NoError(t, repo.Update(ctx, a))
		got, err := repo.FindByID(ctx, a.ID)
		require.NoError(t, err)
		assert.Equal(t, 99.0, got.Price)

		deleted, err := repo.Delete(ctx, a.ID)
		require.NoError(t, err)
		assert.Equal(t, "A", deleted.Code)

		_, err = repo.FindByID(ctx, a.ID)
		assert.ErrorIs(t, err, domain.ErrProductNotFound)
		_, err = repo.Delete(ctx, a.ID)
		assert.ErrorIs(t, err, domain.ErrNotFound)

		ghost := &domain.Product{ID: "42"}
		assert.ErrorIs(t, repo.Update(ctx, ghost), domain.ErrProductNotFound)
	})

	t.Run("List", func(t *testing.T) {
		repo, err := NewProductRepository(filepath.Join(t.TempDir(), productsFile), testTracer, testLogger)
		require.NoError(t, err)
		for i, price := range []float64{30, 80, 50, 5} {
			require.NoError(t, repo.Create(ctx, newProduct(t, string(rune('A'+i)), price)))
		}

		plan, err := query.Compile(query.Params{Page: 1, Limit: 2, Sort: "desc", Query: "price:50"}, domain.ProductQuery)
		require.NoError(t, err)

		page, total, err := repo.List(ctx, plan)
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		require.Len(t, page, 2)
		assert.Equal(t, 50.0, page[0].Price)
		assert.Equal(t, 30.0, page[1].Price)
	})
}

func TestCartRepository(t *testing.T) {
	ctx := context.Background()
	repo, err := NewCartRepository(filepath.Join(t.TempDir(), cartsFile), testTracer, testLogger)
	require.NoError(t, err)

	cart := domain.NewCart()
	require.NoError(t, repo.Create(ctx, cart))
	assert.Equal(t, "1", cart.ID)

	cart.Items = []domain.LineItem{{ProductID: "3", Quantity: 2}}
	require.NoError(t, repo.Save(ctx, cart))

	got, err := repo.FindByID(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, cart.Items, got.Items)

	_, err = repo.FindByID(ctx, "2")
	assert.ErrorIs(t, err, domain.ErrCartNotFound)
	assert.ErrorIs(t, repo.Save(ctx, &domain.Cart{ID: "9"}), domain.ErrCartNotFound)

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestStudentAndUserRepositories(t *testing.T) {
	ctx := context.Background()
	store, err := Open(t.TempDir(), testTracer, testLogger)
	require.NoError(t, err)

	t.Run("StudentEmailIsUnique", func(t *testing.T) {
		s, err := domain.NewStudent(domain.StudentAttrs{
			FirstName: "Ana", LastName: "López", Age: 20, Course: "medio", Email: "ana@coder.com",
		})
		require.NoError(t, err)
		require.NoError(t, store.Students.Create(ctx, s))

		again := *s
		again.ID = ""
		var dupErr *domain.DuplicateKeyError
		require.ErrorAs(t, store.Students.Create(ctx, &again), &dupErr)
		assert.Equal(t, "email", dupErr.Field)
	})

	t.Run("UserCRUD", func(t *testing.T) {
		u, err := domain.NewUser("Ana", "García", "ana@coder.com")
		require.NoError(t, err)
		require.NoError(t, store.Users.Create(ctx, u))

		other, err := domain.NewUser("Luis", "Pérez", "luis@coder.com")
		require.NoError(t, err)
		require.NoError(t, store.Users.Create(ctx, other))

		other.Email = "ana@coder.com"
		var dupErr *domain.DuplicateKeyError
		require.ErrorAs(t, store.Users.Update(ctx, other), &dupErr)

		plan, err := query.Compile(query.Params{Page: 1, Limit: 10, Query: "luis"}, domain.UserQuery)
		require.NoError(t, err)
		page, total, err := store.Users.List(ctx, plan)
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, "Luis", page[0].FirstName)

		_, err = store.Users.Delete(ctx, u.ID)
		require.NoError(t, err)
		_, err = store.Users.FindByID(ctx, u.ID)
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})
}
