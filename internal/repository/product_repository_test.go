package repository_test

import (
	"context"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"golang.org/x/text/currency"

	"github.com/andrepsousa/AdegaDigital/internal/domain"
	"github.com/andrepsousa/AdegaDigital/internal/port"
	"github.com/andrepsousa/AdegaDigital/internal/repository"
)

type productRepositorySuite struct {
	suite.Suite

	store port.Store
	pool  *pgxpool.Pool
}

// entry point to run the tests in the suite
func TestProductRepositorySuite(t *testing.T) {
	suite.Run(t, new(productRepositorySuite))
}

// before all tests in the suite
func (suite *productRepositorySuite) SetupSuite() {
	ctx := suite.T().Context()

	connStr, err := startPostgres(ctx)
	suite.NoError(err)

	suite.pool, err = pgxpool.New(ctx, connStr)
	suite.NoError(err)

	suite.store = repository.NewStore(suite.pool)
}

// after all tests in the suite
func (suite *productRepositorySuite) TearDownSuite() {
	if suite.pool != nil {
		suite.pool.Close()
	}
}

func (suite *productRepositorySuite) TestGetProduct() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()

	tracked := randomProduct(stockOf(7))
	tracked.ID = insertProduct(ctx, t, suite.pool, tracked)

	untracked := randomProduct(nil)
	untracked.Image = nil
	untracked.ID = insertProduct(ctx, t, suite.pool, untracked)

	tests := []struct {
		name      string
		id        int64
		want      domain.Product
		wantError error
	}{
		{
			name: "tracked stock: ok",
			id:   tracked.ID,
			want: tracked,
		},
		{
			name: "untracked stock and no image: ok",
			id:   untracked.ID,
			want: untracked,
		},
		{
			name:      "missing product: not found",
			id:        tracked.ID + untracked.ID + 1,
			wantError: domain.ErrProductNotFound,
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			t := suite.T()

			got, err := suite.store.Products().GetProduct(t.Context(), tt.id)
			if tt.wantError != nil {
				require.ErrorIs(t, err, tt.wantError)
				return
			}
			require.NoError(t, err)
			assertProduct(t, tt.want, got)
		})
	}
}

func (suite *productRepositorySuite) TestGetProductForUpdate() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()

	product := randomProduct(stockOf(3))
	product.ID = insertProduct(ctx, t, suite.pool, product)

	err := suite.store.WithinTx(ctx, func(s port.Store) error {
		got, err := s.Products().GetProductForUpdate(ctx, product.ID)
		require.NoError(t, err)
		assertProduct(t, product, got)
		return nil
	})
	require.NoError(t, err)

	_, err = suite.store.Products().GetProductForUpdate(ctx, product.ID+1)
	require.ErrorIs(t, err, domain.ErrProductNotFound)
}

func (suite *productRepositorySuite) TestDebitStock() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()

	tracked := randomProduct(stockOf(5))
	tracked.ID = insertProduct(ctx, t, suite.pool, tracked)

	untracked := randomProduct(nil)
	untracked.ID = insertProduct(ctx, t, suite.pool, untracked)

	repo := suite.store.Products()

	err := repo.DebitStock(ctx, tracked.ID, 3)
	require.NoError(t, err)

	got, err := repo.GetProduct(ctx, tracked.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Stock)
	assert.Equal(t, int32(2), *got.Stock)

	// the stock check constraint rejects a debit below zero
	err = repo.DebitStock(ctx, tracked.ID, 3)
	require.Error(t, err)

	// untracked products have nothing to debit
	err = repo.DebitStock(ctx, untracked.ID, 1)
	require.ErrorIs(t, err, domain.ErrProductNotFound)

	err = repo.DebitStock(ctx, tracked.ID+untracked.ID+1, 1)
	require.ErrorIs(t, err, domain.ErrProductNotFound)
}

func (suite *productRepositorySuite) deleteAll() {
	_, err := suite.pool.Exec(suite.T().Context(), "TRUNCATE TABLE order_items, orders, products CASCADE")
	suite.NoError(err)
}

func stockOf(n int32) *int32 { return &n }

func randomProduct(stock *int32) domain.Product {
	image := "/static/uploads/" + gofakeit.UUID() + ".jpg"

	return domain.Product{
		Name:        gofakeit.ProductName(),
		Description: gofakeit.Sentence(6),
		Price: domain.Money{
			Amount:   decimal.NewFromFloat(gofakeit.Price(10, 200)).Round(2),
			Currency: currency.BRL,
		},
		Stock: stock,
		Image: &image,
	}
}

func insertProduct(ctx context.Context, t *testing.T, pool *pgxpool.Pool, p domain.Product) int64 {
	t.Helper()

	var id int64
	err := pool.QueryRow(ctx, `
		INSERT INTO products (name, description, price_amount, price_currency, stock, image)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		p.Name, p.Description, p.Price.Amount, p.Price.Currency.String(), p.Stock, p.Image,
	).Scan(&id)
	require.NoError(t, err)

	return id
}

func assertProduct(t *testing.T, expected, actual domain.Product) {
	t.Helper()

	opts := cmp.Options{
		cmpopts.IgnoreFields(domain.Product{}, "CreatedAt"),
		currencyComparer,
		decimalComparer,
	}

	diff := cmp.Diff(expected, actual, opts)
	assert.Empty(t, diff)

	assert.False(t, actual.CreatedAt.IsZero())
}

var currencyComparer = cmp.Comparer(func(x, y currency.Unit) bool {
	return x.String() == y.String()
})

var decimalComparer = cmp.Comparer(func(x, y decimal.Decimal) bool {
	return x.Equal(y)
})
