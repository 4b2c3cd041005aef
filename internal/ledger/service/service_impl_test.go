package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/kantin/internal/activity"
	"github.com/smallbiznis/kantin/internal/barcode"
	"github.com/smallbiznis/kantin/internal/clock"
	ledgerdomain "github.com/smallbiznis/kantin/internal/ledger/domain"
	ledgerrepo "github.com/smallbiznis/kantin/internal/ledger/repository"
	productdomain "github.com/smallbiznis/kantin/internal/product/domain"
	productrepo "github.com/smallbiznis/kantin/internal/product/repository"
	productservice "github.com/smallbiznis/kantin/internal/product/service"
	"github.com/smallbiznis/kantin/internal/recordstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fixture struct {
	products productdomain.Service
	ledger   ledgerdomain.Service
	clock    *clock.FakeClock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store, err := recordstore.Open(t.TempDir(), nil, nil)
	require.NoError(t, err)

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	fake := clock.NewFakeClock(time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC))

	products := productservice.New(productservice.Params{
		Log:     zap.NewNop(),
		Repo:    productrepo.Provide(store),
		Clock:   fake,
		Barcode: barcode.NoOpGenerator{},
	})

	ledger := New(Params{
		Log:   zap.NewNop(),
		Repo:  ledgerrepo.Provide(store),
		Clock: fake,
		GenID: node,
	})

	return &fixture{products: products, ledger: ledger, clock: fake}
}

func (f *fixture) addAqua(t *testing.T) {
	t.Helper()
	_, err := f.products.Add(context.Background(), productdomain.AddRequest{
		BarcodeID: "BRK001",
		Name:      "Aqua 600ml",
		Category:  "Beverage",
		Stock:     50,
		CostPrice: 2000,
		SellPrice: 3000,
	})
	require.NoError(t, err)
}

func (f *fixture) stock(t *testing.T, barcodeID string) int {
	t.Helper()
	product, found, err := f.products.Get(context.Background(), barcodeID)
	require.NoError(t, err)
	require.True(t, found)
	return product.Stock
}

func TestSellScenario(t *testing.T) {
	f := newFixture(t)
	f.addAqua(t)

	result, err := f.ledger.Sell(context.Background(), ledgerdomain.SellRequest{
		BarcodeID: "BRK001",
		Quantity:  5,
	})
	require.NoError(t, err)

	assert.Equal(t, 45, result.RemainingStock)
	assert.Equal(t, 45, f.stock(t, "BRK001"))

	txn := result.Transaction
	assert.Equal(t, "BRK001", txn.BarcodeID)
	assert.Equal(t, "Aqua 600ml", txn.ProductName)
	assert.Equal(t, 5, txn.Quantity)
	assert.Equal(t, int64(3000), txn.UnitPrice)
	assert.Equal(t, int64(15000), txn.TotalPrice)
	assert.Equal(t, int64(5000), txn.Profit)

	transactions, err := f.ledger.List(context.Background())
	require.NoError(t, err)
	require.Len(t, transactions, 1)
	assert.Equal(t, txn, transactions[0])
}

func TestSellOnEmptyCatalog(t *testing.T) {
	f := newFixture(t)

	_, err := f.ledger.Sell(context.Background(), ledgerdomain.SellRequest{
		BarcodeID: "BRK999",
		Quantity:  1,
	})
	assert.ErrorIs(t, err, ledgerdomain.ErrProductNotFound)
}

func TestSellInsufficientStockChangesNothing(t *testing.T) {
	f := newFixture(t)
	f.addAqua(t)

	_, err := f.ledger.Sell(context.Background(), ledgerdomain.SellRequest{
		BarcodeID: "BRK001",
		Quantity:  51,
	})
	assert.ErrorIs(t, err, ledgerdomain.ErrInsufficientStock)

	assert.Equal(t, 50, f.stock(t, "BRK001"))
	transactions, err := f.ledger.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, transactions)
}

func TestSellNonPositiveQuantity(t *testing.T) {
	f := newFixture(t)
	f.addAqua(t)

	for _, quantity := range []int{0, -3} {
		_, err := f.ledger.Sell(context.Background(), ledgerdomain.SellRequest{
			BarcodeID: "BRK001",
			Quantity:  quantity,
		})
		assert.ErrorIs(t, err, ledgerdomain.ErrInsufficientStock)
	}
	assert.Equal(t, 50, f.stock(t, "BRK001"))
}

func TestSellWholeStockThenSoldOut(t *testing.T) {
	f := newFixture(t)
	f.addAqua(t)

	_, err := f.ledger.Sell(context.Background(), ledgerdomain.SellRequest{
		BarcodeID: "BRK001",
		Quantity:  50,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, f.stock(t, "BRK001"))

	_, err = f.ledger.Sell(context.Background(), ledgerdomain.SellRequest{
		BarcodeID: "BRK001",
		Quantity:  1,
	})
	assert.ErrorIs(t, err, ledgerdomain.ErrInsufficientStock)
}

func TestSellUnitPriceOverride(t *testing.T) {
	f := newFixture(t)
	f.addAqua(t)

	override := int64(2500)
	result, err := f.ledger.Sell(context.Background(), ledgerdomain.SellRequest{
		BarcodeID:         "BRK001",
		Quantity:          4,
		UnitPriceOverride: &override,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(2500), result.Transaction.UnitPrice)
	assert.Equal(t, int64(10000), result.Transaction.TotalPrice)
	assert.Equal(t, int64(2000), result.Transaction.Profit)

	bad := int64(0)
	_, err = f.ledger.Sell(context.Background(), ledgerdomain.SellRequest{
		BarcodeID:         "BRK001",
		Quantity:          1,
		UnitPriceOverride: &bad,
	})
	assert.ErrorIs(t, err, ledgerdomain.ErrInvalidUnitPrice)
}

func TestRestockThenSellRoundTrip(t *testing.T) {
	f := newFixture(t)
	f.addAqua(t)

	_, err := f.products.Restock(context.Background(), productdomain.RestockRequest{
		BarcodeID: "BRK001",
		Amount:    20,
	})
	require.NoError(t, err)
	assert.Equal(t, 70, f.stock(t, "BRK001"))

	_, err = f.ledger.Sell(context.Background(), ledgerdomain.SellRequest{
		BarcodeID: "BRK001",
		Quantity:  20,
	})
	require.NoError(t, err)
	assert.Equal(t, 50, f.stock(t, "BRK001"))
}

func TestTransactionSurvivesProductDeletion(t *testing.T) {
	f := newFixture(t)
	f.addAqua(t)

	_, err := f.ledger.Sell(context.Background(), ledgerdomain.SellRequest{
		BarcodeID: "BRK001",
		Quantity:  2,
	})
	require.NoError(t, err)

	require.NoError(t, f.products.Delete(context.Background(), "BRK001"))

	transactions, err := f.ledger.List(context.Background())
	require.NoError(t, err)
	require.Len(t, transactions, 1)
	assert.Equal(t, "Aqua 600ml", transactions[0].ProductName)
}

func TestListNewestFirst(t *testing.T) {
	f := newFixture(t)
	f.addAqua(t)

	for i := 0; i < 3; i++ {
		_, err := f.ledger.Sell(context.Background(), ledgerdomain.SellRequest{
			BarcodeID: "BRK001",
			Quantity:  1,
		})
		require.NoError(t, err)
		f.clock.Advance(time.Minute)
	}

	transactions, err := f.ledger.List(context.Background())
	require.NoError(t, err)
	require.Len(t, transactions, 3)
	assert.True(t, transactions[0].CreatedAt.After(transactions[2].CreatedAt))
}

func TestMutationsLeaveActivityTrail(t *testing.T) {
	store, err := recordstore.Open(t.TempDir(), nil, nil)
	require.NoError(t, err)
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	fake := clock.NewFakeClock(time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC))

	trail := activity.New(activity.Params{
		Log:   zap.NewNop(),
		Store: store,
		Clock: fake,
		GenID: node,
	})
	products := productservice.New(productservice.Params{
		Log:      zap.NewNop(),
		Repo:     productrepo.Provide(store),
		Clock:    fake,
		Barcode:  barcode.NoOpGenerator{},
		Activity: trail,
	})
	ledger := New(Params{
		Log:      zap.NewNop(),
		Repo:     ledgerrepo.Provide(store),
		Clock:    fake,
		GenID:    node,
		Activity: trail,
	})

	ctx := context.Background()
	_, err = products.Add(ctx, productdomain.AddRequest{
		BarcodeID: "BRK001",
		Name:      "Aqua 600ml",
		Category:  "Beverage",
		Stock:     50,
		CostPrice: 2000,
		SellPrice: 3000,
	})
	require.NoError(t, err)
	fake.Advance(time.Minute)

	_, err = ledger.Sell(ctx, ledgerdomain.SellRequest{BarcodeID: "BRK001", Quantity: 5})
	require.NoError(t, err)
	fake.Advance(time.Minute)

	_, err = products.Restock(ctx, productdomain.RestockRequest{BarcodeID: "BRK001", Amount: 10})
	require.NoError(t, err)
	fake.Advance(time.Minute)

	require.NoError(t, products.Delete(ctx, "BRK001"))

	entries, err := trail.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 4)
	assert.Equal(t, "product_deleted", entries[0].Action)
	assert.Equal(t, "product_restocked", entries[1].Action)
	assert.Equal(t, "sale_recorded", entries[2].Action)
	assert.Equal(t, "product_added", entries[3].Action)
	assert.Equal(t, "5x Aqua 600ml (BRK001)", entries[2].Details)
}
