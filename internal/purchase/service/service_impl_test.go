package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	catalogdomain "github.com/smallbiznis/kirana/internal/catalog/domain"
	"github.com/smallbiznis/kirana/internal/clock"
	partydomain "github.com/smallbiznis/kirana/internal/party/domain"
	"github.com/smallbiznis/kirana/internal/purchase/domain"
	"github.com/smallbiznis/kirana/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	svc   domain.Service
	conn  *gorm.DB
	node  *snowflake.Node
	orgID snowflake.ID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(
		&catalogdomain.Item{},
		&partydomain.Party{},
		&domain.Purchase{},
		&domain.Line{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	fc := clock.NewFakeClock(time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC))
	svc := New(ServiceParam{
		DB:    conn,
		Log:   zap.NewNop(),
		Clock: fc,
		GenID: node,
	})

	return &fixture{svc: svc, conn: conn, node: node, orgID: node.Generate()}
}

func (f *fixture) seedItem(t *testing.T, stock int) snowflake.ID {
	t.Helper()
	item := &catalogdomain.Item{
		ID:            f.node.Generate(),
		OrgID:         f.orgID,
		Name:          "Soap",
		Slug:          "soap-" + f.node.Generate().String(),
		Unit:          "pcs",
		ListPrice:     100,
		PurchasePrice: 60,
		StockQty:      stock,
	}
	require.NoError(t, f.conn.Create(item).Error)
	return item.ID
}

func (f *fixture) seedSupplier(t *testing.T) snowflake.ID {
	t.Helper()
	party := &partydomain.Party{
		ID:    f.node.Generate(),
		OrgID: f.orgID,
		Kind:  partydomain.KindSupplier,
		Name:  "Mehta Wholesale",
	}
	require.NoError(t, f.conn.Create(party).Error)
	return party.ID
}

func TestCreate_MovesStockAndBalance(t *testing.T) {
	f := newFixture(t)
	itemID := f.seedItem(t, 5)
	supplierID := f.seedSupplier(t)

	purchase, err := f.svc.Create(context.Background(), f.orgID, domain.CreateRequest{
		SupplierID: supplierID,
		BillNumber: "MW/482",
		Lines: []domain.LineRequest{
			{ItemID: itemID, Quantity: 20, UnitCost: 55},
		},
	})
	require.NoError(t, err)

	assert.InDelta(t, 1100, purchase.Total, 1e-9)
	assert.Equal(t, domain.StatusUnpaid, purchase.Status)

	var item catalogdomain.Item
	require.NoError(t, f.conn.First(&item, "id = ?", itemID).Error)
	assert.Equal(t, 25, item.StockQty)

	var supplier partydomain.Party
	require.NoError(t, f.conn.First(&supplier, "id = ?", supplierID).Error)
	assert.InDelta(t, 1100, supplier.OutstandingBalance, 1e-9)
}

func TestCreate_UpdatesPurchasePriceWhenAsked(t *testing.T) {
	f := newFixture(t)
	itemID := f.seedItem(t, 0)

	_, err := f.svc.Create(context.Background(), f.orgID, domain.CreateRequest{
		Lines:               []domain.LineRequest{{ItemID: itemID, Quantity: 10, UnitCost: 58}},
		UpdatePurchasePrice: true,
	})
	require.NoError(t, err)

	var item catalogdomain.Item
	require.NoError(t, f.conn.First(&item, "id = ?", itemID).Error)
	assert.InDelta(t, 58, item.PurchasePrice, 1e-9)
}

func TestCreate_ExplicitAmountOverridesCost(t *testing.T) {
	f := newFixture(t)
	itemID := f.seedItem(t, 0)

	purchase, err := f.svc.Create(context.Background(), f.orgID, domain.CreateRequest{
		Lines: []domain.LineRequest{{ItemID: itemID, Quantity: 10, UnitCost: 60, Amount: 550}},
	})
	require.NoError(t, err)
	assert.InDelta(t, 550, purchase.Total, 1e-9)
}

func TestCreate_UnknownSupplierRejected(t *testing.T) {
	f := newFixture(t)
	itemID := f.seedItem(t, 0)

	_, err := f.svc.Create(context.Background(), f.orgID, domain.CreateRequest{
		SupplierID: f.node.Generate(),
		Lines:      []domain.LineRequest{{ItemID: itemID, Quantity: 1, UnitCost: 10}},
	})
	assert.ErrorIs(t, err, partydomain.ErrNotFound)
}

func TestDelete_ReversesSideEffects(t *testing.T) {
	f := newFixture(t)
	itemID := f.seedItem(t, 5)
	supplierID := f.seedSupplier(t)

	purchase, err := f.svc.Create(context.Background(), f.orgID, domain.CreateRequest{
		SupplierID: supplierID,
		Lines:      []domain.LineRequest{{ItemID: itemID, Quantity: 20, UnitCost: 55}},
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(context.Background(), f.orgID, purchase.ID))

	var item catalogdomain.Item
	require.NoError(t, f.conn.First(&item, "id = ?", itemID).Error)
	assert.Equal(t, 5, item.StockQty)

	var supplier partydomain.Party
	require.NoError(t, f.conn.First(&supplier, "id = ?", supplierID).Error)
	assert.Zero(t, supplier.OutstandingBalance)

	_, err = f.svc.Get(context.Background(), f.orgID, purchase.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreate_EmptyPurchaseRejected(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Create(context.Background(), f.orgID, domain.CreateRequest{})
	assert.ErrorIs(t, err, domain.ErrEmptyPurchase)
}
