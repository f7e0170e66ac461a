package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	catalogdomain "github.com/smallbiznis/kirana/internal/catalog/domain"
	"github.com/smallbiznis/kirana/internal/clock"
	"github.com/smallbiznis/kirana/internal/config"
	"github.com/smallbiznis/kirana/internal/invoice/domain"
	partydomain "github.com/smallbiznis/kirana/internal/party/domain"
	"github.com/smallbiznis/kirana/internal/tax"
	tenantdomain "github.com/smallbiznis/kirana/internal/tenant/domain"
	tenantrepo "github.com/smallbiznis/kirana/internal/tenant/repository"
	tenantservice "github.com/smallbiznis/kirana/internal/tenant/service"
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
	clock *clock.FakeClock
	orgID snowflake.ID
}

func newFixture(t *testing.T, scheme string) *fixture {
	t.Helper()

	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(
		&tenantdomain.Tenant{},
		&catalogdomain.Item{},
		&partydomain.Party{},
		&domain.Invoice{},
		&domain.Line{},
		&domain.Sequence{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	fc := clock.NewFakeClock(time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC))
	cfg := config.Config{
		TrialPlanTier:       "basic",
		TrialDurationDays:   14,
		InvoiceNumberFormat: "INV-{YYYY}{MM}{DD}-{SEQ6}",
	}

	tenants := tenantservice.New(tenantservice.ServiceParam{
		DB:    conn,
		Log:   zap.NewNop(),
		Cfg:   cfg,
		Clock: fc,
		GenID: node,
		Repo:  tenantrepo.Provide(),
	})

	tenant, err := tenants.Create(context.Background(), tenantdomain.CreateRequest{
		Name:      "Kirana Stores",
		GSTIN:     "29ZYXWV9876K1Z2",
		StateCode: "29",
		GSTScheme: scheme,
	})
	require.NoError(t, err)

	svc := New(ServiceParam{
		DB:      conn,
		Log:     zap.NewNop(),
		Clock:   fc,
		GenID:   node,
		Cfg:     cfg,
		Tenants: tenants,
	})

	return &fixture{svc: svc, conn: conn, node: node, clock: fc, orgID: tenant.ID}
}

func (f *fixture) seedItem(t *testing.T, name string, price, rate float64, stock int) snowflake.ID {
	t.Helper()
	item := &catalogdomain.Item{
		ID:         f.node.Generate(),
		OrgID:      f.orgID,
		Name:       name,
		Slug:       name + f.node.Generate().String(),
		Unit:       "pcs",
		ListPrice:  price,
		TaxRatePct: rate,
		StockQty:   stock,
	}
	require.NoError(t, f.conn.Create(item).Error)
	return item.ID
}

func (f *fixture) seedCustomer(t *testing.T, stateCode string) snowflake.ID {
	t.Helper()
	party := &partydomain.Party{
		ID:        f.node.Generate(),
		OrgID:     f.orgID,
		Kind:      partydomain.KindCustomer,
		Name:      "Sharma Traders",
		StateCode: stateCode,
	}
	require.NoError(t, f.conn.Create(party).Error)
	return party.ID
}

func TestCreate_ComputesAndNumbers(t *testing.T) {
	f := newFixture(t, "REGULAR")
	itemID := f.seedItem(t, "Soap", 100, 18, 10)
	customerID := f.seedCustomer(t, "29")

	inv, err := f.svc.Create(context.Background(), f.orgID, domain.CreateRequest{
		BillTo: domain.BillTo{CustomerID: customerID},
		Lines: []domain.LineRequest{
			{ItemID: itemID, Quantity: 2},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "INV-20250310-000001", inv.Number)
	assert.Equal(t, tax.SchemeRegular, inv.Scheme)
	assert.Equal(t, tax.IntraState, inv.Jurisdiction)

	require.Len(t, inv.Lines, 1)
	line := inv.Lines[0]
	assert.Equal(t, "Soap", line.Name)
	assert.InDelta(t, 200, line.RowTotal, 1e-9)
	assert.InDelta(t, 200/1.18, line.TaxableValue, 1e-9)
	assert.InDelta(t, line.TaxAmount/2, line.CGST, 1e-9)
	assert.InDelta(t, line.TaxAmount/2, line.SGST, 1e-9)
	assert.Zero(t, line.IGST)

	// Stock moved with the sale.
	var item catalogdomain.Item
	require.NoError(t, f.conn.First(&item, "id = ?", itemID).Error)
	assert.Equal(t, 8, item.StockQty)

	// Customer owes the rounded total.
	var party partydomain.Party
	require.NoError(t, f.conn.First(&party, "id = ?", customerID).Error)
	assert.InDelta(t, inv.RoundedTotal, party.OutstandingBalance, 1e-9)
}

func TestCreate_SequenceIsPerTenant(t *testing.T) {
	f := newFixture(t, "REGULAR")
	itemID := f.seedItem(t, "Soap", 100, 18, 100)

	first, err := f.svc.Create(context.Background(), f.orgID, domain.CreateRequest{
		BillTo: domain.BillTo{Name: "Walk-in"},
		Lines:  []domain.LineRequest{{ItemID: itemID, Quantity: 1}},
	})
	require.NoError(t, err)
	second, err := f.svc.Create(context.Background(), f.orgID, domain.CreateRequest{
		BillTo: domain.BillTo{Name: "Walk-in"},
		Lines:  []domain.LineRequest{{ItemID: itemID, Quantity: 1}},
	})
	require.NoError(t, err)

	assert.Equal(t, "INV-20250310-000001", first.Number)
	assert.Equal(t, "INV-20250310-000002", second.Number)
}

func TestCreate_InterStateUsesIGST(t *testing.T) {
	f := newFixture(t, "REGULAR")
	itemID := f.seedItem(t, "Soap", 100, 18, 10)
	customerID := f.seedCustomer(t, "27")

	inv, err := f.svc.Create(context.Background(), f.orgID, domain.CreateRequest{
		BillTo: domain.BillTo{CustomerID: customerID},
		Lines:  []domain.LineRequest{{ItemID: itemID, Quantity: 1}},
	})
	require.NoError(t, err)

	assert.Equal(t, tax.InterState, inv.Jurisdiction)
	line := inv.Lines[0]
	assert.InDelta(t, line.TaxAmount, line.IGST, 1e-9)
	assert.Zero(t, line.CGST)
	assert.Zero(t, line.SGST)
}

func TestCreate_CompositionChargesNoLineTax(t *testing.T) {
	f := newFixture(t, "COMPOSITION")
	itemID := f.seedItem(t, "Soap", 100, 18, 10)

	inv, err := f.svc.Create(context.Background(), f.orgID, domain.CreateRequest{
		BillTo: domain.BillTo{Name: "Walk-in"},
		Lines:  []domain.LineRequest{{ItemID: itemID, Quantity: 1}},
	})
	require.NoError(t, err)

	assert.Equal(t, tax.SchemeComposition, inv.Scheme)
	assert.Zero(t, inv.TotalTaxAmount)
	assert.InDelta(t, 100, inv.TotalTaxableValue, 1e-9)
}

func TestCreate_InsufficientStockRollsBack(t *testing.T) {
	f := newFixture(t, "REGULAR")
	itemID := f.seedItem(t, "Soap", 100, 18, 1)

	_, err := f.svc.Create(context.Background(), f.orgID, domain.CreateRequest{
		BillTo: domain.BillTo{Name: "Walk-in"},
		Lines:  []domain.LineRequest{{ItemID: itemID, Quantity: 5}},
	})
	require.ErrorIs(t, err, catalogdomain.ErrInsufficientStock)

	// Nothing persisted, sequence not burned.
	var count int64
	require.NoError(t, f.conn.Model(&domain.Invoice{}).Count(&count).Error)
	assert.Zero(t, count)

	inv, err := f.svc.Create(context.Background(), f.orgID, domain.CreateRequest{
		BillTo: domain.BillTo{Name: "Walk-in"},
		Lines:  []domain.LineRequest{{ItemID: itemID, Quantity: 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, "INV-20250310-000001", inv.Number)
}

func TestCreate_AmountPaidClampedAndStatus(t *testing.T) {
	f := newFixture(t, "REGULAR")
	itemID := f.seedItem(t, "Soap", 100, 18, 10)
	customerID := f.seedCustomer(t, "29")

	inv, err := f.svc.Create(context.Background(), f.orgID, domain.CreateRequest{
		BillTo:     domain.BillTo{CustomerID: customerID},
		Lines:      []domain.LineRequest{{ItemID: itemID, Quantity: 1}},
		AmountPaid: 9999,
	})
	require.NoError(t, err)

	assert.Equal(t, inv.RoundedTotal, inv.AmountPaid)
	assert.Equal(t, domain.StatusPaid, inv.Status)

	// Fully paid at the counter leaves no outstanding balance.
	var party partydomain.Party
	require.NoError(t, f.conn.First(&party, "id = ?", customerID).Error)
	assert.Zero(t, party.OutstandingBalance)
}

func TestDelete_ReversesSideEffects(t *testing.T) {
	f := newFixture(t, "REGULAR")
	itemID := f.seedItem(t, "Soap", 100, 18, 10)
	customerID := f.seedCustomer(t, "29")

	inv, err := f.svc.Create(context.Background(), f.orgID, domain.CreateRequest{
		BillTo: domain.BillTo{CustomerID: customerID},
		Lines:  []domain.LineRequest{{ItemID: itemID, Quantity: 3}},
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(context.Background(), f.orgID, inv.ID))

	var item catalogdomain.Item
	require.NoError(t, f.conn.First(&item, "id = ?", itemID).Error)
	assert.Equal(t, 10, item.StockQty)

	var party partydomain.Party
	require.NoError(t, f.conn.First(&party, "id = ?", customerID).Error)
	assert.Zero(t, party.OutstandingBalance)

	_, err = f.svc.Get(context.Background(), f.orgID, inv.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreate_EmptyInvoiceRejected(t *testing.T) {
	f := newFixture(t, "REGULAR")
	_, err := f.svc.Create(context.Background(), f.orgID, domain.CreateRequest{})
	assert.ErrorIs(t, err, domain.ErrEmptyInvoice)
}
