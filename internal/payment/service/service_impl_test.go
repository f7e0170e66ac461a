package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/kirana/internal/clock"
	invoicedomain "github.com/smallbiznis/kirana/internal/invoice/domain"
	partydomain "github.com/smallbiznis/kirana/internal/party/domain"
	"github.com/smallbiznis/kirana/internal/payment/domain"
	purchasedomain "github.com/smallbiznis/kirana/internal/purchase/domain"
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
		&partydomain.Party{},
		&invoicedomain.Invoice{},
		&purchasedomain.Purchase{},
		&domain.Payment{},
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

func (f *fixture) seedParty(t *testing.T, kind partydomain.Kind, outstanding float64) snowflake.ID {
	t.Helper()
	party := &partydomain.Party{
		ID:                 f.node.Generate(),
		OrgID:              f.orgID,
		Kind:               kind,
		Name:               "Party",
		OutstandingBalance: outstanding,
	}
	require.NoError(t, f.conn.Create(party).Error)
	return party.ID
}

func TestRecord_ReceiptMovesBalance(t *testing.T) {
	f := newFixture(t)
	customerID := f.seedParty(t, partydomain.KindCustomer, 500)

	payment, err := f.svc.Record(context.Background(), f.orgID, domain.RecordRequest{
		PartyID: customerID,
		Kind:    domain.KindReceipt,
		Method:  domain.MethodUPI,
		Amount:  300,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.MethodUPI, payment.Method)

	var party partydomain.Party
	require.NoError(t, f.conn.First(&party, "id = ?", customerID).Error)
	assert.InDelta(t, 200, party.OutstandingBalance, 1e-9)
}

func TestRecord_SettlesReferencedInvoice(t *testing.T) {
	f := newFixture(t)
	customerID := f.seedParty(t, partydomain.KindCustomer, 300)

	inv := &invoicedomain.Invoice{
		ID:           f.node.Generate(),
		OrgID:        f.orgID,
		Number:       "INV-1",
		CustomerID:   customerID,
		IssuedAt:     time.Now(),
		Scheme:       "REGULAR",
		Jurisdiction: "INTRA_STATE",
		RoundedTotal: 300,
		Status:       invoicedomain.StatusUnpaid,
	}
	require.NoError(t, f.conn.Create(inv).Error)

	_, err := f.svc.Record(context.Background(), f.orgID, domain.RecordRequest{
		PartyID:   customerID,
		Kind:      domain.KindReceipt,
		Amount:    100,
		InvoiceID: inv.ID,
	})
	require.NoError(t, err)

	var got invoicedomain.Invoice
	require.NoError(t, f.conn.First(&got, "id = ?", inv.ID).Error)
	assert.InDelta(t, 100, got.AmountPaid, 1e-9)
	assert.Equal(t, invoicedomain.StatusPartial, got.Status)

	_, err = f.svc.Record(context.Background(), f.orgID, domain.RecordRequest{
		PartyID:   customerID,
		Kind:      domain.KindReceipt,
		Amount:    200,
		InvoiceID: inv.ID,
	})
	require.NoError(t, err)

	require.NoError(t, f.conn.First(&got, "id = ?", inv.ID).Error)
	assert.Equal(t, invoicedomain.StatusPaid, got.Status)
}

func TestRecord_SupplierPaymentSettlesPurchase(t *testing.T) {
	f := newFixture(t)
	supplierID := f.seedParty(t, partydomain.KindSupplier, 1100)

	purchase := &purchasedomain.Purchase{
		ID:         f.node.Generate(),
		OrgID:      f.orgID,
		SupplierID: supplierID,
		BilledAt:   time.Now(),
		Total:      1100,
		Status:     purchasedomain.StatusUnpaid,
	}
	require.NoError(t, f.conn.Create(purchase).Error)

	_, err := f.svc.Record(context.Background(), f.orgID, domain.RecordRequest{
		PartyID:    supplierID,
		Kind:       domain.KindPayment,
		Amount:     1100,
		PurchaseID: purchase.ID,
	})
	require.NoError(t, err)

	var got purchasedomain.Purchase
	require.NoError(t, f.conn.First(&got, "id = ?", purchase.ID).Error)
	assert.Equal(t, purchasedomain.StatusPaid, got.Status)

	var supplier partydomain.Party
	require.NoError(t, f.conn.First(&supplier, "id = ?", supplierID).Error)
	assert.Zero(t, supplier.OutstandingBalance)
}

func TestRecord_KindMustMatchParty(t *testing.T) {
	f := newFixture(t)
	supplierID := f.seedParty(t, partydomain.KindSupplier, 0)

	_, err := f.svc.Record(context.Background(), f.orgID, domain.RecordRequest{
		PartyID: supplierID,
		Kind:    domain.KindReceipt,
		Amount:  100,
	})
	assert.ErrorIs(t, err, domain.ErrKindMismatch)
}

func TestRecord_Validation(t *testing.T) {
	f := newFixture(t)
	customerID := f.seedParty(t, partydomain.KindCustomer, 0)

	_, err := f.svc.Record(context.Background(), f.orgID, domain.RecordRequest{
		PartyID: customerID,
		Kind:    domain.KindReceipt,
		Amount:  0,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidPayment)

	_, err = f.svc.Record(context.Background(), f.orgID, domain.RecordRequest{
		PartyID: customerID,
		Kind:    "refund",
		Amount:  10,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidPayment)

	// Unknown invoice rolls the whole settlement back.
	_, err = f.svc.Record(context.Background(), f.orgID, domain.RecordRequest{
		PartyID:   customerID,
		Kind:      domain.KindReceipt,
		Amount:    10,
		InvoiceID: f.node.Generate(),
	})
	require.ErrorIs(t, err, invoicedomain.ErrNotFound)

	var party partydomain.Party
	require.NoError(t, f.conn.First(&party, "id = ?", customerID).Error)
	assert.Zero(t, party.OutstandingBalance)

	var count int64
	require.NoError(t, f.conn.Model(&domain.Payment{}).Count(&count).Error)
	assert.Zero(t, count)
}
