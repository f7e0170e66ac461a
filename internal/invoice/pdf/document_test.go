package pdf

import (
	"context"
	"testing"
	"time"

	"github.com/smallbiznis/kirana/internal/invoice/domain"
	"github.com/smallbiznis/kirana/internal/tax"
	tenantdomain "github.com/smallbiznis/kirana/internal/tenant/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleInvoice() *domain.Invoice {
	return &domain.Invoice{
		Number:       "INV-20250310-000001",
		IssuedAt:     time.Date(2025, time.March, 10, 9, 30, 0, 0, time.UTC),
		Scheme:       tax.SchemeRegular,
		Jurisdiction: tax.IntraState,
		BillToName:   "Sharma Traders",
		BillToAddr:   "12 MG Road\nBengaluru",
		BillToGSTIN:  "29ABCDE1234F1Z5",

		TotalQuantity:     3,
		TotalTaxableValue: 254.24,
		TotalTaxAmount:    45.76,
		GrossTotal:        300,
		RoundedTotal:      300,
		RoundingDelta:     0,

		Lines: []domain.Line{
			{SNo: 1, Name: "Soap", Quantity: 3, RatePct: 18, RowTotal: 300, TaxableValue: 254.24, TaxAmount: 45.76, CGST: 22.88, SGST: 22.88},
		},
	}
}

func sampleTenant() *tenantdomain.Tenant {
	return &tenantdomain.Tenant{
		Name:      "Kirana Stores",
		Address:   "45 Market Street\nMysuru",
		GSTIN:     "29ZYXWV9876K1Z2",
		StateCode: "29",
		GSTScheme: "REGULAR",
	}
}

func TestBuild(t *testing.T) {
	t.Run("title follows scheme", func(t *testing.T) {
		doc := Build(sampleTenant(), sampleInvoice())
		assert.Equal(t, "Tax Invoice", doc.Title)

		inv := sampleInvoice()
		inv.Scheme = tax.SchemeComposition
		doc = Build(sampleTenant(), inv)
		assert.Equal(t, "Bill of Supply", doc.Title)
	})

	t.Run("party blocks padded to equal height", func(t *testing.T) {
		inv := sampleInvoice()
		inv.ShipToName = "Warehouse"
		doc := Build(sampleTenant(), inv)
		assert.Equal(t, len(doc.BillTo), len(doc.ShipTo))
		assert.Greater(t, len(doc.BillTo), 1)
	})

	t.Run("missing ship to repeats billing", func(t *testing.T) {
		doc := Build(sampleTenant(), sampleInvoice())
		assert.Equal(t, doc.BillTo, doc.ShipTo)
	})

	t.Run("amount in words and totals", func(t *testing.T) {
		doc := Build(sampleTenant(), sampleInvoice())
		assert.Equal(t, "Three Hundred Only", doc.AmountInWords)
		assert.Equal(t, "300.00", doc.GrandTotal)
		assert.Equal(t, "3", doc.TotalQuantity)
	})

	t.Run("slab table rebuilt from lines", func(t *testing.T) {
		doc := Build(sampleTenant(), sampleInvoice())
		require.Len(t, doc.Slabs, 1)
		assert.Equal(t, "18%", doc.Slabs[0].Label)
		assert.Equal(t, "22.88", doc.Slabs[0].CGST)
		assert.Equal(t, "22.88", doc.Slabs[0].SGST)
	})

	t.Run("zero rate lines produce no slabs", func(t *testing.T) {
		inv := sampleInvoice()
		inv.Scheme = tax.SchemeNone
		inv.Lines = []domain.Line{{SNo: 1, Name: "Soap", Quantity: 1, RowTotal: 100, TaxableValue: 100}}
		doc := Build(sampleTenant(), inv)
		assert.Empty(t, doc.Slabs)
	})
}

func TestRenderProducesPDF(t *testing.T) {
	doc := Build(sampleTenant(), sampleInvoice())
	out, err := NewRenderer().Render(context.Background(), doc)
	require.NoError(t, err)
	require.NotEmpty(t, out)
	assert.Equal(t, "%PDF", string(out[:4]))
}
