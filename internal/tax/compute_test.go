package tax

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

const epsilon = 1e-9

func TestComputeInvoice_RegularInclusiveBackCalculation(t *testing.T) {
	res := ComputeInvoice(SchemeRegular, IntraState, []LineInput{
		{SNo: 1, Name: "Rice 5kg", Quantity: 2, ListPrice: 100, RatePct: 18},
	})

	assert.Len(t, res.Lines, 1)
	line := res.Lines[0]

	assert.InDelta(t, 200, line.RowTotal, epsilon)
	assert.InDelta(t, 169.49, line.TaxableValue, 0.01)
	assert.InDelta(t, 30.51, line.TaxAmount, 0.01)

	// Inclusive invariant: taxable * (1 + rate/100) == rowTotal.
	assert.InDelta(t, line.RowTotal, line.TaxableValue*(1+line.RatePct/100), epsilon)

	// Intra-state split is half and half.
	assert.InDelta(t, line.TaxAmount/2, line.CGST, epsilon)
	assert.InDelta(t, line.TaxAmount/2, line.SGST, epsilon)
	assert.Zero(t, line.IGST)
}

func TestComputeInvoice_InterStateSingleComponent(t *testing.T) {
	res := ComputeInvoice(SchemeRegular, InterState, []LineInput{
		{Quantity: 1, ListPrice: 118, RatePct: 18},
	})

	line := res.Lines[0]
	assert.InDelta(t, line.TaxAmount, line.IGST, epsilon)
	assert.Zero(t, line.CGST)
	assert.Zero(t, line.SGST)

	assert.Len(t, res.Slabs, 1)
	assert.InDelta(t, line.TaxAmount, res.Slabs[0].IGST, epsilon)
}

func TestComputeInvoice_CompositionAndNoneForceZeroTax(t *testing.T) {
	for _, scheme := range []Scheme{SchemeComposition, SchemeNone} {
		res := ComputeInvoice(scheme, IntraState, []LineInput{
			{Quantity: 3, ListPrice: 50, RatePct: 18}, // rate supplied, must be ignored
		})

		line := res.Lines[0]
		assert.Zero(t, line.TaxAmount, "scheme %s", scheme)
		assert.InDelta(t, line.RowTotal, line.TaxableValue, epsilon, "scheme %s", scheme)
		assert.Empty(t, res.Slabs, "scheme %s", scheme)
	}
}

func TestComputeInvoice_PrecomputedAmountIsAuthoritative(t *testing.T) {
	res := ComputeInvoice(SchemeRegular, IntraState, []LineInput{
		{Quantity: 2, ListPrice: 100, DiscountAmount: 10, Amount: 150, RatePct: 5},
	})

	line := res.Lines[0]
	assert.InDelta(t, 150, line.RowTotal, epsilon)
	// Explicit discount is preferred for display.
	assert.InDelta(t, 10, line.DisplayDiscount, epsilon)
}

func TestComputeInvoice_DisplayDiscountReconciliation(t *testing.T) {
	// No explicit discount: display discount is the clamped difference
	// between list value and row total.
	res := ComputeInvoice(SchemeRegular, IntraState, []LineInput{
		{Quantity: 2, ListPrice: 100, Amount: 180, RatePct: 18},
	})
	assert.InDelta(t, 20, res.Lines[0].DisplayDiscount, epsilon)

	// Precomputed amount above list value clamps to zero rather than
	// showing a negative discount.
	res = ComputeInvoice(SchemeRegular, IntraState, []LineInput{
		{Quantity: 1, ListPrice: 100, Amount: 120, RatePct: 18},
	})
	assert.Zero(t, res.Lines[0].DisplayDiscount)
}

func TestComputeInvoice_RoundingDelta(t *testing.T) {
	res := ComputeInvoice(SchemeRegular, IntraState, []LineInput{
		{Quantity: 1, Amount: 99.30, RatePct: 18},
		{Quantity: 1, Amount: 50.30, RatePct: 18},
	})

	assert.InDelta(t, 149.60, res.GrossTotal, epsilon)
	assert.InDelta(t, 150, res.RoundedTotal, epsilon)
	assert.InDelta(t, res.RoundedTotal-res.GrossTotal, res.RoundingDelta, epsilon)
	assert.InDelta(t, math.Round(res.GrossTotal), res.RoundedTotal, epsilon)

	// Delta may be negative.
	res = ComputeInvoice(SchemeNone, IntraState, []LineInput{
		{Quantity: 1, Amount: 100.40},
	})
	assert.InDelta(t, -0.40, res.RoundingDelta, epsilon)
}

func TestComputeInvoice_MalformedLinesContributeZero(t *testing.T) {
	res := ComputeInvoice(SchemeRegular, IntraState, []LineInput{
		{Name: "no quantity", ListPrice: 100, RatePct: 18},
		{Name: "negative", Quantity: -2, ListPrice: -50, RatePct: -18},
		{Name: "real", Quantity: 1, ListPrice: 118, RatePct: 18},
	})

	assert.Len(t, res.Lines, 3)
	assert.Zero(t, res.Lines[0].RowTotal)
	assert.Zero(t, res.Lines[1].RowTotal)
	assert.InDelta(t, 118, res.GrossTotal, epsilon)
}

func TestComputeInvoice_Idempotent(t *testing.T) {
	inputs := []LineInput{
		{SNo: 1, Quantity: 2, ListPrice: 100, RatePct: 18},
		{SNo: 2, Quantity: 5, ListPrice: 12.5, DiscountAmount: 5, RatePct: 5},
		{SNo: 3, Quantity: 1, Amount: 999.99, RatePct: 28},
	}

	first := ComputeInvoice(SchemeRegular, IntraState, inputs)
	second := ComputeInvoice(SchemeRegular, IntraState, inputs)
	assert.Equal(t, first, second)
}

func TestComputeInvoice_SlabAggregation(t *testing.T) {
	res := ComputeInvoice(SchemeRegular, IntraState, []LineInput{
		{Quantity: 1, Amount: 118, RatePct: 18},
		{Quantity: 1, Amount: 236, RatePct: 18},
		{Quantity: 1, Amount: 105, RatePct: 5},
		{Quantity: 1, Amount: 40}, // zero-rate line stays out of the breakdown
	})

	assert.Len(t, res.Slabs, 2)
	assert.InDelta(t, 5, res.Slabs[0].RatePct, epsilon)
	assert.InDelta(t, 18, res.Slabs[1].RatePct, epsilon)
	assert.InDelta(t, 300, res.Slabs[1].Taxable, 0.01)
	assert.InDelta(t, 27, res.Slabs[1].CGST, 0.01)
	assert.InDelta(t, 27, res.Slabs[1].SGST, 0.01)
}

func TestCompositionTax(t *testing.T) {
	assert.InDelta(t, 1000, CompositionTax(100000, 1), epsilon)
	assert.Zero(t, CompositionTax(0, 1))
	assert.Zero(t, CompositionTax(100000, 0))
}

func TestParseScheme(t *testing.T) {
	assert.Equal(t, SchemeRegular, ParseScheme("regular"))
	assert.Equal(t, SchemeComposition, ParseScheme(" Composition "))
	assert.Equal(t, SchemeNone, ParseScheme(""))
	assert.Equal(t, SchemeNone, ParseScheme("whatever"))
}

func TestDocumentTitle(t *testing.T) {
	assert.Equal(t, "Tax Invoice", SchemeRegular.DocumentTitle())
	assert.Equal(t, "Bill of Supply", SchemeComposition.DocumentTitle())
	assert.Equal(t, "Bill of Supply", SchemeNone.DocumentTitle())
}

func TestJurisdictionFor(t *testing.T) {
	assert.Equal(t, IntraState, JurisdictionFor("27", "27"))
	assert.Equal(t, InterState, JurisdictionFor("27", "29"))
	assert.Equal(t, IntraState, JurisdictionFor("27", ""))
	assert.Equal(t, IntraState, JurisdictionFor("", "29"))
}
