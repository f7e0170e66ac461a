package tax

import (
	"math"
	"sort"
)

// LineInput is a raw invoice line as received at the ingestion boundary.
// Numeric fields may be zero or missing; the engine coerces rather than
// rejects, so a malformed line contributes zero instead of aborting the
// whole invoice.
type LineInput struct {
	SNo      int
	Name     string
	HSNCode  string
	Quantity int
	Unit     string

	ListPrice      float64
	DiscountAmount float64
	RatePct        float64

	// Amount, when positive, is an authoritative precomputed line total and
	// overrides ListPrice*Quantity-DiscountAmount.
	Amount float64
}

// Line is a fully resolved invoice line.
type Line struct {
	SNo      int
	Name     string
	HSNCode  string
	Quantity int
	Unit     string

	ListPrice float64

	// DisplayDiscount reconciles the list value against the row total for
	// presentation. When Amount was precomputed it conflates discount and
	// embedded tax and may legitimately read zero; carried over as observed
	// behavior.
	DisplayDiscount float64

	RatePct      float64
	RowTotal     float64
	TaxableValue float64
	TaxAmount    float64
	CGST         float64
	SGST         float64
	IGST         float64
}

// RateSlab is one row of the tax-breakdown summary table.
type RateSlab struct {
	RatePct float64
	Taxable float64
	CGST    float64
	SGST    float64
	IGST    float64
}

// Result aggregates computed lines and invoice totals.
type Result struct {
	Scheme       Scheme
	Jurisdiction Jurisdiction
	Lines        []Line
	Slabs        []RateSlab

	TotalQuantity     int
	TotalTaxableValue float64
	TotalTaxAmount    float64
	GrossTotal        float64
	RoundedTotal      float64
	RoundingDelta     float64
}

// ComputeInvoice resolves every line in input order and accumulates totals.
// Pure function: same input always yields the same output.
//
// Under the Regular scheme the row total is always treated as tax
// inclusive; the taxable value is back-calculated. Composition and None
// force the rate to zero and carry the full row total as taxable value.
func ComputeInvoice(scheme Scheme, jurisdiction Jurisdiction, inputs []LineInput) Result {
	res := Result{
		Scheme:       scheme,
		Jurisdiction: jurisdiction,
		Lines:        make([]Line, 0, len(inputs)),
	}

	for _, in := range inputs {
		line := computeLine(scheme, jurisdiction, in)

		res.TotalQuantity += line.Quantity
		res.TotalTaxableValue += line.TaxableValue
		res.TotalTaxAmount += line.TaxAmount
		res.GrossTotal += line.RowTotal

		res.Lines = append(res.Lines, line)
	}

	res.RoundedTotal = math.Round(res.GrossTotal)
	res.RoundingDelta = res.RoundedTotal - res.GrossTotal
	res.Slabs = SlabsOf(res.Lines)

	return res
}

// SlabsOf aggregates the per-rate breakdown over resolved lines, sorted by
// rate ascending. Only lines with a positive rate and tax contribute.
func SlabsOf(lines []Line) []RateSlab {
	byRate := make(map[float64]*RateSlab)
	for _, line := range lines {
		if line.RatePct <= 0 || line.TaxAmount <= 0 {
			continue
		}
		slab, ok := byRate[line.RatePct]
		if !ok {
			slab = &RateSlab{RatePct: line.RatePct}
			byRate[line.RatePct] = slab
		}
		slab.Taxable += line.TaxableValue
		slab.CGST += line.CGST
		slab.SGST += line.SGST
		slab.IGST += line.IGST
	}

	slabs := make([]RateSlab, 0, len(byRate))
	for _, slab := range byRate {
		slabs = append(slabs, *slab)
	}
	sort.Slice(slabs, func(i, j int) bool { return slabs[i].RatePct < slabs[j].RatePct })
	return slabs
}

func computeLine(scheme Scheme, jurisdiction Jurisdiction, in LineInput) Line {
	qty := in.Quantity
	if qty < 0 {
		qty = 0
	}
	listPrice := nonNegative(in.ListPrice)
	discount := nonNegative(in.DiscountAmount)
	listValue := listPrice * float64(qty)

	// Precomputed amount wins when positive.
	rowTotal := listValue - discount
	if in.Amount > 0 {
		rowTotal = in.Amount
	}
	rowTotal = nonNegative(rowTotal)

	displayDiscount := discount
	if displayDiscount <= 0 {
		displayDiscount = nonNegative(listValue - rowTotal)
	}

	rate := nonNegative(in.RatePct)
	if !scheme.Taxed() {
		rate = 0
	}

	line := Line{
		SNo:             in.SNo,
		Name:            in.Name,
		HSNCode:         in.HSNCode,
		Quantity:        qty,
		Unit:            in.Unit,
		ListPrice:       listPrice,
		DisplayDiscount: displayDiscount,
		RatePct:         rate,
		RowTotal:        rowTotal,
	}

	if rate > 0 {
		line.TaxableValue = rowTotal / (1 + rate/100)
		line.TaxAmount = rowTotal - line.TaxableValue
		if jurisdiction == InterState {
			line.IGST = line.TaxAmount
		} else {
			line.CGST = line.TaxAmount / 2
			line.SGST = line.TaxAmount / 2
		}
	} else {
		line.TaxableValue = rowTotal
	}

	return line
}

// CompositionTax is the flat turnover-based levy owed by a Composition
// filer, computed over aggregate turnover rather than per invoice.
func CompositionTax(turnover, ratePct float64) float64 {
	if turnover <= 0 || ratePct <= 0 {
		return 0
	}
	return turnover * ratePct / 100
}

func nonNegative(v float64) float64 {
	if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
