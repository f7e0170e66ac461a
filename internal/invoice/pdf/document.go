// Package pdf renders finalized invoices into printable documents.
package pdf

import (
	"fmt"
	"strings"

	"github.com/smallbiznis/kirana/internal/invoice/domain"
	"github.com/smallbiznis/kirana/internal/tax"
	tenantdomain "github.com/smallbiznis/kirana/internal/tenant/domain"
)

// Document is the fully resolved render model. Everything is preformatted
// text; the renderer does layout only.
type Document struct {
	Title string

	SellerName    string
	SellerAddress []string
	SellerGSTIN   string
	SellerPhone   string
	SellerEmail   string

	Number   string
	IssuedAt string

	BillTo []string
	ShipTo []string

	Lines []LineRow
	Slabs []SlabRow

	TotalQuantity string
	TaxableValue  string
	TaxAmount     string
	RoundingDelta string
	GrandTotal    string
	AmountInWords string

	BankDetails  []string
	Terms        []string
	SignaturePNG string // base64, optional
	SignedBy     string
}

type LineRow struct {
	SNo      string
	Name     string
	HSNCode  string
	Quantity string
	Unit     string
	Price    string
	Discount string
	RatePct  string
	Amount   string
}

type SlabRow struct {
	Label   string
	Taxable string
	CGST    string
	SGST    string
	IGST    string
}

// Build flattens a tenant profile and a stored invoice into the render
// model. The bill-to and ship-to blocks are padded to equal height so the
// two columns line up.
func Build(tenant *tenantdomain.Tenant, inv *domain.Invoice) Document {
	doc := Document{
		Title:         inv.Scheme.DocumentTitle(),
		SellerName:    tenant.Name,
		SellerAddress: splitLines(tenant.Address),
		SellerGSTIN:   tenant.GSTIN,
		SellerPhone:   tenant.Phone,
		SellerEmail:   tenant.Email,
		Number:        inv.Number,
		IssuedAt:      inv.IssuedAt.Format("02-01-2006"),

		TotalQuantity: fmt.Sprintf("%d", inv.TotalQuantity),
		TaxableValue:  money(inv.TotalTaxableValue),
		TaxAmount:     money(inv.TotalTaxAmount),
		RoundingDelta: money(inv.RoundingDelta),
		GrandTotal:    money(inv.RoundedTotal),
		AmountInWords: tax.AmountInWords(inv.RoundedTotal),

		BankDetails:  splitLines(inv.BankDetails),
		Terms:        splitLines(inv.TermsText),
		SignaturePNG: tenant.SignaturePNG,
		SignedBy:     "For " + tenant.Name,
	}

	billTo := partyBlock(inv.BillToName, inv.BillToAddr, inv.BillToPhone, inv.BillToGSTIN)
	shipTo := partyBlock(inv.ShipToName, inv.ShipToAddr, "", "")
	if len(shipTo) == 0 {
		shipTo = billTo
	}
	doc.BillTo, doc.ShipTo = padBlocks(billTo, shipTo)

	for _, line := range inv.Lines {
		row := LineRow{
			SNo:      fmt.Sprintf("%d", line.SNo),
			Name:     line.Name,
			HSNCode:  line.HSNCode,
			Quantity: fmt.Sprintf("%d", line.Quantity),
			Unit:     line.Unit,
			Price:    money(line.ListPrice),
			Discount: money(line.DisplayDiscount),
			RatePct:  ratePct(line.RatePct),
			Amount:   money(line.RowTotal),
		}
		doc.Lines = append(doc.Lines, row)
	}

	for _, slab := range slabsFromLines(inv.Lines) {
		doc.Slabs = append(doc.Slabs, SlabRow{
			Label:   ratePct(slab.RatePct),
			Taxable: money(slab.Taxable),
			CGST:    money(slab.CGST),
			SGST:    money(slab.SGST),
			IGST:    money(slab.IGST),
		})
	}

	return doc
}

// slabsFromLines rebuilds the per-rate breakdown from stored lines, so a
// document rendered years later matches the totals persisted at sale time.
func slabsFromLines(lines []domain.Line) []tax.RateSlab {
	inputs := make([]tax.Line, 0, len(lines))
	for _, l := range lines {
		inputs = append(inputs, tax.Line{
			RatePct:      l.RatePct,
			TaxableValue: l.TaxableValue,
			TaxAmount:    l.TaxAmount,
			CGST:         l.CGST,
			SGST:         l.SGST,
			IGST:         l.IGST,
		})
	}
	return tax.SlabsOf(inputs)
}

func partyBlock(name, address, phone, gstin string) []string {
	var block []string
	if strings.TrimSpace(name) != "" {
		block = append(block, strings.TrimSpace(name))
	}
	block = append(block, splitLines(address)...)
	if strings.TrimSpace(phone) != "" {
		block = append(block, "Ph: "+strings.TrimSpace(phone))
	}
	if strings.TrimSpace(gstin) != "" {
		block = append(block, "GSTIN: "+strings.TrimSpace(gstin))
	}
	return block
}

// padBlocks extends the shorter block with blank lines so both columns
// occupy the same height.
func padBlocks(a, b []string) ([]string, []string) {
	for len(a) < len(b) {
		a = append(a, "")
	}
	for len(b) < len(a) {
		b = append(b, "")
	}
	return a, b
}

func splitLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

func money(v float64) string { return fmt.Sprintf("%.2f", v) }

func ratePct(v float64) string {
	s := fmt.Sprintf("%g", v)
	return s + "%"
}
