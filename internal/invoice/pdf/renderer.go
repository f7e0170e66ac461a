package pdf

import (
	"context"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/image"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/extension"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// Renderer turns a Document into PDF bytes.
type Renderer interface {
	Render(ctx context.Context, doc Document) ([]byte, error)
}

type marotoRenderer struct{}

func NewRenderer() Renderer { return &marotoRenderer{} }

const (
	blockLineHeight = 4.0
	bodySize        = 8.0
	headerSize      = 9.0
)

func (r *marotoRenderer) Render(_ context.Context, doc Document) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	addHeader(m, doc)
	addMeta(m, doc)
	addPartyBlock(m, doc)
	addItemTable(m, doc)
	addTotals(m, doc)
	if len(doc.Slabs) > 0 {
		addSlabTable(m, doc)
	}
	addFooter(m, doc)

	out, err := m.Generate()
	if err != nil {
		return nil, err
	}
	return out.GetBytes(), nil
}

func addHeader(m core.Maroto, doc Document) {
	m.AddRow(10,
		text.NewCol(12, doc.Title, props.Text{
			Size:  16,
			Style: fontstyle.Bold,
			Align: align.Center,
		}),
	)

	seller := col.New(12)
	seller.Add(text.New(doc.SellerName, props.Text{Size: 12, Style: fontstyle.Bold, Align: align.Center}))
	top := 6.0
	for _, addr := range doc.SellerAddress {
		seller.Add(text.New(addr, props.Text{Size: bodySize, Align: align.Center, Top: top}))
		top += blockLineHeight
	}
	contact := joinNonEmpty(" | ", prefix("Ph: ", doc.SellerPhone), doc.SellerEmail, prefix("GSTIN: ", doc.SellerGSTIN))
	if contact != "" {
		seller.Add(text.New(contact, props.Text{Size: bodySize, Align: align.Center, Top: top}))
		top += blockLineHeight
	}
	m.AddRow(top+4, seller)
	m.AddRow(2, line.NewCol(12))
}

func addMeta(m core.Maroto, doc Document) {
	m.AddRow(8,
		text.NewCol(6, "Invoice No: "+doc.Number, props.Text{Size: headerSize, Style: fontstyle.Bold}),
		text.NewCol(6, "Date: "+doc.IssuedAt, props.Text{Size: headerSize, Align: align.Right}),
	)
}

// addPartyBlock draws billing and shipping side by side. Both slices are
// pre-padded to the same length, so one row height fits both.
func addPartyBlock(m core.Maroto, doc Document) {
	height := float64(len(doc.BillTo))*blockLineHeight + 8

	billing := col.New(6)
	billing.Add(text.New("Bill To", props.Text{Size: headerSize, Style: fontstyle.Bold}))
	shipping := col.New(6)
	shipping.Add(text.New("Ship To", props.Text{Size: headerSize, Style: fontstyle.Bold}))

	top := 5.0
	for i := range doc.BillTo {
		billing.Add(text.New(doc.BillTo[i], props.Text{Size: bodySize, Top: top}))
		shipping.Add(text.New(doc.ShipTo[i], props.Text{Size: bodySize, Top: top}))
		top += blockLineHeight
	}

	m.AddRow(height, billing, shipping)
	m.AddRow(2, line.NewCol(12))
}

func addItemTable(m core.Maroto, doc Document) {
	bold := func(size int, s string, a align.Type) core.Col {
		return text.NewCol(size, s, props.Text{Size: bodySize, Style: fontstyle.Bold, Align: a})
	}
	m.AddRow(7,
		bold(1, "#", align.Left),
		bold(3, "Item", align.Left),
		bold(1, "HSN", align.Left),
		bold(1, "Qty", align.Right),
		bold(2, "Price", align.Right),
		bold(1, "Disc", align.Right),
		bold(1, "GST%", align.Right),
		bold(2, "Amount", align.Right),
	)
	m.AddRow(1, line.NewCol(12))

	cell := func(size int, s string, a align.Type) core.Col {
		return text.NewCol(size, s, props.Text{Size: bodySize, Align: a})
	}
	for _, row := range doc.Lines {
		name := row.Name
		if row.Unit != "" {
			name += " (" + row.Unit + ")"
		}
		m.AddRow(6,
			cell(1, row.SNo, align.Left),
			cell(3, name, align.Left),
			cell(1, row.HSNCode, align.Left),
			cell(1, row.Quantity, align.Right),
			cell(2, row.Price, align.Right),
			cell(1, row.Discount, align.Right),
			cell(1, row.RatePct, align.Right),
			cell(2, row.Amount, align.Right),
		)
	}
	m.AddRow(1, line.NewCol(12))
}

func addTotals(m core.Maroto, doc Document) {
	label := func(s string) core.Col {
		return text.NewCol(3, s, props.Text{Size: bodySize, Align: align.Right})
	}
	value := func(s string) core.Col {
		return text.NewCol(2, s, props.Text{Size: bodySize, Align: align.Right})
	}

	m.AddRow(5, col.New(7), label("Total Qty"), value(doc.TotalQuantity))
	m.AddRow(5, col.New(7), label("Taxable Value"), value(doc.TaxableValue))
	m.AddRow(5, col.New(7), label("Total Tax"), value(doc.TaxAmount))
	m.AddRow(5, col.New(7), label("Round Off"), value(doc.RoundingDelta))
	m.AddRow(7,
		col.New(7),
		text.NewCol(3, "Grand Total", props.Text{Size: headerSize, Style: fontstyle.Bold, Align: align.Right}),
		text.NewCol(2, doc.GrandTotal, props.Text{Size: headerSize, Style: fontstyle.Bold, Align: align.Right}),
	)
	m.AddRow(6,
		text.NewCol(12, "Amount in words: "+doc.AmountInWords, props.Text{Size: bodySize, Style: fontstyle.Italic}),
	)
}

func addSlabTable(m core.Maroto, doc Document) {
	bold := func(size int, s string, a align.Type) core.Col {
		return text.NewCol(size, s, props.Text{Size: bodySize, Style: fontstyle.Bold, Align: a})
	}
	m.AddRow(7,
		bold(2, "GST Rate", align.Left),
		bold(3, "Taxable", align.Right),
		bold(2, "CGST", align.Right),
		bold(2, "SGST", align.Right),
		bold(3, "IGST", align.Right),
	)
	cell := func(size int, s string, a align.Type) core.Col {
		return text.NewCol(size, s, props.Text{Size: bodySize, Align: a})
	}
	for _, slab := range doc.Slabs {
		m.AddRow(5,
			cell(2, slab.Label, align.Left),
			cell(3, slab.Taxable, align.Right),
			cell(2, slab.CGST, align.Right),
			cell(2, slab.SGST, align.Right),
			cell(3, slab.IGST, align.Right),
		)
	}
	m.AddRow(1, line.NewCol(12))
}

// addFooter draws bank details, terms, and the signature block. Maroto
// pushes a row that does not fit to the next page, which keeps the block
// atomic.
func addFooter(m core.Maroto, doc Document) {
	left := col.New(7)
	top := 0.0
	if len(doc.BankDetails) > 0 {
		left.Add(text.New("Bank Details", props.Text{Size: bodySize, Style: fontstyle.Bold}))
		top = 5
		for _, l := range doc.BankDetails {
			left.Add(text.New(l, props.Text{Size: bodySize, Top: top}))
			top += blockLineHeight
		}
	}
	if len(doc.Terms) > 0 {
		left.Add(text.New("Terms & Conditions", props.Text{Size: bodySize, Style: fontstyle.Bold, Top: top + 2}))
		top += 7
		for _, l := range doc.Terms {
			left.Add(text.New(l, props.Text{Size: bodySize, Top: top}))
			top += blockLineHeight
		}
	}

	right := col.New(5)
	right.Add(text.New(doc.SignedBy, props.Text{Size: bodySize, Style: fontstyle.Bold, Align: align.Right}))
	signHeight := 10.0
	if doc.SignaturePNG != "" {
		right.Add(image.NewFromBase64(doc.SignaturePNG, extension.Png, props.Rect{
			Top:     6,
			Percent: 60,
			Center:  false,
		}))
		signHeight = 26
	}
	right.Add(text.New("Authorised Signatory", props.Text{Size: bodySize, Align: align.Right, Top: signHeight + 6}))

	height := top
	if signHeight+12 > height {
		height = signHeight + 12
	}
	m.AddRow(height+4, left, right)
}

func joinNonEmpty(sep string, parts ...string) string {
	out := ""
	for _, p := range parts {
		if p == "" {
			continue
		}
		if out != "" {
			out += sep
		}
		out += p
	}
	return out
}

func prefix(p, s string) string {
	if s == "" {
		return ""
	}
	return p + s
}
