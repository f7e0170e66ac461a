// Package tax implements GST line computation for invoices: scheme
// resolution, inclusive back-calculation, CGST/SGST/IGST split, per-rate
// breakdown and total rounding.
package tax

import "strings"

// Scheme is the GST filing scheme of the selling tenant.
//
//   - Regular: tax charged per line, input-credit eligible.
//   - Composition: no line tax; the filer owes a flat percentage of
//     turnover, computed by the reporting module.
//   - None: tax disabled entirely.
type Scheme string

const (
	SchemeRegular     Scheme = "REGULAR"
	SchemeComposition Scheme = "COMPOSITION"
	SchemeNone        Scheme = "NONE"
)

// ParseScheme is case-insensitive and defaults to NONE.
func ParseScheme(raw string) Scheme {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case string(SchemeRegular):
		return SchemeRegular
	case string(SchemeComposition):
		return SchemeComposition
	default:
		return SchemeNone
	}
}

func (s Scheme) String() string { return string(s) }

// Taxed reports whether the scheme charges tax per line.
func (s Scheme) Taxed() bool { return s == SchemeRegular }

// DocumentTitle is the legal document label. "Bill of Supply" for
// Composition/None filers is a compliance requirement, not cosmetics.
func (s Scheme) DocumentTitle() string {
	if s == SchemeRegular {
		return "Tax Invoice"
	}
	return "Bill of Supply"
}

// Jurisdiction decides the tax split: intra-state sales split the tax
// evenly into CGST and SGST; inter-state sales charge the whole amount as
// IGST.
type Jurisdiction string

const (
	IntraState Jurisdiction = "INTRA_STATE"
	InterState Jurisdiction = "INTER_STATE"
)

// JurisdictionFor compares the two-digit GST state codes of seller and
// buyer. A missing buyer code is treated as intra-state.
func JurisdictionFor(sellerStateCode, buyerStateCode string) Jurisdiction {
	seller := strings.TrimSpace(sellerStateCode)
	buyer := strings.TrimSpace(buyerStateCode)
	if seller != "" && buyer != "" && seller != buyer {
		return InterState
	}
	return IntraState
}
