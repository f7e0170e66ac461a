package pdf

import "fmt"

// Action selects how a rendered document leaves the system.
type Action string

const (
	// ActionDownload serves the PDF as an attachment.
	ActionDownload Action = "DOWNLOAD"
	// ActionPrint serves the PDF inline so the browser opens its print view.
	ActionPrint Action = "PRINT"
	// ActionBlob hands the raw bytes to the caller, for share and email flows.
	ActionBlob Action = "BLOB"
)

// ParseAction defaults to download on unknown input.
func ParseAction(raw string) Action {
	switch Action(raw) {
	case ActionPrint:
		return ActionPrint
	case ActionBlob:
		return ActionBlob
	default:
		return ActionDownload
	}
}

// Rendition is the HTTP-facing shape of an emitted document.
type Rendition struct {
	Filename    string
	ContentType string
	Disposition string // empty for ActionBlob
	Body        []byte
}

// Emit wraps rendered bytes for the chosen action.
func Emit(action Action, invoiceNumber string, body []byte) Rendition {
	r := Rendition{
		Filename:    fmt.Sprintf("Invoice_%s.pdf", sanitizeFilename(invoiceNumber)),
		ContentType: "application/pdf",
		Body:        body,
	}
	switch action {
	case ActionPrint:
		r.Disposition = fmt.Sprintf("inline; filename=%q", r.Filename)
	case ActionBlob:
		// Raw bytes; the caller owns packaging.
	default:
		r.Disposition = fmt.Sprintf("attachment; filename=%q", r.Filename)
	}
	return r
}

// sanitizeFilename keeps invoice-number characters that are safe across
// download targets; everything else becomes an underscore.
func sanitizeFilename(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			out = append(out, r)
		default:
			out = append(out, '_')
		}
	}
	return string(out)
}
