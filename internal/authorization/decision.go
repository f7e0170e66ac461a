package authorization

// Decision is the outcome of an authorization check. Route guards evaluate
// it explicitly instead of threading redirect booleans through handlers.
type Decision struct {
	kind   decisionKind
	target string
}

type decisionKind int

const (
	decisionAllowed decisionKind = iota
	decisionRedirect
	decisionForbidden
)

func Allow() Decision                 { return Decision{kind: decisionAllowed} }
func RedirectTo(target string) Decision { return Decision{kind: decisionRedirect, target: target} }
func Forbid() Decision                { return Decision{kind: decisionForbidden} }

func (d Decision) Allowed() bool   { return d.kind == decisionAllowed }
func (d Decision) Forbidden() bool { return d.kind == decisionForbidden }

// Redirect reports whether the caller must be redirected and where.
func (d Decision) Redirect() (string, bool) {
	if d.kind != decisionRedirect {
		return "", false
	}
	return d.target, true
}
