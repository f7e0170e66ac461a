// Package permission defines the permission identifiers known to the
// application and the subscription-tier sets that bound them.
package permission

import (
	"sort"
	"strings"

	"github.com/smallbiznis/kirana/internal/config"
)

type Permission string

const (
	CatalogView   Permission = "catalog.view"
	CatalogManage Permission = "catalog.manage"

	PartyView   Permission = "party.view"
	PartyManage Permission = "party.manage"

	InvoiceView   Permission = "invoice.view"
	InvoiceCreate Permission = "invoice.create"
	InvoiceDelete Permission = "invoice.delete"

	PurchaseView   Permission = "purchase.view"
	PurchaseCreate Permission = "purchase.create"

	PaymentRecord Permission = "payment.record"

	ReportView Permission = "report.view"

	SubscriptionManage Permission = "subscription.manage"
	PermissionsManage  Permission = "permissions.manage"
)

// All lists every permission the application understands. Plan sets and role
// defaults are always subsets of this list.
func All() []Permission {
	return []Permission{
		CatalogView,
		CatalogManage,
		PartyView,
		PartyManage,
		InvoiceView,
		InvoiceCreate,
		InvoiceDelete,
		PurchaseView,
		PurchaseCreate,
		PaymentRecord,
		ReportView,
		SubscriptionManage,
		PermissionsManage,
	}
}

// Set is an immutable-by-convention permission set.
type Set map[Permission]struct{}

func NewSet(perms ...Permission) Set {
	s := make(Set, len(perms))
	for _, p := range perms {
		s[p] = struct{}{}
	}
	return s
}

func (s Set) Has(p Permission) bool {
	_, ok := s[p]
	return ok
}

// Intersect returns the permissions present in both sets.
func (s Set) Intersect(other Set) Set {
	out := make(Set)
	for p := range s {
		if other.Has(p) {
			out[p] = struct{}{}
		}
	}
	return out
}

// Sorted returns the set as a deterministic slice for responses and logs.
func (s Set) Sorted() []Permission {
	out := make([]Permission, 0, len(s))
	for p := range s {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// PlanTier is a subscription level bounding which permissions a tenant's
// users may ever hold.
type PlanTier string

const (
	TierBasic      PlanTier = "basic"
	TierPro        PlanTier = "pro"
	TierEnterprise PlanTier = "enterprise"
)

// ParseTier normalizes a stored tier name. Unknown tiers map to basic so an
// unrecognized record never widens access.
func ParseTier(raw string) PlanTier {
	switch PlanTier(strings.ToLower(strings.TrimSpace(raw))) {
	case TierPro:
		return TierPro
	case TierEnterprise:
		return TierEnterprise
	default:
		return TierBasic
	}
}

// ForPlan resolves the permission set a tier grants. Basic is a fixed
// whitelist, Pro is everything minus an exclusion list, Enterprise is
// everything. The whitelist and exclusions come from the hot-reloadable
// plan config.
func ForPlan(tier PlanTier, cfg config.PlanConfig) Set {
	switch tier {
	case TierEnterprise:
		return NewSet(All()...)
	case TierPro:
		excluded := make(map[Permission]struct{}, len(cfg.ProExclude))
		for _, raw := range cfg.ProExclude {
			excluded[Permission(strings.TrimSpace(raw))] = struct{}{}
		}
		out := make(Set)
		for _, p := range All() {
			if _, skip := excluded[p]; skip {
				continue
			}
			out[p] = struct{}{}
		}
		return out
	default:
		out := make(Set)
		known := NewSet(All()...)
		for _, raw := range cfg.BasicAllow {
			p := Permission(strings.TrimSpace(raw))
			if known.Has(p) {
				out[p] = struct{}{}
			}
		}
		return out
	}
}
