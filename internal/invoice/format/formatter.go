// Package format renders invoice numbers from a tenant-configurable
// template.
package format

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var seqPadRe = regexp.MustCompile(`\{SEQ(\d+)\}`)

const DefaultTemplate = "INV-{YYYY}{MM}{DD}-{SEQ6}"

// Number expands template with the issue date and the per-tenant sequence.
//
// Supported tokens:
//
//	{YYYY} {YY} {MM} {DD}  issue date parts
//	{FY}                   Indian financial year, e.g. 2024-25
//	{SEQ}                  raw sequence
//	{SEQn}                 zero-padded sequence of width n
//
// The function is pure and deterministic; callers own sequence allocation.
func Number(template string, issuedAt time.Time, seq int64) (string, error) {
	if template == "" {
		return "", fmt.Errorf("invoice number template is empty")
	}
	if seq <= 0 {
		return "", fmt.Errorf("invalid invoice sequence: %d", seq)
	}

	out := template

	out = strings.ReplaceAll(out, "{YYYY}", issuedAt.Format("2006"))
	out = strings.ReplaceAll(out, "{YY}", issuedAt.Format("06"))
	out = strings.ReplaceAll(out, "{MM}", issuedAt.Format("01"))
	out = strings.ReplaceAll(out, "{DD}", issuedAt.Format("02"))
	out = strings.ReplaceAll(out, "{FY}", financialYear(issuedAt))

	out = strings.ReplaceAll(out, "{SEQ}", strconv.FormatInt(seq, 10))

	out = seqPadRe.ReplaceAllStringFunc(out, func(m string) string {
		match := seqPadRe.FindStringSubmatch(m)
		if len(match) != 2 {
			return m
		}
		width, err := strconv.Atoi(match[1])
		if err != nil || width <= 0 {
			return m
		}
		return fmt.Sprintf("%0*d", width, seq)
	})

	if strings.Contains(out, "{") || strings.Contains(out, "}") {
		return "", fmt.Errorf("unresolved token in invoice number template: %s", out)
	}
	return out, nil
}

// financialYear returns the Indian financial year label for t. The year
// runs April through March, so January 2025 falls in 2024-25.
func financialYear(t time.Time) string {
	start := t.Year()
	if t.Month() < time.April {
		start--
	}
	return fmt.Sprintf("%d-%02d", start, (start+1)%100)
}
