package tax

import (
	"fmt"
	"math"
	"strings"
)

var onesWords = []string{
	"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight",
	"Nine", "Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen",
	"Sixteen", "Seventeen", "Eighteen", "Nineteen",
}

var tensWords = []string{
	"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy",
	"Eighty", "Ninety",
}

// AmountInWords renders a rupee amount using the Indian numbering system
// (hundred, thousand, lakh, crore). The fractional part, rounded to two
// digits, appends a paise clause only when nonzero.
//
//	0       -> "Zero Only"
//	100     -> "One Hundred Only"
//	100000  -> "One Lakh Only"
//	12.50   -> "Twelve And Fifty Paise Only"
func AmountInWords(amount float64) string {
	if amount < 0 {
		amount = -amount
	}

	rupees := int64(amount)
	paise := int64(math.Round((amount - float64(rupees)) * 100))
	if paise >= 100 {
		rupees++
		paise -= 100
	}

	var b strings.Builder
	if rupees == 0 {
		b.WriteString("Zero")
	} else {
		b.WriteString(integerInWords(rupees))
	}

	if paise > 0 {
		b.WriteString(" And ")
		b.WriteString(integerInWords(paise))
		b.WriteString(" Paise")
	}

	b.WriteString(" Only")
	return b.String()
}

// integerInWords groups the number Indian style: the last three digits take
// a hundreds group, every following pair a named unit.
func integerInWords(n int64) string {
	if n == 0 {
		return ""
	}

	crore := n / 10000000
	n %= 10000000
	lakh := n / 100000
	n %= 100000
	thousand := n / 1000
	n %= 1000
	hundred := n / 100
	rest := n % 100

	parts := make([]string, 0, 5)
	if crore > 0 {
		parts = append(parts, integerInWords(crore)+" Crore")
	}
	if lakh > 0 {
		parts = append(parts, twoDigitWords(lakh)+" Lakh")
	}
	if thousand > 0 {
		parts = append(parts, twoDigitWords(thousand)+" Thousand")
	}
	if hundred > 0 {
		parts = append(parts, onesWords[hundred]+" Hundred")
	}
	if rest > 0 {
		parts = append(parts, twoDigitWords(rest))
	}

	return strings.Join(parts, " ")
}

func twoDigitWords(n int64) string {
	if n < 0 || n > 99 {
		return fmt.Sprintf("%d", n)
	}
	if n < 20 {
		return onesWords[n]
	}
	tens := tensWords[n/10]
	if n%10 == 0 {
		return tens
	}
	return tens + " " + onesWords[n%10]
}
