package tax

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAmountInWords(t *testing.T) {
	cases := []struct {
		amount float64
		want   string
	}{
		{0, "Zero Only"},
		{1, "One Only"},
		{19, "Nineteen Only"},
		{20, "Twenty Only"},
		{45, "Forty Five Only"},
		{100, "One Hundred Only"},
		{118, "One Hundred Eighteen Only"},
		{1000, "One Thousand Only"},
		{1234, "One Thousand Two Hundred Thirty Four Only"},
		{100000, "One Lakh Only"},
		{250000, "Two Lakh Fifty Thousand Only"},
		{10000000, "One Crore Only"},
		{12345678, "One Crore Twenty Three Lakh Forty Five Thousand Six Hundred Seventy Eight Only"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, AmountInWords(tc.amount), "amount %v", tc.amount)
	}
}

func TestAmountInWords_Paise(t *testing.T) {
	assert.Equal(t, "Twelve And Fifty Paise Only", AmountInWords(12.50))
	assert.Equal(t, "Zero And Five Paise Only", AmountInWords(0.05))

	// A fraction that rounds to zero paise carries no paise clause.
	assert.Equal(t, "Ten Only", AmountInWords(10.001))

	// A fraction that rounds up to a whole rupee carries over.
	assert.Equal(t, "Eleven Only", AmountInWords(10.999))
}
