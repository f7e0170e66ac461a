package format

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumber(t *testing.T) {
	issuedAt := time.Date(2025, time.March, 10, 9, 30, 0, 0, time.UTC)

	t.Run("default template", func(t *testing.T) {
		got, err := Number(DefaultTemplate, issuedAt, 42)
		require.NoError(t, err)
		assert.Equal(t, "INV-20250310-000042", got)
	})

	t.Run("raw sequence", func(t *testing.T) {
		got, err := Number("BILL/{YY}/{SEQ}", issuedAt, 7)
		require.NoError(t, err)
		assert.Equal(t, "BILL/25/7", got)
	})

	t.Run("financial year", func(t *testing.T) {
		got, err := Number("INV/{FY}/{SEQ4}", issuedAt, 99)
		require.NoError(t, err)
		assert.Equal(t, "INV/2024-25/0099", got)

		april := time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC)
		got, err = Number("{FY}", april, 1)
		require.NoError(t, err)
		assert.Equal(t, "2025-26", got)
	})

	t.Run("sequence wider than padding", func(t *testing.T) {
		got, err := Number("{SEQ3}", issuedAt, 12345)
		require.NoError(t, err)
		assert.Equal(t, "12345", got)
	})

	t.Run("empty template", func(t *testing.T) {
		_, err := Number("", issuedAt, 1)
		assert.Error(t, err)
	})

	t.Run("non positive sequence", func(t *testing.T) {
		_, err := Number(DefaultTemplate, issuedAt, 0)
		assert.Error(t, err)
	})

	t.Run("unresolved token", func(t *testing.T) {
		_, err := Number("INV-{NOPE}", issuedAt, 1)
		assert.Error(t, err)
	})
}
