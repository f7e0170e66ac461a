package pdf

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmit(t *testing.T) {
	body := []byte("%PDF-1.7")

	t.Run("download", func(t *testing.T) {
		r := Emit(ActionDownload, "INV-20250310-000001", body)
		assert.Equal(t, "Invoice_INV-20250310-000001.pdf", r.Filename)
		assert.Equal(t, "application/pdf", r.ContentType)
		assert.Equal(t, `attachment; filename="Invoice_INV-20250310-000001.pdf"`, r.Disposition)
		assert.Equal(t, body, r.Body)
	})

	t.Run("print is inline", func(t *testing.T) {
		r := Emit(ActionPrint, "INV-1", body)
		assert.Equal(t, `inline; filename="Invoice_INV-1.pdf"`, r.Disposition)
	})

	t.Run("blob has no disposition", func(t *testing.T) {
		r := Emit(ActionBlob, "INV-1", body)
		assert.Empty(t, r.Disposition)
		assert.Equal(t, body, r.Body)
	})

	t.Run("unsafe number characters replaced", func(t *testing.T) {
		r := Emit(ActionDownload, "INV/2024-25/0099", body)
		assert.Equal(t, "Invoice_INV_2024-25_0099.pdf", r.Filename)
	})
}

func TestParseAction(t *testing.T) {
	assert.Equal(t, ActionPrint, ParseAction("PRINT"))
	assert.Equal(t, ActionBlob, ParseAction("BLOB"))
	assert.Equal(t, ActionDownload, ParseAction("DOWNLOAD"))
	assert.Equal(t, ActionDownload, ParseAction(""))
	assert.Equal(t, ActionDownload, ParseAction("whatever"))
}
