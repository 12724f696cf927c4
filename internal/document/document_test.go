package document

import (
	"bytes"
	"testing"

	"github.com/go-pdf/fpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPDF(t *testing.T, pages int) []byte {
	t.Helper()

	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetFont("Helvetica", "", 12)
	for i := 0; i < pages; i++ {
		doc.AddPage()
		doc.Cell(40, 10, "Hello World")
	}

	var buf bytes.Buffer
	require.NoError(t, doc.Output(&buf))
	return buf.Bytes()
}

func TestInspect_PDF(t *testing.T) {
	data := newTestPDF(t, 3)

	info, err := Inspect(data, "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, 3, info.Pages)
	assert.Equal(t, "application/pdf", info.MimeType)
}

func TestInspect_SniffsUndeclaredPDF(t *testing.T) {
	data := newTestPDF(t, 1)

	info, err := Inspect(data, "application/octet-stream")
	require.NoError(t, err)
	assert.Equal(t, 1, info.Pages)
}

func TestInspect_NotPDF(t *testing.T) {
	info, err := Inspect([]byte("plain text"), "text/plain")
	require.NoError(t, err)
	assert.Zero(t, info.Pages)
}

func TestInspect_Malformed(t *testing.T) {
	_, err := Inspect([]byte("%PDF-1.4 garbage"), "application/pdf")
	assert.Error(t, err)
}

func TestIsPDF(t *testing.T) {
	assert.True(t, IsPDF(nil, "application/pdf; charset=binary"))
	assert.True(t, IsPDF([]byte("%PDF-1.7"), ""))
	assert.False(t, IsPDF([]byte("GIF89a"), "image/gif"))
}
