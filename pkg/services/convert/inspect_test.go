package convert

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// onePagePDF builds an A4 document with a single empty page and a correct
// cross-reference table.
func onePagePDF() []byte {
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 595 842] /Resources << >> >>",
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

func TestPDFInspector_CountsPagesAndStampsProperties(t *testing.T) {
	// Given a converted one-page PDF
	path := filepath.Join(t.TempDir(), "invoice_A1.pdf")
	require.NoError(t, os.WriteFile(path, onePagePDF(), 0o644))
	props := map[string]string{
		"DocumentType":   "Invoice",
		"DocumentNumber": "A1",
		"Garage":         "Main Street Motors",
	}

	// When it is inspected
	pages, err := PDFInspector{}.Inspect(context.Background(), path, props)

	// Then its pages are counted and the properties are written into the file
	require.NoError(t, err)
	assert.Equal(t, 1, pages)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	got, err := api.Properties(f, model.NewDefaultConfiguration())
	require.NoError(t, err)
	for key, want := range props {
		assert.Equal(t, want, got[key], key)
	}
}
