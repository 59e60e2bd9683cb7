package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var invoiceKeys = []string{
	"invoice_number", "garage", "client", "vehicle",
	"defect_description", "items", "totals", "terms",
}

func completeInvoice() map[string]any {
	return map[string]any{
		"invoice_number":     "A1",
		"garage":             map[string]any{},
		"client":             map[string]any{},
		"vehicle":            map[string]any{},
		"defect_description": "x",
		"items":              []any{},
		"totals":             map[string]any{},
		"terms":              map[string]any{},
	}
}

func TestValidate_AcceptsCompleteDocument(t *testing.T) {
	data, err := Validate(completeInvoice(), invoiceKeys)

	require.NoError(t, err)
	assert.Equal(t, "A1", data["invoice_number"])
}

func TestValidate_ReportsEachMissingKey(t *testing.T) {
	for _, key := range invoiceKeys {
		t.Run(key, func(t *testing.T) {
			doc := completeInvoice()
			delete(doc, key)

			_, err := Validate(doc, invoiceKeys)

			var missing *MissingFieldError
			require.ErrorAs(t, err, &missing)
			assert.Equal(t, key, missing.Field)
			assert.Equal(t, "missing top-level key: "+key, err.Error())
		})
	}
}

func TestValidate_ReportsOnlyFirstMissingKey(t *testing.T) {
	doc := completeInvoice()
	delete(doc, "terms")
	delete(doc, "client")

	_, err := Validate(doc, invoiceKeys)

	var missing *MissingFieldError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "client", missing.Field)
}

func TestValidate_NullValueCountsAsPresent(t *testing.T) {
	doc := completeInvoice()
	doc["totals"] = nil

	_, err := Validate(doc, invoiceKeys)
	assert.NoError(t, err)
}

func TestValidate_RejectsNonObject(t *testing.T) {
	_, err := Validate([]any{1, 2}, invoiceKeys)
	assert.ErrorIs(t, err, ErrNotObject)
}
