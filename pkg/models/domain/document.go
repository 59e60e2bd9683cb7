package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Document is a single generation request. Data is the decoded JSON object and
// is mutated in place as it moves through the pipeline.
type Document struct {
	Kind Kind
	Data map[string]any
}

func NewDocument(kind Kind, data map[string]any) *Document {
	return &Document{Kind: kind, Data: data}
}

// Number renders the document identifier. Whole numbers print without a
// fractional part so `1001` and `"1001"` name the same file.
func (d *Document) Number() string {
	return FormatValue(d.Data[d.Kind.NumberField])
}

// Totals returns the totals record, or nil when it is absent or not an object.
func (d *Document) Totals() map[string]any {
	totals, _ := d.Data["totals"].(map[string]any)
	return totals
}

func FormatValue(v any) string {
	switch n := v.(type) {
	case nil:
		return ""
	case string:
		return n
	case float64:
		if n == math.Trunc(n) && math.Abs(n) < 1e15 {
			return strconv.FormatInt(int64(n), 10)
		}
		return strconv.FormatFloat(n, 'f', -1, 64)
	case json.Number:
		return n.String()
	case int:
		return strconv.Itoa(n)
	case int64:
		return strconv.FormatInt(n, 10)
	default:
		return fmt.Sprint(n)
	}
}
