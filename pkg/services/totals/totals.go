package totals

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/de-tools/garage-docs/pkg/models/domain"
)

// Calculator derives aggregate monetary fields from a document's line items
// and stores them under "totals".
type Calculator interface {
	Apply(data map[string]any) error
}

// InvalidItemsError is returned when items is not a list of objects.
type InvalidItemsError struct {
	Index int // -1 when items itself has the wrong shape
	Got   any
}

func (e *InvalidItemsError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("items must be a list, got %T", e.Got)
	}
	return fmt.Sprintf("items[%d] must be an object, got %T", e.Index, e.Got)
}

// ForMode returns the calculator for a kind's totals mode.
func ForMode(mode domain.TotalsMode) (Calculator, error) {
	switch mode {
	case domain.TotalsInvoice:
		return Invoice{}, nil
	case domain.TotalsQuote:
		return Quote{}, nil
	case domain.TotalsNone, "":
		return None{}, nil
	default:
		return nil, fmt.Errorf("unknown totals mode %q", mode)
	}
}

// Invoice replaces totals with {"total": Σ qty·unit_cost}.
type Invoice struct{}

func (Invoice) Apply(data map[string]any) error {
	items, err := lineItems(data)
	if err != nil {
		return err
	}

	var cost float64
	for _, it := range items {
		cost += number(it["qty"]) * number(it["unit_cost"])
	}

	data["totals"] = map[string]any{"total": Round2(cost)}
	return nil
}

// Quote merges total_cost, profit and markup_percent into the existing totals.
type Quote struct{}

func (Quote) Apply(data map[string]any) error {
	items, err := lineItems(data)
	if err != nil {
		return err
	}

	var cost, price float64
	for _, it := range items {
		qty := number(it["qty"])
		cost += qty * number(it["unit_cost"])
		price += qty * number(it["unit_price"])
	}

	profit := price - cost
	markup := 0.0
	if cost != 0 {
		markup = profit / cost * 100
	}

	totals, ok := data["totals"].(map[string]any)
	if !ok {
		totals = make(map[string]any)
		data["totals"] = totals
	}
	totals["total_cost"] = Round2(cost)
	totals["markup_percent"] = Round2(markup)
	totals["profit"] = Round2(profit)
	return nil
}

// None leaves the document untouched.
type None struct{}

func (None) Apply(map[string]any) error { return nil }

// Round2 rounds the exact binary value to two decimal places. Exact ties go
// to the even digit, as Python's round does.
func Round2(v float64) float64 {
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 2, 64), 64)
	if err != nil || r == 0 {
		return 0 // no negative zero in output
	}
	return r
}

func lineItems(data map[string]any) ([]map[string]any, error) {
	raw, present := data["items"]
	if !present || raw == nil {
		return nil, nil
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, &InvalidItemsError{Index: -1, Got: raw}
	}

	items := make([]map[string]any, 0, len(list))
	for i, entry := range list {
		item, ok := entry.(map[string]any)
		if !ok {
			return nil, &InvalidItemsError{Index: i, Got: entry}
		}
		items = append(items, item)
	}
	return items, nil
}

// number reads a numeric field leniently: missing or unparseable values count as zero.
func number(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0
		}
		return f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0
		}
		return f
	default:
		return 0
	}
}
