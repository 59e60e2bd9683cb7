package render

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"sync"

	"github.com/flosch/pongo2/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Merger substitutes document data into a template file and writes the
// merged structural document to w.
type Merger interface {
	Merge(ctx context.Context, templatePath string, data map[string]any, w io.Writer) error
}

var (
	registerOnce  sync.Once
	identifierKey = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
)

func registerFilters() {
	registerOnce.Do(func() {
		if !pongo2.FilterExists("money") {
			_ = pongo2.RegisterFilter("money", moneyFilter)
		}
		if !pongo2.FilterExists("amount") {
			_ = pongo2.RegisterFilter("amount", amountFilter)
		}
	})
}

// newTemplateSet returns a pongo2 set rooted at the template's directory so
// includes resolve next to it.
func newTemplateSet(name, templatePath string) (*pongo2.TemplateSet, error) {
	registerFilters()
	loader, err := pongo2.NewLocalFileSystemLoader(filepath.Dir(templatePath))
	if err != nil {
		return nil, fmt.Errorf("create template loader: %w", err)
	}
	return pongo2.NewSet(name, loader), nil
}

// templateContext drops top-level keys pongo2 cannot address.
func templateContext(data map[string]any) pongo2.Context {
	out := make(pongo2.Context, len(data))
	for key, value := range data {
		if identifierKey.MatchString(key) {
			out[key] = value
		}
	}
	return out
}

// moneyFilter formats a number with two decimals and locale digit grouping:
// {{ totals.total|money }} or {{ totals.total|money:"de-DE" }}.
func moneyFilter(in *pongo2.Value, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	tag := language.BritishEnglish
	if param != nil && !param.IsNil() && param.String() != "" {
		parsed, err := language.Parse(param.String())
		if err != nil {
			return nil, &pongo2.Error{Sender: "filter:money", OrigError: err}
		}
		tag = parsed
	}
	v, ok := toFloat(in)
	if !ok {
		return in, nil
	}
	return pongo2.AsValue(message.NewPrinter(tag).Sprint(number.Decimal(v, number.Scale(2)))), nil
}

// amountFilter formats a number with two decimals and no grouping.
func amountFilter(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	v, ok := toFloat(in)
	if !ok {
		return in, nil
	}
	return pongo2.AsValue(fmt.Sprintf("%.2f", v)), nil
}

func toFloat(in *pongo2.Value) (float64, bool) {
	if in == nil || in.IsNil() {
		return 0, true
	}
	if in.IsNumber() {
		return in.Float(), true
	}
	if in.IsString() {
		var f float64
		if _, err := fmt.Sscan(in.String(), &f); err == nil {
			return f, true
		}
	}
	return 0, false
}
