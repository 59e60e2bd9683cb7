package document

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/de-tools/garage-docs/pkg/models/domain"
	"github.com/de-tools/garage-docs/pkg/services/config"
	"github.com/de-tools/garage-docs/pkg/services/convert"
	"github.com/de-tools/garage-docs/pkg/services/kinds"
	"github.com/de-tools/garage-docs/pkg/services/render"
	"github.com/de-tools/garage-docs/pkg/services/validate"
)

const invoiceJSON = `{"invoice_number":"A1","garage":{},"client":{},"vehicle":{},"defect_description":"x","items":[{"qty":2,"unit_cost":10}],"totals":{},"terms":{}}`

const quoteJSON = `{"quote_number":"Q7","garage":{"name":"Main Street Motors"},"client":{},"vehicle":{},"defect":"noise","items":[{"qty":1,"unit_cost":100,"unit_price":150}],"totals":{},"terms":{}}`

type mockConverter struct {
	mock.Mock
}

func (m *mockConverter) Convert(ctx context.Context, in string, policy domain.ConversionPolicy, props map[string]string) (*convert.Outcome, error) {
	args := m.Called(ctx, in, policy, props)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*convert.Outcome), args.Error(1)
}

type unavailableConverter struct{ name string }

func (u unavailableConverter) Name() string { return u.name }

func (u unavailableConverter) Convert(context.Context, string, string) error {
	return convert.ErrUnavailable
}

type fixture struct {
	root      string
	templates string
	output    string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	root := t.TempDir()
	f := fixture{root: root, templates: filepath.Join(root, "templates"), output: filepath.Join(root, "output")}
	require.NoError(t, os.MkdirAll(f.templates, 0o755))
	return f
}

func (f fixture) template(t *testing.T, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(f.templates, name), []byte(body), 0o644))
}

func (f fixture) input(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(f.root, "data.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func htmlKinds(t *testing.T) kinds.Registry {
	t.Helper()
	ks, err := kinds.Defaults(
		map[string]string{"invoice": "invoice.html", "quote": "quote.html"},
		nil,
	)
	require.NoError(t, err)
	registry, err := kinds.NewRegistry(ks...)
	require.NoError(t, err)
	return registry
}

func TestGenerate_InvoiceEndToEnd(t *testing.T) {
	f := newFixture(t)
	f.template(t, "invoice.html", `{{ invoice_number }}:{{ totals.total|amount }}`)

	conv := new(mockConverter)
	structural := filepath.Join(f.output, "invoice_A1.html")
	conv.On("Convert", mock.Anything, structural, domain.PolicyDegrade,
		map[string]string{"DocumentType": "Invoice", "DocumentNumber": "A1"}).
		Return(&convert.Outcome{Path: convert.PDFPath(structural), Converted: true, Converter: "chrome", Pages: 1}, nil)

	gen := NewGenerator(Dependencies{
		Kinds:     htmlKinds(t),
		Renderer:  render.NewRenderer(render.Options{TemplatesDir: f.templates, OutputDir: f.output}),
		Converter: conv,
	})

	result, err := gen.Generate(context.Background(), Request{Kind: "invoice", Source: f.input(t, invoiceJSON)})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(f.output, "invoice_A1.pdf"), result.Path)
	assert.Equal(t, structural, result.Structural)
	assert.True(t, result.Converted)
	assert.Equal(t, map[string]any{"total": 20.0}, result.Totals)

	body, err := os.ReadFile(structural)
	require.NoError(t, err)
	assert.Equal(t, "A1:20.00", string(body))
	conv.AssertExpectations(t)
}

func TestGenerate_StdinMatchesFile(t *testing.T) {
	f := newFixture(t)
	f.template(t, "quote.html", `{{ totals.total_cost|amount }}|{{ totals.profit|amount }}|{{ totals.markup_percent|amount }}`)

	// degrade so the empty chain keeps the structural document
	ks, err := kinds.Defaults(map[string]string{"quote": "quote.html"}, map[string]string{"quote": "degrade"})
	require.NoError(t, err)
	registry, err := kinds.NewRegistry(ks...)
	require.NoError(t, err)

	newGen := func(stdin string) *Generator {
		return NewGenerator(Dependencies{
			Kinds:     registry,
			Renderer:  render.NewRenderer(render.Options{TemplatesDir: f.templates, OutputDir: f.output}),
			Converter: convert.NewChain(convert.ChainOptions{}),
			Stdin:     strings.NewReader(stdin),
		})
	}

	fileResult, err := newGen("").Generate(context.Background(), Request{Kind: "quote", Source: f.input(t, quoteJSON)})
	require.NoError(t, err)
	fileBody, err := os.ReadFile(fileResult.Path)
	require.NoError(t, err)

	stdinResult, err := newGen(quoteJSON).Generate(context.Background(), Request{Kind: "quote", Source: "-"})
	require.NoError(t, err)
	stdinBody, err := os.ReadFile(stdinResult.Path)
	require.NoError(t, err)

	assert.Equal(t, fileResult, stdinResult)
	assert.Equal(t, "100.00|50.00|50.00", string(stdinBody))
	assert.Equal(t, fileBody, stdinBody)
	assert.True(t, stdinResult.Degraded)
	assert.Equal(t, filepath.Join(f.output, "quote_Q7.html"), stdinResult.Path)
	assert.Equal(t, map[string]any{"total_cost": 100.0, "profit": 50.0, "markup_percent": 50.0}, stdinResult.Totals)
}

func TestGenerate_MissingConverters(t *testing.T) {
	f := newFixture(t)
	f.template(t, "invoice.html", `{{ invoice_number }}`)
	f.template(t, "quote.html", `{{ quote_number }}`)

	gen := NewGenerator(Dependencies{
		Kinds:    htmlKinds(t),
		Renderer: render.NewRenderer(render.Options{TemplatesDir: f.templates, OutputDir: f.output}),
		Converter: convert.NewChain(convert.ChainOptions{
			Converters: []convert.Converter{unavailableConverter{"chrome"}, unavailableConverter{"unoconv"}},
		}),
	})

	t.Run("invoice degrades to the structural document", func(t *testing.T) {
		result, err := gen.Generate(context.Background(), Request{Kind: "invoice", Source: f.input(t, invoiceJSON)})
		require.NoError(t, err)
		assert.True(t, result.Degraded)
		assert.False(t, result.Converted)
		assert.Equal(t, filepath.Join(f.output, "invoice_A1.html"), result.Path)
	})

	t.Run("quote fails", func(t *testing.T) {
		_, err := gen.Generate(context.Background(), Request{Kind: "quote", Source: f.input(t, quoteJSON)})
		assert.ErrorIs(t, err, convert.ErrNoConverter)
	})
}

func TestGenerate_ValidationStopsBeforeRendering(t *testing.T) {
	f := newFixture(t)
	f.template(t, "quote.html", `{{ quote_number }}`)
	conv := new(mockConverter)

	gen := NewGenerator(Dependencies{
		Kinds:     htmlKinds(t),
		Renderer:  render.NewRenderer(render.Options{TemplatesDir: f.templates, OutputDir: f.output}),
		Converter: conv,
	})

	// an invoice document is missing quote_number and defect
	_, err := gen.Generate(context.Background(), Request{Kind: "quote", Source: f.input(t, invoiceJSON)})

	var missing *validate.MissingFieldError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "quote_number", missing.Field)
	_, statErr := os.Stat(f.output)
	assert.True(t, os.IsNotExist(statErr))
	conv.AssertNotCalled(t, "Convert", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestGenerate_TemplateNotFound(t *testing.T) {
	f := newFixture(t)
	gen := NewGenerator(Dependencies{
		Kinds:     htmlKinds(t),
		Renderer:  render.NewRenderer(render.Options{TemplatesDir: f.templates, OutputDir: f.output}),
		Converter: new(mockConverter),
	})

	_, err := gen.Generate(context.Background(), Request{Kind: "invoice", Source: f.input(t, invoiceJSON)})

	assert.ErrorIs(t, err, render.ErrTemplateNotFound)
	_, statErr := os.Stat(f.output)
	assert.True(t, os.IsNotExist(statErr), "no output may be written without a template")
}

func TestGenerate_GarageProfile(t *testing.T) {
	f := newFixture(t)
	f.template(t, "invoice.html", `{{ garage.name }} {{ garage.phone }}`)
	profilesPath := filepath.Join(f.root, "garages.ini")
	require.NoError(t, os.WriteFile(profilesPath, []byte("[depot]\nname = Depot Garage\nphone = 0123\n"), 0o644))
	garages, err := config.NewRegistry(profilesPath)
	require.NoError(t, err)

	gen := NewGenerator(Dependencies{
		Kinds:     htmlKinds(t),
		Renderer:  render.NewRenderer(render.Options{TemplatesDir: f.templates, OutputDir: f.output}),
		Converter: convert.NewChain(convert.ChainOptions{}),
		Garages:   garages,
	})

	result, err := gen.Generate(context.Background(), Request{Kind: "invoice", Source: f.input(t, invoiceJSON), GarageProfile: "depot"})
	require.NoError(t, err)
	body, err := os.ReadFile(result.Path)
	require.NoError(t, err)
	assert.Equal(t, "Depot Garage 0123", string(body))

	_, err = gen.Generate(context.Background(), Request{Kind: "invoice", Source: f.input(t, invoiceJSON), GarageProfile: "nowhere"})
	var notFound *config.ProfileNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, []string{"depot"}, notFound.Available)
}

func TestGenerate_UnknownKind(t *testing.T) {
	gen := NewGenerator(Dependencies{Kinds: htmlKinds(t)})

	_, err := gen.Generate(context.Background(), Request{Kind: "receipt", Source: "-"})
	assert.Error(t, err)
}
