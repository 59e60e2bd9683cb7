package document

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/de-tools/garage-docs/pkg/models/domain"
	"github.com/de-tools/garage-docs/pkg/services/config"
	"github.com/de-tools/garage-docs/pkg/services/convert"
	"github.com/de-tools/garage-docs/pkg/services/kinds"
	"github.com/de-tools/garage-docs/pkg/services/loader"
	"github.com/de-tools/garage-docs/pkg/services/totals"
	"github.com/de-tools/garage-docs/pkg/services/validate"
)

// Renderer writes the structural document for a request.
type Renderer interface {
	Render(ctx context.Context, doc *domain.Document) (string, error)
}

// Converter turns a structural document into a fixed-layout one.
type Converter interface {
	Convert(ctx context.Context, in string, policy domain.ConversionPolicy, props map[string]string) (*convert.Outcome, error)
}

type Dependencies struct {
	Kinds     kinds.Registry
	Renderer  Renderer
	Converter Converter
	// Garages is optional; it is only consulted when a profile is requested.
	Garages config.Registry
	Stdin   io.Reader
}

// Generator runs the load, validate, total, render and convert pipeline for
// one document.
type Generator struct {
	deps Dependencies
}

func NewGenerator(deps Dependencies) *Generator {
	return &Generator{deps: deps}
}

type Request struct {
	Kind   string
	Source string
	// GarageProfile names a profile whose values fill the garage record.
	GarageProfile string
}

func (g *Generator) Generate(ctx context.Context, req Request) (*domain.Result, error) {
	kind, err := g.deps.Kinds.Get(req.Kind)
	if err != nil {
		return nil, err
	}
	logger := zerolog.Ctx(ctx).With().Str("kind", kind.Name).Logger()
	ctx = logger.WithContext(ctx)

	value, err := loader.Load(ctx, req.Source, g.deps.Stdin)
	if err != nil {
		return nil, err
	}

	data, err := validate.Validate(value, kind.Required)
	if err != nil {
		return nil, err
	}
	doc := domain.NewDocument(kind, data)

	calc, err := totals.ForMode(kind.Totals)
	if err != nil {
		return nil, err
	}
	if err := calc.Apply(doc.Data); err != nil {
		return nil, fmt.Errorf("failed to calculate totals: %w", err)
	}

	if req.GarageProfile != "" {
		if err := g.applyGarageProfile(ctx, doc, req.GarageProfile); err != nil {
			return nil, err
		}
	}

	logger.Debug().Str("number", doc.Number()).Interface("totals", doc.Totals()).Msg("document prepared")

	structural, err := g.deps.Renderer.Render(ctx, doc)
	if err != nil {
		return nil, err
	}

	outcome, err := g.deps.Converter.Convert(ctx, structural, kind.OnUnavailable, properties(doc))
	if err != nil {
		return nil, err
	}

	return &domain.Result{
		Kind:       kind,
		Path:       outcome.Path,
		Structural: structural,
		Converted:  outcome.Converted,
		Degraded:   outcome.Degraded,
		Converter:  outcome.Converter,
		Pages:      outcome.Pages,
		Totals:     doc.Totals(),
	}, nil
}

func (g *Generator) applyGarageProfile(ctx context.Context, doc *domain.Document, profile string) error {
	if g.deps.Garages == nil {
		return fmt.Errorf("garage profile %q requested but no profiles file is configured", profile)
	}
	garage, err := g.deps.Garages.GetGarage(ctx, profile)
	if err != nil {
		return err
	}
	config.MergeGarage(doc.Data, garage)
	return nil
}

func properties(doc *domain.Document) map[string]string {
	props := map[string]string{
		"DocumentType":   doc.Kind.Title,
		"DocumentNumber": doc.Number(),
	}
	if garage, ok := doc.Data["garage"].(map[string]any); ok {
		if name := domain.FormatValue(garage["name"]); name != "" {
			props["Garage"] = name
		}
	}
	return props
}
