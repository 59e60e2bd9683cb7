package commands

import (
	"github.com/de-tools/garage-docs/pkg/runtime/terminal/export"
	"github.com/de-tools/garage-docs/pkg/services/config"
	"github.com/de-tools/garage-docs/pkg/services/convert"
	"github.com/de-tools/garage-docs/pkg/services/document"
	"github.com/de-tools/garage-docs/pkg/services/kinds"
	"github.com/de-tools/garage-docs/pkg/services/render"
)

// Env holds the services a command runs against. The root command fills it
// in before any subcommand runs, once flags and settings are known.
type Env struct {
	Kinds      kinds.Registry
	Renderer   *render.Renderer
	Converters []convert.Converter
	Generator  *document.Generator
	Reporter   *export.Reporter
	// Garages is nil when no profiles file is configured.
	Garages config.Registry

	GarageProfile string
}
