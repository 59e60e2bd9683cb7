package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/de-tools/garage-docs/pkg/models/domain"
	"github.com/de-tools/garage-docs/pkg/services/document"
	"github.com/de-tools/garage-docs/pkg/services/loader"
)

type GenerateCmd struct {
	kind string
	env  *Env
}

// NewGenerateCmd builds the command for one document kind. Kinds that require
// a source take exactly one argument; the others read stdin when none is given.
func NewGenerateCmd(kind domain.Kind, env *Env) *cobra.Command {
	gc := &GenerateCmd{kind: kind.Name, env: env}

	use := fmt.Sprintf("%s [data.json|-]", kind.Name)
	args := cobra.MaximumNArgs(1)
	if kind.RequireSource {
		use = fmt.Sprintf("%s <data.json|->", kind.Name)
		args = cobra.ExactArgs(1)
	}

	return &cobra.Command{
		Use:   use,
		Short: fmt.Sprintf("Generate a %s from JSON data", strings.ToLower(kind.Title)),
		Args:  UsageArgs(args),
		RunE:  gc.run,
	}
}

func (gc *GenerateCmd) run(cmd *cobra.Command, args []string) error {
	kind, err := gc.env.Kinds.Get(gc.kind)
	if err != nil {
		return err
	}
	if err := gc.env.Renderer.Check(kind); err != nil {
		return err
	}

	source := loader.Stdin
	if len(args) == 1 {
		source = args[0]
	}

	result, err := gc.env.Generator.Generate(cmd.Context(), document.Request{
		Kind:          gc.kind,
		Source:        source,
		GarageProfile: gc.env.GarageProfile,
	})
	if err != nil {
		return err
	}

	return gc.env.Reporter.Handle(result)
}
