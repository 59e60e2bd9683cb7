package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/de-tools/garage-docs/pkg/runtime/terminal/export"
)

type KindsCmd struct {
	env *Env
}

func NewKindsCmd(env *Env) *cobra.Command {
	kc := &KindsCmd{env: env}
	return &cobra.Command{
		Use:   "kinds",
		Short: "List supported document kinds",
		Args:  UsageArgs(cobra.NoArgs),
		RunE:  kc.run,
	}
}

func (kc *KindsCmd) run(cmd *cobra.Command, _ []string) error {
	list := kc.env.Kinds.List()
	if len(list) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No document kinds registered")
		return nil
	}

	rows := make([]export.Row, 0, len(list))
	for _, kind := range list {
		rows = append(rows, export.Row{
			Name:   kind.Name,
			Value:  kc.env.Renderer.TemplatePath(kind),
			Detail: strings.Join(kind.Required, ", "),
		})
	}

	return kc.env.Reporter.Table("Document kinds",
		export.Row{Name: "Kind", Value: "Template", Detail: "Required fields"}, rows)
}
