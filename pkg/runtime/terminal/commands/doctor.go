package commands

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/de-tools/garage-docs/pkg/models/domain"
	"github.com/de-tools/garage-docs/pkg/runtime/terminal/export"
	"github.com/de-tools/garage-docs/pkg/services/render"
)

type executable interface {
	Executable() (string, error)
}

type DoctorCmd struct {
	env *Env
}

// NewDoctorCmd reports which templates and converters this installation can use.
func NewDoctorCmd(env *Env) *cobra.Command {
	dc := &DoctorCmd{env: env}
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check templates and PDF converters",
		Args:  UsageArgs(cobra.NoArgs),
		RunE:  dc.run,
	}
}

func (dc *DoctorCmd) run(cmd *cobra.Command, _ []string) error {
	var templates []export.Row
	for _, kind := range dc.env.Kinds.List() {
		templates = append(templates, export.Row{
			Name:   kind.Name,
			Value:  dc.env.Renderer.TemplatePath(kind),
			Detail: templateStatus(dc.env.Renderer, kind),
		})
	}

	var converters []export.Row
	for _, conv := range dc.env.Converters {
		row := export.Row{Name: conv.Name(), Value: "-", Detail: "ok"}
		if exe, ok := conv.(executable); ok {
			path, err := exe.Executable()
			if err != nil {
				row.Detail = err.Error()
			} else {
				row.Value = path
			}
		}
		converters = append(converters, row)
	}

	if err := dc.env.Reporter.Table("Templates", export.Row{Name: "Kind", Value: "Path", Detail: "Status"}, templates); err != nil {
		return err
	}
	if err := dc.env.Reporter.Table("Converters", export.Row{Name: "Converter", Value: "Executable", Detail: "Status"}, converters); err != nil {
		return err
	}

	if dc.env.Garages == nil {
		return nil
	}
	profiles, err := dc.env.Garages.GetProfiles(cmd.Context())
	if err != nil {
		return err
	}
	var garages []export.Row
	for _, profile := range profiles {
		row := export.Row{Name: profile, Value: "-", Detail: "ok"}
		garage, err := dc.env.Garages.GetGarage(cmd.Context(), profile)
		if err != nil {
			row.Detail = err.Error()
		} else if name, ok := garage["name"].(string); ok {
			row.Value = name
		} else {
			row.Detail = "no name"
		}
		garages = append(garages, row)
	}
	return dc.env.Reporter.Table("Garage profiles", export.Row{Name: "Profile", Value: "Name", Detail: "Status"}, garages)
}

func templateStatus(r *render.Renderer, kind domain.Kind) string {
	if err := r.Check(kind); err != nil {
		return err.Error()
	}
	info, err := os.Stat(r.TemplatePath(kind))
	switch {
	case errors.Is(err, os.ErrNotExist):
		return "missing"
	case err != nil:
		return err.Error()
	case info.IsDir():
		return "not a file"
	}
	return "ok"
}
