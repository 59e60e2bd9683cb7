package render

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
)

// HTMLMerger merges data into an HTML template. Output is autoescaped.
type HTMLMerger struct{}

func (HTMLMerger) Merge(_ context.Context, templatePath string, data map[string]any, w io.Writer) error {
	set, err := newTemplateSet("html", templatePath)
	if err != nil {
		return err
	}
	tpl, err := set.FromFile(filepath.Base(templatePath))
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}
	if err := tpl.ExecuteWriter(templateContext(data), w); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}
	return nil
}
