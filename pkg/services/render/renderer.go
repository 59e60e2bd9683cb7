package render

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/de-tools/garage-docs/pkg/models/domain"
)

type Options struct {
	TemplatesDir string
	OutputDir    string
	// Locale is exposed to templates as `locale`, for {{ x|money:locale }}.
	Locale string
	// Mergers maps a lower-case template extension to its merge engine.
	// Defaults to DefaultMergers().
	Mergers map[string]Merger
}

func DefaultMergers() map[string]Merger {
	return map[string]Merger{
		".docx": DocxMerger{},
		".html": HTMLMerger{},
		".htm":  HTMLMerger{},
	}
}

// Renderer writes structural documents from kind templates.
type Renderer struct {
	templatesDir string
	outputDir    string
	locale       string
	mergers      map[string]Merger
}

func NewRenderer(opts Options) *Renderer {
	if opts.Mergers == nil {
		opts.Mergers = DefaultMergers()
	}
	return &Renderer{
		templatesDir: opts.TemplatesDir,
		outputDir:    opts.OutputDir,
		locale:       opts.Locale,
		mergers:      opts.Mergers,
	}
}

// TemplatePath returns where the kind's template is expected.
func (r *Renderer) TemplatePath(kind domain.Kind) string {
	return filepath.Join(r.templatesDir, kind.Template)
}

// Check reports ErrMissingDependency when no merge engine handles the kind's template.
func (r *Renderer) Check(kind domain.Kind) error {
	_, err := r.merger(kind)
	return err
}

func (r *Renderer) merger(kind domain.Kind) (Merger, error) {
	ext := strings.ToLower(filepath.Ext(kind.Template))
	m, ok := r.mergers[ext]
	if !ok {
		return nil, fmt.Errorf("%w: no merge engine for %q templates (%s)", ErrMissingDependency, ext, kind.Template)
	}
	return m, nil
}

// Render merges doc into its kind's template and writes
// <output>/<prefix>_<number><ext>, replacing any previous file. The file is
// written to a temporary name first so a failed merge leaves nothing behind.
func (r *Renderer) Render(ctx context.Context, doc *domain.Document) (string, error) {
	logger := zerolog.Ctx(ctx)

	merger, err := r.merger(doc.Kind)
	if err != nil {
		return "", err
	}

	tplPath := r.TemplatePath(doc.Kind)
	info, err := os.Stat(tplPath)
	if errors.Is(err, fs.ErrNotExist) || (err == nil && info.IsDir()) {
		return "", fmt.Errorf("%w: %s", ErrTemplateNotFound, tplPath)
	}
	if err != nil {
		return "", fmt.Errorf("failed to stat template: %w", err)
	}

	if err := os.MkdirAll(r.outputDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	ext := filepath.Ext(doc.Kind.Template)
	outPath := filepath.Join(r.outputDir, OutputName(doc.Kind.OutputPrefix, doc.Number(), ext))

	tmp, err := os.CreateTemp(r.outputDir, ".render-*"+ext)
	if err != nil {
		return "", fmt.Errorf("failed to create output file: %w", err)
	}
	defer os.Remove(tmp.Name())

	data := doc.Data
	if r.locale != "" {
		data = withLocale(doc.Data, r.locale)
	}

	if err := merger.Merge(ctx, tplPath, data, tmp); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to render %s: %w", filepath.Base(tplPath), err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to write output file: %w", err)
	}
	if err := os.Rename(tmp.Name(), outPath); err != nil {
		return "", fmt.Errorf("failed to write output file: %w", err)
	}

	logger.Info().Str("template", tplPath).Str("output", outPath).Msg("structural document written")
	return outPath, nil
}

// OutputName builds the deterministic file name for a document. Path
// separators in the number are replaced so the file stays in the output dir.
func OutputName(prefix, number, ext string) string {
	number = strings.NewReplacer("/", "-", `\`, "-").Replace(number)
	return fmt.Sprintf("%s_%s%s", prefix, number, ext)
}

func withLocale(data map[string]any, locale string) map[string]any {
	if _, taken := data["locale"]; taken {
		return data
	}
	out := make(map[string]any, len(data)+1)
	for k, v := range data {
		out[k] = v
	}
	out["locale"] = locale
	return out
}
