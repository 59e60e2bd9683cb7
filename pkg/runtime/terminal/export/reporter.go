package export

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/de-tools/garage-docs/pkg/models/domain"
)

type TableConfig struct {
	NameWidth   int
	ValueWidth  int
	DetailWidth int
}

func DefaultTableConfig() TableConfig {
	return TableConfig{
		NameWidth:   12,
		ValueWidth:  40,
		DetailWidth: 60,
	}
}

// Row is one line of a table printed by Table.
type Row struct {
	Name   string
	Value  string
	Detail string
}

type Reporter struct {
	writer    io.Writer
	errWriter io.Writer
	config    TableConfig
}

func NewReporter(writer, errWriter io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	if errWriter == nil {
		errWriter = os.Stderr
	}
	return &Reporter{
		writer:    writer,
		errWriter: errWriter,
		config:    DefaultTableConfig(),
	}
}

const resultTmpl = `{{.Kind.Title}} generated at: {{.Path}}
`

const degradedTmpl = `warning: fixed-layout conversion unavailable, kept {{.Structural}}
`

// Handle prints the reported path of a generated document. A degraded run
// also gets a warning on the error stream.
func (c *Reporter) Handle(result *domain.Result) error {
	if err := c.execute(c.writer, "result", resultTmpl, result); err != nil {
		return err
	}
	if result.Degraded {
		return c.execute(c.errWriter, "degraded", degradedTmpl, result)
	}
	return nil
}

// Table prints rows under a title with fixed column widths.
func (c *Reporter) Table(title string, header Row, rows []Row) error {
	funcMap := template.FuncMap{
		"formatRow": func(r Row) string {
			return fmt.Sprintf("| %-*s | %-*s | %-*s |",
				c.config.NameWidth, r.Name,
				c.config.ValueWidth, r.Value,
				c.config.DetailWidth, r.Detail)
		},
		"separator": func() string {
			return fmt.Sprintf("+%s+%s+%s+",
				strings.Repeat("-", c.config.NameWidth+2),
				strings.Repeat("-", c.config.ValueWidth+2),
				strings.Repeat("-", c.config.DetailWidth+2))
		},
	}

	tmpl := `=== {{.Title}} ===
{{separator}}
{{formatRow .Header}}
{{separator}}
{{range .Rows}}{{formatRow .}}
{{end}}{{separator}}
`

	t, err := template.New("table").Funcs(funcMap).Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	return t.Execute(c.writer, struct {
		Title  string
		Header Row
		Rows   []Row
	}{title, header, rows})
}

func (c *Reporter) execute(w io.Writer, name, text string, data any) error {
	t, err := template.New(name).Parse(text)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}
	return t.Execute(w, data)
}
