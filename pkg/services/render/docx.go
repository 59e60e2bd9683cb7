package render

import (
	"archive/zip"
	"context"
	"fmt"
	"html"
	"io"
	"path"
	"regexp"
	"strings"

	"github.com/rs/zerolog"
)

// DocxMerger merges data into an OOXML word-processing template. Tags use
// Jinja syntax; the row, paragraph and run forms {%tr %}, {%p %} and {%r %}
// replace their whole enclosing element, so a loop can repeat table rows.
type DocxMerger struct{}

var (
	// a Jinja tag whose characters Word may have split across several runs
	splitTag = regexp.MustCompile(`(?s)\{(?:<[^>]+>)*([{%])(.*?)([}%])(?:<[^>]+>)*\}`)
	xmlTag   = regexp.MustCompile(`<[^>]+>`)

	smartQuotes = strings.NewReplacer("‘", "'", "’", "'", "“", `"`, "”", `"`)

	blockTags = []struct{ prefix, element string }{
		{"{%tr ", "w:tr"},
		{"{%p ", "w:p"},
		{"{%r ", "w:r"},
	}
)

func (DocxMerger) Merge(ctx context.Context, templatePath string, data map[string]any, w io.Writer) error {
	logger := zerolog.Ctx(ctx)

	reader, err := zip.OpenReader(templatePath)
	if err != nil {
		return fmt.Errorf("failed to open docx template: %w", err)
	}
	defer reader.Close()

	set, err := newTemplateSet("docx", templatePath)
	if err != nil {
		return err
	}
	tplCtx := templateContext(data)

	out := zip.NewWriter(w)
	for _, f := range reader.File {
		if !isTemplatedPart(f.Name) {
			if err := out.Copy(f); err != nil {
				return fmt.Errorf("failed to copy %s: %w", f.Name, err)
			}
			continue
		}

		raw, err := readPart(f)
		if err != nil {
			return err
		}
		source, err := PrepareXML(raw)
		if err != nil {
			return fmt.Errorf("%s: %w", f.Name, err)
		}
		tpl, err := set.FromString(source)
		if err != nil {
			return fmt.Errorf("failed to parse %s: %w", f.Name, err)
		}

		part, err := out.CreateHeader(&zip.FileHeader{
			Name:     f.Name,
			Method:   zip.Deflate,
			Modified: f.Modified,
		})
		if err != nil {
			return fmt.Errorf("failed to write %s: %w", f.Name, err)
		}
		if err := tpl.ExecuteWriter(tplCtx, part); err != nil {
			return fmt.Errorf("failed to render %s: %w", f.Name, err)
		}
		logger.Debug().Str("part", f.Name).Msg("docx part merged")
	}
	return out.Close()
}

func isTemplatedPart(name string) bool {
	if name == "word/document.xml" {
		return true
	}
	dir, base := path.Split(name)
	if dir != "word/" || !strings.HasSuffix(base, ".xml") {
		return false
	}
	return strings.HasPrefix(base, "header") || strings.HasPrefix(base, "footer")
}

func readPart(f *zip.File) (string, error) {
	rc, err := f.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", f.Name, err)
	}
	defer rc.Close()

	b, err := io.ReadAll(rc)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", f.Name, err)
	}
	return string(b), nil
}

// PrepareXML turns WordprocessingML holding Jinja tags into a pongo2 template:
// tags split across runs are joined, entities and smart quotes inside tags are
// restored and block tags replace their enclosing element.
func PrepareXML(xml string) (string, error) {
	xml = splitTag.ReplaceAllStringFunc(xml, func(m string) string {
		parts := splitTag.FindStringSubmatch(m)
		inner := xmlTag.ReplaceAllString(parts[2], "")
		inner = smartQuotes.Replace(html.UnescapeString(inner))
		return "{" + parts[1] + inner + parts[3] + "}"
	})

	for _, bt := range blockTags {
		var err error
		xml, err = collapseBlockTags(xml, bt.prefix, bt.element)
		if err != nil {
			return "", err
		}
	}
	return xml, nil
}

// collapseBlockTags replaces each element holding a prefixed tag such as
// {%tr for x in y %} with the plain tag {% for x in y %}.
func collapseBlockTags(xml, prefix, element string) (string, error) {
	open := "<" + element
	closing := "</" + element + ">"

	for {
		idx := strings.Index(xml, prefix)
		if idx < 0 {
			return xml, nil
		}
		tagLen := strings.Index(xml[idx:], "%}")
		if tagLen < 0 {
			return "", fmt.Errorf("unterminated tag %q", prefix)
		}
		tagEnd := idx + tagLen + len("%}")
		expr := strings.TrimSpace(xml[idx+len(prefix) : tagEnd-len("%}")])

		start := max(strings.LastIndex(xml[:idx], open+">"), strings.LastIndex(xml[:idx], open+" "))
		endRel := strings.Index(xml[tagEnd:], closing)
		if start < 0 || endRel < 0 {
			return "", fmt.Errorf("tag %q is not inside a <%s> element", strings.TrimSpace(prefix)+" "+expr+" %}", element)
		}
		end := tagEnd + endRel + len(closing)

		xml = xml[:start] + "{% " + expr + " %}" + xml[end:]
	}
}
