package convert

import (
	"context"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/rs/zerolog"
)

// Inspector checks a produced fixed-layout file and returns its page count.
type Inspector interface {
	Inspect(ctx context.Context, path string, props map[string]string) (int, error)
}

// PDFInspector validates PDFs with pdfcpu and stamps document properties.
type PDFInspector struct{}

func (PDFInspector) Inspect(ctx context.Context, path string, props map[string]string) (int, error) {
	logger := zerolog.Ctx(ctx)

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	if err := api.ValidateFile(path, conf); err != nil {
		return 0, fmt.Errorf("invalid PDF %s: %w", path, err)
	}

	pages, err := api.PageCountFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to count pages: %w", err)
	}

	if len(props) > 0 {
		if err := api.AddPropertiesFile(path, "", props, conf); err != nil {
			// the PDF itself is valid, only the metadata is missing
			logger.Warn().Err(err).Str("path", path).Msg("failed to set PDF properties")
		}
	}
	return pages, nil
}
