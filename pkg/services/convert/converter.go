package convert

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/de-tools/garage-docs/pkg/models/domain"
)

var (
	// ErrUnavailable means a converter cannot run here; the chain moves on to the next one.
	ErrUnavailable = errors.New("converter unavailable")
	// ErrNoConverter is returned when every converter in a chain is unavailable.
	ErrNoConverter = errors.New("no converter available for PDF conversion")
)

// Converter produces a fixed-layout document at out from the structural document at in.
type Converter interface {
	Name() string
	Convert(ctx context.Context, in, out string) error
}

// ConversionFailedError reports a converter that ran and failed.
type ConversionFailedError struct {
	Converter  string
	Diagnostic string
	Err        error
}

func (e *ConversionFailedError) Error() string {
	msg := fmt.Sprintf("PDF conversion failed (%s)", e.Converter)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Diagnostic != "" {
		msg += ": " + e.Diagnostic
	}
	return msg
}

func (e *ConversionFailedError) Unwrap() error { return e.Err }

// Outcome describes what a chain produced.
type Outcome struct {
	Path      string
	Converted bool
	Degraded  bool
	Converter string
	Pages     int
}

// Chain tries its converters in order until one succeeds.
type Chain struct {
	converters []Converter
	inspector  Inspector
	timeout    time.Duration
}

type ChainOptions struct {
	Converters []Converter
	// Inspector checks produced files; nil skips the check.
	Inspector Inspector
	// Timeout bounds each converter run; zero means no limit.
	Timeout time.Duration
}

func NewChain(opts ChainOptions) *Chain {
	return &Chain{
		converters: opts.Converters,
		inspector:  opts.Inspector,
		timeout:    opts.Timeout,
	}
}

func (c *Chain) Names() []string {
	names := make([]string, 0, len(c.converters))
	for _, conv := range c.converters {
		names = append(names, conv.Name())
	}
	return names
}

// PDFPath returns the fixed-layout path for a structural document.
func PDFPath(in string) string {
	return strings.TrimSuffix(in, filepath.Ext(in)) + ".pdf"
}

// Convert runs the chain on in. When no converter is available the policy
// decides between ErrNoConverter and a degraded outcome that keeps in.
func (c *Chain) Convert(ctx context.Context, in string, policy domain.ConversionPolicy, props map[string]string) (*Outcome, error) {
	logger := zerolog.Ctx(ctx)
	out := PDFPath(in)

	for _, conv := range c.converters {
		err := c.run(ctx, conv, in, out)
		if errors.Is(err, ErrUnavailable) {
			logger.Debug().Str("converter", conv.Name()).Err(err).Msg("converter skipped")
			continue
		}
		if err != nil {
			return nil, err
		}

		outcome := &Outcome{Path: out, Converted: true, Converter: conv.Name()}
		if c.inspector != nil {
			pages, err := c.inspector.Inspect(ctx, out, props)
			if err != nil {
				return nil, &ConversionFailedError{Converter: conv.Name(), Err: err}
			}
			outcome.Pages = pages
		}
		logger.Info().Str("converter", conv.Name()).Str("output", out).Int("pages", outcome.Pages).Msg("document converted")
		return outcome, nil
	}

	if policy == domain.PolicyDegrade {
		logger.Warn().Str("path", in).Strs("tried", c.Names()).Msg("no converter available, keeping structural document")
		return &Outcome{Path: in, Degraded: true}, nil
	}
	return nil, fmt.Errorf("%w (tried: %s)", ErrNoConverter, strings.Join(c.Names(), ", "))
}

func (c *Chain) run(ctx context.Context, conv Converter, in, out string) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	err := conv.Convert(ctx, in, out)
	if err != nil && !errors.Is(err, ErrUnavailable) {
		_ = os.Remove(out)
	}
	return err
}
