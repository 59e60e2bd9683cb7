package loader

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"unicode/utf8"

	"github.com/rs/zerolog"
)

// Stdin is the source designator for standard input.
const Stdin = "-"

// InputError reports an unreadable or malformed input source.
type InputError struct {
	Source string
	Err    error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("failed to load %s: %v", describe(e.Source), e.Err)
}

func (e *InputError) Unwrap() error { return e.Err }

// Load reads a JSON document from the file at source, or from stdin when
// source is "-".
func Load(ctx context.Context, source string, stdin io.Reader) (any, error) {
	logger := zerolog.Ctx(ctx)

	raw, err := read(source, stdin)
	if err != nil {
		return nil, &InputError{Source: source, Err: err}
	}
	logger.Debug().Str("source", describe(source)).Int("bytes", len(raw)).Msg("input read")

	value, err := Decode(raw)
	if err != nil {
		return nil, &InputError{Source: source, Err: err}
	}
	return value, nil
}

// Decode parses UTF-8 JSON text holding exactly one value.
func Decode(raw []byte) (any, error) {
	raw = bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))
	if !utf8.Valid(raw) {
		return nil, errors.New("input is not valid UTF-8")
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var value any
	if err := dec.Decode(&value); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("invalid JSON: unexpected data after top-level value")
	}
	return normalize(value), nil
}

// normalize replaces json.Number with int64 for integer literals and float64
// otherwise, so templates print 2 rather than 2.000000.
func normalize(v any) any {
	switch n := v.(type) {
	case json.Number:
		if i, err := strconv.ParseInt(n.String(), 10, 64); err == nil {
			return i
		}
		f, _ := n.Float64()
		return f
	case map[string]any:
		for key, value := range n {
			n[key] = normalize(value)
		}
		return n
	case []any:
		for i, value := range n {
			n[i] = normalize(value)
		}
		return n
	default:
		return v
	}
}

func read(source string, stdin io.Reader) ([]byte, error) {
	if source == Stdin {
		if stdin == nil {
			return nil, errors.New("standard input is not available")
		}
		return io.ReadAll(stdin)
	}
	return os.ReadFile(source)
}

func describe(source string) string {
	if source == Stdin {
		return "standard input"
	}
	return source
}
