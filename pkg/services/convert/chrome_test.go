package convert

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChrome_Unavailable(t *testing.T) {
	noBrowser := func() string { return "" }

	tests := []struct {
		name   string
		chrome *Chrome
		input  string
	}{
		{name: "disabled", chrome: &Chrome{enabled: false, detect: noBrowser}, input: "a.html"},
		{name: "not html", chrome: &Chrome{enabled: true, execPath: "/bin/sh", detect: noBrowser}, input: "a.docx"},
		{name: "nothing detected", chrome: &Chrome{enabled: true, detect: noBrowser}, input: "a.html"},
		{name: "configured path missing", chrome: &Chrome{enabled: true, execPath: "/nonexistent/chrome", detect: noBrowser}, input: "a.html"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.chrome.Convert(context.Background(), tt.input, PDFPath(tt.input))
			assert.ErrorIs(t, err, ErrUnavailable)
		})
	}
}

func TestChrome_ExecutablePrefersConfiguredPath(t *testing.T) {
	exe := filepath.Join(t.TempDir(), "chromium")
	require.NoError(t, os.WriteFile(exe, []byte{}, 0o755))

	c := &Chrome{enabled: true, execPath: exe, detect: func() string { return "/usr/bin/other" }}
	path, err := c.Executable()
	require.NoError(t, err)
	assert.Equal(t, exe, path)

	c = &Chrome{enabled: true, detect: func() string { return "/usr/bin/other" }}
	path, err = c.Executable()
	require.NoError(t, err)
	assert.Equal(t, "/usr/bin/other", path)
}

func TestPDFInspector_RejectsNonPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fake.pdf")
	require.NoError(t, os.WriteFile(path, []byte("this is not a pdf"), 0o644))

	_, err := PDFInspector{}.Inspect(context.Background(), path, nil)
	assert.Error(t, err)
}
