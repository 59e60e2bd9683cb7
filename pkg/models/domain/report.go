package domain

// Result describes the files produced by one generation run.
type Result struct {
	Kind Kind
	// Path is the file reported to the caller: the fixed-layout document when
	// conversion succeeded, the structural document otherwise.
	Path       string
	Structural string
	Converted  bool
	// Degraded is set when no converter was available and the policy allowed
	// keeping the structural document.
	Degraded  bool
	Converter string
	Pages     int
	Totals    map[string]any
}
