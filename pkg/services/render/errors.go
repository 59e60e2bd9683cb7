package render

import "errors"

var (
	// ErrTemplateNotFound is returned when a kind's template file does not exist.
	ErrTemplateNotFound = errors.New("template not found")
	// ErrMissingDependency is returned when no merge engine handles a template's format.
	ErrMissingDependency = errors.New("missing dependency")
)
