package kinds

import (
	"fmt"
	"sort"
	"sync"

	"github.com/de-tools/garage-docs/pkg/models/domain"
)

// Registry manages the document kinds the generator knows about.
type Registry interface {
	// Register adds a new document kind
	Register(kind domain.Kind) error
	// Get returns the kind registered under name
	Get(name string) (domain.Kind, error)
	// List returns all registered kinds sorted by name
	List() []domain.Kind
}

type registry struct {
	mu    sync.RWMutex
	kinds map[string]domain.Kind
}

// NewRegistry creates a registry holding the given kinds.
func NewRegistry(kinds ...domain.Kind) (Registry, error) {
	r := &registry{kinds: make(map[string]domain.Kind)}
	for _, k := range kinds {
		if err := r.Register(k); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *registry) Register(kind domain.Kind) error {
	if kind.Name == "" {
		return fmt.Errorf("kind name cannot be empty")
	}
	if kind.NumberField == "" {
		return fmt.Errorf("kind %q has no number field", kind.Name)
	}
	if kind.Template == "" {
		return fmt.Errorf("kind %q has no template", kind.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.kinds[kind.Name]; exists {
		return fmt.Errorf("kind %q is already registered", kind.Name)
	}

	r.kinds[kind.Name] = kind
	return nil
}

func (r *registry) Get(name string) (domain.Kind, error) {
	r.mu.RLock()
	kind, exists := r.kinds[name]
	r.mu.RUnlock()

	if !exists {
		return domain.Kind{}, fmt.Errorf("kind %q is not registered", name)
	}
	return kind, nil
}

func (r *registry) List() []domain.Kind {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Kind, 0, len(r.kinds))
	for _, kind := range r.kinds {
		out = append(out, kind)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
