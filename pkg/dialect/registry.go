package dialect

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// ErrNotFound is returned by Get for unknown encoder names.
var ErrNotFound = errors.New("dialect: encoder not found")

// Registry maps encoder names to encoders. Names and file extensions are
// both unique within a registry, since artifacts of different dialects may
// share a base name.
type Registry struct {
	mu         sync.RWMutex
	byName     map[string]Encoder
	extensions map[string]string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byName:     make(map[string]Encoder),
		extensions: make(map[string]string),
	}
}

// Register adds encoder under its Name.
func (r *Registry) Register(encoder Encoder) error {
	if encoder == nil {
		return errors.New("dialect: encoder is required")
	}
	name, ext := encoder.Name(), encoder.Extension()
	if name == "" {
		return errors.New("dialect: encoder name is required")
	}
	if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
		return fmt.Errorf("dialect: encoder %q: invalid extension %q", name, ext)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byName[name]; ok {
		return fmt.Errorf("dialect: encoder %q already registered", name)
	}
	if owner, ok := r.extensions[ext]; ok {
		return fmt.Errorf("dialect: extension %q already used by %q", ext, owner)
	}
	r.byName[name] = encoder
	r.extensions[ext] = name
	return nil
}

// MustRegister is Register for wiring that cannot fail at runtime.
func (r *Registry) MustRegister(encoder Encoder) {
	if err := r.Register(encoder); err != nil {
		panic(err)
	}
}

// Get returns the encoder registered as name. The error for an unknown name
// wraps ErrNotFound and lists the registered names.
func (r *Registry) Get(name string) (Encoder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if encoder, ok := r.byName[name]; ok {
		return encoder, nil
	}
	known := make([]string, 0, len(r.byName))
	for n := range r.byName {
		known = append(known, n)
	}
	sort.Strings(known)
	return nil, fmt.Errorf("%w: %q (registered: %s)", ErrNotFound, name, strings.Join(known, ", "))
}
