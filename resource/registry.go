package resource

import (
	"fmt"
	"sort"
	"strings"
)

// Registry maps kind names to their configuration. It replaces class-name
// instantiation: only registered kinds can ever be constructed.
type Registry struct {
	kinds map[string]*Kind
}

func NewRegistry(kinds ...Kind) (*Registry, error) {
	registry := &Registry{kinds: make(map[string]*Kind, len(kinds))}
	for _, kind := range kinds {
		name := strings.TrimSpace(kind.Name)
		if name == "" {
			return nil, validationError("resource kind name must not be empty", nil)
		}
		if _, exists := registry.kinds[name]; exists {
			return nil, validationError(fmt.Sprintf("resource kind %q is registered twice", name), nil)
		}
		cloned := cloneKind(kind)
		cloned.Name = name
		registry.kinds[name] = &cloned
	}
	return registry, nil
}

// MustRegistry is NewRegistry for static catalogues; it panics on error.
func MustRegistry(kinds ...Kind) *Registry {
	registry, err := NewRegistry(kinds...)
	if err != nil {
		panic(err)
	}
	return registry
}

func (r *Registry) Kind(name string) (*Kind, bool) {
	if r == nil {
		return nil, false
	}
	kind, exists := r.kinds[name]
	return kind, exists
}

func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	names := make([]string, 0, len(r.kinds))
	for name := range r.kinds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// BasePath returns the validated base path of a registered kind.
func (r *Registry) BasePath(kindName string) (string, error) {
	kind, exists := r.Kind(kindName)
	if !exists {
		return "", invalidClassError(fmt.Sprintf("invalid resource class name %s doesn't exist", kindName))
	}
	return kind.ValidatedBasePath()
}

// New builds a resource of the named kind and fills it with data. A nil data
// produces an empty resource.
func (r *Registry) New(kindName string, data Value) (*Resource, error) {
	kind, exists := r.Kind(kindName)
	if !exists {
		return nil, invalidClassError(fmt.Sprintf("invalid resource class name %s doesn't exist", kindName))
	}

	item := &Resource{kind: kind, registry: r, attributes: NewObject()}
	if data == nil {
		return item, nil
	}
	if err := item.Fill(data); err != nil {
		return nil, err
	}
	return item, nil
}
