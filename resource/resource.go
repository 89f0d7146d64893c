package resource

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Resource is the local representation of one remote entity. Attributes are
// dynamic; the kind decides which of them are cast into nested resources.
type Resource struct {
	kind       *Kind
	registry   *Registry
	attributes *Object
}

func (r *Resource) Kind() *Kind {
	return r.kind
}

func (r *Resource) KindName() string {
	return r.kind.label()
}

// Fill assigns every key of data through Set. data must be a dataset.
func (r *Resource) Fill(data Value) error {
	object, ok := AsObject(data)
	if !ok {
		return malformedInputError("trying to fill resource with malformed data", nil)
	}
	for _, key := range object.keys {
		if err := r.Set(key, object.values[key]); err != nil {
			return err
		}
	}
	return nil
}

// Set stores an attribute, casting datasets into nested resources when the
// kind maps name to a target kind.
func (r *Resource) Set(name string, value Value) error {
	if r.attributes == nil {
		r.attributes = NewObject()
	}

	target, cast := r.kind.castTarget(name)
	if !cast {
		r.attributes.Set(name, value)
		return nil
	}

	targetKind, exists := r.registry.Kind(target)
	if !exists {
		return castError(fmt.Sprintf("could not cast %s. %s doesn't exist", name, target), nil)
	}
	dataset, ok := AsObject(value)
	if !ok {
		return castError(fmt.Sprintf("could not cast %s. value is not a valid data set", name), nil)
	}

	nested := &Resource{kind: targetKind, registry: r.registry, attributes: NewObject()}
	if err := nested.Fill(dataset); err != nil {
		return castError(fmt.Sprintf("could not cast %s", name), err)
	}
	r.attributes.Set(name, nested)
	return nil
}

// Get returns the attribute value or nil when it was never set.
func (r *Resource) Get(name string) Value {
	return r.attributes.Get(name)
}

func (r *Resource) Lookup(name string) (Value, bool) {
	return r.attributes.Lookup(name)
}

// Nested returns a cast attribute as a resource.
func (r *Resource) Nested(name string) (*Resource, bool) {
	nested, ok := r.attributes.Get(name).(*Resource)
	return nested, ok
}

// Keys lists attribute names in the order they were first set.
func (r *Resource) Keys() []string {
	return r.attributes.Keys()
}

// Object serializes the resource into an ordered object, unwrapping nested
// resources recursively.
func (r *Resource) Object() *Object {
	object := NewObject()
	if r == nil {
		return object
	}
	for _, key := range r.attributes.Keys() {
		value := r.attributes.Get(key)
		if nested, ok := value.(*Resource); ok {
			object.Set(key, nested.Object())
			continue
		}
		object.Set(key, value)
	}
	return object
}

// ToMap is the plain map form of Object.
func (r *Resource) ToMap() map[string]any {
	return r.Object().ToMap()
}

// FilterWhiteList keeps the keys of data the kind allows to be sent on update.
func (r *Resource) FilterWhiteList(data Value) (*Object, error) {
	object, ok := AsObject(data)
	if !ok {
		return nil, malformedInputError("update data must be a data set", nil)
	}
	filtered := NewObject()
	for _, key := range object.keys {
		if r.kind.Whitelisted(key) {
			filtered.Set(key, object.values[key])
		}
	}
	return filtered, nil
}

// EventType is the webhook label for the resource kind.
func (r *Resource) EventType() string {
	if r.kind != nil && r.kind.EventType != "" {
		return r.kind.EventType
	}
	return r.kind.label()
}

func (r *Resource) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Object())
}

func (r *Resource) MarshalYAML() (any, error) {
	return r.Object().MarshalYAML()
}

// AttributeString returns the string form used in remote paths and
// fingerprints. Unset attributes report false.
func (r *Resource) AttributeString(name string) (string, bool) {
	value, exists := r.attributes.Lookup(name)
	if !exists || value == nil {
		return "", false
	}
	return stringForm(value), true
}

func stringForm(value Value) string {
	switch typed := value.(type) {
	case string:
		return typed
	case bool:
		return strconv.FormatBool(typed)
	case int:
		return strconv.Itoa(typed)
	case int64:
		return strconv.FormatInt(typed, 10)
	case int32:
		return strconv.FormatInt(int64(typed), 10)
	case uint64:
		return strconv.FormatUint(typed, 10)
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(typed), 'f', -1, 32)
	case json.Number:
		return typed.String()
	case fmt.Stringer:
		return typed.String()
	case *Resource, *Object, []any, map[string]any:
		encoded, err := json.Marshal(typed)
		if err != nil {
			return fmt.Sprint(typed)
		}
		return string(encoded)
	default:
		return fmt.Sprint(typed)
	}
}
