package resource

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"

	"go.yaml.in/yaml/v3"
)

// Object is a string keyed map that remembers the order in which keys were
// first set. Setting an existing key replaces its value in place.
type Object struct {
	keys   []string
	values map[string]Value
}

func NewObject() *Object {
	return &Object{values: map[string]Value{}}
}

// ObjectFromMap copies a plain map into an Object. Go maps carry no order, so
// keys are inserted sorted.
func ObjectFromMap(values map[string]any) *Object {
	object := NewObject()
	for _, key := range sortedKeys(values) {
		object.Set(key, values[key])
	}
	return object
}

func (o *Object) Set(key string, value Value) {
	if o.values == nil {
		o.values = map[string]Value{}
	}
	if _, exists := o.values[key]; !exists {
		o.keys = append(o.keys, key)
	}
	o.values[key] = value
}

func (o *Object) Get(key string) Value {
	if o == nil {
		return nil
	}
	return o.values[key]
}

func (o *Object) Lookup(key string) (Value, bool) {
	if o == nil {
		return nil, false
	}
	value, exists := o.values[key]
	return value, exists
}

func (o *Object) Delete(key string) {
	if o == nil {
		return
	}
	if _, exists := o.values[key]; !exists {
		return
	}
	delete(o.values, key)
	for idx, current := range o.keys {
		if current == key {
			o.keys = append(o.keys[:idx], o.keys[idx+1:]...)
			break
		}
	}
}

func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.keys)
}

// Keys returns a copy of the keys in insertion order.
func (o *Object) Keys() []string {
	if o == nil {
		return nil
	}
	return append([]string(nil), o.keys...)
}

// ToMap converts the object, and any nested Object or Resource, into plain
// maps and slices.
func (o *Object) ToMap() map[string]any {
	if o == nil {
		return map[string]any{}
	}
	result := make(map[string]any, len(o.keys))
	for _, key := range o.keys {
		result[key] = plainValue(o.values[key])
	}
	return result
}

func (o *Object) MarshalJSON() ([]byte, error) {
	if o == nil {
		return []byte("null"), nil
	}

	var buffer bytes.Buffer
	buffer.WriteByte('{')
	for idx, key := range o.keys {
		if idx > 0 {
			buffer.WriteByte(',')
		}
		encodedKey, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buffer.Write(encodedKey)
		buffer.WriteByte(':')
		encodedValue, err := json.Marshal(o.values[key])
		if err != nil {
			return nil, err
		}
		buffer.Write(encodedValue)
	}
	buffer.WriteByte('}')
	return buffer.Bytes(), nil
}

func (o *Object) UnmarshalJSON(data []byte) error {
	value, err := DecodeJSON(data)
	if err != nil {
		return err
	}
	decoded, ok := value.(*Object)
	if !ok {
		return malformedInputError(fmt.Sprintf("expected JSON object, got %T", value), nil)
	}
	*o = *decoded
	return nil
}

func (o *Object) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	if o == nil {
		return node, nil
	}
	for _, key := range o.keys {
		valueNode := &yaml.Node{}
		if err := valueNode.Encode(o.values[key]); err != nil {
			return nil, err
		}
		node.Content = append(node.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}, valueNode)
	}
	return node, nil
}

// AsObject returns value as an ordered Object when it is a dataset: an Object,
// an *Object or any map keyed by strings.
func AsObject(value Value) (*Object, bool) {
	switch typed := value.(type) {
	case *Object:
		if typed == nil {
			return nil, false
		}
		return typed, true
	case Object:
		return &typed, true
	case map[string]any:
		return ObjectFromMap(typed), true
	case nil:
		return nil, false
	}

	reflectValue := reflect.ValueOf(value)
	if reflectValue.Kind() != reflect.Map || reflectValue.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	keys := make([]string, 0, reflectValue.Len())
	for _, key := range reflectValue.MapKeys() {
		keys = append(keys, key.String())
	}
	sort.Strings(keys)

	object := NewObject()
	for _, key := range keys {
		mapKey := reflect.ValueOf(key).Convert(reflectValue.Type().Key())
		object.Set(key, reflectValue.MapIndex(mapKey).Interface())
	}
	return object, true
}

// AsList returns value as a slice when it is a list of any element type.
func AsList(value Value) ([]any, bool) {
	switch typed := value.(type) {
	case []any:
		return typed, true
	case nil:
		return nil, false
	}

	reflectValue := reflect.ValueOf(value)
	if reflectValue.Kind() != reflect.Slice && reflectValue.Kind() != reflect.Array {
		return nil, false
	}
	if reflectValue.Type().Elem().Kind() == reflect.Uint8 {
		return nil, false
	}
	items := make([]any, reflectValue.Len())
	for idx := range items {
		items[idx] = reflectValue.Index(idx).Interface()
	}
	return items, true
}

func plainValue(value Value) any {
	switch typed := value.(type) {
	case *Resource:
		return typed.ToMap()
	case *Object:
		return typed.ToMap()
	case Object:
		return typed.ToMap()
	case []any:
		items := make([]any, len(typed))
		for idx, item := range typed {
			items[idx] = plainValue(item)
		}
		return items
	case map[string]any:
		result := make(map[string]any, len(typed))
		for key, item := range typed {
			result[key] = plainValue(item)
		}
		return result
	default:
		return value
	}
}

func sortedKeys(values map[string]any) []string {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
