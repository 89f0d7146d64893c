package resource

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"github.com/crmarques/soldo/faults"
	"go.yaml.in/yaml/v3"
)

func TestObjectOrder(t *testing.T) {
	t.Parallel()

	object := NewObject()
	object.Set("b", 1)
	object.Set("a", 2)
	object.Set("b", 3)
	object.Set("c", 4)
	object.Delete("a")

	if got := object.Keys(); !reflect.DeepEqual(got, []string{"b", "c"}) {
		t.Fatalf("unexpected keys %#v", got)
	}
	if object.Get("b") != 3 {
		t.Fatalf("expected replaced value 3, got %#v", object.Get("b"))
	}
	if object.Len() != 2 {
		t.Fatalf("expected length 2, got %d", object.Len())
	}
}

func TestObjectJSONRoundTrip(t *testing.T) {
	t.Parallel()

	input := `{"z":1,"a":{"y":true,"b":[1,"two",null]},"m":"x"}`

	var object Object
	if err := json.Unmarshal([]byte(input), &object); err != nil {
		t.Fatalf("Unmarshal returned error: %v", err)
	}
	if got := object.Keys(); !reflect.DeepEqual(got, []string{"z", "a", "m"}) {
		t.Fatalf("unexpected keys %#v", got)
	}
	nested, ok := object.Get("a").(*Object)
	if !ok {
		t.Fatalf("expected nested object, got %T", object.Get("a"))
	}
	if got := nested.Keys(); !reflect.DeepEqual(got, []string{"y", "b"}) {
		t.Fatalf("unexpected nested keys %#v", got)
	}

	encoded, err := json.Marshal(&object)
	if err != nil {
		t.Fatalf("Marshal returned error: %v", err)
	}
	if string(encoded) != input {
		t.Fatalf("expected %s, got %s", input, encoded)
	}
}

func TestObjectUnmarshalRejectsNonObject(t *testing.T) {
	t.Parallel()

	var object Object
	err := json.Unmarshal([]byte(`[1,2]`), &object)
	if err == nil {
		t.Fatalf("expected error for JSON array")
	}
}

func TestObjectMarshalYAMLKeepsOrder(t *testing.T) {
	t.Parallel()

	object := NewObject()
	object.Set("zeta", "last-letter")
	object.Set("alpha", int64(1))

	encoded, err := yaml.Marshal(object)
	if err != nil {
		t.Fatalf("yaml.Marshal returned error: %v", err)
	}
	text := string(encoded)
	if strings.Index(text, "zeta") > strings.Index(text, "alpha") {
		t.Fatalf("expected insertion order in YAML, got:\n%s", text)
	}
}

func TestAsObject(t *testing.T) {
	t.Parallel()

	type labels map[string]string

	object, ok := AsObject(labels{"b": "2", "a": "1"})
	if !ok {
		t.Fatalf("expected string keyed map to be a dataset")
	}
	if got := object.Keys(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Fatalf("expected sorted keys, got %#v", got)
	}

	for _, value := range []Value{nil, "x", 1, []any{}, map[int]string{1: "x"}, (*Object)(nil)} {
		if _, ok := AsObject(value); ok {
			t.Fatalf("expected %#v not to be a dataset", value)
		}
	}
}

func TestDecodeJSON(t *testing.T) {
	t.Parallel()

	value, err := DecodeJSON([]byte(`{"id": 42, "amount": 1.25, "big": 9223372036854775807}`))
	if err != nil {
		t.Fatalf("DecodeJSON returned error: %v", err)
	}
	object := value.(*Object)
	if object.Get("id") != int64(42) {
		t.Fatalf("expected int64 id, got %#v", object.Get("id"))
	}
	if object.Get("amount") != 1.25 {
		t.Fatalf("expected float amount, got %#v", object.Get("amount"))
	}

	empty, err := DecodeJSON([]byte("  "))
	if err != nil || empty != nil {
		t.Fatalf("expected nil for empty body, got %#v (%v)", empty, err)
	}

	for _, input := range []string{`{"id":`, `{} {}`, `{"a":1]`} {
		if _, err := DecodeJSON([]byte(input)); !faults.IsCategory(err, faults.MalformedInputError) {
			t.Fatalf("expected malformed input error for %q, got %v", input, err)
		}
	}
}
