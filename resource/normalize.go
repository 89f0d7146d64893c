package resource

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"math/big"
	"reflect"

	"github.com/crmarques/soldo/faults"
)

// Normalize converts a payload into the canonical value set used by the
// resource model: nil, bool, string, int64, float64, []any and *Object.
func Normalize(value Value) (Value, error) {
	normalized, err := normalizeValue(value)
	if err != nil {
		return nil, err
	}
	return normalized, nil
}

// DecodeJSON decodes a JSON document keeping object key order.
func DecodeJSON(data []byte) (Value, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	value, err := decodeJSONValue(decoder)
	if err != nil {
		return nil, malformedInputError("payload is not valid JSON", err)
	}
	if _, err := decoder.Token(); !errors.Is(err, io.EOF) {
		return nil, malformedInputError("payload contains trailing data", err)
	}
	return value, nil
}

func decodeJSONValue(decoder *json.Decoder) (Value, error) {
	token, err := decoder.Token()
	if err != nil {
		return nil, err
	}

	switch typed := token.(type) {
	case json.Delim:
		switch typed {
		case '{':
			object := NewObject()
			for decoder.More() {
				keyToken, err := decoder.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyToken.(string)
				if !ok {
					return nil, fmt.Errorf("unexpected object key %v", keyToken)
				}
				item, err := decodeJSONValue(decoder)
				if err != nil {
					return nil, err
				}
				object.Set(key, item)
			}
			if _, err := decoder.Token(); err != nil {
				return nil, err
			}
			return object, nil
		case '[':
			items := []any{}
			for decoder.More() {
				item, err := decodeJSONValue(decoder)
				if err != nil {
					return nil, err
				}
				items = append(items, item)
			}
			if _, err := decoder.Token(); err != nil {
				return nil, err
			}
			return items, nil
		default:
			return nil, fmt.Errorf("unexpected delimiter %q", typed)
		}
	case json.Number:
		return normalizeJSONNumber(typed)
	default:
		return typed, nil
	}
}

func normalizeValue(value any) (any, error) {
	switch typed := value.(type) {
	case nil, bool, string:
		return typed, nil
	case float32:
		return normalizeFloat(float64(typed))
	case float64:
		return normalizeFloat(typed)
	case int:
		return int64(typed), nil
	case int8:
		return int64(typed), nil
	case int16:
		return int64(typed), nil
	case int32:
		return int64(typed), nil
	case int64:
		return typed, nil
	case uint:
		return normalizeUint(uint64(typed))
	case uint8:
		return normalizeUint(uint64(typed))
	case uint16:
		return normalizeUint(uint64(typed))
	case uint32:
		return normalizeUint(uint64(typed))
	case uint64:
		return normalizeUint(typed)
	case json.Number:
		return normalizeJSONNumber(typed)
	case []any:
		return normalizeSlice(typed)
	case *Resource:
		if typed == nil {
			return nil, nil
		}
		return normalizeObject(typed.Object())
	case *Object:
		if typed == nil {
			return nil, nil
		}
		return normalizeObject(typed)
	case map[string]any:
		return normalizeObject(ObjectFromMap(typed))
	}

	return normalizeReflectValue(value)
}

func normalizeFloat(value float64) (float64, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, faults.NewTypedError(faults.ValidationError, "payload contains non-finite float", nil)
	}
	return value, nil
}

func normalizeUint(value uint64) (int64, error) {
	if value > math.MaxInt64 {
		return 0, faults.NewTypedError(faults.ValidationError, "payload contains integer out of range", nil)
	}
	return int64(value), nil
}

func normalizeJSONNumber(value json.Number) (any, error) {
	if asInt, err := value.Int64(); err == nil {
		return asInt, nil
	}
	asBig, ok := new(big.Int).SetString(value.String(), 10)
	if ok {
		if asBig.IsInt64() {
			return asBig.Int64(), nil
		}
		return nil, faults.NewTypedError(faults.ValidationError, "payload contains integer out of range", nil)
	}

	asFloat, err := value.Float64()
	if err != nil {
		return nil, faults.NewTypedError(faults.ValidationError, "payload contains invalid number", err)
	}
	return normalizeFloat(asFloat)
}

func normalizeSlice(values []any) ([]any, error) {
	normalized := make([]any, len(values))
	for idx, item := range values {
		itemValue, err := normalizeValue(item)
		if err != nil {
			return nil, err
		}
		normalized[idx] = itemValue
	}
	return normalized, nil
}

func normalizeObject(object *Object) (*Object, error) {
	normalized := NewObject()
	for _, key := range object.keys {
		itemValue, err := normalizeValue(object.values[key])
		if err != nil {
			return nil, err
		}
		normalized.Set(key, itemValue)
	}
	return normalized, nil
}

func normalizeReflectValue(value any) (any, error) {
	reflectValue := reflect.ValueOf(value)
	switch reflectValue.Kind() {
	case reflect.Map:
		object, ok := AsObject(value)
		if !ok {
			return nil, faults.NewTypedError(faults.ValidationError, "payload map keys must be strings", nil)
		}
		return normalizeObject(object)
	case reflect.Slice, reflect.Array:
		items, _ := AsList(value)
		if items == nil {
			items = make([]any, reflectValue.Len())
			for idx := range items {
				items[idx] = reflectValue.Index(idx).Interface()
			}
		}
		return normalizeSlice(items)
	default:
		return nil, faults.NewTypedError(
			faults.ValidationError,
			fmt.Sprintf("unsupported payload type %T", value),
			nil,
		)
	}
}
