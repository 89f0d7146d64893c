package resource

import (
	"fmt"
	"math"
	"math/big"
	"strings"

	"github.com/itchyny/gojq"
)

// Filter runs a jq expression over the list of item payloads and rebuilds
// every resulting object as an item of the collection kind. Array results are
// flattened; null results are dropped.
func (c *Collection) Filter(expression string) ([]*Resource, error) {
	return c.registry.Filter(c.itemKind.Name, c.Items(), expression)
}

// Filter applies a jq expression to items and rebuilds the resulting objects
// as resources of kindName. It serves item sets gathered across pages.
func (r *Registry) Filter(kindName string, items []*Resource, expression string) ([]*Resource, error) {
	expr := strings.TrimSpace(expression)
	if expr == "" {
		return items, nil
	}
	if _, exists := r.Kind(kindName); !exists {
		return nil, invalidClassError(fmt.Sprintf("%s kind doesn't exist", kindName))
	}

	query, err := gojq.Parse(expr)
	if err != nil {
		return nil, validationError(fmt.Sprintf("invalid jq expression %q", expr), err)
	}

	input := make([]any, 0, len(items))
	for _, item := range items {
		input = append(input, jqValue(item.ToMap()))
	}

	var results []*Resource
	appendValue := func(value any) error {
		if value == nil {
			return nil
		}
		if _, ok := value.(map[string]any); !ok {
			return validationError(fmt.Sprintf("jq expression produced %T, expected an object", value), nil)
		}
		normalized, err := Normalize(value)
		if err != nil {
			return err
		}
		item, err := r.New(kindName, normalized)
		if err != nil {
			return err
		}
		results = append(results, item)
		return nil
	}

	iter := query.Run(input)
	for {
		value, ok := iter.Next()
		if !ok {
			break
		}
		if err, ok := value.(error); ok {
			return nil, validationError("jq expression failed", err)
		}
		if list, ok := value.([]any); ok {
			for _, entry := range list {
				if err := appendValue(entry); err != nil {
					return nil, err
				}
			}
			continue
		}
		if err := appendValue(value); err != nil {
			return nil, err
		}
	}

	return results, nil
}

// jqValue converts plain values into the value set gojq accepts.
func jqValue(value any) any {
	switch typed := value.(type) {
	case int64:
		if typed >= math.MinInt && typed <= math.MaxInt {
			return int(typed)
		}
		return big.NewInt(typed)
	case map[string]any:
		converted := make(map[string]any, len(typed))
		for key, item := range typed {
			converted[key] = jqValue(item)
		}
		return converted
	case []any:
		converted := make([]any, len(typed))
		for idx, item := range typed {
			converted[idx] = jqValue(item)
		}
		return converted
	default:
		return typed
	}
}
