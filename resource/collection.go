package resource

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

const (
	CollectionFieldTotal       = "total"
	CollectionFieldPages       = "pages"
	CollectionFieldPageSize    = "page_size"
	CollectionFieldCurrentPage = "current_page"
	CollectionFieldResultsSize = "results_size"
	CollectionFieldResults     = "results"
)

var collectionIntegerFields = []string{
	CollectionFieldTotal,
	CollectionFieldPages,
	CollectionFieldPageSize,
	CollectionFieldCurrentPage,
	CollectionFieldResultsSize,
}

// Collection is one page of a paginated list of resources of a single kind.
// It is filled exactly once.
type Collection struct {
	registry *Registry
	itemKind *Kind

	filled      bool
	total       int64
	pages       int64
	pageSize    int64
	currentPage int64
	resultsSize int64
	items       []*Resource
}

func NewCollection(registry *Registry, itemKind string) (*Collection, error) {
	if strings.TrimSpace(itemKind) == "" {
		return nil, invalidClassError("could not generate a collection without an item kind")
	}
	kind, exists := registry.Kind(itemKind)
	if !exists {
		return nil, invalidClassError(fmt.Sprintf("could not generate a collection %s doesn't exist", itemKind))
	}
	return &Collection{registry: registry, itemKind: kind}, nil
}

// Fill validates the pagination envelope and materializes its results. Any
// failure leaves the collection untouched; a second call is rejected.
func (c *Collection) Fill(envelope Value) error {
	if c.filled {
		return invalidCollectionError("collection already filled", nil)
	}

	data, ok := AsObject(envelope)
	if !ok {
		return invalidCollectionError("collection envelope is not a valid data set", nil)
	}

	counters := make(map[string]int64, len(collectionIntegerFields))
	for _, field := range collectionIntegerFields {
		raw, exists := data.Lookup(field)
		if !exists {
			return invalidCollectionError(fmt.Sprintf("collection field %s is missing", field), nil)
		}
		value, ok := integerValue(raw)
		if !ok {
			return invalidCollectionError(fmt.Sprintf("collection field %s is not an integer", field), nil)
		}
		if value < 0 {
			return invalidCollectionError(fmt.Sprintf("collection field %s must not be negative", field), nil)
		}
		counters[field] = value
	}
	if counters[CollectionFieldPageSize] < 1 {
		return invalidCollectionError(fmt.Sprintf("collection field %s must be positive", CollectionFieldPageSize), nil)
	}

	rawResults, exists := data.Lookup(CollectionFieldResults)
	if !exists {
		return invalidCollectionError(fmt.Sprintf("collection field %s is missing", CollectionFieldResults), nil)
	}
	results, ok := AsList(rawResults)
	if !ok {
		return invalidCollectionError(fmt.Sprintf("collection field %s is not a list", CollectionFieldResults), nil)
	}

	items := make([]*Resource, 0, len(results))
	for idx, result := range results {
		if _, ok := AsObject(result); !ok {
			return invalidCollectionError(fmt.Sprintf("collection result %d is not a valid data set", idx), nil)
		}
		item, err := c.registry.New(c.itemKind.Name, result)
		if err != nil {
			return invalidCollectionError(fmt.Sprintf("collection result %d is not a valid %s", idx, c.itemKind.Name), err)
		}
		items = append(items, item)
	}

	resultsSize := counters[CollectionFieldResultsSize]
	if int64(len(items)) != resultsSize {
		return invalidCollectionError(
			fmt.Sprintf("collection results_size is %d but %d results were returned", resultsSize, len(items)),
			nil,
		)
	}

	c.total = counters[CollectionFieldTotal]
	c.pages = counters[CollectionFieldPages]
	c.pageSize = counters[CollectionFieldPageSize]
	c.currentPage = counters[CollectionFieldCurrentPage]
	c.resultsSize = resultsSize
	c.items = items
	c.filled = true
	return nil
}

// Items returns the materialized resources in envelope order.
func (c *Collection) Items() []*Resource {
	return append([]*Resource(nil), c.items...)
}

func (c *Collection) ItemKind() string {
	return c.itemKind.Name
}

func (c *Collection) Filled() bool { return c.filled }

func (c *Collection) Total() int64 { return c.total }

func (c *Collection) Pages() int64 { return c.pages }

func (c *Collection) PageSize() int64 { return c.pageSize }

func (c *Collection) CurrentPage() int64 { return c.currentPage }

func (c *Collection) ResultsSize() int64 { return c.resultsSize }

// RemotePath is the base path of the item kind.
func (c *Collection) RemotePath() (string, error) {
	return c.itemKind.ValidatedBasePath()
}

func integerValue(value Value) (int64, bool) {
	switch typed := value.(type) {
	case int:
		return int64(typed), true
	case int8:
		return int64(typed), true
	case int16:
		return int64(typed), true
	case int32:
		return int64(typed), true
	case int64:
		return typed, true
	case uint8:
		return int64(typed), true
	case uint16:
		return int64(typed), true
	case uint32:
		return int64(typed), true
	case uint:
		if uint64(typed) > math.MaxInt64 {
			return 0, false
		}
		return int64(typed), true
	case uint64:
		if typed > math.MaxInt64 {
			return 0, false
		}
		return int64(typed), true
	case float64:
		if math.Trunc(typed) != typed || math.IsInf(typed, 0) || math.Abs(typed) > math.MaxInt64 {
			return 0, false
		}
		return int64(typed), true
	case json.Number:
		parsed, err := typed.Int64()
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}
