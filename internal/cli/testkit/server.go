package testkit

import (
	"context"
	"fmt"
	"net/url"
	"sync"

	"github.com/crmarques/soldo/faults"
	"github.com/crmarques/soldo/resource"
)

// ResourceServer is an in-memory server.ResourceServer keyed by remote path.
type ResourceServer struct {
	mu      sync.Mutex
	Lists   map[string][]map[string]any
	Items   map[string]map[string]any
	Updates map[string]*resource.Object
	// PageSize splits list results into pages; zero serves a single page.
	PageSize int
}

func NewResourceServer() *ResourceServer {
	return &ResourceServer{
		Lists:   map[string][]map[string]any{},
		Items:   map[string]map[string]any{},
		Updates: map[string]*resource.Object{},
	}
}

func (s *ResourceServer) List(_ context.Context, collectionPath string, query url.Values) (resource.Value, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	results, ok := s.Lists[collectionPath]
	if !ok {
		return nil, faults.NewTypedError(faults.NotFoundError, fmt.Sprintf("%s not found", collectionPath), nil)
	}

	pageSize := s.PageSize
	if pageSize <= 0 || pageSize > len(results) {
		pageSize = max(len(results), 1)
	}
	pages := (len(results) + pageSize - 1) / pageSize
	page := 0
	if raw := query.Get("p"); raw != "" {
		_, _ = fmt.Sscanf(raw, "%d", &page)
	}

	start := min(page*pageSize, len(results))
	end := min(start+pageSize, len(results))
	pageResults := make([]any, 0, end-start)
	for _, item := range results[start:end] {
		pageResults = append(pageResults, item)
	}

	return map[string]any{
		"total":        len(results),
		"pages":        pages,
		"page_size":    pageSize,
		"current_page": page,
		"results_size": len(pageResults),
		"results":      pageResults,
	}, nil
}

func (s *ResourceServer) Get(_ context.Context, resourcePath string) (resource.Value, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.Items[resourcePath]
	if !ok {
		return nil, faults.NewTypedError(faults.NotFoundError, fmt.Sprintf("%s not found", resourcePath), nil)
	}
	return item, nil
}

func (s *ResourceServer) Update(_ context.Context, resourcePath string, body *resource.Object) (resource.Value, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.Items[resourcePath]
	if !ok {
		return nil, faults.NewTypedError(faults.NotFoundError, fmt.Sprintf("%s not found", resourcePath), nil)
	}
	s.Updates[resourcePath] = body
	merged := make(map[string]any, len(item))
	for key, value := range item {
		merged[key] = value
	}
	for key, value := range body.ToMap() {
		merged[key] = value
	}
	s.Items[resourcePath] = merged
	return merged, nil
}

// Updated returns the body last sent to resourcePath.
func (s *ResourceServer) Updated(resourcePath string) (*resource.Object, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	body, ok := s.Updates[resourcePath]
	return body, ok
}
