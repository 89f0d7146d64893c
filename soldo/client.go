package soldo

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"golang.org/x/sync/errgroup"

	debugctx "github.com/crmarques/soldo/debugctx"
	"github.com/crmarques/soldo/faults"
	"github.com/crmarques/soldo/resource"
	"github.com/crmarques/soldo/server"
)

const (
	QueryPage     = "p"
	QueryPageSize = "s"

	defaultPageConcurrency = 4
	// MaxPages bounds the pages GetAllItems is willing to walk.
	MaxPages = 10000
)

type Client struct {
	server          server.ResourceServer
	registry        *resource.Registry
	pageConcurrency int
}

type Option func(*Client)

func WithRegistry(registry *resource.Registry) Option {
	return func(c *Client) {
		if registry != nil {
			c.registry = registry
		}
	}
}

// WithPageConcurrency bounds the pages fetched in parallel by GetAllItems.
func WithPageConcurrency(limit int) Option {
	return func(c *Client) {
		if limit > 0 {
			c.pageConcurrency = limit
		}
	}
}

func New(resourceServer server.ResourceServer, opts ...Option) (*Client, error) {
	if resourceServer == nil {
		return nil, faults.NewTypedError(faults.ValidationError, "resource server is required", nil)
	}

	client := &Client{server: resourceServer, pageConcurrency: defaultPageConcurrency}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(client)
	}
	if client.registry == nil {
		registry, err := NewRegistry()
		if err != nil {
			return nil, err
		}
		client.registry = registry
	}
	return client, nil
}

func (c *Client) Registry() *resource.Registry {
	return c.registry
}

// Page returns a copy of query selecting page (0-based) and, when positive,
// the page size.
func Page(query url.Values, page int, size int) url.Values {
	paged := url.Values{}
	for key, values := range query {
		paged[key] = append([]string(nil), values...)
	}
	paged.Set(QueryPage, strconv.Itoa(page))
	if size > 0 {
		paged.Set(QueryPageSize, strconv.Itoa(size))
	}
	return paged
}

// GetCollection fetches one page of kind filtered by query.
func (c *Client) GetCollection(ctx context.Context, kind string, query url.Values) (*resource.Collection, error) {
	collection, err := resource.NewCollection(c.registry, kind)
	if err != nil {
		return nil, err
	}
	remotePath, err := collection.RemotePath()
	if err != nil {
		return nil, err
	}

	debugctx.Printf(ctx, "list kind=%q path=%q page=%q", kind, remotePath, query.Get(QueryPage))
	raw, err := c.server.List(ctx, remotePath, query)
	if err != nil {
		return nil, err
	}
	if err := collection.Fill(raw); err != nil {
		return nil, err
	}
	return collection, nil
}

// GetAllItems walks every page of kind. The first page is fetched alone to
// learn the page count; the rest are fetched concurrently and concatenated
// in page order.
func (c *Client) GetAllItems(ctx context.Context, kind string, query url.Values) ([]*resource.Resource, error) {
	pageSize, _ := strconv.Atoi(query.Get(QueryPageSize))
	first, err := c.GetCollection(ctx, kind, Page(query, 0, pageSize))
	if err != nil {
		return nil, err
	}
	count, err := pageCount(first)
	if err != nil {
		return nil, err
	}
	if count <= 1 {
		return first.Items(), nil
	}
	if pageSize <= 0 {
		pageSize = int(first.PageSize())
	}

	pages := make([][]*resource.Resource, count)
	pages[0] = first.Items()

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(c.pageConcurrency)
	for page := 1; page < len(pages); page++ {
		page := page
		group.Go(func() error {
			collection, err := c.GetCollection(groupCtx, kind, Page(query, page, pageSize))
			if err != nil {
				return fmt.Errorf("page %d: %w", page, err)
			}
			pages[page] = collection.Items()
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	size := 0
	for _, page := range pages {
		size += len(page)
	}
	items := make([]*resource.Resource, 0, size)
	for _, page := range pages {
		items = append(items, page...)
	}
	debugctx.Infof(ctx, "fetched %d %s items over %d pages", len(items), kind, len(pages))
	return items, nil
}

// pageCount checks the reported page count against total and page_size
// before any allocation or request depends on it.
func pageCount(first *resource.Collection) (int, error) {
	expected := first.Total() / first.PageSize()
	if first.Total()%first.PageSize() != 0 {
		expected++
	}
	if first.Pages() != expected {
		return 0, faults.NewTypedError(
			faults.InvalidCollectionError,
			fmt.Sprintf("collection reports %d pages but total %d with page_size %d needs %d", first.Pages(), first.Total(), first.PageSize(), expected),
			nil,
		)
	}
	if expected > MaxPages {
		return 0, faults.NewTypedError(
			faults.InvalidCollectionError,
			fmt.Sprintf("collection spans %d pages, more than the %d supported", expected, MaxPages),
			nil,
		)
	}
	return int(expected), nil
}

// GetItem fetches one resource. id fills the instance path placeholder and
// is ignored for singletons.
func (c *Client) GetItem(ctx context.Context, kind string, id string) (*resource.Resource, error) {
	item, err := c.identified(kind, id)
	if err != nil {
		return nil, err
	}
	remotePath, err := item.RemotePath()
	if err != nil {
		return nil, err
	}

	raw, err := c.server.Get(ctx, remotePath)
	if err != nil {
		return nil, err
	}
	if err := item.Fill(raw); err != nil {
		return nil, err
	}
	return item, nil
}

// UpdateItem sends the whitelisted subset of data and returns the resource
// as answered by the server.
func (c *Client) UpdateItem(ctx context.Context, kind string, id string, data resource.Value) (*resource.Resource, error) {
	item, err := c.identified(kind, id)
	if err != nil {
		return nil, err
	}
	body, err := item.FilterWhiteList(data)
	if err != nil {
		return nil, err
	}
	if body.Len() == 0 {
		return nil, faults.NewTypedError(
			faults.ValidationError,
			fmt.Sprintf("no updatable %s attribute given", kind),
			nil,
		)
	}
	remotePath, err := item.RemotePath()
	if err != nil {
		return nil, err
	}

	raw, err := c.server.Update(ctx, remotePath, body)
	if err != nil {
		return nil, err
	}
	if err := item.Fill(raw); err != nil {
		return nil, err
	}
	return item, nil
}

// GetRelationship fetches the name relationship of one resource.
func (c *Client) GetRelationship(ctx context.Context, kind string, id string, name string) ([]*resource.Resource, error) {
	item, err := c.identified(kind, id)
	if err != nil {
		return nil, err
	}
	remotePath, err := item.RelationshipRemotePath(name)
	if err != nil {
		return nil, err
	}

	raw, err := c.server.Get(ctx, remotePath)
	if err != nil {
		return nil, err
	}
	return item.BuildRelationship(name, raw)
}

func (c *Client) identified(kindName string, id string) (*resource.Resource, error) {
	item, err := c.registry.New(kindName, nil)
	if err != nil {
		return nil, err
	}
	placeholders := item.Kind().Placeholders()
	if id != "" && len(placeholders) > 0 {
		if err := item.Set(placeholders[0], id); err != nil {
			return nil, err
		}
	}
	return item, nil
}
