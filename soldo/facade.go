package soldo

import (
	"context"
	"net/url"

	"github.com/crmarques/soldo/resource"
)

func (c *Client) items(ctx context.Context, kind string, query url.Values) ([]*resource.Resource, error) {
	collection, err := c.GetCollection(ctx, kind, query)
	if err != nil {
		return nil, err
	}
	return collection.Items(), nil
}

func (c *Client) GetWallets(ctx context.Context, query url.Values) ([]*resource.Resource, error) {
	return c.items(ctx, KindWallet, query)
}

func (c *Client) GetWallet(ctx context.Context, id string) (*resource.Resource, error) {
	return c.GetItem(ctx, KindWallet, id)
}

func (c *Client) GetExpenseCentres(ctx context.Context, query url.Values) ([]*resource.Resource, error) {
	return c.items(ctx, KindExpenseCentre, query)
}

func (c *Client) GetExpenseCentre(ctx context.Context, id string) (*resource.Resource, error) {
	return c.GetItem(ctx, KindExpenseCentre, id)
}

func (c *Client) UpdateExpenseCentre(ctx context.Context, id string, data resource.Value) (*resource.Resource, error) {
	return c.UpdateItem(ctx, KindExpenseCentre, id, data)
}

func (c *Client) GetEmployees(ctx context.Context, query url.Values) ([]*resource.Resource, error) {
	return c.items(ctx, KindEmployee, query)
}

func (c *Client) GetEmployee(ctx context.Context, id string) (*resource.Resource, error) {
	return c.GetItem(ctx, KindEmployee, id)
}

func (c *Client) UpdateEmployee(ctx context.Context, id string, data resource.Value) (*resource.Resource, error) {
	return c.UpdateItem(ctx, KindEmployee, id, data)
}

func (c *Client) GetCards(ctx context.Context, query url.Values) ([]*resource.Resource, error) {
	return c.items(ctx, KindCard, query)
}

func (c *Client) GetCard(ctx context.Context, id string) (*resource.Resource, error) {
	return c.GetItem(ctx, KindCard, id)
}

func (c *Client) GetCardRules(ctx context.Context, id string) ([]*resource.Resource, error) {
	return c.GetRelationship(ctx, KindCard, id, RelationshipRules)
}

func (c *Client) GetTransactions(ctx context.Context, query url.Values) ([]*resource.Resource, error) {
	return c.items(ctx, KindTransaction, query)
}

func (c *Client) GetTransaction(ctx context.Context, id string) (*resource.Resource, error) {
	return c.GetItem(ctx, KindTransaction, id)
}

func (c *Client) GetCompany(ctx context.Context) (*resource.Resource, error) {
	return c.GetItem(ctx, KindCompany, "")
}
