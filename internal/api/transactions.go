package api

import (
	"context"
	"fmt"

	"github.com/forbin-capital/forbin-go/internal/model"
)

// Transactions fetches every transaction.
func (c *Client) Transactions(ctx context.Context) ([]model.Transaction, error) {
	items, err := listResources[APITransaction, model.Transaction](ctx, c, model.TransactionsRoute)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return items, nil
}

// Transaction fetches a single transaction by id.
func (c *Client) Transaction(ctx context.Context, id model.ID) (*model.Transaction, error) {
	item, err := getResource[APITransaction, model.Transaction](ctx, c, model.TransactionsRoute, id)
	if err != nil {
		return nil, fmt.Errorf("get transaction %s: %w", id, err)
	}
	return item, nil
}
