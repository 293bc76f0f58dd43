package api

import (
	"context"
	"fmt"

	"github.com/forbin-capital/forbin-go/internal/model"
)

// Datasets fetches every dataset.
func (c *Client) Datasets(ctx context.Context) ([]model.Dataset, error) {
	items, err := listResources[APIDataset, model.Dataset](ctx, c, model.DatasetsRoute)
	if err != nil {
		return nil, fmt.Errorf("list datasets: %w", err)
	}
	return items, nil
}

// Dataset fetches a single dataset by id.
func (c *Client) Dataset(ctx context.Context, id model.ID) (*model.Dataset, error) {
	item, err := getResource[APIDataset, model.Dataset](ctx, c, model.DatasetsRoute, id)
	if err != nil {
		return nil, fmt.Errorf("get dataset %s: %w", id, err)
	}
	return item, nil
}
