package api

import (
	"context"
	"fmt"

	"github.com/forbin-capital/forbin-go/internal/model"
)

// GroundTruths fetches every ground truth.
func (c *Client) GroundTruths(ctx context.Context) ([]model.GroundTruth, error) {
	items, err := listResources[APIGroundTruth, model.GroundTruth](ctx, c, model.GroundTruthsRoute)
	if err != nil {
		return nil, fmt.Errorf("list ground truths: %w", err)
	}
	return items, nil
}

// GroundTruth fetches a single ground truth by id.
func (c *Client) GroundTruth(ctx context.Context, id model.ID) (*model.GroundTruth, error) {
	item, err := getResource[APIGroundTruth, model.GroundTruth](ctx, c, model.GroundTruthsRoute, id)
	if err != nil {
		return nil, fmt.Errorf("get ground truth %s: %w", id, err)
	}
	return item, nil
}
