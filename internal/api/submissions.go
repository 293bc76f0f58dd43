package api

import (
	"context"
	"fmt"

	"github.com/forbin-capital/forbin-go/internal/model"
)

// Submissions fetches every submission.
func (c *Client) Submissions(ctx context.Context) ([]model.Submission, error) {
	items, err := listResources[APISubmission, model.Submission](ctx, c, model.SubmissionsRoute)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	return items, nil
}

// Submission fetches a single submission by id.
func (c *Client) Submission(ctx context.Context, id model.ID) (*model.Submission, error) {
	item, err := getResource[APISubmission, model.Submission](ctx, c, model.SubmissionsRoute, id)
	if err != nil {
		return nil, fmt.Errorf("get submission %s: %w", id, err)
	}
	return item, nil
}
