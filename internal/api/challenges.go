package api

import (
	"context"
	"fmt"

	"github.com/forbin-capital/forbin-go/internal/model"
)

// Challenges fetches every challenge.
func (c *Client) Challenges(ctx context.Context) ([]model.Challenge, error) {
	items, err := listResources[APIChallenge, model.Challenge](ctx, c, model.ChallengesRoute)
	if err != nil {
		return nil, fmt.Errorf("list challenges: %w", err)
	}
	return items, nil
}

// Challenge fetches a single challenge by id.
func (c *Client) Challenge(ctx context.Context, id model.ID) (*model.Challenge, error) {
	item, err := getResource[APIChallenge, model.Challenge](ctx, c, model.ChallengesRoute, id)
	if err != nil {
		return nil, fmt.Errorf("get challenge %s: %w", id, err)
	}
	return item, nil
}
