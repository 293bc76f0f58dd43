package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/forbin-capital/forbin-go/internal/model"
)

// wireRecord is implemented by the API* record types.
type wireRecord[M any] interface {
	ToModel() (M, error)
}

// idRoute returns {subroute}/{id}.
func idRoute(subroute string, id model.ID) string {
	return subroute + "/" + url.PathEscape(id.String())
}

func listResources[W any, M any, PW interface {
	*W
	wireRecord[M]
}](ctx context.Context, c *Client, route string) ([]M, error) {
	var resp []W
	if err := c.Get(ctx, route, &resp); err != nil {
		return nil, err
	}

	out := make([]M, 0, len(resp))
	for i := range resp {
		m, err := PW(&resp[i]).ToModel()
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		out = append(out, m)
	}
	return out, nil
}

func getResource[W any, M any, PW interface {
	*W
	wireRecord[M]
}](ctx context.Context, c *Client, route string, id model.ID) (*M, error) {
	if id.IsZero() {
		return nil, ErrMissingID
	}

	var resp W
	if err := c.Get(ctx, idRoute(route, id), &resp); err != nil {
		return nil, err
	}

	m, err := PW(&resp).ToModel()
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func decodeRecord[W any, M any, PW interface {
	*W
	wireRecord[M]
}](data []byte, dst *M) error {
	var w W
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	m, err := PW(&w).ToModel()
	if err != nil {
		return err
	}
	*dst = m
	return nil
}

// UnmarshalResource decodes one JSON record into r. Missing keys leave the
// corresponding fields at their zero value.
func UnmarshalResource(data []byte, r model.Resource) error {
	if err := checkResource(r); err != nil {
		return err
	}
	var err error
	switch v := r.(type) {
	case *model.Challenge:
		err = decodeRecord[APIChallenge](data, v)
	case *model.GroundTruth:
		err = decodeRecord[APIGroundTruth](data, v)
	case *model.Submission:
		err = decodeRecord[APISubmission](data, v)
	case *model.Transaction:
		err = decodeRecord[APITransaction](data, v)
	case *model.Dataset:
		err = decodeRecord[APIDataset](data, v)
	default:
		return fmt.Errorf("unsupported resource type %T", r)
	}
	if err != nil {
		return fmt.Errorf("decode %s record: %w", r.Subroute(), err)
	}
	return nil
}

// Save creates the resource when it has no id (POST {subroute}/) and updates it
// otherwise (PATCH {subroute}/{id}/). It returns the decoded response; on create the
// server-assigned id, if any, is copied into r.
func (c *Client) Save(ctx context.Context, r model.Resource) (Record, error) {
	payload, err := encodeResource(r)
	if err != nil {
		return nil, fmt.Errorf("save: %w", err)
	}

	var resp Record
	if id := r.Identity(); !id.IsZero() {
		if err := c.Patch(ctx, idRoute(r.Subroute(), id), payload, &resp); err != nil {
			return nil, fmt.Errorf("update %s %s: %w", r.Subroute(), id, err)
		}
		return resp, nil
	}

	if err := c.Post(ctx, r.Subroute(), payload, &resp); err != nil {
		return nil, fmt.Errorf("create %s: %w", r.Subroute(), err)
	}
	if id := recordID(resp["id"]); id != "" {
		r.SetIdentity(id)
	}

	return resp, nil
}

// Delete removes the resource on the server (DELETE {subroute}/{id}/). The local
// object is left unchanged.
func (c *Client) Delete(ctx context.Context, r model.Resource) (Record, error) {
	if err := checkResource(r); err != nil {
		return nil, fmt.Errorf("delete: %w", err)
	}
	id := r.Identity()
	if id.IsZero() {
		return nil, fmt.Errorf("delete %s: %w", r.Subroute(), ErrMissingID)
	}

	var resp Record
	if err := c.Remove(ctx, idRoute(r.Subroute(), id), &resp); err != nil {
		return nil, fmt.Errorf("delete %s %s: %w", r.Subroute(), id, err)
	}
	return resp, nil
}

// recordID renders a decoded JSON id value as a model.ID.
func recordID(v any) model.ID {
	switch id := v.(type) {
	case string:
		return model.ID(id)
	case float64:
		return model.ID(strconv.FormatFloat(id, 'f', -1, 64))
	case json.Number:
		return model.ID(id.String())
	default:
		return ""
	}
}
