package client

import (
	"context"

	"github.com/uniclear/clearance/pkg/soap"
	"github.com/uniclear/clearance/pkg/value"
)

// StatusResult is the outcome of one CheckStatus call in a batch.
type StatusResult struct {
	IndexID  string         `json:"indexId"`
	Response *soap.Response `json:"response,omitempty"`
	Err      error          `json:"-"`
}

// CheckStatuses calls CheckStatus for each index number in order, one call
// at a time. Per-candidate failures are recorded in StatusResult.Err. When
// ctx is cancelled the results gathered so far are returned with ctx's
// error.
func (c *Client) CheckStatuses(ctx context.Context, indexNos []string) ([]StatusResult, error) {
	results := make([]StatusResult, 0, len(indexNos))
	for _, idx := range indexNos {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		params := value.FromMap(value.NewMap().SetText("f4indexno", idx))
		resp, err := c.Call(ctx, "CheckStatus", params)
		results = append(results, StatusResult{IndexID: idx, Response: resp, Err: err})
	}
	return results, nil
}
