package gateways

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/ministryofjustice/prison-offender-events-sub000/internal/types"
)

// ProbationClient is the read client onto the probation API, used solely for
// recall referrals.
type ProbationClient struct {
	base    *BaseClient
	baseURL string
	logger  types.Logger
}

// NewProbationClient creates a ProbationClient rooted at baseURL (no
// trailing slash).
func NewProbationClient(base *BaseClient, baseURL string, logger types.Logger) *ProbationClient {
	return &ProbationClient{
		base:    base,
		baseURL: baseURL,
		logger:  logger,
	}
}

// Compile-time assertion that ProbationClient implements types.ProbationAPI.
var _ types.ProbationAPI = (*ProbationClient)(nil)

// GetRecalls fetches recall referrals for a prisoner. The probation system
// does not know about every prisoner, so an unknown number returns an empty
// list, never an error.
func (c *ProbationClient) GetRecalls(ctx context.Context, nomsNumber string) ([]types.Recall, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/probation-case/"+nomsNumber+"/recalls", nil)
	if err != nil {
		return nil, types.NewAppError(types.ErrCodeInternalUnexpected, "failed to build probation API request", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.base.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, types.NewAppError(
			types.ErrCodeUpstreamUnavailable,
			fmt.Sprintf("probation API returned %d for recalls of %s", resp.StatusCode, nomsNumber),
			nil,
		)
	}

	var recalls []types.Recall
	if err := json.NewDecoder(resp.Body).Decode(&recalls); err != nil {
		return nil, types.NewAppError(types.ErrCodeUpstreamUnavailable, "failed to decode recalls", err)
	}
	return recalls, nil
}
