package gateways

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/ministryofjustice/prison-offender-events-sub000/internal/types"
)

// PrisonClient is the read client onto the prison API: prisoner snapshots,
// movement history, and booking identifier lookups.
type PrisonClient struct {
	base    *BaseClient
	baseURL string
	logger  types.Logger
}

// NewPrisonClient creates a PrisonClient rooted at baseURL (no trailing
// slash).
func NewPrisonClient(base *BaseClient, baseURL string, logger types.Logger) *PrisonClient {
	return &PrisonClient{
		base:    base,
		baseURL: baseURL,
		logger:  logger,
	}
}

// Compile-time assertion that PrisonClient implements types.PrisonAPI.
var _ types.PrisonAPI = (*PrisonClient)(nil)

func (c *PrisonClient) get(ctx context.Context, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, types.NewAppError(types.ErrCodeInternalUnexpected, "failed to build prison API request", err)
	}
	req.Header.Set("Accept", "application/json")
	return c.base.Do(req)
}

// GetPrisonerSnapshot fetches the current view of a prisoner. A 404 from the
// API maps to a not-found AppError: the number is unknown, usually because
// the offender was merged away after the raw event was emitted.
func (c *PrisonClient) GetPrisonerSnapshot(ctx context.Context, nomsNumber string) (*types.PrisonerSnapshot, error) {
	resp, err := c.get(ctx, "/api/prisoners/"+nomsNumber)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, types.NewAppError(
			types.ErrCodeNotFoundPrisoner,
			fmt.Sprintf("prisoner %s not found", nomsNumber),
			nil,
		)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, types.NewAppError(
			types.ErrCodeUpstreamUnavailable,
			fmt.Sprintf("prison API returned %d for prisoner %s", resp.StatusCode, nomsNumber),
			nil,
		)
	}

	var snapshot types.PrisonerSnapshot
	if err := json.NewDecoder(resp.Body).Decode(&snapshot); err != nil {
		return nil, types.NewAppError(types.ErrCodeUpstreamUnavailable, "failed to decode prisoner snapshot", err)
	}
	return &snapshot, nil
}

// GetMovements fetches the full movement history for a prisoner. An unknown
// number yields an empty history.
func (c *PrisonClient) GetMovements(ctx context.Context, nomsNumber string) ([]types.Movement, error) {
	resp, err := c.get(ctx, "/api/movements/offender/"+nomsNumber)
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
			fmt.Sprintf("prison API returned %d for movements of %s", resp.StatusCode, nomsNumber),
			nil,
		)
	}

	var movements []types.Movement
	if err := json.NewDecoder(resp.Body).Decode(&movements); err != nil {
		return nil, types.NewAppError(types.ErrCodeUpstreamUnavailable, "failed to decode movements", err)
	}
	return movements, nil
}

// bookingCoreInfo is the subset of the booking resource this service reads.
type bookingCoreInfo struct {
	OffenderNo string `json:"offenderNo"`
}

// GetPrisonerNumberForBooking resolves the current prisoner number for a
// booking. An unknown booking is not an error; it returns ok=false.
func (c *PrisonClient) GetPrisonerNumberForBooking(ctx context.Context, bookingID int64) (string, bool, error) {
	resp, err := c.get(ctx, fmt.Sprintf("/api/bookings/%d?basicInfo=true", bookingID))
	if err != nil {
		return "", false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", false, nil
	}
	if resp.StatusCode != http.StatusOK {
		return "", false, types.NewAppError(
			types.ErrCodeUpstreamUnavailable,
			fmt.Sprintf("prison API returned %d for booking %d", resp.StatusCode, bookingID),
			nil,
		)
	}

	var info bookingCoreInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return "", false, types.NewAppError(types.ErrCodeUpstreamUnavailable, "failed to decode booking info", err)
	}
	if info.OffenderNo == "" {
		return "", false, nil
	}
	return info.OffenderNo, true, nil
}

// bookingIdentifier is one identifier row on a booking.
type bookingIdentifier struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// GetMergedNumbers fetches all historical MERGED identifiers on a booking,
// preserving gateway order. Zero rows and unknown bookings both yield an
// empty list.
func (c *PrisonClient) GetMergedNumbers(ctx context.Context, bookingID int64) ([]string, error) {
	resp, err := c.get(ctx, fmt.Sprintf("/api/bookings/%d/identifiers?type=MERGED", bookingID))
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
			fmt.Sprintf("prison API returned %d for identifiers of booking %d", resp.StatusCode, bookingID),
			nil,
		)
	}

	var identifiers []bookingIdentifier
	if err := json.NewDecoder(resp.Body).Decode(&identifiers); err != nil {
		return nil, types.NewAppError(types.ErrCodeUpstreamUnavailable, "failed to decode booking identifiers", err)
	}

	numbers := make([]string, 0, len(identifiers))
	for _, id := range identifiers {
		if id.Type == "MERGED" {
			numbers = append(numbers, id.Value)
		}
	}
	return numbers, nil
}
