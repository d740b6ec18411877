package src

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrPlanTimeout marks a synchronous plan call that hit the client-side
// deadline, so callers can present "timed out" distinctly from a server
// error.
var ErrPlanTimeout = errors.New("plan request timed out")

// Planning runs the full agent graph server-side; generous deadline.
const planTimeout = 120 * time.Second

// PlanRequest is the body of the non-streaming POST /api/plan fallback.
type PlanRequest struct {
	Prompt          string           `json:"prompt"`
	GroupSize       int              `json:"group_size"`
	Budget          string           `json:"budget,omitempty"`
	Location        string           `json:"location,omitempty"`
	Vibe            string           `json:"vibe,omitempty"`
	MemberLocations []MemberLocation `json:"member_locations"`
}

// PlanResponse is the synchronous endpoint's ranked answer.
type PlanResponse struct {
	Venues           []Venue `json:"venues"`
	ExecutionSummary string  `json:"execution_summary,omitempty"`
}

// PlanClient calls the planner's synchronous endpoint. Used when
// streaming is unavailable (headless runs, --no-stream).
type PlanClient struct {
	baseURL string
	client  *http.Client
}

func NewPlanClient(baseURL string) *PlanClient {
	return &PlanClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: planTimeout},
	}
}

// Plan posts one request and waits for the ranked result. Timeouts and
// HTTP errors are surfaced to the caller, never swallowed.
func (c *PlanClient) Plan(ctx context.Context, req PlanRequest) (*PlanResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode plan request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/plan", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		var uerr *url.Error
		if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &uerr) && uerr.Timeout()) {
			return nil, fmt.Errorf("%w after %s", ErrPlanTimeout, planTimeout)
		}
		return nil, fmt.Errorf("plan request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("plan request: server returned status %d", resp.StatusCode)
	}

	var out PlanResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode plan response: %w", err)
	}
	return &out, nil
}
