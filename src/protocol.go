package src

import (
	"encoding/json"
	"fmt"
)

// Frame types the planner backend emits over the stream. Zero or more
// "log" frames arrive while the agent graph runs, then exactly one
// "result" frame terminates the session.
const (
	frameTypeLog    = "log"
	frameTypeResult = "result"
)

// SearchRequest is the single client→server frame sent at session start.
type SearchRequest struct {
	Prompt          string           `json:"prompt"`
	MemberLocations []MemberLocation `json:"member_locations"`
	AuthUserID      string           `json:"auth_user_id,omitempty"`
}

// MemberLocation is one group member's starting point.
type MemberLocation struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Venue is one ranked recommendation from the planner. Rank is implicit
// in sequence order within the result payload.
type Venue struct {
	Name               string       `json:"name"`
	Address            string       `json:"address"`
	Lat                float64      `json:"lat"`
	Lng                float64      `json:"lng"`
	VibeScore          *float64     `json:"vibe_score,omitempty"`
	AccessibilityScore *float64     `json:"accessibility_score,omitempty"`
	Rating             *float64     `json:"rating,omitempty"`
	CostProfile        *CostProfile `json:"cost_profile,omitempty"`
	Why                string       `json:"why,omitempty"`
	WatchOut           string       `json:"watch_out,omitempty"`
	HasHistoricalRisk  bool         `json:"has_historical_risk,omitempty"`
}

// CostProfile is the cost analyst's breakdown for a venue.
type CostProfile struct {
	EstimatedPerPerson float64            `json:"estimated_per_person,omitempty"`
	Breakdown          map[string]float64 `json:"breakdown,omitempty"`
	Notes              string             `json:"notes,omitempty"`
}

// ResultPayload is the terminal payload of a search session.
type ResultPayload struct {
	Venues          []Venue        `json:"venues"`
	GlobalConsensus string         `json:"global_consensus,omitempty"`
	ActionRequest   map[string]any `json:"action_request,omitempty"`
	UserProfile     map[string]any `json:"user_profile,omitempty"`
	AgentWeights    map[string]any `json:"agent_weights,omitempty"`
}

// Event is a decoded inbound frame: either a LogEvent or a ResultEvent.
type Event interface {
	isEvent()
}

// LogEvent is one progress line from a named planner agent.
type LogEvent struct {
	Node    string
	Message string
}

// ResultEvent carries the final ranked result set and ends the session.
type ResultEvent struct {
	Payload ResultPayload
}

func (LogEvent) isEvent()    {}
func (ResultEvent) isEvent() {}

type frame struct {
	Type    string          `json:"type"`
	Node    string          `json:"node"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// DecodeFrame parses one raw frame from the stream. Malformed or
// unrecognized frames return an error; the session drops them and keeps
// going, so a noisy backend never breaks a search in flight.
func DecodeFrame(raw []byte) (Event, error) {
	var f frame
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("unparseable frame: %w", err)
	}
	switch f.Type {
	case frameTypeLog:
		if f.Node == "" {
			return nil, fmt.Errorf("log frame missing node")
		}
		return LogEvent{Node: f.Node, Message: f.Message}, nil
	case frameTypeResult:
		var payload ResultPayload
		if err := json.Unmarshal(f.Data, &payload); err != nil {
			return nil, fmt.Errorf("result frame with bad data: %w", err)
		}
		return ResultEvent{Payload: payload}, nil
	case "":
		return nil, fmt.Errorf("frame missing type")
	default:
		return nil, fmt.Errorf("unknown frame type %q", f.Type)
	}
}
