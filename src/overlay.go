package src

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// VibeFilter selects one dimension of the backend's aesthetic vector;
// Index is the vibe_index the heatmap endpoint is keyed by.
type VibeFilter struct {
	Index int
	Name  string
}

// vibeKeywords is the fixed vocabulary the planner scores venues
// against. Position in the slice is the filter's vibe_index.
var vibeKeywords = []string{
	"aesthetic", "cozy", "chill", "trendy", "hipster", "romantic", "classy",
	"upscale", "fancy", "elegant", "modern", "rustic", "bohemian", "artsy",
	"quirky", "retro", "vintage", "minimalist", "industrial", "dark academia",
	"cottagecore", "cyberpunk", "neon", "instagrammable", "photogenic", "cute",
	"charming", "intimate", "lively", "energetic", "fun", "exciting", "relaxing",
	"peaceful", "calm", "serene", "warm", "inviting", "atmosphere", "ambiance",
	"mood", "theme", "decor", "design", "beautiful", "pretty", "gorgeous",
	"stunning", "spacious", "unique",
}

// VibeFilters returns the selectable density-overlay filters.
func VibeFilters() []VibeFilter {
	out := make([]VibeFilter, len(vibeKeywords))
	for i, k := range vibeKeywords {
		out[i] = VibeFilter{Index: i, Name: k}
	}
	return out
}

// vibeApplicable reports whether the overlay is meaningful for a query:
// it only makes sense for vibe-seeking requests, recognized by the
// fixed keyword vocabulary.
func vibeApplicable(query string) bool {
	q := strings.ToLower(query)
	if q == "" {
		return false
	}
	for _, k := range vibeKeywords {
		if strings.Contains(q, k) {
			return true
		}
	}
	return false
}

// OverlayFetch describes a density fetch the caller must run. The
// generation pins the (filter, query) tuple the request was derived
// from; a response only installs if the generation still matches.
type OverlayFetch struct {
	Generation int
	URL        string
}

// OverlayController derives the map's density overlay from
// (selectedFilter, queryContext, mapReady). It shares the session's
// map surface but runs independently of the search lifecycle. The only
// state it keeps is whether a layer is currently installed.
type OverlayController struct {
	renderer MapRenderer
	client   *http.Client
	baseURL  string

	installed  bool
	generation int
}

func NewOverlayController(r MapRenderer, baseURL string) *OverlayController {
	return &OverlayController{
		renderer: r,
		client:   &http.Client{Timeout: 15 * time.Second},
		baseURL:  strings.TrimRight(baseURL, "/"),
	}
}

// Derive re-evaluates the desired overlay for the current inputs. When
// the overlay does not apply, any installed layer is removed and nil is
// returned. Otherwise the caller gets a fetch to run asynchronously and
// hand back to Complete. Every call bumps the generation, so responses
// to earlier derivations can no longer install.
func (c *OverlayController) Derive(filter *VibeFilter, queryContext string, mapReady bool) *OverlayFetch {
	c.generation++
	if filter == nil || !mapReady || !vibeApplicable(queryContext) {
		c.removeIfInstalled()
		return nil
	}
	return &OverlayFetch{
		Generation: c.generation,
		URL:        fmt.Sprintf("%s/api/vibe-heatmap?vibe_index=%d", c.baseURL, filter.Index),
	}
}

// Fetch runs one overlay fetch. Safe to call off the event loop; only
// Complete touches shared state.
func (c *OverlayController) Fetch(ctx context.Context, f *OverlayFetch) ([]OverlayPoint, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.URL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("heatmap fetch: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("heatmap fetch: status %d", resp.StatusCode)
	}
	var body struct {
		Points []OverlayPoint `json:"points"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("heatmap decode: %w", err)
	}
	return body.Points, nil
}

// Complete installs a fetched overlay, unless the inputs have moved on
// since the fetch started — stale responses are discarded so a slow
// response for filter A can never clobber filter B's layer. Fetch
// failures fail open to "no overlay", never a stale one.
func (c *OverlayController) Complete(generation int, points []OverlayPoint, err error) {
	if generation != c.generation {
		slog.Debug("overlay: discarding stale response", "generation", generation)
		return
	}
	if err != nil {
		slog.Warn("overlay: fetch failed", "error", err)
		c.removeIfInstalled()
		return
	}
	c.removeIfInstalled()
	c.renderer.SetOverlay(points)
	c.installed = true
}

func (c *OverlayController) removeIfInstalled() {
	if c.installed {
		c.renderer.RemoveOverlay()
		c.installed = false
	}
}
