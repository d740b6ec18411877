package src

import "fmt"

// Rank badge palette: top three ranks get distinct colors, everything
// below shares one. A venue with a historical risk flag overrides its
// rank color with the warning color and a pulsing cue.
const (
	markerColorFirst  = "#FFD700"
	markerColorSecond = "#C0C0C0"
	markerColorThird  = "#CD7F32"
	markerColorRest   = "#4A90D9"
	markerColorRisk   = "#FF5C5C"
)

// Camera framing used when a result set arrives, and the closer framing
// used when the user selects an individual venue.
var (
	overviewCamera  = Camera{Zoom: 13, Pitch: 45, Bearing: -10}
	selectionCamera = Camera{Zoom: 15.5, Pitch: 45, Bearing: -10}
)

// Marker is one venue pin. ID is derived from rank and is only stable
// within a single result set; it never survives a reset.
type Marker struct {
	ID       string
	Rank     int
	Lat      float64
	Lng      float64
	Label    string
	Color    string
	Pulse    bool
	Large    bool
	Selected bool
}

// Camera is a target framing for an animated camera move. Moves are
// fire-and-forget: callers never block on animation completion.
type Camera struct {
	Lat     float64
	Lng     float64
	Zoom    float64
	Pitch   float64
	Bearing float64
}

// OverlayPoint is one weighted point of the density overlay.
type OverlayPoint struct {
	Lng   float64 `json:"lng"`
	Lat   float64 `json:"lat"`
	Score float64 `json:"score"`
}

// MapRenderer is the black-box map surface: it can place and remove
// point markers, install or remove a single weighted density layer
// (stacked beneath any structure layer), and animate camera moves. The
// terminal map implements it; tests use a recording fake.
type MapRenderer interface {
	AddMarker(m Marker)
	UpdateMarker(m Marker)
	ClearMarkers()
	FlyTo(c Camera)
	SetOverlay(points []OverlayPoint)
	RemoveOverlay()
}

// MapAdapter reconciles the map against session output. Purely
// reactive: it holds no business state beyond what it last rendered.
type MapAdapter struct {
	renderer   MapRenderer
	haveResult bool
	venues     []Venue
	selected   int
}

func NewMapAdapter(r MapRenderer) *MapAdapter {
	return &MapAdapter{renderer: r}
}

// Sync brings the map in line with the session's (result, selection)
// pair. Call it whenever either changes, including on reset (nil
// result). Reset clears markers but leaves the camera where the user
// navigated it.
func (a *MapAdapter) Sync(result *ResultPayload, selected int) {
	if result == nil {
		if a.haveResult {
			a.renderer.ClearMarkers()
		}
		a.haveResult = false
		a.venues = nil
		return
	}

	if !a.haveResult {
		// No markers may carry over from a prior session.
		a.renderer.ClearMarkers()
		for rank, v := range result.Venues {
			a.renderer.AddMarker(a.markerFor(v, rank, rank == selected))
		}
		a.haveResult = true
		a.venues = result.Venues
		a.selected = selected
		if len(result.Venues) > 0 {
			top := result.Venues[0]
			cam := overviewCamera
			cam.Lat, cam.Lng = top.Lat, top.Lng
			a.renderer.FlyTo(cam)
		}
		return
	}

	if selected != a.selected && selected < len(a.venues) {
		prev := a.selected
		a.selected = selected
		a.renderer.UpdateMarker(a.markerFor(a.venues[prev], prev, false))
		a.renderer.UpdateMarker(a.markerFor(a.venues[selected], selected, true))
		v := a.venues[selected]
		cam := selectionCamera
		cam.Lat, cam.Lng = v.Lat, v.Lng
		a.renderer.FlyTo(cam)
	}
}

func (a *MapAdapter) markerFor(v Venue, rank int, selected bool) Marker {
	m := Marker{
		ID:       fmt.Sprintf("venue-%d", rank),
		Rank:     rank,
		Lat:      v.Lat,
		Lng:      v.Lng,
		Label:    v.Name,
		Color:    rankColor(rank),
		Large:    rank == 0,
		Selected: selected,
	}
	if v.HasHistoricalRisk {
		m.Color = markerColorRisk
		m.Pulse = true
	}
	return m
}

func rankColor(rank int) string {
	switch rank {
	case 0:
		return markerColorFirst
	case 1:
		return markerColorSecond
	case 2:
		return markerColorThird
	default:
		return markerColorRest
	}
}
