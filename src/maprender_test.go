package src

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingRenderer captures every call the adapter makes, in order.
type recordingRenderer struct {
	calls    []string
	markers  map[string]Marker
	cameras  []Camera
	overlays [][]OverlayPoint
}

func newRecordingRenderer() *recordingRenderer {
	return &recordingRenderer{markers: map[string]Marker{}}
}

func (r *recordingRenderer) AddMarker(m Marker) {
	r.calls = append(r.calls, "add:"+m.ID)
	r.markers[m.ID] = m
}

func (r *recordingRenderer) UpdateMarker(m Marker) {
	r.calls = append(r.calls, "update:"+m.ID)
	r.markers[m.ID] = m
}

func (r *recordingRenderer) ClearMarkers() {
	r.calls = append(r.calls, "clear")
	r.markers = map[string]Marker{}
}

func (r *recordingRenderer) FlyTo(c Camera) {
	r.calls = append(r.calls, "flyto")
	r.cameras = append(r.cameras, c)
}

func (r *recordingRenderer) SetOverlay(points []OverlayPoint) {
	r.calls = append(r.calls, "overlay:set")
	r.overlays = append(r.overlays, points)
}

func (r *recordingRenderer) RemoveOverlay() {
	r.calls = append(r.calls, "overlay:remove")
}

func rankedResult() *ResultPayload {
	return &ResultPayload{Venues: []Venue{
		{Name: "The Alcove", Lat: 40.1, Lng: -74.2},
		{Name: "Mono Bar", Lat: 40.2, Lng: -74.1, HasHistoricalRisk: true},
		{Name: "Gallery 9", Lat: 40.3, Lng: -74.3},
		{Name: "Dock House", Lat: 40.4, Lng: -74.4},
	}}
}

func TestAdapterFirstResult(t *testing.T) {
	r := newRecordingRenderer()
	a := NewMapAdapter(r)

	a.Sync(rankedResult(), 0)

	// Stale markers are always cleared before placing a new set.
	assert.Equal(t, "clear", r.calls[0])
	require.Len(t, r.markers, 4)

	top := r.markers["venue-0"]
	assert.Equal(t, markerColorFirst, top.Color)
	assert.True(t, top.Large)
	assert.True(t, top.Selected)
	assert.Equal(t, "The Alcove", top.Label)

	// The risk flag overrides the rank color and pulses.
	risky := r.markers["venue-1"]
	assert.Equal(t, markerColorRisk, risky.Color)
	assert.True(t, risky.Pulse)
	assert.False(t, risky.Large)

	assert.Equal(t, markerColorThird, r.markers["venue-2"].Color)
	assert.Equal(t, markerColorRest, r.markers["venue-3"].Color)

	// Overview framing centers on the top venue.
	require.Len(t, r.cameras, 1)
	cam := r.cameras[0]
	assert.InDelta(t, 40.1, cam.Lat, 1e-9)
	assert.InDelta(t, overviewCamera.Zoom, cam.Zoom, 1e-9)
	assert.InDelta(t, overviewCamera.Pitch, cam.Pitch, 1e-9)
	assert.InDelta(t, overviewCamera.Bearing, cam.Bearing, 1e-9)
}

func TestAdapterSelectionChange(t *testing.T) {
	r := newRecordingRenderer()
	a := NewMapAdapter(r)
	a.Sync(rankedResult(), 0)
	before := len(r.calls)

	a.Sync(rankedResult(), 2)

	// Only the two affected markers are touched, plus the camera.
	assert.Equal(t, []string{"update:venue-0", "update:venue-2", "flyto"}, r.calls[before:])
	assert.False(t, r.markers["venue-0"].Selected)
	assert.True(t, r.markers["venue-2"].Selected)

	cam := r.cameras[len(r.cameras)-1]
	assert.InDelta(t, selectionCamera.Zoom, cam.Zoom, 1e-9)
	assert.InDelta(t, 40.3, cam.Lat, 1e-9)
}

func TestAdapterSameSelectionIsNoop(t *testing.T) {
	r := newRecordingRenderer()
	a := NewMapAdapter(r)
	a.Sync(rankedResult(), 1)
	before := len(r.calls)

	a.Sync(rankedResult(), 1)
	assert.Equal(t, before, len(r.calls))
}

func TestAdapterReset(t *testing.T) {
	r := newRecordingRenderer()
	a := NewMapAdapter(r)
	a.Sync(rankedResult(), 0)
	camerasBefore := len(r.cameras)

	a.Sync(nil, 0)
	assert.Empty(t, r.markers)
	// Reset never moves the camera.
	assert.Equal(t, camerasBefore, len(r.cameras))

	// Resetting an already-empty map touches nothing.
	before := len(r.calls)
	a.Sync(nil, 0)
	assert.Equal(t, before, len(r.calls))
}

func TestAdapterEmptyResult(t *testing.T) {
	r := newRecordingRenderer()
	a := NewMapAdapter(r)

	a.Sync(&ResultPayload{}, 0)
	assert.Empty(t, r.markers)
	assert.Empty(t, r.cameras, "no venues means nothing to frame")
}
