package src

import (
	"math"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// TermMap renders markers, the density overlay, and a camera viewport
// on a character grid. It is the terminal's stand-in for a GL map: the
// adapter drives it through the same MapRenderer interface a real map
// library would sit behind.
type TermMap struct {
	markers map[string]Marker
	overlay []OverlayPoint
	camera  Camera
	framed  bool
	// frame alternates the pulse cue on risk-flagged markers.
	frame int

	bgStyle      lipgloss.Style
	overlayStyle lipgloss.Style
}

func NewTermMap() *TermMap {
	return &TermMap{
		markers:      make(map[string]Marker),
		bgStyle:      lipgloss.NewStyle().Foreground(lipgloss.Color("#333333")),
		overlayStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("#AD8CFF")),
	}
}

func (t *TermMap) AddMarker(m Marker)    { t.markers[m.ID] = m }
func (t *TermMap) UpdateMarker(m Marker) { t.markers[m.ID] = m }

func (t *TermMap) ClearMarkers() {
	t.markers = make(map[string]Marker)
}

// FlyTo snaps the viewport to the target; terminal cells don't tween.
func (t *TermMap) FlyTo(c Camera) {
	t.camera = c
	t.framed = true
}

func (t *TermMap) SetOverlay(points []OverlayPoint) { t.overlay = points }
func (t *TermMap) RemoveOverlay()                   { t.overlay = nil }

// Advance moves the pulse animation one frame.
func (t *TermMap) Advance() { t.frame++ }

// Render draws the current viewport into a width×height cell block.
// The overlay is painted first so markers always sit on top of it.
func (t *TermMap) Render(width, height int) string {
	if width < 4 || height < 2 {
		return ""
	}
	chars := make([][]string, height)
	for y := range chars {
		chars[y] = make([]string, width)
		for x := range chars[y] {
			chars[y][x] = t.bgStyle.Render("·")
		}
	}

	center := t.center()
	// Degrees spanned by the viewport shrink as zoom grows; character
	// cells are about twice as tall as wide.
	lngSpan := 360 / math.Pow(2, t.zoom())
	latSpan := lngSpan * float64(height) / float64(width) * 2

	plot := func(lat, lng float64) (int, int, bool) {
		x := int((lng-center.Lng)/lngSpan*float64(width)) + width/2
		y := height/2 - int((lat-center.Lat)/latSpan*float64(height))
		if x < 0 || x >= width || y < 0 || y >= height {
			return 0, 0, false
		}
		return x, y, true
	}

	for _, p := range t.overlay {
		x, y, ok := plot(p.Lat, p.Lng)
		if !ok {
			continue
		}
		chars[y][x] = t.overlayStyle.Render(shadeFor(p.Score))
	}

	for _, m := range t.markersByRank() {
		x, y, ok := plot(m.Lat, m.Lng)
		if !ok {
			continue
		}
		glyph := "●"
		if m.Large {
			glyph = "◉"
		}
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(m.Color))
		if m.Pulse && t.frame%2 == 1 {
			style = style.Faint(true)
		}
		if m.Selected {
			style = style.Bold(true).Underline(true)
		}
		chars[y][x] = style.Render(glyph)
	}

	rows := make([]string, height)
	for y := range chars {
		rows[y] = strings.Join(chars[y], "")
	}
	return strings.Join(rows, "\n")
}

// markersByRank draws low ranks last so they win contested cells.
func (t *TermMap) markersByRank() []Marker {
	out := make([]Marker, 0, len(t.markers))
	for _, m := range t.markers {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Rank > out[j].Rank })
	return out
}

func (t *TermMap) center() Camera {
	if t.framed {
		return t.camera
	}
	// Nothing framed yet: center on whatever is placed, or nowhere.
	var c Camera
	n := 0
	for _, m := range t.markers {
		c.Lat += m.Lat
		c.Lng += m.Lng
		n++
	}
	if n > 0 {
		c.Lat /= float64(n)
		c.Lng /= float64(n)
	}
	return c
}

func (t *TermMap) zoom() float64 {
	if t.framed && t.camera.Zoom > 0 {
		return t.camera.Zoom
	}
	return overviewCamera.Zoom
}

func shadeFor(score float64) string {
	switch {
	case score >= 0.66:
		return "▓"
	case score >= 0.33:
		return "▒"
	default:
		return "░"
	}
}
