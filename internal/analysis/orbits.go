package analysis

import (
	"strings"

	"github.com/san-kum/nbody/internal/dynamo"
)

type Point struct{ X, Y float64 }

// OrbitPortrait holds the x-y projection of every body's path.
type OrbitPortrait struct {
	Tracks [][]Point
}

var orbitGlyphs = []rune{'☉', 'j', 's', 'u', 'n'}

// NewOrbitPortrait projects the sampled positions onto the ecliptic plane.
func NewOrbitPortrait(trace []dynamo.Sample) *OrbitPortrait {
	portrait := &OrbitPortrait{}
	for _, s := range trace {
		for len(portrait.Tracks) < len(s.Positions) {
			portrait.Tracks = append(portrait.Tracks, make([]Point, 0, len(trace)))
		}
		for i, p := range s.Positions {
			portrait.Tracks[i] = append(portrait.Tracks[i], Point{X: p[0], Y: p[1]})
		}
	}
	return portrait
}

// Bounds is the bounding box of every tracked point; ok is false when the
// portrait is empty.
func (o *OrbitPortrait) Bounds() (minX, maxX, minY, maxY float64, ok bool) {
	for _, track := range o.Tracks {
		for _, p := range track {
			if !ok {
				minX, maxX, minY, maxY = p.X, p.X, p.Y, p.Y
				ok = true
				continue
			}
			minX = min(minX, p.X)
			maxX = max(maxX, p.X)
			minY = min(minY, p.Y)
			maxY = max(maxY, p.Y)
		}
	}
	return
}

// ASCII renders the portrait; the most recent point of each track is drawn
// with the body's glyph and the rest of the track with dots.
func (o *OrbitPortrait) ASCII(width, height int) string {
	if o == nil || width < 2 || height < 2 {
		return ""
	}
	minX, maxX, minY, maxY, ok := o.Bounds()
	if !ok {
		return ""
	}

	// Add padding
	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	cell := func(p Point) (int, int) {
		col := int((p.X - minX) / rangeX * float64(width-1))
		row := height - 1 - int((p.Y-minY)/rangeY*float64(height-1))
		return row, col
	}

	for _, track := range o.Tracks {
		for _, p := range track {
			row, col := cell(p)
			if row >= 0 && row < height && col >= 0 && col < width && canvas[row][col] == ' ' {
				canvas[row][col] = '·'
			}
		}
	}
	for i, track := range o.Tracks {
		if len(track) == 0 {
			continue
		}
		glyph := '*'
		if i < len(orbitGlyphs) {
			glyph = orbitGlyphs[i]
		}
		row, col := cell(track[len(track)-1])
		if row >= 0 && row < height && col >= 0 && col < width {
			canvas[row][col] = glyph
		}
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}
