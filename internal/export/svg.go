package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/san-kum/nbody/internal/analysis"
	"github.com/san-kum/nbody/internal/dynamo"
)

var trackColors = []string{"#ffcc00", "#ff8844", "#ddcc88", "#66ddff", "#4477ff"}

// OrbitsSVG writes one path per body track and marks each body's last
// position. The y axis points up.
func OrbitsSVG(w io.Writer, portrait *analysis.OrbitPortrait, width, height int) error {
	minX, maxX, minY, maxY, ok := portrait.Bounds()
	if !ok {
		return fmt.Errorf("%w: no positions to draw", dynamo.ErrNoData)
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
	minX -= rangeX * 0.05
	minY -= rangeY * 0.05
	rangeX *= 1.1
	rangeY *= 1.1

	project := func(p analysis.Point) (float64, float64) {
		x := (p.X - minX) / rangeX * float64(width)
		y := float64(height) - (p.Y-minY)/rangeY*float64(height)
		return x, y
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height)

	for i, track := range portrait.Tracks {
		if len(track) == 0 {
			continue
		}
		color := trackColors[i%len(trackColors)]

		if len(track) > 1 {
			fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1" stroke-opacity="0.7" d="`, color)
			for j, p := range track {
				x, y := project(p)
				if j == 0 {
					fmt.Fprintf(&sb, "M%.1f,%.1f", x, y)
				} else {
					fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
				}
			}
			sb.WriteString("\"/>\n")
		}

		x, y := project(track[len(track)-1])
		r := 3.0
		if i == 0 {
			r = 5
		}
		fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>`+"\n", x, y, r, color)
	}

	sb.WriteString("</svg>\n")
	_, err := io.WriteString(w, sb.String())
	return err
}
