// Package export renders run output to SVG.
package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/vortshed/internal/sim"
	"github.com/san-kum/vortshed/internal/vortex"
)

const (
	positiveFill = "#ff5533"
	negativeFill = "#3388ff"
	neutralFill  = "#888888"
	bodyStroke   = "#00ff00"
)

// WakeToSVG draws the blob population as a scatter, positive
// circulation in red, negative in blue, zero-strength seeds in gray,
// with the blob radius scaled by strength. The body outline is drawn
// from its boundary samples.
func WakeToSVG(snap sim.Snapshot, outline []complex128, width, height int) string {
	if len(snap.Blobs) == 0 {
		return ""
	}

	minX, maxX := real(snap.Blobs[0].Pos), real(snap.Blobs[0].Pos)
	minY, maxY := imag(snap.Blobs[0].Pos), imag(snap.Blobs[0].Pos)
	expand := func(x, y float64) {
		if x < minX {
			minX = x
		}
		if x > maxX {
			maxX = x
		}
		if y < minY {
			minY = y
		}
		if y > maxY {
			maxY = y
		}
	}
	for _, blob := range snap.Blobs {
		expand(real(blob.Pos), imag(blob.Pos))
	}
	for _, z := range outline {
		expand(real(z), imag(z))
	}

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

	toPx := func(z complex128) (float64, float64) {
		x := (real(z) - minX) / rangeX * float64(width)
		y := float64(height) - (imag(z)-minY)/rangeY*float64(height)
		return x, y
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	if len(outline) >= 2 {
		sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="M`, bodyStroke))
		for i, z := range outline {
			x, y := toPx(z)
			if i == 0 {
				sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
			} else {
				sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
			}
		}
		sb.WriteString("Z\"/>\n")
	}

	maxGamma := (&vortex.Wake{Blobs: snap.Blobs}).MaxAbsGamma()
	for _, blob := range snap.Blobs {
		x, y := toPx(blob.Pos)
		fill := neutralFill
		if blob.Gamma > 0 {
			fill = positiveFill
		} else if blob.Gamma < 0 {
			fill = negativeFill
		}
		r := 1.0
		if maxGamma > 0 {
			scale := blob.Gamma / maxGamma
			if scale < 0 {
				scale = -scale
			}
			r = 1.0 + 3.0*scale
		}
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>
`, x, y, r, fill))
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// ImpulseToSVG traces the impulse components over time, x in red and y
// in blue, on a shared vertical scale.
func ImpulseToSVG(times []float64, impulses []complex128, width, height int) string {
	if len(times) < 2 || len(times) != len(impulses) {
		return ""
	}

	minV, maxV := real(impulses[0]), real(impulses[0])
	for _, p := range impulses {
		for _, v := range [2]float64{real(p), imag(p)} {
			if v < minV {
				minV = v
			}
			if v > maxV {
				maxV = v
			}
		}
	}
	rangeV := maxV - minV
	if rangeV == 0 {
		rangeV = 1
	}
	minV -= rangeV * 0.1
	rangeV *= 1.2

	t0 := times[0]
	rangeT := times[len(times)-1] - t0
	if rangeT == 0 {
		rangeT = 1
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	for _, trace := range []struct {
		color string
		value func(complex128) float64
	}{
		{positiveFill, func(p complex128) float64 { return real(p) }},
		{negativeFill, func(p complex128) float64 { return imag(p) }},
	} {
		sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="M`, trace.color))
		for i, p := range impulses {
			x := (times[i] - t0) / rangeT * float64(width)
			y := float64(height) - (trace.value(p)-minV)/rangeV*float64(height)
			if i == 0 {
				sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
			} else {
				sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
			}
		}
		sb.WriteString("\"/>\n")
	}

	sb.WriteString("</svg>")
	return sb.String()
}
