package effects

import (
	"encoding/binary"
	"hash/fnv"
	"math"

	"github.com/gogpu/gg"
)

const (
	rainCols    = 40
	rainTrail   = 20  // dots per column
	rainSpacing = 30  // px between trail dots
	gridSpacing = 80  // px between circuit grid dots
	circuitWays = 30  // polylines per canvas
	pulseCycle  = 3.0 // seconds per trace pulse
)

// Rain draws falling-code columns: a bright head dot with a fading trail,
// one column per 1/40 of the canvas width. Column speed and phase derive
// from the column index, so any frame can be drawn in isolation.
type Rain struct{}

func (e *Rain) Name() string { return "rain" }

func (e *Rain) Draw(dc *gg.Context, p Params) {
	colWidth := float64(p.Width) / rainCols
	trailLen := float64(rainTrail * rainSpacing)
	cycle := float64(p.Height) + 2*trailLen

	for i := 0; i < rainCols; i++ {
		x := float64(i)*colWidth + colWidth/2
		speed := 450 + 450*hash01(i, 3) // px per second
		phase := hash01(i, 5) * cycle

		headY := math.Mod(phase+speed*p.Elapsed, cycle) - trailLen

		for j := 0; j < rainTrail; j++ {
			y := headY - float64(j*rainSpacing)
			if y < 0 || y >= float64(p.Height) {
				continue
			}
			alpha := math.Max(0, 255-float64(j)*12) / 255
			size := math.Max(2, 8-float64(j/3))

			c := accent(p, alpha)
			dc.SetRGBA(c.R, c.G, c.B, c.A)
			dc.DrawCircle(x, y, size)
			dc.Fill()
		}
	}
}

// Circuit draws a faint dot grid with sine-pulsed traces and glowing nodes,
// the board layout fixed per canvas size and the pulses keyed to elapsed time.
type Circuit struct{}

func (e *Circuit) Name() string { return "circuit" }

func (e *Circuit) Draw(dc *gg.Context, p Params) {
	// Grid dots shimmer as a slow wave travels across the board
	for x := 0; x < p.Width; x += gridSpacing {
		for y := 0; y < p.Height; y += gridSpacing {
			alpha := (20 + 10*math.Sin(p.Elapsed*3+float64(x)*0.01)) / 255
			c := accent(p, alpha)
			dc.SetRGBA(c.R, c.G, c.B, c.A)
			dc.DrawRectangle(float64(x), float64(y), 2, 2)
			dc.Fill()
		}
	}

	paths := circuitPaths(p.Width, p.Height)

	dc.SetLineWidth(3)
	for _, path := range paths {
		for i := 0; i+1 < len(path); i++ {
			progress := math.Mod(p.Elapsed+float64(i)*0.166, pulseCycle) / pulseCycle
			alpha := 150 * math.Abs(math.Sin(progress*math.Pi)) / 255

			c := accent(p, alpha)
			dc.SetRGBA(c.R, c.G, c.B, c.A)
			dc.DrawLine(path[i].X, path[i].Y, path[i+1].X, path[i+1].Y)
			dc.Stroke()
		}
	}

	// Glowing nodes on every other joint
	pulse := math.Abs(math.Sin(p.Elapsed * 4.5))
	size := 8 + 6*pulse
	for _, path := range paths {
		for i := 0; i < len(path); i += 2 {
			for off := size; off > 0; off -= 2 {
				alpha := 100 * (1 - off/size) / 255
				c := accent(p, alpha)
				dc.SetRGBA(c.R, c.G, c.B, c.A)
				dc.DrawCircle(path[i].X, path[i].Y, off)
				dc.Fill()
			}
		}
	}
}

// circuitPaths lays out the trace polylines. The walk is driven entirely by
// index hashes: the same canvas size always yields the same board.
func circuitPaths(width, height int) [][]gg.Point {
	w, h := float64(width), float64(height)

	paths := make([][]gg.Point, 0, circuitWays)
	for k := 0; k < circuitWays; k++ {
		x := hash01(k, 17) * w
		y := hash01(k, 29) * h
		n := 3 + int(hash01(k, 43)*6)

		points := make([]gg.Point, 0, n)
		for s := 0; s < n; s++ {
			points = append(points, gg.Point{X: x, Y: y})
			x = clamp(x+step(k, s, 7)*(50+hash01(k, s, 11)*150), 0, w)
			y = clamp(y+step(k, s, 13)*(50+hash01(k, s, 19)*150), 0, h)
		}
		paths = append(paths, points)
	}
	return paths
}

// step maps a hash to a direction: down a third of the time, still a third,
// up a third.
func step(seed ...int) float64 {
	u := hash01(seed...)
	switch {
	case u < 1.0/3:
		return -1
	case u < 2.0/3:
		return 0
	default:
		return 1
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// hash01 folds the seeds through FNV-1a into [0, 1).
func hash01(seed ...int) float64 {
	h := fnv.New32a()
	var buf [4]byte
	for _, s := range seed {
		binary.LittleEndian.PutUint32(buf[:], uint32(s))
		h.Write(buf[:])
	}
	return float64(h.Sum32()) / float64(1<<32)
}
