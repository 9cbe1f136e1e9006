// Package motion estimates inter-frame motion for the stabilization
// enhancer: exhaustive block matching, Lucas-Kanade optical flow, and
// shake classification over the resulting vector field.
package motion

import (
	"math"

	"github.com/kemo-beep/snip-enhance/internal/pixel"
)

// DefaultBlockSize is the side length of the square blocks used for
// block matching.
const DefaultBlockSize = 16

// searchRange is the exhaustive block-matching search radius in pixels.
const searchRange = 16

// Vector is the displacement of one image block between two frames, with
// its polar representation precomputed.
type Vector struct {
	X         float64
	Y         float64
	Magnitude float64
	Angle     float64
}

// newVector builds a Vector from cartesian displacement.
func newVector(x, y float64) Vector {
	return Vector{
		X:         x,
		Y:         y,
		Magnitude: math.Hypot(x, y),
		Angle:     math.Atan2(y, x),
	}
}

// grayscale converts a frame to a flat float64 luma plane.
func grayscale(b *pixel.Buffer) []float64 {
	out := make([]float64, b.Width*b.Height)
	for i, j := 0, 0; i < len(b.Pix); i, j = i+4, j+1 {
		out[j] = pixel.Luma(b.Pix[i], b.Pix[i+1], b.Pix[i+2])
	}
	return out
}

// sad computes the Sum of Absolute Differences between a blockSize square
// at (x1, y1) in plane p1 and (x2, y2) in plane p2.
func sad(p1, p2 []float64, stride, x1, y1, x2, y2, blockSize int) float64 {
	var sum float64
	for dy := 0; dy < blockSize; dy++ {
		r1 := (y1+dy)*stride + x1
		r2 := (y2+dy)*stride + x2
		for dx := 0; dx < blockSize; dx++ {
			sum += math.Abs(p1[r1+dx] - p2[r2+dx])
		}
	}
	return sum
}

// Vectors estimates per-block motion from frame1 to frame2 by exhaustive
// block matching on grayscale luma. The frame is partitioned into
// non-overlapping blockSize squares (any remainder at the right/bottom edge
// is skipped); each block is matched against frame2 within ±searchRange
// pixels by minimizing SAD.
//
// To suppress noise-level false motion, a vector snaps to (0,0) when the
// zero-displacement SAD is within 2*blockSize² of the found minimum.
//
// This is O(blocks × searchRange² × blockSize²) and deliberately so: callers
// must treat it as a slow, CPU-bound operation and keep it off any
// latency-sensitive path.
func Vectors(frame1, frame2 *pixel.Buffer, blockSize int) []Vector {
	if blockSize <= 0 {
		blockSize = DefaultBlockSize
	}
	if frame1.Width != frame2.Width || frame1.Height != frame2.Height {
		return nil
	}

	w, h := frame1.Width, frame1.Height
	p1 := grayscale(frame1)
	p2 := grayscale(frame2)

	blocksX := w / blockSize
	blocksY := h / blockSize
	vectors := make([]Vector, 0, blocksX*blocksY)

	noiseFloor := float64(2 * blockSize * blockSize)

	for by := 0; by < blocksY; by++ {
		for bx := 0; bx < blocksX; bx++ {
			x := bx * blockSize
			y := by * blockSize

			bestSAD := math.Inf(1)
			bestDX, bestDY := 0, 0

			minDX := maxInt(-searchRange, -x)
			maxDX := minInt(searchRange, w-blockSize-x)
			minDY := maxInt(-searchRange, -y)
			maxDY := minInt(searchRange, h-blockSize-y)

			for dy := minDY; dy <= maxDY; dy++ {
				for dx := minDX; dx <= maxDX; dx++ {
					cost := sad(p1, p2, w, x, y, x+dx, y+dy, blockSize)
					if cost < bestSAD {
						bestSAD = cost
						bestDX, bestDY = dx, dy
					}
				}
			}

			zeroSAD := sad(p1, p2, w, x, y, x, y, blockSize)
			if zeroSAD-bestSAD <= noiseFloor {
				bestDX, bestDY = 0, 0
			}

			vectors = append(vectors, newVector(float64(bestDX), float64(bestDY)))
		}
	}

	return vectors
}

// Average returns the mean motion vector of the field. Zero vector for an
// empty field.
func Average(vectors []Vector) Vector {
	if len(vectors) == 0 {
		return newVector(0, 0)
	}
	var sx, sy float64
	for _, v := range vectors {
		sx += v.X
		sy += v.Y
	}
	n := float64(len(vectors))
	return newVector(sx/n, sy/n)
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
