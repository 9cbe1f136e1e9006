package motion

import (
	"math"

	"github.com/kemo-beep/snip-enhance/internal/pixel"
)

// DefaultFlowWindow is the side length of the local window used by
// OpticalFlow.
const DefaultFlowWindow = 5

// singularEpsilon is the determinant threshold below which the 2×2 gradient
// system is treated as unsolvable (flat or single-gradient region).
const singularEpsilon = 1e-6

// Flow is a local optical-flow estimate at one image position.
type Flow struct {
	DX         float64
	DY         float64
	Confidence float64
}

// OpticalFlow estimates apparent motion at (x, y) between two frames using a
// Lucas-Kanade least-squares solve over a windowSize square centered on the
// point. Spatial gradients use central differences on frame1's luma; the
// temporal gradient is frame2 − frame1. Returns a zero-confidence result
// when the gradient system is near-singular or the window falls outside the
// frame.
func OpticalFlow(frame1, frame2 *pixel.Buffer, x, y, windowSize int) Flow {
	if windowSize <= 0 {
		windowSize = DefaultFlowWindow
	}
	if frame1.Width != frame2.Width || frame1.Height != frame2.Height {
		return Flow{}
	}

	w, h := frame1.Width, frame1.Height
	half := windowSize / 2

	// Central differences need one pixel of margin around the window.
	if x-half < 1 || y-half < 1 || x+half >= w-1 || y+half >= h-1 {
		return Flow{}
	}

	p1 := grayscale(frame1)
	p2 := grayscale(frame2)

	var sumIxIx, sumIxIy, sumIyIy, sumIxIt, sumIyIt float64

	for wy := y - half; wy <= y+half; wy++ {
		for wx := x - half; wx <= x+half; wx++ {
			idx := wy*w + wx
			ix := (p1[idx+1] - p1[idx-1]) / 2
			iy := (p1[idx+w] - p1[idx-w]) / 2
			it := p2[idx] - p1[idx]

			sumIxIx += ix * ix
			sumIxIy += ix * iy
			sumIyIy += iy * iy
			sumIxIt += ix * it
			sumIyIt += iy * it
		}
	}

	det := sumIxIx*sumIyIy - sumIxIy*sumIxIy
	if math.Abs(det) < singularEpsilon {
		return Flow{}
	}

	// Solve A·d = -b for the displacement.
	dx := (-sumIyIy*sumIxIt + sumIxIy*sumIyIt) / det
	dy := (sumIxIy*sumIxIt - sumIxIx*sumIyIt) / det

	// Confidence from the smaller eigenvalue of the gradient matrix: both
	// gradients must carry energy for the solve to be trustworthy.
	trace := sumIxIx + sumIyIy
	disc := math.Sqrt(trace*trace/4 - det)
	minEig := trace/2 - disc

	area := float64(windowSize * windowSize)
	confidence := math.Min(1, math.Max(0, minEig/(area*100)))

	return Flow{DX: dx, DY: dy, Confidence: confidence}
}
