package rimage

import "github.com/pkg/errors"

// DepthMap is a dense grid of scalar values: millimeter depth for the Depth
// stage output, or raw/normalized disparity for the Disparity and
// DisparityNormalized stage outputs. A value of zero means "no data at this
// pixel" for Depth; disparity kernels use their own sentinel documented by
// the kernel itself.
type DepthMap struct {
	Width, Height int
	data          []float64
}

// NewEmptyDepthMap allocates a zeroed DepthMap of the given shape.
func NewEmptyDepthMap(width, height int) *DepthMap {
	return &DepthMap{Width: width, Height: height, data: make([]float64, width*height)}
}

// NewDepthMapFromData wraps an existing row-major buffer; it must have
// exactly width*height elements.
func NewDepthMapFromData(width, height int, data []float64) (*DepthMap, error) {
	if len(data) != width*height {
		return nil, errors.Errorf("depth map: expected %d values, got %d", width*height, len(data))
	}
	return &DepthMap{Width: width, Height: height, data: data}, nil
}

func (dm *DepthMap) index(x, y int) int { return y*dm.Width + x }

// Get returns the value at (x, y).
func (dm *DepthMap) Get(x, y int) float64 {
	return dm.data[dm.index(x, y)]
}

// Set writes the value at (x, y).
func (dm *DepthMap) Set(x, y int, v float64) {
	dm.data[dm.index(x, y)] = v
}

// MinMax returns the smallest and largest nonzero values in the map. It
// returns (0, 0) if every value is zero.
func (dm *DepthMap) MinMax() (min, max float64) {
	first := true
	for _, v := range dm.data {
		if v == 0 {
			continue
		}
		if first {
			min, max = v, v
			first = false
			continue
		}
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max
}

// Normalized returns a new DepthMap whose values are linearly rescaled from
// [min, max] (as returned by MinMax) to [0, outMax], leaving zero ("no
// data") pixels at zero. This backs the DisparityNormalized stage.
func (dm *DepthMap) Normalized(outMax float64) *DepthMap {
	min, max := dm.MinMax()
	out := NewEmptyDepthMap(dm.Width, dm.Height)
	span := max - min
	for i, v := range dm.data {
		if v == 0 {
			continue
		}
		if span <= 0 {
			out.data[i] = outMax
			continue
		}
		out.data[i] = (v - min) / span * outMax
	}
	return out
}

// FillMissing replaces zero-valued pixels with the average of their
// nonzero 4-connected neighbors, repeated until no pixel can be filled or
// maxPasses is reached. It does not guarantee a fully dense result; sparse
// input (e.g. isolated outliers with no filled neighbors) can remain zero.
func (dm *DepthMap) FillMissing(maxPasses int) {
	for pass := 0; pass < maxPasses; pass++ {
		filledAny := false
		next := make([]float64, len(dm.data))
		copy(next, dm.data)
		for y := 0; y < dm.Height; y++ {
			for x := 0; x < dm.Width; x++ {
				idx := dm.index(x, y)
				if dm.data[idx] != 0 {
					continue
				}
				sum, count := 0.0, 0
				for _, n := range [][2]int{{x - 1, y}, {x + 1, y}, {x, y - 1}, {x, y + 1}} {
					nx, ny := n[0], n[1]
					if nx < 0 || nx >= dm.Width || ny < 0 || ny >= dm.Height {
						continue
					}
					v := dm.Get(nx, ny)
					if v != 0 {
						sum += v
						count++
					}
				}
				if count > 0 {
					next[idx] = sum / float64(count)
					filledAny = true
				}
			}
		}
		dm.data = next
		if !filledAny {
			break
		}
	}
}
