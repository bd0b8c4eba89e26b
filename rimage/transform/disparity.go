package transform

import (
	"math"

	"github.com/pkg/errors"

	"github.com/stereoforge/depthpipe/rimage"
)

// DisparityMethod names a block-matching algorithm for the Disparity
// kernel. The concrete numerical operator is explicitly out of scope (spec
// §1 Non-goals), but `set_disparity_method(kind)` (spec §6) still needs a
// kind to forward, so this package carries a small, real (not stubbed)
// implementation of the two most common block-matching cost functions.
type DisparityMethod string

const (
	// DisparitySAD matches blocks by sum of absolute differences.
	DisparitySAD DisparityMethod = "sad"
	// DisparitySSD matches blocks by sum of squared differences.
	DisparitySSD DisparityMethod = "ssd"
)

// BlockMatcher is the Disparity stage kernel: a pure function of the
// rectified left/right matrices to a disparity DepthMap, parameterized by a
// search window and maximum disparity.
type BlockMatcher struct {
	Method        DisparityMethod
	BlockSize     int // must be odd
	MaxDisparity  int
}

// NewBlockMatcher validates and constructs a BlockMatcher.
func NewBlockMatcher(method DisparityMethod, blockSize, maxDisparity int) (*BlockMatcher, error) {
	if blockSize <= 0 || blockSize%2 == 0 {
		return nil, errors.Errorf("block size must be a positive odd number, got %d", blockSize)
	}
	if maxDisparity <= 0 {
		return nil, errors.Errorf("max disparity must be positive, got %d", maxDisparity)
	}
	switch method {
	case DisparitySAD, DisparitySSD:
	default:
		return nil, errors.Errorf("unknown disparity method %q", method)
	}
	return &BlockMatcher{Method: method, BlockSize: blockSize, MaxDisparity: maxDisparity}, nil
}

// Compute matches each pixel of left against a horizontal search window in
// right (right is assumed to the left of left's matching feature, i.e. a
// standard converging stereo rig), writing the pixel offset with lowest
// matching cost as that pixel's disparity. Pixels too close to the matrix
// border to hold a full block are left at zero ("no data").
func (bm *BlockMatcher) Compute(left, right *rimage.Matrix) (*rimage.DepthMap, error) {
	if left.Width != right.Width || left.Height != right.Height {
		return nil, errors.Errorf("left/right matrix shape mismatch Left(%d,%d) != Right(%d,%d)",
			left.Width, left.Height, right.Width, right.Height)
	}
	half := bm.BlockSize / 2
	out := rimage.NewEmptyDepthMap(left.Width, left.Height)

	for y := half; y < left.Height-half; y++ {
		for x := half; x < left.Width-half; x++ {
			bestCost := math.Inf(1)
			bestD := 0
			maxD := bm.MaxDisparity
			if x-half-maxD < 0 {
				maxD = x - half
			}
			for d := 0; d <= maxD; d++ {
				cost := bm.blockCost(left, right, x, y, d, half)
				if cost < bestCost {
					bestCost = cost
					bestD = d
				}
			}
			if bestD > 0 {
				out.Set(x, y, float64(bestD))
			}
		}
	}
	return out, nil
}

func (bm *BlockMatcher) blockCost(left, right *rimage.Matrix, x, y, d, half int) float64 {
	var cost float64
	for dy := -half; dy <= half; dy++ {
		for dx := -half; dx <= half; dx++ {
			lv := grayAt(left, x+dx, y+dy)
			rv := grayAt(right, x+dx-d, y+dy)
			diff := float64(lv) - float64(rv)
			switch bm.Method {
			case DisparitySSD:
				cost += diff * diff
			default: // DisparitySAD
				cost += math.Abs(diff)
			}
		}
	}
	return cost
}

// grayAt reads a single-channel luminance sample from a 1- or 3-channel matrix.
func grayAt(m *rimage.Matrix, x, y int) uint8 {
	if m.Channels == 1 {
		return m.Gray(x, y)
	}
	return m.Color(x, y).Luminance()
}
