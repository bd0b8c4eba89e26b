package transform

import (
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/stereoforge/depthpipe/pointcloud"
	"github.com/stereoforge/depthpipe/rimage"
)

// ReprojectionMatrix is the standard 4x4 stereo reprojection matrix Q that
// maps a homogeneous (x, y, disparity, 1) pixel into a homogeneous 3D point
// (X, Y, Z, W) via Q * [x y d 1]^T, with the 3D point recovered as
// (X/W, Y/W, Z/W). This is the Points kernel's construction parameter for
// the PINHOLE calibration model (spec §4.7).
type ReprojectionMatrix struct {
	Q *mat.Dense
}

// NewReprojectionMatrix builds Q from the left and right camera intrinsics
// and the extrinsics between them, following the standard stereo formula:
//
//	Q = [[1, 0, 0, -cx],
//	     [0, 1, 0, -cy],
//	     [0, 0, 0, f],
//	     [0, 0, 1/Tx, (cx'-cx)/Tx]]
//
// where (cx, cy, f) come from the left intrinsics, cx' from the right
// intrinsics, and Tx is the positive baseline (extrinsics.TranslationVector.X),
// so a disparity d with cx == cx' reprojects to depth Z = f*Tx/d.
func NewReprojectionMatrix(left, right *PinholeCameraIntrinsics, extrinsics *Extrinsics) (*ReprojectionMatrix, error) {
	if err := left.CheckValid(); err != nil {
		return nil, errors.Wrap(err, "left intrinsics")
	}
	if err := right.CheckValid(); err != nil {
		return nil, errors.Wrap(err, "right intrinsics")
	}
	if err := extrinsics.CheckValid(); err != nil {
		return nil, err
	}
	tx := extrinsics.TranslationVector.X
	q := mat.NewDense(4, 4, []float64{
		1, 0, 0, -left.Ppx,
		0, 1, 0, -left.Ppy,
		0, 0, 0, left.Fx,
		0, 0, 1 / tx, (right.Ppx - left.Ppx) / tx,
	})
	return &ReprojectionMatrix{Q: q}, nil
}

// DisparityToPoints is the PINHOLE Points kernel: for every pixel with a
// nonzero disparity value, reprojects (x, y, disparity) through Q into a 3D
// point. Zero-disparity pixels are left as the zero Vector in the output
// Grid, matching DepthMap's "zero means no data" convention.
func (r *ReprojectionMatrix) DisparityToPoints(disparity *rimage.DepthMap) *pointcloud.Grid {
	grid := pointcloud.NewGrid(disparity.Width, disparity.Height)
	for y := 0; y < disparity.Height; y++ {
		for x := 0; x < disparity.Width; x++ {
			d := disparity.Get(x, y)
			if d == 0 {
				continue
			}
			grid.Set(x, y, r.reproject(float64(x), float64(y), d))
		}
	}
	return grid
}

func (r *ReprojectionMatrix) reproject(x, y, disparity float64) r3.Vector {
	vec := mat.NewVecDense(4, []float64{x, y, disparity, 1})
	var out mat.VecDense
	out.MulVec(r.Q, vec)
	w := out.AtVec(3)
	if w == 0 {
		return r3.Vector{}
	}
	return r3.Vector{X: out.AtVec(0) / w, Y: out.AtVec(1) / w, Z: out.AtVec(2) / w}
}

// PointsToDepth is the PINHOLE Depth kernel: extracts the Z coordinate of
// every reprojected point into a scalar DepthMap, matching the
// Disparity→Points→Depth edge order for this calibration model (spec §4.3).
func PointsToDepth(grid *pointcloud.Grid) *rimage.DepthMap {
	depth := rimage.NewEmptyDepthMap(grid.Width, grid.Height)
	for y := 0; y < grid.Height; y++ {
		for x := 0; x < grid.Width; x++ {
			pt := grid.At(x, y)
			if pt.Z != 0 {
				depth.Set(x, y, pt.Z)
			}
		}
	}
	return depth
}
