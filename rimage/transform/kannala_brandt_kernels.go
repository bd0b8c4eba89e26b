package transform

import (
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"github.com/stereoforge/depthpipe/pointcloud"
	"github.com/stereoforge/depthpipe/rimage"
)

// KannalaBrandtCalibrationPair is the KANNALA_BRANDT calibration model's
// construction parameter for both the Depth and Points kernels (spec §4.7:
// "Points (KANNALA_BRANDT) ← (calibration pair)"; Depth is analogous). It
// pairs the left eye's fisheye intrinsics/distortion with the stereo
// baseline, since a fisheye disparity-to-depth conversion still needs Fx
// and the baseline even though the ray direction itself is nonlinear.
type KannalaBrandtCalibrationPair struct {
	Left       *PinholeCameraIntrinsics
	Distortion *KannalaBrandtDistorter
	Extrinsics *Extrinsics
}

// CheckValid validates every component of the pair.
func (p *KannalaBrandtCalibrationPair) CheckValid() error {
	if p == nil {
		return errors.New("kannala-brandt calibration pair is not available")
	}
	if err := p.Left.CheckValid(); err != nil {
		return err
	}
	if err := p.Distortion.CheckValid(); err != nil {
		return err
	}
	return p.Extrinsics.CheckValid()
}

// DisparityToDepth is the KANNALA_BRANDT Depth kernel: converts disparity
// directly to metric depth using the standard Z = f*Tx/disparity relation.
// This is the same depth-from-disparity relation the PINHOLE branch gets for
// free from Q's third row, made explicit here since KANNALA_BRANDT needs
// depth before it has a points grid to extract Z from (spec §4.3's reversed
// edge order for this model).
func (p *KannalaBrandtCalibrationPair) DisparityToDepth(disparity *rimage.DepthMap) *rimage.DepthMap {
	depth := rimage.NewEmptyDepthMap(disparity.Width, disparity.Height)
	baseline := p.Extrinsics.TranslationVector.X
	for y := 0; y < disparity.Height; y++ {
		for x := 0; x < disparity.Width; x++ {
			d := disparity.Get(x, y)
			if d == 0 {
				continue
			}
			depth.Set(x, y, p.Left.Fx*baseline/d)
		}
	}
	return depth
}

// DepthToPoints is the KANNALA_BRANDT Points kernel: back-projects each
// metric depth sample through the inverse fisheye model to recover the ray
// that pixel corresponds to, then scales it to the known depth. Distortion.
// Transform already resolves the pixel's distorted offset to its
// undistorted normalized-plane coordinate, so the 3D point follows the same
// (x/z, y/z) convention PixelToPoint uses for the pinhole case.
func (p *KannalaBrandtCalibrationPair) DepthToPoints(depth *rimage.DepthMap) *pointcloud.Grid {
	grid := pointcloud.NewGrid(depth.Width, depth.Height)
	for y := 0; y < depth.Height; y++ {
		for x := 0; x < depth.Width; x++ {
			z := depth.Get(x, y)
			if z == 0 {
				continue
			}
			grid.Set(x, y, p.backProject(float64(x), float64(y), z))
		}
	}
	return grid
}

func (p *KannalaBrandtCalibrationPair) backProject(x, y, z float64) r3.Vector {
	xd := (x - p.Left.Ppx) / p.Left.Fx
	yd := (y - p.Left.Ppy) / p.Left.Fy
	xu, yu := p.Distortion.Transform(xd, yd)
	return r3.Vector{X: xu * z, Y: yu * z, Z: z}
}
