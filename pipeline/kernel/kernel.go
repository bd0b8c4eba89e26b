// Package kernel defines the narrow interfaces each graph stage depends on, decoupling the
// processor graph from the concrete rimage/transform kernel types (spec.md §4.7: "the core
// depends on kernels by signature, not by concrete type"). Adapters in this package bridge the
// concrete rimage/transform kernels to these signatures where the names or error conventions
// don't already line up.
package kernel

import (
	"sync"

	"github.com/stereoforge/depthpipe/pointcloud"
	"github.com/stereoforge/depthpipe/rimage"
	"github.com/stereoforge/depthpipe/rimage/transform"
)

// Rectify undistorts a left/right matrix pair into a rectified pair.
type Rectify interface {
	Rectify(left, right *rimage.Matrix) (*rimage.Matrix, *rimage.Matrix, error)
}

// Disparity computes a disparity map from a rectified left/right pair.
type Disparity interface {
	Disparity(left, right *rimage.Matrix) (*rimage.DepthMap, error)
}

// DisparityNormalize rescales a raw disparity map into display range.
type DisparityNormalize interface {
	Normalize(disparity *rimage.DepthMap) (*rimage.DepthMap, error)
}

// PointsFromDisparity projects a disparity map into a 3D point grid (PINHOLE order).
type PointsFromDisparity interface {
	PointsFromDisparity(disparity *rimage.DepthMap) (*pointcloud.Grid, error)
}

// DepthFromPoints extracts a depth map from a 3D point grid (PINHOLE order).
type DepthFromPoints interface {
	DepthFromPoints(points *pointcloud.Grid) (*rimage.DepthMap, error)
}

// DepthFromDisparity converts disparity directly to depth (KANNALA_BRANDT order).
type DepthFromDisparity interface {
	DepthFromDisparity(disparity *rimage.DepthMap) (*rimage.DepthMap, error)
}

// PointsFromDepth back-projects a depth map into a 3D point grid (KANNALA_BRANDT order).
type PointsFromDepth interface {
	PointsFromDepth(depth *rimage.DepthMap) (*pointcloud.Grid, error)
}

// StereoRectifier already implements Rectify with a matching signature; no adapter needed.
var _ Rectify = (*transform.StereoRectifier)(nil)

// BlockMatcherDisparity adapts *transform.BlockMatcher's Compute method to the Disparity
// interface's Disparity name.
type BlockMatcherDisparity struct {
	BM *transform.BlockMatcher
}

func (a BlockMatcherDisparity) Disparity(left, right *rimage.Matrix) (*rimage.DepthMap, error) {
	return a.BM.Compute(left, right)
}

// DisparityNormalizer adapts DepthMap.Normalized (which has no error return) to the
// DisparityNormalize interface.
type DisparityNormalizer struct {
	OutMax float64
}

func (n DisparityNormalizer) Normalize(disparity *rimage.DepthMap) (*rimage.DepthMap, error) {
	return disparity.Normalized(n.OutMax), nil
}

// ReprojectionPoints adapts ReprojectionMatrix.DisparityToPoints (error-less) to
// PointsFromDisparity, for the PINHOLE model.
type ReprojectionPoints struct {
	Q *transform.ReprojectionMatrix
}

func (r ReprojectionPoints) PointsFromDisparity(disparity *rimage.DepthMap) (*pointcloud.Grid, error) {
	return r.Q.DisparityToPoints(disparity), nil
}

// ReprojectionDepth adapts the package-level PointsToDepth function (error-less) to
// DepthFromPoints, for the PINHOLE model.
type ReprojectionDepth struct{}

func (ReprojectionDepth) DepthFromPoints(points *pointcloud.Grid) (*rimage.DepthMap, error) {
	return transform.PointsToDepth(points), nil
}

// KannalaBrandtDepth adapts KannalaBrandtCalibrationPair.DisparityToDepth (error-less) to
// DepthFromDisparity, for the KANNALA_BRANDT model.
type KannalaBrandtDepth struct {
	Pair *transform.KannalaBrandtCalibrationPair
}

func (k KannalaBrandtDepth) DepthFromDisparity(disparity *rimage.DepthMap) (*rimage.DepthMap, error) {
	return k.Pair.DisparityToDepth(disparity), nil
}

// KannalaBrandtPoints adapts KannalaBrandtCalibrationPair.DepthToPoints (error-less) to
// PointsFromDepth, for the KANNALA_BRANDT model.
type KannalaBrandtPoints struct {
	Pair *transform.KannalaBrandtCalibrationPair
}

func (k KannalaBrandtPoints) PointsFromDepth(depth *rimage.DepthMap) (*pointcloud.Grid, error) {
	return k.Pair.DepthToPoints(depth), nil
}

// DisparityMethodSwitch is a Disparity implementation that can be hot-swapped to a different
// block-matching method, block size, or max-disparity window without tearing down the owning
// stage. It backs the public set_disparity_method(kind) operation: the switch builds a fresh
// *transform.BlockMatcher on every Disparity call using whatever settings are currently held, so
// a concurrent SetMethod takes effect on the very next call with no stage restart required.
type DisparityMethodSwitch struct {
	mu           sync.Mutex
	method       transform.DisparityMethod
	blockSize    int
	maxDisparity int
}

// NewDisparityMethodSwitch constructs a switch with an initial method, block size, and maximum
// disparity window.
func NewDisparityMethodSwitch(method transform.DisparityMethod, blockSize, maxDisparity int) *DisparityMethodSwitch {
	return &DisparityMethodSwitch{method: method, blockSize: blockSize, maxDisparity: maxDisparity}
}

// SetMethod changes the block-matching method and window in effect for subsequent Disparity
// calls.
func (s *DisparityMethodSwitch) SetMethod(method transform.DisparityMethod, blockSize, maxDisparity int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.method = method
	s.blockSize = blockSize
	s.maxDisparity = maxDisparity
}

// Disparity implements the Disparity interface.
func (s *DisparityMethodSwitch) Disparity(left, right *rimage.Matrix) (*rimage.DepthMap, error) {
	s.mu.Lock()
	method, blockSize, maxDisparity := s.method, s.blockSize, s.maxDisparity
	s.mu.Unlock()

	bm, err := transform.NewBlockMatcher(method, blockSize, maxDisparity)
	if err != nil {
		return nil, err
	}
	return bm.Compute(left, right)
}

var _ Disparity = (*DisparityMethodSwitch)(nil)
