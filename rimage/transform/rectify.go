package transform

import (
	"github.com/pkg/errors"

	"github.com/stereoforge/depthpipe/rimage"
)

// StereoRectifier is the Rectify stage kernel's construction parameter set
// (spec §4.7: "Rectify ← (intrinsics_left, intrinsics_right, extrinsics)").
// It is shared by both calibration models; PINHOLE uses a BrownConrady
// Distortion, KANNALA_BRANDT a KannalaBrandtDistorter, and the kernel itself
// only depends on the Distorter interface.
type StereoRectifier struct {
	Left       *PinholeCameraModel
	Right      *PinholeCameraModel
	Extrinsics *Extrinsics
}

// NewStereoRectifier validates and constructs a StereoRectifier.
func NewStereoRectifier(left, right *PinholeCameraModel, extrinsics *Extrinsics) (*StereoRectifier, error) {
	if err := left.CheckValid(); err != nil {
		return nil, errors.Wrap(err, "left camera model")
	}
	if err := right.CheckValid(); err != nil {
		return nil, errors.Wrap(err, "right camera model")
	}
	if err := extrinsics.CheckValid(); err != nil {
		return nil, err
	}
	return &StereoRectifier{Left: left, Right: right, Extrinsics: extrinsics}, nil
}

// Rectify undistorts the left and right matrices independently according to
// each eye's own camera model, producing the LEFT_RECTIFIED/RIGHT_RECTIFIED
// paired output.
func (r *StereoRectifier) Rectify(left, right *rimage.Matrix) (*rimage.Matrix, *rimage.Matrix, error) {
	leftOut, err := r.Left.UndistortMatrix(left)
	if err != nil {
		return nil, nil, errors.Wrap(err, "rectifying left")
	}
	rightOut, err := r.Right.UndistortMatrix(right)
	if err != nil {
		return nil, nil, errors.Wrap(err, "rectifying right")
	}
	return leftOut, rightOut, nil
}
