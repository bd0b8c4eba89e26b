// Package transform holds the stage kernels the core pipeline depends on
// only by signature (spec §4.7): camera intrinsics, lens distortion models,
// rectification, and disparity-to-3D reprojection for both the PINHOLE and
// KANNALA_BRANDT calibration models.
package transform

import "github.com/pkg/errors"

// DistortionType is the name of the distortion model.
type DistortionType string

const (
	// BrownConradyDistortionType is for simple lenses of narrow field easily modeled as a pinhole camera.
	BrownConradyDistortionType = DistortionType("brown_conrady")
	// KannalaBrandtDistortionType is for wide-angle and fisheye lens distortion.
	KannalaBrandtDistortionType = DistortionType("kannala_brandt")
)

// Distorter is a lens distortion model on the normalized image plane. Its
// Transform takes a distorted point and returns the undistorted point that
// produced it; both implementations in this package invert their forward
// model iteratively.
type Distorter interface {
	ModelType() DistortionType
	CheckValid() error
	Parameters() []float64
	Transform(x, y float64) (float64, float64)
}

// InvalidDistortionError is used when the distortion_parameters are invalid.
func InvalidDistortionError(msg string) error {
	return errors.Wrap(errors.New("invalid distortion_parameters"), msg)
}

// NewDistorter returns a Distorter given a valid DistortionType and its
// parameters. An unrecognized type is an error; the graph builder falls
// back to PINHOLE (brown_conrady) at the CalibrationModel level, not here.
func NewDistorter(distortionType DistortionType, parameters []float64) (Distorter, error) {
	switch distortionType {
	case BrownConradyDistortionType:
		return NewBrownConrady(parameters)
	case KannalaBrandtDistortionType:
		return NewKannalaBrandtDistorter(parameters)
	default:
		return nil, errors.Errorf("do not know how to parse %q distortion model", distortionType)
	}
}
