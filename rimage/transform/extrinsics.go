package transform

import (
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Extrinsics is the rigid transform from the left camera frame to the right
// camera frame: RotationMatrix is row-major 3x3, TranslationVector is in the
// same units as depth output (millimeters).
type Extrinsics struct {
	RotationMatrix   [9]float64 `json:"rotation"`
	TranslationVector r3.Vector `json:"translation"`
}

// CheckValid rejects a translation vector with no baseline; a zero baseline
// makes disparity-to-depth reprojection (division by Tx) undefined.
func (e *Extrinsics) CheckValid() error {
	if e == nil {
		return errors.New("extrinsics are not available")
	}
	if e.TranslationVector.X == 0 {
		return errors.New("extrinsics have a zero x-baseline, cannot reproject disparity")
	}
	return nil
}

// RotationAsDense returns the rotation matrix as a 3x3 gonum Dense, for use
// alongside GetCameraMatrix in homography-style computations.
func (e *Extrinsics) RotationAsDense() *mat.Dense {
	return mat.NewDense(3, 3, e.RotationMatrix[:])
}
