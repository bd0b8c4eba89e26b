package transform

import "github.com/pkg/errors"

// BrownConrady applies the inverse of the Brown-Conrady distortion model.
// Given a distorted point in the normalized image plane, it computes the
// corresponding undistorted point using an iterative Newton-Raphson method.
type BrownConrady struct {
	RadialK1     float64 `json:"rk1"`
	RadialK2     float64 `json:"rk2"`
	RadialK3     float64 `json:"rk3"`
	TangentialP1 float64 `json:"tp1"`
	TangentialP2 float64 `json:"tp2"`
}

// CheckValid checks if the fields for BrownConrady have valid inputs.
func (bc *BrownConrady) CheckValid() error {
	if bc == nil {
		return InvalidDistortionError("BrownConrady shaped distortion_parameters not provided")
	}
	return nil
}

// NewBrownConrady takes in a slice of floats (rk1, rk2, rk3, tp1, tp2, in
// that order; missing trailing values default to 0) and builds a BrownConrady.
func NewBrownConrady(inp []float64) (*BrownConrady, error) {
	if len(inp) > 5 {
		return nil, errors.Errorf("list of parameters too long, expected max 5, got %d", len(inp))
	}
	if len(inp) == 0 {
		return &BrownConrady{}, nil
	}
	for i := len(inp); i < 5; i++ {
		inp = append(inp, 0.0)
	}
	return &BrownConrady{inp[0], inp[1], inp[2], inp[3], inp[4]}, nil
}

// ModelType returns the type of distortion model.
func (bc *BrownConrady) ModelType() DistortionType {
	return BrownConradyDistortionType
}

// Parameters returns the parameters of the distortion model as a list of floats.
func (bc *BrownConrady) Parameters() []float64 {
	if bc == nil {
		return []float64{}
	}
	return []float64{bc.RadialK1, bc.RadialK2, bc.RadialK3, bc.TangentialP1, bc.TangentialP2}
}

// Transform applies the inverse Brown-Conrady distortion to convert a
// distorted point to an undistorted one. It uses Newton-Raphson to find the
// undistorted coordinates that would produce the given distorted coordinates
// under the forward model:
//
//	x_d = x_u * (1 + k1*r² + k2*r⁴ + k3*r⁶) + 2*p1*x_u*y_u + p2*(r² + 2*x_u²)
//	y_d = y_u * (1 + k1*r² + k2*r⁴ + k3*r⁶) + 2*p2*x_u*y_u + p1*(r² + 2*y_u²)
func (bc *BrownConrady) Transform(xd, yd float64) (float64, float64) {
	if bc == nil {
		return xd, yd
	}

	xu, yu := xd, yd

	const maxIterations = 20
	const tolerance = 1e-10

	for i := 0; i < maxIterations; i++ {
		r2 := xu*xu + yu*yu
		r4 := r2 * r2
		r6 := r4 * r2

		radDist := 1.0 + bc.RadialK1*r2 + bc.RadialK2*r4 + bc.RadialK3*r6
		tanDistX := 2.0*bc.TangentialP1*xu*yu + bc.TangentialP2*(r2+2.0*xu*xu)
		tanDistY := 2.0*bc.TangentialP2*xu*yu + bc.TangentialP1*(r2+2.0*yu*yu)

		xdEst := xu*radDist + tanDistX
		ydEst := yu*radDist + tanDistY

		errX := xdEst - xd
		errY := ydEst - yd

		if errX*errX+errY*errY < tolerance*tolerance {
			break
		}

		dRadDistDxu := 2.0 * xu * (bc.RadialK1 + 2.0*bc.RadialK2*r2 + 3.0*bc.RadialK3*r4)
		dRadDistDyu := 2.0 * yu * (bc.RadialK1 + 2.0*bc.RadialK2*r2 + 3.0*bc.RadialK3*r4)

		dxdDxu := radDist + xu*dRadDistDxu + 2.0*bc.TangentialP1*yu + bc.TangentialP2*(2.0*xu+4.0*xu)
		dxdDyu := xu*dRadDistDyu + 2.0*bc.TangentialP1*xu + bc.TangentialP2*2.0*yu
		dydDxu := yu*dRadDistDyu + 2.0*bc.TangentialP2*yu + bc.TangentialP1*2.0*xu
		dydDyu := radDist + yu*dRadDistDyu + 2.0*bc.TangentialP2*xu + bc.TangentialP1*(2.0*yu+4.0*yu)

		det := dxdDxu*dydDyu - dxdDyu*dydDxu
		if det == 0 {
			break
		}

		xu -= (dydDyu*errX - dxdDyu*errY) / det
		yu -= (-dydDxu*errX + dxdDxu*errY) / det
	}

	return xu, yu
}
