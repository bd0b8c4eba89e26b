package transform

import (
	"fmt"
	"math"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/stereoforge/depthpipe/rimage"
)

// ErrNoIntrinsics is when a camera does not have intrinsics parameters or other parameters.
var ErrNoIntrinsics = errors.New("camera intrinsic parameters are not available")

// NewNoIntrinsicsError is used when the intrinsics are not defined.
func NewNoIntrinsicsError(msg string) error {
	return errors.Wrap(ErrNoIntrinsics, msg)
}

// PinholeCameraModel pairs a camera's intrinsics with its distortion model;
// the Rectify kernel's construction parameter for one eye.
type PinholeCameraModel struct {
	*PinholeCameraIntrinsics `json:"intrinsic_parameters"`
	Distortion               Distorter `json:"distortion"`
}

// CheckValid validates both the intrinsics and, if present, the distortion model.
func (params *PinholeCameraModel) CheckValid() error {
	if params == nil {
		return NewNoIntrinsicsError("camera model is nil")
	}
	if err := params.PinholeCameraIntrinsics.CheckValid(); err != nil {
		return err
	}
	if params.Distortion != nil {
		return params.Distortion.CheckValid()
	}
	return nil
}

// DistortionMap returns a function that transforms undistorted input pixel
// coordinates (u,v) to the distorted pixel coordinates (x,y) a raw sensor
// image would have carried, per this model's Distortion.
func (params *PinholeCameraModel) DistortionMap() func(u, v float64) (float64, float64) {
	return func(u, v float64) (float64, float64) {
		x := (u - params.Ppx) / params.Fx
		y := (v - params.Ppy) / params.Fy
		if params.Distortion != nil {
			x, y = params.Distortion.Transform(x, y)
		}
		x = x*params.Fx + params.Ppx
		y = y*params.Fy + params.Ppy
		return x, y
	}
}

// UndistortMatrix produces a new Matrix of the same shape, undistorted
// according to this model, by bilinear-interpolating the source at each
// output pixel's corresponding distorted location.
func (params *PinholeCameraModel) UndistortMatrix(src *rimage.Matrix) (*rimage.Matrix, error) {
	if src == nil {
		return nil, errors.New("input matrix is nil")
	}
	if params.Width != src.Width || params.Height != src.Height {
		return nil, errors.Errorf("matrix dimensions and intrinsics don't match Matrix(%d,%d) != Intrinsics(%d,%d)",
			src.Width, src.Height, params.Width, params.Height)
	}
	out := rimage.NewMatrix(src.Width, src.Height, src.Channels)
	distortionMap := params.DistortionMap()
	for v := 0; v < params.Height; v++ {
		for u := 0; u < params.Width; u++ {
			x, y := distortionMap(float64(u), float64(v))
			bilinearSample(src, x, y, out, u, v)
		}
	}
	return out, nil
}

// bilinearSample writes the bilinear interpolation of src at (x, y) into
// out at (u, v); samples outside src's bounds leave out untouched (zero).
func bilinearSample(src *rimage.Matrix, x, y float64, out *rimage.Matrix, u, v int) {
	x0, y0 := int(math.Floor(x)), int(math.Floor(y))
	x1, y1 := x0+1, y0+1
	if x0 < 0 || y0 < 0 || x1 >= src.Width || y1 >= src.Height {
		return
	}
	fx, fy := x-float64(x0), y-float64(y0)

	for c := 0; c < src.Channels; c++ {
		v00 := float64(src.Data[src.At(x0, y0)+c])
		v10 := float64(src.Data[src.At(x1, y0)+c])
		v01 := float64(src.Data[src.At(x0, y1)+c])
		v11 := float64(src.Data[src.At(x1, y1)+c])

		top := v00*(1-fx) + v10*fx
		bottom := v01*(1-fx) + v11*fx
		val := top*(1-fy) + bottom*fy

		out.Data[out.At(u, v)+c] = clampByteF(val)
	}
}

func clampByteF(v float64) byte {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return byte(v)
}

// UndistortDepthMap produces a new DepthMap of the same shape, undistorted
// via nearest-neighbor lookup (depth values must not be blended across
// object boundaries the way color bilinear interpolation can tolerate).
func (params *PinholeCameraModel) UndistortDepthMap(dm *rimage.DepthMap) (*rimage.DepthMap, error) {
	if dm == nil {
		return nil, errors.New("input depth map is nil")
	}
	if params.Width != dm.Width || params.Height != dm.Height {
		return nil, errors.Errorf("depth map dimensions and intrinsics don't match DepthMap(%d,%d) != Intrinsics(%d,%d)",
			dm.Width, dm.Height, params.Width, params.Height)
	}
	out := rimage.NewEmptyDepthMap(params.Width, params.Height)
	distortionMap := params.DistortionMap()
	for v := 0; v < params.Height; v++ {
		for u := 0; u < params.Width; u++ {
			x, y := distortionMap(float64(u), float64(v))
			nx, ny := int(math.Round(x)), int(math.Round(y))
			if nx < 0 || ny < 0 || nx >= dm.Width || ny >= dm.Height {
				continue
			}
			out.Set(u, v, dm.Get(nx, ny))
		}
	}
	return out, nil
}

// PinholeCameraIntrinsics holds the parameters necessary to do a perspective projection of a 3D scene to the 2D plane.
type PinholeCameraIntrinsics struct {
	Width  int     `json:"width_px"`
	Height int     `json:"height_px"`
	Fx     float64 `json:"fx"`
	Fy     float64 `json:"fy"`
	Ppx    float64 `json:"ppx"`
	Ppy    float64 `json:"ppy"`
}

// CheckValid checks if the fields for PinholeCameraIntrinsics have valid inputs.
func (params *PinholeCameraIntrinsics) CheckValid() error {
	if params == nil {
		return NewNoIntrinsicsError("intrinsics do not exist")
	}
	if params.Width == 0 || params.Height == 0 {
		return NewNoIntrinsicsError(fmt.Sprintf("invalid size (%#v, %#v)", params.Width, params.Height))
	}
	if params.Fx <= 0 {
		return NewNoIntrinsicsError(fmt.Sprintf("invalid focal length Fx = %#v", params.Fx))
	}
	if params.Fy <= 0 {
		return NewNoIntrinsicsError(fmt.Sprintf("invalid focal length Fy = %#v", params.Fy))
	}
	if params.Ppx < 0 {
		return NewNoIntrinsicsError(fmt.Sprintf("invalid principal X point Ppx = %#v", params.Ppx))
	}
	if params.Ppy < 0 {
		return NewNoIntrinsicsError(fmt.Sprintf("invalid principal Y point Ppy = %#v", params.Ppy))
	}
	return nil
}

// PixelToPoint transforms a pixel with depth z to a 3D point. The intrinsics
// should be the ones of the sensor used to obtain the image containing the pixel.
func (params *PinholeCameraIntrinsics) PixelToPoint(x, y, z float64) r3.Vector {
	if params == nil {
		return r3.Vector{}
	}
	xOverZ := (x - params.Ppx) / params.Fx
	yOverZ := (y - params.Ppy) / params.Fy
	return r3.Vector{X: xOverZ * z, Y: yOverZ * z, Z: z}
}

// PointToPixel projects a 3D point to a pixel in this camera's image plane.
func (params *PinholeCameraIntrinsics) PointToPixel(pt r3.Vector) r2.Point {
	if pt.Z == 0 {
		return r2.Point{X: -1, Y: -1}
	}
	return r2.Point{
		X: math.Round((pt.X/pt.Z)*params.Fx + params.Ppx),
		Y: math.Round((pt.Y/pt.Z)*params.Fy + params.Ppy),
	}
}

// GetCameraMatrix creates a new camera matrix and returns it.
// Camera matrix:
// [[fx 0 ppx],
//
//	[0 fy ppy],
//	[0 0  1]]
func (params *PinholeCameraIntrinsics) GetCameraMatrix() *mat.Dense {
	if params == nil {
		return nil
	}
	cameraMatrix := mat.NewDense(3, 3, nil)
	cameraMatrix.Set(0, 0, params.Fx)
	cameraMatrix.Set(1, 1, params.Fy)
	cameraMatrix.Set(0, 2, params.Ppx)
	cameraMatrix.Set(1, 2, params.Ppy)
	cameraMatrix.Set(2, 2, 1)
	return cameraMatrix
}
