package transform

import (
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"github.com/stereoforge/depthpipe/rimage"
)

func validIntrinsics() *PinholeCameraIntrinsics {
	return &PinholeCameraIntrinsics{Width: 4, Height: 4, Fx: 100, Fy: 100, Ppx: 2, Ppy: 2}
}

func TestPinholeCameraIntrinsicsCheckValid(t *testing.T) {
	test.That(t, validIntrinsics().CheckValid(), test.ShouldBeNil)

	bad := validIntrinsics()
	bad.Fx = 0
	test.That(t, bad.CheckValid(), test.ShouldNotBeNil)

	var nilIntrinsics *PinholeCameraIntrinsics
	test.That(t, nilIntrinsics.CheckValid(), test.ShouldNotBeNil)
}

func TestPixelToPointAndPointToPixelRoundTrip(t *testing.T) {
	intr := validIntrinsics()
	pt := intr.PixelToPoint(10, 20, 500)
	test.That(t, pt, test.ShouldResemble, r3.Vector{X: 40, Y: 90, Z: 500})

	px := intr.PointToPixel(pt)
	test.That(t, px.X, test.ShouldAlmostEqual, 10.0)
	test.That(t, px.Y, test.ShouldAlmostEqual, 20.0)
}

func TestPointToPixelZeroDepthReturnsNegative(t *testing.T) {
	intr := validIntrinsics()
	px := intr.PointToPixel(r3.Vector{X: 1, Y: 1, Z: 0})
	test.That(t, px.X, test.ShouldEqual, -1.0)
	test.That(t, px.Y, test.ShouldEqual, -1.0)
}

func TestGetCameraMatrix(t *testing.T) {
	intr := validIntrinsics()
	m := intr.GetCameraMatrix()
	test.That(t, m.At(0, 0), test.ShouldEqual, 100.0)
	test.That(t, m.At(1, 1), test.ShouldEqual, 100.0)
	test.That(t, m.At(0, 2), test.ShouldEqual, 2.0)
	test.That(t, m.At(2, 2), test.ShouldEqual, 1.0)
}

func TestUndistortMatrixRejectsShapeMismatch(t *testing.T) {
	model := &PinholeCameraModel{PinholeCameraIntrinsics: validIntrinsics()}
	_, err := model.UndistortMatrix(rimage.NewMatrix(2, 2, 3))
	test.That(t, err, test.ShouldNotBeNil)
}

func TestUndistortMatrixWithNoDistortionIsNearIdentity(t *testing.T) {
	intr := validIntrinsics()
	model := &PinholeCameraModel{PinholeCameraIntrinsics: intr}
	src := rimage.NewMatrix(intr.Width, intr.Height, 3)
	src.SetColor(2, 2, rimage.Color{B: 9, G: 8, R: 7})

	out, err := model.UndistortMatrix(src)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out.Color(2, 2), test.ShouldResemble, rimage.Color{B: 9, G: 8, R: 7})
}

func TestUndistortDepthMapRejectsShapeMismatch(t *testing.T) {
	model := &PinholeCameraModel{PinholeCameraIntrinsics: validIntrinsics()}
	_, err := model.UndistortDepthMap(rimage.NewEmptyDepthMap(1, 1))
	test.That(t, err, test.ShouldNotBeNil)
}
