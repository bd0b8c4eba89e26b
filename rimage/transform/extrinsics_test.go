package transform

import (
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
)

func TestExtrinsicsCheckValidRejectsZeroBaseline(t *testing.T) {
	e := &Extrinsics{TranslationVector: r3.Vector{X: 0, Y: 0, Z: 0}}
	test.That(t, e.CheckValid(), test.ShouldNotBeNil)
}

func TestExtrinsicsCheckValidAcceptsNonzeroBaseline(t *testing.T) {
	e := &Extrinsics{TranslationVector: r3.Vector{X: 60, Y: 0, Z: 0}}
	test.That(t, e.CheckValid(), test.ShouldBeNil)
}

func TestExtrinsicsCheckValidNilReceiver(t *testing.T) {
	var e *Extrinsics
	test.That(t, e.CheckValid(), test.ShouldNotBeNil)
}

func TestRotationAsDenseIsRowMajor(t *testing.T) {
	e := &Extrinsics{RotationMatrix: [9]float64{1, 0, 0, 0, 1, 0, 0, 0, 1}}
	m := e.RotationAsDense()
	test.That(t, m.At(0, 0), test.ShouldEqual, 1.0)
	test.That(t, m.At(1, 1), test.ShouldEqual, 1.0)
	test.That(t, m.At(0, 1), test.ShouldEqual, 0.0)
}
