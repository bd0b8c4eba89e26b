package pipeline

import (
	"testing"
	"time"

	"go.viam.com/test"

	"github.com/stereoforge/depthpipe/logging"
	"github.com/stereoforge/depthpipe/rimage"
)

var (
	leftMatrixFixture  = rimage.Matrix{Width: 1, Height: 1, Channels: 1, Data: []byte{0}}
	rightMatrixFixture = rimage.Matrix{Width: 1, Height: 1, Channels: 1, Data: []byte{0}}
)

func TestNewGraphPinholeWiresPointsThenDepth(t *testing.T) {
	g := newTestPinholeGraph(t)
	test.That(t, g.Model, test.ShouldEqual, CalibrationPinhole)
	test.That(t, g.Defaulted, test.ShouldBeFalse)

	disparityChildren := g.Disparity.Children()
	test.That(t, len(disparityChildren), test.ShouldEqual, 2)

	pointsChildren := g.Points.Children()
	test.That(t, len(pointsChildren), test.ShouldEqual, 1)
	test.That(t, pointsChildren[0] == g.Depth, test.ShouldBeTrue)
}

func TestNewGraphUnknownModelDefaultsToPinhole(t *testing.T) {
	logger := logging.NewTestLogger(t)
	k := stubKernels{}
	g, err := NewGraph(logger, CalibrationUnknown, Kernels{
		Rectify:             k,
		Disparity:           k,
		Normalize:           k,
		PointsFromDisparity: k,
		DepthFromPoints:     k,
	})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, g.Model, test.ShouldEqual, CalibrationPinhole)
	test.That(t, g.Defaulted, test.ShouldBeTrue)
}

func TestGraphByNameFindsStages(t *testing.T) {
	g := newTestPinholeGraph(t)
	s, err := g.ByName("disparity")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, s == g.Disparity, test.ShouldBeTrue)

	_, err = g.ByName("nonexistent")
	test.That(t, err, test.ShouldNotBeNil)
}

func TestGraphRootPassesPairThroughToRectify(t *testing.T) {
	g := newTestPinholeGraph(t)
	g.Root.Activate()
	g.Rectify.Activate()
	defer g.Root.Deactivate(true)
	defer g.Rectify.Deactivate(true)

	g.Root.Submit(StageInput{
		Paired: true,
		Left:   Payload{FrameID: 11, Matrix: &leftMatrixFixture},
		Right:  Payload{FrameID: 11, Matrix: &rightMatrixFixture},
	})

	waitForCondition(t, time.Second, func() bool {
		_, ok := g.Rectify.LastOutput()
		return ok
	})
}
