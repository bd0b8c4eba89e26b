package pipeline

import (
	"context"

	"github.com/pkg/errors"

	"github.com/stereoforge/depthpipe/logging"
	"github.com/stereoforge/depthpipe/pipeline/kernel"
	"github.com/stereoforge/depthpipe/rimage/transform"
)

// Kernels bundles every calibration-dependent kernel a Graph needs to wire its stages. Which
// fields are required depends on Model: PINHOLE needs Points/Depth (pinhole order), KANNALA_BRANDT
// needs Depth/Points (reversed order, spec.md §4.3).
type Kernels struct {
	Model     CalibrationModel
	Rectify   kernel.Rectify
	Disparity kernel.Disparity
	Normalize kernel.DisparityNormalize

	PointsFromDisparity kernel.PointsFromDisparity // PINHOLE
	DepthFromPoints     kernel.DepthFromPoints      // PINHOLE

	DepthFromDisparity kernel.DepthFromDisparity // KANNALA_BRANDT
	PointsFromDepth    kernel.PointsFromDepth     // KANNALA_BRANDT
}

// Graph is the wired processor graph: Root conceptually feeds Rectify, which feeds Disparity.
// Disparity feeds DisparityNormalized and also branches by CalibrationModel into either
// Points-then-Depth (PINHOLE) or Depth-then-Points (KANNALA_BRANDT), per spec.md §4.3's exact
// edge table.
type Graph struct {
	Model     CalibrationModel
	Defaulted bool

	Root                *Stage
	Rectify             *Stage
	Disparity           *Stage
	DisparityNormalized *Stage
	Points              *Stage
	Depth               *Stage

	byName map[string]*Stage
}

// ByName looks up a stage by its dotted logger name suffix ("rectify", "disparity", ...).
func (g *Graph) ByName(name string) (*Stage, error) {
	s, ok := g.byName[name]
	if !ok {
		return nil, errors.Wrapf(ErrStageNotFound, "stage %q", name)
	}
	return s, nil
}

// NewGraph builds the fixed DAG for model using the provided kernels. If model is neither
// PINHOLE nor KANNALA_BRANDT, it falls back to PINHOLE, logs a warning, and sets Defaulted true
// (spec.md §9's resolved open question on unknown calibration models) rather than returning
// ErrUnknownCalibrationModel.
func NewGraph(logger logging.Logger, model CalibrationModel, k Kernels) (*Graph, error) {
	defaulted := false
	switch model {
	case CalibrationPinhole, CalibrationKannalaBrandt:
	default:
		logger.Warnw("unknown calibration model, defaulting to PINHOLE", "model", model)
		model = CalibrationPinhole
		defaulted = true
	}

	g := &Graph{Model: model, Defaulted: defaulted, byName: map[string]*Stage{}}

	// Root has no kernel of its own and only carries spec.md §4.3's Root→Rectify edge: the
	// Dispatcher's pairing latch submits each paired LEFT/RIGHT input straight to Rectify, not to
	// Root (LEFT/RIGHT themselves are always NATIVE, so Root carries no target-stream
	// registrations of its own).
	g.Root = NewStage(logger, "root", passthroughCompute)

	g.Rectify = NewStage(logger, "rectify", rectifyCompute(k.Rectify),
		TargetStream{Stream: StreamLeftRectified, SupportMode: ModeSynthetic, Side: SideLeft},
		TargetStream{Stream: StreamRightRectified, SupportMode: ModeSynthetic, Side: SideRight},
	)
	g.Root.AddChild(g.Rectify)
	g.Disparity = NewStage(logger, "disparity", disparityCompute(k.Disparity),
		TargetStream{Stream: StreamDisparity, SupportMode: ModeSynthetic, Side: SideNone},
	)
	g.DisparityNormalized = NewStage(logger, "disparity_normalized", normalizeCompute(k.Normalize),
		TargetStream{Stream: StreamDisparityNormalized, SupportMode: ModeSynthetic, Side: SideNone},
	)
	g.Rectify.AddChild(g.Disparity)
	g.Disparity.AddChild(g.DisparityNormalized)

	switch model {
	case CalibrationKannalaBrandt:
		g.Depth = NewStage(logger, "depth", depthFromDisparityCompute(k.DepthFromDisparity),
			TargetStream{Stream: StreamDepth, SupportMode: ModeSynthetic, Side: SideNone},
		)
		g.Points = NewStage(logger, "points", pointsFromDepthCompute(k.PointsFromDepth),
			TargetStream{Stream: StreamPoints, SupportMode: ModeSynthetic, Side: SideNone},
		)
		g.Disparity.AddChild(g.Depth)
		g.Depth.AddChild(g.Points)
	default: // CalibrationPinhole
		g.Points = NewStage(logger, "points", pointsFromDisparityCompute(k.PointsFromDisparity),
			TargetStream{Stream: StreamPoints, SupportMode: ModeSynthetic, Side: SideNone},
		)
		g.Depth = NewStage(logger, "depth", depthFromPointsCompute(k.DepthFromPoints),
			TargetStream{Stream: StreamDepth, SupportMode: ModeSynthetic, Side: SideNone},
		)
		g.Disparity.AddChild(g.Points)
		g.Points.AddChild(g.Depth)
	}

	for _, s := range []*Stage{g.Root, g.Rectify, g.Disparity, g.DisparityNormalized, g.Points, g.Depth} {
		g.byName[s.Name] = s
	}
	return g, nil
}

// passthroughCompute is Root's kernel: it has no work of its own, it just hands its paired
// LEFT/RIGHT input through unchanged.
func passthroughCompute(_ context.Context, in StageInput) (StageOutput, error) {
	return in.asOutput(), nil
}

func rectifyCompute(k kernel.Rectify) ComputeFunc {
	return func(_ context.Context, in StageInput) (StageOutput, error) {
		if !in.Paired {
			return StageOutput{}, errors.Wrap(ErrPairedOutputNotReady, "rectify")
		}
		left, right, err := k.Rectify(in.Left.Matrix, in.Right.Matrix)
		if err != nil {
			return StageOutput{}, err
		}
		return StageOutput{
			Paired: true,
			Left:   Payload{Matrix: left, FrameID: in.Left.FrameID, Metadata: in.Left.Metadata},
			Right:  Payload{Matrix: right, FrameID: in.Right.FrameID, Metadata: in.Right.Metadata},
		}, nil
	}
}

func disparityCompute(k kernel.Disparity) ComputeFunc {
	return func(_ context.Context, in StageInput) (StageOutput, error) {
		if !in.Paired {
			return StageOutput{}, errors.Wrap(ErrPairedOutputNotReady, "disparity")
		}
		d, err := k.Disparity(in.Left.Matrix, in.Right.Matrix)
		if err != nil {
			return StageOutput{}, err
		}
		return StageOutput{Left: Payload{Depth: d, FrameID: in.Left.FrameID}}, nil
	}
}

func normalizeCompute(k kernel.DisparityNormalize) ComputeFunc {
	return func(_ context.Context, in StageInput) (StageOutput, error) {
		out, err := k.Normalize(in.Left.Depth)
		if err != nil {
			return StageOutput{}, err
		}
		return StageOutput{Left: Payload{Depth: out, FrameID: in.Left.FrameID}}, nil
	}
}

func pointsFromDisparityCompute(k kernel.PointsFromDisparity) ComputeFunc {
	return func(_ context.Context, in StageInput) (StageOutput, error) {
		pts, err := k.PointsFromDisparity(in.Left.Depth)
		if err != nil {
			return StageOutput{}, err
		}
		return StageOutput{Left: Payload{Points: pts, FrameID: in.Left.FrameID}}, nil
	}
}

func depthFromPointsCompute(k kernel.DepthFromPoints) ComputeFunc {
	return func(_ context.Context, in StageInput) (StageOutput, error) {
		d, err := k.DepthFromPoints(in.Left.Points)
		if err != nil {
			return StageOutput{}, err
		}
		return StageOutput{Left: Payload{Depth: d, FrameID: in.Left.FrameID}}, nil
	}
}

func depthFromDisparityCompute(k kernel.DepthFromDisparity) ComputeFunc {
	return func(_ context.Context, in StageInput) (StageOutput, error) {
		d, err := k.DepthFromDisparity(in.Left.Depth)
		if err != nil {
			return StageOutput{}, err
		}
		return StageOutput{Left: Payload{Depth: d, FrameID: in.Left.FrameID}}, nil
	}
}

func pointsFromDepthCompute(k kernel.PointsFromDepth) ComputeFunc {
	return func(_ context.Context, in StageInput) (StageOutput, error) {
		pts, err := k.PointsFromDepth(in.Left.Depth)
		if err != nil {
			return StageOutput{}, err
		}
		return StageOutput{Left: Payload{Points: pts, FrameID: in.Left.FrameID}}, nil
	}
}

// BuildPinholeKernels constructs the Kernels bundle for a PINHOLE graph from per-eye camera
// models, extrinsics, a disparity kernel, and a disparity-normalization max value.
func BuildPinholeKernels(
	leftModel, rightModel *transform.PinholeCameraModel,
	extrinsics *transform.Extrinsics,
	disparity kernel.Disparity,
	normalizeOutMax float64,
) (Kernels, error) {
	rect, err := transform.NewStereoRectifier(leftModel, rightModel, extrinsics)
	if err != nil {
		return Kernels{}, errors.Wrap(err, "building rectifier")
	}
	q, err := transform.NewReprojectionMatrix(leftModel.PinholeCameraIntrinsics, rightModel.PinholeCameraIntrinsics, extrinsics)
	if err != nil {
		return Kernels{}, errors.Wrap(err, "building reprojection matrix")
	}
	return Kernels{
		Model:               CalibrationPinhole,
		Rectify:             rect,
		Disparity:           disparity,
		Normalize:           kernel.DisparityNormalizer{OutMax: normalizeOutMax},
		PointsFromDisparity: kernel.ReprojectionPoints{Q: q},
		DepthFromPoints:     kernel.ReprojectionDepth{},
	}, nil
}

// BuildKannalaBrandtKernels constructs the Kernels bundle for a KANNALA_BRANDT graph.
func BuildKannalaBrandtKernels(
	leftModel, rightModel *transform.PinholeCameraModel,
	pair *transform.KannalaBrandtCalibrationPair,
	disparity kernel.Disparity,
	normalizeOutMax float64,
) (Kernels, error) {
	rect, err := transform.NewStereoRectifier(leftModel, rightModel, pair.Extrinsics)
	if err != nil {
		return Kernels{}, errors.Wrap(err, "building rectifier")
	}
	if err := pair.CheckValid(); err != nil {
		return Kernels{}, errors.Wrap(err, "kannala-brandt calibration pair")
	}
	return Kernels{
		Model:              CalibrationKannalaBrandt,
		Rectify:            rect,
		Disparity:          disparity,
		Normalize:          kernel.DisparityNormalizer{OutMax: normalizeOutMax},
		DepthFromDisparity: kernel.KannalaBrandtDepth{Pair: pair},
		PointsFromDepth:    kernel.KannalaBrandtPoints{Pair: pair},
	}, nil
}
