package pipeline

import "github.com/pkg/errors"

// Sentinel errors returned by the pipeline's public surface and registry. Callers should use
// errors.Is against these rather than matching on message text.
var (
	// ErrStreamNotSupported is returned when a caller names a stream this graph's calibration
	// model never produces (e.g. enabling LEFT on a pipeline whose device does not supply it
	// natively).
	ErrStreamNotSupported = errors.New("stream not supported by this pipeline")

	// ErrStreamDisabled is returned by get_stream_data/get_stream_datas for a stream whose mode
	// is currently NONE.
	ErrStreamDisabled = errors.New("stream is disabled")

	// ErrPairedOutputNotReady is returned when a paired stage is asked to run before both of its
	// inputs have arrived with a matching frame-id.
	ErrPairedOutputNotReady = errors.New("paired output not ready")

	// ErrUnknownCalibrationModel names a model other than PINHOLE or KANNALA_BRANDT. NewGraph
	// does not return it: it falls back to PINHOLE for such a model.
	ErrUnknownCalibrationModel = errors.New("unknown calibration model")

	// ErrNoDevice is returned by operations that require a Device collaborator before one has
	// been attached via start_video_streaming.
	ErrNoDevice = errors.New("no device attached")

	// ErrStageNotFound is returned when a stream or stage name does not resolve to a node in the
	// graph.
	ErrStageNotFound = errors.New("stage not found")

	// ErrFrameIDMismatch describes two inputs intended to pair that carry different frame-ids.
	// The pairing latch does not return it: it drops the older half and waits for a match.
	ErrFrameIDMismatch = errors.New("paired inputs carry mismatched frame ids")
)
