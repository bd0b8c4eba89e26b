package pipeline

import "context"

// Device is the collaborator the pipeline drives to learn what it natively produces and to
// receive native frames. A concrete implementation might decode wire packets from a physical
// sensor or synthesize frames in a test harness; the pipeline depends only on this interface
// (spec.md §6).
type Device interface {
	// Supports reports which streams this device can natively supply.
	Supports() []Stream

	// SetStreamCallback installs cb to be invoked by the device whenever it produces a frame for
	// stream. A nil cb uninstalls it.
	SetStreamCallback(stream Stream, cb func(Payload)) error

	// Start begins device frame production. Stop halts it. Both may be called multiple times;
	// implementations should make repeat calls idempotent.
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// Calibration is the collaborator the pipeline queries for camera geometry when building a
// Graph's kernels.
type Calibration interface {
	Model() CalibrationModel
}
