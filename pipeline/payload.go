package pipeline

import (
	"github.com/stereoforge/depthpipe/pointcloud"
	"github.com/stereoforge/depthpipe/rimage"
)

// ImageMetadata is the optional descriptive record carried alongside a payload's pixel data.
type ImageMetadata struct {
	Width  int
	Height int
	Format rimage.PixelFormat
}

// Payload is one matrix-typed value flowing through the graph: exactly one of Matrix, Depth, or
// Points is set, depending on which stream it carries. FrameID and Metadata travel with it
// regardless of shape.
type Payload struct {
	Matrix   *rimage.Matrix
	Depth    *rimage.DepthMap
	Points   *pointcloud.Grid
	FrameID  uint16
	Metadata *ImageMetadata
	Source   *rimage.Frame
}

// IsEmpty reports whether the payload carries no matrix-typed value at all.
func (p Payload) IsEmpty() bool {
	return p.Matrix == nil && p.Depth == nil && p.Points == nil
}

// StageInput is a stage's input for one execution: either a single Payload (Left populated,
// Paired false) or a paired one (Left and Right populated, guaranteed equal FrameID).
type StageInput struct {
	Paired bool
	Left   Payload
	Right  Payload
}

// StageOutput has the same shape as StageInput; the two are kept as distinct types because a
// stage's input and output arity can differ (Disparity takes a paired input and produces a
// single output).
type StageOutput struct {
	Paired bool
	Left   Payload
	Right  Payload
}

func (out StageOutput) asInput() StageInput {
	return StageInput{Paired: out.Paired, Left: out.Left, Right: out.Right}
}

func (in StageInput) asOutput() StageOutput {
	return StageOutput{Paired: in.Paired, Left: in.Left, Right: in.Right}
}

// StreamData is the external delivery record for one stream: the payload for that stream plus
// its frame-id, or an empty StreamData for a disabled/unknown/not-yet-produced stream.
type StreamData struct {
	Stream   Stream
	FrameID  uint16
	Metadata *ImageMetadata
	Matrix   *rimage.Matrix
	Depth    *rimage.DepthMap
	Points   *pointcloud.Grid
	Source   *rimage.Frame
}

// IsEmpty reports whether sd carries no payload.
func (sd StreamData) IsEmpty() bool {
	return sd.Matrix == nil && sd.Depth == nil && sd.Points == nil
}

func streamDataFromPayload(stream Stream, p Payload) StreamData {
	return StreamData{
		Stream:   stream,
		FrameID:  p.FrameID,
		Metadata: p.Metadata,
		Matrix:   p.Matrix,
		Depth:    p.Depth,
		Points:   p.Points,
		Source:   p.Source,
	}
}

// sideOf extracts the half of a paired StageOutput named by side; SideNone is treated as "the
// whole (unpaired) output" and returns Left.
func sideOf(out StageOutput, side Side) Payload {
	if side == SideRight {
		return out.Right
	}
	return out.Left
}
