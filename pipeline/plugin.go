package pipeline

// Plugin lets a caller intercept a stage before its built-in kernel runs. Each hook returns true
// to short-circuit: the plugin has populated the stage's output itself, so the built-in compute
// is skipped for that execution, though the (plugin-supplied) output still fans out to children
// as usual. Grounded on the teacher's small-interface-with-a-no-op-default pattern
// (rimage/camera_system.go's Aligner/Projector, defaulted to ParallelProjection).
type Plugin interface {
	OnRectify(out *StageOutput) bool
	OnDisparity(out *StageOutput) bool
	OnDisparityNormalized(out *StageOutput) bool
	OnPoints(out *StageOutput) bool
	OnDepth(out *StageOutput) bool
}

// NopPlugin is the default Plugin: every hook declines, so every stage runs its normal fan-out.
type NopPlugin struct{}

func (NopPlugin) OnRectify(*StageOutput) bool             { return false }
func (NopPlugin) OnDisparity(*StageOutput) bool           { return false }
func (NopPlugin) OnDisparityNormalized(*StageOutput) bool { return false }
func (NopPlugin) OnPoints(*StageOutput) bool { return false }
func (NopPlugin) OnDepth(*StageOutput) bool  { return false }

var _ Plugin = NopPlugin{}
