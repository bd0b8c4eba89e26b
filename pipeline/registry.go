package pipeline

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/stereoforge/depthpipe/logging"
)

// StreamCallback is invoked with fresh StreamData whenever its stream produces output, whether
// natively from the device or synthetically from a stage.
type StreamCallback func(StreamData)

// streamEntry is the registry's bookkeeping for one of the eight fixed streams.
type streamEntry struct {
	supportMode Mode // ModeNone if this graph never produces the stream at all
	enabledMode Mode // current mode: ModeNone (disabled), ModeNative, or ModeSynthetic
	stage       *Stage
	side        Side
	callback    StreamCallback
}

// Registry tracks, for each of the eight named streams, whether and how this graph can produce
// it, and routes enable/disable requests to the stage lifecycle (spec.md §4.4). New to this
// module; no pack example owns a fixed enum-keyed producer registry to port, so grounded on
// spec.md §4.4's traversal rules directly.
type Registry struct {
	mu      sync.Mutex
	logger  logging.Logger
	entries [numStreams]streamEntry
	graph   *Graph
}

// NewRegistry builds a Registry over graph, marking every stream the device can natively supply
// (nativeStreams) plus every stream g's stage topology can synthesize as supported.
func NewRegistry(logger logging.Logger, graph *Graph, nativeStreams []Stream) *Registry {
	r := &Registry{logger: logger, graph: graph}
	for _, s := range nativeStreams {
		if s.Valid() {
			r.entries[s].supportMode = ModeNative
		}
	}

	mark := func(s Stream, stage *Stage, side Side) {
		if r.entries[s].supportMode == ModeNone {
			r.entries[s].supportMode = ModeSynthetic
		}
		r.entries[s].stage = stage
		r.entries[s].side = side
	}
	for _, stage := range []*Stage{graph.Rectify, graph.Disparity, graph.DisparityNormalized, graph.Points, graph.Depth} {
		for _, t := range stage.Targets() {
			mark(t.Stream, stage, t.Side)
		}
	}
	return r
}

// Supports reports whether this graph can ever produce stream, natively or synthetically.
func (r *Registry) Supports(s Stream) bool {
	if !s.Valid() {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.entries[s].supportMode != ModeNone
}

// SupportsMode reports the mode this graph would use to produce stream if enabled (ModeNone if
// unsupported).
func (r *Registry) SupportsMode(s Stream) Mode {
	if !s.Valid() {
		return ModeNone
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.entries[s].supportMode
}

// EnabledMode reports the mode stream is currently running in.
func (r *Registry) EnabledMode(s Stream) Mode {
	if !s.Valid() {
		return ModeNone
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.entries[s].enabledMode
}

// SetCallback installs cb as the listener for stream. A nil cb clears it.
func (r *Registry) SetCallback(s Stream, cb StreamCallback) error {
	if !s.Valid() {
		return errors.Wrap(ErrStreamNotSupported, s.String())
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[s].callback = cb
	return nil
}

// HasCallback reports whether stream currently has a listener installed.
func (r *Registry) HasCallback(s Stream) bool {
	if !s.Valid() {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.entries[s].callback != nil
}

func (r *Registry) dispatch(s Stream, data StreamData) {
	r.mu.Lock()
	cb := r.entries[s].callback
	r.mu.Unlock()
	if cb != nil {
		cb(data)
	}
}

// ancestors returns the stage chain from graph's topological start down to stage (inclusive),
// i.e. the stages that must be active for stage's output to exist.
func (r *Registry) ancestors(stage *Stage) []*Stage {
	g := r.graph
	switch stage {
	case g.Rectify:
		return []*Stage{g.Root, g.Rectify}
	case g.Disparity:
		return []*Stage{g.Root, g.Rectify, g.Disparity}
	case g.DisparityNormalized:
		return []*Stage{g.Root, g.Rectify, g.Disparity, g.DisparityNormalized}
	case g.Points:
		if g.Model == CalibrationKannalaBrandt {
			return []*Stage{g.Root, g.Rectify, g.Disparity, g.Depth, g.Points}
		}
		return []*Stage{g.Root, g.Rectify, g.Disparity, g.Points}
	case g.Depth:
		if g.Model == CalibrationKannalaBrandt {
			return []*Stage{g.Root, g.Rectify, g.Disparity, g.Depth}
		}
		return []*Stage{g.Root, g.Rectify, g.Disparity, g.Points, g.Depth}
	default:
		return nil
	}
}

// Enable turns stream on. For a NATIVE stream this only records the mode, and only when dryRun is
// false; it fires onChange either way, since a native target's availability doesn't depend on
// stage activation (spec.md §9 decision #3). For a SYNTHETIC stream, when dryRun is true it only fires
// onChange; it neither activates ancestor stages nor records the new mode (spec.md §4.4).
func (r *Registry) Enable(s Stream, onChange func(Stream, Mode), dryRun bool) error {
	if !s.Valid() || !r.Supports(s) {
		return errors.Wrap(ErrStreamNotSupported, s.String())
	}

	r.mu.Lock()
	mode := r.entries[s].supportMode
	stage := r.entries[s].stage
	r.mu.Unlock()

	if mode == ModeNative {
		if !dryRun {
			r.mu.Lock()
			r.entries[s].enabledMode = ModeNative
			r.mu.Unlock()
		}
		if onChange != nil {
			onChange(s, ModeNative)
		}
		return nil
	}

	if !dryRun {
		if stage != nil {
			for _, anc := range r.ancestors(stage) {
				anc.Activate()
			}
		}
		r.mu.Lock()
		r.entries[s].enabledMode = ModeSynthetic
		r.mu.Unlock()
	}
	if onChange != nil {
		onChange(s, ModeSynthetic)
	}
	return nil
}

// Disable turns stream off. For a NATIVE stream this only records the mode, and only when dryRun
// is false; it fires onChange either way, mirroring Enable (spec.md §9 decision #3). For a SYNTHETIC
// stream, when dryRun is true it only fires onChange; it neither deactivates ancestor stages nor
// records the new mode (spec.md §4.4). Otherwise, any ancestor stage that no longer has any
// enabled descendant depending on it is deactivated; a stage feeding a still-enabled sibling
// stream stays active.
func (r *Registry) Disable(s Stream, onChange func(Stream, Mode), dryRun bool) error {
	if !s.Valid() {
		return errors.Wrap(ErrStreamNotSupported, s.String())
	}

	r.mu.Lock()
	mode := r.entries[s].supportMode
	stage := r.entries[s].stage
	r.mu.Unlock()

	if mode == ModeNative {
		if !dryRun {
			r.mu.Lock()
			r.entries[s].enabledMode = ModeNone
			r.mu.Unlock()
		}
		if onChange != nil {
			onChange(s, ModeNone)
		}
		return nil
	}

	if !dryRun {
		r.mu.Lock()
		r.entries[s].enabledMode = ModeNone
		r.mu.Unlock()

		if stage != nil {
			for _, anc := range r.ancestors(stage) {
				if !r.stageStillNeeded(anc) {
					anc.Deactivate(false)
				}
			}
		}
	}
	if onChange != nil {
		onChange(s, ModeNone)
	}
	return nil
}

// stageStillNeeded reports whether any currently-enabled SYNTHETIC stream still depends on
// stage's output.
func (r *Registry) stageStillNeeded(stage *Stage) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for s := Stream(0); s < numStreams; s++ {
		if r.entries[s].enabledMode != ModeSynthetic {
			continue
		}
		owner := r.entries[s].stage
		if owner == nil {
			continue
		}
		for _, anc := range r.ancestors(owner) {
			if anc == stage {
				return true
			}
		}
	}
	return false
}
