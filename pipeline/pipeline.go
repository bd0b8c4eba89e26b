package pipeline

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/stereoforge/depthpipe/logging"
	"github.com/stereoforge/depthpipe/pipeline/kernel"
	"github.com/stereoforge/depthpipe/rimage/transform"
)

// Pipeline is the public SDK surface: a wired Graph, its Registry, and a Dispatcher, plus the
// device/plugin/disparity-method wiring described by spec.md §6. New to this module; grounded on
// spec.md §6 directly, assembling the mechanisms the other pipeline/*.go files define.
type Pipeline struct {
	logger     logging.Logger
	graph      *Graph
	registry   *Registry
	dispatcher *Dispatcher

	mu       sync.Mutex
	device   Device
	started  bool
	plugin   Plugin
	dispMode *kernel.DisparityMethodSwitch
}

// New builds a Pipeline from a validated Config. The Disparity kernel is backed by a
// DisparityMethodSwitch built from cfg's initial disparity settings, so SetDisparityMethod can
// hot-swap it later.
func New(logger logging.Logger, cfg *Config, nativeStreams []Stream) (*Pipeline, error) {
	if err := cfg.Validate("config"); err != nil {
		return nil, err
	}

	dispMode := kernel.NewDisparityMethodSwitch(
		transform.DisparityMethod(cfg.DisparityMethod), cfg.DisparityBlockSize, cfg.MaxDisparity)

	leftModel := &transform.PinholeCameraModel{PinholeCameraIntrinsics: cfg.LeftIntrinsics}
	rightModel := &transform.PinholeCameraModel{PinholeCameraIntrinsics: cfg.RightIntrinsics}
	if len(cfg.LeftDistortion) > 0 {
		d, err := transform.NewBrownConrady(cfg.LeftDistortion)
		if err != nil {
			return nil, errors.Wrap(err, "left distortion")
		}
		leftModel.Distortion = d
	}
	if len(cfg.RightDistortion) > 0 {
		d, err := transform.NewBrownConrady(cfg.RightDistortion)
		if err != nil {
			return nil, errors.Wrap(err, "right distortion")
		}
		rightModel.Distortion = d
	}

	var kernels Kernels
	var err error
	model := cfg.Model()
	switch model {
	case CalibrationKannalaBrandt:
		dist, derr := transform.NewKannalaBrandtDistorter(cfg.LeftDistortion)
		if derr != nil {
			return nil, errors.Wrap(derr, "kannala-brandt distortion")
		}
		pair := &transform.KannalaBrandtCalibrationPair{
			Left:       cfg.LeftIntrinsics,
			Distortion: dist,
			Extrinsics: cfg.Extrinsics,
		}
		kernels, err = BuildKannalaBrandtKernels(leftModel, rightModel, pair, dispMode, cfg.NormalizeOutMax)
	default:
		kernels, err = BuildPinholeKernels(leftModel, rightModel, cfg.Extrinsics, dispMode, cfg.NormalizeOutMax)
	}
	if err != nil {
		return nil, err
	}

	graph, err := NewGraph(logger, model, kernels)
	if err != nil {
		return nil, err
	}
	registry := NewRegistry(logger, graph, nativeStreams)
	dispatcher := NewDispatcher(registry, graph)

	p := &Pipeline{
		logger:     logger,
		graph:      graph,
		registry:   registry,
		dispatcher: dispatcher,
		plugin:     NopPlugin{},
		dispMode:   dispMode,
	}
	p.installHooks()
	return p, nil
}

// installHooks wires the external Plugin as each stage's process_hook (spec.md §4.6), so a
// plugin decision to handle a stage itself skips that stage's built-in kernel entirely, and wires
// a separate post_process_hook on each stage purely to notify that stream's listener once the
// built-in output has been published. When the plugin handled an execution itself, its output
// still fans out to the stage's children, but the listener is not notified for that execution.
func (p *Pipeline) installHooks() {
	var rectifyShort, disparityShort, normalizedShort, pointsShort, depthShort bool

	p.graph.Rectify.SetProcessHook(func(_ StageInput, out *StageOutput, self *Stage) bool {
		rectifyShort = p.currentPlugin().OnRectify(out)
		return rectifyShort
	})
	p.graph.Rectify.SetPostProcessHook(func(_ StageInput, out *StageOutput, self *Stage) bool {
		if !rectifyShort {
			p.emitPaired(StreamLeftRectified, StreamRightRectified, *out)
		}
		return false
	})

	p.graph.Disparity.SetProcessHook(func(_ StageInput, out *StageOutput, self *Stage) bool {
		disparityShort = p.currentPlugin().OnDisparity(out)
		return disparityShort
	})
	p.graph.Disparity.SetPostProcessHook(func(_ StageInput, out *StageOutput, self *Stage) bool {
		if !disparityShort {
			p.emitSingle(StreamDisparity, out.Left)
		}
		return false
	})

	p.graph.DisparityNormalized.SetProcessHook(func(_ StageInput, out *StageOutput, self *Stage) bool {
		normalizedShort = p.currentPlugin().OnDisparityNormalized(out)
		return normalizedShort
	})
	p.graph.DisparityNormalized.SetPostProcessHook(func(_ StageInput, out *StageOutput, self *Stage) bool {
		if !normalizedShort {
			p.emitSingle(StreamDisparityNormalized, out.Left)
		}
		return false
	})

	p.graph.Points.SetProcessHook(func(_ StageInput, out *StageOutput, self *Stage) bool {
		pointsShort = p.currentPlugin().OnPoints(out)
		return pointsShort
	})
	p.graph.Points.SetPostProcessHook(func(_ StageInput, out *StageOutput, self *Stage) bool {
		if !pointsShort {
			p.emitSingle(StreamPoints, out.Left)
		}
		return false
	})

	p.graph.Depth.SetProcessHook(func(_ StageInput, out *StageOutput, self *Stage) bool {
		depthShort = p.currentPlugin().OnDepth(out)
		return depthShort
	})
	p.graph.Depth.SetPostProcessHook(func(_ StageInput, out *StageOutput, self *Stage) bool {
		if !depthShort {
			p.emitSingle(StreamDepth, out.Left)
		}
		return false
	})
}

func (p *Pipeline) currentPlugin() Plugin {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.plugin
}

func (p *Pipeline) emitSingle(stream Stream, payload Payload) {
	p.registry.dispatch(stream, streamDataFromPayload(stream, payload))
}

func (p *Pipeline) emitPaired(leftStream, rightStream Stream, out StageOutput) {
	p.registry.dispatch(leftStream, streamDataFromPayload(leftStream, out.Left))
	p.registry.dispatch(rightStream, streamDataFromPayload(rightStream, out.Right))
}

// SetStreamListener installs cb as the listener for stream.
func (p *Pipeline) SetStreamListener(stream Stream, cb StreamCallback) error {
	return p.registry.SetCallback(stream, cb)
}

// HasStreamCallback reports whether stream currently has a listener installed.
func (p *Pipeline) HasStreamCallback(stream Stream) bool {
	return p.registry.HasCallback(stream)
}

// Supports reports whether this pipeline can ever produce stream.
func (p *Pipeline) Supports(stream Stream) bool {
	return p.registry.Supports(stream)
}

// SupportsMode reports the mode stream would run in if enabled.
func (p *Pipeline) SupportsMode(stream Stream) Mode {
	return p.registry.SupportsMode(stream)
}

// IsStreamEnabled reports whether stream is currently enabled.
func (p *Pipeline) IsStreamEnabled(stream Stream) bool {
	return p.registry.EnabledMode(stream) != ModeNone
}

// EnableStream turns stream on, per spec.md §4.4's enable traversal.
func (p *Pipeline) EnableStream(stream Stream, onChange func(Stream, Mode), dryRun bool) error {
	return p.registry.Enable(stream, onChange, dryRun)
}

// DisableStream turns stream off, per spec.md §4.4's disable traversal.
func (p *Pipeline) DisableStream(stream Stream, onChange func(Stream, Mode), dryRun bool) error {
	return p.registry.Disable(stream, onChange, dryRun)
}

// GetStreamData returns the most recent data for stream. For a SYNTHETIC stream it reads the
// owning stage's cached last output. For a NATIVE stream it returns ErrNoDevice when no device
// is attached and otherwise a StreamData carrying only the stream name; it does not fetch a
// frame from the device, so native frames reach callers only through stream listeners.
func (p *Pipeline) GetStreamData(stream Stream) (StreamData, error) {
	if !stream.Valid() || !p.registry.Supports(stream) {
		return StreamData{}, errors.Wrap(ErrStreamNotSupported, stream.String())
	}
	if p.registry.EnabledMode(stream) == ModeNone {
		return StreamData{}, errors.Wrap(ErrStreamDisabled, stream.String())
	}
	if p.registry.SupportsMode(stream) == ModeNative {
		p.mu.Lock()
		device := p.device
		p.mu.Unlock()
		if device == nil {
			return StreamData{}, ErrNoDevice
		}
		return StreamData{Stream: stream}, nil
	}

	stage, side := p.stageFor(stream)
	if stage == nil {
		return StreamData{}, errors.Wrap(ErrStreamNotSupported, stream.String())
	}
	out, ok := stage.LastOutput()
	if !ok {
		return StreamData{Stream: stream}, nil
	}
	return streamDataFromPayload(stream, sideOf(out, side)), nil
}

// GetStreamDatas returns the current data for every stream named.
func (p *Pipeline) GetStreamDatas(streams []Stream) ([]StreamData, error) {
	out := make([]StreamData, 0, len(streams))
	for _, s := range streams {
		sd, err := p.GetStreamData(s)
		if err != nil {
			return nil, err
		}
		out = append(out, sd)
	}
	return out, nil
}

func (p *Pipeline) stageFor(stream Stream) (*Stage, Side) {
	switch stream {
	case StreamLeftRectified:
		return p.graph.Rectify, SideLeft
	case StreamRightRectified:
		return p.graph.Rectify, SideRight
	case StreamDisparity:
		return p.graph.Disparity, SideNone
	case StreamDisparityNormalized:
		return p.graph.DisparityNormalized, SideNone
	case StreamPoints:
		return p.graph.Points, SideNone
	case StreamDepth:
		return p.graph.Depth, SideNone
	default:
		return nil, SideNone
	}
}

// SetPlugin installs plugin as the graph's hook interceptor. A nil plugin resets to NopPlugin.
func (p *Pipeline) SetPlugin(plugin Plugin) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if plugin == nil {
		plugin = NopPlugin{}
	}
	p.plugin = plugin
}

// HasPlugin reports whether a non-default plugin is installed.
func (p *Pipeline) HasPlugin() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, isNop := p.plugin.(NopPlugin)
	return !isNop
}

// SetDisparityMethod hot-swaps the Disparity stage's block-matching method and window.
func (p *Pipeline) SetDisparityMethod(method transform.DisparityMethod, blockSize, maxDisparity int) {
	p.dispMode.SetMethod(method, blockSize, maxDisparity)
}

// StartVideoStreaming attaches device and starts it, installing this pipeline's Dispatcher as
// every native stream's callback. Idempotent: calling it again with the same device is a no-op.
func (p *Pipeline) StartVideoStreaming(ctx context.Context, device Device) error {
	p.mu.Lock()
	if p.started && p.device == device {
		p.mu.Unlock()
		return nil
	}
	p.device = device
	p.started = true
	p.mu.Unlock()

	for _, stream := range device.Supports() {
		stream := stream
		if err := device.SetStreamCallback(stream, func(payload Payload) {
			p.dispatcher.Submit(stream, payload)
		}); err != nil {
			return errors.Wrapf(err, "installing callback for %s", stream)
		}
	}
	return device.Start(ctx)
}

// StopVideoStreaming stops the attached device. Idempotent.
func (p *Pipeline) StopVideoStreaming(ctx context.Context) error {
	p.mu.Lock()
	device := p.device
	started := p.started
	p.started = false
	p.mu.Unlock()

	if !started || device == nil {
		return nil
	}
	return device.Stop(ctx)
}

// NotifyCalibrationChanged logs at Info that the calibration changed. It does not reload
// calibration: the Rectify kernel and the other kernels keep the parameters they were built with
// until a new Config and Pipeline are constructed.
func (p *Pipeline) NotifyCalibrationChanged() {
	p.logger.Info("calibration changed; rebuild the pipeline to apply new parameters")
}
