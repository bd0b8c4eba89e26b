package pipeline

// Dispatcher is the entry point for frames arriving natively from the device. It notifies any
// listener on the native stream itself, then fans the frame into the graph so synthetic streams
// stay current even while nobody has asked for the native stream directly (spec.md §4.5).
// New to this module; grounded on spec.md §4.5's four-step routing table directly.
type Dispatcher struct {
	registry *Registry
	graph    *Graph

	leftRight          *pairingLatch
	leftRightRectified *pairingLatch
}

// NewDispatcher builds a Dispatcher over registry/graph, with its own pairing latches for the
// two pairing points in the DAG (LEFT/RIGHT ahead of Rectify, and LEFT_RECTIFIED/RIGHT_RECTIFIED
// ahead of Disparity).
func NewDispatcher(registry *Registry, graph *Graph) *Dispatcher {
	return &Dispatcher{
		registry:           registry,
		graph:              graph,
		leftRight:          newPairingLatch(),
		leftRightRectified: newPairingLatch(),
	}
}

// Submit routes one natively-produced payload for stream into the graph.
func (d *Dispatcher) Submit(stream Stream, p Payload) {
	d.registry.dispatch(stream, streamDataFromPayload(stream, p))

	switch stream {
	case StreamLeft:
		if in, ready := d.leftRight.submitLeft(p); ready {
			d.graph.Rectify.Submit(in)
		}
	case StreamRight:
		if in, ready := d.leftRight.submitRight(p); ready {
			d.graph.Rectify.Submit(in)
		}
	case StreamLeftRectified:
		if in, ready := d.leftRightRectified.submitLeft(p); ready {
			d.graph.Disparity.Submit(in)
		}
	case StreamRightRectified:
		if in, ready := d.leftRightRectified.submitRight(p); ready {
			d.graph.Disparity.Submit(in)
		}
	}

	switch stream {
	case StreamDisparity:
		submitToChildrenOf(d.graph.Disparity, p)
	case StreamDisparityNormalized:
		submitToChildrenOf(d.graph.DisparityNormalized, p)
	case StreamPoints:
		submitToChildrenOf(d.graph.Points, p)
	case StreamDepth:
		submitToChildrenOf(d.graph.Depth, p)
	}
}

func submitToChildrenOf(stage *Stage, p Payload) {
	for _, child := range stage.Children() {
		child.Submit(StageInput{Left: p})
	}
}
