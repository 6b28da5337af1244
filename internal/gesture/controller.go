package gesture

import (
	"sync"

	"go.uber.org/zap"

	"mockup-studio/internal/logging"
	"mockup-studio/internal/placement"
	"mockup-studio/pkg/geometry"
)

// DefaultHandleRadius is the crop handle hit radius in stage units.
const DefaultHandleRadius = 16.0

// Target is the editor state a Controller manipulates.
type Target interface {
	View() View
	SetTransform(t placement.Transform)
	SetCrop(c placement.CropRect)
	// Constrain re-applies the print-area and crop constraints.
	Constrain()
}

// Invalidator schedules a redraw.
type Invalidator interface {
	Invalidate()
}

// Capturer is notified when pointer capture starts and ends. Hosts that
// need platform capture implement it; it is optional.
type Capturer interface {
	Capture(id PointerID)
	Release(id PointerID)
}

// Options tunes hit testing and crop limits.
type Options struct {
	HandleRadius float64
	CropMin      float64
}

// Controller feeds pointer events through Transition and applies the
// resulting effects.
type Controller struct {
	mu       sync.Mutex
	target   Target
	redraw   Invalidator
	capturer Capturer
	opts     Options

	state    State
	pointers map[PointerID]geometry.Point2D
}

// NewController creates a controller. redraw may be nil.
func NewController(target Target, redraw Invalidator, opts Options) *Controller {
	if opts.HandleRadius <= 0 {
		opts.HandleRadius = DefaultHandleRadius
	}
	return &Controller{
		target:   target,
		redraw:   redraw,
		opts:     opts,
		state:    Idle{},
		pointers: make(map[PointerID]geometry.Point2D),
	}
}

// SetCapturer installs the pointer capture hook.
func (c *Controller) SetCapturer(cp Capturer) {
	c.mu.Lock()
	c.capturer = cp
	c.mu.Unlock()
}

// State returns the current gesture state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Active reports whether a gesture is in progress.
func (c *Controller) Active() bool {
	return c.State().Active()
}

// Handle processes one pointer event.
func (c *Controller) Handle(in Input) {
	c.mu.Lock()

	switch e := in.(type) {
	case PointerDown:
		c.pointers[e.ID] = e.Pos
	case PointerMove:
		if _, ok := c.pointers[e.ID]; !ok {
			c.mu.Unlock()
			return
		}
		c.pointers[e.ID] = e.Pos
	case PointerUp:
		if !c.forget(e.ID) {
			c.mu.Unlock()
			return
		}
	case PointerCancel:
		if !c.forget(e.ID) {
			c.mu.Unlock()
			return
		}
	}

	env := Env{
		View:         c.target.View(),
		Pointers:     c.pointers,
		HandleRadius: c.opts.HandleRadius,
		CropMin:      c.opts.CropMin,
	}
	prev := c.state
	next, effects := Transition(c.state, in, env)
	c.state = next
	capturer := c.capturer
	c.mu.Unlock()

	if stateName(prev) != stateName(next) {
		logging.Logger.Debug("gesture transition",
			zap.String("from", stateName(prev)),
			zap.String("to", stateName(next)))
	}
	c.apply(effects, capturer)
}

func (c *Controller) forget(id PointerID) bool {
	if _, ok := c.pointers[id]; !ok {
		return false
	}
	delete(c.pointers, id)
	return true
}

// Reset drops all pointers and returns to Idle without touching the target.
func (c *Controller) Reset() {
	c.mu.Lock()
	c.state = Idle{}
	c.pointers = make(map[PointerID]geometry.Point2D)
	c.mu.Unlock()
}

func (c *Controller) apply(effects []Effect, capturer Capturer) {
	mutated, redraw := false, false
	for _, eff := range effects {
		switch e := eff.(type) {
		case SetCrop:
			c.target.SetCrop(e.Crop)
			mutated = true
		case SetTransform:
			c.target.SetTransform(e.Transform)
			mutated = true
		case Settle:
			mutated = true
		case Redraw:
			redraw = true
		case Capture:
			if capturer != nil {
				capturer.Capture(e.ID)
			}
		case Release:
			if capturer != nil {
				capturer.Release(e.ID)
			}
		}
	}
	if mutated {
		c.target.Constrain()
	}
	if redraw && c.redraw != nil {
		c.redraw.Invalidate()
	}
}

func stateName(s State) string {
	switch st := s.(type) {
	case Dragging:
		return "dragging/" + st.Mode.String()
	case CropResizing:
		return "crop/" + st.Handle.String()
	case Pinching:
		return "pinching"
	default:
		return "idle"
	}
}
