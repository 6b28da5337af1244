// Package gesture turns pointer sequences into artwork transform and crop
// updates.
//
// Transition is a pure function over a tagged-union State; Controller owns
// the live pointer set and applies the resulting effects to the editor.
package gesture

import (
	"mockup-studio/internal/placement"
	"mockup-studio/pkg/geometry"
)

// PointerID identifies one pointer (mouse, pen or finger) for the length of
// its press.
type PointerID int64

// Mode is the kind of single-pointer artwork drag.
type Mode int

const (
	ModeMove Mode = iota
	ModeScale
)

func (m Mode) String() string {
	if m == ModeScale {
		return "scale"
	}
	return "move"
}

// Handle names a crop corner handle.
type Handle int

const (
	HandleNone Handle = iota
	HandleNW
	HandleNE
	HandleSW
	HandleSE
)

var handleNames = map[Handle]string{
	HandleNone: "none",
	HandleNW:   "nw",
	HandleNE:   "ne",
	HandleSW:   "sw",
	HandleSE:   "se",
}

func (h Handle) String() string { return handleNames[h] }

// Handles lists the four crop handles in hit-test order.
var Handles = []Handle{HandleNW, HandleNE, HandleSW, HandleSE}

// corner returns the handle's corner of r.
func (h Handle) corner(r geometry.Rect) geometry.Point2D {
	switch h {
	case HandleNW:
		return r.TopLeft()
	case HandleNE:
		return r.TopRight()
	case HandleSW:
		return r.BottomLeft()
	default:
		return r.BottomRight()
	}
}

// opposite returns the diagonally opposite handle.
func (h Handle) opposite() Handle {
	switch h {
	case HandleNW:
		return HandleSE
	case HandleNE:
		return HandleSW
	case HandleSW:
		return HandleNE
	case HandleSE:
		return HandleNW
	}
	return HandleNone
}

func (h Handle) east() bool  { return h == HandleNE || h == HandleSE }
func (h Handle) south() bool { return h == HandleSW || h == HandleSE }

// State is one of Idle, Dragging, CropResizing or Pinching.
type State interface {
	isState()
	// Active reports whether a gesture is manipulating the artwork.
	Active() bool
}

// Idle means no gesture is in progress.
type Idle struct{}

// Dragging moves or scales the artwork with one pointer.
type Dragging struct {
	Pointer    PointerID
	Mode       Mode
	Last       geometry.Point2D
	StartScale float64
	StartDist  float64
}

// CropResizing drags one crop handle while the opposite corner stays put on
// screen.
type CropResizing struct {
	Pointer        PointerID
	Handle         Handle
	Start          geometry.Point2D
	StartCrop      placement.CropRect
	StartTransform placement.Transform
	Anchor         geometry.Point2D // image pixels
	AnchorScreen   geometry.Point2D // stage units
}

// Pinching scales the artwork with two pointers.
type Pinching struct {
	A, B       PointerID
	StartDist  float64
	StartScale float64
	// Resume is set when the pinch interrupted an artwork drag; lifting one
	// finger then continues as a move drag.
	Resume bool
}

func (Idle) isState()         {}
func (Dragging) isState()     {}
func (CropResizing) isState() {}
func (Pinching) isState()     {}

func (Idle) Active() bool         { return false }
func (Dragging) Active() bool     { return true }
func (CropResizing) Active() bool { return true }
func (Pinching) Active() bool     { return true }

// Input is a pointer event in stage units.
type Input interface{ isInput() }

type PointerDown struct {
	ID    PointerID
	Pos   geometry.Point2D
	Shift bool
}

type PointerMove struct {
	ID  PointerID
	Pos geometry.Point2D
}

type PointerUp struct {
	ID PointerID
}

type PointerCancel struct {
	ID PointerID
}

func (PointerDown) isInput()   {}
func (PointerMove) isInput()   {}
func (PointerUp) isInput()     {}
func (PointerCancel) isInput() {}

// Effect is a side effect requested by Transition.
type Effect interface{ isEffect() }

// SetTransform replaces the artwork transform. The receiver constrains it.
type SetTransform struct{ Transform placement.Transform }

// SetCrop replaces the crop rectangle.
type SetCrop struct{ Crop placement.CropRect }

// Settle re-applies constraints once after the last pointer lifts.
type Settle struct{}

// Redraw asks for a new frame.
type Redraw struct{}

// Capture routes all further events of a pointer to the stage.
type Capture struct{ ID PointerID }

// Release ends a capture.
type Release struct{ ID PointerID }

func (SetTransform) isEffect() {}
func (SetCrop) isEffect()      {}
func (Settle) isEffect()       {}
func (Redraw) isEffect()       {}
func (Capture) isEffect()      {}
func (Release) isEffect()      {}

// View is what Transition needs to know about the editor.
type View struct {
	Transform  placement.Transform
	Crop       placement.CropRect
	ImageW     float64
	ImageH     float64
	HasArtwork bool
	CropMode   bool
}

// Env is the read-only context of one transition. Pointers holds every
// pressed pointer after the event has been applied: a released pointer is
// already gone, a moved pointer is at its new position.
type Env struct {
	View         View
	Pointers     map[PointerID]geometry.Point2D
	HandleRadius float64
	CropMin      float64
}
