package gesture

import (
	"math"

	"mockup-studio/internal/placement"
	"mockup-studio/pkg/geometry"
)

// Transition computes the next state and the effects of one input. It never
// mutates env.
func Transition(s State, in Input, env Env) (State, []Effect) {
	if s == nil {
		s = Idle{}
	}
	switch e := in.(type) {
	case PointerDown:
		return down(s, e, env)
	case PointerMove:
		return move(s, e, env)
	case PointerUp:
		return lift(s, e.ID, env)
	case PointerCancel:
		return lift(s, e.ID, env)
	}
	return s, nil
}

func down(s State, e PointerDown, env Env) (State, []Effect) {
	effects := []Effect{Capture{ID: e.ID}}
	v := env.View
	if !v.HasArtwork {
		return s, effects
	}

	switch len(env.Pointers) {
	case 1:
		if v.CropMode {
			if h := HitHandle(v.Transform, v.Crop, e.Pos, env.HandleRadius); h != HandleNone {
				return startCropResize(e, h, v), append(effects, Redraw{})
			}
		}
		if !placement.VisibleBounds(v.Transform, v.Crop).Contains(e.Pos) {
			return Idle{}, effects
		}
		d := Dragging{Pointer: e.ID, Mode: ModeMove, Last: e.Pos}
		if e.Shift {
			d.Mode = ModeScale
			d.StartScale = v.Transform.Scale
			d.StartDist = e.Pos.Distance(v.Transform.Center())
		}
		return d, append(effects, Redraw{})

	case 2:
		other, ok := otherPointer(env.Pointers, e.ID)
		if !ok {
			return s, effects
		}
		_, fromDrag := s.(Dragging)
		p := Pinching{
			A:          other,
			B:          e.ID,
			StartDist:  env.Pointers[other].Distance(e.Pos),
			StartScale: v.Transform.Scale,
			Resume:     fromDrag,
		}
		return p, append(effects, Redraw{})
	}
	return s, effects
}

func move(s State, e PointerMove, env Env) (State, []Effect) {
	v := env.View
	if !v.HasArtwork {
		return s, nil
	}

	switch st := s.(type) {
	case Dragging:
		if st.Pointer != e.ID {
			return s, nil
		}
		t := v.Transform
		if st.Mode == ModeMove {
			t.TX += e.Pos.X - st.Last.X
			t.TY += e.Pos.Y - st.Last.Y
		} else {
			t.Scale = scaleBy(st.StartScale, e.Pos.Distance(t.Center()), st.StartDist)
		}
		st.Last = e.Pos
		return st, []Effect{SetTransform{Transform: t}, Redraw{}}

	case Pinching:
		if e.ID != st.A && e.ID != st.B {
			return s, nil
		}
		a, okA := env.Pointers[st.A]
		b, okB := env.Pointers[st.B]
		if !okA || !okB {
			return s, nil
		}
		t := v.Transform
		t.Scale = scaleBy(st.StartScale, a.Distance(b), st.StartDist)
		return st, []Effect{SetTransform{Transform: t}, Redraw{}}

	case CropResizing:
		if st.Pointer != e.ID {
			return s, nil
		}
		crop, t := resizeCrop(st, e.Pos, v, env.CropMin)
		return st, []Effect{SetCrop{Crop: crop}, SetTransform{Transform: t}, Redraw{}}
	}
	return s, nil
}

func lift(s State, id PointerID, env Env) (State, []Effect) {
	effects := []Effect{Release{ID: id}}
	if len(env.Pointers) == 0 {
		if s.Active() {
			effects = append(effects, Settle{}, Redraw{})
		}
		return Idle{}, effects
	}

	switch st := s.(type) {
	case Pinching:
		if id != st.A && id != st.B {
			return s, effects
		}
		rest := st.A
		if id == st.A {
			rest = st.B
		}
		pos, ok := env.Pointers[rest]
		if !st.Resume || !ok {
			return Idle{}, append(effects, Settle{}, Redraw{})
		}
		return Dragging{Pointer: rest, Mode: ModeMove, Last: pos}, append(effects, Redraw{})

	case Dragging:
		if st.Pointer == id {
			return Idle{}, append(effects, Settle{}, Redraw{})
		}
	case CropResizing:
		if st.Pointer == id {
			return Idle{}, append(effects, Settle{}, Redraw{})
		}
	}
	return s, effects
}

// scaleBy returns startScale * cur/start. A baseline under one stage unit
// has no usable ratio, so the factor stays at 1.
func scaleBy(startScale, cur, start float64) float64 {
	if start < 1 {
		return startScale
	}
	return startScale * cur / start
}

func otherPointer(pointers map[PointerID]geometry.Point2D, id PointerID) (PointerID, bool) {
	for p := range pointers {
		if p != id {
			return p, true
		}
	}
	return 0, false
}

// HitHandle returns the crop handle nearest to p within radius stage units,
// or HandleNone.
func HitHandle(t placement.Transform, crop placement.CropRect, p geometry.Point2D, radius float64) Handle {
	box := placement.VisibleBounds(t, crop)
	best, bestDist := HandleNone, math.Inf(1)
	for _, h := range Handles {
		d := h.corner(box).Distance(p)
		if d <= radius && d < bestDist {
			best, bestDist = h, d
		}
	}
	return best
}

func startCropResize(e PointerDown, h Handle, v View) CropResizing {
	anchor := h.opposite().corner(v.Crop.Rect())
	return CropResizing{
		Pointer:        e.ID,
		Handle:         h,
		Start:          e.Pos,
		StartCrop:      v.Crop,
		StartTransform: v.Transform,
		Anchor:         anchor,
		AnchorScreen:   placement.ImageToStage(v.Transform, v.Crop, anchor),
	}
}

// resizeCrop moves the dragged corner by the pointer delta converted to image
// pixels, keeps it inside the image and at least minSize away from the
// anchor, then shifts the transform so the anchor corner stays where it was
// on screen.
func resizeCrop(st CropResizing, pos geometry.Point2D, v View, minSize float64) (placement.CropRect, placement.Transform) {
	s := st.StartTransform.Scale
	if s <= 0 {
		return st.StartCrop, st.StartTransform
	}
	start := st.Handle.corner(st.StartCrop.Rect())
	p := start.Add(pos.Sub(st.Start).Scale(1 / s))

	minW := math.Min(minSize, v.ImageW)
	minH := math.Min(minSize, v.ImageH)
	if st.Handle.east() {
		p.X = math.Min(math.Max(p.X, st.Anchor.X+minW), v.ImageW)
	} else {
		p.X = math.Max(math.Min(p.X, st.Anchor.X-minW), 0)
	}
	if st.Handle.south() {
		p.Y = math.Min(math.Max(p.Y, st.Anchor.Y+minH), v.ImageH)
	} else {
		p.Y = math.Max(math.Min(p.Y, st.Anchor.Y-minH), 0)
	}

	crop := placement.CropRect{
		X: math.Min(p.X, st.Anchor.X),
		Y: math.Min(p.Y, st.Anchor.Y),
		W: math.Abs(p.X - st.Anchor.X),
		H: math.Abs(p.Y - st.Anchor.Y),
	}
	crop = placement.ClampCrop(crop, v.ImageW, v.ImageH, minSize)

	t := st.StartTransform
	t.TX = st.AnchorScreen.X - (st.Anchor.X-crop.CenterX())*s
	t.TY = st.AnchorScreen.Y - (st.Anchor.Y-crop.CenterY())*s
	return crop, t
}
