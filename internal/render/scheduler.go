package render

import (
	"sync/atomic"
	"time"
)

// FrameRequester calls fn once at the next frame boundary.
type FrameRequester interface {
	RequestFrame(fn func())
}

// TimerRequester fires frames after a fixed interval.
type TimerRequester struct {
	Interval time.Duration
}

// RequestFrame implements FrameRequester.
func (t TimerRequester) RequestFrame(fn func()) {
	interval := t.Interval
	if interval <= 0 {
		interval = 16 * time.Millisecond
	}
	time.AfterFunc(interval, fn)
}

// Scheduler coalesces redraw requests: any number of Invalidate calls
// before the next frame produce a single draw.
type Scheduler struct {
	req  FrameRequester
	draw func()

	dirty   atomic.Bool
	pending atomic.Bool
	frames  atomic.Uint64
}

// NewScheduler creates a scheduler that calls draw on frames from req.
func NewScheduler(req FrameRequester, draw func()) *Scheduler {
	return &Scheduler{req: req, draw: draw}
}

// Invalidate marks the frame dirty and requests a frame if none is pending.
// It never draws synchronously.
func (s *Scheduler) Invalidate() {
	s.dirty.Store(true)
	if s.pending.CompareAndSwap(false, true) {
		s.req.RequestFrame(s.tick)
	}
}

func (s *Scheduler) tick() {
	s.pending.Store(false)
	if s.dirty.Swap(false) {
		s.frames.Add(1)
		s.draw()
	}
}

// Frames returns how many frames have been drawn.
func (s *Scheduler) Frames() uint64 {
	return s.frames.Load()
}
