package app

import "sync"

// EventType identifies different editor events.
type EventType int

const (
	EventArtworkLoaded EventType = iota
	EventArtworkCleared
	EventProcessedChanged
	EventTransformChanged
	EventSwatchesChanged
	EventBackgroundChanged
	EventSideChanged
	EventBlankChanged
	EventManifestLoaded
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// events is a small listener registry shared by Document and its sessions.
type events struct {
	mu        sync.RWMutex
	listeners map[EventType][]EventListener
}

func newEvents() *events {
	return &events{listeners: make(map[EventType][]EventListener)}
}

// On registers an event listener for the specified event type.
func (e *events) On(event EventType, listener EventListener) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listeners[event] = append(e.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (e *events) Emit(event EventType, data interface{}) {
	e.mu.RLock()
	listeners := e.listeners[event]
	e.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}
