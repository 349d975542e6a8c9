package session

import (
	"github.com/tomz197/sheeraroids/internal/object"
	"github.com/tomz197/sheeraroids/internal/physics"
)

// EventType identifies a feedback event.
type EventType int

const (
	EventShotFired EventType = iota + 1
	EventExplosion
	EventShieldReflect
	EventGameOver
)

func (t EventType) String() string {
	switch t {
	case EventShotFired:
		return "shot_fired"
	case EventExplosion:
		return "explosion"
	case EventShieldReflect:
		return "shield_reflect"
	case EventGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// Event is emitted once per occurrence for audio and other feedback.
type Event struct {
	Type EventType
	Pos  physics.Vec2
	Tier object.Tier // size of the explosion, zero for other events
}

// Listener receives session events synchronously during Tick.
type Listener interface {
	OnEvent(e Event)
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(e Event)

func (f ListenerFunc) OnEvent(e Event) {
	f(e)
}

// Dispatcher fans events out to subscribed listeners.
type Dispatcher struct {
	all       []Listener
	listeners map[EventType][]Listener
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{listeners: make(map[EventType][]Listener)}
}

// Subscribe registers l for one event type.
func (d *Dispatcher) Subscribe(t EventType, l Listener) {
	d.listeners[t] = append(d.listeners[t], l)
}

// SubscribeAll registers l for every event type.
func (d *Dispatcher) SubscribeAll(l Listener) {
	d.all = append(d.all, l)
}

// Dispatch delivers e to every matching listener.
func (d *Dispatcher) Dispatch(e Event) {
	for _, l := range d.all {
		l.OnEvent(e)
	}
	for _, l := range d.listeners[e.Type] {
		l.OnEvent(e)
	}
}
