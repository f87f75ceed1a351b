package toio

import (
	"sync"

	"github.com/hashicorp/go-hclog"
)

// EventType names the events emitted by the EventDispatcher
type EventType uint8

const (
	EventSlope EventType = iota + 1
	EventCollision
	EventDoubleTap
	EventOrientation
	EventAttitudeEuler
	EventAttitudeQuaternion
)

func (e EventType) String() string {
	switch e {
	case EventSlope:
		return "sensor:slope"
	case EventCollision:
		return "sensor:collision"
	case EventDoubleTap:
		return "sensor:double-tap"
	case EventOrientation:
		return "sensor:orientation"
	case EventAttitudeEuler:
		return "sensor:attitude-angle-euler"
	case EventAttitudeQuaternion:
		return "sensor:attitude-angle-quaternion"
	}

	return "sensor:unknown"
}

// DispatcherState is the last detection state seen by an EventDispatcher
type DispatcherState struct {
	// Known is false until the first detection packet has been handled
	Known       bool
	IsSloped    bool
	Orientation uint8
}

// EventDispatcher turns raw sensor notifications into events.
//
// Slope and orientation events fire only when the value changes, collision
// and double tap fire on every packet that carries them and attitude
// angles fire on every packet.
type EventDispatcher struct {
	log hclog.Logger

	mu    sync.Mutex
	state DispatcherState

	slope       []func(isSloped bool)
	collision   []func(isCollisionDetected bool)
	doubleTap   []func()
	orientation []func(orientation uint8)
	euler       []func(EulerAngle)
	quaternion  []func(QuaternionAngle)
}

// NewEventDispatcher creates a dispatcher with empty state
func NewEventDispatcher(l hclog.Logger) *EventDispatcher {
	if l == nil {
		l = hclog.NewNullLogger()
	}

	return &EventDispatcher{log: l}
}

func (d *EventDispatcher) OnSlope(f func(isSloped bool)) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.slope = append(d.slope, f)
}

func (d *EventDispatcher) OnCollision(f func(isCollisionDetected bool)) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.collision = append(d.collision, f)
}

func (d *EventDispatcher) OnDoubleTap(f func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.doubleTap = append(d.doubleTap, f)
}

func (d *EventDispatcher) OnOrientation(f func(orientation uint8)) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.orientation = append(d.orientation, f)
}

func (d *EventDispatcher) OnAttitudeEuler(f func(EulerAngle)) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.euler = append(d.euler, f)
}

func (d *EventDispatcher) OnAttitudeQuaternion(f func(QuaternionAngle)) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.quaternion = append(d.quaternion, f)
}

// State returns a snapshot of the last detection state
func (d *EventDispatcher) State() DispatcherState {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.state
}

// HandleData parses a notification and emits the resulting events.
// Malformed packets are dropped.
func (d *EventDispatcher) HandleData(buf []byte) {
	r, err := ParseSensor(buf)
	if err != nil {
		d.log.Trace("Dropping sensor packet", "data", buf, "error", err)
		return
	}

	// listeners run after the lock is released
	var emit []func()

	d.mu.Lock()
	switch r.Type {
	case ReadingDetection:
		det := *r.Detection
		prev := d.state

		if !prev.Known || prev.IsSloped != det.IsSloped {
			for _, f := range d.slope {
				f := f
				emit = append(emit, func() { f(det.IsSloped) })
			}
			d.log.Debug("Slope changed", "event", EventSlope, "sloped", det.IsSloped)
		}

		if det.IsCollisionDetected {
			for _, f := range d.collision {
				f := f
				emit = append(emit, func() { f(true) })
			}
			d.log.Debug("Collision detected", "event", EventCollision)
		}

		if det.IsDoubleTapped {
			for _, f := range d.doubleTap {
				emit = append(emit, f)
			}
			d.log.Debug("Double tap detected", "event", EventDoubleTap)
		}

		if !prev.Known || prev.Orientation != det.Orientation {
			for _, f := range d.orientation {
				f := f
				emit = append(emit, func() { f(det.Orientation) })
			}
			d.log.Debug("Orientation changed", "event", EventOrientation, "orientation", det.Orientation)
		}

		d.state = DispatcherState{Known: true, IsSloped: det.IsSloped, Orientation: det.Orientation}

	case ReadingAttitudeEuler:
		e := *r.Euler
		for _, f := range d.euler {
			f := f
			emit = append(emit, func() { f(e) })
		}

	case ReadingAttitudeQuaternion:
		q := *r.Quaternion
		for _, f := range d.quaternion {
			f := f
			emit = append(emit, func() { f(q) })
		}
	}
	d.mu.Unlock()

	for _, f := range emit {
		f()
	}
}
