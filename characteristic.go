package toio

import (
	"fmt"

	"github.com/hashicorp/go-hclog"
)

// readBufferSize is large enough for any sensor packet within the default ATT MTU
const readBufferSize = 64

// Characteristic is the GATT characteristic a cube component talks through.
// *bluetooth.DeviceCharacteristic satisfies it.
type Characteristic interface {
	Read(data []byte) (int, error)
	WriteWithoutResponse(p []byte) (int, error)
	EnableNotifications(callback func(buf []byte)) error
}

// SensorCharacteristic reads the motion sensor and forwards its
// notifications to an EventDispatcher
type SensorCharacteristic struct {
	char       Characteristic
	dispatcher *EventDispatcher
	log        hclog.Logger
}

// NewSensorCharacteristic subscribes the dispatcher to the characteristic's notifications
func NewSensorCharacteristic(c Characteristic, d *EventDispatcher, l hclog.Logger) (*SensorCharacteristic, error) {
	if l == nil {
		l = hclog.NewNullLogger()
	}

	s := &SensorCharacteristic{char: c, dispatcher: d, log: l}

	err := c.EnableNotifications(func(buf []byte) {
		s.log.Trace("Got sensor notification", "data", buf)
		d.HandleData(buf)
	})

	if err != nil {
		s.log.Error("Unable to receive notifications for sensor", "error", err)
		return nil, &TransportError{Op: "subscribe", Err: err}
	}

	return s, nil
}

// Events returns the dispatcher notifications are delivered to
func (s *SensorCharacteristic) Events() *EventDispatcher {
	return s.dispatcher
}

// SlopeStatus reads whether the cube is currently sloped
func (s *SensorCharacteristic) SlopeStatus() (bool, error) {
	d, err := s.readDetection()
	if err != nil {
		return false, err
	}

	return d.IsSloped, nil
}

// CollisionStatus reads whether the cube reports a collision
func (s *SensorCharacteristic) CollisionStatus() (bool, error) {
	d, err := s.readDetection()
	if err != nil {
		return false, err
	}

	return d.IsCollisionDetected, nil
}

// DoubleTapStatus reads whether the cube reports a double tap
func (s *SensorCharacteristic) DoubleTapStatus() (bool, error) {
	d, err := s.readDetection()
	if err != nil {
		return false, err
	}

	return d.IsDoubleTapped, nil
}

// Orientation reads the raw orientation value of the cube
func (s *SensorCharacteristic) Orientation() (uint8, error) {
	d, err := s.readDetection()
	if err != nil {
		return 0, err
	}

	return d.Orientation, nil
}

// AttitudeAngle reads the attitude of the cube, the returned reading is
// either ReadingAttitudeEuler or ReadingAttitudeQuaternion depending on the
// format the cube is configured for
func (s *SensorCharacteristic) AttitudeAngle() (SensorReading, error) {
	r, err := s.read()
	if err != nil {
		return SensorReading{}, err
	}

	switch r.Type {
	case ReadingAttitudeEuler, ReadingAttitudeQuaternion:
		return r, nil
	case ReadingDetection:
	}

	return SensorReading{}, fmt.Errorf("%w: expected attitude angle, got %s", ErrUnexpectedReading, r.Type)
}

func (s *SensorCharacteristic) readDetection() (Detection, error) {
	r, err := s.read()
	if err != nil {
		return Detection{}, err
	}

	switch r.Type {
	case ReadingDetection:
		return *r.Detection, nil
	case ReadingAttitudeEuler, ReadingAttitudeQuaternion:
	}

	return Detection{}, fmt.Errorf("%w: expected detection, got %s", ErrUnexpectedReading, r.Type)
}

func (s *SensorCharacteristic) read() (SensorReading, error) {
	buf := make([]byte, readBufferSize)

	n, err := s.char.Read(buf)
	if err != nil {
		s.log.Error("Unable to read sensor", "error", err)
		return SensorReading{}, &TransportError{Op: "read", Err: err}
	}

	s.log.Trace("Read sensor", "data", buf[:n])

	if n == 0 {
		return SensorReading{}, &ParseError{Reason: "no data read from characteristic"}
	}

	return ParseSensor(buf[:n])
}

// MotorCharacteristic drives the cube's motors
type MotorCharacteristic struct {
	char Characteristic
	log  hclog.Logger
}

func NewMotorCharacteristic(c Characteristic, l hclog.Logger) *MotorCharacteristic {
	if l == nil {
		l = hclog.NewNullLogger()
	}

	return &MotorCharacteristic{char: c, log: l}
}

// Move drives the left and right motors, see Move for clamping rules.
// The encoded command is returned even when the write fails.
func (m *MotorCharacteristic) Move(left, right, durationMs int) (MotorCommand, error) {
	cmd := Move(left, right, durationMs)
	m.log.Debug("Move", "left", cmd.Move.Left, "right", cmd.Move.Right, "duration_ms", cmd.Move.DurationMs)

	return cmd, m.write(cmd)
}

// MoveByAcceleration drives the cube by target speed and acceleration, see
// MoveByAcceleration for clamping rules
func (m *MotorCharacteristic) MoveByAcceleration(transSpeed, transAcceleration, rotateSpeed int, priority Priority, durationMs int) (MotorCommand, error) {
	cmd := MoveByAcceleration(transSpeed, transAcceleration, rotateSpeed, priority, durationMs)
	a := cmd.Acceleration
	m.log.Debug(
		"MoveByAcceleration",
		"speed", a.TransSpeed,
		"acceleration", a.TransAcceleration,
		"rotate", a.RotateSpeed,
		"priority", a.Priority,
		"duration_ms", a.DurationMs,
	)

	return cmd, m.write(cmd)
}

func (m *MotorCharacteristic) write(cmd MotorCommand) error {
	m.log.Trace("Sending data", "command", cmd.Type, "bytes", cmd.Buffer)

	_, err := m.char.WriteWithoutResponse(cmd.Buffer)
	if err != nil {
		m.log.Error("Error sending data", "command", cmd.Type, "error", err)
		return &TransportError{Op: "write", Err: err}
	}

	return nil
}
