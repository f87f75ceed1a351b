package toio

import (
	"errors"
	"sync"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testCharacteristic implements Characteristic with configurable behaviour
type testCharacteristic struct {
	mu sync.Mutex

	// ReadData is returned by every Read call
	ReadData []byte

	// Written captures every buffer passed to WriteWithoutResponse
	Written [][]byte

	ReadError      error
	WriteError     error
	SubscribeError error

	notify func(buf []byte)
}

func (c *testCharacteristic) Read(data []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ReadError != nil {
		return 0, c.ReadError
	}

	return copy(data, c.ReadData), nil
}

func (c *testCharacteristic) WriteWithoutResponse(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.WriteError != nil {
		return 0, c.WriteError
	}

	c.Written = append(c.Written, append([]byte(nil), p...))
	return len(p), nil
}

func (c *testCharacteristic) EnableNotifications(callback func(buf []byte)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.SubscribeError != nil {
		return c.SubscribeError
	}

	c.notify = callback
	return nil
}

// Notify delivers buf to the subscribed callback
func (c *testCharacteristic) Notify(buf []byte) {
	c.mu.Lock()
	cb := c.notify
	c.mu.Unlock()

	if cb != nil {
		cb(buf)
	}
}

func setupSensor(t *testing.T, c *testCharacteristic) *SensorCharacteristic {
	t.Helper()

	s, err := NewSensorCharacteristic(c, NewEventDispatcher(nil), hclog.NewNullLogger())
	require.NoError(t, err)

	return s
}

func TestSensorCharacteristicDeliversNotifications(t *testing.T) {
	c := &testCharacteristic{}
	s := setupSensor(t, c)

	var collisions int
	s.Events().OnCollision(func(bool) { collisions++ })

	c.Notify([]byte{0x01, 0x01, 0x01, 0x00, 0x00})
	c.Notify([]byte{0xff})
	c.Notify([]byte{0x01, 0x01, 0x01, 0x00, 0x00})

	assert.Equal(t, 2, collisions)
}

func TestSensorCharacteristicSubscribeError(t *testing.T) {
	boom := errors.New("not connected")
	c := &testCharacteristic{SubscribeError: boom}

	s, err := NewSensorCharacteristic(c, NewEventDispatcher(nil), nil)
	require.Error(t, err)
	assert.Nil(t, s)

	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "subscribe", te.Op)
	assert.ErrorIs(t, err, boom)
}

func TestSensorCharacteristicDetectionReads(t *testing.T) {
	c := &testCharacteristic{ReadData: []byte{0x01, 0x00, 0x01, 0x01, 0x02}}
	s := setupSensor(t, c)

	sloped, err := s.SlopeStatus()
	require.NoError(t, err)
	assert.True(t, sloped)

	collision, err := s.CollisionStatus()
	require.NoError(t, err)
	assert.True(t, collision)

	tapped, err := s.DoubleTapStatus()
	require.NoError(t, err)
	assert.True(t, tapped)

	orientation, err := s.Orientation()
	require.NoError(t, err)
	assert.Equal(t, uint8(2), orientation)
}

func TestSensorCharacteristicReadsDoNotEmitEvents(t *testing.T) {
	c := &testCharacteristic{ReadData: []byte{0x01, 0x00, 0x01, 0x01, 0x02}}
	s := setupSensor(t, c)

	var events int
	s.Events().OnSlope(func(bool) { events++ })

	_, err := s.SlopeStatus()
	require.NoError(t, err)

	assert.Equal(t, 0, events)
	assert.False(t, s.Events().State().Known)
}

func TestSensorCharacteristicAttitudeAngle(t *testing.T) {
	c := &testCharacteristic{ReadData: []byte{0x03, 0x01, 0xb4, 0x00, 0x00, 0x00, 0x4e, 0xff}}
	s := setupSensor(t, c)

	r, err := s.AttitudeAngle()
	require.NoError(t, err)
	require.Equal(t, ReadingAttitudeEuler, r.Type)
	assert.Equal(t, EulerAngle{Roll: 180, Yaw: -178}, *r.Euler)

	c.ReadData = []byte{0x03, 0x02, 0x00, 0x00, 0x10, 0x27, 0x00, 0x00, 0x00, 0x00}

	r, err = s.AttitudeAngle()
	require.NoError(t, err)
	require.Equal(t, ReadingAttitudeQuaternion, r.Type)
	assert.Equal(t, QuaternionAngle{X: 10000}, *r.Quaternion)
}

func TestSensorCharacteristicUnexpectedReading(t *testing.T) {
	c := &testCharacteristic{ReadData: []byte{0x03, 0x01, 0xb4, 0x00, 0x00, 0x00, 0x4e, 0xff}}
	s := setupSensor(t, c)

	_, err := s.SlopeStatus()
	assert.ErrorIs(t, err, ErrUnexpectedReading)

	c.ReadData = []byte{0x01, 0x00, 0x00, 0x00, 0x00}

	_, err = s.AttitudeAngle()
	assert.ErrorIs(t, err, ErrUnexpectedReading)
}

func TestSensorCharacteristicReadErrors(t *testing.T) {
	boom := errors.New("read failed")
	c := &testCharacteristic{ReadError: boom}
	s := setupSensor(t, c)

	_, err := s.Orientation()
	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "read", te.Op)
	assert.ErrorIs(t, err, boom)

	c.ReadError = nil
	c.ReadData = nil

	_, err = s.SlopeStatus()
	assert.ErrorIs(t, err, ErrParse)

	c.ReadData = []byte{0x01, 0x00}

	_, err = s.CollisionStatus()
	assert.ErrorIs(t, err, ErrParse)
}

func TestMotorCharacteristicMove(t *testing.T) {
	c := &testCharacteristic{}
	m := NewMotorCharacteristic(c, nil)

	cmd, err := m.Move(-500, 500, 3000)
	require.NoError(t, err)
	assert.Equal(t, MoveParams{Left: -115, Right: 115, DurationMs: 2550}, *cmd.Move)

	cmd, err = m.MoveByAcceleration(50, 5, 15, PriorityTranslation, 1000)
	require.NoError(t, err)
	assert.Equal(t, int8(50), cmd.Acceleration.TransSpeed)

	assert.Equal(t, [][]byte{
		{0x02, 0x01, 0x02, 0x73, 0x02, 0x01, 0x73, 0xff},
		{0x05, 0x32, 0x05, 0x0f, 0x00, 0x00, 0x00, 0x00, 0x64},
	}, c.Written)
}

func TestMotorCharacteristicWriteError(t *testing.T) {
	boom := errors.New("write failed")
	c := &testCharacteristic{WriteError: boom}
	m := NewMotorCharacteristic(c, nil)

	cmd, err := m.Move(10, 10, 0)

	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "write", te.Op)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, "unable to write characteristic: write failed", err.Error())

	// the command is still built so callers can see what was attempted
	assert.Equal(t, []byte{0x02, 0x01, 0x01, 0x0a, 0x02, 0x01, 0x0a, 0x00}, cmd.Buffer)
	assert.Empty(t, c.Written)
}
