package toio

import (
	"encoding/binary"
	"fmt"
)

// ReadingType identifies which variant of a SensorReading is populated
type ReadingType uint8

const (
	ReadingDetection ReadingType = iota + 1
	ReadingAttitudeEuler
	ReadingAttitudeQuaternion
)

func (t ReadingType) String() string {
	switch t {
	case ReadingDetection:
		return "sensor:detection"
	case ReadingAttitudeEuler:
		return "sensor:attitude-angle-euler"
	case ReadingAttitudeQuaternion:
		return "sensor:attitude-angle-quaternion"
	}

	return fmt.Sprintf("sensor:unknown(%d)", uint8(t))
}

// Detection is the motion detection state reported by the cube
type Detection struct {
	IsSloped            bool
	IsCollisionDetected bool
	IsDoubleTapped      bool
	// Orientation is passed through as sent, the cube uses 0-3
	Orientation uint8
}

// EulerAngle is the attitude of the cube in degrees
type EulerAngle struct {
	Roll  int16
	Pitch int16
	Yaw   int16
}

// QuaternionAngle is the attitude of the cube as a quaternion, each
// component scaled by 10000
type QuaternionAngle struct {
	W int16
	X int16
	Y int16
	Z int16
}

// SensorReading is a parsed sensor packet. Type selects the single
// populated variant, the other variant fields are nil.
type SensorReading struct {
	Type ReadingType
	// Buffer is the raw packet the reading was parsed from
	Buffer []byte

	Detection  *Detection
	Euler      *EulerAngle
	Quaternion *QuaternionAngle
}

// ParseSensor decodes a packet read or notified from the sensor characteristic.
//
// Layouts:
//
//	detection:  [0x01][slope 0=sloped][collision 1=true][double tap 1=true][orientation]
//	euler:      [0x03][0x01][roll i16][pitch i16][yaw i16]
//	quaternion: [0x03][other][w i16][x i16][y i16][z i16]
//
// Multi byte fields are little endian.
func ParseSensor(buf []byte) (SensorReading, error) {
	if len(buf) < minSensorPacketLength {
		return SensorReading{}, &ParseError{Reason: fmt.Sprintf("packet too short, %d bytes", len(buf)), Buffer: buf}
	}

	switch buf[0] {
	case SensorTypeDetection:
		if len(buf) < 5 {
			return SensorReading{}, &ParseError{Reason: "detection packet truncated", Buffer: buf}
		}

		return SensorReading{
			Type:   ReadingDetection,
			Buffer: buf,
			Detection: &Detection{
				IsSloped:            buf[1] == 0,
				IsCollisionDetected: buf[2] == 1,
				IsDoubleTapped:      buf[3] == 1,
				Orientation:         buf[4],
			},
		}, nil

	case SensorTypeAttitude:
		// any format other than euler is treated as a quaternion
		if buf[1] == AttitudeFormatEuler {
			v, err := readInt16s(buf, 3)
			if err != nil {
				return SensorReading{}, err
			}

			return SensorReading{
				Type:   ReadingAttitudeEuler,
				Buffer: buf,
				Euler:  &EulerAngle{Roll: v[0], Pitch: v[1], Yaw: v[2]},
			}, nil
		}

		v, err := readInt16s(buf, 4)
		if err != nil {
			return SensorReading{}, err
		}

		return SensorReading{
			Type:       ReadingAttitudeQuaternion,
			Buffer:     buf,
			Quaternion: &QuaternionAngle{W: v[0], X: v[1], Y: v[2], Z: v[3]},
		}, nil
	}

	return SensorReading{}, &ParseError{Reason: fmt.Sprintf("unknown packet type 0x%02x", buf[0]), Buffer: buf}
}

// readInt16s reads n consecutive little endian int16 values starting at offset 2
func readInt16s(buf []byte, n int) ([]int16, error) {
	end := 2 + n*2
	if len(buf) < end {
		return nil, &ParseError{Reason: fmt.Sprintf("attitude packet needs %d bytes, got %d", end, len(buf)), Buffer: buf}
	}

	v := make([]int16, n)
	for i := range v {
		v[i] = int16(binary.LittleEndian.Uint16(buf[2+i*2:]))
	}

	return v, nil
}
