package toio

import (
	"encoding/binary"
	"fmt"
)

// CommandType identifies which variant of a MotorCommand is populated,
// the value is the tag written as the first byte of the command
type CommandType uint8

const (
	CommandMove             CommandType = MotorCommandMove
	CommandMoveAcceleration CommandType = MotorCommandMoveAcceleration
)

func (t CommandType) String() string {
	switch t {
	case CommandMove:
		return "motor:move"
	case CommandMoveAcceleration:
		return "motor:move-acceleration"
	}

	return fmt.Sprintf("motor:unknown(0x%02x)", uint8(t))
}

// Priority decides which speed the cube favours when translation and
// rotation together exceed what the motors can deliver
type Priority uint8

const (
	PriorityTranslation Priority = 0
	PriorityRotation    Priority = 1
)

// MoveParams are the values encoded into a move command
type MoveParams struct {
	Left       int8
	Right      int8
	DurationMs uint16
}

// AccelerationParams are the values encoded into a move by acceleration command
type AccelerationParams struct {
	TransSpeed        int8
	TransAcceleration uint8
	// RotateSpeed is kept as given, only its low 16 bits of magnitude reach the wire
	RotateSpeed int
	// Priority is written verbatim, values other than 0 and 1 are not interpreted by the cube
	Priority   Priority
	DurationMs uint16
}

// MotorCommand is an encoded motor command. Type selects the single
// populated parameter variant, which always mirrors what Buffer carries
// after clamping and rounding.
type MotorCommand struct {
	Type   CommandType
	Buffer []byte

	Move         *MoveParams
	Acceleration *AccelerationParams
}

// Move builds a command driving the left and right motors at the given
// speeds for durationMs, a duration of 0 moves until the next command.
// Speeds are clamped to [-MaxSpeed, MaxSpeed], the duration to
// [0, MaxDurationMs] and rounded down to a multiple of 10ms.
func Move(left, right, durationMs int) MotorCommand {
	l := clamp(left, -MaxSpeed, MaxSpeed)
	r := clamp(right, -MaxSpeed, MaxSpeed)
	d := durationTicks(durationMs)

	buf := []byte{byte(CommandMove)}
	buf = append(buf, motorBytes(MotorLeft, l)...)
	buf = append(buf, motorBytes(MotorRight, r)...)
	buf = append(buf, d) // duration in 10ms units

	return MotorCommand{
		Type:   CommandMove,
		Buffer: buf,
		Move: &MoveParams{
			Left:       int8(l),
			Right:      int8(r),
			DurationMs: uint16(d) * 10,
		},
	}
}

// MoveByAcceleration builds a command that accelerates the cube towards
// transSpeed while rotating at rotateSpeed degrees per second.
//
//	[0x05][|speed|][acceleration][|rotate| u16 LE][rotate dir][travel dir][priority][duration]
//
// transSpeed is clamped to [-MaxSpeed, MaxSpeed], transAcceleration to
// [0, MaxAcceleration] and durationMs as in Move. rotateSpeed is not
// clamped, a magnitude above 0xffff is truncated to its low 16 bits.
func MoveByAcceleration(transSpeed, transAcceleration, rotateSpeed int, priority Priority, durationMs int) MotorCommand {
	s := clamp(transSpeed, -MaxSpeed, MaxSpeed)
	a := clamp(transAcceleration, 0, MaxAcceleration)
	d := durationTicks(durationMs)

	buf := make([]byte, 9)
	buf[0] = byte(CommandMoveAcceleration)
	buf[1] = byte(abs(s))
	buf[2] = byte(a)
	// TODO: decide whether rotate speeds beyond 16 bits should saturate once the firmware limit is confirmed
	binary.LittleEndian.PutUint16(buf[3:], uint16(abs(rotateSpeed)))
	buf[5] = directionFlag(rotateSpeed)
	buf[6] = directionFlag(s)
	buf[7] = byte(priority)
	buf[8] = d

	return MotorCommand{
		Type:   CommandMoveAcceleration,
		Buffer: buf,
		Acceleration: &AccelerationParams{
			TransSpeed:        int8(s),
			TransAcceleration: uint8(a),
			RotateSpeed:       rotateSpeed,
			Priority:          priority,
			DurationMs:        uint16(d) * 10,
		},
	}
}

// motorBytes encodes a single motor as [index][direction][magnitude]
func motorBytes(index byte, speed int) []byte {
	dir := byte(MotorDirectionForward)
	if speed < 0 {
		dir = MotorDirectionBackward
	}

	return []byte{index, dir, byte(abs(speed))}
}

// directionFlag is 0 for non negative values and 1 for negative ones
func directionFlag(v int) byte {
	if v < 0 {
		return 1
	}

	return 0
}

// durationTicks clamps the duration and converts it to 10ms units, rounding down
func durationTicks(durationMs int) byte {
	return byte(clamp(durationMs, 0, MaxDurationMs) / 10)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}

	if v > hi {
		return hi
	}

	return v
}

func abs(v int) int {
	if v < 0 {
		return -v
	}

	return v
}
