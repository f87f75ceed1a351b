package toio

const (
	ServiceUUID              = "10b20100-5b3b-4571-9508-cf3efcd7bbae"
	MotorCharacteristicUUID  = "10b20102-5b3b-4571-9508-cf3efcd7bbae"
	SensorCharacteristicUUID = "10b20106-5b3b-4571-9508-cf3efcd7bbae"

	SensorTypeDetection = 0x01
	SensorTypeAttitude  = 0x03

	AttitudeFormatEuler = 0x01

	MotorCommandMove             = 0x02
	MotorCommandMoveAcceleration = 0x05

	MotorLeft  = 0x01
	MotorRight = 0x02

	MotorDirectionForward  = 0x01
	MotorDirectionBackward = 0x02

	// MaxSpeed is the largest motor magnitude the cube accepts
	MaxSpeed = 115

	// MaxAcceleration is the largest translational acceleration that fits the wire byte
	MaxAcceleration = 255

	// MaxDurationMs is the longest timed move, the wire carries duration / 10 in a single byte
	MaxDurationMs = 2550

	minSensorPacketLength = 3
)
