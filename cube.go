package toio

import (
	"fmt"

	"github.com/hashicorp/go-hclog"
	"tinygo.org/x/bluetooth"
)

const discoverAttempts = 5

// Cube defines a type that can communicate with a toio Core Cube over Bluetooth LE
// https://toio.github.io/toio-spec/en/docs/ble_communication_overview
type Cube struct {
	device *bluetooth.Device
	sensor *SensorCharacteristic
	motor  *MotorCharacteristic
	log    hclog.Logger
}

// NewCube binds the sensor and motor characteristics of a connected device.
// Connecting the device is left to the caller.
//
// example:
//
//	device, err := adapter.Connect(address, bluetooth.ConnectionParams{})
//	if err != nil {
//		return err
//	}
//
//	cube, err := toio.NewCube(device, logger)
//	if err != nil {
//		return err
//	}
//
//	cube.Events().OnCollision(func(bool) { fmt.Println("bump") })
//	cube.Motor().Move(50, 50, 1000)
func NewCube(device *bluetooth.Device, l hclog.Logger) (*Cube, error) {
	if l == nil {
		l = hclog.NewNullLogger()
	}

	serviceUUID, err := bluetooth.ParseUUID(ServiceUUID)
	if err != nil {
		return nil, err
	}

	var services []bluetooth.DeviceService

	// try multiple times as Darwin bluetooth is flakey
	for i := 0; i < discoverAttempts; i++ {
		l.Debug("Attempting to discover services", "attempt", i+1)

		services, err = device.DiscoverServices([]bluetooth.UUID{serviceUUID})
		if err == nil && len(services) > 0 {
			break
		}
	}

	if err != nil {
		l.Error("Unable to get services for bluetooth device", "error", err)
		return nil, err
	}

	if len(services) == 0 {
		return nil, fmt.Errorf("service: %s not found", ServiceUUID)
	}

	sensorChar, err := getCharacteristic(services, SensorCharacteristicUUID)
	if err != nil {
		return nil, err
	}

	motorChar, err := getCharacteristic(services, MotorCharacteristicUUID)
	if err != nil {
		return nil, err
	}

	sensor, err := NewSensorCharacteristic(sensorChar, NewEventDispatcher(l.Named("events")), l.Named("sensor"))
	if err != nil {
		return nil, err
	}

	return &Cube{
		device: device,
		sensor: sensor,
		motor:  NewMotorCharacteristic(motorChar, l.Named("motor")),
		log:    l,
	}, nil
}

// Sensor returns the motion sensor of the cube
func (c *Cube) Sensor() *SensorCharacteristic {
	return c.sensor
}

// Motor returns the motors of the cube
func (c *Cube) Motor() *MotorCharacteristic {
	return c.motor
}

// Events returns the dispatcher sensor notifications are delivered to
func (c *Cube) Events() *EventDispatcher {
	return c.sensor.Events()
}

func getCharacteristic(ds []bluetooth.DeviceService, uuid string) (*bluetooth.DeviceCharacteristic, error) {
	uu, err := bluetooth.ParseUUID(uuid)
	if err != nil {
		return nil, err
	}

	for i := range ds {
		c, err := ds[i].DiscoverCharacteristics([]bluetooth.UUID{uu})
		if err == nil && len(c) > 0 {
			return &c[0], nil
		}
	}

	return nil, fmt.Errorf("characteristic: %s not found", uuid)
}
