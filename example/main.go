package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/hashicorp/go-hclog"
	toio "github.com/nicholasjackson/toio-cube"
)

var doScan = flag.Bool("scan", false, "Scan for Bluetooth devices")
var addr = flag.String("address", "", "Bluetooth address or name of the cube to connect to")

func main() {
	flag.Parse()

	cfg, err := loadConfig()
	if err != nil {
		fmt.Printf("Unable to load config: %s\n", err)
		os.Exit(1)
	}

	if *addr != "" {
		cfg.Address = *addr
	}

	logger := hclog.New(&hclog.LoggerOptions{Name: "toio", Level: cfg.LogLevel, Color: hclog.AutoColor})

	if *doScan {
		scan(logger)
	}

	if cfg.Address != "" {
		connect(cfg, logger)
	}
}

func scan(logger hclog.Logger) {
	ad, err := NewBluetoothAdapter(logger)
	if err != nil {
		fmt.Printf("Unable to create a bluetooth adapter: %s\n", err)
		os.Exit(1)
	}

	sr := ad.Scan()

	for r := range sr {
		fmt.Printf("Found device: %s, address: %s\n", r.Name, r.Address.String())
	}
}

func connect(cfg config, logger hclog.Logger) {
	adapter, err := NewBluetoothAdapter(logger)
	if err != nil {
		fmt.Printf("Unable to create a bluetooth adapter: %s\n", err)
		os.Exit(1)
	}

	address, err := adapter.Find(cfg.Address, cfg.ScanTimeout)
	if err != nil {
		fmt.Printf("Unable to find cube: %s\n", err)
		os.Exit(1)
	}

	device, err := adapter.Connect(address, cfg.ConnectTimeout)
	if err != nil {
		fmt.Printf("Unable to connect to cube: %s\n", err)
		os.Exit(1)
	}
	defer device.Disconnect()

	cube, err := toio.NewCube(device, logger)
	if err != nil {
		fmt.Printf("Unable to create a new cube: %s\n", err)
		os.Exit(1)
	}

	ev := cube.Events()
	ev.OnSlope(func(sloped bool) { fmt.Printf("slope: %t\n", sloped) })
	ev.OnCollision(func(bool) { fmt.Println("collision") })
	ev.OnDoubleTap(func() { fmt.Println("double tap") })
	ev.OnOrientation(func(o uint8) { fmt.Printf("orientation: %d\n", o) })
	ev.OnAttitudeEuler(func(e toio.EulerAngle) {
		fmt.Printf("roll: %d pitch: %d yaw: %d\n", e.Roll, e.Pitch, e.Yaw)
	})

	if sloped, err := cube.Sensor().SlopeStatus(); err == nil {
		fmt.Printf("sloped at start: %t\n", sloped)
	}

	motor := cube.Motor()
	DoWithDelay(
		1500*time.Millisecond,
		func() { motor.Move(50, 50, 1000) },
		func() { motor.Move(-50, 50, 500) },
		func() { motor.MoveByAcceleration(80, 10, 90, toio.PriorityTranslation, 1000) },
		func() { motor.Move(0, 0, 0) },
	)

	fmt.Println("Listening for sensor events, press ctrl-c to exit")

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	<-sig
}
