package main

import (
	"fmt"
	"time"

	"github.com/hashicorp/go-hclog"
	"tinygo.org/x/bluetooth"
)

var defaultAdapter = bluetooth.DefaultAdapter

// BluetoothAdapter allows the interaction with the phyiscal bluetooth stack
type BluetoothAdapter struct {
	adapter     *bluetooth.Adapter
	log         hclog.Logger
	scanResult  chan ScanResult
	scanStopped chan bool
}

// ScanResult is returned from the Scan function and encapsulates the
// details of a Bluetooth device
type ScanResult struct {
	Name    string
	Address bluetooth.Address
}

// NewBluetoothAdapter creates and initializes the default bluetooth adapter on the machine
func NewBluetoothAdapter(l hclog.Logger) (*BluetoothAdapter, error) {
	err := defaultAdapter.Enable()
	if err != nil {
		l.Error("Unable to enable the bluetooth adapter", "error", err)
		return nil, err
	}

	return &BluetoothAdapter{adapter: defaultAdapter, log: l, scanResult: make(chan ScanResult)}, nil
}

// Scan for bluetooth devices, this method returns a channel of ScanResult
// that can be constantly itterated over to print the devices
func (b *BluetoothAdapter) Scan() chan ScanResult {
	b.scanStopped = make(chan bool, 1)

	go func(results chan ScanResult, stop chan bool) {
		err := b.adapter.Scan(func(a *bluetooth.Adapter, d bluetooth.ScanResult) {
			name := d.LocalName()
			if name == "" {
				name = "UNKNOWN"
			}

			select {
			case <-stop:
				return
			default:
			}

			results <- ScanResult{Name: name, Address: d.Address}
		})

		if err != nil {
			b.log.Error("Scan failed", "error", err)
		}
	}(b.scanResult, b.scanStopped)

	return b.scanResult
}

// StopScanning stops the scanning process
func (b *BluetoothAdapter) StopScanning() {
	b.adapter.StopScan()
	b.scanStopped <- true
}

// Find scans until a device whose name or address matches addr is seen
func (b *BluetoothAdapter) Find(addr string, timeout time.Duration) (bluetooth.Address, error) {
	found := make(chan bluetooth.Address, 1)
	to := time.After(timeout)

	sr := b.Scan()
	defer b.StopScanning()

	go func() {
		for r := range sr {
			if r.Name == addr || r.Address.String() == addr {
				select {
				case found <- r.Address:
				default:
				}
			}
		}
	}()

	select {
	case a := <-found:
		b.log.Trace("Found device", "address", addr)
		return a, nil
	case <-to:
		return bluetooth.Address{}, fmt.Errorf("timeout while trying to find device: %s", addr)
	}
}

// Connect to a bluetooth device
func (b *BluetoothAdapter) Connect(addr bluetooth.Address, timeout time.Duration) (*bluetooth.Device, error) {
	b.adapter.SetConnectHandler(func(device bluetooth.Address, connected bool) {
		b.log.Trace("Connection status changed", "connected", connected)
	})

	device, err := b.adapter.Connect(addr, bluetooth.ConnectionParams{ConnectionTimeout: bluetooth.NewDuration(timeout)})

	if err != nil || device == nil {
		return nil, fmt.Errorf("unable to connect to device: %s", err)
	}

	return device, nil
}
