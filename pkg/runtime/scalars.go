package runtime

import (
	"fmt"
	"strings"
)

//-----------------------------------------------------------------------------
// Inline handles
//-----------------------------------------------------------------------------

// DeviceType names the backend a Device refers to.
type DeviceType uint8

const (
	DeviceCPU DeviceType = iota
	DeviceCUDA
	DeviceMPS
)

func (t DeviceType) String() string {
	switch t {
	case DeviceCPU:
		return "cpu"
	case DeviceCUDA:
		return "cuda"
	case DeviceMPS:
		return "mps"
	default:
		return fmt.Sprintf("device_%d", uint8(t))
	}
}

// Device is stored inline in a Value. Index -1 means "current device".
type Device struct {
	Type  DeviceType
	Index int8
}

// CPU is the default host device.
var CPU = Device{Type: DeviceCPU, Index: -1}

func (d Device) String() string {
	if d.Index < 0 {
		return d.Type.String()
	}
	return fmt.Sprintf("%s:%d", d.Type, d.Index)
}

// ParseDevice accepts "cpu", "cuda", "cuda:1" and friends.
func ParseDevice(s string) (Device, error) {
	name, idx, hasIdx := strings.Cut(strings.TrimSpace(s), ":")
	var d Device
	switch strings.ToLower(name) {
	case "cpu":
		d.Type = DeviceCPU
	case "cuda":
		d.Type = DeviceCUDA
	case "mps":
		d.Type = DeviceMPS
	default:
		return Device{}, fmt.Errorf("runtime: unknown device type %q", name)
	}
	d.Index = -1
	if hasIdx {
		var n int
		if _, err := fmt.Sscanf(idx, "%d", &n); err != nil || n < 0 || n > 127 {
			return Device{}, fmt.Errorf("runtime: invalid device index %q", idx)
		}
		d.Index = int8(n)
	}
	return d, nil
}

func (d Device) pack() uint64 {
	return uint64(d.Type)<<8 | uint64(uint8(d.Index))
}

func unpackDevice(bits uint64) Device {
	return Device{Type: DeviceType(bits >> 8), Index: int8(uint8(bits))}
}

// Scalar is an opaque handle borrowed from the numerics library. The Value
// holding it never owns it.
type Scalar = any
