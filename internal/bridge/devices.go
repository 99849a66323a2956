package bridge

import "strings"

// Device is one row of `adb devices` output.
type Device struct {
	Serial string
	State  string // "device", "offline", "unauthorized", ...
}

// IsOnline reports whether the device is in "device" state (ready).
func (d Device) IsOnline() bool { return d.State == "device" }

// ParseDevices extracts the per-device rows from `adb devices` output.
// The header line and blank lines are skipped. Used for display only;
// the connection decision stays line-count based (see IsDeviceConnected).
func ParseDevices(out string) []Device {
	var devices []Device
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "List of devices") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		devices = append(devices, Device{Serial: fields[0], State: fields[1]})
	}
	return devices
}

func countNonBlankLines(out string) int {
	n := 0
	for _, line := range strings.Split(out, "\n") {
		if strings.TrimSpace(line) != "" {
			n++
		}
	}
	return n
}
