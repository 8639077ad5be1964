package printing

import "strings"

// Device is an output device reported by the operating system
type Device struct {
	Name      string `json:"name"`
	IsDefault bool   `json:"is_default"`
}

// DefaultKeywords is the keyword preference list used when none is configured
var DefaultKeywords = []string{"epson", "kasa"}

// SelectTarget chooses the device to print on.
//
// The first keyword that matches any device name (case-insensitive substring,
// devices scanned in order) wins. Without a keyword match the OS default device
// is used, then the first device. It returns false for an empty device list.
func SelectTarget(devices []Device, keywords []string) (string, bool) {
	if len(devices) == 0 {
		return "", false
	}

	for _, keyword := range keywords {
		keyword = strings.ToLower(strings.TrimSpace(keyword))
		if keyword == "" {
			continue
		}
		for _, d := range devices {
			if strings.Contains(strings.ToLower(d.Name), keyword) {
				return d.Name, true
			}
		}
	}

	for _, d := range devices {
		if d.IsDefault {
			return d.Name, true
		}
	}

	return devices[0].Name, true
}

// DefaultDevice returns the device flagged as OS default, if any
func DefaultDevice(devices []Device) (Device, bool) {
	for _, d := range devices {
		if d.IsDefault {
			return d, true
		}
	}
	return Device{}, false
}
