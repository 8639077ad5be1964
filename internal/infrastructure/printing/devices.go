package printing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/benossaliha2/cloud-printer/internal/domain/printing"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// DefaultDeviceQuery lists Windows printers as JSON
var DefaultDeviceQuery = PowerShellQuery("Get-Printer | Select-Object Name, Default | ConvertTo-Json")

// PowerShellQuery wraps a PowerShell pipeline as a device query. An empty
// script returns nil, which selects DefaultDeviceQuery.
func PowerShellQuery(script string) []string {
	if strings.TrimSpace(script) == "" {
		return nil
	}
	return []string{"powershell", "-NoProfile", "-Command", script}
}

const defaultDeviceQueryTimeout = 15 * time.Second

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DeviceDirectory enumerates the output devices installed on the host
type DeviceDirectory interface {
	ListDevices(ctx context.Context) []printing.Device
}

// DeviceDirectoryConfig contains configuration for CommandDeviceDirectory
type DeviceDirectoryConfig struct {
	// Query is the command and arguments whose stdout is the device list
	Query []string
	// Timeout bounds a single query
	Timeout time.Duration
	Runner  CommandRunner
	Logger  *zap.Logger
}

// CommandDeviceDirectory lists devices by running an OS query command that
// prints a JSON array (or a single object) of {"Name", "Default"} records.
type CommandDeviceDirectory struct {
	query   []string
	timeout time.Duration
	runner  CommandRunner
	logger  *zap.Logger
}

// NewCommandDeviceDirectory creates a device directory
func NewCommandDeviceDirectory(config *DeviceDirectoryConfig) *CommandDeviceDirectory {
	if config == nil {
		config = &DeviceDirectoryConfig{}
	}

	d := &CommandDeviceDirectory{
		query:   config.Query,
		timeout: config.Timeout,
		runner:  config.Runner,
		logger:  config.Logger,
	}
	if len(d.query) == 0 {
		d.query = DefaultDeviceQuery
	}
	if d.timeout == 0 {
		d.timeout = defaultDeviceQueryTimeout
	}
	if d.runner == nil {
		d.runner = ExecRunner{}
	}
	if d.logger == nil {
		d.logger = zap.NewNop()
	}
	return d
}

// ListDevices returns the installed devices in OS order. It never fails:
// query and parse errors are logged and an empty list is returned.
func (d *CommandDeviceDirectory) ListDevices(ctx context.Context) []printing.Device {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	res, err := d.runner.Run(ctx, d.query[0], d.query[1:]...)
	if err != nil {
		fields := []zap.Field{zap.Error(err), zap.Strings("query", d.query)}
		if res != nil {
			fields = append(fields, zap.ByteString("stderr", res.Stderr))
		}
		d.logger.Error("device query failed", fields...)
		return []printing.Device{}
	}

	devices, err := parseDevices(res.Stdout)
	if err != nil {
		d.logger.Error("device list could not be parsed",
			zap.Error(err),
			zap.ByteString("stdout", res.Stdout))
		return []printing.Device{}
	}

	names := make([]string, len(devices))
	for i, dev := range devices {
		names[i] = dev.Name
	}
	d.logger.Info("devices found", zap.Int("count", len(devices)), zap.Strings("names", names))

	return devices
}

// deviceRecord is the shape emitted by Get-Printer | ConvertTo-Json
type deviceRecord struct {
	Name    string `json:"Name"`
	Default bool   `json:"Default"`
}

// parseDevices decodes the query output. Output that is not valid UTF-8 is
// decoded as Windows-1254, the Turkish ANSI code page.
func parseDevices(out []byte) ([]printing.Device, error) {
	out = bytes.TrimPrefix(out, utf8BOM)
	if !utf8.Valid(out) {
		decoded, _, err := transform.Bytes(charmap.Windows1254.NewDecoder(), out)
		if err != nil {
			return nil, fmt.Errorf("decode device list: %w", err)
		}
		out = decoded
	}

	out = bytes.TrimSpace(out)
	if len(out) == 0 {
		return []printing.Device{}, nil
	}

	var records []deviceRecord
	switch out[0] {
	case '[':
		if err := json.Unmarshal(out, &records); err != nil {
			return nil, fmt.Errorf("decode device list: %w", err)
		}
	case '{':
		var rec deviceRecord
		if err := json.Unmarshal(out, &rec); err != nil {
			return nil, fmt.Errorf("decode device: %w", err)
		}
		records = []deviceRecord{rec}
	default:
		return nil, fmt.Errorf("unexpected device list output: %.40q", out)
	}

	devices := make([]printing.Device, 0, len(records))
	for _, r := range records {
		if r.Name == "" {
			continue
		}
		devices = append(devices, printing.Device{Name: r.Name, IsDefault: r.Default})
	}
	return devices, nil
}

var _ DeviceDirectory = (*CommandDeviceDirectory)(nil)
