package session

import (
	"context"
	"strings"

	"github.com/shirou/gopsutil/v3/process"
)

// ClientInfo describes a detected vendor client process.
type ClientInfo struct {
	Name  string
	Exe   string
	PID   int32
	Found bool
}

// Probe looks for the vendor client process. The probe is diagnostic
// only: the vendor's own IPC check decides whether initialization may
// proceed, the probe explains why it could not.
type Probe interface {
	Detect(ctx context.Context) (ClientInfo, error)
}

// clientBinaries are the client process names per platform.
var clientBinaries = map[string]bool{
	"steam":     true,
	"steam.exe": true,
	"steam_osx": true,
}

// ProcessProbe scans the process table for the vendor client.
type ProcessProbe struct {
	names map[string]bool
}

// NewProcessProbe returns a probe matching the known client binaries.
func NewProcessProbe() *ProcessProbe {
	return &ProcessProbe{names: clientBinaries}
}

func (p *ProcessProbe) Detect(ctx context.Context) (ClientInfo, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return ClientInfo{}, err
	}
	for _, proc := range procs {
		name, err := proc.NameWithContext(ctx)
		if err != nil {
			continue
		}
		if !p.names[strings.ToLower(name)] {
			continue
		}
		info := ClientInfo{Name: name, PID: proc.Pid, Found: true}
		if exe, err := proc.ExeWithContext(ctx); err == nil {
			info.Exe = exe
		}
		return info, nil
	}
	return ClientInfo{}, nil
}

// StaticProbe reports a fixed result. Used by tests and by hosts that
// manage client discovery themselves.
type StaticProbe struct {
	Info ClientInfo
	Err  error
}

func (p StaticProbe) Detect(context.Context) (ClientInfo, error) {
	return p.Info, p.Err
}
