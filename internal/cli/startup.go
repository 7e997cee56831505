package cli

import (
	"os"

	"github.com/atomicstack/term-list-popup/internal/logging/events"
	"golang.org/x/term"
)

func traceStartup(opts *rootOptions) {
	events.App.Start(startupTracePayload(opts))
}

// startupTracePayload bundles runtime context for trace logging.
func startupTracePayload(opts *rootOptions) map[string]interface{} {
	flags := make(map[string]interface{}, len(opts.cfg.Flags)+2)
	for k, v := range opts.cfg.Flags {
		flags[k] = v
	}
	flags["trace"] = opts.cfg.Trace
	flags["logFile"] = opts.cfg.LogFile
	payload := map[string]interface{}{
		"argv":       opts.args,
		"flags":      flags,
		"config":     opts.cfg,
		"configFile": opts.cfg.ConfigFile,
		"version":    Version,
	}
	if exe, err := os.Executable(); err == nil {
		payload["executable"] = exe
	} else {
		payload["executableError"] = err.Error()
	}
	if cwd, err := os.Getwd(); err == nil {
		payload["cwd"] = cwd
	} else {
		payload["cwdError"] = err.Error()
	}
	payload["tty"] = collectTTYDetails()
	return payload
}

type ttyDetails struct {
	Detected *ttyDetected     `json:"detected,omitempty"`
	Probes   []ttyProbeResult `json:"probes"`
}

type ttyDetected struct {
	Source string `json:"source"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type ttyProbeResult struct {
	Name       string `json:"name"`
	IsTerminal bool   `json:"is_terminal"`
	Width      int    `json:"width,omitempty"`
	Height     int    `json:"height,omitempty"`
	Error      string `json:"error,omitempty"`
}

// collectTTYDetails inspects the standard descriptors for terminal support
// and dimensions. The first terminal found is reported as detected.
func collectTTYDetails() ttyDetails {
	probes := []struct {
		name string
		fd   uintptr
	}{
		{"stdin", os.Stdin.Fd()},
		{"stdout", os.Stdout.Fd()},
		{"stderr", os.Stderr.Fd()},
	}
	results := make([]ttyProbeResult, 0, len(probes))
	var detected *ttyDetected
	for _, probe := range probes {
		entry := ttyProbeResult{Name: probe.name}
		fd := int(probe.fd)
		if fd >= 0 && term.IsTerminal(fd) {
			entry.IsTerminal = true
			if width, height, err := term.GetSize(fd); err == nil {
				entry.Width = width
				entry.Height = height
				if detected == nil {
					detected = &ttyDetected{Source: probe.name, Width: width, Height: height}
				}
			} else {
				entry.Error = err.Error()
			}
		}
		results = append(results, entry)
	}
	return ttyDetails{Detected: detected, Probes: results}
}
