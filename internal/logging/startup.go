package logging

import (
	"os"
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// RunLogger collects tool identity, input files, enabled effects, and
// configuration, then emits a single structured zerolog event summarising
// the run setup. One event up front makes it easy to reconstruct exactly
// how an enhancement run was configured when reading logs afterwards.
type RunLogger struct {
	command      string
	setupTime    time.Duration
	inputs       map[string]string
	effects      map[string]bool
	config       map[string]string
	gpuAvailable bool
	gpuKnown     bool
}

// NewRunLogger creates a RunLogger for the given subcommand name
// (e.g. "image", "audio").
func NewRunLogger(command string) *RunLogger {
	return &RunLogger{
		command: command,
		inputs:  make(map[string]string),
		effects: make(map[string]bool),
		config:  make(map[string]string),
	}
}

// Input registers an input or output file path.
func (r *RunLogger) Input(label, path string) *RunLogger {
	r.inputs[label] = path
	return r
}

// Effect registers an effect toggle (e.g. "noiseReduction").
func (r *RunLogger) Effect(name string, enabled bool) *RunLogger {
	r.effects[name] = enabled
	return r
}

// Config registers a non-sensitive configuration key-value pair.
func (r *RunLogger) Config(key, value string) *RunLogger {
	r.config[key] = value
	return r
}

// GPU records whether the GPU probe succeeded.
func (r *RunLogger) GPU(available bool) *RunLogger {
	r.gpuAvailable = available
	r.gpuKnown = true
	return r
}

// SetupTime records how long run setup took.
func (r *RunLogger) SetupTime(d time.Duration) *RunLogger {
	r.setupTime = d
	return r
}

// Log emits a single structured INFO log event with all collected information.
func (r *RunLogger) Log() {
	evt := log.Info()

	evt = evt.Dict("tool", zerolog.Dict().
		Str("command", r.command).
		Str("goVersion", runtime.Version()).
		Str("arch", runtime.GOARCH).
		Str("logLevel", os.Getenv("SNIP_LOG_LEVEL")))

	if len(r.inputs) > 0 {
		evt = evt.Dict("files", dictFromMap(r.inputs))
	}
	if len(r.effects) > 0 {
		d := zerolog.Dict()
		for k, v := range r.effects {
			d = d.Bool(k, v)
		}
		evt = evt.Dict("effects", d)
	}
	if len(r.config) > 0 {
		evt = evt.Dict("config", dictFromMap(r.config))
	}
	if r.gpuKnown {
		evt = evt.Bool("gpu", r.gpuAvailable)
	}
	if r.setupTime > 0 {
		evt = evt.Dur("setupTime", r.setupTime)
	}

	evt.Msg("Enhancement run configured")
}

// dictFromMap converts a map[string]string into a zerolog.Event (Dict).
func dictFromMap(m map[string]string) *zerolog.Event {
	d := zerolog.Dict()
	for k, v := range m {
		d = d.Str(k, v)
	}
	return d
}
