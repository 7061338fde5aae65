package metrics

import "github.com/fieldops/dispatchsim/core/factory"

// Config defines settings for metrics sinks.
type Config struct {
	Sinks []factory.ModuleConfig `json:"sinks"`
	// PromPort exposes /metrics over HTTP when non-zero.
	PromPort int `json:"prom_port"`
}
