package metrics

import "github.com/fieldops/dispatchsim/core/factory"

var sinkRegistry = factory.NewRegistry[MetricsSink]()

// RegisterMetricsSink adds a sink factory under the given type name. Built-in
// sinks register themselves from infra/metrics.
func RegisterMetricsSink(name string, f factory.Factory[MetricsSink]) error {
	return sinkRegistry.Register(name, f)
}

// NewSink instantiates a sink from its module configuration.
func NewSink(cfg factory.ModuleConfig) (MetricsSink, error) {
	return sinkRegistry.Create(cfg)
}

// NewSinks builds every configured sink.
func NewSinks(cfg Config) ([]MetricsSink, error) {
	sinks := make([]MetricsSink, 0, len(cfg.Sinks))
	for _, mc := range cfg.Sinks {
		s, err := NewSink(mc)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, s)
	}
	return sinks, nil
}
