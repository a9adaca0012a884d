package saga

import (
	"github.com/viant/saga/policy"
	"github.com/viant/saga/progress"
	"github.com/viant/saga/runtime/execution"
	"github.com/viant/saga/service/monitor"
	"github.com/viant/saga/tracing"
	"github.com/viant/x"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Option customises a Service.
type Option func(s *Service)

// WithConfig replaces the whole configuration.
func WithConfig(config *Config) Option {
	return func(s *Service) {
		if config != nil {
			s.config = config
		}
	}
}

// WithDevMode toggles argument checking and forbidden-state assertions.
func WithDevMode(enabled bool) Option {
	return func(s *Service) { s.config.DevMode = enabled }
}

// WithMonitor attaches an effect lifecycle observer; several monitors
// compose.
func WithMonitor(m monitor.Monitor) Option {
	return func(s *Service) {
		if m != nil {
			s.monitors = append(s.monitors, m)
		}
	}
}

// WithOnError sets the sink receiving uncaught root errors.
func WithOnError(onError func(err error)) Option {
	return func(s *Service) { s.env.OnError = onError }
}

// WithLogger overrides the runtime logger.
func WithLogger(logf func(format string, args ...interface{})) Option {
	return func(s *Service) { s.env.Logf = logf }
}

// WithEffectMiddlewares installs wrappers around effect execution; each
// must forward every effect to next exactly once.
func WithEffectMiddlewares(middlewares ...execution.EffectMiddleware) Option {
	return func(s *Service) {
		s.env.Middlewares = append(s.env.Middlewares, middlewares...)
	}
}

// WithContext seeds the context of subsequently started root
// procedures.
func WithContext(values map[string]interface{}) Option {
	return func(s *Service) {
		for key, value := range values {
			s.rootContext[key] = value
		}
	}
}

// WithEmitter installs an adapter around the standard-channel put used
// for externally dispatched actions.
func WithEmitter(emitter func(put func(interface{})) func(interface{})) Option {
	return func(s *Service) { s.emitter = emitter }
}

// WithPolicy gates effect execution through an approval policy.
func WithPolicy(p *policy.Policy) Option {
	return func(s *Service) { s.policy = p }
}

// WithExtensionTypes registers action types for typed take patterns.
func WithExtensionTypes(types ...*x.Type) Option {
	return func(s *Service) {
		for i := range types {
			if types[i] != nil {
				s.types.Register(types[i])
			}
		}
	}
}

// WithProgress replaces the task counter tracker.
func WithProgress(p *progress.Progress) Option {
	return func(s *Service) { s.progress = p }
}

// WithTracing configures OpenTelemetry tracing and attaches the tracing
// monitor. If outputFile is empty the stdout exporter is used; otherwise
// traces are written to the supplied file path. The function may be
// called multiple times – only the first provider installation takes
// effect.
func WithTracing(serviceName, serviceVersion, outputFile string) Option {
	return func(s *Service) {
		_ = tracing.Init(serviceName, serviceVersion, outputFile)
		s.monitors = append(s.monitors, tracing.NewMonitor())
	}
}

// WithTracingExporter configures OpenTelemetry tracing using a custom
// SpanExporter and attaches the tracing monitor. This enables
// integrations with exporters other than the built-in stdout exporter,
// for example OTLP, Jaeger or Zipkin.
func WithTracingExporter(serviceName, serviceVersion string, exporter sdktrace.SpanExporter) Option {
	return func(s *Service) {
		_ = tracing.InitWithExporter(serviceName, serviceVersion, exporter)
		s.monitors = append(s.monitors, tracing.NewMonitor())
	}
}
