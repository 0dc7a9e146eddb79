package observability

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/trace"
)

// InitLogger configures the global zerolog logger: a human-readable console
// writer in development, JSON with caller info everywhere else.
func InitLogger(serviceName, env string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	if env == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		}).With().
			Str("service", serviceName).
			Logger()
		return
	}

	log.Logger = zerolog.New(os.Stdout).
		With().
		Timestamp().
		Caller().
		Str("service", serviceName).
		Logger()
}

// LoggerFromContext returns the global logger, stamped with the trace and
// span ids of the active span when the context carries one.
func LoggerFromContext(ctx context.Context) zerolog.Logger {
	logger := log.With().Logger()

	spanContext := trace.SpanFromContext(ctx).SpanContext()
	if spanContext.IsValid() {
		logger = logger.With().
			Str("trace_id", spanContext.TraceID().String()).
			Str("span_id", spanContext.SpanID().String()).
			Logger()
	}

	return logger
}
