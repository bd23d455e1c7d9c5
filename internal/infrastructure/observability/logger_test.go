package observability

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	otellog "go.opentelemetry.io/otel/log"
)

func TestOtelSeverity(t *testing.T) {
	cases := map[zerolog.Level]otellog.Severity{
		zerolog.TraceLevel: otellog.SeverityTrace,
		zerolog.DebugLevel: otellog.SeverityDebug,
		zerolog.InfoLevel:  otellog.SeverityInfo,
		zerolog.WarnLevel:  otellog.SeverityWarn,
		zerolog.ErrorLevel: otellog.SeverityError,
		zerolog.FatalLevel: otellog.SeverityFatal,
		zerolog.PanicLevel: otellog.SeverityFatal,
	}
	for level, want := range cases {
		assert.Equal(t, want, otelSeverity(level), level.String())
	}
}

func TestLoggerFromContext_WithoutSpan(t *testing.T) {
	logger := LoggerFromContext(context.Background())
	assert.NotNil(t, logger)
}
