package observability

import (
	"testing"

	"github.com/fulmenhq/gofulmen/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestParseLogLevel(t *testing.T) {
	tests := map[string]string{
		"trace":   "TRACE",
		"debug":   "DEBUG",
		"DEBUG":   "DEBUG",
		"info":    "INFO",
		"warn":    "WARN",
		"warning": "WARN",
		"error":   "ERROR",
		"":        "INFO",
		"bogus":   "INFO",
	}
	for in, want := range tests {
		assert.Equal(t, want, parseLogLevel(in), "level %q", in)
	}
}

func TestServerLoggerConfigProfiles(t *testing.T) {
	structured := serverLoggerConfig("debug", "structured", "")
	assert.Equal(t, logging.ProfileStructured, structured.Profile)
	assert.Equal(t, "DEBUG", structured.DefaultLevel)
	assert.Equal(t, "production", structured.Environment)
	assert.Equal(t, "staffsearch", structured.Service)
	assert.Equal(t, "staffsearch", structured.StaticFields["namespace"])
	require.Len(t, structured.Sinks, 1)
	assert.Equal(t, "json", structured.Sinks[0].Format)

	simple := serverLoggerConfig("info", "SIMPLE", "test")
	assert.Equal(t, logging.ProfileSimple, simple.Profile)
	assert.Equal(t, "test", simple.Environment)
	assert.Empty(t, simple.Middleware)
	assert.Equal(t, "console", simple.Sinks[0].Format)
}

func TestInitLoggers(t *testing.T) {
	origCLI, origServer := CLILogger, ServerLogger
	t.Cleanup(func() {
		CLILogger, ServerLogger = origCLI, origServer
	})

	CLILogger, ServerLogger = nil, nil
	assert.Nil(t, Logger())

	InitCLILogger(true)
	require.NotNil(t, CLILogger)
	assert.Same(t, CLILogger, Logger())
	CLILogger.Debug("cli logger ready", zap.String("component", "test"))

	InitServerLogger("info", "structured", "test")
	require.NotNil(t, ServerLogger)
	assert.Same(t, ServerLogger, Logger())
	ServerLogger.Info("server logger ready", zap.Int("port", 8000))

	SyncLoggers()
}

func TestResolvePort(t *testing.T) {
	port, err := resolvePort("[::]:9191")
	require.NoError(t, err)
	assert.Equal(t, 9191, port)

	_, err = resolvePort("no-port")
	require.Error(t, err)
}
