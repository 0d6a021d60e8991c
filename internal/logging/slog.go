package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	sdklog "go.opentelemetry.io/otel/sdk/log"
)

// swapped in tests
var (
	osStdout io.Writer = os.Stdout
	osPipe             = os.Pipe
)

const instrumentationScope = "loadout-allocator"

// SlogManager manages slog-based logging with optional GELF and OTel outputs.
type SlogManager struct {
	logger *slog.Logger

	// OTel provider for flushing
	logProvider *sdklog.LoggerProvider

	extra   []slog.Handler
	context ContextProvider
}

// NewSlogManager creates a new slog-based logging manager.
func NewSlogManager() *SlogManager {
	return &SlogManager{}
}

// parseLevel converts a string log level to slog.Level.
func parseLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func handlerOptions(lvl slog.Level) *slog.HandlerOptions {
	return &slog.HandlerOptions{
		Level: lvl,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				if t, ok := a.Value.Any().(time.Time); ok {
					a.Value = slog.StringValue(t.UTC().Format(time.RFC3339))
				}
			}
			return a
		},
	}
}

// AddHandler registers an extra output (e.g. GELF) used by the next Setup.
func (m *SlogManager) AddHandler(h slog.Handler) {
	m.extra = append(m.extra, h)
}

// SetContextProvider registers live attributes added to every record by the next Setup.
func (m *SlogManager) SetContextProvider(p ContextProvider) {
	m.context = p
}

// Setup initializes the logging system. Records go to file when given,
// otherwise to stdout, plus every extra handler and the OTel bridge when
// provider is not nil.
func (m *SlogManager) Setup(file io.Writer, level string, provider *sdklog.LoggerProvider) {
	lvl := parseLevel(level)
	m.logProvider = provider
	opts := handlerOptions(lvl)

	var handlers []slog.Handler
	if file != nil {
		handlers = append(handlers, slog.NewTextHandler(file, opts))
	} else {
		handlers = append(handlers, slog.NewTextHandler(osStdout, opts))
	}
	handlers = append(handlers, m.extra...)

	if provider != nil {
		handlers = append(handlers, otelslog.NewHandler(instrumentationScope, otelslog.WithLoggerProvider(provider)))
	}

	var root slog.Handler = NewMultiHandler(handlers...)
	if m.context != nil {
		root = NewContextHandler(root, m.context)
	}

	m.logger = slog.New(root)
	m.logger.Info("Logging initialized", "level", level)
}

// Logger returns the configured slog.Logger.
func (m *SlogManager) Logger() *slog.Logger {
	if m.logger == nil {
		return slog.Default()
	}
	return m.logger
}

// Flush forces a flush of OTel logs if available.
func (m *SlogManager) Flush(ctx context.Context) error {
	if m.logProvider != nil {
		return m.logProvider.ForceFlush(ctx)
	}
	return nil
}

// WriteLog writes a log entry with the specified function name, data, and level.
// A nil manager discards the entry.
func (m *SlogManager) WriteLog(functionName, data, level string) {
	if m == nil || m.logger == nil {
		return
	}

	switch parseLevel(level) {
	case slog.LevelDebug:
		m.logger.Debug(data, "function", functionName)
	case slog.LevelWarn:
		m.logger.Warn(data, "function", functionName)
	case slog.LevelError:
		m.logger.Error(data, "function", functionName)
	default:
		m.logger.Info(data, "function", functionName)
	}
}
