package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	sdklog "go.opentelemetry.io/otel/sdk/log"

	"github.com/retakesallocator/loadout/internal/capability"
	"github.com/retakesallocator/loadout/internal/catalog"
	"github.com/retakesallocator/loadout/internal/config"
	"github.com/retakesallocator/loadout/internal/dispatcher"
	"github.com/retakesallocator/loadout/internal/frame"
	"github.com/retakesallocator/loadout/internal/handlers"
	"github.com/retakesallocator/loadout/internal/logging"
	"github.com/retakesallocator/loadout/internal/messages"
	"github.com/retakesallocator/loadout/internal/notify"
	intOtel "github.com/retakesallocator/loadout/internal/otel"
	"github.com/retakesallocator/loadout/internal/players"
	"github.com/retakesallocator/loadout/internal/selection"
	"github.com/retakesallocator/loadout/internal/stats"
	"github.com/retakesallocator/loadout/internal/storage"
)

// BuildDate can be set at build time via ldflags
var (
	CurrentVersion string = "0.0.1"
	BuildDate      string = "unknown"

	AppName string = "allocator"
)

// global state, owned by main
var (
	// SlogManager handles all slog-based logging
	SlogManager *logging.SlogManager

	// Logger is the slog logger (convenience reference)
	Logger *slog.Logger

	// DBLogger is the zerolog logger of the database and stats layers
	DBLogger zerolog.Logger

	// OTelProvider handles OpenTelemetry
	OTelProvider *intOtel.Provider

	SessionStartTime time.Time = time.Now()

	LogFile     *os.File
	LogFilePath string

	eventDispatcher *dispatcher.Dispatcher
	preferenceStore storage.PreferenceStore
	statsManager    *stats.Manager
	handlerService  *handlers.Service
	gelfCloser      io.Closer
)

func main() {
	configDir := flag.String("config", ".", "directory containing "+config.FileName)
	flag.Parse()

	if err := run(*configDir, os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configDir string, in io.Reader, out io.Writer) error {
	setupLogging(configDir)
	defer shutdown()

	registry := players.NewRegistry()
	frames := frame.NewScheduler()
	loadoutCfg := config.GetLoadoutConfig()

	weapons, err := catalog.Load(loadoutCfg.CatalogPath, loadoutCfg.UsableWeapons)
	if err != nil {
		return fmt.Errorf("loading weapon catalog: %w", err)
	}
	text, err := messages.Load(loadoutCfg.Locale)
	if err != nil {
		return fmt.Errorf("loading messages: %w", err)
	}
	Logger.Info("Catalog loaded", "weapons", weapons.Len(), "locale", text.Locale())

	eventDispatcher, err = dispatcher.New(logging.NewDispatcherLogger(Logger))
	if err != nil {
		return fmt.Errorf("failed to create dispatcher: %w", err)
	}

	if err := initStorage(); err != nil {
		return err
	}
	recorder := initStats()

	storageCfg := config.GetStorageConfig()
	caps := capability.NewStatic(config.GetCapabilityConfig())
	notifier := notify.New(frames, registry, notify.NewWriterSink(out), Logger)

	controller, err := selection.New(selection.Dependencies{
		Dispatcher:   eventDispatcher,
		Store:        preferenceStore,
		Catalog:      weapons,
		Capabilities: caps,
		Notifier:     notifier,
		Text:         text,
		Stats:        recorder,
		Logger:       Logger,
	}, selection.Options{
		SharedPool:   loadoutCfg.SharedPool,
		WriteTimeout: storageCfg.WriteTimeout,
		QueueSize:    storageCfg.QueueSize,
	})
	if err != nil {
		return fmt.Errorf("failed to create selection controller: %w", err)
	}

	handlerService = handlers.NewService(handlers.Dependencies{
		Players:      registry,
		Store:        preferenceStore,
		Catalog:      weapons,
		Capabilities: caps,
		Controller:   controller,
		Dispatcher:   eventDispatcher,
		Notifier:     notifier,
		Host:         newConsoleHost(out),
		Text:         text,
		LogManager:   SlogManager,
	}, handlers.Settings{
		SharedPool:           loadoutCfg.SharedPool,
		AllowWeaponSelection: loadoutCfg.AllowWeaponSelection,
		EnableSniper:         loadoutCfg.EnableSniperPreference,
		EnableEnemyStuff:     loadoutCfg.EnableEnemyStuffPreference,
		EnableZeus:           loadoutCfg.EnableZeusPreference,
		MenuCommands:         loadoutCfg.MenuCommands,
		Defaults:             loadoutCfg.DefaultWeapons,
		ReadTimeout:          storageCfg.WriteTimeout,
		QueueSize:            storageCfg.QueueSize,
	}, handlers.NewSessions())

	// context attributes are read on every record, so install them once the service exists
	SlogManager.SetContextProvider(handlerService.ContextProvider())
	SlogManager.Setup(logWriter(), viper.GetString("logLevel"), otelLogProvider())
	Logger = SlogManager.Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	Logger.Info("Allocator ready", "version", CurrentVersion, "build", BuildDate, "storage", storageCfg.Type)
	return newConsole(handlerService, registry, frames, in, out).Run(ctx)
}

func setupLogging(configDir string) {
	SlogManager = logging.NewSlogManager()
	SlogManager.Setup(nil, "info", nil)
	Logger = SlogManager.Logger()

	// .env is optional; values in it feed viper's ALLOCATOR_* env lookup
	if err := godotenv.Load(filepath.Join(configDir, ".env")); err != nil && !os.IsNotExist(err) {
		Logger.Warn("Failed to load .env", "error", err)
	}

	if err := config.Load(configDir); err != nil {
		Logger.Warn("Failed to load config, using defaults!", "error", err)
	} else {
		Logger.Info("Loaded config")
	}

	logsDir := viper.GetString("logsDir")
	if err := os.MkdirAll(logsDir, 0o755); err != nil {
		Logger.Error("Failed to create logs directory", "error", err, "path", logsDir)
	}
	LogFilePath = logging.LogFilePath(logsDir, AppName, SessionStartTime)
	if _, err := os.Stat(LogFilePath); err == nil {
		_ = os.Rename(LogFilePath, LogFilePath+".old")
	}
	var err error
	LogFile, err = os.OpenFile(LogFilePath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o666)
	if err != nil {
		Logger.Error("Failed to create/open log file!", "error", err, "path", LogFilePath)
	}

	otelCfg := config.GetOTelConfig()
	if otelCfg.Enabled {
		OTelProvider, err = intOtel.New(intOtel.Config{
			Enabled:      otelCfg.Enabled,
			ServiceName:  otelCfg.ServiceName,
			BatchTimeout: otelCfg.BatchTimeout,
			LogWriter:    logWriter(),
			Endpoint:     otelCfg.Endpoint,
			Insecure:     otelCfg.Insecure,
		})
		if err != nil {
			Logger.Error("Failed to initialize OTel provider", "error", err)
		} else {
			Logger.Info("OTel provider initialized", "endpoint", otelCfg.Endpoint)
		}
	}

	graylog := config.GetGraylogConfig()
	if graylog.Enabled {
		h, closer, err := logging.NewGELFHandler(graylog.Address, viper.GetString("logLevel"))
		if err != nil {
			Logger.Error("Failed to connect to Graylog", "error", err)
		} else {
			SlogManager.AddHandler(h)
			gelfCloser = closer
		}
	}

	SlogManager.Setup(logWriter(), viper.GetString("logLevel"), otelLogProvider())
	Logger = SlogManager.Logger()
	Logger.Info("Logging to file", "path", LogFilePath)

	DBLogger = logging.NewZerolog(logWriter(), viper.GetString("logLevel"), "database")
}

// logWriter is the session log file, or stdout when it could not be opened.
func logWriter() io.Writer {
	if LogFile == nil {
		return os.Stdout
	}
	return LogFile
}

func otelLogProvider() *sdklog.LoggerProvider {
	if OTelProvider == nil {
		return nil
	}
	return OTelProvider.LoggerProvider()
}

func initStats() stats.Recorder {
	influxCfg := config.GetInfluxConfig()
	if !influxCfg.Enabled {
		return stats.Nop{}
	}
	statsManager = stats.NewManager(influxCfg, DBLogger)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := statsManager.Connect(ctx); err != nil {
		Logger.Warn("InfluxDB unavailable, statistics go to backup file", "error", err, "path", influxCfg.BackupPath)
	}
	return statsManager
}

// shutdown drains queued writes before closing the stores they target.
func shutdown() {
	if eventDispatcher != nil {
		eventDispatcher.Close()
	}
	if preferenceStore != nil {
		if err := preferenceStore.Close(); err != nil {
			Logger.Error("Failed to close preference store", "error", err)
		}
	}
	if statsManager != nil {
		if err := statsManager.Close(); err != nil {
			Logger.Error("Failed to close statistics", "error", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := SlogManager.Flush(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "flush logs:", err)
	}
	if OTelProvider != nil {
		_ = OTelProvider.Shutdown(ctx)
	}
	if gelfCloser != nil {
		_ = gelfCloser.Close()
	}
	if LogFile != nil {
		_ = LogFile.Close()
	}
}
