// Package logx centralizes structured logging for the core and its
// transport collaborators using arbor.
package logx

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/ternarybob/arbor"
	arborcommon "github.com/ternarybob/arbor/common"
	"github.com/ternarybob/arbor/models"

	"github.com/coderlm/coderlm/internal/config"
)

var (
	global arbor.ILogger
	mu     sync.RWMutex
)

// Get returns the global logger, falling back to a bare console logger if
// Setup hasn't run yet (e.g. in tests).
func Get() arbor.ILogger {
	mu.RLock()
	if global != nil {
		defer mu.RUnlock()
		return global
	}
	mu.RUnlock()

	mu.Lock()
	defer mu.Unlock()
	if global == nil {
		global = arbor.NewLogger().WithConsoleWriter(writerConfig(nil, models.LogWriterTypeConsole, ""))
	}
	return global
}

// Init stores logger as the process-wide singleton.
func Init(logger arbor.ILogger) {
	mu.Lock()
	defer mu.Unlock()
	global = logger
}

// Setup builds the logger described by cfg.Logging and installs it as the
// global singleton.
func Setup(cfg *config.Config) arbor.ILogger {
	logger := arbor.NewLogger()

	if cfg.Logging.Output == "file" || cfg.Logging.Output == "both" {
		logsDir := filepath.Join(cfg.DataDir(), "logs")
		if err := os.MkdirAll(logsDir, 0o755); err == nil {
			logFile := filepath.Join(logsDir, "coderlm.log")
			logger = logger.WithFileWriter(writerConfig(cfg, models.LogWriterTypeFile, logFile))
		}
	}
	if cfg.Logging.Output == "console" || cfg.Logging.Output == "both" || cfg.Logging.Output == "" {
		logger = logger.WithConsoleWriter(writerConfig(cfg, models.LogWriterTypeConsole, ""))
	}
	logger = logger.WithMemoryWriter(writerConfig(cfg, models.LogWriterTypeMemory, ""))
	logger = logger.WithLevelFromString(cfg.Logging.Level)

	Init(logger)
	return logger
}

func writerConfig(cfg *config.Config, wt models.LogWriterType, filename string) models.WriterConfiguration {
	timeFormat := "15:04:05.000"
	outputType := models.OutputFormatJSON
	var maxSize int64 = 50 * 1024 * 1024
	maxBackups := 3

	if cfg != nil {
		if cfg.Logging.TimeFormat != "" {
			timeFormat = cfg.Logging.TimeFormat
		}
		if cfg.Logging.Format == "text" {
			outputType = models.OutputFormatLogfmt
		}
		if cfg.Logging.MaxSizeMB > 0 {
			maxSize = int64(cfg.Logging.MaxSizeMB) * 1024 * 1024
		}
		if cfg.Logging.MaxBackups > 0 {
			maxBackups = cfg.Logging.MaxBackups
		}
	}

	return models.WriterConfiguration{
		Type:       wt,
		FileName:   filename,
		TimeFormat: timeFormat,
		OutputType: outputType,
		MaxSize:    maxSize,
		MaxBackups: maxBackups,
	}
}

// Stop flushes remaining buffered log entries before shutdown.
func Stop() {
	arborcommon.Stop()
}
