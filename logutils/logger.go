package logutils

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogSettings controls where and how verbosely the process logs.
type LogSettings struct {
	Enabled         bool   `json:"Enabled"`
	Level           string `json:"Level"`
	File            string `json:"File"`
	MaxSize         int    `json:"MaxSize"`
	MaxBackups      int    `json:"MaxBackups"`
	CompressRotated bool   `json:"CompressRotated"`
	// Console makes the logger write human readable lines instead of JSON.
	Console bool `json:"Console"`
}

var (
	zapLogger     *zap.Logger
	zapLoggerLock sync.RWMutex
)

// ZapLogger returns the process wide logger. Until OverrideRootLogWithConfig
// is called it is a no-op logger.
func ZapLogger() *zap.Logger {
	zapLoggerLock.RLock()
	defer zapLoggerLock.RUnlock()

	if zapLogger == nil {
		return zap.NewNop()
	}
	return zapLogger
}

// SetZapLogger replaces the process wide logger. Mostly useful in tests.
func SetZapLogger(logger *zap.Logger) {
	zapLoggerLock.Lock()
	defer zapLoggerLock.Unlock()
	zapLogger = logger
}

func lvlFromString(lvlString string) (zapcore.Level, error) {
	switch strings.ToLower(lvlString) {
	case "", "info":
		return zapcore.InfoLevel, nil
	case "debug", "trace":
		return zapcore.DebugLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	}
	return zapcore.InfoLevel, fmt.Errorf("unknown log level: %s", lvlString)
}

// NewZapLoggerWithConfig builds a logger from settings without installing it.
func NewZapLoggerWithConfig(settings LogSettings) (*zap.Logger, error) {
	if !settings.Enabled {
		return zap.NewNop(), nil
	}

	level, err := lvlFromString(settings.Level)
	if err != nil {
		return nil, err
	}

	var encoder zapcore.Encoder
	if settings.Console {
		cfg := zap.NewDevelopmentEncoderConfig()
		encoder = zapcore.NewConsoleEncoder(cfg)
	} else {
		cfg := zap.NewProductionEncoderConfig()
		cfg.EncodeTime = zapcore.ISO8601TimeEncoder
		encoder = zapcore.NewJSONEncoder(cfg)
	}

	var syncer zapcore.WriteSyncer
	if settings.File != "" {
		syncer = rotatingSyncer(settings)
	} else {
		syncer = zapcore.Lock(os.Stderr)
	}

	core := zapcore.NewCore(encoder, syncer, zap.NewAtomicLevelAt(level))
	return zap.New(core, zap.AddCaller()), nil
}

// OverrideRootLogWithConfig installs a logger built from settings as the
// process wide logger.
func OverrideRootLogWithConfig(settings LogSettings) error {
	logger, err := NewZapLoggerWithConfig(settings)
	if err != nil {
		return err
	}
	SetZapLogger(logger)
	return nil
}
