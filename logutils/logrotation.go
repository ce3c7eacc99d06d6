package logutils

import (
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const defaultMaxSizeMB = 100

// rotatingSyncer writes to settings.File and rotates it with lumberjack once
// it grows past MaxSize megabytes.
func rotatingSyncer(settings LogSettings) zapcore.WriteSyncer {
	maxSize := settings.MaxSize
	if maxSize <= 0 {
		maxSize = defaultMaxSizeMB
	}
	return zapcore.AddSync(&lumberjack.Logger{
		Filename:   settings.File,
		MaxSize:    maxSize,
		MaxBackups: settings.MaxBackups,
		Compress:   settings.CompressRotated,
	})
}
