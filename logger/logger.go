package logger

import (
	"os"
	"rmrk-indexer/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	defaultMaxFileSize = 10 // In megabytes
)

var (
	logger *zap.Logger
	sugar  *zap.SugaredLogger
)

func init() {
	logger, _ = zap.NewDevelopment()
	sugar = logger.Sugar()

	config.GlobalConfigCallback.AddCallback(func(config config.GlobalConfig) {
		Configure(config.LoggerConfig())
	})
}

// Replace the default development logger with one built from the config
func Configure(cfg config.LoggerConfig) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}
	atomicLevel := zap.NewAtomicLevelAt(level)

	cores := make([]zapcore.Core, 0, 2)
	if cfg.Console || len(cfg.File) == 0 {
		encoderCfg := zap.NewDevelopmentEncoderConfig()
		encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		cores = append(cores, zapcore.NewCore(
			zapcore.NewConsoleEncoder(encoderCfg),
			zapcore.Lock(os.Stdout),
			atomicLevel,
		))
	}
	if len(cfg.File) > 0 {
		maxSize := cfg.MaxFileSize
		if maxSize <= 0 {
			maxSize = defaultMaxFileSize
		}
		writer := zapcore.AddSync(&lumberjack.Logger{
			Filename: cfg.File,
			MaxSize:  maxSize,
		})
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
			writer,
			atomicLevel,
		))
	}

	logger = zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddCallerSkip(1))
	sugar = logger.Sugar()
}

// Underlying zap logger, e.g., for gorm logging
func Logger() *zap.Logger {
	return logger
}

func Sync() {
	_ = logger.Sync()
}

func Fatal(msg string, args ...interface{}) {
	sugar.Fatalf(msg, args...)
}

func Error(msg string, args ...interface{}) {
	sugar.Errorf(msg, args...)
}

func Warn(msg string, args ...interface{}) {
	sugar.Warnf(msg, args...)
}

func Info(msg string, args ...interface{}) {
	sugar.Infof(msg, args...)
}

func Debug(msg string, args ...interface{}) {
	sugar.Debugf(msg, args...)
}
