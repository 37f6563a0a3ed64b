package utils

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

func InitLogger(path string, debug bool) (*zap.Logger, error) {
	if path != "" {
		if err := os.MkdirAll(path, 0755); err != nil {
			return nil, err
		}
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	if debug {
		encoderConfig = zap.NewDevelopmentEncoderConfig()
	}
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.CallerKey = "caller"
	encoderConfig.EncodeCaller = zapcore.ShortCallerEncoder

	encoder := zapcore.NewJSONEncoder(encoderConfig)
	if debug {
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	}

	logLevel := zap.InfoLevel
	if debug {
		logLevel = zap.DebugLevel
	}

	// app.log keeps a week, error.log a month
	appWriter := zapcore.AddSync(&lumberjack.Logger{
		Filename:   filepath.Join(path, "app.log"),
		MaxSize:    10, // MB
		MaxBackups: 7,
		MaxAge:     7, // days
		Compress:   true,
	})
	errorWriter := zapcore.AddSync(&lumberjack.Logger{
		Filename:   filepath.Join(path, "error.log"),
		MaxSize:    10,
		MaxBackups: 30,
		MaxAge:     30,
		Compress:   true,
	})
	consoleWriter := zapcore.AddSync(os.Stdout)

	core := zapcore.NewTee(
		zapcore.NewCore(encoder, consoleWriter, logLevel),
		zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), appWriter, zap.InfoLevel),
		zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), errorWriter, zap.ErrorLevel),
	)

	logger := zap.New(core, zap.AddCaller())

	return logger, nil
}
