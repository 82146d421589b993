package utils

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

var Log *logrus.Logger

// InitLogger initializes the structured logger
func InitLogger() {
	Log = logrus.New()

	// Set log level from environment
	switch os.Getenv("LOG_LEVEL") {
	case "debug":
		Log.SetLevel(logrus.DebugLevel)
	case "info":
		Log.SetLevel(logrus.InfoLevel)
	case "warn":
		Log.SetLevel(logrus.WarnLevel)
	case "error":
		Log.SetLevel(logrus.ErrorLevel)
	default:
		Log.SetLevel(logrus.InfoLevel)
	}

	// JSON in production, text for development
	env := os.Getenv("GIN_MODE")
	if env == "release" {
		Log.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
		})
	} else {
		Log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
			ForceColors:     true,
		})
	}

	// Rotated file output via lumberjack
	logFile := &lumberjack.Logger{
		Filename:   "logs/gamecritic.log",
		MaxSize:    10, // MB
		MaxBackups: 5,
		MaxAge:     30, // days
		Compress:   true,
	}

	if env == "release" {
		Log.SetOutput(logFile)
	} else {
		Log.SetOutput(io.MultiWriter(os.Stdout, logFile))
	}
}

// LogInfo logs with structured fields
func LogInfo(message string, fields map[string]interface{}) {
	Log.WithFields(logrus.Fields(fields)).Info(message)
}

func LogError(message string, fields map[string]interface{}) {
	Log.WithFields(logrus.Fields(fields)).Error(message)
}

func LogWarn(message string, fields map[string]interface{}) {
	Log.WithFields(logrus.Fields(fields)).Warn(message)
}
