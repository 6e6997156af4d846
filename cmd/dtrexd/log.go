package main

import (
	"io"
	"os"

	log "github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	logFileMaxSizeMB  = 50
	logFileMaxBackups = 5
	logFileMaxAgeDays = 28
)

// initLogger sets the global logrus level and, if logFile is not empty, tees
// the output to a rotated file. The returned func closes the file.
func initLogger(level int, logFile string) func() {
	log.SetLevel(log.Level(level))
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	if logFile == "" {
		log.SetOutput(os.Stdout)
		return func() {}
	}

	rotator := &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    logFileMaxSizeMB,
		MaxBackups: logFileMaxBackups,
		MaxAge:     logFileMaxAgeDays,
	}
	log.SetOutput(io.MultiWriter(os.Stdout, rotator))
	return func() {
		rotator.Close()
	}
}
