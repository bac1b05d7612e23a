package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
)

const (
	logDir     = "logs"
	logName    = "gridcast.log"
	maxLogSize = 10 << 20
)

// setupLogging sends the standard logger to logs/gridcast.log when debug is
// set, moving a log larger than maxLogSize aside to gridcast.log.old first.
// Without debug, logs are discarded since the terminal belongs to the game.
func setupLogging(debug bool) (func(), error) {
	if !debug {
		log.SetOutput(io.Discard)
		return func() {}, nil
	}

	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	path := filepath.Join(logDir, logName)
	if fi, err := os.Stat(path); err == nil && fi.Size() > maxLogSize {
		if err := os.Rename(path, path+".old"); err != nil {
			return nil, fmt.Errorf("rotate log: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}
	log.SetOutput(f)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	log.Printf("gridcast: logging started")
	return func() {
		log.SetOutput(io.Discard)
		f.Close()
	}, nil
}
