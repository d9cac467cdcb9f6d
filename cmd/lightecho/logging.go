package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"
)

const (
	logDir      = "log"
	logFileName = "lightecho-debug.log"
	maxLogSize  = 10 * 1024 * 1024
)

// setupLogging routes the standard logger to a debug file when enabled and
// discards it otherwise. The simulator owns the terminal, so the logger
// must never write to stdout or stderr while the game runs.
func setupLogging(debug bool) *os.File {
	if !debug {
		log.SetOutput(io.Discard)
		return nil
	}

	if err := os.MkdirAll(logDir, 0755); err != nil {
		log.SetOutput(io.Discard)
		return nil
	}

	logPath := filepath.Join(logDir, logFileName)
	rotateIfLarge(logPath)

	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		log.SetOutput(io.Discard)
		return nil
	}
	log.SetOutput(f)
	log.Printf("=== lightecho started %s ===", time.Now().Format(time.RFC3339))
	return f
}

// rotateIfLarge moves an oversized log aside under a timestamped name so
// the active file stays bounded.
func rotateIfLarge(logPath string) {
	info, err := os.Stat(logPath)
	if err != nil || info.Size() <= maxLogSize {
		return
	}
	rotated := filepath.Join(logDir,
		fmt.Sprintf("lightecho-debug-%s.log", time.Now().Format("20060102-150405")))
	os.Rename(logPath, rotated)
}
