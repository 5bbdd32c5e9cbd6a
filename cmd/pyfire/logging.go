package main

import (
	"io"
	"log"
	"os"
	"path/filepath"
)

// setupLogging routes the standard logger to path when debug is set and
// discards it otherwise. The display owns stdout and stderr.
func setupLogging(debug bool, path string) (func(), error) {
	if !debug {
		log.SetOutput(io.Discard)
		return func() {}, nil
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}
	log.SetOutput(f)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	return func() {
		log.SetOutput(io.Discard)
		f.Close()
	}, nil
}
