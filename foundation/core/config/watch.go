// File: watch.go
// Title: Configuration File Watching Implementation
// Description: fsnotify based hot reloading of configuration documents.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation of file watching

package config

import (
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	boterror "github.com/msto63/botlang/foundation/core/error"
	"github.com/msto63/botlang/foundation/utils/stringx"
)

// OnChange registers a handler that runs after every successful reload
func (c *Config) OnChange(handler ChangeHandler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers = append(c.handlers, handler)
}

// Watch starts reloading the document whenever its file changes. The
// directory is watched rather than the file so that editors replacing the
// file through a rename are seen as well. errs receives reload failures and
// may be nil.
func (c *Config) Watch(errs chan<- error) error {
	if stringx.IsBlank(c.filePath) {
		return boterror.New("file path required for watching").
			WithCode(boterror.CodeValidationFailed).
			WithOperation("config.Watch")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return boterror.Wrap(err, "failed to create file watcher").
			WithCode(boterror.CodeConfigError).
			WithOperation("config.Watch")
	}
	if err := watcher.Add(filepath.Dir(c.filePath)); err != nil {
		watcher.Close()
		return boterror.Wrap(err, "failed to watch config directory").
			WithCode(boterror.CodeConfigError).
			WithOperation("config.Watch").
			WithDetail("filePath", c.filePath)
	}

	c.mu.Lock()
	c.watcher = watcher
	c.watchDone = make(chan struct{})
	done := c.watchDone
	c.mu.Unlock()

	target := filepath.Clean(c.filePath)
	go func() {
		defer close(done)
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				if err := c.reload(); err != nil && errs != nil {
					errs <- err
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				if errs != nil {
					errs <- err
				}
			}
		}
	}()
	return nil
}

// StopWatching stops the file watcher and waits for it to exit
func (c *Config) StopWatching() {
	c.mu.Lock()
	watcher, done := c.watcher, c.watchDone
	c.watcher, c.watchDone = nil, nil
	c.mu.Unlock()

	if watcher == nil {
		return
	}
	watcher.Close()
	<-done
}

func (c *Config) reload() error {
	fresh, err := LoadWithOptions(c.filePath, LoadOptions{Format: c.format, EnvPrefix: c.envPrefix})
	if err != nil {
		return err
	}

	c.mu.Lock()
	old := &Config{data: c.data, filePath: c.filePath, format: c.format, envPrefix: c.envPrefix}
	c.data = fresh.data
	handlers := append([]ChangeHandler(nil), c.handlers...)
	c.mu.Unlock()

	for _, h := range handlers {
		h(old, c)
	}
	return nil
}
