// ============================================================================
// Botlang - bot scripting language toolkit
// ============================================================================
//
// Package:     host
// Description: Sensor snapshots and decisions for a host driving bots
// Author:      Mike Stoffels
// Created:     2026-10-19
// License:     MIT
// ============================================================================

package host

import (
	"strconv"
	"time"

	"github.com/msto63/botlang/foundation/botlang/interpreter"
	"github.com/msto63/botlang/foundation/core/config"
	boterror "github.com/msto63/botlang/foundation/core/error"
)

// EnvPrefix prefixes environment overrides of snapshot files:
// BOTLANG_TICK, BOTLANG_TIMEOUT and BOTLANG_SENSORS__HEALTH for _HEALTH
const EnvPrefix = "BOTLANG"

// Snapshot is the sensor state a host hands to one run
type Snapshot struct {
	// File the snapshot was read from, empty for inline snapshots
	Path string

	// Tick number of the simulation step (0 if not given)
	Tick int

	// Deadline for evaluating this snapshot, 0 for none
	Timeout time.Duration

	Sensors interpreter.Sensors
}

// LoadSnapshot reads a TOML or YAML document with a [sensors] table, an
// optional tick number and an optional timeout. Sensors already present in
// the file can be overridden from the environment.
func LoadSnapshot(path string) (*Snapshot, error) {
	doc, err := loadDocument(path)
	if err != nil {
		return nil, err
	}
	return fromDocument(doc)
}

func loadDocument(path string) (*config.Config, error) {
	return config.LoadWithOptions(path, config.LoadOptions{
		Format:    config.FormatAuto,
		EnvPrefix: EnvPrefix,
	})
}

// ParseSnapshot reads a snapshot from a string
func ParseSnapshot(content string, format config.Format) (*Snapshot, error) {
	doc, err := config.LoadFromString(content, format)
	if err != nil {
		return nil, err
	}
	return fromDocument(doc)
}

// FromTable converts a decoded sensor table (e.g. from a websocket message)
func FromTable(table map[string]interface{}) (*Snapshot, error) {
	sensors, err := interpreter.SensorsFromGo(table)
	if err != nil {
		return nil, err
	}
	return &Snapshot{Sensors: sensors}, nil
}

func fromDocument(doc *config.Config) (*Snapshot, error) {
	if !doc.Has("sensors") {
		return nil, boterror.New("snapshot has no sensors table").
			WithCode(boterror.CodeInvalidInput).
			WithOperation("host.LoadSnapshot").
			WithDetail("path", doc.FilePath())
	}
	table := doc.GetMap("sensors")
	if table == nil {
		return nil, boterror.New("sensors must be a table").
			WithCode(boterror.CodeInvalidInput).
			WithOperation("host.LoadSnapshot").
			WithDetail("path", doc.FilePath())
	}

	for name := range table {
		if raw, ok := doc.EnvOverride("sensors." + name); ok {
			table[name] = sensorValue(raw)
		}
	}

	sensors, err := interpreter.SensorsFromGo(table)
	if err != nil {
		return nil, boterror.Wrap(err, "invalid sensor snapshot").
			WithDetail("path", doc.FilePath())
	}
	return &Snapshot{
		Path:    doc.FilePath(),
		Tick:    doc.GetInt("tick"),
		Timeout: doc.GetDuration("timeout"),
		Sensors: sensors,
	}, nil
}

// sensorValue reads numeric text as a number and anything else as a string
func sensorValue(raw string) interface{} {
	if n, err := strconv.ParseFloat(raw, 64); err == nil {
		return n
	}
	return raw
}

// Merge returns base overlaid with overrides; neither input is modified
func Merge(base, overrides interpreter.Sensors) interpreter.Sensors {
	merged := make(interpreter.Sensors, len(base)+len(overrides))
	for name, v := range base {
		merged[name] = v
	}
	for name, v := range overrides {
		merged[name] = v
	}
	return merged
}

// WatchSnapshot calls onChange with the freshly loaded snapshot whenever the
// file changes. Reload failures are sent to errs (which may be nil). The
// returned function stops watching.
func WatchSnapshot(path string, onChange func(*Snapshot), errs chan<- error) (func(), error) {
	doc, err := loadDocument(path)
	if err != nil {
		return nil, err
	}
	doc.OnChange(func(_, fresh *config.Config) {
		snapshot, err := fromDocument(fresh)
		if err != nil {
			if errs != nil {
				errs <- err
			}
			return
		}
		onChange(snapshot)
	})
	if err := doc.Watch(errs); err != nil {
		return nil, err
	}
	return doc.StopWatching, nil
}
