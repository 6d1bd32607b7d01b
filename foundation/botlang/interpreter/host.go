// File: host.go
// Title: Host Bindings
// Description: Sensor bindings, Go value conversion and construction of the
//              root environment seen by scripts.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation

package interpreter

import (
	"fmt"
	"math"
	"sort"

	boterror "github.com/msto63/botlang/foundation/core/error"
)

// Sensors maps sensor names such as _FRONT_NEIGHBOR to their values
type Sensors map[string]Value

// Validate checks that every name is a well formed sensor name
func (s Sensors) Validate() error {
	for name, v := range s {
		if !validSensorName(name) {
			return boterror.Newf("invalid sensor name %q: must start with '_' followed by letters, digits or '_'", name).
				WithCode(boterror.CodeInvalidInput).
				WithOperation("interpreter.Sensors.Validate").
				WithDetail("sensor", name)
		}
		if v == nil {
			return boterror.Newf("sensor %s has no value", name).
				WithCode(boterror.CodeInvalidInput).
				WithOperation("interpreter.Sensors.Validate").
				WithDetail("sensor", name)
		}
	}
	return nil
}

// Names returns the sensor names, sorted
func (s Sensors) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func validSensorName(name string) bool {
	if len(name) < 2 || name[0] != '_' {
		return false
	}
	for _, r := range name[1:] {
		if !(r == '_' || (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')) {
			return false
		}
	}
	return true
}

// NewRootEnvironment creates the global scope of a run: built-ins, the
// action table and the given sensors
func NewRootEnvironment(sensors Sensors) *Environment {
	env := NewEnvironment(nil)
	for _, b := range builtins {
		env.Set(b.Name, b)
	}
	for _, a := range Actions {
		env.Set(a.String(), a)
	}
	for name, v := range sensors {
		env.Set(name, v)
	}
	return env
}

// FromGo converts decoded TOML, YAML or JSON data into a runtime value.
// Booleans become 0 or 1 and nil becomes null.
func FromGo(v interface{}) (Value, error) {
	switch v := v.(type) {
	case nil:
		return Null{}, nil
	case Value:
		return v, nil
	case string:
		return String(v), nil
	case bool:
		return Bool(v), nil
	case int:
		return Number(v), nil
	case int64:
		return Number(v), nil
	case uint64:
		return Number(v), nil
	case float32:
		return Number(v), nil
	case float64:
		return Number(v), nil
	case []interface{}:
		elements := make([]Value, len(v))
		for i, e := range v {
			ev, err := FromGo(e)
			if err != nil {
				return nil, err
			}
			elements[i] = ev
		}
		return List{Elements: elements}, nil
	}
	return nil, boterror.Newf("unsupported sensor value type %T", v).
		WithCode(boterror.CodeInvalidInput).
		WithOperation("interpreter.FromGo")
}

// SensorsFromGo converts a decoded table into validated sensors
func SensorsFromGo(table map[string]interface{}) (Sensors, error) {
	sensors := make(Sensors, len(table))
	for name, raw := range table {
		v, err := FromGo(raw)
		if err != nil {
			return nil, boterror.Wrap(err, fmt.Sprintf("sensor %s", name)).
				WithDetail("sensor", name)
		}
		sensors[name] = v
	}
	if err := sensors.Validate(); err != nil {
		return nil, err
	}
	return sensors, nil
}

// ToGo converts a runtime value into plain data for JSON encoding
func ToGo(v Value) interface{} {
	switch v := v.(type) {
	case Number:
		f := float64(v)
		if math.IsInf(f, 0) || math.IsNaN(f) {
			return v.String()
		}
		return f
	case String:
		return string(v)
	case List:
		out := make([]interface{}, len(v.Elements))
		for i, e := range v.Elements {
			out[i] = ToGo(e)
		}
		return out
	case Null, nil:
		return nil
	default:
		return v.String()
	}
}
