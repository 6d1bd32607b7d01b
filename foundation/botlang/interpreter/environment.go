// File: environment.go
// Title: Lexical Environments
// Description: Scopes mapping names to values with a parent link.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation

package interpreter

import "sort"

// Environment is one lexical scope
type Environment struct {
	vars   map[string]Value
	parent *Environment
}

// NewEnvironment creates a scope nested in parent; parent may be nil
func NewEnvironment(parent *Environment) *Environment {
	return &Environment{vars: make(map[string]Value), parent: parent}
}

// Get looks name up in this scope and then outward
func (e *Environment) Get(name string) (Value, bool) {
	for env := e; env != nil; env = env.parent {
		if v, ok := env.vars[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// Set binds name in this scope only
func (e *Environment) Set(name string, value Value) {
	e.vars[name] = value
}

// Parent returns the enclosing scope or nil
func (e *Environment) Parent() *Environment {
	return e.parent
}

// Names returns the names bound in this scope, sorted
func (e *Environment) Names() []string {
	names := make([]string, 0, len(e.vars))
	for name := range e.vars {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
