// File: doc.go
// Title: Configuration Package Documentation
// Description: Generic TOML/YAML document loading with dotted key access,
//              environment overrides and fsnotify based reloading.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation

/*
Package config loads loosely structured TOML or YAML documents.

The typed application configuration lives in pkg/core/config; this package
serves documents whose shape is only known at run time, such as sensor
snapshot files handed to bot scripts:

	cfg, err := config.Load("snapshot.yaml")
	sensors := cfg.GetMap("sensors")

Keys use dot notation ("server.port"). When an environment prefix is set,
BOTLANG_SERVER_PORT overrides "server.port" for the string accessors.

Watch reloads the document whenever the file changes and calls every
registered ChangeHandler with the old and the new configuration.
*/
package config
