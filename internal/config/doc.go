// Package config loads undoctl settings from TOML files.
//
// A settings file looks like:
//
//	[history]
//	limit = 50
//	undo_type = "undo"
//
//	[filters]
//	history_exclude = ["DOUBLE"]
//	coalesce = ["DOUBLE", "DEC"]
//
//	[script]
//	path = "counter.lua"
//	watch = true
//
//	[log]
//	level = "debug"
//
// Every key is optional. A missing file yields DefaultSettings.
package config
