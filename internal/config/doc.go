// Package config loads the tuning of dynamic strings: initial capacity,
// growth factor, allocation limits, pooling and log level.
//
// Settings are layered with higher layers overriding lower:
//
//	┌─────────────────────────────┐
//	│  3. Environment Variables   │  ← EVSTRING_*
//	├─────────────────────────────┤
//	│  2. Config File             │  ← evstring.toml / evstring.yaml
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │
//	└─────────────────────────────┘
//
// A TOML file looks like:
//
//	[buffer]
//	initialCapacity = 64
//	growth = "3/2"
//	maxCapacity = 0
//	pooled = false
//
//	[logging]
//	level = "info"
//
// Basic usage:
//
//	cfg, err := config.Load("evstring.toml")
//	if err != nil {
//	    return err
//	}
//	s, err := dstring.New(data, cfg.Options(cfg.Logger(os.Stderr))...)
package config
