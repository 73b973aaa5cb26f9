// Package config provides settings management for Towers of Hanoi.
//
// The config package handles:
//   - Loading settings from a JSON file
//   - Falling back to built-in defaults
//   - Validation of disk count, log level, palette and key bindings
//   - Writing a settings file for later editing
//
// Settings Format:
//
//	{
//	  "default_disks": 4,
//	  "spectate_addr": "localhost:8080",
//	  "log_file": "hanoi.log",
//	  "log_level": "info",
//	  "palette": ["red", "green", "yellow"],
//	  "keys": {
//	    "left":   ["Left", "h"],
//	    "right":  ["Right", "l"],
//	    "toggle": ["Space", "Enter"],
//	    "cancel": ["Esc", "q"]
//	  }
//	}
//
// Missing fields keep their defaults. Command line flags and HANOI_*
// environment variables override file values.
//
// Usage:
//
//	cfg, err := config.LoadOrDefault("hanoi.json")
//	if err != nil {
//		log.Fatal(err)
//	}
package config
