// Copyright (c) 2025 The BitVault developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package config

// DefaultTree returns the built-in configuration defaults, satisfying
// every validator in the default table.
func DefaultTree() Tree {
	return Tree{
		"wallet": {
			"fee_level":               "medium",
			"network":                 "Bitcoin",
			"coin_selection_strategy": "MinimizeFee",
		},
		"network": {
			"timeout_seconds":  30,
			"max_connections":  8,
			"use_tor":          false,
		},
		"ipc": {
			"port":                 8332,
			"max_message_size_mb":  10,
			"timeout_seconds":      30,
		},
		"ui": {
			"dark_mode": false,
			"language":  "en",
		},
		"storage": {
			"encrypted": true,
		},
	}
}
