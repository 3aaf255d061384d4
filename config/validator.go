// Copyright (c) 2025 The BitVault developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package config

import (
	"github.com/bitvault/core/berr"
)

// Validator checks a single (section, key, value) change before it is
// applied, per spec §4.5.
type Validator func(section, key string, value interface{}) error

func validatorKey(section, key string) string {
	return section + "." + key
}

func numberOf(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case float64:
		return v, true
	default:
		return 0, false
	}
}

func oneOf(value interface{}, allowed ...string) error {
	s, ok := value.(string)
	if !ok {
		return berr.Validationf("config_type", "expected string, got %T", value)
	}
	for _, a := range allowed {
		if s == a {
			return nil
		}
	}
	return berr.Validationf("config_enum", "value %q not one of %v", s, allowed)
}

func numericRange(section, key string, value interface{}, min, max float64) error {
	n, ok := numberOf(value)
	if !ok {
		return berr.Validationf(validatorKey(section, key), "expected numeric value, got %T", value)
	}
	if n < min || n > max {
		return berr.Validationf(validatorKey(section, key), "value %v outside range [%v, %v]", n, min, max)
	}
	return nil
}

func boolean(section, key string, value interface{}) error {
	if _, ok := value.(bool); !ok {
		return berr.Validationf(validatorKey(section, key), "expected boolean, got %T", value)
	}
	return nil
}

func nonEmptyString(section, key string, value interface{}) error {
	s, ok := value.(string)
	if !ok || s == "" {
		return berr.Validationf(validatorKey(section, key), "expected non-empty string")
	}
	return nil
}

// addDefaultValidators registers the built-in validator table of spec §4.5.
func addDefaultValidators(c *Config) {
	c.AddValidator("wallet", "fee_level", func(section, key string, value interface{}) error {
		return oneOf(value, "low", "medium", "high")
	})
	c.AddValidator("wallet", "network", func(section, key string, value interface{}) error {
		return oneOf(value, "Bitcoin", "Testnet", "Regtest")
	})
	c.AddValidator("network", "timeout_seconds", func(section, key string, value interface{}) error {
		return numericRange(section, key, value, 5, 300)
	})
	c.AddValidator("network", "max_connections", func(section, key string, value interface{}) error {
		return numericRange(section, key, value, 1, 20)
	})
	c.AddValidator("network", "use_tor", boolean)
	c.AddValidator("ipc", "port", func(section, key string, value interface{}) error {
		return numericRange(section, key, value, 1024, 65535)
	})
	c.AddValidator("ipc", "max_message_size_mb", func(section, key string, value interface{}) error {
		return numericRange(section, key, value, 1, 100)
	})
	c.AddValidator("ipc", "timeout_seconds", func(section, key string, value interface{}) error {
		return numericRange(section, key, value, 1, 120)
	})
	c.AddValidator("ui", "dark_mode", boolean)
	c.AddValidator("ui", "language", nonEmptyString)
	c.AddValidator("storage", "encrypted", boolean)
}
