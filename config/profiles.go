// Copyright (c) 2025 The BitVault developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package config

import "github.com/bitvault/core/berr"

// PresetName is the closed set of preset profiles spec §4.5 names.
type PresetName string

const (
	PresetDefault      PresetName = "default"
	PresetHighSecurity PresetName = "high_security"
	PresetPrivacy      PresetName = "privacy"
	PresetPerformance  PresetName = "performance"
	PresetTestnet      PresetName = "testnet"
	PresetMobile       PresetName = "mobile"
)

// BuildPreset constructs the value tree for a named preset profile on
// demand, per spec §4.5. Each preset starts from DefaultTree and
// overrides only the keys its description names.
func BuildPreset(name PresetName) (Tree, error) {
	tree := DefaultTree()
	switch name {
	case PresetDefault:
		// Defaults are already the default tree.
	case PresetHighSecurity:
		tree.Set("network", "use_tor", true)
		tree.Set("network", "max_connections", 1)
		tree.Set("ipc", "timeout_seconds", 5)
		tree.Set("wallet", "coin_selection_strategy", "PrivacyFocused")
	case PresetPrivacy:
		tree.Set("network", "use_tor", true)
		tree.Set("wallet", "coin_selection_strategy", "MaximizePrivacy")
		tree.Set("ui", "hide_fiat", true)
		tree.Set("wallet", "avoid_address_reuse", true)
	case PresetPerformance:
		tree.Set("network", "max_connections", 20)
		tree.Set("network", "use_tor", false)
		tree.Set("wallet", "fee_level", "low")
		tree.Set("wallet", "coin_selection_strategy", "Consolidate")
	case PresetTestnet:
		tree.Set("wallet", "network", "Testnet")
	case PresetMobile:
		tree.Set("network", "max_connections", 2)
		tree.Set("network", "timeout_seconds", 120)
		tree.Set("ipc", "timeout_seconds", 90)
		tree.Set("ipc", "max_message_size_mb", 2)
	default:
		return nil, berr.Validationf("config_unknown_preset", "unknown preset profile %q", name)
	}
	return tree, nil
}

// ApplyPreset builds name's preset tree, validates it, and swaps it in
// as c's live tree.
func (c *Config) ApplyPreset(name PresetName) error {
	tree, err := BuildPreset(name)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.validateTree(tree); err != nil {
		return err
	}
	c.tree = tree
	if err := c.persistLocked(); err != nil {
		return err
	}
	c.emitSettingsChanged(nil)
	return nil
}
