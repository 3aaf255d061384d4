// Copyright (c) 2025 The BitVault developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/bitvault/core/berr"
	"github.com/bitvault/core/eventbus"
)

// Publisher is the narrow event-bus surface the config manager needs.
type Publisher interface {
	Publish(t eventbus.EventType, payload string, priority eventbus.Priority)
}

// Migration is a named, ordered upgrade step applied by ApplyMigrations.
type Migration struct {
	Name string
	Run  func(Tree) (Tree, error)
}

// configFileName is the main configuration file's name within baseDir,
// per spec §6's per-wallet persisted-state layout.
const configFileName = "config.toml"

// Config is BitVault's configuration manager: a single value tree behind
// a reader-writer lock, backed by a TOML file, per spec §4.5. The file
// holds only the tree's sections; it carries no format-version field.
type Config struct {
	mu          sync.RWMutex
	tree        Tree
	validators  map[string]Validator
	migrations  []Migration
	baseDir     string
	profilesDir string
	publisher   Publisher
}

// New constructs a Config seeded with defaults and the built-in
// validator table. baseDir is the wallet's state directory: New loads
// <baseDir>/config.toml if it already exists (falling back to defaults
// otherwise), and every mutation persists back to it. Profile presets
// live alongside it, under <baseDir>/profiles/.
func New(baseDir string, publisher Publisher) *Config {
	c := &Config{
		tree:        DefaultTree(),
		validators:  make(map[string]Validator),
		baseDir:     baseDir,
		profilesDir: filepath.Join(baseDir, "profiles"),
		publisher:   publisher,
	}
	addDefaultValidators(c)
	if tree, err := loadTreeFile(c.configPath()); err == nil {
		c.tree = tree
	}
	return c
}

func (c *Config) configPath() string {
	return filepath.Join(c.baseDir, configFileName)
}

// AddValidator registers fn for (section, key), per spec §4.5. A later
// call for the same pair replaces the earlier validator.
func (c *Config) AddValidator(section, key string, fn Validator) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.validators[validatorKey(section, key)] = fn
}

// Snapshot returns a deep copy of the current tree.
func (c *Config) Snapshot() Tree {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tree.Clone()
}

// UpdateValue validates and applies a single change, per spec §4.5:
// run the registered validator (if any) for (section, key); on success,
// apply the change to a scratch copy, re-validate the whole tree, then
// swap it in and persist. old is the previous value, or nil if the key
// did not exist before.
func (c *Config) UpdateValue(section, key string, value interface{}) (old interface{}, err error) {
	return c.applyChanges([]Change{{Section: section, Key: key, Value: value}})
}

// UpdateValues validates every change first and applies none of them if
// any fails, per spec §4.5.
func (c *Config) UpdateValues(changes []Change) error {
	_, err := c.applyChanges(changes)
	return err
}

func (c *Config) applyChanges(changes []Change) (interface{}, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, ch := range changes {
		if v, ok := c.validators[validatorKey(ch.Section, ch.Key)]; ok {
			if err := v(ch.Section, ch.Key, ch.Value); err != nil {
				return nil, berr.Wrap(berr.Config, "config_update_rejected", err)
			}
		}
	}

	scratch := c.tree.Clone()
	var firstOld interface{}
	for i, ch := range changes {
		old, _ := scratch.Get(ch.Section, ch.Key)
		if i == 0 {
			firstOld = old
		}
		scratch.Set(ch.Section, ch.Key, ch.Value)
	}

	if err := c.validateTree(scratch); err != nil {
		return nil, err
	}

	c.tree = scratch
	if err := c.persistLocked(); err != nil {
		return nil, err
	}
	c.emitSettingsChanged(changes)
	return firstOld, nil
}

func (c *Config) emitSettingsChanged(changes []Change) {
	if c.publisher == nil {
		return
	}
	payload, err := json.Marshal(changes)
	if err != nil {
		return
	}
	c.publisher.Publish(eventbus.Settings, string(payload), eventbus.Low)
}

// ResetToDefaults discards all changes and restores the built-in
// defaults, persisting the reset.
func (c *Config) ResetToDefaults() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tree = DefaultTree()
	if err := c.persistLocked(); err != nil {
		return err
	}
	c.emitSettingsChanged(nil)
	return nil
}

// ExportAsJSON serializes the current tree to JSON.
func (c *Config) ExportAsJSON() (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	b, err := json.MarshalIndent(c.tree, "", "  ")
	if err != nil {
		return "", berr.Wrap(berr.Serialization, "config_export_json", err)
	}
	return string(b), nil
}

// ImportFromJSON parses and validates s before swapping it in as the
// live tree, per spec §4.5.
func (c *Config) ImportFromJSON(s string) error {
	var incoming Tree
	if err := json.Unmarshal([]byte(s), &incoming); err != nil {
		return berr.Wrap(berr.Serialization, "config_import_json", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.validateTree(incoming); err != nil {
		return err
	}
	c.tree = incoming
	if err := c.persistLocked(); err != nil {
		return err
	}
	c.emitSettingsChanged(nil)
	return nil
}

func (c *Config) validateTree(t Tree) error {
	for section, kv := range t {
		for key, value := range kv {
			if v, ok := c.validators[validatorKey(section, key)]; ok {
				if err := v(section, key, value); err != nil {
					return berr.Wrap(berr.Config, "config_validation_failed", err)
				}
			}
		}
	}
	return nil
}

// RegisterMigration appends a named migration step to the end of the
// ordered migration list.
func (c *Config) RegisterMigration(m Migration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.migrations = append(c.migrations, m)
}

// ApplyMigrations runs every registered migration in order against the
// live tree; the first failure aborts further migrations and returns
// without swapping in any migrated result, so the live tree is replaced
// (and persisted) only when every migration succeeds, per spec §4.5.
func (c *Config) ApplyMigrations() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	current := c.tree
	for _, m := range c.migrations {
		next, err := m.Run(current)
		if err != nil {
			return berr.Wrap(berr.Config, "config_migration_failed:"+m.Name, err)
		}
		current = next
	}
	c.tree = current
	return c.persistLocked()
}

// persistLocked writes the live tree to <baseDir>/config.toml. Callers
// must hold c.mu for writing.
func (c *Config) persistLocked() error {
	return saveTreeFile(c.configPath(), c.tree)
}

// Save writes the current tree to <baseDir>/config.toml, per spec §6.
func (c *Config) Save() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return saveTreeFile(c.configPath(), c.tree)
}

// Load reads and validates <baseDir>/config.toml before swapping it in
// as the live tree, mirroring LoadProfile.
func (c *Config) Load() error {
	tree, err := loadTreeFile(c.configPath())
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.validateTree(tree); err != nil {
		return err
	}
	c.tree = tree
	c.emitSettingsChanged(nil)
	return nil
}

func saveTreeFile(path string, tree Tree) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return berr.Wrap(berr.Io, "config_save_mkdir", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return berr.Wrap(berr.Io, "config_save_create", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(tree); err != nil {
		return berr.Wrap(berr.Serialization, "config_save_encode", err)
	}
	return nil
}

func loadTreeFile(path string) (Tree, error) {
	var tree Tree
	if _, err := toml.DecodeFile(path, &tree); err != nil {
		return nil, berr.Wrap(berr.Io, "config_load", err)
	}
	return tree, nil
}

func (c *Config) profilePath(name string) string {
	return filepath.Join(c.profilesDir, name+".toml")
}

// SaveProfile serializes the current tree to <profiles_dir>/<name>.toml.
func (c *Config) SaveProfile(name string) error {
	c.mu.RLock()
	tree := c.tree.Clone()
	c.mu.RUnlock()
	return saveTreeFile(c.profilePath(name), tree)
}

// LoadProfile reads and validates <profiles_dir>/<name>.toml before
// swapping it in as the live tree, per spec §4.5.
func (c *Config) LoadProfile(name string) error {
	tree, err := loadTreeFile(c.profilePath(name))
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

// ListProfiles returns the base names (without the .toml extension) of
// every profile found in the profiles directory.
func (c *Config) ListProfiles() ([]string, error) {
	entries, err := os.ReadDir(c.profilesDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, berr.Wrap(berr.Io, "config_list_profiles", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if filepath.Ext(e.Name()) == ".toml" {
			names = append(names, e.Name()[:len(e.Name())-len(".toml")])
		}
	}
	return names, nil
}
