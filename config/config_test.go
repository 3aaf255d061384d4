// Copyright (c) 2025 The BitVault developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateValueAppliesValidChange(t *testing.T) {
	c := New(t.TempDir(), nil)
	old, err := c.UpdateValue("wallet", "fee_level", "high")
	require.NoError(t, err)
	assert.Equal(t, "medium", old)

	v, ok := c.Snapshot().Get("wallet", "fee_level")
	require.True(t, ok)
	assert.Equal(t, "high", v)
}

func TestUpdateValueRejectsInvalidChange(t *testing.T) {
	c := New(t.TempDir(), nil)
	_, err := c.UpdateValue("wallet", "fee_level", "extreme")
	require.Error(t, err)

	v, _ := c.Snapshot().Get("wallet", "fee_level")
	assert.Equal(t, "medium", v, "rejected change must not mutate the live tree")
}

func TestUpdateValuesAppliesAtomically(t *testing.T) {
	c := New(t.TempDir(), nil)
	err := c.UpdateValues([]Change{
		{Section: "wallet", Key: "fee_level", Value: "high"},
		{Section: "network", Key: "max_connections", Value: 999}, // invalid: out of range
	})
	require.Error(t, err)

	v, _ := c.Snapshot().Get("wallet", "fee_level")
	assert.Equal(t, "medium", v, "a failing change must abort the whole batch")
}

func TestAddValidatorRegistersCustomRule(t *testing.T) {
	c := New(t.TempDir(), nil)
	c.AddValidator("custom", "value", func(section, key string, value interface{}) error {
		if value != "ok" {
			return assert.AnError
		}
		return nil
	})
	_, err := c.UpdateValue("custom", "value", "bad")
	assert.Error(t, err)
	_, err = c.UpdateValue("custom", "value", "ok")
	assert.NoError(t, err)
}

func TestSaveAndLoadProfileRoundTrips(t *testing.T) {
	dir := t.TempDir()
	c := New(dir, nil)
	_, err := c.UpdateValue("wallet", "fee_level", "high")
	require.NoError(t, err)

	require.NoError(t, c.SaveProfile("mine"))
	assert.FileExists(t, filepath.Join(dir, "profiles", "mine.toml"))

	c2 := New(dir, nil)
	require.NoError(t, c2.LoadProfile("mine"))
	v, _ := c2.Snapshot().Get("wallet", "fee_level")
	assert.Equal(t, "high", v)
}

func TestUpdateValuePersistsConfigTomlAndReloadsOnRestart(t *testing.T) {
	dir := t.TempDir()
	c := New(dir, nil)
	_, err := c.UpdateValue("wallet", "fee_level", "high")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "config.toml"))

	c2 := New(dir, nil)
	v, _ := c2.Snapshot().Get("wallet", "fee_level")
	assert.Equal(t, "high", v, "a fresh Config for the same directory must pick up the persisted value")
}

func TestLoadSwapsInThePersistedMainConfigFile(t *testing.T) {
	dir := t.TempDir()
	c := New(dir, nil)
	_, err := c.UpdateValue("ui", "language", "de")
	require.NoError(t, err)
	require.NoError(t, c.Save())

	// A second manager on the same directory rewrites config.toml behind
	// c's back; Load must swap in what is now on disk.
	other := New(dir, nil)
	_, err = other.UpdateValue("ui", "language", "fr")
	require.NoError(t, err)

	require.NoError(t, c.Load())
	v, _ := c.Snapshot().Get("ui", "language")
	assert.Equal(t, "fr", v)
}

func TestListProfilesReturnsSavedNames(t *testing.T) {
	dir := t.TempDir()
	c := New(dir, nil)
	require.NoError(t, c.SaveProfile("alpha"))
	require.NoError(t, c.SaveProfile("beta"))

	names, err := c.ListProfiles()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"alpha", "beta"}, names)
}

func TestResetToDefaultsDiscardsChanges(t *testing.T) {
	c := New(t.TempDir(), nil)
	_, err := c.UpdateValue("wallet", "fee_level", "high")
	require.NoError(t, err)
	require.NoError(t, c.ResetToDefaults())
	v, _ := c.Snapshot().Get("wallet", "fee_level")
	assert.Equal(t, "medium", v)
}

func TestExportImportJSONRoundTrips(t *testing.T) {
	c := New(t.TempDir(), nil)
	_, err := c.UpdateValue("ui", "language", "fr")
	require.NoError(t, err)

	exported, err := c.ExportAsJSON()
	require.NoError(t, err)

	c2 := New(t.TempDir(), nil)
	require.NoError(t, c2.ImportFromJSON(exported))
	v, _ := c2.Snapshot().Get("ui", "language")
	assert.Equal(t, "fr", v)
}

func TestImportFromJSONRejectsInvalidTree(t *testing.T) {
	c := New(t.TempDir(), nil)
	err := c.ImportFromJSON(`{"wallet":{"fee_level":"extreme"}}`)
	assert.Error(t, err)
}

func TestApplyMigrationsRunsInOrderAndAbortsOnFailure(t *testing.T) {
	c := New(t.TempDir(), nil)
	var ran []string
	c.RegisterMigration(Migration{Name: "one", Run: func(t Tree) (Tree, error) {
		ran = append(ran, "one")
		return t, nil
	}})
	c.RegisterMigration(Migration{Name: "two-fails", Run: func(t Tree) (Tree, error) {
		ran = append(ran, "two")
		return nil, assert.AnError
	}})
	c.RegisterMigration(Migration{Name: "three", Run: func(t Tree) (Tree, error) {
		ran = append(ran, "three")
		return t, nil
	}})

	err := c.ApplyMigrations()
	require.Error(t, err)
	assert.Equal(t, []string{"one", "two"}, ran)
}

func TestBuildPresetHighSecurityEnablesTorAndShortTimeout(t *testing.T) {
	tree, err := BuildPreset(PresetHighSecurity)
	require.NoError(t, err)
	useTor, _ := tree.Get("network", "use_tor")
	assert.Equal(t, true, useTor)
	timeout, _ := tree.Get("ipc", "timeout_seconds")
	assert.Equal(t, 5, timeout)
}

func TestBuildPresetRejectsUnknownName(t *testing.T) {
	_, err := BuildPreset(PresetName("nonexistent"))
	assert.Error(t, err)
}

func TestApplyPresetSwapsLiveTree(t *testing.T) {
	c := New(t.TempDir(), nil)
	require.NoError(t, c.ApplyPreset(PresetMobile))
	conns, _ := c.Snapshot().Get("network", "max_connections")
	assert.Equal(t, 2, conns)
}
