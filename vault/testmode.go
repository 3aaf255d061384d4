// Copyright (c) 2025 The BitVault developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

//go:build bitvault_testmode

package vault

import "os"

// This file only exists in a build compiled with -tags bitvault_testmode.
// A production build never includes it, so BITVAULT_TEST_MODE has no
// effect whatsoever outside a deliberately test-tagged binary — the
// requirement in spec §4.1 ("the production build must not expose any
// mechanism to enter this mode") is enforced at compile time rather than
// by a runtime check that could be bypassed or misconfigured.
func init() {
	if os.Getenv("BITVAULT_TEST_MODE") != "1" {
		return
	}
	testOverrideSalt = []byte{
		0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08,
		0x09, 0x0a, 0x0b, 0x0c, 0x0d, 0x0e, 0x0f, 0x10,
	}
	testOverrideNonce = []byte{
		0x10, 0x0f, 0x0e, 0x0d, 0x0c, 0x0b, 0x0a, 0x09,
		0x08, 0x07, 0x06, 0x05,
	}
	calibratedIterations = LowEndDeviceIterations
	log.Warnf("vault: BITVAULT_TEST_MODE active — using deterministic salt/nonce; this build must never ship to production")
}
