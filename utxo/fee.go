// Copyright (c) 2025 The BitVault developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package utxo

import "math"

// Per-input/output virtual-size weights and the fixed overhead, per
// spec §4.2: vsize ≈ 68*inputs + 34*outputs + 10.
const (
	vsizePerInput    = 68
	vsizePerOutput   = 34
	vsizeBaseOverhead = 10
)

// vsize estimates a transaction's virtual size given its input and
// output counts.
func vsize(inputs, outputs int) int64 {
	return int64(vsizePerInput*inputs + vsizePerOutput*outputs + vsizeBaseOverhead)
}

// estimateFee computes ceil(vsize * feeRate), per spec §4.2.
func estimateFee(inputs, outputs int, feeRate float64) int64 {
	return int64(math.Ceil(float64(vsize(inputs, outputs)) * feeRate))
}

// feeWithChange is the fee for a 2-output (payment + change) transaction
// with the given input count.
func feeWithChange(inputs int, feeRate float64) int64 {
	return estimateFee(inputs, 2, feeRate)
}

// feeNoChange is the fee for a 1-output (payment only) transaction with
// the given input count.
func feeNoChange(inputs int, feeRate float64) int64 {
	return estimateFee(inputs, 1, feeRate)
}
