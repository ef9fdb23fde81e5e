// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bpipe

// Configuration limits.
const (
	// MaxInputs is the maximum number of input ports a single Filter
	// may declare.
	MaxInputs = 8
	// MaxSinks is the maximum number of sink buffers a single Filter
	// may fan out to.
	MaxSinks = 8
	// MaxConstraints is the maximum number of input constraints a
	// single FilterContract may declare.
	MaxConstraints = 16
	// MaxBehaviors is the maximum number of output behaviors a single
	// FilterContract may declare.
	MaxBehaviors = 16
	// MaxRingExpo is the largest accepted ring_capacity_expo: a ring
	// may have at most 2^30 slots.
	MaxRingExpo = 30
	// MaxBatchExpo is the largest accepted batch_capacity_expo: a
	// batch may hold at most 2^20 samples.
	MaxBatchExpo = 20
	// MaxFilterNameLen bounds Filter.Name.
	MaxFilterNameLen = 31
	// spinLimit bounds how many unlocked spin.Wait rounds awaitNotEmpty/
	// awaitNotFull attempt before parking on the condition variable.
	spinLimit = 32
)

// pad is cache-line padding placed between producer-mutated and
// consumer-mutated fields of the batch ring buffer to prevent false
// sharing (>=64-byte separation).
type pad [64]byte
