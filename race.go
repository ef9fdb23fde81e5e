// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build race

package bpipe

// RaceEnabled is true when the race detector is active.
// Used by tests to skip the batch ring buffer's lock-free fast-path
// assertions, which trigger false positives under -race due to the
// cross-variable memory ordering between head/tail and the slot data
// they guard.
const RaceEnabled = true
