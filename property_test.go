// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bpipe_test

import (
	"errors"
	"strings"
	"testing"

	"code.hybscloud.com/bpipe"
)

// TestPropertyMismatch wires an upstream advertising {dtype=f32,
// min=max=64} into a downstream MAX_BATCH_CAPACITY<=32 constraint and
// expects a mismatch naming the violated property.
func TestPropertyMismatch(t *testing.T) {
	var upstream bpipe.PropertyTable
	upstream.SetDType(bpipe.DTypeF32)
	upstream.SetU32(bpipe.PropMinBatchCapacity, 64)
	upstream.SetU32(bpipe.PropMaxBatchCapacity, 64)

	var contract bpipe.FilterContract
	if err := contract.AppendConstraint(bpipe.InputConstraint{
		Property: bpipe.PropDataType, Op: bpipe.OpEQ,
		InputMask: bpipe.PortBit(0), Operand: uint64(bpipe.DTypeF32),
	}); err != nil {
		t.Fatalf("AppendConstraint(dtype): %v", err)
	}
	if err := contract.AppendConstraint(bpipe.InputConstraint{
		Property: bpipe.PropMaxBatchCapacity, Op: bpipe.OpLTE,
		InputMask: bpipe.PortBit(0), Operand: 32,
	}); err != nil {
		t.Fatalf("AppendConstraint(max_batch_capacity): %v", err)
	}

	err := bpipe.ValidateConnection(upstream, contract, 0)
	if err == nil {
		t.Fatal("ValidateConnection: want PROPERTY_MISMATCH, got nil")
	}
	var bErr *bpipe.Error
	if !errors.As(err, &bErr) || bErr.Code != bpipe.CodePropertyMismatch {
		t.Fatalf("ValidateConnection: got %v, want PROPERTY_MISMATCH", err)
	}
	if !strings.Contains(err.Error(), "MAX_BATCH_CAPACITY") {
		t.Fatalf("error message %q does not name MAX_BATCH_CAPACITY", err.Error())
	}
}

func TestPropFromBufferConfigRoundTrip(t *testing.T) {
	cfg := bpipe.BuffConfig{DType: bpipe.DTypeI32, BatchCapacityExpo: 4, RingCapacityExpo: 3}
	from := bpipe.PropFromBufferConfig(cfg)

	var noopContract bpipe.FilterContract
	out := bpipe.Propagate([]bpipe.PropertyTable{from}, noopContract, 0)

	for _, p := range []bpipe.SignalProperty{bpipe.PropDataType, bpipe.PropMinBatchCapacity, bpipe.PropMaxBatchCapacity} {
		want, _ := from.Raw(p)
		got, ok := out.Raw(p)
		if !ok || got != want {
			t.Fatalf("Propagate with empty contract: %s = %d (ok=%t), want %d", p, got, ok, want)
		}
	}
}

func TestValidateConnectionMonotonic(t *testing.T) {
	var upstream bpipe.PropertyTable
	upstream.SetDType(bpipe.DTypeF32)

	var contract bpipe.FilterContract
	contract.AppendConstraint(bpipe.InputConstraint{
		Property: bpipe.PropDataType, Op: bpipe.OpEQ,
		InputMask: bpipe.PortBit(0), Operand: uint64(bpipe.DTypeF32),
	})
	if err := bpipe.ValidateConnection(upstream, contract, 0); err != nil {
		t.Fatalf("ValidateConnection before redundant constraint: %v", err)
	}

	contract.AppendConstraint(bpipe.InputConstraint{
		Property: bpipe.PropDataType, Op: bpipe.OpEQ,
		InputMask: bpipe.PortBit(0), Operand: uint64(bpipe.DTypeF32),
	})
	if err := bpipe.ValidateConnection(upstream, contract, 0); err != nil {
		t.Fatalf("ValidateConnection after redundant constraint: %v", err)
	}
}

func TestValidateMultiInputAlignment(t *testing.T) {
	var a, b bpipe.PropertyTable
	a.SetU64(bpipe.PropSamplePeriodNs, 1000)
	b.SetU64(bpipe.PropSamplePeriodNs, 2000)

	var contract bpipe.FilterContract
	contract.AppendConstraint(bpipe.InputConstraint{
		Property: bpipe.PropSamplePeriodNs, Op: bpipe.OpMultiInputAligned,
		InputMask: bpipe.PortBit(0) | bpipe.PortBit(1),
	})

	props := [bpipe.MaxInputs]bpipe.PropertyTable{0: a, 1: b}
	var connected [bpipe.MaxInputs]bool
	connected[0], connected[1] = true, true

	if err := bpipe.ValidateMultiInputAlignment(props, connected, contract); err == nil {
		t.Fatal("ValidateMultiInputAlignment: want mismatch for misaligned periods, got nil")
	}

	props[1].SetU64(bpipe.PropSamplePeriodNs, 1000)
	if err := bpipe.ValidateMultiInputAlignment(props, connected, contract); err != nil {
		t.Fatalf("ValidateMultiInputAlignment after aligning: %v", err)
	}
}
