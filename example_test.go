// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bpipe_test

import (
	"encoding/binary"
	"fmt"

	"code.hybscloud.com/bpipe"
)

// ExampleNewBatchRingBuffer demonstrates the batch ring buffer's
// single-producer/single-consumer round trip within one goroutine.
func ExampleNewBatchRingBuffer() {
	buf, err := bpipe.NewBatchRingBuffer(bpipe.BuffConfig{
		DType:             bpipe.DTypeU32,
		BatchCapacityExpo: 1, // 2 samples per batch
		RingCapacityExpo:  2, // 4 slots
		Overflow:          bpipe.OverflowBlock,
	})
	if err != nil {
		fmt.Println("init error:", err)
		return
	}
	defer buf.Deinit()

	for i := 0; i < 3; i++ {
		head := buf.GetHead()
		head.Head = 2
		head.BatchID = uint64(i)
		binary.LittleEndian.PutUint32(head.Data[0:], uint32(i*10))
		binary.LittleEndian.PutUint32(head.Data[4:], uint32(i*10+1))
		buf.Submit(0)
	}

	for i := 0; i < 3; i++ {
		batch, code := buf.GetTail(0)
		if code != bpipe.CodeOK {
			fmt.Println("get_tail error:", code)
			return
		}
		a := binary.LittleEndian.Uint32(batch.Data[0:])
		b := binary.LittleEndian.Uint32(batch.Data[4:])
		fmt.Printf("batch %d: [%d %d]\n", batch.BatchID, a, b)
		buf.DelTail()
	}

	// Output:
	// batch 0: [0 1]
	// batch 1: [10 11]
	// batch 2: [20 21]
}

// ExampleOverflowDropHead demonstrates the DROP_HEAD overflow policy:
// once the ring is full, further submits are silent no-ops that only
// advance the dropped-batch counter, and the consumer still drains the
// oldest batches it had room for.
func ExampleOverflowDropHead() {
	buf, err := bpipe.NewBatchRingBuffer(bpipe.BuffConfig{
		DType:             bpipe.DTypeU32,
		BatchCapacityExpo: 0,
		RingCapacityExpo:  2, // 4 slots, 3 usable
		Overflow:          bpipe.OverflowDropHead,
	})
	if err != nil {
		fmt.Println("init error:", err)
		return
	}
	defer buf.Deinit()

	for i := 0; i < 6; i++ {
		head := buf.GetHead()
		head.BatchID = uint64(i)
		buf.Submit(0)
	}

	stats := buf.Stats()
	fmt.Println("dropped:", stats.DroppedBatches)

	for !buf.IsEmpty() {
		batch, _ := buf.GetTail(0)
		fmt.Println("kept batch", batch.BatchID)
		buf.DelTail()
	}

	// Output:
	// dropped: 3
	// kept batch 0
	// kept batch 1
	// kept batch 2
}

// ExampleValidateConnection demonstrates signal-property contract
// validation catching an incompatible wiring before a pipeline starts.
func ExampleValidateConnection() {
	var upstream bpipe.PropertyTable
	upstream.SetDType(bpipe.DTypeF32)
	upstream.SetU32(bpipe.PropMaxBatchCapacity, 64)

	var downstream bpipe.FilterContract
	downstream.AppendConstraint(bpipe.InputConstraint{
		Property: bpipe.PropMaxBatchCapacity, Op: bpipe.OpLTE,
		InputMask: bpipe.PortBit(0), Operand: 32,
	})

	err := bpipe.ValidateConnection(upstream, downstream, 0)
	fmt.Println(err)

	// Output:
	// PROPERTY_MISMATCH: MAX_BATCH_CAPACITY: expected <= 32, got 64
}

// ExamplePropagate demonstrates a filter's output properties being
// derived from its input by a PRESERVE behavior.
func ExamplePropagate() {
	var in bpipe.PropertyTable
	in.SetDType(bpipe.DTypeF32)
	in.SetU64(bpipe.PropSamplePeriodNs, 125_000)

	var contract bpipe.FilterContract
	contract.AppendBehavior(bpipe.OutputBehavior{
		Property: bpipe.PropDataType, Op: bpipe.OpPreserve,
		OutputMask: bpipe.PortBit(0), Operand: 0,
	})

	out := bpipe.Propagate([]bpipe.PropertyTable{in}, contract, 0)
	dtype, _ := out.DType()
	fmt.Println(dtype)

	// Output:
	// f32
}
