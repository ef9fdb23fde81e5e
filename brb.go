// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bpipe

import (
	"runtime"
	"sync"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/iobuf"
)

// BatchRingBuffer is a bounded single-producer/single-consumer transport
// for sample batches. It owns one contiguous sample-data block and a
// parallel ring of Batch metadata slots; the producer writes
// only the slot at head&mask, the consumer reads only the slot at
// tail&mask, and a lock-free fast path (relaxed/acquire/release loads on
// head and tail) serves the common case. A mutex and two condition
// variables back the slow, blocking path and the one-shot force-return
// wake-ups used for graceful shutdown.
//
// Producer-mutated fields (head, totalBatches, droppedBatches,
// blockedTimeNs) and consumer-mutated fields (tail, droppedByProducer)
// are separated by cache-line padding to avoid false sharing.
type BatchRingBuffer struct {
	_ pad
	// --- producer-mutated ---
	head           atomix.Uint64
	totalBatches   atomix.Uint64
	droppedBatches atomix.Uint64
	blockedTimeNs  atomix.Uint64
	_              pad

	// --- consumer-mutated ---
	tail              atomix.Uint64
	droppedByProducer atomix.Uint64
	_                 pad

	// --- shared control plane ---
	running          atomix.Bool
	forceReturnHead  atomix.Bool
	forceReturnHeadC atomix.Int64
	forceReturnTail  atomix.Bool
	forceReturnTailC atomix.Int64
	_                pad

	mu       sync.Mutex
	notEmpty *sync.Cond
	notFull  *sync.Cond

	cfg      BuffConfig
	ringLen  uint64
	mask     uint64
	batchCap uint32
	width    uint32

	data  []byte  // contiguous sample storage, ringLen*batchCap*width bytes
	slots []Batch // parallel metadata ring, Data preassigned into data
}

// NewBatchRingBuffer validates cfg and allocates a ready-to-use buffer
// with running already true.
func NewBatchRingBuffer(cfg BuffConfig) (*BatchRingBuffer, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	ringLen := uint64(cfg.RingCapacity())
	batchCap := cfg.BatchCapacity()
	width := cfg.DType.Width()

	b := &BatchRingBuffer{
		cfg:      cfg,
		ringLen:  ringLen,
		mask:     ringLen - 1,
		batchCap: batchCap,
		width:    width,
	}
	b.notEmpty = sync.NewCond(&b.mu)
	b.notFull = sync.NewCond(&b.mu)

	totalBytes := ringLen * uint64(batchCap) * uint64(width)
	// Sample storage comes from iobuf's page-aligned allocator rather
	// than a bare make([]byte, …): the buffer's one contiguous data
	// block is exactly the "large, long-lived, DMA-friendly region"
	// iobuf.AlignedMem exists to hand out.
	b.data = iobuf.AlignedMem(int(totalBytes), iobuf.PageSize)
	if b.data == nil && totalBytes > 0 {
		return nil, CodeMallocFail.Err()
	}

	b.slots = make([]Batch, ringLen)
	slotBytes := uint64(batchCap) * uint64(width)
	for i := range b.slots {
		start := uint64(i) * slotBytes
		b.slots[i].Data = b.data[start : start+slotBytes : start+slotBytes]
	}

	b.running.StoreRelease(true)
	return b, nil
}

// Deinit stops the buffer, wakes any waiters, and releases its storage.
// It briefly yields after broadcasting so waiters have a chance to
// observe running=false and exit before the buffer is torn down out
// from under them.
func (b *BatchRingBuffer) Deinit() {
	b.running.StoreRelease(false)
	b.mu.Lock()
	b.notEmpty.Broadcast()
	b.notFull.Broadcast()
	b.mu.Unlock()
	runtime.Gosched()
	b.data = nil
	b.slots = nil
}

// Start marks the buffer running again after Stop. It does not reset
// head/tail/statistics.
func (b *BatchRingBuffer) Start() {
	b.running.StoreRelease(true)
}

// Stop marks the buffer terminally not-running and wakes every waiter on
// both condition variables; unlike ForceReturnHead/Tail this is not a
// one-shot latch; the buffer stays stopped until Start is called again.
func (b *BatchRingBuffer) Stop() {
	b.running.StoreRelease(false)
	b.mu.Lock()
	b.notEmpty.Broadcast()
	b.notFull.Broadcast()
	b.mu.Unlock()
}

// Running reports whether the buffer currently accepts blocking I/O.
func (b *BatchRingBuffer) Running() bool {
	return b.running.LoadAcquire()
}
