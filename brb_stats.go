// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bpipe

// Occupancy returns the number of batches currently queued. Lock-free;
// loads both head and tail with acquire ordering.
func (b *BatchRingBuffer) Occupancy() uint64 {
	return b.head.LoadAcquire() - b.tail.LoadAcquire()
}

// Space returns the number of additional batches that can be submitted
// before the ring is full.
func (b *BatchRingBuffer) Space() uint64 {
	return b.mask - b.Occupancy()
}

// HeadIdx returns the current producer slot index (head mod ring_len).
func (b *BatchRingBuffer) HeadIdx() uint64 {
	return b.head.LoadAcquire() & b.mask
}

// TailIdx returns the current consumer slot index (tail mod ring_len).
func (b *BatchRingBuffer) TailIdx() uint64 {
	return b.tail.LoadAcquire() & b.mask
}

// IsEmpty reports whether head == tail.
func (b *BatchRingBuffer) IsEmpty() bool {
	return b.Occupancy() == 0
}

// IsFull reports whether the ring has no free slots.
func (b *BatchRingBuffer) IsFull() bool {
	return b.Occupancy() == b.mask
}

// RingCapacity returns the ring length (2^ring_capacity_expo).
func (b *BatchRingBuffer) RingCapacity() uint64 {
	return b.ringLen
}

// BatchCapacity returns the number of samples each batch slot holds.
func (b *BatchRingBuffer) BatchCapacity() uint32 {
	return b.batchCap
}

// DType returns the buffer's configured sample dtype.
func (b *BatchRingBuffer) DType() DType {
	return b.cfg.DType
}

// Stats is a point-in-time snapshot of a BatchRingBuffer's counters.
// Exposed as an explicit snapshot call rather than individually-read
// fields, so no hot-path operation pays for cross-core counter reads.
type Stats struct {
	TotalBatches      uint64
	DroppedBatches    uint64
	DroppedByProducer uint64
	BlockedTimeNs     uint64
	Occupancy         uint64
}

// Stats returns a snapshot of the buffer's counters.
func (b *BatchRingBuffer) Stats() Stats {
	return Stats{
		TotalBatches:      b.totalBatches.LoadRelaxed(),
		DroppedBatches:    b.droppedBatches.LoadRelaxed(),
		DroppedByProducer: b.droppedByProducer.LoadRelaxed(),
		BlockedTimeNs:     b.blockedTimeNs.LoadRelaxed(),
		Occupancy:         b.Occupancy(),
	}
}
