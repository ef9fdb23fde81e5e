// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bpipe

// OverflowBehaviour selects what Submit does when the ring is full.
type OverflowBehaviour uint8

const (
	// OverflowBlock blocks the producer until the consumer makes room
	// (or the buffer is stopped / force-returned).
	OverflowBlock OverflowBehaviour = iota
	// OverflowDropHead keeps the oldest unconsumed batches: the
	// producer's new batch is discarded and dropped_batches increments.
	OverflowDropHead
	// OverflowDropTail keeps the newest batches: the producer evicts
	// the consumer's oldest unconsumed batch under the buffer mutex and
	// publishes in its place.
	OverflowDropTail
)

func (b OverflowBehaviour) String() string {
	switch b {
	case OverflowBlock:
		return "BLOCK"
	case OverflowDropHead:
		return "DROP_HEAD"
	case OverflowDropTail:
		return "DROP_TAIL"
	default:
		return "OVERFLOW(?)"
	}
}

func (b OverflowBehaviour) valid() bool {
	return b == OverflowBlock || b == OverflowDropHead || b == OverflowDropTail
}

// BuffConfig parametrizes a BatchRingBuffer. BatchCapacityExpo and
// RingCapacityExpo are powers-of-two exponents: a batch holds
// 2^BatchCapacityExpo samples, and the ring has 2^RingCapacityExpo slots.
type BuffConfig struct {
	DType             DType
	BatchCapacityExpo uint32
	RingCapacityExpo  uint32
	Overflow          OverflowBehaviour
}

// BatchCapacity returns the number of samples per batch implied by
// BatchCapacityExpo.
func (c BuffConfig) BatchCapacity() uint32 {
	return 1 << c.BatchCapacityExpo
}

// RingCapacity returns the number of ring slots implied by
// RingCapacityExpo.
func (c BuffConfig) RingCapacity() uint32 {
	return 1 << c.RingCapacityExpo
}

// validate checks cfg's dtype, size exponents, and overflow policy,
// returning a specific Code per failure.
func (c BuffConfig) validate() error {
	if !c.DType.Valid() {
		return CodeInvalidDType.Err()
	}
	if c.RingCapacityExpo > MaxRingExpo {
		return CodeInvalidConfig.Errf("ring_capacity_expo %d exceeds max %d", c.RingCapacityExpo, MaxRingExpo)
	}
	if c.BatchCapacityExpo > MaxBatchExpo {
		return CodeInvalidConfig.Errf("batch_capacity_expo %d exceeds max %d", c.BatchCapacityExpo, MaxBatchExpo)
	}
	if !c.Overflow.valid() {
		return CodeInvalidConfig.Errf("invalid overflow_behaviour %d", c.Overflow)
	}
	return nil
}
