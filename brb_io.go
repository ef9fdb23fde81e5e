// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bpipe

import "time"

// GetHead returns a borrow of the producer-side slot (head mod ring_len).
// It never blocks and does not advance head; the caller writes sample
// data into the returned Batch and then calls Submit to publish it.
func (b *BatchRingBuffer) GetHead() *Batch {
	head := b.head.LoadRelaxed()
	return &b.slots[head&b.mask]
}

// GetTail returns a borrow of the consumer-side slot (tail mod ring_len),
// blocking up to timeoutUs microseconds (0 = indefinite) for data to
// arrive. Semantics are drain-then-stop: if the buffer is non-empty at
// the moment of the check the batch is returned even if the buffer has
// since been stopped; only an empty, stopped buffer yields CodeStopped.
func (b *BatchRingBuffer) GetTail(timeoutUs uint64) (*Batch, Code) {
	tail := b.tail.LoadRelaxed()
	if b.head.LoadAcquire() != tail {
		return &b.slots[tail&b.mask], CodeOK
	}

	b.mu.Lock()
	code := b.awaitNotEmpty(timeoutUs)
	var batch *Batch
	if code == CodeOK {
		batch = &b.slots[b.tail.LoadRelaxed()&b.mask]
	}
	b.mu.Unlock()
	return batch, code
}

// Submit publishes the slot last returned by GetHead, advancing head by
// one. If the ring is full, behavior is governed by cfg.Overflow: BLOCK
// waits (subject to timeoutUs) for the consumer to free a slot;
// DROP_HEAD discards the new batch and returns OK without advancing
// head; DROP_TAIL evicts the consumer's oldest unconsumed batch under
// the buffer mutex and publishes in its place. total_batches counts only
// successful publishes — a DROP_HEAD no-op never increments it.
func (b *BatchRingBuffer) Submit(timeoutUs uint64) Code {
	head := b.head.LoadRelaxed()
	tail := b.tail.LoadAcquire()

	if head-tail == b.mask {
		switch b.cfg.Overflow {
		case OverflowBlock:
			blockedAt := time.Now()
			b.mu.Lock()
			code := b.awaitNotFull(timeoutUs)
			b.mu.Unlock()
			b.blockedTimeNs.AddAcqRel(uint64(time.Since(blockedAt)))
			if code != CodeOK {
				return code
			}
		case OverflowDropHead:
			b.droppedBatches.AddAcqRel(1)
			return CodeOK
		case OverflowDropTail:
			// The producer advancing tail under the mutex is the only
			// deviation from single-producer/single-consumer discipline
			// in this buffer; it is intentional and must stay confined
			// to this branch.
			b.mu.Lock()
			t := b.tail.LoadRelaxed()
			if b.head.LoadRelaxed()-t == b.mask {
				b.tail.StoreRelease(t + 1)
				b.droppedByProducer.AddAcqRel(1)
				b.notFull.Signal()
			}
			b.mu.Unlock()
		}
	}

	b.head.StoreRelease(head + 1)
	b.totalBatches.AddAcqRel(1)
	b.mu.Lock()
	b.notEmpty.Signal()
	b.mu.Unlock()
	return CodeOK
}

// DelTail releases the slot last returned by GetTail, advancing tail by
// one. Returns CodeBufferEmpty if the ring is empty.
func (b *BatchRingBuffer) DelTail() Code {
	tail := b.tail.LoadRelaxed()
	if b.head.LoadAcquire() == tail {
		return CodeBufferEmpty
	}
	b.tail.StoreRelease(tail + 1)
	b.mu.Lock()
	b.notFull.Signal()
	b.mu.Unlock()
	return CodeOK
}
