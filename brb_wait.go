// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bpipe

import (
	"sync"
	"time"

	"code.hybscloud.com/spin"
)

// awaitNotEmpty blocks (consumer side) until the ring is non-empty, the
// buffer stops running, a force-return fires, or timeoutUs elapses.
// timeoutUs == 0 means wait indefinitely. Must be called with b.mu held;
// returns with b.mu held. A short unlocked spin precedes the first park,
// since most waits here resolve within a few producer cycles and the
// round trip through the mutex/condvar is the expensive part.
func (b *BatchRingBuffer) awaitNotEmpty(timeoutUs uint64) Code {
	deadline, hasDeadline := b.deadline(timeoutUs)
	sw := spin.Wait{}
	spun := 0
	for {
		if code, fired := b.consumeForceReturnTailLocked(); fired {
			return code
		}
		if b.head.LoadAcquire() != b.tail.LoadRelaxed() {
			return CodeOK
		}
		if !b.running.LoadAcquire() {
			return CodeStopped
		}
		if hasDeadline && !time.Now().Before(deadline) {
			return CodeTimeout
		}
		if spun < spinLimit {
			b.mu.Unlock()
			sw.Once()
			b.mu.Lock()
			spun++
			continue
		}
		b.condWaitLocked(b.notEmpty, deadline, hasDeadline)
	}
}

// awaitNotFull blocks (producer side) until the ring is non-full, the
// buffer stops running, a force-return fires, or timeoutUs elapses. Must
// be called with b.mu held; returns with b.mu held.
func (b *BatchRingBuffer) awaitNotFull(timeoutUs uint64) Code {
	deadline, hasDeadline := b.deadline(timeoutUs)
	sw := spin.Wait{}
	spun := 0
	for {
		if code, fired := b.consumeForceReturnHeadLocked(); fired {
			return code
		}
		if b.head.LoadRelaxed()+1-b.tail.LoadAcquire() <= b.mask {
			return CodeOK
		}
		if !b.running.LoadAcquire() {
			return CodeStopped
		}
		if hasDeadline && !time.Now().Before(deadline) {
			return CodeTimeout
		}
		if spun < spinLimit {
			b.mu.Unlock()
			sw.Once()
			b.mu.Lock()
			spun++
			continue
		}
		b.condWaitLocked(b.notFull, deadline, hasDeadline)
	}
}

func (b *BatchRingBuffer) deadline(timeoutUs uint64) (time.Time, bool) {
	if timeoutUs == 0 {
		return time.Time{}, false
	}
	return time.Now().Add(time.Duration(timeoutUs) * time.Microsecond), true
}

// condWaitLocked parks on cond until broadcast, woken either by a real
// signal (Submit/DelTail/Stop/ForceReturn) or by a timer firing once the
// deadline passes. sync.Cond has no built-in timed wait, so a per-call
// timer takes the same mutex and broadcasts after the remaining
// duration; the caller re-checks both data and control state on every
// wake, so a timer-driven wake that turns out to be premature is
// harmless; the loop just waits again.
func (b *BatchRingBuffer) condWaitLocked(cond *sync.Cond, deadline time.Time, hasDeadline bool) {
	if !hasDeadline {
		cond.Wait()
		return
	}
	d := time.Until(deadline)
	if d <= 0 {
		return
	}
	timer := time.AfterFunc(d, func() {
		b.mu.Lock()
		cond.Broadcast()
		b.mu.Unlock()
	})
	cond.Wait()
	timer.Stop()
}

// consumeForceReturnTailLocked atomically observes and clears a pending
// force-return targeted at the consumer (get_tail) side. Exactly one
// waiter observes true; the flag is a one-shot latch.
func (b *BatchRingBuffer) consumeForceReturnTailLocked() (Code, bool) {
	if !b.forceReturnTail.LoadAcquire() {
		return CodeOK, false
	}
	b.forceReturnTail.StoreRelease(false)
	return Code(b.forceReturnTailC.LoadAcquire()), true
}

// consumeForceReturnHeadLocked is the producer-side counterpart of
// consumeForceReturnTailLocked.
func (b *BatchRingBuffer) consumeForceReturnHeadLocked() (Code, bool) {
	if !b.forceReturnHead.LoadAcquire() {
		return CodeOK, false
	}
	b.forceReturnHead.StoreRelease(false)
	return Code(b.forceReturnHeadC.LoadAcquire()), true
}

// ForceReturnTail wakes a consumer blocked in GetTail with the given
// code, without stopping the buffer. The buffer stays live; a
// subsequent GetTail call proceeds normally.
func (b *BatchRingBuffer) ForceReturnTail(code Code) {
	b.mu.Lock()
	b.forceReturnTailC.StoreRelease(int64(code))
	b.forceReturnTail.StoreRelease(true)
	b.notEmpty.Signal()
	b.mu.Unlock()
}

// ForceReturnHead wakes a producer blocked in Submit with the given
// code, without stopping the buffer.
func (b *BatchRingBuffer) ForceReturnHead(code Code) {
	b.mu.Lock()
	b.forceReturnHeadC.StoreRelease(int64(code))
	b.forceReturnHead.StoreRelease(true)
	b.notFull.Signal()
	b.mu.Unlock()
}
