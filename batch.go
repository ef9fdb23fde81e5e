// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bpipe

// Batch is a fixed-capacity run of samples plus timing and status
// metadata. Data points into storage owned by the BatchRingBuffer slot
// the Batch was borrowed from; it is never reallocated for the lifetime
// of the buffer, only overwritten in place by the producer.
type Batch struct {
	// Head is the count of samples currently valid in Data
	// (0 <= Head <= the buffer's batch capacity).
	Head uint32
	// TNs is the timestamp of the first sample, in nanoseconds, in a
	// monotonic domain chosen by the producer.
	TNs int64
	// PeriodNs is the sampling period in nanoseconds. Zero means
	// irregular / event-stream data.
	PeriodNs uint64
	// BatchID is a monotonically increasing producer counter, unique
	// per buffer.
	BatchID uint64
	// EC is OK for normal data, COMPLETE as an end-of-stream sentinel,
	// or any other Code to mark an error batch.
	EC Code
	// Data is the raw sample storage for this slot, reinterpreted by
	// the caller according to the buffer's DType. Its length is always
	// the buffer's configured batch capacity times the DType width, in
	// bytes; Head indicates how many leading samples are valid.
	Data []byte
}

// Reset clears Head, TNs, PeriodNs and EC back to empty without touching
// Data (the slot's storage is reused in place by the next producer
// write). BatchID is left unchanged.
func (b *Batch) Reset() {
	b.Head = 0
	b.TNs = 0
	b.PeriodNs = 0
	b.EC = CodeOK
}
