// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bpipe

// SinkConnect registers buf as the filter's output at sinkIdx. sinkIdx
// must be within the filter's configured MaxSinks and not already
// occupied. buf is
// borrowed: the filter pushes batches into it but never owns or
// deinitializes it.
func (f *Filter) SinkConnect(sinkIdx int, buf *BatchRingBuffer) error {
	if buf == nil {
		return CodeNullBuff.Err()
	}
	if sinkIdx < 0 || sinkIdx >= f.maxSinks || sinkIdx >= MaxSinks {
		return CodeInvalidSinkIdx.Errf("sink index %d out of range [0,%d)", sinkIdx, f.maxSinks)
	}

	f.sinkMu.Lock()
	defer f.sinkMu.Unlock()
	if f.Sinks[sinkIdx] != nil {
		return CodeConnectionOccupied.Errf("sink %d already connected", sinkIdx)
	}
	f.Sinks[sinkIdx] = buf
	f.NSinks++
	return nil
}

// SinkDisconnect removes whatever buffer is connected at sinkIdx. The
// caller, not the filter, remains responsible for that buffer's
// lifetime.
func (f *Filter) SinkDisconnect(sinkIdx int) error {
	if sinkIdx < 0 || sinkIdx >= f.maxSinks || sinkIdx >= MaxSinks {
		return CodeInvalidSinkIdx.Errf("sink index %d out of range [0,%d)", sinkIdx, f.maxSinks)
	}

	f.sinkMu.Lock()
	defer f.sinkMu.Unlock()
	if f.Sinks[sinkIdx] == nil {
		return CodeInvalidSinkIdx.Errf("sink %d not connected", sinkIdx)
	}
	f.Sinks[sinkIdx] = nil
	f.NSinks--
	return nil
}

// SinkConnect on baseOps delegates to the filter's own connection table;
// it exists so FilterOps callers never need to special-case the base
// filter versus a composite one (Pipeline overrides this to forward the
// connection into its exit filter instead).
func (o *baseOps) SinkConnect(sinkIdx int, buf *BatchRingBuffer) error {
	return o.f.SinkConnect(sinkIdx, buf)
}

func (o *baseOps) SinkDisconnect(sinkIdx int) error {
	return o.f.SinkDisconnect(sinkIdx)
}
