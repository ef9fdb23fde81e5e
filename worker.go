// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bpipe

import "fmt"

// Fail records a diagnostic at the worker's call site and clears
// Running: on any fatal condition a worker populates the diagnostic
// record (code, file, line, function, message), clears running, and
// returns. A worker calls
// Fail and then returns immediately; Fail does not itself return
// control anywhere else.
func Fail(f *Filter, code Code, format string, args ...any) {
	msg := ""
	if format != "" {
		msg = fmt.Sprintf(format, args...)
	}
	f.setDiagnostic(newDiagnostic(code, msg, 1))
	f.running.StoreRelease(false)
}

// Sink returns the buffer connected at sinkIdx, or nil if nothing is
// connected there. A WorkerFunc uses it together with GetHead/Submit to
// push a finished batch; an unconnected slot is meant to be skipped.
func (f *Filter) Sink(sinkIdx int) *BatchRingBuffer {
	f.sinkMu.Lock()
	defer f.sinkMu.Unlock()
	if sinkIdx < 0 || sinkIdx >= len(f.Sinks) {
		return nil
	}
	return f.Sinks[sinkIdx]
}

// Input returns the buffer a WorkerFunc reads port from via
// GetTail/DelTail.
func (f *Filter) Input(port int) *BatchRingBuffer {
	if port < 0 || port >= f.NInputs {
		return nil
	}
	return f.Inputs[port]
}
