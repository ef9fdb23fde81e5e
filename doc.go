// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package bpipe provides a real-time streaming framework for sampled
// numeric signals: a lock-free/blocking hybrid ring buffer for batches
// of samples, a filter runtime that runs one worker goroutine per
// stage, a signal-property/contract system that validates connections
// before a pipeline starts, and a Pipeline composite that presents a
// DAG of filters as a single filter.
//
// # Quick Start
//
// A batch ring buffer moves fixed-capacity batches from one producer
// goroutine to one consumer goroutine:
//
//	buf, err := bpipe.NewBatchRingBuffer(bpipe.BuffConfig{
//	    DType:             bpipe.DTypeF32,
//	    BatchCapacityExpo: 3, // 8 samples per batch
//	    RingCapacityExpo:  2, // 4 slots
//	    Overflow:          bpipe.OverflowBlock,
//	})
//	defer buf.Deinit()
//
// # Basic Usage
//
// The producer borrows the head slot, fills it, and submits:
//
//	head := buf.GetHead()
//	head.Head = 8
//	head.TNs = i * 1_000_000
//	head.PeriodNs = 125_000
//	head.BatchID = uint64(i)
//	// write sample bytes into head.Data ...
//	code := buf.Submit(0) // 0 = block indefinitely
//
// The consumer borrows the tail slot, reads it, and releases:
//
//	batch, code := buf.GetTail(0)
//	if code == bpipe.CodeOK {
//	    // read batch.Data ...
//	    buf.DelTail()
//	}
//
// # Building a Filter
//
// A filter subtype calls [Init] to get a *Filter, declares its
// contract, and supplies a [WorkerFunc]:
//
//	f, err := bpipe.Init(bpipe.FilterConfig{
//	    Name:     "resample",
//	    Type:     bpipe.FilterTypeTransform,
//	    NInputs:  1,
//	    MaxSinks: 2,
//	    BuffConfig: bpipe.BuffConfig{
//	        DType: bpipe.DTypeF32, BatchCapacityExpo: 3, RingCapacityExpo: 2,
//	    },
//	    TimeoutUs: 100_000,
//	    Worker: func(f *bpipe.Filter) {
//	        for f.Running() {
//	            batch, code := f.Input(0).GetTail(f.TimeoutUs)
//	            if code == bpipe.CodeTimeout {
//	                continue
//	            }
//	            if code.IsShutdown() {
//	                return
//	            }
//	            if code != bpipe.CodeOK {
//	                bpipe.Fail(f, code, "reading input 0")
//	                return
//	            }
//	            if sink := f.Sink(0); sink != nil {
//	                out := sink.GetHead()
//	                out.Head, out.TNs, out.PeriodNs, out.BatchID, out.EC = batch.Head, batch.TNs, batch.PeriodNs, batch.BatchID, batch.EC
//	                copy(out.Data, batch.Data) // transform in place before or after this copy
//	                sink.Submit(f.TimeoutUs)
//	            }
//	            f.Input(0).DelTail()
//	            f.IncBatches(1)
//	        }
//	    },
//	})
//	f.Contract.AppendConstraint(bpipe.InputConstraint{
//	    Property: bpipe.PropDataType, Op: bpipe.OpEQ,
//	    InputMask: bpipe.PortBit(0), Operand: uint64(bpipe.DTypeF32),
//	})
//	f.Contract.AppendBehavior(bpipe.OutputBehavior{
//	    Property: bpipe.PropDataType, Op: bpipe.OpPreserve,
//	    OutputMask: bpipe.PortBit(0), Operand: 0,
//	})
//
// # Common Patterns
//
// Source → Transform → Sink pipeline:
//
//	p, err := bpipe.InitPipeline(bpipe.PipelineConfig{
//	    Name:         "acquire",
//	    Filters:      map[string]*bpipe.Filter{"a": a, "b": b, "c": c},
//	    Connections:  []bpipe.Connection{{FromFilter: "a", ToFilter: "b", ToPort: 0}, {FromFilter: "b", ToFilter: "c", ToPort: 0}},
//	    InputFilter:  "a",
//	    OutputFilter: "c",
//	})
//	if err := p.ValidateProperties(); err != nil {
//	    // a declared contract rejected the topology
//	}
//	p.Ops.Start()
//	// ...
//	p.Ops.Stop()
//
// # Error Handling
//
// Every blocking operation returns a [Code] rather than panicking or
// returning a bare error; [Code.Err] and [Code.Errf] wrap one as a Go
// error for call sites that need one (contract validation,
// configuration). [Code.IsRetryable] identifies TIMEOUT; [Code.IsShutdown]
// identifies STOPPED, FILTER_STOPPING, and COMPLETE — the three codes a
// worker must treat as ordinary termination rather than failure.
//
//	code := buf.Submit(timeoutUs)
//	switch {
//	case code == bpipe.CodeOK:
//	case code.IsRetryable():
//	    // back off and retry
//	case code.IsShutdown():
//	    return
//	default:
//	    bpipe.Fail(f, code, "submitting to sink 0")
//	    return
//	}
//
// [ErrWouldBlock] and [IsWouldBlock] are re-exported from
// [code.hybscloud.com/iox] so callers that bridge to other
// code.hybscloud.com components can use one would-block classification
// everywhere.
//
// # Thread Safety
//
// Each BatchRingBuffer has exactly one producer goroutine and one
// consumer goroutine; sharing a producer or consumer role across
// multiple goroutines is undefined behavior. Fan-out to several sinks
// is done by a filter's single worker writing to each sink buffer in
// turn, never by sharing one buffer between multiple consumers.
//
// # Graceful Shutdown
//
// [Filter.Ops].Stop clears running, issues a one-shot
// [BatchRingBuffer.ForceReturnTail] on every input buffer the filter
// owns and a one-shot [BatchRingBuffer.ForceReturnHead] on every sink
// it writes to, then joins the worker goroutine. A worker blocked in
// await_notempty or await_notfull is guaranteed to wake within one
// condvar wake; it must check [Filter.Running] (or the FILTER_STOPPING
// code) and return rather than loop.
//
// # Race Detection
//
// The ring buffer's fast path coordinates head and tail with
// acquire/release atomics rather than a mutex. Go's race detector
// tracks happens-before relationships through mutexes and channels but
// not through atomics on separate variables, so it can report false
// positives on these fast paths; tests that exercise them directly skip
// themselves when [RaceEnabled] is true (set by the //go:build race /
// !race file pair). The blocking slow path (condvar wait)
// is ordinary mutex-protected code and is fully race-detector clean.
//
// # Dependencies
//
// This package uses [code.hybscloud.com/atomix] for atomic primitives
// with explicit memory ordering, [code.hybscloud.com/iox] for semantic
// would-block errors, and [code.hybscloud.com/iobuf] for page-aligned
// batch storage allocation.
package bpipe
