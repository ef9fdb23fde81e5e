// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bpipe

import "fmt"

// baseOps is the framework's default FilterOps implementation. A
// concrete filter subtype builds its own ops struct embedding baseOps
// and overriding whichever methods it needs; embedding promotes the
// rest unchanged.
type baseOps struct {
	f *Filter
}

// Start spawns the worker goroutine: reject if already running or misconfigured, else flip running and
// launch the worker on its own goroutine.
func (o *baseOps) Start() error {
	f := o.f
	if f.running.LoadAcquire() {
		return CodeAlreadyRunning.Err()
	}
	if f.worker == nil {
		return CodeInvalidConfigWorker.Err()
	}
	f.running.StoreRelease(true)
	f.wg.Add(1)
	go func() {
		defer f.wg.Done()
		f.worker(f)
	}()
	return nil
}

// Stop requests a graceful shutdown: it clears running, force-returns
// every input buffer's tail wait (unblocks the worker if it is parked
// reading) and every sink buffer's head wait (unblocks the worker if it
// is parked pushing to a full sink), then joins the worker goroutine.
// It does not stop the sink buffers themselves; they are borrowed, not
// owned.
func (o *baseOps) Stop() error {
	f := o.f
	if !f.running.LoadAcquire() {
		return nil
	}
	f.running.StoreRelease(false)

	for i := 0; i < f.NInputs; i++ {
		if buf := f.Inputs[i]; buf != nil {
			buf.ForceReturnTail(CodeFilterStopping)
		}
	}
	f.sinkMu.Lock()
	sinks := f.Sinks
	f.sinkMu.Unlock()
	for _, sink := range sinks {
		if sink != nil {
			sink.ForceReturnHead(CodeFilterStopping)
		}
	}

	f.wg.Wait()
	return nil
}

// Deinit releases the filter's owned input buffers. Sink buffers are not
// touched: they belong to whichever filter created them.
func (o *baseOps) Deinit() {
	f := o.f
	for i := 0; i < f.NInputs; i++ {
		if buf := f.Inputs[i]; buf != nil {
			buf.Deinit()
			f.Inputs[i] = nil
		}
	}
}

// Flush is a no-op by default; filters that buffer samples beyond what
// the ring holds override this to push a final partial batch.
func (o *baseOps) Flush() error { return nil }

// Drain is a no-op by default; filters with internal state to settle
// (e.g. a resampler's phase accumulator) override this.
func (o *baseOps) Drain() error { return nil }

// Reset restores counters to zero without deallocating buffers.
func (o *baseOps) Reset() error {
	f := o.f
	f.nBatches.StoreRelaxed(0)
	f.samplesProcessed.StoreRelaxed(0)
	return nil
}

// GetStats returns the base framework counters. Subtypes override this
// to populate FilterStats.Extra with filter-specific counters.
func (o *baseOps) GetStats() FilterStats {
	return o.f.Stats()
}

// GetHealth reports FAILED once a diagnostic with a non-OK code has
// been recorded, HEALTHY otherwise.
func (o *baseOps) GetHealth() Health {
	if o.f.Diagnostic().Empty() {
		return HealthHealthy
	}
	return HealthFailed
}

// GetBacklog sums the occupancy of every input buffer the filter owns.
func (o *baseOps) GetBacklog() uint64 {
	f := o.f
	var total uint64
	for i := 0; i < f.NInputs; i++ {
		if buf := f.Inputs[i]; buf != nil {
			total += buf.Occupancy()
		}
	}
	return total
}

// Reconfigure is not supported by default; a running filter's shape
// (input count, dtype, capacities) is fixed for its lifetime unless a
// subtype explicitly supports live reconfiguration.
func (o *baseOps) Reconfigure(FilterConfig) error {
	return CodeNotImplemented.Err()
}

// ValidateConnection checks upstream's properties against the filter's
// declared contract for inputPort.
func (o *baseOps) ValidateConnection(inputPort int, upstream PropertyTable) error {
	return ValidateConnection(upstream, o.f.Contract, inputPort)
}

// Describe reports the filter's identity and shape with no topology
// (Topology is nil for a non-composite filter).
func (o *baseOps) Describe() Description {
	f := o.f
	return Description{
		Name:    f.Name,
		Type:    f.Type,
		NInputs: f.NInputs,
		NSinks:  f.NSinks,
	}
}

// DumpState renders a one-line human-readable snapshot for debugging.
func (o *baseOps) DumpState() string {
	f := o.f
	return fmt.Sprintf("filter %q type=%s running=%t backlog=%d health=%s diag=%s",
		f.Name, f.Type, f.Running(), o.GetBacklog(), o.GetHealth(), f.Diagnostic())
}

// HandleError records d as the filter's diagnostic if none has been
// recorded yet (first writer wins).
func (o *baseOps) HandleError(d Diagnostic) {
	o.f.setDiagnostic(d)
}

// Recover is not supported by default: once a worker has failed and
// returned, the filter must be stopped, deinitialized, and
// reinitialized rather than resumed in place.
func (o *baseOps) Recover() error {
	return CodeNotImplemented.Err()
}
