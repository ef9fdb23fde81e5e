// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bpipe

// pipelineOps overrides Start, Stop, Deinit, SinkConnect,
// SinkDisconnect, and Describe, and leaves every other method promoted
// unchanged from baseOps via embedding.
type pipelineOps struct {
	baseOps
	p *Pipeline
}

// Start validates properties, then starts every internal filter in
// topological order, rolling back (stopping already-started filters)
// on the first failure.
func (o *pipelineOps) Start() error {
	p := o.p
	if p.Running() {
		return CodeAlreadyRunning.Err()
	}
	if err := p.ValidateProperties(); err != nil {
		return err
	}

	started := make([]string, 0, len(p.order))
	for _, name := range p.order {
		if err := p.filters[name].Ops.Start(); err != nil {
			for i := len(started) - 1; i >= 0; i-- {
				p.filters[started[i]].Ops.Stop()
			}
			return err
		}
		started = append(started, name)
	}

	p.running.StoreRelease(true)
	return nil
}

// Stop atomically clears running, then stops internal filters in
// reverse start order so a filter is never stopped before the
// downstream filters consuming its output.
func (o *pipelineOps) Stop() error {
	p := o.p
	if !p.Running() {
		return nil
	}
	p.running.StoreRelease(false)

	for i := len(p.order) - 1; i >= 0; i-- {
		p.filters[p.order[i]].Ops.Stop()
	}
	return nil
}

// Deinit releases the pipeline's own input buffer unless it was aliased
// onto the entry filter's input buffer at init, in which case that
// filter keeps ownership and tears it down itself.
func (o *pipelineOps) Deinit() {
	p := o.p
	if p.inputAliased {
		p.Inputs[0] = nil
	}
	o.baseOps.Deinit()
}

// SinkConnect forwards the pipeline's single external output port (0)
// onto the exit filter's designated output port.
func (o *pipelineOps) SinkConnect(sinkIdx int, buf *BatchRingBuffer) error {
	p := o.p
	if sinkIdx != 0 {
		return CodeInvalidSinkIdx.Errf("pipeline %q has a single output port 0, got %d", p.Name, sinkIdx)
	}
	return p.filters[p.outputFilter].Ops.SinkConnect(p.outputPort, buf)
}

func (o *pipelineOps) SinkDisconnect(sinkIdx int) error {
	p := o.p
	if sinkIdx != 0 {
		return CodeInvalidSinkIdx.Errf("pipeline %q has a single output port 0, got %d", p.Name, sinkIdx)
	}
	return p.filters[p.outputFilter].Ops.SinkDisconnect(p.outputPort)
}

// Describe emits the pipeline's internal topology alongside the usual
// filter identity fields.
func (o *pipelineOps) Describe() Description {
	p := o.p
	d := o.baseOps.Describe()
	d.Topology = &Topology{
		Filters:      filterNames(p.filters),
		Connections:  append([]Connection(nil), p.connections...),
		InputFilter:  p.inputFilter,
		InputPort:    p.inputPort,
		OutputFilter: p.outputFilter,
		OutputPort:   p.outputPort,
	}
	return d
}
