// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bpipe_test

import (
	"testing"
	"time"

	"code.hybscloud.com/bpipe"
)

func sourceWorker(f *bpipe.Filter) {
	id := uint64(0)
	for f.Running() {
		sink := f.Sink(0)
		if sink == nil {
			time.Sleep(time.Millisecond)
			continue
		}
		head := sink.GetHead()
		head.Head = 1
		head.BatchID = id
		head.PeriodNs = 1_000_000 // 1kHz
		code := sink.Submit(50_000)
		if code.IsShutdown() {
			return
		}
		if code != bpipe.CodeOK && !code.IsRetryable() {
			bpipe.Fail(f, code, "source submit")
			return
		}
		id++
	}
}

func mapWorker(f *bpipe.Filter) {
	for f.Running() {
		batch, code := f.Input(0).GetTail(50_000)
		if code.IsRetryable() {
			continue
		}
		if code.IsShutdown() {
			return
		}
		if code != bpipe.CodeOK {
			bpipe.Fail(f, code, "map read")
			return
		}
		sink := f.Sink(0)
		if sink != nil {
			out := sink.GetHead()
			*out = *batch
			sink.Submit(f.TimeoutUs)
		}
		f.Input(0).DelTail()
		f.IncBatches(1)
	}
}

func sinkWorker(f *bpipe.Filter) {
	for f.Running() {
		_, code := f.Input(0).GetTail(50_000)
		if code.IsRetryable() {
			continue
		}
		if code.IsShutdown() {
			return
		}
		if code != bpipe.CodeOK {
			bpipe.Fail(f, code, "sink read")
			return
		}
		f.Input(0).DelTail()
		f.IncBatches(1)
	}
}

func buildABCPipeline(t *testing.T) *bpipe.Pipeline {
	t.Helper()

	buffCfg := bpipe.BuffConfig{DType: bpipe.DTypeF32, BatchCapacityExpo: 0, RingCapacityExpo: 2}

	a, err := bpipe.Init(bpipe.FilterConfig{Name: "a", Type: bpipe.FilterTypeSource, NInputs: 0, MaxSinks: 1, BuffConfig: buffCfg, Worker: sourceWorker})
	if err != nil {
		t.Fatalf("Init(a): %v", err)
	}
	a.Contract.AppendBehavior(bpipe.OutputBehavior{Property: bpipe.PropDataType, Op: bpipe.OpSet, OutputMask: bpipe.PortBit(0), Operand: uint64(bpipe.DTypeF32)})

	b, err := bpipe.Init(bpipe.FilterConfig{Name: "b", Type: bpipe.FilterTypeTransform, NInputs: 1, MaxSinks: 1, BuffConfig: buffCfg, Worker: mapWorker})
	if err != nil {
		t.Fatalf("Init(b): %v", err)
	}
	b.Contract.AppendBehavior(bpipe.OutputBehavior{Property: bpipe.PropDataType, Op: bpipe.OpPreserve, OutputMask: bpipe.PortBit(0), Operand: 0})

	c, err := bpipe.Init(bpipe.FilterConfig{Name: "c", Type: bpipe.FilterTypeSink, NInputs: 1, MaxSinks: 0, BuffConfig: buffCfg, Worker: sinkWorker})
	if err != nil {
		t.Fatalf("Init(c): %v", err)
	}

	p, err := bpipe.InitPipeline(bpipe.PipelineConfig{
		Name:    "acquire",
		Filters: map[string]*bpipe.Filter{"a": a, "b": b, "c": c},
		Connections: []bpipe.Connection{
			{FromFilter: "a", FromPort: 0, ToFilter: "b", ToPort: 0},
			{FromFilter: "b", FromPort: 0, ToFilter: "c", ToPort: 0},
		},
		InputFilter:  "a",
		InputPort:    0,
		OutputFilter: "c",
		OutputPort:   0,
	})
	if err != nil {
		t.Fatalf("InitPipeline: %v", err)
	}
	return p
}

// TestPipelineTopologicalStart builds A (source) -> B (map, preserve
// all) -> C (sink); init and property validation succeed, Start brings
// up all three filters, and Stop terminates every worker cleanly.
func TestPipelineTopologicalStart(t *testing.T) {
	p := buildABCPipeline(t)

	if err := p.ValidateProperties(); err != nil {
		t.Fatalf("ValidateProperties: %v", err)
	}

	if err := p.Ops.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !p.Running() {
		t.Fatal("pipeline should report Running after Start")
	}

	time.Sleep(50 * time.Millisecond)

	if err := p.Ops.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if p.Running() {
		t.Fatal("pipeline should report not Running after Stop")
	}
}

func TestPipelineRejectsUndeclaredFilter(t *testing.T) {
	buffCfg := bpipe.BuffConfig{DType: bpipe.DTypeF32, BatchCapacityExpo: 0, RingCapacityExpo: 2}
	a, _ := bpipe.Init(bpipe.FilterConfig{Name: "a", NInputs: 0, MaxSinks: 1, BuffConfig: buffCfg, Worker: sourceWorker})

	_, err := bpipe.InitPipeline(bpipe.PipelineConfig{
		Name:         "broken",
		Filters:      map[string]*bpipe.Filter{"a": a},
		Connections:  []bpipe.Connection{{FromFilter: "a", ToFilter: "missing", ToPort: 0}},
		InputFilter:  "a",
		OutputFilter: "a",
	})
	if err == nil {
		t.Fatal("InitPipeline: want error for undeclared filter, got nil")
	}
}

func TestPipelineRejectsCycle(t *testing.T) {
	buffCfg := bpipe.BuffConfig{DType: bpipe.DTypeF32, BatchCapacityExpo: 0, RingCapacityExpo: 2}

	a, err := bpipe.Init(bpipe.FilterConfig{Name: "a", Type: bpipe.FilterTypeSource, NInputs: 0, MaxSinks: 1, BuffConfig: buffCfg, Worker: sourceWorker})
	if err != nil {
		t.Fatalf("Init(a): %v", err)
	}
	x, err := bpipe.Init(bpipe.FilterConfig{Name: "x", Type: bpipe.FilterTypeTransform, NInputs: 2, MaxSinks: 1, BuffConfig: buffCfg, Worker: mapWorker})
	if err != nil {
		t.Fatalf("Init(x): %v", err)
	}
	y, err := bpipe.Init(bpipe.FilterConfig{Name: "y", Type: bpipe.FilterTypeTransform, NInputs: 1, MaxSinks: 1, BuffConfig: buffCfg, Worker: mapWorker})
	if err != nil {
		t.Fatalf("Init(y): %v", err)
	}

	p, err := bpipe.InitPipeline(bpipe.PipelineConfig{
		Name:    "looped",
		Filters: map[string]*bpipe.Filter{"a": a, "x": x, "y": y},
		Connections: []bpipe.Connection{
			{FromFilter: "a", FromPort: 0, ToFilter: "x", ToPort: 0},
			{FromFilter: "x", FromPort: 0, ToFilter: "y", ToPort: 0},
			{FromFilter: "y", FromPort: 0, ToFilter: "x", ToPort: 1},
		},
		InputFilter:  "a",
		OutputFilter: "y",
	})
	if err != nil {
		t.Fatalf("InitPipeline: %v", err)
	}

	err = p.ValidateProperties()
	if err == nil {
		t.Fatal("ValidateProperties: want INVALID_CONFIG for a cyclic topology, got nil")
	}
	var e *bpipe.Error
	if !asError(err, &e) || e.Code != bpipe.CodeInvalidConfig {
		t.Fatalf("ValidateProperties: got %v, want INVALID_CONFIG", err)
	}
}
