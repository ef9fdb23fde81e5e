// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bpipe

import (
	"sync"
	"sync/atomic"

	"code.hybscloud.com/atomix"
)

// FilterType tags a Filter's concrete role. The framework itself only
// needs to distinguish a plain leaf filter from the Pipeline composite;
// concrete filter bodies (CSV source, resampler, tee, ...) add their
// own tags.
type FilterType uint8

const (
	FilterTypeGeneric FilterType = iota
	FilterTypeSource
	FilterTypeTransform
	FilterTypeSink
	FilterTypePipeline
)

func (t FilterType) String() string {
	switch t {
	case FilterTypeGeneric:
		return "generic"
	case FilterTypeSource:
		return "source"
	case FilterTypeTransform:
		return "transform"
	case FilterTypeSink:
		return "sink"
	case FilterTypePipeline:
		return "pipeline"
	default:
		return "filter_type(?)"
	}
}

// Health summarizes a filter's runtime health for GetHealth.
type Health uint8

const (
	HealthHealthy Health = iota
	HealthFailed
)

func (h Health) String() string {
	if h == HealthFailed {
		return "FAILED"
	}
	return "HEALTHY"
}

// FilterStats is the framework-defined metrics every filter carries;
// subtypes overlay filter-specific counters in Extra.
type FilterStats struct {
	NBatches         uint64
	SamplesProcessed uint64
	Extra            map[string]uint64
}

// Description is the topology/identity summary returned by Describe.
// Topology is non-nil only for a Pipeline.
type Description struct {
	Name     string
	Type     FilterType
	NInputs  int
	NSinks   int
	Topology *Topology
}

// Topology describes a Pipeline's internal filters and connections.
type Topology struct {
	Filters      []string
	Connections  []Connection
	InputFilter  string
	InputPort    int
	OutputFilter string
	OutputPort   int
}

// FilterOps is the per-filter operation table: a fixed set of
// lifecycle and introspection operations every filter answers, with framework-default behavior supplied by baseOps
// and overridden piecemeal by subtypes that embed baseOps and redefine
// only the methods that differ (Pipeline is the one subtype the core
// implements; see pipeline_ops.go).
type FilterOps interface {
	Start() error
	Stop() error
	Deinit()
	Flush() error
	Drain() error
	Reset() error
	GetStats() FilterStats
	GetHealth() Health
	GetBacklog() uint64
	Reconfigure(cfg FilterConfig) error
	ValidateConnection(inputPort int, upstream PropertyTable) error
	SinkConnect(sinkIdx int, buf *BatchRingBuffer) error
	SinkDisconnect(sinkIdx int) error
	Describe() Description
	DumpState() string
	HandleError(d Diagnostic)
	Recover() error
}

// WorkerFunc is the user-supplied transformation routine a Filter runs
// on its single worker goroutine. A worker must monitor f.Running(),
// pull input via GetTail/DelTail, push output via GetHead/Submit, propagate a single COMPLETE batch to
// every sink and return on end-of-stream, and call Fail before
// returning on any fatal condition.
type WorkerFunc func(f *Filter)

// FilterConfig configures a Filter at Init. Init checks Name length,
// NInputs, MaxSinks and Worker, and BuffConfig when NInputs > 0; Type
// and TimeoutUs are accepted as given without any check.
type FilterConfig struct {
	Name       string
	Type       FilterType
	NInputs    int
	MaxSinks   int
	BuffConfig BuffConfig
	TimeoutUs  uint64
	Worker     WorkerFunc
}

// Filter is the common runtime state every filter in a pipeline shares:
// input buffers it owns, sink buffers it borrows, a worker goroutine, an
// overridable ops vtable, metrics, and a write-once diagnostic record.
// Concrete filter subtypes embed *Filter and assign a richer Ops value
// at Init time (see FilterOps).
type Filter struct {
	Name      string
	Type      FilterType
	TimeoutUs uint64
	maxSinks  int

	Inputs  [MaxInputs]*BatchRingBuffer
	NInputs int
	Sinks   [MaxSinks]*BatchRingBuffer
	NSinks  int

	Contract    FilterContract
	InputProps  [MaxInputs]PropertyTable
	OutputProps [MaxSinks]PropertyTable
	connected   [MaxInputs]bool

	Ops FilterOps

	worker  WorkerFunc
	running atomix.Bool
	wg      sync.WaitGroup

	sinkMu sync.Mutex
	diag   atomic.Pointer[Diagnostic]

	nBatches         atomix.Uint64
	samplesProcessed atomix.Uint64
}

// Init validates cfg, allocates cfg.NInputs input buffers, and wires up
// the default FilterOps. Subtypes call Init first, then override
// whichever ops they need and declare their contract via
// Contract.AppendConstraint / Contract.AppendBehavior.
func Init(cfg FilterConfig) (*Filter, error) {
	if len(cfg.Name) > MaxFilterNameLen {
		return nil, CodeInvalidConfig.Errf("name %q exceeds %d chars", cfg.Name, MaxFilterNameLen)
	}
	if cfg.NInputs < 0 || cfg.NInputs > MaxInputs {
		return nil, CodeInvalidConfigMaxInputs.Errf("n_inputs %d exceeds max %d", cfg.NInputs, MaxInputs)
	}
	if cfg.MaxSinks < 0 || cfg.MaxSinks > MaxSinks {
		return nil, CodeInvalidConfigMaxSinks.Errf("max_supported_sinks %d exceeds max %d", cfg.MaxSinks, MaxSinks)
	}
	if cfg.Worker == nil {
		return nil, CodeInvalidConfigWorker.Err()
	}

	f := &Filter{
		Name:      cfg.Name,
		Type:      cfg.Type,
		TimeoutUs: cfg.TimeoutUs,
		maxSinks:  cfg.MaxSinks,
		NInputs:   cfg.NInputs,
		worker:    cfg.Worker,
	}

	for i := 0; i < cfg.NInputs; i++ {
		buf, err := NewBatchRingBuffer(cfg.BuffConfig)
		if err != nil {
			for j := 0; j < i; j++ {
				f.Inputs[j].Deinit()
			}
			return nil, err
		}
		f.Inputs[i] = buf
	}

	f.Ops = &baseOps{f: f}
	return f, nil
}

// Running reports whether the filter's worker goroutine is executing.
func (f *Filter) Running() bool {
	return f.running.LoadAcquire()
}

// Diagnostic returns the filter's current diagnostic record. The zero
// value (Code: CodeOK) means no error has been recorded.
func (f *Filter) Diagnostic() Diagnostic {
	if d := f.diag.Load(); d != nil {
		return *d
	}
	return Diagnostic{}
}

func (f *Filter) setDiagnostic(d Diagnostic) {
	f.diag.CompareAndSwap(nil, &d)
}

// IncBatches adds n to the filter's processed-batch counter. Called by
// worker implementations after handling a batch.
func (f *Filter) IncBatches(n uint64) {
	f.nBatches.AddAcqRel(n)
}

// IncSamples adds n to the filter's processed-sample counter.
func (f *Filter) IncSamples(n uint64) {
	f.samplesProcessed.AddAcqRel(n)
}

// Stats returns the base framework metrics (NBatches,
// SamplesProcessed) with no Extra entries; FilterOps.GetStats overlays
// subtype-specific counters on top.
func (f *Filter) Stats() FilterStats {
	return FilterStats{
		NBatches:         f.nBatches.LoadRelaxed(),
		SamplesProcessed: f.samplesProcessed.LoadRelaxed(),
	}
}
