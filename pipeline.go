// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bpipe

import "sort"

// Connection is one point-to-point edge inside a Pipeline: the output
// port FromPort of filter FromFilter feeds the input port ToPort of
// filter ToFilter.
type Connection struct {
	FromFilter string
	FromPort   int
	ToFilter   string
	ToPort     int
}

// ExternalInputMapping names which external input index feeds a given
// internal filter's input port, for a Pipeline nested inside another
// pipeline.
type ExternalInputMapping struct {
	Filter string
	Port   int
}

// PipelineConfig assembles a Pipeline from already-Init'd internal
// filters, the connections wiring them together, and the two ports that
// stand in as the pipeline's own single input and single output.
type PipelineConfig struct {
	Name        string
	Filters     map[string]*Filter
	Connections []Connection

	InputFilter  string
	InputPort    int
	OutputFilter string
	OutputPort   int

	// ExternalInputMappings, keyed by external input index, lets a
	// pipeline nested inside another one forward properties supplied
	// from outside down to the internal filter/port that needs them.
	// A root pipeline (one that isn't itself nested) leaves this nil.
	ExternalInputMappings map[int]ExternalInputMapping

	TimeoutUs uint64
}

// Pipeline presents a DAG of internal filters and their connections as
// a single Filter: its own n_inputs is always 1 and max_supported_sinks
// is always 1, aliased straight through to the designated entry and
// exit filters.
type Pipeline struct {
	*Filter

	filters     map[string]*Filter
	order       []string
	connections []Connection

	inputFilter  string
	inputPort    int
	outputFilter string
	outputPort   int

	// inputAliased records that Inputs[0] is borrowed from the entry
	// filter rather than owned, so pipeline deinit must not tear it
	// down (the entry filter does).
	inputAliased bool

	externalInputMappings map[int]ExternalInputMapping
}

func noopWorker(f *Filter) {
	Fail(f, CodeNotImplemented, "pipeline has no worker of its own")
}

// InitPipeline builds a Pipeline: validate the
// topology references only declared filters, wire every connection
// (rolling back on the first failure), alias the pipeline's own input
// buffer onto the entry filter's input buffer, and install pipelineOps
// in place of the default lifecycle.
func InitPipeline(cfg PipelineConfig) (*Pipeline, error) {
	if err := validateTopologyRefs(cfg); err != nil {
		return nil, err
	}

	entry, ok := cfg.Filters[cfg.InputFilter]
	if !ok {
		return nil, CodeInvalidConfig.Errf("pipeline input filter %q not declared", cfg.InputFilter)
	}
	// A source entry filter (NInputs == 0) has no input buffer to alias
	// onto; it drives the pipeline itself. The aliasing step below only
	// applies when the entry filter actually owns an input buffer at
	// InputPort.
	if entry.NInputs > 0 && (cfg.InputPort < 0 || cfg.InputPort >= entry.NInputs) {
		return nil, CodeInvalidConfig.Errf("pipeline input %s:%d does not exist", cfg.InputFilter, cfg.InputPort)
	}
	if _, ok := cfg.Filters[cfg.OutputFilter]; !ok || cfg.OutputPort < 0 {
		return nil, CodeInvalidConfig.Errf("pipeline output %s:%d does not exist", cfg.OutputFilter, cfg.OutputPort)
	}

	base, err := Init(FilterConfig{
		Name:      cfg.Name,
		Type:      FilterTypePipeline,
		NInputs:   1,
		MaxSinks:  1,
		TimeoutUs: cfg.TimeoutUs,
		BuffConfig: BuffConfig{
			DType:             DTypeU32,
			BatchCapacityExpo: 0,
			RingCapacityExpo:  0,
			Overflow:          OverflowBlock,
		},
		Worker: noopWorker,
	})
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		Filter:                base,
		filters:               cfg.Filters,
		connections:           cfg.Connections,
		inputFilter:           cfg.InputFilter,
		inputPort:             cfg.InputPort,
		outputFilter:          cfg.OutputFilter,
		outputPort:            cfg.OutputPort,
		externalInputMappings: cfg.ExternalInputMappings,
	}

	connected := 0
	for _, c := range cfg.Connections {
		from := cfg.Filters[c.FromFilter]
		to := cfg.Filters[c.ToFilter]
		if err := from.Ops.SinkConnect(c.FromPort, to.Inputs[c.ToPort]); err != nil {
			rollbackConnections(cfg, connected)
			return nil, err
		}
		connected++
	}

	if entry.NInputs > 0 {
		oldInput := base.Inputs[0]
		base.Inputs[0] = entry.Inputs[cfg.InputPort]
		oldInput.Deinit()
		p.inputAliased = true
	}

	base.Ops = &pipelineOps{baseOps: baseOps{f: base}, p: p}
	return p, nil
}

func validateTopologyRefs(cfg PipelineConfig) error {
	for _, c := range cfg.Connections {
		from, ok := cfg.Filters[c.FromFilter]
		if !ok {
			return CodeInvalidConfig.Errf("connection references undeclared filter %q", c.FromFilter)
		}
		to, ok := cfg.Filters[c.ToFilter]
		if !ok {
			return CodeInvalidConfig.Errf("connection references undeclared filter %q", c.ToFilter)
		}
		if c.ToPort < 0 || c.ToPort >= to.NInputs {
			return CodeInvalidConfig.Errf("connection targets %s:%d, out of range", c.ToFilter, c.ToPort)
		}
		if c.FromPort < 0 || c.FromPort >= from.maxSinks {
			return CodeInvalidConfig.Errf("connection sources %s:%d, out of range", c.FromFilter, c.FromPort)
		}
	}
	return nil
}

func rollbackConnections(cfg PipelineConfig, n int) {
	for i := 0; i < n; i++ {
		c := cfg.Connections[i]
		cfg.Filters[c.FromFilter].Ops.SinkDisconnect(c.FromPort)
	}
}

// filterNames returns cfg.Filters' keys in a stable order, used
// wherever iteration order must be deterministic for reproducible
// diagnostics and tests.
func filterNames(filters map[string]*Filter) []string {
	names := make([]string, 0, len(filters))
	for name := range filters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
