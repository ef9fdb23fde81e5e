// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bpipe

// ValidateProperties checks the whole internal DAG before a start:
// a root pipeline (no external input mappings) must contain at least
// one source filter; internal filters are then visited in topological
// order and, for each, every input port's upstream properties are
// checked against that filter's declared contract before its own
// output properties are computed via Propagate.
func (p *Pipeline) ValidateProperties() error {
	root := len(p.externalInputMappings) == 0

	if root {
		hasSource := false
		for _, name := range filterNames(p.filters) {
			if p.filters[name].NInputs == 0 {
				hasSource = true
				break
			}
		}
		if !hasSource {
			return CodeInvalidConfig.Errf("root pipeline %q has no source filter", p.Name)
		}
	}

	order, err := p.topologicalOrder()
	if err != nil {
		return err
	}

	for _, name := range order {
		filt := p.filters[name]

		if filt.NInputs == 0 {
			for port := 0; port < MaxSinks; port++ {
				filt.OutputProps[port] = Propagate(nil, filt.Contract, port)
			}
			continue
		}

		for port := 0; port < filt.NInputs; port++ {
			props, err := p.resolveInputProps(root, name, port)
			if err != nil {
				return err
			}
			if err := filt.Ops.ValidateConnection(port, props); err != nil {
				return err
			}
			filt.InputProps[port] = props
			filt.connected[port] = true
		}

		if err := ValidateMultiInputAlignment(filt.InputProps, filt.connected, filt.Contract); err != nil {
			return err
		}

		for port := 0; port < MaxSinks; port++ {
			filt.OutputProps[port] = Propagate(filt.InputProps[:filt.NInputs], filt.Contract, port)
		}
	}
	p.order = order
	return nil
}

// resolveInputProps finds the property table feeding filt:port, trying
// in order: an external-input
// mapping, a connected upstream filter:port, or — for a root pipeline's
// designated input port only — all-unknown.
func (p *Pipeline) resolveInputProps(root bool, filt string, port int) (PropertyTable, error) {
	for idx, m := range p.externalInputMappings {
		if m.Filter == filt && m.Port == port {
			if idx < 0 || idx >= MaxInputs {
				return PropertyTable{}, CodeInvalidConfig.Errf("external input index %d out of range", idx)
			}
			return p.InputProps[idx], nil
		}
	}

	for _, c := range p.connections {
		if c.ToFilter == filt && c.ToPort == port {
			return p.filters[c.FromFilter].OutputProps[c.FromPort], nil
		}
	}

	if root && filt == p.inputFilter && port == p.inputPort {
		return PropertyTable{}, nil
	}

	return PropertyTable{}, CodeInvalidConfig.Errf("%s:%d has no upstream and is not a pipeline input", filt, port)
}

// topologicalOrder runs DFS from source filters, declared pipeline
// inputs, and filters with no incoming connection.
// Returns CodeInvalidConfig if the internal connection graph has a
// cycle.
func (p *Pipeline) topologicalOrder() ([]string, error) {
	hasIncoming := map[string]bool{}
	for _, c := range p.connections {
		hasIncoming[c.ToFilter] = true
	}

	var roots []string
	for _, name := range filterNames(p.filters) {
		filt := p.filters[name]
		isMappedInput := false
		for _, m := range p.externalInputMappings {
			if m.Filter == name {
				isMappedInput = true
				break
			}
		}
		if filt.NInputs == 0 || isMappedInput || !hasIncoming[name] {
			roots = append(roots, name)
		}
	}

	const (
		unvisited = 0
		visiting  = 1
		visited   = 2
	)
	state := map[string]int{}
	var order []string

	var visit func(name string) error
	visit = func(name string) error {
		switch state[name] {
		case visited:
			return nil
		case visiting:
			return CodeInvalidConfig.Errf("pipeline %q has a cycle through %q", p.Name, name)
		}
		state[name] = visiting
		for _, c := range p.connections {
			if c.FromFilter == name {
				if err := visit(c.ToFilter); err != nil {
					return err
				}
			}
		}
		state[name] = visited
		order = append(order, name)
		return nil
	}

	for _, name := range roots {
		if err := visit(name); err != nil {
			return nil, err
		}
	}
	for _, name := range filterNames(p.filters) {
		if err := visit(name); err != nil {
			return nil, err
		}
	}

	// visit appends in post-order (a node after all of its downstream
	// dependents); reverse to get upstream-before-downstream order.
	for i, j := 0, len(order)-1; i < j; i, j = i+1, j-1 {
		order[i], order[j] = order[j], order[i]
	}
	return order, nil
}
