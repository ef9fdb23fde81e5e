// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bpipe

import "fmt"

// ValidateConnection checks upstream's advertised properties against
// downstream's declared input constraints for the given input port.
// It is pure: the same inputs always produce the same
// result, with no hidden state. MULTI_INPUT_ALIGNED constraints are
// skipped here (checked by ValidateMultiInputAlignment once every input
// port of the sink is connected).
func ValidateConnection(upstream PropertyTable, downstream FilterContract, inputPort int) error {
	for i := 0; i < downstream.NConstraints; i++ {
		c := downstream.Constraints[i]
		if !c.InputMask.Has(inputPort) {
			continue
		}
		if c.Op == OpMultiInputAligned {
			continue
		}
		if !c.Property.valid() {
			return CodeInvalidConfig.Errf("constraint references unknown property %d", c.Property)
		}
		if err := validateOne(upstream, c); err != nil {
			return err
		}
	}
	return nil
}

func validateOne(upstream PropertyTable, c InputConstraint) error {
	value, known := upstream.Raw(c.Property)

	switch c.Op {
	case OpExists:
		if !known {
			return CodePropertyMismatch.Errf("%s: required but not set", c.Property)
		}
		return nil
	case OpEQ:
		if !known {
			return CodePropertyMismatch.Errf("%s: required (expected == %s) but not set", c.Property, operandString(c.Property, c.Operand))
		}
		if value != c.Operand {
			return CodePropertyMismatch.Errf("%s: expected == %s, got %s", c.Property, operandString(c.Property, c.Operand), operandString(c.Property, value))
		}
		return nil
	case OpGTE:
		if !known {
			return CodePropertyMismatch.Errf("%s: required (expected >= %s) but not set", c.Property, operandString(c.Property, c.Operand))
		}
		if value < c.Operand {
			return CodePropertyMismatch.Errf("%s: expected >= %s, got %s", c.Property, operandString(c.Property, c.Operand), operandString(c.Property, value))
		}
		return nil
	case OpLTE:
		if !known {
			return CodePropertyMismatch.Errf("%s: required (expected <= %s) but not set", c.Property, operandString(c.Property, c.Operand))
		}
		if value > c.Operand {
			return CodePropertyMismatch.Errf("%s: expected <= %s, got %s", c.Property, operandString(c.Property, c.Operand), operandString(c.Property, value))
		}
		return nil
	default:
		return CodeInvalidConfig.Errf("unknown constraint op %d", c.Op)
	}
}

func operandString(p SignalProperty, v uint64) string {
	if p == PropDataType {
		return DType(v).String()
	}
	return fmt.Sprintf("%d", v)
}

// ValidateMultiInputAlignment enforces every MULTI_INPUT_ALIGNED
// constraint in contract against props, the property tables attached to
// the filter's connected input ports (connected[i] reports whether port
// i has a connection). All connected ports named in a constraint's
// InputMask must agree on the constrained property's value; unconnected
// ports are ignored.
func ValidateMultiInputAlignment(props [MaxInputs]PropertyTable, connected [MaxInputs]bool, contract FilterContract) error {
	for i := 0; i < contract.NConstraints; i++ {
		c := contract.Constraints[i]
		if c.Op != OpMultiInputAligned {
			continue
		}
		if !c.Property.valid() {
			return CodeInvalidConfig.Errf("constraint references unknown property %d", c.Property)
		}

		var have bool
		var want uint64
		var wantPort int
		for port := 0; port < MaxInputs; port++ {
			if !c.InputMask.Has(port) || !connected[port] {
				continue
			}
			v, known := props[port].Raw(c.Property)
			if !known {
				return CodePropertyMismatch.Errf("%s: required for alignment on input %d but not set", c.Property, port)
			}
			if !have {
				have, want, wantPort = true, v, port
				continue
			}
			if v != want {
				return CodePropertyMismatch.Errf("%s: input %d (%s) misaligned with input %d (%s)",
					c.Property, port, operandString(c.Property, v), wantPort, operandString(c.Property, want))
			}
		}
	}
	return nil
}
