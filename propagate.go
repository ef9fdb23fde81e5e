// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bpipe

// Propagate constructs the output property table for outputPort given a
// filter's input property tables and declared contract:
//
//  1. If there are no inputs, start all-unknown; otherwise start by
//     copying input 0 (default inheritance).
//  2. For each output behavior whose OutputMask includes outputPort, SET
//     stores the operand and PRESERVE copies the named input's entry
//     (defaulting to input 0 if the named index is out of range).
func Propagate(inputs []PropertyTable, contract FilterContract, outputPort int) PropertyTable {
	var out PropertyTable
	if len(inputs) > 0 {
		out = inputs[0]
	}

	for i := 0; i < contract.NBehaviors; i++ {
		b := contract.Behaviors[i]
		if !b.OutputMask.Has(outputPort) {
			continue
		}
		switch b.Op {
		case OpSet:
			out.SetRaw(b.Property, b.Operand)
		case OpPreserve:
			idx := int(b.Operand)
			if idx < 0 || idx >= len(inputs) {
				idx = 0
			}
			if idx < len(inputs) {
				if v, known := inputs[idx].Raw(b.Property); known {
					out.SetRaw(b.Property, v)
				} else {
					out.Unset(b.Property)
				}
			}
		}
	}
	return out
}
