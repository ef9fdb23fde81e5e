// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bpipe

// ConstraintOp is the relation an InputConstraint checks.
type ConstraintOp uint8

const (
	OpExists ConstraintOp = iota
	OpEQ
	OpGTE
	OpLTE
	OpMultiInputAligned
)

// BehaviorOp is the action an OutputBehavior performs when building
// output properties.
type BehaviorOp uint8

const (
	// OpSet stores Operand directly into the output property.
	OpSet BehaviorOp = iota
	// OpPreserve copies the value from input port Operand (defaulting
	// to input 0 if Operand is out of range).
	OpPreserve
)

// PortMask is a bitset over input or sink ports; bit i corresponds to
// port i. MaxInputs/MaxSinks
// are both well under 32, so one uint32 covers every port.
type PortMask uint32

// Has reports whether port is set in the mask.
func (m PortMask) Has(port int) bool {
	if port < 0 || port >= 32 {
		return false
	}
	return m&(1<<uint(port)) != 0
}

// PortBit returns a PortMask with exactly the given port set.
func PortBit(port int) PortMask {
	return PortMask(1 << uint(port))
}

// InputConstraint is one condition a downstream filter imposes on the
// properties of the upstream buffer(s) feeding the ports in InputMask.
type InputConstraint struct {
	Property  SignalProperty
	Op        ConstraintOp
	InputMask PortMask
	Operand   uint64
}

// OutputBehavior describes how a filter derives the properties of one of
// its output ports from its input properties.
type OutputBehavior struct {
	Property   SignalProperty
	Op         BehaviorOp
	OutputMask PortMask
	Operand    uint64
}

// FilterContract is the pair of declared input constraints and output
// behaviors a Filter subtype registers during Init, bounded by
// MaxConstraints/MaxBehaviors.
type FilterContract struct {
	Constraints  [MaxConstraints]InputConstraint
	NConstraints int
	Behaviors    [MaxBehaviors]OutputBehavior
	NBehaviors   int
}

// AppendConstraint grows c.Constraints in place. Returns CodeInvalidConfig
// if c already holds MaxConstraints entries.
func (c *FilterContract) AppendConstraint(ic InputConstraint) error {
	if c.NConstraints >= MaxConstraints {
		return CodeInvalidConfig.Errf("contract already holds max %d input constraints", MaxConstraints)
	}
	if !ic.Property.valid() {
		return CodeInvalidConfig.Errf("unknown property %d in constraint", ic.Property)
	}
	c.Constraints[c.NConstraints] = ic
	c.NConstraints++
	return nil
}

// AppendBehavior grows c.Behaviors in place. Returns CodeInvalidConfig if
// c already holds MaxBehaviors entries.
func (c *FilterContract) AppendBehavior(ob OutputBehavior) error {
	if c.NBehaviors >= MaxBehaviors {
		return CodeInvalidConfig.Errf("contract already holds max %d output behaviors", MaxBehaviors)
	}
	if !ob.Property.valid() {
		return CodeInvalidConfig.Errf("unknown property %d in behavior", ob.Property)
	}
	c.Behaviors[c.NBehaviors] = ob
	c.NBehaviors++
	return nil
}
