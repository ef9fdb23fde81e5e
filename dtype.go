// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bpipe

// DType identifies the element type stored in a batch's sample data.
// DTypeUndefined is a sentinel: a configured buffer must carry a defined
// dtype, and property tables use it to mean "unknown" where a value is
// absent.
type DType uint8

const (
	DTypeUndefined DType = iota
	DTypeF32
	DTypeI32
	DTypeU32
)

var dtypeWidths = [...]uint32{
	DTypeUndefined: 0,
	DTypeF32:       4,
	DTypeI32:       4,
	DTypeU32:       4,
}

var dtypeNames = [...]string{
	DTypeUndefined: "undefined",
	DTypeF32:       "f32",
	DTypeI32:       "i32",
	DTypeU32:       "u32",
}

// Width returns the size in bytes of one sample of this dtype. Returns 0
// for DTypeUndefined.
func (t DType) Width() uint32 {
	if int(t) < len(dtypeWidths) {
		return dtypeWidths[t]
	}
	return 0
}

// Valid reports whether t is a defined, known dtype.
func (t DType) Valid() bool {
	return t != DTypeUndefined && int(t) < len(dtypeNames)
}

func (t DType) String() string {
	if int(t) < len(dtypeNames) {
		return dtypeNames[t]
	}
	return "dtype(?)"
}
