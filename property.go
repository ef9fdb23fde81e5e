// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bpipe

// SignalProperty indexes a known, fixed slot in a PropertyTable. The
// built-in set covers dtype, batch-capacity bounds, and sample
// period; adding a property means adding a constant here and nowhere
// else — PropertyTable is sized off numSignalProperties.
type SignalProperty int

const (
	PropDataType SignalProperty = iota
	PropMinBatchCapacity
	PropMaxBatchCapacity
	PropSamplePeriodNs
	numSignalProperties
)

var signalPropertyNames = [...]string{
	PropDataType:         "DATA_TYPE",
	PropMinBatchCapacity: "MIN_BATCH_CAPACITY",
	PropMaxBatchCapacity: "MAX_BATCH_CAPACITY",
	PropSamplePeriodNs:   "SAMPLE_PERIOD_NS",
}

func (p SignalProperty) String() string {
	if p >= 0 && int(p) < len(signalPropertyNames) {
		return signalPropertyNames[p]
	}
	return "PROPERTY(?)"
}

func (p SignalProperty) valid() bool {
	return p >= 0 && p < numSignalProperties
}

// propEntry holds one property's value. DType values are stored widened
// to uint64 so every property shares one storage representation; typed
// accessors on PropertyTable narrow back to the right Go type by
// property identity.
type propEntry struct {
	known bool
	value uint64
}

// PropertyTable is a fixed-indexed record, one entry per SignalProperty.
// The zero value is "nothing known", which is also the starting point
// for propagation over a source filter.
type PropertyTable struct {
	entries [numSignalProperties]propEntry
}

// Known reports whether p has been set in t.
func (t PropertyTable) Known(p SignalProperty) bool {
	if !p.valid() {
		return false
	}
	return t.entries[p].known
}

// Raw returns the raw stored value and whether p is known, without
// narrowing to a specific Go type.
func (t PropertyTable) Raw(p SignalProperty) (uint64, bool) {
	if !p.valid() {
		return 0, false
	}
	e := t.entries[p]
	return e.value, e.known
}

// SetRaw stores a raw value for p.
func (t *PropertyTable) SetRaw(p SignalProperty, v uint64) {
	if !p.valid() {
		return
	}
	t.entries[p] = propEntry{known: true, value: v}
}

// Unset marks p as unknown.
func (t *PropertyTable) Unset(p SignalProperty) {
	if !p.valid() {
		return
	}
	t.entries[p] = propEntry{}
}

// DType returns PropDataType narrowed to a DType.
func (t PropertyTable) DType() (DType, bool) {
	v, ok := t.Raw(PropDataType)
	return DType(v), ok
}

// SetDType sets PropDataType.
func (t *PropertyTable) SetDType(v DType) {
	t.SetRaw(PropDataType, uint64(v))
}

// U32 narrows a property's raw value to uint32 (used for the batch
// capacity properties).
func (t PropertyTable) U32(p SignalProperty) (uint32, bool) {
	v, ok := t.Raw(p)
	return uint32(v), ok
}

// SetU32 stores a uint32 value for p.
func (t *PropertyTable) SetU32(p SignalProperty, v uint32) {
	t.SetRaw(p, uint64(v))
}

// U64 narrows a property's raw value to uint64 (used for sample period).
func (t PropertyTable) U64(p SignalProperty) (uint64, bool) {
	return t.Raw(p)
}

// SetU64 stores a uint64 value for p.
func (t *PropertyTable) SetU64(p SignalProperty, v uint64) {
	t.SetRaw(p, v)
}

// PropFromBufferConfig extracts {DATA_TYPE, MIN_BATCH_CAPACITY,
// MAX_BATCH_CAPACITY} from a buffer configuration. Sample period is not derivable from a buffer config alone and must be
// set separately by the owning filter.
func PropFromBufferConfig(cfg BuffConfig) PropertyTable {
	var t PropertyTable
	t.SetDType(cfg.DType)
	cap32 := cfg.BatchCapacity()
	t.SetU32(PropMinBatchCapacity, cap32)
	t.SetU32(PropMaxBatchCapacity, cap32)
	return t
}

// RateToPeriodNs converts a sample rate in Hz to a period in nanoseconds.
// 0 is reserved for variable/unknown rate and maps to 0.
func RateToPeriodNs(rateHz uint64) uint64 {
	if rateHz == 0 {
		return 0
	}
	return 1_000_000_000 / rateHz
}

// PeriodNsToRate converts a sample period in nanoseconds to a rate in
// Hz. 0 is reserved for variable/unknown period and maps to 0.
func PeriodNsToRate(periodNs uint64) uint64 {
	if periodNs == 0 {
		return 0
	}
	return 1_000_000_000 / periodNs
}
