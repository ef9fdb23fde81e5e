// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bpipe

import (
	"fmt"
	"runtime"

	"code.hybscloud.com/iox"
)

// Code is a canonical status/error code shared by every component of the
// framework: the batch ring buffer, the filter runtime, and the
// signal-property system all report through the same taxonomy so a
// diagnostic record never needs a second enum.
type Code int32

// Status codes. OK is the zero value so a freshly zeroed Diagnostic reads
// as "no error" without explicit initialization.
const (
	CodeOK Code = iota
	CodeComplete
	CodeStopped

	// Flow control.
	CodeTimeout
	CodePthreadUnknown // condvar wait failed for a reason other than timeout
	CodeFilterStopping

	// Buffer I/O.
	CodeNoInput
	CodeNoSpace
	CodeGetHeadNull
	CodeBufferEmpty

	// Type / capacity contract.
	CodeTypeMismatch
	CodeDTypeMismatch
	CodeWidthMismatch
	CodeCapacityMismatch
	CodeDTypeInvalid
	CodeInvalidDType
	CodePropertyMismatch

	// Resource / init failures.
	CodeCondInitFail
	CodeMutexInitFail
	CodeMallocFail
	CodeMemcpyFail
	CodeMemsetFail

	// Nil / argument errors.
	CodeNullFilter
	CodeNullBuff
	CodeNullPointer

	// Filter lifecycle.
	CodeAlreadyRunning
	CodeThreadCreateFail
	CodeThreadCreateNameFail
	CodeThreadJoinFail

	// Configuration.
	CodeInvalidConfig
	CodeInvalidConfigWorker
	CodeInvalidConfigMaxInputs
	CodeInvalidConfigMaxSinks
	CodeInvalidConfigFilterSize
	CodeInvalidConfigFilterType
	CodeInvalidConfigTimeout
	CodeConfigRequired

	// Sink / connection management.
	CodeConnectionOccupied
	CodeInvalidSinkIdx
	CodeAlreadyRegistered
	CodeNoSink

	// Misc.
	CodeNotImplemented
	CodePhaseError
)

var codeNames = [...]string{
	CodeOK:                      "OK",
	CodeComplete:                "COMPLETE",
	CodeStopped:                 "STOPPED",
	CodeTimeout:                 "TIMEOUT",
	CodePthreadUnknown:          "PTHREAD_UNKNOWN",
	CodeFilterStopping:          "FILTER_STOPPING",
	CodeNoInput:                 "NOINPUT",
	CodeNoSpace:                 "NOSPACE",
	CodeGetHeadNull:             "GET_HEAD_NULL",
	CodeBufferEmpty:             "BUFFER_EMPTY",
	CodeTypeMismatch:            "TYPE_MISMATCH",
	CodeDTypeMismatch:           "DTYPE_MISMATCH",
	CodeWidthMismatch:           "WIDTH_MISMATCH",
	CodeCapacityMismatch:        "CAPACITY_MISMATCH",
	CodeDTypeInvalid:            "DTYPE_INVALID",
	CodeInvalidDType:            "INVALID_DTYPE",
	CodePropertyMismatch:        "PROPERTY_MISMATCH",
	CodeCondInitFail:            "COND_INIT_FAIL",
	CodeMutexInitFail:           "MUTEX_INIT_FAIL",
	CodeMallocFail:              "MALLOC_FAIL",
	CodeMemcpyFail:              "MEMCPY_FAIL",
	CodeMemsetFail:              "MEMSET_FAIL",
	CodeNullFilter:              "NULL_FILTER",
	CodeNullBuff:                "NULL_BUFF",
	CodeNullPointer:             "NULL_POINTER",
	CodeAlreadyRunning:          "ALREADY_RUNNING",
	CodeThreadCreateFail:        "THREAD_CREATE_FAIL",
	CodeThreadCreateNameFail:    "THREAD_CREATE_NAME_FAIL",
	CodeThreadJoinFail:          "THREAD_JOIN_FAIL",
	CodeInvalidConfig:           "INVALID_CONFIG",
	CodeInvalidConfigWorker:     "INVALID_CONFIG_WORKER",
	CodeInvalidConfigMaxInputs:  "INVALID_CONFIG_MAX_INPUTS",
	CodeInvalidConfigMaxSinks:   "INVALID_CONFIG_MAX_SINKS",
	CodeInvalidConfigFilterSize: "INVALID_CONFIG_FILTER_SIZE",
	CodeInvalidConfigFilterType: "INVALID_CONFIG_FILTER_T",
	CodeInvalidConfigTimeout:    "INVALID_CONFIG_TIMEOUT",
	CodeConfigRequired:          "CONFIG_REQUIRED",
	CodeConnectionOccupied:      "CONNECTION_OCCUPIED",
	CodeInvalidSinkIdx:          "INVALID_SINK_IDX",
	CodeAlreadyRegistered:       "ALREADY_REGISTERED",
	CodeNoSink:                  "NO_SINK",
	CodeNotImplemented:          "NOT_IMPLEMENTED",
	CodePhaseError:              "PHASE_ERROR",
}

// String returns the static human-readable name of the code, suitable for
// diagnostics. Unknown codes print as a numeric placeholder rather than
// panicking.
func (c Code) String() string {
	if c >= 0 && int(c) < len(codeNames) && codeNames[c] != "" {
		return codeNames[c]
	}
	return fmt.Sprintf("CODE(%d)", int32(c))
}

// IsStatus reports whether c is a data-plane status rather than a failure:
// OK, COMPLETE, or STOPPED.
func (c Code) IsStatus() bool {
	return c == CodeOK || c == CodeComplete || c == CodeStopped
}

// IsRetryable reports whether a caller should simply try the operation
// again: TIMEOUT is the only retryable code in the taxonomy.
func (c Code) IsRetryable() bool {
	return c == CodeTimeout
}

// IsShutdown reports whether c means the worker should terminate
// gracefully rather than treat the condition as an error.
func (c Code) IsShutdown() bool {
	return c == CodeStopped || c == CodeFilterStopping || c == CodeComplete
}

// Error wraps a Code as a Go error, carrying an optional human-readable
// message for contract-violation and configuration failures.
type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Code.String()
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is allows errors.Is(err, bpipe.CodeX.Err()) style comparisons by code.
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	if !ok {
		return false
	}
	return other.Code == e.Code
}

// Err returns c wrapped as an *Error with no message, or nil for CodeOK.
// Sentinel-style comparisons should use errors.Is against the result.
func (c Code) Err() error {
	if c == CodeOK {
		return nil
	}
	return &Error{Code: c}
}

// Errf returns c wrapped as an *Error carrying a formatted message.
func (c Code) Errf(format string, args ...any) error {
	return &Error{Code: c, Message: fmt.Sprintf(format, args...)}
}

// ErrWouldBlock re-exports iox's semantic "would block" sentinel so
// buffer-adjacent code in this module can participate in the same
// classification helpers the rest of the code.hybscloud.com ecosystem
// uses, without inventing a second one.
var ErrWouldBlock = iox.ErrWouldBlock

// IsWouldBlock reports whether err is iox's semantic would-block signal.
func IsWouldBlock(err error) bool {
	return iox.IsWouldBlock(err)
}

// Diagnostic is a per-worker error record: the first non-OK code a
// worker observes wins and is never overwritten for the lifetime of that
// run. The record is written once, by the worker; readers read it
// lock-free.
type Diagnostic struct {
	Code    Code
	File    string
	Line    int
	Func    string
	Message string
}

// Empty reports whether no diagnostic has been recorded.
func (d Diagnostic) Empty() bool {
	return d.Code == CodeOK
}

func (d Diagnostic) String() string {
	if d.Empty() {
		return "OK"
	}
	loc := fmt.Sprintf("%s:%d", d.File, d.Line)
	if d.Message == "" {
		return fmt.Sprintf("%s at %s (%s)", d.Code, loc, d.Func)
	}
	return fmt.Sprintf("%s at %s (%s): %s", d.Code, loc, d.Func, d.Message)
}

// newDiagnostic captures the caller's location and packs code, file,
// line, function, and optional message into one record. skip is the
// number of additional stack frames to skip above the immediate caller.
func newDiagnostic(code Code, message string, skip int) Diagnostic {
	pc, file, line, ok := runtime.Caller(skip + 1)
	d := Diagnostic{Code: code, Message: message, File: file, Line: line}
	if !ok {
		d.Func = "unknown"
		return d
	}
	if fn := runtime.FuncForPC(pc); fn != nil {
		d.Func = fn.Name()
	}
	return d
}
