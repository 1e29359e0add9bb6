package script

import "fmt"

// FormatError reports a malformed script document. It is fatal at load
// time, before any window or render state exists.
type FormatError struct {
	Msg string
}

func (e *FormatError) Error() string {
	return "script format: " + e.Msg
}

func formatErrorf(format string, args ...any) *FormatError {
	return &FormatError{Msg: fmt.Sprintf(format, args...)}
}

// ReferenceError reports a next/jump target that names no node and is not
// the END sentinel. It surfaces at the moment the transition is attempted.
type ReferenceError struct {
	Target string
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("no such node: %q", e.Target)
}

// MissingAssetError reports an image file that could not be found. Whether
// the condition is fatal depends on the caller: a missing background stops
// the engine, a missing sprite degrades to an on-screen warning.
type MissingAssetError struct {
	Path string
}

func (e *MissingAssetError) Error() string {
	return "missing asset: " + e.Path
}
