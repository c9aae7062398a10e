package isa

import (
	"errors"
	"fmt"
)

// ErrorKind tags every failure the codec can report. All kinds are locally
// recoverable: entry points return a tagged error and leave no state behind.
type ErrorKind uint8

// Error kinds.
const (
	// ErrUnknownMnemonic means no template resolves the mnemonic at the
	// requested word width.
	ErrUnknownMnemonic ErrorKind = iota

	// ErrOperandParse means an operand substring matched none of the
	// recognized shapes (register, memory, CSR, rounding mode, immediate).
	ErrOperandParse

	// ErrOperandBinding means the operand count was wrong or a required
	// field slot was left unbound.
	ErrOperandBinding

	// ErrImmediateOutOfRange is reported in strict mode when an immediate
	// does not fit its field. The default behavior truncates instead.
	ErrImmediateOutOfRange

	// ErrNoMatchingTemplate means decode found no template whose literal
	// bits match the input word.
	ErrNoMatchingTemplate

	// ErrCatalogIntegrity means two templates in the same scope have
	// overlapping literal patterns; catalog construction aborts.
	ErrCatalogIntegrity

	// ErrBadRecord means a data-source record could not be interpreted
	// (unknown format, malformed encoding, unrecognized category).
	ErrBadRecord
)

var errorKindNames = map[ErrorKind]string{
	ErrUnknownMnemonic:     "unknown mnemonic",
	ErrOperandParse:        "operand parse error",
	ErrOperandBinding:      "operand binding error",
	ErrImmediateOutOfRange: "immediate out of range",
	ErrNoMatchingTemplate:  "no matching template",
	ErrCatalogIntegrity:    "catalog integrity error",
	ErrBadRecord:           "bad catalog record",
}

func (k ErrorKind) String() string {
	if name, ok := errorKindNames[k]; ok {
		return name
	}
	return "unknown error"
}

// Error is the tagged error type shared by the encode and decode paths.
type Error struct {
	Kind   ErrorKind
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Reason)
}

// Is lets errors.Is match against another *Error by kind.
func (e *Error) Is(target error) bool {
	var other *Error
	if errors.As(target, &other) {
		return e.Kind == other.Kind
	}
	return false
}

// KindOf extracts the error kind, or ok=false for foreign errors.
func KindOf(err error) (ErrorKind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

func newError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Reason: fmt.Sprintf(format, args...)}
}

// NewError builds a tagged codec error. The encode and decode packages use
// it to report failures in the shared taxonomy.
func NewError(kind ErrorKind, format string, args ...any) *Error {
	return newError(kind, format, args...)
}
