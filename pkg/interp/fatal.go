package interp

import "fmt"

// FatalError is an interpreter invariant violation: a contract broken
// elsewhere in the system (OPTIND holding a non-numeric value, PWD bound
// to an array). It is a distinct severity from builtin runtime failures
// and aborts the interpreter rather than producing an exit status.
//
// Fatal errors propagate by panic and are recovered at the top-level loop;
// they are never returned as ordinary errors.
type FatalError struct {
	Msg string
}

func (e *FatalError) Error() string { return e.Msg }

// Fatalf builds a FatalError. Use as panic(Fatalf(...)).
func Fatalf(format string, args ...any) *FatalError {
	return &FatalError{Msg: fmt.Sprintf(format, args...)}
}
