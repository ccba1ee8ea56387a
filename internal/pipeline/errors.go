package pipeline

import (
	"errors"
)

type Kind int

const (
	KindUnknown Kind = iota
	KindInputRead
	KindImageDecode
	KindGridBuild
	KindIndexOutOfRange
	KindOutputWrite
)

func (k Kind) String() string {
	switch k {
	case KindInputRead:
		return "input read"
	case KindImageDecode:
		return "image decode"
	case KindGridBuild:
		return "grid build"
	case KindIndexOutOfRange:
		return "index out of range"
	case KindOutputWrite:
		return "output write"
	default:
		return "unknown"
	}
}

func (k Kind) message() string {
	switch k {
	case KindInputRead:
		return "Failed to read line"
	case KindImageDecode:
		return "Failed to open image"
	case KindGridBuild, KindIndexOutOfRange:
		return "Failed to build grid"
	case KindOutputWrite:
		return "Failed to write csv"
	default:
		return "Failed"
	}
}

// Error tags a stage failure with its kind. Every Error is fatal to the run.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return e.Kind.message() + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return KindUnknown
}
