package eventstream

import (
	"errors"
	"fmt"
)

// ErrorKind classifies wire decode failures per CONTRACT_WIRE.md.
type ErrorKind int

const (
	// KindStructural marks violations of declared lengths or layout:
	// impossible frame lengths, header blocks that overrun or underrun
	// their declared region, unknown header value tags.
	KindStructural ErrorKind = iota
	// KindChecksum marks a prelude or message CRC mismatch.
	KindChecksum
	// KindTruncated marks a source that ended mid-frame.
	KindTruncated
)

func (k ErrorKind) String() string {
	switch k {
	case KindStructural:
		return "structural"
	case KindChecksum:
		return "checksum"
	case KindTruncated:
		return "truncated"
	default:
		return "unknown"
	}
}

// Error describes a wire decode failure. Every kind is fatal to the
// byte sequence that produced it: once a frame boundary is unreliable
// no further frames are extracted from the same stream.
type Error struct {
	Kind ErrorKind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("eventstream %s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("eventstream %s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// IsStructural reports whether err is an Error of kind structural.
func IsStructural(err error) bool { return kindIs(err, KindStructural) }

// IsChecksum reports whether err is an Error of kind checksum.
func IsChecksum(err error) bool { return kindIs(err, KindChecksum) }

// IsTruncated reports whether err is an Error of kind truncated.
func IsTruncated(err error) bool { return kindIs(err, KindTruncated) }

func kindIs(err error, kind ErrorKind) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind == kind
	}
	return false
}

func structuralf(format string, args ...any) *Error {
	return &Error{Kind: KindStructural, Msg: fmt.Sprintf(format, args...)}
}

func checksumf(section string, declared, computed uint32) *Error {
	return &Error{
		Kind: KindChecksum,
		Msg:  fmt.Sprintf("%s CRC mismatch: frame declares 0x%08x, computed 0x%08x", section, declared, computed),
	}
}

func truncatedf(format string, args ...any) *Error {
	return &Error{Kind: KindTruncated, Msg: fmt.Sprintf(format, args...)}
}
