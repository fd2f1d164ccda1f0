package voiceerr

import (
	"errors"
	"fmt"
)

// Kind classifies a failure surfaced by the capture or transcription layers.
type Kind int

const (
	Unknown Kind = iota
	Unsupported
	PermissionDenied
	DeviceNotFound
	DeviceBusy
	DeviceOther
	NetworkOrServer
	Aborted
)

func (k Kind) String() string {
	switch k {
	case Unsupported:
		return "unsupported"
	case PermissionDenied:
		return "permission_denied"
	case DeviceNotFound:
		return "device_not_found"
	case DeviceBusy:
		return "device_busy"
	case DeviceOther:
		return "device_other"
	case NetworkOrServer:
		return "network_or_server"
	case Aborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// IsDevice reports whether the kind originates from the capture device.
func (k Kind) IsDevice() bool {
	switch k {
	case Unsupported, PermissionDenied, DeviceNotFound, DeviceBusy, DeviceOther:
		return true
	}
	return false
}

// Retryable reports whether resubmitting the same input may succeed.
// Unclassified errors are assumed transient.
func (k Kind) Retryable() bool {
	return k == NetworkOrServer || k == Unknown
}

// Error carries a kind, the message shown to the user and the raw cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil && e.Message != e.Err.Error() {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func New(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Err: cause}
}

// KindOf returns the kind of the first *Error in err's chain, or Unknown.
func KindOf(err error) Kind {
	var ve *Error
	if errors.As(err, &ve) {
		return ve.Kind
	}
	return Unknown
}

// MessageOf returns the user-facing message for err. Errors that are not
// *Error fall back to err.Error().
func MessageOf(err error) string {
	if err == nil {
		return ""
	}
	var ve *Error
	if errors.As(err, &ve) && ve.Message != "" {
		return ve.Message
	}
	return err.Error()
}

func IsAborted(err error) bool {
	return KindOf(err) == Aborted
}
