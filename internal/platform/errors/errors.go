package errors

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindConfig         Kind = "config"
	KindConnect        Kind = "connect"
	KindConnectTimeout Kind = "connect_timeout"
	KindRejectedConfig Kind = "rejected_config"
	KindTruncatedFrame Kind = "truncated_frame"
	KindCompression    Kind = "compression"
	KindPayloadDecode  Kind = "payload_decode"
	KindProtocol       Kind = "protocol"
	KindReceiveTimeout Kind = "receive_timeout"
	KindServer         Kind = "server"
	KindTransport      Kind = "transport"
	KindCancelled      Kind = "cancelled"
	KindUnknown        Kind = "unknown"
)

type Error struct {
	Kind    Kind
	Op      string
	Message string
	Code    int32 // server-supplied status code, zero when not applicable
	Cause   error
}

func (e *Error) Error() string {
	switch {
	case e.Cause != nil:
		return fmt.Sprintf("[%s:%s] %s: %v", e.Kind, e.Op, e.Message, e.Cause)
	case e.Code != 0:
		return fmt.Sprintf("[%s:%s] %s (code %d)", e.Kind, e.Op, e.Message, e.Code)
	}
	return fmt.Sprintf("[%s:%s] %s", e.Kind, e.Op, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func Wrap(kind Kind, op, message string, err error) *Error {
	if err == nil {
		return nil
	}

	var typed *Error
	if errors.As(err, &typed) {
		return typed
	}

	return &Error{
		Kind:    kind,
		Op:      op,
		Message: message,
		Cause:   err,
	}
}

func New(kind Kind, op, message string) *Error {
	return &Error{
		Kind:    kind,
		Op:      op,
		Message: message,
	}
}

// NewServer builds an error carrying a status code reported by the remote service.
func NewServer(kind Kind, op, message string, code int32) *Error {
	return &Error{
		Kind:    kind,
		Op:      op,
		Message: message,
		Code:    code,
	}
}

// IsKind checks whether any error in the chain matches the provided kind.
func IsKind(err error, kind Kind) bool {
	var target *Error
	for err != nil {
		if errors.As(err, &target) {
			return target.Kind == kind
		}
		err = errors.Unwrap(err)
	}
	return false
}

// ServerCode extracts the remote status code from an error chain, if present.
func ServerCode(err error) (int32, bool) {
	var target *Error
	if errors.As(err, &target) && target.Code != 0 {
		return target.Code, true
	}
	return 0, false
}
