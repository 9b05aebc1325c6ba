package manager

import (
	"errors"
	"fmt"

	"github.com/jcodybaker/wgbridge/pkg/wireguard"
)

var (
	// ErrInvalidName is returned when an interface name is empty, too long, or
	// contains characters other than ASCII letters, digits and underscore.
	ErrInvalidName = errors.New("interface name is invalid")
	// ErrInvalidConfig is returned when a create request can't be applied.
	ErrInvalidConfig = errors.New("interface config is invalid")
	// ErrDeviceCreateFailed is returned when the bare device can't be created.
	ErrDeviceCreateFailed = errors.New("unable to add device")
	// ErrDeviceConfigureFailed is returned when the device was created but its
	// configuration couldn't be applied.
	ErrDeviceConfigureFailed = errors.New("unable to set device")
	// ErrDeviceDeleteFailed is returned when an existing device couldn't be
	// deleted.
	ErrDeviceDeleteFailed = errors.New("delete interface failed")
	// ErrNotFoundOrSystem is returned when a named interface couldn't be read.
	// The control surface doesn't distinguish a missing device from other
	// failures.
	ErrNotFoundOrSystem = errors.New("interface not found or inaccessible")
	// ErrUnspecifiedFailure is returned for result codes with no known meaning.
	ErrUnspecifiedFailure = errors.New("unspecified control surface failure")
)

// Error describes a failed manager operation. Kind is one of the Err* values
// in this package and can be matched with errors.Is.
type Error struct {
	Kind error
	Op   string
	Name string
	// Code is the raw control surface result, or ResultOK when the failure
	// didn't come with one.
	Code wireguard.ResultCode
	// Err is the underlying cause, if any.
	Err error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s %q: %v", e.Op, e.Name, e.Kind)
	if e.Code != wireguard.ResultOK {
		msg = fmt.Sprintf("%s, return code: %d", msg, int(e.Code))
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Is reports whether target is the Kind of this error.
func (e *Error) Is(target error) bool {
	return target == e.Kind
}

func (e *Error) Unwrap() error {
	return e.Err
}

// setupError maps a SetupInterface result onto the error taxonomy.
func setupError(name string, code wireguard.ResultCode, cause error) error {
	e := &Error{Op: "create", Name: name, Code: code, Err: cause}
	switch code {
	case wireguard.ResultOK:
		if cause == nil {
			return nil
		}
		e.Kind = ErrUnspecifiedFailure
	case wireguard.ResultAddFailed:
		e.Kind = ErrDeviceCreateFailed
	case wireguard.ResultConfigureFailed:
		e.Kind = ErrDeviceConfigureFailed
	default:
		e.Kind = ErrUnspecifiedFailure
	}
	return e
}
