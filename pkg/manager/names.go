package manager

import (
	"errors"
	"fmt"
)

// MaxInterfaceNameLength is the longest interface name the kernel accepts
// (IFNAMSIZ less the trailing NUL). It applies to both create and delete.
const MaxInterfaceNameLength = 15

// ValidateInterfaceName returns an *Error of kind ErrInvalidName if name
// can't be used for a WireGuard interface.
func ValidateInterfaceName(op, name string) error {
	var reason string
	switch {
	case name == "":
		reason = "interface name is empty"
	case len(name) > MaxInterfaceNameLength:
		reason = fmt.Sprintf("interface name may be at most %d characters; got %d", MaxInterfaceNameLength, len(name))
	default:
		for _, c := range name {
			if !isNameChar(c) {
				reason = fmt.Sprintf("contains %q; only letters, digits and _ are allowed", c)
				break
			}
		}
	}
	if reason == "" {
		return nil
	}
	return &Error{
		Kind: ErrInvalidName,
		Op:   op,
		Name: name,
		Err:  errors.New(reason),
	}
}

func isNameChar(c rune) bool {
	return c == '_' ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9')
}
