package interfaces

import (
	"errors"
)

var errUnimplemented = errors.New("unimplemented on this platform")

var errDriverNotFound = errors.New("driver not found")

var errLinkNotFound = errors.New("link not found")
