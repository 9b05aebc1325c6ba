package wireguard

import "strconv"

// ResultCode is the numeric status returned by control surface operations
// which mutate a device.
type ResultCode int

const (
	// ResultOK indicates success.
	ResultOK ResultCode = 0
	// ResultAddFailed indicates the device could not be created or found.
	ResultAddFailed ResultCode = -1
	// ResultConfigureFailed indicates the device exists but the configuration
	// could not be applied.
	ResultConfigureFailed ResultCode = -2
)

func (c ResultCode) String() string {
	switch c {
	case ResultOK:
		return "ok"
	case ResultAddFailed:
		return "add failed"
	case ResultConfigureFailed:
		return "configure failed"
	default:
		return "code " + strconv.Itoa(int(c))
	}
}
