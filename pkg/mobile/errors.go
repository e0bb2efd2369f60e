package mobile

import "errors"

var (
	ErrInvalidDevicePattern = errors.New("invalid device pattern")
	ErrInvalidDeviceName    = errors.New("invalid device name")
	ErrInvalidUserAgentList = errors.New("invalid mobile user agent list")
)
