package evdev

import "errors"

// ErrNoDevice indicates no usable /dev/input/event* node was found.
var ErrNoDevice = errors.New("no input device found")

// ErrDeviceGone indicates the device node reached EOF, usually because it was unplugged or closed.
var ErrDeviceGone = errors.New("input device gone")
