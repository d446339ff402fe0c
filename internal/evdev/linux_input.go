package evdev

// Linux input plumbing:
// - constants for the event codes the gesture bridge reads
// - ioctl helpers to read ABS axis ranges, device names and optionally EVIOCGRAB
// - state readback (EVIOCGMTSLOTS, EVIOCGKEY) used to resync after SYN_DROPPED
// - parsing input_event stream (16B vs 24B timeval size)

import (
	"encoding/binary"
	"unsafe"

	"golang.org/x/sys/unix"

	"codrawer-gesture-bridge/internal/input"
)

// Minimal Linux input constants
const (
	EV_SYN = 0x00
	EV_KEY = 0x01
	EV_ABS = 0x03
)

// Keys
const (
	KEY_MAX = 0x2ff

	BTN_TOOL_PEN    = 0x140
	BTN_TOOL_RUBBER = 0x141
	BTN_TOUCH       = 0x14A
	BTN_STYLUS      = 0x14B
	BTN_STYLUS2     = 0x14C
	BTN_TOOL_FINGER = 0x145
	BTN_TOOL_QUAD   = 0x14F
)

// ABS axes
const (
	ABS_X        = 0x00
	ABS_Y        = 0x01
	ABS_PRESSURE = 0x18
	ABS_DISTANCE = 0x19

	ABS_MT_SLOT        = 0x2f
	ABS_MT_POSITION_X  = 0x35
	ABS_MT_POSITION_Y  = 0x36
	ABS_MT_TRACKING_ID = 0x39
	ABS_MT_PRESSURE    = 0x3a
)

// SYN codes
const (
	SYN_REPORT  = 0x00
	SYN_DROPPED = 0x03
)

// rawEvent is one decoded input_event.
type rawEvent struct {
	Time  float64 // seconds, from the kernel timeval
	Type  uint16
	Code  uint16
	Value int32
}

type absInfo struct {
	Value      int32
	Min        int32
	Max        int32
	Fuzz       int32
	Flat       int32
	Resolution int32
}

type absRanges struct {
	xMin, xMax int32
	yMin, yMax int32
}

// ioctl request encoding (Linux _IOC macro)
const (
	iocNRBits   = 8
	iocTypeBits = 8
	iocSizeBits = 14
	iocDirBits  = 2

	iocNRShift   = 0
	iocTypeShift = iocNRShift + iocNRBits
	iocSizeShift = iocTypeShift + iocTypeBits
	iocDirShift  = iocSizeShift + iocSizeBits

	iocWrite = 1
	iocRead  = 2
)

func ioc(dir uint32, typ uint32, nr uint32, size uint32) uintptr {
	return uintptr((dir << iocDirShift) | (typ << iocTypeShift) | (nr << iocNRShift) | (size << iocSizeShift))
}

func evioCGAbs(absCode int) uintptr {
	// EVIOCGABS(abs) = _IOR('E', 0x40 + abs, struct input_absinfo)
	return ioc(iocRead, uint32('E'), uint32(0x40+absCode), uint32(unsafe.Sizeof(absInfo{})))
}

func evioCGrab() uintptr {
	// EVIOCGRAB = _IOW('E', 0x90, int)
	return ioc(iocWrite, uint32('E'), uint32(0x90), uint32(unsafe.Sizeof(int32(0))))
}

func evioCGName(size int) uintptr {
	// EVIOCGNAME(len) = _IOC(_IOC_READ, 'E', 0x06, len)
	return ioc(iocRead, uint32('E'), 0x06, uint32(size))
}

func evioCGMTSlots(size int) uintptr {
	// EVIOCGMTSLOTS(len) = _IOC(_IOC_READ, 'E', 0x0a, len)
	return ioc(iocRead, uint32('E'), 0x0a, uint32(size))
}

func evioCGKey(size int) uintptr {
	// EVIOCGKEY(len) = _IOC(_IOC_READ, 'E', 0x18, len)
	return ioc(iocRead, uint32('E'), 0x18, uint32(size))
}

func getAbsInfo(fd int, absCode int) (absInfo, error) {
	var info absInfo
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), evioCGAbs(absCode), uintptr(unsafe.Pointer(&info)))
	if errno != 0 {
		return absInfo{}, errno
	}
	return info, nil
}

// getRanges prefers the multi-touch axes and falls back to the single-touch
// ones. Unknown axes keep the fallback range.
func getRanges(fd int, fallback absRanges) absRanges {
	r := fallback
	if x, err := getAbsInfo(fd, ABS_MT_POSITION_X); err == nil && x.Max > x.Min {
		r.xMin, r.xMax = x.Min, x.Max
	} else if x, err := getAbsInfo(fd, ABS_X); err == nil && x.Max > x.Min {
		r.xMin, r.xMax = x.Min, x.Max
	}
	if y, err := getAbsInfo(fd, ABS_MT_POSITION_Y); err == nil && y.Max > y.Min {
		r.yMin, r.yMax = y.Min, y.Max
	} else if y, err := getAbsInfo(fd, ABS_Y); err == nil && y.Max > y.Min {
		r.yMin, r.yMax = y.Min, y.Max
	}
	return r
}

func getName(fd int) (string, error) {
	buf := make([]byte, 256)
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), evioCGName(len(buf)), uintptr(unsafe.Pointer(&buf[0])))
	if errno != 0 {
		return "", errno
	}
	n := 0
	for n < len(buf) && buf[n] != 0 {
		n++
	}
	return string(buf[:n]), nil
}

// maxSlots caps the EVIOCGMTSLOTS buffer; panels report far fewer.
const maxSlots = 64

// getMTSlots returns the value of an ABS_MT_* axis for slots [0, n).
func getMTSlots(fd int, code uint32, n int) ([]int32, error) {
	// struct input_mt_request_layout { __u32 code; __s32 values[n]; }
	buf := make([]int32, n+1)
	buf[0] = int32(code)
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), evioCGMTSlots(len(buf)*4), uintptr(unsafe.Pointer(&buf[0])))
	if errno != 0 {
		return nil, errno
	}
	return buf[1:], nil
}

// getKeys returns the set of currently pressed key codes.
func getKeys(fd int) (map[uint16]bool, error) {
	bits := make([]byte, KEY_MAX/8+1)
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), evioCGKey(len(bits)), uintptr(unsafe.Pointer(&bits[0])))
	if errno != 0 {
		return nil, errno
	}
	down := make(map[uint16]bool)
	for code := range len(bits) * 8 {
		if bits[code/8]&(1<<(code%8)) != 0 {
			down[uint16(code)] = true
		}
	}
	return down, nil
}

// readState reads back contacts and pressed keys. Devices without
// ABS_MT_SLOT report a single contact in slot 0 while BTN_TOUCH is held.
func readState(fd int) (deviceState, error) {
	keys, err := getKeys(fd)
	if err != nil {
		return deviceState{}, err
	}
	st := deviceState{slots: make(map[int32]slotSnapshot), keys: make(map[input.ButtonCode]bool)}
	for code := range keys {
		st.keys[input.ButtonCode(code)] = true
	}

	slot, err := getAbsInfo(fd, ABS_MT_SLOT)
	if err != nil || slot.Max <= slot.Min {
		if keys[BTN_TOUCH] {
			x, _ := getAbsInfo(fd, ABS_X)
			y, _ := getAbsInfo(fd, ABS_Y)
			st.slots[0] = slotSnapshot{x: x.Value, y: y.Value}
		}
		return st, nil
	}

	n := min(int(slot.Max)+1, maxSlots)
	ids, err := getMTSlots(fd, ABS_MT_TRACKING_ID, n)
	if err != nil {
		return deviceState{}, err
	}
	xs, err := getMTSlots(fd, ABS_MT_POSITION_X, n)
	if err != nil {
		return deviceState{}, err
	}
	ys, err := getMTSlots(fd, ABS_MT_POSITION_Y, n)
	if err != nil {
		return deviceState{}, err
	}
	st.mt, st.curSlot = true, slot.Value
	for i := range n {
		if ids[i] >= 0 {
			st.slots[int32(i)] = slotSnapshot{track: ids[i], x: xs[i], y: ys[i]}
		}
	}
	return st, nil
}

func tryGrab(fd int) {
	var one int32 = 1
	_, _, _ = unix.Syscall(unix.SYS_IOCTL, uintptr(fd), evioCGrab(), uintptr(unsafe.Pointer(&one)))
}

// inputParser parses Linux input_event structs from a stream.
// Kernel uses different struct size depending on timeval size (32-bit vs 64-bit).
type inputParser struct {
	buf []byte
	sz  int // 0 unknown, else 16 or 24
}

func (p *inputParser) feed(chunk []byte, cb func(rawEvent)) {
	p.buf = append(p.buf, chunk...)
	if p.sz == 0 {
		if len(p.buf) >= 48 && len(p.buf)%24 == 0 {
			p.sz = 24
		} else if len(p.buf) >= 32 && len(p.buf)%16 == 0 {
			p.sz = 16
		} else if len(p.buf) >= 24 {
			// fallback: assume 24 on 64-bit devices
			p.sz = 24
		}
	}
	for p.sz != 0 && len(p.buf) >= p.sz {
		ev := p.buf[:p.sz]
		p.buf = p.buf[p.sz:]
		var out rawEvent
		if p.sz == 24 {
			sec := int64(binary.LittleEndian.Uint64(ev[0:8]))
			usec := int64(binary.LittleEndian.Uint64(ev[8:16]))
			out.Time = float64(sec) + float64(usec)/1e6
			out.Type = binary.LittleEndian.Uint16(ev[16:18])
			out.Code = binary.LittleEndian.Uint16(ev[18:20])
			out.Value = int32(binary.LittleEndian.Uint32(ev[20:24]))
		} else {
			sec := int32(binary.LittleEndian.Uint32(ev[0:4]))
			usec := int32(binary.LittleEndian.Uint32(ev[4:8]))
			out.Time = float64(sec) + float64(usec)/1e6
			out.Type = binary.LittleEndian.Uint16(ev[8:10])
			out.Code = binary.LittleEndian.Uint16(ev[10:12])
			out.Value = int32(binary.LittleEndian.Uint32(ev[12:16]))
		}
		cb(out)
	}
}
