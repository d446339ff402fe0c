package evdev

// Input device selection helpers.
//
// E-ink readers expose the touch panel and the hardware keys as separate
// /dev/input/eventX nodes. We support:
// - listing /proc/bus/input/devices (for debugging)
// - picking the touch panel and key devices by name
// - "probing" each event node for multi-touch activity when names don't help

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"time"
	"unicode"

	"golang.org/x/sys/unix"
)

const procDevices = "/proc/bus/input/devices"

// DeviceInfo is one block of /proc/bus/input/devices.
type DeviceInfo struct {
	Name     string
	Handlers []string
}

// EventPath returns the /dev/input/eventN node of the device, if any.
func (i DeviceInfo) EventPath() string {
	for _, h := range i.Handlers {
		if strings.HasPrefix(h, "event") {
			return "/dev/input/" + h
		}
	}
	return ""
}

// ListDevices parses /proc/bus/input/devices.
func ListDevices() ([]DeviceInfo, error) {
	f, err := os.Open(procDevices)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return parseProcDevices(f)
}

func parseProcDevices(r io.Reader) ([]DeviceInfo, error) {
	var out []DeviceInfo
	var info DeviceInfo
	flushBlock := func() {
		if info.Name != "" || len(info.Handlers) > 0 {
			out = append(out, info)
		}
		info = DeviceInfo{}
	}

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := sc.Text()
		switch {
		case strings.TrimSpace(line) == "":
			flushBlock()
		case strings.HasPrefix(line, "N: Name="):
			parts := strings.SplitN(line, "=", 2)
			info.Name = strings.Trim(parts[1], " \"")
		case strings.HasPrefix(line, "H: Handlers="):
			parts := strings.SplitN(line, "=", 2)
			info.Handlers = strings.Fields(parts[1])
		}
	}
	flushBlock()
	return out, sc.Err()
}

var (
	touchHints = []string{"touch", "cyttsp", "pt_mt", "zforce", "elan", "goodix", "ektf"}
	keyHints   = []string{"gpio-keys", "gpio_keys", "keys", "pwrkey", "power", "button"}
)

func touchScore(name string) int {
	ln := strings.ToLower(name)
	score := 0
	for i, h := range touchHints {
		if strings.Contains(ln, h) {
			score += len(touchHints) - i
		}
	}
	// Styluses also report ABS axes; never pick them for fingers.
	if strings.Contains(ln, "stylus") || strings.Contains(ln, "wacom") || strings.Contains(ln, "marker") || hasWord(ln, "pen") {
		score -= 100
	}
	return score
}

// hasWord reports whether w appears in s as a whole alphanumeric token, so
// "pen" matches "usb pen" and "hid-pen" but not "penmount" or "open".
func hasWord(s, w string) bool {
	words := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	return slices.Contains(words, w)
}

func isKeyDevice(name string) bool {
	ln := strings.ToLower(name)
	for _, h := range keyHints {
		if strings.Contains(ln, h) {
			return true
		}
	}
	return false
}

// Selection is the set of nodes the bridge reads.
type Selection struct {
	Touch   string
	Buttons []string
}

// Paths returns every selected node, touch first.
func (s Selection) Paths() []string {
	var out []string
	if s.Touch != "" {
		out = append(out, s.Touch)
	}
	return append(out, s.Buttons...)
}

// PickDevices chooses by name from infos. Explicit paths always win.
func PickDevices(infos []DeviceInfo, explicitTouch string, explicitButtons []string) Selection {
	sel := Selection{Touch: explicitTouch, Buttons: explicitButtons}

	bestScore := 0
	for _, info := range infos {
		path := info.EventPath()
		if path == "" {
			continue
		}
		if explicitTouch == "" {
			if s := touchScore(info.Name); s > bestScore {
				bestScore = s
				sel.Touch = path
			}
		}
		if len(explicitButtons) == 0 && isKeyDevice(info.Name) {
			sel.Buttons = append(sel.Buttons, path)
		}
	}
	sort.Strings(sel.Buttons)
	return sel
}

// SelectDevices picks the touch and key devices. When no touch device can be
// recognized by name, every event node is probed for probeDur and the one
// with the most multi-touch activity wins (touch the screen during this!).
func SelectDevices(explicitTouch string, explicitButtons []string, probeDur time.Duration, log *slog.Logger) (Selection, error) {
	infos, err := ListDevices()
	if err != nil {
		log.Warn("cannot read device list", "err", err)
	}
	sel := PickDevices(infos, explicitTouch, explicitButtons)
	if sel.Touch != "" {
		return sel, nil
	}

	path, err := autoDetectTouch(probeDur, log)
	if err != nil {
		return sel, err
	}
	sel.Touch = path
	return sel, nil
}

type devProbe struct {
	path    string
	mtSlot  int
	mtPos   int
	mtTrack int
	absXY   int
	touch   int
	any     int
}

func (p devProbe) score() int {
	// Prefer multi-touch traffic. Any activity beats none.
	return p.any + 8*p.mtPos + 8*p.mtTrack + 4*p.mtSlot + 3*p.absXY + 3*p.touch
}

func (p *devProbe) count(ev rawEvent) {
	p.any++
	switch ev.Type {
	case EV_ABS:
		switch ev.Code {
		case ABS_MT_SLOT:
			p.mtSlot++
		case ABS_MT_POSITION_X, ABS_MT_POSITION_Y:
			p.mtPos++
		case ABS_MT_TRACKING_ID:
			p.mtTrack++
		case ABS_X, ABS_Y:
			p.absXY++
		}
	case EV_KEY:
		if ev.Code == BTN_TOUCH {
			p.touch++
		}
	}
}

func probeDevice(path string, dur time.Duration) (devProbe, error) {
	out := devProbe{path: path}
	f, err := os.Open(path)
	if err != nil {
		return out, err
	}
	defer f.Close()
	fd := int(f.Fd())

	if err := unix.SetNonblock(fd, true); err != nil {
		return out, err
	}

	reader := bufio.NewReaderSize(f, 4096)
	parser := &inputParser{}
	deadline := time.Now().Add(dur)

	for time.Now().Before(deadline) {
		pfd := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}
		_, _ = unix.Poll(pfd, 50)
		if pfd[0].Revents&unix.POLLIN == 0 {
			continue
		}
		buf := make([]byte, 4096)
		n, err := reader.Read(buf)
		if err != nil || n == 0 {
			continue
		}
		parser.feed(buf[:n], out.count)
	}
	return out, nil
}

func autoDetectTouch(probeDur time.Duration, log *slog.Logger) (string, error) {
	matches, _ := filepath.Glob("/dev/input/event*")
	if len(matches) == 0 {
		return "", ErrNoDevice
	}
	sort.Strings(matches)

	bestScore := -1
	best := devProbe{path: matches[0]}
	for _, p := range matches {
		pr, err := probeDevice(p, probeDur)
		if err != nil {
			continue
		}
		s := pr.score()
		log.Debug("probe", "path", p, "score", s, "any", pr.any, "mt_pos", pr.mtPos, "mt_track", pr.mtTrack, "abs_xy", pr.absXY)
		if s > bestScore {
			bestScore = s
			best = pr
		}
	}
	if bestScore <= 0 {
		return "", fmt.Errorf("%w: no touch activity seen while probing %d nodes", ErrNoDevice, len(matches))
	}
	log.Debug("selected touch device", "path", best.path, "score", best.score())
	return best.path, nil
}
