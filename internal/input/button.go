package input

import (
	"fmt"
	"strconv"
	"strings"
)

// ButtonCode identifies a physical button. Known device keys have names;
// anything else is carried as the raw evdev key code.
type ButtonCode uint16

// Linux key codes of the buttons found on e-ink readers and their styluses.
const (
	ButtonLight     ButtonCode = 90  // KEY_KATAKANA, repurposed as frontlight on Kobo
	ButtonHome      ButtonCode = 102 // KEY_HOME
	ButtonLeft      ButtonCode = 105 // KEY_LEFT
	ButtonRight     ButtonCode = 106 // KEY_RIGHT
	ButtonPower     ButtonCode = 116 // KEY_POWER
	ButtonBackward  ButtonCode = 193 // KEY_F23
	ButtonForward   ButtonCode = 194 // KEY_F24
	ButtonErase     ButtonCode = 331 // BTN_STYLUS
	ButtonHighlight ButtonCode = 332 // BTN_STYLUS2
)

var buttonNames = map[ButtonCode]string{
	ButtonLight:     "light",
	ButtonHome:      "home",
	ButtonLeft:      "left",
	ButtonRight:     "right",
	ButtonPower:     "power",
	ButtonBackward:  "backward",
	ButtonForward:   "forward",
	ButtonErase:     "erase",
	ButtonHighlight: "highlight",
}

// Known reports whether c has a symbolic name.
func (c ButtonCode) Known() bool {
	_, ok := buttonNames[c]
	return ok
}

func (c ButtonCode) String() string {
	if s, ok := buttonNames[c]; ok {
		return s
	}
	return "key" + strconv.Itoa(int(c))
}

func (c ButtonCode) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

func (c *ButtonCode) UnmarshalText(b []byte) error {
	s := string(b)
	for k, v := range buttonNames {
		if v == s {
			*c = k
			return nil
		}
	}
	n, err := strconv.ParseUint(strings.TrimPrefix(s, "key"), 10, 16)
	if err != nil {
		return fmt.Errorf("input: unknown button %q", s)
	}
	*c = ButtonCode(n)
	return nil
}
